package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"karolbroda.com/ciryl/internal/cache"
)

var (
	// flags for offset list
	offsetSortBy string
	// flags for offset clear
	offsetConfirm bool
)

var offsetCmd = &cobra.Command{
	Use:   "offset",
	Short: "manage per-song sync offsets",
	Long: `per-song sync offsets shift the playback position before the active verse is
chosen. positive values show verses earlier. they add to --sync-offset.`,
}

var offsetListCmd = &cobra.Command{
	Use:   "list",
	Short: "list stored offsets",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.Open("")

		entries, err := store.ListAll()
		if err != nil {
			return fmt.Errorf("failed to list offsets: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("no offsets stored")
			return nil
		}

		sortOffsetEntries(entries, offsetSortBy)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ARTIST\tTITLE\tOFFSET\tUPDATED")
		for _, entry := range entries {
			updated := time.Unix(entry.UpdatedAt, 0).Format("2006-01-02")
			fmt.Fprintf(w, "%s\t%s\t%+dms\t%s\n", entry.Artist, entry.Title, entry.OffsetMs, updated)
		}
		w.Flush()

		fmt.Printf("\ntotal: %d songs\n", len(entries))
		return nil
	},
}

var offsetGetCmd = &cobra.Command{
	Use:   "get <artist> <title>",
	Short: "show the offset of a song",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.Open("")

		entry, err := store.Get(args[0], args[1])
		if err != nil {
			return fmt.Errorf("no offset stored for %s - %s: %w", args[0], args[1], err)
		}

		fmt.Printf("%+dms\n", entry.OffsetMs)
		return nil
	},
}

var offsetSetCmd = &cobra.Command{
	Use:   "set <artist> <title> <ms>",
	Short: "store the offset of a song",
	Long:  `store the offset of a song in milliseconds. put -- before a negative value.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("offset must be whole milliseconds: %w", err)
		}

		store := cache.Open("")
		if err := store.Set(args[0], args[1], ms); err != nil {
			return fmt.Errorf("failed to store offset: %w", err)
		}

		fmt.Printf("offset of '%s - %s' set to %+dms\n", args[0], args[1], ms)
		return nil
	},
}

var offsetClearCmd = &cobra.Command{
	Use:   "clear [<artist> <title>]",
	Short: "remove one or all offsets",
	Long:  `remove the offset of one song, or every stored offset when no song is given.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected no arguments or <artist> <title>, got %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.Open("")

		if len(args) == 2 {
			if err := store.Delete(args[0], args[1]); err != nil {
				return fmt.Errorf("failed to delete offset: %w", err)
			}
			fmt.Printf("removed offset of '%s - %s'\n", args[0], args[1])
			return nil
		}

		if !offsetConfirm {
			fmt.Print("are you sure you want to remove all offsets? (y/n): ")
			var response string
			fmt.Scanln(&response)
			if strings.ToLower(response) != "y" && strings.ToLower(response) != "yes" {
				fmt.Println("cancelled")
				return nil
			}
		}

		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear offsets: %w", err)
		}

		pruned, err := store.Prune()
		if err != nil {
			return fmt.Errorf("failed to prune offsets: %w", err)
		}
		if pruned > 0 {
			fmt.Printf("removed %d unreadable files\n", pruned)
		}

		fmt.Println("offsets cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(offsetCmd)

	offsetCmd.AddCommand(offsetListCmd)
	offsetCmd.AddCommand(offsetGetCmd)
	offsetCmd.AddCommand(offsetSetCmd)
	offsetCmd.AddCommand(offsetClearCmd)

	offsetListCmd.Flags().StringVar(&offsetSortBy, "sort", "date", "sort by: date, artist, title")
	offsetClearCmd.Flags().BoolVar(&offsetConfirm, "confirm", false, "skip confirmation prompt")
}

func sortOffsetEntries(entries []*cache.OffsetEntry, sortBy string) {
	switch sortBy {
	case "artist":
		sort.Slice(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Artist) < strings.ToLower(entries[j].Artist)
		})
	case "title":
		sort.Slice(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
		})
	case "date":
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].UpdatedAt > entries[j].UpdatedAt
		})
	}
}
