package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"karolbroda.com/ciryl/internal/lyrics"
	"karolbroda.com/ciryl/internal/track"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	stampStyle  = lipgloss.NewStyle().Faint(true)
)

var lyricsCmd = &cobra.Command{
	Use:   "lyrics",
	Short: "inspect local lyric files",
	Long:  `show where lyric files are expected and preview or check their content.`,
}

var lyricsPathCmd = &cobra.Command{
	Use:   "path <artist> <title>",
	Short: "print the lyric file path of a song",
	Long:  `print the path the viewer reads for a song under the configured lookup scheme.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		locator, err := newLocator(cfg)
		if err != nil {
			return err
		}

		path, err := locator.Path(&track.Identity{Artist: args[0], Title: args[1]})
		if err != nil {
			return err
		}

		fmt.Println(path)
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintln(os.Stderr, "(file does not exist)")
		}

		return nil
	},
}

var lyricsPreviewCmd = &cobra.Command{
	Use:   "preview <artist> <title>",
	Short: "preview the lyrics of a song",
	Long:  `find, parse and print the lyrics of a song with their timestamps.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		locator, err := newLocator(cfg)
		if err != nil {
			return err
		}

		id := &track.Identity{Artist: args[0], Title: args[1]}
		verses, source, err := locator.Load(id)
		if err != nil {
			return fmt.Errorf("lyrics not found: %w", err)
		}

		fmt.Println(headerStyle.Render(id.String()))
		fmt.Println(stampStyle.Render(source))
		printVerses(verses)

		return nil
	},
}

var lyricsCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "parse an lrc file and report its verses",
	Long:  `parse an lrc file the way the viewer does and print every verse it keeps.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read lyric file: %w", err)
		}

		verses, err := lyrics.Parse(string(content))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		fmt.Println(headerStyle.Render(args[0]))
		printVerses(verses)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(lyricsCmd)

	lyricsCmd.AddCommand(lyricsPathCmd)
	lyricsCmd.AddCommand(lyricsPreviewCmd)
	lyricsCmd.AddCommand(lyricsCheckCmd)
}

// helper functions

func printVerses(verses []lyrics.Verse) {
	fmt.Println(strings.Repeat("─", 60))
	for _, v := range verses {
		fmt.Printf("%s %s\n", stampStyle.Render("["+formatTimestamp(v.Timestamp)+"]"), v.Text)
	}
	fmt.Printf("\n%d verses\n", len(verses))
}

// formatTimestamp renders milliseconds as MM:SS.CC.
func formatTimestamp(ms int) string {
	minutes := ms / 60000
	seconds := (ms / 1000) % 60
	centis := (ms % 1000) / 10
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}
