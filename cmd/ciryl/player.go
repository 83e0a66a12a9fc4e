package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "player utilities",
	Long:  `check what the configured player reports and discover mpris players.`,
}

var playerCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "show the currently playing track",
	Long:  `poll the configured player once and print the track and position it reports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p, err := openPlayer(cfg)
		if err != nil {
			return err
		}
		defer p.Close()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.PlayerTimeout())
		defer cancel()

		snap, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to query %s: %w", cfg.Player, err)
		}

		if !snap.Track.IsValid() {
			fmt.Println("no track currently playing")
			return nil
		}

		fmt.Printf("title:    %s\n", snap.Track.Title)
		fmt.Printf("artist:   %s\n", snap.Track.Artist)
		if snap.Track.File != "" {
			fmt.Printf("file:     %s\n", snap.Track.File)
		}
		fmt.Printf("position: %s\n", formatTimestamp(snap.PositionMs))

		return nil
	},
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "list available mpris players",
	Long:  `list all mpris-compatible music players currently running on the system.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		var names []string
		err = bus.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
		if err != nil {
			return fmt.Errorf("failed to list dbus names: %w", err)
		}

		var services []string
		for _, name := range names {
			if strings.HasPrefix(name, "org.mpris.MediaPlayer2.") {
				services = append(services, name)
			}
		}

		if len(services) == 0 {
			fmt.Println("no mpris players found")
			return nil
		}

		fmt.Printf("found %d mpris player(s):\n\n", len(services))
		for _, service := range services {
			fmt.Printf("  %s\n", service)
		}

		fmt.Println("\nuse --player mpris --mpris-service <name> to follow one of them")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(playerCmd)

	playerCmd.AddCommand(playerCurrentCmd)
	playerCmd.AddCommand(playerListCmd)
}
