package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"karolbroda.com/ciryl/internal/config"
	"karolbroda.com/ciryl/internal/lyrics"
	"karolbroda.com/ciryl/internal/player"
	"karolbroda.com/ciryl/internal/terminal"
)

var (
	// global flags
	configPath   string
	lyricsDir    string
	lookup       string
	playerName   string
	mprisService string
	syncOffset   int
	embedded     bool
	debug        bool
)

var rootCmd = &cobra.Command{
	Use:   "ciryl",
	Short: "synced lyrics for cmus in the terminal",
	Long: `ciryl follows the song playing in cmus and shows its lyrics from local
lrc files, keeping the line being sung in bold and near the middle of the
terminal.

when run without a subcommand, it starts the viewer. press q to quit and r to
reload the lyrics of the current song.`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		// default behavior: run the viewer
		return runViewer(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/ciryl/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&lyricsDir, "lyrics-dir", "d", "", "directory holding lrc files (overrides LYRICS_DIR)")
	rootCmd.PersistentFlags().StringVarP(&lookup, "lookup", "l", "", "lyric file naming: digest, literal or sidecar")
	rootCmd.PersistentFlags().StringVarP(&playerName, "player", "p", "", "player backend: cmus or mpris")
	rootCmd.PersistentFlags().StringVarP(&mprisService, "mpris-service", "m", "", "mpris service name (e.g., org.mpris.MediaPlayer2.cmus)")
	rootCmd.PersistentFlags().IntVarP(&syncOffset, "sync-offset", "s", 0, "sync offset in milliseconds added to every position")
	rootCmd.PersistentFlags().BoolVarP(&embedded, "embedded", "e", false, "fall back to lyrics embedded in the audio file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "show window parameters on screen")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		terminal.Reset()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, then applies the flags
// the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if lyricsDir != "" {
		cfg.LyricsDir = lyricsDir
	}
	if lookup != "" {
		cfg.Lookup = lookup
	}
	if playerName != "" {
		cfg.Player = playerName
	}
	if mprisService != "" {
		cfg.MprisService = mprisService
	}
	if flags.Changed("sync-offset") {
		cfg.SyncOffsetMs = syncOffset
	}
	if flags.Changed("embedded") {
		cfg.Embedded = embedded
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newLocator(cfg *config.Config) (*lyrics.Locator, error) {
	scheme, err := lyrics.ParseScheme(cfg.Lookup)
	if err != nil {
		return nil, err
	}
	return &lyrics.Locator{
		Dir:      cfg.LyricsDir,
		Scheme:   scheme,
		Embedded: cfg.Embedded,
	}, nil
}

func openPlayer(cfg *config.Config) (player.Player, error) {
	backend, err := player.ParseBackend(cfg.Player)
	if err != nil {
		return nil, err
	}

	if backend == player.BackendMpris {
		return player.NewMpris(cfg.MprisService, cfg.PlayerTimeout()), nil
	}
	return player.NewCmus(cfg.SocketPath(), cfg.PlayerTimeout()), nil
}
