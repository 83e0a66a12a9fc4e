package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"karolbroda.com/ciryl/internal/cache"
	"karolbroda.com/ciryl/internal/logging"
	"karolbroda.com/ciryl/internal/runtime"
	"karolbroda.com/ciryl/internal/terminal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "start the lyrics viewer",
	Long:  `starts the terminal lyrics viewer, following the current song of the configured player.`,
	RunE:  runViewer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.Setup(cfg.LogFile, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	defer logCloser.Close()

	locator, err := newLocator(cfg)
	if err != nil {
		return err
	}

	p, err := openPlayer(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	offsets := cache.Open("")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.WithField("signal", sig.String()).Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	defer terminal.Reset()

	screen, err := terminal.Open(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer screen.Close()

	logger.WithFields(logrus.Fields{
		"player": cfg.Player,
		"lookup": cfg.Lookup,
		"dir":    cfg.LyricsDir,
		"offset": cfg.SyncOffsetMs,
	}).Info("viewer started")

	rt := runtime.New(runtime.Options{
		Player:       p,
		Screen:       screen,
		Loader:       locator,
		Offsets:      offsets,
		Logger:       logger,
		SyncOffsetMs: cfg.SyncOffsetMs,
		PollInterval: cfg.PollInterval(),
		Debug:        cfg.Debug,
	})

	if err := rt.Run(ctx); err != nil {
		logger.WithError(err).Error("viewer stopped")
		return err
	}

	return nil
}
