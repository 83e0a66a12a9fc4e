package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const appDir = "ciryl"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup opens an append-only log file at path, or the dated file in the
// state directory when path is empty. The viewer owns the terminal, so when
// the file cannot be opened the returned logger discards everything and the
// error is reported to the caller instead.
func Setup(path string, debug bool) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	if path == "" {
		path = DefaultPath(time.Now())
	}

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		logger.SetOutput(io.Discard)
		return logger, nopCloser{}, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.SetOutput(io.Discard)
		return logger, nopCloser{}, err
	}

	logger.SetOutput(f)
	logger.WithField("ts", time.Now().Format(time.RFC3339)).Info("session start")
	return logger, f, nil
}

// Discard returns a logger that writes nowhere.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func DefaultPath(now time.Time) string {
	return filepath.Join(stateDir(), "ciryl-"+now.Format("20060102")+".log")
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDir)
	}
	return filepath.Join(home, ".local", "state", appDir)
}
