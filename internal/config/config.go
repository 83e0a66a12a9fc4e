package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"karolbroda.com/ciryl/internal/lyrics"
	"karolbroda.com/ciryl/internal/player"
)

const (
	DefaultMprisService    = "org.mpris.MediaPlayer2.cmus"
	DefaultLookup          = string(lyrics.SchemeDigest)
	DefaultPlayer          = string(player.BackendCmus)
	DefaultPollIntervalMs  = 100
	DefaultPlayerTimeoutMs = 500

	configDirName  = "ciryl"
	configFileName = "config.toml"
)

// Config holds runtime settings. Missing directories are not an error here:
// the viewer reports them on screen and keeps running.
type Config struct {
	LyricsDir       string `toml:"lyrics_dir"`
	RuntimeDir      string `toml:"runtime_dir"`
	CmusSocket      string `toml:"cmus_socket"`
	Lookup          string `toml:"lookup"`
	Embedded        bool   `toml:"embedded"`
	Player          string `toml:"player"`
	MprisService    string `toml:"mpris_service"`
	SyncOffsetMs    int    `toml:"sync_offset_ms"`
	PollIntervalMs  int    `toml:"poll_interval_ms"`
	PlayerTimeoutMs int    `toml:"player_timeout_ms"`
	LogFile         string `toml:"log_file"`
	Debug           bool   `toml:"debug"`
}

func Default() *Config {
	return &Config{
		Lookup:          DefaultLookup,
		Player:          DefaultPlayer,
		MprisService:    DefaultMprisService,
		PollIntervalMs:  DefaultPollIntervalMs,
		PlayerTimeoutMs: DefaultPlayerTimeoutMs,
	}
}

// Load builds the configuration from defaults, the toml file at path (or
// the default location when path is empty) and the environment, in that
// order. Only an explicitly requested file has to exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CIRYL_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		err := cfg.loadFile(path)
		if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
			return nil, err
		}
	}

	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LyricsDir = getEnvOrDefault("LYRICS_DIR", c.LyricsDir)
	c.RuntimeDir = getEnvOrDefault("XDG_RUNTIME_DIR", c.RuntimeDir)
	c.CmusSocket = getEnvOrDefault("CMUS_SOCKET", c.CmusSocket)
	c.Lookup = getEnvOrDefault("CIRYL_LOOKUP", c.Lookup)
	c.Player = getEnvOrDefault("CIRYL_PLAYER", c.Player)
	c.MprisService = getEnvOrDefault("MPRIS_SERVICE", c.MprisService)
	c.LogFile = getEnvOrDefault("CIRYL_LOG", c.LogFile)
	c.SyncOffsetMs = getEnvInt("SYNC_OFFSET_MS", c.SyncOffsetMs)
	c.PollIntervalMs = getEnvInt("CIRYL_POLL_MS", c.PollIntervalMs)
	c.PlayerTimeoutMs = getEnvInt("CIRYL_PLAYER_TIMEOUT_MS", c.PlayerTimeoutMs)
	c.Embedded = getEnvBool("CIRYL_EMBEDDED", c.Embedded)
	c.Debug = getEnvBool("CIRYL_DEBUG", c.Debug)
}

func (c *Config) Validate() error {
	if _, err := lyrics.ParseScheme(c.Lookup); err != nil {
		return err
	}
	if _, err := player.ParseBackend(c.Player); err != nil {
		return err
	}
	if c.PollIntervalMs <= 0 {
		return fmt.Errorf("poll interval must be positive, got %dms", c.PollIntervalMs)
	}
	if c.PlayerTimeoutMs <= 0 {
		return fmt.Errorf("player timeout must be positive, got %dms", c.PlayerTimeoutMs)
	}
	return nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c *Config) PlayerTimeout() time.Duration {
	return time.Duration(c.PlayerTimeoutMs) * time.Millisecond
}

// SocketPath is the cmus socket, derived from the runtime directory unless
// set explicitly.
func (c *Config) SocketPath() string {
	if c.CmusSocket != "" {
		return c.CmusSocket
	}
	return player.CmusSocketPath(c.RuntimeDir)
}

// DefaultPath is $XDG_CONFIG_HOME/ciryl/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}

func getEnvOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
