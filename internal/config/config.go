// Package config loads pvzhstats settings from a TOML file, with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override file values.
const (
	EnvDataDir  = "PVZH_DATA_DIR"
	EnvDBPath   = "PVZH_DB_PATH"
	EnvLogLevel = "PVZH_LOG_LEVEL"
)

// Config represents the application configuration.
type Config struct {
	Data     DataConfig     `toml:"data"`
	Storage  StorageConfig  `toml:"storage"`
	Rankings RankingsConfig `toml:"rankings"`
	App      AppConfig      `toml:"app"`
}

// DataConfig describes where match files live and which sources are loaded
// by default.
type DataConfig struct {
	Dir                 string   `toml:"dir"`
	Patches             []string `toml:"patches"`     // empty = every catalogued patch
	Tournaments         []string `toml:"tournaments"` // empty = every catalogued tournament
	FallbackTournaments []string `toml:"fallback_tournaments"`
	FallbackPatches     []string `toml:"fallback_patches"`
}

// StorageConfig contains SQLite settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// RankingsConfig controls the win-rate leaderboard.
type RankingsConfig struct {
	MinGames int `toml:"min_games"`
	Top      int `toml:"top"`
}

// AppConfig contains general application settings.
type AppConfig struct {
	LogLevel    string `toml:"log_level"`
	Concurrency int    `toml:"concurrency"` // parallel source fetches
}

// Dir returns the per-user settings directory, ~/.pvzhstats.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pvzhstats"
	}
	return filepath.Join(home, ".pvzhstats")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:                 "datafiles",
			FallbackTournaments: []string{"Quicksand Live", "Quicksand Ranked"},
			FallbackPatches:     []string{"p1", "p2"},
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(Dir(), "pvzh.db"),
		},
		Rankings: RankingsConfig{
			MinGames: 5,
			Top:      10,
		},
		App: AppConfig{
			LogLevel:    "info",
			Concurrency: 4,
		},
	}
}

// Load reads the configuration at path. A missing file yields the defaults.
// A .env file in the working directory is loaded first, then PVZH_*
// variables override whatever the file set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg.Data.Dir = getEnv(EnvDataDir, cfg.Data.Dir)
	cfg.Storage.DBPath = getEnv(EnvDBPath, cfg.Storage.DBPath)
	cfg.App.LogLevel = getEnv(EnvLogLevel, cfg.App.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.Dir) == "" {
		return fmt.Errorf("data dir is required")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage db_path is required")
	}
	if c.Rankings.MinGames < 0 {
		return fmt.Errorf("rankings min_games cannot be negative: %d", c.Rankings.MinGames)
	}
	if c.Rankings.Top < 0 {
		return fmt.Errorf("rankings top cannot be negative: %d", c.Rankings.Top)
	}
	if c.App.Concurrency < 1 {
		return fmt.Errorf("app concurrency must be at least 1: %d", c.App.Concurrency)
	}
	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		return fmt.Errorf("invalid log level %q", c.App.LogLevel)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
