package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all engine configuration.
//
// Precedence, lowest to highest: built-in defaults, the optional TOML
// config file, environment variables.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Extraction ExtractionConfig `toml:"extraction"`
	Wallpapers WallpapersConfig `toml:"wallpapers"`
	History    HistoryConfig    `toml:"history"`
	Workflow   WorkflowConfig   `toml:"workflow"`
	Storage    StorageConfig    `toml:"storage"`
	Logging    LogConfig        `toml:"logging"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `toml:"port" envconfig:"PORT"`
	Host string `toml:"host" envconfig:"HOST"`
}

// ExtractionConfig holds palette extraction configuration.
type ExtractionConfig struct {
	// Binary is the external extractor executable invoked per wallpaper.
	Binary string `toml:"binary" envconfig:"EXTRACT_BIN"`
	// Mode selects the extractor's color strategy ("auto", "vibrant", "muted").
	Mode string `toml:"mode" envconfig:"EXTRACT_MODE"`
	// CacheDir receives wallpapers downloaded from remote sources.
	CacheDir string `toml:"cache_dir" envconfig:"EXTRACT_CACHE_DIR"`
}

// WallpapersConfig holds wallpaper library configuration.
type WallpapersConfig struct {
	Dirs    []string `toml:"dirs" envconfig:"WALLPAPER_DIRS"`
	Pattern string   `toml:"pattern" envconfig:"WALLPAPER_PATTERN"`
}

// HistoryConfig holds undo stack configuration.
type HistoryConfig struct {
	Limit int `toml:"limit" envconfig:"HISTORY_LIMIT"`
}

// WorkflowConfig holds batch workflow configuration.
type WorkflowConfig struct {
	SelectionLimit int `toml:"selection_limit" envconfig:"SELECTION_LIMIT"`
	// CompletionPauseMs is the user-visible pause between batch completion
	// and the switch to the comparison phase.
	CompletionPauseMs int `toml:"completion_pause_ms" envconfig:"COMPLETION_PAUSE_MS"`
}

// StorageConfig holds saved-theme persistence configuration.
type StorageConfig struct {
	Dir string `toml:"dir" envconfig:"STORAGE_DIR"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `toml:"level" envconfig:"LOG_LEVEL"`
	Development bool   `toml:"development" envconfig:"LOG_DEV"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `toml:"rps" envconfig:"RATE_LIMIT_RPS"`
	Burst             int  `toml:"burst" envconfig:"RATE_LIMIT_BURST"`
	Enabled           bool `toml:"enabled" envconfig:"RATE_LIMIT_ENABLED"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Server: ServerConfig{
			Port: "8765",
			Host: "127.0.0.1",
		},
		Extraction: ExtractionConfig{
			Binary:   "hueweave-extract",
			Mode:     "auto",
			CacheDir: home + "/.cache/hueweave/wallpapers",
		},
		Wallpapers: WallpapersConfig{
			Dirs:    []string{home + "/Pictures/wallpapers"},
			Pattern: "**/*.{png,jpg,jpeg,webp}",
		},
		History: HistoryConfig{
			Limit: 50,
		},
		Workflow: WorkflowConfig{
			SelectionLimit:    10,
			CompletionPauseMs: 600,
		},
		Storage: StorageConfig{
			Dir: home + "/.local/share/hueweave/themes",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Load builds the effective configuration. A missing config file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err != nil && os.IsNotExist(err):
			// No config file, defaults plus env apply.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	// Env vars win over the file. No envconfig defaults are declared, so
	// unset variables leave the struct untouched.
	if err := envconfig.Process("HUEWEAVE", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads configuration or falls back to defaults.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}
