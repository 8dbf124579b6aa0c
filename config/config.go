package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/papertrader/portfolio"
	"github.com/rustyeddy/papertrader/store"
)

// Config represents the complete application configuration
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Session SessionConfig `json:"session" yaml:"session"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// AccountConfig funds new users
type AccountConfig struct {
	StartingCash float64 `json:"starting_cash" yaml:"starting_cash"`
}

// StorageConfig selects where user state is persisted
type StorageConfig struct {
	Type   string `json:"type" yaml:"type"` // "file" or "sqlite"
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// SessionConfig controls how saved state is loaded
type SessionConfig struct {
	DiscardCorrupt bool `json:"discard_corrupt" yaml:"discard_corrupt"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text or json
}

// LoadFromFile loads and validates configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// readFile decodes path over Default without validating.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	return cfg, nil
}

// Load builds the effective configuration: defaults, then the config file
// if path is set, then an optional .env file, then TRADER_* variables. The
// result is validated once, after every layer is applied.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = readFile(path); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		// Variables already set in the environment win over the file.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TRADER_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("TRADER_STARTING_CASH"); ok {
		cash, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TRADER_STARTING_CASH: %w", err)
		}
		c.Account.StartingCash = cash
	}
	if v, ok := lookup("TRADER_STORAGE"); ok {
		c.Storage.Type = v
	}
	if v, ok := lookup("TRADER_DATA_DIR"); ok {
		c.Storage.Dir = v
	}
	if v, ok := lookup("TRADER_DB_PATH"); ok {
		c.Storage.DBPath = v
	}
	if v, ok := lookup("TRADER_DISCARD_CORRUPT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TRADER_DISCARD_CORRUPT: %w", err)
		}
		c.Session.DiscardCorrupt = b
	}
	if v, ok := lookup("TRADER_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("TRADER_LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.StartingCash <= 0 {
		return fmt.Errorf("account.starting_cash must be positive")
	}
	switch c.Storage.Type {
	case store.KindFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir required for file storage")
		}
	case store.KindSQLite:
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path required for sqlite storage")
		}
	default:
		return fmt.Errorf("storage.type must be 'file' or 'sqlite'")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// NewLogger builds a slog logger writing to w with the configured level
// and format.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			StartingCash: portfolio.DefaultCash,
		},
		Storage: StorageConfig{
			Type:   store.KindFile,
			Dir:    ".",
			DBPath: "./trader.sqlite",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
