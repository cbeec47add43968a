// Package config resolves tada settings from, in increasing precedence:
// built-in defaults, ~/.tada/config.yaml (or --config), a .env file in the
// working directory, TADA_* environment variables and finally CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/tada/internal/notify"
)

const (
	BackendHTTP   = "http"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	DirName        = ".tada"
	ConfigFileName = "config.yaml"

	jsonDataFile   = "todos.json"
	sqliteDataFile = "todos.db"
)

var (
	ErrMissingOwner   = errors.New("owner id is required: set TADA_OWNER_ID or owner_id in config.yaml")
	ErrUnknownBackend = errors.New("unknown backend")
)

type Config struct {
	OwnerID int `yaml:"owner_id"`

	Backend string    `yaml:"backend"` // http, json or sqlite
	API     APIConfig `yaml:"api"`
	Data    string    `yaml:"data"` // json/sqlite file; empty picks a per-backend default

	Notifications NotificationConfig `yaml:"notifications"`
	Log           LogConfig          `yaml:"log"`

	Theme       string `yaml:"theme"`
	MetricsAddr string `yaml:"metrics_addr"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"` // 0 disables the client timeout
}

type NotificationConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// LegacyExpiry lets any older timer clear a newer message.
	LegacyExpiry bool `yaml:"legacy_expiry"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Default returns settings usable once an owner id is supplied.
func Default() *Config {
	cfg := &Config{
		Backend: BackendHTTP,
		API: APIConfig{
			BaseURL: "https://mate.academy/students-api",
		},
		Notifications: NotificationConfig{Timeout: notify.DefaultTimeout},
		Log:           LogConfig{Level: "info"},
		Theme:         "classic",
	}
	if dir, err := Dir(); err == nil {
		cfg.Log.File = filepath.Join(dir, "tada.log")
	}
	return cfg
}

// Load reads the optional YAML file and applies .env and environment
// overrides. An explicit path that does not exist is an error; the default
// path is allowed to be missing.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if dir, err := Dir(); err == nil {
			path = filepath.Join(dir, ConfigFileName)
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Load .env file if exists (for local development)
	_ = godotenv.Load()

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := env("TADA_OWNER_ID"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TADA_OWNER_ID: not a number: %s", v)
		}
		c.OwnerID = n
	}
	if v := env("TADA_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := env("TADA_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := env("TADA_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TADA_API_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}
	if v := env("TADA_DATA"); v != "" {
		c.Data = v
	}
	if v := env("TADA_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := env("TADA_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := env("TADA_THEME"); v != "" {
		c.Theme = v
	}
	return nil
}

// Validate checks the preconditions for starting the engine.
func (c *Config) Validate() error {
	if c.OwnerID <= 0 {
		return ErrMissingOwner
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendHTTP:
		if strings.TrimSpace(c.API.BaseURL) == "" {
			return errors.New("api.base_url is required for the http backend")
		}
	case BackendJSON, BackendSQLite:
		if strings.TrimSpace(c.Data) == "" {
			p, err := DefaultDataPath(c.Backend)
			if err != nil {
				return fmt.Errorf("data path is required for the %s backend: %w", c.Backend, err)
			}
			c.Data = p
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	return nil
}

// DefaultDataPath is the file a local backend uses when none is configured.
// Each backend gets its own file so switching backends never reads the
// other's format.
func DefaultDataPath(backend string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	switch backend {
	case BackendJSON:
		return filepath.Join(dir, jsonDataFile), nil
	case BackendSQLite:
		return filepath.Join(dir, sqliteDataFile), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

func (c *Config) NotifyPolicy() notify.Policy {
	if c.Notifications.LegacyExpiry {
		return notify.Legacy
	}
	return notify.LatestWins
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
