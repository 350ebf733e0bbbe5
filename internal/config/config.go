// Package config loads server configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the file read when Load is given an empty path.
const ConfigPath = "config.yaml"

// Config holds the server settings.
type Config struct {
	Port         int    `yaml:"port"`
	DBPath       string `yaml:"dbPath"`
	RegistryPath string `yaml:"registryPath"`
	LogLevel     string `yaml:"logLevel"`
	FinePerDay   int64  `yaml:"finePerDay"`

	// TokenSecret enables librarian-token auth on mutating procedures when set.
	TokenSecret string `yaml:"tokenSecret"`
}

// Default returns the settings used when neither file nor environment set a value.
func Default() Config {
	return Config{
		Port:         8080,
		DBPath:       "./data/library.db",
		RegistryPath: "./data/users.json",
		LogLevel:     "info",
		FinePerDay:   1,
	}
}

// Load reads config from path (defaults to config.yaml). A missing file is
// not an error; defaults apply. Environment variables override the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = ConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("LEDGER_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("config: LEDGER_PORT: %w", err)
		}
		cfg.Port = n
	}
	if v := os.Getenv("LEDGER_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LEDGER_REGISTRY_PATH"); v != "" {
		cfg.RegistryPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LEDGER_FINE_PER_DAY"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("config: LEDGER_FINE_PER_DAY: %w", err)
		}
		cfg.FinePerDay = n
	}
	if v := os.Getenv("LEDGER_TOKEN_SECRET"); v != "" {
		cfg.TokenSecret = v
	}

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", cfg.Port)
	}
	if cfg.DBPath == "" {
		return errors.New("config: dbPath is required")
	}
	if cfg.RegistryPath == "" {
		return errors.New("config: registryPath is required")
	}
	if cfg.FinePerDay < 0 {
		return errors.New("config: finePerDay cannot be negative")
	}
	return nil
}
