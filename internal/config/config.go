// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath  string        `yaml:"database_path"`
	TopZones      int           `yaml:"top_zones" validate:"gt=0"`
	TopSlots      int           `yaml:"top_slots" validate:"gt=0"`
	HistoryLimit  int           `yaml:"history_limit" validate:"gt=0"`
	WatchDebounce time.Duration `yaml:"watch_debounce" validate:"gte=0"`
	Notify        bool          `yaml:"notify"`
	LogLevel      string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFile       string        `yaml:"log_file"`
}

// Default values
const (
	defaultTopZones      = 10
	defaultTopSlots      = 10
	defaultHistoryLimit  = 20
	defaultWatchDebounce = 250 * time.Millisecond
	defaultLogLevel      = "info"
)

// Load reads configuration from .env files, environment variables and the
// optional YAML file named by TRIPSTAT_CONFIG, in that order of precedence
// from lowest to highest.
func Load() (*Config, error) {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:  getEnvString("TRIPSTAT_DATABASE_PATH", getDefaultDatabasePath()),
		TopZones:      getEnvInt("TRIPSTAT_TOP_ZONES", defaultTopZones),
		TopSlots:      getEnvInt("TRIPSTAT_TOP_SLOTS", defaultTopSlots),
		HistoryLimit:  getEnvInt("TRIPSTAT_HISTORY_LIMIT", defaultHistoryLimit),
		WatchDebounce: getEnvDuration("TRIPSTAT_WATCH_DEBOUNCE", defaultWatchDebounce),
		Notify:        getEnvBool("TRIPSTAT_NOTIFY", false),
		LogLevel:      getEnvString("TRIPSTAT_LOG_LEVEL", defaultLogLevel),
		LogFile:       getEnvString("TRIPSTAT_LOG_FILE", ""),
	}

	if path := os.Getenv("TRIPSTAT_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFile overlays values from a YAML file. Keys missing from the file
// keep their current value.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tripstat", ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the run history database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tripstat.db"
	}
	return filepath.Join(home, ".config", "tripstat", "runs.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "250ms", "1s"; a bare number is read as milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}
