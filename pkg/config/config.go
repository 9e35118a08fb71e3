// Package config provides configuration management for the bank ledger.
// It loads configuration from an optional YAML file, .env files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Config represents the application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Export ExportConfig `yaml:"export"`
	HTTP   HTTPConfig   `yaml:"http"`
	Log    LogConfig    `yaml:"log"`
	Debug  bool         `yaml:"debug"`
}

// StoreConfig selects and locates the ledger store.
type StoreConfig struct {
	Driver   string `yaml:"driver"`
	Root     string `yaml:"root"`
	DBPath   string `yaml:"db_path"`
	BoltPath string `yaml:"bolt_path"`
}

// ExportConfig represents Beancount export configuration.
type ExportConfig struct {
	Dir         string `yaml:"dir"`
	MappingFile string `yaml:"mapping_file"`
	Currency    string `yaml:"currency"`
}

// HTTPConfig governs the HTTP server and client.
type HTTPConfig struct {
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls structured logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text|json
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: DriverSQLite,
			Root:   "./data",
		},
		Export: ExportConfig{
			Currency: "USD",
		},
		HTTP: HTTPConfig{
			Addr:    ":8080",
			Timeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration.
// A path ending in .yaml or .yml is read as a YAML config file; any other path is
// loaded as a .env file. Without a path, .env in the current directory is loaded if present.
// Environment variables always override file values.
func Load(path ...string) (*Config, error) {
	cfg := Default()

	p := ""
	if len(path) > 0 {
		p = path[0]
	}

	switch {
	case isYAML(p):
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case p != "":
		if err := godotenv.Load(p); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	default:
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Store.Driver = getEnvOrDefault("LEDGER_STORE", c.Store.Driver)
	c.Store.Root = getEnvOrDefault("LEDGER_ROOT", c.Store.Root)
	c.Store.DBPath = getEnvOrDefault("LEDGER_DB_PATH", c.Store.DBPath)
	c.Store.BoltPath = getEnvOrDefault("LEDGER_BOLT_PATH", c.Store.BoltPath)

	c.Export.Dir = getEnvOrDefault("LEDGER_EXPORT_DIR", c.Export.Dir)
	c.Export.MappingFile = getEnvOrDefault("LEDGER_EXPORT_MAPPING", c.Export.MappingFile)
	c.Export.Currency = getEnvOrDefault("LEDGER_CURRENCY", c.Export.Currency)

	c.HTTP.Addr = getEnvOrDefault("LEDGER_HTTP_ADDR", c.HTTP.Addr)
	timeout, err := parseInt64Env("LEDGER_HTTP_TIMEOUT", int64(c.HTTP.Timeout/time.Second))
	if err != nil {
		return fmt.Errorf("invalid LEDGER_HTTP_TIMEOUT: %w", err)
	}
	c.HTTP.Timeout = time.Duration(timeout) * time.Second

	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)

	if v := os.Getenv("DEBUG"); v != "" {
		c.Debug = v == "true"
	}
	return nil
}

// Validate validates the configuration.
// It checks that the store driver is known and that all required fields are set.
func (c *Config) Validate(required ...[]string) error {
	switch c.Store.Driver {
	case DriverSQLite, DriverBolt:
	default:
		return fmt.Errorf("unknown store driver %q (expected %q or %q)", c.Store.Driver, DriverSQLite, DriverBolt)
	}

	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var value string
		switch path[0] {
		case "store":
			switch path[1] {
			case "root":
				value = c.Store.Root
			case "dbPath":
				value = c.Store.DBPath
			case "boltPath":
				value = c.Store.BoltPath
			}
		case "export":
			switch path[1] {
			case "dir":
				value = c.Export.Dir
			case "mappingFile":
				value = c.Export.MappingFile
			case "currency":
				value = c.Export.Currency
			}
		case "http":
			switch path[1] {
			case "addr":
				value = c.HTTP.Addr
			}
		}

		if value == "" {
			missing = append(missing, strings.Join(path, "."))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your config file or environment variables", missing)
	}

	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseInt64Env parses an int64 from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseInt64Env(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}

	return parsed, nil
}
