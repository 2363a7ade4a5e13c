// =============================================================================
// SUNAT Document Parser - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration. Settings come
// from a YAML file; database credentials can additionally be supplied through
// environment variables, which take precedence over the file so that deployed
// runs never need credentials on disk.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Valid sink modes.
const (
	SinkCSV      = "csv"
	SinkXLSX     = "xlsx"
	SinkPostgres = "postgres"
)

// MainConfig holds the global application configuration.
type MainConfig struct {
	// InputDir is the directory scanned for source documents.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir is the directory where result and statistics reports are
	// written. Created if it does not exist.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// LogDir is the directory for the run log file.
	// Default: "./logs"
	LogDir string `yaml:"log_dir"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// Sink selects where aggregated results go: "csv", "xlsx" or "postgres".
	// Default: "csv"
	Sink string `yaml:"sink"`

	// Database holds the connection settings for the postgres sink. Ignored
	// for the file sinks.
	Database Database `yaml:"database"`
}

// Database holds PostgreSQL connection settings. Every field has an
// environment variable that overrides the file value.
type Database struct {
	Host     string `yaml:"host"`     // DB_HOST
	Port     int    `yaml:"port"`     // DB_PORT
	Name     string `yaml:"name"`     // DB_NAME
	User     string `yaml:"user"`     // DB_USER
	Password string `yaml:"password"` // DB_PASSWORD
}

// Load reads the configuration file, applies defaults and environment
// overrides, and validates the result. A missing file is not an error: the
// defaults describe a complete local run.
func Load(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// Run on defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&config)
	config.Database.applyEnv()

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.LogDir == "" {
		config.LogDir = "./logs"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Sink == "" {
		config.Sink = SinkCSV
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
}

// applyEnv overrides file values with environment variables when set.
func (d *Database) applyEnv() {
	if v := os.Getenv("DB_HOST"); v != "" {
		d.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			d.Port = port
		}
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		d.Name = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		d.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		d.Password = v
	}
}

// validate checks level and sink values and, for the postgres sink, that the
// connection settings are complete. File sinks never require credentials.
func validate(config *MainConfig) error {
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.LogLevel)
	}

	switch config.Sink {
	case SinkCSV, SinkXLSX:
	case SinkPostgres:
		if err := config.Database.Check(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown sink %q", config.Sink)
	}

	for _, dir := range []string{config.OutputDir, config.LogDir} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}
	return nil
}

// Check verifies the postgres settings are complete.
func (d *Database) Check() error {
	missing := []string{}
	if d.Name == "" {
		missing = append(missing, "name (DB_NAME)")
	}
	if d.User == "" {
		missing = append(missing, "user (DB_USER)")
	}
	if d.Password == "" {
		missing = append(missing, "password (DB_PASSWORD)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("postgres sink requires database settings: %v", missing)
	}
	return nil
}

// DSN returns the connection string for database/sql.
func (d *Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=prefer",
		d.Host, d.Port, d.Name, d.User, d.Password)
}
