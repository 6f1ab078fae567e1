// Package config provides configuration management for beatbrain using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultServerPort      = 8512
	defaultServerTimeout   = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultConnectTimeout  = 5 * time.Second
	defaultBackupRetention = 7
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Library  LibraryConfig  `mapstructure:"library" yaml:"library"`
	Export   ExportConfig   `mapstructure:"export" yaml:"export"`
	Backup   BackupConfig   `mapstructure:"backup" yaml:"backup"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig holds local API server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// DatabaseConfig holds application database configuration.
// The application database is always a local SQLite file; it is opened once
// at startup and owned by the process for its lifetime.
type DatabaseConfig struct {
	Path     string `mapstructure:"path" yaml:"path"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"` // silent, error, warn, info
}

// LibraryConfig holds external Mixxx library configuration.
type LibraryConfig struct {
	// Path is the Mixxx database file. Empty means auto-discover the
	// platform default location.
	Path           string        `mapstructure:"path" yaml:"path"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
}

// ExportConfig holds playlist export configuration.
type ExportConfig struct {
	// DefaultDir is where exported M3U files are written when the caller
	// does not supply an explicit destination.
	DefaultDir string `mapstructure:"default_dir" yaml:"default_dir"`
}

// BackupConfig holds scheduled application-database backup configuration.
type BackupConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Directory string `mapstructure:"directory" yaml:"directory"` // Empty = alongside the database
	Cron      string `mapstructure:"cron" yaml:"cron"`           // 6-field cron expression
	Retention int    `mapstructure:"retention" yaml:"retention"` // Number of backups to keep
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source" yaml:"add_source"`
	TimeFormat string `mapstructure:"time_format" yaml:"time_format"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with BEATBRAIN_ and use underscores for
// nesting. Example: BEATBRAIN_SERVER_PORT=8512.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.beatbrain")
		v.AddConfigPath("/etc/beatbrain")
	}

	v.SetEnvPrefix("BEATBRAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
// This should be called before reading the config file so defaults are in place.
func SetDefaults(v *viper.Viper) {
	// Server defaults. The API is a local UI boundary, so bind to loopback.
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.write_timeout", defaultServerTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath())
	v.SetDefault("database.log_level", "warn")

	// Library defaults
	v.SetDefault("library.path", "")
	v.SetDefault("library.connect_timeout", defaultConnectTimeout)

	// Export defaults
	v.SetDefault("export.default_dir", "")

	// Backup defaults
	v.SetDefault("backup.enabled", false)
	v.SetDefault("backup.directory", "")
	v.SetDefault("backup.cron", "0 0 2 * * *") // Daily at 2 AM (6-field cron)
	v.SetDefault("backup.retention", defaultBackupRetention)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	const maxPort = 65535
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	validDBLevels := map[string]bool{"silent": true, "error": true, "warn": true, "info": true}
	if !validDBLevels[c.Database.LogLevel] {
		return fmt.Errorf("database.log_level must be one of: silent, error, warn, info")
	}

	if c.Library.ConnectTimeout <= 0 {
		return fmt.Errorf("library.connect_timeout must be positive")
	}

	if c.Backup.Enabled && c.Backup.Retention < 1 {
		return fmt.Errorf("backup.retention must be at least 1")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackupPath returns the backup directory path. If Directory is set it is
// returned directly; otherwise backups live next to the application database.
func (c *BackupConfig) BackupPath(databasePath string) string {
	if c.Directory != "" {
		return c.Directory
	}
	return filepath.Join(filepath.Dir(databasePath), "backups")
}

// defaultDatabasePath returns the default application database location
// under the user config directory, falling back to the working directory.
func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "beatbrain.db"
	}
	return filepath.Join(dir, "beatbrain", "beatbrain.db")
}
