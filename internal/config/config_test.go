package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8512},
		Database: DatabaseConfig{
			Path:     "test.db",
			LogLevel: "warn",
		},
		Library: LibraryConfig{ConnectTimeout: 5 * time.Second},
		Backup:  BackupConfig{Retention: 7},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Load without config file should use defaults
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Server defaults
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8512, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	// Database defaults
	assert.NotEmpty(t, cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Database.LogLevel)

	// Library defaults
	assert.Empty(t, cfg.Library.Path)
	assert.Equal(t, 5*time.Second, cfg.Library.ConnectTimeout)

	// Backup defaults
	assert.False(t, cfg.Backup.Enabled)
	assert.Equal(t, "0 0 2 * * *", cfg.Backup.Cron)
	assert.Equal(t, 7, cfg.Backup.Retention)

	// Logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
server:
  host: "0.0.0.0"
  port: 9000
database:
  path: "/tmp/beatbrain-test.db"
library:
  path: "/home/dj/.mixxx/mixxxdb.sqlite"
backup:
  enabled: true
  retention: 3
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/tmp/beatbrain-test.db", cfg.Database.Path)
	assert.Equal(t, "/home/dj/.mixxx/mixxxdb.sqlite", cfg.Library.Path)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, 3, cfg.Backup.Retention)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BEATBRAIN_SERVER_PORT", "9999")
	t.Setenv("BEATBRAIN_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "bad database log level",
			mutate:  func(c *Config) { c.Database.LogLevel = "verbose" },
			wantErr: "database.log_level",
		},
		{
			name:    "non-positive connect timeout",
			mutate:  func(c *Config) { c.Library.ConnectTimeout = 0 },
			wantErr: "library.connect_timeout",
		},
		{
			name: "backup retention below one",
			mutate: func(c *Config) {
				c.Backup.Enabled = true
				c.Backup.Retention = 0
			},
			wantErr: "backup.retention",
		},
		{
			name:    "bad logging level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
		{
			name:    "bad logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8512}
	assert.Equal(t, "127.0.0.1:8512", cfg.Address())
}

func TestBackupConfig_BackupPath(t *testing.T) {
	explicit := BackupConfig{Directory: "/var/backups/beatbrain"}
	assert.Equal(t, "/var/backups/beatbrain", explicit.BackupPath("/data/beatbrain.db"))

	implicit := BackupConfig{}
	assert.Equal(t, filepath.Join("/data", "backups"), implicit.BackupPath("/data/beatbrain.db"))
}
