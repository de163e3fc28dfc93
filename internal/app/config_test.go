package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join("testdata")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)
	require.Equal(t, "accounts", cfg.Database.Postgres.Database)

	require.Equal(t, 12*time.Hour, cfg.Auth.ResetTokenTTL)

	require.True(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "smtp.example.com", cfg.Email.SMTP.Host)
	require.Equal(t, 2525, cfg.Email.SMTP.Port)
	require.Equal(t, 5*time.Second, cfg.Email.SMTP.Timeout)
	require.True(t, cfg.Email.SMTP.UseTLS)

	require.False(t, cfg.Monitoring.Prometheus.Enabled)
	require.False(t, cfg.Maintenance.Enabled)
	require.Equal(t, "@daily", cfg.Maintenance.TokenSchedule)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 24*time.Hour, cfg.Auth.ResetTokenTTL)
	require.False(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, 10*time.Second, cfg.Email.SMTP.Timeout)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
	require.True(t, cfg.Maintenance.Enabled)
	require.Equal(t, "@hourly", cfg.Maintenance.TokenSchedule)
}

func TestDatabaseConfigForDriver(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver: "mysql",
			MySQL: DBAuthConfig{
				Host:     "mysql.internal",
				Port:     3307,
				Database: "accounts",
				Username: "svc",
				Password: "pw",
			},
		},
	}

	opts := cfg.DatabaseConfigForDriver()
	require.Equal(t, "mysql", opts.Driver)
	require.Equal(t, "mysql.internal", opts.Host)
	require.Equal(t, 3307, opts.Port)
	require.Equal(t, "accounts", opts.Name)
	require.Equal(t, "svc", opts.User)
}
