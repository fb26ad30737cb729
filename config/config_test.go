package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "DB_DRIVER", "DB_PATH", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASS", "DB_NAME", "SITE_TITLE", "CSRF_KEY", "CSRF_SECURE",
		"METRICS_ADDR", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "./moves.db", cfg.DB.Path)
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.Equal(t, "Ivanhoe Light", cfg.SiteTitle)
	assert.Empty(t, cfg.CSRFKey)
	assert.False(t, cfg.CSRFSecure)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvMySQL(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "ivanhoe")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DB_NAME", "ivanhoe")
	t.Setenv("CSRF_SECURE", "true")

	cfg := FromEnv()

	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "ivanhoe", cfg.DB.User)
	assert.Equal(t, "secret", cfg.DB.Password)
	assert.True(t, cfg.CSRFSecure)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.DB.Driver = "oracle" },
			wantErr: "unsupported DB_DRIVER",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.DB.Path = "" },
			wantErr: "DB_PATH",
		},
		{
			name: "mysql without user",
			mutate: func(c *Config) {
				c.DB.Driver = DriverMySQL
				c.DB.User = ""
			},
			wantErr: "DB_USER",
		},
		{
			name:    "short csrf key",
			mutate:  func(c *Config) { c.CSRFKey = "too-short" },
			wantErr: "CSRF_KEY",
		},
		{
			name:   "long csrf key",
			mutate: func(c *Config) { c.CSRFKey = strings.Repeat("k", 32) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg := FromEnv()
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

func TestLoadRejectsInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
}
