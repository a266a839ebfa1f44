package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "lexdrill.db", cfg.Database.DSN)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 0.9, cfg.Study.TargetRetention)
	assert.Equal(t, 36500, cfg.Study.MaximumIntervalDays)
	assert.Equal(t, 10, cfg.Study.DefaultNewWordsLimit)
	assert.Equal(t, 50, cfg.Study.DefaultReviewLimit)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("LEXDRILL_SERVER_PORT", "9090")
	t.Setenv("LEXDRILL_SERVER_LOG_LEVEL", "debug")
	t.Setenv("LEXDRILL_DATABASE_DRIVER", "postgres")
	t.Setenv("LEXDRILL_DATABASE_DSN", "postgres://localhost/lexdrill")
	t.Setenv("LEXDRILL_STUDY_TARGET_RETENTION", "0.85")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/lexdrill", cfg.Database.DSN)
	assert.Equal(t, 0.85, cfg.Study.TargetRetention)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexdrill.yaml")
	content := []byte("server:\n  port: 3000\n  log_level: warn\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Server.LogLevel)
	// Unspecified sections keep their defaults.
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad log level", "LEXDRILL_SERVER_LOG_LEVEL", "verbose"},
		{"bad driver", "LEXDRILL_DATABASE_DRIVER", "mysql"},
		{"retention out of range", "LEXDRILL_STUDY_TARGET_RETENTION", "1.5"},
		{"port out of range", "LEXDRILL_SERVER_PORT", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
