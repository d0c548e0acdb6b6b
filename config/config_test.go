package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noDotenv(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)

	assert.Equal(t, "attendance-tracker", cfg.App.Name)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, time.UTC, cfg.App.Location)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "attendanceData", cfg.Storage.Key)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Address())
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6380/2")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("APP_TIMEZONE", "Asia/Almaty")

	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "redis://localhost:6380/2", cfg.Redis.URL)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "Asia/Almaty", cfg.App.Location.String())
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_DRIVER=memory\nLOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("STORAGE_DRIVER")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestLoad_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Not/AZone")

	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cfg.App.Location)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "floppy")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("HTTP_PORT", "0")

	_, err := Load(noDotenv(t))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "configuration errors:")
	assert.Contains(t, msg, "Config.Storage.Driver")
	assert.Contains(t, msg, "Config.Observability.LogLevel")
	assert.Contains(t, msg, "Config.HTTP.Port")
}

func TestValidate_DriverRequirements(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	_, err := Load(noDotenv(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")
	_, err = Load(noDotenv(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed in production")
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("APP_SHUTDOWN_TIMEOUT", "soon")
	_, err := Load(noDotenv(t))
	assert.Error(t, err)
}
