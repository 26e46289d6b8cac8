package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should use defaults when file is missing", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, "JP", cfg.Holidays.Country)
		assert.Equal(t, 2024, cfg.Holidays.FromYear)
		assert.Equal(t, 2027, cfg.Holidays.ToYear)
		assert.Equal(t, 300, cfg.Calendar.DefaultDayCount)
		assert.Equal(t, 3660, cfg.Calendar.MaxDayCount)
		assert.False(t, cfg.RateLimit.TrustForwardedFor)
		assert.Equal(t, 10*time.Minute, cfg.RateLimit.IdleTTL)
		assert.Equal(t, "calendarSchedules", cfg.Storage.Key)
		assert.Len(t, cfg.Calendar.WeekdayNames, 7)
	})

	t.Run("should override defaults from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := `
server:
  addr: ":9090"
holidays:
  country: "DE"
storage:
  driver: "memory"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, "DE", cfg.Holidays.Country)
		assert.Equal(t, "memory", cfg.Storage.Driver)
		assert.Equal(t, "https://date.nager.at/api/v3", cfg.Holidays.BaseURL)
	})

	t.Run("should override file values from environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: file\n"), 0o644))
		t.Setenv("SCROLLCAL_STORAGE_DRIVER", "redis")
		t.Setenv("SCROLLCAL_REDIS_ADDR", "cache:6379")
		t.Setenv("SCROLLCAL_CALENDAR_MAXDAYCOUNT", "400")
		t.Setenv("SCROLLCAL_RATELIMIT_TRUSTFORWARDEDFOR", "true")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "redis", cfg.Storage.Driver)
		assert.Equal(t, "cache:6379", cfg.Redis.Addr)
		assert.Equal(t, 400, cfg.Calendar.MaxDayCount)
		assert.True(t, cfg.RateLimit.TrustForwardedFor)
	})

	t.Run("should fail on malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

		_, err := Load(path)

		assert.Error(t, err)
	})
}
