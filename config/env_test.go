package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// override sets key for the duration of the test.
func override(t *testing.T, key, value string) {
	t.Helper()
	Set(key, value)
	t.Cleanup(func() { Set(key, "") })
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, "schoolbar.db", DatabaseDSN())
	assert.Equal(t, 3, CheckoutMaxAttempts())
	assert.Equal(t, "5.00", TopUpMin().StringFixed(2))
	assert.Equal(t, "500.00", TopUpMax().StringFixed(2))
	assert.Equal(t, 5*time.Minute, CacheTTL())
	assert.Equal(t, 200, RateLimitPerMinute())
}

func TestDriverPicksMatchingDSN(t *testing.T) {
	override(t, "DB_DRIVER", "Postgres")
	assert.Equal(t, "postgres", DatabaseDriver())
	assert.Contains(t, DatabaseDSN(), "dbname=schoolbar")

	override(t, "DATABASE_DSN", "host=db")
	assert.Equal(t, "host=db", DatabaseDSN())

	override(t, "DB_DRIVER", "oracle")
	assert.Equal(t, "sqlite", DatabaseDriver(), "unknown drivers fall back")
}

func TestMalformedValuesFallBack(t *testing.T) {
	override(t, "TOPUP_MIN", "five")
	override(t, "CACHE_TTL", "-1s")
	override(t, "CHECKOUT_MAX_ATTEMPTS", "0")
	override(t, "RATE_LIMIT_PER_MINUTE", "lots")

	assert.Equal(t, "5.00", TopUpMin().StringFixed(2))
	assert.Equal(t, 5*time.Minute, CacheTTL())
	assert.Equal(t, 3, CheckoutMaxAttempts())
	assert.Equal(t, 200, RateLimitPerMinute())
}

func TestEnvironmentIsRead(t *testing.T) {
	t.Setenv("SESSION_TTL", "45m")
	assert.Equal(t, 45*time.Minute, SessionTTL())
}

func TestGetFallback(t *testing.T) {
	assert.Equal(t, "fallback", Get("SCHOOLBAR_UNSET_KEY", "fallback"))
	override(t, "SCHOOLBAR_UNSET_KEY", "  set  ")
	assert.Equal(t, "set", Get("SCHOOLBAR_UNSET_KEY", "fallback"))
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"TOPUP_MAX": "250.00", "APP_PORT": "9000"}`), 0o600))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=9100\n"), 0o600))

	saved := v
	t.Cleanup(func() {
		mu.Lock()
		v = saved
		mu.Unlock()
	})
	mu.Lock()
	v = newViper()
	mu.Unlock()

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	assert.Equal(t, "250.00", get("TOPUP_MAX", ""))
	assert.Equal(t, "9100", get("APP_PORT", ""), ".env wins over app.json")
}

func TestMissingFilesAreIgnored(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, ".env")))
}
