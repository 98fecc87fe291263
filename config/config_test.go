package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.NotEmpty(t, cfg.Kafka.Brokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_DRIVER", "Memory")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("SEED_DATA", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.False(t, cfg.Database.SeedData)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "three")
	t.Setenv("CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_DRIVER")
}

func TestGatewayConfigured(t *testing.T) {
	assert.False(t, PaymentConfig{KeyID: "k"}.GatewayConfigured())
	assert.True(t, PaymentConfig{KeyID: "k", KeySecret: "s"}.GatewayConfigured())
}

func TestLoadClient(t *testing.T) {
	t.Setenv("PETCARE_API_URL", "http://api.local:8080/")
	t.Setenv("PETCARE_USER_ID", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := LoadClient()
	assert.Equal(t, "http://api.local:8080", cfg.APIURL)
	assert.Equal(t, DefaultClientUserID, cfg.UserID)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)

	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, "debug", LoadClient().LogLevel)
}
