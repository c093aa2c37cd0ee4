package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 60, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, time.Second, cfg.RefillInterval)
	assert.Equal(t, "ip_user_route", cfg.KeyStrategy)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "2m")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 1, cfg.Capacity)
	// TTL is raised to several refill cycles so idle buckets do not
	// reset their limits early.
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestLoadRateLimitConfigAliases(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "25")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 25, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "45s")

	cfg := LoadCacheConfig()

	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.False(t, cfg.Methods["POST"])
	assert.Equal(t, 45*time.Second, cfg.TTL)
}

func TestBookingKnobDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "moviebook")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()

	assert.Equal(t, uint32(2000), cfg.ConvenienceFeeCents)
	assert.Equal(t, 15, cfg.BookingTTLMin)
	assert.Equal(t, 2, cfg.CancelWindowHours)
	assert.Equal(t, 10, cfg.MaxSeatsPerBooking)
}
