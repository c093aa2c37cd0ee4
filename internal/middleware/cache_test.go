package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviebook/movie-ticket-booking/internal/config"
)

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"items":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)

	// Header length pointing past the buffer must not panic.
	payload, err := encodePayload(200, http.Header{}, nil)
	require.NoError(t, err)
	payload[7] = 0xFF
	_, _, _, ok = decodePayload(payload)
	assert.False(t, ok)
}

func newTestContext(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/movies/:id")
	return c
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/movies/7?featured=true"))
	b := cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/movies/7?featured=false"))
	assert.NotEqual(t, a, b, "query must contribute to the key")

	// With the plain route strategy the query is ignored.
	cfg.KeyStrategy = "route"
	a = cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/movies/7?featured=true"))
	b = cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/movies/7?featured=false"))
	assert.Equal(t, a, b)

	assert.Contains(t, a, "cache:")
}

func TestRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}
	c := newTestContext(http.MethodGet, "/v1/movies/7")

	key := buildRateKey(cfg, c)
	assert.Contains(t, key, "rl:")
	assert.Contains(t, key, "user:anon")
	assert.Contains(t, key, "GET /v1/movies/:id")

	c.Set("user_id", "42")
	key = buildRateKey(cfg, c)
	assert.Contains(t, key, "user:42")

	cfg.KeyStrategy = "user"
	c.Set("user_id", uint64(7))
	assert.Equal(t, "rl:user:7", buildRateKey(cfg, c))
}
