package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobdeck/server/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	cfg := config.RateLimitConfig{PublicPerMinute: 3}
	next, _ := okHandler()
	handler := RateLimit(cfg, "test")(next)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/jobs", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/jobs", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "rate-limited")
}

func TestRateLimitKeysByClientIP(t *testing.T) {
	cfg := config.RateLimitConfig{PublicPerMinute: 1}
	next, _ := okHandler()
	handler := RateLimit(cfg, "test")(next)

	first := httptest.NewRequest("GET", "/jobs", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	other := httptest.NewRequest("GET", "/jobs", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitExemptsHealthEndpoints(t *testing.T) {
	cfg := config.RateLimitConfig{PublicPerMinute: 1}
	next, _ := okHandler()
	handler := RateLimit(cfg, "test")(next)

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitZeroMeansUnlimited(t *testing.T) {
	cfg := config.RateLimitConfig{PublicPerMinute: 0}
	next, _ := okHandler()
	handler := RateLimit(cfg, "test")(next)

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/jobs", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestLoginTierRetryAfter(t *testing.T) {
	cfg := config.RateLimitConfig{LoginPer15Minutes: 1}
	next, _ := okHandler()
	handler := WithRateLimitTier(TierLogin)(RateLimit(cfg, "test")(next))

	req := httptest.NewRequest("POST", "/auth/token", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "180", rec.Header().Get("Retry-After"))
}

func TestClientKeyTrustsProxyHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/jobs", nil)
	req.RemoteAddr = "10.1.0.5:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.1.0.5")

	assert.Equal(t, "203.0.113.9", clientKey(req, []string{"10.1.0.0/16"}))
	assert.Equal(t, "10.1.0.5", clientKey(req, nil))
	assert.Equal(t, "10.1.0.5", clientKey(req, []string{"192.168.0.0/16"}))
}
