package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobdeck/server/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCORSAllowAllEchoesOrigin(t *testing.T) {
	next, _ := okHandler()
	handler := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())(next)

	req := httptest.NewRequest("GET", "/companies", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWhitelist(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"https://app.jobdeck.dev"}}
	next, _ := okHandler()
	handler := CORS(cfg, zerolog.Nop())(next)

	req := httptest.NewRequest("GET", "/companies", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://app.jobdeck.dev")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.jobdeck.dev", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	next, called := okHandler()
	handler := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())(next)

	req := httptest.NewRequest(http.MethodOptions, "/companies", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, *called)
}

func TestCORSNoOriginPassesThrough(t *testing.T) {
	next, called := okHandler()
	handler := CORS(config.CORSConfig{}, zerolog.Nop())(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/companies", nil))

	assert.True(t, *called)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
