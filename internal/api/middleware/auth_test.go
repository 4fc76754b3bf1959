package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jobdeck/server/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *auth.JWTManager {
	return auth.NewJWTManager("middleware-test-secret", time.Hour, "jobdeck-test")
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestJWTAuthPassesThroughWithoutHeader(t *testing.T) {
	next, called := okHandler()
	handler := JWTAuth(testManager(), "test")(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/companies", nil))

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthStoresClaims(t *testing.T) {
	manager := testManager()
	token, err := manager.Generate("u1", true)
	require.NoError(t, err)

	var got *auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClaimsFromRequest(r)
	})
	handler := JWTAuth(manager, "test")(next)

	req := httptest.NewRequest("GET", "/companies", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "u1", got.Subject)
	assert.True(t, got.IsAdmin)
}

func TestJWTAuthRejectsGarbageToken(t *testing.T) {
	next, called := okHandler()
	handler := JWTAuth(testManager(), "test")(next)

	req := httptest.NewRequest("GET", "/companies", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	next, called := okHandler()
	handler := RequireAuth("test")(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/users/u1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)

	rec = httptest.NewRecorder()
	req := WithClaims(httptest.NewRequest("GET", "/users/u1", nil), &auth.Claims{})
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name   string
		claims *auth.Claims
		want   int
	}{
		{name: "anonymous", claims: nil, want: http.StatusUnauthorized},
		{name: "non-admin", claims: claimsFor("u1", false), want: http.StatusForbidden},
		{name: "admin", claims: claimsFor("root", true), want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, _ := okHandler()
			handler := RequireAdmin("test")(next)

			req := httptest.NewRequest("POST", "/companies", nil)
			if tc.claims != nil {
				req = WithClaims(req, tc.claims)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireSelfOrAdmin(t *testing.T) {
	tests := []struct {
		name   string
		claims *auth.Claims
		want   int
	}{
		{name: "anonymous", claims: nil, want: http.StatusUnauthorized},
		{name: "other user", claims: claimsFor("intruder", false), want: http.StatusForbidden},
		{name: "self", claims: claimsFor("u1", false), want: http.StatusOK},
		{name: "admin", claims: claimsFor("root", true), want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			next, _ := okHandler()
			mux.Handle("/users/{username}", RequireSelfOrAdmin("username", "test")(next))

			req := httptest.NewRequest("GET", "/users/u1", nil)
			if tc.claims != nil {
				req = WithClaims(req, tc.claims)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func claimsFor(username string, isAdmin bool) *auth.Claims {
	manager := testManager()
	token, err := manager.Generate(username, isAdmin)
	if err != nil {
		panic(err)
	}
	claims, err := manager.Validate(token)
	if err != nil {
		panic(err)
	}
	return claims
}
