package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jobdeck/server/internal/auth"
	"github.com/jobdeck/server/internal/domain/users"
)

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, username, password string) (*users.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, params users.CreateParams) (*users.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret-test-secret-test-secret", time.Hour, "jobdeck-test")
}

func TestToken_Success(t *testing.T) {
	mockService := new(MockAuthService)
	jwt := testJWTManager()
	handler := NewAuthHandler(mockService, jwt, "test")

	mockService.On("Authenticate", mock.Anything, "rosa", "secret123").Return(&users.User{
		Username: "rosa",
		IsAdmin:  true,
	}, nil)

	body, _ := json.Marshal(tokenRequest{Username: "rosa", Password: "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Token(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp tokenResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)

	claims, err := jwt.Validate(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, "rosa", claims.Subject)
	assert.True(t, claims.IsAdmin)

	mockService.AssertExpectations(t)
}

func TestToken_InvalidCredentials(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, testJWTManager(), "test")

	mockService.On("Authenticate", mock.Anything, "rosa", "wrong").Return(nil, users.ErrInvalidCredentials)

	body, _ := json.Marshal(tokenRequest{Username: "rosa", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Token(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	mockService.AssertExpectations(t)
}

func TestToken_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing password", body: `{"username":"rosa"}`},
		{name: "missing username", body: `{"password":"secret123"}`},
		{name: "empty body", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(new(MockAuthService), testJWTManager(), "test")

			req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()

			handler.Token(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestToken_UnknownField(t *testing.T) {
	handler := NewAuthHandler(new(MockAuthService), testJWTManager(), "test")

	req := httptest.NewRequest(http.MethodPost, "/auth/token",
		bytes.NewReader([]byte(`{"username":"rosa","password":"x","admin":true}`)))
	rec := httptest.NewRecorder()

	handler.Token(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_Success(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, testJWTManager(), "test")

	mockService.On("Register", mock.Anything, mock.MatchedBy(func(params users.CreateParams) bool {
		return params.Username == "newuser" && !params.IsAdmin
	})).Return(&users.User{
		Username:  "newuser",
		FirstName: "New",
		LastName:  "User",
		Email:     "new@example.com",
	}, nil)

	body, _ := json.Marshal(registerRequest{
		Username:  "newuser",
		Password:  "secret123",
		FirstName: "New",
		LastName:  "User",
		Email:     "new@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp tokenResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)
	mockService.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, testJWTManager(), "test")

	mockService.On("Register", mock.Anything, mock.Anything).Return(nil, users.ErrDuplicateUsername)

	body, _ := json.Marshal(registerRequest{
		Username:  "taken",
		Password:  "secret123",
		FirstName: "A",
		LastName:  "B",
		Email:     "taken@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	mockService.AssertExpectations(t)
}

func TestRegister_ServiceError(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, testJWTManager(), "production")

	mockService.On("Register", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	body, _ := json.Marshal(registerRequest{
		Username:  "newuser",
		Password:  "secret123",
		FirstName: "A",
		LastName:  "B",
		Email:     "new@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internal detail must not leak in the body.
	assert.NotContains(t, rec.Body.String(), "db down")
	mockService.AssertExpectations(t)
}
