package api

import (
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ladleapp/ladle-server/internal/config"
)

func TestCreateUser_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":    "cook@example.com",
		"password": "SecurePassword123",
		"name":     "Test Cook",
	})
	assert.Equal(t, http.StatusCreated, resp.Code)

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, "cook@example.com", envelope.Data.Email)
	assert.Equal(t, "Test Cook", envelope.Data.Name)

	// Password never appears in the response
	assert.NotContains(t, resp.Body.String(), "SecurePassword123")
	assert.NotContains(t, resp.Body.String(), "password")
}

func TestCreateUser_Validation(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing email",
			body: map[string]any{"password": "SecurePassword123"},
		},
		{
			name: "invalid email",
			body: map[string]any{"email": "not-an-email", "password": "SecurePassword123"},
		},
		{
			name: "short password",
			body: map[string]any{"email": "cook@example.com", "password": "short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/users", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)

	body := map[string]any{
		"email":    "cook@example.com",
		"password": "SecurePassword123",
	}
	resp := ts.api.Post("/api/v1/users", body)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Post("/api/v1/users", body)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Error, "already exists")
}

func TestCreateToken_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTestAccount(t, "cook@example.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "wrong password",
			body: map[string]any{"email": "cook@example.com", "password": "WrongPassword123"},
		},
		{
			name: "unknown email",
			body: map[string]any{"email": "nobody@example.com", "password": "SecurePassword123"},
		},
		{
			name: "missing password",
			body: map[string]any{"email": "cook@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/users/token", tt.body)

			// Credential failures are 400, never 401
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.NotContains(t, resp.Body.String(), `"token"`)
		})
	}
}

func TestCreateToken_RotatesPreviousToken(t *testing.T) {
	ts := setupTestServer(t)
	first, _ := ts.createTestAccount(t, "cook@example.com")

	resp := ts.api.Post("/api/v1/users/token", map[string]any{
		"email":    "cook@example.com",
		"password": "SecurePassword123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[TokenResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	second := envelope.Data.Token
	require.NotEqual(t, first, second)

	// The old token stops working, the new one authenticates
	resp = ts.api.Get("/api/v1/users/me", authHeader(first))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/users/me", authHeader(second))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestCreateToken_RateLimitedPerClientIP(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Name = "Ladle Test"
	cfg.Auth.TokenRPS = 0.001
	cfg.Auth.TokenBurst = 2
	ts := newTestServer(t, cfg)

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":    "cook@example.com",
		"password": "SecurePassword123",
		"name":     "Test Cook",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	// Direct clients carry no proxy headers, so the limiter has to key
	// off the connection's remote address.
	postToken := func(remoteAddr string) int {
		body := strings.NewReader(`{"email":"cook@example.com","password":"SecurePassword123"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/token", body)
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		ts.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, postToken("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, postToken("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, postToken("10.0.0.1:3333"))

	// A different client keeps its own bucket.
	assert.Equal(t, http.StatusOK, postToken("10.0.0.2:1111"))
}

func TestGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.createTestAccount(t, "cook@example.com")

	resp := ts.api.Get("/api/v1/users/me", authHeader(token))
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, userID, envelope.Data.ID)
	assert.Equal(t, "cook@example.com", envelope.Data.Email)
	assert.Equal(t, "Test Cook", envelope.Data.Name)
}

func TestUpdateCurrentUser_Partial(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	resp := ts.api.Patch("/api/v1/users/me", authHeader(token), map[string]any{
		"name": "Renamed Cook",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "Renamed Cook", envelope.Data.Name)
	assert.Equal(t, "cook@example.com", envelope.Data.Email)
}

func TestUpdateCurrentUser_PasswordChange(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	resp := ts.api.Patch("/api/v1/users/me", authHeader(token), map[string]any{
		"password": "NewPassword456",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	// Old password no longer issues tokens
	resp = ts.api.Post("/api/v1/users/token", map[string]any{
		"email":    "cook@example.com",
		"password": "SecurePassword123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Post("/api/v1/users/token", map[string]any{
		"email":    "cook@example.com",
		"password": "NewPassword456",
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestPostCurrentUser_MethodNotAllowed(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestAccount(t, "cook@example.com")

	resp := ts.api.Post("/api/v1/users/me", authHeader(token), map[string]any{
		"name": "Nope",
	})
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}
