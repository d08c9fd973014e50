package service

import (
	"context"
	"testing"

	"github.com/ladleapp/ladle-server/internal/auth"
	domainerrors "github.com/ladleapp/ladle-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newServiceStore(t), testLogger())
}

func TestAuthService_Register_Success(t *testing.T) {
	authService := setupAuthTest(t)
	ctx := context.Background()

	user, err := authService.Register(ctx, RegisterRequest{
		Email:    "Cook@Example.com",
		Password: "SecurePassword123",
		Name:     "Test Cook",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Cook@example.com", user.Email)
	assert.Equal(t, "Test Cook", user.Name)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)

	// Password never stored in the clear
	assert.NotEqual(t, "SecurePassword123", user.PasswordHash)
	valid, err := auth.VerifyPassword(user.PasswordHash, "SecurePassword123")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService := setupAuthTest(t)
	ctx := context.Background()

	req := RegisterRequest{
		Email:    "cook@example.com",
		Password: "SecurePassword123",
	}
	_, err := authService.Register(ctx, req)
	require.NoError(t, err)

	// Same email with different case is still a duplicate
	req.Email = "COOK@EXAMPLE.COM"
	_, err = authService.Register(ctx, req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
}

func TestAuthService_Register_ValidationErrors(t *testing.T) {
	authService := setupAuthTest(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr string
	}{
		{
			name:    "missing email",
			req:     RegisterRequest{Password: "SecurePassword123"},
			wantErr: "email",
		},
		{
			name:    "invalid email format",
			req:     RegisterRequest{Email: "not-an-email", Password: "SecurePassword123"},
			wantErr: "email",
		},
		{
			name:    "password too short",
			req:     RegisterRequest{Email: "cook@example.com", Password: "short"},
			wantErr: "password",
		},
		{
			name:    "missing password",
			req:     RegisterRequest{Email: "cook@example.com"},
			wantErr: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Register(ctx, tt.req)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAuthService_IssueToken_Success(t *testing.T) {
	authService := setupAuthTest(t)
	ctx := context.Background()

	createServiceUser(t, authService.store, "cook@example.com", "SecurePassword123")

	token, user, err := authService.IssueToken(ctx, TokenRequest{
		Email:    "cook@example.com",
		Password: "SecurePassword123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "cook@example.com", user.Email)

	// The plaintext token resolves back to its user
	verified, err := authService.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
}

func TestAuthService_IssueToken_InvalidCredentials(t *testing.T) {
	authService := setupAuthTest(t)
	ctx := context.Background()

	createServiceUser(t, authService.store, "cook@example.com", "CorrectPassword123")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "CorrectPassword123",
		},
		{
			name:     "wrong password",
			email:    "cook@example.com",
			password: "WrongPassword123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := authService.IssueToken(ctx, TokenRequest{
				Email:    tt.email,
				Password: tt.password,
			})
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeInvalidCredentials, domainErr.Code)
		})
	}
}

func TestAuthService_IssueToken_InactiveUser(t *testing.T) {
	authService := setupAuthTest(t)
	ctx := context.Background()

	user := createServiceUser(t, authService.store, "cook@example.com", "SecurePassword123")
	user.IsActive = false
	require.NoError(t, authService.store.UpdateUser(ctx, user))

	_, _, err := authService.IssueToken(ctx, TokenRequest{
		Email:    "cook@example.com",
		Password: "SecurePassword123",
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeInvalidCredentials, domainErr.Code)
}

func TestAuthService_IssueToken_RotatesToken(t *testing.T) {
	authService := setupAuthTest(t)
	ctx := context.Background()

	createServiceUser(t, authService.store, "cook@example.com", "SecurePassword123")

	req := TokenRequest{Email: "cook@example.com", Password: "SecurePassword123"}

	first, _, err := authService.IssueToken(ctx, req)
	require.NoError(t, err)

	second, _, err := authService.IssueToken(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// Only the latest token authenticates
	_, err = authService.VerifyToken(ctx, first)
	assert.Error(t, err)

	_, err = authService.VerifyToken(ctx, second)
	assert.NoError(t, err)
}

func TestAuthService_VerifyToken_Invalid(t *testing.T) {
	authService := setupAuthTest(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "unknown token", token: "not-a-real-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.VerifyToken(ctx, tt.token)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeUnauthorized, domainErr.Code)
		})
	}
}

func TestAuthService_VerifyToken_DisabledUser(t *testing.T) {
	authService := setupAuthTest(t)
	ctx := context.Background()

	user := createServiceUser(t, authService.store, "cook@example.com", "SecurePassword123")

	token, _, err := authService.IssueToken(ctx, TokenRequest{
		Email:    "cook@example.com",
		Password: "SecurePassword123",
	})
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, authService.store.UpdateUser(ctx, user))

	_, err = authService.VerifyToken(ctx, token)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}
