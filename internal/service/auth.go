package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ladleapp/ladle-server/internal/auth"
	"github.com/ladleapp/ladle-server/internal/domain"
	domainerrors "github.com/ladleapp/ladle-server/internal/errors"
	"github.com/ladleapp/ladle-server/internal/id"
	"github.com/ladleapp/ladle-server/internal/normalize"
	"github.com/ladleapp/ladle-server/internal/store"
)

// AuthService handles registration, token issuance, and token verification.
type AuthService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store store.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		logger: logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	Name     string `json:"name" validate:"max=255"`
}

// TokenRequest contains user credentials for token issuance.
type TokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user account. Registration is open; any email not
// already registered gets an active account immediately.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Timestamps:   domain.Timestamps{ID: userID},
		Email:        normalize.Email(req.Email),
		Name:         normalize.Name(req.Name),
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.Validation("a user with that email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", userID,
		"email", user.Email,
	)

	return user, nil
}

// IssueToken authenticates credentials and returns a fresh API token.
// Issuing replaces any previously held token for the user (rotation);
// the plaintext is returned once and only its hash is stored.
// Credential failures are reported as invalid-credentials, never as
// unauthorized, and never reveal whether the email exists.
func (s *AuthService) IssueToken(ctx context.Context, req TokenRequest) (string, *domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return "", nil, formatValidationError(err)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", nil, domainerrors.InvalidCredentials("unable to authenticate with provided credentials")
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return "", nil, domainerrors.InvalidCredentials("unable to authenticate with provided credentials")
	}

	if !user.CanLogin() {
		return "", nil, domainerrors.InvalidCredentials("unable to authenticate with provided credentials")
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	apiToken := &domain.APIToken{
		UserID:    user.ID,
		TokenHash: auth.HashToken(token),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.UpsertToken(ctx, apiToken); err != nil {
		return "", nil, fmt.Errorf("store token: %w", err)
	}

	s.logger.Info("token issued", "user_id", user.ID)

	return token, user, nil
}

// VerifyToken resolves a plaintext API token to its user.
// Used by authentication middleware.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	user, err := s.store.GetUserByTokenHash(ctx, auth.HashToken(token))
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil, domainerrors.Unauthorized("invalid token")
		}
		return nil, fmt.Errorf("lookup token: %w", err)
	}

	if !user.CanLogin() {
		return nil, domainerrors.Unauthorized("account is disabled")
	}

	return user, nil
}
