package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ladleapp/ladle-server/internal/auth"
	"github.com/ladleapp/ladle-server/internal/domain"
	domainerrors "github.com/ladleapp/ladle-server/internal/errors"
	"github.com/ladleapp/ladle-server/internal/normalize"
	"github.com/ladleapp/ladle-server/internal/store"
)

// ProfileService manages the authenticated user's own account.
type ProfileService struct {
	store  store.Store
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		logger: logger,
	}
}

// UpdateProfileRequest carries partial profile changes.
// Nil fields are left untouched; a set password is re-hashed.
// Email is deliberately absent: it is immutable after registration.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=1024"`
}

// Get returns the user's current profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update applies partial changes to the user's profile.
func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = normalize.Name(*req.Name)
	}
	if req.Password != nil {
		passwordHash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = passwordHash
	}

	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("profile updated", "user_id", userID)

	return user, nil
}
