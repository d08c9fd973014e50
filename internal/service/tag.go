package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ladleapp/ladle-server/internal/domain"
	domainerrors "github.com/ladleapp/ladle-server/internal/errors"
	"github.com/ladleapp/ladle-server/internal/id"
	"github.com/ladleapp/ladle-server/internal/normalize"
	"github.com/ladleapp/ladle-server/internal/store"
)

// TagService orchestrates tag operations.
// Tags belong to the user who created them; no operation crosses owners.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// TagRequest carries a tag's mutable fields.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// List returns the user's tags, ordered by name descending.
// With assignedOnly, only tags attached to at least one recipe appear.
func (s *TagService) List(ctx context.Context, userID string, assignedOnly bool) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx, userID, assignedOnly)
}

// Get returns a single tag owned by the user.
func (s *TagService) Get(ctx context.Context, userID, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, userID, tagID)
	if errors.Is(err, store.ErrTagNotFound) {
		return nil, domainerrors.NotFound("tag not found")
	}
	return tag, err
}

// Create makes a new tag owned by the user.
func (s *TagService) Create(ctx context.Context, userID string, req TagRequest) (*domain.Tag, error) {
	req.Name = normalize.Name(req.Name)
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	tag := &domain.Tag{
		Timestamps: domain.Timestamps{ID: tagID},
		UserID:     userID,
		Name:       req.Name,
	}
	tag.InitTimestamps()

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info("tag created", "tag_id", tagID, "user_id", userID)

	return tag, nil
}

// Update renames a tag owned by the user.
func (s *TagService) Update(ctx context.Context, userID, tagID string, req TagRequest) (*domain.Tag, error) {
	req.Name = normalize.Name(req.Name)
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	tag, err := s.Get(ctx, userID, tagID)
	if err != nil {
		return nil, err
	}

	tag.Name = req.Name
	tag.Touch()
	if err := s.store.UpdateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrTagNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}

	return tag, nil
}

// Delete removes a tag owned by the user. Recipe links disappear with it.
func (s *TagService) Delete(ctx context.Context, userID, tagID string) error {
	if err := s.store.DeleteTag(ctx, userID, tagID); err != nil {
		if errors.Is(err, store.ErrTagNotFound) {
			return domainerrors.NotFound("tag not found")
		}
		return fmt.Errorf("delete tag: %w", err)
	}

	s.logger.Info("tag deleted", "tag_id", tagID, "user_id", userID)
	return nil
}
