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

// IngredientService orchestrates ingredient operations, owner-scoped like tags.
type IngredientService struct {
	store  store.Store
	logger *slog.Logger
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(store store.Store, logger *slog.Logger) *IngredientService {
	return &IngredientService{
		store:  store,
		logger: logger,
	}
}

// IngredientRequest carries an ingredient's mutable fields.
type IngredientRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// List returns the user's ingredients, ordered by name descending.
func (s *IngredientService) List(ctx context.Context, userID string, assignedOnly bool) ([]*domain.Ingredient, error) {
	return s.store.ListIngredients(ctx, userID, assignedOnly)
}

// Get returns a single ingredient owned by the user.
func (s *IngredientService) Get(ctx context.Context, userID, ingredientID string) (*domain.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, userID, ingredientID)
	if errors.Is(err, store.ErrIngredientNotFound) {
		return nil, domainerrors.NotFound("ingredient not found")
	}
	return ing, err
}

// Create makes a new ingredient owned by the user.
func (s *IngredientService) Create(ctx context.Context, userID string, req IngredientRequest) (*domain.Ingredient, error) {
	req.Name = normalize.Name(req.Name)
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	ingredientID, err := id.Generate("ing")
	if err != nil {
		return nil, fmt.Errorf("generate ingredient ID: %w", err)
	}

	ing := &domain.Ingredient{
		Timestamps: domain.Timestamps{ID: ingredientID},
		UserID:     userID,
		Name:       req.Name,
	}
	ing.InitTimestamps()

	if err := s.store.CreateIngredient(ctx, ing); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}

	s.logger.Info("ingredient created", "ingredient_id", ingredientID, "user_id", userID)

	return ing, nil
}

// Update renames an ingredient owned by the user.
func (s *IngredientService) Update(ctx context.Context, userID, ingredientID string, req IngredientRequest) (*domain.Ingredient, error) {
	req.Name = normalize.Name(req.Name)
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	ing, err := s.Get(ctx, userID, ingredientID)
	if err != nil {
		return nil, err
	}

	ing.Name = req.Name
	ing.Touch()
	if err := s.store.UpdateIngredient(ctx, ing); err != nil {
		if errors.Is(err, store.ErrIngredientNotFound) {
			return nil, domainerrors.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("update ingredient: %w", err)
	}

	return ing, nil
}

// Delete removes an ingredient owned by the user.
func (s *IngredientService) Delete(ctx context.Context, userID, ingredientID string) error {
	if err := s.store.DeleteIngredient(ctx, userID, ingredientID); err != nil {
		if errors.Is(err, store.ErrIngredientNotFound) {
			return domainerrors.NotFound("ingredient not found")
		}
		return fmt.Errorf("delete ingredient: %w", err)
	}

	s.logger.Info("ingredient deleted", "ingredient_id", ingredientID, "user_id", userID)
	return nil
}
