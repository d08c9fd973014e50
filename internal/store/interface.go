// Package store defines the persistence interface for the Ladle server.
package store

import (
	"context"

	"github.com/ladleapp/ladle-server/internal/domain"
)

// RecipeFilter narrows a recipe listing. Zero value means no restriction.
type RecipeFilter struct {
	// TagIDs restricts to recipes linked to at least one of these tags.
	TagIDs []string
	// IngredientIDs restricts to recipes linked to at least one of these
	// ingredients.
	IngredientIDs []string
}

// Store defines the interface for all persistence operations.
// Every owner-scoped operation takes the owning user's ID explicitly;
// there is no ambient "current user" anywhere below the API layer.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUserIDs(ctx context.Context) ([]string, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// API tokens (one per user, stored hashed)
	UpsertToken(ctx context.Context, token *domain.APIToken) error
	GetUserByTokenHash(ctx context.Context, tokenHash string) (*domain.User, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, userID, tagID string) (*domain.Tag, error)
	ListTags(ctx context.Context, userID string, assignedOnly bool) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, userID, tagID string) error

	// Ingredients
	CreateIngredient(ctx context.Context, ing *domain.Ingredient) error
	GetIngredient(ctx context.Context, userID, ingredientID string) (*domain.Ingredient, error)
	ListIngredients(ctx context.Context, userID string, assignedOnly bool) ([]*domain.Ingredient, error)
	UpdateIngredient(ctx context.Context, ing *domain.Ingredient) error
	DeleteIngredient(ctx context.Context, userID, ingredientID string) error

	// Recipes
	CreateRecipe(ctx context.Context, recipe *domain.Recipe) error
	GetRecipe(ctx context.Context, userID, recipeID string) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, userID string, filter RecipeFilter) ([]*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, userID, recipeID string) error
	SetRecipeTags(ctx context.Context, recipeID string, tagIDs []string) error
	SetRecipeIngredients(ctx context.Context, recipeID string, ingredientIDs []string) error
	GetTagsForRecipe(ctx context.Context, recipeID string) ([]*domain.Tag, error)
	GetIngredientsForRecipe(ctx context.Context, recipeID string) ([]*domain.Ingredient, error)
}
