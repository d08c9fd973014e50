package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ladleapp/ladle-server/internal/domain"
	"github.com/ladleapp/ladle-server/internal/store"
)

const recipeColumns = `id, user_id, title, time_minutes, price, link, image_path, image_blurhash, created_at, updated_at`

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var r domain.Recipe

	var (
		imagePath     sql.NullString
		imageBlurHash sql.NullString
		createdAt     string
		updatedAt     string
	)

	err := scanner.Scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.TimeMinutes,
		&r.Price,
		&r.Link,
		&imagePath,
		&imageBlurHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.ImagePath = imagePath.String
	r.ImageBlurHash = imageBlurHash.String

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// loadRecipeLinks fills in the tag and ingredient ID slices for a recipe.
func (s *Store) loadRecipeLinks(ctx context.Context, r *domain.Recipe) error {
	var err error
	r.TagIDs, err = s.linkedIDs(ctx,
		`SELECT tag_id FROM recipe_tags WHERE recipe_id = ?`, r.ID)
	if err != nil {
		return fmt.Errorf("load recipe tags: %w", err)
	}
	r.IngredientIDs, err = s.linkedIDs(ctx,
		`SELECT ingredient_id FROM recipe_ingredients WHERE recipe_id = ?`, r.ID)
	if err != nil {
		return fmt.Errorf("load recipe ingredients: %w", err)
	}
	return nil
}

func (s *Store) linkedIDs(ctx context.Context, query, recipeID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateRecipe inserts a new recipe. Tag and ingredient links are managed
// separately via SetRecipeTags and SetRecipeIngredients.
func (s *Store) CreateRecipe(ctx context.Context, r *domain.Recipe) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, user_id, title, time_minutes, price, link, image_path, image_blurhash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.UserID,
		r.Title,
		r.TimeMinutes,
		r.Price,
		r.Link,
		nullString(r.ImagePath),
		nullString(r.ImageBlurHash),
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	return err
}

// GetRecipe retrieves a recipe owned by the given user, with its tag and
// ingredient links populated.
// Returns store.ErrRecipeNotFound if no such recipe exists for that owner.
func (s *Store) GetRecipe(ctx context.Context, userID, recipeID string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND user_id = ?`,
		recipeID, userID)

	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadRecipeLinks(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecipes returns the user's recipes, newest first. Tag and ingredient
// filters each match recipes linked to ANY of the given IDs; DISTINCT keeps
// a recipe matching several filter IDs from appearing twice.
func (s *Store) ListRecipes(ctx context.Context, userID string, filter store.RecipeFilter) ([]*domain.Recipe, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT DISTINCT r.id, r.user_id, r.title, r.time_minutes, r.price, r.link, r.image_path, r.image_blurhash, r.created_at, r.updated_at FROM recipes r`)

	args := []any{}

	if len(filter.TagIDs) > 0 {
		sb.WriteString(` JOIN recipe_tags rt ON rt.recipe_id = r.id AND rt.tag_id IN (` + placeholders(len(filter.TagIDs)) + `)`)
		for _, id := range filter.TagIDs {
			args = append(args, id)
		}
	}
	if len(filter.IngredientIDs) > 0 {
		sb.WriteString(` JOIN recipe_ingredients ri ON ri.recipe_id = r.id AND ri.ingredient_id IN (` + placeholders(len(filter.IngredientIDs)) + `)`)
		for _, id := range filter.IngredientIDs {
			args = append(args, id)
		}
	}

	sb.WriteString(` WHERE r.user_id = ? ORDER BY r.created_at DESC, r.id DESC`)
	args = append(args, userID)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, r := range recipes {
		if err := s.loadRecipeLinks(ctx, r); err != nil {
			return nil, err
		}
	}

	if recipes == nil {
		recipes = []*domain.Recipe{}
	}

	return recipes, nil
}

// UpdateRecipe persists changes to an existing recipe, scoped to its owner.
// Returns store.ErrRecipeNotFound if no matching row exists.
func (s *Store) UpdateRecipe(ctx context.Context, r *domain.Recipe) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE recipes
		SET title = ?, time_minutes = ?, price = ?, link = ?, image_path = ?, image_blurhash = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		r.Title,
		r.TimeMinutes,
		r.Price,
		r.Link,
		nullString(r.ImagePath),
		nullString(r.ImageBlurHash),
		formatTime(r.UpdatedAt),
		r.ID,
		r.UserID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrRecipeNotFound
	}
	return nil
}

// DeleteRecipe removes a recipe owned by the given user. Link rows go with
// it via ON DELETE CASCADE.
// Returns store.ErrRecipeNotFound if no matching row exists.
func (s *Store) DeleteRecipe(ctx context.Context, userID, recipeID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ? AND user_id = ?`, recipeID, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrRecipeNotFound
	}
	return nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
