package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ladleapp/ladle-server/internal/domain"
	"github.com/ladleapp/ladle-server/internal/store"
)

const ingredientColumns = `id, user_id, name, created_at, updated_at`

func scanIngredient(scanner interface{ Scan(dest ...any) error }) (*domain.Ingredient, error) {
	var ing domain.Ingredient

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&ing.ID,
		&ing.UserID,
		&ing.Name,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ing.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	ing.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &ing, nil
}

// CreateIngredient inserts a new ingredient.
func (s *Store) CreateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredients (id, user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		ing.ID,
		ing.UserID,
		ing.Name,
		formatTime(ing.CreatedAt),
		formatTime(ing.UpdatedAt),
	)
	return err
}

// GetIngredient retrieves an ingredient owned by the given user.
// Returns store.ErrIngredientNotFound if no such ingredient exists for that owner.
func (s *Store) GetIngredient(ctx context.Context, userID, ingredientID string) (*domain.Ingredient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = ? AND user_id = ?`,
		ingredientID, userID)

	ing, err := scanIngredient(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrIngredientNotFound
	}
	if err != nil {
		return nil, err
	}
	return ing, nil
}

// ListIngredients returns the user's ingredients ordered by name descending.
// With assignedOnly, only ingredients linked to at least one recipe are returned.
func (s *Store) ListIngredients(ctx context.Context, userID string, assignedOnly bool) ([]*domain.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE user_id = ?`
	if assignedOnly {
		query += ` AND EXISTS (SELECT 1 FROM recipe_ingredients WHERE ingredient_id = ingredients.id)`
	}
	query += ` ORDER BY name DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ings []*domain.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ings = append(ings, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if ings == nil {
		ings = []*domain.Ingredient{}
	}

	return ings, nil
}

// UpdateIngredient persists changes to an existing ingredient, scoped to its owner.
// Returns store.ErrIngredientNotFound if no matching row exists.
func (s *Store) UpdateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ingredients SET name = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		ing.Name,
		formatTime(ing.UpdatedAt),
		ing.ID,
		ing.UserID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrIngredientNotFound
	}
	return nil
}

// DeleteIngredient removes an ingredient owned by the given user.
// Returns store.ErrIngredientNotFound if no matching row exists.
func (s *Store) DeleteIngredient(ctx context.Context, userID, ingredientID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM ingredients WHERE id = ? AND user_id = ?`, ingredientID, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrIngredientNotFound
	}
	return nil
}

// SetRecipeIngredients replaces all ingredient links for a recipe in a single transaction.
func (s *Store) SetRecipeIngredients(ctx context.Context, recipeID string, ingredientIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("delete recipe_ingredients: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, ingredientID := range ingredientIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, created_at)
			VALUES (?, ?, ?)`,
			recipeID,
			ingredientID,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert recipe_ingredient: %w", err)
		}
	}

	return tx.Commit()
}

// GetIngredientsForRecipe returns the ingredients linked to a recipe,
// ordered by name descending.
func (s *Store) GetIngredientsForRecipe(ctx context.Context, recipeID string) ([]*domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.user_id, i.name, i.created_at, i.updated_at
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ?
		ORDER BY i.name DESC, i.id DESC`,
		recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ings []*domain.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ings = append(ings, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if ings == nil {
		ings = []*domain.Ingredient{}
	}

	return ings, nil
}
