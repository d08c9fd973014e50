package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ladleapp/ladle-server/internal/domain"
	"github.com/ladleapp/ladle-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, user_id, name, created_at, updated_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID,
		t.UserID,
		t.Name,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	return err
}

// GetTag retrieves a tag owned by the given user.
// Returns store.ErrTagNotFound if no such tag exists for that owner.
func (s *Store) GetTag(ctx context.Context, userID, tagID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ? AND user_id = ?`,
		tagID, userID)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns the user's tags ordered by name descending.
// With assignedOnly, only tags linked to at least one recipe are returned.
func (s *Store) ListTags(ctx context.Context, userID string, assignedOnly bool) ([]*domain.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE user_id = ?`
	if assignedOnly {
		query += ` AND EXISTS (SELECT 1 FROM recipe_tags WHERE tag_id = tags.id)`
	}
	query += ` ORDER BY name DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// UpdateTag persists changes to an existing tag, scoped to its owner.
// Returns store.ErrTagNotFound if no matching row exists.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.Name,
		formatTime(t.UpdatedAt),
		t.ID,
		t.UserID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrTagNotFound
	}
	return nil
}

// DeleteTag removes a tag owned by the given user.
// Returns store.ErrTagNotFound if no matching row exists.
func (s *Store) DeleteTag(ctx context.Context, userID, tagID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ? AND user_id = ?`, tagID, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrTagNotFound
	}
	return nil
}

// SetRecipeTags replaces all tag links for a recipe in a single transaction.
func (s *Store) SetRecipeTags(ctx context.Context, recipeID string, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("delete recipe_tags: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_tags (recipe_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			recipeID,
			tagID,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert recipe_tag: %w", err)
		}
	}

	return tx.Commit()
}

// GetTagsForRecipe returns the tags linked to a recipe, ordered by name descending.
func (s *Store) GetTagsForRecipe(ctx context.Context, recipeID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.name, t.created_at, t.updated_at
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ?
		ORDER BY t.name DESC, t.id DESC`,
		recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}
