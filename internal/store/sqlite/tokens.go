package sqlite

import (
	"context"
	"database/sql"

	"github.com/ladleapp/ladle-server/internal/domain"
	"github.com/ladleapp/ladle-server/internal/store"
)

// UpsertToken stores the hashed API token for a user, replacing any
// previously issued token. Issuing is rotation: the old token stops
// working the moment the new row lands.
func (s *Store) UpsertToken(ctx context.Context, t *domain.APIToken) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_tokens (user_id, token_hash, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			token_hash = excluded.token_hash,
			created_at = excluded.created_at`,
		t.UserID,
		t.TokenHash,
		formatTime(t.CreatedAt),
	)
	return err
}

// GetUserByTokenHash resolves a hashed token to its owning user.
// Returns store.ErrTokenNotFound when no token matches.
func (s *Store) GetUserByTokenHash(ctx context.Context, tokenHash string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.name, u.password_hash, u.is_active, u.is_staff, u.created_at, u.updated_at
		FROM api_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token_hash = ?`,
		tokenHash)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
