package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ladleapp/ladle-server/internal/domain"
	"github.com/ladleapp/ladle-server/internal/store"
)

func TestUpsertTokenAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "usr-tok", "tok@example.com")

	tok := &domain.APIToken{UserID: "usr-tok", TokenHash: "hash-one", CreatedAt: time.Now()}
	if err := s.UpsertToken(ctx, tok); err != nil {
		t.Fatalf("UpsertToken: %v", err)
	}

	u, err := s.GetUserByTokenHash(ctx, "hash-one")
	if err != nil {
		t.Fatalf("GetUserByTokenHash: %v", err)
	}
	if u.ID != "usr-tok" {
		t.Errorf("user ID: got %q, want %q", u.ID, "usr-tok")
	}
}

func TestUpsertToken_RotationInvalidatesOld(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "usr-rot", "rot@example.com")

	first := &domain.APIToken{UserID: "usr-rot", TokenHash: "hash-old", CreatedAt: time.Now()}
	if err := s.UpsertToken(ctx, first); err != nil {
		t.Fatalf("UpsertToken first: %v", err)
	}

	second := &domain.APIToken{UserID: "usr-rot", TokenHash: "hash-new", CreatedAt: time.Now()}
	if err := s.UpsertToken(ctx, second); err != nil {
		t.Fatalf("UpsertToken second: %v", err)
	}

	if _, err := s.GetUserByTokenHash(ctx, "hash-new"); err != nil {
		t.Fatalf("new token should resolve: %v", err)
	}

	_, err := s.GetUserByTokenHash(ctx, "hash-old")
	if !errors.Is(err, store.ErrTokenNotFound) {
		t.Fatalf("old token should be gone, got %v", err)
	}
}

func TestGetUserByTokenHash_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUserByTokenHash(context.Background(), "no-such-hash")
	if !errors.Is(err, store.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}
