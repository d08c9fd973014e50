package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/ladleapp/ladle-server/internal/auth"
	"github.com/ladleapp/ladle-server/internal/domain"
	"github.com/ladleapp/ladle-server/internal/id"
	"github.com/ladleapp/ladle-server/internal/store"
	"github.com/ladleapp/ladle-server/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

// newServiceStore creates a temporary sqlite store for service tests.
func newServiceStore(t *testing.T) store.Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createServiceUser inserts a user directly into the store.
func createServiceUser(t *testing.T, s store.Store, email, password string) *domain.User {
	t.Helper()

	passwordHash, err := auth.HashPassword(password)
	require.NoError(t, err)

	userID, err := id.Generate("user")
	require.NoError(t, err)

	user := &domain.User{
		Timestamps:   domain.Timestamps{ID: userID},
		Email:        email,
		PasswordHash: passwordHash,
		Name:         "Test User",
		IsActive:     true,
	}
	user.InitTimestamps()

	require.NoError(t, s.CreateUser(context.Background(), user))

	return user
}
