package service

import (
	"context"
	"strings"
	"testing"

	"github.com/ladleapp/ladle-server/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProfileTest(t *testing.T) *ProfileService {
	t.Helper()
	return NewProfileService(newServiceStore(t), testLogger())
}

func TestProfileService_Get(t *testing.T) {
	profileService := setupProfileTest(t)
	ctx := context.Background()

	user := createServiceUser(t, profileService.store, "cook@example.com", "SecurePassword123")

	got, err := profileService.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "cook@example.com", got.Email)

	_, err = profileService.Get(ctx, "user_missing")
	assert.Error(t, err)
}

func TestProfileService_Update_PartialFields(t *testing.T) {
	profileService := setupProfileTest(t)
	ctx := context.Background()

	user := createServiceUser(t, profileService.store, "cook@example.com", "SecurePassword123")

	newName := "New Name"
	updated, err := profileService.Update(ctx, user.ID, UpdateProfileRequest{
		Name: &newName,
	})
	require.NoError(t, err)

	// Only the provided field changes
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "cook@example.com", updated.Email)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)
}

func TestProfileService_Update_Password(t *testing.T) {
	profileService := setupProfileTest(t)
	ctx := context.Background()

	user := createServiceUser(t, profileService.store, "cook@example.com", "OldPassword123")

	newPassword := "NewPassword456"
	updated, err := profileService.Update(ctx, user.ID, UpdateProfileRequest{
		Password: &newPassword,
	})
	require.NoError(t, err)
	assert.NotEqual(t, user.PasswordHash, updated.PasswordHash)

	valid, err := auth.VerifyPassword(updated.PasswordHash, "NewPassword456")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestProfileService_Update_ValidationErrors(t *testing.T) {
	profileService := setupProfileTest(t)
	ctx := context.Background()

	user := createServiceUser(t, profileService.store, "cook@example.com", "SecurePassword123")

	shortPassword := "short"
	longName := strings.Repeat("n", 256)

	tests := []struct {
		name string
		req  UpdateProfileRequest
	}{
		{name: "short password", req: UpdateProfileRequest{Password: &shortPassword}},
		{name: "name too long", req: UpdateProfileRequest{Name: &longName}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := profileService.Update(ctx, user.ID, tt.req)
			assert.Error(t, err)
		})
	}
}

func TestProfileService_EmailImmutable(t *testing.T) {
	profileService := setupProfileTest(t)
	ctx := context.Background()

	user := createServiceUser(t, profileService.store, "cook@example.com", "SecurePassword123")

	// The request type carries no email field at all; every update path
	// must leave the registered address untouched.
	newName := "Renamed"
	newPassword := "NewPassword456"
	updated, err := profileService.Update(ctx, user.ID, UpdateProfileRequest{
		Name:     &newName,
		Password: &newPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", updated.Email)

	got, err := profileService.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", got.Email)
}
