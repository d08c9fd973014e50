package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return storage
}

func TestNewStorage(t *testing.T) {
	t.Run("creates storage with valid path", func(t *testing.T) {
		tmpDir := t.TempDir()

		storage, err := NewStorage(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, storage)

		// Verify recipes directory was created.
		recipesPath := filepath.Join(tmpDir, "recipes")
		info, err := os.Stat(recipesPath)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("returns error for empty path", func(t *testing.T) {
		storage, err := NewStorage("")
		assert.Error(t, err)
		assert.Nil(t, storage)
		assert.Contains(t, err.Error(), "base path cannot be empty")
	})

	t.Run("creates nested directories if needed", func(t *testing.T) {
		tmpDir := t.TempDir()
		nestedPath := filepath.Join(tmpDir, "nested", "path")

		storage, err := NewStorage(nestedPath)
		require.NoError(t, err)
		require.NotNil(t, storage)
	})
}

func TestStorage_SaveAndGet(t *testing.T) {
	t.Run("saves and retrieves image data", func(t *testing.T) {
		storage := setupTestStorage(t)
		testData := []byte("test image data")

		err := storage.Save("abc123.jpg", testData)
		require.NoError(t, err)

		data, err := storage.Get("abc123.jpg")
		require.NoError(t, err)
		assert.Equal(t, testData, data)
	})

	t.Run("returns error for empty filename", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Save("", []byte("data"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "filename cannot be empty")
	})

	t.Run("returns error for empty image data", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Save("abc123.jpg", []byte{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "image data cannot be empty")
	})

	t.Run("returns error for missing image", func(t *testing.T) {
		storage := setupTestStorage(t)

		_, err := storage.Get("missing.jpg")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "image not found")
	})
}

func TestStorage_Exists(t *testing.T) {
	storage := setupTestStorage(t)

	assert.False(t, storage.Exists("nope.jpg"))
	assert.False(t, storage.Exists(""))

	require.NoError(t, storage.Save("yes.jpg", []byte("data")))
	assert.True(t, storage.Exists("yes.jpg"))
}

func TestStorage_Delete(t *testing.T) {
	t.Run("deletes stored image", func(t *testing.T) {
		storage := setupTestStorage(t)
		require.NoError(t, storage.Save("gone.jpg", []byte("data")))

		require.NoError(t, storage.Delete("gone.jpg"))
		assert.False(t, storage.Exists("gone.jpg"))
	})

	t.Run("deleting a missing image is not an error", func(t *testing.T) {
		storage := setupTestStorage(t)
		assert.NoError(t, storage.Delete("never-existed.jpg"))
	})
}

func TestStorage_Hash(t *testing.T) {
	storage := setupTestStorage(t)
	require.NoError(t, storage.Save("hashed.jpg", []byte("stable content")))

	h1, err := storage.Hash("hashed.jpg")
	require.NoError(t, err)
	h2, err := storage.Hash("hashed.jpg")
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // hex-encoded SHA-256
}

func TestStorage_Path_FlattensTraversal(t *testing.T) {
	storage := setupTestStorage(t)

	path := storage.Path("../../etc/passwd")
	assert.Equal(t, storage.Path("passwd"), path)
}
