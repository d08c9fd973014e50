// Package images provides recipe image validation, processing, and storage.
package images

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages image filesystem operations.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a new Storage instance for recipe images.
// basePath should be the media directory (e.g., ~/Ladle/media).
// Images will be stored in {basePath}/recipes/.
func NewStorage(basePath string) (*Storage, error) {
	return NewStorageWithSubdir(basePath, "recipes")
}

// NewStorageWithSubdir creates a new Storage instance with a custom subdirectory.
// Images will be stored in {basePath}/{subdir}/.
func NewStorageWithSubdir(basePath, subdir string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if subdir == "" {
		return nil, fmt.Errorf("subdirectory cannot be empty")
	}

	storagePath := filepath.Join(basePath, subdir)

	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}

	return &Storage{
		basePath: storagePath,
	}, nil
}

// Save stores image data under the given filename.
// Filenames carry their own extension (e.g., "3f1c....jpg").
func (s *Storage) Save(filename string, imgData []byte) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(filename), imgData, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}

// Get retrieves stored image data.
func (s *Storage) Get(filename string) ([]byte, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found for %s: %w", filename, err)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return data, nil
}

// Exists checks whether a stored image exists.
func (s *Storage) Exists(filename string) bool {
	if filename == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(filename))
	return err == nil
}

// Delete removes a stored image. Deleting a missing file is not an error.
func (s *Storage) Delete(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(filename)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// Hash computes the SHA256 hash of a stored image.
// Returns a hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(filename string) (string, error) {
	data, err := s.Get(filename)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for a stored image.
// The filename is flattened to its base to keep lookups inside basePath.
func (s *Storage) Path(filename string) string {
	return filepath.Join(s.basePath, filepath.Base(filename))
}
