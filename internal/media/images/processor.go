package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log/slog"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrNotAnImage is returned when uploaded data cannot be decoded as an
// image in any supported format.
var ErrNotAnImage = errors.New("data is not a decodable image")

// Processor validates uploaded recipe images and stores them.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// ProcessResult describes a stored recipe image.
type ProcessResult struct {
	Filename string // Generated name the image is stored under
	BlurHash string // Placeholder hash for clients to render while loading
	Hash     string // SHA256 of the stored bytes for cache validation
}

// Process validates and stores uploaded image data.
// The stored filename is a fresh UUID plus the detected format's extension,
// so uploads never collide and client-supplied names never reach the disk.
// Returns ErrNotAnImage when the data cannot be decoded.
func (p *Processor) Process(data []byte) (*ProcessResult, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, err)
	}

	filename := uuid.NewString() + "." + extensionFor(format)

	if err := p.storage.Save(filename, data); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	hash, err := p.storage.Hash(filename)
	if err != nil {
		return nil, fmt.Errorf("hash image: %w", err)
	}

	blurHash, err := ComputeBlurHash(img)
	if err != nil {
		// The image is stored and usable; the placeholder is best-effort.
		p.logger.Warn("failed to compute blurhash", "filename", filename, "error", err)
		blurHash = ""
	}

	p.logger.Debug("stored recipe image",
		"filename", filename,
		"format", format,
		"size", len(data),
	)

	return &ProcessResult{
		Filename: filename,
		BlurHash: blurHash,
		Hash:     hash,
	}, nil
}

// Remove deletes a previously stored image.
func (p *Processor) Remove(filename string) error {
	return p.storage.Delete(filename)
}

// extensionFor maps an image.Decode format name to a file extension.
func extensionFor(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
