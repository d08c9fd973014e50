package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	storage := setupTestStorage(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewProcessor(storage, logger)
}

// makeJPEG renders a small solid-color JPEG for upload tests.
func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func makePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessor_Process_JPEG(t *testing.T) {
	p := newTestProcessor(t)

	result, err := p.Process(makeJPEG(t, 20, 20))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(result.Filename, ".jpg"), "filename: %s", result.Filename)
	assert.NotEmpty(t, result.BlurHash)
	assert.Len(t, result.Hash, 64)
	assert.True(t, p.storage.Exists(result.Filename))
}

func TestProcessor_Process_PNG(t *testing.T) {
	p := newTestProcessor(t)

	result, err := p.Process(makePNG(t))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Filename, ".png"), "filename: %s", result.Filename)
}

func TestProcessor_Process_UniqueFilenames(t *testing.T) {
	p := newTestProcessor(t)
	data := makeJPEG(t, 10, 10)

	r1, err := p.Process(data)
	require.NoError(t, err)
	r2, err := p.Process(data)
	require.NoError(t, err)

	assert.NotEqual(t, r1.Filename, r2.Filename)
}

func TestProcessor_Process_NotAnImage(t *testing.T) {
	p := newTestProcessor(t)

	_, err := p.Process([]byte("definitely not image bytes"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestProcessor_Process_LargeImageGetsBlurHash(t *testing.T) {
	p := newTestProcessor(t)

	// Larger than the blurhash thumbnail size, exercising the resize path.
	result, err := p.Process(makeJPEG(t, 200, 120))
	require.NoError(t, err)
	assert.NotEmpty(t, result.BlurHash)
}

func TestProcessor_Remove(t *testing.T) {
	p := newTestProcessor(t)

	result, err := p.Process(makeJPEG(t, 10, 10))
	require.NoError(t, err)

	require.NoError(t, p.Remove(result.Filename))
	assert.False(t, p.storage.Exists(result.Filename))
}
