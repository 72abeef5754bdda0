package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{200, 40, 40, 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(w, h), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestProcessCover_PNGBecomesJPEG(t *testing.T) {
	cover, err := ProcessCover(bytes.NewReader(encodePNG(t, 64, 32)), 0)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", cover.MIME)
	assert.Equal(t, 64, cover.Width)
	assert.Equal(t, 32, cover.Height)

	_, format, err := image.Decode(cover.Reader())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestProcessCover_DownscalesKeepingAspect(t *testing.T) {
	cover, err := ProcessCover(bytes.NewReader(encodeJPEG(t, 3200, 800)), 0)
	require.NoError(t, err)

	assert.Equal(t, MaxCoverDimension, cover.Width)
	assert.Equal(t, 400, cover.Height)
}

func TestProcessCover_PortraitDownscale(t *testing.T) {
	cover, err := ProcessCover(bytes.NewReader(encodeJPEG(t, 900, 1800)), 0)
	require.NoError(t, err)

	assert.Equal(t, 800, cover.Width)
	assert.Equal(t, MaxCoverDimension, cover.Height)
}

func TestProcessCover_RejectsNonImages(t *testing.T) {
	_, err := ProcessCover(strings.NewReader("%PDF-1.4 definitely not a picture"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestProcessCover_RejectsTruncatedImage(t *testing.T) {
	data := encodePNG(t, 32, 32)
	_, err := ProcessCover(bytes.NewReader(data[:40]), 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// withDimensions rewrites the IHDR chunk of a PNG so it declares w x h pixels.
func withDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := bytes.Clone(data)
	require.Equal(t, "IHDR", string(out[12:16]))
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestProcessCover_RejectsHugeDeclaredDimensions(t *testing.T) {
	data := withDimensions(t, encodePNG(t, 8, 8), 12000, 12000)
	require.Less(t, len(data), 1024)

	_, err := ProcessCover(bytes.NewReader(data), 0)

	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestProcessCover_HonoursByteLimit(t *testing.T) {
	data := encodePNG(t, 64, 64)

	_, err := ProcessCover(bytes.NewReader(data), int64(len(data)-1))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = ProcessCover(bytes.NewReader(data), int64(len(data)))
	assert.NoError(t, err)
}
