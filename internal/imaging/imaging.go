// Package imaging normalizes uploaded cover images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxCoverDimension bounds the longest edge of a stored cover.
	MaxCoverDimension = 1600

	// MaxInputBytes is the default upload limit applied before decoding.
	MaxInputBytes = 10 << 20

	// MaxInputPixels bounds width*height as declared in the image header.
	MaxInputPixels = 40_000_000

	jpegQuality = 85
)

var (
	ErrUnsupportedFormat = errors.New("imaging: unsupported image format")
	ErrTooLarge          = errors.New("imaging: image exceeds size limit")
)

// allowedMIME is matched against sniffed bytes, never client headers.
var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AllowedContentTypes lists what a browser may declare for a cover upload.
func AllowedContentTypes() []string {
	return []string{"image/jpeg", "image/png", "image/webp"}
}

type Cover struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

func (c *Cover) Reader() io.Reader {
	return bytes.NewReader(c.Data)
}

// ProcessCover sniffs, decodes, downscales and re-encodes r as JPEG. Inputs
// over maxBytes (MaxInputBytes when zero) or MaxInputPixels fail with ErrTooLarge.
func ProcessCover(r io.Reader, maxBytes int64) (*Cover, error) {
	if maxBytes <= 0 {
		maxBytes = MaxInputBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}

	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, detected)
	}

	// The header alone tells how much memory decoding will take.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedFormat)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxInputPixels {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	img = fit(img, MaxCoverDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Cover{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// fit scales img down so its longest edge is at most maxDim, keeping the
// aspect ratio. Smaller images are returned untouched.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
