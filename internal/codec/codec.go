// Package codec converts canvas buffers to and from lossless image files.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/example/rasterpad/internal/canvas"
)

// Format names a lossless encoding supported by Encode.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ErrTranslucent is returned when an image with transparency is encoded as
// BMP, which has no alpha channel.
var ErrTranslucent = errors.New("bmp cannot store transparent pixels")

// Formats lists the encodings in preference order.
func Formats() []Format {
	return []Format{PNG, BMP, TIFF}
}

// ParseFormat resolves a format name. The empty string means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// FormatFromPath picks a format from the file extension, falling back to def
// when the extension is missing or unknown.
func FormatFromPath(path string, def Format) Format {
	ext := filepath.Ext(path)
	if ext == "" {
		return def
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return def
	}
	return f
}

// DecodeError reports bytes that could not be read as an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports an image that could not be written out.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("write %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("encode image: %v", e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Decode reads a PNG, BMP or TIFF stream into a new origin-anchored buffer.
// It never touches an existing surface.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return canvas.ToNRGBA(img), nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG, "":
		err = png.Encode(w, img)
	case BMP:
		if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
			err = ErrTranslucent
			break
		}
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = fmt.Errorf("unsupported image format %q", string(f))
	}
	if err != nil {
		return &EncodeError{Err: err}
	}
	return nil
}
