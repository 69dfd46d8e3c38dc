package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
)

// DefaultJPEGQuality is used when EncodeOptions.JPEGQuality is zero.
const DefaultJPEGQuality = 95

// EncodeOptions tunes how tiles and joined images are written.
type EncodeOptions struct {
	// JPEGQuality ranges from 1 to 100; zero selects DefaultJPEGQuality.
	JPEGQuality int

	// PNGBestCompression trades encode time for smaller PNG files.
	PNGBestCompression bool
}

// ParseFormat maps a format or extension name ("png", "JPEG", ".jpg") to an
// encoder format.
func ParseFormat(name string) (imaging.Format, error) {
	f, err := imaging.FormatFromExtension(name)
	if err != nil {
		return -1, fmt.Errorf("unsupported image format %q", name)
	}
	return f, nil
}

// Encode writes img to w in the given format.
//
// GIF output is reduced to a 256 colour palette chosen by median cut rather
// than the fixed Plan 9 palette, which keeps photographic tiles usable.
func Encode(w io.Writer, img image.Image, format imaging.Format, opts EncodeOptions) error {
	quality := opts.JPEGQuality
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	level := png.DefaultCompression
	if opts.PNGBestCompression {
		level = png.BestCompression
	}

	err := imaging.Encode(w, img, format,
		imaging.JPEGQuality(quality),
		imaging.PNGCompressionLevel(level),
		imaging.GIFNumColors(256),
		imaging.GIFQuantizer(quantize.MedianCutQuantizer{}),
	)
	if err != nil {
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return nil
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(img image.Image, format imaging.Format, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile writes img to path in the format implied by its extension.
func SaveFile(path string, img image.Image, opts EncodeOptions) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, img, format, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
