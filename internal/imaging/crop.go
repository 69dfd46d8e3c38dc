package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodedImage contains an image rendered as base64 PNG for JSON results.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropRect copies the pixels of r out of img into a new image whose bounds
// start at (0,0). The rectangle is given relative to the top-left corner of
// img, whatever img's bounds origin is, and must lie entirely inside it.
func CropRect(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: empty", r)
	}
	abs := r.Add(bounds.Min)
	if !abs.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", abs, bounds)
	}
	return imaging.Crop(img, abs), nil
}

// NewCanvas allocates a fully transparent width x height image.
func NewCanvas(width, height int) *image.NRGBA {
	return imaging.New(width, height, color.Transparent)
}

// Clone returns an owned straight-alpha copy of img with its origin at (0,0).
func Clone(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// EncodePNGBase64 renders img as PNG and wraps it for a JSON result.
func EncodePNGBase64(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
