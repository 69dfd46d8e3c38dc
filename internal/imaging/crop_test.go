package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestCropRect(t *testing.T) {
	img := quadrantImage(100, 100)

	tests := []struct {
		name string
		rect image.Rectangle
		want color.NRGBA
	}{
		{"top-left", image.Rect(0, 0, 50, 50), color.NRGBA{255, 0, 0, 255}},
		{"top-right", image.Rect(50, 0, 100, 50), color.NRGBA{0, 255, 0, 255}},
		{"bottom-left", image.Rect(0, 50, 50, 100), color.NRGBA{0, 0, 255, 255}},
		{"bottom-right", image.Rect(50, 50, 100, 100), color.NRGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CropRect(img, tt.rect)
			if err != nil {
				t.Fatalf("CropRect failed: %v", err)
			}
			if got.Bounds() != image.Rect(0, 0, 50, 50) {
				t.Errorf("bounds: got %v, want (0,0)-(50,50)", got.Bounds())
			}
			for _, p := range []image.Point{{0, 0}, {49, 0}, {0, 49}, {49, 49}} {
				if c := got.NRGBAAt(p.X, p.Y); c != tt.want {
					t.Errorf("pixel %v: got %v, want %v", p, c, tt.want)
				}
			}
		})
	}
}

func TestCropRect_OffsetOrigin(t *testing.T) {
	parent := quadrantImage(100, 100)
	sub := parent.SubImage(image.Rect(40, 40, 100, 100))

	// (10,10) relative to the sub-image is (50,50) in the parent: white.
	got, err := CropRect(sub, image.Rect(10, 10, 20, 20))
	if err != nil {
		t.Fatalf("CropRect failed: %v", err)
	}
	if c := got.NRGBAAt(0, 0); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("pixel: got %v, want white", c)
	}
}

func TestCropRect_CopiesPixels(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{10, 20, 30, 255})

	got, err := CropRect(img, image.Rect(0, 0, 5, 5))
	if err != nil {
		t.Fatalf("CropRect failed: %v", err)
	}
	img.Set(0, 0, color.Black)
	if c := got.NRGBAAt(0, 0); c != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("crop shares pixels with its source: got %v", c)
	}
}

func TestCropRect_Invalid(t *testing.T) {
	img := solidImage(100, 100, color.White)

	tests := []struct {
		name string
		rect image.Rectangle
	}{
		{"empty", image.Rect(10, 10, 10, 20)},
		{"past right edge", image.Rect(60, 0, 101, 10)},
		{"past bottom edge", image.Rect(0, 90, 10, 110)},
		{"negative origin", image.Rect(-1, 0, 10, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CropRect(img, tt.rect); err == nil {
				t.Errorf("CropRect(%v) should fail", tt.rect)
			}
		})
	}
}

func TestNewCanvas(t *testing.T) {
	canvas := NewCanvas(30, 20)
	if canvas.Bounds() != image.Rect(0, 0, 30, 20) {
		t.Errorf("bounds: got %v", canvas.Bounds())
	}
	if c := canvas.NRGBAAt(29, 19); c.A != 0 {
		t.Errorf("canvas should be transparent, got %v", c)
	}
}

func TestClone_KeepsStraightAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 9, 9))
	want := color.NRGBA{200, 100, 50, 3}
	for y := 5; y < 9; y++ {
		for x := 5; x < 9; x++ {
			src.SetNRGBA(x, y, want)
		}
	}

	got := Clone(src)
	if got.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Errorf("bounds: got %v, want origin at 0,0", got.Bounds())
	}
	if c := got.NRGBAAt(3, 3); c != want {
		t.Errorf("pixel: got %v, want %v", c, want)
	}

	src.SetNRGBA(5, 5, color.NRGBA{})
	if c := got.NRGBAAt(0, 0); c != want {
		t.Errorf("clone shares pixels with its source: got %v", c)
	}
}

func TestEncodePNGBase64(t *testing.T) {
	result, err := EncodePNGBase64(quadrantImage(64, 32))
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}
	if result.Width != 64 || result.Height != 32 {
		t.Errorf("dimensions: got %dx%d, want 64x32", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("decoded width: got %d, want 64", img.Bounds().Dx())
	}
}
