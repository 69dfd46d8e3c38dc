package tiling

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sort"
	"sync"
	"testing"
)

// gradient returns an opaque image in which neighbouring pixels differ, so
// a tile placed at the wrong offset is always detected.
func gradient(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x*7 + y*3), A: 255})
		}
	}
	return img
}

// translucent is gradient with a low, varying alpha. Premultiplying any of
// its pixels to 8 bits loses colour.
func translucent(width, height int) *image.NRGBA {
	img := gradient(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Pix[img.PixOffset(x, y)+3] = uint8(1 + (x+y)%40)
		}
	}
	return img
}

// samePixels fails the test unless got matches want over want's full extent
// (relative to each image's own origin).
func samePixels(t *testing.T, want, got image.Image) {
	t.Helper()
	wb, gb := want.Bounds(), got.Bounds()
	if wb.Dx() != gb.Dx() || wb.Dy() != gb.Dy() {
		t.Fatalf("size: got %dx%d, want %dx%d", gb.Dx(), gb.Dy(), wb.Dx(), wb.Dy())
	}
	for y := 0; y < wb.Dy(); y++ {
		for x := 0; x < wb.Dx(); x++ {
			w := color.NRGBAModel.Convert(want.At(wb.Min.X+x, wb.Min.Y+y))
			g := color.NRGBAModel.Convert(got.At(gb.Min.X+x, gb.Min.Y+y))
			if w != g {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, g, w)
			}
		}
	}
}

// memStore is an in-memory Store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Put(_ context.Context, name string, data []byte) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = append([]byte(nil), data...)
	return "mem://" + name, nil
}

func (m *memStore) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s not found", ErrFilesystem, name)
	}
	return data, nil
}

func (m *memStore) List(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.objects))
	for name := range m.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
