package tiling

import (
	"fmt"
	"image"
	"path/filepath"
)

// Tile is one grid cell of a sliced image together with its pixels.
//
// A Tile owns Image exclusively; nothing else holds a reference to the
// pixel buffer, so tiles can be processed independently of each other.
type Tile struct {
	// Image holds the tile's pixels. Its bounds may start anywhere; only
	// the size matters when compositing.
	Image image.Image

	// Number is the 1-based position of the tile in scan order. It is
	// informational and plays no part in reassembly.
	Number int

	// Column and Row are the tile's 1-based grid position.
	Column int
	Row    int

	// X and Y are the 0-based pixel origin of the tile in the source image.
	X int
	Y int

	// Filename is the name the tile was saved under or loaded from. It is
	// empty for tiles that have not been persisted.
	Filename string
}

// Size returns the tile's width and height in pixels.
func (t *Tile) Size() (width, height int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Bounds returns the rectangle the tile occupies in the source image.
func (t *Tile) Bounds() image.Rectangle {
	w, h := t.Size()
	return image.Rect(t.X, t.Y, t.X+w, t.Y+h)
}

// Name returns the file name the tile is stored under for a prefix and
// image format.
func (t *Tile) Name(prefix, format string) string {
	return TileName(prefix, t.Column, t.Row, format)
}

// Basename returns the persisted file name without directory or extension,
// or "" for an unsaved tile.
func (t *Tile) Basename() string {
	if t.Filename == "" {
		return ""
	}
	return stem(t.Filename)
}

func (t *Tile) String() string {
	if t.Filename == "" {
		return fmt.Sprintf("<Tile #%d>", t.Number)
	}
	return fmt.Sprintf("<Tile #%d - %s>", t.Number, filepath.Base(t.Filename))
}
