package tiling

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/ironsheep/image-tiler/internal/imaging"
)

// Join composites tiles onto a transparent canvas.
//
// When width and height are both nonzero the canvas has exactly that size.
// Otherwise the size comes from CombinedSize, which assumes equally sized
// tiles laid out on the near-square grid DeriveGrid picks for the tile
// count. Use JoinGrid when the grid shape is known.
//
// Each tile overwrites the canvas at (X, Y); there is no blending. A tile
// extending past the canvas fails with ErrCompositing.
func Join(tiles []*Tile, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		if len(tiles) == 0 {
			return nil, fmt.Errorf("%w: no tiles to join", ErrInvalidInput)
		}
		width, height = CombinedSize(tiles)
	}
	return composite(tiles, width, height)
}

// JoinGrid composites tiles onto a canvas sized for a columns x rows grid
// of tiles the size of the first one.
func JoinGrid(tiles []*Tile, columns, rows int) (*image.NRGBA, error) {
	if len(tiles) == 0 {
		return nil, fmt.Errorf("%w: no tiles to join", ErrInvalidInput)
	}
	if columns < 1 || rows < 1 {
		return nil, fmt.Errorf("%w: grid %dx%d has no cells", ErrInvalidInput, columns, rows)
	}
	w, h := tiles[0].Size()
	return composite(tiles, w*columns, h*rows)
}

// CombinedSize infers the canvas size for a set of tiles from the first
// tile's size and the grid DeriveGrid returns for the tile count.
func CombinedSize(tiles []*Tile) (width, height int) {
	if len(tiles) == 0 {
		return 0, 0
	}
	columns, rows := DeriveGrid(len(tiles))
	w, h := tiles[0].Size()
	return w * columns, h * rows
}

func composite(tiles []*Tile, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d is empty", ErrCompositing, width, height)
	}

	canvas := imaging.NewCanvas(width, height)
	for _, t := range tiles {
		r := t.Bounds()
		if !r.In(canvas.Bounds()) {
			return nil, fmt.Errorf("%w: %s at %v does not fit a %dx%d canvas",
				ErrCompositing, t, r, width, height)
		}
		draw.Draw(canvas, r, t.Image, t.Image.Bounds().Min, draw.Src)
	}
	return canvas, nil
}

// JoinOptions selects how the canvas size is chosen by JoinWith.
type JoinOptions struct {
	// Width and Height set the canvas size exactly when both are positive.
	Width  int
	Height int

	// Columns and Rows give the grid the tiles were cut with.
	Columns int
	Rows    int

	// InferGrid takes the grid shape from the tiles' file names.
	InferGrid bool
}

// JoinWith composites tiles using the first sizing rule opts provides: an
// explicit canvas size, an explicit grid, a grid read back from the tile
// names, and finally the tile-count inference of Join.
func JoinWith(tiles []*Tile, opts JoinOptions) (*image.NRGBA, error) {
	switch {
	case opts.Width > 0 && opts.Height > 0:
		return Join(tiles, opts.Width, opts.Height)
	case opts.Columns > 0 && opts.Rows > 0:
		return JoinGrid(tiles, opts.Columns, opts.Rows)
	case opts.InferGrid:
		names := make([]string, 0, len(tiles))
		for _, t := range tiles {
			names = append(names, t.Filename)
		}
		columns, rows := GridFromNames(names)
		if columns < 1 || rows < 1 {
			return nil, fmt.Errorf("%w: no grid position found in tile names", ErrInvalidInput)
		}
		return JoinGrid(tiles, columns, rows)
	default:
		return Join(tiles, 0, 0)
	}
}
