package tiling

import (
	"fmt"
	"image"
)

const (
	// MaxGridSide is the largest number of columns or rows in a grid.
	MaxGridSide = 99

	// MaxTiles is the largest tile count accepted for automatic layouts.
	MaxTiles = MaxGridSide * MaxGridSide
)

// DeriveGrid returns the near-square grid shape used to hold n tiles.
//
// columns is ceil(sqrt(n)) and rows is ceil(n/columns), so extra capacity
// goes into rows rather than columns and columns*rows >= n always holds.
// Non-positive n yields (0, 0).
func DeriveGrid(n int) (columns, rows int) {
	if n <= 0 {
		return 0, 0
	}

	columns = isqrt(n)
	if columns*columns < n {
		columns++
	}
	rows = (n + columns - 1) / columns
	return columns, rows
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	if n < 2 {
		return n
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// ValidateTileCount checks a requested tile count for automatic layouts.
func ValidateTileCount(n int) (int, error) {
	if n < 2 || n > MaxTiles {
		return 0, fmt.Errorf("%w: number of tiles must be between 2 and %d (you asked for %d)",
			ErrInvalidInput, MaxTiles, n)
	}
	return n, nil
}

// ValidateGrid checks an explicit grid shape.
func ValidateGrid(columns, rows int) (int, int, error) {
	if columns < 1 || rows < 1 || columns > MaxGridSide || rows > MaxGridSide {
		return 0, 0, fmt.Errorf("%w: number of columns and rows must be between 1 and %d (you asked for columns: %d and rows: %d)",
			ErrInvalidInput, MaxGridSide, columns, rows)
	}
	if columns == 1 && rows == 1 {
		return 0, 0, fmt.Errorf("%w: there is nothing to divide, a 1x1 grid is the entire image", ErrInvalidInput)
	}
	return columns, rows, nil
}

// GridSpec is a request for a grid shape, either as a tile count or as an
// explicit number of columns and rows.
type GridSpec struct {
	Count   int `json:"count,omitempty"`
	Columns int `json:"columns,omitempty"`
	Rows    int `json:"rows,omitempty"`
}

// Resolve validates the request and returns the grid shape. A positive
// Count takes precedence over Columns and Rows.
func (s GridSpec) Resolve() (columns, rows int, err error) {
	switch {
	case s.Count > 0:
		n, err := ValidateTileCount(s.Count)
		if err != nil {
			return 0, 0, err
		}
		columns, rows = DeriveGrid(n)
		return columns, rows, nil
	case s.Columns > 0 && s.Rows > 0:
		return ValidateGrid(s.Columns, s.Rows)
	default:
		return 0, 0, fmt.Errorf("%w: either a tile count or columns and rows are required", ErrInvalidInput)
	}
}

// GridLayout describes how an image of Width x Height pixels is cut into
// Columns x Rows tiles of TileWidth x TileHeight pixels.
type GridLayout struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	Columns    int `json:"columns"`
	Rows       int `json:"rows"`
	TileWidth  int `json:"tile_width"`
	TileHeight int `json:"tile_height"`
}

// NewGridLayout computes the tile size for an image and grid shape. It fails
// when the image is too small to give every tile at least one pixel.
func NewGridLayout(width, height, columns, rows int) (GridLayout, error) {
	if columns < 1 || rows < 1 {
		return GridLayout{}, fmt.Errorf("%w: grid %dx%d has no cells", ErrInvalidInput, columns, rows)
	}
	l := GridLayout{
		Width:      width,
		Height:     height,
		Columns:    columns,
		Rows:       rows,
		TileWidth:  width / columns,
		TileHeight: height / rows,
	}
	if l.TileWidth < 1 || l.TileHeight < 1 {
		return GridLayout{}, fmt.Errorf("%w: image %dx%d is too small for a %dx%d grid",
			ErrInvalidInput, width, height, columns, rows)
	}
	return l, nil
}

// Cell is one grid cell that survives the edge-skip scan.
type Cell struct {
	Column int             // 1-based horizontal index
	Row    int             // 1-based vertical index
	Rect   image.Rectangle // pixel extent, origin at the image's top-left corner
}

// Cells scans candidate origins row by row and returns every cell whose full
// tile extent lies inside the image. Cells that would cross the right or
// bottom edge are skipped, not clipped.
func (l GridLayout) Cells() []Cell {
	if l.TileWidth < 1 || l.TileHeight < 1 {
		return nil
	}

	var cells []Cell
	for y := 0; y < l.Height; y += l.TileHeight {
		for x := 0; x < l.Width; x += l.TileWidth {
			if x+l.TileWidth > l.Width || y+l.TileHeight > l.Height {
				continue
			}
			cells = append(cells, Cell{
				Column: x/l.TileWidth + 1,
				Row:    y/l.TileHeight + 1,
				Rect:   image.Rect(x, y, x+l.TileWidth, y+l.TileHeight),
			})
		}
	}
	return cells
}

// Covered returns the size of the region covered by whole tiles. Pixels to
// the right of or below it are dropped when slicing.
func (l GridLayout) Covered() (width, height int) {
	if l.TileWidth < 1 || l.TileHeight < 1 {
		return 0, 0
	}
	return l.Width - l.Width%l.TileWidth, l.Height - l.Height%l.TileHeight
}
