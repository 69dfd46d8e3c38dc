package tiling

import (
	"fmt"
	"image"

	"github.com/ironsheep/image-tiler/internal/imaging"
)

// Slice cuts img into tiles according to layout.
//
// Tiles are returned in row-major scan order and numbered from 1. Each tile
// holds its own copy of the pixels in layout-sized cells; cells that would
// cross the right or bottom edge of the image are skipped.
func Slice(img image.Image, layout GridLayout) ([]*Tile, error) {
	b := img.Bounds()
	if b.Dx() != layout.Width || b.Dy() != layout.Height {
		return nil, fmt.Errorf("%w: layout is for a %dx%d image, got %dx%d",
			ErrInvalidInput, layout.Width, layout.Height, b.Dx(), b.Dy())
	}

	cells := layout.Cells()
	tiles := make([]*Tile, 0, len(cells))
	for i, cell := range cells {
		pixels, err := imaging.CropRect(img, cell.Rect)
		if err != nil {
			return nil, fmt.Errorf("%w: tile %d,%d: %v", ErrInvalidInput, cell.Row, cell.Column, err)
		}
		tiles = append(tiles, &Tile{
			Image:  pixels,
			Number: i + 1,
			Column: cell.Column,
			Row:    cell.Row,
			X:      cell.Rect.Min.X,
			Y:      cell.Rect.Min.Y,
		})
	}
	return tiles, nil
}

// SliceImage resolves spec against the size of img and slices it.
func SliceImage(img image.Image, spec GridSpec) ([]*Tile, GridLayout, error) {
	layout, err := LayoutFor(img, spec)
	if err != nil {
		return nil, GridLayout{}, err
	}
	tiles, err := Slice(img, layout)
	if err != nil {
		return nil, GridLayout{}, err
	}
	return tiles, layout, nil
}

// LayoutFor resolves spec into a layout for img.
func LayoutFor(img image.Image, spec GridSpec) (GridLayout, error) {
	columns, rows, err := spec.Resolve()
	if err != nil {
		return GridLayout{}, err
	}
	b := img.Bounds()
	return NewGridLayout(b.Dx(), b.Dy(), columns, rows)
}

// SliceFile decodes the image at path and slices it.
func SliceFile(path string, spec GridSpec) ([]*Tile, GridLayout, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, GridLayout{}, fmt.Errorf("%w %s: %v", ErrImageOpen, path, err)
	}
	return SliceImage(img, spec)
}
