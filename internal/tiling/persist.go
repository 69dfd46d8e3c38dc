package tiling

import (
	"context"
	"fmt"

	"github.com/ironsheep/image-tiler/internal/imaging"
)

// Store persists encoded tiles under flat names.
//
// Put returns the name the data can be found under afterwards (a file path
// for a directory, an object key for a bucket). List returns every name in
// the store, tile or not, in a stable order.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// SaveTiles encodes every tile in format and writes it to store under its
// position-encoded name. Each tile's Filename is set to the persisted name.
// The first failure aborts the save.
func SaveTiles(ctx context.Context, store Store, tiles []*Tile, prefix, format string, opts imaging.EncodeOptions) error {
	f, err := imaging.ParseFormat(format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	for _, t := range tiles {
		data, err := imaging.EncodeBytes(t.Image, f, opts)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidInput, t, err)
		}
		name, err := store.Put(ctx, t.Name(prefix, format), data)
		if err != nil {
			return err
		}
		t.Filename = name
	}
	return nil
}

// OpenTiles reloads every tile in store.
//
// Names accepted by IsTileName are read in listing order and numbered from
// 1. The grid position comes from the name alone and the pixel origin is the
// decoded multiplier times the tile's own size, so tiles of a regular grid
// land where they were cut from. A name that does not decode fails with
// ErrInvalidFilename and unreadable data with ErrImageOpen. Pixels are kept
// as straight-alpha NRGBA so translucent colours survive the reload.
func OpenTiles(ctx context.Context, store Store) ([]*Tile, error) {
	names, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	var tiles []*Tile
	for _, name := range names {
		if !IsTileName(name) {
			continue
		}
		column, row, err := DecodePosition(name)
		if err != nil {
			return nil, err
		}

		data, err := store.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		img, err := imaging.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrImageOpen, name, err)
		}

		pixels := imaging.Clone(img)
		w, h := pixels.Bounds().Dx(), pixels.Bounds().Dy()
		tiles = append(tiles, &Tile{
			Image:    pixels,
			Number:   len(tiles) + 1,
			Column:   column + 1,
			Row:      row + 1,
			X:        column * w,
			Y:        row * h,
			Filename: name,
		})
	}
	return tiles, nil
}
