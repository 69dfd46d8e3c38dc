package tiling

import "errors"

// Error kinds returned by this package and by the Store implementations.
var (
	// ErrInvalidInput reports a bad tile count, a bad or degenerate grid
	// shape, or a missing grid request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrImageOpen reports a source image or stored tile that cannot be
	// read or decoded.
	ErrImageOpen = errors.New("cannot open image")

	// ErrInvalidFilename reports a tile name that does not decode into a
	// grid position.
	ErrInvalidFilename = errors.New("invalid tile filename")

	// ErrCompositing reports a tile that does not fit on the canvas.
	ErrCompositing = errors.New("compositing failed")

	// ErrFilesystem reports a storage failure (directory creation, write,
	// read or listing).
	ErrFilesystem = errors.New("filesystem error")
)
