// Package tiling splits images into a grid of tiles and joins them back.
//
// A source image is partitioned according to a GridLayout: the tile size is
// the image size divided by the grid shape, rounded down, and cells are
// scanned row by row from the top-left corner. A cell whose full extent does
// not fit inside the image is skipped rather than clipped, so the pixels
// beyond the last whole tile in each direction are dropped.
//
// # Tile Names
//
// Saved tiles carry their grid position in the file name:
//
//	{prefix}_{row:02}_{column:02}.{ext}
//
// DecodePosition reads the last five characters of the stem back into
// 0-based origin multipliers, so a directory of tiles can be reassembled
// without any side-channel metadata. Names whose stem starts with "joined"
// are reserved for assembled output and are never read as tiles.
//
// # Coordinates
//
// Grid positions (Tile.Column, Tile.Row) are 1-based. Pixel origins
// (Tile.X, Tile.Y) are 0-based with (0,0) at the top-left corner of the
// source image, matching the rest of the module.
//
// # Errors
//
// Every failure wraps one of the sentinel kinds declared in errors.go and can
// be tested with errors.Is. Nothing is retried; the first error aborts a
// slice, join or reload.
package tiling
