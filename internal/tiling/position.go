package tiling

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// joinedPrefix marks assembled output so it is never read back as a tile.
const joinedPrefix = "joined"

// positionWidth is the number of trailing stem characters holding "RR_CC".
const positionWidth = 5

// Extension returns the file extension used for an image format name.
func Extension(format string) string {
	return strings.ReplaceAll(strings.ToLower(format), "jpeg", "jpg")
}

// TileName encodes a grid position into a tile file name. The row comes
// first and the column second, each padded to two digits.
func TileName(prefix string, column, row int, format string) string {
	return fmt.Sprintf("%s_%02d_%02d.%s", prefix, row, column, Extension(format))
}

// JoinedName returns the default file name for an assembled image.
func JoinedName(format string) string {
	return joinedPrefix + "." + Extension(format)
}

// stem strips the directory and the final extension from a file name.
func stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DecodePosition recovers the 0-based origin multipliers from a tile name.
//
// The last five characters of the stem are split once on "_" into a row
// token and a column token. The returned column and row are the tokens minus
// one, so a tile's pixel origin is (column*tileWidth, row*tileHeight).
// Tokens must be unsigned and at least 1.
func DecodePosition(filename string) (column, row int, err error) {
	s := stem(filename)
	if len(s) < positionWidth {
		return 0, 0, fmt.Errorf("%w: %q is too short to hold a position", ErrInvalidFilename, filename)
	}

	first, second, ok := strings.Cut(s[len(s)-positionWidth:], "_")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q has no row/column separator", ErrInvalidFilename, filename)
	}
	r, err := positionToken(first)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q has a bad row: %v", ErrInvalidFilename, filename, err)
	}
	c, err := positionToken(second)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q has a bad column: %v", ErrInvalidFilename, filename, err)
	}
	return c - 1, r - 1, nil
}

// positionToken parses a 1-based row or column token. Only digits are
// accepted and the value must be at least 1.
func positionToken(tok string) (int, error) {
	if tok == "" || strings.TrimLeft(tok, "0123456789") != "" {
		return 0, fmt.Errorf("%q is not a number", tok)
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%q is below 1", tok)
	}
	return n, nil
}

// IsTileName reports whether a file found in a tile directory should be read
// as a tile.
func IsTileName(filename string) bool {
	s := stem(filename)
	return strings.Contains(s, "_") && !strings.HasPrefix(s, joinedPrefix)
}

// GridFromNames returns the grid shape spanned by a set of tile names: the
// largest column and the largest row found. Names that do not decode are
// ignored.
func GridFromNames(names []string) (columns, rows int) {
	for _, name := range names {
		c, r, err := DecodePosition(name)
		if err != nil {
			continue
		}
		if c+1 > columns {
			columns = c + 1
		}
		if r+1 > rows {
			rows = r + 1
		}
	}
	return columns, rows
}

// Prefix returns the default tile name prefix for a source image path: the
// file name without directory or extension.
func Prefix(path string) string {
	return stem(path)
}
