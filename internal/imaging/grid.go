package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultOverlayColor is the semi-transparent red used for tile boundaries.
const DefaultOverlayColor = "#FF000080"

// droppedShade tints the pixels that fall outside every whole tile.
var droppedShade = color.NRGBA{0, 0, 0, 140}

// OverlayResult contains an image with tile boundaries drawn over it.
type OverlayResult struct {
	EncodedImage
	TileWidth  int `json:"tile_width"`
	TileHeight int `json:"tile_height"`
	Columns    int `json:"columns"`
	Rows       int `json:"rows"`
}

// LayoutOverlay renders DrawLayout as a base64 PNG result.
func LayoutOverlay(img image.Image, tileWidth, tileHeight int, showLabels bool, lineColorHex string) (*OverlayResult, error) {
	result, err := DrawLayout(img, tileWidth, tileHeight, showLabels, lineColorHex)
	if err != nil {
		return nil, err
	}

	encoded, err := EncodePNGBase64(result)
	if err != nil {
		return nil, err
	}

	return &OverlayResult{
		EncodedImage: *encoded,
		TileWidth:    tileWidth,
		TileHeight:   tileHeight,
		Columns:      result.Bounds().Dx() / tileWidth,
		Rows:         result.Bounds().Dy() / tileHeight,
	}, nil
}

// DrawLayout draws the boundaries of tileWidth x tileHeight tiles over a
// copy of img. Only whole tiles are outlined; the strips to the right and
// below the last whole tile are shaded because slicing drops them. With
// showLabels each tile is tagged "row,column" using 1-based grid positions.
// An unparsable colour falls back to DefaultOverlayColor.
func DrawLayout(img image.Image, tileWidth, tileHeight int, showLabels bool, lineColorHex string) (*image.RGBA, error) {
	if tileWidth < 1 || tileHeight < 1 {
		return nil, fmt.Errorf("invalid tile size %dx%d", tileWidth, tileHeight)
	}

	lineColor, err := parseHexColor(lineColorHex)
	if err != nil {
		lineColor, _ = parseHexColor(DefaultOverlayColor)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	columns, rows := width/tileWidth, height/tileHeight
	coveredW, coveredH := columns*tileWidth, rows*tileHeight

	result := clone.AsRGBA(img)
	result.Rect = result.Rect.Sub(bounds.Min)

	shade := image.NewUniform(droppedShade)
	draw.Draw(result, image.Rect(coveredW, 0, width, height), shade, image.Point{}, draw.Over)
	draw.Draw(result, image.Rect(0, coveredH, coveredW, height), shade, image.Point{}, draw.Over)

	line := image.NewUniform(lineColor)
	for x := tileWidth; x <= coveredW && x < width; x += tileWidth {
		draw.Draw(result, image.Rect(x, 0, x+1, coveredH), line, image.Point{}, draw.Over)
	}
	for y := tileHeight; y <= coveredH && y < height; y += tileHeight {
		draw.Draw(result, image.Rect(0, y, coveredW, y+1), line, image.Point{}, draw.Over)
	}

	if showLabels {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}

		for row := 0; row < rows; row++ {
			for col := 0; col < columns; col++ {
				label := fmt.Sprintf("%d,%d", row+1, col+1)
				drawLabel(result, col*tileWidth+2, row*tileHeight+2, label, labelColor, bgColor)
			}
		}
	}

	return result, nil
}

// parseHexColor parses "#RRGGBB" or "#RRGGBBAA"; the leading '#' is optional.
func parseHexColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimPrefix(hex, "#")

	var alpha uint8 = 255
	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:6]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// drawLabel draws a small text label at the given position using a 3x5
// pixel font that only knows digits and commas.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if image.Pt(px, py).In(bounds) {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
