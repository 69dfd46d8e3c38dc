package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ironsheep/image-tiler/internal/imaging"
)

// run executes the CLI with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"image-tiler"}, args...))
	return out.String(), err
}

func writeImage(t *testing.T, dir string, width, height int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 50, A: 255})
		}
	}
	path := filepath.Join(dir, "photo.png")
	require.NoError(t, imaging.SaveFile(path, img, imaging.EncodeOptions{}))
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSliceCount(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, dir, 80, 60)
	tiles := filepath.Join(dir, "tiles")

	out, err := run(t, "slice", "--image", src, "--num-tiles", "4", "--dir", tiles)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"photo_01_01.png", "photo_01_02.png", "photo_02_01.png", "photo_02_02.png"},
		listDir(t, tiles))
	assert.Equal(t, 4, strings.Count(out, "\n"))
	assert.Contains(t, out, filepath.Join(tiles, "photo_02_02.png"))
}

func TestSliceColumnsOnly(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, dir, 90, 30)

	_, err := run(t, "slice", "--image", src, "--columns", "3", "--prefix", "strip", "--format", "jpeg")
	require.NoError(t, err)

	names := listDir(t, dir)
	assert.Contains(t, names, "strip_01_01.jpg")
	assert.Contains(t, names, "strip_01_03.jpg")
	assert.NotContains(t, names, "strip_02_01.jpg")
}

func TestSliceNoOperation(t *testing.T) {
	src := writeImage(t, t.TempDir(), 20, 20)

	_, err := run(t, "slice", "--image", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No operation specified")

	var exit cli.ExitCoder
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.ExitCode())
}

func TestSliceErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, dir, 20, 20)

	_, err := run(t, "slice", "--image", filepath.Join(dir, "missing.png"), "--num-tiles", "4")
	assert.ErrorContains(t, err, "cannot open image")

	_, err = run(t, "slice", "--image", src, "--num-tiles", "1")
	assert.ErrorContains(t, err, "invalid input")

	_, err = run(t, "slice", "--image", src, "--num-tiles", "4", "--format", "xcf")
	assert.ErrorContains(t, err, "invalid input")

	_, err = run(t, "slice", "--num-tiles", "4")
	assert.Error(t, err)
}

func TestJoin(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, dir, 60, 40)
	tiles := filepath.Join(dir, "tiles")

	_, err := run(t, "slice", "--image", src, "--num-tiles", "6", "--dir", tiles)
	require.NoError(t, err)

	out, err := run(t, "join", "--dir", tiles)
	require.NoError(t, err)
	joined := filepath.Join(tiles, "joined.png")
	assert.Equal(t, joined+"\n", out)

	img, err := imaging.Load(joined)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 60, 40), img.Bounds())
	r, g, _, _ := img.At(59, 39).RGBA()
	assert.Equal(t, uint32(59), r>>8)
	assert.Equal(t, uint32(39), g>>8)

	// The joined image is not picked up as a tile on the next run.
	target := filepath.Join(dir, "rebuilt.bmp")
	out, err = run(t, "join", "--dir", tiles, "--output", target)
	require.NoError(t, err)
	assert.Equal(t, target+"\n", out)
	assert.FileExists(t, target)
}

func TestJoinTallGrid(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, dir, 40, 60)
	tiles := filepath.Join(dir, "tiles")

	_, err := run(t, "slice", "--image", src, "--columns", "2", "--rows", "3", "--dir", tiles)
	require.NoError(t, err)

	_, err = run(t, "join", "--dir", tiles)
	assert.ErrorContains(t, err, "compositing failed")

	_, err = run(t, "join", "--dir", tiles, "--columns", "2", "--rows", "3", "--output", filepath.Join(dir, "a.png"))
	require.NoError(t, err)

	_, err = run(t, "join", "--dir", tiles, "--infer-grid", "--format", "gif")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(tiles, "joined.gif"))

	_, err = run(t, "join", "--dir", tiles, "--width", "40", "--height", "60", "--output", filepath.Join(dir, "b.png"))
	require.NoError(t, err)
	img, err := imaging.Load(filepath.Join(dir, "b.png"))
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dy())
}

func TestJoinNeedsSource(t *testing.T) {
	_, err := run(t, "join")
	assert.ErrorContains(t, err, "--dir")

	_, err = run(t, "join", "--dir", t.TempDir())
	assert.ErrorContains(t, err, "invalid input")
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, dir, 50, 50)
	out := filepath.Join(dir, "preview.png")

	_, err := run(t, "preview", "--image", src, "--num-tiles", "4", "--labels", "--output", out)
	require.NoError(t, err)

	img, err := imaging.Load(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 50, 50), img.Bounds())

	_, err = run(t, "preview", "--image", src, "--output", out)
	assert.ErrorContains(t, err, "No operation specified")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "image-tiler "+Version)
	assert.Contains(t, out, "Git commit: "+GitCommit)
}
