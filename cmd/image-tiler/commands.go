package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/image-tiler/internal/imaging"
	"github.com/ironsheep/image-tiler/internal/server"
	"github.com/ironsheep/image-tiler/internal/storage"
	"github.com/ironsheep/image-tiler/internal/tiling"
)

const noOperationMessage = "No operation specified. You need to either specify the number of tiles to slice " +
	"automatically, or specify the rows and columns to customize the slice."

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "image-tiler"
	app.Usage = "Slice images into a grid of tiles and join them back"
	app.Version = Version

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			EnvVars: []string{"TILER_VERBOSE"},
			Usage:   "log progress to stderr",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "slice",
			Usage:     "Cut an image into tiles",
			ArgsUsage: " ",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     "image",
					Aliases:  []string{"i"},
					Usage:    "path to the image to slice",
					Required: true,
				},
				&cli.IntFlag{
					Name:    "num-tiles",
					Aliases: []string{"n"},
					Usage:   "number of tiles, laid out on a near-square grid",
				},
				&cli.IntFlag{
					Name:  "columns",
					Value: 1,
					Usage: "number of columns",
				},
				&cli.IntFlag{
					Name:  "rows",
					Value: 1,
					Usage: "number of rows",
				},
				&cli.StringFlag{
					Name:    "dir",
					Aliases: []string{"d"},
					EnvVars: []string{"TILER_DIR"},
					Usage:   "directory to write tiles to (default: the image's directory)",
				},
				&cli.StringFlag{
					Name:  "prefix",
					Usage: "tile file name prefix (default: the image's file name)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					EnvVars: []string{"TILER_FORMAT"},
					Value:   "png",
					Usage:   "tile format: png, jpg, gif, bmp or tiff",
				},
				&cli.IntFlag{
					Name:  "quality",
					Usage: "JPEG quality, 1-100",
				},
			}, s3Flags()...),
			Action: sliceAction,
		},
		{
			Name:      "join",
			Usage:     "Reassemble a directory of tiles",
			ArgsUsage: " ",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "dir",
					Aliases: []string{"d"},
					EnvVars: []string{"TILER_DIR"},
					Usage:   "directory holding the tiles",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "file to write the joined image to (default: joined.<format> next to the tiles)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					EnvVars: []string{"TILER_FORMAT"},
					Value:   "png",
					Usage:   "format of the joined image when --output is not given",
				},
				&cli.IntFlag{Name: "width", Usage: "canvas width in pixels"},
				&cli.IntFlag{Name: "height", Usage: "canvas height in pixels"},
				&cli.IntFlag{Name: "columns", Usage: "grid columns the tiles were cut with"},
				&cli.IntFlag{Name: "rows", Usage: "grid rows the tiles were cut with"},
				&cli.BoolFlag{
					Name:  "infer-grid",
					Usage: "take the grid shape from the tile names",
				},
			}, s3Flags()...),
			Action: joinAction,
		},
		{
			Name:      "preview",
			Usage:     "Draw the tile grid over an image",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "image",
					Aliases:  []string{"i"},
					Usage:    "path to the image",
					Required: true,
				},
				&cli.IntFlag{Name: "num-tiles", Aliases: []string{"n"}, Usage: "number of tiles"},
				&cli.IntFlag{Name: "columns", Value: 1, Usage: "number of columns"},
				&cli.IntFlag{Name: "rows", Value: 1, Usage: "number of rows"},
				&cli.StringFlag{
					Name:     "output",
					Aliases:  []string{"o"},
					Usage:    "file to write the preview to",
					Required: true,
				},
				&cli.BoolFlag{Name: "labels", Usage: "label each tile with row,column"},
				&cli.StringFlag{
					Name:  "color",
					Value: imaging.DefaultOverlayColor,
					Usage: "boundary colour as #RRGGBB or #RRGGBBAA",
				},
			},
			Action: previewAction,
		},
		{
			Name:  "serve",
			Usage: "Run the MCP tool server on stdin/stdout",
			Action: func(c *cli.Context) error {
				logger := newLogger(c)
				logger.Printf("image-tiler MCP server %s (built %s, commit %s)", Version, BuildTime, GitCommit)
				if err := server.New(Version, logger).Run(); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
	}

	return app
}

func s3Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "s3-bucket",
			EnvVars: []string{"TILER_S3_BUCKET"},
			Usage:   "store tiles in this S3 bucket instead of a directory",
		},
		&cli.StringFlag{
			Name:    "s3-endpoint",
			EnvVars: []string{"TILER_S3_ENDPOINT"},
			Usage:   "S3-compatible endpoint URL, e.g. a MinIO server",
		},
		&cli.StringFlag{
			Name:    "s3-region",
			EnvVars: []string{"TILER_S3_REGION"},
			Value:   "us-east-1",
			Usage:   "bucket region",
		},
		&cli.StringFlag{
			Name:    "s3-access-key",
			EnvVars: []string{"TILER_S3_ACCESS_KEY"},
			Usage:   "static access key (default: AWS credential chain)",
		},
		&cli.StringFlag{
			Name:    "s3-secret-key",
			EnvVars: []string{"TILER_S3_SECRET_KEY"},
			Usage:   "static secret key",
		},
		&cli.StringFlag{
			Name:    "s3-prefix",
			EnvVars: []string{"TILER_S3_PREFIX"},
			Usage:   "key prefix for tiles in the bucket",
		},
	}
}

func newLogger(c *cli.Context) *log.Logger {
	if c.Bool("verbose") {
		return log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)
	}
	return log.New(io.Discard, "", 0)
}

// openStore returns the bucket store when --s3-bucket is set and a
// directory store on dir otherwise.
func openStore(ctx context.Context, c *cli.Context, dir string, logger *log.Logger) (tiling.Store, error) {
	if bucket := c.String("s3-bucket"); bucket != "" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  c.String("s3-endpoint"),
			Region:    c.String("s3-region"),
			AccessKey: c.String("s3-access-key"),
			SecretKey: c.String("s3-secret-key"),
			Bucket:    bucket,
			Prefix:    c.String("s3-prefix"),
		}, logger)
	}
	return storage.NewDirStore(dir, logger), nil
}

func gridSpec(c *cli.Context) tiling.GridSpec {
	return tiling.GridSpec{
		Count:   c.Int("num-tiles"),
		Columns: c.Int("columns"),
		Rows:    c.Int("rows"),
	}
}

// requireOperation rejects requests that name neither a tile count nor a
// grid larger than one cell.
func requireOperation(spec tiling.GridSpec) error {
	if spec.Count <= 0 && spec.Columns <= 1 && spec.Rows <= 1 {
		return cli.Exit(noOperationMessage, 1)
	}
	return nil
}

func sliceAction(c *cli.Context) error {
	spec := gridSpec(c)
	if err := requireOperation(spec); err != nil {
		return err
	}

	logger := newLogger(c)
	ctx := c.Context

	path := c.String("image")
	tiles, layout, err := tiling.SliceFile(path, spec)
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger.Printf("%s: %dx%d grid of %dx%d tiles, %d tiles", path,
		layout.Columns, layout.Rows, layout.TileWidth, layout.TileHeight, len(tiles))

	dir := c.String("dir")
	if dir == "" {
		dir = filepath.Dir(path)
	}
	prefix := c.String("prefix")
	if prefix == "" {
		prefix = tiling.Prefix(path)
	}

	store, err := openStore(ctx, c, dir, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	opts := imaging.EncodeOptions{JPEGQuality: c.Int("quality")}
	if err := tiling.SaveTiles(ctx, store, tiles, prefix, c.String("format"), opts); err != nil {
		return cli.Exit(err, 1)
	}

	for _, t := range tiles {
		fmt.Fprintln(c.App.Writer, t.Filename)
	}
	return nil
}

func joinAction(c *cli.Context) error {
	logger := newLogger(c)
	ctx := c.Context

	dir := c.String("dir")
	if dir == "" && c.String("s3-bucket") == "" {
		return cli.Exit("join needs --dir or --s3-bucket", 1)
	}
	store, err := openStore(ctx, c, dir, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}

	tiles, err := tiling.OpenTiles(ctx, store)
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger.Printf("loaded %d tiles", len(tiles))

	joined, err := tiling.JoinWith(tiles, tiling.JoinOptions{
		Width:     c.Int("width"),
		Height:    c.Int("height"),
		Columns:   c.Int("columns"),
		Rows:      c.Int("rows"),
		InferGrid: c.Bool("infer-grid"),
	})
	if err != nil {
		return cli.Exit(err, 1)
	}

	out := c.String("output")
	if out != "" {
		if err := imaging.SaveFile(out, joined, imaging.EncodeOptions{}); err != nil {
			return cli.Exit(fmt.Errorf("%w: %v", tiling.ErrFilesystem, err), 1)
		}
	} else {
		format := c.String("format")
		f, err := imaging.ParseFormat(format)
		if err != nil {
			return cli.Exit(err, 1)
		}
		data, err := imaging.EncodeBytes(joined, f, imaging.EncodeOptions{})
		if err != nil {
			return cli.Exit(err, 1)
		}
		if out, err = store.Put(ctx, tiling.JoinedName(format), data); err != nil {
			return cli.Exit(err, 1)
		}
	}

	fmt.Fprintln(c.App.Writer, out)
	return nil
}

func previewAction(c *cli.Context) error {
	spec := gridSpec(c)
	if err := requireOperation(spec); err != nil {
		return err
	}

	path := c.String("image")
	img, err := imaging.Load(path)
	if err != nil {
		return cli.Exit(fmt.Errorf("%w %s: %v", tiling.ErrImageOpen, path, err), 1)
	}
	layout, err := tiling.LayoutFor(img, spec)
	if err != nil {
		return cli.Exit(err, 1)
	}

	preview, err := imaging.DrawLayout(img, layout.TileWidth, layout.TileHeight, c.Bool("labels"), c.String("color"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := imaging.SaveFile(c.String("output"), preview, imaging.EncodeOptions{}); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
