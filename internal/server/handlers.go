package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"path/filepath"

	"github.com/ironsheep/image-tiler/internal/imaging"
	"github.com/ironsheep/image-tiler/internal/storage"
	"github.com/ironsheep/image-tiler/internal/tiling"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "tiles_slice").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return fail(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Printf("%s: %v", params.Name, err)
		return fail(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return reply(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": mustMarshalJSON(result),
			},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "tiles_layout":
		return s.handleTilesLayout(args)
	case "tiles_preview":
		return s.handleTilesPreview(args)
	case "tiles_slice":
		return s.handleTilesSlice(args)
	case "tiles_join":
		return s.handleTilesJoin(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// loadSource fetches a source image through the cache, which re-decodes
// files changed since they were cached.
func (s *Server) loadSource(path string) (image.Image, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", tiling.ErrImageOpen, path, err)
	}
	return img, nil
}

// layoutFor loads the image at path and resolves the grid request for it.
func (s *Server) layoutFor(path string, spec tiling.GridSpec) (image.Image, tiling.GridLayout, error) {
	img, err := s.loadSource(path)
	if err != nil {
		return nil, tiling.GridLayout{}, err
	}
	layout, err := tiling.LayoutFor(img, spec)
	if err != nil {
		return nil, tiling.GridLayout{}, err
	}
	return img, layout, nil
}

// === Layout Handlers ===

type gridArgs struct {
	Path    string `json:"path"`
	Count   int    `json:"count"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
}

func (a gridArgs) spec() tiling.GridSpec {
	return tiling.GridSpec{Count: a.Count, Columns: a.Columns, Rows: a.Rows}
}

// LayoutResult describes how an image would be sliced.
type LayoutResult struct {
	tiling.GridLayout

	// Source describes the image file the layout was computed for.
	Source *imaging.ImageInfo `json:"source"`

	// TileCount is the number of whole tiles the slice produces.
	TileCount int `json:"tile_count"`

	// DroppedRight and DroppedBottom are the pixel strips that no whole
	// tile covers.
	DroppedRight  int `json:"dropped_right"`
	DroppedBottom int `json:"dropped_bottom"`
}

func (s *Server) handleTilesLayout(args json.RawMessage) (interface{}, error) {
	var a gridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, layout, err := s.layoutFor(a.Path, a.spec())
	if err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}

	coveredW, coveredH := layout.Covered()
	return &LayoutResult{
		GridLayout:    layout,
		Source:        info,
		TileCount:     len(layout.Cells()),
		DroppedRight:  layout.Width - coveredW,
		DroppedBottom: layout.Height - coveredH,
	}, nil
}

type tilesPreviewArgs struct {
	gridArgs
	ShowLabels bool   `json:"show_labels"`
	Color      string `json:"color"`
}

func (s *Server) handleTilesPreview(args json.RawMessage) (interface{}, error) {
	var a tilesPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = imaging.DefaultOverlayColor
	}
	img, layout, err := s.layoutFor(a.Path, a.spec())
	if err != nil {
		return nil, err
	}
	return imaging.LayoutOverlay(img, layout.TileWidth, layout.TileHeight, a.ShowLabels, a.Color)
}

// === Slice and Join Handlers ===

type tilesSliceArgs struct {
	gridArgs
	Dir     string `json:"dir"`
	Prefix  string `json:"prefix"`
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

// TileInfo describes one saved tile.
type TileInfo struct {
	Number   int    `json:"number"`
	Column   int    `json:"column"`
	Row      int    `json:"row"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Filename string `json:"filename"`
}

// SliceResult lists the tiles written by tiles_slice.
type SliceResult struct {
	Layout tiling.GridLayout `json:"layout"`
	Tiles  []TileInfo        `json:"tiles"`
}

func (s *Server) handleTilesSlice(args json.RawMessage) (interface{}, error) {
	var a tilesSliceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		a.Dir = filepath.Dir(a.Path)
	}
	if a.Prefix == "" {
		a.Prefix = tiling.Prefix(a.Path)
	}
	if a.Format == "" {
		a.Format = "png"
	}

	img, err := s.loadSource(a.Path)
	if err != nil {
		return nil, err
	}
	tiles, layout, err := tiling.SliceImage(img, a.spec())
	if err != nil {
		return nil, err
	}

	store := storage.NewDirStore(a.Dir, s.logger)
	opts := imaging.EncodeOptions{JPEGQuality: a.Quality}
	if err := tiling.SaveTiles(context.Background(), store, tiles, a.Prefix, a.Format, opts); err != nil {
		return nil, err
	}

	result := &SliceResult{Layout: layout, Tiles: make([]TileInfo, 0, len(tiles))}
	for _, t := range tiles {
		w, h := t.Size()
		result.Tiles = append(result.Tiles, TileInfo{
			Number:   t.Number,
			Column:   t.Column,
			Row:      t.Row,
			X:        t.X,
			Y:        t.Y,
			Width:    w,
			Height:   h,
			Filename: t.Filename,
		})
	}
	return result, nil
}

type tilesJoinArgs struct {
	Dir       string `json:"dir"`
	Output    string `json:"output"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Columns   int    `json:"columns"`
	Rows      int    `json:"rows"`
	InferGrid bool   `json:"infer_grid"`
}

// JoinResult describes the image written by tiles_join.
type JoinResult struct {
	Path      string `json:"path"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	TileCount int    `json:"tile_count"`
}

func (s *Server) handleTilesJoin(args json.RawMessage) (interface{}, error) {
	var a tilesJoinArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		return nil, fmt.Errorf("%w: dir is required", tiling.ErrInvalidInput)
	}
	if a.Format == "" {
		a.Format = "png"
	}

	ctx := context.Background()
	store := storage.NewDirStore(a.Dir, s.logger)
	tiles, err := tiling.OpenTiles(ctx, store)
	if err != nil {
		return nil, err
	}

	joined, err := tiling.JoinWith(tiles, tiling.JoinOptions{
		Width:     a.Width,
		Height:    a.Height,
		Columns:   a.Columns,
		Rows:      a.Rows,
		InferGrid: a.InferGrid,
	})
	if err != nil {
		return nil, err
	}

	path := a.Output
	if path != "" {
		if err := imaging.SaveFile(path, joined, imaging.EncodeOptions{}); err != nil {
			return nil, fmt.Errorf("%w: %v", tiling.ErrFilesystem, err)
		}
	} else {
		format, err := imaging.ParseFormat(a.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", tiling.ErrInvalidInput, err)
		}
		data, err := imaging.EncodeBytes(joined, format, imaging.EncodeOptions{})
		if err != nil {
			return nil, err
		}
		if path, err = store.Put(ctx, tiling.JoinedName(a.Format), data); err != nil {
			return nil, err
		}
	}
	s.cache.Evict(path)

	return &JoinResult{
		Path:      path,
		Width:     joined.Bounds().Dx(),
		Height:    joined.Bounds().Dy(),
		TileCount: len(tiles),
	}, nil
}
