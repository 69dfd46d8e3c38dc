package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// gridProperties are the grid request arguments shared by several tools.
func gridProperties() map[string]interface{} {
	return map[string]interface{}{
		"count": map[string]interface{}{
			"type":        "integer",
			"description": "Number of tiles (2-9801). Picks a near-square grid. Takes precedence over columns/rows.",
		},
		"columns": map[string]interface{}{
			"type":        "integer",
			"description": "Number of columns (1-99). Used with rows when count is omitted.",
		},
		"rows": map[string]interface{}{
			"type":        "integer",
			"description": "Number of rows (1-99). Used with columns when count is omitted.",
		},
	}
}

func withPath(props map[string]interface{}) map[string]interface{} {
	props["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the source image file",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	sliceProps := withPath(gridProperties())
	sliceProps["dir"] = map[string]interface{}{
		"type":        "string",
		"description": "Directory to write tiles to. Created if missing. Defaults to the image's directory.",
	}
	sliceProps["prefix"] = map[string]interface{}{
		"type":        "string",
		"description": "Tile file name prefix. Defaults to the image file name without extension.",
	}
	sliceProps["format"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff"},
		"description": "Tile image format. Default png",
		"default":     "png",
	}
	sliceProps["quality"] = map[string]interface{}{
		"type":        "integer",
		"description": "JPEG quality 1-100. Default 95",
	}

	previewProps := withPath(gridProperties())
	previewProps["show_labels"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Label each tile with its row,column position",
		"default":     false,
	}
	previewProps["color"] = map[string]interface{}{
		"type":        "string",
		"description": "Boundary line color as hex (e.g., '#FF0000' or '#FF000080'). Default semi-transparent red",
		"default":     "#FF000080",
	}

	return []Tool{
		{
			Name:        "tiles_layout",
			Description: "Compute how an image would be cut into tiles: grid shape, tile size, number of whole tiles and the pixels dropped at the right and bottom edges.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withPath(gridProperties()),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "tiles_preview",
			Description: "Draw the tile boundaries over an image and return it as base64-encoded PNG. Dropped edge pixels are shaded.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": previewProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "tiles_slice",
			Description: "Cut an image into a grid of tiles and save them as {prefix}_{row}_{column}.{format}.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sliceProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "tiles_join",
			Description: "Reassemble the tiles in a directory into one image. The canvas size is taken from width/height, else from columns/rows, else inferred from the tile count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory holding the tiles",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Output file path. Defaults to joined.{format} inside dir",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output format when output is omitted. Default png",
						"default":     "png",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas width in pixels (used with height)",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas height in pixels (used with width)",
					},
					"columns": map[string]interface{}{
						"type":        "integer",
						"description": "Grid columns the tiles were cut with (used with rows)",
					},
					"rows": map[string]interface{}{
						"type":        "integer",
						"description": "Grid rows the tiles were cut with (used with columns)",
					},
					"infer_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Take the grid shape from the largest row and column in the tile names",
						"default":     false,
					},
				},
				"required": []string{"dir"},
			},
		},
	}
}

// handleToolsList returns the four tiles_* tool definitions.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
