// Package server implements the MCP (Model Context Protocol) server for the
// image tiler.
//
// This package provides a JSON-RPC 2.0 server that exposes slicing and
// joining through the MCP protocol, so an MCP client can plan a tile grid,
// look at it, cut an image and put the pieces back together.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - tiles_layout: Grid shape, tile size and dropped edge pixels for an image
//   - tiles_preview: Tile boundaries drawn over the image, as base64 PNG
//   - tiles_slice: Cut an image and write the tiles to a directory
//   - tiles_join: Reassemble a directory of tiles into one image
//
// Every tool that takes an image accepts either a tile count or an explicit
// columns/rows pair; a count takes precedence.
//
// # Image Caching
//
// Source images are cached by path, so calling tiles_layout, tiles_preview
// and tiles_slice on the same file decodes it once. A file whose
// modification time or size has changed is decoded again, and tiles_join
// evicts the path it writes to.
//
// # Error Handling
//
// Failures are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (bad tools/call params),
//     -32601 (unknown method) or -32700 (a line that is not JSON, answered
//     with a null id)
//   - message: Human-readable error description
//   - data: The Go error string, which starts with the tiling error kind
//
// # Usage
//
//	srv := server.New(version, log.New(os.Stderr, "", log.LstdFlags))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
