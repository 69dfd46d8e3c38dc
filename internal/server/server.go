package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/image-tiler/internal/imaging"
)

const (
	serverName      = "image-tiler"
	protocolVersion = "2024-11-05"
	jsonRPCVersion  = "2.0"

	// maxRequestSize bounds one request line. tiles_* arguments are paths
	// and a handful of numbers, so 1 MiB is generous.
	maxRequestSize = 1 << 20
)

// JSON-RPC error codes used by the tiler.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// Server answers MCP requests for the tiles_* tools. Source images decoded
// by one call are shared with later calls through cache.
type Server struct {
	cache   *imaging.ImageCache
	logger  *log.Logger
	version string
}

// MCPRequest is one JSON-RPC request line.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse is one JSON-RPC response line. Exactly one of Result and Error
// is set.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError carries a failed request. For tool failures Data holds the Go
// error string, which starts with the tiling error kind.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New returns a server reporting version in its handshake. Protocol errors,
// tool failures and the tile stores created by tool calls log through logger.
func New(version string, logger *log.Logger) *Server {
	return &Server{
		cache:   imaging.NewImageCache(),
		logger:  logger,
		version: version,
	}
}

// Run serves stdin to stdout until stdin closes.
func (s *Server) Run() error {
	s.logger.Printf("%s %s serving MCP on stdio", serverName, s.version)
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve handles one JSON-RPC request per line of r, in order, writing each
// response as one line of w. Blank lines and notifications produce no
// output; a line that is not JSON gets a parse error with a null id. Serve
// returns when r is exhausted, or with the read error that stopped it.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
	encoder := json.NewEncoder(w)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp *MCPResponse
		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Printf("line %d: malformed request: %v", lineNo, err)
			resp = fail(nil, codeParseError, "Parse error", err.Error())
		} else {
			s.logger.Printf("line %d: %s", lineNo, req.Method)
			resp = s.handleRequest(&req)
		}
		if resp == nil {
			continue
		}
		if err := encoder.Encode(resp); err != nil {
			s.logger.Printf("line %d: writing response: %v", lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return nil
}

// handleRequest dispatches on the MCP method. Notifications return nil.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return reply(req.ID, s.handshake())
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return reply(req.ID, map[string]interface{}{})
	default:
		return fail(req.ID, codeMethodNotFound, "Method not found: "+req.Method, "")
	}
}

// handshake is the initialize result: the tiler only offers tools.
func (s *Server) handshake() map[string]interface{} {
	return map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    serverName,
			"version": s.version,
		},
	}
}

func reply(id, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
}

// fail builds an error response; an empty data is omitted.
func fail(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: jsonRPCVersion, ID: id, Error: e}
}
