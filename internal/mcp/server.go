package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wailsapp/wails/v2/pkg/logger"

	"portbridge/internal/domain"
	"portbridge/internal/service"
)

// Server is the MCP server for inspecting what the UI core persisted.
// It exposes the stored items and the flags the next launch would hydrate.
type Server struct {
	mcp *server.MCPServer
	log logger.Logger

	items    domain.ItemStore
	hydrator *service.FlagHydrator
	storage  *service.StorageSync
	keys     []domain.StoreKey
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Items  domain.ItemStore
	Logger logger.Logger
	// Keys hydrated by get_flags; defaults to domain.StoreKeys().
	Keys []domain.StoreKey
}

// New creates and configures a new MCP server with all tools.
func New(deps Deps) *Server {
	keys := deps.Keys
	if len(keys) == 0 {
		keys = domain.StoreKeys()
	}
	s := &Server{
		log:      deps.Logger,
		items:    deps.Items,
		hydrator: service.NewFlagHydrator(deps.Items, deps.Logger),
		storage:  service.NewStorageSync(deps.Items),
		keys:     keys,
	}

	s.mcp = server.NewMCPServer(
		"portbridge-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerStorageTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }
