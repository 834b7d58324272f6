package mcp

import (
	"context"
	"io"
	"log/slog"

	"github.com/CSCSoftware/evolution-mcp/config"
	"github.com/CSCSoftware/evolution-mcp/evolution"
	"github.com/CSCSoftware/evolution-mcp/store"
	"github.com/CSCSoftware/evolution-mcp/webhook"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with the gateway client, the message store
// and the webhook listener.
type Server struct {
	mcpServer *mcp.Server
	client    *evolution.Client
	store     *store.Store
	webhook   *webhook.Server
	cfg       config.Config
	logger    *slog.Logger
}

// NewServer creates an MCP server with all tools and resources registered.
func NewServer(cfg config.Config, client *evolution.Client, st *store.Store, wh *webhook.Server, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		client:  client,
		store:   st,
		webhook: wh,
		cfg:     cfg,
		logger:  logger,
	}

	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    config.ServerName,
		Version: config.ServerVersion,
	}, &mcp.ServerOptions{Logger: logger})

	s.registerTools()
	s.registerResources()
	return s
}

// Run starts the MCP server on stdio (blocking).
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server for testing.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// failure reports a gateway error as plain text so the caller can read it.
func (s *Server) failure(tool, action string, err error) *mcp.CallToolResult {
	s.logger.Warn("mcp tool failed", "tool", tool, "error", err)
	return textResult(action + ": " + err.Error())
}
