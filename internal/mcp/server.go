// Package mcp exposes translation and sanitizing as MCP tools over stdio,
// so agent frameworks can call the proxy without an HTTP hop.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/obryan/passage/internal/pipeline"
)

// Server wraps the MCP SDK server around the translation pipeline.
type Server struct {
	mcpServer  *mcpsdk.Server
	translator *pipeline.Translator
}

// New creates an MCP server backed by the given translator.
func New(translator *pipeline.Translator) *Server {
	s := &Server{translator: translator}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "passage",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds the passage tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "passage_translate",
		Description: "Translate text between languages while preserving HTML markup, entities, and colons.",
	}, s.handleTranslate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "passage_sanitize",
		Description: "Strip HTML tags that are not on the safe formatting allow-list. Enclosed text is kept.",
	}, s.handleSanitize)
}
