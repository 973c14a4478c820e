// Package mcp wires the tool registry into an MCP server and serves it over
// stdio or SSE.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/mark3labs/swagger-mcp/internal/mcp/methods"
)

// Version is reported to MCP clients during initialization.
const Version = "0.1.0"

// NewServer builds an MCP server exposing every registry method. Handler
// panics are turned into tool errors by the recovery middleware, so a
// malformed document can never take the transport down.
func NewServer(reg *methods.Registry) *server.MCPServer {
	s := server.NewMCPServer("swagger-mcp", Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	for _, m := range reg.Methods() {
		s.AddTool(m.Tool, m.Handler)
	}
	return s
}

// ServeStdio serves the MCP protocol on stdin/stdout until the client
// disconnects. Log output must go to stderr; stdout belongs to the protocol.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// ServeSSE serves the MCP protocol over SSE on addr.
func ServeSSE(s *server.MCPServer, addr string) error {
	return server.NewSSEServer(s).Start(addr)
}
