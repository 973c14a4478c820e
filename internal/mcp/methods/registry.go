// Package methods defines the MCP tools exposed by swagger-mcp: their
// schemas, their handlers, and the shared result envelope. Each tool lives
// in its own file; the registry fixes the registration order.
package methods

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mark3labs/swagger-mcp/internal/catalog"
	"github.com/mark3labs/swagger-mcp/internal/spec"
)

// Method pairs a tool definition with its handler.
type Method struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// Registry builds the tool set around one catalog. Loader options flow into
// every load_swagger call, so timeout, retry, and validation settings from
// the command line apply to documents loaded over MCP too.
type Registry struct {
	catalog  *catalog.Service
	loadOpts []spec.Option
}

func NewRegistry(c *catalog.Service, loadOpts ...spec.Option) *Registry {
	return &Registry{catalog: c, loadOpts: loadOpts}
}

// Methods returns every tool in registration order.
func (r *Registry) Methods() []Method {
	return []Method{
		r.loadSwagger(),
		r.getSwaggerInfo(),
		r.listAPIs(),
		r.getAPIDetails(),
		r.searchAPIs(),
		r.listSchemas(),
		r.getSchemaDetails(),
	}
}
