package methods

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mark3labs/swagger-mcp/internal/spec"
)

type schemaDetailsResult struct {
	envelope
	Schema *spec.Schema `json:"schema,omitempty"`
}

func (r *Registry) getSchemaDetails() Method {
	tool := mcp.NewTool("get_schema_details",
		mcp.WithDescription("Get the full definition of one schema, including its properties"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Schema name as listed by list_schemas"),
		),
	)
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if _, ok := r.catalog.Current(); !ok {
			return errResult(noDocumentMsg)
		}

		sc, ok := r.catalog.SchemaByName(name)
		if !ok {
			return errResult(fmt.Sprintf("Schema not found: %s", name))
		}
		return jsonResult(schemaDetailsResult{envelope: okEnvelope(), Schema: &sc})
	}
	return Method{Tool: tool, Handler: handler}
}
