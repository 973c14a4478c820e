package methods

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

type schemaSummary struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Description    string   `json:"description,omitempty"`
	PropertyCount  int      `json:"property_count"`
	RequiredFields []string `json:"required_fields"`
}

type listSchemasResult struct {
	envelope
	Schemas    []schemaSummary `json:"schemas"`
	TotalCount int             `json:"total_count"`
}

func (r *Registry) listSchemas() Method {
	tool := mcp.NewTool("list_schemas",
		mcp.WithDescription("List the named schemas defined in the current Swagger document"),
	)
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, ok := r.catalog.Current()
		if !ok {
			return errResult(noDocumentMsg)
		}

		schemas := make([]schemaSummary, 0, len(doc.Schemas))
		for _, sc := range doc.Schemas {
			schemas = append(schemas, schemaSummary{
				Name:           sc.Name,
				Type:           sc.Type,
				Description:    sc.Description,
				PropertyCount:  len(sc.Properties),
				RequiredFields: sc.Required,
			})
		}
		return jsonResult(listSchemasResult{
			envelope:   okEnvelope(),
			Schemas:    schemas,
			TotalCount: len(schemas),
		})
	}
	return Method{Tool: tool, Handler: handler}
}
