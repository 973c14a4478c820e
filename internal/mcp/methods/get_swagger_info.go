package methods

import (
	"context"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
)

type swaggerInfo struct {
	Title       string           `json:"title"`
	Version     string           `json:"version"`
	Description string           `json:"description,omitempty"`
	Contact     map[string]any   `json:"contact,omitempty"`
	License     map[string]any   `json:"license,omitempty"`
	Servers     []map[string]any `json:"servers"`
	APICount    int              `json:"api_count"`
	SchemaCount int              `json:"schema_count"`
	// Security definition names only; full definitions often carry
	// deployment detail a client listing does not need.
	SecurityDefinitions []string `json:"security_definitions"`
}

type swaggerInfoResult struct {
	envelope
	Info swaggerInfo `json:"info"`
}

func (r *Registry) getSwaggerInfo() Method {
	tool := mcp.NewTool("get_swagger_info",
		mcp.WithDescription("Get basic information about the currently loaded Swagger document"),
	)
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, ok := r.catalog.Current()
		if !ok {
			return errResult(noDocumentMsg)
		}

		secNames := make([]string, 0, len(doc.SecurityDefinitions))
		for name := range doc.SecurityDefinitions {
			secNames = append(secNames, name)
		}
		sort.Strings(secNames)

		return jsonResult(swaggerInfoResult{
			envelope: okEnvelope(),
			Info: swaggerInfo{
				Title:               doc.Info.Title,
				Version:             doc.Info.Version,
				Description:         doc.Info.Description,
				Contact:             doc.Info.Contact,
				License:             doc.Info.License,
				Servers:             doc.Servers,
				APICount:            len(doc.APIs),
				SchemaCount:         len(doc.Schemas),
				SecurityDefinitions: secNames,
			},
		})
	}
	return Method{Tool: tool, Handler: handler}
}
