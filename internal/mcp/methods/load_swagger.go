package methods

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mark3labs/swagger-mcp/internal/spec"
)

// loadInfo summarizes a freshly loaded document.
type loadInfo struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	APICount    int    `json:"api_count"`
	SchemaCount int    `json:"schema_count"`
}

type loadResult struct {
	envelope
	Message string   `json:"message"`
	Info    loadInfo `json:"info"`
}

func (r *Registry) loadSwagger() Method {
	tool := mcp.NewTool("load_swagger",
		mcp.WithDescription("Load a Swagger/OpenAPI document from a URL or local file and make it the current document"),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("URL or file path of the Swagger/OpenAPI document"),
		),
		mcp.WithString("source_type",
			mcp.Description("How to interpret source: 'url' or 'file' (default 'url')"),
		),
	)
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source, err := req.RequireString("source")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sourceType := req.GetString("source_type", "url")

		var doc *spec.Document
		switch strings.ToLower(sourceType) {
		case "url":
			doc, err = spec.LoadURL(ctx, source, r.loadOpts...)
		case "file":
			doc, err = spec.LoadFile(ctx, source, r.loadOpts...)
		default:
			return errResult(fmt.Sprintf("Invalid source_type: %s. Must be 'url' or 'file'", sourceType))
		}
		if err != nil {
			// The previous document, if any, stays current.
			return errResult(fmt.Sprintf("Failed to load Swagger document: %v", err))
		}

		r.catalog.Load(doc)
		return jsonResult(loadResult{
			envelope: okEnvelope(),
			Message:  fmt.Sprintf("Successfully loaded Swagger document from %s", source),
			Info: loadInfo{
				Title:       doc.Info.Title,
				Version:     doc.Info.Version,
				Description: doc.Info.Description,
				APICount:    len(doc.APIs),
				SchemaCount: len(doc.Schemas),
			},
		})
	}
	return Method{Tool: tool, Handler: handler}
}
