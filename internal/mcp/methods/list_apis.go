package methods

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mark3labs/swagger-mcp/internal/spec"
)

type apiSummary struct {
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	OperationID string   `json:"operation_id,omitempty"`
	Deprecated  bool     `json:"deprecated"`
}

type listAPIsResult struct {
	envelope
	APIs       []apiSummary `json:"apis"`
	TotalCount int          `json:"total_count"`
}

func (r *Registry) listAPIs() Method {
	tool := mcp.NewTool("list_apis",
		mcp.WithDescription("List the APIs in the current Swagger document, optionally filtered by tag or HTTP method"),
		mcp.WithString("tag",
			mcp.Description("Only include APIs carrying this tag (case-insensitive)"),
		),
		mcp.WithString("method",
			mcp.Description("Only include APIs with this HTTP method (case-insensitive)"),
		),
	)
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, ok := r.catalog.Current()
		if !ok {
			return errResult(noDocumentMsg)
		}
		tag := req.GetString("tag", "")
		method := req.GetString("method", "")

		apis := make([]apiSummary, 0, len(doc.APIs))
		for _, ep := range doc.APIs {
			if tag != "" && !hasTagFold(ep, tag) {
				continue
			}
			if method != "" && !strings.EqualFold(ep.Method, method) {
				continue
			}
			apis = append(apis, apiSummary{
				Path:        ep.Path,
				Method:      ep.Method,
				Summary:     ep.Summary,
				Description: ep.Description,
				Tags:        ep.Tags,
				OperationID: ep.OperationID,
				Deprecated:  ep.Deprecated,
			})
		}
		return jsonResult(listAPIsResult{
			envelope:   okEnvelope(),
			APIs:       apis,
			TotalCount: len(apis),
		})
	}
	return Method{Tool: tool, Handler: handler}
}

func hasTagFold(ep spec.Endpoint, tag string) bool {
	for _, t := range ep.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
