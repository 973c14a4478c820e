package methods

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mark3labs/swagger-mcp/internal/spec"
)

type apiDetailsResult struct {
	envelope
	API *spec.Endpoint `json:"api,omitempty"`
}

func (r *Registry) getAPIDetails() Method {
	tool := mcp.NewTool("get_api_details",
		mcp.WithDescription("Get the full definition of one API, including parameters, responses, and security"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("API path, e.g. /pets/{id}"),
		),
		mcp.WithString("method",
			mcp.Required(),
			mcp.Description("HTTP method, e.g. GET (case-insensitive)"),
		),
	)
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		method, err := req.RequireString("method")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if _, ok := r.catalog.Current(); !ok {
			return errResult(noDocumentMsg)
		}
		ep, ok := r.catalog.Endpoint(path, method)
		if !ok {
			return errResult(fmt.Sprintf("API not found: %s %s", strings.ToUpper(method), path))
		}
		return jsonResult(apiDetailsResult{envelope: okEnvelope(), API: &ep})
	}
	return Method{Tool: tool, Handler: handler}
}
