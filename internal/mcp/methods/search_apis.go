package methods

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// searchItem is an apiSummary without the deprecated flag, mirroring what
// the search surface has always returned.
type searchItem struct {
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	OperationID string   `json:"operation_id,omitempty"`
}

type searchResult struct {
	envelope
	Query       string       `json:"query"`
	Results     []searchItem `json:"results"`
	ResultCount int          `json:"result_count"`
}

func (r *Registry) searchAPIs() Method {
	tool := mcp.NewTool("search_apis",
		mcp.WithDescription("Search APIs by keyword across path, method, summary, description, and tags"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive substring to search for"),
		),
	)
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if _, ok := r.catalog.Current(); !ok {
			return errResult(noDocumentMsg)
		}

		matches := r.catalog.Search(query)
		results := make([]searchItem, 0, len(matches))
		for _, ep := range matches {
			results = append(results, searchItem{
				Path:        ep.Path,
				Method:      ep.Method,
				Summary:     ep.Summary,
				Description: ep.Description,
				Tags:        ep.Tags,
				OperationID: ep.OperationID,
			})
		}
		return jsonResult(searchResult{
			envelope:    okEnvelope(),
			Query:       query,
			Results:     results,
			ResultCount: len(results),
		})
	}
	return Method{Tool: tool, Handler: handler}
}
