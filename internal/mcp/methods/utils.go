package methods

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// noDocumentMsg is returned by every query tool until load_swagger succeeds.
const noDocumentMsg = "No Swagger document loaded. Please load a document first."

// envelope is the shared result shape. Tool result structs embed it so the
// success flag always appears next to the payload; domain failures carry
// Error and never surface as protocol-level errors.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func okEnvelope() envelope { return envelope{Success: true} }

func errResult(msg string) (*mcp.CallToolResult, error) {
	return jsonResult(envelope{Success: false, Error: msg})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
