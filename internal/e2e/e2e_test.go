package e2e

import (
    "bytes"
    "context"
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/mark3labs/mcp-go/mcp"
    "github.com/mark3labs/mcp-go/server"

    cli "github.com/mark3labs/swagger-mcp/internal/cli"
    "github.com/mark3labs/swagger-mcp/internal/catalog"
    "github.com/mark3labs/swagger-mcp/internal/mcp/methods"
    "github.com/mark3labs/swagger-mcp/internal/spec"
)

// OpenAPI v3 document exercised through the whole tool surface.
const sampleSpecV3 = "" +
    "openapi: 3.0.0\n" +
    "info:\n" +
    "  title: E2E Sample\n" +
    "  version: '1.0.0'\n" +
    "servers:\n" +
    "  - url: https://e2e.example.com\n" +
    "paths:\n" +
    "  /pets:\n" +
    "    get:\n" +
    "      operationId: listPets\n" +
    "      summary: List pets\n" +
    "      tags: [read]\n" +
    "      parameters:\n" +
    "        - name: limit\n" +
    "          in: query\n" +
    "          schema:\n" +
    "            type: integer\n" +
    "      responses:\n" +
    "        '200':\n" +
    "          description: ok\n" +
    "          content:\n" +
    "            application/json:\n" +
    "              schema:\n" +
    "                $ref: '#/components/schemas/Pet'\n" +
    "  /pets/{id}:\n" +
    "    delete:\n" +
    "      summary: Remove a pet\n" +
    "      tags: [write]\n" +
    "      responses:\n" +
    "        '204':\n" +
    "          description: removed\n" +
    "components:\n" +
    "  schemas:\n" +
    "    Pet:\n" +
    "      type: object\n" +
    "      required: [id]\n" +
    "      properties:\n" +
    "        id:\n" +
    "          type: integer\n" +
    "        name:\n" +
    "          type: string\n"

// Swagger 2.0 document for the conversion path.
const sampleSpecV2 = "" +
    "swagger: '2.0'\n" +
    "info:\n" +
    "  title: Legacy Sample\n" +
    "  version: '2.0.0'\n" +
    "host: legacy.example.com\n" +
    "basePath: /v2\n" +
    "schemes: [https]\n" +
    "paths:\n" +
    "  /orders:\n" +
    "    get:\n" +
    "      summary: List orders\n" +
    "      responses:\n" +
    "        '200':\n" +
    "          description: ok\n" +
    "          schema:\n" +
    "            $ref: '#/definitions/Order'\n" +
    "definitions:\n" +
    "  Order:\n" +
    "    type: object\n" +
    "    properties:\n" +
    "      id:\n" +
    "        type: string\n"

func writeTempSpec(t *testing.T, content string) string {
    t.Helper()
    dir := t.TempDir()
    p := filepath.Join(dir, "spec.yaml")
    if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
        t.Fatalf("write spec: %v", err)
    }
    return p
}

func newRegistry() *methods.Registry {
    return methods.NewRegistry(catalog.New())
}

func callTool(t *testing.T, reg *methods.Registry, name string, args map[string]any) map[string]any {
    t.Helper()
    var handler server.ToolHandlerFunc
    for _, m := range reg.Methods() {
        if m.Tool.Name == name {
            handler = m.Handler
            break
        }
    }
    if handler == nil {
        t.Fatalf("tool %s not registered", name)
    }

    req := mcp.CallToolRequest{}
    req.Params.Name = name
    req.Params.Arguments = args

    res, err := handler(context.Background(), req)
    if err != nil {
        t.Fatalf("call %s: %v", name, err)
    }
    if len(res.Content) == 0 {
        t.Fatalf("call %s: empty content", name)
    }
    text, ok := res.Content[0].(mcp.TextContent)
    if !ok {
        t.Fatalf("call %s: content is %T, want TextContent", name, res.Content[0])
    }

    var payload map[string]any
    if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
        t.Fatalf("call %s: decode payload: %v\n%s", name, err, text.Text)
    }
    return payload
}

func mustSucceed(t *testing.T, tool string, payload map[string]any) {
    t.Helper()
    if ok, _ := payload["success"].(bool); !ok {
        t.Fatalf("%s failed: %v", tool, payload["error"])
    }
}

func TestE2E_ToolFlow_V3(t *testing.T) {
    t.Parallel()
    path := writeTempSpec(t, sampleSpecV3)
    reg := newRegistry()

    loaded := callTool(t, reg, "load_swagger", map[string]any{"source": path, "source_type": "file"})
    mustSucceed(t, "load_swagger", loaded)
    info, _ := loaded["info"].(map[string]any)
    if info == nil {
        t.Fatalf("load_swagger: missing info block: %v", loaded)
    }
    if got := info["api_count"]; got != float64(2) {
        t.Errorf("api_count: want 2 got %v", got)
    }
    if got := info["schema_count"]; got != float64(1) {
        t.Errorf("schema_count: want 1 got %v", got)
    }

    overview := callTool(t, reg, "get_swagger_info", nil)
    mustSucceed(t, "get_swagger_info", overview)
    if overview["title"] != "E2E Sample" {
        t.Errorf("title: got %v", overview["title"])
    }
    servers, _ := overview["servers"].([]any)
    if len(servers) != 1 {
        t.Fatalf("servers: want 1 got %v", overview["servers"])
    }
    if url := servers[0].(map[string]any)["url"]; url != "https://e2e.example.com" {
        t.Errorf("server url: got %v", url)
    }

    listed := callTool(t, reg, "list_apis", map[string]any{"tag": "read"})
    mustSucceed(t, "list_apis", listed)
    if listed["total_count"] != float64(1) {
        t.Fatalf("list_apis total_count: want 1 got %v", listed["total_count"])
    }
    apis := listed["apis"].([]any)
    if op := apis[0].(map[string]any)["operation_id"]; op != "listPets" {
        t.Errorf("operation_id: got %v", op)
    }

    details := callTool(t, reg, "get_api_details", map[string]any{"path": "/pets", "method": "get"})
    mustSucceed(t, "get_api_details", details)
    api := details["api"].(map[string]any)
    params, _ := api["parameters"].([]any)
    if len(params) != 1 {
        t.Fatalf("parameters: want 1 got %v", api["parameters"])
    }
    responses, _ := api["responses"].([]any)
    if len(responses) != 1 {
        t.Fatalf("responses: want 1 got %v", api["responses"])
    }
    resp := responses[0].(map[string]any)
    if resp["status_code"] != "200" || resp["content_type"] != "application/json" {
        t.Errorf("unexpected response entry: %v", resp)
    }

    found := callTool(t, reg, "search_apis", map[string]any{"query": "remove"})
    mustSucceed(t, "search_apis", found)
    if found["result_count"] != float64(1) {
        t.Fatalf("search result_count: want 1 got %v", found["result_count"])
    }
    hit := found["results"].([]any)[0].(map[string]any)
    if hit["path"] != "/pets/{id}" {
        t.Errorf("search hit path: got %v", hit["path"])
    }

    schemas := callTool(t, reg, "list_schemas", nil)
    mustSucceed(t, "list_schemas", schemas)
    if schemas["total_count"] != float64(1) {
        t.Fatalf("list_schemas total_count: want 1 got %v", schemas["total_count"])
    }
    summary := schemas["schemas"].([]any)[0].(map[string]any)
    if summary["name"] != "Pet" || summary["property_count"] != float64(2) {
        t.Errorf("unexpected schema summary: %v", summary)
    }

    schema := callTool(t, reg, "get_schema_details", map[string]any{"name": "Pet"})
    mustSucceed(t, "get_schema_details", schema)
    detail := schema["schema"].(map[string]any)
    if detail["type"] != "object" {
        t.Errorf("schema type: got %v", detail["type"])
    }
    props, _ := detail["properties"].([]any)
    if len(props) != 2 {
        t.Errorf("schema properties: want 2 got %v", detail["properties"])
    }
}

func TestE2E_ToolFlow_V2OverHTTP(t *testing.T) {
    t.Parallel()
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/yaml")
        _, _ = w.Write([]byte(sampleSpecV2))
    }))
    defer srv.Close()

    reg := newRegistry()

    loaded := callTool(t, reg, "load_swagger", map[string]any{"source": srv.URL})
    mustSucceed(t, "load_swagger", loaded)

    overview := callTool(t, reg, "get_swagger_info", nil)
    mustSucceed(t, "get_swagger_info", overview)
    if overview["title"] != "Legacy Sample" {
        t.Errorf("title: got %v", overview["title"])
    }
    servers, _ := overview["servers"].([]any)
    if len(servers) != 1 {
        t.Fatalf("servers: want 1 got %v", overview["servers"])
    }
    if url := servers[0].(map[string]any)["url"]; url != "https://legacy.example.com/v2" {
        t.Errorf("synthesized server url: got %v", url)
    }

    schemas := callTool(t, reg, "list_schemas", nil)
    mustSucceed(t, "list_schemas", schemas)
    summary := schemas["schemas"].([]any)[0].(map[string]any)
    if summary["name"] != "Order" {
        t.Errorf("schema name: got %v", summary["name"])
    }

    details := callTool(t, reg, "get_api_details", map[string]any{"path": "/orders", "method": "GET"})
    mustSucceed(t, "get_api_details", details)
    api := details["api"].(map[string]any)
    responses, _ := api["responses"].([]any)
    if len(responses) != 1 {
        t.Fatalf("responses: want 1 got %v", api["responses"])
    }
    if ct := responses[0].(map[string]any)["content_type"]; ct != "application/json" {
        t.Errorf("bare schema content type: got %v", ct)
    }
}

func TestE2E_InspectJSON(t *testing.T) {
    path := writeTempSpec(t, sampleSpecV3)

    old := os.Stdout
    r, w, _ := os.Pipe()
    os.Stdout = w
    defer func() { os.Stdout = old }()

    root := cli.NewRootCmd()
    root.SetOut(io.Discard)
    root.SetErr(io.Discard)
    root.SetArgs([]string{"inspect", "--input", path, "--json"})
    execErr := root.Execute()

    _ = w.Close()
    var buf bytes.Buffer
    _, _ = io.Copy(&buf, r)
    os.Stdout = old

    if execErr != nil {
        t.Fatalf("inspect execute: %v", execErr)
    }

    var doc spec.Document
    if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
        t.Fatalf("inspect --json produced invalid JSON: %v\n%s", err, buf.String())
    }
    if doc.Info.Title != "E2E Sample" {
        t.Errorf("title: got %q", doc.Info.Title)
    }
    if len(doc.APIs) != 2 {
        t.Errorf("apis: want 2 got %d", len(doc.APIs))
    }
    if !strings.Contains(buf.String(), "\"operation_id\": \"listPets\"") {
        t.Errorf("expected pretty-printed operation_id in output")
    }
}
