package spec

// Normalized document model shared by the catalog and the tool surface.
// JSON tags use the snake_case names the tools expose, so the structs
// marshal straight into tool payloads.

// Document is the normalized view of one OpenAPI 3.0 or Swagger 2.0
// description. Normalize builds it in full, defaults included; afterwards
// it is treated as read-only, and a reload produces a fresh Document
// rather than mutating this one.
type Document struct {
    Info                Info             `json:"info"`
    APIs                []Endpoint       `json:"apis"`
    Schemas             []Schema         `json:"schemas"`
    Servers             []map[string]any `json:"servers"`
    SecurityDefinitions map[string]any   `json:"security_definitions"`
}

// Info carries the document identity. Title and Version are always set,
// falling back to "Unknown API" and "1.0.0".
type Info struct {
    Title       string         `json:"title"`
    Version     string         `json:"version"`
    Description string         `json:"description,omitempty"`
    Contact     map[string]any `json:"contact,omitempty"`
    License     map[string]any `json:"license,omitempty"`
}

// Endpoint is one path+method operation. Path plus Method is the lookup
// identity; duplicates stay in document order and the first match wins.
type Endpoint struct {
    Path        string           `json:"path"`
    Method      string           `json:"method"`
    Summary     string           `json:"summary,omitempty"`
    Description string           `json:"description,omitempty"`
    OperationID string           `json:"operation_id,omitempty"`
    Tags        []string         `json:"tags"`
    Parameters  []Parameter      `json:"parameters"`
    Responses   []Response       `json:"responses"`
    Security    []map[string]any `json:"security"`
    Deprecated  bool             `json:"deprecated"`
}

// Parameter describes one operation input. Location defaults to "query"
// and Type to "string" when the source does not say otherwise.
type Parameter struct {
    Name        string `json:"name"`
    Location    string `json:"location"`
    Type        string `json:"type"`
    Required    bool   `json:"required"`
    Description string `json:"description,omitempty"`
    Default     any    `json:"default,omitempty"`
    Example     any    `json:"example,omitempty"`
}

// Response describes one status code of an operation. Only the first
// content type of a response body is kept; its schema stays opaque.
type Response struct {
    StatusCode  string `json:"status_code"`
    Description string `json:"description"`
    ContentType string `json:"content_type,omitempty"`
    Schema      any    `json:"schema,omitempty"`
}

// Schema is a named component schema, parsed one property level deep.
type Schema struct {
    Name        string           `json:"name"`
    Type        string           `json:"type"`
    Description string           `json:"description,omitempty"`
    Properties  []SchemaProperty `json:"properties"`
    Required    []string         `json:"required"`
    Example     any              `json:"example,omitempty"`
}

// SchemaProperty is one property of a Schema. Nested shapes (items,
// sub-properties) are preserved as opaque maps.
type SchemaProperty struct {
    Name        string         `json:"name"`
    Type        string         `json:"type"`
    Description string         `json:"description,omitempty"`
    Required    bool           `json:"required"`
    Format      string         `json:"format,omitempty"`
    Example     any            `json:"example,omitempty"`
    Enum        []any          `json:"enum,omitempty"`
    Items       map[string]any `json:"items,omitempty"`
    Properties  map[string]any `json:"properties,omitempty"`
}
