package spec

import (
    "fmt"
    "strings"
)

// httpMethods is the method set the tool surface understands. Path item
// keys outside this set (shared parameters blocks, vendor extensions,
// summary) are skipped rather than treated as operations.
var httpMethods = map[string]bool{
    "get":     true,
    "post":    true,
    "put":     true,
    "delete":  true,
    "patch":   true,
    "head":    true,
    "options": true,
}

// Normalize converts a decoded OpenAPI 3.0 or Swagger 2.0 tree into a
// Document. Both dialects funnel into the same shapes: defaults are applied
// here (title, version, parameter location/type, schema types) so consumers
// never re-check, and every sequence keeps document order. Normalize never
// branches on the declared version field; reconciliation is feature-based,
// so a document mixing dialect markers still comes out usable.
//
// Structurally wrong nodes at any point the normalizer must index (a path
// item that is not a mapping, a parameter without a name) produce a
// NormalizationError carrying a JSON pointer to the offending node.
func Normalize(root *Value) (*Document, error) {
    if root.Kind() != KindMap {
        return nil, normErr("#", "document root is not a mapping")
    }

    info, err := normalizeInfo(root.Key("info"))
    if err != nil {
        return nil, err
    }
    servers, err := normalizeServers(root)
    if err != nil {
        return nil, err
    }
    apis, err := normalizeEndpoints(root)
    if err != nil {
        return nil, err
    }
    schemas, err := normalizeSchemas(root)
    if err != nil {
        return nil, err
    }
    secDefs, err := normalizeSecurityDefinitions(root)
    if err != nil {
        return nil, err
    }

    return &Document{
        Info:                info,
        APIs:                apis,
        Schemas:             schemas,
        Servers:             servers,
        SecurityDefinitions: secDefs,
    }, nil
}

func normalizeInfo(v *Value) (Info, error) {
    info := Info{Title: "Unknown API", Version: "1.0.0"}
    if v == nil || v.IsNil() {
        return info, nil
    }
    if v.Kind() != KindMap {
        return info, normErr("#/info", "info is not a mapping")
    }
    if s, ok := stringField(v, "title"); ok {
        info.Title = s
    }
    if s, ok := stringField(v, "version"); ok {
        info.Version = s
    }
    info.Description, _ = stringField(v, "description")
    info.Contact = mapField(v, "contact")
    info.License = mapField(v, "license")
    return info, nil
}

// normalizeServers keeps an OpenAPI 3.0 servers sequence verbatim. Without
// one, a Swagger 2.0 host synthesizes a single entry from scheme, host,
// and basePath; without either, the list is empty but never nil.
func normalizeServers(root *Value) ([]map[string]any, error) {
    if v := root.Key("servers"); v != nil && !v.IsNil() {
        if v.Kind() != KindSeq {
            return nil, normErr("#/servers", "servers is not a sequence")
        }
        servers := make([]map[string]any, 0, v.Len())
        for i, item := range v.Items() {
            if item.Kind() != KindMap {
                return nil, normErr(fmt.Sprintf("#/servers/%d", i), "server entry is not a mapping")
            }
            m, _ := item.Interface().(map[string]any)
            servers = append(servers, m)
        }
        return servers, nil
    }

    hv := root.Key("host")
    if hv == nil || hv.IsNil() {
        return []map[string]any{}, nil
    }
    host, ok := scalarString(hv)
    if !ok {
        return nil, normErr("#/host", "host is not a scalar")
    }
    scheme := "http"
    if sv := root.Key("schemes"); sv != nil && !sv.IsNil() {
        if sv.Kind() != KindSeq {
            return nil, normErr("#/schemes", "schemes is not a sequence")
        }
        if sv.Len() == 0 {
            return nil, normErr("#/schemes", "schemes is empty")
        }
        s, ok := scalarString(sv.Items()[0])
        if !ok {
            return nil, normErr("#/schemes/0", "scheme is not a scalar")
        }
        scheme = s
    }
    basePath, _ := stringField(root, "basePath")
    return []map[string]any{{"url": fmt.Sprintf("%s://%s%s", scheme, host, basePath)}}, nil
}

func normalizeEndpoints(root *Value) ([]Endpoint, error) {
    apis := []Endpoint{}
    pathsVal := root.Key("paths")
    if pathsVal == nil || pathsVal.IsNil() {
        return apis, nil
    }
    if pathsVal.Kind() != KindMap {
        return nil, normErr("#/paths", "paths is not a mapping")
    }

    for _, pe := range pathsVal.Entries() {
        item := pe.Value
        itemPtr := joinPtr("#/paths", pe.Key)
        if item.Kind() != KindMap {
            return nil, normErr(itemPtr, "path item is not a mapping")
        }
        for _, me := range item.Entries() {
            method := strings.ToLower(me.Key)
            if !httpMethods[method] {
                continue
            }
            opPtr := joinPtr(itemPtr, me.Key)
            op := me.Value
            if op.Kind() != KindMap {
                return nil, normErr(opPtr, "operation is not a mapping")
            }

            ep, err := normalizeOperation(pe.Key, strings.ToUpper(method), op, opPtr)
            if err != nil {
                return nil, err
            }
            // Operation-level parameters come first; path-item-level ones
            // are appended without deduplication.
            shared, err := normalizeParameters(item.Key("parameters"), joinPtr(itemPtr, "parameters"))
            if err != nil {
                return nil, err
            }
            ep.Parameters = append(ep.Parameters, shared...)

            apis = append(apis, ep)
        }
    }
    return apis, nil
}

func normalizeOperation(path, method string, op *Value, opPtr string) (Endpoint, error) {
    ep := Endpoint{
        Path:       path,
        Method:     method,
        Tags:       []string{},
        Parameters: []Parameter{},
        Responses:  []Response{},
        Security:   []map[string]any{},
    }
    ep.Summary, _ = stringField(op, "summary")
    ep.Description, _ = stringField(op, "description")
    ep.OperationID, _ = stringField(op, "operationId")
    ep.Deprecated = boolField(op, "deprecated")

    if tv := op.Key("tags"); tv != nil && !tv.IsNil() {
        if tv.Kind() != KindSeq {
            return ep, normErr(joinPtr(opPtr, "tags"), "tags is not a sequence")
        }
        for i, tag := range tv.Items() {
            s, ok := scalarString(tag)
            if !ok {
                return ep, normErr(fmt.Sprintf("%s/tags/%d", opPtr, i), "tag is not a scalar")
            }
            ep.Tags = append(ep.Tags, s)
        }
    }

    params, err := normalizeParameters(op.Key("parameters"), joinPtr(opPtr, "parameters"))
    if err != nil {
        return ep, err
    }
    ep.Parameters = params

    responses, err := normalizeResponses(op.Key("responses"), joinPtr(opPtr, "responses"))
    if err != nil {
        return ep, err
    }
    ep.Responses = responses

    security, err := normalizeSecurity(op.Key("security"), joinPtr(opPtr, "security"))
    if err != nil {
        return ep, err
    }
    ep.Security = security

    return ep, nil
}

func normalizeParameters(v *Value, ptr string) ([]Parameter, error) {
    params := []Parameter{}
    if v == nil || v.IsNil() {
        return params, nil
    }
    if v.Kind() != KindSeq {
        return nil, normErr(ptr, "parameters is not a sequence")
    }
    for i, pv := range v.Items() {
        pPtr := fmt.Sprintf("%s/%d", ptr, i)
        if pv.Kind() != KindMap {
            return nil, normErr(pPtr, "parameter is not a mapping")
        }
        p := Parameter{Location: "query", Type: "string"}
        name, ok := stringField(pv, "name")
        if !ok {
            return nil, normErr(pPtr, "parameter has no name")
        }
        p.Name = name
        if s, ok := stringField(pv, "in"); ok {
            p.Location = s
        }
        if s, ok := stringField(pv, "type"); ok {
            p.Type = s
        }
        // A nested schema object overrides the flat Swagger 2.0 type, even
        // when the schema itself carries no type.
        if sv := pv.Key("schema"); sv != nil && !sv.IsNil() {
            if sv.Kind() != KindMap {
                return nil, normErr(pPtr+"/schema", "parameter schema is not a mapping")
            }
            p.Type = "string"
            if s, ok := stringField(sv, "type"); ok {
                p.Type = s
            }
        }
        p.Required = boolField(pv, "required")
        p.Description, _ = stringField(pv, "description")
        if dv := pv.Key("default"); dv != nil && !dv.IsNil() {
            p.Default = dv.Interface()
        }
        if ev := pv.Key("example"); ev != nil && !ev.IsNil() {
            p.Example = ev.Interface()
        }
        params = append(params, p)
    }
    return params, nil
}

func normalizeResponses(v *Value, ptr string) ([]Response, error) {
    responses := []Response{}
    if v == nil || v.IsNil() {
        return responses, nil
    }
    if v.Kind() != KindMap {
        return nil, normErr(ptr, "responses is not a mapping")
    }
    for _, re := range v.Entries() {
        rPtr := joinPtr(ptr, re.Key)
        rv := re.Value
        if rv.Kind() != KindMap {
            return nil, normErr(rPtr, "response is not a mapping")
        }
        resp := Response{StatusCode: re.Key}
        resp.Description, _ = stringField(rv, "description")

        if cv := rv.Key("content"); cv != nil && !cv.IsNil() {
            if cv.Kind() != KindMap {
                return nil, normErr(joinPtr(rPtr, "content"), "content is not a mapping")
            }
            // First content type wins; alternates are dropped on purpose.
            if entries := cv.Entries(); len(entries) > 0 {
                resp.ContentType = entries[0].Key
                if sv := entries[0].Value; sv.Kind() == KindMap {
                    if schema := sv.Key("schema"); schema != nil && !schema.IsNil() {
                        resp.Schema = schema.Interface()
                    }
                }
            }
        } else if sv := rv.Key("schema"); sv != nil && !sv.IsNil() {
            // Swagger 2.0 bare response schema.
            resp.Schema = sv.Interface()
            resp.ContentType = "application/json"
        }
        responses = append(responses, resp)
    }
    return responses, nil
}

func normalizeSecurity(v *Value, ptr string) ([]map[string]any, error) {
    security := []map[string]any{}
    if v == nil || v.IsNil() {
        return security, nil
    }
    if v.Kind() != KindSeq {
        return nil, normErr(ptr, "security is not a sequence")
    }
    for i, sv := range v.Items() {
        if sv.Kind() != KindMap {
            return nil, normErr(fmt.Sprintf("%s/%d", ptr, i), "security requirement is not a mapping")
        }
        m, _ := sv.Interface().(map[string]any)
        security = append(security, m)
    }
    return security, nil
}

func normalizeSchemas(root *Value) ([]Schema, error) {
    schemas := []Schema{}
    defs, ptr, err := schemaDefinitions(root)
    if err != nil {
        return nil, err
    }
    if defs == nil {
        return schemas, nil
    }
    for _, se := range defs.Entries() {
        s, err := normalizeSchema(se.Key, se.Value, joinPtr(ptr, se.Key))
        if err != nil {
            return nil, err
        }
        schemas = append(schemas, s)
    }
    return schemas, nil
}

// schemaDefinitions picks the schema source: components.schemas when it
// exists and has entries, otherwise the Swagger 2.0 definitions block.
func schemaDefinitions(root *Value) (*Value, string, error) {
    if cv := root.Key("components"); cv != nil && !cv.IsNil() {
        if cv.Kind() != KindMap {
            return nil, "", normErr("#/components", "components is not a mapping")
        }
        if sv := cv.Key("schemas"); sv != nil && !sv.IsNil() {
            if sv.Kind() != KindMap {
                return nil, "", normErr("#/components/schemas", "components.schemas is not a mapping")
            }
            if sv.Len() > 0 {
                return sv, "#/components/schemas", nil
            }
        }
    }
    dv := root.Key("definitions")
    if dv == nil || dv.IsNil() {
        return nil, "", nil
    }
    if dv.Kind() != KindMap {
        return nil, "", normErr("#/definitions", "definitions is not a mapping")
    }
    return dv, "#/definitions", nil
}

func normalizeSchema(name string, v *Value, ptr string) (Schema, error) {
    s := Schema{Name: name, Type: "object", Properties: []SchemaProperty{}, Required: []string{}}
    if v == nil || v.IsNil() {
        return s, nil
    }
    if v.Kind() != KindMap {
        return s, normErr(ptr, "schema definition is not a mapping")
    }
    if t, ok := stringField(v, "type"); ok {
        s.Type = t
    }
    s.Description, _ = stringField(v, "description")
    if ev := v.Key("example"); ev != nil && !ev.IsNil() {
        s.Example = ev.Interface()
    }

    required, err := stringSeqField(v, "required", ptr)
    if err != nil {
        return s, err
    }
    s.Required = required

    if pv := v.Key("properties"); pv != nil && !pv.IsNil() {
        if pv.Kind() != KindMap {
            return s, normErr(joinPtr(ptr, "properties"), "properties is not a mapping")
        }
        propsPtr := joinPtr(ptr, "properties")
        for _, pe := range pv.Entries() {
            prop, err := normalizeProperty(pe.Key, pe.Value, joinPtr(propsPtr, pe.Key), required)
            if err != nil {
                return s, err
            }
            s.Properties = append(s.Properties, prop)
        }
    }
    return s, nil
}

func normalizeProperty(name string, v *Value, ptr string, required []string) (SchemaProperty, error) {
    p := SchemaProperty{Name: name, Type: "string"}
    for _, r := range required {
        if r == name {
            p.Required = true
            break
        }
    }
    if v == nil || v.IsNil() {
        return p, nil
    }
    if v.Kind() != KindMap {
        return p, normErr(ptr, "property definition is not a mapping")
    }
    if t, ok := stringField(v, "type"); ok {
        p.Type = t
    }
    p.Description, _ = stringField(v, "description")
    p.Format, _ = stringField(v, "format")
    if ev := v.Key("example"); ev != nil && !ev.IsNil() {
        p.Example = ev.Interface()
    }
    if enum := v.Key("enum"); enum.Kind() == KindSeq {
        vals, _ := enum.Interface().([]any)
        p.Enum = vals
    }
    if items := v.Key("items"); items.Kind() == KindMap {
        m, _ := items.Interface().(map[string]any)
        p.Items = m
    }
    if props := v.Key("properties"); props.Kind() == KindMap {
        m, _ := props.Interface().(map[string]any)
        p.Properties = m
    }
    return p, nil
}

// normalizeSecurityDefinitions prefers the Swagger 2.0 securityDefinitions
// block; components.securitySchemes is the fallback when the former is
// absent or empty.
func normalizeSecurityDefinitions(root *Value) (map[string]any, error) {
    if sv := root.Key("securityDefinitions"); sv != nil && !sv.IsNil() {
        if sv.Kind() != KindMap {
            return nil, normErr("#/securityDefinitions", "securityDefinitions is not a mapping")
        }
        if sv.Len() > 0 {
            m, _ := sv.Interface().(map[string]any)
            return m, nil
        }
    }
    if cv := root.Key("components"); cv.Kind() == KindMap {
        if sv := cv.Key("securitySchemes"); sv != nil && !sv.IsNil() {
            if sv.Kind() != KindMap {
                return nil, normErr("#/components/securitySchemes", "components.securitySchemes is not a mapping")
            }
            m, _ := sv.Interface().(map[string]any)
            return m, nil
        }
    }
    return map[string]any{}, nil
}

// Field helpers. Explicit nulls count as absent everywhere, so a
// "description: null" falls back the same way a missing key does.

func stringField(m *Value, key string) (string, bool) {
    return scalarString(m.Key(key))
}

func boolField(m *Value, key string) bool {
    if v := m.Key(key); v != nil {
        if b, ok := v.Bool(); ok {
            return b
        }
    }
    return false
}

// mapField returns a mapping field as a plain map, or nil when absent or
// differently shaped.
func mapField(m *Value, key string) map[string]any {
    v := m.Key(key)
    if v.Kind() != KindMap {
        return nil
    }
    out, _ := v.Interface().(map[string]any)
    return out
}

func stringSeqField(m *Value, key, ptr string) ([]string, error) {
    out := []string{}
    v := m.Key(key)
    if v == nil || v.IsNil() {
        return out, nil
    }
    if v.Kind() != KindSeq {
        return nil, normErr(joinPtr(ptr, key), "%s is not a sequence", key)
    }
    for i, item := range v.Items() {
        s, ok := scalarString(item)
        if !ok {
            return nil, normErr(fmt.Sprintf("%s/%d", joinPtr(ptr, key), i), "%s entry is not a scalar", key)
        }
        out = append(out, s)
    }
    return out, nil
}

func normErr(ptr, format string, args ...any) error {
    return &SpecError{Code: NormalizationError, Message: fmt.Sprintf(format, args...), JSONPointer: ptr}
}

// joinPtr appends one token to a JSON pointer, escaping per RFC 6901.
func joinPtr(base, token string) string {
    token = strings.ReplaceAll(token, "~", "~0")
    token = strings.ReplaceAll(token, "/", "~1")
    return base + "/" + token
}
