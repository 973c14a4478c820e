package spec

import (
    "bytes"
    "encoding/json"
    "fmt"
    "strconv"

    "gopkg.in/yaml.v3"
)

// Kind discriminates the shapes a decoded document node can take.
type Kind int

const (
    KindInvalid Kind = iota
    KindMap
    KindSeq
    KindScalar
)

// Value is one node of a decoded JSON/YAML document. Unlike a plain
// map[string]any, mapping nodes remember the order their keys appeared in
// the source bytes, so "first entry wins" rules and the order of endpoints
// and schemas stay stable across encodings.
type Value struct {
    kind    Kind
    entries []MapEntry
    index   map[string]*Value
    items   []*Value
    scalar  any // string, bool, int64, float64, or nil
}

// MapEntry is one key/value pair of a mapping node, in document order.
type MapEntry struct {
    Key   string
    Value *Value
}

func newMapValue(entries []MapEntry) *Value {
    v := &Value{kind: KindMap, index: make(map[string]*Value, len(entries))}
    for _, e := range entries {
        if _, seen := v.index[e.Key]; seen {
            // Duplicate key: the later value wins but the first position is
            // kept, matching how ordered dictionaries behave.
            for i := range v.entries {
                if v.entries[i].Key == e.Key {
                    v.entries[i].Value = e.Value
                    break
                }
            }
            v.index[e.Key] = e.Value
            continue
        }
        v.entries = append(v.entries, e)
        v.index[e.Key] = e.Value
    }
    return v
}

func newSeqValue(items []*Value) *Value {
    return &Value{kind: KindSeq, items: items}
}

func newScalarValue(s any) *Value {
    return &Value{kind: KindScalar, scalar: s}
}

// Kind reports the node's shape. A nil Value is KindInvalid.
func (v *Value) Kind() Kind {
    if v == nil {
        return KindInvalid
    }
    return v.kind
}

// IsNil reports whether the node is an explicit null scalar.
func (v *Value) IsNil() bool {
    return v != nil && v.kind == KindScalar && v.scalar == nil
}

// Entries returns the mapping entries in document order, or nil for
// non-mapping nodes.
func (v *Value) Entries() []MapEntry {
    if v == nil || v.kind != KindMap {
        return nil
    }
    return v.entries
}

// Items returns the sequence items, or nil for non-sequence nodes.
func (v *Value) Items() []*Value {
    if v == nil || v.kind != KindSeq {
        return nil
    }
    return v.items
}

// Key returns the value stored under name, or nil when the node is not a
// mapping or the key is absent.
func (v *Value) Key(name string) *Value {
    if v == nil || v.kind != KindMap {
        return nil
    }
    return v.index[name]
}

// Len returns the entry count for mappings and the item count for
// sequences.
func (v *Value) Len() int {
    switch v.Kind() {
    case KindMap:
        return len(v.entries)
    case KindSeq:
        return len(v.items)
    }
    return 0
}

// Bool returns the scalar as a bool when it is one.
func (v *Value) Bool() (bool, bool) {
    if v == nil || v.kind != KindScalar {
        return false, false
    }
    b, ok := v.scalar.(bool)
    return b, ok
}

// Interface converts the node back into plain Go values: map[string]any for
// mappings, []any for sequences, and the scalar itself otherwise. Mapping
// order is not carried over; callers use Interface for opaque payloads
// where order does not matter.
func (v *Value) Interface() any {
    if v == nil {
        return nil
    }
    switch v.kind {
    case KindMap:
        out := make(map[string]any, len(v.entries))
        for _, e := range v.entries {
            out[e.Key] = e.Value.Interface()
        }
        return out
    case KindSeq:
        out := make([]any, 0, len(v.items))
        for _, item := range v.items {
            out = append(out, item.Interface())
        }
        return out
    default:
        return v.scalar
    }
}

// scalarString renders a scalar node as a string. Numbers and booleans are
// formatted the way encoding/json would render them, so a YAML
// "version: 1.0" comes out as "1.0" rather than failing. Null scalars and
// non-scalar nodes report false.
func scalarString(v *Value) (string, bool) {
    if v == nil || v.kind != KindScalar || v.scalar == nil {
        return "", false
    }
    switch s := v.scalar.(type) {
    case string:
        return s, true
    case bool:
        return strconv.FormatBool(s), true
    case int64:
        return strconv.FormatInt(s, 10), true
    case float64:
        // Integral floats keep one decimal so "version: 1.0" stays "1.0".
        if s == float64(int64(s)) && s < 1e15 && s > -1e15 {
            return strconv.FormatFloat(s, 'f', 1, 64), true
        }
        return strconv.FormatFloat(s, 'g', -1, 64), true
    }
    return fmt.Sprintf("%v", v.scalar), true
}

// DecodeDocument parses raw bytes as JSON or YAML into a Value tree. JSON
// is attempted first unless preferYAML is set (the content type or file
// extension already indicated YAML). When both decoders fail, the returned
// error names both causes.
func DecodeDocument(raw []byte, preferYAML bool) (*Value, error) {
    if preferYAML {
        v, yerr := decodeYAMLValue(raw)
        if yerr == nil {
            return v, nil
        }
        v, jerr := decodeJSONValue(raw)
        if jerr == nil {
            return v, nil
        }
        return nil, fmt.Errorf("document is neither valid YAML nor JSON (yaml: %v; json: %v)", yerr, jerr)
    }
    v, jerr := decodeJSONValue(raw)
    if jerr == nil {
        return v, nil
    }
    v, yerr := decodeYAMLValue(raw)
    if yerr == nil {
        return v, nil
    }
    return nil, fmt.Errorf("document is neither valid JSON nor YAML (json: %v; yaml: %v)", jerr, yerr)
}

// decodeJSONValue walks the JSON token stream instead of unmarshalling into
// a map so object key order survives.
func decodeJSONValue(raw []byte) (*Value, error) {
    dec := json.NewDecoder(bytes.NewReader(raw))
    dec.UseNumber()
    v, err := parseJSONValue(dec)
    if err != nil {
        return nil, err
    }
    if dec.More() {
        return nil, fmt.Errorf("trailing data after top-level value")
    }
    return v, nil
}

func parseJSONValue(dec *json.Decoder) (*Value, error) {
    tok, err := dec.Token()
    if err != nil {
        return nil, err
    }
    return parseJSONToken(dec, tok)
}

func parseJSONToken(dec *json.Decoder, tok json.Token) (*Value, error) {
    switch t := tok.(type) {
    case json.Delim:
        switch t {
        case '{':
            var entries []MapEntry
            for dec.More() {
                keyTok, err := dec.Token()
                if err != nil {
                    return nil, err
                }
                key, ok := keyTok.(string)
                if !ok {
                    return nil, fmt.Errorf("object key is %T, want string", keyTok)
                }
                child, err := parseJSONValue(dec)
                if err != nil {
                    return nil, err
                }
                entries = append(entries, MapEntry{Key: key, Value: child})
            }
            if _, err := dec.Token(); err != nil { // consume '}'
                return nil, err
            }
            return newMapValue(entries), nil
        case '[':
            var items []*Value
            for dec.More() {
                child, err := parseJSONValue(dec)
                if err != nil {
                    return nil, err
                }
                items = append(items, child)
            }
            if _, err := dec.Token(); err != nil { // consume ']'
                return nil, err
            }
            return newSeqValue(items), nil
        }
        return nil, fmt.Errorf("unexpected delimiter %v", t)
    case string:
        return newScalarValue(t), nil
    case json.Number:
        // Keep integers integral so defaults and examples round-trip
        // without a float suffix.
        if i, err := t.Int64(); err == nil {
            return newScalarValue(i), nil
        }
        f, err := t.Float64()
        if err != nil {
            return nil, err
        }
        return newScalarValue(f), nil
    case bool:
        return newScalarValue(t), nil
    case nil:
        return newScalarValue(nil), nil
    }
    return nil, fmt.Errorf("unexpected token %v", tok)
}

// decodeYAMLValue goes through yaml.Node rather than map[string]any; the
// node tree is the only yaml.v3 representation that keeps mapping order.
func decodeYAMLValue(raw []byte) (*Value, error) {
    var root yaml.Node
    if err := yaml.Unmarshal(raw, &root); err != nil {
        return nil, err
    }
    return fromYAMLNode(&root)
}

func fromYAMLNode(n *yaml.Node) (*Value, error) {
    switch n.Kind {
    case yaml.DocumentNode:
        if len(n.Content) == 0 {
            return nil, fmt.Errorf("empty document")
        }
        return fromYAMLNode(n.Content[0])
    case yaml.AliasNode:
        if n.Alias == nil {
            return nil, fmt.Errorf("dangling alias at line %d", n.Line)
        }
        return fromYAMLNode(n.Alias)
    case yaml.MappingNode:
        entries := make([]MapEntry, 0, len(n.Content)/2)
        for i := 0; i+1 < len(n.Content); i += 2 {
            keyNode := n.Content[i]
            if keyNode.Kind == yaml.AliasNode && keyNode.Alias != nil {
                keyNode = keyNode.Alias
            }
            if keyNode.Kind != yaml.ScalarNode {
                return nil, fmt.Errorf("non-scalar mapping key at line %d", n.Content[i].Line)
            }
            child, err := fromYAMLNode(n.Content[i+1])
            if err != nil {
                return nil, err
            }
            entries = append(entries, MapEntry{Key: keyNode.Value, Value: child})
        }
        return newMapValue(entries), nil
    case yaml.SequenceNode:
        items := make([]*Value, 0, len(n.Content))
        for _, c := range n.Content {
            child, err := fromYAMLNode(c)
            if err != nil {
                return nil, err
            }
            items = append(items, child)
        }
        return newSeqValue(items), nil
    case yaml.ScalarNode:
        return newScalarValue(yamlScalar(n)), nil
    }
    if n.Kind == 0 {
        return nil, fmt.Errorf("empty document")
    }
    return nil, fmt.Errorf("unsupported YAML node kind %d at line %d", n.Kind, n.Line)
}

// yamlScalar resolves a scalar node to its typed Go value based on the
// resolved tag. Anything unrecognized stays a string.
func yamlScalar(n *yaml.Node) any {
    switch n.Tag {
    case "!!null":
        return nil
    case "!!bool":
        if b, err := strconv.ParseBool(n.Value); err == nil {
            return b
        }
    case "!!int":
        if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
            return i
        }
    case "!!float":
        if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
            return f
        }
    }
    return n.Value
}
