package spec

import (
    "strings"
    "testing"
)

func mustDecode(t *testing.T, raw string, preferYAML bool) *Value {
    t.Helper()
    v, err := DecodeDocument([]byte(raw), preferYAML)
    if err != nil {
        t.Fatalf("decode: %v", err)
    }
    return v
}

func entryKeys(v *Value) []string {
    keys := make([]string, 0, v.Len())
    for _, e := range v.Entries() {
        keys = append(keys, e.Key)
    }
    return keys
}

func TestDecodeDocument_JSONKeepsKeyOrder(t *testing.T) {
    t.Parallel()
    v := mustDecode(t, `{"zebra":1,"apple":2,"mango":{"beta":true,"alpha":null}}`, false)

    if v.Kind() != KindMap {
        t.Fatalf("kind: got %v", v.Kind())
    }
    if got := entryKeys(v); !equalStrings(got, []string{"zebra", "apple", "mango"}) {
        t.Fatalf("order: got %v", got)
    }
    if got := entryKeys(v.Key("mango")); !equalStrings(got, []string{"beta", "alpha"}) {
        t.Fatalf("nested order: got %v", got)
    }
    if !v.Key("mango").Key("alpha").IsNil() {
        t.Errorf("alpha: expected explicit null")
    }
}

func TestDecodeDocument_JSONNumbers(t *testing.T) {
    t.Parallel()
    v := mustDecode(t, `{"count": 42, "ratio": 0.5}`, false)

    if got := v.Key("count").Interface(); got != int64(42) {
        t.Errorf("count: got %v (%T)", got, got)
    }
    if got := v.Key("ratio").Interface(); got != 0.5 {
        t.Errorf("ratio: got %v (%T)", got, got)
    }
}

func TestDecodeDocument_JSONDuplicateKeys(t *testing.T) {
    t.Parallel()
    // Later value wins but the key keeps its first position.
    v := mustDecode(t, `{"a":1,"b":2,"a":3}`, false)

    if got := entryKeys(v); !equalStrings(got, []string{"a", "b"}) {
        t.Fatalf("order: got %v", got)
    }
    if got := v.Key("a").Interface(); got != int64(3) {
        t.Errorf("a: got %v", got)
    }
}

func TestDecodeDocument_JSONTrailingData(t *testing.T) {
    t.Parallel()
    _, err := DecodeDocument([]byte(`{"a":1} {"b":2}`), false)
    if err == nil {
        t.Fatalf("expected error for trailing data")
    }
}

func TestDecodeDocument_YAMLKeepsKeyOrder(t *testing.T) {
    t.Parallel()
    v := mustDecode(t, strings.TrimSpace(`
paths:
  /pets:
    get: {}
  /admin:
    get: {}
info:
  title: t
`), true)

    if got := entryKeys(v); !equalStrings(got, []string{"paths", "info"}) {
        t.Fatalf("order: got %v", got)
    }
    if got := entryKeys(v.Key("paths")); !equalStrings(got, []string{"/pets", "/admin"}) {
        t.Fatalf("paths order: got %v", got)
    }
}

func TestDecodeDocument_YAMLScalars(t *testing.T) {
    t.Parallel()
    v := mustDecode(t, strings.TrimSpace(`
flag: true
count: 7
ratio: 1.5
version: "2.0"
nothing: null
`), true)

    if b, ok := v.Key("flag").Bool(); !ok || !b {
        t.Errorf("flag: got %v %v", b, ok)
    }
    if got := v.Key("count").Interface(); got != int64(7) {
        t.Errorf("count: got %v (%T)", got, got)
    }
    if got := v.Key("ratio").Interface(); got != 1.5 {
        t.Errorf("ratio: got %v (%T)", got, got)
    }
    if s, ok := scalarString(v.Key("version")); !ok || s != "2.0" {
        t.Errorf("version: got %q %v", s, ok)
    }
    if !v.Key("nothing").IsNil() {
        t.Errorf("nothing: expected null scalar")
    }
}

func TestDecodeDocument_YAMLAliases(t *testing.T) {
    t.Parallel()
    v := mustDecode(t, strings.TrimSpace(`
base: &b
  type: string
field: *b
`), true)

    if got, ok := scalarString(v.Key("field").Key("type")); !ok || got != "string" {
        t.Fatalf("alias: got %q %v", got, ok)
    }
}

func TestDecodeDocument_JSONFirstFallsBackToYAML(t *testing.T) {
    t.Parallel()
    // Not valid JSON, so the decoder retries as YAML.
    v := mustDecode(t, "title: hello\n", false)
    if s, ok := scalarString(v.Key("title")); !ok || s != "hello" {
        t.Fatalf("fallback: got %q %v", s, ok)
    }
}

func TestDecodeDocument_BothDecodersFail(t *testing.T) {
    t.Parallel()
    _, err := DecodeDocument([]byte("{\n\tbroken: [\n"), false)
    if err == nil {
        t.Fatalf("expected decode error")
    }
    msg := err.Error()
    if !strings.Contains(msg, "json") || !strings.Contains(msg, "yaml") {
        t.Fatalf("expected both causes in error, got %q", msg)
    }
}

func TestValue_Interface(t *testing.T) {
    t.Parallel()
    v := mustDecode(t, `{"obj":{"a":[1,"two",false]}}`, false)

    got, ok := v.Key("obj").Interface().(map[string]any)
    if !ok {
        t.Fatalf("interface: got %T", v.Key("obj").Interface())
    }
    items, ok := got["a"].([]any)
    if !ok || len(items) != 3 {
        t.Fatalf("a: got %v", got["a"])
    }
    if items[0] != int64(1) || items[1] != "two" || items[2] != false {
        t.Fatalf("items: got %v", items)
    }
}

func TestValue_NilSafety(t *testing.T) {
    t.Parallel()
    var v *Value
    if v.Kind() != KindInvalid {
        t.Errorf("kind: got %v", v.Kind())
    }
    if v.Key("x") != nil {
        t.Errorf("key: expected nil")
    }
    if v.Len() != 0 {
        t.Errorf("len: got %d", v.Len())
    }
    if _, ok := scalarString(v); ok {
        t.Errorf("scalarString: expected not ok")
    }
}

func equalStrings(a, b []string) bool {
    if len(a) != len(b) {
        return false
    }
    for i := range a {
        if a[i] != b[i] {
            return false
        }
    }
    return true
}
