package spec

import (
    "context"
    "errors"
    "strings"
    "testing"
)

func TestValidate_V3Valid(t *testing.T) {
    t.Parallel()
    raw := []byte(strings.TrimSpace(`
openapi: 3.0.0
info:
  title: Valid
  version: "1.0.0"
paths:
  /ok:
    get:
      responses:
        "200":
          description: ok
`))
    if err := Validate(context.Background(), raw); err != nil {
        t.Fatalf("validate: %v", err)
    }
}

func TestValidate_V3EmptyResponses(t *testing.T) {
    t.Parallel()
    raw := []byte(strings.TrimSpace(`
openapi: 3.0.0
info:
  title: Invalid
  version: "1.0.0"
paths:
  /bad:
    get:
      responses: {}
`))
    err := Validate(context.Background(), raw)
    if err == nil {
        t.Fatalf("expected validation error")
    }
    var se *SpecError
    if !errors.As(err, &se) || se.Code != ValidationError {
        t.Fatalf("expected ValidationError, got %v (%T)", err, err)
    }
}

func TestValidate_V2Converted(t *testing.T) {
    t.Parallel()
    raw := []byte(strings.TrimSpace(`
swagger: "2.0"
info:
  title: Legacy
  version: "1.0.0"
paths:
  /hello:
    get:
      responses:
        "200":
          description: ok
`))
    if err := Validate(context.Background(), raw); err != nil {
        t.Fatalf("validate: %v", err)
    }
}

func TestValidate_UnknownVersion(t *testing.T) {
    t.Parallel()
    err := Validate(context.Background(), []byte("info:\n  title: nothing\n"))
    var se *SpecError
    if !errors.As(err, &se) || se.Code != ValidationError {
        t.Fatalf("expected ValidationError, got %v (%T)", err, err)
    }
}

func TestDetectSpecVersion(t *testing.T) {
    t.Parallel()
    if v, err := detectSpecVersion([]byte(`openapi: "3.1.0"`)); err != nil || v != 3 {
        t.Errorf("v3: got %d %v", v, err)
    }
    if v, err := detectSpecVersion([]byte(`swagger: "2.0"`)); err != nil || v != 2 {
        t.Errorf("v2: got %d %v", v, err)
    }
    if _, err := detectSpecVersion([]byte(`swagger: "1.2"`)); err == nil {
        t.Errorf("v1: expected error")
    }
}

func TestExtractJSONPointer_FromMessage(t *testing.T) {
    t.Parallel()
    err := errors.New(`invalid schema at #/paths/~1pets/get`)
    if got := extractJSONPointer(err); got != "#/paths/~1pets/get" {
        t.Errorf("pointer: got %q", got)
    }
    if got := extractJSONPointer(errors.New("no pointer here")); got != "" {
        t.Errorf("pointer: got %q", got)
    }
}
