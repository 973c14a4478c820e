package spec

import (
    "context"
    "errors"
    "fmt"
    "regexp"
    "strings"

    openapi2 "github.com/getkin/kin-openapi/openapi2"
    "github.com/getkin/kin-openapi/openapi2conv"
    "github.com/getkin/kin-openapi/openapi3"
    "gopkg.in/yaml.v3"
)

// Validate checks raw document bytes against the structural rules of the
// declared dialect. Swagger v2 input is preprocessed and converted to v3 so
// both dialects share one validator. Validation is advisory: normalization
// does not depend on it, and callers opt in via WithValidation.
func Validate(ctx context.Context, raw []byte) error {
    version, err := detectSpecVersion(raw)
    if err != nil {
        return &SpecError{Code: ValidationError, Message: err.Error(), Cause: err}
    }

    var doc *openapi3.T
    switch version {
    case 3:
        loader := openapi3.NewLoader()
        d, lerr := loader.LoadFromData(raw)
        if lerr != nil {
            return mapValidationErr(lerr)
        }
        doc = d
    case 2:
        if fixed, changed, _ := preprocessV2ForCompatibility(raw); changed {
            raw = fixed
        }
        d, cerr := convertV2ToV3(raw)
        if cerr != nil {
            return &SpecError{Code: ValidationError, Message: fmt.Sprintf("convert v2 to v3: %v", cerr), Cause: cerr}
        }
        doc = d
    }

    if err := doc.Validate(ctx); err != nil {
        if canProceedDespiteValidation(err) {
            return nil
        }
        return mapValidationErr(err)
    }
    return nil
}

// detectSpecVersion returns 3 for OpenAPI v3, 2 for Swagger v2, else error.
func detectSpecVersion(data []byte) (int, error) {
    var root map[string]any
    if err := yaml.Unmarshal(data, &root); err != nil {
        return 0, fmt.Errorf("parse spec: %w", err)
    }
    // Check OpenAPI v3 key
    if v, ok := root["openapi"]; ok {
        if s, _ := v.(string); strings.HasPrefix(strings.TrimSpace(s), "3.") {
            return 3, nil
        }
    }
    // Check Swagger v2 key
    if v, ok := root["swagger"]; ok {
        if s, _ := v.(string); strings.HasPrefix(strings.TrimSpace(s), "2.") {
            return 2, nil
        }
    }
    return 0, fmt.Errorf("spec: missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")
}

func convertV2ToV3(data []byte) (*openapi3.T, error) {
    // For kin-openapi v0.116.0, convert by unmarshalling to v2 then calling ToV3.
    var v2 openapi2.T
    if err := yaml.Unmarshal(data, &v2); err != nil {
        return nil, err
    }
    return openapi2conv.ToV3(&v2)
}

func mapValidationErr(err error) error {
    return &SpecError{Code: ValidationError, Message: err.Error(), JSONPointer: extractJSONPointer(err), Cause: err}
}

var jsonPtrRe = regexp.MustCompile(`#/[^\s'\"]+`)

func extractJSONPointer(err error) string {
    if err == nil {
        return ""
    }
    // Unwrap MultiError and take the first for brevity.
    if me, ok := err.(openapi3.MultiError); ok {
        if len(me) > 0 {
            return extractJSONPointer(me[0])
        }
    }
    var se *openapi3.SchemaError
    if errors.As(err, &se) {
        // v0.116 uses JSONPointer() []string
        if parts := se.JSONPointer(); len(parts) > 0 {
            // Build a JSON pointer path
            return "#/" + strings.Join(parts, "/")
        }
        if se.SchemaField != "" {
            return se.SchemaField
        }
    }
    // Fallback: parse from error message if a pointer literal appears.
    msg := err.Error()
    if m := jsonPtrRe.FindString(msg); m != "" {
        return m
    }
    return ""
}

// canProceedDespiteValidation returns true for validation errors that do not
// block a best-effort build (e.g., unresolved $ref entries).
func canProceedDespiteValidation(err error) bool {
    if err == nil {
        return true
    }
    s := strings.ToLower(err.Error())
    return strings.Contains(s, "unresolved ref") || strings.Contains(s, "found unresolved ref")
}
