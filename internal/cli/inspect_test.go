package cli

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "io"
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    "github.com/mark3labs/swagger-mcp/internal/spec"
)

const inspectSpecYAML = "" +
    "openapi: 3.0.0\n" +
    "info:\n" +
    "  title: Test API\n" +
    "  version: '1.0.0'\n" +
    "servers:\n" +
    "  - url: https://api.test.example\n" +
    "paths:\n" +
    "  /hello:\n" +
    "    get:\n" +
    "      summary: Hello\n" +
    "      tags: [greetings]\n" +
    "      responses:\n" +
    "        '200':\n" +
    "          description: ok\n" +
    "  /admin/reset:\n" +
    "    post:\n" +
    "      summary: Reset\n" +
    "      deprecated: true\n" +
    "      responses:\n" +
    "        '204':\n" +
    "          description: done\n" +
    "components:\n" +
    "  schemas:\n" +
    "    Greeting:\n" +
    "      type: object\n" +
    "      properties:\n" +
    "        message:\n" +
    "          type: string\n"

func captureStdout(fn func()) string {
    old := os.Stdout
    r, w, _ := os.Pipe()
    os.Stdout = w
    defer func() { os.Stdout = old }()
    fn()
    _ = w.Close()
    var buf bytes.Buffer
    _, _ = io.Copy(&buf, r)
    return buf.String()
}

func writeInspectSpec(t *testing.T) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "spec.yaml")
    if err := os.WriteFile(path, []byte(inspectSpecYAML), 0o600); err != nil {
        t.Fatalf("write spec: %v", err)
    }
    return path
}

func runInspectArgs(t *testing.T, args ...string) string {
    t.Helper()
    root := NewRootCmd()
    root.SetOut(io.Discard)
    root.SetErr(io.Discard)
    root.SetArgs(append([]string{"inspect"}, args...))

    return captureStdout(func() {
        if err := root.Execute(); err != nil {
            t.Fatalf("execute: %v", err)
        }
    })
}

func TestInspect_RequiresInput(t *testing.T) {
    t.Parallel()
    root := NewRootCmd()
    root.SetOut(io.Discard)
    root.SetErr(io.Discard)
    root.SetArgs([]string{"inspect"})

    err := root.Execute()
    if err == nil {
        t.Fatalf("expected error for missing --input")
    }
    if !errors.Is(err, ErrUsage) {
        t.Fatalf("expected usage error, got %v", err)
    }
    if !strings.Contains(err.Error(), "--input is required") {
        t.Fatalf("unexpected error text: %v", err)
    }
}

func TestInspect_RejectsBadSourceType(t *testing.T) {
    t.Parallel()
    root := NewRootCmd()
    root.SetOut(io.Discard)
    root.SetErr(io.Discard)
    root.SetArgs([]string{"inspect", "--input", "x.yaml", "--source-type", "ftp"})

    err := root.Execute()
    if err == nil {
        t.Fatalf("expected error for bad source type")
    }
    if !errors.Is(err, ErrUsage) {
        t.Fatalf("expected usage error, got %v", err)
    }
}

func TestInspect_ConfigFromFlags(t *testing.T) {
    root := NewRootCmd()
    root.SetOut(io.Discard)
    root.SetErr(io.Discard)

    var captured *InspectConfig
    inspectRunner = func(ctx context.Context, cfg *InspectConfig) error {
        captured = cfg
        return nil
    }
    t.Cleanup(func() { inspectRunner = runInspect })

    root.SetArgs([]string{
        "--verbose",
        "inspect",
        "--input", "x.yaml",
        "--source-type", "FILE",
        "--tag", "pets",
        "--method", "GET",
        "--search", "dogs",
        "--json",
        "--validate",
        "--timeout", "9s",
    })

    if err := root.Execute(); err != nil {
        t.Fatalf("execute: %v", err)
    }
    if captured == nil {
        t.Fatalf("expected config to be captured")
    }
    if captured.Input != "x.yaml" {
        t.Errorf("input mismatch: got %q", captured.Input)
    }
    if captured.SourceType != "file" {
        t.Errorf("source type: want file got %q", captured.SourceType)
    }
    if captured.Tag != "pets" {
        t.Errorf("tag mismatch: got %q", captured.Tag)
    }
    if captured.Method != "GET" {
        t.Errorf("method mismatch: got %q", captured.Method)
    }
    if captured.Search != "dogs" {
        t.Errorf("search mismatch: got %q", captured.Search)
    }
    if !captured.JSON {
        t.Errorf("expected json true")
    }
    if !captured.Validate {
        t.Errorf("expected validate true")
    }
    if captured.Timeout != 9*time.Second {
        t.Errorf("timeout: want 9s got %v", captured.Timeout)
    }
    if !captured.Verbose {
        t.Errorf("expected verbose true")
    }
}

func TestInspect_PrintsDocument(t *testing.T) {
    path := writeInspectSpec(t)

    out := runInspectArgs(t, "--input", path)

    for _, want := range []string{
        "Test API 1.0.0",
        "Server: https://api.test.example",
        "Endpoints (2):",
        "/hello",
        "Hello",
        "/admin/reset",
        "(deprecated)",
        "Schemas (1):",
        "Greeting (object, 1 properties)",
    } {
        if !strings.Contains(out, want) {
            t.Errorf("output missing %q:\n%s", want, out)
        }
    }
}

func TestInspect_TagFilter(t *testing.T) {
    path := writeInspectSpec(t)

    out := runInspectArgs(t, "--input", path, "--tag", "greetings")

    if !strings.Contains(out, "Endpoints (1):") {
        t.Fatalf("expected a single endpoint, got:\n%s", out)
    }
    if !strings.Contains(out, "/hello") || strings.Contains(out, "/admin/reset") {
        t.Fatalf("tag filter kept the wrong endpoints:\n%s", out)
    }
}

func TestInspect_SearchFilter(t *testing.T) {
    path := writeInspectSpec(t)

    out := runInspectArgs(t, "--input", path, "--search", "reset")

    if !strings.Contains(out, "Endpoints (1):") || !strings.Contains(out, "/admin/reset") {
        t.Fatalf("search filter failed:\n%s", out)
    }
}

func TestInspect_MethodFilter(t *testing.T) {
    path := writeInspectSpec(t)

    out := runInspectArgs(t, "--input", path, "--method", "post")

    if !strings.Contains(out, "Endpoints (1):") || !strings.Contains(out, "/admin/reset") {
        t.Fatalf("method filter failed:\n%s", out)
    }
    if strings.Contains(out, "/hello") {
        t.Fatalf("method filter kept GET endpoint:\n%s", out)
    }
}

func TestInspect_JSONOutput(t *testing.T) {
    path := writeInspectSpec(t)

    out := runInspectArgs(t, "--input", path, "--json")

    var doc spec.Document
    if err := json.Unmarshal([]byte(out), &doc); err != nil {
        t.Fatalf("output is not valid JSON: %v\n%s", err, out)
    }
    if doc.Info.Title != "Test API" {
        t.Errorf("title mismatch: got %q", doc.Info.Title)
    }
    if len(doc.APIs) != 2 {
        t.Errorf("expected 2 endpoints, got %d", len(doc.APIs))
    }
    if len(doc.Schemas) != 1 || doc.Schemas[0].Name != "Greeting" {
        t.Errorf("unexpected schemas: %+v", doc.Schemas)
    }
}
