package spec

import (
    "context"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "os"
    "path/filepath"
    "strings"
    "time"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
    InputError         ErrorCode = "InputError"
    RetrievalError     ErrorCode = "RetrievalError"
    DecodeError        ErrorCode = "DecodeError"
    NormalizationError ErrorCode = "NormalizationError"
    ValidationError    ErrorCode = "ValidationError"
)

// SpecError is a structured error with optional location and JSON Pointer.
type SpecError struct {
    Code        ErrorCode
    Message     string
    Location    string // file path or URL
    JSONPointer string // e.g. "#/paths/~1pets/get"
    Cause       error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
    // HTTPTimeout bounds each HTTP request.
    HTTPTimeout time.Duration
    // MaxRetries bounds total fetch attempts for transient HTTP failures
    // (>=500, 429, or network errors). 1 means a single attempt.
    MaxRetries int
    // BackoffBase is the base delay for exponential backoff.
    BackoffBase time.Duration
    // Validate runs the document through the structural validator before
    // normalization.
    Validate bool
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
    return Settings{
        HTTPTimeout: 30 * time.Second,
        MaxRetries:  1,
        BackoffBase: 200 * time.Millisecond,
    }
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option            { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }
func WithValidation(on bool) Option          { return func(s *Settings) { s.Validate = on } }

func settingsFrom(opts []Option) Settings {
    settings := DefaultSettings()
    for _, opt := range opts {
        opt(&settings)
    }
    return settings
}

// Load reads a Swagger/OpenAPI document and normalizes it into a Document.
// input may be a filesystem path or an http/https URL; anything with a
// recognizable URL scheme other than http/https is rejected, everything
// else is treated as a path.
func Load(ctx context.Context, input string, opts ...Option) (*Document, error) {
    if strings.TrimSpace(input) == "" {
        return nil, &SpecError{Code: InputError, Message: "spec: input is empty"}
    }

    u, uerr := url.Parse(input)
    if uerr == nil && u.Scheme != "" {
        switch strings.ToLower(u.Scheme) {
        case "http", "https":
            return LoadURL(ctx, input, opts...)
        case "file":
            return nil, &SpecError{Code: InputError, Message: "spec: file:// URLs are not supported, pass a plain path", Location: input}
        default:
            if u.Host != "" {
                return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("spec: unsupported URL scheme %q (only http/https allowed)", u.Scheme), Location: input}
            }
            // Windows drive letters and other scheme-looking paths fall
            // through to the filesystem.
        }
    }
    return LoadFile(ctx, input, opts...)
}

// LoadURL fetches a document over HTTP(S) and normalizes it. The response
// Content-Type and the URL path extension decide whether YAML is tried
// before JSON.
func LoadURL(ctx context.Context, rawURL string, opts ...Option) (*Document, error) {
    settings := settingsFrom(opts)

    u, err := url.Parse(rawURL)
    if err != nil {
        return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("spec: invalid URL: %v", err), Location: rawURL, Cause: err}
    }
    scheme := strings.ToLower(u.Scheme)
    if scheme != "http" && scheme != "https" {
        return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("spec: unsupported URL scheme %q (only http/https allowed)", u.Scheme), Location: rawURL}
    }

    raw, contentType, fetchErr := fetchWithRetry(ctx, rawURL, settings)
    if fetchErr != nil {
        return nil, &SpecError{Code: RetrievalError, Message: fmt.Sprintf("fetch %s: %v", rawURL, fetchErr), Location: rawURL, Cause: fetchErr}
    }

    preferYAML := yamlContentType(contentType) || yamlExtension(u.Path)
    return build(ctx, raw, preferYAML, rawURL, settings)
}

// LoadFile reads a document from the filesystem and normalizes it.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Document, error) {
    settings := settingsFrom(opts)

    abs, err := filepath.Abs(path)
    if err != nil {
        return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: path, Cause: err}
    }
    raw, rerr := os.ReadFile(abs)
    if rerr != nil {
        return nil, &SpecError{Code: RetrievalError, Message: fmt.Sprintf("read file %s: %v", abs, rerr), Location: abs, Cause: rerr}
    }
    return build(ctx, raw, yamlExtension(abs), abs, settings)
}

// build decodes, optionally validates, and normalizes raw document bytes.
func build(ctx context.Context, raw []byte, preferYAML bool, location string, settings Settings) (*Document, error) {
    root, err := DecodeDocument(raw, preferYAML)
    if err != nil {
        return nil, &SpecError{Code: DecodeError, Message: fmt.Sprintf("decode %s: %v", location, err), Location: location, Cause: err}
    }

    if settings.Validate {
        if err := Validate(ctx, raw); err != nil {
            var se *SpecError
            if errors.As(err, &se) && se.Location == "" {
                se.Location = location
            }
            return nil, err
        }
    }

    doc, err := Normalize(root)
    if err != nil {
        var se *SpecError
        if errors.As(err, &se) && se.Location == "" {
            se.Location = location
        }
        return nil, err
    }
    return doc, nil
}

func yamlContentType(contentType string) bool {
    return strings.Contains(strings.ToLower(contentType), "yaml")
}

func yamlExtension(path string) bool {
    switch strings.ToLower(filepath.Ext(path)) {
    case ".yaml", ".yml":
        return true
    }
    return false
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, string, error) {
    client := &http.Client{Timeout: settings.HTTPTimeout}
    var lastErr error
    backoff := settings.BackoffBase
    if backoff <= 0 {
        backoff = 200 * time.Millisecond
    }
    attempts := settings.MaxRetries
    if attempts <= 0 {
        attempts = 1
    }
    for i := 0; i < attempts; i++ {
        req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
        if err != nil {
            return nil, "", err
        }
        req.Header.Set("Accept", "application/json, application/yaml, text/yaml, */*")
        resp, err := client.Do(req)
        if err == nil && resp != nil && resp.StatusCode < 300 {
            defer resp.Body.Close()
            body, rerr := io.ReadAll(resp.Body)
            if rerr != nil {
                return nil, "", rerr
            }
            return body, resp.Header.Get("Content-Type"), nil
        }
        if err != nil {
            lastErr = err
        } else {
            // HTTP error
            defer resp.Body.Close()
            if resp.StatusCode >= 500 || resp.StatusCode == 429 {
                lastErr = fmt.Errorf("transient http error %d", resp.StatusCode)
            } else {
                body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
                return nil, "", fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
            }
        }
        // Backoff before next attempt
        select {
        case <-ctx.Done():
            return nil, "", ctx.Err()
        case <-time.After(backoff):
        }
        backoff *= 2
    }
    if lastErr == nil {
        lastErr = errors.New("fetch failed")
    }
    return nil, "", lastErr
}
