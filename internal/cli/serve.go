package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swagger-mcp/internal/catalog"
	mcpserver "github.com/mark3labs/swagger-mcp/internal/mcp"
	"github.com/mark3labs/swagger-mcp/internal/mcp/methods"
	"github.com/mark3labs/swagger-mcp/internal/spec"
)

// ServeConfig captures all inputs that influence the serve command after
// merging defaults, config file values, and CLI overrides.
type ServeConfig struct {
	Source     string
	SourceType string
	Transport  string
	Addr       string
	Timeout    time.Duration
	Retries    int
	Validate   bool
	LogLevel   string
	LogFormat  string
	ConfigPath string
	Verbose    bool
}

func defaultServeConfig() ServeConfig {
	return ServeConfig{
		SourceType: "auto",
		Transport:  "stdio",
		Addr:       ":8080",
		Timeout:    30 * time.Second,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

var serveRunner = runServe

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve Swagger/OpenAPI query tools over MCP",
		Long: "Serve Swagger/OpenAPI query tools over the Model Context Protocol. " +
			"A document can be preloaded via --source, a config file, or the SWAGGER_URI " +
			"environment variable; clients can also load one later with the load_swagger tool.",
		Example: strings.TrimSpace(`  swagger-mcp serve --source https://petstore.swagger.io/v2/swagger.json
  swagger-mcp serve --source ./openapi.yaml --transport sse --addr :8080
  swagger-mcp --config config.yaml serve`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveServeConfig(cmd)
			if err != nil {
				return err
			}
			return serveRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("source", "", "URL or path of a Swagger/OpenAPI document to preload")
	flags.String("source-type", "", "How to interpret --source (url|file|auto); defaults to auto")
	flags.String("transport", "", "MCP transport (stdio|sse); defaults to stdio")
	flags.String("addr", "", "Listen address for the sse transport; defaults to :8080")
	flags.Duration("timeout", 0, "HTTP timeout for document retrieval; defaults to 30s")
	flags.Int("retries", 0, "Extra retry attempts for transient retrieval failures; defaults to 0")
	flags.Bool("validate", false, "Validate documents against the OpenAPI schema before serving")
	flags.String("log-level", "", "Log level (debug|info|warn|error); defaults to info")
	flags.String("log-format", "", "Log format (text|json); defaults to text")

	return cmd
}

func resolveServeConfig(cmd *cobra.Command) (*ServeConfig, error) {
	cfg := defaultServeConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyServeConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyServeFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyServeFlagOverrides(flags *pflag.FlagSet, cfg *ServeConfig) error {
	if flags.Changed("source") {
		value, err := flags.GetString("source")
		if err != nil {
			return err
		}
		cfg.Source = strings.TrimSpace(value)
	}
	if flags.Changed("source-type") {
		value, err := flags.GetString("source-type")
		if err != nil {
			return err
		}
		cfg.SourceType = strings.TrimSpace(value)
	}
	if flags.Changed("transport") {
		value, err := flags.GetString("transport")
		if err != nil {
			return err
		}
		cfg.Transport = strings.TrimSpace(value)
	}
	if flags.Changed("addr") {
		value, err := flags.GetString("addr")
		if err != nil {
			return err
		}
		cfg.Addr = strings.TrimSpace(value)
	}
	if flags.Changed("timeout") {
		value, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = value
	}
	if flags.Changed("retries") {
		value, err := flags.GetInt("retries")
		if err != nil {
			return err
		}
		cfg.Retries = value
	}
	if flags.Changed("validate") {
		value, err := flags.GetBool("validate")
		if err != nil {
			return err
		}
		cfg.Validate = value
	}
	if flags.Changed("log-level") {
		value, err := flags.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = strings.TrimSpace(value)
	}
	if flags.Changed("log-format") {
		value, err := flags.GetString("log-format")
		if err != nil {
			return err
		}
		cfg.LogFormat = strings.TrimSpace(value)
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}

	return nil
}

func (c *ServeConfig) normalize() {
	c.Source = strings.TrimSpace(c.Source)
	c.SourceType = strings.ToLower(strings.TrimSpace(c.SourceType))
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	c.Addr = strings.TrimSpace(c.Addr)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

func (c *ServeConfig) validate() error {
	switch c.SourceType {
	case "", "auto", "url", "file":
		if c.SourceType == "" {
			c.SourceType = "auto"
		}
	default:
		return newUsageError(fmt.Sprintf("serve: unsupported --source-type %q (allowed: url, file, auto)", c.SourceType))
	}

	switch c.Transport {
	case "", "stdio", "sse":
		if c.Transport == "" {
			c.Transport = "stdio"
		}
	default:
		return newUsageError(fmt.Sprintf("serve: unsupported --transport %q (allowed: stdio, sse)", c.Transport))
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
		if c.LogLevel == "" {
			c.LogLevel = "info"
		}
	default:
		return newUsageError(fmt.Sprintf("serve: unsupported --log-level %q (allowed: debug, info, warn, error)", c.LogLevel))
	}

	switch c.LogFormat {
	case "", "text", "json":
		if c.LogFormat == "" {
			c.LogFormat = "text"
		}
	default:
		return newUsageError(fmt.Sprintf("serve: unsupported --log-format %q (allowed: text, json)", c.LogFormat))
	}

	if c.Transport == "sse" && c.Addr == "" {
		return newUsageError("serve: --addr is required with --transport sse")
	}
	if c.Timeout < 0 {
		return newUsageError("serve: --timeout must be zero or positive")
	}
	if c.Retries < 0 {
		return newUsageError("serve: --retries must be zero or positive")
	}

	return nil
}

func runServe(ctx context.Context, cfg *ServeConfig) error {
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat, cfg.Verbose)

	loadOpts := []spec.Option{
		spec.WithHTTPTimeout(cfg.Timeout),
		spec.WithMaxRetries(cfg.Retries + 1),
		spec.WithValidation(cfg.Validate),
	}
	cat := catalog.New()

	// An explicit source must load or the command fails; a source picked up
	// from the environment only logs a warning, so the server still comes up
	// and a client can load a document later.
	source := cfg.Source
	fromEnv := false
	if source == "" {
		source = strings.TrimSpace(os.Getenv("SWAGGER_URI"))
		fromEnv = source != ""
	}
	if source != "" {
		doc, err := loadSource(ctx, source, cfg.SourceType, loadOpts)
		if err != nil {
			if !fromEnv {
				return specLoadError(err)
			}
			logger.Warn("failed to preload document from SWAGGER_URI", "source", source, "error", err)
		} else {
			cat.Load(doc)
			logger.Info("document loaded",
				"source", source,
				"title", doc.Info.Title,
				"apis", len(doc.APIs),
				"schemas", len(doc.Schemas))
		}
	}

	srv := mcpserver.NewServer(methods.NewRegistry(cat, loadOpts...))

	if cfg.Transport == "sse" {
		logger.Info("serving MCP over SSE", "addr", cfg.Addr)
		return mcpserver.ServeSSE(srv, cfg.Addr)
	}
	logger.Info("serving MCP over stdio")
	return mcpserver.ServeStdio(srv)
}

// loadSource dispatches on the configured source type; "auto" lets the
// loader classify URL versus path itself.
func loadSource(ctx context.Context, source, sourceType string, opts []spec.Option) (*spec.Document, error) {
	switch sourceType {
	case "url":
		return spec.LoadURL(ctx, source, opts...)
	case "file":
		return spec.LoadFile(ctx, source, opts...)
	default:
		return spec.Load(ctx, source, opts...)
	}
}

func specLoadError(err error) error {
	// Map structured spec errors into friendly messages.
	var se *spec.SpecError
	if errors.As(err, &se) {
		msg := fmt.Sprintf("spec: %s", se.Message)
		if se.Location != "" {
			msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
		}
		if se.JSONPointer != "" {
			msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
		}
		return newUsageError(msg)
	}
	return err
}

func applyServeConfigFromFile(cfg *ServeConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		normalized := normalizeKey(key)
		switch normalized {
		case "source":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Source = str
		case "sourcetype":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.SourceType = str
		case "transport":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Transport = str
		case "addr":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Addr = str
		case "timeout":
			d, err := valueAsDuration(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Timeout = d
		case "retries":
			n, err := valueAsInt(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Retries = n
		case "validate":
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Validate = val
		case "loglevel":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.LogLevel = str
		case "logformat":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.LogFormat = str
		case "verbose":
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Verbose = val
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func valueAsInt(v any) (int, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value %q", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

// valueAsDuration accepts Go duration strings and bare numbers, which are
// read as seconds.
func valueAsDuration(v any) (time.Duration, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, nil
		}
		if n, err := strconv.Atoi(trimmed); err == nil {
			return time.Duration(n) * time.Second, nil
		}
		d, err := time.ParseDuration(trimmed)
		if err != nil {
			return 0, fmt.Errorf("invalid duration value %q", val)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("expected duration, got %T", v)
	}
}
