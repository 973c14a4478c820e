package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mark3labs/swagger-mcp/internal/catalog"
	"github.com/mark3labs/swagger-mcp/internal/spec"
)

// InspectConfig captures the inputs of a single inspect run. Inspect is a
// one-shot command, so it takes flags only and ignores the config file.
type InspectConfig struct {
	Input      string
	SourceType string
	Tag        string
	Method     string
	Search     string
	JSON       bool
	Validate   bool
	Timeout    time.Duration
	Verbose    bool
}

var inspectRunner = runInspect

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load a Swagger/OpenAPI document and print what it contains",
		Long: "Load a Swagger/OpenAPI document, normalize it, and print its endpoints " +
			"and schemas. Useful for checking what an MCP client would see before serving.",
		Example: strings.TrimSpace(`  swagger-mcp inspect --input https://petstore.swagger.io/v2/swagger.json
  swagger-mcp inspect --input ./openapi.yaml --tag pets
  swagger-mcp inspect --input ./openapi.yaml --search order --json`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveInspectConfig(cmd)
			if err != nil {
				return err
			}
			return inspectRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "URL or path of the Swagger/OpenAPI document")
	flags.String("source-type", "", "How to interpret --input (url|file|auto); defaults to auto")
	flags.String("tag", "", "Only list endpoints carrying this tag (exact match)")
	flags.String("method", "", "Only list endpoints using this HTTP method")
	flags.String("search", "", "Only list endpoints matching this text")
	flags.Bool("json", false, "Print the normalized document as JSON")
	flags.Bool("validate", false, "Validate the document against the OpenAPI schema")
	flags.Duration("timeout", 30*time.Second, "HTTP timeout for document retrieval")

	return cmd
}

func resolveInspectConfig(cmd *cobra.Command) (*InspectConfig, error) {
	flags := cmd.Flags()
	cfg := &InspectConfig{}

	var err error
	if cfg.Input, err = flags.GetString("input"); err != nil {
		return nil, err
	}
	if cfg.SourceType, err = flags.GetString("source-type"); err != nil {
		return nil, err
	}
	if cfg.Tag, err = flags.GetString("tag"); err != nil {
		return nil, err
	}
	if cfg.Method, err = flags.GetString("method"); err != nil {
		return nil, err
	}
	if cfg.Search, err = flags.GetString("search"); err != nil {
		return nil, err
	}
	if cfg.JSON, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.Validate, err = flags.GetBool("validate"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}

	cfg.Input = strings.TrimSpace(cfg.Input)
	cfg.SourceType = strings.ToLower(strings.TrimSpace(cfg.SourceType))
	cfg.Tag = strings.TrimSpace(cfg.Tag)
	cfg.Method = strings.TrimSpace(cfg.Method)
	cfg.Search = strings.TrimSpace(cfg.Search)

	if cfg.Input == "" {
		return nil, newUsageError("inspect: --input is required")
	}
	switch cfg.SourceType {
	case "", "auto", "url", "file":
		if cfg.SourceType == "" {
			cfg.SourceType = "auto"
		}
	default:
		return nil, newUsageError(fmt.Sprintf("inspect: unsupported --source-type %q (allowed: url, file, auto)", cfg.SourceType))
	}
	if cfg.Timeout < 0 {
		return nil, newUsageError("inspect: --timeout must be zero or positive")
	}

	return cfg, nil
}

func runInspect(ctx context.Context, cfg *InspectConfig) error {
	logger := setupLogger("info", "text", cfg.Verbose)

	opts := []spec.Option{spec.WithValidation(cfg.Validate)}
	if cfg.Timeout > 0 {
		opts = append(opts, spec.WithHTTPTimeout(cfg.Timeout))
	}

	doc, err := loadSource(ctx, cfg.Input, cfg.SourceType, opts)
	if err != nil {
		return specLoadError(err)
	}
	logger.Debug("document loaded", "source", cfg.Input, "apis", len(doc.APIs), "schemas", len(doc.Schemas))

	if cfg.JSON {
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	}

	cat := catalog.New()
	cat.Load(doc)

	endpoints := doc.APIs
	switch {
	case cfg.Search != "":
		endpoints = cat.Search(cfg.Search)
	case cfg.Tag != "":
		endpoints = cat.ByTag(cfg.Tag)
	}
	if cfg.Method != "" {
		filtered := make([]spec.Endpoint, 0, len(endpoints))
		for _, ep := range endpoints {
			if strings.EqualFold(ep.Method, cfg.Method) {
				filtered = append(filtered, ep)
			}
		}
		endpoints = filtered
	}

	printDocument(os.Stdout, doc, endpoints, cfg.Validate)
	return nil
}

func printDocument(w io.Writer, doc *spec.Document, endpoints []spec.Endpoint, validated bool) {
	fmt.Fprintf(w, "%s %s\n", doc.Info.Title, doc.Info.Version)
	if doc.Info.Description != "" {
		fmt.Fprintln(w, doc.Info.Description)
	}
	for _, srv := range doc.Servers {
		if url, ok := srv["url"].(string); ok {
			fmt.Fprintf(w, "Server: %s\n", url)
		}
	}
	if validated {
		fmt.Fprintln(w, "Validation passed.")
	}

	fmt.Fprintf(w, "\nEndpoints (%d):\n", len(endpoints))
	for _, ep := range endpoints {
		line := fmt.Sprintf("  %-7s %s", ep.Method, ep.Path)
		if ep.Summary != "" {
			line += "  " + ep.Summary
		}
		if ep.Deprecated {
			line += "  (deprecated)"
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "\nSchemas (%d):\n", len(doc.Schemas))
	for _, sc := range doc.Schemas {
		fmt.Fprintf(w, "  %s (%s, %d properties)\n", sc.Name, sc.Type, len(sc.Properties))
	}
}
