// Package main implements the entry point for swagger-mcp, a server that
// loads Swagger/OpenAPI documents and exposes query tools for them over the
// Model Context Protocol.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mark3labs/swagger-mcp/internal/cli"
)

func main() {
	// A missing .env file is not an error; environment variables win.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
