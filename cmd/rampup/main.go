// rampup: Employee Onboarding MCP Server
//
// An MCP server that walks new employees through their company's
// onboarding steps, tracking progress durably per employee and serving
// step content authored as markdown or markup documents.
//
// Usage:
//
//	rampup serve     # Start MCP server (stdio transport)
//	rampup version   # Print version
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/acortes/rampup/internal/config"
	rampupserver "github.com/acortes/rampup/internal/server"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("rampup v%s\n", rampupserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	// Best-effort .env load — a missing file is fine, settings then come
	// from the real environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	s, cleanup, err := rampupserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Logs go to stderr; stdout belongs to the MCP stdio transport.
	log.SetOutput(os.Stderr)

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `rampup v%s — Employee Onboarding MCP Server

Usage:
  rampup serve     Start the MCP server (stdio transport)
  rampup version   Print version

Environment:
  RAMPUP_DATA_DIR    Profile database directory (default: ~/.rampup)
  RAMPUP_STEPS_DIR   Step documents directory (default: ./onboarding-steps)
  RAMPUP_EMAIL       Default employee email for tool calls

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "rampup": {
        "command": "rampup",
        "args": ["serve"]
      }
    }
  }
`, rampupserver.Version)
}
