package main

import (
	"fmt"
	"os"

	"github.com/elC0mpa/ebs-reclaimer/cmd/mcp/tools"
	"github.com/elC0mpa/ebs-reclaimer/service/logging"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol
	output := cfg.Log.Output
	if output == "" || output == "stdout" {
		output = "stderr"
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: output})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"ebs-reclaimer-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	tools.RegisterAWSTools(s, cfg, tools.NewAWSBackend(cfg, logger))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
