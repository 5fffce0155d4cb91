// ABOUTME: MCP server command for newsdesk CLI
// ABOUTME: Starts stdio-based MCP server for AI agent integration

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agents",
	Long: `Start the Model Context Protocol (MCP) server on stdio.

This allows AI agents like Claude to search the news, page through results,
and manage your saved articles through structured tools.

The server communicates via JSON-RPC on stdin/stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.Session.IsLoggedIn() {
			app.Session.LoadName(cmd.Context())
		}

		server := mcp.NewServer(mcp.Deps{
			Search:  app.Search,
			Saved:   app.Saved,
			Session: app.Session,
			Logger:  logger.Named("mcp"),
			Version: Version,
		})
		defer server.Close()

		if err := server.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
