package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"octoscout/internal/config"
	"octoscout/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server over stdio",
	Long: `Run as a Model Context Protocol server over stdin/stdout.

Exposes a single tool, octoscout_query, that answers a natural-language
question about your inbox and repositories. Intended to be launched by an
MCP client (editor or chat app), not interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		svcs, err := buildServices(context.Background(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		srv := server.NewMCPServer(svcs.agent, buildVersion)
		if err := server.ServeMCPStdio(srv); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
