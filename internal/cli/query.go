package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"octoscout/internal/agent"
	"octoscout/internal/config"
)

var queryCmd = &cobra.Command{
	Use:   "query \"<question>\"",
	Short: "Run a single query and print the answer",
	Long: `Run a single natural-language query against your Gmail inbox and GitHub
repositories and print the generated answer.

The agent plans the lookups with an LLM, executes them, and narrates the
result. Progress is written to stderr; the final answer goes to stdout.

Environment:
  OPENAI_API_KEY        OpenAI API key (required)
  OPENAI_MODEL          Chat model (default: o3-mini)
  GMAIL_CLIENT_ID       Gmail OAuth client ID (required)
  GMAIL_CLIENT_SECRET   Gmail OAuth client secret (required)
  GMAIL_REFRESH_TOKEN   Gmail OAuth refresh token (required)
  GMAIL_USER_EMAIL      Mailbox to operate on (required)
  GITHUB_ACCESS_TOKEN   GitHub token (falls back to GITHUB_TOKEN, then gh CLI)
  GITHUB_USERNAME       Account used for "my repositories" searches

Examples:
  octoscout query "check my repos mentioned in recent GitHub emails for security alerts"
  octoscout query "what open issues does acme/widgets have?"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			fmt.Fprintln(os.Stderr, "Error: empty query")
			os.Exit(2)
		}

		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		ctx := context.Background()
		svcs, err := buildServices(ctx, cfg, agent.WithTrace(agent.NewConsoleTrace(os.Stderr)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		result, err := svcs.agent.ProcessQuery(ctx, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing query: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Response)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
