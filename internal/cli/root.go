package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"octoscout/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "octoscout",
	Short: "Answer questions about your inbox and GitHub repositories",
	Long: `Octoscout is an agent that answers natural-language questions by combining
Gmail and GitHub. It plans the required lookups with an LLM, runs them, and
narrates the collected data back as an answer.

Examples:
	# Ask a one-off question
	octoscout query "check my repos mentioned in recent GitHub emails for security alerts"

	# Run the HTTP API
	octoscout serve --addr :8000

	# Run as an MCP server over stdio
	octoscout mcp

	# Check connectivity to Gmail, GitHub and OpenAI
	octoscout status

Configuration:
	Credentials are read from the environment (a .env file in the working
	directory is honored). See 'octoscout query --help' for the variable list.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every GitHub API call and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
