package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"octoscout/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity to Gmail, GitHub and OpenAI",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		ctx := context.Background()
		svcs, err := buildServices(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		out := cmd.OutOrStdout()
		failed := false

		gm := svcs.CheckMailStatus(ctx)
		detail := gm.Email
		if gm.MessagesTotal > 0 {
			detail = fmt.Sprintf("%s (%d messages)", gm.Email, gm.MessagesTotal)
		}
		failed = printStatus(out, "gmail", gm.State, detail, gm.Message) || failed

		gh := svcs.CheckRepoStatus(ctx)
		failed = printStatus(out, "github", gh.State, gh.Username, gh.Message) || failed

		oa := svcs.CheckPlannerStatus(ctx)
		failed = printStatus(out, "openai", oa.State, strings.Join(oa.Models, ", "), oa.Message) || failed

		if failed {
			os.Exit(1)
		}
	},
}

// printStatus writes one service line and reports whether the service is
// in an error state.
func printStatus(w io.Writer, name, state, detail, message string) bool {
	badge := color.GreenString("ok")
	bad := state != "connected"
	if bad {
		badge = color.RedString("error")
		detail = message
	}
	if detail != "" {
		fmt.Fprintf(w, "%-8s %s  %s\n", name, badge, detail)
	} else {
		fmt.Fprintf(w, "%-8s %s\n", name, badge)
	}
	return bad
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
