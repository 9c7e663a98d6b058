package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"octoscout/internal/config"
	"octoscout/internal/flags"
	"octoscout/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

Endpoints:
  POST /api/query            {"query": "..."} -> answer, actions taken, collected data
  GET  /api/services/status  Connectivity of Gmail, GitHub and OpenAI
  GET  /health               Liveness probe

The listen address comes from --addr, falling back to OCTOSCOUT_ADDR
(default :8000).`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		if cmd.Flags().Changed(flags.FlagAddr) {
			cfg.Server.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svcs, err := buildServices(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		srv, err := server.New(svcs.agent, svcs, buildVersion)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, flags.FlagAddr, ":8000", "HTTP listen address")
}
