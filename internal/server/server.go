// Package server exposes the agent over HTTP and over MCP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"octoscout/internal/agent"
	githubsvc "octoscout/internal/github"
	"octoscout/internal/mail"
	"octoscout/internal/planner"
)

// QueryAgent is the part of the agent the server needs.
type QueryAgent interface {
	ProcessQuery(ctx context.Context, query string) (*agent.Result, error)
}

// StatusChecker reports reachability of the three backing services.
type StatusChecker interface {
	CheckMailStatus(ctx context.Context) mail.Status
	CheckRepoStatus(ctx context.Context) githubsvc.Status
	CheckPlannerStatus(ctx context.Context) planner.Status
}

type Server struct {
	agent   QueryAgent
	status  StatusChecker
	version string
}

func New(a QueryAgent, status StatusChecker, version string) (*Server, error) {
	if a == nil {
		return nil, fmt.Errorf("server: nil agent")
	}
	if status == nil {
		return nil, fmt.Errorf("server: nil status checker")
	}
	return &Server{agent: a, status: status, version: version}, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("GET /api/services/status", s.handleStatus)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// ListenAndServe blocks until the context is canceled or the listener
// fails, then shuts down with a short grace period.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "listening on %s\n", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Response     string           `json:"response"`
	ActionsTaken []string         `json:"actions_taken"`
	Data         *agent.Aggregate `json:"data"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "missing 'query' field")
		return
	}

	result, err := s.agent.ProcessQuery(r.Context(), req.Query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing query: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Response:     result.Response,
		ActionsTaken: result.ActionsTaken,
		Data:         result.Data,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(w, http.StatusOK, map[string]any{
		"gmail":  s.status.CheckMailStatus(ctx),
		"github": s.status.CheckRepoStatus(ctx),
		"openai": s.status.CheckPlannerStatus(ctx),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "writing response: %v\n", err)
	}
}

func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}
