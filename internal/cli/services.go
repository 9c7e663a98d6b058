package cli

import (
	"context"
	"fmt"
	"strings"

	"octoscout/internal/agent"
	"octoscout/internal/config"
	gh "octoscout/internal/github"
	"octoscout/internal/mail"
	"octoscout/internal/planner"
)

// services bundles the three backing facades plus the assembled agent.
type services struct {
	mail    *mail.GmailService
	repos   *gh.Service
	planner *planner.Service
	agent   *agent.Agent
}

// buildServices assembles the full stack from configuration. The GitHub
// token is resolved from config, then the environment, then the gh CLI.
func buildServices(ctx context.Context, cfg *config.Config, opts ...agent.AgentOption) (*services, error) {
	token, _, err := gh.ResolveAuthToken(ctx, cfg.GitHub.Token)
	if err != nil {
		return nil, fmt.Errorf("resolving GitHub auth token: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("GitHub auth token is required (set GITHUB_ACCESS_TOKEN or run 'gh auth login')")
	}

	client, err := gh.NewClient(ctx, token, gh.WithVerbose(verbose, nil))
	if err != nil {
		return nil, fmt.Errorf("creating GitHub client: %w", err)
	}
	repos, err := gh.NewService(client, gh.WithUsername(cfg.GitHub.Username))
	if err != nil {
		return nil, fmt.Errorf("creating repository service: %w", err)
	}

	mailSvc, err := mail.NewGmailService(ctx, mail.Credentials{
		ClientID:     cfg.Gmail.ClientID,
		ClientSecret: cfg.Gmail.ClientSecret,
		RefreshToken: cfg.Gmail.RefreshToken,
		UserEmail:    cfg.Gmail.UserEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gmail service: %w", err)
	}

	plannerSvc, err := planner.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	if err != nil {
		return nil, err
	}

	if cfg.GitHub.Username != "" {
		opts = append(opts, agent.WithQueryContext(map[string]any{
			"github_username": cfg.GitHub.Username,
		}))
	}
	a, err := agent.New(plannerSvc, mailSvc, repos, opts...)
	if err != nil {
		return nil, err
	}

	return &services{
		mail:    mailSvc,
		repos:   repos,
		planner: plannerSvc,
		agent:   a,
	}, nil
}

// CheckMailStatus implements server.StatusChecker.
func (s *services) CheckMailStatus(ctx context.Context) mail.Status {
	return s.mail.CheckStatus(ctx)
}

func (s *services) CheckRepoStatus(ctx context.Context) gh.Status {
	return s.repos.CheckStatus(ctx)
}

func (s *services) CheckPlannerStatus(ctx context.Context) planner.Status {
	return s.planner.CheckStatus(ctx)
}
