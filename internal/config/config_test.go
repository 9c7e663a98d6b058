package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GMAIL_CLIENT_ID", "client-id")
	t.Setenv("GMAIL_CLIENT_SECRET", "client-secret")
	t.Setenv("GMAIL_REFRESH_TOKEN", "refresh-token")
	t.Setenv("GMAIL_USER_EMAIL", "user@example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("OCTOSCOUT_ADDR", "")

	cfg := Load()
	if cfg.OpenAI.Model != "o3-mini" {
		t.Errorf("Model = %q, want o3-mini", cfg.OpenAI.Model)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("Addr = %q, want :8000", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OCTOSCOUT_ADDR", ":9001")
	t.Setenv("GITHUB_ACCESS_TOKEN", "ghp_test")
	t.Setenv("GITHUB_USERNAME", "octocat")

	cfg := Load()
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.OpenAI.Model)
	}
	if cfg.Server.Addr != ":9001" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.GitHub.Token != "ghp_test" || cfg.GitHub.Username != "octocat" {
		t.Errorf("GitHub = %+v", cfg.GitHub)
	}
}

func TestValidateReportsAllMissing(t *testing.T) {
	cfg := &Config{Server: Server{Addr: ":8000"}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, name := range []string{
		"OPENAI_API_KEY",
		"GMAIL_CLIENT_ID",
		"GMAIL_CLIENT_SECRET",
		"GMAIL_REFRESH_TOKEN",
		"GMAIL_USER_EMAIL",
	} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name %s", err, name)
		}
	}
}

func TestValidateGitHubTokenOptional(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GITHUB_ACCESS_TOKEN", "")

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate without GitHub token: %v", err)
	}
}
