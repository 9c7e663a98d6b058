package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	OpenAI OpenAI
	GitHub GitHub
	Gmail  Gmail
	Server Server
}

type OpenAI struct {
	// APIKey authenticates against the OpenAI API (OPENAI_API_KEY).
	APIKey string

	// Model selects the chat model used for planning and response
	// generation (OPENAI_MODEL).
	Model string
}

type GitHub struct {
	// Token is the personal access token (GITHUB_ACCESS_TOKEN).
	// When empty, token resolution falls back to GITHUB_TOKEN and the
	// gh CLI.
	Token string

	// Username is the account whose repositories "my repositories"
	// searches resolve to (GITHUB_USERNAME).
	Username string
}

type Gmail struct {
	// OAuth client credentials and a long-lived refresh token
	// (GMAIL_CLIENT_ID, GMAIL_CLIENT_SECRET, GMAIL_REFRESH_TOKEN).
	ClientID     string
	ClientSecret string
	RefreshToken string

	// UserEmail is the mailbox to operate on (GMAIL_USER_EMAIL).
	UserEmail string
}

type Server struct {
	// Addr is the HTTP listen address (OCTOSCOUT_ADDR).
	Addr string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment
// variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		OpenAI: OpenAI{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  envOr("OPENAI_MODEL", "o3-mini"),
		},
		GitHub: GitHub{
			Token:    os.Getenv("GITHUB_ACCESS_TOKEN"),
			Username: os.Getenv("GITHUB_USERNAME"),
		},
		Gmail: Gmail{
			ClientID:     os.Getenv("GMAIL_CLIENT_ID"),
			ClientSecret: os.Getenv("GMAIL_CLIENT_SECRET"),
			RefreshToken: os.Getenv("GMAIL_REFRESH_TOKEN"),
			UserEmail:    os.Getenv("GMAIL_USER_EMAIL"),
		},
		Server: Server{
			Addr: envOr("OCTOSCOUT_ADDR", ":8000"),
		},
	}
}

// Validate reports the variables required to run a query. The GitHub
// token is deliberately not required here since it can be resolved from
// the gh CLI instead.
func (c *Config) Validate() error {
	var missing []string
	if c.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Gmail.ClientID == "" {
		missing = append(missing, "GMAIL_CLIENT_ID")
	}
	if c.Gmail.ClientSecret == "" {
		missing = append(missing, "GMAIL_CLIENT_SECRET")
	}
	if c.Gmail.RefreshToken == "" {
		missing = append(missing, "GMAIL_REFRESH_TOKEN")
	}
	if c.Gmail.UserEmail == "" {
		missing = append(missing, "GMAIL_USER_EMAIL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.Server.Addr == "" {
		return errors.New("server address must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
