package mail

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Credentials holds the OAuth2 refresh-token credentials for a Gmail account.
// UserEmail may be empty, in which case the special "me" user is used.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	UserEmail    string
}

// GmailService reads mail through the Gmail REST API. It is read-only: only
// the gmail.readonly scope is ever requested.
type GmailService struct {
	svc    *gmail.Service
	userID string
}

func NewGmailService(ctx context.Context, creds Credentials) (*GmailService, error) {
	if ctx == nil {
		return nil, fmt.Errorf("gmail: ctx is nil")
	}
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.RefreshToken == "" {
		return nil, fmt.Errorf("gmail: credentials not configured (need client ID, client secret, and refresh token)")
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})

	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("gmail: create service: %w", err)
	}

	userID := strings.TrimSpace(creds.UserEmail)
	if userID == "" {
		userID = "me"
	}
	return &GmailService{svc: svc, userID: userID}, nil
}

// Search runs a Gmail search query and returns message metadata, most recent
// first, up to maxResults entries.
func (s *GmailService) Search(ctx context.Context, query string, maxResults int) ([]Message, error) {
	list, err := s.svc.Users.Messages.List(s.userID).
		Q(query).
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("gmail: search %q: %w", query, err)
	}

	msgs := make([]Message, 0, len(list.Messages))
	for _, ref := range list.Messages {
		msg, err := s.svc.Users.Messages.Get(s.userID, ref.Id).
			Format("metadata").
			MetadataHeaders("Subject", "From", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("gmail: get message %s: %w", ref.Id, err)
		}
		msgs = append(msgs, Message{
			ID:       msg.Id,
			ThreadID: msg.ThreadId,
			Subject:  headerValue(msg.Payload, "Subject", "No Subject"),
			From:     headerValue(msg.Payload, "From", "Unknown"),
			Date:     headerValue(msg.Payload, "Date", "Unknown"),
			Snippet:  msg.Snippet,
		})
	}
	return msgs, nil
}

// Read fetches the full message, including the decoded body text.
func (s *GmailService) Read(ctx context.Context, id string) (*MessageContent, error) {
	msg, err := s.svc.Users.Messages.Get(s.userID, id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("gmail: get message %s: %w", id, err)
	}

	labels := msg.LabelIds
	if labels == nil {
		labels = []string{}
	}
	return &MessageContent{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Subject:  headerValue(msg.Payload, "Subject", "No Subject"),
		From:     headerValue(msg.Payload, "From", "Unknown"),
		To:       headerValue(msg.Payload, "To", "Unknown"),
		Date:     headerValue(msg.Payload, "Date", "Unknown"),
		Body:     extractBody(msg.Payload),
		Labels:   labels,
	}, nil
}

// CheckStatus probes the account profile as a cheap connectivity test.
func (s *GmailService) CheckStatus(ctx context.Context) Status {
	profile, err := s.svc.Users.GetProfile(s.userID).Context(ctx).Do()
	if err != nil {
		return Status{State: "error", Message: err.Error()}
	}
	return Status{
		State:         "connected",
		Email:         profile.EmailAddress,
		MessagesTotal: profile.MessagesTotal,
	}
}

func headerValue(payload *gmail.MessagePart, name, fallback string) string {
	if payload == nil {
		return fallback
	}
	for _, h := range payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return fallback
}
