package mail

import (
	"encoding/base64"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(s))
}

func textPart(mime, body string) *gmail.MessagePart {
	return &gmail.MessagePart{
		MimeType: mime,
		Body:     &gmail.MessagePartBody{Data: b64(body)},
	}
}

func TestExtractBody(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmail.MessagePart
		want    string
	}{
		{
			name:    "nil payload",
			payload: nil,
			want:    noReadableBody,
		},
		{
			name:    "body on the payload itself",
			payload: textPart("text/plain", "hello"),
			want:    "hello",
		},
		{
			name: "plain part preferred over html",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					textPart("text/html", "<p>hi</p>"),
					textPart("text/plain", "hi"),
				},
			},
			want: "hi",
		},
		{
			name: "html used when no plain part",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					textPart("text/html", "<p>hi</p>"),
				},
			},
			want: "<p>hi</p>",
		},
		{
			name: "nested multipart",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "multipart/alternative",
						Parts: []*gmail.MessagePart{
							textPart("text/plain", "deep"),
						},
					},
				},
			},
			want: "deep",
		},
		{
			name: "no readable content",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{MimeType: "application/pdf", Body: &gmail.MessagePartBody{}},
				},
			},
			want: noReadableBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractBody(tt.payload); got != tt.want {
				t.Errorf("extractBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodePartDataPaddedFallback(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("padded body"))
	part := &gmail.MessagePart{Body: &gmail.MessagePartBody{Data: padded}}
	if got := decodePartData(part); got != "padded body" {
		t.Errorf("decodePartData(padded) = %q", got)
	}

	broken := &gmail.MessagePart{Body: &gmail.MessagePartBody{Data: "!!!not-base64!!!"}}
	if got := decodePartData(broken); got != "" {
		t.Errorf("decodePartData(broken) = %q, want empty", got)
	}
}

func TestHeaderValue(t *testing.T) {
	payload := &gmail.MessagePart{Headers: []*gmail.MessagePartHeader{
		{Name: "Subject", Value: "Weekly digest"},
		{Name: "From", Value: "notifications@github.com"},
	}}

	if got := headerValue(payload, "Subject", "No Subject"); got != "Weekly digest" {
		t.Errorf("Subject = %q", got)
	}
	if got := headerValue(payload, "Date", "Unknown"); got != "Unknown" {
		t.Errorf("missing header = %q, want fallback", got)
	}
	if got := headerValue(nil, "Subject", "No Subject"); got != "No Subject" {
		t.Errorf("nil payload = %q, want fallback", got)
	}
}
