package mail

import (
	"encoding/base64"

	gmail "google.golang.org/api/gmail/v1"
)

const noReadableBody = "No readable content found in this email."

// extractBody pulls the text body out of a Gmail message payload.
//
// Preference order: the part's own body, then the first text/plain part, then
// the first text/html part, then any body found in nested multiparts. Gmail
// encodes part data as URL-safe base64.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return noReadableBody
	}
	if body := decodePartData(payload); body != "" {
		return body
	}
	if body := bodyFromParts(payload.Parts); body != "" {
		return body
	}
	return noReadableBody
}

func bodyFromParts(parts []*gmail.MessagePart) string {
	for _, part := range parts {
		if part.MimeType == "text/plain" {
			if body := decodePartData(part); body != "" {
				return body
			}
		}
	}
	for _, part := range parts {
		if part.MimeType == "text/html" {
			if body := decodePartData(part); body != "" {
				return body
			}
		}
	}
	for _, part := range parts {
		if len(part.Parts) > 0 {
			if body := bodyFromParts(part.Parts); body != "" {
				return body
			}
		}
	}
	return ""
}

func decodePartData(part *gmail.MessagePart) string {
	if part == nil || part.Body == nil || part.Body.Data == "" {
		return ""
	}
	raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(part.Body.Data)
	if err != nil {
		// Gmail sometimes pads; retry with standard padding before giving up.
		raw, err = base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			return ""
		}
	}
	return string(raw)
}
