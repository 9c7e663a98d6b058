package agent

import (
	"regexp"
	"strings"
)

// messageIDPlaceholder is the literal planners sometimes emit instead of a
// real message ID copied from search results.
const messageIDPlaceholder = "email_id_from_search_results"

var unsafeIDChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// SanitizeMessageID normalizes a loosely formatted message identifier into a
// safe lookup key: angle brackets and the planner placeholder are removed,
// then every character that is not alphanumeric, hyphen, or underscore is
// stripped. Removing characters can splice a fresh placeholder together out
// of the surrounding text, so both removals repeat until the string stops
// changing. Total and idempotent; empty input yields empty output.
func SanitizeMessageID(raw string) string {
	cleaned := strings.NewReplacer("<", "", ">", "").Replace(raw)
	for {
		next := strings.ReplaceAll(cleaned, messageIDPlaceholder, "")
		next = unsafeIDChars.ReplaceAllString(next, "")
		if next == cleaned {
			return next
		}
		cleaned = next
	}
}
