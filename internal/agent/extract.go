package agent

import (
	"regexp"
	"strings"

	"octoscout/internal/mail"
)

// repoRefPatterns are the surface forms a repository reference takes in
// GitHub notification email. Each pattern captures the owner and the name as
// separate groups. The patterns overlap deliberately, so the same reference
// is often matched by several of them; duplicates are collapsed after
// normalization.
var repoRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([a-zA-Z0-9\-_]+)/([a-zA-Z0-9\-_]+)`),
	regexp.MustCompile(`([a-zA-Z0-9\-_]+) / ([a-zA-Z0-9\-_]+)`),
	regexp.MustCompile(`repository ([a-zA-Z0-9\-_]+)/([a-zA-Z0-9\-_]+)`),
	regexp.MustCompile(`([a-zA-Z0-9\-_]+)'s repository ([a-zA-Z0-9\-_]+)`),
	regexp.MustCompile(`Dependabot alerts? for ([a-zA-Z0-9\-_]+)/([a-zA-Z0-9\-_]+)`),
	regexp.MustCompile(`Dependabot alerts? for ([a-zA-Z0-9\-_]+) / ([a-zA-Z0-9\-_]+)`),
}

// Two tighter special cases scanned outside the generic list: the
// "owner's personal account owner / repo" phrasing that only ever appears in
// snippets, and the bracketed Dependabot subject-line prefix. Anchoring them
// this way keeps the generic patterns from needing lookarounds.
var (
	personalAccountPattern   = regexp.MustCompile(`([a-zA-Z0-9\-_]+)'s personal account ([a-zA-Z0-9\-_]+) / ([a-zA-Z0-9\-_]+)`)
	dependabotSubjectPattern = regexp.MustCompile(`\[GitHub\] (?:Your )?Dependabot alerts? (?:summary )?for ([a-zA-Z0-9\-_]+)/([a-zA-Z0-9\-_]+)`)
)

// ExtractRepoNames mines "owner/name" repository identifiers out of message
// subjects and snippets.
//
// Every captured pair is trimmed, joined with a single slash, and stripped of
// any residual spaces; duplicates are dropped. The result preserves
// first-seen order, which makes fan-out over the extracted set deterministic.
func ExtractRepoNames(messages []mail.Message) []string {
	out := []string{}
	seen := make(map[string]struct{})
	add := func(owner, name string) {
		full := strings.TrimSpace(owner) + "/" + strings.TrimSpace(name)
		full = strings.ReplaceAll(full, " ", "")
		if _, dup := seen[full]; dup {
			return
		}
		seen[full] = struct{}{}
		out = append(out, full)
	}

	for _, msg := range messages {
		for _, text := range []string{msg.Subject, msg.Snippet} {
			if text == "" {
				continue
			}
			for _, pattern := range repoRefPatterns {
				for _, match := range pattern.FindAllStringSubmatch(text, -1) {
					add(match[1], match[2])
				}
			}
		}
		if m := personalAccountPattern.FindStringSubmatch(msg.Snippet); m != nil {
			add(m[2], m[3])
		}
		if m := dependabotSubjectPattern.FindStringSubmatch(msg.Subject); m != nil {
			add(m[1], m[2])
		}
	}
	return out
}
