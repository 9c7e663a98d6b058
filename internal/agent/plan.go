package agent

import "encoding/json"

// Plan is the ordered action plan produced by the planner for one run. It is
// immutable once created; the engine only reads it.
type Plan struct {
	Steps []Step `json:"steps"`
}

// Step is a single planned action. Kind selects the dispatch branch; Params
// carries the kind-specific parameters as decoded JSON values.
type Step struct {
	Kind   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// The closed set of step kinds the engine understands. Anything else is
// recorded as an unknown step and skipped.
const (
	StepSearchMessages     = "search_messages"
	StepGetMessage         = "get_message"
	StepSearchRepositories = "search_repositories"
	StepGetRepoAlerts      = "get_repo_alerts"
	StepGetRepoIssues      = "get_repo_issues"
	StepGetRepoStructure   = "get_repo_structure"
	StepGetRepoContents    = "get_repo_contents"
)

// RepoNamePlaceholder is the literal the planner sometimes emits for
// repo_name when it means "use the repositories extracted from email". The
// engine treats it as absent and does not fall back to extraction, so the
// step records a descriptive error instead of guessing.
const RepoNamePlaceholder = "repo_name_from_emails"

// stringParam returns the named parameter if it is a non-empty string.
func (s Step) stringParam(key string) string {
	v, ok := s.Params[key]
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// intParam returns the named parameter as an int, tolerating the numeric
// shapes a decoded JSON plan can carry. def is returned when the parameter
// is missing or not numeric.
func (s Step) intParam(key string, def int) int {
	v, ok := s.Params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return def
}
