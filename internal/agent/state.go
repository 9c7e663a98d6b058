package agent

import (
	"fmt"

	gh "octoscout/internal/github"
	"octoscout/internal/mail"
)

// Aggregate is the fixed-shape result bundle accumulated over one run. Every
// key is present in every run: containers are allocated up front so empty
// slots marshal as [] / {} and consumers never branch on key existence.
type Aggregate struct {
	Emails               []mail.Message                  `json:"emails"`
	EmailContents        map[string]*mail.MessageContent `json:"email_contents"`
	Repositories         []gh.Repository                 `json:"repositories"`
	RepositoryAlerts     map[string][]gh.Alert           `json:"repository_alerts"`
	RepositoryIssues     map[string][]gh.Issue           `json:"repository_issues"`
	RepositoryStructures map[string]*gh.Structure        `json:"repository_structures"`
	RepositoryContents   map[string][]gh.Entry           `json:"repository_contents"`
	Errors               []string                        `json:"errors"`
}

func newAggregate() *Aggregate {
	return &Aggregate{
		Emails:               []mail.Message{},
		EmailContents:        make(map[string]*mail.MessageContent),
		Repositories:         []gh.Repository{},
		RepositoryAlerts:     make(map[string][]gh.Alert),
		RepositoryIssues:     make(map[string][]gh.Issue),
		RepositoryStructures: make(map[string]*gh.Structure),
		RepositoryContents:   make(map[string][]gh.Entry),
		Errors:               []string{},
	}
}

// runState is the mutable state of one plan execution. It is created fresh
// per ProcessQuery call, owned exclusively by that call, and discarded when
// the call returns; nothing is shared across runs.
type runState struct {
	agg *Aggregate

	// actions is the ordered trace of every attempted action, including
	// skipped and failed attempts. Never reordered or pruned.
	actions []string

	// extracted holds repository identifiers mined from email text, in
	// first-discovery order, with no duplicates. Populated at most once per
	// run, by the first message search that yields names.
	extracted []string

	trace Trace
}

func newRunState(trace Trace) *runState {
	if trace == nil {
		trace = NopTrace()
	}
	return &runState{agg: newAggregate(), actions: []string{}, trace: trace}
}

// action records an attempted action to the trace.
func (rs *runState) action(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	rs.actions = append(rs.actions, msg)
	rs.trace.Action(msg)
}

// failure records an error. Every error also appears in the action trace, so
// the aggregate's error list is always a subset of the actions taken.
func (rs *runState) failure(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	rs.actions = append(rs.actions, msg)
	rs.agg.Errors = append(rs.agg.Errors, msg)
	rs.trace.Failure(msg)
}
