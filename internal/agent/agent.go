// Package agent is the core of octoscout: it asks the planner for an action
// plan, executes the plan step by step against the mail and repository
// facades, mines repository references out of email text for later steps to
// consume, and hands the accumulated aggregate back to the planner for
// narration.
package agent

import (
	"context"
	"errors"
	"fmt"

	gh "octoscout/internal/github"
	"octoscout/internal/mail"
)

// MailService is the email capability the engine dispatches to.
type MailService interface {
	Search(ctx context.Context, query string, maxResults int) ([]mail.Message, error)
	Read(ctx context.Context, id string) (*mail.MessageContent, error)
}

// RepositoryService is the source-hosting capability the engine dispatches
// to. Implementations may return soft *github.Fault errors for failures that
// should be recorded and stepped past rather than aborting the step.
type RepositoryService interface {
	Search(ctx context.Context, query string, maxResults int) ([]gh.Repository, error)
	Alerts(ctx context.Context, name string) ([]gh.Alert, error)
	Issues(ctx context.Context, name, state string) ([]gh.Issue, error)
	Structure(ctx context.Context, name string, maxDepth int) (*gh.Structure, error)
	Contents(ctx context.Context, name, path string) ([]gh.Entry, error)
}

// Planner produces the action plan for a query and narrates the collected
// data back into natural language.
type Planner interface {
	CreatePlan(ctx context.Context, query string, queryContext map[string]any) (*Plan, error)
	GenerateResponse(ctx context.Context, query string, data *Aggregate) (string, error)
}

// Result is the envelope returned for one processed query. Field names are
// load-bearing for callers (the HTTP handler serializes this as-is).
type Result struct {
	Query        string     `json:"query"`
	Plan         *Plan      `json:"plan"`
	Data         *Aggregate `json:"data"`
	Response     string     `json:"response"`
	ActionsTaken []string   `json:"actions_taken"`
}

// Agent orchestrates one query at a time. It holds no per-run state, so a
// single Agent is safe for concurrent ProcessQuery calls as long as its
// facades are.
type Agent struct {
	planner Planner
	mail    MailService
	repos   RepositoryService
	trace   Trace

	// queryContext is attached to every plan request as planning hints,
	// e.g. the authenticated GitHub username.
	queryContext map[string]any
}

type AgentOption func(*Agent)

// WithTrace installs an observer for run actions and failures. The default
// discards them.
func WithTrace(t Trace) AgentOption {
	return func(a *Agent) {
		if t != nil {
			a.trace = t
		}
	}
}

// WithQueryContext sets planning hints sent with every plan request.
func WithQueryContext(qc map[string]any) AgentOption {
	return func(a *Agent) {
		a.queryContext = qc
	}
}

func New(planner Planner, mailSvc MailService, repoSvc RepositoryService, opts ...AgentOption) (*Agent, error) {
	if planner == nil {
		return nil, errors.New("agent: planner is nil")
	}
	if mailSvc == nil {
		return nil, errors.New("agent: mail service is nil")
	}
	if repoSvc == nil {
		return nil, errors.New("agent: repository service is nil")
	}
	a := &Agent{
		planner: planner,
		mail:    mailSvc,
		repos:   repoSvc,
		trace:   NopTrace(),
	}
	for _, apply := range opts {
		if apply != nil {
			apply(a)
		}
	}
	return a, nil
}

// ProcessQuery plans, executes, and narrates one natural-language query.
//
// Step-level failures never surface as an error here; they are folded into
// the result's data and trace. An error is returned only when the planner
// itself cannot produce a plan or a narration.
func (a *Agent) ProcessQuery(ctx context.Context, query string) (*Result, error) {
	plan, err := a.planner.CreatePlan(ctx, query, a.queryContext)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	if plan == nil {
		return nil, errors.New("planner returned a nil plan")
	}

	rs := newRunState(a.trace)
	a.executePlan(ctx, plan, rs)

	rs.action("Generating response")
	response, err := a.planner.GenerateResponse(ctx, query, rs.agg)
	if err != nil {
		return nil, fmt.Errorf("generate response: %w", err)
	}

	return &Result{
		Query:        query,
		Plan:         plan,
		Data:         rs.agg,
		Response:     response,
		ActionsTaken: rs.actions,
	}, nil
}
