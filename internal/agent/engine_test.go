package agent

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	gh "octoscout/internal/github"
	"octoscout/internal/mail"
)

type fakeMail struct {
	messages  []mail.Message
	searchErr error

	contents map[string]*mail.MessageContent
	readErr  error

	searches []string
	reads    []string
}

func (f *fakeMail) Search(_ context.Context, query string, _ int) ([]mail.Message, error) {
	f.searches = append(f.searches, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.messages, nil
}

func (f *fakeMail) Read(_ context.Context, id string) (*mail.MessageContent, error) {
	f.reads = append(f.reads, id)
	if f.readErr != nil {
		return nil, f.readErr
	}
	if c, ok := f.contents[id]; ok {
		return c, nil
	}
	return &mail.MessageContent{ID: id}, nil
}

type fakeRepos struct {
	// errs maps a repository name to the error every call for it returns.
	errs map[string]error

	searchErr error

	calls []string
}

func (f *fakeRepos) record(op, name string) error {
	f.calls = append(f.calls, op+":"+name)
	return f.errs[name]
}

func (f *fakeRepos) Search(_ context.Context, query string, _ int) ([]gh.Repository, error) {
	f.calls = append(f.calls, "search:"+query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []gh.Repository{{Name: "found/" + query}}, nil
}

func (f *fakeRepos) Alerts(_ context.Context, name string) ([]gh.Alert, error) {
	if err := f.record("alerts", name); err != nil {
		return nil, err
	}
	return []gh.Alert{{Package: "left-pad", Severity: "high"}}, nil
}

func (f *fakeRepos) Issues(_ context.Context, name, state string) ([]gh.Issue, error) {
	if err := f.record("issues", name+"@"+state); err != nil {
		return nil, err
	}
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return []gh.Issue{{Number: 1, Title: "it is broken", State: state}}, nil
}

func (f *fakeRepos) Structure(_ context.Context, name string, _ int) (*gh.Structure, error) {
	if err := f.record("structure", name); err != nil {
		return nil, err
	}
	return &gh.Structure{FullName: name}, nil
}

func (f *fakeRepos) Contents(_ context.Context, name, path string) ([]gh.Entry, error) {
	if err := f.record("contents", name); err != nil {
		return nil, err
	}
	return []gh.Entry{{Name: "README.md", Path: path, Type: "file"}}, nil
}

func newTestAgent(t *testing.T, m MailService, r RepositoryService) *Agent {
	t.Helper()
	a, err := New(planOnly{}, m, r)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

// planOnly satisfies Planner for tests that drive executePlan directly.
type planOnly struct{}

func (planOnly) CreatePlan(context.Context, string, map[string]any) (*Plan, error) {
	return &Plan{}, nil
}

func (planOnly) GenerateResponse(context.Context, string, *Aggregate) (string, error) {
	return "", nil
}

func run(t *testing.T, a *Agent, plan *Plan) *runState {
	t.Helper()
	rs := newRunState(nil)
	a.executePlan(context.Background(), plan, rs)
	return rs
}

func TestExecutePlanUnknownStep(t *testing.T) {
	a := newTestAgent(t, &fakeMail{}, &fakeRepos{})
	rs := run(t, a, &Plan{Steps: []Step{{Kind: "deploy_to_production"}}})

	if len(rs.agg.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", rs.agg.Errors)
	}
	want := "Unknown step type: deploy_to_production"
	if rs.agg.Errors[0] != want {
		t.Errorf("error = %q, want %q", rs.agg.Errors[0], want)
	}
	if len(rs.actions) != 1 || rs.actions[0] != want {
		t.Errorf("actions = %v, want the error recorded once", rs.actions)
	}
}

func TestExecutePlanMissingParams(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{StepSearchMessages, "Missing 'query' parameter for search_messages"},
		{StepGetMessage, "Missing 'message_id' parameter for get_message"},
		{StepSearchRepositories, "Missing 'query' parameter for search_repositories"},
		{StepGetRepoAlerts, "Missing 'repo_name' parameter for get_repo_alerts and no repository names extracted from emails"},
		{StepGetRepoIssues, "Missing 'repo_name' parameter for get_repo_issues and no repository names extracted from emails"},
		{StepGetRepoStructure, "Missing 'repo_name' parameter for get_repo_structure and no repository names extracted from emails"},
		{StepGetRepoContents, "Missing 'repo_name' parameter for get_repo_contents and no repository names extracted from emails"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			repos := &fakeRepos{}
			a := newTestAgent(t, &fakeMail{}, repos)
			rs := run(t, a, &Plan{Steps: []Step{{Kind: tt.kind}}})

			if len(rs.agg.Errors) != 1 || rs.agg.Errors[0] != tt.want {
				t.Errorf("errors = %v, want [%q]", rs.agg.Errors, tt.want)
			}
			if len(repos.calls) != 0 {
				t.Errorf("repo calls = %v, want none", repos.calls)
			}
		})
	}
}

func TestExecutePlanFanOutOverExtracted(t *testing.T) {
	m := &fakeMail{messages: []mail.Message{
		{ID: "m1", Subject: "alert in a/b", Snippet: ""},
		{ID: "m2", Subject: "and c/d too", Snippet: ""},
	}}
	repos := &fakeRepos{}
	a := newTestAgent(t, m, repos)

	rs := run(t, a, &Plan{Steps: []Step{
		{Kind: StepSearchMessages, Params: map[string]any{"query": "from:github.com"}},
		{Kind: StepGetRepoIssues, Params: map[string]any{}},
	}})

	wantCalls := []string{"issues:a/b@open", "issues:c/d@open"}
	if !reflect.DeepEqual(repos.calls, wantCalls) {
		t.Errorf("repo calls = %v, want %v", repos.calls, wantCalls)
	}
	if len(rs.agg.Errors) != 0 {
		t.Errorf("errors = %v, want none", rs.agg.Errors)
	}
	if len(rs.agg.RepositoryIssues) != 2 {
		t.Errorf("issues keys = %d, want 2", len(rs.agg.RepositoryIssues))
	}
	found := false
	for _, action := range rs.actions {
		if action == "Extracted repository names: a/b, c/d" {
			found = true
		}
	}
	if !found {
		t.Errorf("extraction action missing from %v", rs.actions)
	}
}

func TestExecutePlanExplicitRepoNameSkipsExtraction(t *testing.T) {
	m := &fakeMail{messages: []mail.Message{{Subject: "about a/b"}}}
	repos := &fakeRepos{}
	a := newTestAgent(t, m, repos)

	run(t, a, &Plan{Steps: []Step{
		{Kind: StepSearchMessages, Params: map[string]any{"query": "q"}},
		{Kind: StepGetRepoAlerts, Params: map[string]any{"repo_name": "explicit/pick"}},
	}})

	wantCalls := []string{"alerts:explicit/pick"}
	if !reflect.DeepEqual(repos.calls, wantCalls) {
		t.Errorf("repo calls = %v, want %v", repos.calls, wantCalls)
	}
}

func TestExecutePlanPlaceholderRepoName(t *testing.T) {
	m := &fakeMail{messages: []mail.Message{{Subject: "about a/b"}}}
	repos := &fakeRepos{}
	a := newTestAgent(t, m, repos)

	rs := run(t, a, &Plan{Steps: []Step{
		{Kind: StepSearchMessages, Params: map[string]any{"query": "q"}},
		{Kind: StepGetRepoAlerts, Params: map[string]any{"repo_name": RepoNamePlaceholder}},
	}})

	if len(repos.calls) != 0 {
		t.Errorf("repo calls = %v, want none", repos.calls)
	}
	if len(rs.agg.Errors) != 1 || !strings.Contains(rs.agg.Errors[0], "Placeholder 'repo_name' value for get_repo_alerts") {
		t.Errorf("errors = %v, want one placeholder error", rs.agg.Errors)
	}
}

func TestExecutePlanSoftFaultContinuesFanOut(t *testing.T) {
	m := &fakeMail{messages: []mail.Message{{Subject: "a/b and c/d"}}}
	repos := &fakeRepos{errs: map[string]error{
		"a/b": &gh.Fault{Kind: "Repository not found", StatusCode: 404, Message: "The repository 'a/b' does not exist or you don't have access to it."},
	}}
	a := newTestAgent(t, m, repos)

	rs := run(t, a, &Plan{Steps: []Step{
		{Kind: StepSearchMessages, Params: map[string]any{"query": "q"}},
		{Kind: StepGetRepoStructure, Params: map[string]any{}},
	}})

	wantCalls := []string{"structure:a/b", "structure:c/d"}
	if !reflect.DeepEqual(repos.calls, wantCalls) {
		t.Errorf("repo calls = %v, want %v", repos.calls, wantCalls)
	}
	if len(rs.agg.Errors) != 1 || !strings.Contains(rs.agg.Errors[0], "Error getting structure for a/b") {
		t.Errorf("errors = %v, want one soft fault for a/b", rs.agg.Errors)
	}
	if _, ok := rs.agg.RepositoryStructures["c/d"]; !ok {
		t.Errorf("structure for c/d missing, aggregate = %v", rs.agg.RepositoryStructures)
	}
	if _, ok := rs.agg.RepositoryStructures["a/b"]; ok {
		t.Errorf("structure for a/b should be absent")
	}
}

func TestExecutePlanHardErrorAbortsStepNotRun(t *testing.T) {
	m := &fakeMail{messages: []mail.Message{{Subject: "a/b and c/d"}}}
	repos := &fakeRepos{errs: map[string]error{
		"a/b": errors.New("dial tcp: connection refused"),
	}}
	a := newTestAgent(t, m, repos)

	rs := run(t, a, &Plan{Steps: []Step{
		{Kind: StepSearchMessages, Params: map[string]any{"query": "q"}},
		{Kind: StepGetRepoAlerts, Params: map[string]any{}},
		{Kind: StepGetRepoIssues, Params: map[string]any{"repo_name": "c/d"}},
	}})

	// The hard error on a/b aborts the rest of the alerts fan-out but not
	// the following step.
	wantCalls := []string{"alerts:a/b", "issues:c/d@open"}
	if !reflect.DeepEqual(repos.calls, wantCalls) {
		t.Errorf("repo calls = %v, want %v", repos.calls, wantCalls)
	}
	want := "Error processing get_repo_alerts: dial tcp: connection refused"
	if len(rs.agg.Errors) != 1 || rs.agg.Errors[0] != want {
		t.Errorf("errors = %v, want [%q]", rs.agg.Errors, want)
	}
	if len(rs.agg.RepositoryIssues) != 1 {
		t.Errorf("issues = %v, want the c/d result", rs.agg.RepositoryIssues)
	}
}

func TestExecutePlanExtractionHappensOnce(t *testing.T) {
	m := &fakeMail{messages: []mail.Message{{Subject: "a/b"}}}
	a := newTestAgent(t, m, &fakeRepos{})

	rs := newRunState(nil)
	a.executePlan(context.Background(), &Plan{Steps: []Step{
		{Kind: StepSearchMessages, Params: map[string]any{"query": "first"}},
	}}, rs)

	// A later search returning different text must not replace the
	// already-extracted set.
	m.messages = []mail.Message{{Subject: "z/y"}}
	a.executePlan(context.Background(), &Plan{Steps: []Step{
		{Kind: StepSearchMessages, Params: map[string]any{"query": "second"}},
	}}, rs)

	if !reflect.DeepEqual(rs.extracted, []string{"a/b"}) {
		t.Errorf("extracted = %v, want [a/b]", rs.extracted)
	}
}

func TestExecutePlanGetMessageSanitizes(t *testing.T) {
	m := &fakeMail{}
	a := newTestAgent(t, m, &fakeRepos{})

	rs := run(t, a, &Plan{Steps: []Step{
		{Kind: StepGetMessage, Params: map[string]any{"message_id": "<abc123>"}},
		{Kind: StepGetMessage, Params: map[string]any{"message_id": "email_id_from_search_results"}},
	}})

	if !reflect.DeepEqual(m.reads, []string{"abc123"}) {
		t.Errorf("reads = %v, want [abc123]", m.reads)
	}
	if _, ok := rs.agg.EmailContents["abc123"]; !ok {
		t.Errorf("content for abc123 missing")
	}
	if len(rs.agg.Errors) != 1 || !strings.Contains(rs.agg.Errors[0], "Invalid 'message_id' parameter") {
		t.Errorf("errors = %v, want one invalid-id error", rs.agg.Errors)
	}
}

func TestExecutePlanContentsKeyIncludesPath(t *testing.T) {
	a := newTestAgent(t, &fakeMail{}, &fakeRepos{})

	rs := run(t, a, &Plan{Steps: []Step{
		{Kind: StepGetRepoContents, Params: map[string]any{"repo_name": "a/b"}},
		{Kind: StepGetRepoContents, Params: map[string]any{"repo_name": "a/b", "path": "src"}},
	}})

	if _, ok := rs.agg.RepositoryContents["a/b"]; !ok {
		t.Errorf("root contents keyed %q missing: %v", "a/b", rs.agg.RepositoryContents)
	}
	if _, ok := rs.agg.RepositoryContents["a/b:src"]; !ok {
		t.Errorf("path contents keyed %q missing: %v", "a/b:src", rs.agg.RepositoryContents)
	}
}

func TestAggregateAlwaysFullyShaped(t *testing.T) {
	a := newTestAgent(t, &fakeMail{}, &fakeRepos{})
	rs := run(t, a, &Plan{})

	agg := rs.agg
	if agg.Emails == nil || agg.EmailContents == nil || agg.Repositories == nil ||
		agg.RepositoryAlerts == nil || agg.RepositoryIssues == nil ||
		agg.RepositoryStructures == nil || agg.RepositoryContents == nil || agg.Errors == nil {
		t.Fatalf("aggregate has nil containers: %+v", agg)
	}
}

func TestErrorsAreSubsetOfActions(t *testing.T) {
	m := &fakeMail{messages: []mail.Message{{Subject: "a/b"}}}
	repos := &fakeRepos{errs: map[string]error{
		"a/b": &gh.Fault{Kind: "Permission denied", StatusCode: 403, Message: "You don't have permission to access the repository 'a/b'."},
	}}
	a := newTestAgent(t, m, repos)

	rs := run(t, a, &Plan{Steps: []Step{
		{Kind: StepSearchMessages, Params: map[string]any{"query": "q"}},
		{Kind: "bogus"},
		{Kind: StepGetRepoAlerts, Params: map[string]any{}},
		{Kind: StepGetMessage, Params: map[string]any{}},
	}})

	inActions := make(map[string]int)
	for _, action := range rs.actions {
		inActions[action]++
	}
	for _, e := range rs.agg.Errors {
		if inActions[e] == 0 {
			t.Errorf("error %q not present in actions %v", e, rs.actions)
		}
	}
	if len(rs.agg.Errors) != 3 {
		t.Errorf("errors = %v, want 3", rs.agg.Errors)
	}
}
