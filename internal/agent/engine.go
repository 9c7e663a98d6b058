package agent

import (
	"context"
	"strings"

	gh "octoscout/internal/github"
)

// executePlan runs every step of the plan in order. No step failure is ever
// fatal to the run: unknown kinds, missing parameters, and soft service
// faults are recorded and skipped, and a hard error aborts only the step it
// occurred in. The run always completes with a full aggregate and trace.
func (a *Agent) executePlan(ctx context.Context, plan *Plan, rs *runState) {
	for _, step := range plan.Steps {
		if err := a.runStep(ctx, step, rs); err != nil {
			rs.failure("Error processing %s: %v", step.Kind, err)
		}
	}
}

// runStep dispatches one step. A returned error is a hard failure the caller
// converts into a recorded step error; soft faults and parameter problems
// are recorded inside the step handlers and return nil.
func (a *Agent) runStep(ctx context.Context, step Step, rs *runState) error {
	switch step.Kind {
	case StepSearchMessages:
		return a.stepSearchMessages(ctx, step, rs)
	case StepGetMessage:
		return a.stepGetMessage(ctx, step, rs)
	case StepSearchRepositories:
		return a.stepSearchRepositories(ctx, step, rs)
	case StepGetRepoAlerts:
		return a.stepRepoAlerts(ctx, step, rs)
	case StepGetRepoIssues:
		return a.stepRepoIssues(ctx, step, rs)
	case StepGetRepoStructure:
		return a.stepRepoStructure(ctx, step, rs)
	case StepGetRepoContents:
		return a.stepRepoContents(ctx, step, rs)
	default:
		rs.failure("Unknown step type: %s", step.Kind)
		return nil
	}
}

func (a *Agent) stepSearchMessages(ctx context.Context, step Step, rs *runState) error {
	query := step.stringParam("query")
	if query == "" {
		rs.failure("Missing 'query' parameter for %s", step.Kind)
		return nil
	}
	maxResults := step.intParam("max_results", 10)

	rs.action("Searching mail with query: %s", query)
	messages, err := a.mail.Search(ctx, query, maxResults)
	if err != nil {
		return err
	}
	rs.agg.Emails = messages

	// Mine repository references once per run, from the first search that
	// returns messages; every later step can consume them.
	if len(rs.extracted) == 0 && len(messages) > 0 {
		names := ExtractRepoNames(messages)
		if len(names) > 0 {
			rs.extracted = names
			rs.action("Extracted repository names: %s", strings.Join(names, ", "))
		} else {
			rs.action("No repository names were extracted from emails")
		}
	}
	return nil
}

func (a *Agent) stepGetMessage(ctx context.Context, step Step, rs *runState) error {
	id := step.stringParam("message_id")
	if id == "" {
		rs.failure("Missing 'message_id' parameter for %s", step.Kind)
		return nil
	}
	id = SanitizeMessageID(id)
	if id == "" {
		rs.failure("Invalid 'message_id' parameter for %s", step.Kind)
		return nil
	}

	rs.action("Getting message content for ID: %s", id)
	content, err := a.mail.Read(ctx, id)
	if err != nil {
		return err
	}
	rs.agg.EmailContents[id] = content
	return nil
}

func (a *Agent) stepSearchRepositories(ctx context.Context, step Step, rs *runState) error {
	query := step.stringParam("query")
	if query == "" {
		rs.failure("Missing 'query' parameter for %s", step.Kind)
		return nil
	}
	maxResults := step.intParam("max_results", 5)

	rs.action("Searching repositories with query: %s", query)
	repos, err := a.repos.Search(ctx, query, maxResults)
	if err != nil {
		if fault, ok := gh.AsFault(err); ok {
			rs.failure("Error searching repositories: %s", fault.Message)
			return nil
		}
		return err
	}
	rs.agg.Repositories = repos
	return nil
}

// repoTargets resolves which repositories a repo-scoped step applies to.
//
// An explicit repo_name is used verbatim. The placeholder literal is treated
// as absent with no fallback. An absent repo_name fans out over the
// identifiers extracted from email, in discovery order; if nothing was
// extracted, the step records one descriptive error and contributes nothing.
func (rs *runState) repoTargets(step Step) ([]string, bool) {
	name := step.stringParam("repo_name")
	if name == RepoNamePlaceholder {
		rs.failure("Placeholder 'repo_name' value for %s; expected a real repository name or no value", step.Kind)
		return nil, false
	}
	if name != "" {
		return []string{name}, true
	}
	if len(rs.extracted) > 0 {
		return rs.extracted, true
	}
	rs.failure("Missing 'repo_name' parameter for %s and no repository names extracted from emails", step.Kind)
	return nil, false
}

func (a *Agent) stepRepoAlerts(ctx context.Context, step Step, rs *runState) error {
	targets, ok := rs.repoTargets(step)
	if !ok {
		return nil
	}
	for _, name := range targets {
		rs.action("Getting repository alerts for: %s", name)
		alerts, err := a.repos.Alerts(ctx, name)
		if err != nil {
			if fault, ok := gh.AsFault(err); ok {
				rs.failure("Error getting alerts for %s: %s", name, fault.Message)
				continue
			}
			return err
		}
		rs.agg.RepositoryAlerts[name] = alerts
	}
	return nil
}

func (a *Agent) stepRepoIssues(ctx context.Context, step Step, rs *runState) error {
	targets, ok := rs.repoTargets(step)
	if !ok {
		return nil
	}
	state := step.stringParam("state")
	if state == "" {
		state = "open"
	}
	for _, name := range targets {
		rs.action("Getting repository issues for: %s", name)
		issues, err := a.repos.Issues(ctx, name, state)
		if err != nil {
			if fault, ok := gh.AsFault(err); ok {
				rs.failure("Error getting issues for %s: %s", name, fault.Message)
				continue
			}
			return err
		}
		rs.agg.RepositoryIssues[name] = issues
	}
	return nil
}

func (a *Agent) stepRepoStructure(ctx context.Context, step Step, rs *runState) error {
	targets, ok := rs.repoTargets(step)
	if !ok {
		return nil
	}
	maxDepth := step.intParam("max_depth", 3)
	for _, name := range targets {
		rs.action("Getting repository structure for: %s", name)
		structure, err := a.repos.Structure(ctx, name, maxDepth)
		if err != nil {
			if fault, ok := gh.AsFault(err); ok {
				rs.failure("Error getting structure for %s: %s", name, fault.Message)
				continue
			}
			return err
		}
		rs.agg.RepositoryStructures[name] = structure
	}
	return nil
}

func (a *Agent) stepRepoContents(ctx context.Context, step Step, rs *runState) error {
	targets, ok := rs.repoTargets(step)
	if !ok {
		return nil
	}
	path := step.stringParam("path")
	for _, name := range targets {
		rs.action("Getting repository contents for: %s, path: %s", name, path)
		contents, err := a.repos.Contents(ctx, name, path)
		if err != nil {
			if fault, ok := gh.AsFault(err); ok {
				rs.failure("Error getting contents for %s: %s", name, fault.Message)
				continue
			}
			return err
		}
		key := name
		if path != "" {
			key = name + ":" + path
		}
		rs.agg.RepositoryContents[key] = contents
	}
	return nil
}
