package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v81/github"
	"golang.org/x/sync/singleflight"
)

// Service is the repository facade consumed by the agent. All calls are
// throttled through a shared RequestBudget; repository metadata lookups are
// deduplicated across concurrent runs with singleflight.
//
// Failures the API reports about a specific repository (missing, forbidden)
// come back as soft *Fault errors; transport failures come back as ordinary
// errors.
type Service struct {
	client   *Client
	budget   *RequestBudget
	group    singleflight.Group
	username string
}

type ServiceOption func(*Service)

// WithUsername sets the account whose repositories the "my repositories"
// search shorthand resolves to.
func WithUsername(username string) ServiceOption {
	return func(s *Service) {
		s.username = strings.TrimSpace(username)
	}
}

func NewService(client *Client, opts ...ServiceOption) (*Service, error) {
	if client == nil || client.REST == nil {
		return nil, fmt.Errorf("github service: nil client (use NewClient)")
	}
	s := &Service{
		client: client,
		budget: NewRequestBudget(),
	}
	for _, apply := range opts {
		if apply != nil {
			apply(s)
		}
	}
	return s, nil
}

// Search finds repositories matching query, up to maxResults. The literal
// query "my repositories" lists the configured user's own repositories
// instead of running a code-search.
func (s *Service) Search(ctx context.Context, query string, maxResults int) ([]Repository, error) {
	if err := s.budget.Acquire(ctx); err != nil {
		return nil, err
	}

	var (
		repos []*github.Repository
		resp  *github.Response
		err   error
	)
	if strings.EqualFold(strings.TrimSpace(query), "my repositories") && s.username != "" {
		repos, resp, err = s.client.REST.Repositories.ListByUser(ctx, s.username, &github.RepositoryListByUserOptions{
			ListOptions: github.ListOptions{PerPage: maxResults},
		})
	} else {
		var result *github.RepositoriesSearchResult
		result, resp, err = s.client.REST.Search.Repositories(ctx, query, &github.SearchOptions{
			ListOptions: github.ListOptions{PerPage: maxResults},
		})
		if result != nil {
			repos = result.Repositories
		}
	}
	if resp != nil {
		s.budget.UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, searchFault(err, query)
	}

	out := make([]Repository, 0, len(repos))
	for _, repo := range repos {
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
		out = append(out, Repository{
			Name:        repo.GetFullName(),
			Description: repo.GetDescription(),
			URL:         repo.GetHTMLURL(),
			Stars:       repo.GetStargazersCount(),
			Forks:       repo.GetForksCount(),
			OpenIssues:  repo.GetOpenIssuesCount(),
			Language:    repo.GetLanguage(),
			CreatedAt:   isoTime(repo.GetCreatedAt()),
			UpdatedAt:   isoTime(repo.GetUpdatedAt()),
		})
	}
	return out, nil
}

// Alerts lists Dependabot security alerts for the named repository. If the
// repository exists but its alerts are inaccessible (feature disabled, token
// scope missing), a single placeholder alert describes the situation instead
// of failing the lookup.
func (s *Service) Alerts(ctx context.Context, name string) ([]Alert, error) {
	if _, err := s.getRepo(ctx, name); err != nil {
		return nil, err
	}
	owner, repoName, _ := splitRepoName(name)

	if err := s.budget.Acquire(ctx); err != nil {
		return nil, err
	}
	alerts, resp, err := s.client.REST.Dependabot.ListRepoAlerts(ctx, owner, repoName, nil)
	if resp != nil {
		s.budget.UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return []Alert{{
			Package:     "Unknown",
			Severity:    "Unknown",
			Summary:     "Could not access vulnerability alerts",
			Description: fmt.Sprintf("Error accessing vulnerability alerts: %v", err),
		}}, nil
	}

	out := make([]Alert, 0, len(alerts))
	for _, alert := range alerts {
		advisory := alert.GetSecurityAdvisory()
		out = append(out, Alert{
			Package:     alert.GetDependency().GetPackage().GetName(),
			Severity:    advisory.GetSeverity(),
			Summary:     advisory.GetSummary(),
			Description: advisory.GetDescription(),
			PublishedAt: isoTime(advisory.GetPublishedAt()),
			URL:         alert.GetHTMLURL(),
		})
	}
	return out, nil
}

// Issues lists issues for the named repository in the given state
// ("open", "closed", or "all").
func (s *Service) Issues(ctx context.Context, name, state string) ([]Issue, error) {
	owner, repoName, ok := splitRepoName(name)
	if !ok {
		return nil, notFoundFault(name)
	}

	if err := s.budget.Acquire(ctx); err != nil {
		return nil, err
	}
	issues, resp, err := s.client.REST.Issues.ListByRepo(ctx, owner, repoName, &github.IssueListByRepoOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if resp != nil {
		s.budget.UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, repoFault(err, name)
	}

	out := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		labels := make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			labels = append(labels, label.GetName())
		}
		out = append(out, Issue{
			Number:    issue.GetNumber(),
			Title:     issue.GetTitle(),
			State:     issue.GetState(),
			CreatedAt: isoTime(issue.GetCreatedAt()),
			UpdatedAt: isoTime(issue.GetUpdatedAt()),
			URL:       issue.GetHTMLURL(),
			Body:      issue.GetBody(),
			Labels:    labels,
		})
	}
	return out, nil
}

// Structure returns repository metadata plus a file tree traversed to
// maxDepth. Subtrees past the bound are replaced with a TypeDepthLimit
// sentinel entry; subtrees that fail to list embed the error and traversal
// continues.
func (s *Service) Structure(ctx context.Context, name string, maxDepth int) (*Structure, error) {
	repo, err := s.getRepo(ctx, name)
	if err != nil {
		return nil, err
	}
	owner, repoName, _ := splitRepoName(name)

	return &Structure{
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		URL:           repo.GetHTMLURL(),
		DefaultBranch: repo.GetDefaultBranch(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		OpenIssues:    repo.GetOpenIssuesCount(),
		Language:      repo.GetLanguage(),
		CreatedAt:     isoTime(repo.GetCreatedAt()),
		UpdatedAt:     isoTime(repo.GetUpdatedAt()),
		Entries:       s.directoryTree(ctx, owner, repoName, "", 1, maxDepth),
	}, nil
}

func (s *Service) directoryTree(ctx context.Context, owner, repo, path string, depth, maxDepth int) []TreeEntry {
	if depth > maxDepth {
		return []TreeEntry{{Name: "...", Type: TypeDepthLimit}}
	}

	file, dir, err := s.listContents(ctx, owner, repo, path)
	if err != nil {
		return []TreeEntry{{Error: err.Error(), Path: path}}
	}
	if file != nil {
		size := file.GetSize()
		return []TreeEntry{{
			Name: file.GetName(),
			Path: file.GetPath(),
			Type: file.GetType(),
			Size: &size,
		}}
	}

	entries := make([]TreeEntry, 0, len(dir))
	for _, item := range dir {
		entry := TreeEntry{
			Name: item.GetName(),
			Path: item.GetPath(),
			Type: item.GetType(),
		}
		if item.GetType() == "file" {
			size := item.GetSize()
			entry.Size = &size
		}
		if item.GetType() == "dir" {
			entry.Contents = s.directoryTree(ctx, owner, repo, item.GetPath(), depth+1, maxDepth)
		}
		entries = append(entries, entry)
	}
	return entries
}

// Contents lists one directory (or a single file) at path in the named
// repository.
func (s *Service) Contents(ctx context.Context, name, path string) ([]Entry, error) {
	owner, repoName, ok := splitRepoName(name)
	if !ok {
		return nil, notFoundFault(name)
	}

	file, dir, err := s.listContents(ctx, owner, repoName, path)
	if err != nil {
		return nil, pathFault(err, name, path)
	}
	if file != nil {
		return []Entry{{
			Name: file.GetName(),
			Path: file.GetPath(),
			Type: file.GetType(),
			Size: file.GetSize(),
			URL:  file.GetHTMLURL(),
		}}, nil
	}

	out := make([]Entry, 0, len(dir))
	for _, item := range dir {
		out = append(out, Entry{
			Name: item.GetName(),
			Path: item.GetPath(),
			Type: item.GetType(),
			Size: item.GetSize(),
			URL:  item.GetHTMLURL(),
		})
	}
	return out, nil
}

// CheckStatus probes the authenticated user as a cheap connectivity test.
func (s *Service) CheckStatus(ctx context.Context) Status {
	user, resp, err := s.client.REST.Users.Get(ctx, "")
	if resp != nil {
		s.budget.UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return Status{State: "error", Message: err.Error()}
	}
	return Status{
		State:    "connected",
		Username: user.GetLogin(),
		Name:     user.GetName(),
	}
}

func (s *Service) listContents(ctx context.Context, owner, repo, path string) (*github.RepositoryContent, []*github.RepositoryContent, error) {
	if err := s.budget.Acquire(ctx); err != nil {
		return nil, nil, err
	}
	file, dir, resp, err := s.client.REST.Repositories.GetContents(ctx, owner, repo, path, nil)
	if resp != nil {
		s.budget.UpdateFromResponse(resp.Response)
	}
	return file, dir, err
}

// getRepo fetches repository metadata, deduplicating identical in-flight
// lookups across concurrent runs.
func (s *Service) getRepo(ctx context.Context, name string) (*github.Repository, error) {
	owner, repoName, ok := splitRepoName(name)
	if !ok {
		return nil, notFoundFault(name)
	}

	v, err, _ := s.group.Do("repo:"+owner+"/"+repoName, func() (any, error) {
		if err := s.budget.Acquire(ctx); err != nil {
			return nil, err
		}
		repo, resp, err := s.client.REST.Repositories.Get(ctx, owner, repoName)
		if resp != nil {
			s.budget.UpdateFromResponse(resp.Response)
		}
		if err != nil {
			return nil, repoFault(err, name)
		}
		return repo, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*github.Repository), nil
}

func notFoundFault(name string) *Fault {
	return &Fault{
		Kind:       "Repository not found",
		StatusCode: 404,
		Message:    fmt.Sprintf("The repository '%s' does not exist or you don't have access to it.", name),
	}
}

func splitRepoName(name string) (owner, repo string, ok bool) {
	owner, repo, found := strings.Cut(strings.TrimSpace(name), "/")
	if !found || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", false
	}
	return owner, repo, true
}

func isoTime(ts github.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
