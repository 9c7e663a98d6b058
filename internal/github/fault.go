package github

import (
	"errors"
	"fmt"

	"github.com/google/go-github/v81/github"
)

// Fault is a soft, in-band service failure: the API answered, but with an
// error the caller should report and step past (repository missing, access
// denied) rather than abort on. Transport-level failures are returned as
// ordinary errors and are not Faults.
type Fault struct {
	Kind       string
	StatusCode int
	Message    string
}

func (f *Fault) Error() string {
	return f.Message
}

// AsFault reports whether err is (or wraps) a soft service fault.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// repoFault classifies a go-github error for a repo-scoped call. 404 and 403
// become Faults; anything else (network failure, bad response) stays hard.
func repoFault(err error, name string) error {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return err
	}
	switch ghErr.Response.StatusCode {
	case 404:
		return &Fault{
			Kind:       "Repository not found",
			StatusCode: 404,
			Message:    fmt.Sprintf("The repository '%s' does not exist or you don't have access to it.", name),
		}
	case 403:
		return &Fault{
			Kind:       "Permission denied",
			StatusCode: 403,
			Message:    fmt.Sprintf("You don't have permission to access the repository '%s'.", name),
		}
	default:
		return &Fault{
			Kind:       "GitHub API error",
			StatusCode: ghErr.Response.StatusCode,
			Message:    fmt.Sprintf("An error occurred while accessing the repository '%s'.", name),
		}
	}
}

// pathFault is like repoFault but names the path for contents lookups, where
// a 404 may mean either a missing repository or a missing path.
func pathFault(err error, name, path string) error {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return err
	}
	if ghErr.Response.StatusCode == 404 {
		return &Fault{
			Kind:       "Repository or path not found",
			StatusCode: 404,
			Message:    fmt.Sprintf("The repository '%s' or path '%s' does not exist or you don't have access to it.", name, path),
		}
	}
	return repoFault(err, name)
}

// searchFault classifies a go-github error for repository search.
func searchFault(err error, query string) error {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return err
	}
	return &Fault{
		Kind:       "GitHub API error",
		StatusCode: ghErr.Response.StatusCode,
		Message:    fmt.Sprintf("An error occurred while searching for repositories with query '%s'.", query),
	}
}
