package github

// Repository is the search-result shape surfaced to the agent. Name is the
// full "owner/name" identifier.
type Repository struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	OpenIssues  int    `json:"open_issues"`
	Language    string `json:"language"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Alert is a Dependabot security alert.
type Alert struct {
	Package     string `json:"package"`
	Severity    string `json:"severity"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
	URL         string `json:"url"`
}

type Issue struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	State     string   `json:"state"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
	URL       string   `json:"url"`
	Body      string   `json:"body"`
	Labels    []string `json:"labels"`
}

// Entry is one file or directory in a contents listing.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size"`
	URL  string `json:"url"`
}

// Structure is repository metadata plus a depth-bounded file tree.
type Structure struct {
	Name          string      `json:"name"`
	FullName      string      `json:"full_name"`
	Description   string      `json:"description"`
	URL           string      `json:"url"`
	DefaultBranch string      `json:"default_branch"`
	Stars         int         `json:"stars"`
	Forks         int         `json:"forks"`
	OpenIssues    int         `json:"open_issues"`
	Language      string      `json:"language"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
	Entries       []TreeEntry `json:"structure"`
}

// TreeEntry is one node in a Structure tree. Directories carry their children
// in Contents (up to the depth bound). A node may instead carry an Error for
// a subtree that could not be listed; TypeDepthLimit marks the truncation
// sentinel emitted at the depth bound.
type TreeEntry struct {
	Name     string      `json:"name,omitempty"`
	Path     string      `json:"path,omitempty"`
	Type     string      `json:"type,omitempty"`
	Size     *int        `json:"size,omitempty"`
	Contents []TreeEntry `json:"contents,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// TypeDepthLimit is the Type of the sentinel entry emitted in place of a
// subtree when traversal reaches the depth bound.
const TypeDepthLimit = "max_depth_reached"

// Status reports whether the GitHub API is reachable with the configured
// token.
type Status struct {
	State    string `json:"status"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Message  string `json:"message,omitempty"`
}
