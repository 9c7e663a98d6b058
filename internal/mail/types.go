package mail

// Message is the metadata shape returned by search. Subject and Snippet are
// the fields the agent mines for repository references.
type Message struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Date     string `json:"date"`
	Snippet  string `json:"snippet"`
}

// MessageContent is the full message shape returned by Read.
type MessageContent struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"thread_id"`
	Subject  string   `json:"subject"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Date     string   `json:"date"`
	Body     string   `json:"body"`
	Labels   []string `json:"labels"`
}

// Status reports whether the mail backend is reachable with the configured
// credentials.
type Status struct {
	State         string `json:"status"`
	Email         string `json:"email,omitempty"`
	MessagesTotal int64  `json:"messages_total,omitempty"`
	Message       string `json:"message,omitempty"`
}
