package models

// RemoteInfo is the payload of the git remote-info action.
type RemoteInfo struct {
	CurrentBranch  string `json:"current_branch"`
	Remotes        string `json:"remotes"`
	RemoteBranches string `json:"remote_branches"`
}

// ActionResult is the uniform response envelope for every project
// action endpoint. Exactly one of Message or Error is set depending on
// Success; Output, URL and Info are action-specific extras.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`

	// Output carries the raw git status text (status action)
	Output string `json:"output,omitempty"`

	// URL is the created repository URL (create-github action)
	URL string `json:"url,omitempty"`

	// Info is the remote summary (remote-info action)
	Info *RemoteInfo `json:"info,omitempty"`
}

// Text returns the user-facing line for a toast: the message on
// success, the error otherwise.
func (r ActionResult) Text() string {
	if r.Success {
		return r.Message
	}
	return r.Error
}

// OK builds a successful result with a message.
func OK(message string) ActionResult {
	return ActionResult{Success: true, Message: message}
}

// Fail builds a failed result with an error string.
func Fail(err string) ActionResult {
	return ActionResult{Success: false, Error: err}
}
