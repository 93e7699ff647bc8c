package models

// ProjectType represents the kind of project entry.
//
// A folder project is a directory containing Python files; a file
// project is a standalone top-level .py script.
type ProjectType string

const (
	ProjectTypeFolder ProjectType = "folder"
	ProjectTypeFile   ProjectType = "file"
)

// VenvStatus describes the virtual environment of a project directory.
type VenvStatus struct {
	// Exists is true when venv/bin/activate is present
	Exists bool `json:"exists"`

	// Active is true when $VIRTUAL_ENV points at this venv
	Active bool `json:"active"`

	// Path is the absolute path to the venv directory
	Path string `json:"path,omitempty"`
}

// GitStatus describes the git state of a project directory.
//
// All fields other than HasGit are only meaningful when HasGit is true.
type GitStatus struct {
	HasGit bool `json:"hasGit"`

	// Branch is the currently checked-out branch
	Branch string `json:"branch,omitempty"`

	// HasChanges is true when the working tree is not clean
	HasChanges bool `json:"hasChanges"`

	// HasUnstagedChanges is true when unstaged or untracked files exist
	HasUnstagedChanges bool `json:"hasUnstagedChanges"`

	// HasStagedChanges is true when the index differs from HEAD
	HasStagedChanges bool `json:"hasStagedChanges"`

	// HasRemote is true when at least one remote is configured
	HasRemote bool `json:"hasRemote"`

	// LastCommit is "<short-sha> <subject>" of HEAD, if any
	LastCommit string `json:"lastCommit,omitempty"`
}

// Project represents one entry on the dashboard.
//
// Projects are produced by the scanner and treated as read-only by the
// UI; the identity key is Path.
type Project struct {
	Name string      `json:"name"`
	Path string      `json:"path"`
	Type ProjectType `json:"type"`

	// PythonFiles is the number of .py files found
	PythonFiles int `json:"pythonFiles"`

	// RelevantFiles is the number of non-Python files worth counting
	// (configs, docs, scripts). Zero for file projects.
	RelevantFiles int `json:"relevantFiles,omitempty"`

	// LastModified is a human-readable relative time string
	LastModified string `json:"lastModified"`

	Venv VenvStatus `json:"venv"`
	Git  GitStatus  `json:"git"`
}

// Snippet is a stored code snippet shown alongside projects.
type Snippet struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Code    string   `json:"code"`
	Tags    []string `json:"tags,omitempty"`
	Created string   `json:"created,omitempty"`
}

// Session is a recorded work session. Sessions are persisted but not
// yet surfaced anywhere in the UI.
type Session struct {
	ID      string `json:"id"`
	Project string `json:"project,omitempty"`
	Started string `json:"started,omitempty"`
	Ended   string `json:"ended,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// DashboardData is the full snapshot served by the backend and held by
// the dashboard. It is replaced wholesale on every successful fetch,
// never merged.
type DashboardData struct {
	Projects []Project `json:"projects"`
	Snippets []Snippet `json:"snippets"`
	Sessions []Session `json:"sessions"`

	// Error carries an application-level failure; when set, the other
	// fields are not meaningful.
	Error string `json:"error,omitempty"`
}

// EmptyData returns a DashboardData with all lists present but empty,
// used by the "load without scanning" recovery path.
func EmptyData() DashboardData {
	return DashboardData{
		Projects: []Project{},
		Snippets: []Snippet{},
		Sessions: []Session{},
	}
}
