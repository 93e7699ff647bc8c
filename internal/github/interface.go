package github

import (
	"context"
)

// Repository holds the fields of a created repository the dashboard
// cares about.
type Repository struct {
	Owner    string
	Name     string
	FullName string

	// HTMLURL is the browsable https://github.com/... address
	HTMLURL string

	// CloneURL is the https clone address used to wire the remote
	CloneURL string
}

// CreateRepositoryRequest describes the repository to create.
type CreateRepositoryRequest struct {
	Name        string
	Description string
	Private     bool
}

// GitHubClient provides an abstraction over the GitHub API for
// testability.
type GitHubClient interface {
	// CreateRepository creates a repository under the authenticated
	// user and returns it.
	CreateRepository(ctx context.Context, req *CreateRepositoryRequest) (*Repository, error)
}
