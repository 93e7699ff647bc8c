package git

import (
	"context"

	"vibedash/internal/models"
)

// Client provides an abstraction over per-project git operations for
// testability.
//
// Every operation takes the project path explicitly; the dashboard
// manages many repositories at once and no working directory is
// assumed. Implementations must tolerate being called on paths that
// are not repositories: Status reports HasGit=false instead of
// failing.
type Client interface {
	// Inspection
	IsRepo(path string) bool
	Status(path string) (models.GitStatus, error)
	ShortStatus(path string) (string, error)
	RemoteInfo(path string) (models.RemoteInfo, error)

	// Mutations
	Init(path, userName, userEmail string) error
	AddAll(path string) error
	Commit(path, message string) error
	Push(path string) error
	Pull(path string) error
	AddRemote(path, name, url string) error
	SetDefaultBranch(path, branch string) error

	// Context support for command timeouts
	WithContext(ctx context.Context) Client
}
