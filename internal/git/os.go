package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"vibedash/internal/models"
)

// commandTimeout bounds every git subprocess. A repository on a dead
// network mount must not hang the caller indefinitely.
const commandTimeout = 30 * time.Second

// OSClient implements Client using real git commands
type OSClient struct {
	ctx context.Context
}

// NewOSClient creates a new OSClient
func NewOSClient() *OSClient {
	return &OSClient{
		ctx: context.Background(),
	}
}

// WithContext returns a new client with the given context
func (g *OSClient) WithContext(ctx context.Context) Client {
	return &OSClient{ctx: ctx}
}

// commandContext returns the context git commands run under. Clients
// without a deadline of their own get the default command timeout.
func (g *OSClient) commandContext() (context.Context, context.CancelFunc) {
	if _, ok := g.ctx.Deadline(); ok {
		return g.ctx, func() {}
	}
	return context.WithTimeout(g.ctx, commandTimeout)
}

// run executes git with -C so the command applies to the project path
func (g *OSClient) run(path string, args ...string) (string, error) {
	ctx, cancel := g.commandContext()
	defer cancel()

	full := append([]string{"-C", path}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(out.String())
		}
		return "", fmt.Errorf("git %s failed: %w: %s", args[0], err, msg)
	}

	return strings.TrimSpace(out.String()), nil
}

// IsRepo checks whether the path contains a git repository
func (g *OSClient) IsRepo(path string) bool {
	_, err := g.run(path, "rev-parse", "--git-dir")
	return err == nil
}

// Status derives the full git status of a project. A path without a
// repository returns HasGit=false and no error.
func (g *OSClient) Status(path string) (models.GitStatus, error) {
	if !g.IsRepo(path) {
		return models.GitStatus{HasGit: false}, nil
	}

	status := models.GitStatus{HasGit: true}

	// Branch can be empty on a detached HEAD; that is fine
	if branch, err := g.run(path, "branch", "--show-current"); err == nil {
		status.Branch = branch
	}

	porcelain, err := g.run(path, "status", "--porcelain")
	if err != nil {
		return status, fmt.Errorf("failed to get status for %s: %w", path, err)
	}
	flags := parsePorcelain(porcelain)
	status.HasChanges = flags.HasChanges
	status.HasUnstagedChanges = flags.HasUnstagedChanges
	status.HasStagedChanges = flags.HasStagedChanges

	if remotes, err := g.run(path, "remote", "-v"); err == nil {
		status.HasRemote = remotes != ""
	}

	// Repos without a commit yet have no log; ignore the error
	if last, err := g.run(path, "log", "-1", "--pretty=format:%h %s"); err == nil {
		status.LastCommit = last
	}

	return status, nil
}

// ShortStatus returns `git status --short` output, with a friendly
// placeholder for a clean tree.
func (g *OSClient) ShortStatus(path string) (string, error) {
	out, err := g.run(path, "status", "--short")
	if err != nil {
		return "", err
	}
	if out == "" {
		return "Working tree clean", nil
	}
	return out, nil
}

// RemoteInfo collects the branch, configured remotes and remote
// branches of a repository.
func (g *OSClient) RemoteInfo(path string) (models.RemoteInfo, error) {
	branch, err := g.run(path, "branch", "--show-current")
	if err != nil {
		return models.RemoteInfo{}, fmt.Errorf("failed to get current branch: %w", err)
	}

	remotes, err := g.run(path, "remote", "-v")
	if err != nil {
		return models.RemoteInfo{}, fmt.Errorf("failed to list remotes: %w", err)
	}
	if remotes == "" {
		remotes = "(no remotes configured)"
	}

	remoteBranches, err := g.run(path, "branch", "-r")
	if err != nil {
		return models.RemoteInfo{}, fmt.Errorf("failed to list remote branches: %w", err)
	}
	if remoteBranches == "" {
		remoteBranches = "(no remote branches)"
	}

	return models.RemoteInfo{
		CurrentBranch:  branch,
		Remotes:        remotes,
		RemoteBranches: remoteBranches,
	}, nil
}

// Init initializes a repository and sets the user identity
func (g *OSClient) Init(path, userName, userEmail string) error {
	if _, err := g.run(path, "init"); err != nil {
		return err
	}
	if userEmail != "" {
		if _, err := g.run(path, "config", "user.email", userEmail); err != nil {
			return err
		}
	}
	if userName != "" {
		if _, err := g.run(path, "config", "user.name", userName); err != nil {
			return err
		}
	}
	return nil
}

// AddAll stages everything under the project path
func (g *OSClient) AddAll(path string) error {
	_, err := g.run(path, "add", ".")
	return err
}

// Commit commits staged changes with the given message
func (g *OSClient) Commit(path, message string) error {
	_, err := g.run(path, "commit", "-m", message)
	return err
}

// Push pushes the current branch to its remote
func (g *OSClient) Push(path string) error {
	_, err := g.run(path, "push")
	return err
}

// Pull pulls from the remote into the current branch
func (g *OSClient) Pull(path string) error {
	_, err := g.run(path, "pull")
	return err
}

// AddRemote registers a remote under the given name
func (g *OSClient) AddRemote(path, name, url string) error {
	_, err := g.run(path, "remote", "add", name, url)
	return err
}

// SetDefaultBranch renames the current branch
func (g *OSClient) SetDefaultBranch(path, branch string) error {
	_, err := g.run(path, "branch", "-M", branch)
	return err
}
