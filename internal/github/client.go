package github

import (
	"context"
	"fmt"
	"os"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client implements GitHubClient using the real GitHub API
type Client struct {
	client *github.Client
}

var (
	ErrGitHubTokenNotFound = fmt.Errorf("GITHUB_TOKEN or GH_TOKEN environment variable not found")
)

// NewClient creates a new GitHub API client
func NewClient(token string) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
	}
}

// NewClientFromEnv creates a GitHub client using the token from environment variables
func NewClientFromEnv() (*Client, error) {
	token := os.Getenv("GH_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, ErrGitHubTokenNotFound
	}

	return NewClient(token), nil
}

func (c *Client) CreateRepository(ctx context.Context, req *CreateRepositoryRequest) (*Repository, error) {
	ghRepo := &github.Repository{
		Name:        &req.Name,
		Description: &req.Description,
		Private:     &req.Private,
	}

	// Empty org string creates the repository under the
	// authenticated user
	repo, _, err := c.client.Repositories.Create(ctx, "", ghRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository %s: %w", req.Name, err)
	}

	return convertRepository(repo), nil
}

func convertRepository(r *github.Repository) *Repository {
	return &Repository{
		Owner:    r.GetOwner().GetLogin(),
		Name:     r.GetName(),
		FullName: r.GetFullName(),
		HTMLURL:  r.GetHTMLURL(),
		CloneURL: r.GetCloneURL(),
	}
}
