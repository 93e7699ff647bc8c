package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	huh "github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"vibedash/internal/filesystem"
	"vibedash/internal/git"
	"vibedash/internal/github"
	"vibedash/internal/tui"
)

// GitHubCommand creates a GitHub repository for a local project
// without going through the backend.
type GitHubCommand struct {
	fs  filesystem.FileSystem
	git git.Client
	gh  github.GitHubClient
}

// NewGitHubCommand creates the github command group. ghClient may be
// nil; it is then resolved from the environment at run time so tests
// can inject a mock.
func NewGitHubCommand(fs filesystem.FileSystem, gitClient git.Client, ghClient github.GitHubClient) *cobra.Command {
	cmd := &GitHubCommand{fs: fs, git: gitClient, gh: ghClient}

	groupCmd := &cobra.Command{
		Use:   "github",
		Short: "GitHub helpers",
	}

	var name, description string
	createCmd := &cobra.Command{
		Use:   "create <project-path>",
		Short: "Create a GitHub repository and wire it as origin",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.RunCreate(c, args[0], name, description)
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "repository name (prompted when omitted)")
	createCmd.Flags().StringVar(&description, "description", "", "repository description")

	groupCmd.AddCommand(createCmd)
	return groupCmd
}

// RunCreate creates the repository and adds it as origin
func (c *GitHubCommand) RunCreate(cmd *cobra.Command, path, name, description string) error {
	if !c.fs.Exists(path) {
		return fmt.Errorf("invalid project path: %s", path)
	}
	if !c.git.IsRepo(path) {
		return fmt.Errorf("%s is not a git repository, run git init first", path)
	}

	gh := c.gh
	if gh == nil {
		client, err := github.NewClientFromEnv()
		if err != nil {
			return err
		}
		gh = client
	}

	if name == "" {
		var err error
		name, description, err = c.promptRepoDetails(filepath.Base(path))
		if err != nil {
			return err
		}
		if name == "" {
			// User aborted the form
			return nil
		}
	}
	if description == "" {
		description = fmt.Sprintf("Python project: %s", name)
	}

	repo, err := gh.CreateRepository(cmd.Context(), &github.CreateRepositoryRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}

	if err := c.git.AddRemote(path, "origin", repo.CloneURL); err != nil {
		return fmt.Errorf("repository created but failed to add remote: %w", err)
	}
	if err := c.git.SetDefaultBranch(path, "main"); err != nil {
		return fmt.Errorf("failed to set default branch: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", repo.HTMLURL)
	return nil
}

// promptRepoDetails collects name and description interactively
func (c *GitHubCommand) promptRepoDetails(defaultName string) (string, string, error) {
	name := defaultName
	description := ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Repository name").
				Value(&name).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Placeholder("optional").
				Value(&description),
		).Title("Create GitHub Repository"),
	).
		WithTheme(tui.NewHuhTheme()).
		WithShowHelp(true)

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return "", "", nil
		}
		return "", "", err
	}

	return strings.TrimSpace(name), strings.TrimSpace(description), nil
}
