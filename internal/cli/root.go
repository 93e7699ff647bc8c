package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"vibedash/internal/api"
	"vibedash/internal/config"
	"vibedash/internal/filesystem"
	"vibedash/internal/git"
	"vibedash/internal/tui/dashboard"
)

// NewRootCommand creates the root command. Running it without a
// subcommand opens the dashboard TUI against a running backend.
func NewRootCommand(fs filesystem.FileSystem, gitClient git.Client) *cobra.Command {
	var serverURL string

	rootCmd := &cobra.Command{
		Use:   "vibedash",
		Short: "Terminal dashboard for local Python projects",
		Long: `vibedash discovers the Python projects in a directory and puts
their git, venv and GitHub chores one keypress away.

The dashboard talks to a backend started with "vibedash serve".`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(fs)
			if err != nil {
				return err
			}
			if serverURL == "" {
				serverURL = cfg.ServerURL
			}

			model := dashboard.New(api.NewClient(serverURL), serverURL)
			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run dashboard: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "backend URL (default from config)")

	rootCmd.AddCommand(NewServeCommand(fs))
	rootCmd.AddCommand(NewScanCommand(fs, gitClient))
	rootCmd.AddCommand(NewGitHubCommand(fs, gitClient, nil))

	return rootCmd
}

// Execute runs the root command with production dependencies
func Execute() error {
	fs := filesystem.NewOSFileSystem()
	gitClient := git.NewOSClient()

	rootCmd := NewRootCommand(fs, gitClient)

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}
