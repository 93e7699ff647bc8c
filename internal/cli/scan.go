package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vibedash/internal/config"
	"vibedash/internal/filesystem"
	"vibedash/internal/git"
	"vibedash/internal/models"
	"vibedash/internal/scanner"
)

// ScanCommand lists discovered projects without the TUI
type ScanCommand struct {
	fs  filesystem.FileSystem
	git git.Client
}

// NewScanCommand creates the scan command
func NewScanCommand(fs filesystem.FileSystem, gitClient git.Client) *cobra.Command {
	cmd := &ScanCommand{fs: fs, git: gitClient}

	var dir string
	cobraCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan for Python projects and print them",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c, dir)
		},
	}

	cobraCmd.Flags().StringVar(&dir, "dir", "", "directory to scan (default from config)")
	return cobraCmd
}

// Run scans and prints a table of projects
func (c *ScanCommand) Run(cmd *cobra.Command, dir string) error {
	if dir == "" {
		cfg, err := config.Load(c.fs)
		if err != nil {
			return err
		}
		dir = cfg.ProjectsDir
	}

	projects, err := scanner.New(c.fs, c.git).Scan(dir)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(projects) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No Python projects found in %s\n", dir)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tPY\tGIT\tVENV\tMODIFIED")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			p.Name, p.Type, p.PythonFiles,
			gitColumn(p.Git), venvColumn(p.Venv), p.LastModified)
	}
	return w.Flush()
}

func gitColumn(g models.GitStatus) string {
	if !g.HasGit {
		return "-"
	}
	col := g.Branch
	if col == "" {
		col = "git"
	}
	if g.HasChanges {
		col += "*"
	}
	return col
}

func venvColumn(v models.VenvStatus) string {
	switch {
	case v.Active:
		return "active"
	case v.Exists:
		return "yes"
	default:
		return "-"
	}
}
