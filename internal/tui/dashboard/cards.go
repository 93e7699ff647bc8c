package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vibedash/internal/models"
	"vibedash/internal/tui"
)

const cardWidth = 38

// renderCard draws one project card: name and type, file counts,
// venv state, and the git workflow widget.
func renderCard(p models.Project, selected bool) string {
	var b strings.Builder

	icon := "📁"
	if p.Type == models.ProjectTypeFile {
		icon = "📄"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s %s", icon, p.Name)))
	b.WriteString("\n")
	b.WriteString(tui.SubtleStyle.Render(truncate(p.Path, cardWidth-2)))
	b.WriteString("\n")

	files := fmt.Sprintf("%d py", p.PythonFiles)
	if p.RelevantFiles > p.PythonFiles {
		files += fmt.Sprintf(" / %d files", p.RelevantFiles)
	}
	b.WriteString(tui.DescStyle.Render(fmt.Sprintf("%s • %s", files, p.LastModified)))
	b.WriteString("\n")

	b.WriteString(renderVenvBadge(p.Venv))
	b.WriteString("\n")
	b.WriteString(renderWorkflow(p.Git))

	style := tui.CardStyle
	if selected {
		style = tui.SelectedCardStyle
	}
	return style.Width(cardWidth).Render(b.String())
}

func renderVenvBadge(v models.VenvStatus) string {
	switch {
	case v.Active:
		return tui.SuccessStyle.Render("venv active")
	case v.Exists:
		return tui.SubtleStyle.Render("venv ready")
	default:
		return tui.SubtleStyle.Render("no venv")
	}
}

// renderWorkflow draws the git workflow widget: the current state
// badge, branch, and the action set with the primary action
// highlighted.
func renderWorkflow(g models.GitStatus) string {
	state := models.DeriveWorkflowState(g)

	badge := tui.BadgeStyle.Render(string(state))
	switch state {
	case models.WorkflowUnstaged:
		badge = tui.WarnStyle.Render("● unstaged")
	case models.WorkflowStaged:
		badge = tui.SelectedStyle.Render("● staged")
	case models.WorkflowClean:
		badge = tui.SuccessStyle.Render("● clean")
	case models.WorkflowNoGit:
		badge = tui.SubtleStyle.Render("○ no git")
	}

	line := badge
	if g.Branch != "" {
		line += tui.SubtleStyle.Render(" " + g.Branch)
	}

	var actions []string
	for _, a := range models.WorkflowActions(g) {
		if a.Primary {
			actions = append(actions, tui.PrimaryActionStyle.Render(a.Label))
		} else {
			actions = append(actions, tui.ActionStyle.Render(a.Label))
		}
	}

	return line + "\n" + strings.Join(actions, " ")
}

// renderEmptyState is shown when the scan found no projects at all
func renderEmptyState(projectsDirHint string) string {
	msg := "No Python projects found"
	if projectsDirHint != "" {
		msg += " in " + projectsDirHint
	}
	return tui.CardStyle.Width(cardWidth + 8).Render(
		msg + "\n\n" + tui.SubtleStyle.Render("Drop a folder with .py files there and press s to rescan"))
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return s[:width-1] + "…"
}
