package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"vibedash/internal/timeutil"
	"vibedash/internal/tui"
)

func (m Model) View() string {
	switch m.state {
	case stateLoading:
		return fmt.Sprintf("\n %s Loading projects...\n\n%s",
			m.spinner.View(),
			tui.HelpStyle.Render(" this can take a moment on large directories"))

	case stateFailed:
		var b strings.Builder
		b.WriteString("\n")
		b.WriteString(tui.ErrorStyle.Render(" ✗ Could not load dashboard data"))
		b.WriteString("\n\n ")
		b.WriteString(fetchErrorText(m.loadErr))
		b.WriteString("\n")
		b.WriteString(tui.HelpStyle.Render(" r retry • l continue without projects • q quit"))
		return b.String()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())

	switch {
	case m.modal != nil:
		b.WriteString("\n")
		b.WriteString(m.modal.View())
		b.WriteString("\n")
	case m.panel != nil:
		b.WriteString("\n")
		b.WriteString(tui.HeaderStyle.Render(m.panel.title))
		b.WriteString("\n")
		b.WriteString(m.panel.viewport.View())
		b.WriteString("\n")
		if m.panel.title == "Error Log" {
			b.WriteString(tui.HelpStyle.Render("↑↓ scroll • c clear • esc close"))
		} else {
			b.WriteString(tui.HelpStyle.Render("↑↓ scroll • esc close"))
		}
	default:
		b.WriteString(m.viewGrid())
		b.WriteString("\n")
		b.WriteString(m.viewFooter())
	}

	return b.String()
}

func (m Model) viewHeader() string {
	title := tui.TitleStyle.Render("🐍 vibedash")
	counts := tui.SubtleStyle.Render(fmt.Sprintf("%d projects • %d snippets",
		len(m.data.Projects), len(m.data.Snippets)))

	line := title + "  " + counts
	if m.inFlight {
		line += tui.SubtleStyle.Render("  working…")
	}

	for _, t := range m.toasts {
		line += "\n"
		if t.IsError {
			line += tui.ToastErrorStyle.Render(t.Text)
		} else {
			line += tui.ToastSuccessStyle.Render(t.Text)
		}
	}
	return line + "\n"
}

func (m Model) viewGrid() string {
	if len(m.data.Projects) == 0 {
		return "\n" + renderEmptyState("")
	}

	var rows []string
	for start := 0; start < m.visible; start += m.cols {
		end := min(start+m.cols, m.visible)
		var cards []string
		for i := start; i < end; i++ {
			cards = append(cards, renderCard(m.data.Projects[i], i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	grid := strings.Join(rows, "\n")
	if m.visible < len(m.data.Projects) {
		grid += "\n" + tui.SubtleStyle.Render(
			fmt.Sprintf("rendering %d of %d…", m.visible, len(m.data.Projects)))
	}
	return grid
}

func (m Model) viewFooter() string {
	help := "↑↓←→ move • enter primary action • a add • c commit • p push • P pull • d status • n remotes • i init • G github • o editor • t terminal • v/A/V venv • e errors • r refresh • s rescan • q quit"
	line := tui.HelpStyle.Render(help)

	if n := len(m.errorLog); n > 0 {
		line += "\n" + tui.ErrorStyle.Render(fmt.Sprintf("%d error(s) logged • press e", n))
	}
	return line
}

func renderErrorLog(entries []LogEntry, now time.Time) string {
	if len(entries) == 0 {
		return tui.SubtleStyle.Render("No errors recorded.")
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(tui.SubtleStyle.Render(timeutil.Relative(e.When, now)))
		b.WriteString("  ")
		b.WriteString(e.Text)
		b.WriteString("\n")
	}
	return b.String()
}
