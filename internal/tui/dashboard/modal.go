package dashboard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"vibedash/internal/tui"
	"vibedash/internal/tui/components"
)

type modalKind int

const (
	modalConfirm modalKind = iota
	modalTextArea
	modalForm
)

// Modal is the single blocking dialog of the dashboard. Only one can
// exist at a time; opening a second while one is up is ignored.
type Modal struct {
	kind  modalKind
	title string

	// alert is an inline validation message shown when a submit was
	// rejected; the modal stays open
	alert string

	confirm components.ConfirmModel
	area    components.TextAreaModel
	inputs  []components.TextInputModel
	labels  []string
	focus   int

	// validate returns an alert message, or "" when values pass
	validate func(values []string) string

	// submit builds the command dispatched on successful confirm
	submit func(values []string) tea.Cmd
}

func newConfirmModal(title, message string, submit func() tea.Cmd) *Modal {
	return &Modal{
		kind:    modalConfirm,
		title:   title,
		confirm: components.NewConfirm(message),
		submit: func([]string) tea.Cmd {
			return submit()
		},
	}
}

func newCommitModal(submit func(message string) tea.Cmd) *Modal {
	return &Modal{
		kind:  modalTextArea,
		title: "Commit Changes",
		area:  components.NewTextArea("Enter commit message..."),
		validate: func(values []string) string {
			if strings.TrimSpace(values[0]) == "" {
				return "Please enter a commit message"
			}
			return ""
		},
		submit: func(values []string) tea.Cmd {
			return submit(values[0])
		},
	}
}

func newGitHubModal(defaultName string, submit func(name, description string) tea.Cmd) *Modal {
	return &Modal{
		kind:   modalForm,
		title:  "Create GitHub Repository",
		labels: []string{"Name", "Description"},
		inputs: []components.TextInputModel{
			components.NewTextInput("repository name", defaultName),
			components.NewTextInput("optional description", ""),
		},
		validate: func(values []string) string {
			if strings.TrimSpace(values[0]) == "" {
				return "Repository name must not be empty"
			}
			return ""
		},
		submit: func(values []string) tea.Cmd {
			return submit(strings.TrimSpace(values[0]), strings.TrimSpace(values[1]))
		},
	}
}

// Update advances the modal. closed reports that the modal finished,
// either cancelled (cmd nil) or submitted (cmd dispatches the action).
func (d *Modal) Update(msg tea.Msg) (cmd tea.Cmd, closed bool) {
	switch d.kind {
	case modalConfirm:
		d.confirm, _ = d.confirm.Update(msg)
		if !d.confirm.IsDone() {
			return nil, false
		}
		if d.confirm.IsConfirmed() {
			return d.submit(nil), true
		}
		return nil, true

	case modalTextArea:
		var c tea.Cmd
		d.area, c = d.area.Update(msg)
		if !d.area.IsDone() {
			return c, false
		}
		if d.area.IsCancelled() {
			return nil, true
		}
		return d.trySubmit([]string{d.area.GetValue()}, func() { d.area.Reset() })

	case modalForm:
		var c tea.Cmd
		d.inputs[d.focus], c = d.inputs[d.focus].Update(msg)
		current := &d.inputs[d.focus]
		if !current.IsDone() {
			return c, false
		}
		if current.IsCancelled() {
			return nil, true
		}

		if d.focus < len(d.inputs)-1 {
			current.Reset()
			current.Blur()
			d.focus++
			return d.inputs[d.focus].Focus(), false
		}

		values := make([]string, len(d.inputs))
		for i := range d.inputs {
			values[i] = d.inputs[i].GetValue()
		}
		return d.trySubmit(values, func() {
			// Invalid submit: rearm and send focus back to the first
			// field so the user can fix it
			d.inputs[d.focus].Reset()
			d.inputs[d.focus].Blur()
			d.focus = 0
			d.inputs[0].Focus()
		})
	}
	return nil, false
}

func (d *Modal) trySubmit(values []string, rearm func()) (tea.Cmd, bool) {
	if d.validate != nil {
		if alert := d.validate(values); alert != "" {
			d.alert = alert
			rearm()
			return nil, false
		}
	}
	return d.submit(values), true
}

func (d *Modal) Init() tea.Cmd {
	switch d.kind {
	case modalTextArea:
		return d.area.Init()
	case modalForm:
		return d.inputs[0].Init()
	}
	return nil
}

func (d *Modal) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render(d.title))
	b.WriteString("\n")

	if d.alert != "" {
		b.WriteString(tui.ErrorStyle.Render(d.alert))
		b.WriteString("\n\n")
	}

	switch d.kind {
	case modalConfirm:
		b.WriteString(d.confirm.View())
	case modalTextArea:
		b.WriteString(d.area.View())
		b.WriteString("\n")
		b.WriteString(tui.HelpStyle.Render("ctrl+d submit • esc cancel"))
	case modalForm:
		for i := range d.inputs {
			b.WriteString(tui.SubtleStyle.Render(d.labels[i] + ":"))
			b.WriteString("\n")
			b.WriteString(d.inputs[i].View())
			b.WriteString("\n")
		}
		b.WriteString(tui.HelpStyle.Render("enter next/submit • esc cancel"))
	}

	return tui.ModalStyle.Render(b.String())
}
