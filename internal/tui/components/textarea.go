package components

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// TextAreaModel wraps the bubbles textarea for multi-line input
type TextAreaModel struct {
	textarea  textarea.Model
	done      bool
	cancelled bool
}

// NewTextArea creates a new textarea component
func NewTextArea(placeholder string) TextAreaModel {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.Focus()
	ta.CharLimit = 2000
	ta.SetWidth(60)
	ta.SetHeight(5)

	return TextAreaModel{textarea: ta}
}

// Init initializes the component
func (m TextAreaModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m TextAreaModel) Update(msg tea.Msg) (TextAreaModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlD, tea.KeyCtrlS:
			m.done = true
			return m, nil
		case tea.KeyEsc:
			m.done = true
			m.cancelled = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View renders the component
func (m TextAreaModel) View() string {
	return m.textarea.View()
}

// GetValue returns the text area value
func (m TextAreaModel) GetValue() string {
	return m.textarea.Value()
}

// IsDone returns whether the user finished editing
func (m TextAreaModel) IsDone() bool {
	return m.done
}

// IsCancelled returns whether the user backed out with esc
func (m TextAreaModel) IsCancelled() bool {
	return m.cancelled
}

// Reset rearms the component keeping its current value
func (m *TextAreaModel) Reset() {
	m.done = false
	m.cancelled = false
}

// SetValue sets the text area value
func (m *TextAreaModel) SetValue(value string) {
	m.textarea.SetValue(value)
}
