package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TextInputModel wraps the bubbles textinput for single-line fields
type TextInputModel struct {
	input     textinput.Model
	done      bool
	cancelled bool
}

// NewTextInput creates a new single-line input component
func NewTextInput(placeholder, initial string) TextInputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(initial)
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 48

	return TextInputModel{input: ti}
}

// Init initializes the component
func (m TextInputModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m TextInputModel) Update(msg tea.Msg) (TextInputModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, nil
		case tea.KeyEsc:
			m.done = true
			m.cancelled = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the component
func (m TextInputModel) View() string {
	return m.input.View()
}

// GetValue returns the input value
func (m TextInputModel) GetValue() string {
	return m.input.Value()
}

// IsDone returns whether the user finished
func (m TextInputModel) IsDone() bool {
	return m.done
}

// IsCancelled returns whether the user backed out with esc
func (m TextInputModel) IsCancelled() bool {
	return m.cancelled
}

// Reset rearms the component keeping its current value
func (m *TextInputModel) Reset() {
	m.done = false
	m.cancelled = false
}

// Focus focuses the input
func (m *TextInputModel) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur unfocuses the input
func (m *TextInputModel) Blur() {
	m.input.Blur()
}
