package dashboard

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	successToastDuration = 3 * time.Second
	errorToastDuration   = 8 * time.Second

	// errorLogCapacity bounds the error log; the oldest entry is
	// evicted when a new one would exceed it
	errorLogCapacity = 10
)

// Toast is a transient notification line.
type Toast struct {
	ID      string
	Text    string
	IsError bool
}

// LogEntry is one retained error, newest first in Model.errorLog.
type LogEntry struct {
	ID   string
	When time.Time
	Text string
}

func newNotificationID() string {
	return gonanoid.Must(8)
}

// pushToast appends a toast and schedules its expiry. Error toasts
// live longer and are additionally retained in the error log.
func (m *Model) pushToast(text string, isError bool) tea.Cmd {
	id := newNotificationID()
	m.toasts = append(m.toasts, Toast{ID: id, Text: text, IsError: isError})

	duration := successToastDuration
	if isError {
		duration = errorToastDuration
		m.logError(text)
	}

	return tea.Tick(duration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) expireToast(id string) {
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// logError prepends to the error log, evicting the oldest entry past
// capacity.
func (m *Model) logError(text string) {
	entry := LogEntry{ID: newNotificationID(), When: m.now(), Text: text}
	m.errorLog = append([]LogEntry{entry}, m.errorLog...)
	if len(m.errorLog) > errorLogCapacity {
		m.errorLog = m.errorLog[:errorLogCapacity]
	}
}

// clearErrorLog empties the log, used by the clear key inside the log
// panel.
func (m *Model) clearErrorLog() {
	m.errorLog = nil
}
