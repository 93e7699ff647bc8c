package dashboard

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"vibedash/internal/api"
	"vibedash/internal/models"
)

const (
	// fetchTimeout mirrors the API client's deadline so a hung backend
	// resolves into an error message instead of an endless spinner
	fetchTimeout = 30 * time.Second

	// chunkSize is how many cards each render chunk reveals
	chunkSize = 8

	chunkDelay   = 15 * time.Millisecond
	wsRetryDelay = 5 * time.Second
)

func (m Model) fetchCmd(token string, rescan bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var data models.DashboardData
		var err error
		if rescan {
			data, err = client.ScanProjects(ctx)
		} else {
			data, err = client.FetchData(ctx)
		}
		if err != nil {
			return dataErrMsg{token: token, err: err}
		}
		return dataLoadedMsg{token: token, data: data}
	}
}

func chunkCmd(token string) tea.Cmd {
	return tea.Tick(chunkDelay, func(time.Time) tea.Msg {
		return renderChunkMsg{token: token}
	})
}

func (m Model) gitActionCmd(action models.ActionID, req api.GitRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		result, err := client.GitAction(ctx, string(action), req)
		return actionResultMsg{action: action, path: req.Path, result: result, err: err}
	}
}

func (m Model) venvActionCmd(action, path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		result, err := client.VenvAction(ctx, action, path)
		return actionResultMsg{action: models.ActionID("venv-" + action), path: path, result: result, err: err}
	}
}

func (m Model) openProjectCmd(path, action string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		result, err := client.OpenProject(ctx, path, action)
		return openResultMsg{result: result, err: err}
	}
}

// openURLCmd launches the platform browser at url, fire and forget.
func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		name := "xdg-open"
		if runtime.GOOS == "darwin" {
			name = "open"
		}
		if err := exec.Command(name, url).Start(); err != nil {
			return openResultMsg{err: err}
		}
		return openResultMsg{result: models.OK("Opened " + url)}
	}
}

// connectEventsCmd dials the backend's websocket. The dashboard keeps
// working without it; events only save a manual refresh.
func connectEventsCmd(serverURL string) tea.Cmd {
	return func() tea.Msg {
		wsURL := strings.Replace(serverURL, "http", "ws", 1) + "/api/events"
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			return wsClosedMsg{err: err}
		}
		return wsConnectedMsg{conn: conn}
	}
}

func waitEventCmd(conn *websocket.Conn) tea.Cmd {
	return func() tea.Msg {
		var ev struct {
			Event string `json:"event"`
		}
		if err := conn.ReadJSON(&ev); err != nil {
			conn.Close()
			return wsClosedMsg{err: err}
		}
		return wsEventMsg{event: ev.Event}
	}
}

func wsRetryCmd() tea.Cmd {
	return tea.Tick(wsRetryDelay, func(t time.Time) tea.Msg {
		return wsRetryMsg(t)
	})
}
