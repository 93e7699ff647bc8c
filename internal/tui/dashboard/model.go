package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"vibedash/internal/api"
	"vibedash/internal/models"
	"vibedash/internal/tui"
)

type state int

const (
	stateLoading state = iota
	stateFailed
	stateReady
)

// panel is a scrollable text overlay (git status output, remote info,
// error log).
type panel struct {
	title    string
	viewport viewport.Model
}

// Model is the dashboard's bubbletea model.
type Model struct {
	client    *api.Client
	serverURL string

	state   state
	loadErr error
	spinner spinner.Model

	data models.DashboardData

	// genToken identifies the current request generation; responses
	// carrying an older token are dropped
	genToken string

	// visible is how many cards are revealed so far
	visible int

	cursor int
	cols   int
	width  int
	height int

	toasts   []Toast
	errorLog []LogEntry

	panel *panel
	modal *Modal

	wsConn   *websocket.Conn
	inFlight bool

	// now is replaceable in tests
	now func() time.Time
}

// New creates the dashboard model talking to the backend at serverURL.
func New(client *api.Client, serverURL string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tui.SelectedStyle

	return Model{
		client:    client,
		serverURL: serverURL,
		state:     stateLoading,
		spinner:   sp,
		genToken:  uuid.NewString(),
		cols:      2,
		now:       time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.fetchCmd(m.genToken, false),
		connectEventsCmd(m.serverURL),
	)
}

// refresh starts a new request generation and fetches. Any in-flight
// response from the previous generation becomes stale.
func (m *Model) refresh(rescan bool) tea.Cmd {
	m.genToken = uuid.NewString()
	return m.fetchCmd(m.genToken, rescan)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cols = max(1, msg.Width/(cardWidth+4))
		if m.panel != nil {
			m.panel.viewport.Width = msg.Width - 4
			m.panel.viewport.Height = msg.Height - 6
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dataLoadedMsg:
		if msg.token != m.genToken {
			return m, nil
		}
		m.state = stateReady
		m.loadErr = nil
		m.data = msg.data
		m.visible = min(chunkSize, len(m.data.Projects))
		if m.cursor >= len(m.data.Projects) {
			m.cursor = max(0, len(m.data.Projects)-1)
		}
		if m.visible < len(m.data.Projects) {
			return m, chunkCmd(m.genToken)
		}
		return m, nil

	case dataErrMsg:
		if msg.token != m.genToken {
			return m, nil
		}
		if m.state == stateLoading {
			m.state = stateFailed
			m.loadErr = msg.err
			return m, nil
		}
		// A refresh failure keeps the stale-but-usable data on screen
		return m, m.pushToast(fetchErrorText(msg.err), true)

	case renderChunkMsg:
		if msg.token != m.genToken {
			return m, nil
		}
		m.visible = min(m.visible+chunkSize, len(m.data.Projects))
		if m.visible < len(m.data.Projects) {
			return m, chunkCmd(m.genToken)
		}
		return m, nil

	case actionResultMsg:
		return m.handleActionResult(msg)

	case openResultMsg:
		m.inFlight = false
		if msg.err != nil {
			return m, m.pushToast(msg.err.Error(), true)
		}
		return m, m.pushToast(msg.result.Text(), !msg.result.Success)

	case toastExpiredMsg:
		m.expireToast(msg.id)
		return m, nil

	case wsConnectedMsg:
		m.wsConn = msg.conn
		return m, waitEventCmd(msg.conn)

	case wsEventMsg:
		var cmds []tea.Cmd
		if m.wsConn != nil {
			cmds = append(cmds, waitEventCmd(m.wsConn))
		}
		if msg.event == "projects-updated" && !m.inFlight {
			cmds = append(cmds, m.refresh(false))
		}
		return m, tea.Batch(cmds...)

	case wsClosedMsg:
		m.wsConn = nil
		return m, wsRetryCmd()

	case wsRetryMsg:
		if m.wsConn != nil {
			return m, nil
		}
		return m, connectEventsCmd(m.serverURL)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleActionResult(msg actionResultMsg) (tea.Model, tea.Cmd) {
	m.inFlight = false

	if msg.err != nil {
		return m, m.pushToast(fetchErrorText(msg.err), true)
	}

	result := msg.result
	if !result.Success {
		return m, m.pushToast(result.Error, true)
	}

	// Read-only actions open a panel instead of toasting
	switch msg.action {
	case models.ActionGitStatus:
		m.openPanel("Git Status", result.Output)
		return m, nil
	case models.ActionGitRemoteInfo:
		m.openPanel("Remote Info", formatRemoteInfo(result.Info))
		return m, nil
	}

	text := result.Message
	if result.URL != "" {
		text = fmt.Sprintf("%s • %s", result.Message, result.URL)
	}

	// A created repository gets a follow-up prompt to open it
	if msg.action == models.ActionGitCreateGitHub && result.URL != "" && m.modal == nil {
		url := result.URL
		m.modal = newConfirmModal("Repository Created",
			fmt.Sprintf("Open %s in your browser?", url),
			func() tea.Cmd {
				return openURLCmd(url)
			})
		return m, tea.Batch(m.pushToast(text, false), m.refresh(false), m.modal.Init())
	}

	// Mutations refresh the snapshot so the cards reflect reality
	return m, tea.Batch(m.pushToast(text, false), m.refresh(false))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.closeWS()
		return m, tea.Quit
	}

	// A modal swallows all input while open
	if m.modal != nil {
		cmd, closed := m.modal.Update(msg)
		if closed {
			m.modal = nil
			if cmd != nil {
				m.inFlight = true
			}
		}
		return m, cmd
	}

	if m.panel != nil {
		return m.handlePanelKey(msg)
	}

	switch m.state {
	case stateLoading:
		return m, nil
	case stateFailed:
		return m.handleFailedKey(msg)
	default:
		return m.handleGridKey(msg)
	}
}

func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.panel = nil
		return m, nil
	case "c":
		if m.panel.title == "Error Log" {
			m.clearErrorLog()
			m.panel.viewport.SetContent(renderErrorLog(m.errorLog, m.now()))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.panel.viewport, cmd = m.panel.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleFailedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.closeWS()
		return m, tea.Quit
	case "r":
		m.state = stateLoading
		return m, tea.Batch(m.spinner.Tick, m.refresh(false))
	case "l":
		// Continue with an empty dashboard instead of retrying
		m.state = stateReady
		m.data = models.EmptyData()
		m.visible = 0
		return m, nil
	}
	return m, nil
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.closeWS()
		return m, tea.Quit

	case "r":
		return m, m.refresh(false)
	case "s":
		return m, m.refresh(true)

	case "up", "k":
		m.cursor = max(0, m.cursor-m.cols)
	case "down", "j":
		if m.cursor+m.cols < len(m.data.Projects) {
			m.cursor += m.cols
		}
	case "left", "h":
		m.cursor = max(0, m.cursor-1)
	case "right", "l":
		m.cursor = min(max(0, len(m.data.Projects)-1), m.cursor+1)

	case "e":
		m.openPanel("Error Log", renderErrorLog(m.errorLog, m.now()))
		return m, nil

	case "enter":
		return m.dispatchPrimary()

	case "a":
		return m.dispatchGit(models.ActionGitAdd, requireGit)
	case "c":
		return m.openCommitModal()
	case "p":
		return m.dispatchGit(models.ActionGitPush, requireRemote)
	case "P":
		return m.dispatchGit(models.ActionGitPull, requireRemote)
	case "d":
		return m.dispatchGit(models.ActionGitStatus, requireGit)
	case "n":
		return m.dispatchGit(models.ActionGitRemoteInfo, requireGit)
	case "i":
		return m.openInitModal()
	case "G":
		return m.openGitHubModal()

	case "o":
		return m.dispatchOpen("code")
	case "t":
		return m.dispatchOpen("terminal")

	case "v":
		return m.openVenvModal("create")
	case "A":
		return m.dispatchVenv("activate")
	case "V":
		return m.openVenvModal("delete")
	}
	return m, nil
}

// Guards for git actions on the selected project
type gitGuard func(models.GitStatus) string

func requireGit(g models.GitStatus) string {
	if !g.HasGit {
		return "Project has no git repository"
	}
	return ""
}

func requireRemote(g models.GitStatus) string {
	if !g.HasGit {
		return "Project has no git repository"
	}
	if !g.HasRemote {
		return "No remote configured"
	}
	return ""
}

func (m Model) selected() (models.Project, bool) {
	if m.cursor < 0 || m.cursor >= len(m.data.Projects) {
		return models.Project{}, false
	}
	return m.data.Projects[m.cursor], true
}

func (m Model) dispatchGit(action models.ActionID, guard gitGuard) (tea.Model, tea.Cmd) {
	p, ok := m.selected()
	if !ok || m.inFlight {
		return m, nil
	}
	if guard != nil {
		if reason := guard(p.Git); reason != "" {
			return m, m.pushToast(reason, true)
		}
	}
	m.inFlight = true
	return m, m.gitActionCmd(action, api.GitRequest{Path: p.Path})
}

func (m Model) dispatchPrimary() (tea.Model, tea.Cmd) {
	p, ok := m.selected()
	if !ok || m.inFlight {
		return m, nil
	}

	actions := models.WorkflowActions(p.Git)
	for _, a := range actions {
		if !a.Primary {
			continue
		}
		switch a.ID {
		case models.ActionGitInit:
			return m.openInitModal()
		case models.ActionGitCommit:
			return m.openCommitModal()
		case models.ActionGitCreateGitHub:
			return m.openGitHubModal()
		default:
			m.inFlight = true
			return m, m.gitActionCmd(a.ID, api.GitRequest{Path: p.Path})
		}
	}
	return m, nil
}

func (m Model) dispatchOpen(action string) (tea.Model, tea.Cmd) {
	p, ok := m.selected()
	if !ok || m.inFlight {
		return m, nil
	}
	m.inFlight = true
	return m, m.openProjectCmd(p.Path, action)
}

func (m Model) dispatchVenv(action string) (tea.Model, tea.Cmd) {
	p, ok := m.selected()
	if !ok || m.inFlight {
		return m, nil
	}
	m.inFlight = true
	return m, m.venvActionCmd(action, p.Path)
}

func (m Model) openInitModal() (tea.Model, tea.Cmd) {
	p, ok := m.selected()
	if !ok || m.modal != nil {
		return m, nil
	}
	if p.Git.HasGit {
		return m, m.pushToast("Project already has a git repository", true)
	}

	path := p.Path
	m.modal = newConfirmModal("Initialize Git",
		fmt.Sprintf("Initialize a git repository in %s?", p.Name),
		func() tea.Cmd {
			return m.gitActionCmd(models.ActionGitInit, api.GitRequest{Path: path})
		})
	return m, m.modal.Init()
}

func (m Model) openCommitModal() (tea.Model, tea.Cmd) {
	p, ok := m.selected()
	if !ok || m.modal != nil {
		return m, nil
	}
	if reason := requireGit(p.Git); reason != "" {
		return m, m.pushToast(reason, true)
	}

	path := p.Path
	m.modal = newCommitModal(func(message string) tea.Cmd {
		return m.gitActionCmd(models.ActionGitCommit, api.GitRequest{Path: path, Message: message})
	})
	return m, m.modal.Init()
}

func (m Model) openGitHubModal() (tea.Model, tea.Cmd) {
	p, ok := m.selected()
	if !ok || m.modal != nil {
		return m, nil
	}
	if reason := requireGit(p.Git); reason != "" {
		return m, m.pushToast(reason, true)
	}
	if p.Git.HasRemote {
		return m, m.pushToast("Project already has a remote", true)
	}

	path := p.Path
	m.modal = newGitHubModal(p.Name, func(name, description string) tea.Cmd {
		return m.gitActionCmd(models.ActionGitCreateGitHub, api.GitRequest{
			Path:        path,
			Name:        name,
			Description: description,
		})
	})
	return m, m.modal.Init()
}

func (m Model) openVenvModal(action string) (tea.Model, tea.Cmd) {
	p, ok := m.selected()
	if !ok || m.modal != nil {
		return m, nil
	}

	var title, message string
	switch action {
	case "create":
		title = "Create Virtual Environment"
		message = fmt.Sprintf("Run python3 -m venv venv in %s?", p.Name)
	case "delete":
		title = "Delete Virtual Environment"
		message = fmt.Sprintf("Delete the venv of %s? This cannot be undone.", p.Name)
	}

	path := p.Path
	m.modal = newConfirmModal(title, message, func() tea.Cmd {
		return m.venvActionCmd(action, path)
	})
	return m, m.modal.Init()
}

func (m *Model) openPanel(title, content string) {
	vp := viewport.New(max(40, m.width-4), max(10, m.height-6))
	vp.SetContent(content)
	m.panel = &panel{title: title, viewport: vp}
}

func (m *Model) closeWS() {
	if m.wsConn != nil {
		m.wsConn.Close()
		m.wsConn = nil
	}
}

// fetchErrorText maps client errors onto the strings users see.
func fetchErrorText(err error) string {
	if errors.Is(err, api.ErrTimeout) {
		return "Server did not respond within 30 seconds. It may still be scanning a large directory."
	}
	return err.Error()
}

func formatRemoteInfo(info *models.RemoteInfo) string {
	if info == nil {
		return "(no remote information)"
	}
	return fmt.Sprintf("Current branch: %s\n\nRemotes:\n%s\n\nRemote branches:\n%s",
		info.CurrentBranch, info.Remotes, info.RemoteBranches)
}
