package dashboard

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibedash/internal/api"
	"vibedash/internal/models"
)

func newTestModel() Model {
	m := New(api.NewClient("http://127.0.0.1:8990"), "http://127.0.0.1:8990")
	m.now = func() time.Time {
		return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
	return m
}

func loadedModel(projects ...models.Project) Model {
	m := newTestModel()
	next, _ := m.Update(dataLoadedMsg{
		token: m.genToken,
		data: models.DashboardData{
			Projects: projects,
			Snippets: []models.Snippet{},
			Sessions: []models.Session{},
		},
	})
	return next.(Model)
}

func repoProject(name string, git models.GitStatus) models.Project {
	return models.Project{
		Name: name, Path: "/projects/" + name,
		Type: models.ProjectTypeFolder, PythonFiles: 1,
		Git: git,
	}
}

func TestDataLoadedTransitionsToReady(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{}))
	assert.Equal(t, stateReady, m.state)
	assert.Equal(t, 1, m.visible)
}

func TestStaleResponseIsDropped(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{}))

	next, _ := m.Update(dataLoadedMsg{
		token: "stale-token",
		data: models.DashboardData{
			Projects: []models.Project{repoProject("other", models.GitStatus{})},
		},
	})
	m = next.(Model)

	require.Len(t, m.data.Projects, 1)
	assert.Equal(t, "app", m.data.Projects[0].Name)
}

func TestStaleErrorIsDropped(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{}))

	next, _ := m.Update(dataErrMsg{token: "stale-token", err: api.ErrTimeout})
	m = next.(Model)

	assert.Equal(t, stateReady, m.state)
	assert.Empty(t, m.toasts)
}

func TestInitialFetchFailureShowsErrorState(t *testing.T) {
	m := newTestModel()
	next, _ := m.Update(dataErrMsg{token: m.genToken, err: api.ErrTimeout})
	m = next.(Model)

	assert.Equal(t, stateFailed, m.state)
	assert.Contains(t, m.View(), "30 seconds")
}

func TestRefreshFailureKeepsDataAndToasts(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{}))

	next, _ := m.Update(dataErrMsg{token: m.genToken, err: api.ErrTimeout})
	m = next.(Model)

	assert.Equal(t, stateReady, m.state)
	require.Len(t, m.data.Projects, 1)
	require.Len(t, m.toasts, 1)
	assert.True(t, m.toasts[0].IsError)
}

func TestFailedStateContinueWithoutProjects(t *testing.T) {
	m := newTestModel()
	next, _ := m.Update(dataErrMsg{token: m.genToken, err: api.ErrTimeout})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	m = next.(Model)

	assert.Equal(t, stateReady, m.state)
	assert.Empty(t, m.data.Projects)
	assert.Contains(t, m.View(), "No Python projects found")
}

func TestChunkedRenderingRevealsInBatches(t *testing.T) {
	projects := make([]models.Project, 20)
	for i := range projects {
		projects[i] = repoProject(fmt.Sprintf("p%02d", i), models.GitStatus{})
	}
	m := loadedModel(projects...)
	assert.Equal(t, chunkSize, m.visible)

	next, cmd := m.Update(renderChunkMsg{token: m.genToken})
	m = next.(Model)
	assert.Equal(t, 2*chunkSize, m.visible)
	require.NotNil(t, cmd)

	next, cmd = m.Update(renderChunkMsg{token: m.genToken})
	m = next.(Model)
	assert.Equal(t, 20, m.visible)
	assert.Nil(t, cmd)
}

func TestErrorLogCapped(t *testing.T) {
	m := loadedModel()
	for i := 0; i < 11; i++ {
		m.pushToast(fmt.Sprintf("boom %d", i), true)
	}

	require.Len(t, m.errorLog, errorLogCapacity)
	// Newest first; the very first error fell off
	assert.Equal(t, "boom 10", m.errorLog[0].Text)
	assert.Equal(t, "boom 1", m.errorLog[len(m.errorLog)-1].Text)
}

func TestToastExpires(t *testing.T) {
	m := loadedModel()
	m.pushToast("done", false)
	require.Len(t, m.toasts, 1)

	next, _ := m.Update(toastExpiredMsg{id: m.toasts[0].ID})
	m = next.(Model)
	assert.Empty(t, m.toasts)
}

func TestActionSuccessToastsAndRefreshes(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{HasGit: true}))
	before := m.genToken

	next, cmd := m.Update(actionResultMsg{
		action: models.ActionGitAdd,
		path:   "/projects/app",
		result: models.OK("Files added to git staging area"),
	})
	m = next.(Model)

	require.Len(t, m.toasts, 1)
	assert.False(t, m.toasts[0].IsError)
	assert.NotEqual(t, before, m.genToken, "success should start a new request generation")
	assert.NotNil(t, cmd)
}

func TestActionFailureToastsError(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{HasGit: true}))
	before := m.genToken

	next, _ := m.Update(actionResultMsg{
		action: models.ActionGitPush,
		path:   "/projects/app",
		result: models.Fail("remote rejected"),
	})
	m = next.(Model)

	require.Len(t, m.toasts, 1)
	assert.True(t, m.toasts[0].IsError)
	assert.Equal(t, before, m.genToken, "failure must not refresh")
	require.Len(t, m.errorLog, 1)
}

func TestStatusResultOpensPanel(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{HasGit: true}))

	result := models.OK("Git Status:\n M main.py")
	result.Output = " M main.py"
	next, _ := m.Update(actionResultMsg{action: models.ActionGitStatus, result: result})
	m = next.(Model)

	require.NotNil(t, m.panel)
	assert.Equal(t, "Git Status", m.panel.title)
	assert.Empty(t, m.toasts)
}

func TestRemoteInfoResultOpensPanel(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{HasGit: true, HasRemote: true}))

	result := models.ActionResult{Success: true, Info: &models.RemoteInfo{
		CurrentBranch: "main", Remotes: "origin", RemoteBranches: "origin/main",
	}}
	next, _ := m.Update(actionResultMsg{action: models.ActionGitRemoteInfo, result: result})
	m = next.(Model)

	require.NotNil(t, m.panel)
	assert.Contains(t, m.panel.viewport.View(), "Current branch: main")
}

func TestCreateGitHubSuccessIncludesURL(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{HasGit: true}))

	result := models.OK("GitHub repository created: app")
	result.URL = "https://github.com/testuser/app"
	next, _ := m.Update(actionResultMsg{action: models.ActionGitCreateGitHub, result: result})
	m = next.(Model)

	require.Len(t, m.toasts, 1)
	assert.Equal(t, "GitHub repository created: app • https://github.com/testuser/app", m.toasts[0].Text)

	// Follow-up prompt offers to open the repository
	require.NotNil(t, m.modal)
	assert.Contains(t, m.modal.View(), "https://github.com/testuser/app")
}

func TestGuardBlocksPushWithoutRemote(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{HasGit: true}))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = next.(Model)

	require.Len(t, m.toasts, 1)
	assert.Equal(t, "No remote configured", m.toasts[0].Text)
	assert.False(t, m.inFlight)
}

func TestCommitKeyOpensModal(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{HasGit: true, HasStagedChanges: true}))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(Model)

	require.NotNil(t, m.modal)
	assert.Equal(t, "Commit Changes", m.modal.title)
}

func TestModalEscCancelsWithoutDispatch(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{HasGit: true}))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(Model)
	require.NotNil(t, m.modal)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Nil(t, m.modal)
	assert.Nil(t, cmd)
	assert.False(t, m.inFlight)
}

func TestCommitModalRejectsEmptyMessage(t *testing.T) {
	dispatched := false
	d := newCommitModal(func(message string) tea.Cmd {
		dispatched = true
		return nil
	})

	// Submitting without a message must hold the modal open
	_, closed := d.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	require.False(t, closed)
	assert.False(t, dispatched)
	assert.Equal(t, "Please enter a commit message", d.alert)

	// A real message goes through
	d.area.SetValue("Fix login bug")
	cmd, closed := d.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.True(t, closed)
	assert.Nil(t, cmd)
	assert.True(t, dispatched)
}

func TestGitHubModalRejectsEmptyName(t *testing.T) {
	dispatched := false
	d := newGitHubModal("", func(name, description string) tea.Cmd {
		dispatched = true
		return nil
	})

	// Enter through both empty fields; validation must hold it open
	_, closed := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, closed)
	_, closed = d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, closed)

	assert.False(t, dispatched)
	assert.NotEmpty(t, d.alert)
}

func TestConfirmModalNoCloses(t *testing.T) {
	dispatched := false
	d := newConfirmModal("Initialize Git", "Initialize?", func() tea.Cmd {
		dispatched = true
		return nil
	})

	cmd, closed := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.True(t, closed)
	assert.Nil(t, cmd)
	assert.False(t, dispatched)
}

func TestInitKeyOnExistingRepoToastsError(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{HasGit: true}))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	m = next.(Model)

	assert.Nil(t, m.modal)
	require.Len(t, m.toasts, 1)
	assert.Contains(t, m.toasts[0].Text, "already has a git repository")
}

func TestProjectsUpdatedEventRefreshes(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{}))
	before := m.genToken

	next, _ := m.Update(wsEventMsg{event: "projects-updated"})
	m = next.(Model)
	assert.NotEqual(t, before, m.genToken)
}

func TestErrorLogPanelClear(t *testing.T) {
	m := loadedModel(repoProject("app", models.GitStatus{}))
	m.pushToast("boom", true)
	require.Len(t, m.errorLog, 1)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m = next.(Model)
	require.NotNil(t, m.panel)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(Model)
	assert.Empty(t, m.errorLog)
}
