package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibedash/internal/config"
	"vibedash/internal/filesystem"
	"vibedash/internal/git"
	"vibedash/internal/github"
	"vibedash/internal/models"
	"vibedash/internal/opener"
	"vibedash/internal/scanner"
	"vibedash/internal/store"
	"vibedash/internal/venv"
)

type testServer struct {
	*Server
	fs     *filesystem.MockFileSystem
	git    *git.MockClient
	github *github.MockClient
	http   *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	fs := filesystem.NewMockFileSystem()
	gitMock := git.NewMockClient()
	ghMock := github.NewMockClient()

	cfg := &config.Config{
		ProjectsDir:    "/projects",
		DataFile:       "/home/user/.vibedash/data.json",
		SnippetsDir:    "/home/user/.vibedash/snippets",
		GitName:        "Test User",
		GitEmail:       "test@example.com",
		GitHubUsername: "testuser",
		GitHubToken:    "token123",
	}

	noopRunner := func(ctx context.Context, dir, name string, args ...string) (string, error) {
		return "", nil
	}
	noopStart := func(ctx context.Context, name string, args ...string) error {
		return nil
	}
	nothingInstalled := func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	}

	srv := New(Options{
		Config:  cfg,
		FS:      fs,
		Store:   store.New(fs, cfg.DataFile, cfg.SnippetsDir),
		Scanner: scanner.New(fs, gitMock),
		Git:     gitMock,
		GitHub:  ghMock,
		Venv:    venv.NewServiceWithRunner(fs, noopRunner),
		Opener:  opener.NewWithRunner(fs, noopStart, nothingInstalled),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &testServer{Server: srv, fs: fs, git: gitMock, github: ghMock, http: ts}
}

func (ts *testServer) post(t *testing.T, path string, body any) models.ActionResult {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.http.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.ActionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestDataEndpointScansProjects(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddFile("/projects/app/main.py", []byte(""))

	resp, err := http.Get(ts.http.URL + "/api/data")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data models.DashboardData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
	require.Len(t, data.Projects, 1)
	assert.Equal(t, "app", data.Projects[0].Name)
	assert.Len(t, data.Snippets, 2)
	assert.Empty(t, data.Error)
}

func TestScanProjectsPersists(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddFile("/projects/app/main.py", []byte(""))

	resp, err := http.Get(ts.http.URL + "/api/scan-projects")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := ts.fs.ReadFile("/home/user/.vibedash/data.json")
	require.NoError(t, err)

	var saved models.DashboardData
	require.NoError(t, json.Unmarshal(raw, &saved))
	require.Len(t, saved.Projects, 1)
	assert.Equal(t, "app", saved.Projects[0].Name)
}

func TestGitInitAppliesConfiguredIdentity(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")

	result := ts.post(t, "/api/git/init", map[string]string{"path": "/projects/app"})
	require.True(t, result.Success)
	assert.Equal(t, "Git repository initialized", result.Message)

	repo := ts.git.Repo("/projects/app")
	require.NotNil(t, repo)
	assert.Equal(t, "Test User", repo.UserName)
	assert.Equal(t, "test@example.com", repo.UserEmail)
}

func TestGitActionInvalidPath(t *testing.T) {
	ts := newTestServer(t)

	result := ts.post(t, "/api/git/add", map[string]string{"path": "/nope"})
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid project path", result.Error)
}

func TestGitCommitUsesDefaultMessage(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")
	ts.git.SetupRepo("/projects/app", models.GitStatus{HasStagedChanges: true})

	result := ts.post(t, "/api/git/commit", map[string]string{"path": "/projects/app"})
	require.True(t, result.Success)

	repo := ts.git.Repo("/projects/app")
	require.Len(t, repo.Commits, 1)
	assert.Equal(t, "Auto commit from Vibe Dashboard", repo.Commits[0])
}

func TestGitStatusIncludesOutput(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")
	repo := ts.git.SetupRepo("/projects/app", models.GitStatus{})
	repo.Short = " M main.py\n?? new.py"

	result := ts.post(t, "/api/git/status", map[string]string{"path": "/projects/app"})
	require.True(t, result.Success)
	assert.Equal(t, " M main.py\n?? new.py", result.Output)
	assert.Contains(t, result.Message, "Git Status:")
}

func TestGitRemoteInfo(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")
	repo := ts.git.SetupRepo("/projects/app", models.GitStatus{})
	repo.Remote = models.RemoteInfo{
		CurrentBranch:  "main",
		Remotes:        "origin\thttps://github.com/u/app.git (fetch)",
		RemoteBranches: "origin/main",
	}

	result := ts.post(t, "/api/git/remote-info", map[string]string{"path": "/projects/app"})
	require.True(t, result.Success)
	require.NotNil(t, result.Info)
	assert.Equal(t, "main", result.Info.CurrentBranch)
	assert.Contains(t, result.Info.Remotes, "origin")
}

func TestGitPushFailureSurfacesError(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")
	ts.git.SetupRepo("/projects/app", models.GitStatus{})
	ts.git.FailWith["push"] = assert.AnError

	result := ts.post(t, "/api/git/push", map[string]string{"path": "/projects/app"})
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestCreateGitHubRepoWiresRemote(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")
	ts.git.SetupRepo("/projects/app", models.GitStatus{})

	result := ts.post(t, "/api/git/create-github", map[string]string{
		"path": "/projects/app",
		"name": "my-app",
	})
	require.True(t, result.Success)
	assert.Equal(t, "GitHub repository created: my-app", result.Message)
	assert.Equal(t, "https://github.com/testuser/my-app", result.URL)

	repo := ts.git.Repo("/projects/app")
	remote := repo.Remotes["origin"]
	assert.Contains(t, remote, "testuser:token123@")
	assert.Equal(t, "main", repo.Branch)
}

func TestCreateGitHubRepoDefaultsNameFromPath(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")
	ts.git.SetupRepo("/projects/app", models.GitStatus{})

	result := ts.post(t, "/api/git/create-github", map[string]string{"path": "/projects/app"})
	require.True(t, result.Success)
	require.NotNil(t, ts.github.Created("app"))
}

func TestCreateGitHubRepoWithoutToken(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")
	ts.cfg.GitHubToken = ""

	result := ts.post(t, "/api/git/create-github", map[string]string{"path": "/projects/app"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "GitHub token not configured")
}

func TestUnknownGitAction(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")

	result := ts.post(t, "/api/git/rebase", map[string]string{"path": "/projects/app"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Unknown git action")
}

func TestVenvCreate(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")

	result := ts.post(t, "/api/venv/create", map[string]string{"path": "/projects/app"})
	require.True(t, result.Success)
	assert.Equal(t, "Virtual environment created successfully", result.Message)
}

func TestVenvDeleteWithoutVenv(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")

	result := ts.post(t, "/api/venv/delete", map[string]string{"path": "/projects/app"})
	assert.False(t, result.Success)
	assert.Equal(t, "Virtual environment not found", result.Error)
}

func TestOpenProjectDefaultsToEditor(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddDir("/projects/app")

	result := ts.post(t, "/api/open-project", map[string]string{"path": "/projects/app"})
	require.True(t, result.Success)
	assert.Equal(t, "Opened in code", result.Message)
}

func TestSaveData(t *testing.T) {
	ts := newTestServer(t)

	payload, _ := json.Marshal(models.EmptyData())
	resp, err := http.Post(ts.http.URL+"/api/save-data", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, ts.fs.Exists("/home/user/.vibedash/data.json"))
}

func TestIndexPageRenders(t *testing.T) {
	ts := newTestServer(t)
	ts.fs.AddFile("/projects/app/main.py", []byte(""))

	resp, err := http.Get(ts.http.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "vibedash")
	assert.Contains(t, string(body), "/api/data")
	assert.Contains(t, string(body), "vibedash --server")
}
