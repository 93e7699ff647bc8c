package git

import (
	"context"
	"fmt"

	"vibedash/internal/models"
)

// MockRepo is the scripted state of one repository path in the mock
type MockRepo struct {
	Status     models.GitStatus
	Short      string
	Remote     models.RemoteInfo
	UserName   string
	UserEmail  string
	Commits    []string
	Pushes     int
	Pulls      int
	Remotes    map[string]string
	Branch     string
	StagedAll  bool
}

// MockClient implements Client with scriptable, in-memory repositories
type MockClient struct {
	repos map[string]*MockRepo

	// FailWith, when set for an operation name, makes that operation
	// return the error (e.g. FailWith["push"] = errors.New(...))
	FailWith map[string]error
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{
		repos:    make(map[string]*MockRepo),
		FailWith: make(map[string]error),
	}
}

// SetupRepo registers a repository at path with the given status
func (m *MockClient) SetupRepo(path string, status models.GitStatus) *MockRepo {
	status.HasGit = true
	repo := &MockRepo{
		Status:  status,
		Short:   "Working tree clean",
		Remotes: make(map[string]string),
	}
	m.repos[path] = repo
	return repo
}

// Repo returns the scripted repository at path, if any
func (m *MockClient) Repo(path string) *MockRepo {
	return m.repos[path]
}

func (m *MockClient) fail(op string) error {
	if err, ok := m.FailWith[op]; ok {
		return err
	}
	return nil
}

func (m *MockClient) WithContext(ctx context.Context) Client {
	return m
}

func (m *MockClient) IsRepo(path string) bool {
	_, ok := m.repos[path]
	return ok
}

func (m *MockClient) Status(path string) (models.GitStatus, error) {
	if err := m.fail("status"); err != nil {
		return models.GitStatus{}, err
	}
	repo, ok := m.repos[path]
	if !ok {
		return models.GitStatus{HasGit: false}, nil
	}
	return repo.Status, nil
}

func (m *MockClient) ShortStatus(path string) (string, error) {
	if err := m.fail("short-status"); err != nil {
		return "", err
	}
	repo, ok := m.repos[path]
	if !ok {
		return "", fmt.Errorf("not a git repository: %s", path)
	}
	return repo.Short, nil
}

func (m *MockClient) RemoteInfo(path string) (models.RemoteInfo, error) {
	if err := m.fail("remote-info"); err != nil {
		return models.RemoteInfo{}, err
	}
	repo, ok := m.repos[path]
	if !ok {
		return models.RemoteInfo{}, fmt.Errorf("not a git repository: %s", path)
	}
	return repo.Remote, nil
}

func (m *MockClient) Init(path, userName, userEmail string) error {
	if err := m.fail("init"); err != nil {
		return err
	}
	repo := m.SetupRepo(path, models.GitStatus{HasGit: true})
	repo.UserName = userName
	repo.UserEmail = userEmail
	return nil
}

func (m *MockClient) AddAll(path string) error {
	if err := m.fail("add"); err != nil {
		return err
	}
	repo, ok := m.repos[path]
	if !ok {
		return fmt.Errorf("not a git repository: %s", path)
	}
	repo.StagedAll = true
	repo.Status.HasUnstagedChanges = false
	repo.Status.HasStagedChanges = true
	return nil
}

func (m *MockClient) Commit(path, message string) error {
	if err := m.fail("commit"); err != nil {
		return err
	}
	repo, ok := m.repos[path]
	if !ok {
		return fmt.Errorf("not a git repository: %s", path)
	}
	repo.Commits = append(repo.Commits, message)
	repo.Status.HasStagedChanges = false
	repo.Status.HasChanges = repo.Status.HasUnstagedChanges
	return nil
}

func (m *MockClient) Push(path string) error {
	if err := m.fail("push"); err != nil {
		return err
	}
	repo, ok := m.repos[path]
	if !ok {
		return fmt.Errorf("not a git repository: %s", path)
	}
	repo.Pushes++
	return nil
}

func (m *MockClient) Pull(path string) error {
	if err := m.fail("pull"); err != nil {
		return err
	}
	repo, ok := m.repos[path]
	if !ok {
		return fmt.Errorf("not a git repository: %s", path)
	}
	repo.Pulls++
	return nil
}

func (m *MockClient) AddRemote(path, name, url string) error {
	if err := m.fail("add-remote"); err != nil {
		return err
	}
	repo, ok := m.repos[path]
	if !ok {
		return fmt.Errorf("not a git repository: %s", path)
	}
	repo.Remotes[name] = url
	repo.Status.HasRemote = true
	return nil
}

func (m *MockClient) SetDefaultBranch(path, branch string) error {
	if err := m.fail("set-branch"); err != nil {
		return err
	}
	repo, ok := m.repos[path]
	if !ok {
		return fmt.Errorf("not a git repository: %s", path)
	}
	repo.Branch = branch
	repo.Status.Branch = branch
	return nil
}
