package github

import (
	"context"
	"fmt"
)

// MockClient implements GitHubClient in memory for testing
type MockClient struct {
	// Owner is the login new repositories are created under
	Owner string

	// CreateErr, when set, is returned by CreateRepository
	CreateErr error

	repos map[string]*Repository
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{
		Owner: "testuser",
		repos: make(map[string]*Repository),
	}
}

func (m *MockClient) CreateRepository(ctx context.Context, req *CreateRepositoryRequest) (*Repository, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	if _, exists := m.repos[req.Name]; exists {
		return nil, fmt.Errorf("name already exists on this account")
	}

	repo := &Repository{
		Owner:    m.Owner,
		Name:     req.Name,
		FullName: m.Owner + "/" + req.Name,
		HTMLURL:  fmt.Sprintf("https://github.com/%s/%s", m.Owner, req.Name),
		CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", m.Owner, req.Name),
	}
	m.repos[req.Name] = repo
	return repo, nil
}

// Created returns the repository created under name, if any
func (m *MockClient) Created(name string) *Repository {
	return m.repos[name]
}
