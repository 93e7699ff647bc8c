package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibedash/internal/models"
)

func TestFetchData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data", r.URL.Path)
		json.NewEncoder(w).Encode(models.DashboardData{
			Projects: []models.Project{{Name: "app", Path: "/projects/app"}},
			Snippets: []models.Snippet{},
			Sessions: []models.Session{},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	data, err := c.FetchData(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Projects, 1)
	assert.Equal(t, "app", data.Projects[0].Name)
}

func TestFetchDataServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.DashboardData{
			Projects: []models.Project{},
			Snippets: []models.Snippet{},
			Sessions: []models.Session{},
			Error:    "scan blew up",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchData(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)
	assert.Contains(t, err.Error(), "scan blew up")
}

func TestFetchDataTimeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	c := NewClientWithHTTP(srv.URL, &http.Client{Timeout: 50 * time.Millisecond})
	_, err := c.FetchData(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestFetchDataContextDeadline(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL)
	_, err := c.FetchData(ctx)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestFetchDataConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.FetchData(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestGitActionPostsBody(t *testing.T) {
	var got GitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/git/commit", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(models.OK("Changes committed successfully"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.GitAction(context.Background(), "commit", GitRequest{
		Path:    "/projects/app",
		Message: "fix parser",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "/projects/app", got.Path)
	assert.Equal(t, "fix parser", got.Message)
}

func TestActionFailurePassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Fail("nothing to commit"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.VenvAction(context.Background(), "create", "/projects/app")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "nothing to commit", result.Error)
}

func TestActionUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.OpenProject(context.Background(), "/projects/app", "code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
