package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibedash/internal/filesystem"
	"vibedash/internal/models"
)

func newTestStore(fs *filesystem.MockFileSystem) *Store {
	s := New(fs, "/home/user/.vibedash/data.json", "/home/user/.vibedash/snippets")
	s.now = func() time.Time {
		return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	s := newTestStore(fs)

	data := s.Load()
	assert.Empty(t, data.Projects)
	assert.Empty(t, data.Sessions)
	require.Len(t, data.Snippets, 2)
	assert.Equal(t, "Virtual Environment Setup", data.Snippets[0].Title)
}

func TestLoadCorruptFileReturnsDefaults(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/home/user/.vibedash/data.json", []byte("{not json"))
	s := newTestStore(fs)

	data := s.Load()
	require.Len(t, data.Snippets, 2)
}

func TestLoadFillsMissingKeys(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/home/user/.vibedash/data.json", []byte(`{"projects": []}`))
	s := newTestStore(fs)

	data := s.Load()
	assert.NotNil(t, data.Projects)
	assert.NotNil(t, data.Sessions)
	require.Len(t, data.Snippets, 2)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	s := newTestStore(fs)

	saved := models.DashboardData{
		Projects: []models.Project{{Name: "app", Path: "/projects/app", Type: models.ProjectTypeFolder}},
		Snippets: []models.Snippet{{ID: "x", Title: "custom"}},
		Sessions: []models.Session{},
	}
	require.NoError(t, s.Save(saved))

	raw, err := fs.ReadFile("/home/user/.vibedash/data.json")
	require.NoError(t, err)
	var onDisk models.DashboardData
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, "app", onDisk.Projects[0].Name)

	loaded := s.Load()
	require.Len(t, loaded.Projects, 1)
	require.Len(t, loaded.Snippets, 1)
	assert.Equal(t, "custom", loaded.Snippets[0].Title)
}

func TestLoadMergesSnippetFiles(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/home/user/.vibedash/snippets/requests-retry.md", []byte(`---
title: Requests with retry
tags:
  - http
  - requests
---
import requests

session = requests.Session()
`))
	s := newTestStore(fs)

	data := s.Load()
	require.Len(t, data.Snippets, 3)

	snip := data.Snippets[2]
	assert.Equal(t, "requests-retry", snip.ID)
	assert.Equal(t, "Requests with retry", snip.Title)
	assert.Equal(t, []string{"http", "requests"}, snip.Tags)
	assert.Contains(t, snip.Code, "requests.Session()")
}

func TestLoadSnippetWithoutTitleUsesFilename(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/home/user/.vibedash/snippets/untitled.md", []byte("---\ntags: []\n---\nprint('x')\n"))
	s := newTestStore(fs)

	data := s.Load()
	require.Len(t, data.Snippets, 3)
	assert.Equal(t, "untitled", data.Snippets[2].Title)
}

func TestLoadIgnoresNonMarkdownSnippetEntries(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/home/user/.vibedash/snippets/notes.txt", []byte("not a snippet"))
	s := newTestStore(fs)

	data := s.Load()
	assert.Len(t, data.Snippets, 2)
}
