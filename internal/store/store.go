package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"vibedash/internal/filesystem"
	"vibedash/internal/models"
)

// Store persists dashboard data as a JSON file and reads extra code
// snippets from a directory of markdown files with YAML frontmatter.
type Store struct {
	fs          filesystem.FileSystem
	dataFile    string
	snippetsDir string

	// now is replaceable in tests
	now func() time.Time
}

func New(fsys filesystem.FileSystem, dataFile, snippetsDir string) *Store {
	return &Store{
		fs:          fsys,
		dataFile:    dataFile,
		snippetsDir: snippetsDir,
		now:         time.Now,
	}
}

// Load reads the data file, falling back to the default data when the
// file is missing or unreadable. Snippet files found in the snippets
// directory are appended to whatever the data file holds.
func (s *Store) Load() models.DashboardData {
	data := s.loadFile()

	snippets, err := s.loadSnippetFiles()
	if err == nil && len(snippets) > 0 {
		data.Snippets = append(data.Snippets, snippets...)
	}

	return data
}

// Save writes the data file, creating parent directories as needed
func (s *Store) Save(data models.DashboardData) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.dataFile), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dashboard data: %w", err)
	}

	if err := s.fs.WriteFile(s.dataFile, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	return nil
}

func (s *Store) loadFile() models.DashboardData {
	if !s.fs.Exists(s.dataFile) {
		return s.defaultData()
	}

	raw, err := s.fs.ReadFile(s.dataFile)
	if err != nil {
		return s.defaultData()
	}

	var data models.DashboardData
	if err := json.Unmarshal(raw, &data); err != nil {
		return s.defaultData()
	}

	// Older data files may miss lists entirely
	if data.Projects == nil {
		data.Projects = []models.Project{}
	}
	if data.Snippets == nil {
		data.Snippets = s.defaultData().Snippets
	}
	if data.Sessions == nil {
		data.Sessions = []models.Session{}
	}
	return data
}

// snippetMatter is the YAML frontmatter of a snippet markdown file
type snippetMatter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

// loadSnippetFiles parses every .md file in the snippets directory.
// The frontmatter carries title and tags; the body is the code.
func (s *Store) loadSnippetFiles() ([]models.Snippet, error) {
	if s.snippetsDir == "" || !s.fs.Exists(s.snippetsDir) {
		return nil, nil
	}

	entries, err := s.fs.ReadDir(s.snippetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snippets directory: %w", err)
	}

	var snippets []models.Snippet
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(s.snippetsDir, entry.Name())
		raw, err := s.fs.ReadFile(path)
		if err != nil {
			continue
		}

		var matter snippetMatter
		rest, err := frontmatter.Parse(bytes.NewReader(raw), &matter)
		if err != nil {
			continue
		}

		title := matter.Title
		if title == "" {
			title = strings.TrimSuffix(entry.Name(), ".md")
		}

		created := ""
		if info, err := s.fs.Stat(path); err == nil {
			created = info.ModTime().Format(time.RFC3339)
		}

		snippets = append(snippets, models.Snippet{
			ID:      strings.TrimSuffix(entry.Name(), ".md"),
			Title:   title,
			Code:    strings.TrimSpace(string(rest)),
			Tags:    matter.Tags,
			Created: created,
		})
	}
	return snippets, nil
}

func (s *Store) defaultData() models.DashboardData {
	created := s.now().Format(time.RFC3339)
	return models.DashboardData{
		Projects: []models.Project{},
		Snippets: []models.Snippet{
			{
				ID:      "1",
				Title:   "Virtual Environment Setup",
				Code:    "# Create and activate venv\npython -m venv venv\nsource venv/bin/activate  # macOS/Linux\n# pip install -r requirements.txt",
				Tags:    []string{"venv", "setup"},
				Created: created,
			},
			{
				ID:      "2",
				Title:   "Quick DataFrame Info",
				Code:    "import pandas as pd\n\n# Quick data overview\ndf.info()\nprint(f\"Shape: {df.shape}\")\nprint(f\"Nulls: {df.isnull().sum().sum()}\")",
				Tags:    []string{"pandas", "data-analysis"},
				Created: created,
			},
		},
		Sessions: []models.Session{},
	}
}
