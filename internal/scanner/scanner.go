package scanner

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gitignore "github.com/denormal/go-gitignore"

	"vibedash/internal/filesystem"
	"vibedash/internal/git"
	"vibedash/internal/models"
	"vibedash/internal/timeutil"
)

// relevantExtensions are non-Python files worth counting in a project
var relevantExtensions = map[string]struct{}{
	".py": {}, ".pyx": {}, ".pyi": {},
	".js": {}, ".ts": {}, ".jsx": {}, ".tsx": {},
	".json": {}, ".yaml": {}, ".yml": {}, ".toml": {}, ".ini": {}, ".cfg": {},
	".md": {}, ".txt": {}, ".rst": {},
	".sh": {}, ".bat": {}, ".ps1": {},
	".sql": {}, ".html": {}, ".css": {},
	".requirements": {}, ".lock": {},
}

// importantFiles are counted even without a relevant extension
var importantFiles = map[string]struct{}{
	"requirements.txt": {}, "pyproject.toml": {}, "setup.py": {}, "setup.cfg": {},
	"pipfile": {}, "pipfile.lock": {}, "poetry.lock": {}, "dockerfile": {},
	"makefile": {}, "readme": {}, "license": {}, "changelog": {},
}

// skipDirs are never descended into
var skipDirs = map[string]struct{}{
	"__pycache__": {}, ".git": {}, ".svn": {}, ".hg": {}, "node_modules": {},
	".pytest_cache": {}, ".mypy_cache": {}, ".tox": {}, "venv": {}, ".venv": {},
	"env": {}, ".env": {}, "build": {}, "dist": {}, ".eggs": {},
	".idea": {}, ".vscode": {}, ".ds_store": {}, "logs": {}, "tmp": {}, "temp": {},
}

// Scan budget. Large or slow project directories are cut off rather
// than blocking the data endpoint.
const (
	maxItems       = 50
	maxScanTime    = 15 * time.Second
	maxDirTime     = 3 * time.Second
	maxFilesPerDir = 100
	maxSubdirPy    = 50
)

// Scanner discovers Python projects in a directory.
type Scanner struct {
	fs  filesystem.FileSystem
	git git.Client

	// now is replaceable in tests
	now func() time.Time
}

// New creates a Scanner over the given filesystem and git client
func New(fsys filesystem.FileSystem, gitClient git.Client) *Scanner {
	return &Scanner{
		fs:  fsys,
		git: gitClient,
		now: time.Now,
	}
}

// Scan walks the first level of projectsDir: directories containing
// Python files become folder projects, top-level .py files become file
// projects. A missing projects directory is seeded with a sample
// project so the dashboard never starts empty-handed.
func (s *Scanner) Scan(projectsDir string) ([]models.Project, error) {
	if !s.fs.Exists(projectsDir) {
		if err := s.seedSampleProject(projectsDir); err != nil {
			return nil, err
		}
	}

	entries, err := s.fs.ReadDir(projectsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	entries = s.limitByRecency(projectsDir, entries)

	projects := []models.Project{}
	start := s.now()

	for _, entry := range entries {
		if s.now().Sub(start) > maxScanTime {
			break
		}

		name := entry.Name()
		path := filepath.Join(projectsDir, name)

		switch {
		case entry.IsDir():
			if strings.HasPrefix(name, ".") {
				continue
			}
			if _, skip := skipDirs[strings.ToLower(name)]; skip {
				continue
			}
			if project, ok := s.analyzeDir(path, name); ok {
				projects = append(projects, project)
			}

		case strings.HasSuffix(name, ".py"):
			if project, ok := s.analyzeFile(path, name); ok {
				projects = append(projects, project)
			}
		}
	}

	return projects, nil
}

// limitByRecency keeps only the most recently modified entries when
// the directory exceeds the item budget.
func (s *Scanner) limitByRecency(dir string, entries []fs.DirEntry) []fs.DirEntry {
	if len(entries) <= maxItems {
		return entries
	}

	type aged struct {
		entry fs.DirEntry
		mtime time.Time
	}
	timed := make([]aged, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		timed = append(timed, aged{entry: e, mtime: info.ModTime()})
	}
	sort.Slice(timed, func(i, j int) bool {
		return timed[i].mtime.After(timed[j].mtime)
	})

	limited := make([]fs.DirEntry, 0, maxItems)
	for _, t := range timed[:min(maxItems, len(timed))] {
		limited = append(limited, t.entry)
	}
	return limited
}

// analyzeDir inspects one candidate project directory. Directories
// without any Python file are not projects.
func (s *Scanner) analyzeDir(path, name string) (models.Project, bool) {
	pythonFiles, relevantFiles := s.countFiles(path)
	if len(pythonFiles) == 0 {
		return models.Project{}, false
	}

	return models.Project{
		Name:          name,
		Path:          path,
		Type:          models.ProjectTypeFolder,
		PythonFiles:   len(pythonFiles),
		RelevantFiles: len(pythonFiles) + len(relevantFiles),
		LastModified:  s.lastModified(path, pythonFiles),
		Venv:          s.venvStatus(path),
		Git:           s.gitStatus(path),
	}, true
}

// analyzeFile wraps a standalone top-level .py script as a project
func (s *Scanner) analyzeFile(path, name string) (models.Project, bool) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return models.Project{}, false
	}

	return models.Project{
		Name:         name,
		Path:         path,
		Type:         models.ProjectTypeFile,
		PythonFiles:  1,
		LastModified: timeutil.Relative(info.ModTime(), s.now()),
		Venv:         models.VenvStatus{},
		Git:          models.GitStatus{HasGit: false},
	}, true
}

// countFiles does a bounded two-level scan of a project directory,
// honoring the project's .gitignore for the relevant-file count.
func (s *Scanner) countFiles(path string) (pythonFiles, relevantFiles []string) {
	ignore := s.loadGitIgnore(path)
	dirStart := s.now()

	entries, err := s.fs.ReadDir(path)
	if err != nil {
		return nil, nil
	}

	for _, entry := range entries {
		if s.now().Sub(dirStart) > maxDirTime {
			return pythonFiles, relevantFiles
		}
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		full := filepath.Join(path, name)
		if ignore != nil {
			if match := ignore.Relative(name, false); match != nil && match.Ignore() {
				continue
			}
		}

		if strings.HasSuffix(name, ".py") {
			pythonFiles = append(pythonFiles, full)
		} else if isRelevant(name) {
			relevantFiles = append(relevantFiles, full)
		}

		if len(pythonFiles)+len(relevantFiles) > maxFilesPerDir {
			return pythonFiles, relevantFiles
		}
	}

	// One level deeper when the root was sparse and time remains
	if s.now().Sub(dirStart) < maxDirTime/2 && len(pythonFiles)+len(relevantFiles) < 20 {
		for _, entry := range entries {
			if s.now().Sub(dirStart) > maxDirTime || len(pythonFiles) > maxSubdirPy {
				break
			}
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			if _, skip := skipDirs[strings.ToLower(entry.Name())]; skip {
				continue
			}

			subEntries, err := s.fs.ReadDir(filepath.Join(path, entry.Name()))
			if err != nil {
				continue
			}
			for _, sub := range subEntries {
				if !sub.IsDir() && strings.HasSuffix(sub.Name(), ".py") {
					pythonFiles = append(pythonFiles, filepath.Join(path, entry.Name(), sub.Name()))
					if len(pythonFiles) > maxSubdirPy {
						break
					}
				}
			}
		}
	}

	return pythonFiles, relevantFiles
}

func (s *Scanner) loadGitIgnore(path string) gitignore.GitIgnore {
	ignorePath := filepath.Join(path, ".gitignore")
	if !s.fs.Exists(ignorePath) {
		return nil
	}

	data, err := s.fs.ReadFile(ignorePath)
	if err != nil {
		return nil
	}

	return gitignore.New(bytes.NewReader(data), path, nil)
}

// lastModified reports the newest mtime among the project directory
// and its most recent Python files (at most 10 checked).
func (s *Scanner) lastModified(path string, pythonFiles []string) string {
	latest := time.Time{}
	if info, err := s.fs.Stat(path); err == nil {
		latest = info.ModTime()
	}

	checked := 0
	for _, f := range pythonFiles {
		if checked >= 10 {
			break
		}
		info, err := s.fs.Stat(f)
		if err != nil {
			continue
		}
		checked++
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}

	return timeutil.Relative(latest, s.now())
}

// venvStatus checks for venv/bin/activate and whether $VIRTUAL_ENV
// points at this project's venv.
func (s *Scanner) venvStatus(path string) models.VenvStatus {
	venvPath := filepath.Join(path, "venv")
	exists := s.fs.Exists(filepath.Join(venvPath, "bin", "activate"))

	active := false
	if exists {
		if current := os.Getenv("VIRTUAL_ENV"); current != "" && strings.Contains(current, venvPath) {
			active = true
		}
	}

	return models.VenvStatus{Exists: exists, Active: active, Path: venvPath}
}

// gitStatus avoids spawning git for directories without a .git entry
func (s *Scanner) gitStatus(path string) models.GitStatus {
	if !s.fs.Exists(filepath.Join(path, ".git")) && !s.git.IsRepo(path) {
		return models.GitStatus{HasGit: false}
	}

	status, err := s.git.Status(path)
	if err != nil {
		return models.GitStatus{HasGit: true}
	}
	return status
}

func (s *Scanner) seedSampleProject(projectsDir string) error {
	samplePath := filepath.Join(projectsDir, "sample_project")
	if err := s.fs.MkdirAll(samplePath, 0755); err != nil {
		return fmt.Errorf("failed to create sample project: %w", err)
	}

	main := []byte("#!/usr/bin/env python3\nprint('Hello from sample project!')\n")
	if err := s.fs.WriteFile(filepath.Join(samplePath, "main.py"), main, 0644); err != nil {
		return fmt.Errorf("failed to write sample project: %w", err)
	}
	return nil
}

func isRelevant(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := importantFiles[lower]; ok {
		return true
	}
	ext := strings.ToLower(filepath.Ext(lower))
	if _, ok := relevantExtensions[ext]; ok {
		return true
	}
	for important := range importantFiles {
		if strings.Contains(lower, important) {
			return true
		}
	}
	return false
}
