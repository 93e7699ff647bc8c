package scanner

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibedash/internal/filesystem"
	"vibedash/internal/git"
	"vibedash/internal/models"
)

func newTestScanner(fs *filesystem.MockFileSystem, gitClient git.Client) *Scanner {
	s := New(fs, gitClient)
	s.now = func() time.Time {
		return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestScanFindsFolderProjects(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/projects/webapp/main.py", []byte("print('hi')"))
	fs.AddFile("/projects/webapp/util.py", []byte(""))
	fs.AddFile("/projects/webapp/requirements.txt", []byte("flask"))
	fs.AddFile("/projects/webapp/README.md", []byte("# webapp"))

	s := newTestScanner(fs, git.NewMockClient())
	projects, err := s.Scan("/projects")
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, "webapp", p.Name)
	assert.Equal(t, "/projects/webapp", p.Path)
	assert.Equal(t, models.ProjectTypeFolder, p.Type)
	assert.Equal(t, 2, p.PythonFiles)
	assert.Equal(t, 4, p.RelevantFiles)
	assert.False(t, p.Git.HasGit)
	assert.False(t, p.Venv.Exists)
}

func TestScanSkipsDirsWithoutPython(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/projects/docs/README.md", []byte("# docs"))
	fs.AddFile("/projects/app/main.py", []byte(""))

	s := newTestScanner(fs, git.NewMockClient())
	projects, err := s.Scan("/projects")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "app", projects[0].Name)
}

func TestScanSkipsHiddenAndSkipDirs(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/projects/.hidden/main.py", []byte(""))
	fs.AddFile("/projects/node_modules/x.py", []byte(""))
	fs.AddFile("/projects/__pycache__/x.py", []byte(""))
	fs.AddFile("/projects/real/main.py", []byte(""))

	s := newTestScanner(fs, git.NewMockClient())
	projects, err := s.Scan("/projects")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "real", projects[0].Name)
}

func TestScanStandaloneFile(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/projects/script.py", []byte("print('standalone')"))
	fs.SetModTime("/projects/script.py", time.Date(2024, time.March, 15, 11, 30, 0, 0, time.UTC))

	s := newTestScanner(fs, git.NewMockClient())
	projects, err := s.Scan("/projects")
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, models.ProjectTypeFile, p.Type)
	assert.Equal(t, "script.py", p.Name)
	assert.Equal(t, 1, p.PythonFiles)
	assert.Equal(t, "30 minutes ago", p.LastModified)
	assert.False(t, p.Git.HasGit)
}

func TestScanIncludesGitAndVenvStatus(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/projects/app/main.py", []byte(""))
	fs.AddDir("/projects/app/.git")
	fs.AddFile("/projects/app/venv/bin/activate", []byte(""))

	gitMock := git.NewMockClient()
	gitMock.SetupRepo("/projects/app", models.GitStatus{
		Branch:             "main",
		HasChanges:         true,
		HasUnstagedChanges: true,
		HasRemote:          true,
	})

	s := newTestScanner(fs, gitMock)
	projects, err := s.Scan("/projects")
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.True(t, p.Git.HasGit)
	assert.True(t, p.Git.HasUnstagedChanges)
	assert.True(t, p.Git.HasRemote)
	assert.True(t, p.Venv.Exists)
	assert.Equal(t, filepath.Join("/projects/app", "venv"), p.Venv.Path)
}

func TestScanVenvActive(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/projects/app/main.py", []byte(""))
	fs.AddFile("/projects/app/venv/bin/activate", []byte(""))
	t.Setenv("VIRTUAL_ENV", "/projects/app/venv")

	s := newTestScanner(fs, git.NewMockClient())
	projects, err := s.Scan("/projects")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.True(t, projects[0].Venv.Active)
}

func TestScanHonorsGitignore(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/projects/app/main.py", []byte(""))
	fs.AddFile("/projects/app/.gitignore", []byte("ignored.json\n"))
	fs.AddFile("/projects/app/ignored.json", []byte("{}"))
	fs.AddFile("/projects/app/kept.json", []byte("{}"))

	s := newTestScanner(fs, git.NewMockClient())
	projects, err := s.Scan("/projects")
	require.NoError(t, err)
	require.Len(t, projects, 1)

	// main.py + kept.json; ignored.json excluded by .gitignore
	assert.Equal(t, 2, projects[0].RelevantFiles)
}

func TestScanDescendsOneLevel(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/projects/pkg/setup.py", []byte(""))
	fs.AddFile("/projects/pkg/src/core.py", []byte(""))
	fs.AddFile("/projects/pkg/src/api.py", []byte(""))

	s := newTestScanner(fs, git.NewMockClient())
	projects, err := s.Scan("/projects")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, 3, projects[0].PythonFiles)
}

func TestScanSeedsSampleProjectWhenDirMissing(t *testing.T) {
	fs := filesystem.NewMockFileSystem()

	s := newTestScanner(fs, git.NewMockClient())
	projects, err := s.Scan("/projects")
	require.NoError(t, err)

	require.Len(t, projects, 1)
	assert.Equal(t, "sample_project", projects[0].Name)
	assert.True(t, fs.Exists("/projects/sample_project/main.py"))
}

func TestScanEmptyDirReturnsEmptySlice(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/projects")

	s := newTestScanner(fs, git.NewMockClient())
	projects, err := s.Scan("/projects")
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}
