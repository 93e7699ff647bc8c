package opener

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"vibedash/internal/filesystem"
)

var ErrInvalidPath = errors.New("invalid project path")

// editors are tried in preference order before falling back to the
// platform opener
var editors = []string{"code", "pycharm", "subl", "atom"}

// CommandFunc starts an external command without waiting for it.
type CommandFunc func(ctx context.Context, name string, args ...string) error

// LookPathFunc reports the resolved path of a binary, or an error when
// it is not installed.
type LookPathFunc func(name string) (string, error)

// Opener launches editors and terminals for a project path.
type Opener struct {
	fs    filesystem.FileSystem
	start CommandFunc
	look  LookPathFunc
}

func New(fsys filesystem.FileSystem) *Opener {
	return &Opener{
		fs:    fsys,
		start: startCommand,
		look:  exec.LookPath,
	}
}

// NewWithRunner creates an Opener with injected command execution,
// for tests
func NewWithRunner(fsys filesystem.FileSystem, start CommandFunc, look LookPathFunc) *Opener {
	return &Opener{fs: fsys, start: start, look: look}
}

// OpenEditor opens the path in the first installed editor, falling
// back to the OS default application.
func (o *Opener) OpenEditor(ctx context.Context, path string) (string, error) {
	if path == "" || !o.fs.Exists(path) {
		return "", ErrInvalidPath
	}

	for _, editor := range editors {
		if _, err := o.look(editor); err != nil {
			continue
		}
		if err := o.start(ctx, editor, path); err != nil {
			return "", fmt.Errorf("failed to launch %s: %w", editor, err)
		}
		return fmt.Sprintf("Opened in %s", editor), nil
	}

	opener := platformOpener()
	if err := o.start(ctx, opener, path); err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	return "Opened with system default", nil
}

// OpenTerminal opens a terminal window at the path
func (o *Opener) OpenTerminal(ctx context.Context, path string) (string, error) {
	if path == "" || !o.fs.Exists(path) {
		return "", ErrInvalidPath
	}

	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf(`tell application "Terminal"
	do script "cd '%s'"
	activate
end tell`, path)
		if err := o.start(ctx, "osascript", "-e", script); err != nil {
			return "", fmt.Errorf("failed to open terminal: %w", err)
		}
		return "Opened terminal", nil
	}

	if err := o.start(ctx, "x-terminal-emulator", "-e", "bash"); err != nil {
		return "", fmt.Errorf("failed to open terminal: %w", err)
	}
	return "Opened terminal", nil
}

func platformOpener() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

func startCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Start()
}
