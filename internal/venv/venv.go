package venv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"vibedash/internal/filesystem"
)

var (
	ErrInvalidPath = errors.New("invalid project path")
	ErrNotFound    = errors.New("virtual environment not found")
)

// CommandFunc runs an external command in dir and returns its output.
// It exists so tests can intercept subprocess execution.
type CommandFunc func(ctx context.Context, dir, name string, args ...string) (string, error)

// Service manages per-project Python virtual environments.
type Service struct {
	fs  filesystem.FileSystem
	run CommandFunc
}

// NewService creates a Service backed by real subprocess execution
func NewService(fsys filesystem.FileSystem) *Service {
	return &Service{fs: fsys, run: runCommand}
}

// NewServiceWithRunner creates a Service with a custom command runner
func NewServiceWithRunner(fsys filesystem.FileSystem, run CommandFunc) *Service {
	return &Service{fs: fsys, run: run}
}

// Create runs `python3 -m venv venv` inside the project directory
func (s *Service) Create(ctx context.Context, projectPath string) (string, error) {
	if projectPath == "" || !s.fs.Exists(projectPath) {
		return "", ErrInvalidPath
	}

	if _, err := s.run(ctx, projectPath, "python3", "-m", "venv", "venv"); err != nil {
		return "", fmt.Errorf("venv creation failed: %w", err)
	}
	return "Virtual environment created successfully", nil
}

// Activate opens a terminal with the project's venv sourced. The venv
// itself cannot be activated in the caller's shell from here.
func (s *Service) Activate(ctx context.Context, projectPath string) (string, error) {
	if projectPath == "" || !s.fs.Exists(projectPath) {
		return "", ErrInvalidPath
	}

	activate := filepath.Join(projectPath, "venv", "bin", "activate")
	if !s.fs.Exists(activate) {
		return "", ErrNotFound
	}

	if err := s.openTerminalWithVenv(ctx, projectPath); err != nil {
		return "", fmt.Errorf("failed to open terminal: %w", err)
	}
	return "Opening terminal with activated venv", nil
}

// Delete removes the project's venv directory
func (s *Service) Delete(ctx context.Context, projectPath string) (string, error) {
	if projectPath == "" || !s.fs.Exists(projectPath) {
		return "", ErrInvalidPath
	}

	venvPath := filepath.Join(projectPath, "venv")
	if !s.fs.Exists(venvPath) {
		return "", ErrNotFound
	}

	if err := s.fs.RemoveAll(venvPath); err != nil {
		return "", fmt.Errorf("failed to delete venv: %w", err)
	}
	return "Virtual environment deleted", nil
}

func (s *Service) openTerminalWithVenv(ctx context.Context, projectPath string) error {
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf(`tell application "Terminal"
	do script "cd '%s' && source venv/bin/activate"
	activate
end tell`, projectPath)
		_, err := s.run(ctx, "", "osascript", "-e", script)
		return err
	}

	// Best effort on Linux: common terminal emulators accept a
	// working directory flag
	_, err := s.run(ctx, projectPath, "x-terminal-emulator", "-e",
		"bash", "-c", "source venv/bin/activate; exec bash")
	return err
}

func runCommand(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s failed: %s", name, msg)
	}
	return strings.TrimSpace(out.String()), nil
}
