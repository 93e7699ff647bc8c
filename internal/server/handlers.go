package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"vibedash/internal/git"
	"vibedash/internal/github"
	"vibedash/internal/models"
)

// actionRequest is the JSON body shared by all POST action endpoints.
// Fields beyond Path are action-specific.
type actionRequest struct {
	Path        string `json:"path"`
	Action      string `json:"action,omitempty"`
	Message     string `json:"message,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

const defaultCommitMessage = "Auto commit from Vibe Dashboard"

// handleData serves the full dashboard snapshot. The project list is
// rescanned on every call so the dashboard never renders stale
// discovery results.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	data := s.store.Load()

	projects, err := s.scanner.Scan(s.cfg.ProjectsDir)
	if err != nil {
		s.logger.Error("project scan failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, models.DashboardData{
			Projects: []models.Project{},
			Snippets: []models.Snippet{},
			Sessions: []models.Session{},
			Error:    err.Error(),
		})
		return
	}
	data.Projects = projects

	s.logger.Info("serving dashboard data",
		"projects", len(data.Projects),
		"snippets", len(data.Snippets),
		"sessions", len(data.Sessions),
	)
	s.writeJSON(w, http.StatusOK, data)
}

// handleScanProjects rescans and persists the result
func (s *Server) handleScanProjects(w http.ResponseWriter, r *http.Request) {
	data := s.store.Load()

	projects, err := s.scanner.Scan(s.cfg.ProjectsDir)
	if err != nil {
		s.logger.Error("project scan failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	data.Projects = projects

	if err := s.store.Save(data); err != nil {
		s.logger.Error("failed to persist scan results", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.hub.Broadcast(EventProjectsUpdated)
	s.writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleOpenProject(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAction(w, r)
	if !ok {
		return
	}

	action := req.Action
	if action == "" {
		action = "code"
	}

	var msg string
	var err error
	switch action {
	case "code":
		msg, err = s.opener.OpenEditor(r.Context(), req.Path)
	case "terminal":
		msg, err = s.opener.OpenTerminal(r.Context(), req.Path)
	default:
		s.writeResult(w, models.Fail(fmt.Sprintf("Unknown action: %s", action)))
		return
	}

	if err != nil {
		s.writeResult(w, models.Fail(err.Error()))
		return
	}
	s.writeResult(w, models.OK(msg))
}

func (s *Server) handleVenvAction(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]
	req, ok := s.decodeAction(w, r)
	if !ok {
		return
	}

	var msg string
	var err error
	switch action {
	case "create":
		msg, err = s.venv.Create(r.Context(), req.Path)
	case "activate":
		msg, err = s.venv.Activate(r.Context(), req.Path)
	case "delete":
		msg, err = s.venv.Delete(r.Context(), req.Path)
	default:
		s.writeResult(w, models.Fail("Unknown action"))
		return
	}

	if err != nil {
		s.logger.Warn("venv action failed", "action", action, "path", req.Path, "error", err)
		s.writeResult(w, models.Fail(capitalize(err.Error())))
		return
	}

	if action == "create" || action == "delete" {
		s.hub.Broadcast(EventProjectsUpdated)
	}
	s.writeResult(w, models.OK(msg))
}

func (s *Server) handleGitAction(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]
	req, ok := s.decodeAction(w, r)
	if !ok {
		return
	}

	if req.Path == "" || !s.fs.Exists(req.Path) {
		s.writeResult(w, models.Fail("Invalid project path"))
		return
	}

	gc := s.git.WithContext(r.Context())
	var result models.ActionResult

	switch action {
	case "init":
		if err := gc.Init(req.Path, s.cfg.GitName, s.cfg.GitEmail); err != nil {
			result = models.Fail(err.Error())
		} else {
			result = models.OK("Git repository initialized")
		}

	case "add":
		if err := gc.AddAll(req.Path); err != nil {
			result = models.Fail(err.Error())
		} else {
			result = models.OK("Files added to git staging area")
		}

	case "commit":
		message := req.Message
		if message == "" {
			message = defaultCommitMessage
		}
		if err := gc.Commit(req.Path, message); err != nil {
			result = models.Fail(err.Error())
		} else {
			result = models.OK("Changes committed successfully")
		}

	case "status":
		out, err := gc.ShortStatus(req.Path)
		if err != nil {
			result = models.Fail(err.Error())
		} else {
			result = models.OK("Git Status:\n" + out)
			result.Output = out
		}

	case "push":
		if err := gc.Push(req.Path); err != nil {
			result = models.Fail(err.Error())
		} else {
			result = models.OK("Changes pushed to remote repository")
		}

	case "pull":
		if err := gc.Pull(req.Path); err != nil {
			result = models.Fail(err.Error())
		} else {
			result = models.OK("Changes pulled from remote repository")
		}

	case "remote-info":
		info, err := gc.RemoteInfo(req.Path)
		if err != nil {
			result = models.Fail(err.Error())
		} else {
			result = models.ActionResult{Success: true, Info: &info}
		}

	case "create-github":
		result = s.createGitHubRepo(r, gc, req)

	default:
		result = models.Fail(fmt.Sprintf("Unknown git action: %s", action))
	}

	if !result.Success {
		s.logger.Warn("git action failed", "action", action, "path", req.Path, "error", result.Error)
	} else if action != "status" && action != "remote-info" {
		s.hub.Broadcast(EventProjectsUpdated)
	}
	s.writeResult(w, result)
}

// createGitHubRepo creates the repository, wires it up as origin with
// embedded credentials, and normalizes the default branch to main.
func (s *Server) createGitHubRepo(r *http.Request, gc git.Client, req actionRequest) models.ActionResult {
	if s.github == nil || s.cfg.GitHubToken == "" {
		return models.Fail("GitHub token not configured. Set GITHUB_TOKEN or github_token in the config file.")
	}

	name := req.Name
	if name == "" {
		name = filepath.Base(req.Path)
	}
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Python project: %s", name)
	}

	repo, err := s.github.CreateRepository(r.Context(), &github.CreateRepositoryRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return models.Fail(fmt.Sprintf("Failed to create GitHub repository: %v", err))
	}

	remoteURL := strings.Replace(repo.CloneURL, "https://",
		fmt.Sprintf("https://%s:%s@", s.cfg.GitHubUsername, s.cfg.GitHubToken), 1)
	if err := gc.AddRemote(req.Path, "origin", remoteURL); err != nil {
		return models.Fail(fmt.Sprintf("Repository created but failed to add remote: %v", err))
	}

	if err := gc.SetDefaultBranch(req.Path, "main"); err != nil {
		s.logger.Warn("failed to rename default branch", "path", req.Path, "error", err)
	}

	result := models.OK(fmt.Sprintf("GitHub repository created: %s", name))
	result.URL = repo.HTMLURL
	return result
}

func (s *Server) handleSaveData(w http.ResponseWriter, r *http.Request) {
	var data models.DashboardData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.writeResult(w, models.Fail("Invalid request body"))
		return
	}

	if err := s.store.Save(data); err != nil {
		s.writeResult(w, models.Fail(err.Error()))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) decodeAction(w http.ResponseWriter, r *http.Request) (actionRequest, bool) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResult(w, models.Fail("Invalid request body"))
		return req, false
	}
	return req, true
}

// Action failures are application-level: the envelope reports them
// with success=false while the HTTP layer stays 200.
func (s *Server) writeResult(w http.ResponseWriter, result models.ActionResult) {
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
