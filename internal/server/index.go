package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// indexTemplate is the plain status page served at /. The dashboard
// itself is the TUI; this page exists so a browser hitting the backend
// sees something useful instead of a 404.
var indexTemplate = template.Must(
	template.New("index").Funcs(sprig.FuncMap()).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>vibedash</title>
<style>
  body { font-family: -apple-system, 'Segoe UI', sans-serif; background: #1b1b1d; color: #e4e4e7; max-width: 720px; margin: 40px auto; padding: 0 16px; }
  h1 { font-size: 22px; } h1 span { color: #7d56f4; }
  code { background: #27272a; padding: 2px 6px; border-radius: 4px; font-size: 13px; }
  table { border-collapse: collapse; margin-top: 16px; }
  td { padding: 4px 16px 4px 0; font-size: 14px; }
  .dim { color: #71717a; }
</style>
</head>
<body>
<h1>vibe<span>dash</span> backend</h1>
<p class="dim">Serving {{ .ProjectCount }} {{ .ProjectCount | plural "project" "projects" }} from <code>{{ .ProjectsDir }}</code> &middot; up {{ .Uptime }}</p>
<table>
  <tr><td><code>GET /api/data</code></td><td class="dim">full dashboard snapshot</td></tr>
  <tr><td><code>GET /api/scan-projects</code></td><td class="dim">rescan and persist</td></tr>
  <tr><td><code>POST /api/open-project</code></td><td class="dim">open in editor or terminal</td></tr>
  <tr><td><code>POST /api/venv/{action}</code></td><td class="dim">create, activate, delete</td></tr>
  <tr><td><code>POST /api/git/{action}</code></td><td class="dim">init, add, commit, status, push, pull, remote-info, create-github</td></tr>
  <tr><td><code>GET /api/events</code></td><td class="dim">websocket change notifications</td></tr>
</table>
<p class="dim">Connect the dashboard with <code>vibedash --server http://{{ .ListenAddr }}</code></p>
</body>
</html>`))

var startedAt = time.Now()

type indexData struct {
	ProjectCount int
	ProjectsDir  string
	ListenAddr   string
	Uptime       string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	projects, err := s.scanner.Scan(s.cfg.ProjectsDir)
	if err != nil {
		s.logger.Warn("index page scan failed", "error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = indexTemplate.Execute(w, indexData{
		ProjectCount: len(projects),
		ProjectsDir:  s.cfg.ProjectsDir,
		ListenAddr:   s.cfg.ListenAddr,
		Uptime:       time.Since(startedAt).Round(time.Second).String(),
	})
	if err != nil {
		s.logger.Error("failed to render index page", "error", err)
	}
}
