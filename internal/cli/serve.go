package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"vibedash/internal/config"
	"vibedash/internal/filesystem"
	"vibedash/internal/git"
	"vibedash/internal/github"
	"vibedash/internal/opener"
	"vibedash/internal/scanner"
	"vibedash/internal/server"
	"vibedash/internal/store"
	"vibedash/internal/venv"
)

// ServeCommand runs the dashboard backend
type ServeCommand struct {
	fs filesystem.FileSystem
}

// NewServeCommand creates the serve command
func NewServeCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &ServeCommand{fs: fs}

	var addr string
	cobraCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard backend",
		Long: `Start the HTTP backend that the dashboard talks to. It serves
project data, dispatches git/venv/editor actions and pushes change
events over a websocket.`,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c, addr)
		},
	}

	cobraCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cobraCmd
}

// Run wires the backend together and blocks until interrupted
func (c *ServeCommand) Run(cmd *cobra.Command, addr string) error {
	cfg, err := config.Load(c.fs)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.ListenAddr = addr
	}

	logger := newLogger(cfg.LogLevel)
	gitClient := git.NewOSClient()

	var ghClient github.GitHubClient
	if cfg.GitHubToken != "" {
		ghClient = github.NewClient(cfg.GitHubToken)
	} else {
		logger.Info("no GitHub token configured, repository creation disabled")
	}

	srv := server.New(server.Options{
		Config:  cfg,
		FS:      c.fs,
		Store:   store.New(c.fs, cfg.DataFile, cfg.SnippetsDir),
		Scanner: scanner.New(c.fs, gitClient),
		Git:     gitClient,
		GitHub:  ghClient,
		Venv:    venv.NewService(c.fs),
		Opener:  opener.New(c.fs),
		Logger:  logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
