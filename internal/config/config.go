package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"vibedash/internal/filesystem"
)

// Config holds all configuration for vibedash.
type Config struct {
	// ProjectsDir is the directory scanned for Python projects
	ProjectsDir string `yaml:"projects_dir"`

	// DataFile is where the dashboard snapshot is persisted
	DataFile string `yaml:"data_file"`

	// SnippetsDir holds markdown snippet files with frontmatter
	SnippetsDir string `yaml:"snippets_dir"`

	// ListenAddr is the backend bind address
	ListenAddr string `yaml:"listen_addr"`

	// ServerURL is the backend address the dashboard talks to
	ServerURL string `yaml:"server_url"`

	// Git identity applied on `git init`
	GitName  string `yaml:"git_name"`
	GitEmail string `yaml:"git_email"`

	// GitHub credentials for repository creation
	GitHubUsername string `yaml:"github_username"`
	GitHubToken    string `yaml:"github_token"`

	// LogLevel is DEBUG, INFO, WARN or ERROR
	LogLevel string `yaml:"log_level"`
}

// Load reads configuration from ~/.vibedash/config.yaml when present,
// then applies environment variable overrides and defaults. Nothing is
// required: a missing file and empty environment yield a usable
// default configuration.
func Load(fs filesystem.FileSystem) (*Config, error) {
	home, err := fs.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	cfg := &Config{}

	path := filepath.Join(home, ".vibedash", "config.yaml")
	if fs.Exists(path) {
		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg, home)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	setIfEnv(&cfg.ProjectsDir, "VIBEDASH_PROJECTS_DIR")
	setIfEnv(&cfg.DataFile, "VIBEDASH_DATA_FILE")
	setIfEnv(&cfg.SnippetsDir, "VIBEDASH_SNIPPETS_DIR")
	setIfEnv(&cfg.ListenAddr, "VIBEDASH_LISTEN_ADDR")
	setIfEnv(&cfg.ServerURL, "VIBEDASH_SERVER_URL")
	setIfEnv(&cfg.GitName, "GIT_NAME")
	setIfEnv(&cfg.GitEmail, "GIT_EMAIL")
	setIfEnv(&cfg.GitHubUsername, "GITHUB_USERNAME")
	setIfEnv(&cfg.GitHubToken, "GITHUB_TOKEN")
	if cfg.GitHubToken == "" {
		setIfEnv(&cfg.GitHubToken, "GH_TOKEN")
	}
	setIfEnv(&cfg.LogLevel, "VIBEDASH_LOG_LEVEL")
}

func applyDefaults(cfg *Config, home string) {
	if cfg.ProjectsDir == "" {
		cfg.ProjectsDir = filepath.Join(home, "python")
	}
	if cfg.DataFile == "" {
		cfg.DataFile = filepath.Join(home, ".vibedash", "data.json")
	}
	if cfg.SnippetsDir == "" {
		cfg.SnippetsDir = filepath.Join(home, ".vibedash", "snippets")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:8990"
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://127.0.0.1:8990"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "INFO"
	}
}

func setIfEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
