package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// WorkspaceFileName is the name of the directory-local client config file.
const WorkspaceFileName = "fd.toml"

// ErrNoWorkspace is returned when no fd.toml exists in the directory tree.
var ErrNoWorkspace = errors.New("no fd.toml found")

// WorkspaceConfig pins a directory tree to a site, e.g. a plant's runbook
// checkout.
type WorkspaceConfig struct {
	Path       string
	Site       string
	Actor      string
	ServerHost string
	ServerPort int
}

type workspaceFile struct {
	Site   string        `toml:"site"`
	Actor  string        `toml:"actor"`
	Server serverSection `toml:"server"`
}

// DiscoverWorkspaceConfig finds and parses fd.toml by traversing up the
// directory tree from the current working directory.
func DiscoverWorkspaceConfig() (*WorkspaceConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return discoverWorkspaceConfigFrom(cwd)
}

func discoverWorkspaceConfigFrom(startDir string) (*WorkspaceConfig, error) {
	dir := startDir

	for {
		configPath := filepath.Join(dir, WorkspaceFileName)
		if _, err := os.Stat(configPath); err == nil {
			return ParseWorkspaceConfig(configPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNoWorkspace
		}
		dir = parent
	}
}

// ParseWorkspaceConfig parses the fd.toml file at the given path. Unset
// server fields are left zero so they do not override the global config.
func ParseWorkspaceConfig(path string) (*WorkspaceConfig, error) {
	var raw workspaceFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if raw.Site == "" {
		return nil, errors.New("site cannot be empty")
	}

	cfg := &WorkspaceConfig{
		Path:       path,
		Site:       raw.Site,
		Actor:      raw.Actor,
		ServerHost: raw.Server.Host,
	}
	if raw.Server.Port != nil {
		if err := validatePort(*raw.Server.Port); err != nil {
			return nil, err
		}
		cfg.ServerPort = *raw.Server.Port
	}

	return cfg, nil
}

// WriteWorkspaceConfig creates fd.toml in dir. It refuses to overwrite an
// existing file.
func WriteWorkspaceConfig(dir, site string) (string, error) {
	path := filepath.Join(dir, WorkspaceFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(workspaceFile{Site: site}); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
