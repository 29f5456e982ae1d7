package config

import (
	"errors"
	"os"
)

// ResolvedConfig represents the final merged client configuration.
// Precedence order (highest to lowest):
// 1. Workspace config (fd.toml)
// 2. Global config (~/.fixdesk/config.toml)
// 3. Built-in defaults (localhost:7480)
//
// Command-line flags are applied on top by the CLI.
type ResolvedConfig struct {
	Site       string
	Actor      string
	ServerHost string
	ServerPort int
	// RefreshOnNotification controls whether watched task groups reload on
	// every NotificationReceived event. Defaults to true.
	RefreshOnNotification bool
}

// ResolveConfig loads the global config, discovers the workspace config,
// and merges them according to precedence rules.
func ResolveConfig() (*ResolvedConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return ResolveConfigFrom(homeDir, cwd)
}

// ResolveConfigFrom resolves config using the given home and working
// directories. A missing workspace file is not an error.
func ResolveConfigFrom(homeDir, workDir string) (*ResolvedConfig, error) {
	globalCfg, err := LoadGlobalConfigFromDir(homeDir)
	if err != nil {
		return nil, err
	}

	workspaceCfg, err := discoverWorkspaceConfigFrom(workDir)
	if err != nil && !errors.Is(err, ErrNoWorkspace) {
		return nil, err
	}

	resolved := &ResolvedConfig{
		ServerHost: DefaultServerHost,
		ServerPort: DefaultServerPort,

		RefreshOnNotification: true,
	}
	if globalCfg.RefreshOnNotification != nil {
		resolved.RefreshOnNotification = *globalCfg.RefreshOnNotification
	}

	apply := func(site, actor, host string, port int) {
		if site != "" {
			resolved.Site = site
		}
		if actor != "" {
			resolved.Actor = actor
		}
		if host != "" {
			resolved.ServerHost = host
		}
		if port != 0 {
			resolved.ServerPort = port
		}
	}

	apply(globalCfg.Site, globalCfg.Actor, globalCfg.ServerHost, globalCfg.ServerPort)
	if workspaceCfg != nil {
		apply(workspaceCfg.Site, workspaceCfg.Actor, workspaceCfg.ServerHost, workspaceCfg.ServerPort)
	}

	return resolved, nil
}
