package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// GlobalConfigDir is the name of the global config directory in home
	GlobalConfigDir = ".fixdesk"

	// GlobalConfigFileName is the name of the global config file
	GlobalConfigFileName = "config.toml"
)

// GlobalConfig represents the user-level configuration from ~/.fixdesk/config.toml
type GlobalConfig struct {
	ServerHost string
	ServerPort int
	Site       string
	Actor      string
	// RefreshOnNotification is nil when the [live] table does not set it.
	RefreshOnNotification *bool
}

// globalConfigFile represents the raw TOML structure for global config
type globalConfigFile struct {
	Site   string        `toml:"site"`
	Actor  string        `toml:"actor"`
	Server serverSection `toml:"server"`
	Live   liveSection   `toml:"live"`
}

// liveSection is the [live] table of the global config.
type liveSection struct {
	RefreshOnNotification *bool `toml:"refresh_on_notification"`
}

// LoadGlobalConfig loads the global configuration from ~/.fixdesk/config.toml.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadGlobalConfigFromDir(homeDir)
}

// LoadGlobalConfigFromDir loads global config using the specified directory as home.
func LoadGlobalConfigFromDir(homeDir string) (*GlobalConfig, error) {
	configPath := filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &GlobalConfig{}, nil
	}

	var rawConfig globalConfigFile
	if _, err := toml.DecodeFile(configPath, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse global config TOML: %w", err)
	}

	cfg := &GlobalConfig{
		ServerHost: rawConfig.Server.Host,
		Site:       rawConfig.Site,
		Actor:      rawConfig.Actor,

		RefreshOnNotification: rawConfig.Live.RefreshOnNotification,
	}

	if rawConfig.Server.Port != nil {
		if err := validatePort(*rawConfig.Server.Port); err != nil {
			return nil, err
		}
		cfg.ServerPort = *rawConfig.Server.Port
	}

	return cfg, nil
}
