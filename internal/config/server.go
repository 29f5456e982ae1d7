package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ServerConfigFileName is the default name of the server configuration file.
const ServerConfigFileName = "fixdesk.toml"

// ServerConfig is the configuration of the fixdesk service.
type ServerConfig struct {
	Server   ServerSection   `toml:"server"`
	Database DatabaseSection `toml:"database"`
	Redis    RedisSection    `toml:"redis"`
	Log      LogSection      `toml:"log"`
}

// ServerSection is the [server] table.
type ServerSection struct {
	Address string `toml:"address"`
}

// DatabaseSection is the [database] table. Each site gets <dir>/<site>.db.
type DatabaseSection struct {
	Dir string `toml:"dir"`
}

// RedisSection is the [redis] table. An empty address selects the
// in-process hand-off store.
type RedisSection struct {
	Addr string `toml:"addr"`
}

// LogSection is the [log] table.
type LogSection struct {
	Level string `toml:"level"`
}

// DefaultServerConfig returns the configuration used when no file is given.
func DefaultServerConfig() *ServerConfig {
	dir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, GlobalConfigDir, "sites")
	}
	return &ServerConfig{
		Server:   ServerSection{Address: fmt.Sprintf("%s:%d", DefaultServerHost, DefaultServerPort)},
		Database: DatabaseSection{Dir: dir},
		Log:      LogSection{Level: "info"},
	}
}

// LoadServerConfig reads a server config file on top of the defaults.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := DefaultServerConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields the server cannot start without.
func (c *ServerConfig) Validate() error {
	if strings.TrimSpace(c.Server.Address) == "" {
		return fmt.Errorf("server.address cannot be empty")
	}
	if strings.TrimSpace(c.Database.Dir) == "" {
		return fmt.Errorf("database.dir cannot be empty")
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps a level name to a slog level. Empty means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// NewLogger builds the service logger from the [log] table.
func (c *ServerConfig) NewLogger() *slog.Logger {
	level, _ := ParseLogLevel(c.Log.Level)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
