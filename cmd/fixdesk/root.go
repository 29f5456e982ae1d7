package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fixdesk/fixdesk/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "fixdesk",
	Short:        "fixdesk maintenance service",
	Long:         `Site-scoped maintenance service for task groups, devices, spare parts and live dashboard updates.`,
	SilenceUsage: true,
}

// Global flags
var (
	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to "+config.ServerConfigFileName)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override [log] level (debug, info, warn, error)")
}

// loadConfig reads the server config from --config, or from fixdesk.toml in
// the working directory when present, or falls back to the defaults.
func loadConfig() (*config.ServerConfig, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat(config.ServerConfigFileName); err == nil {
			path = config.ServerConfigFileName
		}
	}

	cfg := config.DefaultServerConfig()
	if path != "" {
		var err error
		if cfg, err = config.LoadServerConfig(path); err != nil {
			return nil, err
		}
	}

	if logLevel != "" {
		if _, err := config.ParseLogLevel(logLevel); err != nil {
			return nil, err
		}
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fixdesk failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
