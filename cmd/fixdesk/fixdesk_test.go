package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fixdesk/fixdesk/internal/store"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		configPath = ""
		logLevel = ""
	})
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	want := map[string]bool{"serve": false, "seed": false, "sites": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected subcommand %q", name)
		}
	}
}

func TestLoadConfig_FromFlag(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	content := "[server]\naddress = \":9999\"\n[database]\ndir = \"" + filepath.ToSlash(dir) + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	configPath = path
	logLevel = "debug"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":9999" {
		t.Errorf("expected address ':9999', got %q", cfg.Server.Address)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level override, got %q", cfg.Log.Level)
	}
}

func TestLoadConfig_BadLogLevel(t *testing.T) {
	resetFlags(t)
	logLevel = "chatty"

	if _, err := loadConfig(); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestSeedAndSitesCommands(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fixdesk.toml")
	if err := os.WriteFile(cfgPath, []byte("[database]\ndir = \""+filepath.ToSlash(dir)+"\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	seedPath := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(seedPath, []byte("devices:\n  - name: Press\n    code: PR-01\n"), 0644); err != nil {
		t.Fatalf("failed to write seed: %v", err)
	}

	rootCmd.SetArgs([]string{"seed", "plant-a", seedPath, "--config", cfgPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	manager, err := store.NewManager(dir)
	if err != nil {
		t.Fatalf("failed to open manager: %v", err)
	}
	sites, err := manager.ListSites()
	manager.Close()
	if err != nil || len(sites) != 1 || sites[0] != "plant-a" {
		t.Fatalf("expected site plant-a, got %v (%v)", sites, err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"sites", "--config", cfgPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("sites failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "plant-a" {
		t.Errorf("expected 'plant-a', got %q", out.String())
	}
}
