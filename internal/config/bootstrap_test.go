package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"jobinsights-engine/internal/config"
)

func TestEnsureUserConfig_CopiesShippedDefaults(t *testing.T) {
	shipped := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(shipped, []byte("app:\n  port: 9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	dataDir := t.TempDir()

	path, err := config.EnsureUserConfig(dataDir, shipped)
	if err != nil {
		t.Fatalf("EnsureUserConfig: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != 9999 {
		t.Errorf("port = %d, want the shipped file's 9999", cfg.App.Port)
	}
}

func TestEnsureUserConfig_FallsBackToBuiltins(t *testing.T) {
	dataDir := t.TempDir()

	path, err := config.EnsureUserConfig(dataDir, filepath.Join(dataDir, "missing.yml"))
	if err != nil {
		t.Fatalf("EnsureUserConfig: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != config.Default().API.BaseURL {
		t.Errorf("base_url = %q, want built-in default", cfg.API.BaseURL)
	}
}

func TestEnsureUserConfig_KeepsExisting(t *testing.T) {
	dataDir := t.TempDir()
	existing := filepath.Join(dataDir, "config.yml")
	if err := os.WriteFile(existing, []byte("app:\n  port: 1234\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	shipped := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(shipped, []byte("app:\n  port: 9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := config.EnsureUserConfig(dataDir, shipped)
	if err != nil {
		t.Fatalf("EnsureUserConfig: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != 1234 {
		t.Errorf("port = %d, existing user config must not be overwritten", cfg.App.Port)
	}
}
