package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/churnvision/cvadmin/internal/cli/config"
)

func setupTempDir(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() { os.Chdir(originalDir) })
	return tempDir
}

// TestInitCommand_NewConfig tests creating a brand new config file
func TestInitCommand_NewConfig(t *testing.T) {
	tempDir := setupTempDir(t)

	cmd := NewInitCmd()
	cmd.SetArgs([]string{"admin.example.com"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	configPath := filepath.Join(tempDir, config.ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatalf("%s was not created", config.ConfigFileName)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("failed to load created config: %v", err)
	}

	if len(cfg.Servers) != 1 {
		t.Fatalf("expected 1 server, got %d", len(cfg.Servers))
	}

	// Bare hosts get https prepended
	if cfg.Servers[0].URL != "https://admin.example.com" {
		t.Errorf("expected URL 'https://admin.example.com', got '%s'", cfg.Servers[0].URL)
	}

	// First server becomes the production alias
	if cfg.Servers[0].Alias != "production" {
		t.Errorf("expected alias 'production', got '%s'", cfg.Servers[0].Alias)
	}
}

// TestInitCommand_SecondServer tests appending to an existing config
func TestInitCommand_SecondServer(t *testing.T) {
	tempDir := setupTempDir(t)

	for _, url := range []string{"https://admin.example.com", "https://staging.example.com"} {
		cmd := NewInitCmd()
		cmd.SetArgs([]string{url})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("init command failed for %s: %v", url, err)
		}
	}

	cfg, err := config.Load(filepath.Join(tempDir, config.ConfigFileName))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(cfg.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(cfg.Servers))
	}
	if cfg.Servers[1].Alias != "server-2" {
		t.Errorf("expected alias 'server-2', got '%s'", cfg.Servers[1].Alias)
	}
}

// TestInitCommand_DuplicateServer tests that re-adding the same URL is a no-op
func TestInitCommand_DuplicateServer(t *testing.T) {
	tempDir := setupTempDir(t)

	for i := 0; i < 2; i++ {
		cmd := NewInitCmd()
		cmd.SetArgs([]string{"https://admin.example.com"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("init command failed: %v", err)
		}
	}

	cfg, err := config.Load(filepath.Join(tempDir, config.ConfigFileName))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(cfg.Servers) != 1 {
		t.Errorf("expected duplicate to be skipped, got %d servers", len(cfg.Servers))
	}
}

// TestInitCommand_TrailingSlash tests URL normalization
func TestInitCommand_TrailingSlash(t *testing.T) {
	tempDir := setupTempDir(t)

	cmd := NewInitCmd()
	cmd.SetArgs([]string{"https://admin.example.com/"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	cfg, err := config.Load(filepath.Join(tempDir, config.ConfigFileName))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Servers[0].URL != "https://admin.example.com" {
		t.Errorf("expected trailing slash stripped, got '%s'", cfg.Servers[0].URL)
	}
}
