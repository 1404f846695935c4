package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() { os.Chdir(original) })
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	cfg := &Config{Servers: []Server{
		{URL: "https://admin.example.com", Alias: "production"},
		{URL: "https://staging.example.com", Alias: "staging"},
	}}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(loaded.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(loaded.Servers))
	}
	if loaded.Servers[0].URL != "https://admin.example.com" {
		t.Errorf("unexpected first server: %+v", loaded.Servers[0])
	}
}

func TestFindConfigFile_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dirs: %v", err)
	}

	path := filepath.Join(root, ConfigFileName)
	if err := Save(path, &Config{Servers: []Server{{URL: "https://x", Alias: "x"}}}); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	chdir(t, nested)

	found, err := FindConfigFile()
	if err != nil {
		t.Fatalf("expected config to be found from nested dir, got: %v", err)
	}
	// Resolve symlinks; temp dirs are often symlinked on macOS.
	wantDir, _ := filepath.EvalSymlinks(root)
	gotDir, _ := filepath.EvalSymlinks(filepath.Dir(found))
	if wantDir != gotDir {
		t.Errorf("expected config in %s, found %s", wantDir, found)
	}
}

func TestLoadFromCurrentDir_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir()) // no config file here

	t.Setenv("CVADMIN_API_URL", "https://ci.example.com")

	cfg, err := LoadFromCurrentDir()
	if err != nil {
		t.Fatalf("expected env override to work, got: %v", err)
	}
	if len(cfg.Servers) != 1 || cfg.Servers[0].URL != "https://ci.example.com" {
		t.Errorf("unexpected servers: %+v", cfg.Servers)
	}
	if cfg.Servers[0].Alias != "env" {
		t.Errorf("expected alias 'env', got '%s'", cfg.Servers[0].Alias)
	}
}

func TestGetServerByAlias(t *testing.T) {
	cfg := &Config{Servers: []Server{
		{URL: "https://a", Alias: "production"},
		{URL: "https://b", Alias: "staging"},
	}}

	server, err := cfg.GetServerByAlias("staging")
	if err != nil {
		t.Fatalf("expected staging server, got: %v", err)
	}
	if server.URL != "https://b" {
		t.Errorf("expected https://b, got %s", server.URL)
	}

	if _, err := cfg.GetServerByAlias("missing"); err == nil {
		t.Error("expected error for unknown alias")
	}
}

func TestGetDefaultServer_Empty(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.GetDefaultServer(); err == nil {
		t.Error("expected error for empty server list")
	}
}
