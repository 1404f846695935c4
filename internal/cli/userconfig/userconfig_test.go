package userconfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmptyConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Empty(t, cfg.SelectedServerURL)
}

func TestSetAndGetSelectedServer(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, SetSelectedServer("https://admin.example.com"))

	url, err := GetSelectedServer()
	require.NoError(t, err)
	require.Equal(t, "https://admin.example.com", url)

	// Saved under ~/.config/cvadmin/config.json
	path, err := GetConfigPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", configDirName, configFileName), path)

	// Selecting again overwrites, not appends
	require.NoError(t, SetSelectedServer("https://staging.example.com"))
	url, err = GetSelectedServer()
	require.NoError(t, err)
	require.Equal(t, "https://staging.example.com", url)
}
