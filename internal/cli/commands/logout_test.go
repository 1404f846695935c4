package commands

import (
	"strings"
	"testing"
)

// Logout is purely local, so the server is shut down before the command
// runs: any request would fail the test.
func TestLogoutCommand_ClearsTokenWithoutNetwork(t *testing.T) {
	server := newAdminServer(t, "ada@example.com", "hunter2hunter2", "token-abc")
	url := server.URL
	server.Close()

	writeProjectConfig(t, url)
	store := swapTokenStore(t)
	store.tokens[url] = "token-abc"

	cmd := NewLogoutCmd()
	cmd.SetArgs([]string{})

	var err error
	output := captureOutput(func() { err = cmd.Execute() })
	if err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, ok := store.tokens[url]; ok {
		t.Error("expected stored token to be deleted")
	}
	if !strings.Contains(output, "Logged out of production") {
		t.Errorf("expected logout confirmation, got: %s", output)
	}
}

func TestLogoutCommand_NoStoredTokenIsFine(t *testing.T) {
	writeProjectConfig(t, "https://admin.example.com")
	swapTokenStore(t)

	cmd := NewLogoutCmd()
	cmd.SetArgs([]string{})

	var err error
	captureOutput(func() { err = cmd.Execute() })
	if err != nil {
		t.Fatalf("logout without a stored token should succeed, got: %v", err)
	}
}
