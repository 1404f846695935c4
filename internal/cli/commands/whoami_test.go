package commands

import (
	"strings"
	"testing"
)

func TestWhoamiCommand_Authenticated(t *testing.T) {
	server := newAdminServer(t, "ada@example.com", "hunter2hunter2", "token-abc")
	defer server.Close()

	writeProjectConfig(t, server.URL)
	store := swapTokenStore(t)
	store.tokens[server.URL] = "token-abc"

	cmd := NewWhoamiCmd()
	cmd.SetArgs([]string{})

	var err error
	output := captureOutput(func() { err = cmd.Execute() })
	if err != nil {
		t.Fatalf("whoami failed: %v", err)
	}

	if !strings.Contains(output, "Ada Admin") {
		t.Errorf("expected user name in output, got: %s", output)
	}
	if !strings.Contains(output, "Superuser") {
		t.Errorf("expected superuser role in output, got: %s", output)
	}
}

// A stored token the server rejects must not survive the restore attempt.
func TestWhoamiCommand_StaleTokenIsCleared(t *testing.T) {
	server := newAdminServer(t, "ada@example.com", "hunter2hunter2", "token-abc")
	defer server.Close()

	writeProjectConfig(t, server.URL)
	store := swapTokenStore(t)
	store.tokens[server.URL] = "stale-token"

	cmd := NewWhoamiCmd()
	cmd.SetArgs([]string{})

	var err error
	captureOutput(func() { err = cmd.Execute() })
	if err == nil {
		t.Fatal("expected error for a rejected token, got nil")
	}
	if !strings.Contains(err.Error(), "session restore failed") {
		t.Errorf("expected restore failure message, got: %v", err)
	}

	if _, ok := store.tokens[server.URL]; ok {
		t.Error("rejected token should have been deleted from the store")
	}
}

func TestWhoamiCommand_NotAuthenticated(t *testing.T) {
	server := newAdminServer(t, "ada@example.com", "hunter2hunter2", "token-abc")
	defer server.Close()

	writeProjectConfig(t, server.URL)
	swapTokenStore(t)

	cmd := NewWhoamiCmd()
	cmd.SetArgs([]string{})

	var err error
	captureOutput(func() { err = cmd.Execute() })
	if err == nil {
		t.Fatal("expected error when no token is stored, got nil")
	}
	if !strings.Contains(err.Error(), "not authenticated") {
		t.Errorf("expected not-authenticated message, got: %v", err)
	}
}
