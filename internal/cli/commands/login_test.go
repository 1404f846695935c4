package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/churnvision/cvadmin/internal/cli/auth"
	"github.com/churnvision/cvadmin/internal/cli/config"
)

// mockTokenStore is an in-memory token store for command tests.
type mockTokenStore struct {
	tokens map[string]string
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{tokens: make(map[string]string)}
}

func (m *mockTokenStore) SaveToken(serverURL, token string) error {
	m.tokens[serverURL] = token
	return nil
}

func (m *mockTokenStore) LoadToken(serverURL string) (string, error) {
	token, ok := m.tokens[serverURL]
	if !ok {
		return "", auth.ErrNotAuthenticated
	}
	return token, nil
}

func (m *mockTokenStore) DeleteToken(serverURL string) error {
	delete(m.tokens, serverURL)
	return nil
}

// swapTokenStore replaces the package-level token store for one test so
// commands never touch the OS keyring.
func swapTokenStore(t *testing.T) *mockTokenStore {
	t.Helper()
	store := newMockTokenStore()
	original := auth.Default
	auth.Default = store
	t.Cleanup(func() { auth.Default = original })
	return store
}

// writeProjectConfig drops a churnvision.json pointing at the given URL
// into a fresh temp working directory.
func writeProjectConfig(t *testing.T, url string) {
	t.Helper()
	tempDir := setupTempDir(t)
	cfg := &config.Config{Servers: []config.Server{{URL: url, Alias: "production"}}}
	if err := config.Save(filepath.Join(tempDir, config.ConfigFileName), cfg); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

// newAdminServer serves the login and profile endpoints. Any bearer token
// other than validToken gets a 401.
func newAdminServer(t *testing.T, email, password, validToken string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			if err := r.ParseForm(); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if r.PostFormValue("username") != email || r.PostFormValue("password") != password {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"detail": "Incorrect email or password"}`)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": validToken,
				"token_type":   "bearer",
			})
		case "/api/v1/auth/me":
			if r.Header.Get("Authorization") != "Bearer "+validToken {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"detail": "Could not validate credentials"}`)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"id":           "7f8d6a52-0c7e-4a2e-9a1f-3a9a4c8e1b2d",
				"email":        email,
				"full_name":    "Ada Admin",
				"is_active":    true,
				"is_superuser": true,
			})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestLoginCommand_Success(t *testing.T) {
	server := newAdminServer(t, "ada@example.com", "hunter2hunter2", "token-abc")
	defer server.Close()

	writeProjectConfig(t, server.URL)
	store := swapTokenStore(t)

	cmd := NewLoginCmd()
	cmd.SetArgs([]string{"--email", "ada@example.com", "--password", "hunter2hunter2"})

	var err error
	output := captureOutput(func() { err = cmd.Execute() })
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if store.tokens[server.URL] != "token-abc" {
		t.Errorf("expected token to be persisted for %s, got %q", server.URL, store.tokens[server.URL])
	}
	if !strings.Contains(output, "Login successful") {
		t.Errorf("expected success message, got: %s", output)
	}
	if !strings.Contains(output, "Ada Admin") {
		t.Errorf("expected user name in output, got: %s", output)
	}
}

func TestLoginCommand_EnvCredentials(t *testing.T) {
	server := newAdminServer(t, "ci@example.com", "pipeline-secret", "token-ci")
	defer server.Close()

	writeProjectConfig(t, server.URL)
	store := swapTokenStore(t)

	t.Setenv("CVADMIN_EMAIL", "ci@example.com")
	t.Setenv("CVADMIN_PASSWORD", "pipeline-secret")

	cmd := NewLoginCmd()
	cmd.SetArgs([]string{})

	var err error
	captureOutput(func() { err = cmd.Execute() })
	if err != nil {
		t.Fatalf("login via env vars failed: %v", err)
	}

	if store.tokens[server.URL] != "token-ci" {
		t.Errorf("expected token to be persisted, got %q", store.tokens[server.URL])
	}
}

func TestLoginCommand_BadCredentials(t *testing.T) {
	server := newAdminServer(t, "ada@example.com", "hunter2hunter2", "token-abc")
	defer server.Close()

	writeProjectConfig(t, server.URL)
	store := swapTokenStore(t)

	cmd := NewLoginCmd()
	cmd.SetArgs([]string{"--email", "ada@example.com", "--password", "wrong"})

	var err error
	captureOutput(func() { err = cmd.Execute() })
	if err == nil {
		t.Fatal("expected error for bad credentials, got nil")
	}
	if !strings.Contains(err.Error(), "login failed") {
		t.Errorf("expected login failure message, got: %v", err)
	}

	if _, ok := store.tokens[server.URL]; ok {
		t.Error("no token should be stored after a failed login")
	}
}

func TestLoginCommand_MissingEmail(t *testing.T) {
	writeProjectConfig(t, "https://admin.example.com")
	swapTokenStore(t)

	t.Setenv("CVADMIN_EMAIL", "")
	t.Setenv("CVADMIN_PASSWORD", "")

	cmd := NewLoginCmd()
	cmd.SetArgs([]string{})

	var err error
	captureOutput(func() { err = cmd.Execute() })
	if err == nil {
		t.Fatal("expected error when email is missing, got nil")
	}

	expected := "email is required (use --email flag or CVADMIN_EMAIL env var)"
	if err.Error() != expected {
		t.Errorf("expected error '%s', got '%s'", expected, err.Error())
	}
}
