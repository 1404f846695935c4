package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/churnvision/cvadmin/internal/api"
	"github.com/google/uuid"
)

// mockTokenStore is a simple in-memory token store for testing
type mockTokenStore struct {
	tokens  map[string]string
	saveErr error
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{tokens: make(map[string]string)}
}

func (m *mockTokenStore) SaveToken(serverURL, token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tokens[serverURL] = token
	return nil
}

func (m *mockTokenStore) LoadToken(serverURL string) (string, error) {
	token, exists := m.tokens[serverURL]
	if !exists {
		return "", fmt.Errorf("not authenticated. Please run 'cvadmin login' first")
	}
	return token, nil
}

func (m *mockTokenStore) DeleteToken(serverURL string) error {
	delete(m.tokens, serverURL)
	return nil
}

// newAuthServer builds a mock API where only validToken is accepted by the
// profile endpoint and email/password are the only working credentials.
func newAuthServer(t *testing.T, email, password, validToken string) *httptest.Server {
	t.Helper()

	userID := uuid.New()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			r.ParseForm()
			if r.PostForm.Get("username") != email || r.PostForm.Get("password") != password {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail": "Incorrect email or password"}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": validToken,
				"token_type":   "bearer",
			})
		case "/api/v1/auth/me":
			if r.Header.Get("Authorization") != "Bearer "+validToken {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail": "Could not validate credentials"}`))
				return
			}
			json.NewEncoder(w).Encode(api.User{
				ID:       userID,
				Email:    email,
				FullName: "Test Admin",
				IsActive: true,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRestore_NoStoredToken(t *testing.T) {
	server := newAuthServer(t, "admin@example.com", "secret123", "token-abc")
	defer server.Close()

	sess := New(api.New(server.URL), newMockTokenStore())
	if sess.State() != Initializing {
		t.Fatalf("expected Initializing, got %s", sess.State())
	}

	if err := sess.Restore(context.Background()); err != nil {
		t.Fatalf("missing token should not be an error, got: %v", err)
	}
	if sess.State() != Unauthenticated {
		t.Errorf("expected Unauthenticated, got %s", sess.State())
	}
	if sess.User() != nil {
		t.Error("expected no user after failed restore")
	}
}

func TestRestore_ValidToken(t *testing.T) {
	server := newAuthServer(t, "admin@example.com", "secret123", "token-abc")
	defer server.Close()

	store := newMockTokenStore()
	store.tokens[server.URL] = "token-abc"

	sess := New(api.New(server.URL), store)
	if err := sess.Restore(context.Background()); err != nil {
		t.Fatalf("expected successful restore, got: %v", err)
	}
	if sess.State() != Authenticated {
		t.Errorf("expected Authenticated, got %s", sess.State())
	}
	if sess.User() == nil || sess.User().Email != "admin@example.com" {
		t.Errorf("expected restored profile, got %+v", sess.User())
	}
}

// TestRestore_StaleToken verifies that a token rejected by the profile
// endpoint is deleted from the store, so the next restore does not retry it.
func TestRestore_StaleToken(t *testing.T) {
	server := newAuthServer(t, "admin@example.com", "secret123", "token-abc")
	defer server.Close()

	store := newMockTokenStore()
	store.tokens[server.URL] = "expired-token"

	sess := New(api.New(server.URL), store)
	if err := sess.Restore(context.Background()); err == nil {
		t.Fatal("expected error for stale token, got nil")
	}
	if sess.State() != Unauthenticated {
		t.Errorf("expected Unauthenticated, got %s", sess.State())
	}
	if _, exists := store.tokens[server.URL]; exists {
		t.Error("expected stale token to be deleted from store")
	}
	if sess.Client().Token() != "" {
		t.Error("expected client token to be cleared")
	}
}

func TestLogin_Success(t *testing.T) {
	server := newAuthServer(t, "admin@example.com", "secret123", "token-abc")
	defer server.Close()

	store := newMockTokenStore()
	sess := New(api.New(server.URL), store)

	user, err := sess.Login(context.Background(), "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("expected successful login, got: %v", err)
	}
	if user.FullName != "Test Admin" {
		t.Errorf("unexpected profile: %+v", user)
	}
	if sess.State() != Authenticated {
		t.Errorf("expected Authenticated, got %s", sess.State())
	}
	if store.tokens[server.URL] != "token-abc" {
		t.Errorf("expected token persisted, store has %q", store.tokens[server.URL])
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	server := newAuthServer(t, "admin@example.com", "secret123", "token-abc")
	defer server.Close()

	store := newMockTokenStore()
	sess := New(api.New(server.URL), store)

	_, err := sess.Login(context.Background(), "admin@example.com", "wrong")
	if err == nil {
		t.Fatal("expected login error, got nil")
	}
	if sess.State() != Unauthenticated {
		t.Errorf("expected Unauthenticated, got %s", sess.State())
	}
	if len(store.tokens) != 0 {
		t.Error("expected no token persisted after failed login")
	}
}

// TestLogin_SaveFailureRollsBack verifies that a store failure leaves the
// session without a credential rather than half-authenticated.
func TestLogin_SaveFailureRollsBack(t *testing.T) {
	server := newAuthServer(t, "admin@example.com", "secret123", "token-abc")
	defer server.Close()

	store := newMockTokenStore()
	store.saveErr = fmt.Errorf("keyring locked")
	sess := New(api.New(server.URL), store)

	_, err := sess.Login(context.Background(), "admin@example.com", "secret123")
	if err == nil {
		t.Fatal("expected error when token save fails, got nil")
	}
	if sess.State() != Unauthenticated {
		t.Errorf("expected Unauthenticated, got %s", sess.State())
	}
	if sess.Client().Token() != "" {
		t.Error("expected client token to be cleared after rollback")
	}
}

func TestLogout_IsLocalOnly(t *testing.T) {
	server := newAuthServer(t, "admin@example.com", "secret123", "token-abc")

	store := newMockTokenStore()
	sess := New(api.New(server.URL), store)
	if _, err := sess.Login(context.Background(), "admin@example.com", "secret123"); err != nil {
		t.Fatalf("login setup failed: %v", err)
	}

	// Logout must not need the server at all.
	server.Close()

	if err := sess.Logout(); err != nil {
		t.Fatalf("expected logout to succeed offline, got: %v", err)
	}
	if sess.State() != Unauthenticated {
		t.Errorf("expected Unauthenticated, got %s", sess.State())
	}
	if len(store.tokens) != 0 {
		t.Error("expected stored token removed on logout")
	}

	// A later restore finds nothing to resume.
	server2 := newAuthServer(t, "admin@example.com", "secret123", "token-abc")
	defer server2.Close()
	sess2 := New(api.New(server2.URL), store)
	if err := sess2.Restore(context.Background()); err != nil {
		t.Fatalf("restore after logout should be a clean miss, got: %v", err)
	}
	if sess2.State() != Unauthenticated {
		t.Errorf("expected Unauthenticated after logout, got %s", sess2.State())
	}
}
