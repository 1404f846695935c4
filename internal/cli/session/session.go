// Package session owns the authentication lifecycle: it is the only writer
// of the persisted token and of the client's bearer credential. Commands
// receive a *Session explicitly instead of reaching into ambient state.
package session

import (
	"context"
	"fmt"

	"github.com/churnvision/cvadmin/internal/api"
	"github.com/churnvision/cvadmin/internal/cli/auth"
)

// State is the session lifecycle state.
type State int

const (
	// Initializing means Restore has not completed yet; callers must not
	// act on session contents while in this state.
	Initializing State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session holds the current token and user profile for one server.
// Invariant: a token is only ever held (in memory or in the store) after a
// profile fetch with that token has succeeded.
type Session struct {
	client *api.Client
	store  auth.TokenStore

	state State
	user  *api.User
}

// New creates a session in the Initializing state. The client's base URL
// doubles as the token storage key.
func New(client *api.Client, store auth.TokenStore) *Session {
	if store == nil {
		store = auth.Default
	}
	return &Session{
		client: client,
		store:  store,
		state:  Initializing,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// User returns the profile of the authenticated user, or nil.
func (s *Session) User() *api.User {
	return s.user
}

// Client returns the API client carrying this session's credential.
func (s *Session) Client() *api.Client {
	return s.client
}

// Restore loads a persisted token and validates it with a profile fetch.
// Any failure (missing token, network error, non-2xx) clears the stored
// token and leaves the session unauthenticated; the session always leaves
// Initializing exactly once.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.LoadToken(s.client.BaseURL())
	if err != nil {
		s.clear()
		return nil
	}

	s.client.SetToken(token)
	user, err := s.client.Me(ctx)
	if err != nil {
		// A stale token must never outlive a failed validation.
		_ = s.store.DeleteToken(s.client.BaseURL())
		s.clear()
		return err
	}

	s.user = user
	s.state = Authenticated
	return nil
}

// Login exchanges credentials for a token, persists it, and fetches the
// profile. If the profile fetch fails the stored token is rolled back.
func (s *Session) Login(ctx context.Context, email, password string) (*api.User, error) {
	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.clear()
		return nil, fmt.Errorf("login failed: %w", err)
	}

	s.client.SetToken(token.AccessToken)
	user, err := s.client.Me(ctx)
	if err != nil {
		s.clear()
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	if err := s.store.SaveToken(s.client.BaseURL(), token.AccessToken); err != nil {
		s.clear()
		return nil, fmt.Errorf("failed to save authentication token: %w", err)
	}

	s.user = user
	s.state = Authenticated
	return user, nil
}

// Register creates an account and then logs in with the same credentials.
// There is no separate confirmation step.
func (s *Session) Register(ctx context.Context, email, password, fullName string) (*api.User, error) {
	_, err := s.client.Register(ctx, api.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return s.Login(ctx, email, password)
}

// Logout clears the persisted token and in-memory state. It performs no
// network I/O; there is no server-side session to invalidate.
func (s *Session) Logout() error {
	err := s.store.DeleteToken(s.client.BaseURL())
	s.clear()
	if err != nil {
		return fmt.Errorf("failed to clear stored token: %w", err)
	}
	return nil
}

func (s *Session) clear() {
	s.client.SetToken("")
	s.user = nil
	s.state = Unauthenticated
}
