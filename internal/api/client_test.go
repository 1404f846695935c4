package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// TestLogin_FormEncoded verifies that credentials are sent form-encoded
// under username/password, not as JSON.
func TestLogin_FormEncoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		ct := r.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
			t.Errorf("expected form content type, got %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.PostForm.Get("username") != "admin@example.com" {
			t.Errorf("expected username field, got %q", r.PostForm.Get("username"))
		}
		if r.PostForm.Get("password") != "secret123" {
			t.Errorf("expected password field, got %q", r.PostForm.Get("password"))
		}

		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "token-abc",
			"token_type":   "bearer",
		})
	}))
	defer server.Close()

	client := New(server.URL)
	token, err := client.Login(context.Background(), "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("expected successful login, got error: %v", err)
	}
	if token.AccessToken != "token-abc" {
		t.Errorf("expected token 'token-abc', got '%s'", token.AccessToken)
	}
}

// TestErrorDetail verifies that JSON error bodies surface their detail
// message as a typed APIError.
func TestErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Tenant not found"}`))
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.GetTenant(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != 404 {
		t.Errorf("expected status 404, got %d", apiErr.Status)
	}
	if apiErr.Message != "Tenant not found" {
		t.Errorf("expected detail message, got '%s'", apiErr.Message)
	}
	if !IsNotFound(err) {
		t.Error("expected IsNotFound to match")
	}
}

// TestErrorNonJSONFallback verifies the generic error message when the
// server does not answer with a JSON body.
func TestErrorNonJSONFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.GetTenant(context.Background(), "acme")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "request failed with status 500" {
		t.Errorf("unexpected fallback message: '%s'", apiErr.Message)
	}
}

// TestDeleteTenant_NoContent verifies that 204 responses complete without
// attempting to decode a body.
func TestDeleteTenant_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "DELETE" {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL)
	if err := client.DeleteTenant(context.Background(), "acme"); err != nil {
		t.Fatalf("expected success on 204, got error: %v", err)
	}
}

// TestCreateTenant verifies the JSON round trip and the bearer token
// header on an authenticated request.
func TestCreateTenant(t *testing.T) {
	tenantID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-abc" {
			t.Errorf("expected bearer token, got '%s'", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
		}

		var req TenantCreate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Name != "Acme Corp" || req.Slug != "acme" {
			t.Errorf("unexpected payload: %+v", req)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Tenant{
			ID:     tenantID,
			Name:   req.Name,
			Slug:   req.Slug,
			Tier:   TierStarter,
			Status: TenantStatusTrial,
		})
	}))
	defer server.Close()

	client := New(server.URL)
	client.SetToken("token-abc")

	tenant, err := client.CreateTenant(context.Background(), TenantCreate{
		Name: "Acme Corp",
		Slug: "acme",
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if tenant.ID != tenantID {
		t.Errorf("expected id %s, got %s", tenantID, tenant.ID)
	}
	if tenant.Status != TenantStatusTrial {
		t.Errorf("expected TRIAL status, got %s", tenant.Status)
	}
}

// TestCreateTenant_RejectsInvalidPayload verifies that validation stops a
// bad payload before any request is sent.
func TestCreateTenant_RejectsInvalidPayload(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := New(server.URL)

	// Missing name, uppercase slug
	_, err := client.CreateTenant(context.Background(), TenantCreate{Slug: "ACME"})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if requests != 0 {
		t.Errorf("expected no requests, server saw %d", requests)
	}
}

// TestRevokeLicense_DefaultReason verifies that an empty reason falls back
// to the standard revocation note, passed as a query parameter.
func TestRevokeLicense_DefaultReason(t *testing.T) {
	licenseID := uuid.New().String()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "DELETE" {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if got := r.URL.Query().Get("reason"); got != DefaultRevokeReason {
			t.Errorf("expected reason %q, got %q", DefaultRevokeReason, got)
		}
		json.NewEncoder(w).Encode(License{Revoked: true, RevocationReason: DefaultRevokeReason})
	}))
	defer server.Close()

	client := New(server.URL)
	license, err := client.RevokeLicense(context.Background(), licenseID, "")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if !license.Revoked {
		t.Error("expected license to be revoked")
	}
}

// TestListTenants_Pagination verifies skip/limit query parameters.
func TestListTenants_Pagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("skip") != "20" || q.Get("limit") != "10" {
			t.Errorf("unexpected pagination params: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]Tenant{})
	}))
	defer server.Close()

	client := New(server.URL)
	tenants, err := client.ListTenants(context.Background(), 20, 10)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if len(tenants) != 0 {
		t.Errorf("expected empty list, got %d tenants", len(tenants))
	}
}

// TestContextCancellation verifies that an already-cancelled context stops
// the request.
func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Tenant{})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(server.URL)
	if _, err := client.ListTenants(ctx, 0, 100); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}
