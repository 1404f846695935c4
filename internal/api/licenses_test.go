package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func makeLicenseKey(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("failed to sign test key: %v", err)
	}
	return signed
}

func TestDecodeLicenseKey(t *testing.T) {
	issued := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	expires := issued.AddDate(1, 0, 0)

	key := makeLicenseKey(t, jwt.MapClaims{
		"iss":      "churnvision",
		"sub":      "acme",
		"iat":      issued.Unix(),
		"exp":      expires.Unix(),
		"features": []string{"sso", "audit_log"},
		"limits":   map[string]any{"max_users": 50},
	})

	claims, err := DecodeLicenseKey(key)
	if err != nil {
		t.Fatalf("expected successful decode, got error: %v", err)
	}

	if claims.Issuer != "churnvision" {
		t.Errorf("expected issuer 'churnvision', got '%s'", claims.Issuer)
	}
	if claims.Subject != "acme" {
		t.Errorf("expected subject 'acme', got '%s'", claims.Subject)
	}
	if !claims.IssuedAt.Equal(issued) {
		t.Errorf("expected issued at %s, got %s", issued, claims.IssuedAt)
	}
	if !claims.Expires.Equal(expires) {
		t.Errorf("expected expiry %s, got %s", expires, claims.Expires)
	}
	if len(claims.Features) != 2 || claims.Features[0] != "sso" {
		t.Errorf("unexpected features: %v", claims.Features)
	}
	if v, ok := claims.Limits["max_users"]; !ok || v != float64(50) {
		t.Errorf("unexpected limits: %v", claims.Limits)
	}
}

func TestDecodeLicenseKey_Garbage(t *testing.T) {
	if _, err := DecodeLicenseKey("not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed key, got nil")
	}
}
