package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// License is an issued license key for a tenant.
type License struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	KeyString string    `json:"key_string"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`

	RevocationReason string     `json:"revocation_reason,omitempty"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
}

// LLMAPIKeys are provider keys embedded in the license for customer use.
type LLMAPIKeys struct {
	OpenAI    string `json:"openai,omitempty"`
	Anthropic string `json:"anthropic,omitempty"`
	Google    string `json:"google,omitempty"`
}

// EmbeddedKeys are credentials baked into the license claims.
type EmbeddedKeys struct {
	AdminAPIKey string      `json:"admin_api_key,omitempty"`
	LLMAPIKeys  *LLMAPIKeys `json:"llm_api_keys,omitempty"`
}

// LicenseCreate is the payload for issuing a new license.
type LicenseCreate struct {
	TenantID       uuid.UUID     `json:"tenant_id" validate:"required"`
	ExpirationDays int           `json:"expiration_days,omitempty"`
	MaxEmployees   *int          `json:"max_employees,omitempty"`
	MaxUsers       *int          `json:"max_users,omitempty"`
	Features       []string      `json:"features"`
	EmbeddedKeys   *EmbeddedKeys `json:"embedded_keys,omitempty"`
}

// LicenseAuditLog is one entry in a license's audit trail.
type LicenseAuditLog struct {
	ID          uuid.UUID      `json:"id"`
	LicenseID   uuid.UUID      `json:"license_id"`
	Action      string         `json:"action"`
	PerformedBy string         `json:"performed_by,omitempty"`
	PerformedAt time.Time      `json:"performed_at"`
	Details     map[string]any `json:"details,omitempty"`
}

// LicenseValidation is the server's verdict on a license key.
type LicenseValidation struct {
	Valid            bool     `json:"valid"`
	LicenseTier      string   `json:"license_tier"`
	CompanyName      string   `json:"company_name"`
	MaxEmployees     *int     `json:"max_employees"`
	ExpiresAt        string   `json:"expires_at"`
	Features         []string `json:"features"`
	Revoked          bool     `json:"revoked"`
	RevocationReason string   `json:"revocation_reason,omitempty"`
	RevokedAt        string   `json:"revoked_at,omitempty"`
	DaysUntilExpiry  *int     `json:"days_until_expiry,omitempty"`
}

// LicenseClaims is the client-side decoded view of a license key's JWT
// claims. The signature is not verified; issuing and verification are
// strictly server-side.
type LicenseClaims struct {
	Issuer   string         `json:"iss"`
	Subject  string         `json:"sub"`
	IssuedAt time.Time      `json:"iat"`
	Expires  time.Time      `json:"exp"`
	Features []string       `json:"features"`
	Limits   map[string]any `json:"limits"`
}

// DefaultRevokeReason is attached when no revocation reason is supplied.
const DefaultRevokeReason = "Revoked via UI"

// ListLicenses returns all licenses with pagination.
func (c *Client) ListLicenses(ctx context.Context, skip, limit int) ([]License, error) {
	var licenses []License
	if err := c.get(ctx, "/licenses/", pageQuery(skip, limit), &licenses); err != nil {
		return nil, err
	}
	return licenses, nil
}

// ListTenantLicenses returns all licenses issued to one tenant.
func (c *Client) ListTenantLicenses(ctx context.Context, tenantID uuid.UUID) ([]License, error) {
	var licenses []License
	if err := c.get(ctx, "/licenses/tenant/"+tenantID.String(), nil, &licenses); err != nil {
		return nil, err
	}
	return licenses, nil
}

// GetLicense fetches a license by ID.
func (c *Client) GetLicense(ctx context.Context, licenseID string) (*License, error) {
	var license License
	if err := c.get(ctx, "/licenses/"+licenseID, nil, &license); err != nil {
		return nil, err
	}
	return &license, nil
}

// IssueLicense generates a new license for a tenant.
func (c *Client) IssueLicense(ctx context.Context, req LicenseCreate) (*License, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var license License
	if err := c.do(ctx, "POST", "/licenses/", nil, req, &license); err != nil {
		return nil, err
	}
	return &license, nil
}

// ExtendLicense pushes a license's expiry out by additionalDays.
func (c *Client) ExtendLicense(ctx context.Context, licenseID string, additionalDays int) (*License, error) {
	body := struct {
		AdditionalDays int `json:"additional_days"`
	}{AdditionalDays: additionalDays}

	var license License
	if err := c.do(ctx, "POST", "/licenses/"+licenseID+"/extend", nil, body, &license); err != nil {
		return nil, err
	}
	return &license, nil
}

// RevokeLicense revokes a license. An empty reason falls back to
// DefaultRevokeReason.
func (c *Client) RevokeLicense(ctx context.Context, licenseID, reason string) (*License, error) {
	if reason == "" {
		reason = DefaultRevokeReason
	}
	query := url.Values{}
	query.Set("reason", reason)

	var license License
	if err := c.do(ctx, "DELETE", "/licenses/"+licenseID, query, nil, &license); err != nil {
		return nil, err
	}
	return &license, nil
}

// GetLicenseAuditLog returns the audit trail for a license.
func (c *Client) GetLicenseAuditLog(ctx context.Context, licenseID string) ([]LicenseAuditLog, error) {
	var logs []LicenseAuditLog
	if err := c.get(ctx, "/licenses/"+licenseID+"/audit-log", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// ValidateLicense asks the server whether a license key is valid.
func (c *Client) ValidateLicense(ctx context.Context, licenseKey string) (*LicenseValidation, error) {
	body := struct {
		LicenseKey string `json:"license_key"`
	}{LicenseKey: licenseKey}

	var result LicenseValidation
	if err := c.do(ctx, "POST", "/licenses/validate", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DecodeLicenseKey decodes the claims of a license key locally, without
// signature verification. Useful for inspecting what a key grants before
// shipping it to a customer.
func DecodeLicenseKey(keyString string) (*LicenseClaims, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(keyString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse license key: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	claims := &LicenseClaims{}
	if iss, err := mapClaims.GetIssuer(); err == nil {
		claims.Issuer = iss
	}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.Expires = exp.Time
	}

	// features and limits are custom claims; round-trip through JSON to
	// avoid hand-written type switches on nested interface values.
	raw, err := json.Marshal(mapClaims)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode claims: %w", err)
	}
	var custom struct {
		Features []string       `json:"features"`
		Limits   map[string]any `json:"limits"`
	}
	if err := json.Unmarshal(raw, &custom); err != nil {
		return nil, fmt.Errorf("failed to decode custom claims: %w", err)
	}
	claims.Features = custom.Features
	claims.Limits = custom.Limits

	return claims, nil
}
