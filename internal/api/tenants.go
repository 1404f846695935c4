package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
)

// Tenant is a customer organization on the platform.
type Tenant struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	EmailContact    string          `json:"email_contact,omitempty"`
	Industry        string          `json:"industry,omitempty"`
	Region          string          `json:"region,omitempty"`
	Tier            string          `json:"tier"`
	Status          string          `json:"status"`
	MaxEmployees    *int            `json:"max_employees"`
	MaxUsers        int             `json:"max_users"`
	FeaturesEnabled []string        `json:"features_enabled"`
	CreatedAt       time.Time       `json:"created_at"`
	Contacts        []TenantContact `json:"contacts"`
}

// TenantContact is a named contact attached to a tenant.
type TenantContact struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role,omitempty"`
	Phone    string    `json:"phone,omitempty"`
}

// TenantCreate is the payload for onboarding a new tenant.
type TenantCreate struct {
	Name           string `json:"name" validate:"required"`
	Slug           string `json:"slug" validate:"required,lowercase"`
	EmailContact   string `json:"email_contact,omitempty" validate:"omitempty,email"`
	Industry       string `json:"industry,omitempty"`
	Region         string `json:"region,omitempty"`
	Tier           string `json:"tier,omitempty" validate:"omitempty,oneof=STARTER PROFESSIONAL ENTERPRISE"`
	MaxEmployees   *int   `json:"max_employees,omitempty"`
	MaxUsers       *int   `json:"max_users,omitempty"`
	ExpirationDays int    `json:"expiration_days,omitempty"`
}

// TenantUpdate is a partial tenant update; nil fields are left untouched.
type TenantUpdate struct {
	Name            *string  `json:"name,omitempty"`
	Status          *string  `json:"status,omitempty" validate:"omitempty,oneof=TRIAL ACTIVE SUSPENDED CHURNED"`
	Tier            *string  `json:"tier,omitempty" validate:"omitempty,oneof=STARTER PROFESSIONAL ENTERPRISE"`
	MaxEmployees    *int     `json:"max_employees,omitempty"`
	MaxUsers        *int     `json:"max_users,omitempty"`
	FeaturesEnabled []string `json:"features_enabled,omitempty"`
}

// TenantConfig is a single key/value config entry for a tenant.
type TenantConfig struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Key      string    `json:"key"`
	Value    string    `json:"value"`
}

// TenantDeployment records what version a tenant installation is running.
type TenantDeployment struct {
	ID              uuid.UUID  `json:"id"`
	TenantID        uuid.UUID  `json:"tenant_id"`
	CurrentVersion  string     `json:"current_version"`
	Environment     string     `json:"environment"`
	DeployedAt      time.Time  `json:"deployed_at"`
	DeployedBy      string     `json:"deployed_by,omitempty"`
	LastHealthCheck *time.Time `json:"last_health_check"`
	Status          string     `json:"status"`
}

// TenantDeploymentCreate records a new deployment for a tenant.
type TenantDeploymentCreate struct {
	CurrentVersion string `json:"current_version" validate:"required"`
	Environment    string `json:"environment,omitempty"`
	DeployedBy     string `json:"deployed_by,omitempty"`
}

// ListTenants returns all tenants with pagination.
func (c *Client) ListTenants(ctx context.Context, skip, limit int) ([]Tenant, error) {
	var tenants []Tenant
	if err := c.get(ctx, "/tenants/", pageQuery(skip, limit), &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

// GetTenant fetches a tenant by slug.
func (c *Client) GetTenant(ctx context.Context, slug string) (*Tenant, error) {
	var tenant Tenant
	if err := c.get(ctx, "/tenants/"+slug, nil, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// CreateTenant onboards a new tenant.
func (c *Client) CreateTenant(ctx context.Context, req TenantCreate) (*Tenant, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var tenant Tenant
	if err := c.do(ctx, "POST", "/tenants/", nil, req, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// UpdateTenant applies a partial update to a tenant.
func (c *Client) UpdateTenant(ctx context.Context, slug string, req TenantUpdate) (*Tenant, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var tenant Tenant
	if err := c.do(ctx, "PUT", "/tenants/"+slug, nil, req, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// DeleteTenant removes a tenant.
func (c *Client) DeleteTenant(ctx context.Context, slug string) error {
	return c.do(ctx, "DELETE", "/tenants/"+slug, nil, nil, nil)
}

// ListTenantConfigs returns all config entries for a tenant.
func (c *Client) ListTenantConfigs(ctx context.Context, slug string) ([]TenantConfig, error) {
	var configs []TenantConfig
	if err := c.get(ctx, "/tenants/"+slug+"/configs", nil, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// TenantConfigSections is the structured view of a tenant's configuration,
// grouped the way the customer-facing app consumes it.
type TenantConfigSections struct {
	FeatureFlags map[string]any `json:"feature_flags"`
	Branding     map[string]any `json:"branding"`
	Limits       map[string]any `json:"limits"`
}

// GetTenantConfig fetches one config value for a tenant.
func (c *Client) GetTenantConfig(ctx context.Context, slug, key string) (*TenantConfig, error) {
	var config TenantConfig
	if err := c.get(ctx, "/tenants/"+slug+"/configs/"+key, nil, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// GetTenantConfigSections returns the tenant's configuration grouped into
// feature flags, branding and limits.
func (c *Client) GetTenantConfigSections(ctx context.Context, slug string) (*TenantConfigSections, error) {
	var sections TenantConfigSections
	if err := c.get(ctx, "/tenants/"+slug+"/configs/dict", nil, &sections); err != nil {
		return nil, err
	}
	return &sections, nil
}

// SetTenantConfig sets or updates a config value for a tenant.
func (c *Client) SetTenantConfig(ctx context.Context, slug, key, value string) (*TenantConfig, error) {
	body := struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}{Key: key, Value: value}

	var config TenantConfig
	if err := c.do(ctx, "PUT", "/tenants/"+slug+"/configs/"+key, nil, body, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// DeleteTenantConfig removes a config entry for a tenant.
func (c *Client) DeleteTenantConfig(ctx context.Context, slug, key string) error {
	return c.do(ctx, "DELETE", "/tenants/"+slug+"/configs/"+key, nil, nil, nil)
}

// GetTenantDeployment returns current deployment info for a tenant.
func (c *Client) GetTenantDeployment(ctx context.Context, slug string) (*TenantDeployment, error) {
	var deployment TenantDeployment
	if err := c.get(ctx, "/tenants/"+slug+"/deployment", nil, &deployment); err != nil {
		return nil, err
	}
	return &deployment, nil
}

// RecordTenantDeployment updates or creates deployment info for a tenant.
func (c *Client) RecordTenantDeployment(ctx context.Context, slug string, req TenantDeploymentCreate) (*TenantDeployment, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var deployment TenantDeployment
	if err := c.do(ctx, "POST", "/tenants/"+slug+"/deployment", nil, req, &deployment); err != nil {
		return nil, err
	}
	return &deployment, nil
}

// ListDeployments returns deployments across all tenants.
func (c *Client) ListDeployments(ctx context.Context, skip, limit int) ([]TenantDeployment, error) {
	var deployments []TenantDeployment
	if err := c.get(ctx, "/tenants/deployments/all", pageQuery(skip, limit), &deployments); err != nil {
		return nil, err
	}
	return deployments, nil
}

// ListDeploymentsByVersion returns all deployments running the given version.
func (c *Client) ListDeploymentsByVersion(ctx context.Context, version string) ([]TenantDeployment, error) {
	var deployments []TenantDeployment
	if err := c.get(ctx, "/tenants/deployments/version/"+version, nil, &deployments); err != nil {
		return nil, err
	}
	return deployments, nil
}

// ListUnhealthyDeployments returns deployments with a non-healthy status.
func (c *Client) ListUnhealthyDeployments(ctx context.Context) ([]TenantDeployment, error) {
	var deployments []TenantDeployment
	if err := c.get(ctx, "/tenants/deployments/unhealthy", nil, &deployments); err != nil {
		return nil, err
	}
	return deployments, nil
}

// InstallPackageOptions customizes the generated installation package.
type InstallPackageOptions struct {
	DockerImage string
	AdminAPIURL string
}

// DownloadInstallPackage streams the tenant's installation ZIP into dest.
// The body is opaque; it is written as-is.
func (c *Client) DownloadInstallPackage(ctx context.Context, slug, dest string, opts InstallPackageOptions) error {
	query := url.Values{}
	if opts.DockerImage != "" {
		query.Set("docker_image", opts.DockerImage)
	}
	if opts.AdminAPIURL != "" {
		query.Set("admin_api_url", opts.AdminAPIURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint("/tenants/"+slug+"/install-package", query), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.errorFromResponse(resp)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
