package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// Contract is a signed commercial agreement with a tenant.
type Contract struct {
	ID                  uuid.UUID `json:"id"`
	TenantID            uuid.UUID `json:"tenant_id"`
	ContractType        string    `json:"contract_type"`
	Status              string    `json:"status"`
	StartDate           Date      `json:"start_date"`
	EndDate             Date      `json:"end_date"`
	AutoRenew           bool      `json:"auto_renew"`
	NoticePeriodDays    int       `json:"notice_period_days"`
	TotalContractValue  float64   `json:"total_contract_value"`
	PaymentTerms        string    `json:"payment_terms"`
	DocumentURL         string    `json:"document_url,omitempty"`
	RenewalReminderSent bool      `json:"renewal_reminder_sent"`
}

// ContractCreate is the payload for recording a new contract.
type ContractCreate struct {
	TenantID           uuid.UUID `json:"tenant_id" validate:"required"`
	ContractType       string    `json:"contract_type,omitempty"`
	StartDate          Date      `json:"start_date" validate:"required"`
	EndDate            Date      `json:"end_date" validate:"required"`
	AutoRenew          *bool     `json:"auto_renew,omitempty"`
	NoticePeriodDays   int       `json:"notice_period_days,omitempty"`
	TotalContractValue float64   `json:"total_contract_value" validate:"gte=0"`
	PaymentTerms       string    `json:"payment_terms,omitempty"`
	DocumentURL        string    `json:"document_url,omitempty" validate:"omitempty,url"`
}

// ContractUpdate is a partial contract update.
type ContractUpdate struct {
	ContractType       *string  `json:"contract_type,omitempty"`
	EndDate            *Date    `json:"end_date,omitempty"`
	AutoRenew          *bool    `json:"auto_renew,omitempty"`
	NoticePeriodDays   *int     `json:"notice_period_days,omitempty"`
	TotalContractValue *float64 `json:"total_contract_value,omitempty" validate:"omitempty,gte=0"`
	PaymentTerms       *string  `json:"payment_terms,omitempty"`
	DocumentURL        *string  `json:"document_url,omitempty" validate:"omitempty,url"`
	Status             *string  `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE PENDING_RENEWAL EXPIRED"`
}

// Asset is a document or artifact attached to a contract.
type Asset struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AssetType string    `json:"asset_type"`
	URL       string    `json:"url,omitempty"`
}

// AssetCreate is the payload for attaching an asset to a contract.
type AssetCreate struct {
	Name      string `json:"name" validate:"required"`
	AssetType string `json:"asset_type" validate:"required"`
	URL       string `json:"url,omitempty" validate:"omitempty,url"`
}

// ListContracts returns contracts, optionally filtered by tenant and status.
func (c *Client) ListContracts(ctx context.Context, tenantID, status string, skip, limit int) ([]Contract, error) {
	query := pageQuery(skip, limit)
	if tenantID != "" {
		query.Set("tenant_id", tenantID)
	}
	if status != "" {
		query.Set("status", status)
	}
	var contracts []Contract
	if err := c.get(ctx, "/contracts/", query, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

// ListExpiringContracts returns contracts ending within daysAhead days.
func (c *Client) ListExpiringContracts(ctx context.Context, daysAhead int) ([]Contract, error) {
	query := url.Values{}
	query.Set("days_ahead", fmt.Sprintf("%d", daysAhead))

	var contracts []Contract
	if err := c.get(ctx, "/contracts/expiring", query, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

// GetContract fetches a contract by ID.
func (c *Client) GetContract(ctx context.Context, contractID string) (*Contract, error) {
	var contract Contract
	if err := c.get(ctx, "/contracts/"+contractID, nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// CreateContract records a new contract.
func (c *Client) CreateContract(ctx context.Context, req ContractCreate) (*Contract, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var contract Contract
	if err := c.do(ctx, "POST", "/contracts/", nil, req, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// UpdateContract applies a partial update to a contract.
func (c *Client) UpdateContract(ctx context.Context, contractID string, req ContractUpdate) (*Contract, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var contract Contract
	if err := c.do(ctx, "PUT", "/contracts/"+contractID, nil, req, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// RenewContract extends a contract to a new end date.
func (c *Client) RenewContract(ctx context.Context, contractID string, newEndDate Date, newValue *float64) (*Contract, error) {
	body := struct {
		NewEndDate Date     `json:"new_end_date"`
		NewValue   *float64 `json:"new_value,omitempty"`
	}{NewEndDate: newEndDate, NewValue: newValue}

	var contract Contract
	if err := c.do(ctx, "POST", "/contracts/"+contractID+"/renew", nil, body, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// ExpireContract marks a contract as expired.
func (c *Client) ExpireContract(ctx context.Context, contractID string) (*Contract, error) {
	var contract Contract
	if err := c.do(ctx, "POST", "/contracts/"+contractID+"/expire", nil, nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// ListContractAssets returns all assets attached to a contract.
func (c *Client) ListContractAssets(ctx context.Context, contractID string) ([]Asset, error) {
	var assets []Asset
	if err := c.get(ctx, "/contracts/"+contractID+"/assets", nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// AddContractAsset attaches an asset to a contract.
func (c *Client) AddContractAsset(ctx context.Context, contractID string, req AssetCreate) (*Asset, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var asset Asset
	if err := c.do(ctx, "POST", "/contracts/"+contractID+"/assets", nil, req, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}
