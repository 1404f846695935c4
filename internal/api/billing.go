package api

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subscription is a tenant's recurring billing arrangement.
type Subscription struct {
	ID                uuid.UUID `json:"id"`
	TenantID          uuid.UUID `json:"tenant_id"`
	Plan              string    `json:"plan"`
	Status            string    `json:"status"`
	BasePrice         float64   `json:"base_price"`
	Currency          string    `json:"currency"`
	PaymentMethod     string    `json:"payment_method"`
	BillingCycleStart Date      `json:"billing_cycle_start"`
	NextInvoiceDate   Date      `json:"next_invoice_date"`
}

// SubscriptionCreate is the payload for starting a subscription.
type SubscriptionCreate struct {
	TenantID      uuid.UUID `json:"tenant_id" validate:"required"`
	Plan          string    `json:"plan,omitempty" validate:"omitempty,oneof=MONTHLY ANNUAL MULTI_YEAR"`
	BasePrice     float64   `json:"base_price" validate:"gte=0"`
	Currency      string    `json:"currency,omitempty" validate:"omitempty,len=3"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	StartDate     *Date     `json:"start_date,omitempty"`
}

// SubscriptionUpdate is a partial subscription update.
type SubscriptionUpdate struct {
	Plan          *string  `json:"plan,omitempty" validate:"omitempty,oneof=MONTHLY ANNUAL MULTI_YEAR"`
	BasePrice     *float64 `json:"base_price,omitempty" validate:"omitempty,gte=0"`
	Status        *string  `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE PAST_DUE CANCELLED"`
	PaymentMethod *string  `json:"payment_method,omitempty"`
}

// InvoiceLineItem is one line of an invoice.
type InvoiceLineItem struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount"`
	Quantity    int     `json:"quantity,omitempty"`
}

// Invoice is a bill issued to a tenant.
type Invoice struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	SubscriptionID *uuid.UUID `json:"subscription_id"`
	InvoiceNumber  string     `json:"invoice_number"`
	Subtotal       float64    `json:"subtotal"`
	Tax            float64    `json:"tax"`
	Total          float64    `json:"total"`
	Currency       string     `json:"currency"`
	DueDate        Date       `json:"due_date"`
	Status         string     `json:"status"`
	PaidAt         *time.Time `json:"paid_at"`
	PDFURL         string     `json:"pdf_url,omitempty"`

	LineItems []InvoiceLineItem `json:"line_items,omitempty"`
}

// InvoiceCreate is the payload for issuing an invoice.
type InvoiceCreate struct {
	TenantID       uuid.UUID         `json:"tenant_id" validate:"required"`
	SubscriptionID *uuid.UUID        `json:"subscription_id,omitempty"`
	InvoiceNumber  string            `json:"invoice_number" validate:"required"`
	Subtotal       float64           `json:"subtotal" validate:"gte=0"`
	Tax            float64           `json:"tax" validate:"gte=0"`
	Total          float64           `json:"total" validate:"gte=0"`
	Currency       string            `json:"currency" validate:"required,len=3"`
	DueDate        Date              `json:"due_date" validate:"required"`
	Status         string            `json:"status" validate:"required,oneof=DRAFT SENT PAID OVERDUE VOID"`
	LineItems      []InvoiceLineItem `json:"line_items" validate:"dive"`
}

// InvoiceUpdate is a partial invoice update.
type InvoiceUpdate struct {
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=DRAFT SENT PAID OVERDUE VOID"`
	DueDate *Date   `json:"due_date,omitempty"`
	PDFURL  *string `json:"pdf_url,omitempty"`
}

// ListSubscriptions returns all subscriptions, optionally filtered by status.
func (c *Client) ListSubscriptions(ctx context.Context, status string, skip, limit int) ([]Subscription, error) {
	query := pageQuery(skip, limit)
	if status != "" {
		query.Set("status", status)
	}
	var subs []Subscription
	if err := c.get(ctx, "/billing/subscriptions", query, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// ListTenantSubscriptions returns all subscriptions for one tenant.
func (c *Client) ListTenantSubscriptions(ctx context.Context, tenantID uuid.UUID) ([]Subscription, error) {
	var subs []Subscription
	if err := c.get(ctx, "/billing/subscriptions/tenant/"+tenantID.String(), nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// GetSubscription fetches a subscription by ID.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	var sub Subscription
	if err := c.get(ctx, "/billing/subscriptions/"+subscriptionID, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription starts a subscription for a tenant.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionCreate) (*Subscription, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var sub Subscription
	if err := c.do(ctx, "POST", "/billing/subscriptions", nil, req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateSubscription applies a partial update to a subscription.
func (c *Client) UpdateSubscription(ctx context.Context, subscriptionID string, req SubscriptionUpdate) (*Subscription, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var sub Subscription
	if err := c.do(ctx, "PUT", "/billing/subscriptions/"+subscriptionID, nil, req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelSubscription cancels a subscription.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	var sub Subscription
	if err := c.do(ctx, "POST", "/billing/subscriptions/"+subscriptionID+"/cancel", nil, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListInvoices returns all invoices, optionally filtered by status.
func (c *Client) ListInvoices(ctx context.Context, status string, skip, limit int) ([]Invoice, error) {
	query := pageQuery(skip, limit)
	if status != "" {
		query.Set("status", status)
	}
	var invoices []Invoice
	if err := c.get(ctx, "/billing/invoices", query, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// ListTenantInvoices returns all invoices for one tenant.
func (c *Client) ListTenantInvoices(ctx context.Context, tenantID uuid.UUID) ([]Invoice, error) {
	var invoices []Invoice
	if err := c.get(ctx, "/billing/invoices/tenant/"+tenantID.String(), nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// ListOverdueInvoices returns all invoices past their due date.
func (c *Client) ListOverdueInvoices(ctx context.Context) ([]Invoice, error) {
	var invoices []Invoice
	if err := c.get(ctx, "/billing/invoices/overdue", nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// GetInvoice fetches an invoice by ID.
func (c *Client) GetInvoice(ctx context.Context, invoiceID string) (*Invoice, error) {
	var invoice Invoice
	if err := c.get(ctx, "/billing/invoices/"+invoiceID, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateInvoice issues a new invoice.
func (c *Client) CreateInvoice(ctx context.Context, req InvoiceCreate) (*Invoice, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var invoice Invoice
	if err := c.do(ctx, "POST", "/billing/invoices", nil, req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateInvoice applies a partial update to an invoice.
func (c *Client) UpdateInvoice(ctx context.Context, invoiceID string, req InvoiceUpdate) (*Invoice, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var invoice Invoice
	if err := c.do(ctx, "PUT", "/billing/invoices/"+invoiceID, nil, req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// MarkInvoicePaid marks an invoice as paid.
func (c *Client) MarkInvoicePaid(ctx context.Context, invoiceID string) (*Invoice, error) {
	var invoice Invoice
	if err := c.do(ctx, "POST", "/billing/invoices/"+invoiceID+"/pay", nil, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// VoidInvoice voids an invoice.
func (c *Client) VoidInvoice(ctx context.Context, invoiceID string) (*Invoice, error) {
	var invoice Invoice
	if err := c.do(ctx, "POST", "/billing/invoices/"+invoiceID+"/void", nil, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}
