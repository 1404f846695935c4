package api

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ticket is a support request filed for a tenant.
type Ticket struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// TicketCreate is the payload for opening a ticket.
type TicketCreate struct {
	TenantID    uuid.UUID `json:"tenant_id" validate:"required"`
	Subject     string    `json:"subject" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Priority    string    `json:"priority,omitempty" validate:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
}

// TicketUpdate is a partial ticket update.
type TicketUpdate struct {
	Subject     *string `json:"subject,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	Status      *string `json:"status,omitempty"`
}

// Announcement is a platform-wide notice shown to tenants.
type Announcement struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	PublishedAt time.Time  `json:"published_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// AnnouncementCreate is the payload for publishing an announcement.
type AnnouncementCreate struct {
	Title     string     `json:"title" validate:"required"`
	Content   string     `json:"content" validate:"required"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// AnnouncementUpdate is a partial announcement update.
type AnnouncementUpdate struct {
	Title     *string    `json:"title,omitempty"`
	Content   *string    `json:"content,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ListTickets returns tickets, optionally filtered by tenant and status.
func (c *Client) ListTickets(ctx context.Context, tenantID, status string, skip, limit int) ([]Ticket, error) {
	query := pageQuery(skip, limit)
	if tenantID != "" {
		query.Set("tenant_id", tenantID)
	}
	if status != "" {
		query.Set("status", status)
	}
	var tickets []Ticket
	if err := c.get(ctx, "/support/tickets", query, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicket fetches a ticket by ID.
func (c *Client) GetTicket(ctx context.Context, ticketID string) (*Ticket, error) {
	var ticket Ticket
	if err := c.get(ctx, "/support/tickets/"+ticketID, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// CreateTicket opens a new support ticket.
func (c *Client) CreateTicket(ctx context.Context, req TicketCreate) (*Ticket, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var ticket Ticket
	if err := c.do(ctx, "POST", "/support/tickets", nil, req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicket applies a partial update to a ticket.
func (c *Client) UpdateTicket(ctx context.Context, ticketID string, req TicketUpdate) (*Ticket, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var ticket Ticket
	if err := c.do(ctx, "PUT", "/support/tickets/"+ticketID, nil, req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// CloseTicket closes a ticket.
func (c *Client) CloseTicket(ctx context.Context, ticketID string) (*Ticket, error) {
	var ticket Ticket
	if err := c.do(ctx, "POST", "/support/tickets/"+ticketID+"/close", nil, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListAnnouncements returns announcements; expired ones only when asked for.
func (c *Client) ListAnnouncements(ctx context.Context, includeExpired bool, skip, limit int) ([]Announcement, error) {
	query := pageQuery(skip, limit)
	if includeExpired {
		query.Set("include_expired", "true")
	}
	var announcements []Announcement
	if err := c.get(ctx, "/support/announcements", query, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// GetAnnouncement fetches an announcement by ID.
func (c *Client) GetAnnouncement(ctx context.Context, announcementID string) (*Announcement, error) {
	var announcement Announcement
	if err := c.get(ctx, "/support/announcements/"+announcementID, nil, &announcement); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// CreateAnnouncement publishes a new announcement.
func (c *Client) CreateAnnouncement(ctx context.Context, req AnnouncementCreate) (*Announcement, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var announcement Announcement
	if err := c.do(ctx, "POST", "/support/announcements", nil, req, &announcement); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// UpdateAnnouncement applies a partial update to an announcement.
func (c *Client) UpdateAnnouncement(ctx context.Context, announcementID string, req AnnouncementUpdate) (*Announcement, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var announcement Announcement
	if err := c.do(ctx, "PUT", "/support/announcements/"+announcementID, nil, req, &announcement); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// DeleteAnnouncement removes an announcement.
func (c *Client) DeleteAnnouncement(ctx context.Context, announcementID string) error {
	return c.do(ctx, "DELETE", "/support/announcements/"+announcementID, nil, nil, nil)
}
