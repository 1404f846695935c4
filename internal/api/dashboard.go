package api

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// DashboardStats is the platform-wide overview.
type DashboardStats struct {
	TotalTenants             int     `json:"total_tenants"`
	ActiveTenants            int     `json:"active_tenants"`
	TrialTenants             int     `json:"trial_tenants"`
	MRR                      float64 `json:"mrr"`
	LatestVersion            string  `json:"latest_version"`
	TenantsOnLatest          int     `json:"tenants_on_latest"`
	ExpiringLicensesCount    int     `json:"expiring_licenses_count"`
	OverdueInvoicesCount     int     `json:"overdue_invoices_count"`
	DeprecatedVersionTenants int     `json:"deprecated_version_tenants"`
}

// ActivityItem is one entry in the recent-activity feed.
type ActivityItem struct {
	ID         string    `json:"id"`
	TenantName string    `json:"tenant_name"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// GetDashboardStats fetches platform-wide statistics.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.get(ctx, "/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetRecentActivity fetches the latest activity entries.
func (c *Client) GetRecentActivity(ctx context.Context, limit int) ([]ActivityItem, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", limit))
	}
	var items []ActivityItem
	if err := c.get(ctx, "/dashboard/activity", query, &items); err != nil {
		return nil, err
	}
	return items, nil
}
