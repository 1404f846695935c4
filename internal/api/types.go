package api

import (
	"fmt"
	"strings"
	"time"
)

// Tenant lifecycle and pricing enums, mirroring the server values.
const (
	TenantStatusTrial     = "TRIAL"
	TenantStatusActive    = "ACTIVE"
	TenantStatusSuspended = "SUSPENDED"
	TenantStatusChurned   = "CHURNED"

	TierStarter      = "STARTER"
	TierProfessional = "PROFESSIONAL"
	TierEnterprise   = "ENTERPRISE"
)

// Billing enums.
const (
	PlanMonthly   = "MONTHLY"
	PlanAnnual    = "ANNUAL"
	PlanMultiYear = "MULTI_YEAR"

	SubscriptionActive    = "ACTIVE"
	SubscriptionPastDue   = "PAST_DUE"
	SubscriptionCancelled = "CANCELLED"

	InvoiceDraft   = "DRAFT"
	InvoiceSent    = "SENT"
	InvoicePaid    = "PAID"
	InvoiceOverdue = "OVERDUE"
	InvoiceVoid    = "VOID"
)

// Release enums.
const (
	TrackStable = "STABLE"
	TrackBeta   = "BETA"
	TrackLTS    = "LTS"

	ReleaseDraft      = "DRAFT"
	ReleasePublished  = "PUBLISHED"
	ReleaseDeprecated = "DEPRECATED"
)

// Contract enums.
const (
	ContractActive         = "ACTIVE"
	ContractPendingRenewal = "PENDING_RENEWAL"
	ContractExpired        = "EXPIRED"
)

// Date is a calendar day without a time component, wire format "2006-01-02".
// Subscription and contract endpoints use bare dates where the rest of the
// API uses RFC 3339 timestamps.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}
