package commands

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const billingSubscriptionsJSON = `[
	{"id": "0c2f6d3e-1a2b-4c5d-8e9f-0a1b2c3d4e5f", "tenant_id": "d4f8a1b2-3c4d-5e6f-7a8b-9c0d1e2f3a4b",
	 "plan": "MONTHLY", "status": "ACTIVE", "base_price": 99.00, "currency": "USD",
	 "payment_method": "card", "billing_cycle_start": "2026-08-01", "next_invoice_date": "2026-09-01"},
	{"id": "1d3a7e4f-2b3c-5d6e-9f0a-1b2c3d4e5f6a", "tenant_id": "e5a9b2c3-4d5e-6f7a-8b9c-0d1e2f3a4b5c",
	 "plan": "ANNUAL", "status": "CANCELLED", "base_price": 890.00, "currency": "USD",
	 "payment_method": "invoice", "billing_cycle_start": "2026-01-15", "next_invoice_date": "2027-01-15"}
]`

const billingInvoicesJSON = `[
	{"id": "2e4b8f5a-3c4d-6e7f-0a1b-2c3d4e5f6a7b", "tenant_id": "d4f8a1b2-3c4d-5e6f-7a8b-9c0d1e2f3a4b",
	 "subscription_id": null, "invoice_number": "INV-01J5KQ4R7PZX3M8W2V6T9A0BCD",
	 "subtotal": 99.00, "tax": 8.25, "total": 107.25, "currency": "USD",
	 "due_date": "2026-09-15", "status": "SENT", "paid_at": null}
]`

// newBillingServer serves the three overview endpoints, failing whichever
// paths appear in failPaths with a 500.
func newBillingServer(t *testing.T, failPaths map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if detail, ok := failPaths[r.URL.Path]; ok {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, `{"detail": "%s"}`, detail)
			return
		}
		switch r.URL.Path {
		case "/api/v1/billing/subscriptions":
			fmt.Fprint(w, billingSubscriptionsJSON)
		case "/api/v1/billing/invoices":
			fmt.Fprint(w, billingInvoicesJSON)
		case "/api/v1/billing/invoices/overdue":
			fmt.Fprint(w, `[]`)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestBillingOverview_RendersSnapshot(t *testing.T) {
	server := newBillingServer(t, nil)
	defer server.Close()

	writeProjectConfig(t, server.URL)
	store := swapTokenStore(t)
	store.tokens[server.URL] = "token-abc"

	cmd := NewBillingCmd()
	cmd.SetArgs([]string{"overview"})

	var err error
	output := captureOutput(func() { err = cmd.Execute() })
	if err != nil {
		t.Fatalf("billing overview failed: %v", err)
	}

	if !strings.Contains(output, "Subscriptions: 2 total, 1 active") {
		t.Errorf("expected subscription summary, got: %s", output)
	}
	if !strings.Contains(output, "Overdue invoices: 0") {
		t.Errorf("expected overdue count, got: %s", output)
	}
	if !strings.Contains(output, "INV-01J5KQ4R7PZX3M8W2V6T9A0BCD") {
		t.Errorf("expected invoice number in table, got: %s", output)
	}
}

// The three fetches run concurrently; one failure fails the whole view
// with nothing rendered.
func TestBillingOverview_OverdueFailureRendersNothing(t *testing.T) {
	server := newBillingServer(t, map[string]string{
		"/api/v1/billing/invoices/overdue": "billing backend unavailable",
	})
	defer server.Close()

	writeProjectConfig(t, server.URL)
	store := swapTokenStore(t)
	store.tokens[server.URL] = "token-abc"

	cmd := NewBillingCmd()
	cmd.SetArgs([]string{"overview"})

	var err error
	output := captureOutput(func() { err = cmd.Execute() })
	if err == nil {
		t.Fatal("expected error when the overdue fetch fails, got nil")
	}
	if !strings.Contains(err.Error(), "billing backend unavailable") {
		t.Errorf("expected the failing endpoint's detail, got: %v", err)
	}
	if output != "" {
		t.Errorf("expected no partial output, got: %s", output)
	}
}
