package commands

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// captureOutput captures stdout during function execution
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

const dashboardStatsJSON = `{
	"total_tenants": 12,
	"active_tenants": 9,
	"trial_tenants": 2,
	"mrr": 4520.50,
	"latest_version": "2.4.0",
	"tenants_on_latest": 7,
	"expiring_licenses_count": 3,
	"overdue_invoices_count": 1,
	"deprecated_version_tenants": 2
}`

const dashboardActivityJSON = `[
	{"id": "act-1", "tenant_name": "acme", "action": "license issued", "timestamp": "2026-08-28T14:30:00Z"},
	{"id": "act-2", "tenant_name": "globex", "action": "upgraded to 2.4.0", "timestamp": "2026-08-28T11:05:00Z"}
]`

// newDashboardServer serves the stats and activity endpoints, failing
// whichever paths appear in failPaths with a 500.
func newDashboardServer(t *testing.T, failPaths map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if detail, ok := failPaths[r.URL.Path]; ok {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, `{"detail": "%s"}`, detail)
			return
		}
		switch r.URL.Path {
		case "/api/v1/dashboard/stats":
			fmt.Fprint(w, dashboardStatsJSON)
		case "/api/v1/dashboard/activity":
			fmt.Fprint(w, dashboardActivityJSON)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestDashboardCommand_RendersStatsAndActivity(t *testing.T) {
	server := newDashboardServer(t, nil)
	defer server.Close()

	writeProjectConfig(t, server.URL)
	store := swapTokenStore(t)
	store.tokens[server.URL] = "token-abc"

	cmd := NewDashboardCmd()
	cmd.SetArgs([]string{})

	var err error
	output := captureOutput(func() { err = cmd.Execute() })
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}

	if !strings.Contains(output, "Tenants:           12 total, 9 active, 2 trial") {
		t.Errorf("expected tenant summary, got: %s", output)
	}
	if !strings.Contains(output, "MRR:               4520.50") {
		t.Errorf("expected MRR line, got: %s", output)
	}
	if !strings.Contains(output, "acme") || !strings.Contains(output, "license issued") {
		t.Errorf("expected activity rows, got: %s", output)
	}
}

// Stats and activity are fetched concurrently; one failed fetch must fail
// the whole command with nothing rendered.
func TestDashboardCommand_ActivityFailureRendersNothing(t *testing.T) {
	server := newDashboardServer(t, map[string]string{
		"/api/v1/dashboard/activity": "activity store down",
	})
	defer server.Close()

	writeProjectConfig(t, server.URL)
	store := swapTokenStore(t)
	store.tokens[server.URL] = "token-abc"

	cmd := NewDashboardCmd()
	cmd.SetArgs([]string{})

	var err error
	output := captureOutput(func() { err = cmd.Execute() })
	if err == nil {
		t.Fatal("expected error when the activity fetch fails, got nil")
	}
	if !strings.Contains(err.Error(), "activity store down") {
		t.Errorf("expected the failing endpoint's detail, got: %v", err)
	}
	if output != "" {
		t.Errorf("expected no partial output, got: %s", output)
	}
}

func TestDashboardCommand_StatsFailureRendersNothing(t *testing.T) {
	server := newDashboardServer(t, map[string]string{
		"/api/v1/dashboard/stats": "stats unavailable",
	})
	defer server.Close()

	writeProjectConfig(t, server.URL)
	store := swapTokenStore(t)
	store.tokens[server.URL] = "token-abc"

	cmd := NewDashboardCmd()
	cmd.SetArgs([]string{})

	var err error
	output := captureOutput(func() { err = cmd.Execute() })
	if err == nil {
		t.Fatal("expected error when the stats fetch fails, got nil")
	}
	if output != "" {
		t.Errorf("expected no partial output, got: %s", output)
	}
}
