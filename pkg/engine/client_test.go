package engine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diyip/tb-pivot-excel/pkg/payload"
	"github.com/diyip/tb-pivot-excel/pkg/planner"
	"github.com/diyip/tb-pivot-excel/pkg/reportcfg"
	"github.com/diyip/tb-pivot-excel/pkg/telemetry"
	"github.com/diyip/tb-pivot-excel/pkg/timerange"
)

func testRequest(t *testing.T) *payload.Request {
	t.Helper()
	req, err := payload.Build(
		timerange.TimeRange{Label: "test", StartTs: 1000, EndTs: 2000},
		planner.QueryPlan{Agg: planner.AggNone, SnappedStartTs: 1000, OriginalStartTs: 1000, Limit: 50000, Order: planner.OrderAsc},
		reportcfg.Defaults(),
		[]telemetry.Entity{{Type: "ASSET", ID: "e1", Name: "Unit A"}},
		[]string{"pmIn1HrAvg"},
		"tenant1", "UTC",
	)
	if err != nil {
		t.Fatalf("building test request: %v", err)
	}
	return req
}

func TestGenerateSuccess(t *testing.T) {
	const sheet = "PK\x03\x04fake-xlsx-bytes"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/report/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		var req payload.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.TenantID != "tenant1" {
			t.Errorf("tenant_id = %q", req.TenantID)
		}
		w.Header().Set("Content-Disposition", `attachment; filename="export_20260220.xlsx"`)
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, sheet)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	result, err := client.Generate(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	defer result.Body.Close()

	if result.Filename != "export_20260220.xlsx" {
		t.Errorf("filename = %q", result.Filename)
	}
	data, err := io.ReadAll(result.Body)
	if err != nil || string(data) != sheet {
		t.Errorf("body = %q, %v", data, err)
	}
}

func TestGenerateNon2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "telemetry backend unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.Generate(context.Background(), testRequest(t))
	if err == nil {
		t.Fatal("expected an error for a 502 response")
	}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "telemetry backend unavailable") {
		t.Errorf("error should carry status and excerpt, got: %v", err)
	}
}

func TestGenerateNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "<html>Internal Server Error</html>")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.Generate(context.Background(), testRequest(t))
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("non-JSON failure body must still produce a status error, got: %v", err)
	}
}

func TestGenerateContextCancellation(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(srv.URL, time.Minute)
	if _, err := client.Generate(ctx, testRequest(t)); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}

func TestSuggestedFilename(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{`attachment; filename="a.xlsx"`, "a.xlsx"},
		{`attachment`, ""},
		{"", ""},
		{"not a header;;;", ""},
	}
	for _, tt := range tests {
		if got := suggestedFilename(tt.header); got != tt.want {
			t.Errorf("suggestedFilename(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
