// internal/monitoring/metrics_test.go
package monitoring

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollectorRecordsMetrics(t *testing.T) {
	c := NewCollector("testns")

	c.RecordCheck("top_level_contexts", "passed", 120*time.Millisecond)
	c.RecordCheck("iframe_same_origin", "failed", 80*time.Millisecond)
	c.RecordNavigation()
	c.RecordNavigation()
	c.RecordTraversal()
	c.RecordWaitPoll()

	families, err := c.Gather().Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := make(map[string]bool)
	for _, mf := range families {
		found[mf.GetName()] = true
	}

	for _, name := range []string{
		"testns_checks_total",
		"testns_check_duration_seconds",
		"testns_navigations_total",
		"testns_history_traversals_total",
		"testns_wait_polls_total",
	} {
		if !found[name] {
			t.Errorf("expected metric family %s, got %v", name, found)
		}
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector

	// All recording methods must be no-ops on a nil collector.
	c.RecordCheck("x", "passed", time.Millisecond)
	c.RecordNavigation()
	c.RecordTraversal()
	c.RecordWaitPoll()
}

func TestMetricsEndpoint(t *testing.T) {
	c := NewCollector("")
	c.RecordNavigation()

	server := httptest.NewServer(c.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "bidiconformer_navigations_total 1") {
		t.Errorf("expected navigation counter in exposition, got: %s", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	c := NewCollector("")

	server := httptest.NewServer(c.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode health payload: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("expected ok status, got %s", status.Status)
	}
}
