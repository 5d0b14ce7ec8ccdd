package obsmetrics

import (
	"net/http/httptest"
	"testing"
)

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	m := New()
	m.NodesExpanded.Add(3)
	m.LowLevelReplans.Add(5)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !contains(body, "mapf_ct_nodes_expanded_total 3") {
		t.Errorf("expected nodes-expanded counter in output, got: %s", body)
	}
	if !contains(body, "mapf_low_level_replans_total 5") {
		t.Errorf("expected low-level-replans counter in output, got: %s", body)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
