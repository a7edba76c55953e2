package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	return 0
}

func TestRecordBroadcast(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBroadcast(true)
	c.RecordBroadcast(true)
	c.RecordBroadcast(false)

	if got := counterValue(t, reg, "educhain_broadcast_success_total"); got != 2 {
		t.Errorf("broadcast success = %v; want 2", got)
	}
	if got := counterValue(t, reg, "educhain_broadcast_fail_total"); got != 1 {
		t.Errorf("broadcast fail = %v; want 1", got)
	}
}

func TestRecordReadCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordReadCall(200, 50*time.Millisecond)
	c.RecordReadCall(502, 10*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var statusCodes []string
	for _, mf := range families {
		if mf.GetName() != "educhain_read_call_status_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status_code" {
					statusCodes = append(statusCodes, l.GetValue())
				}
			}
		}
	}
	if len(statusCodes) != 2 {
		t.Fatalf("got %d status code series; want 2 (%v)", len(statusCodes), statusCodes)
	}
}

func TestTokenCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTokenIssued()
	c.RecordTokenReject("expired")
	c.RecordTokenReject("expired")
	c.RecordTokenReject("bad_signature")

	if got := counterValue(t, reg, "educhain_share_tokens_issued_total"); got != 1 {
		t.Errorf("tokens issued = %v; want 1", got)
	}
	if got := counterValue(t, reg, "educhain_share_token_rejects_total"); got != 3 {
		t.Errorf("token rejects = %v; want 3", got)
	}
}

func TestHandlerServesScrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordBroadcast(true)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "educhain_broadcast_success_total 1") {
		t.Errorf("scrape output missing broadcast counter:\n%s", body)
	}
}
