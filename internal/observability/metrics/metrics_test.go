package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTurn(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveTurn("create_reservation", "ok")
	m.ObserveTurn("create_reservation", "ok")
	m.ObserveTurn("unknown", "degraded")

	got := testutil.ToFloat64(m.turnsTotal.WithLabelValues("create_reservation", "ok"))
	if got != 2 {
		t.Errorf("expected 2 create_reservation turns, got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *ChatMetrics
	m.ObserveTurn("unknown", "ok")
	m.ObserveLLMLatency("ok", 0.1)
}
