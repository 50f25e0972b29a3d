package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveTool(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg)

	m.ObserveTool("find_optimal_slots", false, 20*time.Millisecond)
	m.ObserveTool("find_optimal_slots", true, time.Millisecond)
	m.ObserveTool("find_optimal_slots", false, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("find_optimal_slots", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("find_optimal_slots", OutcomeError)))
}

func TestMustNew_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := MustNew(reg)
	second := MustNew(reg)

	first.ObserveTask("meeting:conflict_scan", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.taskRuns.WithLabelValues("meeting:conflict_scan", OutcomeOK)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTool("list_users", false, time.Millisecond)
		m.ObserveTask("x", true)
	})
}
