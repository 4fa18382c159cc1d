package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newMetrics(registry, Config{ServiceName: "songlake", Environment: "test"})

	m.AddExtracted(StageCatalog, 3)
	m.AddSkipped(StageCatalog, ReasonParse, 1)
	m.AddRowsWritten("songs", 3)
	m.AddUnresolved(2)
	m.ObserveStage(StageLoad, 50*time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.recordsExtracted.WithLabelValues(StageCatalog)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordsSkipped.WithLabelValues(StageCatalog, ReasonParse)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.rowsWritten.WithLabelValues("songs")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.factsUnresolved))
}

func TestMetrics_NegativeAndZeroIgnored(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newMetrics(registry, Config{})

	m.AddExtracted(StageActivity, 0)
	m.AddSkipped(StageActivity, ReasonParse, -1)
	m.AddUnresolved(0)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.recordsExtracted.WithLabelValues(StageActivity)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.factsUnresolved))
}

func TestMetrics_NilReceiverSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AddExtracted(StageCatalog, 1)
		m.AddSkipped(StageCatalog, ReasonParse, 1)
		m.AddRowsWritten("songs", 1)
		m.AddUnresolved(1)
		m.ObserveStage(StageLoad, time.Second)
	})
}

func TestMetrics_DoubleRegisterTolerated(t *testing.T) {
	registry := prometheus.NewRegistry()
	assert.NotPanics(t, func() {
		newMetrics(registry, Config{})
		newMetrics(registry, Config{})
	})
}
