package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage label values used across the pipeline.
const (
	StageCatalog  = "catalog"
	StageActivity = "activity"
	StageTime     = "time"
	StageAssemble = "assemble"
	StageLoad     = "load"
)

// Skip reason label values.
const (
	ReasonParse        = "parse"
	ReasonMissingField = "missing_field"
)

// Config carries the constant labels stamped on every metric.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics captures batch run health signals.
type Metrics struct {
	recordsExtracted *prometheus.CounterVec
	recordsSkipped   *prometheus.CounterVec
	rowsWritten      *prometheus.CounterVec
	factsUnresolved  prometheus.Counter
	stageDuration    *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// Default returns the singleton metrics registry.
func Default() *Metrics {
	return WithConfig(Config{})
}

// WithConfig returns the singleton metrics registry using config labels.
func WithConfig(cfg Config) *Metrics {
	metricsOnce.Do(func() {
		metrics = newMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return metrics
}

// ResetForTest resets the metrics singleton for tests.
func ResetForTest() {
	metricsOnce = sync.Once{}
	metrics = nil
}

func newMetrics(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "songlake"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	recordsExtracted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "songlake_records_extracted_total",
		Help:        "Records successfully extracted, by stage.",
		ConstLabels: constLabels,
	}, []string{"stage"})
	recordsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "songlake_records_skipped_total",
		Help:        "Records or files skipped during extraction, by stage and reason.",
		ConstLabels: constLabels,
	}, []string{"stage", "reason"})
	rowsWritten := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "songlake_rows_written_total",
		Help:        "Rows written to the warehouse, by table.",
		ConstLabels: constLabels,
	}, []string{"table"})
	factsUnresolved := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "songlake_facts_unresolved_total",
		Help:        "Fact rows written with null song/artist keys because no unambiguous catalog match existed.",
		ConstLabels: constLabels,
	})
	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "songlake_stage_duration_seconds",
		Help:        "Wall-clock duration of each pipeline stage.",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
		ConstLabels: constLabels,
	}, []string{"stage"})

	for _, collector := range []prometheus.Collector{
		recordsExtracted, recordsSkipped, rowsWritten, factsUnresolved, stageDuration,
	} {
		if err := registerer.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}

	return &Metrics{
		recordsExtracted: recordsExtracted,
		recordsSkipped:   recordsSkipped,
		rowsWritten:      rowsWritten,
		factsUnresolved:  factsUnresolved,
		stageDuration:    stageDuration,
	}
}

// AddExtracted records n successfully extracted records for a stage.
func (m *Metrics) AddExtracted(stage string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.recordsExtracted.WithLabelValues(stage).Add(float64(n))
}

// AddSkipped records n skipped records for a stage and reason.
func (m *Metrics) AddSkipped(stage, reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.recordsSkipped.WithLabelValues(stage, reason).Add(float64(n))
}

// AddRowsWritten records n rows written to a warehouse table.
func (m *Metrics) AddRowsWritten(table string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsWritten.WithLabelValues(table).Add(float64(n))
}

// AddUnresolved records n fact rows left with null dimension keys.
func (m *Metrics) AddUnresolved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.factsUnresolved.Add(float64(n))
}

// ObserveStage records the wall-clock duration of a pipeline stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
