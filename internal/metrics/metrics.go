package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess       = "success"
	OutcomeNotFound      = "not_found"
	OutcomeAlreadyLoaded = "already_loaded"
	OutcomeMalformedRow  = "malformed_row"
	OutcomeFileIO        = "file_io"
	OutcomeStore         = "store_error"
	OutcomeNoOp          = "noop"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry     *prometheus.Registry
	loads        *prometheus.CounterVec
	rows         prometheus.Counter
	loadDuration prometheus.Histogram
	rollbacks    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_loads_total",
			Help: "Csv file loads by outcome.",
		}, []string{"outcome"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_load_rows_total",
			Help: "Csv records read by committed loads.",
		}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_load_duration_seconds",
			Help:    "Wall time of load attempts.",
			Buckets: prometheus.DefBuckets,
		}),
		rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_rollbacks_total",
			Help: "Rollback requests by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.loads,
		m.rows,
		m.loadDuration,
		m.rollbacks,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveLoad(outcome string, rows int, elapsed time.Duration) {
	m.loads.WithLabelValues(outcome).Inc()
	m.loadDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeSuccess {
		m.rows.Add(float64(rows))
	}
}

func (m *Metrics) ObserveRollback(outcome string) {
	m.rollbacks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
