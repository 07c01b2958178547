package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated during ingestion.
type Metrics struct {
	// directories counts directory writes that committed.
	directories prometheus.Counter

	// files counts file records included in committed writes.
	files prometheus.Counter

	// unreadable counts entries or subtrees that could not be read.
	unreadable prometheus.Counter

	// retries counts visits repeated because the store was unavailable.
	retries prometheus.Counter

	// writeLatency measures each directory write round trip.
	// Labels: outcome (ok, unavailable, error)
	writeLatency *prometheus.HistogramVec
}

// NewMetrics creates the ingestion collectors and registers them on reg.
// A nil reg leaves them unregistered, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		directories: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dirgraph",
			Subsystem: "ingest",
			Name:      "directories_total",
			Help:      "Directories written to the graph store",
		}),
		files: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dirgraph",
			Subsystem: "ingest",
			Name:      "files_total",
			Help:      "Files written to the graph store",
		}),
		unreadable: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dirgraph",
			Subsystem: "ingest",
			Name:      "unreadable_total",
			Help:      "Files or folders that could not be read",
		}),
		retries: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dirgraph",
			Subsystem: "ingest",
			Name:      "store_retries_total",
			Help:      "Directory visits retried after the store was unavailable",
		}),
		writeLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dirgraph",
			Subsystem: "ingest",
			Name:      "write_duration_seconds",
			Help:      "Latency of one directory write transaction",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"outcome"}),
	}
}
