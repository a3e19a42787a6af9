package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Lookups        *prometheus.CounterVec
	Saves          prometheus.Counter
	SearchDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "whitelist_registry_lookups_total",
			Help: "Total registry lookups by outcome (found, not_found, error)",
		}, []string{"outcome"}),
		Saves: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whitelist_contractors_saved_total",
			Help: "Total number of contractors saved",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "whitelist_contractor_search_duration_seconds",
			Help:    "Duration of contractor search queries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementLookup(outcome string) {
	m.Lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementSaved() {
	m.Saves.Inc()
}

func (m *Metrics) ObserveSearch(start time.Time) {
	m.SearchDuration.Observe(time.Since(start).Seconds())
}
