package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listdex",
			Name:      "searches_total",
			Help:      "Total number of executed searches",
		},
		[]string{"strategy"},
	)

	SearchDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listdex",
			Name:      "search_degraded_total",
			Help:      "Searches that fell back to recency ordering",
		},
		[]string{"cause"}, // "index" / "ranker" / "catalog"
	)

	SearchRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "listdex",
			Name:      "search_rejected_total",
			Help:      "Searches rejected by query validation",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDegradedTotal)
	prometheus.MustRegister(SearchRejectedTotal)
	searchMetricsRegistered = true
}
