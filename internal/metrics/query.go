// Package metrics holds the Prometheus instrumentation for the query
// resolver. Counters work without registration; applications that scrape them
// call constmodel.RegisterMetrics once from main.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query resolver Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "constmodel",
			Name:      "queries_total",
			Help:      "Total number of queries by operation",
		},
		[]string{"model", "op"}, // op: "filter" / "get" / "all"
	)

	IndexProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "constmodel",
			Name:      "index_probes_total",
			Help:      "Index probes by outcome",
		},
		[]string{"model", "result"}, // "hit" / "miss" / "skip"
	)

	FullScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "constmodel",
			Name:      "full_scans_total",
			Help:      "Queries that degraded to a linear scan",
		},
		[]string{"model"},
	)
)

var registered bool

// Register registers query metrics with the default registry. Must be called
// at most once per process, typically from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(IndexProbesTotal)
	prometheus.MustRegister(FullScansTotal)
	registered = true
}
