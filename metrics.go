package constmodel

import "github.com/constkit/constmodel/internal/metrics"

// RegisterMetrics registers the query resolver's Prometheus counters with the
// default registry. Call at most once per process, typically from main.
// Without registration the counters still increment but are never scraped.
func RegisterMetrics() {
	metrics.Register()
}
