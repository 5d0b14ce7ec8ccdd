// Package obsmetrics wires Prometheus counters and a histogram around the
// CBS/ECBS high-level loops: constraint-tree nodes expanded, low-level
// replans attempted, and solve duration. It is grounded on the dependency
// the wider retrieval pack uses for Prometheus
// (upside-down-research-agentic/internal/o11y, github.com/prometheus/client_golang)
// but exposes metrics through a plain local registry and promhttp.HandlerFor
// rather than that file's push-gateway-to-localhost pattern, since nothing
// in this spec has a gateway to push to — a pull-based /metrics endpoint
// served by the CLI's --metrics-addr flag fits a synchronous, single-run
// solver the way a push loop does not.
package obsmetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters and histogram recorded by cbs.CBS and
// ecbs.ECBS. One instance is shared by every solve() call in a process.
type Metrics struct {
	Registry        *prometheus.Registry
	NodesExpanded   prometheus.Counter
	LowLevelReplans prometheus.Counter
	SolveDuration   prometheus.Histogram
}

// New builds a fresh registry and registers the solver's metrics on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		NodesExpanded: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "mapf_ct_nodes_expanded_total",
			Help: "Constraint-tree nodes expanded by CBS or ECBS.",
		}),
		LowLevelReplans: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "mapf_low_level_replans_total",
			Help: "Low-level single-agent plan() calls issued while expanding the constraint tree.",
		}),
		SolveDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "mapf_solve_duration_seconds",
			Help:    "Wall-clock time of one complete plan() call at the high level.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	return m
}

// Handler returns the HTTP handler the CLI mounts at --metrics-addr.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
