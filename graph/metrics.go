package graph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus gauge/histogram for node lifecycle, grounded in
// linkerd-linkerd2/multicluster/service-mirror/metrics.go's promauto-vec
// pattern: one Vec per concern, labeled by node id rather than re-declared
// per node instance.
var (
	nodesRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wake_nodes_running",
		Help: "Number of execution nodes currently in the Running or Draining state.",
	})

	nodeRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wake_node_run_seconds",
			Help:    "Wall-clock duration of a node's Run() call from PreProcess through ProcessStream return.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"node_id"},
	)
)
