package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "confgraph",
		Subsystem: "engine",
		Name:      "operations_total",
		Help:      "Total engine operations by operation and result",
	}, []string{"op", "result"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "confgraph",
		Subsystem: "engine",
		Name:      "operation_duration_seconds",
		Help:      "Duration of engine operations including snapshot load and flush",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	rebuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "confgraph",
		Subsystem: "engine",
		Name:      "rebuilds_total",
		Help:      "Total structural self data rebuilds",
	})

	cascadeNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "confgraph",
		Subsystem: "engine",
		Name:      "cascade_nodes",
		Help:      "Number of nodes recomputed per cascade",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
	})

	storeWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "confgraph",
		Subsystem: "engine",
		Name:      "store_writes_total",
		Help:      "Total node writes flushed to the store by kind",
	}, []string{"kind"})
)
