package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Define global variables for metrics.
// We use 'promauto' which automatically registers metrics with the default registry.

var (
	// 1. GDL Loads Total (Counter)
	// Counts document loads, labeled by outcome: ok, parse_error, resource_error, build_error.
	GDLLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epgm_gdl_loads_total",
			Help: "Total number of GDL documents loaded",
		},
		[]string{"result"},
	)

	// 2. GDL Elements Created (Counter)
	// Counts the elements a load created, labeled by kind: graph_head, vertex, edge.
	// Reused variables are not counted twice.
	GDLElementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epgm_gdl_elements_total",
			Help: "Total number of elements created by GDL loads",
		},
		[]string{"kind"},
	)

	// 3. GDL Load Duration (Histogram)
	// Measures parse + build time of one document.
	GDLLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "epgm_gdl_load_duration_seconds",
			Help: "Duration of GDL document loads in seconds",
			// Small documents load in microseconds, generated ones can take seconds
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// 4. Stream Frames (Counter)
	// Counts element frames, labeled by direction (read, write) and op (graph_head, vertex, edge).
	StreamFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epgm_stream_frames_total",
			Help: "Total number of element frames read or written",
		},
		[]string{"direction", "op"},
	)
)

// Label values shared by the collectors above.
const (
	ResultOK            = "ok"
	ResultParseError    = "parse_error"
	ResultResourceError = "resource_error"
	ResultBuildError    = "build_error"

	KindGraphHead = "graph_head"
	KindVertex    = "vertex"
	KindEdge      = "edge"

	DirectionRead  = "read"
	DirectionWrite = "write"
)
