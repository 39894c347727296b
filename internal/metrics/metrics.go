package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherboard_loads_total",
			Help: "Total CSV loads by source kind and outcome",
		},
		[]string{"source", "status"},
	)

	LoadLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherboard_load_latency_seconds",
			Help:    "CSV load latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	ObservationsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weatherboard_observations_loaded",
			Help: "Observations in the most recent successful load",
		},
	)

	ChartRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherboard_chart_renders_total",
			Help: "Total chart renders by chart and outcome",
		},
		[]string{"chart", "status"},
	)

	ChartCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherboard_chart_cache_hits_total",
			Help: "Chart requests served from the render cache",
		},
		[]string{"chart"},
	)
)
