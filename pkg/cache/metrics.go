package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks fresh cache hits by layer.
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keno_cache_hits_total",
			Help: "Total number of catalog cache hits",
		},
		[]string{"layer"}, // "memory"
	)

	// cacheMisses tracks cache misses (absent or stale entries).
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "keno_cache_misses_total",
			Help: "Total number of catalog cache misses",
		},
	)

	// cacheEntries tracks the number of live entries by layer.
	cacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "keno_cache_entries",
			Help: "Current number of catalog cache entries",
		},
		[]string{"layer"}, // "memory"
	)
)
