// Package racecache provides Prometheus metrics for cache operations.
package racecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHitsTotal tracks cache hits per cached operation
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "race_cache_hits_total",
			Help: "Total number of race data cache hits",
		},
		[]string{"operation"}, // race_list, entrants, result
	)

	// CacheMissesTotal tracks cache misses per cached operation
	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "race_cache_misses_total",
			Help: "Total number of race data cache misses",
		},
		[]string{"operation"},
	)
)
