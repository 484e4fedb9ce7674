package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_hits_total",
			Help: "Total number of cache hits, by freshness state",
		},
		[]string{"state"}, // fresh | stale
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	Revalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_revalidations_total",
			Help: "Total number of background revalidations, by result",
		},
		[]string{"result"}, // ok | error
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_errors_total",
			Help: "Total number of key-value store failures, by operation",
		},
		[]string{"op"},
	)
)

// RecordHit records a cache hit, fresh or stale.
func RecordHit(stale bool) {
	if stale {
		CacheHits.WithLabelValues("stale").Inc()
		return
	}
	CacheHits.WithLabelValues("fresh").Inc()
}

// RecordMiss records a cache miss.
func RecordMiss() {
	CacheMisses.Inc()
}

// RecordRevalidation records a completed background revalidation.
func RecordRevalidation(err error) {
	if err != nil {
		Revalidations.WithLabelValues("error").Inc()
		return
	}
	Revalidations.WithLabelValues("ok").Inc()
}

// RecordStoreError records a storage-device failure for op.
func RecordStoreError(op string) {
	StoreErrors.WithLabelValues(op).Inc()
}
