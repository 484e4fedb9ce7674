package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/lumicart/storefront-cache/internal/infrastructure/metrics"
)

func TestRecordHitByState(t *testing.T) {
	freshBefore := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("fresh"))
	staleBefore := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("stale"))

	metrics.RecordHit(false)
	metrics.RecordHit(true)
	metrics.RecordHit(true)

	require.Equal(t, freshBefore+1, testutil.ToFloat64(metrics.CacheHits.WithLabelValues("fresh")))
	require.Equal(t, staleBefore+2, testutil.ToFloat64(metrics.CacheHits.WithLabelValues("stale")))
}

func TestRecordRevalidationByResult(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.Revalidations.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(metrics.Revalidations.WithLabelValues("error"))

	metrics.RecordRevalidation(nil)
	metrics.RecordRevalidation(errors.New("boom"))

	require.Equal(t, okBefore+1, testutil.ToFloat64(metrics.Revalidations.WithLabelValues("ok")))
	require.Equal(t, errBefore+1, testutil.ToFloat64(metrics.Revalidations.WithLabelValues("error")))
}

func TestRecordMissAndStoreError(t *testing.T) {
	missBefore := testutil.ToFloat64(metrics.CacheMisses)
	setBefore := testutil.ToFloat64(metrics.StoreErrors.WithLabelValues("set"))

	metrics.RecordMiss()
	metrics.RecordStoreError("set")

	require.Equal(t, missBefore+1, testutil.ToFloat64(metrics.CacheMisses))
	require.Equal(t, setBefore+1, testutil.ToFloat64(metrics.StoreErrors.WithLabelValues("set")))
}
