package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordAppendIncrementsCounterAndObservesDuration(t *testing.T) {
	before := testutil.ToFloat64(EventsAppendedTotal.WithLabelValues("42", "ingress"))
	RecordAppend("42", "ingress", 5*time.Millisecond)
	after := testutil.ToFloat64(EventsAppendedTotal.WithLabelValues("42", "ingress"))
	require.Equal(t, before+1, after)
}

func TestRecordQueryObservesBothHistograms(t *testing.T) {
	require.NotPanics(t, func() {
		RecordQuery("7", "search", 10*time.Millisecond, 3)
	})
}

func TestRecordFanoutPublishIncrementsByStatus(t *testing.T) {
	before := testutil.ToFloat64(FanoutPublishedTotal.WithLabelValues("shard-a", "ok"))
	RecordFanoutPublish("shard-a", "ok")
	after := testutil.ToFloat64(FanoutPublishedTotal.WithLabelValues("shard-a", "ok"))
	require.Equal(t, before+1, after)
}

func TestServerServesMetricsAndHealthz(t *testing.T) {
	s := NewServer("127.0.0.1:0", nil)
	mux := s.server.Handler

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, req2)
	require.Equal(t, http.StatusOK, rec2.Code)
}
