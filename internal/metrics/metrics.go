// Package metrics exposes the Prometheus metrics surface for storage,
// indexing, backpressure, memory pressure, query, drift detection, and
// fanout routing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	EventsAppendedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frankenterm_events_appended_total",
			Help: "Total number of events appended to storage",
		},
		[]string{"pane_id", "stream_kind"},
	)

	AppendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frankenterm_append_duration_seconds",
			Help:    "Time spent appending an event to storage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pane_id"},
	)

	SegmentCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "frankenterm_storage_segment_count",
			Help: "Current number of on-disk segments per pane",
		},
		[]string{"pane_id"},
	)

	SegmentBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "frankenterm_storage_segment_bytes",
			Help: "Current total bytes occupied by segments per pane",
		},
		[]string{"pane_id"},
	)

	IndexLagEvents = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "frankenterm_indexer_lag_events",
			Help: "Number of appended events not yet reflected in the index",
		},
		[]string{"pane_id"},
	)

	IndexBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frankenterm_indexer_build_duration_seconds",
			Help:    "Time spent building or updating an index shard",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pane_id", "kind"},
	)

	BackpressureLevel = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "frankenterm_backpressure_level",
			Help: "Current discrete backpressure level (0=green,1=yellow,2=red,3=black)",
		},
		[]string{"pane_id"},
	)

	BackpressureThrottleRatio = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "frankenterm_backpressure_throttle_ratio",
			Help: "Continuous throttle ratio in [0,1] from the sigmoid controller",
		},
		[]string{"pane_id"},
	)

	MemoryPressureLevel = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "frankenterm_memory_pressure_level",
			Help: "Current discrete memory pressure level (0=green..3=red)",
		},
		[]string{"component"},
	)

	CompactionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frankenterm_compaction_runs_total",
			Help: "Total number of compaction passes run",
		},
		[]string{"pane_id", "reason"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frankenterm_query_duration_seconds",
			Help:    "Time spent executing a query against the index",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"pane_id", "query_type"},
	)

	QueryResultCount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frankenterm_query_result_count",
			Help:    "Number of results returned by a query",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		},
		[]string{"pane_id", "query_type"},
	)

	DriftEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frankenterm_drift_events_total",
			Help: "Total number of clock/sequence drift corrections applied",
		},
		[]string{"pane_id", "kind"},
	)

	HashRingNodeCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "frankenterm_hashring_node_count",
			Help: "Current number of nodes in the consistent hash ring",
		},
	)

	FanoutPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frankenterm_fanout_published_total",
			Help: "Total number of events published to the fanout producer",
		},
		[]string{"partition", "status"},
	)

	BuildLockWaitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frankenterm_build_lock_wait_seconds",
			Help:    "Time spent waiting to acquire the build coordination lock",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"project"},
	)
)

// Server exposes the /metrics and /healthz endpoints. Metrics registration
// happens at package init time via promauto; Server only owns the HTTP
// listener lifecycle.
type Server struct {
	server *http.Server
	log    *logrus.Entry
}

// NewServer builds a metrics Server bound to addr. It does not start
// listening until Start is called.
func NewServer(addr string, log *logrus.Entry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return &Server{
		server: &http.Server{Addr: addr, Handler: mux},
		log:    log,
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	if s.log != nil {
		s.log.WithField("addr", s.server.Addr).Info("starting metrics server")
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.log != nil {
				s.log.WithError(err).Error("metrics server stopped")
			}
		}
	}()
}

// Stop gracefully closes the listener.
func (s *Server) Stop() error {
	return s.server.Close()
}

// RecordAppend records a single storage append.
func RecordAppend(paneID, streamKind string, d time.Duration) {
	EventsAppendedTotal.WithLabelValues(paneID, streamKind).Inc()
	AppendDuration.WithLabelValues(paneID).Observe(d.Seconds())
}

// RecordQuery records a single query execution.
func RecordQuery(paneID, queryType string, d time.Duration, resultCount int) {
	QueryDuration.WithLabelValues(paneID, queryType).Observe(d.Seconds())
	QueryResultCount.WithLabelValues(paneID, queryType).Observe(float64(resultCount))
}

// RecordFanoutPublish records a single publish attempt's outcome.
func RecordFanoutPublish(partition, status string) {
	FanoutPublishedTotal.WithLabelValues(partition, status).Inc()
}
