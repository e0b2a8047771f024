package recorder

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ClockAnomalyKind distinguishes the two anomaly shapes the detector
// surfaces. Grounded on the `anomaly` package's Config/Stats/mutex texture
// in the teacher repo, reduced from an ML ensemble to the deterministic
// regression/future-skew rule spec.md §4.1 actually calls for.
type ClockAnomalyKind string

const (
	ClockAnomalyRegression  ClockAnomalyKind = "regression"
	ClockAnomalyFutureSkew  ClockAnomalyKind = "future_skew"
)

// ClockAnomaly describes one detected anomaly. It is advisory: ingestion is
// never blocked by it, only recorded as a metric/log line.
type ClockAnomaly struct {
	Kind     ClockAnomalyKind
	PaneID   uint64
	Stream   StreamKind
	Previous uint64
	Current  uint64
	DeltaMs  int64
	Reason   string
}

// ClockAnomalyConfig tunes the detector. FutureSkewThresholdMs <= 0 disables
// future-skew detection entirely (regression detection is always active).
type ClockAnomalyConfig struct {
	FutureSkewThresholdMs int64 `yaml:"future_skew_threshold_ms"`
}

// ClockAnomalyDetector tracks, per (pane_id, stream_kind) domain, the last
// observed recorded_at_ms and flags regressions/future-skew. It never wedges:
// the baseline is updated unconditionally after every observation, so a
// single bad sample can't hold all subsequent samples hostage.
type ClockAnomalyDetector struct {
	config ClockAnomalyConfig
	logger *logrus.Logger

	mu       sync.Mutex
	lastSeen map[domainKey]uint64

	stats struct {
		mu          sync.Mutex
		observed    int64
		regressions int64
		futureSkews int64
	}
}

type domainKey struct {
	paneID uint64
	stream StreamKind
}

func NewClockAnomalyDetector(config ClockAnomalyConfig, logger *logrus.Logger) *ClockAnomalyDetector {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ClockAnomalyDetector{
		config:   config,
		logger:   logger,
		lastSeen: make(map[domainKey]uint64),
	}
}

// Observe records one (pane_id, stream, recorded_at_ms) observation and
// returns the detected anomaly, if any. DetectClockAnomaly below is the
// pure, stateless form used directly by property tests.
func (d *ClockAnomalyDetector) Observe(paneID uint64, stream StreamKind, recordedAtMs uint64) *ClockAnomaly {
	d.mu.Lock()
	key := domainKey{paneID: paneID, stream: stream}
	prev, known := d.lastSeen[key]
	d.lastSeen[key] = recordedAtMs
	d.mu.Unlock()

	d.stats.mu.Lock()
	d.stats.observed++
	d.stats.mu.Unlock()

	if !known {
		return nil
	}

	anomaly := DetectClockAnomaly(recordedAtMs, prev, d.config.FutureSkewThresholdMs)
	if anomaly == nil {
		return nil
	}
	anomaly.PaneID = paneID
	anomaly.Stream = stream

	d.stats.mu.Lock()
	switch anomaly.Kind {
	case ClockAnomalyRegression:
		d.stats.regressions++
	case ClockAnomalyFutureSkew:
		d.stats.futureSkews++
	}
	d.stats.mu.Unlock()

	d.logger.WithFields(logrus.Fields{
		"pane_id": paneID,
		"stream":  stream.String(),
		"kind":    anomaly.Kind,
		"prev":    prev,
		"current": recordedAtMs,
	}).Warn("clock anomaly detected")

	return anomaly
}

// DetectClockAnomaly is the pure rule from spec.md §4.1:
//
//	if current < prev: regression
//	if futureSkewThresholdMs > 0 and current > prev + threshold: future-skew
//
// futureSkewThresholdMs <= 0 disables future-skew checking.
func DetectClockAnomaly(current, prev uint64, futureSkewThresholdMs int64) *ClockAnomaly {
	if current < prev {
		delta := int64(prev) - int64(current)
		return &ClockAnomaly{
			Kind:     ClockAnomalyRegression,
			Previous: prev,
			Current:  current,
			DeltaMs:  delta,
			Reason:   fmt.Sprintf("clock regression: current=%d < prev=%d (delta=%dms)", current, prev, delta),
		}
	}
	if futureSkewThresholdMs > 0 && int64(current) > int64(prev)+futureSkewThresholdMs {
		delta := int64(current) - int64(prev)
		return &ClockAnomaly{
			Kind:     ClockAnomalyFutureSkew,
			Previous: prev,
			Current:  current,
			DeltaMs:  delta,
			Reason:   fmt.Sprintf("clock future-skew: current=%d > prev=%d (delta=%dms)", current, prev, delta),
		}
	}
	return nil
}

// Stats returns a point-in-time snapshot of detector counters.
func (d *ClockAnomalyDetector) Stats() (observed, regressions, futureSkews int64) {
	d.stats.mu.Lock()
	defer d.stats.mu.Unlock()
	return d.stats.observed, d.stats.regressions, d.stats.futureSkews
}
