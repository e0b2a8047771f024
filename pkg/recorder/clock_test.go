package recorder

import "testing"

func TestDetectClockAnomaly_RegressionSymmetry(t *testing.T) {
	cases := []struct {
		current, prev uint64
	}{
		{10, 20}, {20, 10}, {15, 15}, {0, 1}, {1, 0},
	}
	for _, c := range cases {
		got := DetectClockAnomaly(c.current, c.prev, 0)
		wantAnomaly := c.current < c.prev
		if wantAnomaly && (got == nil || got.Kind != ClockAnomalyRegression) {
			t.Fatalf("current=%d prev=%d: expected regression anomaly, got %+v", c.current, c.prev, got)
		}
		if !wantAnomaly && got != nil {
			t.Fatalf("current=%d prev=%d: expected no anomaly (threshold=0 disables future-skew), got %+v", c.current, c.prev, got)
		}
	}
}

func TestDetectClockAnomaly_FutureSkew(t *testing.T) {
	got := DetectClockAnomaly(1000, 100, 50)
	if got == nil || got.Kind != ClockAnomalyFutureSkew {
		t.Fatalf("expected future-skew anomaly, got %+v", got)
	}

	got = DetectClockAnomaly(140, 100, 50)
	if got != nil {
		t.Fatalf("delta within threshold should not anomaly, got %+v", got)
	}
}

func TestClockAnomalyDetector_UpdatesBaselineAfterAnomaly(t *testing.T) {
	d := NewClockAnomalyDetector(ClockAnomalyConfig{}, nil)

	d.Observe(1, StreamEgress, 100)
	anomaly := d.Observe(1, StreamEgress, 50)
	if anomaly == nil || anomaly.Kind != ClockAnomalyRegression {
		t.Fatalf("expected regression anomaly, got %+v", anomaly)
	}

	// Baseline must have advanced to 50 despite the anomaly, so a
	// subsequent equal-or-later timestamp is not itself flagged.
	anomaly = d.Observe(1, StreamEgress, 50)
	if anomaly != nil {
		t.Fatalf("expected baseline updated after anomaly, got %+v", anomaly)
	}

	_, regressions, _ := d.Stats()
	if regressions != 1 {
		t.Fatalf("expected 1 regression recorded, got %d", regressions)
	}
}
