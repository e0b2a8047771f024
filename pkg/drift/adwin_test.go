package drift

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstantSignalNeverDrifts(t *testing.T) {
	d := NewDetector(0.05)
	for i := 0; i < 200; i++ {
		info := d.Push(42.0)
		require.Nil(t, info)
	}
	require.GreaterOrEqual(t, d.Len(), 1)
	require.GreaterOrEqual(t, d.Variance(), 0.0)
}

func TestDeltaIsClamped(t *testing.T) {
	d1 := NewDetector(-1)
	require.Equal(t, 1e-10, d1.delta)
	d2 := NewDetector(5)
	require.Equal(t, 1.0, d2.delta)
}

func TestDriftDetectedOnMeanShift(t *testing.T) {
	d := NewDetector(0.1)
	var lastInfo *DriftInfo
	for i := 0; i < 30; i++ {
		d.Push(1.0)
	}
	for i := 0; i < 30; i++ {
		info := d.Push(100.0)
		if info != nil {
			lastInfo = info
		}
	}
	require.NotNil(t, lastInfo, "a large mean shift must eventually trigger a drift")
	require.Equal(t, lastInfo.MeanDiff, absFloat(lastInfo.OldMean-lastInfo.NewMean))
	require.Equal(t, lastInfo.IsDrop, lastInfo.NewMean < lastInfo.OldMean)
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func TestMonitorAutoRegistersAndSummarizes(t *testing.T) {
	m := NewMonitor(0.1)
	for i := 0; i < 10; i++ {
		m.Observe("rule-b", 1.0)
		m.Observe("rule-a", 1.0)
	}
	summary := m.Summary()
	require.Len(t, summary.Rules, 2)
	require.Equal(t, "rule-a", summary.Rules[0].RuleID, "rules sorted by id")
}

func TestMonitorResetKeepsRegistrations(t *testing.T) {
	m := NewMonitor(0.1)
	m.Observe("rule-a", 1.0)
	m.Reset()
	summary := m.Summary()
	require.Len(t, summary.Rules, 1, "registration survives reset")
	require.Equal(t, 0, summary.TotalDrifts)
}
