package memorypressure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResizeBudgetTiersMatchSpecDefaults(t *testing.T) {
	cfg := Config{Enabled: true}

	g := ResizeBudget(Green, cfg)
	require.Equal(t, uint64(64), g.ColdBatchSize)
	require.False(t, g.CompactBeforeResize)

	y := ResizeBudget(Yellow, cfg)
	require.Equal(t, uint64(32), y.ColdBatchSize)
	require.True(t, y.CompactBeforeResize)

	o := ResizeBudget(Orange, cfg)
	require.Equal(t, uint64(8), o.ColdBatchSize)

	r := ResizeBudget(Red, cfg)
	require.Equal(t, uint64(1), r.ColdBatchSize)
	require.GreaterOrEqual(t, r.CompactionBatchSize, uint64(1))
}

func TestResizeBudgetDisabledAlwaysGreenParamsButPreservesTier(t *testing.T) {
	cfg := Config{Enabled: false}
	b := ResizeBudget(Red, cfg)
	require.Equal(t, Red, b.Tier)
	require.Equal(t, uint64(64), b.ColdBatchSize, "disabled policy returns Green parameters")
}

func TestEffectiveColdBatchSizeRespectsPauseAndRemaining(t *testing.T) {
	b := ResizeMemoryBudget{ColdBatchSize: 10, ColdReflowPaused: true}
	require.Equal(t, uint64(0), EffectiveColdBatchSize(b, 100))

	b2 := ResizeMemoryBudget{ColdBatchSize: 10}
	require.Equal(t, uint64(5), EffectiveColdBatchSize(b2, 5))
	require.Equal(t, uint64(10), EffectiveColdBatchSize(b2, 100))
}

func TestScratchAllocationAllowed(t *testing.T) {
	b := ResizeMemoryBudget{MaxScratchBytes: 100}
	require.True(t, ScratchAllocationAllowed(b, 100))
	require.False(t, ScratchAllocationAllowed(b, 101))
}

func TestMetricsAccumulateAndReset(t *testing.T) {
	var m Metrics
	m.RecordResize(true)
	m.RecordResize(false)
	snap := m.Snapshot()
	require.Equal(t, uint64(2), snap.ResizesRequested)
	require.Equal(t, uint64(1), snap.ResizesCompacted)

	m.Reset()
	require.Equal(t, uint64(0), m.Snapshot().ResizesRequested)
}
