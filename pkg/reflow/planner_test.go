package reflow

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanCoversEveryLineExactlyOnce(t *testing.T) {
	in := Input{
		TotalLogicalLines: 1000,
		ViewportTop:       400,
		ViewportHeight:    50,
		OverscanLines:     20,
		MaxBatchLines:     30,
		LinesPerWorkUnit:  10,
		FrameBudgetUnits:  5,
	}
	batches := Plan(in)

	covered := make([]bool, in.TotalLogicalLines)
	for _, b := range batches {
		for line := b.Start; line < b.End; line++ {
			require.False(t, covered[line], "line %d covered twice", line)
			covered[line] = true
		}
	}
	for line, ok := range covered {
		require.True(t, ok, "line %d never covered", line)
	}
}

func TestPlanRangesNonOverlapping(t *testing.T) {
	in := Input{TotalLogicalLines: 500, ViewportTop: 100, ViewportHeight: 40, OverscanLines: 10, MaxBatchLines: 15, LinesPerWorkUnit: 5, FrameBudgetUnits: 3}
	batches := Plan(in)

	type iv struct{ s, e uint64 }
	var ivs []iv
	for _, b := range batches {
		ivs = append(ivs, iv{b.Start, b.End})
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].s < ivs[j].s })
	for i := 1; i < len(ivs); i++ {
		require.LessOrEqual(t, ivs[i-1].e, ivs[i].s)
	}
}

func TestPlanPriorityGroupsAppearInOrder(t *testing.T) {
	in := Input{TotalLogicalLines: 500, ViewportTop: 100, ViewportHeight: 40, OverscanLines: 10, MaxBatchLines: 15, LinesPerWorkUnit: 5, FrameBudgetUnits: 3}
	batches := Plan(in)

	seenCold := false
	for _, b := range batches {
		if b.Priority == ColdScrollback {
			seenCold = true
			continue
		}
		require.False(t, seenCold, "no viewport/overscan batch may follow a cold-scrollback batch")
	}
}

func TestPlanAlwaysSelectsAtLeastOneBatchForFrame(t *testing.T) {
	in := Input{TotalLogicalLines: 500, ViewportTop: 100, ViewportHeight: 40, OverscanLines: 10, MaxBatchLines: 15, LinesPerWorkUnit: 5, FrameBudgetUnits: 0}
	batches := Plan(in)
	require.NotEmpty(t, batches)

	any := false
	for _, b := range batches {
		if b.SelectedForFrame {
			any = true
			break
		}
	}
	require.True(t, any)
}

func TestPlanClampsViewportToTotal(t *testing.T) {
	in := Input{TotalLogicalLines: 100, ViewportTop: 90, ViewportHeight: 50, MaxBatchLines: 10, LinesPerWorkUnit: 5, FrameBudgetUnits: 2}
	batches := Plan(in)
	for _, b := range batches {
		require.LessOrEqual(t, b.End, in.TotalLogicalLines)
	}
}
