package semantic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeLaneMetricsPerfectRanking(t *testing.T) {
	ranked := []string{"a", "b", "c"}
	relevant := map[string]bool{"a": true, "b": true}
	m := ComputeLaneMetrics(ranked, relevant, 3)

	require.InDelta(t, 2.0/3, m.PrecisionAtK, 1e-9)
	require.InDelta(t, 1.0, m.RecallAtK, 1e-9)
	require.InDelta(t, 1.0, m.NDCGAtK, 1e-9)
	require.InDelta(t, 1.0, m.MRR, 1e-9)
}

func TestComputeLaneMetricsNoHits(t *testing.T) {
	m := ComputeLaneMetrics([]string{"x", "y"}, map[string]bool{"z": true}, 2)
	require.Equal(t, 0.0, m.PrecisionAtK)
	require.Equal(t, 0.0, m.NDCGAtK)
	require.Equal(t, 0.0, m.MRR)
}

func TestReciprocalRankFusionMergesAndDedupes(t *testing.T) {
	lexicalRanked := []string{"a", "b", "c"}
	semanticRanked := []string{"b", "a", "d"}

	fused := ReciprocalRankFusion([][]string{lexicalRanked, semanticRanked}, RRFDefaultK, 10)
	require.Contains(t, fused, "a")
	require.Contains(t, fused, "b")
	require.Contains(t, fused, "c")
	require.Contains(t, fused, "d")

	counts := make(map[string]int)
	for _, id := range fused {
		counts[id]++
	}
	for id, c := range counts {
		require.Equal(t, 1, c, "id %s must appear once", id)
	}
}

func TestReciprocalRankFusionRanksAgreementHigher(t *testing.T) {
	// "a" appears at rank 1 in both lanes; "c" only in one lane at rank 1.
	fused := ReciprocalRankFusion([][]string{{"a", "c"}, {"a", "d"}}, RRFDefaultK, 10)
	require.Equal(t, "a", fused[0])
}

func TestEvaluateComputesDeltas(t *testing.T) {
	eq := EvalQuery{
		Query:          "q1",
		LexicalRanked:  []string{"x", "y"},
		SemanticRanked: []string{"a", "y"},
		RelevantIDs:    map[string]bool{"y": true},
		TopK:           2,
	}
	res := Evaluate(eq, RRFDefaultK)
	require.GreaterOrEqual(t, res.Hybrid.RecallAtK, res.Lexical.RecallAtK)
}

func TestCheckThresholdsReportsViolations(t *testing.T) {
	res := EvalResult{Query: "q1", NDCGDeltaVsLexical: 0.01, Hybrid: LaneMetrics{PrecisionAtK: 0.2, RecallAtK: 0.1}}
	thresholds := Thresholds{MinHybridNDCGDeltaVsLexical: 0.1, MinHybridPrecisionAtK: 0.5, MinHybridRecallAtK: 0.5}

	violations := CheckThresholds(res, thresholds)
	require.Len(t, violations, 3)
	require.False(t, Passed(violations))
}

func TestCheckThresholdsPassesWhenAboveAll(t *testing.T) {
	res := EvalResult{Query: "q1", NDCGDeltaVsLexical: 0.2, Hybrid: LaneMetrics{PrecisionAtK: 0.9, RecallAtK: 0.9}}
	thresholds := Thresholds{MinHybridNDCGDeltaVsLexical: 0.1, MinHybridPrecisionAtK: 0.5, MinHybridRecallAtK: 0.5}

	require.True(t, Passed(CheckThresholds(res, thresholds)))
}
