// Package semantic implements the search-quality evaluation harness
// (spec.md §4.9): per-lane precision/recall/NDCG/MRR, Reciprocal Rank
// Fusion for the hybrid lane, and regression-threshold checking.
package semantic

import "math"

// LaneMetrics holds the four per-lane scores, all in [0,1].
type LaneMetrics struct {
	PrecisionAtK float64
	RecallAtK    float64
	NDCGAtK      float64
	MRR          float64
}

// EvalQuery is one evaluation case: two ranked id lists, the judged
// relevant set, and the cutoff.
type EvalQuery struct {
	Query         string
	LexicalRanked  []string
	SemanticRanked []string
	RelevantIDs    map[string]bool
	TopK           int
}

// ComputeLaneMetrics scores one ranked list against relevantIDs, truncated
// to topK.
func ComputeLaneMetrics(ranked []string, relevant map[string]bool, topK int) LaneMetrics {
	if topK > len(ranked) {
		topK = len(ranked)
	}
	prefix := ranked[:topK]

	var hits int
	var dcg float64
	mrr := 0.0
	for i, id := range prefix {
		if relevant[id] {
			hits++
			dcg += 1.0 / math.Log2(float64(i+2))
			if mrr == 0 {
				mrr = 1.0 / float64(i+1)
			}
		}
	}

	idealHits := len(relevant)
	if idealHits > topK {
		idealHits = topK
	}
	var idcg float64
	for i := 0; i < idealHits; i++ {
		idcg += 1.0 / math.Log2(float64(i+2))
	}

	precision := 0.0
	if topK > 0 {
		precision = float64(hits) / float64(topK)
	}
	recall := 0.0
	if len(relevant) > 0 {
		recall = float64(hits) / float64(len(relevant))
	}
	ndcg := 0.0
	if idcg > 0 {
		ndcg = dcg / idcg
	}

	return LaneMetrics{PrecisionAtK: precision, RecallAtK: recall, NDCGAtK: ndcg, MRR: mrr}
}

// RRFDefaultK is the usual Reciprocal Rank Fusion smoothing constant.
const RRFDefaultK = 60

// ReciprocalRankFusion fuses multiple ranked lanes into one list: each
// lane contributes 1/(rrfK + rank) to every id it contains (1-based rank),
// summed across lanes, then sorted descending and deduplicated, keeping the
// first topK ids (spec.md §4.9).
func ReciprocalRankFusion(lanes [][]string, rrfK int, topK int) []string {
	if rrfK <= 0 {
		rrfK = RRFDefaultK
	}

	scores := make(map[string]float64)
	order := make([]string, 0)
	for _, lane := range lanes {
		for rank, id := range lane {
			if _, seen := scores[id]; !seen {
				order = append(order, id)
			}
			scores[id] += 1.0 / float64(rrfK+rank+1)
		}
	}

	sortByScoreDesc(order, scores)
	if topK > 0 && topK < len(order) {
		order = order[:topK]
	}
	return order
}

func sortByScoreDesc(ids []string, scores map[string]float64) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && scores[ids[j-1]] < scores[ids[j]]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// EvalResult bundles one query's per-lane and hybrid metrics plus the
// deltas spec.md §4.9 asks for.
type EvalResult struct {
	Query          string
	Lexical        LaneMetrics
	Semantic       LaneMetrics
	Hybrid         LaneMetrics
	NDCGDeltaVsLexical  float64
	NDCGDeltaVsSemantic float64
	PrecisionDeltaVsLexical  float64
	PrecisionDeltaVsSemantic float64
}

// Evaluate runs one EvalQuery end to end.
func Evaluate(eq EvalQuery, rrfK int) EvalResult {
	lexical := ComputeLaneMetrics(eq.LexicalRanked, eq.RelevantIDs, eq.TopK)
	sem := ComputeLaneMetrics(eq.SemanticRanked, eq.RelevantIDs, eq.TopK)
	hybridRanked := ReciprocalRankFusion([][]string{eq.LexicalRanked, eq.SemanticRanked}, rrfK, eq.TopK)
	hybrid := ComputeLaneMetrics(hybridRanked, eq.RelevantIDs, eq.TopK)

	return EvalResult{
		Query: eq.Query, Lexical: lexical, Semantic: sem, Hybrid: hybrid,
		NDCGDeltaVsLexical:       hybrid.NDCGAtK - lexical.NDCGAtK,
		NDCGDeltaVsSemantic:      hybrid.NDCGAtK - sem.NDCGAtK,
		PrecisionDeltaVsLexical:  hybrid.PrecisionAtK - lexical.PrecisionAtK,
		PrecisionDeltaVsSemantic: hybrid.PrecisionAtK - sem.PrecisionAtK,
	}
}
