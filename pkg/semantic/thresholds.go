package semantic

import "fmt"

// Thresholds are caller-supplied regression gates (spec.md §4.9).
type Thresholds struct {
	MinHybridNDCGDeltaVsLexical float64
	MinHybridPrecisionAtK       float64
	MinHybridRecallAtK          float64
}

// ThresholdViolation names one metric that fell below its required value.
type ThresholdViolation struct {
	Query    string
	Metric   string
	Actual   float64
	Required float64
}

func (v ThresholdViolation) String() string {
	return fmt.Sprintf("%s: %s actual=%.4f required=%.4f", v.Query, v.Metric, v.Actual, v.Required)
}

// CheckThresholds evaluates one EvalResult against thresholds, returning a
// violation per failing metric.
func CheckThresholds(result EvalResult, thresholds Thresholds) []ThresholdViolation {
	var violations []ThresholdViolation

	if result.NDCGDeltaVsLexical < thresholds.MinHybridNDCGDeltaVsLexical {
		violations = append(violations, ThresholdViolation{
			Query: result.Query, Metric: "ndcg_delta_vs_lexical",
			Actual: result.NDCGDeltaVsLexical, Required: thresholds.MinHybridNDCGDeltaVsLexical,
		})
	}
	if result.Hybrid.PrecisionAtK < thresholds.MinHybridPrecisionAtK {
		violations = append(violations, ThresholdViolation{
			Query: result.Query, Metric: "hybrid_precision_at_k",
			Actual: result.Hybrid.PrecisionAtK, Required: thresholds.MinHybridPrecisionAtK,
		})
	}
	if result.Hybrid.RecallAtK < thresholds.MinHybridRecallAtK {
		violations = append(violations, ThresholdViolation{
			Query: result.Query, Metric: "hybrid_recall_at_k",
			Actual: result.Hybrid.RecallAtK, Required: thresholds.MinHybridRecallAtK,
		})
	}
	return violations
}

// Passed reports whether violations is empty.
func Passed(violations []ThresholdViolation) bool {
	return len(violations) == 0
}
