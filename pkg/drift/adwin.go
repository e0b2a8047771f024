// Package drift implements an ADWIN-style adaptive window drift detector
// (spec.md §4.12): an adaptive window per rule that drops its older
// sub-window whenever the means of the two halves diverge by more than a
// confidence-bounded cut threshold.
package drift

import "math"

// DriftInfo is emitted whenever a split point triggers a window drop.
type DriftInfo struct {
	OldMean        float64
	NewMean        float64
	DroppedCount   int
	RemainingCount int
	MeanDiff       float64
	Threshold      float64
	IsDrop         bool
	RelativeChange *float64
}

// Detector is one ADWIN instance tracking a single value stream.
type Detector struct {
	delta  float64
	window []float64
	sum    float64
	sumSq  float64
}

// NewDetector creates a detector with confidence parameter delta, clamped
// to [1e-10, 1.0] per spec.md §4.12.
func NewDetector(delta float64) *Detector {
	if delta < 1e-10 {
		delta = 1e-10
	}
	if delta > 1.0 {
		delta = 1.0
	}
	return &Detector{delta: delta}
}

// Push appends value to the window, updates running statistics, and checks
// every split point for a cut. Returns the DriftInfo of the first (oldest
// acceptable) cut found, or nil if none.
func (d *Detector) Push(value float64) *DriftInfo {
	d.window = append(d.window, value)
	d.sum += value
	d.sumSq += value * value

	if len(d.window) < 2 {
		return nil
	}

	for split := 1; split < len(d.window); split++ {
		oldSub := d.window[:split]
		newSub := d.window[split:]

		oldMean := mean(oldSub)
		newMean := mean(newSub)

		m := harmonicMean(float64(len(oldSub)), float64(len(newSub)))
		epsCut := math.Sqrt((1.0 / (2 * m)) * math.Log(4/d.delta))

		diff := math.Abs(oldMean - newMean)
		if diff > epsCut {
			info := &DriftInfo{
				OldMean: oldMean, NewMean: newMean,
				DroppedCount: len(oldSub), RemainingCount: len(newSub),
				MeanDiff: diff, Threshold: epsCut, IsDrop: newMean < oldMean,
			}
			if math.Abs(oldMean) > 1e-12 {
				rel := (newMean - oldMean) / oldMean
				info.RelativeChange = &rel
			}

			d.window = append([]float64(nil), newSub...)
			d.sum, d.sumSq = 0, 0
			for _, v := range d.window {
				d.sum += v
				d.sumSq += v * v
			}
			return info
		}
	}
	return nil
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var s float64
	for _, v := range vs {
		s += v
	}
	return s / float64(len(vs))
}

func harmonicMean(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	return 2 * a * b / (a + b)
}

// Len reports the current window length.
func (d *Detector) Len() int {
	return len(d.window)
}

// Mean reports the current window's mean.
func (d *Detector) Mean() float64 {
	return mean(d.window)
}

// Variance reports the current window's (non-negative) population variance.
func (d *Detector) Variance() float64 {
	n := float64(len(d.window))
	if n == 0 {
		return 0
	}
	m := d.sum / n
	v := d.sumSq/n - m*m
	if v < 0 {
		v = 0
	}
	return v
}
