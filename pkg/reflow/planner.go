// Package reflow implements the viewport-priority reflow batch planner
// (spec.md §4.7): viewport rows first, then overscan, then cold scrollback,
// split into line batches and greedily selected under a frame budget.
package reflow

import "math"

// SchedulerClass labels whether a batch should run on the interactive path
// or can be deferred to a background scheduler.
type SchedulerClass int

const (
	Interactive SchedulerClass = iota
	Background
)

func (s SchedulerClass) String() string {
	if s == Interactive {
		return "interactive"
	}
	return "background"
}

// Priority names the three range groups, in selection order.
type Priority int

const (
	ViewportCore Priority = iota
	ViewportOverscan
	ColdScrollback
)

func (p Priority) String() string {
	switch p {
	case ViewportCore:
		return "viewport_core"
	case ViewportOverscan:
		return "viewport_overscan"
	case ColdScrollback:
		return "cold_scrollback"
	default:
		return "unknown"
	}
}

// Input is the planner's request shape (spec.md §4.7).
type Input struct {
	TotalLogicalLines uint64
	ViewportTop       uint64
	ViewportHeight    uint64
	OverscanLines     uint64
	MaxBatchLines     uint64
	LinesPerWorkUnit  uint64
	FrameBudgetUnits  uint64
}

// Batch is one planned unit of reflow work.
type Batch struct {
	Start            uint64
	End              uint64 // exclusive
	Priority         Priority
	SchedulerClass   SchedulerClass
	WorkUnits        uint64
	SelectedForFrame bool
	Rationale        string
}

// Plan produces the ordered batch list per spec.md §4.7's algorithm.
func Plan(in Input) []Batch {
	if in.MaxBatchLines == 0 {
		in.MaxBatchLines = 1
	}
	if in.LinesPerWorkUnit == 0 {
		in.LinesPerWorkUnit = 1
	}

	total := in.TotalLogicalLines
	top := in.ViewportTop
	height := in.ViewportHeight
	if top+height > total {
		if total >= height {
			top = total - height
		} else {
			top = 0
			height = total
		}
	}
	viewportEnd := top + height

	var batches []Batch

	// ViewportCore
	batches = append(batches, splitRange(top, viewportEnd, in, ViewportCore, Interactive, "viewport")...)

	// ViewportOverscan: left then right
	overscanLeftStart := subClamp(top, in.OverscanLines)
	batches = append(batches, splitRange(overscanLeftStart, top, in, ViewportOverscan, Interactive, "overscan_left")...)

	overscanRightEnd := addClamp(viewportEnd, in.OverscanLines, total)
	batches = append(batches, splitRange(viewportEnd, overscanRightEnd, in, ViewportOverscan, Interactive, "overscan_right")...)

	// ColdScrollback: left side (0..overscanLeftStart), then right side
	// (overscanRightEnd..total), each scanned outward from the viewport —
	// i.e. left emitted nearest-to-viewport-first by iterating backward,
	// right emitted nearest-to-viewport-first by iterating forward.
	batches = append(batches, splitRangeOutwardLeft(0, overscanLeftStart, in)...)
	batches = append(batches, splitRange(overscanRightEnd, total, in, ColdScrollback, Background, "cold_right")...)

	selectForFrame(batches, in.FrameBudgetUnits)
	return batches
}

func subClamp(v, delta uint64) uint64 {
	if delta > v {
		return 0
	}
	return v - delta
}

func addClamp(v, delta, max uint64) uint64 {
	r := v + delta
	if r > max {
		return max
	}
	return r
}

func workUnits(lines, perUnit uint64) uint64 {
	if lines == 0 {
		return 0
	}
	return uint64(math.Ceil(float64(lines) / float64(perUnit)))
}

func splitRange(start, end uint64, in Input, prio Priority, class SchedulerClass, rationale string) []Batch {
	var out []Batch
	for s := start; s < end; s += in.MaxBatchLines {
		e := s + in.MaxBatchLines
		if e > end {
			e = end
		}
		lines := e - s
		units := workUnits(lines, in.LinesPerWorkUnit)
		if units < 1 && lines > 0 {
			units = 1
		}
		out = append(out, Batch{Start: s, End: e, Priority: prio, SchedulerClass: class, WorkUnits: units, Rationale: rationale})
	}
	return out
}

// splitRangeOutwardLeft splits [start, end) into batches ordered nearest-to-
// end-first (i.e. nearest the viewport, scanning outward to the left),
// while each individual batch's own [start,end) stays ascending so ranges
// remain non-overlapping and every line in [start,end) is still covered
// exactly once.
func splitRangeOutwardLeft(start, end uint64, in Input) []Batch {
	forward := splitRange(start, end, in, ColdScrollback, Background, "cold_left")
	out := make([]Batch, len(forward))
	for i, b := range forward {
		out[len(forward)-1-i] = b
	}
	return out
}

// selectForFrame greedily selects batches in order: always take the first,
// then keep appending while cumulative work units stay within the frame
// budget (clamped to at least 1).
func selectForFrame(batches []Batch, budget uint64) {
	if len(batches) == 0 {
		return
	}
	if budget < 1 {
		budget = 1
	}

	var cumulative uint64
	for i := range batches {
		if i == 0 {
			batches[i].SelectedForFrame = true
			cumulative = batches[i].WorkUnits
			continue
		}
		if cumulative+batches[i].WorkUnits <= budget {
			batches[i].SelectedForFrame = true
			cumulative += batches[i].WorkUnits
		} else {
			break
		}
	}
}
