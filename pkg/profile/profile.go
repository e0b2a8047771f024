// Package profile bundles the tuning knobs of pkg/backpressure,
// pkg/memorypressure, and pkg/reflow into a single named configuration, and
// ships a small set of built-in presets (interactive, ci-batch,
// low-memory). Selecting a profile from disk or CLI flags is out of scope;
// only the Profile data type and its built-in presets are provided.
package profile

import (
	"time"

	"frankenterm-core/pkg/backpressure"
	"frankenterm-core/pkg/memorypressure"
)

// ReflowTuning holds the reflow planner knobs a profile can override; the
// planner's Input itself is request-shaped (viewport position, total
// lines), so only the frame-budget and overscan-sizing constants belong in
// a profile.
type ReflowTuning struct {
	OverscanLines     uint64 `yaml:"overscan_lines"`
	LinesPerWorkUnit  uint64 `yaml:"lines_per_work_unit"`
	FrameBudgetUnits  uint64 `yaml:"frame_budget_units"`
}

// Profile is a named bundle of subsystem configuration.
type Profile struct {
	Name            string                     `yaml:"name"`
	Description     string                     `yaml:"description"`
	Backpressure    backpressure.Config        `yaml:"backpressure"`
	Continuous      backpressure.ContinuousConfig `yaml:"continuous_backpressure"`
	MemoryPressure  memorypressure.Config      `yaml:"memory_pressure"`
	Reflow          ReflowTuning               `yaml:"reflow"`
	PollInterval    time.Duration              `yaml:"poll_interval"`
}

// Interactive favors low latency for a human driving a single pane: tight
// hysteresis, a small overscan, frequent polling.
func Interactive() Profile {
	return Profile{
		Name:        "interactive",
		Description: "low-latency tuning for an interactively driven pane",
		Backpressure: backpressure.Config{
			Enabled:          true,
			YellowThreshold:  0.6,
			RedThreshold:     0.85,
			HysteresisMs:     500,
		},
		Continuous: backpressure.ContinuousConfig{
			Steepness: 10, Midpoint: 0.6, EMAAlpha: 0.3, MaxBuffer: 4096,
		},
		MemoryPressure: memorypressure.Config{
			Enabled:                true,
			RedPauseColdReflow:     true,
			DefaultCompactionBatch: 64,
			FullScratchBytes:       8 << 20,
			YellowMemUsedPct:       70,
			OrangeMemUsedPct:       85,
			RedMemUsedPct:          95,
		},
		Reflow: ReflowTuning{
			OverscanLines:    256,
			LinesPerWorkUnit: 64,
			FrameBudgetUnits: 32,
		},
		PollInterval: 16 * time.Millisecond,
	}
}

// CIBatch favors throughput over latency for unattended batch capture: a
// wider hysteresis band, larger overscan, infrequent polling.
func CIBatch() Profile {
	return Profile{
		Name:        "ci-batch",
		Description: "throughput-oriented tuning for unattended batch capture",
		Backpressure: backpressure.Config{
			Enabled:         true,
			YellowThreshold: 0.75,
			RedThreshold:    0.92,
			HysteresisMs:    5000,
		},
		Continuous: backpressure.ContinuousConfig{
			Steepness: 6, Midpoint: 0.75, EMAAlpha: 0.1, MaxBuffer: 65536,
		},
		MemoryPressure: memorypressure.Config{
			Enabled:                true,
			RedPauseColdReflow:     false,
			DefaultCompactionBatch: 256,
			FullScratchBytes:       64 << 20,
			YellowMemUsedPct:       75,
			OrangeMemUsedPct:       88,
			RedMemUsedPct:          96,
		},
		Reflow: ReflowTuning{
			OverscanLines:    1024,
			LinesPerWorkUnit: 256,
			FrameBudgetUnits: 128,
		},
		PollInterval: 250 * time.Millisecond,
	}
}

// LowMemory favors a small resident footprint over latency or throughput:
// aggressive backpressure, small scratch allowance, minimal overscan.
func LowMemory() Profile {
	return Profile{
		Name:        "low-memory",
		Description: "minimal-footprint tuning for memory-constrained hosts",
		Backpressure: backpressure.Config{
			Enabled:         true,
			YellowThreshold: 0.5,
			RedThreshold:    0.7,
			HysteresisMs:    1000,
		},
		Continuous: backpressure.ContinuousConfig{
			Steepness: 14, Midpoint: 0.45, EMAAlpha: 0.4, MaxBuffer: 512,
		},
		MemoryPressure: memorypressure.Config{
			Enabled:                true,
			RedPauseColdReflow:     true,
			DefaultCompactionBatch: 16,
			FullScratchBytes:       1 << 20,
			YellowMemUsedPct:       55,
			OrangeMemUsedPct:       70,
			RedMemUsedPct:          85,
		},
		Reflow: ReflowTuning{
			OverscanLines:    32,
			LinesPerWorkUnit: 16,
			FrameBudgetUnits: 8,
		},
		PollInterval: 100 * time.Millisecond,
	}
}

// BuiltIns returns the three built-in presets, keyed by name.
func BuiltIns() map[string]Profile {
	return map[string]Profile{
		"interactive": Interactive(),
		"ci-batch":    CIBatch(),
		"low-memory":  LowMemory(),
	}
}
