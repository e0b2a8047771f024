// Package memorypressure implements the four-tier resize budget policy
// (spec.md §4.6): Green/Yellow/Orange/Red, distinct from the backpressure
// manager's tiers, driving batch sizes, overscan/backlog caps, and scratch
// allocation for reflow/resize work.
package memorypressure

import "github.com/shirou/gopsutil/v3/mem"

// Tier is the four-level memory pressure classification. Orange sits
// between Yellow and Red (spec.md §4.6), where the backpressure
// classifier's fourth tier is Black above Red.
type Tier int

const (
	Green Tier = iota
	Yellow
	Orange
	Red
)

func (t Tier) String() string {
	switch t {
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Orange:
		return "orange"
	case Red:
		return "red"
	default:
		return "unknown"
	}
}

// Config holds the tunable defaults named in spec.md §4.6.
type Config struct {
	Enabled            bool  `yaml:"enabled"`
	RedPauseColdReflow bool  `yaml:"red_pause_cold_reflow"`
	DefaultCompactionBatch uint64 `yaml:"default_compaction_batch"`
	FullScratchBytes   uint64 `yaml:"full_scratch_bytes"`

	YellowMemUsedPct float64 `yaml:"yellow_mem_used_pct"`
	OrangeMemUsedPct float64 `yaml:"orange_mem_used_pct"`
	RedMemUsedPct    float64 `yaml:"red_mem_used_pct"`
}

func (c *Config) applyDefaults() {
	if c.DefaultCompactionBatch == 0 {
		c.DefaultCompactionBatch = 256
	}
	if c.FullScratchBytes == 0 {
		c.FullScratchBytes = 64 << 20
	}
	if c.YellowMemUsedPct == 0 {
		c.YellowMemUsedPct = 70
	}
	if c.OrangeMemUsedPct == 0 {
		c.OrangeMemUsedPct = 85
	}
	if c.RedMemUsedPct == 0 {
		c.RedMemUsedPct = 95
	}
}

// ResizeMemoryBudget is the output of ResizeBudget per spec.md §4.6.
type ResizeMemoryBudget struct {
	Tier                Tier
	ColdBatchSize       uint64
	ColdReflowPaused    bool
	OverscanCap         uint64
	BacklogCap          uint64
	CompactBeforeResize bool
	CompactionBatchSize uint64
	MaxScratchBytes     uint64
}

// ResizeBudget maps a tier to its resize parameters (spec.md §4.6). When
// disabled, Green's parameters are always returned but Tier still reflects
// the requested input.
func ResizeBudget(tier Tier, cfg Config) ResizeMemoryBudget {
	cfg.applyDefaults()

	if !cfg.Enabled {
		b := greenBudget(cfg)
		b.Tier = tier
		return b
	}

	switch tier {
	case Green:
		return greenBudget(cfg)
	case Yellow:
		return ResizeMemoryBudget{
			Tier: Yellow, ColdBatchSize: 32, OverscanCap: 128, BacklogCap: 524288,
			MaxScratchBytes: cfg.FullScratchBytes / 2, CompactBeforeResize: true,
			CompactionBatchSize: cfg.DefaultCompactionBatch,
		}
	case Orange:
		return ResizeMemoryBudget{
			Tier: Orange, ColdBatchSize: 8, OverscanCap: 32, BacklogCap: 131072,
			MaxScratchBytes: cfg.FullScratchBytes / 4, CompactBeforeResize: true,
			CompactionBatchSize: cfg.DefaultCompactionBatch / 2,
		}
	case Red:
		orangeBacklog := uint64(131072)
		compactionBatch := cfg.DefaultCompactionBatch / 4
		if compactionBatch < 1 {
			compactionBatch = 1
		}
		return ResizeMemoryBudget{
			Tier: Red, ColdBatchSize: 1, ColdReflowPaused: cfg.RedPauseColdReflow,
			OverscanCap: 8, BacklogCap: orangeBacklog / 4,
			MaxScratchBytes: cfg.FullScratchBytes / 8, CompactBeforeResize: true,
			CompactionBatchSize: compactionBatch,
		}
	default:
		return greenBudget(cfg)
	}
}

func greenBudget(cfg Config) ResizeMemoryBudget {
	return ResizeMemoryBudget{
		Tier: Green, ColdBatchSize: 64, OverscanCap: 256, BacklogCap: 1048576,
		MaxScratchBytes: cfg.FullScratchBytes, CompactBeforeResize: false,
	}
}

// EffectiveColdBatchSize = 0 if paused else min(batch, remaining).
func EffectiveColdBatchSize(b ResizeMemoryBudget, remaining uint64) uint64 {
	if b.ColdReflowPaused {
		return 0
	}
	if remaining < b.ColdBatchSize {
		return remaining
	}
	return b.ColdBatchSize
}

// EffectiveOverscanRows = min(cap, scrollback-physical).
func EffectiveOverscanRows(b ResizeMemoryBudget, scrollback, physical uint64) uint64 {
	if scrollback < physical {
		return 0
	}
	avail := scrollback - physical
	if avail < b.OverscanCap {
		return avail
	}
	return b.OverscanCap
}

// ScratchAllocationAllowed = requested <= max_scratch_bytes.
func ScratchAllocationAllowed(b ResizeMemoryBudget, requested uint64) bool {
	return requested <= b.MaxScratchBytes
}

// TierFromHostMemory samples host memory via gopsutil and classifies it
// against cfg's used-percent thresholds.
func TierFromHostMemory(cfg Config) (Tier, error) {
	cfg.applyDefaults()
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Green, err
	}
	used := vm.UsedPercent
	switch {
	case used >= cfg.RedMemUsedPct:
		return Red, nil
	case used >= cfg.OrangeMemUsedPct:
		return Orange, nil
	case used >= cfg.YellowMemUsedPct:
		return Yellow, nil
	default:
		return Green, nil
	}
}
