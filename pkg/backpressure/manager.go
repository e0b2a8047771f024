// Package backpressure implements the four-tier queue-depth classifier
// (spec.md §4.5): Green/Yellow/Red/Black, with upgrade-immediate,
// downgrade-delayed hysteresis, a pane-pause set, and a continuous
// sigmoid-based action-scaling controller for schedulers.
package backpressure

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Tier is the four-level backpressure classification, ordered Green < Yellow
// < Red < Black so monotonic assertions can compare tiers directly.
type Tier int

const (
	Green Tier = iota
	Yellow
	Red
	Black
)

func (t Tier) String() string {
	switch t {
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return "unknown"
	}
}

// QueueDepths is the raw input to Classify.
type QueueDepths struct {
	CaptureDepth    uint64
	CaptureCapacity uint64
	WriteDepth      uint64
	WriteCapacity   uint64
}

func ratio(depth, capacity uint64) float64 {
	if capacity == 0 {
		return 0.0
	}
	return float64(depth) / float64(capacity)
}

// Config configures the classifier and the hysteresis timer.
type Config struct {
	Enabled         bool    `yaml:"enabled"`
	YellowThreshold float64 `yaml:"yellow_threshold"`
	RedThreshold    float64 `yaml:"red_threshold"`
	HysteresisMs    int64   `yaml:"hysteresis_ms"`
}

func (c *Config) applyDefaults() {
	if c.YellowThreshold == 0 {
		c.YellowThreshold = 0.5
	}
	if c.RedThreshold == 0 {
		c.RedThreshold = 0.85
	}
	if c.HysteresisMs == 0 {
		c.HysteresisMs = 5000
	}
}

// Classify implements the pure saturation-floor + ratio rule from
// spec.md §4.5, with no hysteresis or state: given depths alone, returns the
// tier they correspond to right now.
func Classify(d QueueDepths, cfg Config) Tier {
	if d.CaptureCapacity >= 5 && d.CaptureDepth+5 >= d.CaptureCapacity {
		return Black
	}
	if d.WriteCapacity >= 100 && d.WriteDepth+100 >= d.WriteCapacity {
		return Black
	}

	captureRatio := ratio(d.CaptureDepth, d.CaptureCapacity)
	writeRatio := ratio(d.WriteDepth, d.WriteCapacity)

	yellow := cfg.YellowThreshold
	red := cfg.RedThreshold
	if yellow <= 0 {
		yellow = 0.5
	}
	if red <= 0 {
		red = 0.85
	}

	switch {
	case captureRatio >= red || writeRatio >= red:
		return Red
	case captureRatio >= yellow || writeRatio >= yellow:
		return Yellow
	default:
		return Green
	}
}

// Manager applies hysteresis on top of Classify: upgrades take effect
// immediately, downgrades are withheld until hysteresis_ms has elapsed since
// the tier last moved up.
type Manager struct {
	mu sync.Mutex

	cfg Config
	log *logrus.Entry

	currentTier   Tier
	lastUpgradeAt time.Time
	paused        map[uint64]struct{}
}

func NewManager(cfg Config, log *logrus.Entry) *Manager {
	cfg.applyDefaults()
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{
		cfg:    cfg,
		log:    log,
		paused: make(map[uint64]struct{}),
	}
}

// Evaluate classifies d and applies hysteresis, returning (from, to, true)
// when the tier transitions, or (_, _, false) when it doesn't (including
// when the manager is disabled, per spec.md §4.5).
func (m *Manager) Evaluate(d QueueDepths) (from, to Tier, changed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cfg.Enabled {
		return m.currentTier, m.currentTier, false
	}

	classified := Classify(d, m.cfg)
	now := time.Now()

	if classified > m.currentTier {
		from, to = m.currentTier, classified
		m.currentTier = classified
		m.lastUpgradeAt = now
		m.log.WithFields(logrus.Fields{"from": from, "to": to}).Warn("backpressure: tier upgraded")
		return from, to, true
	}

	if classified < m.currentTier {
		elapsed := now.Sub(m.lastUpgradeAt)
		if elapsed.Milliseconds() < m.cfg.HysteresisMs {
			return m.currentTier, m.currentTier, false
		}
		from, to = m.currentTier, classified
		m.currentTier = classified
		m.log.WithFields(logrus.Fields{"from": from, "to": to}).Info("backpressure: tier downgraded")
		return from, to, true
	}

	return m.currentTier, m.currentTier, false
}

// CurrentTier returns the tier most recently settled on.
func (m *Manager) CurrentTier() Tier {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTier
}
