package drift

import (
	"sort"
	"sync"
)

// RuleSummary is one rule's drift counter, part of MonitorSummary.
type RuleSummary struct {
	RuleID      string
	DriftCount  int
}

// MonitorSummary aggregates across all registered rules.
type MonitorSummary struct {
	TotalDrifts int
	Rules       []RuleSummary
}

// Monitor tracks one Detector per rule id, auto-registering a rule on its
// first Observe call.
type Monitor struct {
	mu      sync.Mutex
	delta   float64
	rules   map[string]*Detector
	counts  map[string]int
}

func NewMonitor(delta float64) *Monitor {
	return &Monitor{delta: delta, rules: make(map[string]*Detector), counts: make(map[string]int)}
}

// Observe feeds value into ruleID's detector, auto-registering it if new,
// and returns any DriftInfo produced.
func (m *Monitor) Observe(ruleID string, value float64) *DriftInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	det, ok := m.rules[ruleID]
	if !ok {
		det = NewDetector(m.delta)
		m.rules[ruleID] = det
	}

	info := det.Push(value)
	if info != nil {
		m.counts[ruleID]++
	}
	return info
}

// Summary reports per-rule and total drift counts, rules sorted by id.
func (m *Monitor) Summary() MonitorSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.rules))
	for id := range m.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	summary := MonitorSummary{Rules: make([]RuleSummary, 0, len(ids))}
	for _, id := range ids {
		c := m.counts[id]
		summary.TotalDrifts += c
		summary.Rules = append(summary.Rules, RuleSummary{RuleID: id, DriftCount: c})
	}
	return summary
}

// Reset zeros all drift counters but keeps rule registrations (and their
// accumulated window state).
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.counts {
		m.counts[id] = 0
	}
}
