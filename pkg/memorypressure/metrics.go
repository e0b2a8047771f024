package memorypressure

import "sync"

// Metrics accumulates monotonically-increasing counters describing how the
// resize policy has been exercised; Reset zeroes them (spec.md
// §4.6). Counters only ever increase between resets.
type Metrics struct {
	mu sync.Mutex

	ResizesRequested   uint64
	ResizesCompacted   uint64
	ColdReflowsSkipped uint64
	ScratchDenied      uint64
}

func (m *Metrics) RecordResize(compacted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResizesRequested++
	if compacted {
		m.ResizesCompacted++
	}
}

func (m *Metrics) RecordColdReflowSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ColdReflowsSkipped++
}

func (m *Metrics) RecordScratchDenied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScratchDenied++
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Metrics{
		ResizesRequested:   m.ResizesRequested,
		ResizesCompacted:   m.ResizesCompacted,
		ColdReflowsSkipped: m.ColdReflowsSkipped,
		ScratchDenied:      m.ScratchDenied,
	}
}

func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResizesRequested = 0
	m.ResizesCompacted = 0
	m.ColdReflowsSkipped = 0
	m.ScratchDenied = 0
}
