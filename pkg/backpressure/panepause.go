package backpressure

import "sort"

// PausePane idempotently adds paneID to the pause set.
func (m *Manager) PausePane(paneID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused[paneID] = struct{}{}
}

// PausedPaneIDs returns the paused set as a sorted slice.
func (m *Manager) PausedPaneIDs() []uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint64, 0, len(m.paused))
	for id := range m.paused {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ResumeAllPanes clears the pause set.
func (m *Manager) ResumeAllPanes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = make(map[uint64]struct{})
}
