package recorder

// MergeKey is the five-key total order used to interleave events from
// multiple panes/sources: (recorded_at_ms, pane_id, stream_rank, sequence,
// event_id), compared lexicographically in that field order.
type MergeKey struct {
	RecordedAtMs uint64
	PaneID       uint64
	StreamRank   int
	Sequence     uint64
	EventID      string
}

// MergeKeyFromEvent extracts the merge key of an event.
func MergeKeyFromEvent(e *RecorderEvent) MergeKey {
	return MergeKey{
		RecordedAtMs: e.RecordedAtMs,
		PaneID:       e.PaneID,
		StreamRank:   e.StreamKind().Rank(),
		Sequence:     e.Sequence,
		EventID:      e.EventID,
	}
}

// Compare returns -1, 0, or 1 as a sorts before, equal to, or after b. The
// comparison is total: for any a, b exactly one of Compare(a,b)<0,
// Compare(a,b)==0, Compare(a,b)>0 holds.
func (a MergeKey) Compare(b MergeKey) int {
	if a.RecordedAtMs != b.RecordedAtMs {
		return cmpUint64(a.RecordedAtMs, b.RecordedAtMs)
	}
	if a.PaneID != b.PaneID {
		return cmpUint64(a.PaneID, b.PaneID)
	}
	if a.StreamRank != b.StreamRank {
		return cmpInt(a.StreamRank, b.StreamRank)
	}
	if a.Sequence != b.Sequence {
		return cmpUint64(a.Sequence, b.Sequence)
	}
	if a.EventID != b.EventID {
		if a.EventID < b.EventID {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether a sorts strictly before b; suitable for sort.Slice.
func (a MergeKey) Less(b MergeKey) bool {
	return a.Compare(b) < 0
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
