package storage

import "frankenterm-core/pkg/recorder"

// Durability describes how far an AppendBatch call's records had travelled
// before it returned: Appended means the records are framed into the log's
// write queue and visible to readers sharing the same process, Synced means
// fsync has additionally been called on the underlying file.
type Durability int

const (
	Appended Durability = iota
	Synced
)

func (d Durability) String() string {
	if d == Synced {
		return "synced"
	}
	return "appended"
}

// AppendBatchRequest is one idempotent write: a batch_id chosen by the
// caller plus the events to append. Replaying the same batch_id is always
// safe (spec.md §4.2, Idempotent batched appends).
type AppendBatchRequest struct {
	BatchID      string
	Events       []*recorder.RecorderEvent
	RequireSync  bool
}

// AppendBatchResult is returned both for a fresh append and for a replayed
// batch_id looked up in the idempotency set.
type AppendBatchResult struct {
	BatchID    string
	Durability Durability
	// LogOffsets holds the byte offset of each record in Events' order, as
	// recorded at the time the batch was first appended.
	LogOffsets []uint64
	// Replayed is true when the batch_id had already been seen: Events were
	// not written again and LogOffsets is the same slice returned the first
	// time in this process. A batch_id restored from state.json at startup
	// carries only BatchID, with no LogOffsets.
	Replayed bool
}
