package storage

import "errors"

// ErrCodecSchemaMismatch is the CodecError variant (spec.md §7) for a record
// whose JSON envelope does not decode into a known event shape.
var ErrCodecSchemaMismatch = errors.New("storage: codec schema mismatch")

// ErrBatchTooLarge is returned by AppendBatch when a batch exceeds either
// max_batch_events or max_batch_bytes. The batch is rejected wholesale:
// nothing is written, no length prefix hits the log.
var ErrBatchTooLarge = errors.New("storage: batch too large")

// ErrBackpressureSaturation is the transient BackpressureSaturation error
// (spec.md §7): returned when the append queue is full and the caller opted
// out of blocking. Never fatal — retry later.
var ErrBackpressureSaturation = errors.New("storage: append queue saturated")

// ErrStorageClosed is returned by any operation attempted after Shutdown.
var ErrStorageClosed = errors.New("storage: closed")
