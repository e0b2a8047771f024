// Package indexer implements the checkpoint-driven incremental indexer
// (spec.md §4.3): read events from storage past a named consumer's cursor,
// map them to lexical documents, commit in batches, and only then advance
// the cursor.
package indexer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"frankenterm-core/pkg/lexical"
	"frankenterm-core/pkg/recorder"
	"frankenterm-core/pkg/storage"
)

// ErrSchemaMismatch is a hard error: an event's schema_version did not match
// ExpectedEventSchema. The indexer stops immediately rather than skipping
// the event, since silently ignoring wrong-schema data corrupts queries.
type ErrSchemaMismatch struct {
	EventID string
	Got     string
	Want    string
}

func (e *ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("indexer: event %s has schema_version %q, expected %q", e.EventID, e.Got, e.Want)
}

// Config configures one Indexer instance.
type Config struct {
	ConsumerID            string `yaml:"consumer_id"`
	BatchSize             int    `yaml:"batch_size"`
	MaxBatches            int    `yaml:"max_batches"`
	ExpectedEventSchema   string `yaml:"expected_event_schema"`
	DedupOnReplay         bool   `yaml:"dedup_on_replay"`
}

func (c *Config) applyDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.ExpectedEventSchema == "" {
		c.ExpectedEventSchema = recorder.RecorderEventSchemaV1
	}
}

// RunStats summarizes one Run call.
type RunStats struct {
	BatchesRun  int
	DocsAdded   int
	DocsDeleted int
	CaughtUp    bool
}

// Indexer drives one consumer's checkpoint loop against a Storage and a
// lexical Writer.
type Indexer struct {
	cfg     Config
	st      *storage.Storage
	writer  *lexical.Writer
	log     *logrus.Entry
}

func New(cfg Config, st *storage.Storage, writer *lexical.Writer, log *logrus.Entry) *Indexer {
	cfg.applyDefaults()
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Indexer{cfg: cfg, st: st, writer: writer, log: log}
}

// Run executes the algorithm from spec.md §4.3 steps 1-6: load cursor, read
// up to batch_size events, map+add each, commit, advance cursor only after
// a successful commit, loop until EOF or max_batches.
func (ix *Indexer) Run() (RunStats, error) {
	stats := RunStats{}
	offset := ix.st.Cursor(ix.cfg.ConsumerID)

	for ix.cfg.MaxBatches <= 0 || stats.BatchesRun < ix.cfg.MaxBatches {
		events, newOffset, err := ix.st.ReadFrom(offset, ix.cfg.BatchSize)
		if err != nil {
			return stats, fmt.Errorf("indexer: read batch: %w", err)
		}
		if len(events) == 0 {
			stats.CaughtUp = true
			break
		}

		batchOffset := offset
		for _, ev := range events {
			if ev.SchemaVersion != ix.cfg.ExpectedEventSchema {
				return stats, &ErrSchemaMismatch{EventID: ev.EventID, Got: ev.SchemaVersion, Want: ix.cfg.ExpectedEventSchema}
			}
			if ix.cfg.DedupOnReplay {
				ix.writer.DeleteByEventID(ev.EventID)
			}
			fields := lexical.MapEventToDocument(ev, batchOffset)
			ix.writer.AddDocument(fields)
		}

		commit := ix.writer.Commit()
		stats.BatchesRun++
		stats.DocsAdded += commit.DocsAdded
		stats.DocsDeleted += commit.DocsDeleted

		// Only after a successful commit does the cursor advance.
		if err := ix.st.CommitCursor(ix.cfg.ConsumerID, newOffset); err != nil {
			return stats, fmt.Errorf("indexer: commit cursor: %w", err)
		}
		offset = newOffset

		ix.log.WithFields(logrus.Fields{
			"consumer_id": ix.cfg.ConsumerID,
			"docs_added":  commit.DocsAdded,
			"offset":      offset,
		}).Debug("indexer: committed batch")

		if len(events) < ix.cfg.BatchSize {
			stats.CaughtUp = true
			break
		}
	}

	return stats, nil
}
