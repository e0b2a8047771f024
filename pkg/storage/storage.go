package storage

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"frankenterm-core/pkg/recorder"
)

// Config configures a Storage instance. Defaults are applied the way the
// teacher applies them throughout pkg/*: a constructor-time ApplyDefaults
// rather than field tags alone, with yaml bindings for the config file
// loader (internal stack, spec.md AMBIENT STACK section).
type Config struct {
	Dir                string            `yaml:"dir"`
	QueueCapacity      int               `yaml:"queue_capacity"`
	MaxBatchEvents     int               `yaml:"max_batch_events"`
	MaxBatchBytes      int               `yaml:"max_batch_bytes"`
	Compression        CompressionCodec  `yaml:"-"`
	IdempotencyLRUSize int               `yaml:"idempotency_lru_size"`
	DefaultSync        bool              `yaml:"default_sync"`
}

func (c *Config) applyDefaults() {
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 256
	}
	if c.MaxBatchEvents <= 0 {
		c.MaxBatchEvents = 500
	}
	if c.MaxBatchBytes <= 0 {
		c.MaxBatchBytes = 4 << 20
	}
	if c.IdempotencyLRUSize <= 0 {
		c.IdempotencyLRUSize = 10000
	}
}

// SearchOptions is the storage-facing shape of a validated search request;
// pkg/query maps its SearchQueryInput to this at the call site so storage
// never needs to import pkg/query (which in turn stays free to import
// storage-independent validation logic). Keeping the dependency one-way
// (storage -> Searcher interface, satisfied elsewhere) avoids an import
// cycle between storage, lexical, indexer and query.
type SearchOptions struct {
	QueryText     string
	PaneIDs       []uint64
	StartMs       uint64
	EndMs         uint64
	Limit         int
	Mode          string
}

// SearchResult is the storage-facing shape of one search hit.
type SearchResult struct {
	EventID string
	PaneID  uint64
	Score   float64
	Snippet string
}

// Searcher is implemented by whatever component actually executes search
// (pkg/indexer, wired in at the top level in cmd/ftcore). Storage depends
// only on this interface, never on the concrete indexer.
type Searcher interface {
	Search(opts SearchOptions) ([]SearchResult, error)
}

// Storage is the append-only event log facade: AppendBatch, UpsertPane,
// AppendSegment are the write path; SearchWithOptions delegates to an
// injected Searcher; Shutdown drains the writer actor and persists state.
type Storage struct {
	cfg Config
	log *logrus.Entry

	al     *appendLog
	writer *writerActor

	stateMu sync.Mutex
	state   *stateFile
	idemLRU *idempotencyLRU

	panes *paneTable

	searcher Searcher

	closed int32
}

// NewStorage opens (or creates) a storage directory: the append log,
// state.json sidecar, and idempotency set. The returned Storage is ready to
// accept writes immediately; searcher may be nil until the indexer is wired
// in (SearchWithOptions returns an error until then).
func NewStorage(cfg Config, log *logrus.Entry, searcher Searcher) (*Storage, error) {
	cfg.applyDefaults()
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	al, tail, err := openAppendLog(logPath(cfg.Dir), log)
	if err != nil {
		return nil, err
	}

	st, err := loadState(statePath(cfg.Dir))
	if err != nil {
		al.close()
		return nil, err
	}
	st.LogTail = tail

	idem := newIdempotencyLRU(cfg.IdempotencyLRUSize)
	for _, id := range st.IdempotencyLRU {
		idem.remember(id, AppendBatchResult{BatchID: id, Replayed: true})
	}

	s := &Storage{
		cfg:      cfg,
		log:      log,
		al:       al,
		writer:   newWriterActor(al, cfg.QueueCapacity, log),
		state:    st,
		idemLRU:  idem,
		panes:    newPaneTable(),
		searcher: searcher,
	}
	return s, nil
}

func (s *Storage) isClosed() bool {
	return atomic.LoadInt32(&s.closed) == 1
}

// AppendBatch appends req.Events atomically as a group, honoring
// idempotency on req.BatchID and enforcing the configured batch-size caps.
// block controls whether a saturated writer queue blocks the caller or
// returns ErrBackpressureSaturation immediately.
func (s *Storage) AppendBatch(req AppendBatchRequest, block bool) (AppendBatchResult, error) {
	if s.isClosed() {
		return AppendBatchResult{}, ErrStorageClosed
	}

	if prior, ok := s.idemLRU.lookup(req.BatchID); ok {
		prior.Replayed = true
		return prior, nil
	}

	if len(req.Events) > s.cfg.MaxBatchEvents {
		return AppendBatchResult{}, fmt.Errorf("%w: %d events exceeds max_batch_events %d",
			ErrBatchTooLarge, len(req.Events), s.cfg.MaxBatchEvents)
	}

	records := make([][]byte, 0, len(req.Events))
	totalBytes := 0
	for _, ev := range req.Events {
		raw, err := EncodeEvent(ev)
		if err != nil {
			return AppendBatchResult{}, fmt.Errorf("storage: encode event %s: %w", ev.EventID, err)
		}
		framed, err := compressPayload(s.cfg.Compression, raw)
		if err != nil {
			return AppendBatchResult{}, err
		}
		rec := encodeRecord(framed)
		totalBytes += len(rec)
		if totalBytes > s.cfg.MaxBatchBytes {
			return AppendBatchResult{}, fmt.Errorf("%w: batch exceeds max_batch_bytes %d",
				ErrBatchTooLarge, s.cfg.MaxBatchBytes)
		}
		records = append(records, rec)
	}

	offsets, err := s.writer.submit(records, req.RequireSync || s.cfg.DefaultSync, block)
	if err != nil {
		return AppendBatchResult{}, err
	}

	durability := Appended
	if req.RequireSync || s.cfg.DefaultSync {
		durability = Synced
	}
	result := AppendBatchResult{BatchID: req.BatchID, Durability: durability, LogOffsets: offsets}
	s.idemLRU.remember(req.BatchID, result)

	return result, nil
}

// UpsertPane records (or refreshes) pane metadata with a monotonic
// last_seen_at.
func (s *Storage) UpsertPane(paneID uint64, title, cwd string, seenAtMs uint64) PaneMetadata {
	return s.panes.upsert(paneID, title, cwd, seenAtMs)
}

func (s *Storage) Pane(paneID uint64) (PaneMetadata, bool) {
	return s.panes.get(paneID)
}

// AppendSegment is a convenience wrapper appending a single egress segment
// event as a one-event batch; segment boundaries are the unit the capture
// layer flushes at.
func (s *Storage) AppendSegment(batchID string, ev *recorder.RecorderEvent, block bool) (AppendBatchResult, error) {
	return s.AppendBatch(AppendBatchRequest{BatchID: batchID, Events: []*recorder.RecorderEvent{ev}}, block)
}

// SetSearcher wires in the Searcher after construction, for the common
// two-phase startup where the indexer (the Searcher) itself needs a
// reference to this Storage before it can exist.
func (s *Storage) SetSearcher(searcher Searcher) {
	s.searcher = searcher
}

// SearchWithOptions delegates to the injected Searcher.
func (s *Storage) SearchWithOptions(opts SearchOptions) ([]SearchResult, error) {
	if s.searcher == nil {
		return nil, fmt.Errorf("storage: no searcher wired")
	}
	return s.searcher.Search(opts)
}

// Shutdown drains in-flight appends, persists state.json, and closes the
// log file. Safe to call once; a second call is a no-op.
func (s *Storage) Shutdown() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}

	s.writer.shutdown()

	s.stateMu.Lock()
	s.state.IdempotencyLRU = s.idemLRU.batchIDs()
	s.state.LogTail = s.al.tail
	err := saveState(statePath(s.cfg.Dir), s.state)
	s.stateMu.Unlock()
	if err != nil {
		s.log.WithError(err).Error("storage: failed to persist state.json on shutdown")
	}

	if closeErr := s.al.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// CommitCursor advances a named consumer's cursor and persists state.json.
// Called by the indexer after a batch has been durably indexed (spec.md
// §4.3: advance the cursor only after a successful commit).
func (s *Storage) CommitCursor(consumer string, offset uint64) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state.Consumers[consumer] = offset
	return saveState(statePath(s.cfg.Dir), s.state)
}

func (s *Storage) Cursor(consumer string) uint64 {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state.Consumers[consumer]
}

// ReadFrom opens an independent read cursor over the append log starting at
// byteOffset, decoding each record back into a RecorderEvent. It stops at
// io.EOF (nothing more written yet) rather than treating that as an error.
func (s *Storage) ReadFrom(byteOffset uint64, maxRecords int) ([]*recorder.RecorderEvent, uint64, error) {
	f, err := s.al.readAt(byteOffset)
	if err != nil {
		return nil, byteOffset, err
	}
	defer f.Close()

	events := make([]*recorder.RecorderEvent, 0)
	offset := byteOffset
	for maxRecords <= 0 || len(events) < maxRecords {
		framed, err := readRecord(f)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return events, offset, fmt.Errorf("storage: read record at offset %d: %w", offset, err)
		}
		raw, err := decompressPayload(framed)
		if err != nil {
			return events, offset, fmt.Errorf("storage: decompress record at offset %d: %w", offset, err)
		}
		ev, err := DecodeEvent(raw)
		if err != nil {
			return events, offset, fmt.Errorf("storage: decode record at offset %d: %w", offset, err)
		}
		events = append(events, ev)
		offset += uint64(recordHeaderSize + len(framed))
	}
	return events, offset, nil
}
