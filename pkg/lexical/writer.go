package lexical

import (
	"sort"
	"sync"
)

// IndexCommitStats reports what a Commit call did (spec.md §4.3).
type IndexCommitStats struct {
	DocsAdded   int
	DocsDeleted int
	SegmentCount int
}

// posting is one occurrence of a term in a document's tokenized field.
type posting struct {
	docID     uint64
	positions []int
}

// Writer is a single-writer, in-memory inverted index. No ready-made
// embeddable full-text index library appears anywhere in the example pack
// (the closest analogues are log-shipping/ETL tools, not search engines),
// so this is a deliberately minimal stdlib inverted index: term -> postings
// per tokenized field, plus a stored-document table for the STRING/NUMERIC/
// stored-only fields. It is not a general-purpose search engine; it only
// supports what pkg/query needs (term lookup, range filters, tombstones).
type Writer struct {
	mu sync.RWMutex

	nextDocID uint64
	docs      map[uint64]*IndexDocumentFields
	tombstone map[string]bool // event_id -> deleted

	textPostings    map[string][]posting
	symbolsPostings map[string][]posting

	pendingAdds    int
	pendingDeletes int
	segmentCount   int
}

// NewWriter opens a fresh in-memory writer. Persistence to disk is out of
// scope for the core (the index directory is "opaque to the core, owned by
// the index writer" per spec.md §6); this writer is the one owner.
func NewWriter() *Writer {
	return &Writer{
		docs:            make(map[uint64]*IndexDocumentFields),
		tombstone:       make(map[string]bool),
		textPostings:    make(map[string][]posting),
		symbolsPostings: make(map[string][]posting),
		segmentCount:    1,
	}
}

// AddDocument tokenizes fields.Text/TextSymbols and indexes the document.
// The document is visible to lookups as soon as AddDocument returns; Commit
// only reports the pending counts.
func (w *Writer) AddDocument(fields *IndexDocumentFields) {
	w.mu.Lock()
	defer w.mu.Unlock()

	docID := w.nextDocID
	w.nextDocID++

	if w.tombstone[fields.EventID] {
		// Re-adding a tombstoned event_id replaces its earlier copies
		// instead of reviving them alongside the new one.
		for id, doc := range w.docs {
			if doc.EventID == fields.EventID {
				delete(w.docs, id)
			}
		}
		delete(w.tombstone, fields.EventID)
	}

	cp := *fields
	w.docs[docID] = &cp

	for term, pos := range termPositions(TokenizeText(fields.Text)) {
		w.textPostings[term] = append(w.textPostings[term], posting{docID: docID, positions: pos})
	}
	for term, pos := range termPositions(TokenizeSymbols(fields.TextSymbols)) {
		w.symbolsPostings[term] = append(w.symbolsPostings[term], posting{docID: docID, positions: pos})
	}

	w.pendingAdds++
}

// DeleteByEventID tombstones a previously-added document by its event_id,
// used by the indexer's dedup_on_replay path (spec.md §4.3).
func (w *Writer) DeleteByEventID(eventID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.tombstone[eventID] {
		w.tombstone[eventID] = true
		w.pendingDeletes++
	}
}

// Commit finalizes the pending adds/deletes into a new stats snapshot. This
// in-memory writer has nothing to flush, so Commit's only real job is
// reporting what happened since the last call and bumping the segment
// counter the way a real LSM-style writer would.
func (w *Writer) Commit() IndexCommitStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	stats := IndexCommitStats{
		DocsAdded:    w.pendingAdds,
		DocsDeleted:  w.pendingDeletes,
		SegmentCount: w.segmentCount,
	}
	if w.pendingAdds > 0 {
		w.segmentCount++
	}
	w.pendingAdds = 0
	w.pendingDeletes = 0
	return stats
}

// termPositions groups a token slice by term, recording 0-based token
// positions so position-aware phrase queries remain possible.
func termPositions(tokens []string) map[string][]int {
	out := make(map[string][]int)
	for i, t := range tokens {
		out[t] = append(out[t], i)
	}
	return out
}

// Lookup returns the live (non-tombstoned) document ids whose text field
// contains term, sorted ascending.
func (w *Writer) Lookup(term string) []uint64 {
	return w.lookupField(w.textPostings, term)
}

// LookupSymbols is the text_symbols-field analogue of Lookup.
func (w *Writer) LookupSymbols(term string) []uint64 {
	return w.lookupField(w.symbolsPostings, term)
}

func (w *Writer) lookupField(postings map[string][]posting, term string) []uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	matches := postings[term]
	out := make([]uint64, 0, len(matches))
	for _, p := range matches {
		doc, ok := w.docs[p.docID]
		if !ok || w.tombstone[doc.EventID] {
			continue
		}
		out = append(out, p.docID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Document returns the stored fields for docID, unless tombstoned.
func (w *Writer) Document(docID uint64) (*IndexDocumentFields, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, ok := w.docs[docID]
	if !ok || w.tombstone[doc.EventID] {
		return nil, false
	}
	cp := *doc
	return &cp, true
}

// DocCount reports the number of live (non-tombstoned) documents.
func (w *Writer) DocCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for _, doc := range w.docs {
		if !w.tombstone[doc.EventID] {
			n++
		}
	}
	return n
}
