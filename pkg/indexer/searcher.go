package indexer

import (
	"frankenterm-core/pkg/lexical"
	"frankenterm-core/pkg/storage"
)

// LexicalSearcher adapts a lexical.Writer to storage.Searcher so Storage can
// serve SearchWithOptions without importing pkg/lexical or pkg/indexer
// itself.
type LexicalSearcher struct {
	Writer *lexical.Writer
}

func (s *LexicalSearcher) Search(opts storage.SearchOptions) ([]storage.SearchResult, error) {
	terms := lexical.TokenizeText(opts.QueryText)
	if len(terms) == 0 {
		return nil, nil
	}

	seen := make(map[uint64]bool)
	var ordered []uint64
	for _, term := range terms {
		for _, docID := range s.Writer.Lookup(term) {
			if !seen[docID] {
				seen[docID] = true
				ordered = append(ordered, docID)
			}
		}
	}

	limit := opts.Limit
	if limit <= 0 || limit > len(ordered) {
		limit = len(ordered)
	}

	results := make([]storage.SearchResult, 0, limit)
	for _, docID := range ordered[:limit] {
		doc, ok := s.Writer.Document(docID)
		if !ok {
			continue
		}
		if !paneMatches(opts.PaneIDs, doc.PaneID) {
			continue
		}
		if opts.StartMs > 0 && doc.RecordedAtMs < opts.StartMs {
			continue
		}
		if opts.EndMs > 0 && doc.RecordedAtMs > opts.EndMs {
			continue
		}
		results = append(results, storage.SearchResult{
			EventID: doc.EventID,
			PaneID:  doc.PaneID,
			Score:   1.0,
			Snippet: snippet(doc.Text, 120),
		})
	}
	return results, nil
}

func paneMatches(paneIDs []uint64, paneID uint64) bool {
	if len(paneIDs) == 0 {
		return true
	}
	for _, id := range paneIDs {
		if id == paneID {
			return true
		}
	}
	return false
}

func snippet(text string, maxRunes int) string {
	r := []rune(text)
	if len(r) <= maxRunes {
		return text
	}
	return string(r[:maxRunes])
}
