// Package query implements the unified search-query contract (spec.md
// §4.8): validation of a SearchQueryInput and its mapping to storage-layer
// search options.
package query

import (
	"fmt"
	"strings"

	"frankenterm-core/pkg/storage"
)

// Public constants, bit-exact per spec.md §4.8.
const (
	SearchLimitDefault       = 50
	SearchLimitMax           = 1000
	SearchSnippetMaxTokens   = 32
	SearchHighlightPrefix    = "\x1b[1m"
	SearchHighlightSuffix    = "\x1b[0m"
	LexicalSchemaVersion     = "ft.lexical.v1"
	RecorderEventSchemaV1    = "ft.recorder.v1"
	LexicalIndexerConsumer   = "lexical_indexer_v1"
)

// Mode selects which lane(s) a query runs against.
type Mode int

const (
	Lexical Mode = iota
	Semantic
	Hybrid
)

func (m Mode) String() string {
	switch m {
	case Lexical:
		return "lexical"
	case Semantic:
		return "semantic"
	case Hybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

func parseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lexical":
		return Lexical, true
	case "semantic":
		return Semantic, true
	case "hybrid":
		return Hybrid, true
	default:
		return Lexical, false
	}
}

// SearchQueryInput is the caller-facing, unvalidated query shape.
type SearchQueryInput struct {
	Query     string
	// Limit 0 means unset and takes SearchLimitDefault, so a zero limit is
	// never rejected; negative values and values above SearchLimitMax are.
	Limit     int
	PaneID    *uint64
	Since     *uint64
	Until     *uint64
	Snippets  bool
	ModeName  string
}

// ValidationErrorKind enumerates the typed validation failures (spec.md
// §4.8), each with a stable string code for API responses.
type ValidationErrorKind string

const (
	InvalidLimit     ValidationErrorKind = "InvalidLimit"
	InvalidTimeRange ValidationErrorKind = "InvalidTimeRange"
	UnsupportedMode  ValidationErrorKind = "UnsupportedMode"
)

// ValidationError is returned by Validate.
type ValidationError struct {
	Kind    ValidationErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("query: %s: %s", e.Kind, e.Message)
}

// ValidatedQuery is the result of a successful Validate call.
type ValidatedQuery struct {
	QueryText string
	Limit     int
	PaneID    *uint64
	Since     *uint64
	Until     *uint64
	Snippets  bool
	Mode      Mode
}

// Validate applies the rules from spec.md §4.8, filling in defaults for
// unset fields.
func Validate(in SearchQueryInput) (*ValidatedQuery, error) {
	limit := in.Limit
	if limit == 0 {
		limit = SearchLimitDefault
	}
	if limit <= 0 || limit > SearchLimitMax {
		return nil, &ValidationError{Kind: InvalidLimit, Message: fmt.Sprintf("limit=%d", limit)}
	}

	if in.Since != nil && in.Until != nil && *in.Since > *in.Until {
		return nil, &ValidationError{Kind: InvalidTimeRange, Message: fmt.Sprintf("since=%d > until=%d", *in.Since, *in.Until)}
	}

	mode, ok := parseMode(in.ModeName)
	if !ok {
		return nil, &ValidationError{Kind: UnsupportedMode, Message: in.ModeName}
	}

	return &ValidatedQuery{
		QueryText: strings.TrimSpace(in.Query),
		Limit:     limit,
		PaneID:    in.PaneID,
		Since:     in.Since,
		Until:     in.Until,
		Snippets:  in.Snippets,
		Mode:      mode,
	}, nil
}

// ToStorageSearchOptions maps a validated query to the storage-layer
// options shape (spec.md §4.8 "Mapping to storage").
func ToStorageSearchOptions(q *ValidatedQuery) storage.SearchOptions {
	opts := storage.SearchOptions{
		QueryText: q.QueryText,
		Limit:     q.Limit,
		Mode:      q.Mode.String(),
	}
	if q.PaneID != nil {
		opts.PaneIDs = []uint64{*q.PaneID}
	}
	if q.Since != nil {
		opts.StartMs = *q.Since
	}
	if q.Until != nil {
		opts.EndMs = *q.Until
	}
	return opts
}
