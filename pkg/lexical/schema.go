// Package lexical defines the 25-field index document schema, the two
// terminal tokenizer pipelines, and a schema fingerprint used to detect
// when a stored index was built against a stale schema or tokenizer
// definition (spec.md §4.3, §4.4).
package lexical

// LexicalSchemaVersion tags the document schema; bumping it (or either
// tokenizer's regex/filter chain) must change SchemaFingerprint, forcing a
// rebuild rather than silently mixing old and new documents.
const LexicalSchemaVersion = "ft.lexical.v1"

// FieldKind distinguishes how a field is handled by the index writer.
type FieldKind int

const (
	FieldString FieldKind = iota // exact-term equality only, raw tokenizer
	FieldNumeric                 // indexed + stored + fast (range/aggregation)
	FieldText                    // tokenized with the terminal-text pipeline
	FieldTextSymbols             // tokenized with the terminal-symbols pipeline
	FieldStoredOnly               // carried but never indexed
)

// FieldDescriptor names one of the 25 document fields and how it is handled.
type FieldDescriptor struct {
	Name string
	Kind FieldKind
}

// Schema is the fixed, ordered list of all 25 fields (spec.md §3, §4.3).
var Schema = []FieldDescriptor{
	{"schema_version", FieldString},
	{"event_id", FieldString},
	{"pane_id", FieldNumeric},
	{"session_id", FieldString},
	{"workflow_id", FieldString},
	{"correlation_id", FieldString},
	{"source", FieldString},
	{"occurred_at_ms", FieldNumeric},
	{"recorded_at_ms", FieldNumeric},
	{"sequence", FieldNumeric},
	{"stream_kind", FieldString},
	{"event_type", FieldString},
	{"parent_event_id", FieldString},
	{"trigger_event_id", FieldString},
	{"root_event_id", FieldString},
	{"log_offset", FieldNumeric},
	{"text", FieldText},
	{"text_symbols", FieldTextSymbols},
	{"ingress_kind", FieldString},
	{"redaction", FieldString},
	{"segment_kind", FieldString},
	{"is_gap", FieldString},
	{"control_marker_type", FieldString},
	{"lifecycle_phase", FieldString},
	{"details_json", FieldStoredOnly},
}

func init() {
	if len(Schema) != 25 {
		panic("lexical: schema must have exactly 25 fields")
	}
}

// IndexDocumentFields is the mapped shape of one event ready for the index
// writer. Variant-specific string fields are empty when not applicable to
// the event's payload variant (never a placeholder value); callers that
// care about presence vs. empty should consult the payload's event_type.
type IndexDocumentFields struct {
	SchemaVersion string
	EventID       string
	PaneID        uint64
	SessionID     string
	WorkflowID    string
	CorrelationID string
	Source        string
	OccurredAtMs  uint64
	RecordedAtMs  uint64
	Sequence      uint64
	StreamKind    string
	EventType     string

	ParentEventID  string
	TriggerEventID string
	RootEventID    string

	LogOffset uint64

	Text        string
	TextSymbols string

	IngressKind       string
	Redaction         string
	SegmentKind       string
	IsGap             bool
	ControlMarkerType string
	LifecyclePhase    string

	DetailsJSON string
}
