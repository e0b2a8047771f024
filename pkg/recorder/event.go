// Package recorder defines the recorder event model: the immutable record
// captured from a terminal pane, its identity (event_id), and the total
// merge order used to interleave events from multiple panes and sources.
package recorder

import "fmt"

// SchemaVersion tags the wire/in-memory shape of a RecorderEvent. A mismatch
// between an event's schema_version and the version an indexer expects is a
// hard error (see pkg/indexer), never a silent skip.
const (
	RecorderEventSchemaV1 = "ft.recorder.v1"
)

// StreamKind partitions a (pane_id) domain into four independently
// sequenced streams. Lower rank sorts first in the merge key when all other
// fields tie.
type StreamKind int

const (
	StreamLifecycle StreamKind = iota
	StreamControl
	StreamIngress
	StreamEgress
)

func (k StreamKind) String() string {
	switch k {
	case StreamLifecycle:
		return "lifecycle"
	case StreamControl:
		return "control"
	case StreamIngress:
		return "ingress"
	case StreamEgress:
		return "egress"
	default:
		return "unknown"
	}
}

// Rank is the tiebreak priority used by the merge key: lower ranks sort
// first. Kept distinct from the iota ordering above so the two can diverge
// without breaking String().
func (k StreamKind) Rank() int {
	return int(k)
}

// Source identifies which collaborator produced an event.
type Source string

const (
	SourceWeztermMux      Source = "weztermMux"
	SourceRobotMode       Source = "robotMode"
	SourceWorkflowEngine  Source = "workflowEngine"
	SourceOperatorAction  Source = "operatorAction"
	SourceRecoveryFlow    Source = "recoveryFlow"
)

// Causality links an event to the events that produced it, when known.
type Causality struct {
	Parent  string
	Trigger string
	Root    string
}

// RecorderEvent is immutable after construction. EventID is derived by
// GenerateEventIDV1 and must never be hand-set except by that function or by
// a decoder reconstructing a previously-appended event.
type RecorderEvent struct {
	SchemaVersion string
	EventID       string

	PaneID        uint64
	SessionID     string
	WorkflowID    string
	CorrelationID string

	Source Source

	OccurredAtMs uint64
	RecordedAtMs uint64

	Sequence uint64

	Causality Causality

	Payload Payload
}

// StreamKind derives the stream domain from the payload variant.
func (e *RecorderEvent) StreamKind() StreamKind {
	return e.Payload.StreamKind()
}

// EventTypeTag is the lowercase tag used both in the event-id hash input and
// as the lexical document's event_type field.
func (e *RecorderEvent) EventTypeTag() string {
	return e.Payload.TypeTag()
}

func (e *RecorderEvent) String() string {
	return fmt.Sprintf("RecorderEvent{id=%s pane=%d stream=%s seq=%d}",
		e.EventID, e.PaneID, e.StreamKind(), e.Sequence)
}
