package lexical

import (
	"encoding/json"

	"frankenterm-core/pkg/recorder"
)

// MapEventToDocument fills all 25 fields per spec.md §4.3. Variant-specific
// fields are left at their zero value (empty string) for variants they
// don't apply to; the document's EventType tells "not present" apart from
// a meaningful empty value (see IndexDocumentFields).
func MapEventToDocument(e *recorder.RecorderEvent, logOffset uint64) *IndexDocumentFields {
	f := &IndexDocumentFields{
		SchemaVersion: e.SchemaVersion,
		EventID:       e.EventID,
		PaneID:        e.PaneID,
		SessionID:     e.SessionID,
		WorkflowID:    e.WorkflowID,
		CorrelationID: e.CorrelationID,
		Source:        string(e.Source),
		OccurredAtMs:  e.OccurredAtMs,
		RecordedAtMs:  e.RecordedAtMs,
		Sequence:      e.Sequence,
		StreamKind:    e.StreamKind().String(),
		EventType:     e.EventTypeTag(),

		ParentEventID:  e.Causality.Parent,
		TriggerEventID: e.Causality.Trigger,
		RootEventID:    e.Causality.Root,

		LogOffset: logOffset,

		Text:        e.Payload.Text(),
		TextSymbols: e.Payload.Text(),

		IsGap: e.Payload.IsGap(),
	}

	switch e.Payload.Tag() {
	case recorder.PayloadTagIngress:
		f.IngressKind = string(e.Payload.Ingress.Kind)
		f.Redaction = string(e.Payload.Ingress.Redaction)
	case recorder.PayloadTagEgress:
		f.Redaction = string(e.Payload.Egress.Redaction)
		f.SegmentKind = string(e.Payload.Egress.Segment)
	case recorder.PayloadTagControl:
		f.ControlMarkerType = string(e.Payload.Control.Marker)
		f.DetailsJSON = marshalDetails(e.Payload.Control.Details)
	case recorder.PayloadTagLifecycle:
		f.LifecyclePhase = string(e.Payload.Lifecycle.Phase)
		f.DetailsJSON = marshalDetails(e.Payload.Lifecycle.Details)
	}

	return f
}

func marshalDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return ""
	}
	return string(raw)
}
