package storage

import (
	"encoding/json"
	"fmt"

	"frankenterm-core/pkg/recorder"
)

// eventDTO is the self-describing on-disk shape of a RecorderEvent: a flat
// envelope plus a payload_type tag and the corresponding variant fields.
// JSON (not a binary struct layout) is the wire codec chosen here, since no
// repo in the pack carries a schema-evolution-friendly binary codec
// (protobuf/flatbuffers/msgpack) wired to anything resembling this event
// shape; JSON is self-describing by construction and is what the teacher
// itself uses for on-disk state (checkpoint_manager.go's CheckpointData).
type eventDTO struct {
	SchemaVersion string `json:"schema_version"`
	EventID       string `json:"event_id"`
	PaneID        uint64 `json:"pane_id"`
	SessionID     string `json:"session_id,omitempty"`
	WorkflowID    string `json:"workflow_id,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
	Source        string `json:"source"`
	OccurredAtMs  uint64 `json:"occurred_at_ms"`
	RecordedAtMs  uint64 `json:"recorded_at_ms"`
	Sequence      uint64 `json:"sequence"`

	ParentEventID  string `json:"parent_event_id,omitempty"`
	TriggerEventID string `json:"trigger_event_id,omitempty"`
	RootEventID    string `json:"root_event_id,omitempty"`

	PayloadType string         `json:"payload_type"`
	Ingress     *ingressDTO    `json:"ingress,omitempty"`
	Egress      *egressDTO     `json:"egress,omitempty"`
	Control     *controlDTO    `json:"control,omitempty"`
	Lifecycle   *lifecycleDTO  `json:"lifecycle,omitempty"`
}

type ingressDTO struct {
	Text      string `json:"text"`
	Encoding  string `json:"encoding"`
	Redaction string `json:"redaction"`
	Kind      string `json:"kind"`
}

type egressDTO struct {
	Text      string `json:"text"`
	Encoding  string `json:"encoding"`
	Redaction string `json:"redaction"`
	Segment   string `json:"segment"`
	IsGap     bool   `json:"is_gap"`
}

type controlDTO struct {
	Marker  string         `json:"marker"`
	Details map[string]any `json:"details,omitempty"`
}

type lifecycleDTO struct {
	Phase   string         `json:"phase"`
	Reason  string         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// EncodeEvent renders an event to its self-describing JSON envelope.
func EncodeEvent(e *recorder.RecorderEvent) ([]byte, error) {
	dto := eventDTO{
		SchemaVersion:  e.SchemaVersion,
		EventID:        e.EventID,
		PaneID:         e.PaneID,
		SessionID:      e.SessionID,
		WorkflowID:     e.WorkflowID,
		CorrelationID:  e.CorrelationID,
		Source:         string(e.Source),
		OccurredAtMs:   e.OccurredAtMs,
		RecordedAtMs:   e.RecordedAtMs,
		Sequence:       e.Sequence,
		ParentEventID:  e.Causality.Parent,
		TriggerEventID: e.Causality.Trigger,
		RootEventID:    e.Causality.Root,
		PayloadType:    e.Payload.TypeTag(),
	}

	switch e.Payload.Tag() {
	case recorder.PayloadTagIngress:
		p := e.Payload.Ingress
		dto.Ingress = &ingressDTO{Text: p.Text, Encoding: p.Encoding, Redaction: string(p.Redaction), Kind: string(p.Kind)}
	case recorder.PayloadTagEgress:
		p := e.Payload.Egress
		dto.Egress = &egressDTO{Text: p.Text, Encoding: p.Encoding, Redaction: string(p.Redaction), Segment: string(p.Segment), IsGap: p.IsGap}
	case recorder.PayloadTagControl:
		p := e.Payload.Control
		dto.Control = &controlDTO{Marker: string(p.Marker), Details: p.Details}
	case recorder.PayloadTagLifecycle:
		p := e.Payload.Lifecycle
		dto.Lifecycle = &lifecycleDTO{Phase: string(p.Phase), Reason: p.Reason, Details: p.Details}
	default:
		return nil, fmt.Errorf("storage: cannot encode event with unset payload")
	}

	return json.Marshal(dto)
}

// DecodeEvent reverses EncodeEvent. It does not enforce any schema_version
// expectation itself — that gate belongs to the indexer (spec.md §4.3),
// which must fail hard rather than silently skip mismatched events.
func DecodeEvent(raw []byte) (*recorder.RecorderEvent, error) {
	var dto eventDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodecSchemaMismatch, err)
	}

	e := &recorder.RecorderEvent{
		SchemaVersion: dto.SchemaVersion,
		EventID:       dto.EventID,
		PaneID:        dto.PaneID,
		SessionID:     dto.SessionID,
		WorkflowID:    dto.WorkflowID,
		CorrelationID: dto.CorrelationID,
		Source:        recorder.Source(dto.Source),
		OccurredAtMs:  dto.OccurredAtMs,
		RecordedAtMs:  dto.RecordedAtMs,
		Sequence:      dto.Sequence,
		Causality: recorder.Causality{
			Parent:  dto.ParentEventID,
			Trigger: dto.TriggerEventID,
			Root:    dto.RootEventID,
		},
	}

	switch dto.PayloadType {
	case "ingress_text":
		if dto.Ingress == nil {
			return nil, fmt.Errorf("%w: missing ingress fields", ErrCodecSchemaMismatch)
		}
		e.Payload = recorder.NewIngressPayload(recorder.IngressText{
			Text: dto.Ingress.Text, Encoding: dto.Ingress.Encoding,
			Redaction: recorder.RedactionLevel(dto.Ingress.Redaction),
			Kind:      recorder.IngressKind(dto.Ingress.Kind),
		})
	case "egress_output":
		if dto.Egress == nil {
			return nil, fmt.Errorf("%w: missing egress fields", ErrCodecSchemaMismatch)
		}
		e.Payload = recorder.NewEgressPayload(recorder.EgressOutput{
			Text: dto.Egress.Text, Encoding: dto.Egress.Encoding,
			Redaction: recorder.RedactionLevel(dto.Egress.Redaction),
			Segment:   recorder.SegmentKind(dto.Egress.Segment),
			IsGap:     dto.Egress.IsGap,
		})
	case "control_marker":
		if dto.Control == nil {
			return nil, fmt.Errorf("%w: missing control fields", ErrCodecSchemaMismatch)
		}
		e.Payload = recorder.NewControlPayload(recorder.ControlMarker{
			Marker: recorder.ControlMarkerType(dto.Control.Marker), Details: dto.Control.Details,
		})
	case "lifecycle_marker":
		if dto.Lifecycle == nil {
			return nil, fmt.Errorf("%w: missing lifecycle fields", ErrCodecSchemaMismatch)
		}
		e.Payload = recorder.NewLifecyclePayload(recorder.LifecycleMarker{
			Phase: recorder.LifecyclePhase(dto.Lifecycle.Phase), Reason: dto.Lifecycle.Reason, Details: dto.Lifecycle.Details,
		})
	default:
		return nil, fmt.Errorf("%w: unknown payload_type %q", ErrCodecSchemaMismatch, dto.PayloadType)
	}

	return e, nil
}
