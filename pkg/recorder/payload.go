package recorder

// RedactionLevel marks how aggressively a text payload has been scrubbed
// before it reached the recorder.
type RedactionLevel string

const (
	RedactionNone    RedactionLevel = "none"
	RedactionPartial RedactionLevel = "partial"
	RedactionFull    RedactionLevel = "full"
)

// IngressKind distinguishes typed keystrokes from pasted or synthetic input.
type IngressKind string

const (
	IngressKeystroke IngressKind = "keystroke"
	IngressPaste     IngressKind = "paste"
	IngressSynthetic IngressKind = "synthetic"
)

// SegmentKind classifies a unit of egress output.
type SegmentKind string

const (
	SegmentDelta    SegmentKind = "delta"
	SegmentSnapshot SegmentKind = "snapshot"
	SegmentGap      SegmentKind = "gap"
)

// ControlMarkerType enumerates known control-plane markers. Unknown values
// are accepted and carried through verbatim (free-form string), since the
// source may add new marker types without a schema bump.
type ControlMarkerType string

const (
	ControlResize         ControlMarkerType = "resize"
	ControlPromptBoundary ControlMarkerType = "prompt_boundary"
)

// LifecyclePhase enumerates pane/capture lifecycle transitions.
type LifecyclePhase string

const (
	LifecycleCaptureStarted LifecyclePhase = "captureStarted"
	LifecyclePaneOpened     LifecyclePhase = "paneOpened"
	LifecyclePaneClosed     LifecyclePhase = "paneClosed"
	LifecycleCaptureStopped LifecyclePhase = "captureStopped"
)

// Payload is the tagged union of the four event variants. Exactly one
// constructor below should be used to build any given RecorderEvent's
// Payload; the zero value is not a valid payload.
type Payload struct {
	tag PayloadTag

	Ingress  *IngressText
	Egress   *EgressOutput
	Control  *ControlMarker
	Lifecycle *LifecycleMarker
}

// PayloadTag discriminates the Payload union.
type PayloadTag int

const (
	PayloadTagUnset PayloadTag = iota
	PayloadTagIngress
	PayloadTagEgress
	PayloadTagControl
	PayloadTagLifecycle
)

// IngressText carries typed/pasted input.
type IngressText struct {
	Text      string
	Encoding  string
	Redaction RedactionLevel
	Kind      IngressKind
}

// EgressOutput carries terminal output.
type EgressOutput struct {
	Text      string
	Encoding  string
	Redaction RedactionLevel
	Segment   SegmentKind
	IsGap     bool
}

// ControlMarker carries a control-plane event (resize, prompt boundary, ...).
type ControlMarker struct {
	Marker  ControlMarkerType
	Details map[string]any
}

// LifecycleMarker carries a pane/capture lifecycle transition.
type LifecycleMarker struct {
	Phase   LifecyclePhase
	Reason  string
	Details map[string]any
}

func NewIngressPayload(p IngressText) Payload {
	return Payload{tag: PayloadTagIngress, Ingress: &p}
}

func NewEgressPayload(p EgressOutput) Payload {
	return Payload{tag: PayloadTagEgress, Egress: &p}
}

func NewControlPayload(p ControlMarker) Payload {
	return Payload{tag: PayloadTagControl, Control: &p}
}

func NewLifecyclePayload(p LifecycleMarker) Payload {
	return Payload{tag: PayloadTagLifecycle, Lifecycle: &p}
}

// Tag reports which variant is populated.
func (p Payload) Tag() PayloadTag { return p.tag }

// StreamKind derives the stream domain per spec: Lifecycle=0, Control=1,
// Ingress=2, Egress=3.
func (p Payload) StreamKind() StreamKind {
	switch p.tag {
	case PayloadTagLifecycle:
		return StreamLifecycle
	case PayloadTagControl:
		return StreamControl
	case PayloadTagIngress:
		return StreamIngress
	case PayloadTagEgress:
		return StreamEgress
	default:
		return StreamLifecycle
	}
}

// TypeTag is the lowercase event_type tag used in documents and event ids.
func (p Payload) TypeTag() string {
	switch p.tag {
	case PayloadTagIngress:
		return "ingress_text"
	case PayloadTagEgress:
		return "egress_output"
	case PayloadTagControl:
		return "control_marker"
	case PayloadTagLifecycle:
		return "lifecycle_marker"
	default:
		return "unknown"
	}
}

// Text returns the textual content of the payload, or empty string for
// marker variants (whose content lives in Details, not Text).
func (p Payload) Text() string {
	switch p.tag {
	case PayloadTagIngress:
		return p.Ingress.Text
	case PayloadTagEgress:
		return p.Egress.Text
	default:
		return ""
	}
}

// IsGap reports the egress gap flag, or false for non-egress payloads.
func (p Payload) IsGap() bool {
	if p.tag == PayloadTagEgress {
		return p.Egress.IsGap
	}
	return false
}
