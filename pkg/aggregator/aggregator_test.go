package aggregator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"frankenterm-core/pkg/recorder"
)

func mkEvent(paneID, seq, recordedAt uint64, text string) *recorder.RecorderEvent {
	e := &recorder.RecorderEvent{
		SchemaVersion: recorder.RecorderEventSchemaV1,
		PaneID:        paneID,
		Source:        recorder.SourceWeztermMux,
		OccurredAtMs:  recordedAt,
		RecordedAtMs:  recordedAt,
		Sequence:      seq,
		Payload:       recorder.NewIngressPayload(recorder.IngressText{Text: text, Kind: recorder.IngressKeystroke}),
	}
	e.EventID = recorder.GenerateEventIDV1(e)
	return e
}

func TestMergeOrdersByRecordedAtThenPaneThenSequence(t *testing.T) {
	a := NewSliceStream("agent-a", []*recorder.RecorderEvent{
		mkEvent(1, 0, 100, "a0"),
		mkEvent(1, 1, 300, "a1"),
	})
	b := NewSliceStream("agent-b", []*recorder.RecorderEvent{
		mkEvent(2, 0, 200, "b0"),
	})

	merged := Merge([]Stream{a, b}, nil)
	require.Len(t, merged, 3)
	require.Equal(t, "a0", merged[0].Event.Payload.Ingress.Text)
	require.Equal(t, "b0", merged[1].Event.Payload.Ingress.Text)
	require.Equal(t, "a1", merged[2].Event.Payload.Ingress.Text)
}

func TestMergeFillsMissingEventID(t *testing.T) {
	e := mkEvent(1, 0, 100, "x")
	e.EventID = ""
	s := NewSliceStream("agent-a", []*recorder.RecorderEvent{e})

	merged := Merge([]Stream{s}, nil)
	require.Len(t, merged, 1)
	require.NotEmpty(t, merged[0].Event.EventID)
}

func TestMergeHandlesEmptyStreams(t *testing.T) {
	merged := Merge(nil, nil)
	require.Empty(t, merged)

	s := NewSliceStream("agent-a", nil)
	merged = Merge([]Stream{s}, nil)
	require.Empty(t, merged)
}

func TestMergePreservesSenderIdentity(t *testing.T) {
	a := NewSliceStream("agent-a", []*recorder.RecorderEvent{mkEvent(1, 0, 100, "a0")})
	b := NewSliceStream("agent-b", []*recorder.RecorderEvent{mkEvent(2, 0, 50, "b0")})

	merged := Merge([]Stream{a, b}, nil)
	require.Equal(t, "agent-b", merged[0].SenderName)
	require.Equal(t, "agent-a", merged[1].SenderName)
}
