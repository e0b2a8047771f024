package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"frankenterm-core/pkg/recorder"
)

func mkEvent() *recorder.RecorderEvent {
	e := &recorder.RecorderEvent{
		SchemaVersion: recorder.RecorderEventSchemaV1,
		PaneID:        42,
		Source:        recorder.SourceWeztermMux,
		OccurredAtMs:  100,
		RecordedAtMs:  100,
		Sequence:      7,
		Payload:       recorder.NewIngressPayload(recorder.IngressText{Text: "hi", Kind: recorder.IngressKeystroke}),
	}
	e.EventID = recorder.GenerateEventIDV1(e)
	return e
}

func newTestLogger(buf *bytes.Buffer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}

func TestForEventPopulatesIdentityFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)
	ev := mkEvent()

	ForEvent(logger, ev).Info("appended")

	out := buf.String()
	require.Contains(t, out, ev.EventID)
	require.Contains(t, out, `"pane_id":42`)
	require.Contains(t, out, `"stream_kind":"ingress"`)
	require.Contains(t, out, `"sequence":7`)
}

func TestForEventNilEventReturnsBareEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	entry := ForEvent(logger, nil)
	require.NotNil(t, entry)
	entry.Info("no event")
	require.Contains(t, buf.String(), "no event")
}

func TestWithEventPreservesExistingFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)
	base := logger.WithField("component", "storage")
	ev := mkEvent()

	WithEvent(base, ev).Info("appended")

	out := buf.String()
	require.Contains(t, out, `"component":"storage"`)
	require.Contains(t, out, ev.EventID)
}

func TestForEventDefaultsToStandardLoggerWhenNil(t *testing.T) {
	ev := mkEvent()
	entry := ForEvent(nil, ev)
	require.NotNil(t, entry.Logger)
}
