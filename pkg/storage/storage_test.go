package storage

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"frankenterm-core/pkg/recorder"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return logrus.NewEntry(l)
}

func newTestEvent(t *testing.T, paneID, seq, recordedAt uint64, text string) *recorder.RecorderEvent {
	t.Helper()
	e := &recorder.RecorderEvent{
		SchemaVersion: recorder.RecorderEventSchemaV1,
		PaneID:        paneID,
		Source:        recorder.SourceWeztermMux,
		OccurredAtMs:  recordedAt,
		RecordedAtMs:  recordedAt,
		Sequence:      seq,
		Payload: recorder.NewEgressPayload(recorder.EgressOutput{
			Text: text, Encoding: "utf-8", Redaction: recorder.RedactionNone, Segment: recorder.SegmentDelta,
		}),
	}
	e.EventID = recorder.GenerateEventIDV1(e)
	return e
}

func openTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	dir, err := os.MkdirTemp("", "ftcore-storage-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := NewStorage(Config{Dir: dir}, testLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Shutdown() })
	return s, dir
}

func TestAppendBatchIdempotentReplay(t *testing.T) {
	s, _ := openTestStorage(t)

	ev := newTestEvent(t, 1, 0, 1000, "hello")
	req := AppendBatchRequest{BatchID: "batch-1", Events: []*recorder.RecorderEvent{ev}}

	first, err := s.AppendBatch(req, true)
	require.NoError(t, err)
	require.False(t, first.Replayed)
	require.Len(t, first.LogOffsets, 1)

	second, err := s.AppendBatch(req, true)
	require.NoError(t, err)
	require.True(t, second.Replayed)
	require.Equal(t, first.LogOffsets, second.LogOffsets)

	events, _, err := s.ReadFrom(0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1, "replay must not duplicate the record in the log")
}

func TestAppendBatchRejectsOversizedBatch(t *testing.T) {
	dir, err := os.MkdirTemp("", "ftcore-storage-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := NewStorage(Config{Dir: dir, MaxBatchEvents: 2}, testLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Shutdown() })

	events := []*recorder.RecorderEvent{
		newTestEvent(t, 1, 0, 1000, "a"),
		newTestEvent(t, 1, 1, 1001, "b"),
		newTestEvent(t, 1, 2, 1002, "c"),
	}
	_, err = s.AppendBatch(AppendBatchRequest{BatchID: "too-big", Events: events}, true)
	require.ErrorIs(t, err, ErrBatchTooLarge)

	all, _, err := s.ReadFrom(0, 0)
	require.NoError(t, err)
	require.Len(t, all, 0, "a rejected batch must not write any partial records")
}

func TestAppendLogRecoversFromTruncatedRecord(t *testing.T) {
	dir, err := os.MkdirTemp("", "ftcore-storage-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := NewStorage(Config{Dir: dir}, testLogger(), nil)
	require.NoError(t, err)

	good := newTestEvent(t, 1, 0, 1000, "good record")
	_, err = s.AppendBatch(AppendBatchRequest{BatchID: "b1", Events: []*recorder.RecorderEvent{good}}, true)
	require.NoError(t, err)
	require.NoError(t, s.Shutdown())

	// Corrupt the tail: append a well-formed header claiming a payload that
	// never fully arrives, simulating a crash mid-write.
	f, err := os.OpenFile(logPath(dir), os.O_RDWR|os.O_APPEND, 0o644)
	require.NoError(t, err)
	corrupt := encodeRecord([]byte("this record will be truncated"))
	_, err = f.Write(corrupt[:len(corrupt)-5])
	require.NoError(t, err)
	require.NoError(t, f.Close())

	info, err := os.Stat(logPath(dir))
	require.NoError(t, err)
	sizeBeforeRecovery := info.Size()

	s2, err := NewStorage(Config{Dir: dir}, testLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s2.Shutdown() })

	info2, err := os.Stat(logPath(dir))
	require.NoError(t, err)
	require.Less(t, info2.Size(), sizeBeforeRecovery, "truncated tail record must be discarded on recovery")

	events, _, err := s2.ReadFrom(0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "good record", events[0].Payload.Text())
}

func TestCursorPersistsAcrossRestart(t *testing.T) {
	dir, err := os.MkdirTemp("", "ftcore-storage-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := NewStorage(Config{Dir: dir}, testLogger(), nil)
	require.NoError(t, err)

	require.NoError(t, s.CommitCursor("lexical-indexer", 128))
	require.NoError(t, s.Shutdown())

	s2, err := NewStorage(Config{Dir: dir}, testLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s2.Shutdown() })

	require.Equal(t, uint64(128), s2.Cursor("lexical-indexer"))
}

func TestUpsertPaneLastSeenMonotonic(t *testing.T) {
	s, _ := openTestStorage(t)

	p1 := s.UpsertPane(7, "shell", "/home", 100)
	require.Equal(t, uint64(100), p1.LastSeenAtMs)

	p2 := s.UpsertPane(7, "vim", "/home/proj", 50)
	require.Equal(t, "vim", p2.Title, "title still updates even with an older timestamp")
	require.Equal(t, uint64(100), p2.LastSeenAtMs, "last_seen_at never regresses")

	p3 := s.UpsertPane(7, "", "", 200)
	require.Equal(t, uint64(200), p3.LastSeenAtMs)
	require.Equal(t, "vim", p3.Title, "empty fields do not clear existing values")
}
