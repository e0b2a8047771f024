// Package logging provides logrus helpers shared across the tree, chiefly
// ForEvent, which pre-populates an entry with the identity fields of a
// recorder event so every log line about that event is trivially
// correlatable.
package logging

import (
	"github.com/sirupsen/logrus"

	"frankenterm-core/pkg/recorder"
)

// ForEvent returns a *logrus.Entry carrying event_id, pane_id, stream_kind,
// and sequence fields derived from ev. Callers chain further WithField calls
// onto the result the way they would on logger.WithFields directly.
func ForEvent(logger *logrus.Logger, ev *recorder.RecorderEvent) *logrus.Entry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if ev == nil {
		return logrus.NewEntry(logger)
	}
	return logger.WithFields(logrus.Fields{
		"event_id":    ev.EventID,
		"pane_id":     ev.PaneID,
		"stream_kind": ev.StreamKind().String(),
		"sequence":    ev.Sequence,
	})
}

// WithEvent adds the same event-identity fields onto an existing entry,
// for call sites that already have component-scoped fields attached.
func WithEvent(entry *logrus.Entry, ev *recorder.RecorderEvent) *logrus.Entry {
	if entry == nil {
		entry = logrus.NewEntry(logrus.StandardLogger())
	}
	if ev == nil {
		return entry
	}
	return entry.WithFields(logrus.Fields{
		"event_id":    ev.EventID,
		"pane_id":     ev.PaneID,
		"stream_kind": ev.StreamKind().String(),
		"sequence":    ev.Sequence,
	})
}
