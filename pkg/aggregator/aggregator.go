// Package aggregator interleaves per-sender event streams (e.g. one stream
// per collaborating agent or pane) into a single globally merge-ordered
// stream, using recorder.MergeKey as the total order. It is the upstream
// interface a downstream fanout gateway would consume; the gateway itself
// is out of scope (spec.md §1).
package aggregator

import (
	"container/heap"

	"github.com/sirupsen/logrus"

	"frankenterm-core/pkg/recorder"
)

// Envelope wraps a RecorderEvent with the sender identity that produced it.
type Envelope struct {
	SenderName string
	Event      *recorder.RecorderEvent
}

// heapItem pairs an Envelope with the stream index it came from, for the
// container/heap-based k-way merge below.
type heapItem struct {
	env       Envelope
	key       recorder.MergeKey
	streamIdx int
}

type itemHeap []heapItem

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return h[i].key.Less(h[j].key) }
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Stream is one named sender's ordered event source. Implementations must
// return events from Next in non-decreasing MergeKey order; the aggregator
// does not re-sort within a single stream.
type Stream interface {
	Name() string
	// Next returns the next event, or ok=false when the stream is
	// exhausted.
	Next() (env Envelope, ok bool)
}

// Merge performs a k-way merge of streams into a single slice ordered by
// recorder.MergeKey. Envelopes missing an EventID (e.g. a sender that
// doesn't compute one itself) have it derived via GenerateEventIDV1 so the
// merge key's final tiebreak field is never empty.
func Merge(streams []Stream, log *logrus.Entry) []Envelope {
	h := make(itemHeap, 0, len(streams))
	for idx, s := range streams {
		if env, ok := s.Next(); ok {
			fillEventID(&env)
			h = append(h, heapItem{env: env, key: recorder.MergeKeyFromEvent(env.Event), streamIdx: idx})
		}
	}
	heap.Init(&h)

	var out []Envelope
	for h.Len() > 0 {
		item := heap.Pop(&h).(heapItem)
		out = append(out, item.env)

		if next, ok := streams[item.streamIdx].Next(); ok {
			fillEventID(&next)
			heap.Push(&h, heapItem{env: next, key: recorder.MergeKeyFromEvent(next.Event), streamIdx: item.streamIdx})
		}
	}

	if log != nil {
		log.WithField("merged_count", len(out)).Debug("aggregator merge complete")
	}
	return out
}

func fillEventID(env *Envelope) {
	if env.Event.EventID == "" {
		env.Event.EventID = recorder.GenerateEventIDV1(env.Event)
	}
}

// SliceStream is a Stream backed by a pre-sorted in-memory slice, the
// common case for tests and for a sender whose events have already been
// buffered.
type SliceStream struct {
	name   string
	events []*recorder.RecorderEvent
	pos    int
}

func NewSliceStream(name string, events []*recorder.RecorderEvent) *SliceStream {
	return &SliceStream{name: name, events: events}
}

func (s *SliceStream) Name() string { return s.name }

func (s *SliceStream) Next() (Envelope, bool) {
	if s.pos >= len(s.events) {
		return Envelope{}, false
	}
	e := s.events[s.pos]
	s.pos++
	return Envelope{SenderName: s.name, Event: e}, true
}
