package storage

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// writeJob is one AppendBatch request queued to the writer actor.
type writeJob struct {
	records  [][]byte
	sync     bool
	reply    chan writeResult
}

type writeResult struct {
	offsets []uint64
	err     error
}

// writerActor serializes all appends to a single appendLog through a bounded
// channel, the same single-goroutine-owns-the-resource shape the teacher
// uses for its buffered disk writer (pkg/buffer/disk_buffer.go). A full
// queue means the caller hit backpressure: AppendBatch either blocks or
// returns ErrBackpressureSaturation depending on the caller's choice.
type writerActor struct {
	queue chan writeJob
	done  chan struct{}
	log   *logrus.Entry
}

func newWriterActor(al *appendLog, queueCapacity int, log *logrus.Entry) *writerActor {
	if queueCapacity <= 0 {
		queueCapacity = 256
	}
	w := &writerActor{
		queue: make(chan writeJob, queueCapacity),
		done:  make(chan struct{}),
		log:   log,
	}
	go w.run(al)
	return w
}

func (w *writerActor) run(al *appendLog) {
	defer close(w.done)
	for job := range w.queue {
		offsets := make([]uint64, 0, len(job.records))
		var firstErr error
		for _, rec := range job.records {
			off, err := al.appendOne(rec)
			if err != nil {
				firstErr = err
				break
			}
			offsets = append(offsets, off)
		}
		if firstErr == nil && job.sync {
			if err := al.sync(); err != nil {
				firstErr = fmt.Errorf("storage: fsync: %w", err)
			}
		}
		job.reply <- writeResult{offsets: offsets, err: firstErr}
	}
}

// submit enqueues a job. If the queue is full and block is false, it returns
// ErrBackpressureSaturation immediately rather than waiting.
func (w *writerActor) submit(records [][]byte, requireSync bool, block bool) ([]uint64, error) {
	reply := make(chan writeResult, 1)
	job := writeJob{records: records, sync: requireSync, reply: reply}

	if block {
		w.queue <- job
	} else {
		select {
		case w.queue <- job:
		default:
			return nil, ErrBackpressureSaturation
		}
	}

	res := <-reply
	return res.offsets, res.err
}

func (w *writerActor) shutdown() {
	close(w.queue)
	<-w.done
}
