package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// appendLog is the single physical events.log file: a sequence of
// length:u32|crc32:u32|payload records. It is opened once per Storage and
// all writes funnel through writerActor so offsets are assigned in a single
// total order.
type appendLog struct {
	mu   sync.Mutex
	file *os.File
	path string
	// tail is the byte offset of the next record to be written; it equals
	// the file size after a clean open/recovery.
	tail uint64
	log  *logrus.Entry
}

// openAppendLog opens (creating if absent) the log file at path and scans it
// for a crash-truncation point: the byte offset of the first record whose
// header/payload/CRC fails to validate cleanly. Anything beyond that offset
// is truncated away, since a partially-written record can never be trusted
// (spec.md §4.2 crash recovery). A log.log (pkg/buffer texture) of logrus
// fields records what happened.
func openAppendLog(path string, log *logrus.Entry) (*appendLog, uint64, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, 0, fmt.Errorf("storage: open %s: %w", path, err)
	}

	validTail, recovErr := scanValidTail(f)
	if recovErr != nil {
		f.Close()
		return nil, 0, recovErr
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	if info.Size() != validTail {
		log.WithFields(logrus.Fields{
			"file_size":  info.Size(),
			"valid_tail": validTail,
		}).Warn("storage: truncating append log to last valid record")
		if err := f.Truncate(validTail); err != nil {
			f.Close()
			return nil, 0, fmt.Errorf("storage: truncate %s: %w", path, err)
		}
	}

	if _, err := f.Seek(validTail, os.SEEK_SET); err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("storage: seek %s: %w", path, err)
	}

	return &appendLog{file: f, path: path, tail: uint64(validTail), log: log}, uint64(validTail), nil
}

// scanValidTail reads records from the start of f until it hits EOF (clean)
// or a truncated/corrupt record (crash), returning the byte offset just past
// the last fully valid record.
func scanValidTail(f *os.File) (int64, error) {
	if _, err := f.Seek(0, os.SEEK_SET); err != nil {
		return 0, fmt.Errorf("storage: seek: %w", err)
	}

	var offset int64
	for {
		payload, err := readRecord(f)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrCRCMismatch) || errors.Is(err, ErrTruncatedRecord) {
				return offset, nil
			}
			return 0, err
		}
		offset += int64(recordHeaderSize + len(payload))
	}
}

// appendOne writes one already-framed record to the file, returning the byte
// offset it was written at. Caller holds no lock; appendOne takes its own.
func (l *appendLog) appendOne(framed []byte) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	offset := l.tail
	n, err := l.file.WriteAt(framed, int64(offset))
	if err != nil {
		return 0, fmt.Errorf("storage: write append log: %w", err)
	}
	l.tail += uint64(n)
	return offset, nil
}

func (l *appendLog) sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Sync()
}

func (l *appendLog) close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// readAt opens an independent read handle positioned at byteOffset so
// concurrent cursor reads never contend with the writer's file descriptor
// offset.
func (l *appendLog) readAt(byteOffset uint64) (*os.File, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s for read: %w", l.path, err)
	}
	if _, err := f.Seek(int64(byteOffset), os.SEEK_SET); err != nil {
		f.Close()
		return nil, fmt.Errorf("storage: seek read handle: %w", err)
	}
	return f, nil
}
