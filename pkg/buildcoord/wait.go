package buildcoord

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// AcquireWithWait retries TryAcquire until it succeeds or ctx is done. It
// watches the lock directory for the metadata sidecar's removal so it wakes
// promptly on release, falling back to pollInterval if the watcher can't be
// set up or nothing is observed within it.
func AcquireWithWait(ctx context.Context, projectRoot string, meta LockMetadata, pollInterval time.Duration, log *logrus.Entry) (*Lock, error) {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}

	dir := filepath.Join(projectRoot, LockDir)
	watcher, werr := fsnotify.NewWatcher()
	if werr == nil {
		defer watcher.Close()
		if err := watcher.Add(dir); err != nil {
			if log != nil {
				log.WithError(err).Debug("build lock watcher add failed, falling back to polling")
			}
		}
	}

	for {
		lock, err := TryAcquire(projectRoot, meta)
		if err == nil {
			return lock, nil
		}
		var held *ErrLockHeld
		if !asErrLockHeld(err, &held) {
			return nil, err
		}
		if log != nil {
			log.WithField("held_by_pid", held.Meta.PID).Debug("build lock busy, waiting")
		}

		timer := time.NewTimer(pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		case <-watcherEvents(watcher):
			timer.Stop()
		}
	}
}

func asErrLockHeld(err error, out **ErrLockHeld) bool {
	held, ok := err.(*ErrLockHeld)
	if !ok {
		return false
	}
	*out = held
	return true
}

func watcherEvents(w *fsnotify.Watcher) <-chan fsnotify.Event {
	if w == nil {
		return nil
	}
	return w.Events
}
