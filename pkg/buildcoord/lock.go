// Package buildcoord implements the build-lock coordination described in
// spec.md §4.13: an advisory file lock on a project's build directory, with
// a JSON sidecar recording who holds it, so multiple panes/agents driving
// the same project don't race a build tool against itself.
package buildcoord

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// LockDir is the directory, relative to a project root, holding the lock
// file and its metadata sidecar.
const LockDir = ".ft/build"

const lockFileName = "cargo.lock"
const metaFileName = "cargo.lock.meta.json"

// LockMetadata is the sidecar JSON recorded alongside the advisory lock,
// identifying who holds it.
type LockMetadata struct {
	PID          int    `json:"pid"`
	BuildCommand string `json:"cargo_command"`
	ProjectRoot  string `json:"project_root"`
	StartedAt    int64  `json:"started_at"`
	FtVersion    string `json:"ft_version"`
	AgentName    string `json:"agent_name,omitempty"`
	PaneID       *uint64 `json:"pane_id,omitempty"`
	HolderID     string `json:"holder_id"`
}

// Lock holds an acquired advisory build lock. Release must be called to
// free it.
type Lock struct {
	file     *os.File
	lockPath string
	metaPath string
}

// ErrLockHeld is returned by TryAcquire when another holder currently owns
// the lock.
type ErrLockHeld struct {
	Meta LockMetadata
}

func (e *ErrLockHeld) Error() string {
	return fmt.Sprintf("build lock held by pid %d (%s) since %d", e.Meta.PID, e.Meta.BuildCommand, e.Meta.StartedAt)
}

// TryAcquire attempts to take the build lock for projectRoot without
// blocking. On success it writes meta, with PID, ProjectRoot, StartedAt and
// (when needed) HolderID filled in, to the metadata sidecar and returns a
// Lock; on failure it returns *ErrLockHeld with the current holder's
// metadata (best-effort; a missing or unreadable sidecar yields a
// zero-value LockMetadata).
func TryAcquire(projectRoot string, meta LockMetadata) (*Lock, error) {
	dir := filepath.Join(projectRoot, LockDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	lockPath := filepath.Join(dir, lockFileName)
	metaPath := filepath.Join(dir, metaFileName)

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		held := readMetadata(metaPath)
		return nil, &ErrLockHeld{Meta: held}
	}

	meta.PID = os.Getpid()
	meta.ProjectRoot = projectRoot
	if meta.StartedAt == 0 {
		meta.StartedAt = time.Now().Unix()
	}
	if meta.HolderID == "" && meta.AgentName == "" && meta.PaneID == nil {
		// No caller-supplied agent name or pane id to key off of; mint a
		// throwaway identity so two concurrent waiters can still tell
		// holders apart in logs.
		meta.HolderID = uuid.NewString()
	}
	if err := writeMetadata(metaPath, meta); err != nil {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
		return nil, fmt.Errorf("write lock metadata: %w", err)
	}

	return &Lock{file: f, lockPath: lockPath, metaPath: metaPath}, nil
}

// Release unlocks the advisory lock and removes the metadata sidecar. The
// lock file itself is left in place so the next TryAcquire can reuse its
// inode instead of racing a create.
func (l *Lock) Release() error {
	defer l.file.Close()
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("unlock: %w", err)
	}
	if err := os.Remove(l.metaPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock metadata: %w", err)
	}
	return nil
}

func readMetadata(path string) LockMetadata {
	raw, err := os.ReadFile(path)
	if err != nil {
		return LockMetadata{}
	}
	var m LockMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return LockMetadata{}
	}
	return m
}

func writeMetadata(path string, meta LockMetadata) error {
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
