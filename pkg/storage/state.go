package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// stateFile is the on-disk shape of state.json (spec.md §6):
// {consumers: {id -> offset}, idempotency_lru: [batch_id, ...], log_tail: u64}
type stateFile struct {
	Consumers       map[string]uint64 `json:"consumers"`
	IdempotencyLRU  []string          `json:"idempotency_lru"`
	LogTail         uint64            `json:"log_tail"`
}

// loadState reads state.json, returning a zero-value state if the file does
// not exist yet (a brand new storage directory).
func loadState(path string) (*stateFile, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &stateFile{Consumers: make(map[string]uint64)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read state.json: %w", err)
	}
	var s stateFile
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: state.json: %v", ErrCodecSchemaMismatch, err)
	}
	if s.Consumers == nil {
		s.Consumers = make(map[string]uint64)
	}
	return &s, nil
}

// saveState writes state.json atomically (temp file + rename), matching the
// atomic-write idiom the teacher uses for checkpoint files
// (pkg/positions/checkpoint_manager.go's CreateCheckpoint).
func saveState(path string, s *stateFile) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal state.json: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("storage: write state.json temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("storage: rename state.json: %w", err)
	}
	return nil
}

func statePath(dir string) string {
	return filepath.Join(dir, "state.json")
}

func logPath(dir string) string {
	return filepath.Join(dir, "events.log")
}
