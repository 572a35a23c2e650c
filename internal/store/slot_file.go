package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/natefinch/atomic"
)

// fileSlotStore keeps all slots in one JSON object on disk. Every write
// replaces the file atomically, so a crash leaves either the old or the
// new content.
type fileSlotStore struct {
	path   string
	logger *logger.Logger

	mu sync.Mutex
}

// NewFileSlotStore returns a [SlotStore] persisted in the JSON file at path.
// The parent directory is created when missing.
func NewFileSlotStore(path string, log *logger.Logger) (SlotStore, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create slot store dir: %w", err)
		}
	}

	return &fileSlotStore{path: path, logger: log}, nil
}

func (f *fileSlotStore) GetSlot(_ context.Context, name string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.load()
	if err != nil {
		return "", false, err
	}

	v, ok := slots[name]
	return v, ok, nil
}

func (f *fileSlotStore) PutSlot(_ context.Context, name string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.load()
	if err != nil {
		f.logger.Warn().Err(err).
			Str("func", "fileSlotStore.PutSlot").
			Str("path", f.path).
			Msg("slot file unreadable, rewriting it")
		slots = make(map[string]string)
	}
	slots[name] = value

	payload, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("encode slot file: %w", err)
	}

	if err = atomic.WriteFile(f.path, bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("write slot file: %w", err)
	}
	// atomic.WriteFile keeps the permissions of a replaced file only
	if err = os.Chmod(f.path, 0o600); err != nil {
		return fmt.Errorf("chmod slot file: %w", err)
	}

	return nil
}

func (f *fileSlotStore) Close() error {
	return nil
}

func (f *fileSlotStore) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read slot file: %w", err)
	}

	slots := make(map[string]string)
	if err = json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("decode slot file: %w", err)
	}

	return slots, nil
}
