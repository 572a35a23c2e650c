package store

import (
	"context"
	"sync"
)

type memorySlotStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemorySlotStore returns a process-local [SlotStore]. Its content does
// not survive the process.
func NewMemorySlotStore() SlotStore {
	return &memorySlotStore{slots: make(map[string]string)}
}

func (m *memorySlotStore) GetSlot(_ context.Context, name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.slots[name]
	return v, ok, nil
}

func (m *memorySlotStore) PutSlot(_ context.Context, name string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[name] = value
	return nil
}

func (m *memorySlotStore) Close() error {
	return nil
}
