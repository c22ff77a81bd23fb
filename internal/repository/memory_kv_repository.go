package repository

import (
	"context"
	"sync"
)

// MemoryKVRepository keeps documents in process memory.
type MemoryKVRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKVRepository creates an empty MemoryKVRepository
func NewMemoryKVRepository() *MemoryKVRepository {
	return &MemoryKVRepository{data: make(map[string][]byte)}
}

func (r *MemoryKVRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (r *MemoryKVRepository) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	r.mu.Lock()
	r.data[key] = stored
	r.mu.Unlock()
	return nil
}

func (r *MemoryKVRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.data, key)
	r.mu.Unlock()
	return nil
}
