package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryBlobs keeps blobs in process memory. Saves do not survive a
// restart.
type MemoryBlobs struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{m: map[string][]byte{}}
}

func (b *MemoryBlobs) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (b *MemoryBlobs) Put(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[key] = slices.Clone(data)
	return nil
}
