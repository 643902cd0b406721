package repository

import (
	"context"
	"sync"

	"harvestsync-service/internal/domain/repository"
)

// MemoryStoreRepository implements the KeyValueStore interface in memory.
// Used by the memory store driver and as a test double.
type MemoryStoreRepository struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStoreRepository creates an empty in-memory key/value store
func NewMemoryStoreRepository() *MemoryStoreRepository {
	return &MemoryStoreRepository{
		entries: make(map[string]string),
	}
}

var _ repository.KeyValueStore = (*MemoryStoreRepository)(nil)

// Get reads the value stored under key
func (r *MemoryStoreRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, found := r.entries[key]
	return value, found, nil
}

// Set writes value under key, replacing any previous value
func (r *MemoryStoreRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
	return nil
}

// Remove deletes the given keys; absent keys are not an error
func (r *MemoryStoreRepository) Remove(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		delete(r.entries, key)
	}
	return nil
}
