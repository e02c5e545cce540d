package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/persistence"
)

// KVRepository keeps blobs in process memory.
type KVRepository struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewKVRepository() *KVRepository {
	return &KVRepository{data: make(map[string]string)}
}

// Get implements persistence.Repository.
func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	if !ok {
		return "", persistence.ErrNotFound
	}
	return v, nil
}

// Set implements persistence.Repository.
func (r *KVRepository) Set(ctx context.Context, key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
	return nil
}

// SetMany implements persistence.Repository.
func (r *KVRepository) SetMany(ctx context.Context, entries map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range entries {
		r.data[k] = v
	}
	return nil
}

// Delete implements persistence.Repository.
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}
