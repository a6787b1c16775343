package consignment

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Consignment
}

// NewMemoryRepository constructs an in-memory repository for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Consignment)}
}

func (r *memoryRepository) Create(_ context.Context, c Consignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[c.ID] = c
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Consignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.storage[id]
	if !ok {
		return Consignment{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) List(_ context.Context, limit int) ([]Consignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Consignment, 0, len(r.storage))
	for _, c := range r.storage {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
