package appointment

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Appointment
}

// NewMemoryRepository constructs an in-memory repository for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Appointment)}
}

func (r *memoryRepository) Create(_ context.Context, a Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[a.ID] = a
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.storage[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *memoryRepository) List(_ context.Context, limit int) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Appointment, 0, len(r.storage))
	for _, a := range r.storage {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PreferredAt.Before(out[j].PreferredAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
