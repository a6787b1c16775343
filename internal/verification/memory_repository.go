package verification

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu   sync.RWMutex
	rows []PhoneVerification
}

// NewMemoryRepository builds an in-memory verification store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Insert(_ context.Context, v PhoneVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, v)
	return nil
}

func (r *memoryRepository) FindActive(_ context.Context, phone, code string, now time.Time) (PhoneVerification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.rows) - 1; i >= 0; i-- {
		v := r.rows[i]
		if v.Phone == phone && v.Code == code && v.ExpiresAt.After(now) {
			return v, nil
		}
	}
	return PhoneVerification{}, ErrNotFound
}

func (r *memoryRepository) MarkVerified(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID != id {
			continue
		}
		if r.rows[i].VerifiedAt == nil {
			stamp := at
			r.rows[i].VerifiedAt = &stamp
		}
		return nil
	}
	return ErrNotFound
}

func (r *memoryRepository) IsPhoneVerified(_ context.Context, phone string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.rows {
		if v.Phone == phone && v.VerifiedAt != nil {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) ListByPhone(_ context.Context, phone string) ([]PhoneVerification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []PhoneVerification
	for _, v := range r.rows {
		if v.Phone == phone {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
