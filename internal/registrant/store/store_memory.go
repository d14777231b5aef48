package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinicalgoto/internal/registrant"
)

// InMemoryStore keeps registrants in process memory. Used for development and
// tests; the mutex gives the same one-winner guarantee the postgres unique
// index provides.
type InMemoryStore struct {
	mu          sync.RWMutex
	registrants []*registrant.Registrant
	now         func() time.Time
}

// InMemoryOption configures an InMemoryStore.
type InMemoryOption func(*InMemoryStore)

// WithClock sets the clock function for testability.
func WithClock(now func() time.Time) InMemoryOption {
	return func(s *InMemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewInMemoryStore creates an empty in-memory registrant store.
func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *InMemoryStore) Insert(_ context.Context, reg *registrant.Registrant) (*registrant.Registrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.registrants {
		if existing.IsActive && existing.Email == reg.Email {
			return nil, ErrDuplicateEmail
		}
	}

	now := s.now().UTC()
	stored := *reg
	stored.ID = uuid.NewString()
	stored.RegisteredAt = now
	stored.UpdatedAt = now
	stored.IsActive = true
	s.registrants = append(s.registrants, &stored)

	out := stored
	return &out, nil
}

func (s *InMemoryStore) FindActiveByEmail(_ context.Context, email string) (*registrant.Registrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, reg := range s.registrants {
		if reg.IsActive && reg.Email == email {
			out := *reg
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) ListActive(_ context.Context) ([]*registrant.Registrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*registrant.Registrant, 0, len(s.registrants))
	for _, reg := range s.registrants {
		if reg.IsActive {
			cp := *reg
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegisteredAt.After(out[j].RegisteredAt)
	})
	return out, nil
}

func (s *InMemoryStore) Deactivate(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, reg := range s.registrants {
		if reg.IsActive && reg.Email == email {
			reg.IsActive = false
			reg.UpdatedAt = s.now().UTC()
			return nil
		}
	}
	return ErrNotFound
}

func (s *InMemoryStore) Stats(_ context.Context) (registrant.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().UTC().AddDate(0, 0, -RecentWindowDays)
	var stats registrant.Stats
	for _, reg := range s.registrants {
		if !reg.IsActive {
			continue
		}
		stats.Total++
		if reg.RegisteredAt.After(cutoff) {
			stats.Recent++
		}
		if reg.Consent {
			stats.Consented++
		}
	}
	return stats, nil
}
