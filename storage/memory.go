package storage

import (
	"context"
	"sync"

	"campuslands/models"
)

// MemoryStore keeps campers in an append-only slice.
type MemoryStore struct {
	mu      sync.RWMutex
	campers []models.Camper
	lastID  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(_ context.Context) ([]models.Camper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Camper, 0, len(s.campers))
	for _, c := range s.campers {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.campers), nil
}

func (s *MemoryStore) Get(_ context.Context, id int) (*models.Camper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	c := s.campers[i].Clone()
	return &c, nil
}

func (s *MemoryStore) GetPending(ctx context.Context, id int) (*models.Camper, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.StatusPending {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) Insert(_ context.Context, c *models.Camper) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	c.ID = s.lastID
	c.Version = 1
	s.campers = append(s.campers, c.Clone())
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, c *models.Camper) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(c.ID)
	if i < 0 {
		return ErrNotFound
	}
	if s.campers[i].Version != c.Version {
		return ErrConflict
	}
	c.Version++
	s.campers[i] = c.Clone()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// index relies on ids being assigned in append order.
func (s *MemoryStore) index(id int) int {
	i := id - 1
	if i < 0 || i >= len(s.campers) || s.campers[i].ID != id {
		return -1
	}
	return i
}
