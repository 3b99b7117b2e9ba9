package catalog

import (
	"context"
	"sync"
)

// MemStore keeps products in process memory, in insertion order.
type MemStore struct {
	mu    sync.RWMutex
	m     map[string]Product
	order []string
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]Product{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.m[id])
	}
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *MemStore) Create(ctx context.Context, p Product) (Product, error) {
	p.ID = newID()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[p.ID] = p
	s.order = append(s.order, p.ID)
	return p, nil
}

func (s *MemStore) Update(ctx context.Context, id string, p Product) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return Product{}, false, nil
	}
	p.ID = id
	s.m[id] = p
	return p, true, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return nil
	}
	delete(s.m, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
