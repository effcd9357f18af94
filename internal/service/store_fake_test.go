package service

import (
	"context"
	"sync"

	"laptop_catalog/internal/model"
	"laptop_catalog/internal/repository"
)

// memStore 内存商品存储
type memStore struct {
	mu       sync.Mutex
	products map[int64]*model.Product
	nextID   int64
	fetchErr error
	saveErr  error
	fetches  int
}

func newMemStore(products ...model.Product) *memStore {
	s := &memStore{products: map[int64]*model.Product{}}
	for i := range products {
		p := products[i]
		s.nextID++
		p.ID = s.nextID
		s.products[p.ID] = &p
	}
	return s
}

func (s *memStore) FetchAll(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := make([]model.Product, 0, len(s.products))
	for id := int64(1); id <= s.nextID; id++ {
		if p, ok := s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.nextID++
	cp := *p
	cp.ID = s.nextID
	s.products[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *memStore) Update(ctx context.Context, id int64, p *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if _, ok := s.products[id]; !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	cp.ID = id
	s.products[id] = &cp
	out := cp
	return &out, nil
}

func (s *memStore) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

var _ repository.ProductStore = (*memStore)(nil)
