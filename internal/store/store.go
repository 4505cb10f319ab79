// Package store implements the in-memory price matrix and its mutation
// surface. The matrix owns every brand record; queries read consistent
// deep-copied snapshots and mutations are atomic per brand.
package store

import (
	"fmt"
	"sync"

	"github.com/fairyhunter13/brand-price-service/internal/model"
)

// Store is the brand/category price matrix.
//
// Every mutation is stamped with a sequence number while the write lock is
// held, so the order of sequences matches the order mutations took effect.
// Callers hand that sequence to the persistence pipeline; the storage layer
// uses it to drop stale writes.
type Store struct {
	mu     sync.RWMutex
	byID   map[uint64]model.Brand
	order  []uint64 // insertion order of live ids
	nextID uint64
	seq    uint64
}

// New creates an empty Store.
func New() *Store {
	return &Store{byID: make(map[uint64]model.Brand)}
}

// Load seeds the matrix with pre-existing brands, keeping their ids and
// insertion order, and advances the id counter past the highest seen id.
// It returns the mutation sequence assigned to each loaded brand, keyed by
// brand id.
func (s *Store) Load(brands []model.Brand) map[uint64]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seqs := make(map[uint64]uint64, len(brands))
	for _, b := range brands {
		if _, ok := s.byID[b.ID]; ok {
			continue
		}
		s.byID[b.ID] = b.Clone()
		s.order = append(s.order, b.ID)
		if b.ID > s.nextID {
			s.nextID = b.ID
		}
		s.seq++
		seqs[b.ID] = s.seq
	}
	return seqs
}

// Create adds a brand with a fresh id and the given name and prices.
// A nil prices map yields an empty price list.
func (s *Store) Create(name string, prices map[model.CategoryID]int64) (model.Brand, uint64, error) {
	for _, p := range prices {
		if p < 0 {
			return model.Brand{}, 0, fmt.Errorf("%w: price must be >= 0", model.ErrInvalidPrice)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b := model.Brand{ID: s.nextID, Name: name, Prices: make(map[model.CategoryID]int64, len(prices))}
	for k, v := range prices {
		b.Prices[k] = v
	}
	s.byID[b.ID] = b
	s.order = append(s.order, b.ID)
	s.seq++
	return b.Clone(), s.seq, nil
}

// Get returns a copy of the brand with the given id.
func (s *Store) Get(id uint64) (model.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[id]
	if !ok {
		return model.Brand{}, fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}
	return b.Clone(), nil
}

// GetByName returns a copy of the first brand, in insertion order, with the
// given name. Duplicate names are legal; later duplicates are unreachable
// through this lookup.
func (s *Store) GetByName(name string) (model.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if b := s.byID[id]; b.Name == name {
			return b.Clone(), nil
		}
	}
	return model.Brand{}, fmt.Errorf("%w: name %q", model.ErrNotFound, name)
}

// List returns copies of all brands in insertion order.
func (s *Store) List() []model.Brand {
	return s.Snapshot()
}

// Snapshot returns a deep copy of the whole matrix in insertion order.
// Queries computed over a snapshot never observe later mutations.
func (s *Store) Snapshot() []model.Brand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Brand, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

// Rename changes a brand's name.
func (s *Store) Rename(id uint64, name string) (model.Brand, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return model.Brand{}, 0, fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}
	b.Name = name
	s.byID[id] = b
	s.seq++
	return b.Clone(), s.seq, nil
}

// Replace overwrites a brand's name and full price list in one step.
func (s *Store) Replace(id uint64, name string, prices map[model.CategoryID]int64) (model.Brand, uint64, error) {
	for _, p := range prices {
		if p < 0 {
			return model.Brand{}, 0, fmt.Errorf("%w: price must be >= 0", model.ErrInvalidPrice)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return model.Brand{}, 0, fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}
	b.Name = name
	b.Prices = make(map[model.CategoryID]int64, len(prices))
	for k, v := range prices {
		b.Prices[k] = v
	}
	s.byID[id] = b
	s.seq++
	return b.Clone(), s.seq, nil
}

// SetPrice sets one brand/category price, overwriting any prior value.
func (s *Store) SetPrice(id uint64, cat model.CategoryID, amount int64) (model.Brand, uint64, error) {
	if amount < 0 {
		return model.Brand{}, 0, fmt.Errorf("%w: price must be >= 0", model.ErrInvalidPrice)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return model.Brand{}, 0, fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}
	// Copy-on-write so snapshots handed out earlier stay untouched.
	prices := make(map[model.CategoryID]int64, len(b.Prices)+1)
	for k, v := range b.Prices {
		prices[k] = v
	}
	prices[cat] = amount
	b.Prices = prices
	s.byID[id] = b
	s.seq++
	return b.Clone(), s.seq, nil
}

// SetPriceByName resolves a brand by name, then sets the price as SetPrice.
func (s *Store) SetPriceByName(name string, cat model.CategoryID, amount int64) (model.Brand, uint64, error) {
	if amount < 0 {
		return model.Brand{}, 0, fmt.Errorf("%w: price must be >= 0", model.ErrInvalidPrice)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		b := s.byID[id]
		if b.Name != name {
			continue
		}
		prices := make(map[model.CategoryID]int64, len(b.Prices)+1)
		for k, v := range b.Prices {
			prices[k] = v
		}
		prices[cat] = amount
		b.Prices = prices
		s.byID[id] = b
		s.seq++
		return b.Clone(), s.seq, nil
	}
	return model.Brand{}, 0, fmt.Errorf("%w: name %q", model.ErrNotFound, name)
}

// Delete removes a brand. The id is never reused.
func (s *Store) Delete(id uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return 0, fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.seq++
	return s.seq, nil
}

// Len returns the number of live brands.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
