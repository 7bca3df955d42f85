package cartstore

import (
	"sync"

	"github.com/lamanda20/ecommerce-backend/internal/domain"
)

// MemoryStore implements Store with in-memory storage. The registry map
// is guarded by its own lock; each cart carries a dedicated mutex so the
// find-then-mutate sequences are atomic per cart id.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*cartEntry // cartID -> entry
}

type cartEntry struct {
	mu    sync.Mutex
	items []domain.CartItem
}

// NewMemoryStore creates a new in-memory cart registry.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*cartEntry),
	}
}

// entry returns the cart for cartID, creating it empty on first reference.
func (s *MemoryStore) entry(cartID string) *cartEntry {
	s.mu.RLock()
	e, exists := s.carts[cartID]
	s.mu.RUnlock()
	if exists {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, exists = s.carts[cartID]; exists {
		return e
	}
	e = &cartEntry{}
	s.carts[cartID] = e
	return e
}

func (s *MemoryStore) Items(cartID string) []domain.CartItem {
	e := s.entry(cartID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.items)
}

func (s *MemoryStore) AddItem(cartID string, productID int64, variant *string, quantity int) []domain.CartItem {
	e := s.entry(cartID)
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].MatchesKey(productID, variant) {
			e.items[i].Quantity += quantity
			return snapshot(e.items)
		}
	}

	e.items = append(e.items, domain.CartItem{
		ProductID: productID,
		Variant:   variant,
		Quantity:  quantity,
	})
	return snapshot(e.items)
}

func (s *MemoryStore) RemoveItem(cartID string, productID int64, variant *string, quantity int) ([]domain.CartItem, error) {
	e := s.entry(cartID)
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i := range e.items {
		if e.items[i].MatchesKey(productID, variant) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrItemNotFound
	}

	if quantity <= 0 || e.items[idx].Quantity <= quantity {
		// Clamp-and-remove: quantity never goes below zero.
		e.items = append(e.items[:idx], e.items[idx+1:]...)
	} else {
		e.items[idx].Quantity -= quantity
	}
	return snapshot(e.items), nil
}

func (s *MemoryStore) Clear(cartID string) []domain.CartItem {
	e := s.entry(cartID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = nil
	return snapshot(e.items)
}

func snapshot(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
