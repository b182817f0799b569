package pos

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// CartStore holds open register carts, keyed by cart id. Process-local only.
type CartStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[uuid.UUID]*Cart)}
}

// Open creates a new empty cart bound to a business.
func (s *CartStore) Open(businessID uuid.UUID) *Cart {
	cart := newCart(businessID)
	s.mu.Lock()
	s.carts[cart.ID] = cart
	s.mu.Unlock()
	return cart
}

// Get returns an open cart by id.
func (s *CartStore) Get(id uuid.UUID) (*Cart, error) {
	s.mu.RLock()
	cart, ok := s.carts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperr.NotFound("cart not found")
	}
	return cart, nil
}

// Close removes a cart from the store.
func (s *CartStore) Close(id uuid.UUID) {
	s.mu.Lock()
	delete(s.carts, id)
	s.mu.Unlock()
}
