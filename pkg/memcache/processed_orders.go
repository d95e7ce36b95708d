// pkg/memcache/processed_orders.go
package memcache

import (
	"sync"
	"time"
)

// ProcessedOrderStore remembers order ids whose IPN was already
// acknowledged, so gateway retries can be answered without touching the
// database. The payment row remains the source of truth; a miss here only
// means the lookup falls through to the store.
type ProcessedOrderStore interface {
	Mark(orderID string, ttl time.Duration)
	Seen(orderID string) bool
}

type entry struct {
	expiresAt time.Time
}

type ProcessedOrders struct {
	mu   sync.RWMutex
	data map[string]entry
}

func NewProcessedOrders() *ProcessedOrders {
	return &ProcessedOrders{
		data: make(map[string]entry),
	}
}

func (s *ProcessedOrders) Mark(orderID string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[orderID] = entry{expiresAt: time.Now().Add(ttl)}
}

func (s *ProcessedOrders) Seen(orderID string) bool {
	s.mu.RLock()
	e, ok := s.data[orderID]
	s.mu.RUnlock()

	if !ok {
		return false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, orderID)
		s.mu.Unlock()
		return false
	}
	return true
}
