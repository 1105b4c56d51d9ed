package session

import (
	"sync"
	"time"
)

// Well-known keys carried between storefront steps. The store is a
// best-effort cache, never a source of truth: losing an entry degrades the
// confirmation experience but must not corrupt booking or payment state.
const (
	KeyPaymentReference      = "paymentReference"
	KeyPendingTicketPurchase = "pendingTicketPurchase"
	KeyCompletedPaymentData  = "completedPaymentData"
)

// Store is a small key-value session store with TTL and clear semantics.
// It replaces ambient browser storage so lifecycle is explicit and the
// store can be injected in tests.
type Store interface {
	Put(key, value string, ttl time.Duration)
	Get(key string) (string, bool)
	Delete(key string)
}

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a mutex-guarded in-memory Store with lazy expiry.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: map[string]entry{},
		now:     time.Now,
	}
}

// Put stores value under key. A ttl <= 0 means no expiry.
func (s *MemoryStore) Put(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	return e.value, true
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}
