package nonce

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type memoryEntry struct {
	state     string
	expiresAt time.Time
}

// MemoryStore is an in-process Store for single-instance deployments and the CLI
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// Compile-time interface compliance check
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory store with the given TTL
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Reserve reserves nonce for recipient unless a live entry exists
func (s *MemoryStore) Reserve(_ context.Context, recipient common.Address, nonce *uint256.Int) error {
	if nonce == nil {
		return ErrNilNonce
	}
	key := buildKey(recipient, nonce)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if entry, ok := s.entries[key]; ok && now.Before(entry.expiresAt) {
		return ErrNonceAlreadyUsed
	}
	s.entries[key] = memoryEntry{state: stateReserved, expiresAt: now.Add(s.ttl)}
	return nil
}

// MarkUsed marks nonce as issued and refreshes its TTL
func (s *MemoryStore) MarkUsed(_ context.Context, recipient common.Address, nonce *uint256.Int) error {
	if nonce == nil {
		return ErrNilNonce
	}
	key := buildKey(recipient, nonce)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{state: stateUsed, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Release drops any entry for nonce
func (s *MemoryStore) Release(_ context.Context, recipient common.Address, nonce *uint256.Int) error {
	if nonce == nil {
		return ErrNilNonce
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, buildKey(recipient, nonce))
	return nil
}
