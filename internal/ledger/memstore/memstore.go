// Package memstore is an in-memory ledger store used in tests and as the
// default backend when no database path is configured.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"leasewarden/internal/ledger"
)

// Store keeps chains in memory, keyed by (namespace, agreement id).
type Store struct {
	mu     sync.RWMutex
	chains map[string][]ledger.Entry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{chains: make(map[string][]ledger.Entry)}
}

func key(namespace, id string) string {
	return namespace + "\x00" + id
}

// Head returns the highest-index entry, or nil for an empty chain.
func (s *Store) Head(_ context.Context, namespace, id string) (*ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chain := s.chains[key(namespace, id)]
	if len(chain) == 0 {
		return nil, nil
	}
	head := chain[len(chain)-1]
	return &head, nil
}

// Put appends an entry. An index that is not the next in sequence is
// rejected, which surfaces duplicate-index races instead of forking the chain.
func (s *Store) Put(_ context.Context, namespace, id string, e ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(namespace, id)
	chain := s.chains[k]
	if e.Index != len(chain) {
		return fmt.Errorf("memstore: index %d conflicts with chain length %d", e.Index, len(chain))
	}
	s.chains[k] = append(chain, e)
	return nil
}

// Entries returns a copy of the chain in ascending index order.
func (s *Store) Entries(_ context.Context, namespace, id string) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chain := s.chains[key(namespace, id)]
	out := make([]ledger.Entry, len(chain))
	copy(out, chain)
	return out, nil
}

// Tamper overwrites a stored entry in place. Only tests use it, to simulate
// out-of-band mutation of persisted records.
func (s *Store) Tamper(namespace, id string, index int, mutate func(*ledger.Entry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chain := s.chains[key(namespace, id)]
	if index < 0 || index >= len(chain) {
		return fmt.Errorf("memstore: no entry at index %d", index)
	}
	mutate(&chain[index])
	return nil
}
