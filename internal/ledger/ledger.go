// Package ledger maintains an append-only, hash-chained record of audit
// outcomes per (namespace, agreement id) and verifies chain integrity on
// demand. The storage backend is an injected capability; the ledger itself
// only defines the chain semantics.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Genesis is the prev_hash sentinel for the first entry of every chain.
const Genesis = "GENESIS"

// Entry is one immutable link in a chain. ThisHash covers the canonical JSON
// of {index, timestamp, payload_hash, prev_hash}, so any alteration or
// reordering after the fact is detectable.
type Entry struct {
	Index       int             `json:"index"`
	Timestamp   string          `json:"timestamp"`
	Payload     json.RawMessage `json:"payload"`
	PayloadHash string          `json:"payload_hash"`
	PrevHash    string          `json:"prev_hash"`
	ThisHash    string          `json:"this_hash"`
}

// entryHeader is the hashed portion of an entry.
type entryHeader struct {
	Index       int    `json:"index"`
	Timestamp   string `json:"timestamp"`
	PayloadHash string `json:"payload_hash"`
	PrevHash    string `json:"prev_hash"`
}

// Store is the persistence capability the ledger depends on. Implementations
// must keep entries ordered by index per (namespace, id) and reject a Put for
// an index that already exists.
type Store interface {
	// Head returns the entry with the highest index, or nil for an empty chain.
	Head(ctx context.Context, namespace, id string) (*Entry, error)
	// Put persists a new entry. A duplicate index is an error.
	Put(ctx context.Context, namespace, id string, e Entry) error
	// Entries returns all entries in ascending index order.
	Entries(ctx context.Context, namespace, id string) ([]Entry, error)
}

// Ledger appends and verifies hash chains. Appends for the same
// (namespace, id) are serialized behind a per-key mutex, so two concurrent
// appends can never observe the same head and write the same index.
type Ledger struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// now is swappable for tests.
	now func() time.Time
}

// New creates a Ledger backed by the given store.
func New(store Store) *Ledger {
	return &Ledger{
		store: store,
		locks: make(map[string]*sync.Mutex),
		now:   time.Now,
	}
}

func (l *Ledger) keyLock(namespace, id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := namespace + "\x00" + id
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

// Append computes the payload hash, links the new entry to the current chain
// head, and persists it at head.index+1 (or index 0 with the GENESIS
// prev_hash on an empty chain).
func (l *Ledger) Append(ctx context.Context, namespace, id string, payload any) (Entry, error) {
	lock := l.keyLock(namespace, id)
	lock.Lock()
	defer lock.Unlock()

	head, err := l.store.Head(ctx, namespace, id)
	if err != nil {
		return Entry{}, fmt.Errorf("ledger: read head: %w", err)
	}

	index := 0
	prevHash := Genesis
	if head != nil {
		index = head.Index + 1
		prevHash = head.ThisHash
	}

	payloadJSON, err := Canonical(payload)
	if err != nil {
		return Entry{}, err
	}
	payloadHash := HashBytes(payloadJSON)

	header := entryHeader{
		Index:       index,
		Timestamp:   l.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		PayloadHash: payloadHash,
		PrevHash:    prevHash,
	}
	thisHash, err := HashValue(header)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Index:       index,
		Timestamp:   header.Timestamp,
		Payload:     payloadJSON,
		PayloadHash: payloadHash,
		PrevHash:    prevHash,
		ThisHash:    thisHash,
	}
	if err := l.store.Put(ctx, namespace, id, entry); err != nil {
		return Entry{}, fmt.Errorf("ledger: persist entry %d: %w", index, err)
	}
	return entry, nil
}

// Verify replays the chain in index order, recomputing every entry's hashes
// from its stored fields and checking each prev_hash link. It reports the
// first mismatch and never repairs anything. An empty chain verifies OK.
// Verify is read-only and tolerates a chain observed mid-append by simply
// checking the prefix it reads.
func (l *Ledger) Verify(ctx context.Context, namespace, id string) (bool, string) {
	entries, err := l.store.Entries(ctx, namespace, id)
	if err != nil {
		return false, fmt.Sprintf("read chain: %v", err)
	}
	if len(entries) == 0 {
		return true, "OK"
	}

	prevHash := Genesis
	prevIndex := -1
	for _, e := range entries {
		if e.Index != prevIndex+1 || e.PrevHash != prevHash {
			return false, fmt.Sprintf("Broken link at index %d", e.Index)
		}

		if len(e.Payload) > 0 {
			if HashBytes(e.Payload) != e.PayloadHash {
				return false, fmt.Sprintf("Hash mismatch at index %d", e.Index)
			}
		}

		want, err := HashValue(entryHeader{
			Index:       e.Index,
			Timestamp:   e.Timestamp,
			PayloadHash: e.PayloadHash,
			PrevHash:    e.PrevHash,
		})
		if err != nil {
			return false, fmt.Sprintf("rehash entry %d: %v", e.Index, err)
		}
		if want != e.ThisHash {
			return false, fmt.Sprintf("Hash mismatch at index %d", e.Index)
		}

		prevHash = e.ThisHash
		prevIndex = e.Index
	}
	return true, "OK"
}

// Tail returns the last n entries of a chain in index order.
func (l *Ledger) Tail(ctx context.Context, namespace, id string, n int) ([]Entry, error) {
	entries, err := l.store.Entries(ctx, namespace, id)
	if err != nil {
		return nil, fmt.Errorf("ledger: read chain: %w", err)
	}
	if n <= 0 || n >= len(entries) {
		return entries, nil
	}
	return entries[len(entries)-n:], nil
}
