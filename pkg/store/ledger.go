package store

import "sync"

// DefaultLedgerLimit is the default global bound on each ledger. The bound is
// independent of any per-element or per-user limit.
const DefaultLedgerLimit = 10000

// Ledger is a concurrency-safe, globally bounded append-only log with FIFO
// eviction. It backs the engine's conflict and sync histories.
//
// A single mutex guards each ledger: appends are cheap (ring insert) and the
// two ledgers are independent of the keyed stores, so this does not serialize
// unrelated per-user or per-element updates.
type Ledger[T any] struct {
	mu  sync.RWMutex
	log *ring[T]
}

// NewLedger creates a ledger retaining at most limit entries.
//
// A non-positive limit falls back to DefaultLedgerLimit.
func NewLedger[T any](limit int) *Ledger[T] {
	if limit < 1 {
		limit = DefaultLedgerLimit
	}
	return &Ledger[T]{log: newRing[T](limit)}
}

// Append adds an entry, evicting the oldest when the ledger is full.
func (l *Ledger[T]) Append(entry T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.Append(entry)
}

// Snapshot returns the retained entries in append order, oldest first.
func (l *Ledger[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.log.Snapshot()
}

// Len returns the number of retained entries.
func (l *Ledger[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.log.Len()
}
