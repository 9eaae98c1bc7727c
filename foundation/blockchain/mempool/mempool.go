// Package mempool maintains the pool of pending transactions that have not
// been mined into a block.
package mempool

import (
	"sync"

	"github.com/ardanlabs/mycoin/foundation/blockchain/database"
)

// Mempool represents a cache of transactions kept in the order they were
// added.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Transaction
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the pool and returns the new count.
func (mp *Mempool) Add(tx database.Transaction) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns a copy of the transactions in insertion order.
func (mp *Mempool) Copy() []database.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Transaction, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// Drain returns every transaction in insertion order and leaves the pool
// empty as a single operation.
func (mp *Mempool) Drain() []database.Transaction {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	trans := mp.pool
	mp.pool = nil

	if trans == nil {
		trans = []database.Transaction{}
	}

	return trans
}
