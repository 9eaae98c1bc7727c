// Package database maintains the in memory blockchain and the data model
// for blocks and transactions.
package database

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a block does not exist in the chain.
var ErrNotFound = errors.New("block not found")

// Database manages the chain of blocks for the node. The chain only lives
// in memory and always holds at least the genesis block.
type Database struct {
	mu    sync.RWMutex
	chain []Block
}

// New constructs a database with a chain holding the genesis block.
func New(genesis Block) *Database {
	return &Database{
		chain: []Block{genesis},
	}
}

// Write appends a new block to the tail of the chain.
func (db *Database) Write(block Block) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.chain = append(db.chain, block)
}

// Replace swaps the entire chain for the specified one.
func (db *Database) Replace(chain []Block) error {
	if len(chain) == 0 {
		return errors.New("can't replace the chain with an empty chain")
	}

	cpy := make([]Block, len(chain))
	copy(cpy, chain)

	db.mu.Lock()
	defer db.mu.Unlock()

	db.chain = cpy

	return nil
}

// LatestBlock returns the tail of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.chain[len(db.chain)-1]
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.chain)
}

// Copy returns a copy of the chain.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	cpy := make([]Block, len(db.chain))
	copy(cpy, db.chain)

	return cpy
}

// GetBlock returns the block at the specified index.
func (db *Database) GetBlock(index uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if index >= uint64(len(db.chain)) {
		return Block{}, ErrNotFound
	}

	return db.chain[index], nil
}
