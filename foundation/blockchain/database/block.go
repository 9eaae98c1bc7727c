package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/mycoin/foundation/blockchain/digest"
	"github.com/ardanlabs/mycoin/foundation/blockchain/pow"
)

// ErrInvalidChain is returned when a chain fails validation.
var ErrInvalidChain = errors.New("invalid chain")

// TimestampLayout is the fixed width UTC layout used for block timestamps.
// Because the width is fixed, timestamps order the same way as strings.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Genesis block values.
const (
	GenesisProof = 1
	GenesisIndex = 0
)

// =============================================================================

// Block represents a group of transactions batched together. The fields are
// declared in lexicographic order of their JSON names, which is the order
// used to compute the block hash.
type Block struct {
	Index        uint64        `json:"index"`
	PreviousHash string        `json:"previous_hash"`
	Proof        int64         `json:"proof"`
	Timestamp    string        `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
}

// NewGenesis constructs the fixed first block of a chain.
func NewGenesis(now time.Time) Block {
	return Block{
		Index:        GenesisIndex,
		PreviousHash: digest.ZeroHash,
		Proof:        GenesisProof,
		Timestamp:    Timestamp(now),
		Transactions: []Transaction{},
	}
}

// NewBlock constructs a block to follow the parent block at the specified
// index. The timestamp is never allowed to be earlier than the parent's.
func NewBlock(parent Block, index uint64, proof int64, previousHash string, trans []Transaction, now time.Time) Block {
	ts := Timestamp(now)
	if ts < parent.Timestamp {
		ts = parent.Timestamp
	}

	if trans == nil {
		trans = []Transaction{}
	}

	return Block{
		Index:        index,
		PreviousHash: previousHash,
		Proof:        proof,
		Timestamp:    ts,
		Transactions: trans,
	}
}

// Hash returns the unique hash for the block. An empty string is returned
// if the block can't be serialized.
func (b Block) Hash() string {

	// A nil and an empty transaction list must hash the same.
	if b.Transactions == nil {
		b.Transactions = []Transaction{}
	}

	hash, err := digest.Hash(b)
	if err != nil {
		return ""
	}

	return hash
}

// Timestamp formats the time using the block timestamp layout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// =============================================================================

// ValidateChain walks the chain from the second block on and checks that
// each block links to the hash of its parent and that its proof solves the
// puzzle against the parent's proof. The first violation is returned.
func ValidateChain(chain []Block) error {
	for i := 1; i < len(chain); i++ {
		parent := chain[i-1]
		block := chain[i]

		hash := parent.Hash()
		if hash == "" || block.PreviousHash != hash {
			return fmt.Errorf("%w: block[%d]: previous hash doesn't match parent, got %s, exp %s", ErrInvalidChain, i, block.PreviousHash, hash)
		}

		if !pow.Verify(block.Proof, parent.Proof) {
			return fmt.Errorf("%w: block[%d]: proof %d doesn't solve the puzzle for parent proof %d", ErrInvalidChain, i, block.Proof, parent.Proof)
		}
	}

	return nil
}

// IsChainValid reports whether the chain passes ValidateChain. A chain with
// only a genesis block is always valid.
func IsChainValid(chain []Block) bool {
	return ValidateChain(chain) == nil
}
