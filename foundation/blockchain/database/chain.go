package database

import (
	"fmt"

	"github.com/ardanlabs/mycoin/foundation/validate"
)

// Chain is the {chain, length} pair a node reports for its blockchain.
type Chain struct {
	Blocks []Block `json:"chain"`
	Length int     `json:"length"`
}

// NewChain constructs the chain report for the specified blocks.
func NewChain(blocks []Block) Chain {
	return Chain{
		Blocks: blocks,
		Length: len(blocks),
	}
}

// =============================================================================

// TransactionData is the strict form of a transaction received from a peer.
// Pointers are used so a missing field can be told apart from a zero value.
type TransactionData struct {
	Amount   *float64 `json:"amount" validate:"required"`
	Receiver *string  `json:"receiver" validate:"required"`
	Sender   *string  `json:"sender" validate:"required"`
}

// BlockData is the strict form of a block received from a peer.
type BlockData struct {
	Index        *uint64           `json:"index" validate:"required"`
	PreviousHash *string           `json:"previous_hash" validate:"required"`
	Proof        *int64            `json:"proof" validate:"required"`
	Timestamp    *string           `json:"timestamp" validate:"required"`
	Transactions []TransactionData `json:"transactions" validate:"required,dive"`
}

// ChainData is the strict form of a chain report received from a peer.
type ChainData struct {
	Chain  []BlockData `json:"chain" validate:"required,min=1,dive"`
	Length *int        `json:"length" validate:"required"`
}

// ToChain checks every field of the chain report is present and that the
// reported length matches the number of blocks, then converts it into
// a set of blocks.
func ToChain(cd ChainData) ([]Block, error) {
	if err := validate.Check(cd); err != nil {
		return nil, fmt.Errorf("invalid chain payload: %w", err)
	}

	if *cd.Length != len(cd.Chain) {
		return nil, fmt.Errorf("invalid chain payload: length %d doesn't match %d blocks", *cd.Length, len(cd.Chain))
	}

	blocks := make([]Block, len(cd.Chain))
	for i, bd := range cd.Chain {
		trans := make([]Transaction, len(bd.Transactions))
		for j, td := range bd.Transactions {
			trans[j] = Transaction{
				Amount:   *td.Amount,
				Receiver: *td.Receiver,
				Sender:   *td.Sender,
			}
		}

		blocks[i] = Block{
			Index:        *bd.Index,
			PreviousHash: *bd.PreviousHash,
			Proof:        *bd.Proof,
			Timestamp:    *bd.Timestamp,
			Transactions: trans,
		}
	}

	return blocks, nil
}
