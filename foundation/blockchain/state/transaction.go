package state

import (
	"github.com/ardanlabs/mycoin/foundation/blockchain/database"
)

// AddTransaction adds a transaction to the mempool and returns the index of
// the block it will be mined into.
func (s *State) AddTransaction(sender string, receiver string, amount float64) (uint64, error) {
	tx, err := database.NewTransaction(sender, receiver, amount)
	if err != nil {
		return 0, err
	}

	// The read lock keeps a block from being created between adding the
	// transaction and reading the next index.
	s.mu.RLock()
	s.mempool.Add(tx)
	index := uint64(s.db.Length())
	s.mu.RUnlock()

	s.evHandler("state: AddTransaction: tx[%s]: block[%d]", tx, index)

	if s.autoMine && s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return index, nil
}

// RetrieveMempool returns a copy of the pending transactions.
func (s *State) RetrieveMempool() []database.Transaction {
	return s.mempool.Copy()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}
