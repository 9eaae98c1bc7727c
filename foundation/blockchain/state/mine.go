package state

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/mycoin/foundation/blockchain/database"
)

// ErrChainChanged is returned when the chain was replaced while a block was
// being mined on top of the old tail.
var ErrChainChanged = errors.New("chain changed while mining")

// =============================================================================

// MineNewBlock solves the puzzle for the latest block and appends a new block
// holding every pending transaction. Only one mining run executes at a time.
// The search can be cancelled through the context, by Shutdown, or by a
// reconciliation that replaces the chain.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.miningMu.Lock()
	defer s.miningMu.Unlock()

	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Register the cancel function and capture the block to mine on.
	s.mu.Lock()
	s.cancelMining = cancel
	parent := s.db.LatestBlock()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.cancelMining = nil
		s.mu.Unlock()
	}()

	s.evHandler("state: MineNewBlock: MINING: perform POW: parent[%d]: prevProof[%d]", parent.Index, parent.Proof)

	previousHash := parent.Hash()

	proof, err := s.solver.Solve(ctx, parent.Proof)
	if err != nil {

		// A reconciliation that swapped the chain aborts the search.
		s.mu.RLock()
		changed := s.db.LatestBlock().Hash() != previousHash
		s.mu.RUnlock()

		if changed {
			s.evHandler("state: MineNewBlock: MINING: chain changed, search aborted")
			return database.Block{}, errors.Join(ErrChainChanged, err)
		}
		return database.Block{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The chain could have been replaced during the search.
	if s.db.LatestBlock().Hash() != previousHash {
		s.evHandler("state: MineNewBlock: MINING: chain changed, block discarded")
		return database.Block{}, ErrChainChanged
	}

	var extra []database.Transaction
	if s.miningReward > 0 && s.minerAccount != "" {
		reward, err := database.NewRewardTransaction(s.minerAccount, s.miningReward)
		if err != nil {
			return database.Block{}, err
		}
		extra = append(extra, reward)
	}

	block := s.createBlock(proof, previousHash, extra...)

	s.evHandler("state: MineNewBlock: MINING: new block[%d]: proof[%d]: trans[%d]", block.Index, block.Proof, len(block.Transactions))

	return block, nil
}

// CreateBlock appends a block with the specified proof and previous hash to
// the chain. Every pending transaction moves into the block and the mempool
// is left empty. The proof is not checked.
func (s *State) CreateBlock(proof int64, previousHash string) database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createBlock(proof, previousHash)
}

// createBlock performs the work of CreateBlock. The caller must hold the
// write lock. Extra transactions are placed after the pending ones.
func (s *State) createBlock(proof int64, previousHash string, extra ...database.Transaction) database.Block {
	trans := append(s.mempool.Drain(), extra...)

	parent := s.db.LatestBlock()
	block := database.NewBlock(parent, uint64(s.db.Length()), proof, previousHash, trans, time.Now())

	s.db.Write(block)

	return block
}
