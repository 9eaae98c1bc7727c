package state

import (
	"time"

	"github.com/ardanlabs/mycoin/foundation/blockchain/database"
	"github.com/ardanlabs/mycoin/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveMinerAccount returns the account credited for mined blocks.
func (s *State) RetrieveMinerAccount() database.AccountID {
	return s.minerAccount
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.LatestBlock()
}

// RetrieveChain returns a copy of the full chain.
func (s *State) RetrieveChain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.Copy()
}

// QueryBlock returns the block at the specified index.
func (s *State) QueryBlock(index uint64) (database.Block, error) {
	return s.db.GetBlock(index)
}

// ValidateChain validates the local chain and reports the first violation.
func (s *State) ValidateChain() error {
	return database.ValidateChain(s.RetrieveChain())
}

// IsChainValid reports whether the local chain is valid.
func (s *State) IsChainValid() bool {
	return s.ValidateChain() == nil
}

// RetrieveStatus returns the status this node reports to its peers.
func (s *State) RetrieveStatus() peer.PeerStatus {
	s.mu.RLock()
	latest := s.db.LatestBlock()
	length := s.db.Length()
	s.mu.RUnlock()

	return peer.PeerStatus{
		LatestBlockHash:  latest.Hash(),
		LatestBlockIndex: latest.Index,
		Length:           length,
		KnownPeers:       s.RetrieveKnownPeers(),
	}
}

// RetrievePeerTimeout returns the bound placed on a single peer request.
func (s *State) RetrievePeerTimeout() time.Duration {
	return s.peerTimeout
}

// IsAutoMining reports whether pending transactions are mined as they arrive.
func (s *State) IsAutoMining() bool {
	return s.autoMine && s.Worker != nil
}
