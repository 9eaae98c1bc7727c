package state

import (
	"context"

	"github.com/ardanlabs/mycoin/foundation/blockchain/peer"
	"github.com/ardanlabs/mycoin/foundation/blockchain/reconcile"
)

// Reconcile applies the longest chain rule against the known peers. The local
// chain is replaced when a peer holds a valid chain that is longer than the
// local chain at the time of the swap. The mempool is left untouched.
func (s *State) Reconcile(ctx context.Context) reconcile.Result {
	s.evHandler("state: Reconcile: started")
	defer s.evHandler("state: Reconcile: completed")

	// Peers are asked without holding the lock so mining and new
	// transactions are not held up by slow peers.
	local := s.RetrieveChain()
	res := s.reconciler.Reconcile(ctx, local, s.RetrieveKnownPeers())
	if !res.Replaced {
		return res
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The local chain could have grown while the peers were asked.
	if len(res.Chain) <= s.db.Length() {
		s.evHandler("state: Reconcile: local chain grew to length[%d], keeping it", s.db.Length())

		res.Chain = s.db.Copy()
		res.Replaced = false
		res.Source = peer.Peer{}
		return res
	}

	// Any block being mined now sits on top of a block that is going away.
	if s.cancelMining != nil {
		s.evHandler("state: Reconcile: cancel mining")
		s.cancelMining()
	}

	if err := s.db.Replace(res.Chain); err != nil {
		s.evHandler("state: Reconcile: ERROR: %s", err)

		res.Chain = s.db.Copy()
		res.Replaced = false
		res.Source = peer.Peer{}
		return res
	}

	s.evHandler("state: Reconcile: chain replaced by peer[%s]: length[%d]", res.Source, len(res.Chain))

	return res
}
