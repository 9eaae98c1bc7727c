package worker

import (
	"context"

	"github.com/ardanlabs/mycoin/foundation/blockchain/peer"
)

// peerOperations handles finding new peers and reconciling the chain.
func (w *Worker) peerOperations() {
	w.evHandler("worker: peerOperations: G started")
	defer w.evHandler("worker: peerOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runPeersOperation()
				w.runReconcileOperation()
			}
		case <-w.reconcile:
			if !w.isShutdown() {
				w.runReconcileOperation()
			}
		case <-w.shut:
			w.evHandler("worker: peerOperations: received shut signal")
			return
		}
	}
}

// runPeersOperation asks every known peer for its status and adds the peers
// it knows about to this node's list. Peers that don't answer are removed.
func (w *Worker) runPeersOperation() {
	w.evHandler("worker: runPeersOperation: started")
	defer w.evHandler("worker: runPeersOperation: completed")

	for _, pr := range w.state.RetrieveKnownPeers() {
		ctx, cancel := context.WithTimeout(w.ctx, w.state.RetrievePeerTimeout())
		status, err := w.client.QueryStatus(ctx, pr)
		cancel()

		if err != nil {
			w.evHandler("worker: runPeersOperation: queryPeerStatus: %s: ERROR: %s", pr.Host, err)
			w.state.RemoveKnownPeer(pr)
			continue
		}

		w.addNewPeers(status.KnownPeers)
	}
}

// addNewPeers takes the list of known peers and makes sure they are included
// in the nodes list of know peers.
func (w *Worker) addNewPeers(knownPeers []peer.Peer) {
	for _, pr := range knownPeers {

		// Don't add this running node to the known peer list.
		if pr.Match(w.state.RetrieveHost()) {
			continue
		}

		if w.state.AddKnownPeer(pr) {
			w.evHandler("worker: runPeersOperation: addNewPeers: add peer nodes: adding peer-node %s", pr.Host)
		}
	}
}

// runReconcileOperation applies the longest chain rule against the known
// peers.
func (w *Worker) runReconcileOperation() {
	w.evHandler("worker: runReconcileOperation: started")
	defer w.evHandler("worker: runReconcileOperation: completed")

	res := w.state.Reconcile(w.ctx)

	for _, pr := range res.Failed {
		w.evHandler("worker: runReconcileOperation: peer[%s] unreachable", pr)
	}

	if res.Replaced {
		w.evHandler("worker: runReconcileOperation: chain replaced: peer[%s]: length[%d]", res.Source, len(res.Chain))

		// Pending transactions need mining on top of the new chain.
		if w.state.IsAutoMining() && w.state.QueryMempoolLength() > 0 {
			w.SignalStartMining()
		}
	}
}
