package state

import (
	"fmt"

	"github.com/ardanlabs/mycoin/foundation/blockchain/peer"
)

// AddKnownPeer provides the ability to add a new peer.
func (s *State) AddKnownPeer(peer peer.Peer) bool {
	return s.knownPeers.Add(peer)
}

// RemoveKnownPeer provides the ability to remove a peer.
func (s *State) RemoveKnownPeer(peer peer.Peer) {
	s.knownPeers.Remove(peer)
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// ConnectNodes adds the network location of every address to the known
// peers. No address is added if any of them is invalid.
func (s *State) ConnectNodes(addresses []string) ([]peer.Peer, error) {
	peers := make([]peer.Peer, 0, len(addresses))
	for _, address := range addresses {
		pr, err := peer.Parse(address)
		if err != nil {
			return nil, fmt.Errorf("address %q: %w", address, err)
		}
		peers = append(peers, pr)
	}

	for _, pr := range peers {
		if s.knownPeers.Add(pr) {
			s.evHandler("state: ConnectNodes: add peer[%s]", pr)
		}
	}

	return s.RetrieveKnownPeers(), nil
}
