package public

import "github.com/ardanlabs/mycoin/foundation/blockchain/database"

// NewTx is the payload for adding a transaction to the mempool.
type NewTx struct {
	Sender   string   `json:"sender" validate:"required"`
	Receiver string   `json:"receiver" validate:"required"`
	Amount   *float64 `json:"amount" validate:"required"`
}

// NewNodes is the payload for connecting to other nodes.
type NewNodes struct {
	Nodes []string `json:"nodes" validate:"required,min=1"`
}

type txAdded struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

type nodesConnected struct {
	Message string   `json:"message"`
	Peers   []string `json:"peers"`
}

type valid struct {
	Valid bool `json:"valid"`
}

type reconciled struct {
	Replaced bool             `json:"replaced"`
	Source   string           `json:"source,omitempty"`
	Chain    []database.Block `json:"chain"`
	Length   int              `json:"length"`
}
