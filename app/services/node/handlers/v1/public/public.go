// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/mycoin/business/sys/metrics"
	v1 "github.com/ardanlabs/mycoin/business/web/v1"
	"github.com/ardanlabs/mycoin/foundation/blockchain/database"
	"github.com/ardanlabs/mycoin/foundation/blockchain/state"
	"github.com/ardanlabs/mycoin/foundation/events"
	"github.com/ardanlabs/mycoin/foundation/validate"
	"github.com/ardanlabs/mycoin/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the blockchain.
	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting for events from the blockchain or ticker.
	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Mine solves the puzzle for the latest block and appends a new block
// holding the pending transactions.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MineNewBlock(ctx)
	if err != nil {
		if errors.Is(err, state.ErrChainChanged) {
			return v1.NewRequestError(err, http.StatusConflict)
		}
		return err
	}

	metrics.AddBlocksMined(ctx)

	h.Log.Infow("mine", "traceid", web.GetTraceID(ctx), "miner", h.State.RetrieveMinerAccount(), "index", block.Index, "proof", block.Proof, "trans", len(block.Transactions))

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Chain returns the full blockchain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, database.NewChain(h.State.RetrieveChain()), http.StatusOK)
}

// QueryBlock returns the block at the specified index.
func (h Handlers) QueryBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("invalid block index: %w", err), http.StatusBadRequest)
	}

	block, err := h.State.QueryBlock(index)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return v1.NewRequestError(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Valid reports whether the local blockchain is valid.
func (h Handlers) Valid(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, valid{Valid: h.State.IsChainValid()}, http.StatusOK)
}

// AddTransaction adds a new transaction to the mempool.
func (h Handlers) AddTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return decodeError(err)
	}

	index, err := h.State.AddTransaction(ntx.Sender, ntx.Receiver, *ntx.Amount)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	h.Log.Infow("add tran", "traceid", web.GetTraceID(ctx), "sender", ntx.Sender, "receiver", ntx.Receiver, "amount", *ntx.Amount)

	resp := txAdded{
		Message: "transaction will be added to block",
		Index:   index,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Mempool returns the set of pending transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}

// ConnectNodes adds the specified nodes to the known peers.
func (h Handlers) ConnectNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nn NewNodes
	if err := web.Decode(r, &nn); err != nil {
		return decodeError(err)
	}

	peers, err := h.State.ConnectNodes(nn.Nodes)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := nodesConnected{
		Message: "nodes have been added",
		Peers:   make([]string, len(peers)),
	}
	for i, pr := range peers {
		resp.Peers[i] = pr.Host
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Reconcile applies the longest chain rule against the known peers.
func (h Handlers) Reconcile(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	res := h.State.Reconcile(ctx)
	if res.Replaced {
		metrics.AddChainReplacements(ctx)
	}

	h.Log.Infow("reconcile", "traceid", web.GetTraceID(ctx), "replaced", res.Replaced, "source", res.Source.Host, "failed", len(res.Failed), "rejected", len(res.Rejected))

	resp := reconciled{
		Replaced: res.Replaced,
		Source:   res.Source.Host,
		Chain:    res.Chain,
		Length:   len(res.Chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// decodeError returns the error for a payload that could not be decoded.
// Validation failures are left for the error middleware to report field by
// field.
func decodeError(err error) error {
	if validate.IsFieldErrors(err) {
		return err
	}
	return v1.NewRequestError(err, http.StatusBadRequest)
}
