// Package reconcile implements the longest chain rule used to bring a node
// in line with its peers.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/mycoin/foundation/blockchain/database"
	"github.com/ardanlabs/mycoin/foundation/blockchain/peer"
)

// DefaultPeerTimeout is the bound placed on a single peer fetch when no
// timeout is configured.
const DefaultPeerTimeout = 5 * time.Second

// Fetcher represents the capability to retrieve a peer's blockchain.
type Fetcher interface {
	FetchChain(ctx context.Context, pr peer.Peer) ([]database.Block, error)
}

// FetcherFunc allows a function to be used as a Fetcher.
type FetcherFunc func(ctx context.Context, pr peer.Peer) ([]database.Block, error)

// FetchChain implements the Fetcher interface.
func (f FetcherFunc) FetchChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	return f(ctx, pr)
}

// =============================================================================

// Config represents the configuration required to construct a Reconciler.
type Config struct {
	Fetcher        Fetcher
	PeerTimeout    time.Duration
	SkipValidation bool
	EvHandler      func(v string, args ...any)
}

// Result describes the outcome of a reconciliation.
type Result struct {
	Chain    []database.Block
	Replaced bool
	Source   peer.Peer
	Failed   []peer.Peer
	Rejected []peer.Peer
}

// Reconciler fetches chains from peers and selects the longest one.
type Reconciler struct {
	fetcher  Fetcher
	timeout  time.Duration
	validate bool
	ev       func(v string, args ...any)
}

// New constructs a Reconciler. Candidate chains are validated before they
// can be selected unless SkipValidation is set.
func New(cfg Config) (*Reconciler, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("a fetcher is required")
	}

	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	timeout := cfg.PeerTimeout
	if timeout <= 0 {
		timeout = DefaultPeerTimeout
	}

	r := Reconciler{
		fetcher:  cfg.Fetcher,
		timeout:  timeout,
		validate: !cfg.SkipValidation,
		ev:       ev,
	}

	return &r, nil
}

// Reconcile fetches the chain of every peer in parallel, each fetch bounded
// by the peer timeout, and selects the strictly longest chain among the local
// chain and the candidates. Ties keep the earliest seen chain, the local chain
// first and then the peers in the order given. Peers that fail to answer
// contribute nothing.
func (r *Reconciler) Reconcile(ctx context.Context, local []database.Block, peers []peer.Peer) Result {
	r.ev("reconcile: Reconcile: started: local-length[%d]: peers[%d]", len(local), len(peers))
	defer r.ev("reconcile: Reconcile: completed")

	type candidate struct {
		chain []database.Block
		err   error
	}

	candidates := make([]candidate, len(peers))

	var wg sync.WaitGroup
	wg.Add(len(peers))

	for i, pr := range peers {
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			// The fetch runs on its own G so a fetcher that ignores the
			// context can't hold up the reconciliation past the timeout.
			ch := make(chan candidate, 1)
			go func() {
				chain, err := r.fetcher.FetchChain(ctx, pr)
				ch <- candidate{chain: chain, err: err}
			}()

			select {
			case cnd := <-ch:
				candidates[i] = cnd
			case <-ctx.Done():
				candidates[i] = candidate{err: fmt.Errorf("fetch abandoned: %w", ctx.Err())}
			}
		}()
	}

	wg.Wait()

	res := Result{
		Chain: local,
	}

	for i, cnd := range candidates {
		pr := peers[i]

		if cnd.err != nil {
			r.ev("reconcile: Reconcile: peer[%s]: WARNING: %s", pr, cnd.err)
			res.Failed = append(res.Failed, pr)
			continue
		}

		r.ev("reconcile: Reconcile: peer[%s]: length[%d]", pr, len(cnd.chain))

		if len(cnd.chain) <= len(res.Chain) {
			continue
		}

		if r.validate {
			if err := database.ValidateChain(cnd.chain); err != nil {
				r.ev("reconcile: Reconcile: peer[%s]: REJECTED: %s", pr, err)
				res.Rejected = append(res.Rejected, pr)
				continue
			}
		}

		res.Chain = cnd.chain
		res.Replaced = true
		res.Source = pr
	}

	if res.Replaced {
		r.ev("reconcile: Reconcile: selected peer[%s]: length[%d]", res.Source, len(res.Chain))
	}

	return res
}
