// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/mycoin/foundation/blockchain/database"
	"github.com/ardanlabs/mycoin/foundation/blockchain/mempool"
	"github.com/ardanlabs/mycoin/foundation/blockchain/peer"
	"github.com/ardanlabs/mycoin/foundation/blockchain/pow"
	"github.com/ardanlabs/mycoin/foundation/blockchain/reconcile"
)

// defaultSolverCacheSize is the number of puzzle answers remembered when
// no size is configured.
const defaultSolverCacheSize = 128

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the blockchain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining and peer reconciliation.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalReconcile()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	MinerAccount    database.AccountID
	MiningReward    float64
	AutoMine        bool
	Host            string
	KnownPeers      *peer.PeerSet
	Fetcher         reconcile.Fetcher
	PeerTimeout     time.Duration
	SkipValidation  bool
	SolverCacheSize int
	EvHandler       EventHandler
}

// State manages the blockchain and the pool of pending transactions.
type State struct {
	minerAccount database.AccountID
	miningReward float64
	autoMine     bool
	host         string
	peerTimeout  time.Duration
	evHandler    EventHandler

	// mu guards every operation that must see or change the chain and the
	// mempool together. miningMu serializes mining runs for their full
	// duration, including the puzzle search.
	mu           sync.RWMutex
	miningMu     sync.Mutex
	cancelMining context.CancelFunc

	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool
	db         *database.Database
	solver     *pow.Solver
	reconciler *reconcile.Reconciler

	Worker Worker
}

// New constructs a new blockchain holding only the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	// The peer client is the default way of fetching chains from peers.
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = peer.NewClient(nil)
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = reconcile.DefaultPeerTimeout
	}

	reconciler, err := reconcile.New(reconcile.Config{
		Fetcher:        fetcher,
		PeerTimeout:    peerTimeout,
		SkipValidation: cfg.SkipValidation,
		EvHandler:      ev,
	})
	if err != nil {
		return nil, err
	}

	size := cfg.SolverCacheSize
	if size <= 0 {
		size = defaultSolverCacheSize
	}

	solver, err := pow.NewSolver(size, ev)
	if err != nil {
		return nil, err
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		minerAccount: cfg.MinerAccount,
		miningReward: cfg.MiningReward,
		autoMine:     cfg.AutoMine,
		host:         cfg.Host,
		peerTimeout:  peerTimeout,
		evHandler:    ev,

		knownPeers: knownPeers,
		mempool:    mempool.New(),
		db:         database.New(database.NewGenesis(time.Now())),
		solver:     solver,
		reconciler: reconciler,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Abort any puzzle search in progress.
	s.mu.Lock()
	if s.cancelMining != nil {
		s.cancelMining()
	}
	s.mu.Unlock()

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
