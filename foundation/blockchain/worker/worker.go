// Package worker implements mining, peer discovery, and chain reconciliation
// for the blockchain.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/mycoin/foundation/blockchain/peer"
	"github.com/ardanlabs/mycoin/foundation/blockchain/state"
)

// DefaultInterval represents the interval of asking the known peers for
// their peers and reconciling the chain against them.
const DefaultInterval = time.Minute

// =============================================================================

// Worker manages the background workflows for the blockchain.
type Worker struct {
	state       *state.State
	client      *peer.Client
	wg          sync.WaitGroup
	shutOnce    sync.Once
	ticker      *time.Ticker
	shut        chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
	startMining chan bool
	reconcile   chan bool
	evHandler   state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes. A zero interval uses the
// DefaultInterval.
func Run(st *state.State, interval time.Duration, evHandler state.EventHandler) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}

	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:       st,
		client:      peer.NewClient(nil),
		ticker:      time.NewTicker(interval),
		shut:        make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
		startMining: make(chan bool, 1),
		reconcile:   make(chan bool, 1),
		evHandler:   evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.peerOperations,
		w.miningOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	// Bring this node in line with the network before any mining.
	w.SignalReconcile()

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work. Calls after the
// first one wait for the same shutdown to complete.
func (w *Worker) Shutdown() {
	w.shutOnce.Do(func() {
		w.evHandler("worker: shutdown: started")
		defer w.evHandler("worker: shutdown: completed")

		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()

		w.evHandler("worker: shutdown: cancel in flight work")
		w.cancel()

		w.evHandler("worker: shutdown: terminate goroutines")
		close(w.shut)
		w.wg.Wait()
	})
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
		w.evHandler("worker: SignalStartMining: mining signaled")
	default:
	}
}

// SignalReconcile starts a reconciliation with the known peers. If there is
// already a signal pending in the channel, just return.
func (w *Worker) SignalReconcile() {
	select {
	case w.reconcile <- true:
		w.evHandler("worker: SignalReconcile: reconcile signaled")
	default:
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
