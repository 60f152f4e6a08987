package gateway

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/attestorlabs/beacon-node/beacon-chain/apperr"
	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

var log = logrus.WithField("prefix", "forkchoice-gateway")

var processedAttestations = promauto.NewCounter(prometheus.CounterOpts{
	Name: "forkchoice_gateway_processed_attestations_total",
	Help: "Number of attestations processed through the fork-choice gateway.",
})

// VoteStore is the minimal surface the gateway needs from the underlying
// fork-choice implementation, which spec.md §1 places out of scope ("only
// its inputs/outputs matter here").
type VoteStore interface {
	// HasBlock reports whether the store has imported the block with
	// this root, the precondition for applying a vote against it.
	HasBlock(root primitives.BlockRoot) bool
	// ProcessAttestation records ia's vote. A returned error matching
	// apperr.ErrDeferForkChoice asks the gateway to park the
	// attestation for one more tick; any other error marks it invalid.
	ProcessAttestation(ctx context.Context, a *primitives.IndexedAttestation) error
}

type task struct {
	fn   func()
}

// Gateway is the single writer to the fork-choice vote store, §4.C. All
// mutating calls are funneled through one goroutine reading off a task
// channel, the way the teacher serializes access to shared chain state
// through a single event loop rather than fine-grained locking.
type Gateway struct {
	store VoteStore
	tasks chan task
	quit  chan struct{}
	done  chan struct{}
}

// New constructs a Gateway. Call Start before the first onAttestation call.
func New(store VoteStore) *Gateway {
	return &Gateway{
		store: store,
		tasks: make(chan task, 1024),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start launches the serialization loop.
func (g *Gateway) Start() {
	go g.loop()
}

// Stop drains queued tasks and terminates the loop.
func (g *Gateway) Stop() error {
	close(g.quit)
	<-g.done
	return nil
}

func (g *Gateway) loop() {
	defer close(g.done)
	for {
		select {
		case t := <-g.tasks:
			t.fn()
		case <-g.quit:
			for {
				select {
				case t := <-g.tasks:
					t.fn()
				default:
					return
				}
			}
		}
	}
}

// submit runs fn on the gateway's single writer goroutine and blocks
// until it completes, giving callers a synchronous call shape over the
// underlying task-queue scheduling model from spec.md §5.
func (g *Gateway) submit(fn func()) {
	done := make(chan struct{})
	g.tasks <- task{fn: func() {
		fn()
		close(done)
	}}
	<-done
}

// OnAttestation is the gateway's primary entry point, §4.C.
func (g *Gateway) OnAttestation(ctx context.Context, ia *primitives.IndexedAttestation, currentSlot primitives.Slot) Result {
	ctx, span := trace.StartSpan(ctx, "gateway.OnAttestation")
	defer span.End()

	var result Result
	g.submit(func() {
		result = g.processOne(ctx, ia, currentSlot)
	})
	processedAttestations.Inc()
	return result
}

func (g *Gateway) processOne(ctx context.Context, ia *primitives.IndexedAttestation, currentSlot primitives.Slot) Result {
	if ia.Data.Slot > currentSlot {
		return savedForFuture()
	}
	if !g.store.HasBlock(ia.Data.BeaconBlockRoot) {
		return unknownBlock()
	}
	if err := g.store.ProcessAttestation(ctx, ia); err != nil {
		if errors.Is(err, apperr.ErrDeferForkChoice) {
			return deferForkChoiceProcessing()
		}
		return invalid(err.Error())
	}
	return successful()
}

// ApplyIndexedAttestations batch-applies a slice, used when draining the
// Future waiting area. Each is still evaluated against currentSlot and
// block availability individually, matching the per-item result shape
// callers already expect from OnAttestation.
func (g *Gateway) ApplyIndexedAttestations(ctx context.Context, items []*primitives.IndexedAttestation, currentSlot primitives.Slot) []Result {
	results := make([]Result, len(items))
	g.submit(func() {
		for i, ia := range items {
			results[i] = g.processOne(ctx, ia, currentSlot)
		}
	})
	processedAttestations.Add(float64(len(items)))
	return results
}

// ApplyDeferredAttestations batch-applies the merged per-validator votes
// drained from the Deferred waiting area.
func (g *Gateway) ApplyDeferredAttestations(ctx context.Context, batches []*primitives.DeferredVotes, currentSlot primitives.Slot) []Result {
	var results []Result
	g.submit(func() {
		for _, batch := range batches {
			for _, ia := range batch.Votes {
				results = append(results, g.processOne(ctx, ia, currentSlot))
			}
		}
	})
	processedAttestations.Add(float64(len(results)))
	return results
}
