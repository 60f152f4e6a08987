// Package attestations implements the Attestation Manager, spec.md §4.D:
// the orchestrator that validates, applies, and parks attestations, and
// the append-only aggregating pool attestations land in once accepted.
package attestations

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/attestorlabs/beacon-node/async/event"
	"github.com/attestorlabs/beacon-node/beacon-chain/blockchain/gateway"
	"github.com/attestorlabs/beacon-node/beacon-chain/operations/attestations/iface"
	"github.com/attestorlabs/beacon-node/beacon-chain/operations/attestations/queue"
	"github.com/attestorlabs/beacon-node/beacon-chain/operations/attestations/verification"
	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

var log = logrus.WithField("prefix", "attestation-manager")

// Config wires the manager to its collaborators. None of these hold a
// back-reference to the manager, matching spec.md §9's "back-references"
// design note.
type Config struct {
	Pool               iface.Pool
	Gateway            iface.ForkChoiceGateway
	Validator          iface.IndividualValidator
	AggregateValidator iface.AggregateValidator
	Committees         iface.CommitteeResolver
	ActiveValidators   iface.ActiveValidatorChannel
	// Lifecycles is started, in order, by Start, and stopped, in the
	// same order, by Stop -- callers should list the Signature
	// Verification Service before the Fork-Choice Gateway so shutdown
	// fails outstanding signature batches before the gateway closes,
	// per spec.md §5.
	Lifecycles []iface.Lifecycle
	// MaxWaitingBuckets bounds each of the three waiting areas.
	MaxWaitingBuckets int
}

// Service is the Attestation Manager. It exclusively owns the three
// waiting areas; nothing outside this type ever mutates them.
type Service struct {
	cfg *Config

	pending  *queue.Pending
	future   *queue.Future
	deferred *queue.Deferred

	mu          sync.RWMutex
	currentSlot primitives.Slot

	allValid *event.Feed[*primitives.Attestation]
	toSend   *event.Feed[*primitives.Attestation]
}

// NewService constructs a Service. Call Start before submitting
// attestations.
func NewService(cfg *Config) *Service {
	return &Service{
		cfg:      cfg,
		pending:  queue.NewPending(cfg.MaxWaitingBuckets),
		future:   queue.NewFuture(cfg.MaxWaitingBuckets),
		deferred: queue.NewDeferred(cfg.MaxWaitingBuckets),
		allValid: new(event.Feed[*primitives.Attestation]),
		toSend:   new(event.Feed[*primitives.Attestation]),
	}
}

// Start brings up every configured lifecycle, in order.
func (s *Service) Start() {
	for _, l := range s.cfg.Lifecycles {
		l.Start()
	}
}

// Stop tears down every configured lifecycle, in order, so the
// Signature Verification Service can fail its outstanding batches
// before the gateway that would otherwise still accept them closes.
func (s *Service) Stop() error {
	var firstErr error
	for _, l := range s.cfg.Lifecycles {
		if err := l.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SubscribeAllValidAttestations registers a subscriber for every
// attestation that survives validation and apply.
func (s *Service) SubscribeAllValidAttestations(bufLen int) *event.Subscription[*primitives.Attestation] {
	return s.allValid.Subscribe(bufLen)
}

// SubscribeAttestationsToSend registers a subscriber for locally
// produced attestations not yet gossiped.
func (s *Service) SubscribeAttestationsToSend(bufLen int) *event.Subscription[*primitives.Attestation] {
	return s.toSend.Subscribe(bufLen)
}

// CurrentSlot reports the manager's view of the current slot.
func (s *Service) CurrentSlot() primitives.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSlot
}

// AddAttestation is the individual-attestation submission entry point.
func (s *Service) AddAttestation(ctx context.Context, a *primitives.Attestation) error {
	ctx, span := trace.StartSpan(ctx, "attestations.AddAttestation")
	defer span.End()

	outcome := s.cfg.Validator.Validate(ctx, a)
	return s.handleValidationOutcome(ctx, a, outcome)
}

// AddAggregate is the aggregate-attestation submission entry point.
func (s *Service) AddAggregate(ctx context.Context, a *primitives.Attestation, aggregatorIndex primitives.ValidatorIndex, selectionProof [96]byte) error {
	ctx, span := trace.StartSpan(ctx, "attestations.AddAggregate")
	defer span.End()

	outcome := s.cfg.AggregateValidator.Validate(ctx, a, aggregatorIndex, selectionProof)
	return s.handleValidationOutcome(ctx, a, outcome)
}

func (s *Service) handleValidationOutcome(ctx context.Context, a *primitives.Attestation, outcome verification.Outcome) error {
	switch outcome.Result {
	case verification.Ignore:
		return nil
	case verification.Reject:
		return errors.Errorf("attestation rejected: %s", outcome.Reason)
	case verification.Accept, verification.SaveForFuture:
		s.onAttestation(ctx, a)
		return nil
	default:
		return errors.Errorf("unknown validation result %v", outcome.Result)
	}
}

// onAttestation applies a through the fork-choice gateway and routes the
// result, per the state machine in spec.md §4.D. Submissions already
// parked in Pending under the same root are short-circuited: the
// attestation stays parked and the call reports SAVED_FOR_FUTURE without
// touching the gateway, per spec.md §4.D's duplicate-suppression rule.
func (s *Service) onAttestation(ctx context.Context, a *primitives.Attestation) gateway.Result {
	root := a.Data.BeaconBlockRoot
	if s.pending.Contains(root, a) {
		return gateway.Result{Status: gateway.SavedForFuture}
	}

	ia := s.toIndexed(a)
	res := s.cfg.Gateway.OnAttestation(ctx, ia, s.CurrentSlot())
	s.route(a, ia, res)
	return res
}

func (s *Service) route(a *primitives.Attestation, ia *primitives.IndexedAttestation, res gateway.Result) {
	switch res.Status {
	case gateway.Successful:
		s.cfg.Pool.Save(a)
		s.notifyAccepted(a)
	case gateway.UnknownBlock:
		s.pending.Insert(a.Data.BeaconBlockRoot, a)
	case gateway.DeferForkChoiceProcessing:
		s.deferred.Insert(a.Data.Slot+1, ia)
		s.notifyAccepted(a)
	case gateway.SavedForFuture:
		s.future.Insert(a)
	case gateway.Invalid:
		log.WithField("reason", res.Reason).Debug("Fork choice rejected attestation")
	}
}

func (s *Service) notifyAccepted(a *primitives.Attestation) {
	if s.cfg.ActiveValidators != nil {
		s.cfg.ActiveValidators.OnAttestation(a)
	}
	s.allValid.Send(a)
	if a.ProducedLocally && !a.Gossiped {
		a.Gossiped = true
		s.toSend.Send(a)
	}
}

func (s *Service) toIndexed(a *primitives.Attestation) *primitives.IndexedAttestation {
	return &primitives.IndexedAttestation{
		AttestingIndices: s.cfg.Committees.AttestingIndices(a),
		Data:             a.Data,
		Signature:        a.Signature,
	}
}

// OnSlot is delivered once per slot boundary. It first drains Deferred,
// then Future, matching the ordering guarantee in spec.md §5: within a
// slot, applyDeferredAttestations precedes applyFutureAttestations.
func (s *Service) OnSlot(ctx context.Context, slot primitives.Slot) {
	ctx, span := trace.StartSpan(ctx, "attestations.OnSlot")
	defer span.End()

	s.mu.Lock()
	if slot > s.currentSlot {
		s.currentSlot = slot
	}
	s.mu.Unlock()

	s.drainDeferred(ctx, slot)
	s.drainFuture(ctx, slot)
}

func (s *Service) drainDeferred(ctx context.Context, slot primitives.Slot) {
	batches := s.deferred.Prune(slot)
	if len(batches) == 0 {
		return
	}
	s.cfg.Gateway.ApplyDeferredAttestations(ctx, batches, slot)
	for _, batch := range batches {
		for _, ia := range batch.Votes {
			s.allValid.Send(&primitives.Attestation{Data: ia.Data, Signature: ia.Signature})
		}
	}
}

func (s *Service) drainFuture(ctx context.Context, slot primitives.Slot) {
	s.future.OnSlot(slot)
	items := s.future.Prune(slot)
	if len(items) == 0 {
		return
	}

	indexed := make([]*primitives.IndexedAttestation, len(items))
	for i, a := range items {
		indexed[i] = s.toIndexed(a)
	}
	results := s.cfg.Gateway.ApplyIndexedAttestations(ctx, indexed, slot)

	for i, a := range items {
		s.route(a, indexed[i], results[i])
	}
}

// OnBlockImported drains every attestation parked in Pending under the
// newly imported block's root, resubmitting each through onAttestation
// (not AddAttestation -- validation already happened), satisfying
// invariant 4 from spec.md §8.
func (s *Service) OnBlockImported(ctx context.Context, block *primitives.SignedBlock) {
	ctx, span := trace.StartSpan(ctx, "attestations.OnBlockImported")
	defer span.End()

	if s.cfg.ActiveValidators != nil {
		s.cfg.ActiveValidators.OnBlockImported(block)
	}

	for _, a := range s.pending.Drain(block.Root) {
		s.onAttestation(ctx, a)
	}
}
