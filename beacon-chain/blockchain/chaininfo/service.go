// Package chaininfo implements the Combined Chain Data Service, spec.md
// §4.F: a uniform read API composed from RecentChainData,
// HistoricalChainData, and the State Regenerator.
package chaininfo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/attestorlabs/beacon-node/beacon-chain/db/historical"
	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
	"github.com/attestorlabs/beacon-node/beacon-chain/state/stategen"
)

var log = logrus.WithField("prefix", "chaininfo")

var errPreStateUnavailable = errors.New("attestation pre-state unavailable")

// RecentChainData is the subset of recentdata.Store this service reads.
type RecentChainData interface {
	IsPreGenesis() bool
	IsPreForkChoice() bool
	BlockRootBySlot(slot primitives.Slot) (primitives.BlockRoot, bool)
	RetrieveSignedBlockByRoot(root primitives.BlockRoot) (*primitives.SignedBlock, bool)
	RetrieveStateInEffectAtSlot(slot primitives.Slot) (*primitives.State, bool)
	BlockInEffectAtSlot(slot primitives.Slot) (*primitives.SignedBlock, bool)
	GetBestState() (*primitives.State, bool)
	GetCurrentSlot() primitives.Slot
	FinalizedEpoch() primitives.Epoch
	LatestFinalizedBlockSlot() primitives.Slot
	AncestorRoots(startSlot, step primitives.Slot, count int) []primitives.BlockRoot
}

// Service composes the recent and historical stores with the
// regenerator into the read API described in spec.md §4.F.
type Service struct {
	Recent     RecentChainData
	Historical historical.Store
	Regen      *stategen.Regenerator
}

// New constructs a Service.
func New(recent RecentChainData, hist historical.Store, regen *stategen.Regenerator) *Service {
	return &Service{Recent: recent, Historical: hist, Regen: regen}
}

func (s *Service) preconditionsMet() bool {
	return !s.Recent.IsPreGenesis() && !s.Recent.IsPreForkChoice()
}

// BlockAtSlotExact returns the block proposed in that slot only.
func (s *Service) BlockAtSlotExact(ctx context.Context, slot primitives.Slot) (*primitives.SignedBlock, bool) {
	_, span := trace.StartSpan(ctx, "chaininfo.BlockAtSlotExact")
	defer span.End()

	if !s.preconditionsMet() {
		log.WithField("slot", slot).Trace("Query before genesis or first fork-choice tick")
		return nil, false
	}
	root, ok := s.Recent.BlockRootBySlot(slot)
	if !ok {
		return nil, false
	}
	return s.Recent.RetrieveSignedBlockByRoot(root)
}

// BlockInEffectAtSlot returns the block proposed in or most recently
// before slot, consulting the recent chain first and falling back to
// historical storage on miss.
func (s *Service) BlockInEffectAtSlot(ctx context.Context, slot primitives.Slot) (*primitives.SignedBlock, bool) {
	ctx, span := trace.StartSpan(ctx, "chaininfo.BlockInEffectAtSlot")
	defer span.End()

	if !s.preconditionsMet() {
		log.WithField("slot", slot).Trace("Query before genesis or first fork-choice tick")
		return nil, false
	}
	if b, ok := s.Recent.BlockInEffectAtSlot(slot); ok {
		return b, true
	}
	b, ok, err := s.Historical.LatestFinalizedBlockAtSlot(ctx, slot)
	if err != nil {
		log.WithError(err).Error("Historical latest-finalized-block-at-slot lookup failed")
		return nil, false
	}
	return b, ok
}

// BlockAndStateInEffectAtSlot returns the block in effect at slot,
// plus its block-root-keyed state.
func (s *Service) BlockAndStateInEffectAtSlot(ctx context.Context, slot primitives.Slot) (*primitives.SignedBlock, *primitives.State, bool) {
	ctx, span := trace.StartSpan(ctx, "chaininfo.BlockAndStateInEffectAtSlot")
	defer span.End()

	block, ok := s.BlockInEffectAtSlot(ctx, slot)
	if !ok {
		return nil, nil, false
	}
	if st, ok := s.Recent.RetrieveStateInEffectAtSlot(slot); ok {
		return block, st, true
	}
	st, ok, err := s.Historical.FinalizedStateByBlockRoot(ctx, block.Root)
	if err != nil || !ok {
		if err != nil {
			log.WithError(err).Error("Historical finalized-state-by-block-root lookup failed")
		}
		return nil, nil, false
	}
	return block, st, true
}

// StateAtSlotExact returns the state whose slot equals slot exactly,
// obtained by fetching the in-effect block's state and regenerating
// forward, per spec.md §4.F and invariant 5 in §8.
func (s *Service) StateAtSlotExact(ctx context.Context, slot primitives.Slot) (*primitives.State, bool) {
	ctx, span := trace.StartSpan(ctx, "chaininfo.StateAtSlotExact")
	defer span.End()

	_, preState, ok := s.BlockAndStateInEffectAtSlot(ctx, slot)
	if !ok {
		return nil, false
	}
	if preState.Slot == slot {
		return preState, true
	}
	regenerated, err := s.Regen.Regenerate(ctx, preState, slot, s.Recent.GetCurrentSlot())
	if err != nil {
		log.WithError(err).WithField("slot", slot).Error("State regeneration failed")
		return nil, false
	}
	return regenerated, true
}

// LatestStateAtSlot returns the latest known state at or before slot.
// Slots at or after the latest finalized block are looked up in the
// recent store first; earlier slots, and any recent-store miss (which
// covers finalization advancing concurrently), fall through to one
// historical finalized-state lookup.
func (s *Service) LatestStateAtSlot(ctx context.Context, slot primitives.Slot) (*primitives.State, bool) {
	ctx, span := trace.StartSpan(ctx, "chaininfo.LatestStateAtSlot")
	defer span.End()

	if !s.preconditionsMet() {
		log.WithField("slot", slot).Trace("Query before genesis or first fork-choice tick")
		return nil, false
	}
	if slot >= s.Recent.LatestFinalizedBlockSlot() {
		if st, ok := s.Recent.RetrieveStateInEffectAtSlot(slot); ok {
			return st, true
		}
	}
	st, ok, err := s.Historical.LatestFinalizedStateAtSlot(ctx, slot)
	if err != nil {
		log.WithError(err).Error("Historical latest-finalized-state-at-slot lookup failed")
		return nil, false
	}
	return st, ok
}

// StateByStateRoot resolves root to the state that produced it. It
// consults the historical slot-and-block-root index first; on a hit it
// returns the recent chain's state for that block if it holds one, else
// the state at that slot. On a miss it falls back to the historical
// finalized-slot index.
func (s *Service) StateByStateRoot(ctx context.Context, root primitives.StateRoot) (*primitives.State, bool) {
	ctx, span := trace.StartSpan(ctx, "chaininfo.StateByStateRoot")
	defer span.End()

	slot, blockRoot, ok, err := s.Historical.SlotAndBlockRootByStateRoot(ctx, root)
	if err != nil {
		log.WithError(err).Error("Historical slot-and-block-root-by-state-root lookup failed")
		return nil, false
	}
	if ok {
		if block, ok := s.Recent.RetrieveSignedBlockByRoot(blockRoot); ok {
			if st, ok := s.Recent.RetrieveStateInEffectAtSlot(block.Block.Slot); ok {
				return st, true
			}
		}
		return s.StateAtSlotExact(ctx, slot)
	}

	finalizedSlot, ok, err := s.Historical.FinalizedSlotByStateRoot(ctx, root)
	if err != nil {
		log.WithError(err).Error("Historical finalized-slot-by-state-root lookup failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return s.StateAtSlotExact(ctx, finalizedSlot)
}

// IsFinalized reports whether slot is at or before the finalized
// checkpoint's start slot.
func (s *Service) IsFinalized(slot primitives.Slot) bool {
	return s.Recent.FinalizedEpoch().StartSlot() >= slot
}

// AncestorRoots delegates to the recent chain's sampling walk.
func (s *Service) AncestorRoots(startSlot, step primitives.Slot, count int) []primitives.BlockRoot {
	return s.Recent.AncestorRoots(startSlot, step, count)
}

// AttestationPreState resolves the state an attestation should be
// validated and signed against: the state in effect at the slot the
// attestation votes from, satisfying iface.AttestationStateFetcher.
func (s *Service) AttestationPreState(ctx context.Context, a *primitives.Attestation) (*primitives.State, error) {
	_, st, ok := s.BlockAndStateInEffectAtSlot(ctx, a.Data.Slot)
	if !ok {
		return nil, errPreStateUnavailable
	}
	return st, nil
}
