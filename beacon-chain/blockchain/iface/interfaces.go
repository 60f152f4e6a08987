// Package iface collects the read-side port interfaces spec.md §6 names
// for the combined chain data service, mirroring the teacher's
// beacon-chain/blockchain/iface split between narrow Fetcher interfaces
// and the concrete Service that implements all of them at once.
package iface

import (
	"context"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

// ChainInfoFetcher is the uniform read API over recent and historical
// blocks and states, satisfied by chaininfo.Service.
type ChainInfoFetcher interface {
	BlockAtSlotExact(ctx context.Context, slot primitives.Slot) (*primitives.SignedBlock, bool)
	BlockInEffectAtSlot(ctx context.Context, slot primitives.Slot) (*primitives.SignedBlock, bool)
	BlockAndStateInEffectAtSlot(ctx context.Context, slot primitives.Slot) (*primitives.SignedBlock, *primitives.State, bool)
	StateAtSlotExact(ctx context.Context, slot primitives.Slot) (*primitives.State, bool)
	LatestStateAtSlot(ctx context.Context, slot primitives.Slot) (*primitives.State, bool)
	StateByStateRoot(ctx context.Context, root primitives.StateRoot) (*primitives.State, bool)
	IsFinalized(slot primitives.Slot) bool
	AncestorRoots(startSlot, step primitives.Slot, count int) []primitives.BlockRoot
}

// ForkFetcher exposes the finalization bookkeeping callers need to
// decide whether a query can be served from memory.
type ForkFetcher interface {
	FinalizedEpoch() primitives.Epoch
	LatestFinalizedBlockSlot() primitives.Slot
}

// AttestationReceiver is the in-process surface the gossip/RPC layer
// (out of scope, spec.md §1) calls to submit individual and aggregate
// attestations into the pipeline.
type AttestationReceiver interface {
	AddAttestation(ctx context.Context, a *primitives.Attestation) error
	AddAggregate(ctx context.Context, a *primitives.Attestation, aggregatorIndex primitives.ValidatorIndex, selectionProof [96]byte) error
}

// AttestationStateFetcher resolves the pre-state an attestation should
// be validated and signed against, bridging the validator and the
// combined chain data service.
type AttestationStateFetcher interface {
	AttestationPreState(ctx context.Context, a *primitives.Attestation) (*primitives.State, error)
}
