// Package iface collects the in-process port interfaces the Attestation
// Manager depends on, the way the teacher keeps narrow "Fetcher"/"Info"
// interfaces in beacon-chain/blockchain/iface separate from concrete
// service implementations so tests can supply fakes.
package iface

import (
	"context"

	"github.com/attestorlabs/beacon-node/beacon-chain/blockchain/gateway"
	"github.com/attestorlabs/beacon-node/beacon-chain/operations/attestations/verification"
	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

// Pool is where accepted attestations land for block production,
// satisfied by attestations.AggregatingAttestationPool.
type Pool interface {
	Save(a *primitives.Attestation)
}

// IndividualValidator validates a single-participant attestation.
type IndividualValidator interface {
	Validate(ctx context.Context, a *primitives.Attestation) verification.Outcome
}

// AggregateValidator validates an aggregated attestation.
type AggregateValidator interface {
	Validate(ctx context.Context, a *primitives.Attestation, aggregatorIndex primitives.ValidatorIndex, selectionProof [96]byte) verification.Outcome
}

// ForkChoiceGateway is the subset of gateway.Gateway the manager calls.
type ForkChoiceGateway interface {
	OnAttestation(ctx context.Context, ia *primitives.IndexedAttestation, currentSlot primitives.Slot) gateway.Result
	ApplyIndexedAttestations(ctx context.Context, items []*primitives.IndexedAttestation, currentSlot primitives.Slot) []gateway.Result
	ApplyDeferredAttestations(ctx context.Context, batches []*primitives.DeferredVotes, currentSlot primitives.Slot) []gateway.Result
}

// ActiveValidatorChannel tracks validator liveness from attestation and
// block-import activity; out of scope for the pipeline's correctness but
// wired the way spec.md §6 names it as an out-edge.
type ActiveValidatorChannel interface {
	OnAttestation(a *primitives.Attestation)
	OnBlockImported(block *primitives.SignedBlock)
}

// CommitteeResolver expands an attestation's aggregation bits into the
// validator indices that contributed to it. This is the committee
// abstraction spec.md §1 places out of scope; the manager depends on it
// only to build the IndexedAttestation the gateway's batch-apply paths
// require.
type CommitteeResolver interface {
	AttestingIndices(a *primitives.Attestation) []primitives.ValidatorIndex
}

// Lifecycle is satisfied by any component the manager starts and stops
// as part of its own start()/stop(), per spec.md §6: the Signature
// Verification Service and the Fork-Choice Gateway both qualify.
type Lifecycle interface {
	Start()
	Stop() error
}
