package primitives

import (
	"github.com/prysmaticlabs/go-bitfield"
)

// Checkpoint is a (epoch, root) pair used for justification/finalization
// bookkeeping, mirroring ethpb.Checkpoint in the teacher's proto types.
type Checkpoint struct {
	Epoch Epoch
	Root  BlockRoot
}

// AttestationData is the payload a validator signs over: the slot and
// committee it attests from, and the source/target checkpoints plus the
// block root it votes for.
type AttestationData struct {
	Slot            Slot
	CommitteeIndex  uint64
	BeaconBlockRoot BlockRoot
	Source          Checkpoint
	Target          Checkpoint
}

// ValidatorIndex identifies a validator within the registry.
type ValidatorIndex uint64

// Attestation is the validateable form described in the data model: a vote
// by a committee (or a single validator pre-aggregation) for a block root,
// carrying the flags the manager needs to route it through the state
// machine in §4.D.
type Attestation struct {
	Data            AttestationData
	AggregationBits bitfield.Bitlist
	Signature       [96]byte

	// ProducedLocally is true when this node's own validator produced the
	// attestation, rather than receiving it over gossip.
	ProducedLocally bool
	// Gossiped is true once the attestation has been relayed to the
	// network; the manager sets this at most once per attestation.
	Gossiped bool
	// Aggregate is true for an aggregated attestation (processed by the
	// aggregate validator instead of the individual one).
	Aggregate bool
}

// Root is a cheap identity for dedup/seen-set purposes. It is not a
// SSZ/consensus hash tree root -- the spec only needs a stable key to
// short-circuit duplicate submissions and mark gossip state, so the first
// 32 bytes of the signature are used as the key, which avoids pulling in
// a full SSZ hasher for a component explicitly out of scope (spec.md §1).
func (a *Attestation) Root() BlockRoot {
	var r BlockRoot
	copy(r[:], a.Signature[:32])
	return r
}

// IndexedAttestation expands an Attestation's aggregation bits into the
// concrete validator indices that contributed to it, as built by the
// attestation manager (through its CommitteeResolver) before an
// attestation is handed to the fork-choice gateway.
type IndexedAttestation struct {
	AttestingIndices []ValidatorIndex
	Data             AttestationData
	Signature        [96]byte
}

// DeferredVotes is the per-slot bucket of indexed attestations parked by
// the Deferred waiting area, aggregated per validator index so duplicate
// votes for the same (slot, validator) collapse into one entry.
type DeferredVotes struct {
	Slot  Slot
	Votes map[ValidatorIndex]*IndexedAttestation
}

// NewDeferredVotes creates an empty bucket for the given slot.
func NewDeferredVotes(slot Slot) *DeferredVotes {
	return &DeferredVotes{Slot: slot, Votes: make(map[ValidatorIndex]*IndexedAttestation)}
}

// Merge folds ia's votes into the bucket, one entry per validator index,
// later votes overwriting earlier ones for the same validator -- this is
// the "per validator-index vote aggregation collapses duplicates" rule
// from spec.md §4.A.
func (d *DeferredVotes) Merge(ia *IndexedAttestation) {
	for _, idx := range ia.AttestingIndices {
		d.Votes[idx] = ia
	}
}

// Len reports how many distinct validator votes the bucket holds.
func (d *DeferredVotes) Len() int {
	return len(d.Votes)
}
