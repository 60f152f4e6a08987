package verification

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"go.opencensus.io/trace"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

// AggregatorChecker reports whether validatorIndex was selected as the
// aggregator for (slot, committeeIndex), delegating to the validator
// abstraction the spec places out of scope for signature primitives but
// still requires for aggregator-selection proofs.
type AggregatorChecker interface {
	IsAggregator(slot primitives.Slot, committeeIndex uint64, proof [96]byte, aggregatorIndex primitives.ValidatorIndex) (bool, error)
}

// AggregateValidator implements the aggregate-attestation entry point
// from spec.md §4.B, grounded on the teacher's
// validateAggregateAndProof: same shape, same rule ordering (seen check,
// slot range, known block, aggregator selection, signature), translated
// into the spec's ACCEPT/SAVE_FOR_FUTURE/IGNORE/REJECT vocabulary instead
// of the gossip-specific pubsub.ValidationResult.
type AggregateValidator struct {
	Clock      Clock
	Blocks     BlockChecker
	Sigs       SignatureVerifier
	Aggregator AggregatorChecker
	seen       *lru.Cache
}

// NewAggregateValidator constructs an AggregateValidator with its own
// bounded seen-set.
func NewAggregateValidator(clock Clock, blocks BlockChecker, sigs SignatureVerifier, agg AggregatorChecker) *AggregateValidator {
	seen, err := lru.New(65536)
	if err != nil {
		panic(err)
	}
	return &AggregateValidator{Clock: clock, Blocks: blocks, Sigs: sigs, Aggregator: agg, seen: seen}
}

// Validate applies the aggregate-attestation rule set.
func (v *AggregateValidator) Validate(ctx context.Context, a *primitives.Attestation, aggregatorIndex primitives.ValidatorIndex, selectionProof [96]byte) Outcome {
	ctx, span := trace.StartSpan(ctx, "verification.AggregateValidate")
	defer span.End()

	if !a.Aggregate {
		return reject("attestation is not marked as an aggregate")
	}

	key := v.seenKey(a)
	if _, ok := v.seen.Get(key); ok {
		return ignore()
	}

	current := v.Clock.CurrentSlot()
	slot := a.Data.Slot
	if slot > current {
		return saveForFuture()
	}
	if current > slot+PropagationSlotRange {
		return ignore()
	}

	if !v.Blocks.HasBlock(a.Data.BeaconBlockRoot) {
		return saveForFuture()
	}

	isAgg, err := v.Aggregator.IsAggregator(slot, a.Data.CommitteeIndex, selectionProof, aggregatorIndex)
	if err != nil {
		return reject("could not validate aggregator selection: " + err.Error())
	}
	if !isAgg {
		return reject("validator is not the selected aggregator for this slot/committee")
	}

	if err := v.Sigs.Verify(ctx, a); err != nil {
		return reject("invalid signature: " + err.Error())
	}

	v.seen.Add(key, true)
	return accept()
}

func (v *AggregateValidator) seenKey(a *primitives.Attestation) string {
	b := make([]byte, 0, 8)
	b = append(b, byte(a.Data.Slot), byte(a.Data.Slot>>8))
	b = append(b, byte(a.Data.CommitteeIndex), byte(a.Data.CommitteeIndex>>8))
	return string(b)
}
