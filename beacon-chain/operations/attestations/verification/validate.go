package verification

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

var log = logrus.WithField("prefix", "attestation-verification")

// PropagationSlotRange bounds how far behind the current slot an
// attestation may be and still be processed, mirroring the teacher's
// ATTESTATION_PROPAGATION_SLOT_RANGE config constant. Attestations ahead
// of the current slot are saved for the future however far ahead they are.
const PropagationSlotRange = 32

// SignatureVerifier batches or performs BLS signature checks. It is
// satisfied by the sigverify Service; validators never verify a raw
// signature themselves, matching spec.md §4.B's "MAY batch signature
// verification through a long-running Signature Verification Service".
type SignatureVerifier interface {
	Verify(ctx context.Context, a *primitives.Attestation) error
}

// Clock reports the current local slot, the way the teacher derives it
// from genesis time and roughtime.Now().
type Clock interface {
	CurrentSlot() primitives.Slot
}

// BlockChecker reports whether a block root is known locally, used to
// translate an unknown target block into SAVE_FOR_FUTURE rather than a
// hard rejection.
type BlockChecker interface {
	HasBlock(root primitives.BlockRoot) bool
}

// Validator implements the individual-attestation entry point from
// spec.md §4.B.
type Validator struct {
	Clock   Clock
	Blocks  BlockChecker
	Sigs    SignatureVerifier
	seen    *lru.Cache
}

// NewValidator constructs a Validator with its own bounded seen-set,
// sized the same way the teacher bounds seenAttestationCache.
func NewValidator(clock Clock, blocks BlockChecker, sigs SignatureVerifier) *Validator {
	seen, err := lru.New(65536)
	if err != nil {
		panic(err)
	}
	return &Validator{Clock: clock, Blocks: blocks, Sigs: sigs, seen: seen}
}

// Validate applies the individual-attestation rule set: committee-index
// subnet correctness is the gossip layer's job (out of scope here); this
// validator enforces the rules that depend on local chain state --
// single-participant aggregation bits, propagation slot range, known
// target block, not-already-seen, and a valid signature.
func (v *Validator) Validate(ctx context.Context, a *primitives.Attestation) Outcome {
	ctx, span := trace.StartSpan(ctx, "verification.Validate")
	defer span.End()

	if a.AggregationBits == nil || a.AggregationBits.Count() != 1 {
		return reject("individual attestation must have exactly one participating validator")
	}

	if v.hasSeen(a) {
		return ignore()
	}

	current := v.Clock.CurrentSlot()
	slot := a.Data.Slot
	if slot > current {
		// Ahead of our clock: park it, the Future waiting area will
		// re-evaluate once onSlot catches up.
		return saveForFuture()
	}
	if current > slot+PropagationSlotRange {
		return ignore()
	}

	if !v.Blocks.HasBlock(a.Data.BeaconBlockRoot) {
		// Unknown target block: fork choice will report UNKNOWN_BLOCK
		// and the manager parks it in Pending. We still forward it
		// (SAVE_FOR_FUTURE means "do not re-gossip, but still apply"),
		// matching spec.md §4.D.
		return saveForFuture()
	}

	if err := v.Sigs.Verify(ctx, a); err != nil {
		return reject("invalid signature: " + err.Error())
	}

	v.markSeen(a)
	return accept()
}

func (v *Validator) seenKey(a *primitives.Attestation) string {
	b := make([]byte, 0, 16)
	b = append(b, byte(a.Data.Slot), byte(a.Data.Slot>>8))
	b = append(b, byte(a.Data.CommitteeIndex), byte(a.Data.CommitteeIndex>>8))
	b = append(b, a.AggregationBits...)
	return string(b)
}

func (v *Validator) hasSeen(a *primitives.Attestation) bool {
	_, ok := v.seen.Get(v.seenKey(a))
	return ok
}

func (v *Validator) markSeen(a *primitives.Attestation) {
	v.seen.Add(v.seenKey(a), true)
}
