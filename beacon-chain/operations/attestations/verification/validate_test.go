package verification

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/go-bitfield"
	"github.com/stretchr/testify/require"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

type fixedClock primitives.Slot

func (c fixedClock) CurrentSlot() primitives.Slot { return primitives.Slot(c) }

type blockSet map[primitives.BlockRoot]bool

func (b blockSet) HasBlock(root primitives.BlockRoot) bool { return b[root] }

type stubSigVerifier struct{ err error }

func (s stubSigVerifier) Verify(context.Context, *primitives.Attestation) error { return s.err }

func singleBitAtt(slot primitives.Slot, root primitives.BlockRoot) *primitives.Attestation {
	bits := bitfield.NewBitlist(4)
	bits.SetBitAt(0, true)
	return &primitives.Attestation{
		Data:            primitives.AttestationData{Slot: slot, BeaconBlockRoot: root},
		AggregationBits: bits,
	}
}

func TestValidator_Validate_Accept(t *testing.T) {
	root := primitives.BlockRoot{1}
	v := NewValidator(fixedClock(10), blockSet{root: true}, stubSigVerifier{})
	out := v.Validate(context.Background(), singleBitAtt(10, root))
	require.Equal(t, Accept, out.Result)
}

func TestValidator_Validate_RejectsMultiBitIndividual(t *testing.T) {
	root := primitives.BlockRoot{1}
	bits := bitfield.NewBitlist(4)
	bits.SetBitAt(0, true)
	bits.SetBitAt(1, true)
	a := &primitives.Attestation{Data: primitives.AttestationData{Slot: 10, BeaconBlockRoot: root}, AggregationBits: bits}

	v := NewValidator(fixedClock(10), blockSet{root: true}, stubSigVerifier{})
	out := v.Validate(context.Background(), a)
	require.Equal(t, Reject, out.Result)
}

func TestValidator_Validate_FutureSlotIsSavedForFuture(t *testing.T) {
	root := primitives.BlockRoot{1}
	v := NewValidator(fixedClock(5), blockSet{root: true}, stubSigVerifier{})
	out := v.Validate(context.Background(), singleBitAtt(7, root))
	require.Equal(t, SaveForFuture, out.Result)
}

func TestValidator_Validate_UnknownBlockIsSavedForFuture(t *testing.T) {
	root := primitives.BlockRoot{1}
	v := NewValidator(fixedClock(10), blockSet{}, stubSigVerifier{})
	out := v.Validate(context.Background(), singleBitAtt(10, root))
	require.Equal(t, SaveForFuture, out.Result)
}

func TestValidator_Validate_OutsidePropagationRangeIsIgnored(t *testing.T) {
	root := primitives.BlockRoot{1}
	v := NewValidator(fixedClock(1000), blockSet{root: true}, stubSigVerifier{})
	out := v.Validate(context.Background(), singleBitAtt(1, root))
	require.Equal(t, Ignore, out.Result)
}

func TestValidator_Validate_DuplicateIsIgnored(t *testing.T) {
	root := primitives.BlockRoot{1}
	v := NewValidator(fixedClock(10), blockSet{root: true}, stubSigVerifier{})
	a := singleBitAtt(10, root)

	first := v.Validate(context.Background(), a)
	require.Equal(t, Accept, first.Result)

	second := v.Validate(context.Background(), a)
	require.Equal(t, Ignore, second.Result)
}
