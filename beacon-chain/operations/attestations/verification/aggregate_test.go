package verification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

type stubAggregatorChecker struct {
	isAgg bool
	err   error
}

func (s stubAggregatorChecker) IsAggregator(primitives.Slot, uint64, [96]byte, primitives.ValidatorIndex) (bool, error) {
	return s.isAgg, s.err
}

func aggregateAtt(slot primitives.Slot, root primitives.BlockRoot) *primitives.Attestation {
	a := singleBitAtt(slot, root)
	a.Aggregate = true
	return a
}

func TestAggregateValidator_Validate_Accept(t *testing.T) {
	root := primitives.BlockRoot{2}
	v := NewAggregateValidator(fixedClock(10), blockSet{root: true}, stubSigVerifier{}, stubAggregatorChecker{isAgg: true})
	out := v.Validate(context.Background(), aggregateAtt(10, root), 7, [96]byte{})
	require.Equal(t, Accept, out.Result)
}

func TestAggregateValidator_Validate_RejectsNonAggregate(t *testing.T) {
	root := primitives.BlockRoot{2}
	v := NewAggregateValidator(fixedClock(10), blockSet{root: true}, stubSigVerifier{}, stubAggregatorChecker{isAgg: true})
	out := v.Validate(context.Background(), singleBitAtt(10, root), 7, [96]byte{})
	require.Equal(t, Reject, out.Result)
}

func TestAggregateValidator_Validate_RejectsWhenNotSelectedAggregator(t *testing.T) {
	root := primitives.BlockRoot{2}
	v := NewAggregateValidator(fixedClock(10), blockSet{root: true}, stubSigVerifier{}, stubAggregatorChecker{isAgg: false})
	out := v.Validate(context.Background(), aggregateAtt(10, root), 7, [96]byte{})
	require.Equal(t, Reject, out.Result)
}

func TestAggregateValidator_Validate_FutureSlotSavedForFuture(t *testing.T) {
	root := primitives.BlockRoot{2}
	v := NewAggregateValidator(fixedClock(5), blockSet{root: true}, stubSigVerifier{}, stubAggregatorChecker{isAgg: true})
	out := v.Validate(context.Background(), aggregateAtt(7, root), 7, [96]byte{})
	require.Equal(t, SaveForFuture, out.Result)
}

func TestAggregateValidator_Validate_UnknownBlockSavedForFuture(t *testing.T) {
	root := primitives.BlockRoot{2}
	v := NewAggregateValidator(fixedClock(10), blockSet{}, stubSigVerifier{}, stubAggregatorChecker{isAgg: true})
	out := v.Validate(context.Background(), aggregateAtt(10, root), 7, [96]byte{})
	require.Equal(t, SaveForFuture, out.Result)
}

func TestAggregateValidator_Validate_DuplicateIsIgnored(t *testing.T) {
	root := primitives.BlockRoot{2}
	v := NewAggregateValidator(fixedClock(10), blockSet{root: true}, stubSigVerifier{}, stubAggregatorChecker{isAgg: true})
	a := aggregateAtt(10, root)

	first := v.Validate(context.Background(), a, 7, [96]byte{})
	require.Equal(t, Accept, first.Result)

	second := v.Validate(context.Background(), a, 7, [96]byte{})
	require.Equal(t, Ignore, second.Result)
}
