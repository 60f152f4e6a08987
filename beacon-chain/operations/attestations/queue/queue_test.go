package queue

import (
	"testing"

	"github.com/prysmaticlabs/go-bitfield"
	"github.com/stretchr/testify/require"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

func newAtt(slot primitives.Slot, sigByte byte) *primitives.Attestation {
	a := &primitives.Attestation{
		Data:            primitives.AttestationData{Slot: slot},
		AggregationBits: bitfield.NewBitlist(4),
	}
	a.Signature[0] = sigByte
	return a
}

func TestPending_InsertContainsDrain(t *testing.T) {
	p := NewPending(8)
	root := primitives.BlockRoot{1}
	a := newAtt(5, 1)

	require.False(t, p.Contains(root, a))
	require.False(t, p.HasBucket(root))

	p.Insert(root, a)
	require.True(t, p.Contains(root, a))
	require.True(t, p.HasBucket(root))
	require.Equal(t, 1, p.Len())

	drained := p.Drain(root)
	require.Len(t, drained, 1)
	require.False(t, p.HasBucket(root))
	require.Equal(t, 0, p.Len())

	// Draining an absent root is a no-op, not a panic.
	require.Nil(t, p.Drain(root))
}

func TestPending_OverflowEvictsOldestBucket(t *testing.T) {
	p := NewPending(2)
	r1, r2, r3 := primitives.BlockRoot{1}, primitives.BlockRoot{2}, primitives.BlockRoot{3}
	p.Insert(r1, newAtt(1, 1))
	p.Insert(r2, newAtt(2, 1))
	p.Insert(r3, newAtt(3, 1))

	require.Equal(t, 2, p.Len())
	require.False(t, p.HasBucket(r1), "oldest bucket should have been evicted")
	require.True(t, p.HasBucket(r2))
	require.True(t, p.HasBucket(r3))
}

func TestFuture_PruneDrainsAtOrBeforeCurrent(t *testing.T) {
	f := NewFuture(8)
	require.True(t, f.Insert(newAtt(10, 1)))
	require.True(t, f.Insert(newAtt(11, 1)))
	require.True(t, f.Insert(newAtt(12, 1)))

	require.Empty(t, f.Prune(9))
	require.Equal(t, 3, f.Len())

	f.OnSlot(10)
	drained := f.Prune(10)
	require.Len(t, drained, 1)
	require.Equal(t, 2, f.Len())

	f.OnSlot(12)
	drained = f.Prune(12)
	require.Len(t, drained, 2)
	require.Equal(t, 0, f.Len())
}

func TestFuture_RejectsStaleInsertAfterWatermarkAdvances(t *testing.T) {
	f := NewFuture(8)
	f.OnSlot(20)
	require.False(t, f.Insert(newAtt(20, 1)), "inserting at the watermark must be rejected")
	require.False(t, f.Insert(newAtt(10, 1)), "inserting behind the watermark must be rejected")
	require.True(t, f.Insert(newAtt(21, 1)))
}

func TestDeferred_MergeCollapsesDuplicateValidatorVotes(t *testing.T) {
	d := NewDeferred(8)
	ia1 := &primitives.IndexedAttestation{AttestingIndices: []primitives.ValidatorIndex{1, 2}}
	ia2 := &primitives.IndexedAttestation{AttestingIndices: []primitives.ValidatorIndex{2, 3}}

	d.Insert(5, ia1)
	d.Insert(5, ia2)

	buckets := d.Prune(5)
	require.Len(t, buckets, 1)
	require.Equal(t, 3, buckets[0].Len(), "validator 2's duplicate vote should collapse into one entry")
}

func TestDeferred_PruneOnlyDrainsAtOrBeforeCurrent(t *testing.T) {
	d := NewDeferred(8)
	d.Insert(5, &primitives.IndexedAttestation{AttestingIndices: []primitives.ValidatorIndex{1}})
	d.Insert(6, &primitives.IndexedAttestation{AttestingIndices: []primitives.ValidatorIndex{2}})

	require.Empty(t, d.Prune(4))
	drained := d.Prune(5)
	require.Len(t, drained, 1)
	require.Equal(t, primitives.Slot(5), drained[0].Slot)
	require.Equal(t, 1, d.Len())
}
