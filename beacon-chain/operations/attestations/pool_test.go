package attestations

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

func TestAggregatingAttestationPool_SaveIsAppendOnly(t *testing.T) {
	p := NewAggregatingAttestationPool()
	a1 := &primitives.Attestation{Data: primitives.AttestationData{Slot: 3}}
	a2 := &primitives.Attestation{Data: primitives.AttestationData{Slot: 3}}

	p.Save(a1)
	p.Save(a2)

	require.Len(t, p.ForSlot(3), 2)
	require.Equal(t, 2, p.Len())
}

func TestAggregatingAttestationPool_TrimFinalized(t *testing.T) {
	p := NewAggregatingAttestationPool()
	p.Save(&primitives.Attestation{Data: primitives.AttestationData{Slot: 1}})
	p.Save(&primitives.Attestation{Data: primitives.AttestationData{Slot: 5}})
	p.Save(&primitives.Attestation{Data: primitives.AttestationData{Slot: 10}})

	p.TrimFinalized(5)

	require.Empty(t, p.ForSlot(1))
	require.Empty(t, p.ForSlot(5))
	require.Len(t, p.ForSlot(10), 1)
	require.Equal(t, 1, p.Len())
}
