package historical

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

func TestInMemoryStore_LatestFinalizedBlockAtSlotFallsBackToEarlier(t *testing.T) {
	s := NewInMemoryStore()
	s.SaveFinalized(&primitives.SignedBlock{Block: primitives.Block{Slot: 5}, Root: primitives.BlockRoot{5}}, &primitives.State{Slot: 5})

	block, ok, err := s.LatestFinalizedBlockAtSlot(context.Background(), 11)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, primitives.Slot(5), block.Block.Slot)

	_, ok, err = s.LatestFinalizedBlockAtSlot(context.Background(), 4)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInMemoryStore_StateRootRoundTrip(t *testing.T) {
	s := NewInMemoryStore()
	block := &primitives.SignedBlock{
		Block: primitives.Block{Slot: 5, StateRoot: primitives.StateRoot{9}},
		Root:  primitives.BlockRoot{5},
	}
	s.SaveFinalized(block, &primitives.State{Slot: 5})

	slot, root, ok, err := s.SlotAndBlockRootByStateRoot(context.Background(), primitives.StateRoot{9})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, primitives.Slot(5), slot)
	require.Equal(t, primitives.BlockRoot{5}, root)

	finalizedSlot, ok, err := s.FinalizedSlotByStateRoot(context.Background(), primitives.StateRoot{9})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, primitives.Slot(5), finalizedSlot)
}

func TestInMemoryStore_FinalizedStateByBlockRootMiss(t *testing.T) {
	s := NewInMemoryStore()
	_, ok, err := s.FinalizedStateByBlockRoot(context.Background(), primitives.BlockRoot{1})
	require.NoError(t, err)
	require.False(t, ok)
}
