package recentdata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

func block(slot primitives.Slot, root byte) *primitives.SignedBlock {
	return &primitives.SignedBlock{
		Block: primitives.Block{Slot: slot},
		Root:  primitives.BlockRoot{root},
	}
}

func TestStore_LifecycleStartsPreGenesis(t *testing.T) {
	s := New()
	require.True(t, s.IsPreGenesis())
	require.True(t, s.IsPreForkChoice())

	s.SetGenesis(block(0, 1), &primitives.State{Slot: 0})
	require.False(t, s.IsPreGenesis())
	require.True(t, s.IsPreForkChoice())

	s.SetHead(primitives.BlockRoot{1}, 0)
	require.False(t, s.IsPreForkChoice())
}

func TestStore_BlockAtSlotExactVsInEffect(t *testing.T) {
	s := New()
	s.SetGenesis(block(0, 0), &primitives.State{Slot: 0})
	s.SaveBlock(block(10, 10), &primitives.State{Slot: 10})

	root, ok := s.BlockRootBySlot(11)
	require.False(t, ok)
	require.Equal(t, primitives.BlockRoot{}, root)

	b, ok := s.BlockInEffectAtSlot(11)
	require.True(t, ok)
	require.Equal(t, primitives.Slot(10), b.Block.Slot)
}

func TestStore_AncestorRootsWalksBackwardsByStep(t *testing.T) {
	s := New()
	s.SetGenesis(block(0, 0), nil)
	s.SaveBlock(block(4, 4), nil)
	s.SaveBlock(block(8, 8), nil)
	s.SaveBlock(block(12, 12), nil)

	roots := s.AncestorRoots(12, 4, 3)
	require.Equal(t, []primitives.BlockRoot{{12}, {8}, {4}}, roots)
}

func TestStore_AncestorRootsIsNonEmptyWhenAnyBlockExists(t *testing.T) {
	s := New()
	s.SetGenesis(block(0, 0), nil)

	roots := s.AncestorRoots(100, 32, 5)
	require.NotEmpty(t, roots)
	require.Equal(t, primitives.BlockRoot{0}, roots[0])
}
