// Package historical implements HistoricalChainData, spec.md §3: a
// finalized-only store queried by block root, by slot (latest finalized
// at or before), and by state root. The real backing store is the raw
// block storage engine spec.md §1 places out of scope; this package
// provides the StorageQuery port plus an in-memory implementation
// sufficient for tests and for seeding from the out-of-scope database
// on catch-up.
package historical

import (
	"context"
	"sort"
	"sync"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

// Store is the StorageQuery port from spec.md §6. Every method returns
// an "eventually-available optional result" -- here realized as a
// synchronous (value, found, error) return, since the in-memory
// implementation has no disk I/O to suspend on; a disk-backed
// implementation of this same interface is where that suspension point
// actually lives.
type Store interface {
	BlockByBlockRoot(ctx context.Context, root primitives.BlockRoot) (*primitives.SignedBlock, bool, error)
	LatestFinalizedBlockAtSlot(ctx context.Context, slot primitives.Slot) (*primitives.SignedBlock, bool, error)
	FinalizedStateByBlockRoot(ctx context.Context, root primitives.BlockRoot) (*primitives.State, bool, error)
	LatestFinalizedStateAtSlot(ctx context.Context, slot primitives.Slot) (*primitives.State, bool, error)
	SlotAndBlockRootByStateRoot(ctx context.Context, root primitives.StateRoot) (primitives.Slot, primitives.BlockRoot, bool, error)
	FinalizedSlotByStateRoot(ctx context.Context, root primitives.StateRoot) (primitives.Slot, bool, error)
}

// InMemoryStore is a Store backed by plain maps, guarded by one mutex --
// the finalized store is read far more than written, but the simplicity
// of a single RWMutex outweighs the gain of finer-grained locking at
// this scale, matching how the teacher's lightweight test doubles for
// its database interfaces are built.
type InMemoryStore struct {
	mu sync.RWMutex

	blocksByRoot map[primitives.BlockRoot]*primitives.SignedBlock
	rootsBySlot  map[primitives.Slot]primitives.BlockRoot
	knownSlots   []primitives.Slot

	statesByRoot       map[primitives.BlockRoot]*primitives.State
	slotByStateRoot     map[primitives.StateRoot]primitives.Slot
	blockRootByStateRoot map[primitives.StateRoot]primitives.BlockRoot
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		blocksByRoot:         make(map[primitives.BlockRoot]*primitives.SignedBlock),
		rootsBySlot:          make(map[primitives.Slot]primitives.BlockRoot),
		statesByRoot:         make(map[primitives.BlockRoot]*primitives.State),
		slotByStateRoot:      make(map[primitives.StateRoot]primitives.Slot),
		blockRootByStateRoot: make(map[primitives.StateRoot]primitives.BlockRoot),
	}
}

// SaveFinalized records a finalized block and its post-state. Called as
// the recent chain's finalization boundary advances and entries age out
// of RecentChainData into this store.
func (s *InMemoryStore) SaveFinalized(block *primitives.SignedBlock, state *primitives.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blocksByRoot[block.Root]; !exists {
		idx := sort.Search(len(s.knownSlots), func(i int) bool { return s.knownSlots[i] >= block.Block.Slot })
		s.knownSlots = append(s.knownSlots, 0)
		copy(s.knownSlots[idx+1:], s.knownSlots[idx:])
		s.knownSlots[idx] = block.Block.Slot
	}
	s.blocksByRoot[block.Root] = block
	s.rootsBySlot[block.Block.Slot] = block.Root

	if state != nil {
		s.statesByRoot[block.Root] = state
		s.slotByStateRoot[block.Block.StateRoot] = state.Slot
		s.blockRootByStateRoot[block.Block.StateRoot] = block.Root
	}
}

func (s *InMemoryStore) BlockByBlockRoot(_ context.Context, root primitives.BlockRoot) (*primitives.SignedBlock, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blocksByRoot[root]
	return b, ok, nil
}

func (s *InMemoryStore) LatestFinalizedBlockAtSlot(_ context.Context, slot primitives.Slot) (*primitives.SignedBlock, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := sort.Search(len(s.knownSlots), func(i int) bool { return s.knownSlots[i] > slot })
	if idx == 0 {
		return nil, false, nil
	}
	root := s.rootsBySlot[s.knownSlots[idx-1]]
	return s.blocksByRoot[root], true, nil
}

func (s *InMemoryStore) FinalizedStateByBlockRoot(_ context.Context, root primitives.BlockRoot) (*primitives.State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statesByRoot[root]
	return st, ok, nil
}

func (s *InMemoryStore) LatestFinalizedStateAtSlot(ctx context.Context, slot primitives.Slot) (*primitives.State, bool, error) {
	block, ok, err := s.LatestFinalizedBlockAtSlot(ctx, slot)
	if err != nil || !ok {
		return nil, false, err
	}
	return s.FinalizedStateByBlockRoot(ctx, block.Root)
}

func (s *InMemoryStore) SlotAndBlockRootByStateRoot(_ context.Context, root primitives.StateRoot) (primitives.Slot, primitives.BlockRoot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slotByStateRoot[root]
	if !ok {
		return 0, primitives.BlockRoot{}, false, nil
	}
	return slot, s.blockRootByStateRoot[root], true, nil
}

func (s *InMemoryStore) FinalizedSlotByStateRoot(_ context.Context, root primitives.StateRoot) (primitives.Slot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slotByStateRoot[root]
	return slot, ok, nil
}
