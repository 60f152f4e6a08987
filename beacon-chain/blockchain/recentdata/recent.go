// Package recentdata implements RecentChainData, spec.md §3: the
// in-memory store holding blocks from finalization forward, the current
// best head, and its state.
package recentdata

import (
	"sort"
	"sync"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

// RecentChainData's lifecycle is empty pre-genesis, populated at genesis,
// then advanced monotonically -- it never needs to roll back (that is
// the out-of-scope fork-choice collaborator's problem to resolve before
// calling SetHead).
type Store struct {
	mu sync.RWMutex

	blocksByRoot map[primitives.BlockRoot]*primitives.SignedBlock
	rootsBySlot  map[primitives.Slot]primitives.BlockRoot
	statesByRoot map[primitives.BlockRoot]*primitives.State
	knownSlots   []primitives.Slot // kept sorted, ascending

	bestRoot    primitives.BlockRoot
	bestSlot    primitives.Slot
	currentSlot primitives.Slot

	finalizedEpoch      primitives.Epoch
	latestFinalizedSlot primitives.Slot

	genesisSet     bool
	forkChoiceSet  bool
}

// New constructs an empty, pre-genesis Store.
func New() *Store {
	return &Store{
		blocksByRoot: make(map[primitives.BlockRoot]*primitives.SignedBlock),
		rootsBySlot:  make(map[primitives.Slot]primitives.BlockRoot),
		statesByRoot: make(map[primitives.BlockRoot]*primitives.State),
	}
}

// IsPreGenesis reports whether genesis has been set yet.
func (s *Store) IsPreGenesis() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.genesisSet
}

// IsPreForkChoice reports whether the first fork-choice tick has run.
func (s *Store) IsPreForkChoice() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.forkChoiceSet
}

// SetGenesis populates the store with the genesis block and state,
// moving it out of the pre-genesis lifecycle stage.
func (s *Store) SetGenesis(block *primitives.SignedBlock, state *primitives.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveBlockLocked(block)
	s.statesByRoot[block.Root] = state
	s.bestRoot = block.Root
	s.bestSlot = block.Block.Slot
	s.genesisSet = true
}

// SaveBlock records a newly imported block and, if state is non-nil, its
// post-state. It does not move the head; callers call SetHead once fork
// choice has picked a new best block, matching the gateway being the
// only fork-choice writer.
func (s *Store) SaveBlock(block *primitives.SignedBlock, state *primitives.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveBlockLocked(block)
	if state != nil {
		s.statesByRoot[block.Root] = state
	}
}

func (s *Store) saveBlockLocked(block *primitives.SignedBlock) {
	if _, exists := s.blocksByRoot[block.Root]; !exists {
		idx := sort.Search(len(s.knownSlots), func(i int) bool { return s.knownSlots[i] >= block.Block.Slot })
		s.knownSlots = append(s.knownSlots, 0)
		copy(s.knownSlots[idx+1:], s.knownSlots[idx:])
		s.knownSlots[idx] = block.Block.Slot
	}
	s.blocksByRoot[block.Root] = block
	s.rootsBySlot[block.Block.Slot] = block.Root
}

// SetHead updates the best block, marking the store as having completed
// its first fork-choice tick.
func (s *Store) SetHead(root primitives.BlockRoot, slot primitives.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bestRoot = root
	s.bestSlot = slot
	s.forkChoiceSet = true
}

// SetCurrentSlot records the node's current wall-clock slot, advanced by
// the same slot ticks that drive the attestation manager's OnSlot. This
// is distinct from the head block's slot (GetBestSlot): the clock can
// run ahead of the last proposed block, and it is that bound -- not the
// head block's slot -- the regenerator checks before stepping a state
// forward, per spec.md §4.E.
func (s *Store) SetCurrentSlot(slot primitives.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot > s.currentSlot {
		s.currentSlot = slot
	}
}

// GetCurrentSlot returns the node's current wall-clock slot.
func (s *Store) GetCurrentSlot() primitives.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSlot
}

// SetFinalized records the finalized checkpoint's epoch and the slot of
// the latest finalized block, used by isFinalized and by callers
// deciding whether to consult historical storage.
func (s *Store) SetFinalized(epoch primitives.Epoch, latestFinalizedSlot primitives.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalizedEpoch = epoch
	s.latestFinalizedSlot = latestFinalizedSlot
}

// BlockRootBySlot returns the root of the block proposed exactly in
// slot, if the recent chain holds one.
func (s *Store) BlockRootBySlot(slot primitives.Slot) (primitives.BlockRoot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	root, ok := s.rootsBySlot[slot]
	return root, ok
}

// RetrieveSignedBlockByRoot returns the block with the given root, if
// the recent chain holds one.
func (s *Store) RetrieveSignedBlockByRoot(root primitives.BlockRoot) (*primitives.SignedBlock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blocksByRoot[root]
	return b, ok
}

// RetrieveStateInEffectAtSlot returns the state belonging to the block
// in effect at slot -- the most recent known block at or before slot --
// without performing any regeneration itself; the caller's responsible
// for stepping it forward if its slot falls short.
func (s *Store) RetrieveStateInEffectAtSlot(slot primitives.Slot) (*primitives.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	root, ok := s.blockRootInEffectAtSlotLocked(slot)
	if !ok {
		return nil, false
	}
	st, ok := s.statesByRoot[root]
	return st, ok
}

// BlockInEffectAtSlot returns the block proposed in or most recently
// before slot.
func (s *Store) BlockInEffectAtSlot(slot primitives.Slot) (*primitives.SignedBlock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	root, ok := s.blockRootInEffectAtSlotLocked(slot)
	if !ok {
		return nil, false
	}
	return s.blocksByRoot[root], true
}

func (s *Store) blockRootInEffectAtSlotLocked(slot primitives.Slot) (primitives.BlockRoot, bool) {
	idx := sort.Search(len(s.knownSlots), func(i int) bool { return s.knownSlots[i] > slot })
	if idx == 0 {
		return primitives.BlockRoot{}, false
	}
	return s.rootsBySlot[s.knownSlots[idx-1]], true
}

// GetBestRoot returns the current head's root.
func (s *Store) GetBestRoot() primitives.BlockRoot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bestRoot
}

// GetBestSlot returns the current head's slot.
func (s *Store) GetBestSlot() primitives.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bestSlot
}

// GetBestBlock returns the current head block, if any.
func (s *Store) GetBestBlock() (*primitives.SignedBlock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blocksByRoot[s.bestRoot]
	return b, ok
}

// GetBestState returns the current head's state, if any.
func (s *Store) GetBestState() (*primitives.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statesByRoot[s.bestRoot]
	return st, ok
}

// FinalizedEpoch returns the last recorded finalized epoch.
func (s *Store) FinalizedEpoch() primitives.Epoch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalizedEpoch
}

// LatestFinalizedBlockSlot returns the slot of the latest finalized
// block recorded.
func (s *Store) LatestFinalizedBlockSlot() primitives.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestFinalizedSlot
}

// AncestorRoots walks the recent chain starting at startSlot, sampling
// every step slots, collecting up to count distinct ancestor roots in
// descending-slot order. The walk is non-empty whenever the recent
// chain has at least one block at or before startSlot.
func (s *Store) AncestorRoots(startSlot primitives.Slot, step primitives.Slot, count int) []primitives.BlockRoot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if step == 0 {
		step = 1
	}
	var out []primitives.BlockRoot
	var lastRoot *primitives.BlockRoot
	slot := startSlot
	for len(out) < count {
		root, ok := s.blockRootInEffectAtSlotLocked(slot)
		if !ok {
			break
		}
		if lastRoot == nil || *lastRoot != root {
			out = append(out, root)
			r := root
			lastRoot = &r
		}
		if slot < step {
			break
		}
		slot -= step
	}
	return out
}
