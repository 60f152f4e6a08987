package primitives

// Block is the minimal header shape the attestation pipeline and chain
// data service need: enough to key by root, walk parent links, and know
// the slot it occupies. Block bodies (operations, execution payloads) are
// the raw block storage engine's concern, out of scope per spec.md §1.
type Block struct {
	Slot       Slot
	ParentRoot BlockRoot
	StateRoot  StateRoot
}

// SignedBlock pairs a Block with the root it hashes to, precomputed by the
// out-of-scope storage layer on import. Carrying the root alongside the
// block avoids re-deriving a content hash in a package that has no SSZ
// hasher of its own.
type SignedBlock struct {
	Block Block
	Root  BlockRoot
}

// State is an opaque snapshot of consensus state. The attestation pipeline
// and chain data service only need to know a state's slot and which block
// root it was derived from; the full validator registry / balances / etc.
// live in the state-transition collaborator, out of scope per spec.md §1.
type State struct {
	Slot      Slot
	BlockRoot BlockRoot

	// FinalizedCheckpoint tracks the last irrevocable checkpoint as of
	// this state. Nothing in this repository reads it: IsFinalized uses
	// the recent store's finalized epoch, and the regenerator only copies
	// it forward.
	FinalizedCheckpoint Checkpoint
}

// Copy returns a value copy of the state, matching the teacher's
// BeaconState.Copy() convention used before mutating a state in place.
func (s *State) Copy() *State {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
