package primitives

import "fmt"

// BlockRoot is the 32-byte content hash of a beacon block.
type BlockRoot [32]byte

// String renders the root the way the teacher renders hashes in logs.
func (r BlockRoot) String() string {
	return fmt.Sprintf("0x%x", r[:])
}

// IsZero reports whether r is the zero root.
func (r BlockRoot) IsZero() bool {
	return r == BlockRoot{}
}

// StateRoot is the 32-byte content hash of a beacon state.
type StateRoot [32]byte

// String renders the root the way the teacher renders hashes in logs.
func (r StateRoot) String() string {
	return fmt.Sprintf("0x%x", r[:])
}

// IsZero reports whether r is the zero root.
func (r StateRoot) IsZero() bool {
	return r == StateRoot{}
}
