// Package primitives defines the scalar and root types shared across the
// attestation pipeline and chain data service.
package primitives

// SlotsPerEpoch is the number of slots in an epoch. Kept as a package
// variable rather than a hardcoded literal so tests can swap in a demo
// config, mirroring the teacher's params.BeaconConfig().SlotsPerEpoch.
var SlotsPerEpoch Slot = 32

// Slot is a monotonic, non-negative unit of time on the consensus chain.
type Slot uint64

// Epoch is a span of SlotsPerEpoch slots.
type Epoch uint64

// ToEpoch converts a slot to the epoch it falls within.
func (s Slot) ToEpoch() Epoch {
	return Epoch(uint64(s) / uint64(SlotsPerEpoch))
}

// Add returns s+n.
func (s Slot) Add(n uint64) Slot {
	return s + Slot(n)
}

// SubSlot returns s-o, or 0 if o > s.
func (s Slot) SubSlot(o Slot) Slot {
	if o > s {
		return 0
	}
	return s - o
}

// StartSlot returns the first slot of epoch e.
func (e Epoch) StartSlot() Slot {
	return Slot(uint64(e) * uint64(SlotsPerEpoch))
}
