package attestations

import (
	"sync"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

// AggregatingAttestationPool is the append-only, per-slot set of
// attestations available for block production described in spec.md §3. It
// is multi-reader/single-writer with its own internal synchronization, so
// callers never need a separate lock the way they do for the three
// waiting areas (those stay single-writer through the orchestrator).
type AggregatingAttestationPool struct {
	mu   sync.RWMutex
	bySl map[primitives.Slot][]*primitives.Attestation
}

// NewAggregatingAttestationPool constructs an empty pool.
func NewAggregatingAttestationPool() *AggregatingAttestationPool {
	return &AggregatingAttestationPool{bySl: make(map[primitives.Slot][]*primitives.Attestation)}
}

// Save appends a to its slot's bucket. Append-only: existing entries for
// the slot are never rewritten, matching the teacher's
// SaveForkchoiceAttestations convention of accumulating rather than
// replacing.
func (p *AggregatingAttestationPool) Save(a *primitives.Attestation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bySl[a.Data.Slot] = append(p.bySl[a.Data.Slot], a)
}

// ForSlot returns the attestations saved for slot, for block production.
func (p *AggregatingAttestationPool) ForSlot(slot primitives.Slot) []*primitives.Attestation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*primitives.Attestation, len(p.bySl[slot]))
	copy(out, p.bySl[slot])
	return out
}

// TrimFinalized drops every bucket at or before finalizedSlot; attestations
// that old can no longer be included in a block per the fork's inclusion
// window, so retaining them would just grow the pool unbounded.
func (p *AggregatingAttestationPool) TrimFinalized(finalizedSlot primitives.Slot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for slot := range p.bySl {
		if slot <= finalizedSlot {
			delete(p.bySl, slot)
		}
	}
}

// Len reports the total number of attestations currently pooled, across
// all slots.
func (p *AggregatingAttestationPool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, s := range p.bySl {
		n += len(s)
	}
	return n
}
