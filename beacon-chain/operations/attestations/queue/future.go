package queue

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

// Future parks attestations whose slot is ahead of the local clock.
// Invariant: every element's slot is strictly greater than the current
// watermark. onSlot(s) advances the watermark and prune(s) drains every
// bucket with slot <= s.
type Future struct {
	mu        sync.RWMutex
	buckets   *lru.Cache
	watermark primitives.Slot
}

// NewFuture constructs a Future area bounded to maxBuckets distinct slots.
func NewFuture(maxBuckets int) *Future {
	if maxBuckets <= 0 {
		maxBuckets = DefaultMaxBuckets
	}
	c, err := lru.NewWithEvict(maxBuckets, func(key, _ interface{}) {
		log.WithField("slot", key).Debug("Evicting oldest future bucket, waiting area is full")
	})
	if err != nil {
		panic(err)
	}
	return &Future{buckets: c}
}

// Insert parks a under its own slot. Callers must have already verified
// a.Data.Slot is ahead of the current watermark; Insert itself rejects
// stale items so a racing onSlot can't let one slip in after the fact.
func (f *Future) Insert(a *primitives.Attestation) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.Data.Slot <= f.watermark {
		return false
	}
	var bucket map[primitives.BlockRoot]*primitives.Attestation
	if v, ok := f.buckets.Get(a.Data.Slot); ok {
		bucket = v.(map[primitives.BlockRoot]*primitives.Attestation)
	} else {
		bucket = make(map[primitives.BlockRoot]*primitives.Attestation)
	}
	bucket[a.Root()] = a
	f.buckets.Add(a.Data.Slot, bucket)
	return true
}

// OnSlot advances the watermark. Call before Prune so contains-checks
// reject stale items that arrive mid-tick.
func (f *Future) OnSlot(slot primitives.Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slot > f.watermark {
		f.watermark = slot
	}
}

// Prune returns and removes every attestation parked at slot <= current,
// satisfying the invariant that Future never holds an item at or before
// the watermark once Prune returns.
func (f *Future) Prune(current primitives.Slot) []*primitives.Attestation {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*primitives.Attestation
	for _, key := range f.buckets.Keys() {
		slot := key.(primitives.Slot)
		if slot > current {
			continue
		}
		v, ok := f.buckets.Peek(slot)
		if !ok {
			continue
		}
		bucket := v.(map[primitives.BlockRoot]*primitives.Attestation)
		for _, a := range bucket {
			out = append(out, a)
		}
		f.buckets.Remove(slot)
	}
	return out
}

// Len reports how many distinct slots currently have parked attestations.
func (f *Future) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.buckets.Len()
}
