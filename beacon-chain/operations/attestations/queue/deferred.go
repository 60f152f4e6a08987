package queue

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

// Deferred parks indexed attestations fork choice asked to re-evaluate on
// the next slot tick. Organized as slot -> aggregated DeferredVotes, where
// per-validator-index vote aggregation collapses duplicates (see
// primitives.DeferredVotes.Merge).
type Deferred struct {
	mu      sync.Mutex
	buckets *lru.Cache
}

// NewDeferred constructs a Deferred area bounded to maxBuckets distinct
// slots.
func NewDeferred(maxBuckets int) *Deferred {
	if maxBuckets <= 0 {
		maxBuckets = DefaultMaxBuckets
	}
	c, err := lru.NewWithEvict(maxBuckets, func(key, _ interface{}) {
		log.WithField("slot", key).Debug("Evicting oldest deferred bucket, waiting area is full")
	})
	if err != nil {
		panic(err)
	}
	return &Deferred{buckets: c}
}

// Insert merges ia into the bucket for slot, creating it if necessary.
func (d *Deferred) Insert(slot primitives.Slot, ia *primitives.IndexedAttestation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var bucket *primitives.DeferredVotes
	if v, ok := d.buckets.Get(slot); ok {
		bucket = v.(*primitives.DeferredVotes)
	} else {
		bucket = primitives.NewDeferredVotes(slot)
	}
	bucket.Merge(ia)
	d.buckets.Add(slot, bucket)
}

// Prune returns and removes every bucket keyed at slot <= current,
// satisfying the invariant that Deferred never holds a bucket at or
// before the current slot once onSlot returns.
func (d *Deferred) Prune(current primitives.Slot) []*primitives.DeferredVotes {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*primitives.DeferredVotes
	for _, key := range d.buckets.Keys() {
		slot := key.(primitives.Slot)
		if slot > current {
			continue
		}
		v, ok := d.buckets.Peek(slot)
		if !ok {
			continue
		}
		out = append(out, v.(*primitives.DeferredVotes))
		d.buckets.Remove(slot)
	}
	return out
}

// Len reports how many distinct slots currently have a deferred bucket.
func (d *Deferred) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buckets.Len()
}
