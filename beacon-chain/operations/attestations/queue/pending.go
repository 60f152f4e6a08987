// Package queue implements the three bounded waiting areas from spec.md
// §4.A: Pending (keyed by an unknown block root), Future (keyed by a slot
// ahead of the local clock) and Deferred (keyed by the next slot tick).
// All three are single-writer, owned exclusively by the attestation
// manager, and bounded with oldest-bucket eviction built on the teacher's
// dependency of choice for exactly this shape of problem,
// hashicorp/golang-lru.
package queue

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/attestorlabs/beacon-node/beacon-chain/primitives"
)

var log = logrus.WithField("prefix", "attestations-queue")

// DefaultMaxBuckets bounds how many distinct keys (block roots, slots) a
// waiting area holds before it starts evicting the oldest bucket.
const DefaultMaxBuckets = 4096

// Pending parks attestations that depend on a block this node has not
// imported yet. Invariant: an attestation sits here iff the block it
// depends on is unknown locally.
type Pending struct {
	mu      sync.RWMutex
	buckets *lru.Cache
}

// NewPending constructs a Pending area bounded to maxBuckets distinct
// block roots, evicting the oldest bucket first on overflow.
func NewPending(maxBuckets int) *Pending {
	if maxBuckets <= 0 {
		maxBuckets = DefaultMaxBuckets
	}
	c, err := lru.NewWithEvict(maxBuckets, func(key, _ interface{}) {
		log.WithField("root", key).Debug("Evicting oldest pending bucket, waiting area is full")
	})
	if err != nil {
		// Only returns an error for a non-positive size, which is
		// guarded above; a panic here would mean the guard is broken.
		panic(err)
	}
	return &Pending{buckets: c}
}

// Insert parks a into the bucket keyed by the block root it depends on.
func (p *Pending) Insert(root primitives.BlockRoot, a *primitives.Attestation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var bucket map[primitives.BlockRoot]*primitives.Attestation
	if v, ok := p.buckets.Get(root); ok {
		bucket = v.(map[primitives.BlockRoot]*primitives.Attestation)
	} else {
		bucket = make(map[primitives.BlockRoot]*primitives.Attestation)
	}
	bucket[a.Root()] = a
	p.buckets.Add(root, bucket)
}

// Contains reports whether an attestation with the same identity is
// already parked under root, used to short-circuit duplicate submissions
// in O(1), as required by spec.md §4.A.
func (p *Pending) Contains(root primitives.BlockRoot, a *primitives.Attestation) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.buckets.Peek(root)
	if !ok {
		return false
	}
	bucket := v.(map[primitives.BlockRoot]*primitives.Attestation)
	_, ok = bucket[a.Root()]
	return ok
}

// HasBucket reports whether any attestations are parked for root.
func (p *Pending) HasBucket(root primitives.BlockRoot) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buckets.Contains(root)
}

// Drain removes and returns every attestation parked under root. Called
// from onBlockImported when block B (root) has just been imported; the
// caller re-submits each returned attestation via onAttestation.
func (p *Pending) Drain(root primitives.BlockRoot) []*primitives.Attestation {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.buckets.Get(root)
	if !ok {
		return nil
	}
	p.buckets.Remove(root)
	bucket := v.(map[primitives.BlockRoot]*primitives.Attestation)
	out := make([]*primitives.Attestation, 0, len(bucket))
	for _, a := range bucket {
		out = append(out, a)
	}
	return out
}

// Len reports how many distinct block roots currently have parked
// attestations.
func (p *Pending) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buckets.Len()
}
