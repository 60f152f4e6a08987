// Package event provides a one-way-registration multicast feed used to
// fan out attestation-pipeline notifications to subscribers, adapted from
// the teacher's shared/event package (itself a port of go-ethereum's
// event.Feed) and specialized to a single generic payload type instead of
// the original's reflect-based any-type dispatch: every subscriber set in
// this repository (allValidAttestations, attestationsToSend) carries
// exactly one concrete type, so the type-switching
// machinery the original needed to support mixed Send calls on one Feed
// has no job to do here.
package event

import "sync"

// Feed implements one-to-many notification: callers Send a value and it
// is delivered to every live Subscription's channel. The zero value is
// ready to use. A Feed must not be copied after first use.
type Feed[T any] struct {
	mu   sync.Mutex
	subs map[*Subscription[T]]struct{}
}

// Subscribe adds a new subscriber backed by a buffered channel of size
// bufLen. Registration is one-way: the only way to stop receiving is to
// call Unsubscribe on the returned handle, matching the design notes'
// "add only; removal by identity token" rule.
func (f *Feed[T]) Subscribe(bufLen int) *Subscription[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs == nil {
		f.subs = make(map[*Subscription[T]]struct{})
	}
	sub := &Subscription[T]{
		ch:   make(chan T, bufLen),
		err:  make(chan error, 1),
		feed: f,
	}
	f.subs[sub] = struct{}{}
	return sub
}

// Send delivers v to every current subscriber and returns how many
// received it. A subscriber whose channel is full is skipped rather than
// blocking the sender -- a slow or dead subscriber must never stall the
// gateway, per spec.md §5's "long-lived subscriber callbacks must not
// block" rule; the drop is the caller's signal to log at debug and move
// on, same as the teacher does for best-effort notification.
func (f *Feed[T]) Send(v T) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	sent := 0
	for sub := range f.subs {
		select {
		case sub.ch <- v:
			sent++
		default:
		}
	}
	return sent
}

// SubscriberCount returns the number of currently registered subscribers.
func (f *Feed[T]) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed[T]) remove(sub *Subscription[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, sub)
}
