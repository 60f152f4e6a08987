package event

import "sync"

// Subscription represents a single subscriber's registration on a Feed.
// Channel returns the receive side; Unsubscribe stops further delivery and
// closes Err(), mirroring the teacher's event.Subscription contract.
type Subscription[T any] struct {
	ch        chan T
	err       chan error
	feed      *Feed[T]
	unsubOnce sync.Once
}

// Channel returns the receive-only channel values are delivered on.
func (s *Subscription[T]) Channel() <-chan T {
	return s.ch
}

// Err returns a channel that is closed when the subscription ends, the
// same "done" signal shape as the teacher's Subscription.Err().
func (s *Subscription[T]) Err() <-chan error {
	return s.err
}

// Unsubscribe removes the subscription from its feed. Safe to call more
// than once; only the first call has any effect.
func (s *Subscription[T]) Unsubscribe() {
	s.unsubOnce.Do(func() {
		s.feed.remove(s)
		close(s.err)
	})
}
