// Package observe implements the subscription protocol of spec §4.8:
// each operator holds a set of downstream callbacks and fans out its
// delta to them in insertion order after producing it (spec §5, §6).
package observe

import (
	"sync"

	"github.com/juju/errors"

	"github.com/vela-stream/dbsp/internal/telemetry"
)

// Callback receives one operator's delta. It must not block and must
// not re-enter Emit on the Subscription it is registered with (spec
// §4.8).
type Callback[T any] func(T)

// Unsubscribe removes the callback it was returned for. Calling it
// more than once is a no-op.
type Unsubscribe func()

// Subscription is one operator's downstream fan-out list.
type Subscription[T any] struct {
	mu          sync.Mutex
	subscribers []*subscriber[T]
	nextID      int64
	delivering  bool
	log         *telemetry.Logger
}

type subscriber[T any] struct {
	id int64
	cb Callback[T]
}

// New constructs an empty subscription. log may be nil.
func New[T any](log *telemetry.Logger) *Subscription[T] {
	return &Subscription[T]{log: log}
}

// Subscribe registers cb and returns a function that removes it.
// Subscribers are delivered to in the order they were registered
// (spec §4.8).
func (s *Subscription[T]) Subscribe(cb Callback[T]) Unsubscribe {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers = append(s.subscribers, &subscriber[T]{id: id, cb: cb})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Subscription[T]) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// Emit delivers value to every current subscriber in registration
// order. A subscriber whose callback panics is isolated — the panic
// is recovered, logged, and delivery continues to the next subscriber
// (spec §5's "report and continue" option) — and does not roll back
// any state the caller has already committed.
//
// Emit must not be called re-entrantly from within a callback it is
// itself delivering to (spec §4.8); doing so returns an error instead
// of recursing, since the engine's single-threaded cooperative model
// (spec §5) gives no other place to detect it.
func (s *Subscription[T]) Emit(value T) error {
	s.mu.Lock()
	if s.delivering {
		s.mu.Unlock()
		return errors.New("observe: re-entrant Emit on the same Subscription")
	}
	s.delivering = true
	subs := make([]*subscriber[T], len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.delivering = false
		s.mu.Unlock()
	}()

	for _, sub := range subs {
		s.deliverOne(sub, value)
	}
	return nil
}

func (s *Subscription[T]) deliverOne(sub *subscriber[T], value T) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("observe.subscriber_panic",
				telemetry.Int64("subscriber_id", sub.id),
				telemetry.Err(errors.Errorf("%v", r)),
			)
		}
	}()
	sub.cb(value)
}

// Len returns the current number of registered subscribers.
func (s *Subscription[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}
