package circuit

import (
	"github.com/vela-stream/dbsp/internal/telemetry"
	"github.com/vela-stream/dbsp/topk"
)

// TopKCircuit adapts topk.StatefulTopK into the circuit surface.
// Unlike every other Circuit/BiCircuit variant, its input and output
// are slices of Delta[T] rather than zset.ZSet[A] — T is intentionally
// not required to be comparable (spec §4.7), so it cannot be keyed
// directly into a Go map the way every other Z-set domain in this
// package is.
type TopKCircuit[T any] struct {
	inner *topk.StatefulTopK[T]
	node  Node
}

// NewTopKCircuit constructs a stateful top-K circuit. keyFunc may be
// nil to fall back to the identity-key tiers of spec §4.7. log may be
// nil.
func NewTopKCircuit[T any](name string, cmp topk.Comparator[T], limit, offset int, keyFunc func(T) string, log *telemetry.Logger) *TopKCircuit[T] {
	return &TopKCircuit[T]{
		inner: topk.New(cmp, limit, offset, keyFunc, log),
		node:  TopKNode{Name: name, Limit: limit},
	}
}

// ProcessStep applies one step's deltas.
func (t *TopKCircuit[T]) ProcessStep(deltas []topk.Delta[T]) ([]topk.Delta[T], error) {
	return t.inner.ProcessIncrement(deltas)
}

// ProcessInitial is the bulk-init fast path; valid only from empty
// state.
func (t *TopKCircuit[T]) ProcessInitial(deltas []topk.Delta[T]) ([]topk.Delta[T], error) {
	return t.inner.ProcessInitial(deltas)
}

// CurrentState returns the live top-K window and record count.
func (t *TopKCircuit[T]) CurrentState() topk.Snapshot[T] {
	return t.inner.GetCurrentState()
}

// Node returns the circuit's descriptive node.
func (t *TopKCircuit[T]) Node() Node { return t.node }

// Reset zeroes the underlying top-K's state.
func (t *TopKCircuit[T]) Reset() { t.inner.Reset() }
