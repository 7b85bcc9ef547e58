package circuit

import (
	"github.com/vela-stream/dbsp/internal/telemetry"
	"github.com/vela-stream/dbsp/join"
	"github.com/vela-stream/dbsp/zset"
)

// JoinCircuit adapts join.StatefulJoin to the two-input ProcessStep
// shape shared by BiCircuit, choosing the persistent-index join of
// spec §4.6 over the generic bilinear formula of §4.4 specifically
// because equi-join has a natural per-key index structure that
// cartesian product and intersect do not.
type JoinCircuit[T, U, K comparable] struct {
	inner *join.StatefulJoin[T, U, K]
	node  Node
}

// NewJoinCircuit constructs a stateful equi-join circuit keyed by
// keyA and keyB. log may be nil.
func NewJoinCircuit[T, U, K comparable](name string, keyA func(T) K, keyB func(U) K, log *telemetry.Logger) *JoinCircuit[T, U, K] {
	return &JoinCircuit[T, U, K]{
		inner: join.New(keyA, keyB, log),
		node:  JoinNode{Name: name, Stateful: true},
	}
}

// ProcessStep applies one step's pair of deltas.
func (j *JoinCircuit[T, U, K]) ProcessStep(deltaA zset.ZSet[T], deltaB zset.ZSet[U]) (zset.ZSet[zset.Pair[T, U]], error) {
	return j.inner.ProcessIncrement(deltaA, deltaB)
}

// MaterializedView returns the join's current materialized view.
func (j *JoinCircuit[T, U, K]) MaterializedView() zset.ZSet[zset.Pair[T, U]] {
	return j.inner.GetMaterializedView()
}

// Node returns the circuit's descriptive node.
func (j *JoinCircuit[T, U, K]) Node() Node { return j.node }

// Reset zeroes the underlying join's state.
func (j *JoinCircuit[T, U, K]) Reset() { j.inner.Reset() }
