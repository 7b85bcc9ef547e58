// Package circuit assembles the stream operators of package stream
// and the stateful operators of packages join and topk into
// Circuit[A, B]: an opaque, composable wrapper over a stream operator
// (spec §4.3).
package circuit

import (
	"github.com/vela-stream/dbsp/stream"
	"github.com/vela-stream/dbsp/zset"
)

// Circuit is a composable wrapper around a function from a stream of
// Z-sets over A to a stream of Z-sets over B.
type Circuit[A, B comparable] struct {
	run  func(*stream.Stream[zset.ZSet[A]]) *stream.Stream[zset.ZSet[B]]
	node Node
}

// Execute runs the circuit over a whole input stream, spec §4.3's
// execute(input).
func (c Circuit[A, B]) Execute(input *stream.Stream[zset.ZSet[A]]) *stream.Stream[zset.ZSet[B]] {
	return c.run(input)
}

// Node returns the circuit's descriptive node, for introspection via
// Walk/Names.
func (c Circuit[A, B]) Node() Node {
	return c.node
}

// Compose is function composition of two circuits' underlying stream
// operators: Compose(first, second).Execute(s) ==
// second.Execute(first.Execute(s)). Go does not allow a generic
// method to introduce a new type parameter, so composition is a
// standalone function rather than a Circuit method (spec §4.3).
func Compose[A, B, C comparable](first Circuit[A, B], second Circuit[B, C]) Circuit[A, C] {
	return Circuit[A, C]{
		run: func(s *stream.Stream[zset.ZSet[A]]) *stream.Stream[zset.ZSet[C]] {
			return second.run(first.run(s))
		},
		node: ComposeNode{First: first.node, Second: second.node},
	}
}

// Table is the identity circuit for an input port named name: it
// relays its input stream unchanged. Used as the source node at the
// leaves of a circuit graph.
func Table[A comparable](name string) Circuit[A, A] {
	g := zset.ZSetGroup[A]{}
	return Circuit[A, A]{
		run:  stream.Lift(g, g, func(z zset.ZSet[A]) zset.ZSet[A] { return z }),
		node: TableNode{Name: name},
	}
}

// FilterCircuit lifts the linear filter operator (spec §4.2: linear
// operators are wrapped only in lift, the I/D wrappers collapse).
func FilterCircuit[A comparable](name string, pred func(A) bool) Circuit[A, A] {
	g := zset.ZSetGroup[A]{}
	return Circuit[A, A]{
		run:  stream.Lift(g, g, func(z zset.ZSet[A]) zset.ZSet[A] { return zset.Filter(z, pred) }),
		node: FilterNode{Name: name},
	}
}

// ProjectCircuit lifts the linear project operator.
func ProjectCircuit[A, B comparable](name string, proj func(A) B) Circuit[A, B] {
	gA := zset.ZSetGroup[A]{}
	gB := zset.ZSetGroup[B]{}
	return Circuit[A, B]{
		run: stream.Lift(gA, gB, func(z zset.ZSet[A]) zset.ZSet[B] {
			out, err := zset.Project(z, proj)
			if err != nil {
				panic(err)
			}
			return out
		}),
		node: ProjectNode{Name: name},
	}
}

// GroupByAggregateCircuit groups records by keyFn and reduces each
// group with reduce, emitting one record per group (set semantics).
// Neither grouping nor an arbitrary reduce is linear or bilinear in
// general, so this goes through the fully general, always-correct-but-
// not-always-efficient incrementalize(Q) = D ∘ Q ∘ I construction of
// spec §4.2 rather than a specialized delta formula.
func GroupByAggregateCircuit[A, K comparable](name string, keyFn func(A) K, reduce func(zset.ZSet[A]) int64) Circuit[A, zset.Pair[K, int64]] {
	gA := zset.ZSetGroup[A]{}
	gOut := zset.ZSetGroup[zset.Pair[K, int64]]{}
	q := func(z zset.ZSet[A]) zset.ZSet[zset.Pair[K, int64]] {
		groups := zset.GroupBy(z, keyFn)
		out := make(map[zset.Pair[K, int64]]int64, len(groups))
		for k, g := range groups {
			out[zset.Pair[K, int64]{First: k, Second: reduce(g)}] = 1
		}
		return zset.FromMap(out)
	}
	return Circuit[A, zset.Pair[K, int64]]{
		run:  stream.Incrementalize(gA, gOut, q),
		node: AggregateNode{Name: name},
	}
}
