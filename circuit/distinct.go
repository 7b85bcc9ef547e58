package circuit

import "github.com/vela-stream/dbsp/zset"

// DistinctCircuit is the optimized distinct increment of spec §4.5
// (proposition 4.7). Rather than recomputing distinct over the whole
// integrated input on every step, it keeps the previous integrated
// Z-set and emits, per element of the incoming delta, +1 or -1 only
// when that element crosses the positive/non-positive boundary.
type DistinctCircuit[A comparable] struct {
	integrated zset.ZSet[A]
	node       Node
}

// NewDistinctCircuit constructs a distinct circuit with empty state.
func NewDistinctCircuit[A comparable](name string) *DistinctCircuit[A] {
	return &DistinctCircuit[A]{integrated: zset.Zero[A](), node: DistinctNode{Name: name}}
}

// ProcessStep applies delta and returns the distinct-increment output.
func (d *DistinctCircuit[A]) ProcessStep(delta zset.ZSet[A]) (zset.ZSet[A], error) {
	out := make(map[A]int64, delta.Len())
	for k, dw := range delta.Data() {
		oldw := d.integrated.Get(k)
		neww, err := zset.CheckedAdd("DistinctCircuit.ProcessStep", oldw, dw)
		if err != nil {
			return zset.Zero[A](), err
		}
		oldPositive := oldw > 0
		newPositive := neww > 0
		switch {
		case oldPositive && !newPositive:
			out[k] = -1
		case !oldPositive && newPositive:
			out[k] = 1
		}
	}
	next, err := zset.Add(d.integrated, delta)
	if err != nil {
		return zset.Zero[A](), err
	}
	d.integrated = next
	return zset.FromMap(out), nil
}

// Node returns the circuit's descriptive node.
func (d *DistinctCircuit[A]) Node() Node { return d.node }

// Reset zeroes the integrated state (spec §5).
func (d *DistinctCircuit[A]) Reset() { d.integrated = zset.Zero[A]() }

// UnionCircuit maintains distinct(a + b) incrementally: the union of
// two input deltas goes through one shared DistinctCircuit over their
// sum (spec §4.1: union is distinct(add(a, b))).
type UnionCircuit[A comparable] struct {
	distinct *DistinctCircuit[A]
	node     Node
}

// NewUnionCircuit constructs a union circuit with empty state.
func NewUnionCircuit[A comparable](name string) *UnionCircuit[A] {
	return &UnionCircuit[A]{distinct: NewDistinctCircuit[A](name + ".distinct"), node: UnionNode{Name: name}}
}

// ProcessStep applies one step's pair of deltas.
func (u *UnionCircuit[A]) ProcessStep(deltaA, deltaB zset.ZSet[A]) (zset.ZSet[A], error) {
	sum, err := zset.Add(deltaA, deltaB)
	if err != nil {
		return zset.Zero[A](), err
	}
	return u.distinct.ProcessStep(sum)
}

// Node returns the circuit's descriptive node.
func (u *UnionCircuit[A]) Node() Node { return u.node }

// Reset zeroes the union circuit's state.
func (u *UnionCircuit[A]) Reset() { u.distinct.Reset() }

// DifferenceCircuit maintains distinct(a - b) incrementally, sharing
// the same optimized-increment machinery as UnionCircuit (spec §4.1:
// difference is distinct(subtract(a, b))).
type DifferenceCircuit[A comparable] struct {
	distinct *DistinctCircuit[A]
	node     Node
}

// NewDifferenceCircuit constructs a difference circuit with empty state.
func NewDifferenceCircuit[A comparable](name string) *DifferenceCircuit[A] {
	return &DifferenceCircuit[A]{distinct: NewDistinctCircuit[A](name + ".distinct"), node: DifferenceNode{Name: name}}
}

// ProcessStep applies one step's pair of deltas.
func (d *DifferenceCircuit[A]) ProcessStep(deltaA, deltaB zset.ZSet[A]) (zset.ZSet[A], error) {
	diff, err := zset.SubtractZSets(deltaA, deltaB)
	if err != nil {
		return zset.Zero[A](), err
	}
	return d.distinct.ProcessStep(diff)
}

// Node returns the circuit's descriptive node.
func (d *DifferenceCircuit[A]) Node() Node { return d.node }

// Reset zeroes the difference circuit's state.
func (d *DifferenceCircuit[A]) Reset() { d.distinct.Reset() }
