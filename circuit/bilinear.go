package circuit

import "github.com/vela-stream/dbsp/zset"

// BiCircuit is the generic stateful bilinear operator of spec §4.4
// (theorem 3.4): given a stateless bilinear function over two Z-sets,
// it maintains the running integral of each input and emits, per
// step, the three-term delta
//
//	(a × b)^Δ == Δa×Δb + Δa×I(b) + I(a)×Δb
//
// instead of recomputing bilinear(I(a), I(b)) from scratch every step.
// join.StatefulJoin specializes this for equi-join with persistent
// per-key indexes (spec §4.6); BiCircuit is for the bilinear operators
// that have no such index structure — cartesian product and
// intersect.
type BiCircuit[A, B, C comparable] struct {
	bilinear func(zset.ZSet[A], zset.ZSet[B]) (zset.ZSet[C], error)
	cumA     zset.ZSet[A]
	cumB     zset.ZSet[B]
	node     Node
}

func newBiCircuit[A, B, C comparable](name, kind string, bilinear func(zset.ZSet[A], zset.ZSet[B]) (zset.ZSet[C], error)) *BiCircuit[A, B, C] {
	return &BiCircuit[A, B, C]{
		bilinear: bilinear,
		cumA:     zset.Zero[A](),
		cumB:     zset.Zero[B](),
		node:     BilinearNode{Name: name, Kind: kind},
	}
}

// ProcessStep applies one step's pair of deltas and returns the
// incremental output, per the three-term formula above. The
// cumulative integrals are advanced after the terms are computed, so
// that I(a) and I(b) in the formula reflect the state strictly before
// this step (avoiding double-counting deltaA/deltaB against
// themselves).
func (b *BiCircuit[A, B, C]) ProcessStep(deltaA zset.ZSet[A], deltaB zset.ZSet[B]) (zset.ZSet[C], error) {
	var terms []zset.ZSet[C]

	if !deltaA.IsEmpty() && !deltaB.IsEmpty() {
		term1, err := b.bilinear(deltaA, deltaB)
		if err != nil {
			return zset.Zero[C](), err
		}
		terms = append(terms, term1)
	}
	if !deltaA.IsEmpty() && !b.cumB.IsEmpty() {
		term2, err := b.bilinear(deltaA, b.cumB)
		if err != nil {
			return zset.Zero[C](), err
		}
		terms = append(terms, term2)
	}
	if !b.cumA.IsEmpty() && !deltaB.IsEmpty() {
		term3, err := b.bilinear(b.cumA, deltaB)
		if err != nil {
			return zset.Zero[C](), err
		}
		terms = append(terms, term3)
	}

	out := zset.Zero[C]()
	for _, t := range terms {
		next, err := zset.Add(out, t)
		if err != nil {
			return zset.Zero[C](), err
		}
		out = next
	}

	nextA, err := zset.Add(b.cumA, deltaA)
	if err != nil {
		return zset.Zero[C](), err
	}
	nextB, err := zset.Add(b.cumB, deltaB)
	if err != nil {
		return zset.Zero[C](), err
	}
	b.cumA, b.cumB = nextA, nextB

	return out, nil
}

// Node returns the circuit's descriptive node.
func (b *BiCircuit[A, B, C]) Node() Node { return b.node }

// Reset zeroes both cumulative integrals.
func (b *BiCircuit[A, B, C]) Reset() {
	b.cumA = zset.Zero[A]()
	b.cumB = zset.Zero[B]()
}

// CartesianCircuit builds a BiCircuit over zset.CartesianProduct.
func CartesianCircuit[A, B comparable](name string) *BiCircuit[A, B, zset.Pair[A, B]] {
	return newBiCircuit[A, B, zset.Pair[A, B]](name, "cartesian", zset.CartesianProduct[A, B])
}

// IntersectCircuit builds a BiCircuit over zset.Intersect. A and B
// must be the same domain, since intersect is only defined on two
// Z-sets over the same type.
func IntersectCircuit[A comparable](name string) *BiCircuit[A, A, A] {
	return newBiCircuit[A, A, A](name, "intersect", zset.Intersect[A])
}
