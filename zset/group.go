package zset

// Group is a witness for an abelian group structure on A: Zero, Add,
// and Negate satisfying commutativity, associativity, identity, and
// inverse (spec §3.2, §6 "Group witnesses AbelianGroup[A] for every A
// appearing in a Stream"). Subtract is derived, not part of the
// witness, since a+(-b) always suffices.
type Group[A any] interface {
	Zero() A
	Add(x, y A) A
	Negate(x A) A
}

// Subtract computes x - y in the group g as Add(x, Negate(y)).
func Subtract[A any](g Group[A], x, y A) A {
	return g.Add(x, g.Negate(y))
}

// ZSetGroup is the abelian group of Z-sets over K under pointwise
// weight addition (spec §3.2). Add and Negate never mutate their
// arguments.
type ZSetGroup[K comparable] struct{}

var _ Group[ZSet[int]] = ZSetGroup[int]{}

// Zero returns the empty Z-set.
func (ZSetGroup[K]) Zero() ZSet[K] { return Zero[K]() }

// Add returns the canonical pointwise sum of x and y, dropping any key
// whose combined weight is zero. Panics with an InvariantError only if
// the weight sum overflows int64 — in practice this means the caller
// handed in a Z-set whose weights were already out of range, since
// Add itself is the only place overflow can occur and it is checked.
func (ZSetGroup[K]) Add(x, y ZSet[K]) ZSet[K] {
	sum, err := addZSets(x, y)
	if err != nil {
		panic(err)
	}
	return sum
}

// Negate returns a Z-set with every weight's sign flipped.
func (ZSetGroup[K]) Negate(x ZSet[K]) ZSet[K] {
	out := make(map[K]int64, len(x.data))
	for k, w := range x.data {
		out[k] = -w
	}
	return FromMap(out)
}

func addZSets[K comparable](x, y ZSet[K]) (ZSet[K], error) {
	out := make(map[K]int64, len(x.data)+len(y.data))
	for k, w := range x.data {
		out[k] = w
	}
	for k, w := range y.data {
		cur, ok := out[k]
		if !ok {
			out[k] = w
			continue
		}
		sum, err := checkedAdd(cur, w)
		if err != nil {
			return ZSet[K]{}, overflowError("Add", cur, w)
		}
		out[k] = sum
	}
	return FromMap(out), nil
}

// Add is the package-level, error-returning form of ZSetGroup.Add,
// used by operators that need to propagate overflow rather than panic.
func Add[K comparable](x, y ZSet[K]) (ZSet[K], error) {
	return addZSets(x, y)
}

// Negate is the package-level form of ZSetGroup.Negate.
func Negate[K comparable](x ZSet[K]) ZSet[K] {
	return ZSetGroup[K]{}.Negate(x)
}

// SubtractZSets computes x - y for Z-sets, propagating overflow errors
// instead of panicking.
func SubtractZSets[K comparable](x, y ZSet[K]) (ZSet[K], error) {
	return addZSets(x, ZSetGroup[K]{}.Negate(y))
}

// Pair is a two-component tuple, used as the element type of a
// product group and as the natural output domain of a cartesian
// product or equi-join.
type Pair[A, B any] struct {
	First  A
	Second B
}

// TupleGroup is the product of two abelian groups on A and B,
// per spec §3.2 ("The tuple group on (A, B) is the product of the
// component groups").
type TupleGroup[A, B any] struct {
	GA Group[A]
	GB Group[B]
}

func (t TupleGroup[A, B]) Zero() Pair[A, B] {
	return Pair[A, B]{First: t.GA.Zero(), Second: t.GB.Zero()}
}

func (t TupleGroup[A, B]) Add(x, y Pair[A, B]) Pair[A, B] {
	return Pair[A, B]{First: t.GA.Add(x.First, y.First), Second: t.GB.Add(x.Second, y.Second)}
}

func (t TupleGroup[A, B]) Negate(x Pair[A, B]) Pair[A, B] {
	return Pair[A, B]{First: t.GA.Negate(x.First), Second: t.GB.Negate(x.Second)}
}
