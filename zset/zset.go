// Package zset implements Z-sets: multisets over a comparable domain
// with signed, finite-support integer weights, and the abelian-group
// algebra (add, negate, subtract) they carry. A Z-set is canonical when
// its weight map has no zero-weighted entries; every value this package
// hands back to a caller is canonical. Z-sets are logically immutable
// once built: operators never mutate an input, and every accessor that
// could leak internal storage returns a defensive copy.
package zset

import "sort"

// Record is a single (key, weight) pair as produced during the
// non-canonical builder phase of Z-set construction (spec §3.1's
// "append-only sequence of (key, weight) pairs").
type Record[A comparable] struct {
	Key    A
	Weight int64
}

// ZSet is an immutable, canonical multiset over A: a mapping from A to
// a nonzero integer weight, finite support, no duplicate keys.
type ZSet[A comparable] struct {
	data map[A]int64
}

// Zero is the empty Z-set, the identity element of the abelian group.
func Zero[A comparable]() ZSet[A] {
	return ZSet[A]{}
}

// FromMap builds a canonical Z-set directly from a map of weights,
// dropping any zero-weighted entries. The input map is not retained.
func FromMap[A comparable](m map[A]int64) ZSet[A] {
	out := make(map[A]int64, len(m))
	for k, w := range m {
		if w != 0 {
			out[k] = w
		}
	}
	if len(out) == 0 {
		return ZSet[A]{}
	}
	return ZSet[A]{data: out}
}

// MergeRecords canonicalizes a builder-form sequence of records:
// duplicate keys are summed and zero-weighted entries are dropped.
// This is the "mergeRecords" operation of spec §3.1.
func MergeRecords[A comparable](records []Record[A]) (ZSet[A], error) {
	acc := make(map[A]int64, len(records))
	for _, r := range records {
		cur, ok := acc[r.Key]
		if !ok {
			acc[r.Key] = r.Weight
			continue
		}
		sum, err := checkedAdd(cur, r.Weight)
		if err != nil {
			return ZSet[A]{}, overflowError("MergeRecords", cur, r.Weight)
		}
		acc[r.Key] = sum
	}
	return FromMap(acc), nil
}

// Data returns a defensive copy of the canonical key→weight mapping.
// Callers may mutate the returned map freely without affecting the
// Z-set.
func (z ZSet[A]) Data() map[A]int64 {
	out := make(map[A]int64, len(z.data))
	for k, w := range z.data {
		out[k] = w
	}
	return out
}

// Len returns the number of distinct keys with nonzero weight.
func (z ZSet[A]) Len() int { return len(z.data) }

// Get returns the weight of key, or 0 if key is not in the support.
func (z ZSet[A]) Get(key A) int64 { return z.data[key] }

// IsEmpty reports whether the Z-set has empty support.
func (z ZSet[A]) IsEmpty() bool { return len(z.data) == 0 }

// IsSet reports whether every weight in the Z-set equals 1, i.e. the
// Z-set corresponds to a classical set.
func (z ZSet[A]) IsSet() bool {
	for _, w := range z.data {
		if w != 1 {
			return false
		}
	}
	return true
}

// IsPositive reports whether every weight in the Z-set is non-negative.
func (z ZSet[A]) IsPositive() bool {
	for _, w := range z.data {
		if w < 0 {
			return false
		}
	}
	return true
}

// Append returns a new Z-set with weight added to key's existing
// weight, canonicalized (the entry is dropped if the resulting weight
// is zero). The receiver is not modified.
func (z ZSet[A]) Append(key A, weight int64) (ZSet[A], error) {
	cur := z.data[key]
	sum, err := checkedAdd(cur, weight)
	if err != nil {
		return ZSet[A]{}, overflowError("Append", cur, weight)
	}
	out := make(map[A]int64, len(z.data)+1)
	for k, w := range z.data {
		out[k] = w
	}
	if sum == 0 {
		delete(out, key)
	} else {
		out[key] = sum
	}
	return FromMap(out), nil
}

// Multiply returns a new Z-set with every weight scaled by the given
// scalar. A scalar of zero produces the empty Z-set.
func (z ZSet[A]) Multiply(scalar int64) (ZSet[A], error) {
	if scalar == 0 {
		return ZSet[A]{}, nil
	}
	out := make(map[A]int64, len(z.data))
	for k, w := range z.data {
		product, err := checkedMul(w, scalar)
		if err != nil {
			return ZSet[A]{}, newInvariantError("Multiply", "weight overflow scaling by scalar", err)
		}
		out[k] = product
	}
	return FromMap(out), nil
}

// Equal reports whether two Z-sets have identical canonical
// key→weight mappings.
func (z ZSet[A]) Equal(other ZSet[A]) bool {
	if len(z.data) != len(other.data) {
		return false
	}
	for k, w := range z.data {
		if ow, ok := other.data[k]; !ok || ow != w {
			return false
		}
	}
	return true
}

// Keys returns the Z-set's keys in a stable, deterministic order
// (sorted by the supplied less function). Use this when iteration
// order must be reproducible, e.g. for snapshot comparisons.
func (z ZSet[A]) Keys(less func(a, b A) bool) []A {
	keys := make([]A, 0, len(z.data))
	for k := range z.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}

func checkedAdd(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, errOverflow
	}
	return sum, nil
}

func checkedMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/b != a {
		return 0, errOverflow
	}
	return product, nil
}

// CheckedMultiply multiplies two weights, returning an error instead
// of silently wrapping on int64 overflow (spec §7). Exported for
// collaborators outside this package — the stateful join's
// persistent-index joins — that need the same checked arithmetic the
// stateless operators above use.
func CheckedMultiply(op string, a, b int64) (int64, error) {
	product, err := checkedMul(a, b)
	if err != nil {
		return 0, overflowError(op, a, b)
	}
	return product, nil
}

// CheckedAdd adds two weights, returning an error instead of silently
// wrapping on int64 overflow. Exported for the same reason as
// CheckedMultiply.
func CheckedAdd(op string, a, b int64) (int64, error) {
	sum, err := checkedAdd(a, b)
	if err != nil {
		return 0, overflowError(op, a, b)
	}
	return sum, nil
}
