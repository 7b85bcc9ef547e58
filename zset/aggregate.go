package zset

import "github.com/juju/errors"

// Count returns the sum of all weights in z (spec §4.1).
func Count[A comparable](z ZSet[A]) (int64, error) {
	var total int64
	for _, w := range z.data {
		var err error
		total, err = checkedAdd(total, w)
		if err != nil {
			return 0, overflowError("Count", total, w)
		}
	}
	return total, nil
}

// Sum returns Σ f(x)·w_x over every record in z (spec §4.1).
func Sum[A comparable](z ZSet[A], f func(A) int64) (int64, error) {
	var total int64
	for k, w := range z.data {
		fk := f(k)
		term, err := checkedMul(fk, w)
		if err != nil {
			return 0, overflowError("Sum", fk, w)
		}
		total, err = checkedAdd(total, term)
		if err != nil {
			return 0, overflowError("Sum", total, term)
		}
	}
	return total, nil
}

// Average returns Sum(z, f) / Count(z). It is undefined, and returns
// an error, when Count(z) is zero (spec §4.1).
func Average[A comparable](z ZSet[A], f func(A) int64) (float64, error) {
	count, err := Count(z)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, errors.NewNotValid(nil, "average of empty Z-set is undefined")
	}
	sum, err := Sum(z, f)
	if err != nil {
		return 0, err
	}
	return float64(sum) / float64(count), nil
}

// GroupBy partitions z by k, preserving weights within each group.
// GroupBy is linear in the key function (spec §4.1).
func GroupBy[A comparable, K comparable](z ZSet[A], k func(A) K) map[K]ZSet[A] {
	builders := make(map[K][]Record[A])
	for key, w := range z.data {
		group := k(key)
		builders[group] = append(builders[group], Record[A]{Key: key, Weight: w})
	}
	out := make(map[K]ZSet[A], len(builders))
	for group, records := range builders {
		zs, err := MergeRecords(records)
		if err != nil {
			// The keys of z are distinct, so MergeRecords never sums two
			// weights here and cannot overflow; a group whose merge did
			// fail would be left out of the result, without an error.
			continue
		}
		out[group] = zs
	}
	return out
}
