package zset

// Filter retains every (key, weight) pair whose key satisfies pred,
// preserving weights. Filter is linear: Filter(a+b, pred) ==
// Filter(a, pred) + Filter(b, pred) (spec §4.1, §8.3).
func Filter[A comparable](z ZSet[A], pred func(A) bool) ZSet[A] {
	out := make(map[A]int64, len(z.data))
	for k, w := range z.data {
		if pred(k) {
			out[k] = w
		}
	}
	return FromMap(out)
}

// Project maps every key through proj and sums the weights of
// records that collide under the projection. Project is linear in
// its input Z-set.
func Project[A, B comparable](z ZSet[A], proj func(A) B) (ZSet[B], error) {
	records := getRecordSlice[B]()
	defer putRecordSlice(records)
	for k, w := range z.data {
		*records = append(*records, Record[B]{Key: proj(k), Weight: w})
	}
	return MergeRecords(*records)
}

// CartesianProduct pairs every record of a with every record of b,
// multiplying weights and dropping zero products. Bilinear in a and
// b (spec §4.1, §8.4 generalizes the bilinearity law to every
// bilinear operator here).
func CartesianProduct[A, B comparable](a ZSet[A], b ZSet[B]) (ZSet[Pair[A, B]], error) {
	records := getRecordSlice[Pair[A, B]]()
	defer putRecordSlice(records)
	for ka, wa := range a.data {
		for kb, wb := range b.data {
			product, err := checkedMul(wa, wb)
			if err != nil {
				return ZSet[Pair[A, B]]{}, overflowError("CartesianProduct", wa, wb)
			}
			if product == 0 {
				continue
			}
			*records = append(*records, Record[Pair[A, B]]{Key: Pair[A, B]{First: ka, Second: kb}, Weight: product})
		}
	}
	return MergeRecords(*records)
}

// EquiJoin builds a temporary hash index on b keyed by keyB, then for
// every record of a emits a joined pair with every matching record of
// b, multiplying weights. This is the stateless form of spec §4.1;
// the index here is scratch space for a single call, never retained —
// contrast with the persistent index of the stateful join (§4.6,
// package join).
func EquiJoin[A, B comparable, K comparable](a ZSet[A], b ZSet[B], keyA func(A) K, keyB func(B) K) (ZSet[Pair[A, B]], error) {
	index := make(map[K][]Record[B])
	for kb, wb := range b.data {
		k := keyB(kb)
		index[k] = append(index[k], Record[B]{Key: kb, Weight: wb})
	}
	records := getRecordSlice[Pair[A, B]]()
	defer putRecordSlice(records)
	for ka, wa := range a.data {
		for _, rb := range index[keyA(ka)] {
			product, err := checkedMul(wa, rb.Weight)
			if err != nil {
				return ZSet[Pair[A, B]]{}, overflowError("EquiJoin", wa, rb.Weight)
			}
			if product == 0 {
				continue
			}
			*records = append(*records, Record[Pair[A, B]]{Key: Pair[A, B]{First: ka, Second: rb.Key}, Weight: product})
		}
	}
	return MergeRecords(*records)
}

// Intersect is an equi-join with the identity key on both sides,
// emitting each shared record once with the product of its weights
// (spec §4.1).
func Intersect[A comparable](a, b ZSet[A]) (ZSet[A], error) {
	records := make([]Record[A], 0, minInt(len(a.data), len(b.data)))
	for k, wa := range a.data {
		wb, ok := b.data[k]
		if !ok {
			continue
		}
		product, err := checkedMul(wa, wb)
		if err != nil {
			return ZSet[A]{}, overflowError("Intersect", wa, wb)
		}
		if product == 0 {
			continue
		}
		records = append(records, Record[A]{Key: k, Weight: product})
	}
	return MergeRecords(records)
}

// Distinct canonicalizes z and emits weight 1 for every key whose
// consolidated weight is strictly positive; all other keys are
// dropped (spec §4.1). Distinct is idempotent: Distinct(Distinct(x))
// == Distinct(x) (spec §8.5).
func Distinct[A comparable](z ZSet[A]) ZSet[A] {
	out := make(map[A]int64, len(z.data))
	for k, w := range z.data {
		if w > 0 {
			out[k] = 1
		}
	}
	return FromMap(out)
}

// Union is distinct(add(a, b)) (spec §4.1).
func Union[A comparable](a, b ZSet[A]) (ZSet[A], error) {
	sum, err := Add(a, b)
	if err != nil {
		return ZSet[A]{}, err
	}
	return Distinct(sum), nil
}

// Difference is distinct(subtract(a, b)) (spec §4.1).
func Difference[A comparable](a, b ZSet[A]) (ZSet[A], error) {
	diff, err := SubtractZSets(a, b)
	if err != nil {
		return ZSet[A]{}, err
	}
	return Distinct(diff), nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
