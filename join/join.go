// Package join implements the stateful equi-join of spec §4.6: two
// persistent hash-indexes plus a materialized-view map, updated by the
// three-term bilinear delta formula of §4.4 instead of recomputing the
// whole join on every increment.
package join

import (
	"github.com/vela-stream/dbsp/internal/telemetry"
	"github.com/vela-stream/dbsp/zset"
)

// StatefulJoin maintains the incremental equi-join of two relations T
// and U on a shared key domain K, keyed by keyA and keyB respectively.
type StatefulJoin[T, U, K comparable] struct {
	keyA func(T) K
	keyB func(U) K

	indexA map[K][]zset.Record[T]
	indexB map[K][]zset.Record[U]

	view map[zset.Pair[T, U]]int64

	lastProcessedTime int
	log               *telemetry.Logger
}

// New constructs an empty stateful join keyed by keyA and keyB. log
// may be nil.
func New[T, U, K comparable](keyA func(T) K, keyB func(U) K, log *telemetry.Logger) *StatefulJoin[T, U, K] {
	return &StatefulJoin[T, U, K]{
		keyA:   keyA,
		keyB:   keyB,
		indexA: make(map[K][]zset.Record[T]),
		indexB: make(map[K][]zset.Record[U]),
		view:   make(map[zset.Pair[T, U]]int64),
		log:    log,
	}
}

// Initialize seeds the join from empty state; it is exactly
// ProcessIncrement(a, b) starting from empty state (spec §4.6).
func (j *StatefulJoin[T, U, K]) Initialize(a zset.ZSet[T], b zset.ZSet[U]) (zset.ZSet[zset.Pair[T, U]], error) {
	return j.ProcessIncrement(a, b)
}

// ProcessIncrement applies deltaA and deltaB following the §4.6
// algorithm: term1 = join(Δa, Δb) over a scratch index; term2 =
// join(Δa, indexB); term3 = join(indexA, Δb); delta = canonicalize
// of their sum. The indexes and materialized view are updated last,
// and delta is returned.
func (j *StatefulJoin[T, U, K]) ProcessIncrement(deltaA zset.ZSet[T], deltaB zset.ZSet[U]) (zset.ZSet[zset.Pair[T, U]], error) {
	j.lastProcessedTime++

	var terms []zset.ZSet[zset.Pair[T, U]]

	if !deltaA.IsEmpty() && !deltaB.IsEmpty() {
		term1, err := zset.EquiJoin(deltaA, deltaB, j.keyA, j.keyB)
		if err != nil {
			return zset.Zero[zset.Pair[T, U]](), err
		}
		terms = append(terms, term1)
	}
	if !deltaA.IsEmpty() {
		term2, err := joinAgainstIndex(deltaA, j.indexB, j.keyA)
		if err != nil {
			return zset.Zero[zset.Pair[T, U]](), err
		}
		terms = append(terms, term2)
	}
	if !deltaB.IsEmpty() {
		term3, err := joinIndexAgainst(j.indexA, deltaB, j.keyB)
		if err != nil {
			return zset.Zero[zset.Pair[T, U]](), err
		}
		terms = append(terms, term3)
	}

	delta, err := sumTerms(terms)
	if err != nil {
		return zset.Zero[zset.Pair[T, U]](), err
	}

	for k, w := range deltaA.Data() {
		j.indexA[j.keyA(k)] = append(j.indexA[j.keyA(k)], zset.Record[T]{Key: k, Weight: w})
	}
	for k, w := range deltaB.Data() {
		j.indexB[j.keyB(k)] = append(j.indexB[j.keyB(k)], zset.Record[U]{Key: k, Weight: w})
	}

	for k, w := range delta.Data() {
		j.applyToView(k, w)
	}

	j.log.Debug("join.process_increment",
		telemetry.Int("delta_a", deltaA.Len()),
		telemetry.Int("delta_b", deltaB.Len()),
		telemetry.Int("delta_out", delta.Len()),
		telemetry.Int64("step", int64(j.lastProcessedTime)),
	)

	return delta, nil
}

func (j *StatefulJoin[T, U, K]) applyToView(key zset.Pair[T, U], w int64) {
	cur := j.view[key]
	next := cur + w
	if next == 0 {
		delete(j.view, key)
		return
	}
	j.view[key] = next
}

// GetMaterializedView converts the view map to a Z-set; O(|view|)
// (spec §4.6).
func (j *StatefulJoin[T, U, K]) GetMaterializedView() zset.ZSet[zset.Pair[T, U]] {
	m := make(map[zset.Pair[T, U]]int64, len(j.view))
	for k, w := range j.view {
		m[k] = w
	}
	return zset.FromMap(m)
}

// GetIndexes exposes the persistent indexes for debugging (spec §6,
// "get_indexes (debug)"). Callers must not mutate the returned slices.
func (j *StatefulJoin[T, U, K]) GetIndexes() (indexA map[K][]zset.Record[T], indexB map[K][]zset.Record[U]) {
	return j.indexA, j.indexB
}

// Reset zeroes every internal structure atomically (spec §5).
func (j *StatefulJoin[T, U, K]) Reset() {
	j.indexA = make(map[K][]zset.Record[T])
	j.indexB = make(map[K][]zset.Record[U])
	j.view = make(map[zset.Pair[T, U]]int64)
	j.lastProcessedTime = 0
}

func joinAgainstIndex[T, U, K comparable](delta zset.ZSet[T], index map[K][]zset.Record[U], keyA func(T) K) (zset.ZSet[zset.Pair[T, U]], error) {
	records := make([]zset.Record[zset.Pair[T, U]], 0)
	for a, wa := range delta.Data() {
		for _, rb := range index[keyA(a)] {
			product, err := zset.CheckedMultiply("StatefulJoin.ProcessIncrement", wa, rb.Weight)
			if err != nil {
				return zset.Zero[zset.Pair[T, U]](), err
			}
			if product == 0 {
				continue
			}
			records = append(records, zset.Record[zset.Pair[T, U]]{
				Key:    zset.Pair[T, U]{First: a, Second: rb.Key},
				Weight: product,
			})
		}
	}
	return zset.MergeRecords(records)
}

func joinIndexAgainst[T, U, K comparable](index map[K][]zset.Record[T], delta zset.ZSet[U], keyB func(U) K) (zset.ZSet[zset.Pair[T, U]], error) {
	records := make([]zset.Record[zset.Pair[T, U]], 0)
	for b, wb := range delta.Data() {
		for _, ra := range index[keyB(b)] {
			product, err := zset.CheckedMultiply("StatefulJoin.ProcessIncrement", ra.Weight, wb)
			if err != nil {
				return zset.Zero[zset.Pair[T, U]](), err
			}
			if product == 0 {
				continue
			}
			records = append(records, zset.Record[zset.Pair[T, U]]{
				Key:    zset.Pair[T, U]{First: ra.Key, Second: b},
				Weight: product,
			})
		}
	}
	return zset.MergeRecords(records)
}

func sumTerms[T, U comparable](terms []zset.ZSet[zset.Pair[T, U]]) (zset.ZSet[zset.Pair[T, U]], error) {
	if len(terms) == 0 {
		return zset.Zero[zset.Pair[T, U]](), nil
	}
	sum := terms[0]
	var err error
	for _, t := range terms[1:] {
		sum, err = zset.Add(sum, t)
		if err != nil {
			return zset.Zero[zset.Pair[T, U]](), err
		}
	}
	return sum, nil
}
