// Package topk implements the stateful top-K maintenance of spec
// §3.5/§4.7: an ordered sequence of positive-weight records backed by
// a B-tree, a key→position map, and the previously emitted snapshot
// used to compute each step's output delta.
package topk

import (
	"github.com/google/btree"

	"github.com/vela-stream/dbsp/internal/telemetry"
	"github.com/vela-stream/dbsp/zset"
)

// Comparator orders two records of T; negative means a sorts before
// b. Pass a comparator that sorts descending by whatever field ranks
// "best" first — item 0 of the ordered sequence is the highest-ranked
// record.
type Comparator[T any] func(a, b T) int

// Delta is one (record, weight-change) pair, used both as the input
// increment and as the emitted output delta. T need not be
// comparable — see identity.go for how records are keyed internally.
type Delta[T any] struct {
	Record T
	Weight int64
}

// Snapshot is the state exposed by GetCurrentState.
type Snapshot[T any] struct {
	TopK []T // current top-K window, in rank order
	Live int // count of records with strictly positive weight
}

type entry[T any] struct {
	key    string
	record T
	seq    int64
}

// StatefulTopK maintains the live top-K window [offset, offset+limit)
// of records ordered by cmp.
type StatefulTopK[T any] struct {
	cmp    Comparator[T]
	limit  int
	offset int

	resolver *identityResolver[T]

	tree    *btree.BTreeG[entry[T]]
	weights map[string]int64
	records map[string]T
	seqOf   map[string]int64
	nextSeq int64

	previous        zset.ZSet[string]
	previousRecords map[string]T

	log *telemetry.Logger
}

// New constructs an empty stateful top-K over limit records starting
// at offset, ordered by cmp. keyFunc may be nil, in which case records
// are identified per the fallback tiers of spec §4.7. log may be nil.
func New[T any](cmp Comparator[T], limit, offset int, keyFunc func(T) string, log *telemetry.Logger) *StatefulTopK[T] {
	return &StatefulTopK[T]{
		cmp:      cmp,
		limit:    limit,
		offset:   offset,
		resolver: newIdentityResolver(keyFunc),
		tree: btree.NewG(32, func(a, b entry[T]) bool {
			return lessEntry(cmp, a, b)
		}),
		weights:         make(map[string]int64),
		records:         make(map[string]T),
		seqOf:           make(map[string]int64),
		previous:        zset.Zero[string](),
		previousRecords: make(map[string]T),
		log:             log,
	}
}

func lessEntry[T any](cmp Comparator[T], a, b entry[T]) bool {
	c := cmp(a.record, b.record)
	if c != 0 {
		return c < 0
	}
	return a.seq < b.seq
}

// ProcessIncrement applies deltas to the live state following the
// §4.7 algorithm and returns the emitted delta: new_topK - previous
// in the group, expressed over the actual records rather than their
// internal identity keys.
func (s *StatefulTopK[T]) ProcessIncrement(deltas []Delta[T]) ([]Delta[T], error) {
	for _, d := range deltas {
		s.applyOne(d)
	}
	return s.materialize()
}

// ProcessInitial is the bulk-init fast path: valid only when the
// state is empty. It aggregates every delta by identity key once,
// drops non-positive totals, builds the ordered sequence in one pass,
// and emits the window once (spec §4.7).
func (s *StatefulTopK[T]) ProcessInitial(deltas []Delta[T]) ([]Delta[T], error) {
	type agg struct {
		record T
		weight int64
		seq    int64
	}
	totals := make(map[string]*agg)
	for _, d := range deltas {
		key := s.resolver.key(d.Record)
		if a, ok := totals[key]; ok {
			a.weight += d.Weight
			continue
		}
		totals[key] = &agg{record: d.Record, weight: d.Weight, seq: s.nextSeq}
		s.nextSeq++
	}
	for key, a := range totals {
		if a.weight <= 0 {
			continue
		}
		s.weights[key] = a.weight
		s.records[key] = a.record
		s.seqOf[key] = a.seq
		s.tree.ReplaceOrInsert(entry[T]{key: key, record: a.record, seq: a.seq})
	}
	return s.materialize()
}

func (s *StatefulTopK[T]) applyOne(d Delta[T]) {
	key := s.resolver.key(d.Record)
	cur, exists := s.weights[key]
	if !exists {
		if d.Weight <= 0 {
			return // cannot remove what is not there
		}
		s.weights[key] = d.Weight
		s.records[key] = d.Record
		s.seqOf[key] = s.nextSeq
		s.tree.ReplaceOrInsert(entry[T]{key: key, record: d.Record, seq: s.nextSeq})
		s.nextSeq++
		return
	}
	next := cur + d.Weight
	if next <= 0 {
		existing := entry[T]{key: key, record: s.records[key], seq: s.seqOf[key]}
		delete(s.weights, key)
		delete(s.records, key)
		delete(s.seqOf, key)
		s.tree.Delete(existing)
		return
	}
	s.weights[key] = next
	// weight changes never move an entry's rank, since the
	// comparator only looks at the record, not its weight.
}

// materialize recomputes the key→position map implicitly (via the
// B-tree's order), takes the [offset, offset+limit) window, diffs it
// against the previously emitted snapshot, and stores the new
// snapshot as previous.
func (s *StatefulTopK[T]) materialize() ([]Delta[T], error) {
	window := make(map[string]int64)
	newRecords := make(map[string]T)
	i := 0
	s.tree.Ascend(func(e entry[T]) bool {
		if i >= s.offset && i < s.offset+s.limit {
			window[e.key] = 1
			newRecords[e.key] = e.record
		}
		i++
		return i < s.offset+s.limit
	})
	newTopK := zset.FromMap(window)

	deltaSet, err := zset.SubtractZSets(newTopK, s.previous)
	if err != nil {
		return nil, err
	}

	out := make([]Delta[T], 0, deltaSet.Len())
	for key, w := range deltaSet.Data() {
		var rec T
		if w > 0 {
			rec = newRecords[key]
		} else {
			rec = s.previousRecords[key]
		}
		out = append(out, Delta[T]{Record: rec, Weight: w})
	}

	s.previous = newTopK
	s.previousRecords = newRecords

	s.log.Debug("topk.process_increment",
		telemetry.Int("live", len(s.weights)),
		telemetry.Int("delta_out", len(out)),
	)

	return out, nil
}

// GetCurrentState returns the current top-K window in rank order and
// the count of live (positive-weight) records.
func (s *StatefulTopK[T]) GetCurrentState() Snapshot[T] {
	window := make([]T, 0, s.limit)
	i := 0
	s.tree.Ascend(func(e entry[T]) bool {
		if i >= s.offset && i < s.offset+s.limit {
			window = append(window, e.record)
		}
		i++
		return i < s.offset+s.limit
	})
	return Snapshot[T]{TopK: window, Live: len(s.weights)}
}

// Reset zeroes every internal structure atomically (spec §5).
func (s *StatefulTopK[T]) Reset() {
	s.tree.Clear(false)
	s.weights = make(map[string]int64)
	s.records = make(map[string]T)
	s.seqOf = make(map[string]int64)
	s.previous = zset.Zero[string]()
	s.previousRecords = make(map[string]T)
	s.nextSeq = 0
}
