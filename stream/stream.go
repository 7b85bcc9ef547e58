// Package stream implements Stream[A]: a sparse, time-indexed container
// of elements of an abelian group, and the stream calculus built on top
// of it — lift, delay, integrate, differentiate, and the
// incrementalization construction Q^Δ = D ∘ Q ∘ I (spec §3.3, §4.2).
package stream

import (
	"sort"

	"github.com/vela-stream/dbsp/zset"
)

// Entry is one explicitly-set (time, value) pair of a Stream, as
// returned by Entries.
type Entry[A any] struct {
	Time  int
	Value A
}

// Stream is a total function ℕ → A for a value type A belonging to the
// abelian group g: At(t) returns the stored value at t, or the group
// zero if t was never set (spec §3.3). A freshly constructed Stream
// (via New) always obeys that invariant strictly. The exception is
// the stream produced by Integrate, which carries an explicit "tail"
// default for times beyond the highest time its input set — see
// Integrate's doc comment for why, per spec §4.2's Open Question
// resolution and the I/D round-trip law of spec §8.6 — and the stream
// produced by Lift from such an input, which carries f applied to that
// tail. Every other constructor in this package returns a plain,
// tail-free Stream.
type Stream[A any] struct {
	group    zset.Group[A]
	values   map[int]A
	tail     *A
	tailFrom int
}

// New returns an empty stream over the abelian group g.
func New[A any](g zset.Group[A]) *Stream[A] {
	return &Stream[A]{group: g, values: make(map[int]A)}
}

// At returns the value at time t, or the group zero if t was never
// explicitly set (and t falls before any tail boundary — see Stream's
// doc comment).
func (s *Stream[A]) At(t int) A {
	if v, ok := s.values[t]; ok {
		return v
	}
	if s.tail != nil && t >= s.tailFrom {
		return *s.tail
	}
	return s.group.Zero()
}

// Set stores v at time t, overwriting any previous value there.
func (s *Stream[A]) Set(t int, v A) {
	s.values[t] = v
}

// setTail installs a persisting default for every t >= from. Used by
// Integrate (see its doc comment) and by Lift to carry an input tail
// through f.
func (s *Stream[A]) setTail(from int, v A) {
	s.tailFrom = from
	s.tail = &v
}

// CurrentTime is the smallest t' such that At(t) is guaranteed zero
// for every t >= t'. Operationally this is max(set-time)+1, or 0 if
// the stream has nothing explicitly set (spec §3.3). A tail does not
// count toward this: CurrentTime describes the explicit-entry
// watermark, not where a persisting default takes over.
func (s *Stream[A]) CurrentTime() int {
	max := -1
	for t := range s.values {
		if t > max {
			max = t
		}
	}
	return max + 1
}

// Entries returns every explicitly-set (time, value) pair, sorted by
// time. Stream operators must iterate only over Entries, never over
// an unbounded time axis (spec §4.2 preamble).
func (s *Stream[A]) Entries() []Entry[A] {
	out := make([]Entry[A], 0, len(s.values))
	for t, v := range s.values {
		out = append(out, Entry[A]{Time: t, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// MaxSetTime returns the largest explicitly-set time, or -1 if the
// stream has nothing set.
func (s *Stream[A]) MaxSetTime() int {
	max := -1
	for t := range s.values {
		if t > max {
			max = t
		}
	}
	return max
}
