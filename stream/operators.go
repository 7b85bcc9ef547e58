package stream

import "github.com/vela-stream/dbsp/zset"

// Lift promotes a per-value function f into a per-time function over
// streams: (↑f)(s)[t] = f(s[t]) (spec §4.2). Lift only visits the
// explicitly-set entries of s, never an unbounded time axis.
//
// f is required to map the zero of groupA to the zero of groupB —
// every relational operator wrapped by this package's circuit layer
// satisfies that (an empty input always produces an empty output), and
// without it the lifted stream could not be represented with a finite
// number of explicit entries, since s[t]=zero for every t not in
// s.Entries() and Lift would then need f(zero) at infinitely many
// times to be faithful.
func Lift[A, B any](groupA zset.Group[A], groupB zset.Group[B], f func(A) B) func(*Stream[A]) *Stream[B] {
	return func(s *Stream[A]) *Stream[B] {
		out := New(groupB)
		for _, e := range s.Entries() {
			out.Set(e.Time, f(e.Value))
		}
		// Propagate a persisting input tail (as produced by Integrate)
		// through f, so a lift fed an integrated stream stays faithful
		// past the input's highest explicit time instead of silently
		// reverting to the output group's zero there.
		if s.tail != nil {
			out.setTail(s.tailFrom, f(*s.tail))
		}
		return out
	}
}

// Delay is the shift operator z⁻¹: (z⁻¹s)[0] = def; (z⁻¹s)[t+1] = s[t]
// (spec §4.2). def is ordinarily the group zero, but callers may pass
// a different seed value — used, for instance, to prime an
// accumulator with a non-empty starting state before the first real
// input arrives (spec §8, S4).
func Delay[A any](g zset.Group[A], def A) func(*Stream[A]) *Stream[A] {
	return func(s *Stream[A]) *Stream[A] {
		out := New(g)
		out.Set(0, def)
		for _, e := range s.Entries() {
			out.Set(e.Time+1, e.Value)
		}
		return out
	}
}

// Integrate is I: I(s)[t] = Σ_{i<=t} s[i] (spec §4.2). It emits at
// every t in [0, t_max(s)], including times where the running total
// happens to be the group zero — integration is gap-inclusive, not
// sparse, because the running total can become and stay nonzero
// across a gap in s.
//
// For t beyond t_max(s) the result is the final running total,
// persisting rather than reverting to the group zero. This is the
// resolution of the spec's integrate/differentiate Open Question: the
// alternative (treating every unset time as zero, even past t_max)
// would make D(I(s)) != s whenever s's values don't sum back to zero,
// breaking the I/D round-trip law (spec §8.6). The persisting value is
// carried as the stream's tail default rather than materialized at
// every future time, so Differentiate below can still work from a
// finite set of candidate times.
func Integrate[A any](g zset.Group[A]) func(*Stream[A]) *Stream[A] {
	return func(s *Stream[A]) *Stream[A] {
		out := New(g)
		tmax := s.MaxSetTime()
		acc := g.Zero()
		for t := 0; t <= tmax; t++ {
			acc = g.Add(acc, s.At(t))
			out.Set(t, acc)
		}
		if tmax >= 0 {
			out.setTail(tmax+1, acc)
		}
		return out
	}
}

// Differentiate is D: D(s)[t] = s[t] - s[t-1], with s[-1] defined as
// the group zero (spec §4.2). It emits at every t where either s[t]
// or s[t-1] is possibly nonzero — the union of s's set times and
// those times shifted by one — which is always a finite set even when
// s carries a persisting tail (as Integrate's output does), because
// beyond that tail boundary consecutive values are identical and the
// difference is the group zero by construction.
func Differentiate[A any](g zset.Group[A]) func(*Stream[A]) *Stream[A] {
	return func(s *Stream[A]) *Stream[A] {
		out := New(g)
		seen := make(map[int]struct{})
		for _, e := range s.Entries() {
			seen[e.Time] = struct{}{}
			seen[e.Time+1] = struct{}{}
		}
		for t := range seen {
			if t < 0 {
				continue
			}
			prev := g.Zero()
			if t > 0 {
				prev = s.At(t - 1)
			}
			out.Set(t, g.Add(s.At(t), g.Negate(prev)))
		}
		return out
	}
}

// Incrementalize builds Q^Δ = D ∘ Q ∘ I for a batch query Q, turning a
// whole-relation query into a function over streams of changes (spec
// §4.3). The returned function recomputes Q from scratch on the
// integrated input at every call; it exists to state and test the
// construction, not as the production evaluation path — the circuit
// package's stateful and bilinear operators are the incremental
// realizations that avoid recomputing Q.
func Incrementalize[A, B any](groupA zset.Group[A], groupB zset.Group[B], q func(A) B) func(*Stream[A]) *Stream[B] {
	integrate := Integrate(groupA)
	differentiate := Differentiate(groupB)
	lifted := Lift(groupA, groupB, q)
	return func(s *Stream[A]) *Stream[B] {
		return differentiate(lifted(integrate(s)))
	}
}
