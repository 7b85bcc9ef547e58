package zset

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders two elements of A for top-K ranking: negative if a
// ranks before b, positive if after, zero on a tie. It must be total
// and transitive (spec §6).
type Comparator[A any] func(a, b A) int

// TopK canonicalizes z, drops every non-positive-weight key, sorts the
// remainder by cmp, and returns the window [offset, offset+limit) with
// every surviving weight capped at 1 (set semantics on the output,
// spec §4.1). Because a bare Z-set carries no record of the order its
// entries were built in, ties that cmp reports as equal are broken by
// a deterministic (but not otherwise meaningful) rendering of the key;
// this keeps TopK a pure function of its input as required of every
// stateless operator in this package. The stateful top-K maintainer in
// package topk instead breaks ties by true insertion order, since it
// actually observes the arrival sequence (spec §9's Open Question).
func TopK[A comparable](z ZSet[A], cmp Comparator[A], limit, offset int) ZSet[A] {
	type candidate struct {
		key A
		tie string
	}
	candidates := make([]candidate, 0, len(z.data))
	for k, w := range z.data {
		if w > 0 {
			candidates = append(candidates, candidate{key: k, tie: fmt.Sprintf("%v", k)})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if c := cmp(candidates[i].key, candidates[j].key); c != 0 {
			return c < 0
		}
		return candidates[i].tie < candidates[j].tie
	})
	lo := offset
	if lo > len(candidates) {
		lo = len(candidates)
	}
	hi := offset + limit
	if hi > len(candidates) {
		hi = len(candidates)
	}
	if hi < lo {
		hi = lo
	}
	out := make(map[A]int64, hi-lo)
	for _, c := range candidates[lo:hi] {
		out[c.key] = 1
	}
	return FromMap(out)
}

// DefaultStringComparator returns a locale-aware, total comparator
// over string-keyed records, suitable for use as a top-K Comparator
// when ranking should follow collation order rather than raw byte
// order. It is offered as a convenience; callers with a field-specific
// sort (price descending, timestamp ascending, ...) should write their
// own Comparator instead.
func DefaultStringComparator(tag language.Tag) Comparator[string] {
	c := collate.New(tag)
	return func(a, b string) int {
		return c.CompareString(a, b)
	}
}
