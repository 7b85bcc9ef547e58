package zset

import (
	"testing"

	"pgregory.net/rapid"
)

var domainGen = rapid.SampledFrom([]string{"a", "b", "c", "d", "e"})

func zsetGen() *rapid.Generator[ZSet[string]] {
	return rapid.Custom(func(t *rapid.T) ZSet[string] {
		n := rapid.IntRange(0, 6).Draw(t, "n")
		records := make([]Record[string], 0, n)
		for i := 0; i < n; i++ {
			key := domainGen.Draw(t, "key")
			weight := rapid.Int64Range(-5, 5).Draw(t, "weight")
			records = append(records, Record[string]{Key: key, Weight: weight})
		}
		z, err := MergeRecords(records)
		if err != nil {
			t.Fatalf("MergeRecords: %v", err)
		}
		return z
	})
}

// TestGroupLawCommutativity covers spec §8.1.
func TestGroupLawCommutativity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := zsetGen().Draw(t, "a")
		b := zsetGen().Draw(t, "b")
		ab, err := Add(a, b)
		if err != nil {
			t.Skip("overflow")
		}
		ba, err := Add(b, a)
		if err != nil {
			t.Skip("overflow")
		}
		if !ab.Equal(ba) {
			t.Fatalf("a+b != b+a: %v vs %v", ab.Data(), ba.Data())
		}
	})
}

// TestGroupLawAssociativity covers spec §8.1.
func TestGroupLawAssociativity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := zsetGen().Draw(t, "a")
		b := zsetGen().Draw(t, "b")
		c := zsetGen().Draw(t, "c")
		ab, err := Add(a, b)
		if err != nil {
			t.Skip("overflow")
		}
		abc1, err := Add(ab, c)
		if err != nil {
			t.Skip("overflow")
		}
		bc, err := Add(b, c)
		if err != nil {
			t.Skip("overflow")
		}
		abc2, err := Add(a, bc)
		if err != nil {
			t.Skip("overflow")
		}
		if !abc1.Equal(abc2) {
			t.Fatalf("(a+b)+c != a+(b+c): %v vs %v", abc1.Data(), abc2.Data())
		}
	})
}

// TestGroupLawIdentity covers spec §8.1: a + 0 = a.
func TestGroupLawIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := zsetGen().Draw(t, "a")
		sum, err := Add(a, Zero[string]())
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if !sum.Equal(a) {
			t.Fatalf("a+0 != a: %v vs %v", sum.Data(), a.Data())
		}
	})
}

// TestGroupLawInverse covers spec §8.1: a + (-a) = 0.
func TestGroupLawInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := zsetGen().Draw(t, "a")
		sum, err := Add(a, Negate(a))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if !sum.IsEmpty() {
			t.Fatalf("a+(-a) != 0: %v", sum.Data())
		}
	})
}

// TestMergeRecordsIdempotentProperty covers spec §8.2 for arbitrary inputs.
func TestMergeRecordsIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := zsetGen().Draw(t, "a")
		records := make([]Record[string], 0, a.Len())
		for k, w := range a.Data() {
			records = append(records, Record[string]{Key: k, Weight: w})
		}
		again, err := MergeRecords(records)
		if err != nil {
			t.Fatalf("MergeRecords: %v", err)
		}
		if !again.Equal(a) {
			t.Fatalf("merge(merge(x)) != merge(x)")
		}
		for _, w := range again.Data() {
			if w == 0 {
				t.Fatalf("canonical form retained a zero weight")
			}
		}
	})
}

// TestFilterIsLinear covers spec §8.3.
func TestFilterIsLinear(t *testing.T) {
	pred := func(k string) bool { return k < "c" }
	rapid.Check(t, func(t *rapid.T) {
		a := zsetGen().Draw(t, "a")
		b := zsetGen().Draw(t, "b")
		sum, err := Add(a, b)
		if err != nil {
			t.Skip("overflow")
		}
		lhs := Filter(sum, pred)
		fa := Filter(a, pred)
		fb := Filter(b, pred)
		rhs, err := Add(fa, fb)
		if err != nil {
			t.Skip("overflow")
		}
		if !lhs.Equal(rhs) {
			t.Fatalf("filter(a+b) != filter(a)+filter(b): %v vs %v", lhs.Data(), rhs.Data())
		}
	})
}

// TestDistinctIsIdempotent covers spec §8.5.
func TestDistinctIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := zsetGen().Draw(t, "a")
		once := Distinct(a)
		twice := Distinct(once)
		if !once.Equal(twice) {
			t.Fatalf("distinct(distinct(x)) != distinct(x)")
		}
	})
}

// TestJoinIsBilinear covers spec §8.4.
func TestJoinIsBilinear(t *testing.T) {
	identity := func(s string) string { return s }
	rapid.Check(t, func(t *rapid.T) {
		a1 := zsetGen().Draw(t, "a1")
		a2 := zsetGen().Draw(t, "a2")
		b := zsetGen().Draw(t, "b")
		a1a2, err := Add(a1, a2)
		if err != nil {
			t.Skip("overflow")
		}
		lhs, err := EquiJoin(a1a2, b, identity, identity)
		if err != nil {
			t.Skip("overflow")
		}
		j1, err := EquiJoin(a1, b, identity, identity)
		if err != nil {
			t.Skip("overflow")
		}
		j2, err := EquiJoin(a2, b, identity, identity)
		if err != nil {
			t.Skip("overflow")
		}
		rhs, err := Add(j1, j2)
		if err != nil {
			t.Skip("overflow")
		}
		if !lhs.Equal(rhs) {
			t.Fatalf("join(a1+a2,b) != join(a1,b)+join(a2,b)")
		}
	})
}
