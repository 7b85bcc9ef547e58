package zset

import (
	"reflect"
	"sync"
)

// Record-slice pools for reducing allocations in the hot builder path
// of operators that assemble many (key, weight) pairs before a single
// MergeRecords call (EquiJoin, CartesianProduct, Project). Go generics
// give each instantiation Record[A] its own concrete type, so a single
// package-level sync.Pool cannot serve every A; instead we keep one
// pool per concrete slice type, created lazily and cached by
// reflect.Type, the way the teacher's ast package keeps one sync.Pool
// per concrete slice type it pools (selectExprSlicePool, exprSlicePool,
// ...) — generalized here into one cache instead of one var per type.
var recordPools sync.Map // map[reflect.Type]*sync.Pool

func recordPoolFor[A comparable]() *sync.Pool {
	var zero []Record[A]
	t := reflect.TypeOf(zero)
	if p, ok := recordPools.Load(t); ok {
		return p.(*sync.Pool)
	}
	pool := &sync.Pool{
		New: func() any {
			s := make([]Record[A], 0, 8)
			return &s
		},
	}
	actual, _ := recordPools.LoadOrStore(t, pool)
	return actual.(*sync.Pool)
}

// getRecordSlice returns a zero-length []Record[A] from the pool.
func getRecordSlice[A comparable]() *[]Record[A] {
	return recordPoolFor[A]().Get().(*[]Record[A])
}

// putRecordSlice clears and returns s to the pool. The caller must not
// use s after calling putRecordSlice.
func putRecordSlice[A comparable](s *[]Record[A]) {
	*s = (*s)[:0]
	recordPoolFor[A]().Put(s)
}
