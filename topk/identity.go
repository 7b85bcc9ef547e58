package topk

import (
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kr/pretty"
)

// identityResolver derives a stable string identity for records of
// type T, following the three tiers of spec §4.7 ("identity key
// policy"): a user-supplied key function is always preferred; failing
// that, reference-typed records use their pointer address; value
// types fall back to a content hash.
//
// Two caches back that content-hash tier. Records whose type is
// itself comparable (no nested slices/maps/funcs) are looked up
// directly by value in valueCache, so a record recurring across many
// increments skips the reflection-based pretty.Sprint entirely on a
// cache hit. Records that aren't comparable have no cheaper pre-image
// than their own serialization, so they must be serialized on every
// lookup to produce a key; hashCache there only memoizes the fnv hash
// of that serialization, not the serialization itself.
type identityResolver[T any] struct {
	keyFunc    func(T) string
	valueCache *lru.Cache[any, string]
	hashCache  *lru.Cache[string, string]
}

const defaultHashCacheSize = 4096

func newIdentityResolver[T any](keyFunc func(T) string) *identityResolver[T] {
	r := &identityResolver[T]{keyFunc: keyFunc}
	if keyFunc == nil {
		valueCache, err := lru.New[any, string](defaultHashCacheSize)
		if err != nil {
			panic(err) // only fails for a non-positive size, which defaultHashCacheSize never is
		}
		hashCache, err := lru.New[string, string](defaultHashCacheSize)
		if err != nil {
			panic(err)
		}
		r.valueCache = valueCache
		r.hashCache = hashCache
	}
	return r
}

func (r *identityResolver[T]) key(v T) string {
	if r.keyFunc != nil {
		return r.keyFunc(v)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return pointerKey(rv.Pointer())
	}

	if rv.Comparable() {
		if cached, ok := r.valueCache.Get(v); ok {
			return cached
		}
		hash := contentHash(pretty.Sprint(v))
		r.valueCache.Add(v, hash)
		return hash
	}

	serialized := pretty.Sprint(v)
	if cached, ok := r.hashCache.Get(serialized); ok {
		return cached
	}
	hash := contentHash(serialized)
	r.hashCache.Add(serialized, hash)
	return hash
}
