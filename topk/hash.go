package topk

import (
	"hash/fnv"
	"strconv"
)

// contentHash reduces a stable serialization to a short string usable
// as a map key. fnv-1a is fine here: collisions would merge two
// distinct records into one top-K slot, an acceptable risk for the
// identity-key fallback tier, which callers can always avoid entirely
// by supplying a real key function.
func contentHash(serialized string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(serialized))
	return strconv.FormatUint(h.Sum64(), 36)
}

func pointerKey(addr uintptr) string {
	return "ptr:" + strconv.FormatUint(uint64(addr), 16)
}
