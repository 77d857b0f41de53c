package snapshot

import (
	"encoding/binary"
	"sort"

	"flux/container"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint computes a stable structural hash of a snapshotted value: two
// values with the same shape and content hash identically regardless of
// which containers happen to be shared, which is what lets callers compare
// snapshots cheaply without a deep equality walk. Grounded on the pack's
// conformance loader's approach of hashing structured fixtures field by
// field rather than via reflection.
func Fingerprint(v any) [32]byte {
	h, _ := blake2b.New256(nil)
	writeValue(h, v)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func writeValue(h interface{ Write([]byte) (int, error) }, v any) {
	switch x := v.(type) {
	case nil:
		h.Write([]byte{0})
	case *container.Record:
		h.Write([]byte{1})
		keys := append([]string(nil), x.Keys()...)
		sort.Strings(keys)
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(len(keys)))
		h.Write(n[:])
		for _, k := range keys {
			writeString(h, k)
			val, _ := x.Get(k)
			writeValue(h, val)
		}
	case *container.Sequence:
		h.Write([]byte{2})
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(x.Len()))
		h.Write(n[:])
		for _, e := range x.Elements() {
			writeValue(h, e)
		}
	case string:
		h.Write([]byte{3})
		writeString(h, x)
	case bool:
		h.Write([]byte{4})
		if x {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case int:
		h.Write([]byte{5})
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(x))
		h.Write(n[:])
	case float64:
		h.Write([]byte{6})
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(int64(x*1e6)))
		h.Write(n[:])
	default:
		h.Write([]byte{7})
	}
}

func writeString(h interface{ Write([]byte) (int, error) }, s string) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}
