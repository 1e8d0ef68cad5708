package d3d11

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// fieldHasher accumulates normalized field values. Hashing the encoded
// fields rather than the raw struct keeps padding bytes and non-canonical
// BOOL values out of the hash.
type fieldHasher struct {
	buf []byte
}

func newFieldHasher(capacity int) fieldHasher {
	return fieldHasher{buf: make([]byte, 0, capacity)}
}

func (h *fieldHasher) u32(v uint32) {
	h.buf = binary.LittleEndian.AppendUint32(h.buf, v)
}

func (h *fieldHasher) i32(v int32) { h.u32(uint32(v)) }

func (h *fieldHasher) sum() uint64 {
	return xxhash.Sum64(h.buf)
}
