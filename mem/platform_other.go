//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || windows)

package mem

import (
	"sync"
	"unsafe"
)

// Platforms without anonymous mappings fall back to pinned Go heap blocks.
// The Go collector never moves objects, so a block stays at its address for
// as long as the table references it.
var heap struct {
	sync.Mutex
	blocks map[unsafe.Pointer][]uint64
}

func platformAlloc(size uintptr) (unsafe.Pointer, error) {
	block := make([]uint64, (size+7)/8)
	p := unsafe.Pointer(unsafe.SliceData(block))

	heap.Lock()
	defer heap.Unlock()
	if heap.blocks == nil {
		heap.blocks = make(map[unsafe.Pointer][]uint64)
	}
	heap.blocks[p] = block
	return p, nil
}

func platformFree(p unsafe.Pointer) {
	heap.Lock()
	defer heap.Unlock()
	delete(heap.blocks, p)
}
