//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package mem

import (
	"math"
	"unsafe"

	"golang.org/x/sys/unix"
)

// headerSize precedes every mapping and holds its total length, so Free only
// needs the pointer. It also keeps returned addresses 16-byte aligned.
const headerSize = 16

func platformAlloc(size uintptr) (unsafe.Pointer, error) {
	if size > math.MaxInt-headerSize {
		return nil, ErrInvalidSize
	}
	b, err := unix.Mmap(-1, 0, int(size)+headerSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	base := unsafe.Pointer(unsafe.SliceData(b))
	*(*uintptr)(base) = uintptr(len(b))
	return unsafe.Add(base, headerSize), nil
}

func platformFree(p unsafe.Pointer) {
	base := unsafe.Add(p, -headerSize)
	total := *(*uintptr)(base)
	// Munmap looks the mapping up by its last byte, so the slice must have
	// exactly the length Mmap returned.
	if err := unix.Munmap(unsafe.Slice((*byte)(base), total)); err != nil {
		logReleaseError(p, err)
	}
}
