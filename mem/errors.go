package mem

import "errors"

var (
	// ErrAllocationFailed is returned when the allocator cannot satisfy a request.
	ErrAllocationFailed = errors.New("mem: allocation failed")

	// ErrInvalidSize is returned for negative sizes or sizes that overflow int.
	ErrInvalidSize = errors.New("mem: invalid allocation size")

	// ErrNotFixedLayout is returned by CheckLayout for types with indirection.
	ErrNotFixedLayout = errors.New("mem: type is not fixed-layout")

	// ErrDoubleFree is reported by a Tracking allocator when a block is freed twice.
	ErrDoubleFree = errors.New("mem: double free")

	// ErrForeignFree is reported by a Tracking allocator when a pointer it
	// never returned is freed.
	ErrForeignFree = errors.New("mem: free of foreign pointer")
)
