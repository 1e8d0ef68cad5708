package mem

import (
	"sync/atomic"
	"unsafe"
)

// Allocator is the source of unmanaged memory used by Alloc and Free.
//
// Alloc is never called with size 0. Free is never called with nil.
// Implementations must be safe for concurrent use.
type Allocator interface {
	// Alloc returns size bytes of uninitialized memory.
	Alloc(size uintptr) (unsafe.Pointer, error)

	// Free releases a block returned by Alloc.
	Free(p unsafe.Pointer)
}

// platformAllocator forwards to the operating system.
type platformAllocator struct{}

func (platformAllocator) Alloc(size uintptr) (unsafe.Pointer, error) { return platformAlloc(size) }
func (platformAllocator) Free(p unsafe.Pointer)                      { platformFree(p) }

// Platform returns the operating system allocator.
func Platform() Allocator {
	return platformAllocator{}
}

// allocatorBox lets an interface value live behind an atomic.Pointer.
type allocatorBox struct {
	a Allocator
}

var current atomic.Pointer[allocatorBox]

func init() {
	current.Store(&allocatorBox{a: Platform()})
}

// SetAllocator replaces the process-wide allocator and returns the previous
// one. Pass nil to restore the platform allocator.
//
// Blocks must be freed through the allocator that produced them, so swap
// allocators only while no allocations are outstanding.
func SetAllocator(a Allocator) Allocator {
	if a == nil {
		a = Platform()
	}
	return current.Swap(&allocatorBox{a: a}).a
}

// CurrentAllocator returns the process-wide allocator.
func CurrentAllocator() Allocator {
	return current.Load().a
}
