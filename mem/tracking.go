package mem

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/dxinterop"
)

// Tracking wraps an Allocator and records every outstanding block.
//
// Frees of unknown pointers are not forwarded; they are recorded and
// reported through Err instead, which turns the undefined behavior of a
// double or foreign free into a diagnosable error.
//
// Typical use in tests:
//
//	tr := mem.NewTracking(nil)
//	prev := mem.SetAllocator(tr)
//	defer mem.SetAllocator(prev)
//	... exercise code ...
//	if tr.Live() != 0 || tr.Err() != nil { ... }
type Tracking struct {
	next Allocator

	mu     sync.Mutex
	live   map[unsafe.Pointer]uintptr
	freed  map[unsafe.Pointer]struct{}
	bytes  uintptr
	allocs uint64
	frees  uint64
	errs   []error
}

// NewTracking returns a Tracking allocator backed by next, or by the
// platform allocator if next is nil.
func NewTracking(next Allocator) *Tracking {
	if next == nil {
		next = Platform()
	}
	return &Tracking{
		next:  next,
		live:  make(map[unsafe.Pointer]uintptr),
		freed: make(map[unsafe.Pointer]struct{}),
	}
}

// Alloc implements Allocator.
func (t *Tracking) Alloc(size uintptr) (unsafe.Pointer, error) {
	p, err := t.next.Alloc(size)
	if err != nil || p == nil {
		return p, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.live[p] = size
	delete(t.freed, p)
	t.bytes += size
	t.allocs++
	return p, nil
}

// Free implements Allocator.
func (t *Tracking) Free(p unsafe.Pointer) {
	t.mu.Lock()
	size, ok := t.live[p]
	if !ok {
		err := ErrForeignFree
		if _, was := t.freed[p]; was {
			err = ErrDoubleFree
		}
		t.errs = append(t.errs, fmt.Errorf("%w: %p", err, p))
		t.mu.Unlock()
		dxinterop.Logger().Warn("mem: rejected free", "ptr", p, "err", err)
		return
	}
	delete(t.live, p)
	t.freed[p] = struct{}{}
	t.bytes -= size
	t.frees++
	t.mu.Unlock()

	t.next.Free(p)
}

// Live returns the number of blocks allocated and not yet freed.
func (t *Tracking) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// Bytes returns the total size of live blocks.
func (t *Tracking) Bytes() uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bytes
}

// Stats returns the number of successful allocations and frees so far.
func (t *Tracking) Stats() (allocs, frees uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocs, t.frees
}

// Err returns every rejected free joined into one error, or nil.
func (t *Tracking) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return errors.Join(t.errs...)
}
