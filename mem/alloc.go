package mem

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/gogpu/dxinterop"
)

// Alloc returns byteCount bytes of uninitialized unmanaged memory.
//
// Alloc(0) returns a nil pointer and no error without calling the allocator;
// Free(nil) is a no-op, so the pair is always valid.
func Alloc(byteCount int) (unsafe.Pointer, error) {
	if byteCount < 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSize, byteCount)
	}
	if byteCount == 0 {
		return nil, nil
	}

	p, err := CurrentAllocator().Alloc(uintptr(byteCount))
	if err == nil && p == nil {
		err = ErrAllocationFailed
	}
	if err != nil {
		dxinterop.Logger().Warn("mem: allocation failed", "bytes", byteCount, "err", err)
		return nil, fmt.Errorf("%w: %d bytes: %w", ErrAllocationFailed, byteCount, err)
	}

	dxinterop.Logger().Debug("mem: alloc", "bytes", byteCount, "ptr", p)
	return p, nil
}

// AllocN allocates elementCount*elementSize bytes.
func AllocN(elementCount, elementSize int) (unsafe.Pointer, error) {
	if elementCount < 0 || elementSize < 0 {
		return nil, fmt.Errorf("%w: %d x %d bytes", ErrInvalidSize, elementCount, elementSize)
	}
	if elementSize != 0 && elementCount > math.MaxInt/elementSize {
		return nil, fmt.Errorf("%w: %d x %d bytes overflows", ErrInvalidSize, elementCount, elementSize)
	}
	return Alloc(elementCount * elementSize)
}

// AllocOf allocates uninitialized memory for one T.
func AllocOf[T any]() (*T, error) {
	p, err := Alloc(SizeOf[T]())
	return (*T)(p), err
}

// AllocArray allocates uninitialized memory for n contiguous elements of T
// and returns a pointer to the first one.
func AllocArray[T any](n int) (*T, error) {
	p, err := AllocN(n, SizeOf[T]())
	return (*T)(p), err
}

// AllocWithData allocates memory for one T and copies v into it.
func AllocWithData[T any](v T) (*T, error) {
	p, err := AllocOf[T]()
	if err != nil || p == nil {
		return p, err
	}
	Write(unsafe.Pointer(p), v)
	return p, nil
}

// AllocSliceWithData allocates memory for len(values) elements and copies
// values into it. An empty slice yields a nil pointer.
func AllocSliceWithData[T any](values []T) (*T, error) {
	p, err := AllocArray[T](len(values))
	if err != nil || p == nil {
		return p, err
	}
	WriteSlice(unsafe.Pointer(p), values)
	return p, nil
}

// AllocToPointer is AllocSliceWithData returning an untyped address.
// A nil or empty slice yields nil, which native APIs read as "absent".
func AllocToPointer[T any](values []T) (unsafe.Pointer, error) {
	p, err := AllocSliceWithData(values)
	return unsafe.Pointer(p), err
}

// Free releases memory returned by any of the Alloc functions.
// Free(nil) does nothing. Freeing a block twice, or a pointer that did not
// come from this package, is undefined behavior.
func Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	dxinterop.Logger().Debug("mem: free", "ptr", p)
	CurrentAllocator().Free(p)
}
