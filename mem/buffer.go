package mem

import "unsafe"

// Buffer is an owned unmanaged array of n elements of T.
//
// A Buffer must be released with Free. After Free the handle is empty and a
// second Free does nothing; copies of the pointer obtained earlier are
// dangling.
type Buffer[T any] struct {
	ptr *T
	n   int
}

// NewBuffer allocates an uninitialized buffer of n elements.
func NewBuffer[T any](n int) (*Buffer[T], error) {
	p, err := AllocArray[T](n)
	if err != nil {
		return nil, err
	}
	return &Buffer[T]{ptr: p, n: n}, nil
}

// BufferOf allocates a buffer holding a copy of values.
func BufferOf[T any](values ...T) (*Buffer[T], error) {
	p, err := AllocSliceWithData(values)
	if err != nil {
		return nil, err
	}
	return &Buffer[T]{ptr: p, n: len(values)}, nil
}

// Pointer returns the address of the first element, or nil for an empty or
// released buffer.
func (b *Buffer[T]) Pointer() unsafe.Pointer {
	return unsafe.Pointer(b.ptr)
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int {
	return b.n
}

// Slice returns a view of the unmanaged memory. The view is invalid after
// Free.
func (b *Buffer[T]) Slice() []T {
	if b.ptr == nil {
		return nil
	}
	return unsafe.Slice(b.ptr, b.n)
}

// Read copies up to len(dst) elements into dst and returns the count copied.
func (b *Buffer[T]) Read(dst []T) int {
	n := min(len(dst), b.n)
	ReadN(b.Pointer(), dst, n)
	return n
}

// Write copies up to Len elements from src into the buffer and returns the
// count copied.
func (b *Buffer[T]) Write(src []T) int {
	n := min(len(src), b.n)
	WriteRange(b.Pointer(), src, 0, n)
	return n
}

// Free releases the memory.
func (b *Buffer[T]) Free() {
	if b.ptr == nil {
		return
	}
	Free(unsafe.Pointer(b.ptr))
	b.ptr = nil
	b.n = 0
}
