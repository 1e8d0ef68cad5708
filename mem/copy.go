package mem

import "unsafe"

// SizeOf returns the size in bytes of one T.
func SizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Read copies len(dst) elements of T from src into dst.
func Read[T any](src unsafe.Pointer, dst []T) {
	ReadN(src, dst, len(dst))
}

// ReadN copies count elements of T from src into dst. dst must have
// capacity for count elements and src must reference count*SizeOf[T]()
// readable bytes; neither is checked.
func ReadN[T any](src unsafe.Pointer, dst []T, count int) {
	if count <= 0 {
		return
	}
	var zero T
	memmove(unsafe.Pointer(unsafe.SliceData(dst)), src, uintptr(count)*unsafe.Sizeof(zero))
}

// Write copies v to dst and returns the address just past the written bytes,
// so sequential writes can be chained:
//
//	p = mem.Write(p, header)
//	p = mem.WriteSlice(p, payload)
func Write[T any](dst unsafe.Pointer, v T) unsafe.Pointer {
	n := unsafe.Sizeof(v)
	memmove(dst, unsafe.Pointer(&v), n)
	return unsafe.Add(dst, n)
}

// WriteSlice copies all of data to dst and returns the advanced address.
func WriteSlice[T any](dst unsafe.Pointer, data []T) unsafe.Pointer {
	return WriteRange(dst, data, 0, len(data))
}

// WriteRange copies count elements of data starting at offset to dst and
// returns dst + count*SizeOf[T](). offset and count are not checked against
// len(data).
func WriteRange[T any](dst unsafe.Pointer, data []T, offset, count int) unsafe.Pointer {
	if count <= 0 {
		return dst
	}
	var zero T
	size := unsafe.Sizeof(zero)
	n := uintptr(count) * size
	src := unsafe.Add(unsafe.Pointer(unsafe.SliceData(data)), uintptr(offset)*size)
	memmove(dst, src, n)
	return unsafe.Add(dst, n)
}

// memmove copies n bytes without any alignment requirement.
func memmove(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}
