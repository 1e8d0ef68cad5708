// Package mem moves fixed-layout values between unmanaged memory and Go
// slices, and manages unmanaged allocations.
//
// # Fixed-layout types
//
// Every type parameter T in this package must be a fixed-layout value type:
// booleans, integers, floats, and arrays or structs built only from those.
// Go cannot express that constraint at compile time, so it is documented here
// and can be checked at run time with [CheckLayout]. Copying a type that holds
// Go pointers (pointers, slices, strings, maps, interfaces, channels, funcs)
// through this package hides those pointers from the garbage collector.
//
// # Contract
//
// The copy operations ([Read], [ReadN], [Write], [WriteSlice], [WriteRange])
// perform no validation. The caller guarantees that source and destination
// reference enough bytes for the requested element count; anything else is
// undefined behavior, exactly as with a native memcpy.
//
// Allocations made with [Alloc] and its typed variants live outside the Go
// heap and must be released exactly once with [Free]. [Buffer] wraps an
// allocation in a handle that makes the release explicit:
//
//	buf, err := mem.BufferOf[int32](1, 2, 3, 4)
//	if err != nil {
//	    return err
//	}
//	defer buf.Free()
//	callNative(buf.Pointer(), buf.Len())
//
// # Allocators
//
// Allocation is delegated to the process-wide [Allocator], the platform
// allocator by default (anonymous mmap on unix, VirtualAlloc on windows).
// [SetAllocator] swaps it; [NewTracking] wraps any allocator with bookkeeping
// that reports leaks, double frees and foreign frees.
package mem
