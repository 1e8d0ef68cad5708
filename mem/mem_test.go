package mem

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
)

// =============================================================================
// Test Helpers
// =============================================================================

// withTracking installs a Tracking allocator for the duration of the test
// and fails the test if anything leaks or is freed incorrectly.
func withTracking(t *testing.T) *Tracking {
	t.Helper()
	tr := NewTracking(nil)
	prev := SetAllocator(tr)
	t.Cleanup(func() {
		SetAllocator(prev)
		if n := tr.Live(); n != 0 {
			t.Errorf("leaked %d blocks (%d bytes)", n, tr.Bytes())
		}
		if err := tr.Err(); err != nil {
			t.Errorf("tracking allocator: %v", err)
		}
	})
	return tr
}

type vertex struct {
	X, Y, Z float32
	Color   uint32
	Flags   uint8
	Index   int64
}

// failingAllocator refuses every request.
type failingAllocator struct{ err error }

func (f failingAllocator) Alloc(uintptr) (unsafe.Pointer, error) { return nil, f.err }
func (failingAllocator) Free(unsafe.Pointer)                     {}

// =============================================================================
// Copy Tests
// =============================================================================

func TestWriteReadRoundTrip(t *testing.T) {
	withTracking(t)

	v := vertex{X: 1.5, Y: -2, Z: 3.25, Color: 0xff00ff00, Flags: 7, Index: -42}
	p, err := AllocOf[vertex]()
	if err != nil {
		t.Fatalf("AllocOf() error = %v", err)
	}
	defer Free(unsafe.Pointer(p))

	Write(unsafe.Pointer(p), v)

	buf := make([]vertex, 1)
	Read(unsafe.Pointer(p), buf)
	if diff := cmp.Diff(v, buf[0]); diff != "" {
		t.Errorf("Read after Write mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteReturnsAdvancedAddress(t *testing.T) {
	var raw [32]byte
	base := unsafe.Pointer(&raw[0])

	next := Write(base, uint32(0xdeadbeef))
	if want := unsafe.Add(base, 4); next != want {
		t.Fatalf("Write() = %p, want %p", next, want)
	}

	end := WriteSlice(next, []uint16{1, 2, 3})
	if want := unsafe.Add(base, 4+3*2); end != want {
		t.Fatalf("WriteSlice() = %p, want %p", end, want)
	}

	var head [1]uint32
	Read(base, head[:])
	if head[0] != 0xdeadbeef {
		t.Errorf("first value = %#x, want 0xdeadbeef", head[0])
	}
	tail := make([]uint16, 3)
	Read(next, tail)
	if diff := cmp.Diff([]uint16{1, 2, 3}, tail); diff != "" {
		t.Errorf("second write overlapped or left a gap (-want +got):\n%s", diff)
	}
}

func TestSequentialWritesAreContiguous(t *testing.T) {
	withTracking(t)

	p, err := AllocArray[int32](6)
	if err != nil {
		t.Fatalf("AllocArray() error = %v", err)
	}
	defer Free(unsafe.Pointer(p))

	cur := unsafe.Pointer(p)
	cur = WriteSlice(cur, []int32{1, 2, 3})
	cur = WriteSlice(cur, []int32{4, 5, 6})
	if want := unsafe.Add(unsafe.Pointer(p), 6*4); cur != want {
		t.Errorf("final address = %p, want %p", cur, want)
	}

	got := make([]int32, 6)
	Read(unsafe.Pointer(p), got)
	if diff := cmp.Diff([]int32{1, 2, 3, 4, 5, 6}, got); diff != "" {
		t.Errorf("contents mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRangeOffsetAndCount(t *testing.T) {
	withTracking(t)

	a, err := AllocArray[int32](3)
	if err != nil {
		t.Fatalf("AllocArray() error = %v", err)
	}
	defer Free(unsafe.Pointer(a))
	WriteSlice(unsafe.Pointer(a), []int32{-1, -1, -1})

	end := WriteRange(unsafe.Pointer(a), []int32{10, 20, 30}, 1, 2)
	if want := unsafe.Add(unsafe.Pointer(a), 2*4); end != want {
		t.Errorf("WriteRange() = %p, want %p", end, want)
	}

	got := make([]int32, 3)
	Read(unsafe.Pointer(a), got)
	if diff := cmp.Diff([]int32{20, 30, -1}, got); diff != "" {
		t.Errorf("WriteRange wrote outside its range (-want +got):\n%s", diff)
	}
}

func TestWriteRangeZeroCount(t *testing.T) {
	var raw [8]byte
	base := unsafe.Pointer(&raw[0])
	if got := WriteRange(base, []int64{1}, 0, 0); got != base {
		t.Errorf("WriteRange(count=0) = %p, want %p", got, base)
	}
	if raw != [8]byte{} {
		t.Errorf("WriteRange(count=0) modified memory: %v", raw)
	}
}

func TestReadNPartial(t *testing.T) {
	src := []uint64{7, 8, 9, 10}
	dst := []uint64{0, 0, 0, 0}
	ReadN(unsafe.Pointer(&src[0]), dst, 2)
	if diff := cmp.Diff([]uint64{7, 8, 0, 0}, dst); diff != "" {
		t.Errorf("ReadN copied wrong range (-want +got):\n%s", diff)
	}
}

func TestUnalignedCopies(t *testing.T) {
	var raw [17]byte
	dst := unsafe.Pointer(&raw[1])

	next := Write(dst, int64(-0x0102030405060708))
	if want := unsafe.Add(dst, 8); next != want {
		t.Errorf("Write() = %p, want %p", next, want)
	}
	Write(next, float64(0.5))

	got := make([]int64, 1)
	Read(dst, got)
	if got[0] != -0x0102030405060708 {
		t.Errorf("unaligned int64 = %#x", got[0])
	}
	f := make([]float64, 1)
	Read(next, f)
	if f[0] != 0.5 {
		t.Errorf("unaligned float64 = %v, want 0.5", f[0])
	}
}

func TestSizeOf(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"int32", SizeOf[int32](), 4},
		{"float64", SizeOf[float64](), 8},
		{"[3]uint16", SizeOf[[3]uint16](), 6},
		{"vertex", SizeOf[vertex](), 32},
		{"struct{}", SizeOf[struct{}](), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("SizeOf[%s]() = %d, want %d", tt.name, tt.got, tt.want)
			}
		})
	}
}

// =============================================================================
// Allocation Tests
// =============================================================================

func TestAllocFreeLifecycle(t *testing.T) {
	tr := withTracking(t)

	for _, size := range []int{0, 1, 4096, 64 << 20} {
		p, err := Alloc(size)
		if err != nil {
			t.Fatalf("Alloc(%d) error = %v", size, err)
		}
		if size == 0 {
			if p != nil {
				t.Errorf("Alloc(0) = %p, want nil", p)
			}
		} else {
			if p == nil {
				t.Fatalf("Alloc(%d) returned nil", size)
			}
			if uintptr(p)%8 != 0 {
				t.Errorf("Alloc(%d) = %p, not 8-byte aligned", size, p)
			}
			// Touch first and last byte.
			*(*byte)(p) = 0xaa
			*(*byte)(unsafe.Add(p, size-1)) = 0x55
		}
		Free(p)
	}

	allocs, frees := tr.Stats()
	if allocs != 3 || frees != 3 {
		t.Errorf("Stats() = (%d, %d), want (3, 3); Alloc(0) must not reach the allocator", allocs, frees)
	}
}

func TestAllocInvalidSize(t *testing.T) {
	withTracking(t)

	if _, err := Alloc(-1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Alloc(-1) error = %v, want ErrInvalidSize", err)
	}
	if _, err := AllocN(-2, 4); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("AllocN(-2, 4) error = %v, want ErrInvalidSize", err)
	}
	if _, err := AllocN(1<<62, 16); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("AllocN overflow error = %v, want ErrInvalidSize", err)
	}
	if _, err := AllocArray[int64](-1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("AllocArray(-1) error = %v, want ErrInvalidSize", err)
	}
}

func TestAllocNComputesByteCount(t *testing.T) {
	tr := withTracking(t)

	p, err := AllocN(12, 8)
	if err != nil {
		t.Fatalf("AllocN() error = %v", err)
	}
	if got := tr.Bytes(); got != 96 {
		t.Errorf("live bytes = %d, want 96", got)
	}
	Free(p)
}

func TestAllocFailurePropagates(t *testing.T) {
	platformErr := errors.New("out of address space")
	prev := SetAllocator(failingAllocator{err: platformErr})
	t.Cleanup(func() { SetAllocator(prev) })

	p, err := Alloc(16)
	if p != nil {
		t.Errorf("Alloc() = %p on failure, want nil", p)
	}
	if !errors.Is(err, ErrAllocationFailed) {
		t.Errorf("Alloc() error = %v, want ErrAllocationFailed", err)
	}
	if !errors.Is(err, platformErr) {
		t.Errorf("Alloc() error = %v, want it to wrap the platform error", err)
	}

	if _, err := AllocWithData(int32(1)); !errors.Is(err, ErrAllocationFailed) {
		t.Errorf("AllocWithData() error = %v, want ErrAllocationFailed", err)
	}
}

func TestAllocNilWithoutErrorIsFailure(t *testing.T) {
	prev := SetAllocator(failingAllocator{})
	t.Cleanup(func() { SetAllocator(prev) })

	if _, err := Alloc(8); !errors.Is(err, ErrAllocationFailed) {
		t.Errorf("Alloc() error = %v, want ErrAllocationFailed", err)
	}
}

func TestAllocWithDataSlice(t *testing.T) {
	withTracking(t)

	a, err := AllocSliceWithData([]int32{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("AllocSliceWithData() error = %v", err)
	}

	buf := make([]int32, 4)
	ReadN(unsafe.Pointer(a), buf, 4)
	if diff := cmp.Diff([]int32{1, 2, 3, 4}, buf); diff != "" {
		t.Errorf("contents mismatch (-want +got):\n%s", diff)
	}

	Free(unsafe.Pointer(a))
}

func TestAllocWithDataValue(t *testing.T) {
	withTracking(t)

	v := vertex{X: 9, Color: 1, Index: 1 << 40}
	p, err := AllocWithData(v)
	if err != nil {
		t.Fatalf("AllocWithData() error = %v", err)
	}
	defer Free(unsafe.Pointer(p))

	if diff := cmp.Diff(v, *p); diff != "" {
		t.Errorf("AllocWithData mismatch (-want +got):\n%s", diff)
	}
}

func TestAllocSliceWithDataEmpty(t *testing.T) {
	tr := withTracking(t)

	p, err := AllocSliceWithData([]float32{})
	if err != nil || p != nil {
		t.Errorf("AllocSliceWithData(empty) = (%p, %v), want (nil, nil)", p, err)
	}
	Free(unsafe.Pointer(p))

	if allocs, _ := tr.Stats(); allocs != 0 {
		t.Errorf("empty slice reached the allocator %d times", allocs)
	}
}

func TestAllocToPointer(t *testing.T) {
	withTracking(t)

	if p, err := AllocToPointer[uint32](nil); p != nil || err != nil {
		t.Errorf("AllocToPointer(nil) = (%p, %v), want (nil, nil)", p, err)
	}

	p, err := AllocToPointer([]uint32{5, 6})
	if err != nil {
		t.Fatalf("AllocToPointer() error = %v", err)
	}
	got := make([]uint32, 2)
	Read(p, got)
	if diff := cmp.Diff([]uint32{5, 6}, got); diff != "" {
		t.Errorf("contents mismatch (-want +got):\n%s", diff)
	}
	Free(p)
}

func TestSetAllocatorNilRestoresPlatform(t *testing.T) {
	tr := NewTracking(nil)
	orig := SetAllocator(tr)
	t.Cleanup(func() { SetAllocator(orig) })

	if got := SetAllocator(nil); got != Allocator(tr) {
		t.Errorf("SetAllocator(nil) returned %T, want the tracking allocator", got)
	}
	if _, ok := CurrentAllocator().(platformAllocator); !ok {
		t.Errorf("CurrentAllocator() = %T, want platformAllocator", CurrentAllocator())
	}
}

func TestFreeNilIsNoop(t *testing.T) {
	tr := withTracking(t)
	Free(nil)
	if _, frees := tr.Stats(); frees != 0 {
		t.Errorf("Free(nil) reached the allocator")
	}
}

func TestPlatformAllocatorDirect(t *testing.T) {
	a := Platform()
	p, err := a.Alloc(100)
	if err != nil {
		t.Fatalf("Platform().Alloc() error = %v", err)
	}
	s := unsafe.Slice((*byte)(p), 100)
	for i := range s {
		s[i] = byte(i)
	}
	if s[99] != 99 {
		t.Errorf("s[99] = %d, want 99", s[99])
	}
	a.Free(p)
}

func BenchmarkWriteSlice(b *testing.B) {
	data := make([]float32, 1024)
	p, err := AllocArray[float32](len(data))
	if err != nil {
		b.Fatal(err)
	}
	defer Free(unsafe.Pointer(p))

	b.ReportAllocs()
	b.SetBytes(int64(len(data) * 4))
	for b.Loop() {
		WriteSlice(unsafe.Pointer(p), data)
	}
}
