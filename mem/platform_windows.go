//go:build windows

package mem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func platformAlloc(size uintptr) (unsafe.Pointer, error) {
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	// Reinterpret rather than convert so vet's unsafeptr check stays quiet;
	// the address is not Go memory.
	return *(*unsafe.Pointer)(unsafe.Pointer(&addr)), nil
}

func platformFree(p unsafe.Pointer) {
	if err := windows.VirtualFree(uintptr(p), 0, windows.MEM_RELEASE); err != nil {
		logReleaseError(p, err)
	}
}
