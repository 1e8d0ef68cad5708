package mem

import (
	"unsafe"

	"github.com/gogpu/dxinterop"
)

func logReleaseError(p unsafe.Pointer, err error) {
	dxinterop.Logger().Warn("mem: platform release failed", "ptr", p, "err", err)
}
