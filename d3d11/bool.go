package d3d11

// Bool is the 4-byte native BOOL. Any nonzero value is true.
type Bool int32

// Boolean constants.
const (
	False Bool = 0
	True  Bool = 1
)

// NewBool converts a Go bool.
func NewBool(b bool) Bool {
	if b {
		return True
	}
	return False
}

// Bool reports whether b is nonzero.
func (b Bool) Bool() bool { return b != 0 }

func (b Bool) String() string {
	if b.Bool() {
		return "true"
	}
	return "false"
}

// bit returns 0 or 1, used when hashing.
func (b Bool) bit() uint32 {
	if b.Bool() {
		return 1
	}
	return 0
}
