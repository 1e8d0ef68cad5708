package d3d11

import (
	"fmt"

	"github.com/gogpu/dxinterop/mem"
)

// ComparisonFunction is D3D11_COMPARISON_FUNC.
type ComparisonFunction int32

// Comparison functions.
const (
	ComparisonNever        ComparisonFunction = 1
	ComparisonLess         ComparisonFunction = 2
	ComparisonEqual        ComparisonFunction = 3
	ComparisonLessEqual    ComparisonFunction = 4
	ComparisonGreater      ComparisonFunction = 5
	ComparisonNotEqual     ComparisonFunction = 6
	ComparisonGreaterEqual ComparisonFunction = 7
	ComparisonAlways       ComparisonFunction = 8
)

// Valid reports whether f is a defined comparison function.
func (f ComparisonFunction) Valid() bool {
	return f >= ComparisonNever && f <= ComparisonAlways
}

func (f ComparisonFunction) String() string {
	names := [...]string{"Never", "Less", "Equal", "LessEqual", "Greater", "NotEqual", "GreaterEqual", "Always"}
	if f.Valid() {
		return names[f-ComparisonNever]
	}
	return fmt.Sprintf("ComparisonFunction(%d)", int32(f))
}

// DepthWriteMask is D3D11_DEPTH_WRITE_MASK.
type DepthWriteMask int32

// Depth write masks.
const (
	DepthWriteMaskZero DepthWriteMask = 0
	DepthWriteMaskAll  DepthWriteMask = 1
)

// StencilOperation is D3D11_STENCIL_OP.
type StencilOperation int32

// Stencil operations.
const (
	StencilOperationKeep              StencilOperation = 1
	StencilOperationZero              StencilOperation = 2
	StencilOperationReplace           StencilOperation = 3
	StencilOperationIncrementSaturate StencilOperation = 4
	StencilOperationDecrementSaturate StencilOperation = 5
	StencilOperationInvert            StencilOperation = 6
	StencilOperationIncrement         StencilOperation = 7
	StencilOperationDecrement         StencilOperation = 8
)

// Valid reports whether op is a defined stencil operation.
func (op StencilOperation) Valid() bool {
	return op >= StencilOperationKeep && op <= StencilOperationDecrement
}

// DepthStencilOperationDescription is D3D11_DEPTH_STENCILOP_DESC.
type DepthStencilOperationDescription struct {
	StencilFailOp      StencilOperation
	StencilDepthFailOp StencilOperation
	StencilPassOp      StencilOperation
	StencilFunc        ComparisonFunction
}

// DefaultStencilOperation keeps the stencil value and always passes.
func DefaultStencilOperation() DepthStencilOperationDescription {
	return DepthStencilOperationDescription{
		StencilFailOp:      StencilOperationKeep,
		StencilDepthFailOp: StencilOperationKeep,
		StencilPassOp:      StencilOperationKeep,
		StencilFunc:        ComparisonAlways,
	}
}

// DepthStencilDescription is D3D11_DEPTH_STENCIL_DESC (52 bytes).
type DepthStencilDescription struct {
	DepthEnable      Bool
	DepthWriteMask   DepthWriteMask
	DepthFunc        ComparisonFunction
	StencilEnable    Bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	FrontFace        DepthStencilOperationDescription
	BackFace         DepthStencilOperationDescription
}

// Default stencil masks (D3D11_DEFAULT_STENCIL_READ_MASK / WRITE_MASK).
const (
	DefaultStencilReadMask  = 0xff
	DefaultStencilWriteMask = 0xff
)

// NewDepthStencilDescription returns a description with stencil disabled and
// default stencil masks and operations.
func NewDepthStencilDescription(depthEnable bool, writeMask DepthWriteMask, fn ComparisonFunction) DepthStencilDescription {
	return DepthStencilDescription{
		DepthEnable:      NewBool(depthEnable),
		DepthWriteMask:   writeMask,
		DepthFunc:        fn,
		StencilEnable:    False,
		StencilReadMask:  DefaultStencilReadMask,
		StencilWriteMask: DefaultStencilWriteMask,
		FrontFace:        DefaultStencilOperation(),
		BackFace:         DefaultStencilOperation(),
	}
}

// DepthStencilNone disables depth testing and writes.
func DepthStencilNone() DepthStencilDescription {
	return NewDepthStencilDescription(false, DepthWriteMaskZero, ComparisonLessEqual)
}

// DepthStencilDefault tests and writes depth with LessEqual.
func DepthStencilDefault() DepthStencilDescription {
	return NewDepthStencilDescription(true, DepthWriteMaskAll, ComparisonLessEqual)
}

// DepthStencilRead tests depth with LessEqual without writing it.
func DepthStencilRead() DepthStencilDescription {
	return NewDepthStencilDescription(true, DepthWriteMaskZero, ComparisonLessEqual)
}

// DepthStencilReverseZ tests and writes depth for a reversed depth range.
func DepthStencilReverseZ() DepthStencilDescription {
	return NewDepthStencilDescription(true, DepthWriteMaskAll, ComparisonGreaterEqual)
}

// DepthStencilReadReverseZ tests depth for a reversed range without writing it.
func DepthStencilReadReverseZ() DepthStencilDescription {
	return NewDepthStencilDescription(true, DepthWriteMaskZero, ComparisonGreaterEqual)
}

// Equal compares field by field; BOOL fields compare by truth value.
func (d DepthStencilDescription) Equal(other DepthStencilDescription) bool {
	return d.DepthEnable.Bool() == other.DepthEnable.Bool() &&
		d.DepthWriteMask == other.DepthWriteMask &&
		d.DepthFunc == other.DepthFunc &&
		d.StencilEnable.Bool() == other.StencilEnable.Bool() &&
		d.StencilReadMask == other.StencilReadMask &&
		d.StencilWriteMask == other.StencilWriteMask &&
		d.FrontFace == other.FrontFace &&
		d.BackFace == other.BackFace
}

// Hash returns a hash consistent with Equal.
func (d DepthStencilDescription) Hash() uint64 {
	h := newFieldHasher(52)
	h.u32(d.DepthEnable.bit())
	h.i32(int32(d.DepthWriteMask))
	h.i32(int32(d.DepthFunc))
	h.u32(d.StencilEnable.bit())
	h.u32(uint32(d.StencilReadMask)<<8 | uint32(d.StencilWriteMask))
	for _, face := range []DepthStencilOperationDescription{d.FrontFace, d.BackFace} {
		h.i32(int32(face.StencilFailOp))
		h.i32(int32(face.StencilDepthFailOp))
		h.i32(int32(face.StencilPassOp))
		h.i32(int32(face.StencilFunc))
	}
	return h.sum()
}

// Validate checks the enumeration fields.
func (d DepthStencilDescription) Validate() error {
	if d.DepthWriteMask != DepthWriteMaskZero && d.DepthWriteMask != DepthWriteMaskAll {
		return fmt.Errorf("%w: depth write mask %d", ErrInvalidDescription, d.DepthWriteMask)
	}
	if !d.DepthFunc.Valid() {
		return fmt.Errorf("%w: depth func %v", ErrInvalidDescription, d.DepthFunc)
	}
	faces := [...]struct {
		name string
		op   DepthStencilOperationDescription
	}{{"front", d.FrontFace}, {"back", d.BackFace}}
	for _, f := range faces {
		name, face := f.name, f.op
		if !face.StencilFailOp.Valid() || !face.StencilDepthFailOp.Valid() || !face.StencilPassOp.Valid() {
			return fmt.Errorf("%w: %s face stencil operation", ErrInvalidDescription, name)
		}
		if !face.StencilFunc.Valid() {
			return fmt.Errorf("%w: %s face stencil func %v", ErrInvalidDescription, name, face.StencilFunc)
		}
	}
	return nil
}

// Marshal copies d into unmanaged memory. The caller must Free the buffer.
func (d DepthStencilDescription) Marshal() (*mem.Buffer[DepthStencilDescription], error) {
	return mem.BufferOf(d)
}
