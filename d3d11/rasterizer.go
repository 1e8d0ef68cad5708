package d3d11

import (
	"fmt"
	"math"

	"github.com/gogpu/dxinterop/mem"
)

// FillMode is D3D11_FILL_MODE.
type FillMode int32

// Fill modes.
const (
	FillModeWireframe FillMode = 2
	FillModeSolid     FillMode = 3
)

func (m FillMode) String() string {
	switch m {
	case FillModeWireframe:
		return "Wireframe"
	case FillModeSolid:
		return "Solid"
	}
	return fmt.Sprintf("FillMode(%d)", int32(m))
}

// CullMode is D3D11_CULL_MODE.
type CullMode int32

// Cull modes.
const (
	CullModeNone  CullMode = 1
	CullModeFront CullMode = 2
	CullModeBack  CullMode = 3
)

func (m CullMode) String() string {
	switch m {
	case CullModeNone:
		return "None"
	case CullModeFront:
		return "Front"
	case CullModeBack:
		return "Back"
	}
	return fmt.Sprintf("CullMode(%d)", int32(m))
}

// RasterizerDescription is D3D11_RASTERIZER_DESC (40 bytes).
type RasterizerDescription struct {
	FillMode              FillMode
	CullMode              CullMode
	FrontCounterClockwise Bool
	DepthBias             int32
	DepthBiasClamp        float32
	SlopeScaledDepthBias  float32
	DepthClipEnable       Bool
	ScissorEnable         Bool
	MultisampleEnable     Bool
	AntialiasedLineEnable Bool
}

// NewRasterizerDescription returns the runtime defaults for the given cull
// and fill modes: clockwise front faces, no depth bias, depth clipping and
// multisampling on, scissor and line antialiasing off.
func NewRasterizerDescription(cull CullMode, fill FillMode) RasterizerDescription {
	return RasterizerDescription{
		FillMode:              fill,
		CullMode:              cull,
		FrontCounterClockwise: False,
		DepthClipEnable:       True,
		MultisampleEnable:     True,
	}
}

// RasterizerCullNone draws both faces.
func RasterizerCullNone() RasterizerDescription {
	return NewRasterizerDescription(CullModeNone, FillModeSolid)
}

// RasterizerCullFront culls front-facing triangles.
func RasterizerCullFront() RasterizerDescription {
	return NewRasterizerDescription(CullModeFront, FillModeSolid)
}

// RasterizerCullBack culls back-facing triangles.
func RasterizerCullBack() RasterizerDescription {
	return NewRasterizerDescription(CullModeBack, FillModeSolid)
}

// RasterizerWireframe draws edges only, without culling.
func RasterizerWireframe() RasterizerDescription {
	return NewRasterizerDescription(CullModeNone, FillModeWireframe)
}

// Equal compares field by field. Floats compare by their normalized bits, so
// -0 equals +0 and NaN equals NaN.
func (d RasterizerDescription) Equal(other RasterizerDescription) bool {
	return d.FillMode == other.FillMode &&
		d.CullMode == other.CullMode &&
		d.FrontCounterClockwise.Bool() == other.FrontCounterClockwise.Bool() &&
		d.DepthBias == other.DepthBias &&
		floatBits(d.DepthBiasClamp) == floatBits(other.DepthBiasClamp) &&
		floatBits(d.SlopeScaledDepthBias) == floatBits(other.SlopeScaledDepthBias) &&
		d.DepthClipEnable.Bool() == other.DepthClipEnable.Bool() &&
		d.ScissorEnable.Bool() == other.ScissorEnable.Bool() &&
		d.MultisampleEnable.Bool() == other.MultisampleEnable.Bool() &&
		d.AntialiasedLineEnable.Bool() == other.AntialiasedLineEnable.Bool()
}

// Hash returns a hash consistent with Equal.
func (d RasterizerDescription) Hash() uint64 {
	h := newFieldHasher(40)
	h.i32(int32(d.FillMode))
	h.i32(int32(d.CullMode))
	h.u32(d.FrontCounterClockwise.bit())
	h.i32(d.DepthBias)
	h.u32(floatBits(d.DepthBiasClamp))
	h.u32(floatBits(d.SlopeScaledDepthBias))
	h.u32(d.DepthClipEnable.bit())
	h.u32(d.ScissorEnable.bit())
	h.u32(d.MultisampleEnable.bit())
	h.u32(d.AntialiasedLineEnable.bit())
	return h.sum()
}

// Validate checks the fill and cull modes and rejects NaN depth bias values.
func (d RasterizerDescription) Validate() error {
	if math.IsNaN(float64(d.DepthBiasClamp)) || math.IsNaN(float64(d.SlopeScaledDepthBias)) {
		return fmt.Errorf("%w: NaN depth bias", ErrInvalidDescription)
	}
	if d.FillMode != FillModeWireframe && d.FillMode != FillModeSolid {
		return fmt.Errorf("%w: fill mode %v", ErrInvalidDescription, d.FillMode)
	}
	if d.CullMode < CullModeNone || d.CullMode > CullModeBack {
		return fmt.Errorf("%w: cull mode %v", ErrInvalidDescription, d.CullMode)
	}
	return nil
}

// Marshal copies d into unmanaged memory. The caller must Free the buffer.
func (d RasterizerDescription) Marshal() (*mem.Buffer[RasterizerDescription], error) {
	return mem.BufferOf(d)
}

// floatBits maps -0 to +0 and every NaN to one quiet NaN.
func floatBits(f float32) uint32 {
	if f == 0 {
		return 0
	}
	if math.IsNaN(float64(f)) {
		return 0x7fc00000
	}
	return math.Float32bits(f)
}
