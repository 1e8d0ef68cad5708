package d3d11

import (
	"fmt"

	"github.com/gogpu/dxinterop/mem"
)

// SimultaneousRenderTargetCount is the number of render targets a blend
// state describes (D3D11_SIMULTANEOUS_RENDER_TARGET_COUNT).
const SimultaneousRenderTargetCount = 8

// RenderTargetBlendDescription is D3D11_RENDER_TARGET_BLEND_DESC (32 bytes).
type RenderTargetBlendDescription struct {
	BlendEnable           Bool
	SourceBlend           Blend
	DestinationBlend      Blend
	BlendOperation        BlendOperation
	SourceBlendAlpha      Blend
	DestinationBlendAlpha Blend
	BlendOperationAlpha   BlendOperation
	RenderTargetWriteMask ColorWriteEnable
}

// isPassThrough reports whether the factors and operations leave the source
// unchanged (One, Zero, Add for both color and alpha).
func (rt *RenderTargetBlendDescription) isPassThrough() bool {
	return rt.SourceBlend == BlendOne &&
		rt.DestinationBlend == BlendZero &&
		rt.BlendOperation == BlendOperationAdd &&
		rt.SourceBlendAlpha == BlendOne &&
		rt.DestinationBlendAlpha == BlendZero &&
		rt.BlendOperationAlpha == BlendOperationAdd
}

// Equal compares field by field; BlendEnable compares by truth value.
func (rt RenderTargetBlendDescription) Equal(other RenderTargetBlendDescription) bool {
	return rt.BlendEnable.Bool() == other.BlendEnable.Bool() &&
		rt.SourceBlend == other.SourceBlend &&
		rt.DestinationBlend == other.DestinationBlend &&
		rt.BlendOperation == other.BlendOperation &&
		rt.SourceBlendAlpha == other.SourceBlendAlpha &&
		rt.DestinationBlendAlpha == other.DestinationBlendAlpha &&
		rt.BlendOperationAlpha == other.BlendOperationAlpha &&
		rt.RenderTargetWriteMask == other.RenderTargetWriteMask
}

func (rt *RenderTargetBlendDescription) hashInto(h *fieldHasher) {
	h.u32(rt.BlendEnable.bit())
	h.i32(int32(rt.SourceBlend))
	h.i32(int32(rt.DestinationBlend))
	h.i32(int32(rt.BlendOperation))
	h.i32(int32(rt.SourceBlendAlpha))
	h.i32(int32(rt.DestinationBlendAlpha))
	h.i32(int32(rt.BlendOperationAlpha))
	h.u32(uint32(rt.RenderTargetWriteMask))
}

// Hash returns a hash consistent with Equal.
func (rt RenderTargetBlendDescription) Hash() uint64 {
	h := newFieldHasher(32)
	rt.hashInto(&h)
	return h.sum()
}

// Validate checks that every enumeration field holds a defined value.
func (rt RenderTargetBlendDescription) Validate() error {
	for _, b := range []Blend{rt.SourceBlend, rt.DestinationBlend, rt.SourceBlendAlpha, rt.DestinationBlendAlpha} {
		if !b.Valid() {
			return fmt.Errorf("%w: blend factor %v", ErrInvalidDescription, b)
		}
	}
	for _, op := range []BlendOperation{rt.BlendOperation, rt.BlendOperationAlpha} {
		if !op.Valid() {
			return fmt.Errorf("%w: blend operation %v", ErrInvalidDescription, op)
		}
	}
	if rt.RenderTargetWriteMask&^ColorWriteEnableAll != 0 {
		return fmt.Errorf("%w: write mask %v", ErrInvalidDescription, rt.RenderTargetWriteMask)
	}
	return nil
}

// BlendDescription is D3D11_BLEND_DESC (264 bytes).
type BlendDescription struct {
	AlphaToCoverageEnable  Bool
	IndependentBlendEnable Bool
	RenderTarget           [SimultaneousRenderTargetCount]RenderTargetBlendDescription
}

// NewBlendDescription returns a description that applies the same state to
// every render target. Without options the alpha factors equal the color
// factors, both operations are Add and all channels are written.
//
// BlendEnable is set for a target unless its state is the pass-through
// combination One, Zero, Add.
func NewBlendDescription(src, dst Blend, opts ...BlendOption) BlendDescription {
	o := defaultBlendOptions(src, dst)
	for _, opt := range opts {
		opt(&o)
	}

	d := BlendDescription{
		AlphaToCoverageEnable:  NewBool(o.alphaToCoverage),
		IndependentBlendEnable: False,
	}
	for i := range d.RenderTarget {
		rt := &d.RenderTarget[i]
		rt.SourceBlend = src
		rt.DestinationBlend = dst
		rt.BlendOperation = o.op
		rt.SourceBlendAlpha = o.srcAlpha
		rt.DestinationBlendAlpha = o.dstAlpha
		rt.BlendOperationAlpha = o.opAlpha
		rt.RenderTargetWriteMask = o.writeMask
		rt.BlendEnable = NewBool(!rt.isPassThrough())
	}
	return d
}

// BlendOpaque overwrites the destination with the source.
func BlendOpaque() BlendDescription {
	return NewBlendDescription(BlendOne, BlendZero)
}

// BlendAlpha blends premultiplied source and destination using alpha.
func BlendAlpha() BlendDescription {
	return NewBlendDescription(BlendOne, BlendInverseSourceAlpha)
}

// BlendAdditive adds the source to the destination, scaled by source alpha.
func BlendAdditive() BlendDescription {
	return NewBlendDescription(BlendSourceAlpha, BlendOne)
}

// BlendNonPremultiplied blends using alpha, assuming the color data is not
// premultiplied.
func BlendNonPremultiplied() BlendDescription {
	return NewBlendDescription(BlendSourceAlpha, BlendInverseSourceAlpha)
}

// Equal compares both flags and all render targets.
func (d BlendDescription) Equal(other BlendDescription) bool {
	if d.AlphaToCoverageEnable.Bool() != other.AlphaToCoverageEnable.Bool() ||
		d.IndependentBlendEnable.Bool() != other.IndependentBlendEnable.Bool() {
		return false
	}
	for i := range d.RenderTarget {
		if !d.RenderTarget[i].Equal(other.RenderTarget[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal.
func (d BlendDescription) Hash() uint64 {
	h := newFieldHasher(8 + SimultaneousRenderTargetCount*32)
	h.u32(d.AlphaToCoverageEnable.bit())
	h.u32(d.IndependentBlendEnable.bit())
	for i := range d.RenderTarget {
		d.RenderTarget[i].hashInto(&h)
	}
	return h.sum()
}

// Validate checks every render target. With IndependentBlendEnable false
// only the first target is used by the runtime, so only it is checked.
func (d BlendDescription) Validate() error {
	n := 1
	if d.IndependentBlendEnable.Bool() {
		n = SimultaneousRenderTargetCount
	}
	for i := range n {
		if err := d.RenderTarget[i].Validate(); err != nil {
			return fmt.Errorf("render target %d: %w", i, err)
		}
	}
	return nil
}

// Marshal copies d into unmanaged memory. The caller must Free the buffer.
func (d BlendDescription) Marshal() (*mem.Buffer[BlendDescription], error) {
	return mem.BufferOf(d)
}
