package d3d11

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

var blendToGPU = map[Blend]gputypes.BlendFactor{
	BlendZero:                    gputypes.BlendFactorZero,
	BlendOne:                     gputypes.BlendFactorOne,
	BlendSourceColor:             gputypes.BlendFactorSrc,
	BlendInverseSourceColor:      gputypes.BlendFactorOneMinusSrc,
	BlendSourceAlpha:             gputypes.BlendFactorSrcAlpha,
	BlendInverseSourceAlpha:      gputypes.BlendFactorOneMinusSrcAlpha,
	BlendDestinationAlpha:        gputypes.BlendFactorDstAlpha,
	BlendInverseDestinationAlpha: gputypes.BlendFactorOneMinusDstAlpha,
	BlendDestinationColor:        gputypes.BlendFactorDst,
	BlendInverseDestinationColor: gputypes.BlendFactorOneMinusDst,
	BlendSourceAlphaSaturate:     gputypes.BlendFactorSrcAlphaSaturated,
	BlendBlendFactor:             gputypes.BlendFactorConstant,
	BlendInverseBlendFactor:      gputypes.BlendFactorOneMinusConstant,
}

// GPU converts b to a WebGPU blend factor. Dual-source factors have no
// equivalent and return ErrUnsupported.
func (b Blend) GPU() (gputypes.BlendFactor, error) {
	f, ok := blendToGPU[b]
	if !ok {
		var zero gputypes.BlendFactor
		return zero, fmt.Errorf("%w: blend factor %v", ErrUnsupported, b)
	}
	return f, nil
}

// blendFromGPU reverses blendToGPU.
func blendFromGPU(f gputypes.BlendFactor) (Blend, error) {
	for b, g := range blendToGPU {
		if g == f {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: gputypes blend factor %v", ErrUnsupported, f)
}

// GPU converts op to a WebGPU blend operation.
func (op BlendOperation) GPU() (gputypes.BlendOperation, error) {
	switch op {
	case BlendOperationAdd:
		return gputypes.BlendOperationAdd, nil
	case BlendOperationSubtract:
		return gputypes.BlendOperationSubtract, nil
	case BlendOperationReverseSubtract:
		return gputypes.BlendOperationReverseSubtract, nil
	case BlendOperationMin:
		return gputypes.BlendOperationMin, nil
	case BlendOperationMax:
		return gputypes.BlendOperationMax, nil
	}
	var zero gputypes.BlendOperation
	return zero, fmt.Errorf("%w: blend operation %v", ErrUnsupported, op)
}

func blendOperationFromGPU(op gputypes.BlendOperation) (BlendOperation, error) {
	switch op {
	case gputypes.BlendOperationAdd:
		return BlendOperationAdd, nil
	case gputypes.BlendOperationSubtract:
		return BlendOperationSubtract, nil
	case gputypes.BlendOperationReverseSubtract:
		return BlendOperationReverseSubtract, nil
	case gputypes.BlendOperationMin:
		return BlendOperationMin, nil
	case gputypes.BlendOperationMax:
		return BlendOperationMax, nil
	}
	return 0, fmt.Errorf("%w: gputypes blend operation %v", ErrUnsupported, op)
}

var writeMaskBits = [...]struct {
	native ColorWriteEnable
	gpu    gputypes.ColorWriteMask
}{
	{ColorWriteEnableRed, gputypes.ColorWriteMaskRed},
	{ColorWriteEnableGreen, gputypes.ColorWriteMaskGreen},
	{ColorWriteEnableBlue, gputypes.ColorWriteMaskBlue},
	{ColorWriteEnableAlpha, gputypes.ColorWriteMaskAlpha},
}

// GPU converts m to a WebGPU color write mask.
func (m ColorWriteEnable) GPU() gputypes.ColorWriteMask {
	var out gputypes.ColorWriteMask
	for _, b := range writeMaskBits {
		if m&b.native != 0 {
			out |= b.gpu
		}
	}
	return out
}

func writeMaskFromGPU(m gputypes.ColorWriteMask) ColorWriteEnable {
	var out ColorWriteEnable
	for _, b := range writeMaskBits {
		if m&b.gpu != 0 {
			out |= b.native
		}
	}
	return out
}

func blendComponent(src, dst Blend, op BlendOperation) (gputypes.BlendComponent, error) {
	s, err := src.GPU()
	if err != nil {
		return gputypes.BlendComponent{}, err
	}
	d, err := dst.GPU()
	if err != nil {
		return gputypes.BlendComponent{}, err
	}
	o, err := op.GPU()
	if err != nil {
		return gputypes.BlendComponent{}, err
	}
	return gputypes.BlendComponent{SrcFactor: s, DstFactor: d, Operation: o}, nil
}

// BlendState converts the target's blend equation. A target with blending
// disabled yields nil, which WebGPU treats as replace.
func (rt RenderTargetBlendDescription) BlendState() (*gputypes.BlendState, error) {
	if !rt.BlendEnable.Bool() {
		return nil, nil
	}
	color, err := blendComponent(rt.SourceBlend, rt.DestinationBlend, rt.BlendOperation)
	if err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}
	alpha, err := blendComponent(rt.SourceBlendAlpha, rt.DestinationBlendAlpha, rt.BlendOperationAlpha)
	if err != nil {
		return nil, fmt.Errorf("alpha: %w", err)
	}
	return &gputypes.BlendState{Color: color, Alpha: alpha}, nil
}

// RenderTargetFromGPU builds a render target description from a WebGPU
// blend state and write mask. A nil state disables blending.
func RenderTargetFromGPU(state *gputypes.BlendState, mask gputypes.ColorWriteMask) (RenderTargetBlendDescription, error) {
	rt := RenderTargetBlendDescription{
		SourceBlend:           BlendOne,
		DestinationBlend:      BlendZero,
		BlendOperation:        BlendOperationAdd,
		SourceBlendAlpha:      BlendOne,
		DestinationBlendAlpha: BlendZero,
		BlendOperationAlpha:   BlendOperationAdd,
		RenderTargetWriteMask: writeMaskFromGPU(mask),
	}
	if state == nil {
		return rt, nil
	}

	var err error
	fields := []struct {
		dst *Blend
		src gputypes.BlendFactor
	}{
		{&rt.SourceBlend, state.Color.SrcFactor},
		{&rt.DestinationBlend, state.Color.DstFactor},
		{&rt.SourceBlendAlpha, state.Alpha.SrcFactor},
		{&rt.DestinationBlendAlpha, state.Alpha.DstFactor},
	}
	for _, f := range fields {
		if *f.dst, err = blendFromGPU(f.src); err != nil {
			return RenderTargetBlendDescription{}, err
		}
	}
	if rt.BlendOperation, err = blendOperationFromGPU(state.Color.Operation); err != nil {
		return RenderTargetBlendDescription{}, err
	}
	if rt.BlendOperationAlpha, err = blendOperationFromGPU(state.Alpha.Operation); err != nil {
		return RenderTargetBlendDescription{}, err
	}
	rt.BlendEnable = True
	return rt, nil
}

// ColorTargets converts d into one WebGPU color target per format. When
// IndependentBlendEnable is false every target uses render target 0, as the
// native runtime does.
func (d BlendDescription) ColorTargets(formats ...gputypes.TextureFormat) ([]gputypes.ColorTargetState, error) {
	if len(formats) > SimultaneousRenderTargetCount {
		return nil, fmt.Errorf("%w: %d color targets, at most %d", ErrInvalidDescription, len(formats), SimultaneousRenderTargetCount)
	}
	targets := make([]gputypes.ColorTargetState, len(formats))
	for i, format := range formats {
		rt := d.RenderTarget[0]
		if d.IndependentBlendEnable.Bool() {
			rt = d.RenderTarget[i]
		}
		state, err := rt.BlendState()
		if err != nil {
			return nil, fmt.Errorf("render target %d: %w", i, err)
		}
		targets[i] = gputypes.ColorTargetState{
			Format:    format,
			Blend:     state,
			WriteMask: rt.RenderTargetWriteMask.GPU(),
		}
	}
	return targets, nil
}

// GPU converts m to a WebGPU cull mode.
func (m CullMode) GPU() (gputypes.CullMode, error) {
	switch m {
	case CullModeNone:
		return gputypes.CullModeNone, nil
	case CullModeFront:
		return gputypes.CullModeFront, nil
	case CullModeBack:
		return gputypes.CullModeBack, nil
	}
	var zero gputypes.CullMode
	return zero, fmt.Errorf("%w: cull mode %v", ErrUnsupported, m)
}

// FrontFace reports the winding order of front faces.
func (d RasterizerDescription) FrontFace() gputypes.FrontFace {
	if d.FrontCounterClockwise.Bool() {
		return gputypes.FrontFaceCCW
	}
	return gputypes.FrontFaceCW
}

// GPU converts f to a WebGPU compare function.
func (f ComparisonFunction) GPU() (gputypes.CompareFunction, error) {
	switch f {
	case ComparisonNever:
		return gputypes.CompareFunctionNever, nil
	case ComparisonLess:
		return gputypes.CompareFunctionLess, nil
	case ComparisonEqual:
		return gputypes.CompareFunctionEqual, nil
	case ComparisonLessEqual:
		return gputypes.CompareFunctionLessEqual, nil
	case ComparisonGreater:
		return gputypes.CompareFunctionGreater, nil
	case ComparisonNotEqual:
		return gputypes.CompareFunctionNotEqual, nil
	case ComparisonGreaterEqual:
		return gputypes.CompareFunctionGreaterEqual, nil
	case ComparisonAlways:
		return gputypes.CompareFunctionAlways, nil
	}
	var zero gputypes.CompareFunction
	return zero, fmt.Errorf("%w: comparison function %v", ErrUnsupported, f)
}
