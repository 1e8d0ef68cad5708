package d3d11

import (
	"fmt"
	"strings"
)

// Blend is D3D11_BLEND, a blend factor.
type Blend int32

// Blend factors.
const (
	BlendZero                    Blend = 1
	BlendOne                     Blend = 2
	BlendSourceColor             Blend = 3
	BlendInverseSourceColor      Blend = 4
	BlendSourceAlpha             Blend = 5
	BlendInverseSourceAlpha      Blend = 6
	BlendDestinationAlpha        Blend = 7
	BlendInverseDestinationAlpha Blend = 8
	BlendDestinationColor        Blend = 9
	BlendInverseDestinationColor Blend = 10
	BlendSourceAlphaSaturate     Blend = 11
	BlendBlendFactor             Blend = 14
	BlendInverseBlendFactor      Blend = 15
	BlendSource1Color            Blend = 16
	BlendInverseSource1Color     Blend = 17
	BlendSource1Alpha            Blend = 18
	BlendInverseSource1Alpha     Blend = 19
)

var blendNames = map[Blend]string{
	BlendZero:                    "Zero",
	BlendOne:                     "One",
	BlendSourceColor:             "SourceColor",
	BlendInverseSourceColor:      "InverseSourceColor",
	BlendSourceAlpha:             "SourceAlpha",
	BlendInverseSourceAlpha:      "InverseSourceAlpha",
	BlendDestinationAlpha:        "DestinationAlpha",
	BlendInverseDestinationAlpha: "InverseDestinationAlpha",
	BlendDestinationColor:        "DestinationColor",
	BlendInverseDestinationColor: "InverseDestinationColor",
	BlendSourceAlphaSaturate:     "SourceAlphaSaturate",
	BlendBlendFactor:             "BlendFactor",
	BlendInverseBlendFactor:      "InverseBlendFactor",
	BlendSource1Color:            "Source1Color",
	BlendInverseSource1Color:     "InverseSource1Color",
	BlendSource1Alpha:            "Source1Alpha",
	BlendInverseSource1Alpha:     "InverseSource1Alpha",
}

// Valid reports whether b is a defined blend factor.
func (b Blend) Valid() bool {
	_, ok := blendNames[b]
	return ok
}

func (b Blend) String() string {
	if name, ok := blendNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Blend(%d)", int32(b))
}

// BlendOperation is D3D11_BLEND_OP.
type BlendOperation int32

// Blend operations.
const (
	BlendOperationAdd             BlendOperation = 1
	BlendOperationSubtract        BlendOperation = 2
	BlendOperationReverseSubtract BlendOperation = 3
	BlendOperationMin             BlendOperation = 4
	BlendOperationMax             BlendOperation = 5
)

// Valid reports whether op is a defined blend operation.
func (op BlendOperation) Valid() bool {
	return op >= BlendOperationAdd && op <= BlendOperationMax
}

func (op BlendOperation) String() string {
	switch op {
	case BlendOperationAdd:
		return "Add"
	case BlendOperationSubtract:
		return "Subtract"
	case BlendOperationReverseSubtract:
		return "ReverseSubtract"
	case BlendOperationMin:
		return "Min"
	case BlendOperationMax:
		return "Max"
	}
	return fmt.Sprintf("BlendOperation(%d)", int32(op))
}

// ColorWriteEnable is D3D11_COLOR_WRITE_ENABLE, a channel mask.
type ColorWriteEnable uint8

// Color write channels.
const (
	ColorWriteEnableNone  ColorWriteEnable = 0
	ColorWriteEnableRed   ColorWriteEnable = 1
	ColorWriteEnableGreen ColorWriteEnable = 2
	ColorWriteEnableBlue  ColorWriteEnable = 4
	ColorWriteEnableAlpha ColorWriteEnable = 8
	ColorWriteEnableAll                    = ColorWriteEnableRed | ColorWriteEnableGreen | ColorWriteEnableBlue | ColorWriteEnableAlpha
)

func (m ColorWriteEnable) String() string {
	switch m {
	case ColorWriteEnableNone:
		return "None"
	case ColorWriteEnableAll:
		return "All"
	}
	var parts []string
	for _, c := range []struct {
		bit  ColorWriteEnable
		name string
	}{
		{ColorWriteEnableRed, "Red"},
		{ColorWriteEnableGreen, "Green"},
		{ColorWriteEnableBlue, "Blue"},
		{ColorWriteEnableAlpha, "Alpha"},
	} {
		if m&c.bit != 0 {
			parts = append(parts, c.name)
		}
	}
	if rest := m &^ ColorWriteEnableAll; rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}
