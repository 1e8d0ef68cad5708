package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/dxinterop/directml"
)

// tensorConfig describes one buffer tensor.
type tensorConfig struct {
	DataType string   `toml:"data_type"`
	Sizes    []uint32 `toml:"sizes"`
	Strides  []uint32 `toml:"strides"`
	// TotalSize defaults to the minimum size implied by sizes and strides.
	TotalSize  uint64 `toml:"total_size"`
	Alignment  uint32 `toml:"alignment"`
	OwnedByDML bool   `toml:"owned_by_dml"`
}

// activationConfig describes a fused activation.
type activationConfig struct {
	Type  string  `toml:"type"`
	Alpha float32 `toml:"alpha"`
	Beta  float32 `toml:"beta"`
}

type scaleBiasConfig struct {
	Scale float32 `toml:"scale"`
	Bias  float32 `toml:"bias"`
}

// operatorConfig is the file format of "dxlayout marshal". Operator names an
// operator type as printed by directml.OperatorType.String; the other keys
// apply to the operators that have the matching field.
type operatorConfig struct {
	Operator string `toml:"operator"`

	Input  *tensorConfig `toml:"input"`
	Output *tensorConfig `toml:"output"`
	Scale  *tensorConfig `toml:"scale"`
	Bias   *tensorConfig `toml:"bias"`

	CrossChannel      bool    `toml:"cross_channel"`
	NormalizeVariance bool    `toml:"normalize_variance"`
	Epsilon           float32 `toml:"epsilon"`

	Alpha float32 `toml:"alpha"`
	Beta  float32 `toml:"beta"`

	ScaleBias       *scaleBiasConfig  `toml:"scale_bias"`
	FusedActivation *activationConfig `toml:"fused_activation"`
}

// loadConfig decodes path. Unknown keys are an error.
func loadConfig(path string) (*operatorConfig, error) {
	var c operatorConfig
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &c, nil
}

func (c *tensorConfig) description() (*directml.TensorDescription, error) {
	if c == nil {
		return nil, nil
	}
	dt, err := directml.ParseTensorDataType(c.DataType)
	if err != nil {
		return nil, err
	}
	t := &directml.TensorDescription{
		DataType:                      dt,
		Sizes:                         c.Sizes,
		Strides:                       c.Strides,
		TotalTensorSizeInBytes:        c.TotalSize,
		GuaranteedBaseOffsetAlignment: c.Alignment,
	}
	if c.OwnedByDML {
		t.Flags = directml.TensorFlagOwnedByDML
	}
	if t.TotalTensorSizeInBytes == 0 {
		t.TotalTensorSizeInBytes = directml.CalcBufferTensorSize(dt, c.Sizes, c.Strides)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// newActivation builds the activation of type typ.
func newActivation(typ directml.OperatorType, in, out *directml.TensorDescription, alpha, beta float32) (directml.Activation, error) {
	switch typ {
	case directml.OperatorActivationIdentity:
		return directml.ActivationIdentity{InputTensor: in, OutputTensor: out}, nil
	case directml.OperatorActivationRelu:
		return directml.ActivationRelu{InputTensor: in, OutputTensor: out}, nil
	case directml.OperatorActivationSigmoid:
		return directml.ActivationSigmoid{InputTensor: in, OutputTensor: out}, nil
	case directml.OperatorActivationTanh:
		return directml.ActivationTanh{InputTensor: in, OutputTensor: out}, nil
	case directml.OperatorActivationElu:
		return directml.ActivationElu{InputTensor: in, OutputTensor: out, Alpha: alpha}, nil
	case directml.OperatorActivationLeakyRelu:
		return directml.ActivationLeakyRelu{InputTensor: in, OutputTensor: out, Alpha: alpha}, nil
	case directml.OperatorActivationLinear:
		return directml.ActivationLinear{InputTensor: in, OutputTensor: out, Alpha: alpha, Beta: beta}, nil
	default:
		return nil, fmt.Errorf("%w: %v is not an activation", directml.ErrUnsupportedOperator, typ)
	}
}

// description converts the config into an operator description.
func (c *operatorConfig) description() (directml.OperatorDescription, error) {
	typ, err := directml.ParseOperatorType(c.Operator)
	if err != nil {
		return nil, err
	}

	tensors := make([]*directml.TensorDescription, 4)
	for i, tc := range []*tensorConfig{c.Input, c.Output, c.Scale, c.Bias} {
		if tensors[i], err = tc.description(); err != nil {
			return nil, err
		}
	}
	in, out, scale, bias := tensors[0], tensors[1], tensors[2], tensors[3]

	switch typ {
	case directml.OperatorMeanVarianceNormalization:
		if in == nil || out == nil {
			return nil, errors.New("MeanVarianceNormalization needs [input] and [output]")
		}
		d := directml.MeanVarianceNormalization{
			InputTensor:       *in,
			ScaleTensor:       scale,
			BiasTensor:        bias,
			OutputTensor:      *out,
			CrossChannel:      c.CrossChannel,
			NormalizeVariance: c.NormalizeVariance,
			Epsilon:           c.Epsilon,
		}
		if fa := c.FusedActivation; fa != nil {
			fused, err := directml.ParseOperatorType(fa.Type)
			if err != nil {
				return nil, fmt.Errorf("fused activation: %w", err)
			}
			if d.FusedActivation, err = newActivation(fused, nil, nil, fa.Alpha, fa.Beta); err != nil {
				return nil, fmt.Errorf("fused activation: %w", err)
			}
		}
		return d, nil

	case directml.OperatorElementWiseIdentity:
		if in == nil || out == nil {
			return nil, errors.New("ElementWiseIdentity needs [input] and [output]")
		}
		d := directml.ElementWiseIdentity{InputTensor: *in, OutputTensor: *out}
		if sb := c.ScaleBias; sb != nil {
			d.ScaleBias = &directml.ScaleBias{Scale: sb.Scale, Bias: sb.Bias}
		}
		return d, nil

	default:
		return newActivation(typ, in, out, c.Alpha, c.Beta)
	}
}
