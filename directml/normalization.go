package directml

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/dxinterop/mem"
)

// MeanVarianceNormalization is DML_MEAN_VARIANCE_NORMALIZATION_OPERATOR_DESC.
//
// It normalizes InputTensor to zero mean and, when NormalizeVariance is set,
// unit variance: (x - mean) / sqrt(variance + Epsilon), followed by the
// optional Scale, Bias and FusedActivation.
type MeanVarianceNormalization struct {
	InputTensor TensorDescription

	// ScaleTensor and BiasTensor are optional.
	ScaleTensor *TensorDescription
	BiasTensor  *TensorDescription

	OutputTensor TensorDescription

	// CrossChannel includes the channel dimension in the mean and variance.
	CrossChannel      bool
	NormalizeVariance bool
	Epsilon           float32

	// FusedActivation is applied to the output. It must have no tensors.
	// Nil means none; a nil pointer of an activation type is rejected.
	FusedActivation Activation
}

// OperatorType implements OperatorDescription.
func (MeanVarianceNormalization) OperatorType() OperatorType {
	return OperatorMeanVarianceNormalization
}

// Validate checks the tensors and the fused activation.
func (d MeanVarianceNormalization) Validate() error {
	if err := d.InputTensor.Validate(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if err := d.OutputTensor.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if !d.InputTensor.SameShape(&d.OutputTensor) {
		return fmt.Errorf("%w: output sizes %v differ from input sizes %v", ErrInvalidTensor, d.OutputTensor.Sizes, d.InputTensor.Sizes)
	}
	if d.FusedActivation != nil {
		if isNil(d.FusedActivation) {
			return fmt.Errorf("%w: fused activation is a nil pointer", ErrNilDescription)
		}
		if in, out := d.FusedActivation.tensors(); in != nil || out != nil {
			return fmt.Errorf("%w: fused %v must not carry tensors", ErrUnsupportedOperator, d.FusedActivation.OperatorType())
		}
	}
	return nil
}

// nativeMeanVarianceNormalizationDesc is
// DML_MEAN_VARIANCE_NORMALIZATION_OPERATOR_DESC (56 bytes).
type nativeMeanVarianceNormalizationDesc struct {
	InputTensor       unsafe.Pointer
	ScaleTensor       unsafe.Pointer
	BiasTensor        unsafe.Pointer
	OutputTensor      unsafe.Pointer
	CrossChannel      int32
	NormalizeVariance int32
	Epsilon           float32
	FusedActivation   unsafe.Pointer
}

func (d MeanVarianceNormalization) marshalDesc() (unsafe.Pointer, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	n, err := mem.AllocOf[nativeMeanVarianceNormalizationDesc]()
	if err != nil {
		return nil, err
	}
	*n = nativeMeanVarianceNormalizationDesc{
		CrossChannel:      nativeBool(d.CrossChannel),
		NormalizeVariance: nativeBool(d.NormalizeVariance),
		Epsilon:           d.Epsilon,
	}

	err = marshalTensors(
		[]*unsafe.Pointer{&n.InputTensor, &n.ScaleTensor, &n.BiasTensor, &n.OutputTensor},
		&d.InputTensor, d.ScaleTensor, d.BiasTensor, &d.OutputTensor,
	)
	if err != nil {
		mem.Free(unsafe.Pointer(n))
		return nil, err
	}

	if d.FusedActivation != nil {
		if n.FusedActivation, err = marshalOperator(d.FusedActivation); err != nil {
			freeMeanVarianceNormalization(unsafe.Pointer(n))
			return nil, fmt.Errorf("fused activation: %w", err)
		}
	}
	return unsafe.Pointer(n), nil
}

func freeMeanVarianceNormalization(p unsafe.Pointer) {
	n := (*nativeMeanVarianceNormalizationDesc)(p)
	freeTensor(n.InputTensor)
	freeTensor(n.ScaleTensor)
	freeTensor(n.BiasTensor)
	freeTensor(n.OutputTensor)
	freeOperator(n.FusedActivation)
	mem.Free(p)
}

func unmarshalMeanVarianceNormalization(p unsafe.Pointer) (OperatorDescription, error) {
	n := (*nativeMeanVarianceNormalizationDesc)(p)
	d := MeanVarianceNormalization{
		CrossChannel:      n.CrossChannel != 0,
		NormalizeVariance: n.NormalizeVariance != 0,
		Epsilon:           n.Epsilon,
	}

	in, err := unmarshalTensor(n.InputTensor)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	out, err := unmarshalTensor(n.OutputTensor)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	if in == nil || out == nil {
		return nil, fmt.Errorf("%w: missing input or output tensor", ErrInvalidTensor)
	}
	d.InputTensor, d.OutputTensor = *in, *out

	if d.ScaleTensor, err = unmarshalTensor(n.ScaleTensor); err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	if d.BiasTensor, err = unmarshalTensor(n.BiasTensor); err != nil {
		return nil, fmt.Errorf("bias: %w", err)
	}

	if n.FusedActivation != nil {
		fused, err := Unmarshal(n.FusedActivation)
		if err != nil {
			return nil, fmt.Errorf("fused activation: %w", err)
		}
		act, ok := fused.(Activation)
		if !ok {
			return nil, fmt.Errorf("%w: %v cannot be fused", ErrUnsupportedOperator, fused.OperatorType())
		}
		d.FusedActivation = act
	}
	return d, nil
}

func init() {
	codecs[OperatorMeanVarianceNormalization] = operatorCodec{
		size:      unsafe.Sizeof(nativeMeanVarianceNormalizationDesc{}),
		free:      freeMeanVarianceNormalization,
		unmarshal: unmarshalMeanVarianceNormalization,
	}
}

// nativeBool converts to the 4-byte BOOL.
func nativeBool(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
