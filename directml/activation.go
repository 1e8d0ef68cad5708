package directml

import (
	"unsafe"

	"github.com/gogpu/dxinterop/mem"
)

// Activation is an operator that can be fused into another operator.
// A fused activation has no tensors of its own.
type Activation interface {
	OperatorDescription
	tensors() (in, out *TensorDescription)
}

// ActivationIdentity is DML_ACTIVATION_IDENTITY_OPERATOR_DESC.
type ActivationIdentity struct {
	InputTensor  *TensorDescription
	OutputTensor *TensorDescription
}

// ActivationRelu is DML_ACTIVATION_RELU_OPERATOR_DESC.
type ActivationRelu struct {
	InputTensor  *TensorDescription
	OutputTensor *TensorDescription
}

// ActivationSigmoid is DML_ACTIVATION_SIGMOID_OPERATOR_DESC.
type ActivationSigmoid struct {
	InputTensor  *TensorDescription
	OutputTensor *TensorDescription
}

// ActivationTanh is DML_ACTIVATION_TANH_OPERATOR_DESC.
type ActivationTanh struct {
	InputTensor  *TensorDescription
	OutputTensor *TensorDescription
}

// ActivationElu is DML_ACTIVATION_ELU_OPERATOR_DESC.
type ActivationElu struct {
	InputTensor  *TensorDescription
	OutputTensor *TensorDescription
	Alpha        float32
}

// ActivationLeakyRelu is DML_ACTIVATION_LEAKY_RELU_OPERATOR_DESC.
type ActivationLeakyRelu struct {
	InputTensor  *TensorDescription
	OutputTensor *TensorDescription
	Alpha        float32
}

// ActivationLinear is DML_ACTIVATION_LINEAR_OPERATOR_DESC: Alpha*x + Beta.
type ActivationLinear struct {
	InputTensor  *TensorDescription
	OutputTensor *TensorDescription
	Alpha        float32
	Beta         float32
}

func (ActivationIdentity) OperatorType() OperatorType  { return OperatorActivationIdentity }
func (ActivationRelu) OperatorType() OperatorType      { return OperatorActivationRelu }
func (ActivationSigmoid) OperatorType() OperatorType   { return OperatorActivationSigmoid }
func (ActivationTanh) OperatorType() OperatorType      { return OperatorActivationTanh }
func (ActivationElu) OperatorType() OperatorType       { return OperatorActivationElu }
func (ActivationLeakyRelu) OperatorType() OperatorType { return OperatorActivationLeakyRelu }
func (ActivationLinear) OperatorType() OperatorType    { return OperatorActivationLinear }

func (a ActivationIdentity) tensors() (in, out *TensorDescription)  { return a.InputTensor, a.OutputTensor }
func (a ActivationRelu) tensors() (in, out *TensorDescription)      { return a.InputTensor, a.OutputTensor }
func (a ActivationSigmoid) tensors() (in, out *TensorDescription)   { return a.InputTensor, a.OutputTensor }
func (a ActivationTanh) tensors() (in, out *TensorDescription)      { return a.InputTensor, a.OutputTensor }
func (a ActivationElu) tensors() (in, out *TensorDescription)       { return a.InputTensor, a.OutputTensor }
func (a ActivationLeakyRelu) tensors() (in, out *TensorDescription) { return a.InputTensor, a.OutputTensor }
func (a ActivationLinear) tensors() (in, out *TensorDescription)    { return a.InputTensor, a.OutputTensor }

// activationPrefix is the layout every activation desc starts with.
type activationPrefix struct {
	InputTensor  unsafe.Pointer
	OutputTensor unsafe.Pointer
}

type nativeActivationAlphaDesc struct {
	activationPrefix
	Alpha float32
}

type nativeActivationLinearDesc struct {
	activationPrefix
	Alpha float32
	Beta  float32
}

func (a ActivationIdentity) marshalDesc() (unsafe.Pointer, error) {
	return marshalActivation[activationPrefix](a, nil)
}

func (a ActivationRelu) marshalDesc() (unsafe.Pointer, error) {
	return marshalActivation[activationPrefix](a, nil)
}

func (a ActivationSigmoid) marshalDesc() (unsafe.Pointer, error) {
	return marshalActivation[activationPrefix](a, nil)
}

func (a ActivationTanh) marshalDesc() (unsafe.Pointer, error) {
	return marshalActivation[activationPrefix](a, nil)
}

func (a ActivationElu) marshalDesc() (unsafe.Pointer, error) {
	return marshalActivation(a, func(n *nativeActivationAlphaDesc) { n.Alpha = a.Alpha })
}

func (a ActivationLeakyRelu) marshalDesc() (unsafe.Pointer, error) {
	return marshalActivation(a, func(n *nativeActivationAlphaDesc) { n.Alpha = a.Alpha })
}

func (a ActivationLinear) marshalDesc() (unsafe.Pointer, error) {
	return marshalActivation(a, func(n *nativeActivationLinearDesc) {
		n.Alpha = a.Alpha
		n.Beta = a.Beta
	})
}

// marshalActivation allocates a zeroed N, marshals the activation's tensors
// into its prefix and lets fill set the remaining fields.
func marshalActivation[N any](a Activation, fill func(*N)) (unsafe.Pointer, error) {
	p, err := mem.AllocOf[N]()
	if err != nil {
		return nil, err
	}
	var zero N
	*p = zero

	prefix := (*activationPrefix)(unsafe.Pointer(p))
	in, out := a.tensors()
	if err := marshalTensors([]*unsafe.Pointer{&prefix.InputTensor, &prefix.OutputTensor}, in, out); err != nil {
		mem.Free(unsafe.Pointer(p))
		return nil, err
	}
	if fill != nil {
		fill(p)
	}
	return unsafe.Pointer(p), nil
}

func freeActivation(p unsafe.Pointer) {
	prefix := (*activationPrefix)(p)
	freeTensor(prefix.InputTensor)
	freeTensor(prefix.OutputTensor)
	mem.Free(p)
}

func activationTensors(p unsafe.Pointer) (in, out *TensorDescription, err error) {
	prefix := (*activationPrefix)(p)
	if in, err = unmarshalTensor(prefix.InputTensor); err != nil {
		return nil, nil, err
	}
	if out, err = unmarshalTensor(prefix.OutputTensor); err != nil {
		return nil, nil, err
	}
	return in, out, nil
}

func init() {
	register := func(t OperatorType, size uintptr, build func(p unsafe.Pointer, in, out *TensorDescription) OperatorDescription) {
		codecs[t] = operatorCodec{
			size: size,
			free: freeActivation,
			unmarshal: func(p unsafe.Pointer) (OperatorDescription, error) {
				in, out, err := activationTensors(p)
				if err != nil {
					return nil, err
				}
				return build(p, in, out), nil
			},
		}
	}

	register(OperatorActivationIdentity, unsafe.Sizeof(activationPrefix{}), func(_ unsafe.Pointer, in, out *TensorDescription) OperatorDescription {
		return ActivationIdentity{InputTensor: in, OutputTensor: out}
	})
	register(OperatorActivationRelu, unsafe.Sizeof(activationPrefix{}), func(_ unsafe.Pointer, in, out *TensorDescription) OperatorDescription {
		return ActivationRelu{InputTensor: in, OutputTensor: out}
	})
	register(OperatorActivationSigmoid, unsafe.Sizeof(activationPrefix{}), func(_ unsafe.Pointer, in, out *TensorDescription) OperatorDescription {
		return ActivationSigmoid{InputTensor: in, OutputTensor: out}
	})
	register(OperatorActivationTanh, unsafe.Sizeof(activationPrefix{}), func(_ unsafe.Pointer, in, out *TensorDescription) OperatorDescription {
		return ActivationTanh{InputTensor: in, OutputTensor: out}
	})
	register(OperatorActivationElu, unsafe.Sizeof(nativeActivationAlphaDesc{}), func(p unsafe.Pointer, in, out *TensorDescription) OperatorDescription {
		return ActivationElu{InputTensor: in, OutputTensor: out, Alpha: (*nativeActivationAlphaDesc)(p).Alpha}
	})
	register(OperatorActivationLeakyRelu, unsafe.Sizeof(nativeActivationAlphaDesc{}), func(p unsafe.Pointer, in, out *TensorDescription) OperatorDescription {
		return ActivationLeakyRelu{InputTensor: in, OutputTensor: out, Alpha: (*nativeActivationAlphaDesc)(p).Alpha}
	})
	register(OperatorActivationLinear, unsafe.Sizeof(nativeActivationLinearDesc{}), func(p unsafe.Pointer, in, out *TensorDescription) OperatorDescription {
		n := (*nativeActivationLinearDesc)(p)
		return ActivationLinear{InputTensor: in, OutputTensor: out, Alpha: n.Alpha, Beta: n.Beta}
	})
}
