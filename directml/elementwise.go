package directml

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/dxinterop/mem"
)

// ScaleBias is DML_SCALE_BIAS: x*Scale + Bias.
type ScaleBias struct {
	Scale float32
	Bias  float32
}

// ElementWiseIdentity is DML_ELEMENT_WISE_IDENTITY_OPERATOR_DESC. It copies
// its input, optionally applying ScaleBias.
type ElementWiseIdentity struct {
	InputTensor  TensorDescription
	OutputTensor TensorDescription
	ScaleBias    *ScaleBias
}

// OperatorType implements OperatorDescription.
func (ElementWiseIdentity) OperatorType() OperatorType {
	return OperatorElementWiseIdentity
}

type nativeElementWiseIdentityDesc struct {
	InputTensor  unsafe.Pointer
	OutputTensor unsafe.Pointer
	ScaleBias    unsafe.Pointer
}

func (d ElementWiseIdentity) marshalDesc() (unsafe.Pointer, error) {
	n, err := mem.AllocOf[nativeElementWiseIdentityDesc]()
	if err != nil {
		return nil, err
	}
	*n = nativeElementWiseIdentityDesc{}

	if err := marshalTensors([]*unsafe.Pointer{&n.InputTensor, &n.OutputTensor}, &d.InputTensor, &d.OutputTensor); err != nil {
		mem.Free(unsafe.Pointer(n))
		return nil, err
	}
	if d.ScaleBias != nil {
		sb, err := mem.AllocWithData(*d.ScaleBias)
		if err != nil {
			freeElementWiseIdentity(unsafe.Pointer(n))
			return nil, fmt.Errorf("scale bias: %w", err)
		}
		n.ScaleBias = unsafe.Pointer(sb)
	}
	return unsafe.Pointer(n), nil
}

func freeElementWiseIdentity(p unsafe.Pointer) {
	n := (*nativeElementWiseIdentityDesc)(p)
	freeTensor(n.InputTensor)
	freeTensor(n.OutputTensor)
	mem.Free(n.ScaleBias)
	mem.Free(p)
}

func unmarshalElementWiseIdentity(p unsafe.Pointer) (OperatorDescription, error) {
	n := (*nativeElementWiseIdentityDesc)(p)
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

	d := ElementWiseIdentity{InputTensor: *in, OutputTensor: *out}
	if n.ScaleBias != nil {
		sb := make([]ScaleBias, 1)
		mem.Read(n.ScaleBias, sb)
		d.ScaleBias = &sb[0]
	}
	return d, nil
}

func init() {
	codecs[OperatorElementWiseIdentity] = operatorCodec{
		size:      unsafe.Sizeof(nativeElementWiseIdentityDesc{}),
		free:      freeElementWiseIdentity,
		unmarshal: unmarshalElementWiseIdentity,
	}
}
