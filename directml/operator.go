package directml

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/dxinterop"
	"github.com/gogpu/dxinterop/mem"
)

// OperatorDescription is implemented by every operator this package can
// marshal.
type OperatorDescription interface {
	OperatorType() OperatorType

	// marshalDesc builds the type-specific native desc. On error nothing
	// stays allocated.
	marshalDesc() (unsafe.Pointer, error)
}

// operatorCodec releases and reads back one type-specific native desc.
type operatorCodec struct {
	size      uintptr
	free      func(p unsafe.Pointer)
	unmarshal func(p unsafe.Pointer) (OperatorDescription, error)
}

// codecs is filled by the files defining each operator.
var codecs = map[OperatorType]operatorCodec{}

// nativeOperatorDesc is DML_OPERATOR_DESC.
type nativeOperatorDesc struct {
	Type OperatorType
	Desc unsafe.Pointer
}

// NativeOperator owns a marshaled DML_OPERATOR_DESC graph.
type NativeOperator struct {
	ptr unsafe.Pointer
}

// Marshal builds the native descriptor graph for desc. The returned handle
// owns every allocation in the graph and must be released with Free.
func Marshal(desc OperatorDescription) (*NativeOperator, error) {
	if isNil(desc) {
		return nil, ErrNilDescription
	}
	// Only the fused form of an activation may omit its tensors.
	if a, ok := desc.(Activation); ok {
		if in, out := a.tensors(); in == nil || out == nil {
			return nil, fmt.Errorf("marshal %v: %w: standalone activation needs input and output tensors",
				desc.OperatorType(), ErrInvalidTensor)
		}
	}
	p, err := marshalOperator(desc)
	if err != nil {
		return nil, fmt.Errorf("marshal %v: %w", desc.OperatorType(), err)
	}
	dxinterop.Logger().Debug("directml: marshaled operator", "type", desc.OperatorType(), "ptr", p)
	return &NativeOperator{ptr: p}, nil
}

// Pointer returns the address of the DML_OPERATOR_DESC, or nil after Free.
func (n *NativeOperator) Pointer() unsafe.Pointer {
	return n.ptr
}

// Type returns the operator type stored in the native desc.
func (n *NativeOperator) Type() OperatorType {
	if n.ptr == nil {
		return OperatorInvalid
	}
	return (*nativeOperatorDesc)(n.ptr).Type
}

// Unmarshal reads the graph back into a description.
func (n *NativeOperator) Unmarshal() (OperatorDescription, error) {
	return Unmarshal(n.ptr)
}

// Bytes returns copies of the DML_OPERATOR_DESC and of the type-specific
// desc it points to. Both are nil after Free.
func (n *NativeOperator) Bytes() (op, desc []byte) {
	if n.ptr == nil {
		return nil, nil
	}
	op = make([]byte, unsafe.Sizeof(nativeOperatorDesc{}))
	mem.Read(n.ptr, op)

	native := (*nativeOperatorDesc)(n.ptr)
	if codec, ok := codecs[native.Type]; ok && native.Desc != nil {
		desc = make([]byte, codec.size)
		mem.Read(native.Desc, desc)
	}
	return op, desc
}

// Free releases the whole graph. Calling Free again does nothing.
func (n *NativeOperator) Free() {
	if n.ptr == nil {
		return
	}
	dxinterop.Logger().Debug("directml: freeing operator", "type", n.Type(), "ptr", n.ptr)
	freeOperator(n.ptr)
	n.ptr = nil
}

// Unmarshal reads a native DML_OPERATOR_DESC graph, such as one produced by
// Marshal, back into a description.
func Unmarshal(p unsafe.Pointer) (OperatorDescription, error) {
	if p == nil {
		return nil, ErrNilDescription
	}
	op := (*nativeOperatorDesc)(p)
	codec, ok := codecs[op.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedOperator, op.Type)
	}
	if op.Desc == nil {
		return nil, fmt.Errorf("%w: %v has no desc", ErrNilDescription, op.Type)
	}
	return codec.unmarshal(op.Desc)
}

// isNil reports whether desc is nil or a nil pointer to a description.
func isNil(desc OperatorDescription) bool {
	switch d := desc.(type) {
	case nil:
		return true
	case *MeanVarianceNormalization:
		return d == nil
	case *ElementWiseIdentity:
		return d == nil
	case *ActivationIdentity:
		return d == nil
	case *ActivationRelu:
		return d == nil
	case *ActivationSigmoid:
		return d == nil
	case *ActivationTanh:
		return d == nil
	case *ActivationElu:
		return d == nil
	case *ActivationLeakyRelu:
		return d == nil
	case *ActivationLinear:
		return d == nil
	}
	return false
}

func marshalOperator(desc OperatorDescription) (unsafe.Pointer, error) {
	op, err := mem.AllocOf[nativeOperatorDesc]()
	if err != nil {
		return nil, err
	}
	*op = nativeOperatorDesc{Type: desc.OperatorType()}

	if op.Desc, err = desc.marshalDesc(); err != nil {
		mem.Free(unsafe.Pointer(op))
		return nil, err
	}
	return unsafe.Pointer(op), nil
}

// freeOperator releases a DML_OPERATOR_DESC and everything below it.
func freeOperator(p unsafe.Pointer) {
	if p == nil {
		return
	}
	op := (*nativeOperatorDesc)(p)
	if codec, ok := codecs[op.Type]; ok && op.Desc != nil {
		codec.free(op.Desc)
	}
	mem.Free(p)
}

// marshalTensors marshals tensors in order into dst. On error every tensor
// already marshaled is released and dst is cleared.
func marshalTensors(dst []*unsafe.Pointer, tensors ...*TensorDescription) error {
	for i, t := range tensors {
		p, err := marshalTensor(t)
		if err != nil {
			for j := range i {
				freeTensor(*dst[j])
				*dst[j] = nil
			}
			return fmt.Errorf("tensor %d: %w", i, err)
		}
		*dst[i] = p
	}
	return nil
}
