package directml

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/dxinterop/mem"
)

// MaxTensorDimensions is DML_TENSOR_DIMENSION_COUNT_MAX1.
const MaxTensorDimensions = 8

// TensorDescription describes a buffer tensor (DML_BUFFER_TENSOR_DESC).
type TensorDescription struct {
	DataType TensorDataType
	Flags    TensorFlags

	// Sizes holds one entry per dimension, outermost first.
	Sizes []uint32

	// Strides holds element strides per dimension. Nil means packed.
	Strides []uint32

	TotalTensorSizeInBytes        uint64
	GuaranteedBaseOffsetAlignment uint32
}

// NewTensorDescription returns a packed tensor description with
// TotalTensorSizeInBytes computed from the sizes.
func NewTensorDescription(dt TensorDataType, sizes ...uint32) TensorDescription {
	return TensorDescription{
		DataType:               dt,
		Sizes:                  sizes,
		TotalTensorSizeInBytes: CalcBufferTensorSize(dt, sizes, nil),
	}
}

// CalcBufferTensorSize returns the minimum buffer size in bytes for a tensor
// with the given sizes and optional strides, rounded up to a multiple of 4.
// It returns 0 when strides is non-nil and its length differs from sizes.
func CalcBufferTensorSize(dt TensorDataType, sizes, strides []uint32) uint64 {
	if len(sizes) == 0 || (strides != nil && len(strides) != len(sizes)) {
		return 0
	}

	var implied uint64
	if strides == nil {
		implied = 1
		for _, s := range sizes {
			implied *= uint64(s)
		}
		implied *= dt.ElementSize()
	} else {
		var last uint64
		for i, s := range sizes {
			if s == 0 {
				return 0
			}
			last += uint64(s-1) * uint64(strides[i])
		}
		implied = (last + 1) * dt.ElementSize()
	}
	return (implied + 3) &^ 3
}

// Validate reports whether the description is one the runtime accepts.
func (t *TensorDescription) Validate() error {
	if t.DataType.ElementSize() == 0 {
		return fmt.Errorf("%w: data type %v", ErrInvalidTensor, t.DataType)
	}
	if t.Flags&^TensorFlagOwnedByDML != 0 {
		return fmt.Errorf("%w: flags %#x", ErrInvalidTensor, uint32(t.Flags))
	}
	if n := len(t.Sizes); n == 0 || n > MaxTensorDimensions {
		return fmt.Errorf("%w: %d dimensions, want 1 to %d", ErrInvalidTensor, n, MaxTensorDimensions)
	}
	for i, s := range t.Sizes {
		if s == 0 {
			return fmt.Errorf("%w: size of dimension %d is 0", ErrInvalidTensor, i)
		}
	}
	if t.Strides != nil && len(t.Strides) != len(t.Sizes) {
		return fmt.Errorf("%w: %d strides for %d dimensions", ErrInvalidTensor, len(t.Strides), len(t.Sizes))
	}
	if need := CalcBufferTensorSize(t.DataType, t.Sizes, t.Strides); t.TotalTensorSizeInBytes < need {
		return fmt.Errorf("%w: total size %d, need at least %d", ErrInvalidTensor, t.TotalTensorSizeInBytes, need)
	}
	return nil
}

// SameShape reports whether t and other have equal sizes.
func (t *TensorDescription) SameShape(other *TensorDescription) bool {
	if len(t.Sizes) != len(other.Sizes) {
		return false
	}
	for i := range t.Sizes {
		if t.Sizes[i] != other.Sizes[i] {
			return false
		}
	}
	return true
}

// nativeTensorDesc is DML_TENSOR_DESC.
type nativeTensorDesc struct {
	Type TensorType
	Desc unsafe.Pointer
}

// nativeBufferTensorDesc is DML_BUFFER_TENSOR_DESC.
type nativeBufferTensorDesc struct {
	DataType                      TensorDataType
	Flags                         TensorFlags
	DimensionCount                uint32
	Sizes                         unsafe.Pointer
	Strides                       unsafe.Pointer
	TotalTensorSizeInBytes        uint64
	GuaranteedBaseOffsetAlignment uint32
}

// marshalTensor builds a DML_TENSOR_DESC and its buffer desc. A nil tensor
// marshals to nil, the native encoding of an absent optional tensor.
func marshalTensor(t *TensorDescription) (unsafe.Pointer, error) {
	if t == nil {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	desc, err := mem.AllocOf[nativeTensorDesc]()
	if err != nil {
		return nil, err
	}
	*desc = nativeTensorDesc{Type: TensorTypeBuffer}

	buf, err := mem.AllocOf[nativeBufferTensorDesc]()
	if err != nil {
		freeTensor(unsafe.Pointer(desc))
		return nil, err
	}
	*buf = nativeBufferTensorDesc{
		DataType:                      t.DataType,
		Flags:                         t.Flags,
		DimensionCount:                uint32(len(t.Sizes)),
		TotalTensorSizeInBytes:        t.TotalTensorSizeInBytes,
		GuaranteedBaseOffsetAlignment: t.GuaranteedBaseOffsetAlignment,
	}
	desc.Desc = unsafe.Pointer(buf)

	if buf.Sizes, err = mem.AllocToPointer(t.Sizes); err != nil {
		freeTensor(unsafe.Pointer(desc))
		return nil, err
	}
	if buf.Strides, err = mem.AllocToPointer(t.Strides); err != nil {
		freeTensor(unsafe.Pointer(desc))
		return nil, err
	}
	return unsafe.Pointer(desc), nil
}

// freeTensor releases a DML_TENSOR_DESC built by marshalTensor, including
// partially built ones.
func freeTensor(p unsafe.Pointer) {
	if p == nil {
		return
	}
	desc := (*nativeTensorDesc)(p)
	if desc.Type == TensorTypeBuffer && desc.Desc != nil {
		buf := (*nativeBufferTensorDesc)(desc.Desc)
		mem.Free(buf.Sizes)
		mem.Free(buf.Strides)
		mem.Free(desc.Desc)
	}
	mem.Free(p)
}

// unmarshalTensor reads a DML_TENSOR_DESC. A nil pointer yields nil.
func unmarshalTensor(p unsafe.Pointer) (*TensorDescription, error) {
	if p == nil {
		return nil, nil
	}
	desc := (*nativeTensorDesc)(p)
	if desc.Type != TensorTypeBuffer || desc.Desc == nil {
		return nil, fmt.Errorf("%w: tensor type %d", ErrUnsupportedOperator, desc.Type)
	}
	buf := (*nativeBufferTensorDesc)(desc.Desc)

	t := &TensorDescription{
		DataType:                      buf.DataType,
		Flags:                         buf.Flags,
		TotalTensorSizeInBytes:        buf.TotalTensorSizeInBytes,
		GuaranteedBaseOffsetAlignment: buf.GuaranteedBaseOffsetAlignment,
	}
	n := int(buf.DimensionCount)
	if n > MaxTensorDimensions {
		return nil, fmt.Errorf("%w: %d dimensions", ErrInvalidTensor, n)
	}
	if buf.Sizes != nil {
		t.Sizes = make([]uint32, n)
		mem.Read(buf.Sizes, t.Sizes)
	}
	if buf.Strides != nil {
		t.Strides = make([]uint32, n)
		mem.Read(buf.Strides, t.Strides)
	}
	return t, nil
}
