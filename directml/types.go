package directml

import "fmt"

// TensorDataType is DML_TENSOR_DATA_TYPE.
type TensorDataType int32

// Tensor element types.
const (
	TensorDataTypeUnknown TensorDataType = 0
	TensorDataTypeFloat32 TensorDataType = 1
	TensorDataTypeFloat16 TensorDataType = 2
	TensorDataTypeUInt32  TensorDataType = 3
	TensorDataTypeUInt16  TensorDataType = 4
	TensorDataTypeUInt8   TensorDataType = 5
	TensorDataTypeInt32   TensorDataType = 6
	TensorDataTypeInt16   TensorDataType = 7
	TensorDataTypeInt8    TensorDataType = 8
	TensorDataTypeFloat64 TensorDataType = 9
	TensorDataTypeUInt64  TensorDataType = 10
	TensorDataTypeInt64   TensorDataType = 11
)

var dataTypeInfo = map[TensorDataType]struct {
	name string
	size uint64
}{
	TensorDataTypeFloat32: {"Float32", 4},
	TensorDataTypeFloat16: {"Float16", 2},
	TensorDataTypeUInt32:  {"UInt32", 4},
	TensorDataTypeUInt16:  {"UInt16", 2},
	TensorDataTypeUInt8:   {"UInt8", 1},
	TensorDataTypeInt32:   {"Int32", 4},
	TensorDataTypeInt16:   {"Int16", 2},
	TensorDataTypeInt8:    {"Int8", 1},
	TensorDataTypeFloat64: {"Float64", 8},
	TensorDataTypeUInt64:  {"UInt64", 8},
	TensorDataTypeInt64:   {"Int64", 8},
}

// ElementSize returns the size in bytes of one element, or 0 for unknown types.
func (dt TensorDataType) ElementSize() uint64 {
	return dataTypeInfo[dt].size
}

func (dt TensorDataType) String() string {
	if info, ok := dataTypeInfo[dt]; ok {
		return info.name
	}
	return fmt.Sprintf("TensorDataType(%d)", int32(dt))
}

// ParseTensorDataType returns the data type with the given name, as printed
// by String.
func ParseTensorDataType(name string) (TensorDataType, error) {
	for dt, info := range dataTypeInfo {
		if info.name == name {
			return dt, nil
		}
	}
	return TensorDataTypeUnknown, fmt.Errorf("%w: data type %q", ErrInvalidTensor, name)
}

// TensorFlags is DML_TENSOR_FLAGS.
type TensorFlags uint32

// Tensor flags.
const (
	TensorFlagNone       TensorFlags = 0
	TensorFlagOwnedByDML TensorFlags = 1
)

// TensorType is DML_TENSOR_TYPE.
type TensorType int32

// Tensor types.
const (
	TensorTypeInvalid TensorType = 0
	TensorTypeBuffer  TensorType = 1
)

// OperatorType is DML_OPERATOR_TYPE. Only the operators this package can
// describe are listed.
type OperatorType int32

// Operator types.
const (
	OperatorInvalid                   OperatorType = 0
	OperatorElementWiseIdentity       OperatorType = 1
	OperatorActivationElu             OperatorType = 35
	OperatorActivationIdentity        OperatorType = 38
	OperatorActivationLeakyRelu       OperatorType = 39
	OperatorActivationLinear          OperatorType = 40
	OperatorActivationRelu            OperatorType = 44
	OperatorActivationSigmoid         OperatorType = 47
	OperatorActivationTanh            OperatorType = 51
	OperatorMeanVarianceNormalization OperatorType = 73
)

var operatorNames = map[OperatorType]string{
	OperatorElementWiseIdentity:       "ElementWiseIdentity",
	OperatorActivationElu:             "ActivationElu",
	OperatorActivationIdentity:        "ActivationIdentity",
	OperatorActivationLeakyRelu:       "ActivationLeakyRelu",
	OperatorActivationLinear:          "ActivationLinear",
	OperatorActivationRelu:            "ActivationRelu",
	OperatorActivationSigmoid:         "ActivationSigmoid",
	OperatorActivationTanh:            "ActivationTanh",
	OperatorMeanVarianceNormalization: "MeanVarianceNormalization",
}

func (t OperatorType) String() string {
	if name, ok := operatorNames[t]; ok {
		return name
	}
	return fmt.Sprintf("OperatorType(%d)", int32(t))
}

// ParseOperatorType returns the operator type with the given name, as printed
// by String.
func ParseOperatorType(name string) (OperatorType, error) {
	for t, n := range operatorNames {
		if n == name {
			return t, nil
		}
	}
	return OperatorInvalid, fmt.Errorf("%w: %q", ErrUnsupportedOperator, name)
}
