package directml

import (
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/dxinterop/mem"
)

// =============================================================================
// Test Helpers
// =============================================================================

// trackAllocations installs a tracking allocator and fails the test on leaks
// or bad frees.
func trackAllocations(t *testing.T) *mem.Tracking {
	t.Helper()
	tr := mem.NewTracking(nil)
	prev := mem.SetAllocator(tr)
	t.Cleanup(func() {
		mem.SetAllocator(prev)
		if n := tr.Live(); n != 0 {
			t.Errorf("leaked %d unmanaged blocks", n)
		}
		if err := tr.Err(); err != nil {
			t.Error(err)
		}
	})
	return tr
}

var errBudget = errors.New("allocation budget exhausted")

// budgetAllocator fails once a fixed number of allocations has been served.
type budgetAllocator struct {
	next mem.Allocator

	mu   sync.Mutex
	left int
}

func (b *budgetAllocator) Alloc(size uintptr) (unsafe.Pointer, error) {
	b.mu.Lock()
	if b.left == 0 {
		b.mu.Unlock()
		return nil, errBudget
	}
	b.left--
	b.mu.Unlock()
	return b.next.Alloc(size)
}

func (b *budgetAllocator) Free(p unsafe.Pointer) { b.next.Free(p) }

func tensorPtr(td TensorDescription) *TensorDescription { return &td }

func nchw(n, c, h, w uint32) TensorDescription {
	return NewTensorDescription(TensorDataTypeFloat32, n, c, h, w)
}

func fullMVN() MeanVarianceNormalization {
	return MeanVarianceNormalization{
		InputTensor:       nchw(1, 3, 8, 8),
		ScaleTensor:       tensorPtr(nchw(1, 3, 1, 1)),
		BiasTensor:        tensorPtr(nchw(1, 3, 1, 1)),
		OutputTensor:      nchw(1, 3, 8, 8),
		CrossChannel:      true,
		NormalizeVariance: true,
		Epsilon:           1e-5,
		FusedActivation:   ActivationLeakyRelu{Alpha: 0.1},
	}
}

// =============================================================================
// Layout Tests
// =============================================================================

func TestNativeLayouts(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("native layouts are checked for 64-bit targets")
	}

	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"DML_OPERATOR_DESC", unsafe.Sizeof(nativeOperatorDesc{}), 16},
		{"DML_TENSOR_DESC", unsafe.Sizeof(nativeTensorDesc{}), 16},
		{"DML_BUFFER_TENSOR_DESC", unsafe.Sizeof(nativeBufferTensorDesc{}), 48},
		{"DML_MEAN_VARIANCE_NORMALIZATION_OPERATOR_DESC", unsafe.Sizeof(nativeMeanVarianceNormalizationDesc{}), 56},
		{"DML_ACTIVATION_RELU_OPERATOR_DESC", unsafe.Sizeof(activationPrefix{}), 16},
		{"DML_ACTIVATION_LINEAR_OPERATOR_DESC", unsafe.Sizeof(nativeActivationLinearDesc{}), 24},
		{"DML_ELEMENT_WISE_IDENTITY_OPERATOR_DESC", unsafe.Sizeof(nativeElementWiseIdentityDesc{}), 24},
		{"DML_SCALE_BIAS", unsafe.Sizeof(ScaleBias{}), 8},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("sizeof(%s) = %d, want %d", tt.name, tt.got, tt.want)
		}
	}

	var n nativeMeanVarianceNormalizationDesc
	if off := unsafe.Offsetof(n.Epsilon); off != 40 {
		t.Errorf("Epsilon offset = %d, want 40", off)
	}
	if off := unsafe.Offsetof(n.FusedActivation); off != 48 {
		t.Errorf("FusedActivation offset = %d, want 48", off)
	}
	var b nativeBufferTensorDesc
	if off := unsafe.Offsetof(b.TotalTensorSizeInBytes); off != 32 {
		t.Errorf("TotalTensorSizeInBytes offset = %d, want 32", off)
	}
}

// =============================================================================
// Marshal Tests
// =============================================================================

func TestMarshalMeanVarianceNormalizationRoundTrip(t *testing.T) {
	trackAllocations(t)

	want := fullMVN()
	native, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	defer native.Free()

	if got := native.Type(); got != OperatorMeanVarianceNormalization {
		t.Errorf("Type() = %v, want MeanVarianceNormalization", got)
	}

	got, err := native.Unmarshal()
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(OperatorDescription(want), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalMeanVarianceNormalizationNativeFields(t *testing.T) {
	trackAllocations(t)

	desc := fullMVN()
	desc.CrossChannel = false
	desc.ScaleTensor = nil
	desc.BiasTensor = nil
	desc.FusedActivation = ActivationRelu{}

	native, err := Marshal(desc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	defer native.Free()

	op := (*nativeOperatorDesc)(native.Pointer())
	n := (*nativeMeanVarianceNormalizationDesc)(op.Desc)

	if n.ScaleTensor != nil || n.BiasTensor != nil {
		t.Error("absent scale and bias must marshal to null")
	}
	if n.CrossChannel != 0 || n.NormalizeVariance != 1 {
		t.Errorf("BOOLs = (%d, %d), want (0, 1)", n.CrossChannel, n.NormalizeVariance)
	}
	if n.Epsilon != 1e-5 {
		t.Errorf("Epsilon = %v, want 1e-5", n.Epsilon)
	}

	in := (*nativeTensorDesc)(n.InputTensor)
	if in.Type != TensorTypeBuffer {
		t.Fatalf("input tensor type = %d, want buffer", in.Type)
	}
	buf := (*nativeBufferTensorDesc)(in.Desc)
	if buf.DimensionCount != 4 || buf.Strides != nil || buf.TotalTensorSizeInBytes != 768 {
		t.Errorf("input buffer desc = %+v", *buf)
	}
	sizes := make([]uint32, 4)
	mem.Read(buf.Sizes, sizes)
	if diff := cmp.Diff([]uint32{1, 3, 8, 8}, sizes); diff != "" {
		t.Errorf("native sizes mismatch (-want +got):\n%s", diff)
	}

	fused := (*nativeOperatorDesc)(n.FusedActivation)
	if fused.Type != OperatorActivationRelu {
		t.Errorf("fused type = %v, want ActivationRelu", fused.Type)
	}
	relu := (*activationPrefix)(fused.Desc)
	if relu.InputTensor != nil || relu.OutputTensor != nil {
		t.Error("fused activation tensors must be null")
	}
}

func TestMarshalFreesEverything(t *testing.T) {
	tr := trackAllocations(t)

	native, err := Marshal(fullMVN())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	// operator + MVN desc + 4 tensors x (desc, buffer desc, sizes) + fused operator + fused desc
	if got := tr.Live(); got != 16 {
		t.Errorf("Live() = %d after Marshal, want 16", got)
	}

	native.Free()
	native.Free()
	if native.Pointer() != nil {
		t.Errorf("Pointer() = %p after Free, want nil", native.Pointer())
	}
	if got := native.Type(); got != OperatorInvalid {
		t.Errorf("Type() = %v after Free, want Invalid", got)
	}
}

func TestMarshalPartialFailureLeaksNothing(t *testing.T) {
	// Count the allocations a successful marshal needs.
	counter := mem.NewTracking(nil)
	prev := mem.SetAllocator(counter)
	native, err := Marshal(fullMVN())
	if err != nil {
		mem.SetAllocator(prev)
		t.Fatalf("Marshal() error = %v", err)
	}
	native.Free()
	mem.SetAllocator(prev)
	total, _ := counter.Stats()

	for budget := range int(total) {
		tr := mem.NewTracking(nil)
		prev := mem.SetAllocator(&budgetAllocator{next: tr, left: budget})

		native, err := Marshal(fullMVN())
		mem.SetAllocator(prev)

		if err == nil {
			native.Free()
			t.Fatalf("budget %d: Marshal() succeeded, want failure", budget)
		}
		if !errors.Is(err, mem.ErrAllocationFailed) || !errors.Is(err, errBudget) {
			t.Errorf("budget %d: error = %v, want allocation failure", budget, err)
		}
		if n := tr.Live(); n != 0 {
			t.Errorf("budget %d: leaked %d blocks", budget, n)
		}
		if err := tr.Err(); err != nil {
			t.Errorf("budget %d: %v", budget, err)
		}
	}
}

func TestMarshalRejectsInvalid(t *testing.T) {
	trackAllocations(t)

	if _, err := Marshal(nil); !errors.Is(err, ErrNilDescription) {
		t.Errorf("Marshal(nil) error = %v, want ErrNilDescription", err)
	}

	mismatch := fullMVN()
	mismatch.OutputTensor = nchw(1, 3, 4, 4)
	if _, err := Marshal(mismatch); !errors.Is(err, ErrInvalidTensor) {
		t.Errorf("Marshal(shape mismatch) error = %v, want ErrInvalidTensor", err)
	}

	badScale := fullMVN()
	badScale.ScaleTensor = &TensorDescription{DataType: TensorDataTypeFloat32}
	if _, err := Marshal(badScale); !errors.Is(err, ErrInvalidTensor) {
		t.Errorf("Marshal(bad scale) error = %v, want ErrInvalidTensor", err)
	}

	if _, err := Marshal((*ActivationRelu)(nil)); !errors.Is(err, ErrNilDescription) {
		t.Errorf("Marshal(nil pointer) error = %v, want ErrNilDescription", err)
	}

	standalone := []OperatorDescription{
		ActivationRelu{},
		ActivationLinear{Alpha: 1},
		ActivationSigmoid{InputTensor: tensorPtr(nchw(1, 1, 1, 1))},
	}
	for _, desc := range standalone {
		if _, err := Marshal(desc); !errors.Is(err, ErrInvalidTensor) {
			t.Errorf("Marshal(%v without tensors) error = %v, want ErrInvalidTensor", desc.OperatorType(), err)
		}
	}

	nilFused := fullMVN()
	nilFused.FusedActivation = (*ActivationRelu)(nil)
	if _, err := Marshal(nilFused); !errors.Is(err, ErrNilDescription) {
		t.Errorf("Marshal(nil pointer fused activation) error = %v, want ErrNilDescription", err)
	}

	fusedWithTensors := fullMVN()
	input := nchw(1, 3, 8, 8)
	fusedWithTensors.FusedActivation = ActivationRelu{InputTensor: &input, OutputTensor: &input}
	if _, err := Marshal(fusedWithTensors); !errors.Is(err, ErrUnsupportedOperator) {
		t.Errorf("Marshal(fused with tensors) error = %v, want ErrUnsupportedOperator", err)
	}
}

func TestMarshalActivations(t *testing.T) {
	trackAllocations(t)

	in := nchw(2, 4, 1, 1)
	out := nchw(2, 4, 1, 1)
	strided := TensorDescription{
		DataType:               TensorDataTypeFloat32,
		Sizes:                  []uint32{2, 4},
		Strides:                []uint32{4, 1},
		TotalTensorSizeInBytes: 32,
	}

	descs := []OperatorDescription{
		ActivationIdentity{InputTensor: &in, OutputTensor: &out},
		ActivationRelu{InputTensor: &in, OutputTensor: &out},
		ActivationSigmoid{InputTensor: &strided, OutputTensor: &strided},
		ActivationTanh{InputTensor: &in, OutputTensor: &out},
		ActivationElu{InputTensor: &in, OutputTensor: &out, Alpha: 1},
		ActivationLeakyRelu{InputTensor: &in, OutputTensor: &out, Alpha: 0.01},
		ActivationLinear{InputTensor: &in, OutputTensor: &out, Alpha: 2, Beta: -1},
		ElementWiseIdentity{InputTensor: in, OutputTensor: out},
		ElementWiseIdentity{InputTensor: in, OutputTensor: out, ScaleBias: &ScaleBias{Scale: 0.5, Bias: 3}},
	}
	for _, desc := range descs {
		t.Run(desc.OperatorType().String(), func(t *testing.T) {
			native, err := Marshal(desc)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			defer native.Free()

			got, err := Unmarshal(native.Pointer())
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if diff := cmp.Diff(desc, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// =============================================================================
// Unmarshal Tests
// =============================================================================

func TestUnmarshalErrors(t *testing.T) {
	if _, err := Unmarshal(nil); !errors.Is(err, ErrNilDescription) {
		t.Errorf("Unmarshal(nil) error = %v, want ErrNilDescription", err)
	}

	unknown := nativeOperatorDesc{Type: 999}
	if _, err := Unmarshal(unsafe.Pointer(&unknown)); !errors.Is(err, ErrUnsupportedOperator) {
		t.Errorf("Unmarshal(unknown type) error = %v, want ErrUnsupportedOperator", err)
	}

	empty := nativeOperatorDesc{Type: OperatorActivationRelu}
	if _, err := Unmarshal(unsafe.Pointer(&empty)); !errors.Is(err, ErrNilDescription) {
		t.Errorf("Unmarshal(no desc) error = %v, want ErrNilDescription", err)
	}
}

func TestUnmarshalRejectsNonActivationFusion(t *testing.T) {
	trackAllocations(t)

	identity, err := Marshal(ElementWiseIdentity{InputTensor: nchw(1, 1, 1, 1), OutputTensor: nchw(1, 1, 1, 1)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	defer identity.Free()

	mvn, err := Marshal(MeanVarianceNormalization{InputTensor: nchw(1, 1, 2, 2), OutputTensor: nchw(1, 1, 2, 2)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	defer mvn.Free()

	n := (*nativeMeanVarianceNormalizationDesc)((*nativeOperatorDesc)(mvn.Pointer()).Desc)
	n.FusedActivation = identity.Pointer()
	defer func() { n.FusedActivation = nil }()

	if _, err := mvn.Unmarshal(); !errors.Is(err, ErrUnsupportedOperator) {
		t.Errorf("Unmarshal() error = %v, want ErrUnsupportedOperator", err)
	}
}

func TestOperatorTypeString(t *testing.T) {
	if got := OperatorMeanVarianceNormalization.String(); got != "MeanVarianceNormalization" {
		t.Errorf("String() = %q", got)
	}
	if got := OperatorType(500).String(); got != "OperatorType(500)" {
		t.Errorf("String() = %q", got)
	}
}

// =============================================================================
// Inspection Tests
// =============================================================================

func TestNativeOperatorBytes(t *testing.T) {
	trackAllocations(t)

	in := NewTensorDescription(TensorDataTypeFloat32, 4)
	native, err := Marshal(ActivationLinear{InputTensor: &in, OutputTensor: &in, Alpha: 2, Beta: 0.5})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	op, desc := native.Bytes()
	if len(op) != int(unsafe.Sizeof(nativeOperatorDesc{})) {
		t.Errorf("len(op) = %d, want %d", len(op), unsafe.Sizeof(nativeOperatorDesc{}))
	}
	if len(desc) != int(unsafe.Sizeof(nativeActivationLinearDesc{})) {
		t.Fatalf("len(desc) = %d, want %d", len(desc), unsafe.Sizeof(nativeActivationLinearDesc{}))
	}
	var n nativeActivationLinearDesc
	alpha := math.Float32frombits(binary.NativeEndian.Uint32(desc[unsafe.Offsetof(n.Alpha):]))
	beta := math.Float32frombits(binary.NativeEndian.Uint32(desc[unsafe.Offsetof(n.Beta):]))
	if alpha != 2 || beta != 0.5 {
		t.Errorf("alpha, beta = %v, %v, want 2, 0.5", alpha, beta)
	}
	if got := binary.NativeEndian.Uint32(op); OperatorType(got) != OperatorActivationLinear {
		t.Errorf("type in bytes = %v, want ActivationLinear", OperatorType(got))
	}

	native.Free()
	if op, desc := native.Bytes(); op != nil || desc != nil {
		t.Error("Bytes() after Free must return nil")
	}
}

func TestNativeLayoutsMatchStructs(t *testing.T) {
	layouts := NativeLayouts()
	sizes := map[string]uintptr{
		"DML_OPERATOR_DESC": unsafe.Sizeof(nativeOperatorDesc{}),
		"DML_MEAN_VARIANCE_NORMALIZATION_OPERATOR_DESC": unsafe.Sizeof(nativeMeanVarianceNormalizationDesc{}),
	}
	seen := make(map[string]bool)
	for _, l := range layouts {
		if seen[l.Name] {
			t.Errorf("duplicate layout %s", l.Name)
		}
		seen[l.Name] = true
		if want, ok := sizes[l.Name]; ok && l.Size != want {
			t.Errorf("%s size = %d, want %d", l.Name, l.Size, want)
		}
		if len(l.Fields) == 0 {
			t.Errorf("%s has no fields", l.Name)
		}
	}
	for name := range sizes {
		if !seen[name] {
			t.Errorf("layout %s missing", name)
		}
	}
}

func TestParseOperatorType(t *testing.T) {
	for typ, name := range operatorNames {
		got, err := ParseOperatorType(name)
		if err != nil || got != typ {
			t.Errorf("ParseOperatorType(%q) = (%v, %v), want %v", name, got, err, typ)
		}
	}
	if _, err := ParseOperatorType("Convolution"); !errors.Is(err, ErrUnsupportedOperator) {
		t.Errorf("ParseOperatorType(Convolution) error = %v, want ErrUnsupportedOperator", err)
	}
}
