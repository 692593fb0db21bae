// Package abi bridges the untyped host values crossing into and out of a
// JIT-compiled native function: it marshals scalars and flat array buffers
// into tinygo.org/x/go-llvm GenericValues for ExecutionEngine.RunFunction,
// and unmarshals the single return value back. There is no cgo trampoline
// here — go-llvm's own RunFunction/GenericValue pair is the whole dynamic
// call mechanism, the same role ctypes.CFUNCTYPE played in the original.
package abi

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/tartavull/fastpy/src/types"
)

// ElemKind identifies an array's element type without requiring a caller
// to depend on the full src/types term algebra: just the four numeric
// widths the array ABI supports. src/specialize's ArrayView contract
// exposes one of these so any array-like buffer — not just *Array — can
// report its element type to ReflectArgType.
type ElemKind int

const (
	ElemInt32 ElemKind = iota
	ElemInt64
	ElemFloat32
	ElemFloat64
)

// Term returns the src/types term ElemKind corresponds to.
func (k ElemKind) Term() (types.Term, error) {
	switch k {
	case ElemInt32:
		return types.Int32, nil
	case ElemInt64:
		return types.Int64, nil
	case ElemFloat32:
		return types.Float, nil
	case ElemFloat64:
		return types.Double, nil
	default:
		return nil, fmt.Errorf("abi: unrecognized element kind %d", k)
	}
}

// Array is a host array argument or return value: a flat, contiguous data
// buffer plus its shape. It is the Go-side analogue of the {data pointer,
// rank, shape pointer} triple codegen's array parameter ABI expects, and
// of the three GEP reads src/codegen performs to pull them back out. It
// implements src/specialize's ArrayView contract.
type Array struct {
	Elem types.Term // Int32, Int64, Float or Double: the buffer's element type
	// Extents holds the array's per-dimension sizes. Native code always
	// reads these as i32 regardless of Elem's width (the shape pointer
	// stays pointer<i32> no matter what the data holds), so
	// this is []int32 rather than a wider Go-native integer type.
	Extents []int32
	// Data holds the flat buffer in its native Go slice type: one of
	// []int32, []int64, []float32, []float64. Exactly one of these must be
	// non-nil and its length must equal the product of Extents.
	Data interface{}
}

// Len returns the flat element count implied by Extents.
func (a *Array) Len() int64 {
	n := int64(1)
	for _, d := range a.Extents {
		n *= int64(d)
	}
	return n
}

// ElemKind reports a's element kind, satisfying src/specialize.ArrayView.
func (a *Array) ElemKind() ElemKind {
	switch a.Elem.Key() {
	case types.Int32.Key():
		return ElemInt32
	case types.Int64.Key():
		return ElemInt64
	case types.Float.Key():
		return ElemFloat32
	case types.Double.Key():
		return ElemFloat64
	default:
		panic(fmt.Sprintf("abi: array has non-scalar element type %s", a.Elem))
	}
}

// DataPtr returns a's data pointer, or nil if the buffer is empty,
// satisfying src/specialize.ArrayView. Callers that need to distinguish
// "empty" from "unrecognized type" should call DataPointer directly.
func (a *Array) DataPtr() unsafe.Pointer {
	p, _ := a.DataPointer()
	return p
}

// Shape returns a's per-dimension extents, satisfying
// src/specialize.ArrayView.
func (a *Array) Shape() []int32 { return a.Extents }

// DataPointer returns a pointer to the first element of the backing slice,
// suitable for NewGenericValueFromPointer. The caller must keep a
// reference to the Array (or its Data slice) alive for as long as native
// code may dereference the pointer; Go's GC has no visibility into it
// once it crosses into LLVM-land.
func (a *Array) DataPointer() (unsafe.Pointer, error) {
	switch d := a.Data.(type) {
	case []int32:
		if len(d) == 0 {
			return nil, fmt.Errorf("abi: array has empty data buffer")
		}
		return unsafe.Pointer(&d[0]), nil
	case []int64:
		if len(d) == 0 {
			return nil, fmt.Errorf("abi: array has empty data buffer")
		}
		return unsafe.Pointer(&d[0]), nil
	case []float32:
		if len(d) == 0 {
			return nil, fmt.Errorf("abi: array has empty data buffer")
		}
		return unsafe.Pointer(&d[0]), nil
	case []float64:
		if len(d) == 0 {
			return nil, fmt.Errorf("abi: array has empty data buffer")
		}
		return unsafe.Pointer(&d[0]), nil
	default:
		return nil, fmt.Errorf("abi: array has unrecognized data type %T", a.Data)
	}
}

// ShapePointer returns a pointer to the first element of Extents, the
// third field of the native array triple codegen reads back via GEP.
func (a *Array) ShapePointer() (unsafe.Pointer, error) {
	if len(a.Extents) == 0 {
		return nil, fmt.Errorf("abi: array has no shape")
	}
	return unsafe.Pointer(&a.Extents[0]), nil
}

// arrayDescriptor is the Go-side mirror of the {data, dims, shape} struct
// codegen's array parameter decodes via three GEPs: a data pointer, the
// rank as an i32, and a pointer to i32 shape entries. Its field layout
// matches the LLVM struct's natural x86-64 alignment (8-byte pointer,
// 4-byte int padded to 8, 8-byte pointer), so a pointer to one of these
// is exactly what the compiled function's GEP offsets expect — only this
// three-word descriptor is freshly allocated per call; the caller's
// underlying data and shape buffers are never copied.
type arrayDescriptor struct {
	data  unsafe.Pointer
	dims  int32
	_pad  int32
	shape unsafe.Pointer
}

// descriptor builds the in-memory {data, dims, shape} struct a native
// call's array argument must point to. The caller must keep the returned
// value referenced for as long as native code may read through it.
func (a *Array) descriptor() (*arrayDescriptor, error) {
	if len(a.Extents) > math.MaxInt32 {
		return nil, fmt.Errorf("abi: array rank %d exceeds native i32 dims field", len(a.Extents))
	}
	dataPtr, err := a.DataPointer()
	if err != nil {
		return nil, err
	}
	shapePtr, err := a.ShapePointer()
	if err != nil {
		return nil, err
	}
	return &arrayDescriptor{data: dataPtr, dims: int32(len(a.Extents)), shape: shapePtr}, nil
}
