package abi

import (
	"errors"
	"fmt"

	"tinygo.org/x/go-llvm"
)

// ErrUnsupportedABIType is returned by Translate when an LLVM type has no
// native ABI representation this bridge knows how to marshal.
var ErrUnsupportedABIType = errors.New("abi: unsupported ABI type")

// NativeKind classifies the native representation Translate assigns to an
// LLVM type: the shape RunFunction's GenericValue convention needs, not
// the Core type the value originated from.
type NativeKind int

const (
	NativeVoid NativeKind = iota
	NativeBool
	NativeInt32
	NativeInt64
	NativeFloat32
	NativeFloat64
	NativePointer
	NativeStruct
)

func (k NativeKind) String() string {
	switch k {
	case NativeVoid:
		return "void"
	case NativeBool:
		return "bool"
	case NativeInt32:
		return "int32"
	case NativeInt64:
		return "int64"
	case NativeFloat32:
		return "float32"
	case NativeFloat64:
		return "float64"
	case NativePointer:
		return "pointer"
	case NativeStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// NativeType is a pure data description of one LLVM type's native ABI
// shape: Translate walks a backend function's declared parameter and
// return types into these rather than any Core type, since the backend's
// own declared signature is the ground truth for how RunFunction must be
// called. Pointee is populated only for NativePointer, Fields only for
// NativeStruct.
type NativeType struct {
	Kind    NativeKind
	Pointee *NativeType
	Fields  []NativeType
}

// Translate walks an LLVM type as declared on a compiled specialization's
// function signature and reports its native ABI representation: a 1-, 32-
// or 64-bit integer, float/double, void, pointer (to any pointee Translate
// itself accepts, including another pointer or a struct), or
// struct-with-positional-fields. Any other integer width (including i8,
// and so pointers to i8) and anything else — vectors, arrays, labels,
// metadata — reports ErrUnsupportedABIType.
func Translate(t llvm.Type) (NativeType, error) {
	switch t.TypeKind() {
	case llvm.VoidTypeKind:
		return NativeType{Kind: NativeVoid}, nil

	case llvm.IntegerTypeKind:
		switch t.IntTypeWidth() {
		case 1:
			return NativeType{Kind: NativeBool}, nil
		case 32:
			return NativeType{Kind: NativeInt32}, nil
		case 64:
			return NativeType{Kind: NativeInt64}, nil
		default:
			return NativeType{}, fmt.Errorf("%w: %d-bit integer", ErrUnsupportedABIType, t.IntTypeWidth())
		}

	case llvm.FloatTypeKind:
		return NativeType{Kind: NativeFloat32}, nil

	case llvm.DoubleTypeKind:
		return NativeType{Kind: NativeFloat64}, nil

	case llvm.PointerTypeKind:
		pointee, err := Translate(t.ElementType())
		if err != nil {
			return NativeType{}, fmt.Errorf("abi: pointer type: %w", err)
		}
		return NativeType{Kind: NativePointer, Pointee: &pointee}, nil

	case llvm.StructTypeKind:
		elemTys := t.StructElementTypes()
		fields := make([]NativeType, len(elemTys))
		for i, et := range elemTys {
			f, err := Translate(et)
			if err != nil {
				return NativeType{}, fmt.Errorf("abi: struct field %d: %w", i, err)
			}
			fields[i] = f
		}
		return NativeType{Kind: NativeStruct, Fields: fields}, nil

	default:
		return NativeType{}, fmt.Errorf("%w: LLVM type kind %v", ErrUnsupportedABIType, t.TypeKind())
	}
}
