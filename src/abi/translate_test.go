package abi

import (
	"errors"
	"testing"

	"tinygo.org/x/go-llvm"
)

func TestTranslateScalarKinds(t *testing.T) {
	ctx := llvm.NewContext()
	cases := []struct {
		name string
		t    llvm.Type
		want NativeKind
	}{
		{"void", ctx.VoidType(), NativeVoid},
		{"bool", ctx.Int1Type(), NativeBool},
		{"int32", ctx.Int32Type(), NativeInt32},
		{"int64", ctx.Int64Type(), NativeInt64},
		{"float", ctx.FloatType(), NativeFloat32},
		{"double", ctx.DoubleType(), NativeFloat64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			nt, err := Translate(c.t)
			if err != nil {
				t.Fatalf("Translate(%s): %v", c.name, err)
			}
			if nt.Kind != c.want {
				t.Fatalf("Translate(%s).Kind = %v, want %v", c.name, nt.Kind, c.want)
			}
		})
	}
}

func TestTranslatePointerAndStruct(t *testing.T) {
	ctx := llvm.NewContext()
	structTy := ctx.StructType([]llvm.Type{
		llvm.PointerType(ctx.Int32Type(), 0),
		ctx.Int32Type(),
		llvm.PointerType(ctx.Int32Type(), 0),
	}, false)
	ptrTy := llvm.PointerType(structTy, 0)

	nt, err := Translate(ptrTy)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if nt.Kind != NativePointer || nt.Pointee == nil {
		t.Fatalf("expected a pointer type, got %#v", nt)
	}
	if nt.Pointee.Kind != NativeStruct || len(nt.Pointee.Fields) != 3 {
		t.Fatalf("expected a 3-field struct pointee, got %#v", nt.Pointee)
	}
	if nt.Pointee.Fields[0].Kind != NativePointer || nt.Pointee.Fields[1].Kind != NativeInt32 || nt.Pointee.Fields[2].Kind != NativePointer {
		t.Fatalf("unexpected struct field kinds: %#v", nt.Pointee.Fields)
	}
}

func TestTranslateRejectsUnsupportedIntegerWidth(t *testing.T) {
	ctx := llvm.NewContext()
	_, err := Translate(ctx.IntType(16))
	if !errors.Is(err, ErrUnsupportedABIType) {
		t.Fatalf("expected errors.Is(err, ErrUnsupportedABIType), got %v", err)
	}
}
