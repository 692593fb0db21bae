package codegen

import (
	"testing"

	"tinygo.org/x/go-llvm"

	"github.com/tartavull/fastpy/src/types"
)

func TestArrayStructTypeFieldLayout(t *testing.T) {
	ctx := llvm.NewContext()
	st := arrayStructType(ctx, ctx.Int32Type())
	fields := st.StructElementTypes()
	if len(fields) != 3 {
		t.Fatalf("expected a 3-field struct, got %d fields", len(fields))
	}
	if fields[0].TypeKind() != llvm.PointerTypeKind || fields[0].ElementType() != ctx.Int32Type() {
		t.Fatalf("expected field 0 to be pointer<i32> (the element type), got %#v", fields[0])
	}
	if fields[1] != ctx.Int32Type() {
		t.Fatalf("expected field 1 (dims) to be i32, got %#v", fields[1])
	}
	if fields[2].TypeKind() != llvm.PointerTypeKind || fields[2].ElementType() != ctx.Int32Type() {
		t.Fatalf("expected field 2 (shape) to always be pointer<i32>, got %#v", fields[2])
	}
}

func TestArrayStructTypeShapeIsAlwaysInt32(t *testing.T) {
	ctx := llvm.NewContext()
	// Even for a float64-element array, the shape pointer must stay
	// pointer<i32>: only the data field's pointee tracks the element type.
	st := arrayStructType(ctx, ctx.DoubleType())
	fields := st.StructElementTypes()
	if fields[0].ElementType() != ctx.DoubleType() {
		t.Fatalf("expected data field to point at the element type double, got %#v", fields[0])
	}
	if fields[2].ElementType() != ctx.Int32Type() {
		t.Fatalf("expected shape field to stay pointer<i32> regardless of element type, got %#v", fields[2])
	}
}

func TestBuildParamListArrayIsSinglePointerParam(t *testing.T) {
	ctx := llvm.NewContext()
	params, slots, err := buildParamList(ctx, []types.Term{types.Array(types.Int32), types.Int64})
	if err != nil {
		t.Fatalf("buildParamList: %v", err)
	}
	if len(params) != 2 {
		t.Fatalf("expected one physical LLVM parameter per logical argument, got %d", len(params))
	}
	if slots[0].kind != paramArray {
		t.Fatalf("expected argument 0 to be classified as an array parameter")
	}
	if params[0].TypeKind() != llvm.PointerTypeKind {
		t.Fatalf("expected the array parameter to be a single pointer, got %#v", params[0])
	}
	if slots[1].kind != paramScalar || params[1] != ctx.Int64Type() {
		t.Fatalf("expected argument 1 to be a plain scalar i64 parameter, got %#v/%#v", slots[1], params[1])
	}
}
