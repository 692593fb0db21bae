package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFTV(t *testing.T) {
	a := &Var{Name: "$a"}
	b := &Var{Name: "$b"}
	fn := &Fun{Args: []Term{a, Array(b)}, Ret: a}

	got := sortedNames(FTV(fn))
	want := []string{"$a", "$b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FTV mismatch (-want +got):\n%s", diff)
	}
}

func TestFTVConstants(t *testing.T) {
	if len(FTV(Int32)) != 0 {
		t.Fatalf("FTV(Int32) should be empty")
	}
	if !Determined(Array(Int32)) {
		t.Fatalf("Array(Int32) should be determined")
	}
	if Determined(Array(&Var{Name: "$a"})) {
		t.Fatalf("Array($a) should not be determined")
	}
}

func TestIsArray(t *testing.T) {
	elt, ok := IsArray(Array(Double))
	if !ok || !Equals(elt, Double) {
		t.Fatalf("IsArray(Array(Double)) = %v, %v", elt, ok)
	}
	if _, ok := IsArray(Int32); ok {
		t.Fatalf("Int32 should not be an array type")
	}
}

func TestEqualsStructural(t *testing.T) {
	a := Array(Int32)
	b := Array(Int32)
	if a == b {
		t.Fatalf("test setup: expected distinct pointers")
	}
	if !Equals(a, b) {
		t.Fatalf("Array(Int32) should Equal a freshly built Array(Int32)")
	}
	if Equals(a, Array(Int64)) {
		t.Fatalf("Array(Int32) should not Equal Array(Int64)")
	}
}
