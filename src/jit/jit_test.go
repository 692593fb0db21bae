package jit_test

import (
	"errors"
	"testing"

	"github.com/tartavull/fastpy/src/abi"
	"github.com/tartavull/fastpy/src/hostast"
	"github.com/tartavull/fastpy/src/jit"
	"github.com/tartavull/fastpy/src/pyfrontend"
	"github.com/tartavull/fastpy/src/types"
)

// wrap parses src with the bundled demo frontend, pulls out its one
// function definition, and hands it to jit.Wrap — the path a real
// embedding would take with a host function definition from its own
// parser instead of pyfrontend.
func wrap(t *testing.T, src string) *jit.Compiled {
	t.Helper()
	mod, err := pyfrontend.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fn, ok := mod.Body[0].(*hostast.FunctionDef)
	if !ok {
		t.Fatalf("expected a FunctionDef, got %#v", mod.Body[0])
	}
	compiled, err := jit.Wrap(jit.NewEngine(), fn)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	return compiled
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		args []interface{}
		want interface{}
	}{
		{
			name: "zero-argument integer literal",
			src:  "def answer():\n    return 42\n",
			args: nil,
			want: int64(42),
		},
		{
			name: "zero-argument float literal",
			src:  "def pi():\n    return 3.14\n",
			args: nil,
			want: float64(3.14),
		},
		{
			name: "polymorphic add specialized at int64",
			src:  "def add(x, y):\n    return x + y\n",
			args: []interface{}{int64(2), int64(3)},
			want: int64(5),
		},
		{
			name: "polymorphic add specialized at double",
			src:  "def add(x, y):\n    return x + y\n",
			args: []interface{}{float64(2.5), float64(1.5)},
			want: float64(4),
		},
		{
			name: "array sum over an int32 buffer",
			src: "def s(a, n):\n" +
				"    total = 0\n" +
				"    for i in range(n):\n" +
				"        total += a[i]\n" +
				"    return total\n",
			args: []interface{}{
				&abi.Array{Elem: types.Int32, Extents: []int32{4}, Data: []int32{1, 2, 3, 4}},
				int32(4),
			},
			want: int32(10),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			compiled := wrap(t, c.src)
			got, err := compiled.Call(c.args...)
			if err != nil {
				t.Fatalf("Call: %v", err)
			}
			if got != c.want {
				t.Fatalf("Call(%v) = %v (%T), want %v (%T)", c.args, got, got, c.want, c.want)
			}
		})
	}
}

func TestIdentityFunctionStaysUnderdetermined(t *testing.T) {
	compiled := wrap(t, "def id(x):\n    return x\n")
	if _, err := compiled.Call(int64(7)); !errors.Is(err, jit.ErrUnderdetermined) {
		t.Fatalf("expected errors.Is(err, jit.ErrUnderdetermined), got %v", err)
	}
}
