package specialize

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tartavull/fastpy/src/abi"
	"github.com/tartavull/fastpy/src/types"
)

func TestMangleIsDeterministic(t *testing.T) {
	k1 := Mangle("add", []types.Term{types.Int64, types.Int64})
	k2 := Mangle("add", []types.Term{types.Int64, types.Int64})
	if k1 != k2 {
		t.Fatalf("Mangle should be deterministic for the same inputs: %s != %s", k1, k2)
	}
}

func TestMangleDistinguishesArgumentTypes(t *testing.T) {
	k1 := Mangle("add", []types.Term{types.Int64, types.Int64})
	k2 := Mangle("add", []types.Term{types.Double, types.Double})
	if k1 == k2 {
		t.Fatalf("Mangle should distinguish different argument-type specializations, both gave %s", k1)
	}
}

func TestReflectArgType(t *testing.T) {
	cases := []struct {
		v    interface{}
		want types.Term
	}{
		{int32(1), types.Int32},
		{int64(1), types.Int64},
		{float32(1), types.Float},
		{float64(1), types.Double},
		{true, types.Bool},
	}
	for _, c := range cases {
		got, err := ReflectArgType(c.v)
		if err != nil {
			t.Fatalf("ReflectArgType(%v): %v", c.v, err)
		}
		if !types.Equals(got, c.want) {
			t.Errorf("ReflectArgType(%v) = %s, want %s", c.v, got, c.want)
		}
	}
}

func TestReflectArgTypeArray(t *testing.T) {
	arr := &abi.Array{Elem: types.Int32, Extents: []int32{3}, Data: []int32{1, 2, 3}}
	got, err := ReflectArgType(arr)
	if err != nil {
		t.Fatalf("ReflectArgType: %v", err)
	}
	elt, ok := types.IsArray(got)
	if !ok || !types.Equals(elt, types.Int32) {
		t.Fatalf("expected Array(Int32), got %s", got)
	}
}

func TestReflectArgTypeRejectsUnknownValue(t *testing.T) {
	if _, err := ReflectArgType("not supported"); err == nil {
		t.Fatalf("expected an error for an unsupported argument type")
	}
}

func TestResolveDeterminesConcreteSignature(t *testing.T) {
	// Polymorphic "add(x, y)" signature: Args=[$a,$a], Ret=$a.
	a := &types.Var{Name: "$a"}
	sig := &types.Fun{Args: []types.Term{a, a}, Ret: a}

	resolved, err := Resolve("add", sig, emptySub(), []types.Term{types.Int64, types.Int64})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !types.Determined(resolved.RetType) {
		t.Fatalf("resolved return type should be fully determined, got %s", resolved.RetType)
	}
	if !types.Equals(resolved.RetType, types.Int64) {
		t.Fatalf("expected resolved return type Int64, got %s", resolved.RetType)
	}
}

func TestResolveRejectsMismatchedArgumentTypes(t *testing.T) {
	a := &types.Var{Name: "$a"}
	sig := &types.Fun{Args: []types.Term{a, a}, Ret: a}

	if _, err := Resolve("add", sig, emptySub(), []types.Term{types.Int64, types.Double}); err == nil {
		t.Fatalf("expected an error unifying two different concrete types against the same signature variable")
	}
}

func TestResolveRejectsWrongArity(t *testing.T) {
	a, b := &types.Var{Name: "$a"}, &types.Var{Name: "$b"}
	sig := &types.Fun{Args: []types.Term{a, b}, Ret: b}

	if _, err := Resolve("add", sig, emptySub(), []types.Term{types.Int64}); err == nil {
		t.Fatalf("expected an arity-mismatch error")
	}
}

// emptySub stands in for a function's inference substitution: these
// tests build signatures by hand, so there's no real Infer output to
// compose Resolve's unification against.
func emptySub() types.Substitution { return types.Substitution{} }

func TestCacheCompilesEachKeyExactlyOnce(t *testing.T) {
	c := NewCache()
	var calls int32

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := c.GetOrCompile("k", func() (interface{}, error) {
				atomic.AddInt32(&calls, 1)
				return "compiled", nil
			})
			if err != nil {
				t.Errorf("GetOrCompile: %v", err)
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Fatalf("expected exactly 1 compile for a single key under concurrent callers, got %d", calls)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 cache entry, got %d", c.Len())
	}
}

func TestCacheDistinctKeysCompileIndependently(t *testing.T) {
	c := NewCache()
	v1, err := c.GetOrCompile("k1", func() (interface{}, error) { return 1, nil })
	if err != nil {
		t.Fatalf("GetOrCompile(k1): %v", err)
	}
	v2, err := c.GetOrCompile("k2", func() (interface{}, error) { return 2, nil })
	if err != nil {
		t.Fatalf("GetOrCompile(k2): %v", err)
	}
	if v1 == v2 {
		t.Fatalf("distinct keys should not share a compiled value")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 cache entries, got %d", c.Len())
	}
}
