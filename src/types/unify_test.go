package types

import (
	"errors"
	"testing"
)

func freshVar(s string) *Var { return &Var{Name: s} }

// TestApplyEmpty covers invariant 1: Apply(empty, t) == t for every t.
func TestApplyEmpty(t *testing.T) {
	terms := []Term{
		Int32,
		freshVar("$a"),
		Array(Double),
		&Fun{Args: []Term{Int64, Array(Float)}, Ret: Double},
	}
	for _, term := range terms {
		if got := Apply(Empty(), term); !Equals(got, term) {
			t.Errorf("Apply(empty, %s) = %s, want %s", term, got, term)
		}
	}
}

// TestComposeMatchesSequentialApply covers invariant 2.
func TestComposeMatchesSequentialApply(t *testing.T) {
	s1 := Substitution{"$a": Int32}
	s2 := Substitution{"$b": freshVar("$a")}
	term := &Fun{Args: []Term{freshVar("$b")}, Ret: freshVar("$a")}

	composed := Apply(Compose(s1, s2), term)
	sequential := Apply(s1, Apply(s2, term))

	if !Equals(composed, sequential) {
		t.Fatalf("Apply(compose(s1,s2), t) = %s, want %s", composed, sequential)
	}
}

func TestUnifyConstants(t *testing.T) {
	s, err := Unify(Int32, Int32)
	if err != nil {
		t.Fatalf("unify(Int32, Int32): %v", err)
	}
	if len(s) != 0 {
		t.Fatalf("unify(Int32, Int32) should be empty, got %v", s)
	}
}

func TestUnifySoundness(t *testing.T) {
	// Invariant 3: unifying a variable with a concrete type succeeds, and
	// the resulting substitution makes both sides equal.
	v := freshVar("$a")
	s, err := Unify(v, Int64)
	if err != nil {
		t.Fatalf("unify($a, Int64): %v", err)
	}
	if !Equals(Apply(s, v), Apply(s, Int64)) {
		t.Fatalf("mgu not sound: Apply(s,x)=%s Apply(s,y)=%s", Apply(s, v), Apply(s, Int64))
	}
}

func TestUnifyArityMismatch(t *testing.T) {
	x := &Fun{Args: []Term{Int32}, Ret: Int32}
	y := &Fun{Args: []Term{Int32, Int32}, Ret: Int32}
	if _, err := Unify(x, y); !errors.Is(err, ErrArity) {
		t.Fatalf("expected ErrArity, got %v", err)
	}
}

func TestUnifyMismatch(t *testing.T) {
	_, err := Unify(Int32, Double)
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *MismatchError, got %v", err)
	}
}

func TestBindSelf(t *testing.T) {
	s, err := Bind("$a", freshVar("$a"))
	if err != nil || len(s) != 0 {
		t.Fatalf("bind($a, $a) should be empty, got %v, %v", s, err)
	}
}

func TestBindOccursCheck(t *testing.T) {
	v := freshVar("$a")
	_, err := Bind("$a", Array(v))
	if !errors.Is(err, ErrInfiniteType) {
		t.Fatalf("expected ErrInfiniteType, got %v", err)
	}
}

func TestUnifyEqualityIffEmptySubstitution(t *testing.T) {
	// Invariant 6, restricted to monomorphic terms (no free variables), as
	// stated: a == b iff unify(a, b) returns the empty substitution.
	pairs := []struct {
		a, b  Term
		equal bool
	}{
		{Int32, Int32, true},
		{Array(Int32), Array(Int32), true},
		{Array(Int32), Array(Int64), false},
		{&Fun{Args: []Term{Int32}, Ret: Double}, &Fun{Args: []Term{Int32}, Ret: Double}, true},
	}
	for _, p := range pairs {
		s, err := Unify(p.a, p.b)
		empty := err == nil && len(s) == 0
		if empty != p.equal {
			t.Errorf("unify(%s, %s): empty=%v err=%v, want equal=%v", p.a, p.b, empty, err, p.equal)
		}
	}
}

// TestSolveOrderInsensitive covers invariant 5: two permutations of the same
// constraint bag agree on every variable appearing in the input.
func TestSolveOrderInsensitive(t *testing.T) {
	a, b, c := freshVar("$a"), freshVar("$b"), freshVar("$c")
	order1 := []Pair{{a, Int32}, {b, a}, {c, b}}
	order2 := []Pair{{c, b}, {b, a}, {a, Int32}}

	s1, err := Solve(order1)
	if err != nil {
		t.Fatalf("solve(order1): %v", err)
	}
	s2, err := Solve(order2)
	if err != nil {
		t.Fatalf("solve(order2): %v", err)
	}

	for _, name := range []string{"$a", "$b", "$c"} {
		v1 := Apply(s1, freshVar(name))
		v2 := Apply(s2, freshVar(name))
		if !Equals(v1, v2) {
			t.Errorf("solve disagreement on %s: %s vs %s", name, v1, v2)
		}
	}
}

func TestSolveFunctionScenario(t *testing.T) {
	// add(x,y): x+y lowers to constraints (tyx, tya), (tya, tyb) etc.; here
	// we just check a small function-shaped unification succeeds and
	// determines both argument types (the return variable stays free).
	argA, argB, retTV := freshVar("$a"), freshVar("$b"), freshVar("$retty")
	inferred := &Fun{Args: []Term{argA, argB}, Ret: retTV}
	concrete := &Fun{Args: []Term{Int64, Int64}, Ret: freshVar("$retty2")}

	s, err := Unify(inferred, concrete)
	if err != nil {
		t.Fatalf("unify: %v", err)
	}
	spec := Apply(s, inferred)
	if !Determined(spec.(*Fun).Args[0]) || !Determined(spec.(*Fun).Args[1]) {
		t.Fatalf("expected determined argument types, got %s", spec)
	}
}
