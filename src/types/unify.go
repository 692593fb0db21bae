package types

import (
	"errors"
	"fmt"
)

// Pair is one equality constraint between two type terms, generated during
// inference and consumed by Solve.
type Pair struct {
	A, B Term
}

// Error kinds raised by the unifier. These are sentinels: callers should use
// errors.Is (ErrArity, ErrInfiniteType) or errors.As (*MismatchError) rather
// than matching on error text.
var (
	// ErrArity is returned when two TFun terms being unified have different
	// numbers of argument types.
	ErrArity = errors.New("types: function arity mismatch")

	// ErrInfiniteType is returned by Bind when the occurs check fires: the
	// variable being bound occurs free in the term it would be bound to.
	ErrInfiniteType = errors.New("types: infinite type")

	// ErrTypeMismatch is the sentinel MismatchError unwraps to, so callers
	// can test for a mismatch with errors.Is without caring whether they
	// also want the offending terms via errors.As.
	ErrTypeMismatch = errors.New("types: type mismatch")
)

// MismatchError is returned when two concrete (non-variable) terms cannot be
// unified because their shapes disagree. It carries both offending terms so
// a caller can report them.
type MismatchError struct {
	Got, Want Term
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("types: cannot unify %s with %s", e.Got, e.Want)
}

func (e *MismatchError) Unwrap() error { return ErrTypeMismatch }

// Empty returns the empty substitution.
func Empty() Substitution { return Substitution{} }

// Unify computes a most general unifier for x and y following Robinson's
// first-order syntactic unification algorithm: if it succeeds with
// substitution s, Apply(s, x) == Apply(s, y) (spec invariant 3).
func Unify(x, y Term) (Substitution, error) {
	switch xt := x.(type) {
	case *App:
		if yt, ok := y.(*App); ok {
			s1, err := Unify(xt.Head, yt.Head)
			if err != nil {
				return nil, err
			}
			s2, err := Unify(Apply(s1, xt.Arg), Apply(s1, yt.Arg))
			if err != nil {
				return nil, err
			}
			return Compose(s2, s1), nil
		}
	case *Con:
		if yt, ok := y.(*Con); ok && yt.Name == xt.Name {
			return Empty(), nil
		}
	case *Fun:
		if yt, ok := y.(*Fun); ok {
			if len(xt.Args) != len(yt.Args) {
				return nil, ErrArity
			}
			pairs := make([]Pair, len(xt.Args))
			for i := range xt.Args {
				pairs[i] = Pair{A: xt.Args[i], B: yt.Args[i]}
			}
			s1, err := Solve(pairs)
			if err != nil {
				return nil, err
			}
			s2, err := Unify(Apply(s1, xt.Ret), Apply(s1, yt.Ret))
			if err != nil {
				return nil, err
			}
			return Compose(s2, s1), nil
		}
	}

	// One (or both) sides is a variable: delegate to bind. Variables never
	// fall through to the mismatch case below.
	if xv, ok := x.(*Var); ok {
		return Bind(xv.Name, y)
	}
	if yv, ok := y.(*Var); ok {
		return Bind(yv.Name, x)
	}

	return nil, &MismatchError{Got: x, Want: y}
}

// Bind binds the variable name to t. Binding a variable to itself is a
// no-op; binding a variable to a term that contains it (the occurs check)
// is an infinite type and fails.
func Bind(name string, t Term) (Substitution, error) {
	if v, ok := t.(*Var); ok && v.Name == name {
		return Empty(), nil
	}
	if _, occurs := FTV(t)[name]; occurs {
		return nil, fmt.Errorf("%w: %s occurs in %s", ErrInfiniteType, name, t)
	}
	return Substitution{name: t}, nil
}

// Compose returns the substitution s such that Apply(s, t) == Apply(s1,
// Apply(s2, t)) for every t: every value in s2 is rewritten through s1, and
// the result is unioned with s1, with s1's entries taking precedence on key
// collision.
func Compose(s1, s2 Substitution) Substitution {
	out := make(Substitution, len(s1)+len(s2))
	for k, v := range s2 {
		out[k] = Apply(s1, v)
	}
	for k, v := range s1 {
		out[k] = v
	}
	return out
}

// Solve unifies a bag of equality constraints into a single most general
// unifier. Pairs are popped LIFO from the worklist; this affects only
// performance, never the resulting substitution, since solve is confluent
// up to equivalence (spec invariant 5).
func Solve(pairs []Pair) (Substitution, error) {
	mgu := Empty()
	worklist := append([]Pair(nil), pairs...)

	for len(worklist) > 0 {
		last := len(worklist) - 1
		p := worklist[last]
		worklist = worklist[:last]

		s, err := Unify(p.A, p.B)
		if err != nil {
			return nil, err
		}
		mgu = Compose(s, mgu)
		worklist = applyPairs(s, worklist)
	}
	return mgu, nil
}
