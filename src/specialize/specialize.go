package specialize

import (
	"errors"
	"fmt"

	"github.com/tartavull/fastpy/src/types"
)

// ErrUnderdetermined is the sentinel UndeterminedError unwraps to.
var ErrUnderdetermined = errors.New("specialize: signature is not fully determined")

// ErrUnsupportedArgumentType is returned by ReflectArgType when a call-site
// value has no corresponding type term.
var ErrUnsupportedArgumentType = errors.New("specialize: argument type not supported")

// UndeterminedError reports that a resolved call-site signature still has
// free type variables after unifying against the concrete argument
// types: a specialization must be fully monomorphic before codegen runs.
type UndeterminedError struct {
	Sig *types.Fun
}

func (e *UndeterminedError) Error() string {
	return fmt.Sprintf("specialize: signature %s is not fully determined", e.Sig)
}

func (e *UndeterminedError) Unwrap() error { return ErrUnderdetermined }

// Resolved is one call site's fully monomorphic specialization request:
// concrete argument and return types, and the substitution that produced
// them (composed from the function's own inference solution and the
// unification against this call's argument types).
type Resolved struct {
	Key      Key
	ArgTypes []types.Term
	RetType  types.Term
	Sub      types.Substitution
}

// Resolve unifies a function's (possibly polymorphic) inferred signature
// against one call's concrete argument types, mirroring the original
// specialize() wrapper's first steps: build a signature from the call's
// own argument types plus a fresh return variable, unify it against the
// inference result, compose substitutions, and require the outcome be
// fully determined before anything gets compiled.
func Resolve(fnName string, sig *types.Fun, infMgu types.Substitution, argTys []types.Term) (*Resolved, error) {
	retTv := &types.Var{Name: "$spec_ret"}
	callSig := &types.Fun{Args: argTys, Ret: retTv}

	s, err := types.Unify(callSig, sig)
	if err != nil {
		return nil, fmt.Errorf("specialize: call-site argument types do not match inferred signature: %w", err)
	}
	composed := types.Compose(s, infMgu)

	resolved, ok := types.Apply(composed, callSig).(*types.Fun)
	if !ok {
		return nil, fmt.Errorf("specialize: internal error: resolved signature is not a function type")
	}
	if !types.Determined(resolved) {
		return nil, &UndeterminedError{Sig: resolved}
	}

	return &Resolved{
		Key:      Mangle(fnName, resolved.Args),
		ArgTypes: resolved.Args,
		RetType:  resolved.Ret,
		Sub:      composed,
	}, nil
}

// ReflectArgType maps one Go call-site argument value to its type term,
// mirroring the original arg_pytype: a fixed-width Go numeric type maps
// directly to its Term, and anything implementing ArrayView maps to
// Array(elem) via its reported ElemKind. Unlike the original, there is no
// ambiguous "is this int big enough to need int64" branch — Go callers
// already chose their argument's width when they chose its type, so the
// mapping is exact rather than inferred from the value itself.
func ReflectArgType(v interface{}) (types.Term, error) {
	switch x := v.(type) {
	case int32:
		return types.Int32, nil
	case int64:
		return types.Int64, nil
	case float32:
		return types.Float, nil
	case float64:
		return types.Double, nil
	case bool:
		return types.Bool, nil
	case ArrayView:
		elem, err := x.ElemKind().Term()
		if err != nil {
			return nil, fmt.Errorf("specialize: %w", err)
		}
		return types.Array(elem), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedArgumentType, v)
	}
}

// ReflectArgTypes maps a whole call-site argument list in order.
func ReflectArgTypes(args []interface{}) ([]types.Term, error) {
	out := make([]types.Term, len(args))
	for i, a := range args {
		t, err := ReflectArgType(a)
		if err != nil {
			return nil, fmt.Errorf("specialize: argument %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}
