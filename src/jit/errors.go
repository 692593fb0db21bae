package jit

import (
	"github.com/tartavull/fastpy/src/abi"
	"github.com/tartavull/fastpy/src/lower"
	"github.com/tartavull/fastpy/src/specialize"
	"github.com/tartavull/fastpy/src/types"
)

// The seven error kinds a compile-and-call can fail with. Every one of
// them is defined and owned by the pass that actually detects it —
// lower, types, specialize or abi — and aliased here so a caller working
// only against this package's API can still test for any of them with a
// single errors.Is(err, jit.ErrXxx), regardless of which internal pass
// raised it.
var (
	// ErrUnsupportedConstruct is returned when lowering encounters a host
	// construct outside the supported subset.
	ErrUnsupportedConstruct = lower.ErrUnsupportedConstruct

	// ErrUnsupportedArgumentType is returned when a call-site argument has
	// no corresponding type term.
	ErrUnsupportedArgumentType = specialize.ErrUnsupportedArgumentType

	// ErrArity is returned when two function types being unified disagree
	// on argument count.
	ErrArity = types.ErrArity

	// ErrTypeMismatch is returned when two concrete types cannot be
	// unified; errors.As with a **types.MismatchError target recovers the
	// offending terms.
	ErrTypeMismatch = types.ErrTypeMismatch

	// ErrInfiniteType is returned when the occurs check fires during
	// unification.
	ErrInfiniteType = types.ErrInfiniteType

	// ErrUnderdetermined is returned when a call's resolved specialization
	// signature still has free type variables after unifying against its
	// concrete argument types.
	ErrUnderdetermined = specialize.ErrUnderdetermined

	// ErrUnsupportedABIType is returned when Translate cannot map a
	// backend-declared LLVM type to a native ABI representation.
	ErrUnsupportedABIType = abi.ErrUnsupportedABIType
)

// TypeMismatchError carries the two offending types.Term values a failed
// unification found irreconcilable. It is an alias for types.MismatchError
// so errors.As with a target of type **jit.TypeMismatchError or
// **types.MismatchError (var m *jit.TypeMismatchError; errors.As(err, &m))
// recovers the identical value.
type TypeMismatchError = types.MismatchError
