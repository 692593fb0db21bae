// Package infer implements Hindley-Milner-style constraint generation and
// solving over the Core IR: a single pass assigns every parameter, literal
// and loop index a fresh type variable (a variable occurrence takes the
// type its name is bound to in scope), collects equality
// constraints between them, and solves the whole batch at the end with
// src/types.Solve. The result is the function's own (possibly
// undetermined) signature; src/specialize later unifies that signature
// against one call site's concrete argument types.
package infer

import (
	"fmt"
	"strconv"

	"github.com/tartavull/fastpy/src/core"
	"github.com/tartavull/fastpy/src/types"
)

// UnboundVariableError reports a reference to a name no enclosing
// assignment or argument has introduced.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("infer: unbound variable %q", e.Name)
}

// UnsupportedPrimError reports a Prim.Fn this pass has no rule for.
type UnsupportedPrimError struct {
	Fn string
}

func (e *UnsupportedPrimError) Error() string {
	return fmt.Sprintf("infer: unsupported primitive %q", e.Fn)
}

type env map[string]types.Term

// freshGen produces the naming sequence $a, $b, ..., $z, $a0, $b0, ...
type freshGen struct{ n int }

func (g *freshGen) next() *types.Var {
	letter := g.n % 26
	suffix := g.n / 26
	g.n++
	name := "$" + string(rune('a'+letter))
	if suffix > 0 {
		name += strconv.Itoa(suffix - 1)
	}
	return &types.Var{Name: name}
}

type inferer struct {
	fresh       freshGen
	constraints []types.Pair
	argNames    map[string]struct{}
	litInts     []*core.LitInt
	litFloats   []*core.LitFloat
}

func (inf *inferer) constrain(a, b types.Term) {
	inf.constraints = append(inf.constraints, types.Pair{A: a, B: b})
}

// Infer computes fn's signature as a Fun term and the substitution that
// solves the constraints gathered from its body alone, with no call-site
// argument types involved. Free variables in the result mean the
// signature is not yet fully determined; src/specialize supplies the
// missing concrete types per call.
//
// Two passes run after the constraint solve, neither of which src/specialize
// can do on its own because both need the whole function body in view:
//
//   - A literal int/float whose type variable never reaches one of the
//     function's own parameters (so no call site could ever pin it down)
//     defaults to Int64/Double respectively, the same way a bare numeric
//     literal gets a concrete width with no further annotation. Without
//     this, `def a(): return 1` would stay permanently undetermined since
//     nothing ever calls unify on its return type.
//   - `return x` for a bare parameter `x`, with no primitive or index
//     applied to it, never constrains the return type at all (see
//     visitStmt's Return case). An identity function's result therefore
//     stays free forever regardless of what it's called with — the
//     repository's one permanently-undetermined shape, by design.
func Infer(fn *core.Fun) (*types.Fun, types.Substitution, error) {
	inf := &inferer{argNames: make(map[string]struct{}, len(fn.Args))}
	e := env{}

	argTys := make([]types.Term, len(fn.Args))
	for i, a := range fn.Args {
		tv := inf.fresh.next()
		a.Type = tv
		e[a.ID] = tv
		argTys[i] = tv
		inf.argNames[a.ID] = struct{}{}
	}
	retTy := inf.fresh.next()

	for _, stmt := range fn.Body {
		if err := inf.visitStmt(stmt, e, retTy); err != nil {
			return nil, nil, err
		}
	}

	mgu, err := types.Solve(inf.constraints)
	if err != nil {
		return nil, nil, err
	}

	finalMgu := inf.defaultUnreachableLiterals(mgu, argTys)
	sig := &types.Fun{Args: argTys, Ret: retTy}
	return types.Apply(finalMgu, sig).(*types.Fun), finalMgu, nil
}

// defaultUnreachableLiterals finds every literal whose resolved type
// variable doesn't appear anywhere in the (already-solved) argument types
// and binds it to its default concrete width, composing that on top of mgu.
// A variable reachable from an argument is left alone: a future call site
// will pin it down through src/specialize.Resolve instead.
func (inf *inferer) defaultUnreachableLiterals(mgu types.Substitution, argTys []types.Term) types.Substitution {
	reachable := map[string]struct{}{}
	for _, a := range argTys {
		for name := range types.FTV(types.Apply(mgu, a)) {
			reachable[name] = struct{}{}
		}
	}

	defaults := types.Substitution{}
	defaultOne := func(t types.Term, width types.Term) {
		if v, ok := types.Apply(mgu, t).(*types.Var); ok {
			if _, ok := reachable[v.Name]; !ok {
				defaults[v.Name] = width
			}
		}
	}
	for _, lit := range inf.litInts {
		defaultOne(lit.Type, types.Int64)
	}
	for _, lit := range inf.litFloats {
		defaultOne(lit.Type, types.Double)
	}
	if len(defaults) == 0 {
		return mgu
	}
	return types.Compose(defaults, mgu)
}

func (inf *inferer) visitStmt(n core.Node, e env, retTy types.Term) error {
	switch s := n.(type) {
	case *core.Assign:
		valTy, err := inf.visitExpr(s.Val, e)
		if err != nil {
			return err
		}
		if existing, ok := e[s.Ref]; ok {
			inf.constrain(existing, valTy)
		} else {
			e[s.Ref] = valTy
		}
		s.Type = valTy
		return nil

	case *core.Return:
		valTy, err := inf.visitExpr(s.Val, e)
		if err != nil {
			return err
		}
		// A bare `return x` for one of the function's own parameters applies
		// no primitive and no index to it, so nothing about how the result is
		// used ever reaches this constraint: leave retTy unconstrained rather
		// than aliasing it to the parameter, so an identity function's result
		// type stays free regardless of what it's called with.
		if v, ok := s.Val.(*core.Var); ok {
			if _, isArg := inf.argNames[v.ID]; isArg {
				return nil
			}
		}
		inf.constrain(valTy, retTy)
		return nil

	case *core.Loop:
		return inf.visitLoop(s, e, retTy)

	case *core.Noop:
		return nil

	default:
		return fmt.Errorf("infer: unhandled statement %T", n)
	}
}

// visitLoop binds the loop variable to Int32 for the body and constrains
// Begin to Int64 while End stays Int32 — an intentional asymmetry carried
// over unchanged from this construct's original semantics (a range() call
// with a single argument lowers Begin to a literal 0 that still gets
// compared against an Int64 constraint, and codegen's implicit int casts
// make the mismatch harmless at the one concrete width the language
// supports).
func (inf *inferer) visitLoop(l *core.Loop, e env, retTy types.Term) error {
	varTv := inf.fresh.next()
	l.Var.Type = varTv
	inf.constrain(varTv, types.Int32)
	e[l.Var.ID] = types.Int32

	beginTy, err := inf.visitExpr(l.Begin, e)
	if err != nil {
		return err
	}
	inf.constrain(beginTy, types.Int64)

	endTy, err := inf.visitExpr(l.End, e)
	if err != nil {
		return err
	}
	inf.constrain(endTy, types.Int32)

	for _, stmt := range l.Body {
		if err := inf.visitStmt(stmt, e, retTy); err != nil {
			return err
		}
	}
	return nil
}

func (inf *inferer) visitExpr(n core.Node, e env) (types.Term, error) {
	switch x := n.(type) {
	case *core.Var:
		ty, ok := e[x.ID]
		if !ok {
			return nil, &UnboundVariableError{Name: x.ID}
		}
		x.Type = ty
		return ty, nil

	case *core.LitInt:
		tv := inf.fresh.next()
		x.Type = tv
		inf.litInts = append(inf.litInts, x)
		return tv, nil

	case *core.LitFloat:
		tv := inf.fresh.next()
		x.Type = tv
		inf.litFloats = append(inf.litFloats, x)
		return tv, nil

	case *core.LitBool:
		return types.Bool, nil

	case *core.Prim:
		return inf.visitPrim(x, e)

	case *core.Index:
		valTy, err := inf.visitExpr(x.Val, e)
		if err != nil {
			return nil, err
		}
		ixTy, err := inf.visitExpr(x.Ix, e)
		if err != nil {
			return nil, err
		}
		elt := inf.fresh.next()
		inf.constrain(valTy, types.Array(elt))
		inf.constrain(ixTy, types.Int32)
		return elt, nil

	default:
		return nil, fmt.Errorf("infer: unhandled expression %T", n)
	}
}

// visitPrim constrains "add#"/"mult#" operands equal but returns the
// *second* operand's type rather than a freshly unified one. Harmless
// once both operands are constrained equal, but kept deliberately
// instead of silently "fixing" it. Codegen (genPrim) instead picks
// integer or floating-point instructions from the left operand's
// compiled type.
func (inf *inferer) visitPrim(p *core.Prim, e env) (types.Term, error) {
	switch p.Fn {
	case core.PrimShape:
		if len(p.Args) != 1 {
			return nil, fmt.Errorf("infer: %s takes exactly one argument", core.PrimShape)
		}
		if _, err := inf.visitExpr(p.Args[0], e); err != nil {
			return nil, err
		}
		return types.Array(types.Int32), nil

	case core.PrimAdd, core.PrimMult:
		if len(p.Args) != 2 {
			return nil, fmt.Errorf("infer: %s takes exactly two arguments", p.Fn)
		}
		tyA, err := inf.visitExpr(p.Args[0], e)
		if err != nil {
			return nil, err
		}
		tyB, err := inf.visitExpr(p.Args[1], e)
		if err != nil {
			return nil, err
		}
		inf.constrain(tyA, tyB)
		return tyB, nil

	default:
		return nil, &UnsupportedPrimError{Fn: p.Fn}
	}
}
