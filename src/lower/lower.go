// Package lower translates a host-language syntax tree (src/hostast) into
// the small Core IR (src/core) that inference and codegen consume. It
// mirrors a single AST visitor: one function per host node, producing one
// or more Core nodes, and rejecting anything outside the supported subset
// with a plain error rather than silently guessing at semantics.
package lower

import (
	"errors"
	"fmt"

	"github.com/tartavull/fastpy/src/core"
	"github.com/tartavull/fastpy/src/hostast"
	"github.com/tartavull/fastpy/src/types"
)

// ErrUnsupportedConstruct is the sentinel every UnsupportedError unwraps
// to, so callers can test for "lowering rejected this source" with
// errors.Is without caring about the specific construct or position.
var ErrUnsupportedConstruct = errors.New("lower: unsupported construct")

// UnsupportedError reports a host construct lowering has no translation
// for, e.g. a subscript store or a comparison operator.
type UnsupportedError struct {
	Pos hostast.Pos
	Msg string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("line %d: unsupported construct: %s", e.Pos.Line, e.Msg)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupportedConstruct }

var primOps = map[string]string{
	"+": core.PrimAdd,
	"*": core.PrimMult,
}

// Lower translates a module's first function definition into a Core Fun.
// Only one function is ever lowered per compilation unit.
func Lower(mod *hostast.Module) (*core.Fun, error) {
	for _, n := range mod.Body {
		if fn, ok := n.(*hostast.FunctionDef); ok {
			return lowerFunctionDef(fn)
		}
	}
	return nil, fmt.Errorf("lower: module has no function definition")
}

func lowerFunctionDef(fn *hostast.FunctionDef) (*core.Fun, error) {
	args := make([]*core.Var, len(fn.Args))
	for i, name := range fn.Args {
		args[i] = &core.Var{ID: name}
	}
	body, err := lowerStatements(fn.Body)
	if err != nil {
		return nil, err
	}
	return &core.Fun{Name: fn.Name, Args: args, Body: body}, nil
}

func lowerStatements(stmts []hostast.Node) ([]core.Node, error) {
	out := make([]core.Node, 0, len(stmts))
	for _, s := range stmts {
		n, err := lowerStatement(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func lowerStatement(n hostast.Node) (core.Node, error) {
	switch s := n.(type) {
	case *hostast.Assign:
		val, err := lowerExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &core.Assign{Ref: s.Target, Val: val}, nil

	case *hostast.AugAssign:
		primFn, ok := primOps[s.Op]
		if !ok {
			return nil, &UnsupportedError{s.Position(), fmt.Sprintf("augmented assignment operator %q", s.Op)}
		}
		val, err := lowerExpr(s.Value)
		if err != nil {
			return nil, err
		}
		ref := &core.Var{ID: s.Target}
		return &core.Assign{Ref: s.Target, Val: &core.Prim{Fn: primFn, Args: []core.Node{ref, val}}}, nil

	case *hostast.Return:
		val, err := lowerExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &core.Return{Val: val}, nil

	case *hostast.For:
		return lowerFor(s)

	case *hostast.Pass:
		return &core.Noop{}, nil

	default:
		return nil, &UnsupportedError{n.Position(), fmt.Sprintf("statement of type %T", n)}
	}
}

// lowerFor translates `for x in range(a)` to Loop{Begin: 0, End: a}, the
// implicit 0 being a LitInt pre-typed Int32 (inference then replaces that
// type with a fresh variable, as it does for every literal), and
// `for x in range(a, b)` to Loop{Begin: a, End: b}. The implicit zero
// begin and the explicit end are typed asymmetrically later in
// inference (see infer.visitLoop); this pass only builds the shape.
func lowerFor(s *hostast.For) (core.Node, error) {
	body, err := lowerStatements(s.Body)
	if err != nil {
		return nil, err
	}
	var begin, end core.Node
	switch len(s.Args) {
	case 1:
		e, err := lowerExpr(s.Args[0])
		if err != nil {
			return nil, err
		}
		begin = &core.LitInt{N: 0, Type: types.Int32}
		end = e
	case 2:
		b, err := lowerExpr(s.Args[0])
		if err != nil {
			return nil, err
		}
		e, err := lowerExpr(s.Args[1])
		if err != nil {
			return nil, err
		}
		begin, end = b, e
	default:
		return nil, &UnsupportedError{s.Position(), "range() with other than 1 or 2 arguments"}
	}
	return &core.Loop{Var: &core.Var{ID: s.Target}, Begin: begin, End: end, Body: body}, nil
}

func lowerExpr(n hostast.Node) (core.Node, error) {
	switch e := n.(type) {
	case *hostast.Name:
		return &core.Var{ID: e.ID}, nil

	case *hostast.NumInt:
		return &core.LitInt{N: e.N}, nil

	case *hostast.NumFloat:
		return &core.LitFloat{N: e.N}, nil

	case *hostast.BoolLit:
		return &core.LitBool{N: e.N}, nil

	case *hostast.BinOp:
		primFn, ok := primOps[e.Op]
		if !ok {
			return nil, &UnsupportedError{e.Position(), fmt.Sprintf("binary operator %q", e.Op)}
		}
		left, err := lowerExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := lowerExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return &core.Prim{Fn: primFn, Args: []core.Node{left, right}}, nil

	case *hostast.Attribute:
		if e.Attr != "shape" {
			return nil, &UnsupportedError{e.Position(), fmt.Sprintf("attribute access %q", e.Attr)}
		}
		val, err := lowerExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return &core.Prim{Fn: core.PrimShape, Args: []core.Node{val}}, nil

	case *hostast.Subscript:
		val, err := lowerExpr(e.Value)
		if err != nil {
			return nil, err
		}
		ix, err := lowerExpr(e.Index)
		if err != nil {
			return nil, err
		}
		return &core.Index{Val: val, Ix: ix}, nil

	default:
		return nil, &UnsupportedError{n.Position(), fmt.Sprintf("expression of type %T", n)}
	}
}
