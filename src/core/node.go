// Package core defines the small typed intermediate representation that
// lowering produces and that inference and codegen consume. Every variant
// implements Node through an unexported marker method, so the set of
// variants is closed to this package. The compiler does not check type
// switches over Node for exhaustiveness; consumers reject an unhandled
// variant in their default branch.
package core

import "github.com/tartavull/fastpy/src/types"

// Node is one Core IR node. Concrete types: *Var, *Assign, *Return, *Loop,
// *App, *Fun, *LitInt, *LitFloat, *LitBool, *Prim, *Index, *Noop.
type Node interface {
	coreNode()
}

// Var references a named local or argument.
type Var struct {
	ID   string
	Type types.Term // nil until inference runs
}

func (*Var) coreNode() {}

// Assign binds Val to name Ref; first assignment introduces Ref, subsequent
// assignments rebind it.
type Assign struct {
	Ref  string
	Val  Node
	Type types.Term
}

func (*Assign) coreNode() {}

// Return returns Val from the enclosing function.
type Return struct {
	Val Node
}

func (*Return) coreNode() {}

// Loop is a half-open integer for-loop [Begin, End) with step 1.
type Loop struct {
	Var   *Var
	Begin Node
	End   Node
	Body  []Node
}

func (*Loop) coreNode() {}

// App is a function application. Reserved: lowering never produces it and
// codegen never consumes it, kept for forward compatibility with a
// future non-primitive call surface.
type App struct {
	Fn   *Var
	Args []Node
}

func (*App) coreNode() {}

// Fun is a top-level function: exactly one appears per compilation unit.
type Fun struct {
	Name string
	Args []*Var
	Body []Node
}

func (*Fun) coreNode() {}

// LitInt is an integer literal.
type LitInt struct {
	N    int64
	Type types.Term
}

func (*LitInt) coreNode() {}

// LitFloat is a floating-point literal.
type LitFloat struct {
	N    float64
	Type types.Term
}

func (*LitFloat) coreNode() {}

// LitBool is a boolean literal.
type LitBool struct {
	N bool
}

func (*LitBool) coreNode() {}

// Prim is a call to a built-in primitive: "add#", "mult#" or "shape#".
type Prim struct {
	Fn   string
	Args []Node
}

func (*Prim) coreNode() {}

// Index is an indexed load, Val[Ix]. Only load contexts are supported;
// indexed stores are rejected during lowering.
type Index struct {
	Val Node
	Ix  Node
}

func (*Index) coreNode() {}

// Noop is a no-op, e.g. a lowered `pass` statement.
type Noop struct{}

func (*Noop) coreNode() {}

// Primitive operator names recognized by Prim.Fn.
const (
	PrimAdd   = "add#"
	PrimMult  = "mult#"
	PrimShape = "shape#"
)
