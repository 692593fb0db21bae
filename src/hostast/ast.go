// Package hostast declares the read-only syntax-tree contract the host
// language's own parser produces. The parser itself is an external
// collaborator and out of scope for this repository; these types exist
// so lower.Lower has something concrete to switch over. src/pyfrontend
// implements a small parser that builds these trees from the supported
// Python subset, for this repository's own tests, benchmarks and CLI
// demo.
package hostast

// Pos carries source position for diagnostics.
type Pos struct {
	Line int
	Col  int
}

// Node is one host-language syntax-tree node.
type Node interface {
	hostNode()
	Position() Pos
}

// Base is embedded by every concrete node to carry position and satisfy
// Position() once. Exported so external parsers (src/pyfrontend) can
// construct node literals directly.
type Base struct {
	Pos Pos
}

func (b Base) Position() Pos { return b.Pos }

// At is shorthand for building a Base from a position.
func At(p Pos) Base { return Base{Pos: p} }

// Module is the top-level unit; lowering only looks at its first
// function declaration.
type Module struct {
	Base
	Body []Node
}

func (*Module) hostNode() {}

// FunctionDef is `def name(args): body`.
type FunctionDef struct {
	Base
	Name string
	Args []string
	Body []Node
}

func (*FunctionDef) hostNode() {}

// Name is an identifier reference.
type Name struct {
	Base
	ID string
}

func (*Name) hostNode() {}

// NumInt is an integer literal.
type NumInt struct {
	Base
	N int64
}

func (*NumInt) hostNode() {}

// NumFloat is a floating literal.
type NumFloat struct {
	Base
	N float64
}

func (*NumFloat) hostNode() {}

// BoolLit is a boolean literal.
type BoolLit struct {
	Base
	N bool
}

func (*BoolLit) hostNode() {}

// BinOp is a binary operator expression: Op is one of "+", "*" (any other
// operator is rejected during lowering as unsupported-construct).
type BinOp struct {
	Base
	Op          string
	Left, Right Node
}

func (*BinOp) hostNode() {}

// Call is a call expression `Func(Args...)`. Lowering accepts no Call: a
// For loop's range/xrange arguments are carried on For.Args directly, and
// any Call that reaches lowering is unsupported-construct.
type Call struct {
	Base
	Func Node
	Args []Node
}

func (*Call) hostNode() {}

// Assign is a plain assignment with exactly one target.
type Assign struct {
	Base
	Target string
	Value  Node
}

func (*Assign) hostNode() {}

// AugAssign is `target += value` or `target *= value`.
type AugAssign struct {
	Base
	Op     string // "+" or "*"
	Target string
	Value  Node
}

func (*AugAssign) hostNode() {}

// Return is a return statement.
type Return struct {
	Base
	Value Node
}

func (*Return) hostNode() {}

// For is `for Target in range(...)`. Args holds the one or two range()
// arguments, already parsed as expressions.
type For struct {
	Base
	Target string
	Args   []Node
	Body   []Node
}

func (*For) hostNode() {}

// Attribute is `Value.Attr`. Lowering only accepts Attr == "shape".
type Attribute struct {
	Base
	Value Node
	Attr  string
}

func (*Attribute) hostNode() {}

// Subscript is `Value[Index]` in load context; store-context subscripts
// are never produced by pyfrontend's assignment grammar.
type Subscript struct {
	Base
	Value Node
	Index Node
}

func (*Subscript) hostNode() {}

// Pass is a no-op statement.
type Pass struct {
	Base
}

func (*Pass) hostNode() {}
