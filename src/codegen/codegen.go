// Package codegen lowers one monomorphic specialization of the Core IR
// into native machine code through tinygo.org/x/go-llvm: it builds an
// LLVM module containing exactly one function, verifies it, and hands
// back a ready-to-call execution engine. The basic-block construction for
// loops and the alloca-per-local scoping follow a conventional
// single-function IR-to-LLVM lowering shape, adapted to the primitive
// set and single-function shape this language supports.
package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/tartavull/fastpy/src/core"
	"github.com/tartavull/fastpy/src/types"
)

// Compiled is one monomorphic native specialization: an owned LLVM
// context, module and execution engine, plus enough metadata for
// src/abi to marshal arguments and the return value across the boundary.
type Compiled struct {
	Name     string
	ArgTypes []types.Term
	RetType  types.Term

	ctx      llvm.Context
	module   llvm.Module
	engine   llvm.ExecutionEngine
	fn       llvm.Value
	paramLL  []llvm.Type
	retLL    llvm.Type
}

// LLVMFunction returns the compiled native function, for ExecutionEngine
// calls that need the llvm.Value handle directly.
func (c *Compiled) LLVMFunction() llvm.Value { return c.fn }

// ParamTypes returns the function's declared LLVM parameter types, in
// order — the backend's own signature, for src/abi.Translate to walk
// rather than re-deriving a native shape from the Core ArgTypes.
func (c *Compiled) ParamTypes() []llvm.Type { return c.paramLL }

// ResultType returns the function's declared LLVM return type.
func (c *Compiled) ResultType() llvm.Type { return c.retLL }

// Engine returns the execution engine owning this specialization's code.
func (c *Compiled) Engine() llvm.ExecutionEngine { return c.engine }

// Context returns the LLVM context this specialization's types were
// built in; src/abi needs it to build matching GenericValues.
func (c *Compiled) Context() llvm.Context { return c.ctx }

// Dispose releases the native resources backing a Compiled. The cache
// that owns a specialization is responsible for calling this if it ever
// evicts one; nothing here is finalizer-collected.
func (c *Compiled) Dispose() {
	c.engine.Dispose()
}

type paramKind int

const (
	paramScalar paramKind = iota
	paramArray
)

// paramSlot records the one physical LLVM parameter a logical (Core)
// argument occupies. A scalar argument is passed by value; an array
// argument is passed as a single pointer to the {data, dims, shape}
// struct arrayStructType builds, decoded with three GEPs in bindParams —
// one physical parameter either way.
type paramSlot struct {
	kind  paramKind
	start int
}

type arrayBinding struct {
	dataPtr  llvm.Value
	dims     llvm.Value
	shapePtr llvm.Value
	elem     types.Term
}

// arrayStructType builds the {data, dims, shape} layout an array
// parameter's pointer addresses: a pointer to the element type, an i32
// rank, and a pointer to i32 shape entries. Only the data field's pointee
// varies with the array's element type; dims and shape are always i32 and
// pointer<i32> respectively, regardless of what the array holds.
func arrayStructType(ctx llvm.Context, eltLL llvm.Type) llvm.Type {
	return ctx.StructType([]llvm.Type{
		llvm.PointerType(eltLL, 0),
		ctx.Int32Type(),
		llvm.PointerType(ctx.Int32Type(), 0),
	}, false)
}

// Generate compiles fn at the concrete argument/return types a
// specialization was requested for, applying sub to resolve the width of
// every literal and parameter the inference pass left as a bare type
// variable. name becomes the compiled function's native symbol.
func Generate(fn *core.Fun, argTys []types.Term, retTy types.Term, sub types.Substitution, name string) (*Compiled, error) {
	ctx := llvm.NewContext()
	module := ctx.NewModule(name)
	builder := ctx.NewBuilder()
	defer builder.Dispose()

	paramLL, slots, err := buildParamList(ctx, argTys)
	if err != nil {
		return nil, err
	}
	retLL, retIsVoid, err := llType(ctx, retTy)
	if err != nil {
		return nil, err
	}

	fnType := llvm.FunctionType(retLL, paramLL, false)
	llFn := llvm.AddFunction(module, name, fnType)

	entry := llvm.AddBasicBlock(llFn, "entry")
	builder.SetInsertPointAtEnd(entry)

	g := &generator{
		ctx:     ctx,
		builder: builder,
		fn:      llFn,
		sub:     sub,
		locals:  make(map[string]llvm.Value),
		arrays:  make(map[string]arrayBinding),
	}
	if err := g.bindParams(fn.Args, argTys, slots); err != nil {
		return nil, err
	}
	for _, stmt := range fn.Body {
		if err := g.genStmt(stmt); err != nil {
			return nil, err
		}
	}
	if !g.terminated {
		if !retIsVoid {
			return nil, fmt.Errorf("codegen: function %q does not return on all paths", name)
		}
		builder.CreateRetVoid()
	}

	if err := llvm.VerifyModule(module, llvm.ReturnStatusAction); err != nil {
		return nil, fmt.Errorf("codegen: module verification failed: %w", err)
	}

	engine, err := llvm.NewExecutionEngine(module)
	if err != nil {
		return nil, fmt.Errorf("codegen: creating execution engine: %w", err)
	}

	return &Compiled{
		Name:     name,
		ArgTypes: argTys,
		RetType:  retTy,
		ctx:      ctx,
		module:   module,
		engine:   engine,
		fn:       llFn,
		paramLL:  paramLL,
		retLL:    retLL,
	}, nil
}

func buildParamList(ctx llvm.Context, argTys []types.Term) ([]llvm.Type, []paramSlot, error) {
	var params []llvm.Type
	slots := make([]paramSlot, len(argTys))
	for i, t := range argTys {
		slots[i] = paramSlot{start: len(params)}
		if elt, ok := types.IsArray(t); ok {
			eltLL, _, err := llType(ctx, elt)
			if err != nil {
				return nil, nil, err
			}
			slots[i].kind = paramArray
			params = append(params, llvm.PointerType(arrayStructType(ctx, eltLL), 0))
			continue
		}
		ll, _, err := llType(ctx, t)
		if err != nil {
			return nil, nil, err
		}
		slots[i].kind = paramScalar
		params = append(params, ll)
	}
	return params, slots, nil
}

func llType(ctx llvm.Context, t types.Term) (llvm.Type, bool, error) {
	c, ok := t.(*types.Con)
	if !ok {
		return llvm.Type{}, false, fmt.Errorf("codegen: type %s is not a concrete scalar type", t)
	}
	switch c.Name {
	case "Int32":
		return ctx.Int32Type(), false, nil
	case "Int64":
		return ctx.Int64Type(), false, nil
	case "Float":
		return ctx.FloatType(), false, nil
	case "Double":
		return ctx.DoubleType(), false, nil
	case "Bool":
		return ctx.Int1Type(), false, nil
	case "Void":
		return ctx.VoidType(), true, nil
	default:
		return llvm.Type{}, false, fmt.Errorf("codegen: unrecognized concrete type constructor %q", c.Name)
	}
}
