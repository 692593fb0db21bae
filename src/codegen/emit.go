package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/tartavull/fastpy/src/core"
	"github.com/tartavull/fastpy/src/types"
)

// generator carries the per-function emission state: the block builder,
// the substitution resolving literal/parameter widths, and the scope
// mapping from Core names to their alloca (scalars) or cached
// data/shape pointers (arrays). It has no notion of nested block scope,
// because this language's surface has exactly one level of lexical
// nesting (a single loop body).
type generator struct {
	ctx     llvm.Context
	builder llvm.Builder
	fn      llvm.Value
	sub     types.Substitution

	locals map[string]llvm.Value
	arrays map[string]arrayBinding

	terminated bool
}

func (g *generator) concrete(t types.Term) types.Term {
	return types.Apply(g.sub, t)
}

func (g *generator) bindParams(args []*core.Var, argTys []types.Term, slots []paramSlot) error {
	for i, a := range args {
		slot := slots[i]
		if slot.kind == paramArray {
			elt, ok := types.IsArray(argTys[i])
			if !ok {
				return fmt.Errorf("codegen: parameter %q classified as array but its type %s is not", a.ID, argTys[i])
			}
			eltLL, _, err := llType(g.ctx, elt)
			if err != nil {
				return err
			}
			structTy := arrayStructType(g.ctx, eltLL)
			structPtr := g.fn.Param(slot.start)

			i32 := g.ctx.Int32Type()
			zero := llvm.ConstInt(i32, 0, false)
			field := func(idx int, name string) llvm.Value {
				return g.builder.CreateGEP(structTy, structPtr, []llvm.Value{zero, llvm.ConstInt(i32, uint64(idx), false)}, name)
			}

			dataPtrTy := llvm.PointerType(eltLL, 0)
			shapePtrTy := llvm.PointerType(i32, 0)
			dataPtr := g.builder.CreateLoad(dataPtrTy, field(0, a.ID+".data.gep"), a.ID+".data")
			dims := g.builder.CreateLoad(i32, field(1, a.ID+".dims.gep"), a.ID+".dims")
			shapePtr := g.builder.CreateLoad(shapePtrTy, field(2, a.ID+".shape.gep"), a.ID+".shape")

			g.arrays[a.ID] = arrayBinding{dataPtr: dataPtr, dims: dims, shapePtr: shapePtr, elem: elt}
			continue
		}
		param := g.fn.Param(slot.start)
		alloca := g.builder.CreateAlloca(param.Type(), a.ID)
		g.builder.CreateStore(param, alloca)
		g.locals[a.ID] = alloca
	}
	return nil
}

func (g *generator) genStmt(n core.Node) error {
	switch s := n.(type) {
	case *core.Assign:
		val, err := g.genExpr(s.Val)
		if err != nil {
			return err
		}
		if alloca, ok := g.locals[s.Ref]; ok {
			g.builder.CreateStore(val, alloca)
			return nil
		}
		alloca := g.builder.CreateAlloca(val.Type(), s.Ref)
		g.builder.CreateStore(val, alloca)
		g.locals[s.Ref] = alloca
		return nil

	case *core.Return:
		val, err := g.genExpr(s.Val)
		if err != nil {
			return err
		}
		g.builder.CreateRet(val)
		g.terminated = true
		return nil

	case *core.Loop:
		return g.genLoop(s)

	case *core.Noop:
		return nil

	default:
		return fmt.Errorf("codegen: unhandled statement %T", n)
	}
}

// genLoop builds the conventional for.cond/for.body/for.end basic-block
// triad for a counted half-open range with a fixed step of 1.
func (g *generator) genLoop(l *core.Loop) error {
	begin, err := g.genExpr(l.Begin)
	if err != nil {
		return err
	}
	end, err := g.genExpr(l.End)
	if err != nil {
		return err
	}

	i32 := g.ctx.Int32Type()
	begin = g.castToI32(begin, i32)
	end = g.castToI32(end, i32)

	indAlloca := g.builder.CreateAlloca(i32, l.Var.ID)
	g.builder.CreateStore(begin, indAlloca)
	g.locals[l.Var.ID] = indAlloca

	condBlock := llvm.AddBasicBlock(g.fn, "for.cond")
	bodyBlock := llvm.AddBasicBlock(g.fn, "for.body")
	endBlock := llvm.AddBasicBlock(g.fn, "for.end")

	g.builder.CreateBr(condBlock)

	g.builder.SetInsertPointAtEnd(condBlock)
	cur := g.builder.CreateLoad(i32, indAlloca, l.Var.ID)
	cond := g.builder.CreateICmp(llvm.IntSLT, cur, end, "for.cmp")
	g.builder.CreateCondBr(cond, bodyBlock, endBlock)

	g.builder.SetInsertPointAtEnd(bodyBlock)
	g.terminated = false
	for _, stmt := range l.Body {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}
	if !g.terminated {
		cur = g.builder.CreateLoad(i32, indAlloca, l.Var.ID)
		next := g.builder.CreateAdd(cur, llvm.ConstInt(i32, 1, false), "for.inc")
		g.builder.CreateStore(next, indAlloca)
		g.builder.CreateBr(condBlock)
	}

	g.builder.SetInsertPointAtEnd(endBlock)
	g.terminated = false
	return nil
}

func (g *generator) castToI32(v llvm.Value, i32 llvm.Type) llvm.Value {
	if v.Type() == i32 {
		return v
	}
	return g.builder.CreateIntCast(v, i32, "cast.i32")
}

func (g *generator) genExpr(n core.Node) (llvm.Value, error) {
	switch x := n.(type) {
	case *core.Var:
		if alloca, ok := g.locals[x.ID]; ok {
			return g.builder.CreateLoad(g.concreteLLType(x.Type), alloca, x.ID), nil
		}
		if _, ok := g.arrays[x.ID]; ok {
			return llvm.Value{}, fmt.Errorf("codegen: array %q used where a scalar value was expected", x.ID)
		}
		return llvm.Value{}, fmt.Errorf("codegen: unbound local %q", x.ID)

	case *core.LitInt:
		ll := g.concreteLLType(x.Type)
		return llvm.ConstInt(ll, uint64(x.N), true), nil

	case *core.LitFloat:
		ll := g.concreteLLType(x.Type)
		return llvm.ConstFloat(ll, x.N), nil

	case *core.LitBool:
		v := uint64(0)
		if x.N {
			v = 1
		}
		return llvm.ConstInt(g.ctx.Int1Type(), v, false), nil

	case *core.Prim:
		return g.genPrim(x)

	case *core.Index:
		return g.genIndex(x)

	default:
		return llvm.Value{}, fmt.Errorf("codegen: unhandled expression %T", n)
	}
}

func (g *generator) concreteLLType(t types.Term) llvm.Type {
	ll, _, err := llType(g.ctx, g.concrete(t))
	if err != nil {
		// Inference and specialization guarantee every surviving type
		// variable is resolved by the time codegen runs; a failure here is
		// an invariant violation in an earlier pass, not a user error.
		panic(err)
	}
	return ll
}

// genPrim mirrors the original code generator's handling of add#/mult#:
// the choice between integer and floating-point instructions is made by
// inspecting the already-compiled left operand's LLVM type, not by
// re-deriving a type for the Prim node itself.
func (g *generator) genPrim(p *core.Prim) (llvm.Value, error) {
	switch p.Fn {
	case core.PrimShape:
		v, ok := p.Args[0].(*core.Var)
		if !ok {
			return llvm.Value{}, fmt.Errorf("codegen: %s only supports a direct array argument", core.PrimShape)
		}
		arr, ok := g.arrays[v.ID]
		if !ok {
			return llvm.Value{}, fmt.Errorf("codegen: %q is not an array argument", v.ID)
		}
		return arr.shapePtr, nil

	case core.PrimAdd, core.PrimMult:
		a, err := g.genExpr(p.Args[0])
		if err != nil {
			return llvm.Value{}, err
		}
		b, err := g.genExpr(p.Args[1])
		if err != nil {
			return llvm.Value{}, err
		}
		kind := a.Type().TypeKind()
		isFloat := kind == llvm.FloatTypeKind || kind == llvm.DoubleTypeKind
		if p.Fn == core.PrimAdd {
			if isFloat {
				return g.builder.CreateFAdd(a, b, "add"), nil
			}
			return g.builder.CreateAdd(a, b, "add"), nil
		}
		if isFloat {
			return g.builder.CreateFMul(a, b, "mul"), nil
		}
		return g.builder.CreateMul(a, b, "mul"), nil

	default:
		return llvm.Value{}, fmt.Errorf("codegen: unhandled primitive %q", p.Fn)
	}
}

func (g *generator) genIndex(ix *core.Index) (llvm.Value, error) {
	v, ok := ix.Val.(*core.Var)
	if !ok {
		return llvm.Value{}, fmt.Errorf("codegen: indexing only supports a direct array variable")
	}
	arr, ok := g.arrays[v.ID]
	if !ok {
		return llvm.Value{}, fmt.Errorf("codegen: %q is not an array argument", v.ID)
	}
	idx, err := g.genExpr(ix.Ix)
	if err != nil {
		return llvm.Value{}, err
	}
	elemLL, _, err := llType(g.ctx, arr.elem)
	if err != nil {
		return llvm.Value{}, err
	}
	gep := g.builder.CreateGEP(elemLL, arr.dataPtr, []llvm.Value{idx}, "idx")
	return g.builder.CreateLoad(elemLL, gep, "idx.val"), nil
}
