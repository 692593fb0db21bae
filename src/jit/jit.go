// Package jit is the orchestration layer a caller actually uses: it
// strings together lowering, inference, specialization and codegen
// behind a small Engine/Function API. Go has no decorator syntax, so the
// role the original @fast decorator played — wrap a function so that
// calling it triggers lazy, cached, per-argument-type compilation — is
// played here by Engine.Compile returning a *Function whose Call method
// does exactly that.
package jit

import (
	"fmt"

	"github.com/tartavull/fastpy/src/abi"
	"github.com/tartavull/fastpy/src/codegen"
	"github.com/tartavull/fastpy/src/core"
	"github.com/tartavull/fastpy/src/hostast"
	"github.com/tartavull/fastpy/src/infer"
	"github.com/tartavull/fastpy/src/lower"
	"github.com/tartavull/fastpy/src/pyfrontend"
	"github.com/tartavull/fastpy/src/specialize"
	"github.com/tartavull/fastpy/src/types"
)

// Engine owns one process-wide specialization cache. Every *Function
// compiled from the same Engine shares it, so two functions that happen
// to specialize to the same argument types still get distinct cache
// entries (the cache key is mangled from the function name too).
type Engine struct {
	cache *specialize.Cache
}

// NewEngine returns a ready-to-use Engine with an empty cache.
func NewEngine() *Engine {
	return &Engine{cache: specialize.NewCache()}
}

// CacheSize reports how many specializations have been requested across
// every Function this Engine has compiled.
func (e *Engine) CacheSize() int { return e.cache.Len() }

// Function is one lowered, inferred Core function ready to be called
// with concrete arguments. Its polymorphic signature and inference
// substitution are computed once, at Compile time; each Call only needs
// to resolve and cache the one additional unification against that
// call's own argument types.
type Function struct {
	engine *Engine
	core   *core.Fun
	sig    *types.Fun
	infMgu types.Substitution
}

// Compile runs inference once on fn's already-lowered Core IR, returning
// a Function whose Call method specializes lazily per argument type.
func (e *Engine) Compile(fn *core.Fun) (*Function, error) {
	sig, mgu, err := infer.Infer(fn)
	if err != nil {
		return nil, fmt.Errorf("jit: inference failed for %q: %w", fn.Name, err)
	}
	return &Function{engine: e, core: fn, sig: sig, infMgu: mgu}, nil
}

// CompileSource parses src with the bundled demo frontend, lowers the
// resulting host AST, and compiles it, in one step. It exists for tests,
// benchmarks and the CLI; a real embedding would call Compile directly
// with Core IR a proper host-language frontend produced.
func (e *Engine) CompileSource(src string) (*Function, error) {
	mod, err := pyfrontend.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("jit: parse error: %w", err)
	}
	fn, err := lower.Lower(mod)
	if err != nil {
		return nil, fmt.Errorf("jit: lowering failed: %w", err)
	}
	return e.Compile(fn)
}

// Signature returns the function's own polymorphic signature, as
// resolved by inference alone (no call-site argument types involved).
// Exposed mainly for tests asserting on inference's output shape.
func (f *Function) Signature() *types.Fun { return f.sig }

// Call reflects args' types, resolves this call's monomorphic
// specialization, compiles it if no prior call already has (caching on
// the resulting key), and invokes the native code through src/abi.
func (f *Function) Call(args ...interface{}) (interface{}, error) {
	argTys, err := specialize.ReflectArgTypes(args)
	if err != nil {
		return nil, err
	}
	resolved, err := specialize.Resolve(f.core.Name, f.sig, f.infMgu, argTys)
	if err != nil {
		return nil, err
	}

	val, err := f.engine.cache.GetOrCompile(resolved.Key, func() (interface{}, error) {
		return codegen.Generate(f.core, resolved.ArgTypes, resolved.RetType, resolved.Sub, string(resolved.Key))
	})
	if err != nil {
		return nil, fmt.Errorf("jit: compiling specialization %s: %w", resolved.Key, err)
	}
	compiled, ok := val.(*codegen.Compiled)
	if !ok {
		return nil, fmt.Errorf("jit: internal error: cache entry for %s is not a *codegen.Compiled", resolved.Key)
	}

	result, err := abi.Call(compiled, args)
	if err != nil {
		return nil, fmt.Errorf("jit: calling specialization %s: %w", resolved.Key, err)
	}
	return result, nil
}

// Compiled is the decorator equivalent: a single already-lowered,
// already-inferred host function, ready to be invoked directly. Wrap does
// the one-time lowering and inference work eagerly, at "decoration" time;
// every Call after that only resolves and (if needed) compiles that
// call's own monomorphic specialization, exactly like Function.Call.
type Compiled struct {
	fn *Function
}

// Wrap lowers fn's body through the same single-function Core pipeline
// CompileSource uses internally, infers its signature once, and returns a
// Compiled ready to be called. It is the decorator-free stand-in for
// wrapping a host function definition obtained from a real embedding's
// own parser, rather than the bundled demo frontend's source text.
func Wrap(engine *Engine, fn *hostast.FunctionDef) (*Compiled, error) {
	mod := &hostast.Module{Body: []hostast.Node{fn}}
	coreFn, err := lower.Lower(mod)
	if err != nil {
		return nil, fmt.Errorf("jit: lowering failed: %w", err)
	}
	f, err := engine.Compile(coreFn)
	if err != nil {
		return nil, err
	}
	return &Compiled{fn: f}, nil
}

// Signature returns the wrapped function's polymorphic signature, as
// resolved by inference alone.
func (c *Compiled) Signature() *types.Fun { return c.fn.Signature() }

// Call specializes, compiles (if not already cached) and invokes the
// wrapped function against args, exactly like Function.Call.
func (c *Compiled) Call(args ...interface{}) (interface{}, error) {
	return c.fn.Call(args...)
}
