package abi

import (
	"runtime"

	"github.com/tartavull/fastpy/src/codegen"
)

// Call marshals argVals, invokes c's native function through its
// execution engine's interpreter/JIT (tinygo.org/x/go-llvm's
// RunFunction), and unmarshals the single return value. It is the whole
// dynamic-dispatch mechanism standing in for ctypes.CFUNCTYPE: Go has no
// built-in way to call a runtime-constructed function pointer with an
// arbitrary signature, so RunFunction's GenericValue convention is used
// instead of a hand-rolled trampoline.
func Call(c *codegen.Compiled, argVals []interface{}) (interface{}, error) {
	gvs, keepAlive, err := MarshalArgs(c, argVals)
	if err != nil {
		return nil, err
	}
	result := c.Engine().RunFunction(c.LLVMFunction(), gvs)
	runtime.KeepAlive(keepAlive)
	return UnmarshalResult(c, result)
}
