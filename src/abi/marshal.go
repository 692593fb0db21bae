package abi

import (
	"fmt"
	"unsafe"

	"tinygo.org/x/go-llvm"

	"github.com/tartavull/fastpy/src/codegen"
	"github.com/tartavull/fastpy/src/types"
)

// MarshalArgs converts argVals (one Go value per logical Core argument, in
// declaration order) into the flat GenericValue list
// ExecutionEngine.RunFunction expects, one GenericValue per declared LLVM
// parameter. Translate walks each parameter's own declared LLVM type — the
// backend's actual signature, via c.ParamTypes() — to decide whether it
// expects a scalar Int/Float GenericValue or a Pointer one; the Core
// ArgTypes are consulted only to classify an array argument and validate
// its element type. The returned keepAlive slice holds every array
// descriptor built for this call: the caller must keep it referenced
// until the native call returns, since each descriptor is freshly
// allocated Go memory nothing else references once its address crosses
// into LLVM-land.
func MarshalArgs(c *codegen.Compiled, argVals []interface{}) ([]llvm.GenericValue, []interface{}, error) {
	paramLL := c.ParamTypes()
	if len(argVals) != len(c.ArgTypes) || len(argVals) != len(paramLL) {
		return nil, nil, fmt.Errorf("abi: expected %d arguments, got %d", len(c.ArgTypes), len(argVals))
	}
	ctx := c.Context()
	var out []llvm.GenericValue
	var keepAlive []interface{}
	for i, t := range c.ArgTypes {
		nt, err := Translate(paramLL[i])
		if err != nil {
			return nil, nil, fmt.Errorf("abi: argument %d: %w", i, err)
		}
		if elt, ok := types.IsArray(t); ok {
			if nt.Kind != NativePointer || nt.Pointee == nil || nt.Pointee.Kind != NativeStruct {
				return nil, nil, fmt.Errorf("abi: argument %d: declared parameter is not a pointer-to-struct for array type %s", i, t)
			}
			arr, ok := argVals[i].(*Array)
			if !ok {
				return nil, nil, fmt.Errorf("abi: argument %d: expected *abi.Array for array type %s, got %T", i, t, argVals[i])
			}
			if !types.Equals(arr.Elem, elt) {
				return nil, nil, fmt.Errorf("abi: argument %d: array element type %s does not match expected %s", i, arr.Elem, elt)
			}
			desc, err := arr.descriptor()
			if err != nil {
				return nil, nil, fmt.Errorf("abi: argument %d: %w", i, err)
			}
			keepAlive = append(keepAlive, desc)
			out = append(out, llvm.NewGenericValueFromPointer(unsafe.Pointer(desc)))
			continue
		}
		gv, err := marshalScalar(ctx, nt, argVals[i])
		if err != nil {
			return nil, nil, fmt.Errorf("abi: argument %d: %w", i, err)
		}
		out = append(out, gv)
	}
	return out, keepAlive, nil
}

func marshalScalar(ctx llvm.Context, nt NativeType, v interface{}) (llvm.GenericValue, error) {
	switch nt.Kind {
	case NativeInt32:
		n, ok := v.(int32)
		if !ok {
			return llvm.GenericValue{}, fmt.Errorf("expected int32, got %T", v)
		}
		return llvm.NewGenericValueFromInt(ctx.Int32Type(), uint64(n), true), nil
	case NativeInt64:
		n, ok := v.(int64)
		if !ok {
			return llvm.GenericValue{}, fmt.Errorf("expected int64, got %T", v)
		}
		return llvm.NewGenericValueFromInt(ctx.Int64Type(), uint64(n), true), nil
	case NativeFloat32:
		n, ok := v.(float32)
		if !ok {
			return llvm.GenericValue{}, fmt.Errorf("expected float32, got %T", v)
		}
		return llvm.NewGenericValueFromFloat(ctx.FloatType(), float64(n)), nil
	case NativeFloat64:
		n, ok := v.(float64)
		if !ok {
			return llvm.GenericValue{}, fmt.Errorf("expected float64, got %T", v)
		}
		return llvm.NewGenericValueFromFloat(ctx.DoubleType(), n), nil
	case NativeBool:
		n, ok := v.(bool)
		if !ok {
			return llvm.GenericValue{}, fmt.Errorf("expected bool, got %T", v)
		}
		b := uint64(0)
		if n {
			b = 1
		}
		return llvm.NewGenericValueFromInt(ctx.Int1Type(), b, false), nil
	default:
		return llvm.GenericValue{}, fmt.Errorf("unsupported scalar native kind %s", nt.Kind)
	}
}

// UnmarshalResult converts the single GenericValue RunFunction returns
// back into a Go value, keyed off Translate's reading of the
// specialization's own declared LLVM return type.
func UnmarshalResult(c *codegen.Compiled, gv llvm.GenericValue) (interface{}, error) {
	nt, err := Translate(c.ResultType())
	if err != nil {
		return nil, fmt.Errorf("abi: %w", err)
	}
	switch nt.Kind {
	case NativeVoid:
		return nil, nil
	case NativeInt32:
		return int32(int64(gv.Int(true))), nil
	case NativeInt64:
		return int64(gv.Int(true)), nil
	case NativeFloat32:
		return float32(gv.Float(c.ResultType())), nil
	case NativeFloat64:
		return gv.Float(c.ResultType()), nil
	case NativeBool:
		return gv.Int(false) != 0, nil
	default:
		return nil, fmt.Errorf("abi: unsupported return native kind %s", nt.Kind)
	}
}
