package specialize

import (
	"unsafe"

	"github.com/tartavull/fastpy/src/abi"
)

// ArrayView is the contract an array-like call argument must satisfy for
// ReflectArgType to resolve its Core type: an element-kind tag, a data
// pointer, and a shape. *abi.Array implements it; so can any other
// caller-defined array representation, since this package never requires
// the concrete abi.Array type — only this interface.
type ArrayView interface {
	ElemKind() abi.ElemKind
	DataPtr() unsafe.Pointer
	Shape() []int32
}
