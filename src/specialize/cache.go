// Package specialize owns the process-wide specialization cache: given a
// function's polymorphic signature and one call site's concrete argument
// types, it unifies the two, mangles a cache key from the result, and
// guarantees the matching native specialization is compiled at most once
// even when multiple goroutines race to call the same function with the
// same argument types for the first time.
package specialize

import (
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/tartavull/fastpy/src/types"
)

// Key identifies one monomorphic specialization of a function: its name
// plus the mangled argument-type signature that produced it.
type Key string

// Mangle builds the cache key and native symbol name for fn specialized
// at argTys. It stands in for the original hash-of-signature mangling
// scheme, using a stable non-cryptographic hash instead of a process-local
// hash so that repeated runs (and the test suite) see repeatable names.
func Mangle(fnName string, argTys []types.Term) Key {
	h := fnv.New64a()
	for _, t := range argTys {
		h.Write([]byte(t.Key()))
		h.Write([]byte{0})
	}
	return Key(fmt.Sprintf("%s_%x", fnName, h.Sum64()))
}

// CompileFunc produces a native specialization. It is called at most once
// per Key for the lifetime of a Cache.
type CompileFunc func() (interface{}, error)

type cacheEntry struct {
	once    sync.Once
	value   interface{}
	err     error
}

// Cache maps specialization keys to their compiled result. The zero value
// is unusable; use NewCache. A Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*cacheEntry
}

// NewCache returns an empty, ready-to-use Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*cacheEntry)}
}

// GetOrCompile returns the cached value for key, compiling it via compile
// if this is the first request for key. Concurrent callers racing on the
// same unseen key block on the same compile call rather than each
// triggering their own; the entry then serves the one result to everyone.
func (c *Cache) GetOrCompile(key Key, compile CompileFunc) (interface{}, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.value, e.err = compile()
	})
	return e.value, e.err
}

// Len reports how many specializations have been requested so far,
// including any still mid-compile.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
