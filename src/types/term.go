// Package types implements the type-term algebra of the monomorphic scalar
// and array sublanguage: variables, nullary constructors, constructor
// application and function types, plus the free-type-variable calculation
// (ftv) and Robinson unification over them.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Term is a type term: exactly one of *Var, *Con, *App or *Fun.
// The unexported marker method seals the set of implementations so that
// every switch over Term can be exhaustive.
type Term interface {
	fmt.Stringer
	term()
	// Key returns a canonical string that agrees with Equals: two terms are
	// Equals iff their Key is identical. Maps keyed by Term use Key rather
	// than the Term value itself, since *App and *Fun embed slices/pointers
	// that are not themselves comparable with ==.
	Key() string
}

// Var is a meta type variable awaiting unification.
type Var struct {
	Name string
}

func (*Var) term()          {}
func (v *Var) String() string { return v.Name }
func (v *Var) Key() string    { return "v:" + v.Name }

// Con is a nullary type constructor, e.g. Int32 or the bare Array head.
type Con struct {
	Name string
}

func (*Con) term()          {}
func (c *Con) String() string { return c.Name }
func (c *Con) Key() string    { return "c:" + c.Name }

// App is constructor application, Head applied to Arg. An array type is
// exactly App{Head: Con{"Array"}, Arg: elt}.
type App struct {
	Head Term
	Arg  Term
}

func (*App) term() {}
func (a *App) String() string {
	return a.Head.String() + " " + a.Arg.String()
}
func (a *App) Key() string { return "a:(" + a.Head.Key() + "," + a.Arg.Key() + ")" }

// Fun is a function type with an ordered argument list; arity is len(Args).
type Fun struct {
	Args []Term
	Ret  Term
}

func (*Fun) term() {}
func (f *Fun) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + f.Ret.String()
}
func (f *Fun) Key() string {
	sb := strings.Builder{}
	sb.WriteString("f:(")
	for _, a := range f.Args {
		sb.WriteString(a.Key())
		sb.WriteByte(',')
	}
	sb.WriteString(")->")
	sb.WriteString(f.Ret.Key())
	return sb.String()
}

// Equals reports whether t1 and t2 are structurally identical.
func Equals(t1, t2 Term) bool {
	return t1.Key() == t2.Key()
}

// The distinguished nullary constructors.
var (
	Int32  = &Con{Name: "Int32"}
	Int64  = &Con{Name: "Int64"}
	Float  = &Con{Name: "Float"}
	Double = &Con{Name: "Double"}
	Void   = &Con{Name: "Void"}
	Bool   = &Con{Name: "Bool"}
	array  = &Con{Name: "Array"}
)

// Array builds the array type App(Con("Array"), elt).
func Array(elt Term) Term {
	return &App{Head: array, Arg: elt}
}

// IsArray reports whether t is exactly App(Con("Array"), _), and if so
// returns its element type.
func IsArray(t Term) (elt Term, ok bool) {
	a, isApp := t.(*App)
	if !isApp {
		return nil, false
	}
	c, isCon := a.Head.(*Con)
	if !isCon || c.Name != "Array" {
		return nil, false
	}
	return a.Arg, true
}

// FTV returns the set of free type variable names occurring anywhere in t.
func FTV(t Term) map[string]struct{} {
	out := make(map[string]struct{})
	ftv(t, out)
	return out
}

func ftv(t Term, out map[string]struct{}) {
	switch n := t.(type) {
	case *Con:
		// No variables.
	case *Var:
		out[n.Name] = struct{}{}
	case *App:
		ftv(n.Head, out)
		ftv(n.Arg, out)
	case *Fun:
		for _, a := range n.Args {
			ftv(a, out)
		}
		ftv(n.Ret, out)
	default:
		panic(fmt.Sprintf("types: unhandled term %T in ftv", t))
	}
}

// Determined reports whether t has no free type variables, i.e. it is fully
// monomorphic.
func Determined(t Term) bool {
	return len(FTV(t)) == 0
}

// sortedNames is a small helper used by tests to get deterministic output
// from an FTV set.
func sortedNames(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
