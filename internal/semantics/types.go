// Package semantics walks a derivation tree produced by internal/parser,
// assigning types, scopes, and lvalue-ness per node, and reports the first
// rule violation as a *ccerrors.SemanticError.
//
// Grounded on tunascript/syntax/value.go's closed-tagged-union shape for the
// Type variant set (Go has no sum types, so a Kind discriminant plus
// pointer-valued payload fields stands in for it), and on
// internal/ictiobus/translation/graph.go's node-indexed attribute storage
// for attaching synthesized attributes to tree nodes without mutating the
// parser's Tree type.
package semantics

import (
	"fmt"
	"strings"
)

// Kind discriminates the sealed Type variant set (spec section 3's "Sealed
// variant set: Void | Char | Int | Array{element} | Function{return,
// params} | Const{inner}").
type Kind int

const (
	Void Kind = iota
	Char
	Int
	Array
	Function
	ConstKind
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Char:
		return "char"
	case Int:
		return "int"
	case Array:
		return "array"
	case Function:
		return "function"
	case ConstKind:
		return "const"
	default:
		return "?"
	}
}

// Type is one member of the sealed variant set. Only the fields relevant to
// Kind are meaningful: Elem for Array and Const, Return/Params for
// Function.
type Type struct {
	Kind   Kind
	Elem   *Type
	Return *Type
	Params []Type
}

func (t Type) String() string {
	switch t.Kind {
	case Array:
		return fmt.Sprintf("array of %s", t.Elem)
	case ConstKind:
		return fmt.Sprintf("const %s", t.Elem)
	case Function:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("function(%s) -> %s", strings.Join(parts, ", "), t.Return)
	default:
		return t.Kind.String()
	}
}

func VoidType() Type { return Type{Kind: Void} }
func CharType() Type { return Type{Kind: Char} }
func IntType() Type  { return Type{Kind: Int} }

func ArrayOf(elem Type) Type { return Type{Kind: Array, Elem: &elem} }
func ConstOf(inner Type) Type {
	// Const(Const(T)) collapses to Const(T) (spec section 3 invariant).
	if inner.Kind == ConstKind {
		return inner
	}
	return Type{Kind: ConstKind, Elem: &inner}
}
func FuncType(ret Type, params []Type) Type {
	return Type{Kind: Function, Return: &ret, Params: params}
}

// StripConst unwraps a single Const layer. Non-const types pass through.
func StripConst(t Type) Type {
	if t.Kind == ConstKind {
		return *t.Elem
	}
	return t
}

// IsConst reports whether t itself (not its stripped form) is Const.
func IsConst(t Type) bool { return t.Kind == ConstKind }

// IsIntConvertible holds for Int, Char, or a Const of either.
func IsIntConvertible(t Type) bool {
	base := StripConst(t)
	return base.Kind == Int || base.Kind == Char
}

// SameType reports structural equality, ignoring a Const wrapper on either
// side — used to compare array element types and function signatures.
func SameType(a, b Type) bool {
	a, b = StripConst(a), StripConst(b)
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Array:
		return SameType(*a.Elem, *b.Elem)
	case Function:
		if !SameType(*a.Return, *b.Return) || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !SameType(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Assignable reports whether a value of type from may be assigned into a
// location of type to: to must not itself be const, and from must
// implicitly convert to to (Char<->Int widening/narrowing freely, arrays
// only to identically-element-typed arrays, no function assignment).
func Assignable(from, to Type) bool {
	if IsConst(to) {
		return false
	}
	toBase, fromBase := StripConst(to), StripConst(from)
	switch toBase.Kind {
	case Int, Char:
		return IsIntConvertible(fromBase)
	case Array:
		return fromBase.Kind == Array && SameType(*toBase.Elem, *fromBase.Elem)
	default:
		return false
	}
}

// IsScalar reports whether t is a legal variable/parameter/cast type: Int
// or Char, optionally const-qualified. Void and Array are excluded (arrays
// are declared via a separate declarator shape; void variables are
// forbidden outright).
func IsScalar(t Type) bool {
	base := StripConst(t)
	return base.Kind == Int || base.Kind == Char
}
