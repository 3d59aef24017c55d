package semantics

import (
	"fmt"
	"strconv"

	"github.com/KarloKnezevic/ppjc/internal/parser"
)

func handleInitializer(a *Analyzer, n *parser.Tree) *Attrs {
	if hasTerm(n, "STRLIT", "") {
		return stringLiteralAttrs(termLexeme(n, "STRLIT"))
	}
	nts := childNonTerminals(n)
	if nts[0].Symbol == "initializer_list" {
		return a.visit(nts[0])
	}
	e := a.visit(nts[0])
	return &Attrs{Type: e.Type, InitElemTypes: []Type{e.Type}}
}

func handleInitializerList(a *Analyzer, n *parser.Tree) *Attrs {
	var types []Type
	for _, it := range flattenList(n) {
		e := a.visit(it)
		types = append(types, e.Type)
	}
	return &Attrs{InitElemTypes: types}
}

// handleCommaExpr: expr "," assignment_expr | assignment_expr. The comma
// operator evaluates and discards the left operand; the result is the
// right operand's value and type (spec section 4.6's "Comma: evaluate left
// (discard type), result is right").
func handleCommaExpr(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		return a.visit(nts[0])
	}
	a.visit(nts[0])
	return a.visit(nts[1])
}

// handleAssignmentExpr: logical_or_expr | unary_expr "=" assignment_expr.
// Left must be a non-const lvalue (spec section 4.6's "Assignment: left
// must be non-const lvalue, right must be assignable to left's type").
func handleAssignmentExpr(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		return a.visit(nts[0])
	}
	lhs := a.visit(nts[0])
	rhs := a.visit(nts[1])
	if !lhs.IsLvalue {
		a.fail(n, "left side of assignment is not an lvalue")
		return &Attrs{}
	}
	if IsConst(lhs.Type) {
		a.fail(n, "cannot assign to a const value")
		return &Attrs{}
	}
	if !Assignable(rhs.Type, lhs.Type) {
		a.fail(n, "right side of assignment is not assignable to the left side's type")
		return &Attrs{}
	}
	return &Attrs{Type: lhs.Type}
}

// handleBinaryChain covers every left-recursive binary precedence level
// (||, &&, ==/!=, relational, +/-, */, %): both operands must be
// int-convertible and the result is Int (spec section 4.6's "Binary
// arithmetic/relational/logical" rule).
func handleBinaryChain(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		return a.visit(nts[0])
	}
	left := a.visit(nts[0])
	right := a.visit(nts[1])
	if !IsIntConvertible(left.Type) || !IsIntConvertible(right.Type) {
		a.fail(n, "operands of a binary operator must be int-convertible")
		return &Attrs{}
	}
	return &Attrs{Type: IntType()}
}

// handleCastExpr: "(" "int" ")" cast_expr | "(" "char" ")" cast_expr |
// unary_expr.
func handleCastExpr(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	if !hasTerm(n, "int", "") && !hasTerm(n, "char", "") {
		return a.visit(nts[0])
	}
	operand := a.visit(nts[0])
	if !IsIntConvertible(operand.Type) {
		a.fail(n, "cast source must be int-convertible")
		return &Attrs{}
	}
	target := IntType()
	if hasTerm(n, "char", "") {
		target = CharType()
	}
	return &Attrs{Type: target}
}

// handleUnaryExpr: postfix_expr | "++" unary_expr | "--" unary_expr |
// "+" cast_expr | MINUS cast_expr | "!" cast_expr.
func handleUnaryExpr(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	switch {
	case hasTerm(n, "++", "") || hasTerm(n, "--", ""):
		operand := a.visit(nts[0])
		if !IsIntConvertible(operand.Type) || !operand.IsLvalue {
			a.fail(n, "increment/decrement operand must be an int-convertible lvalue")
			return &Attrs{}
		}
		return &Attrs{Type: operand.Type}
	case hasTerm(n, "+", "") || hasTerm(n, "MINUS", "") || hasTerm(n, "!", ""):
		operand := a.visit(nts[0])
		if !IsIntConvertible(operand.Type) {
			a.fail(n, "unary operator operand must be int-convertible")
			return &Attrs{}
		}
		return &Attrs{Type: IntType()}
	default:
		return a.visit(nts[0])
	}
}

// handlePostfixExpr: primary_expr | postfix_expr "[" assignment_expr "]" |
// postfix_expr "(" arg_expr_list? ")" | postfix_expr "++" | postfix_expr
// "--".
func handlePostfixExpr(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	switch {
	case hasTerm(n, "[", ""):
		arr := a.visit(nts[0])
		idx := a.visit(nts[1])
		base := StripConst(arr.Type)
		if base.Kind != Array {
			a.fail(n, "indexed value is not an array")
			return &Attrs{}
		}
		if !IsIntConvertible(idx.Type) {
			a.fail(n, "array index must be int-convertible")
			return &Attrs{}
		}
		return &Attrs{Type: *base.Elem, IsLvalue: true}

	case hasTerm(n, "(", ""):
		callee := a.visit(nts[0])
		var args []Type
		if len(nts) == 2 {
			args = a.visit(nts[1]).ArgTypes
		}
		fn := StripConst(callee.Type)
		if fn.Kind != Function {
			a.fail(n, "called value is not a function")
			return &Attrs{}
		}
		if len(args) != len(fn.Params) {
			a.fail(n, "function call argument count does not match parameter count")
			return &Attrs{}
		}
		for i, at := range args {
			if !Assignable(at, fn.Params[i]) {
				a.fail(n, fmt.Sprintf("argument %d is not assignable to its parameter type", i+1))
				return &Attrs{}
			}
		}
		return &Attrs{Type: *fn.Return}

	case hasTerm(n, "++", "") || hasTerm(n, "--", ""):
		operand := a.visit(nts[0])
		if !IsIntConvertible(operand.Type) || !operand.IsLvalue {
			a.fail(n, "increment/decrement operand must be an int-convertible lvalue")
			return &Attrs{}
		}
		return &Attrs{Type: operand.Type}

	default:
		return a.visit(nts[0])
	}
}

func handleArgExprList(a *Analyzer, n *parser.Tree) *Attrs {
	var types []Type
	for _, it := range flattenList(n) {
		e := a.visit(it)
		types = append(types, e.Type)
	}
	return &Attrs{ArgTypes: types}
}

// handlePrimaryExpr: IDENT | NUM | CHARLIT | STRLIT | "(" assignment_expr
// ")". Spec section 4.6's expression rules for identifiers and literals.
func handlePrimaryExpr(a *Analyzer, n *parser.Tree) *Attrs {
	switch {
	case hasTerm(n, "IDENT", ""):
		name := termLexeme(n, "IDENT")
		sym, ok := a.Scope.Lookup(name)
		if !ok {
			a.fail(n, fmt.Sprintf("undeclared identifier %q", name))
			return &Attrs{}
		}
		return &Attrs{Type: sym.Type, IsLvalue: sym.Kind == VariableSymbol, Identifier: name}

	case hasTerm(n, "NUM", ""):
		lex := termLexeme(n, "NUM")
		val, err := strconv.ParseUint(lex, 10, 64)
		if err != nil || val > 0xFFFFFFFF {
			a.fail(n, "integer literal out of 32-bit nonnegative range")
			return &Attrs{}
		}
		return &Attrs{Type: IntType()}

	case hasTerm(n, "CHARLIT", ""):
		lex := termLexeme(n, "CHARLIT")
		if !validCharLiteral(lex) {
			a.fail(n, "invalid character literal")
			return &Attrs{}
		}
		return &Attrs{Type: CharType()}

	case hasTerm(n, "STRLIT", ""):
		return stringLiteralAttrs(termLexeme(n, "STRLIT"))

	default:
		nts := childNonTerminals(n)
		inner := a.visit(nts[0])
		return &Attrs{Type: inner.Type, IsLvalue: inner.IsLvalue}
	}
}

// validCharLiteral checks a CHARLIT lexeme (including its surrounding
// quotes) holds exactly one character or one escape from the set named in
// spec section 4.6: {n, t, 0, \, ', "}.
func validCharLiteral(lex string) bool {
	if len(lex) < 3 || lex[0] != '\'' || lex[len(lex)-1] != '\'' {
		return false
	}
	body := lex[1 : len(lex)-1]
	if len(body) == 1 {
		return body[0] != '\\'
	}
	if len(body) == 2 && body[0] == '\\' {
		switch body[1] {
		case 'n', 't', '0', '\\', '\'', '"':
			return true
		}
	}
	return false
}

// decodedLength returns the character count of a STRLIT lexeme (including
// surrounding quotes) after collapsing escape sequences, not counting the
// terminator spec section 4.6 separately accounts for.
func decodedLength(lex string) int {
	if len(lex) < 2 {
		return 0
	}
	body := lex[1 : len(lex)-1]
	count := 0
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		count++
	}
	return count
}

// stringLiteralAttrs builds the attribute bundle spec section 4.6
// describes for a string literal: "length = character count plus one for
// terminator; the string has array-of-const-char character type."
func stringLiteralAttrs(lex string) *Attrs {
	return &Attrs{
		Type:            ArrayOf(ConstOf(CharType())),
		IsStringLiteral: true,
		StringLitLength: decodedLength(lex) + 1,
	}
}
