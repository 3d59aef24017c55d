package semantics

import (
	"fmt"
	"strconv"

	"github.com/KarloKnezevic/ppjc/internal/parser"
)

// handleFuncDef processes both function prototypes (type_spec IDENT "("
// param_list? ")" ";") and definitions (same prefix, compound_stmt body).
// Spec section 4.6: "re-declaration requires identical signature; multiple
// definitions of the same function are forbidden."
func handleFuncDef(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	ts := a.visit(nts[0])
	name := termLexeme(n, "IDENT")
	line := termLine(n, "IDENT")

	var paramList, body *parser.Tree
	for _, c := range nts[1:] {
		switch c.Symbol {
		case "param_list":
			paramList = c
		case "compound_stmt":
			body = c
		}
	}

	var paramTypes []Type
	var paramNames []string
	if paramList != nil {
		p := a.visit(paramList)
		paramTypes, paramNames = p.ParamTypes, p.ParamNames
	}
	sig := FuncType(ts.Type, paramTypes)

	existing, exists := a.Funcs[name]
	if !exists {
		existing = &FuncInfo{Signature: sig, DeclLine: line}
		a.Funcs[name] = existing
		if !a.Scope.InGlobalScope() {
			a.fail(n, "function declared outside global scope")
			return &Attrs{}
		}
		if err := a.Scope.Declare(&Symbol{Kind: FunctionSymbol, Name: name, Type: sig, DeclLine: line}); err != nil {
			a.fail(n, err.Error())
			return &Attrs{}
		}
	} else if !SameType(existing.Signature, sig) {
		a.fail(n, fmt.Sprintf("conflicting declaration of function %q", name))
		return &Attrs{}
	}

	if body == nil {
		return &Attrs{}
	}

	if existing.Defined {
		a.fail(n, fmt.Sprintf("redefinition of function %q", name))
		return &Attrs{}
	}
	existing.Defined = true
	if sym, ok := a.Scope.Global()[name]; ok {
		sym.Defined = true
	}

	prevReturn := a.returnT
	retType := ts.Type
	a.returnT = &retType
	a.Scope.Enter()
	for i, pt := range paramTypes {
		if StripConst(pt).Kind == Void {
			a.fail(n, "parameter cannot have type void")
			break
		}
		if err := a.Scope.Declare(&Symbol{Kind: VariableSymbol, Name: paramNames[i], Type: pt, IsConst: IsConst(pt)}); err != nil {
			a.fail(n, err.Error())
			break
		}
	}
	if !a.failed() {
		a.visitCompoundBody(body)
	}
	a.Scope.Exit()
	a.returnT = prevReturn

	return &Attrs{}
}

// visitCompoundBody visits a function body's statements in the scope
// already opened for its parameters, rather than opening a second nested
// scope the way a freestanding compound_stmt does.
func (a *Analyzer) visitCompoundBody(body *parser.Tree) {
	nts := childNonTerminals(body)
	if len(nts) == 1 {
		for _, s := range flattenList(nts[0]) {
			a.visit(s)
		}
	}
}

func handleVarDecl(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	ts := a.visit(nts[0])

	prev := a.declBaseType
	base := ts.Type
	a.declBaseType = &base
	a.visit(nts[1])
	a.declBaseType = prev

	return &Attrs{}
}

func handleInitDeclaratorList(a *Analyzer, n *parser.Tree) *Attrs {
	for _, it := range flattenList(n) {
		a.visit(it)
	}
	return &Attrs{}
}

// handleInitDeclarator declares one variable: void-typed variables are
// forbidden, const variables require an initializer, and an initializer's
// shape must match the declared type (spec section 4.6's declaration
// rules).
func handleInitDeclarator(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	declAttrs := a.visit(nts[0])
	finalType := declAttrs.Type

	if StripConst(finalType).Kind == Void {
		a.fail(n, "variable cannot have type void")
		return &Attrs{}
	}

	hasInit := len(nts) == 2
	if IsConst(finalType) && !hasInit {
		a.fail(n, "const variable requires an initializer")
		return &Attrs{}
	}

	if hasInit {
		initAttrs := a.visit(nts[1])
		if !checkInitializerAssignable(a, n, finalType, declAttrs.ElementCount, initAttrs) {
			return &Attrs{}
		}
	}

	if err := a.Scope.Declare(&Symbol{
		Kind:     VariableSymbol,
		Name:     declAttrs.Identifier,
		Type:     finalType,
		IsConst:  IsConst(finalType),
		DeclLine: declAttrs.Line,
	}); err != nil {
		a.fail(n, err.Error())
		return &Attrs{}
	}

	return &Attrs{Type: finalType, Identifier: declAttrs.Identifier}
}

func checkInitializerAssignable(a *Analyzer, n *parser.Tree, declared Type, elementCount int, init *Attrs) bool {
	base := StripConst(declared)
	if base.Kind != Array {
		if !Assignable(init.Type, declared) {
			a.fail(n, "initializer not assignable to declared type")
			return false
		}
		return true
	}

	elem := *base.Elem
	if init.IsStringLiteral {
		if !SameType(elem, CharType()) {
			a.fail(n, "string literal initializer requires a char array")
			return false
		}
		if init.StringLitLength > elementCount {
			a.fail(n, "initializer has more elements than declared array length")
			return false
		}
		return true
	}

	if len(init.InitElemTypes) > elementCount {
		a.fail(n, "initializer has more elements than declared array length")
		return false
	}
	for _, et := range init.InitElemTypes {
		if !Assignable(et, elem) {
			a.fail(n, "initializer element type not assignable to array element type")
			return false
		}
	}
	return true
}

// handleDeclarator resolves IDENT or IDENT "[" NUM "]" against the
// inherited base type (spec section 4.6: "array length must be a
// compile-time integer literal satisfying 1 <= n <= 1024").
func handleDeclarator(a *Analyzer, n *parser.Tree) *Attrs {
	name := termLexeme(n, "IDENT")
	line := termLine(n, "IDENT")
	base := *a.declBaseType

	if !hasTerm(n, "[", "") {
		return &Attrs{Type: base, Identifier: name, Line: line}
	}

	lengthLex := termLexeme(n, "NUM")
	length, err := strconv.Atoi(lengthLex)
	if err != nil || length < 1 || length > 1024 {
		a.fail(n, "array length must be between 1 and 1024")
		return &Attrs{}
	}
	return &Attrs{Type: ArrayOf(base), Identifier: name, ElementCount: length, Line: line}
}

func handleTypeSpec(a *Analyzer, n *parser.Tree) *Attrs {
	var base Type
	switch {
	case hasTerm(n, "int", ""):
		base = IntType()
	case hasTerm(n, "char", ""):
		base = CharType()
	case hasTerm(n, "void", ""):
		base = VoidType()
	}
	if hasTerm(n, "const", "") {
		base = ConstOf(base)
	}
	return &Attrs{Type: base}
}

func handleParamList(a *Analyzer, n *parser.Tree) *Attrs {
	var types []Type
	var names []string
	for _, it := range flattenList(n) {
		p := a.visit(it)
		types = append(types, p.Type)
		names = append(names, p.Identifier)
	}
	return &Attrs{ParamTypes: types, ParamNames: names}
}

func handleParam(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	ts := a.visit(nts[0])
	name := termLexeme(n, "IDENT")
	t := ts.Type
	if hasTerm(n, "[", "") {
		t = ArrayOf(t)
	}
	return &Attrs{Type: t, Identifier: name}
}
