package semantics

import "github.com/KarloKnezevic/ppjc/internal/parser"

// handleCompoundStmt opens a child scope, lowers every statement, then
// restores the parent (spec section 4.6: "entering a compound statement
// ... opens a child scope; exit restores the parent"). Empty compound
// statements ("{ }", no stmt_list child) are legal.
func handleCompoundStmt(a *Analyzer, n *parser.Tree) *Attrs {
	a.Scope.Enter()
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		for _, s := range flattenList(nts[0]) {
			a.visit(s)
		}
	}
	a.Scope.Exit()
	return &Attrs{}
}

func handleExprStmt(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		a.visit(nts[0])
	}
	return &Attrs{}
}

func handleIfStmt(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	cond := a.visit(nts[0])
	if !IsIntConvertible(cond.Type) {
		a.fail(n, typeMismatch(cond.Type, "int-convertible"))
		return &Attrs{}
	}
	a.visit(nts[1])
	if len(nts) == 3 {
		a.visit(nts[2])
	}
	return &Attrs{}
}

func handleWhileStmt(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	cond := a.visit(nts[0])
	if !IsIntConvertible(cond.Type) {
		a.fail(n, typeMismatch(cond.Type, "int-convertible"))
		return &Attrs{}
	}
	a.loopDepth++
	a.visit(nts[1])
	a.loopDepth--
	return &Attrs{}
}

// handleForStmt: for "(" opt_expr ";" opt_expr ";" opt_expr ")" stmt. Each
// opt_expr is always present as a node (possibly with zero children for
// the omitted case), so nts always has exactly four entries.
func handleForStmt(a *Analyzer, n *parser.Tree) *Attrs {
	nts := childNonTerminals(n)
	a.visit(nts[0])
	cond := a.visit(nts[1])
	if len(nts[1].Children) > 0 && !IsIntConvertible(cond.Type) {
		a.fail(n, typeMismatch(cond.Type, "int-convertible"))
		return &Attrs{}
	}
	a.visit(nts[2])
	a.loopDepth++
	a.visit(nts[3])
	a.loopDepth--
	return &Attrs{}
}

func handleOptExpr(a *Analyzer, n *parser.Tree) *Attrs {
	if len(n.Children) == 0 {
		return &Attrs{}
	}
	return a.visit(childNonTerminals(n)[0])
}

// handleJumpStmt covers break, continue, return, and return expr. Spec
// section 4.6: "break/continue require loop depth >= 1; return; valid only
// if current function returns void; return expr; requires
// assignable(type(expr), return_type)."
func handleJumpStmt(a *Analyzer, n *parser.Tree) *Attrs {
	switch {
	case hasTerm(n, "break", ""):
		if a.loopDepth < 1 {
			a.fail(n, "break outside a loop")
		}
	case hasTerm(n, "continue", ""):
		if a.loopDepth < 1 {
			a.fail(n, "continue outside a loop")
		}
	case hasTerm(n, "return", ""):
		nts := childNonTerminals(n)
		if len(nts) == 0 {
			if a.returnT == nil || StripConst(*a.returnT).Kind != Void {
				a.fail(n, "return; is only valid in a void function")
			}
			return &Attrs{}
		}
		e := a.visit(nts[0])
		if a.returnT == nil || !Assignable(e.Type, *a.returnT) {
			a.fail(n, "return expression not assignable to the function's return type")
		}
	}
	return &Attrs{}
}
