package codegen

import "github.com/KarloKnezevic/ppjc/internal/parser"

// emitStmt dispatches a stmt production to its lowering. Productions with
// no entry here (the "stmt" wrapper itself) fall through to the
// single-nonterminal-child passthrough, mirroring
// internal/semantics/dispatch.go's defaultDescend.
func (g *Generator) emitStmt(n *parser.Tree) {
	switch n.Symbol {
	case "compound_stmt":
		g.emitCompoundStmt(n)
	case "var_decl":
		g.emitLocalVarDecl(n)
	case "expr_stmt":
		g.emitExprStmt(n)
	case "if_stmt":
		g.emitIf(n)
	case "while_stmt":
		g.emitWhile(n)
	case "for_stmt":
		g.emitFor(n)
	case "jump_stmt":
		g.emitJump(n)
	default:
		nts := childNonTerminals(n)
		if len(nts) == 1 {
			g.emitStmt(nts[0])
		}
	}
}

func (g *Generator) emitCompoundStmt(n *parser.Tree) {
	g.fs.pushScope()
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		for _, s := range flattenList(nts[0]) {
			g.emitStmt(s)
		}
	}
	g.fs.popScope()
}

func (g *Generator) emitExprStmt(n *parser.Tree) {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		g.emitExpr(nts[0])
	}
}

// emitIf implements spec section 4.7's "CMP R0,0 / JP_EQ to else-or-end"
// shape.
func (g *Generator) emitIf(n *parser.Tree) {
	nts := childNonTerminals(n)
	g.emitExpr(nts[0])
	g.instr2("CMP", "R0", immediate(0))

	if len(nts) == 2 {
		endL := g.newLabel("L_IF")
		g.instr1("JP_EQ", endL)
		g.emitStmt(nts[1])
		g.label(endL)
		return
	}
	elseL := g.newLabel("L_IF")
	endL := g.newLabel("L_IF")
	g.instr1("JP_EQ", elseL)
	g.emitStmt(nts[1])
	g.instr1("JP", endL)
	g.label(elseL)
	g.emitStmt(nts[2])
	g.label(endL)
}

// emitWhile implements spec section 4.7's "head label, zero-check jump to
// end, body, jump to head, end label" shape.
func (g *Generator) emitWhile(n *parser.Tree) {
	nts := childNonTerminals(n)
	headL := g.newLabel("L_LOOP")
	endL := g.newLabel("L_LOOP")

	g.label(headL)
	g.emitExpr(nts[0])
	g.instr2("CMP", "R0", immediate(0))
	g.instr1("JP_EQ", endL)

	g.fs.pushLoop(endL, headL)
	g.emitStmt(nts[1])
	g.fs.popLoop()

	g.instr1("JP", headL)
	g.label(endL)
}

// emitFor implements spec section 4.7's for-loop shape: init once, test at
// the head, body with continue landing at the update label and break at
// the end label.
func (g *Generator) emitFor(n *parser.Tree) {
	nts := childNonTerminals(n)
	g.emitOptExpr(nts[0])

	headL := g.newLabel("L_LOOP")
	contL := g.newLabel("L_LOOP")
	endL := g.newLabel("L_LOOP")

	g.label(headL)
	if cond := childNonTerminals(nts[1]); len(cond) == 1 {
		g.emitExpr(cond[0])
		g.instr2("CMP", "R0", immediate(0))
		g.instr1("JP_EQ", endL)
	}

	g.fs.pushLoop(endL, contL)
	g.emitStmt(nts[3])
	g.fs.popLoop()

	g.label(contL)
	g.emitOptExpr(nts[2])
	g.instr1("JP", headL)
	g.label(endL)
}

func (g *Generator) emitOptExpr(n *parser.Tree) {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		g.emitExpr(nts[0])
	}
}

// emitJump implements break/continue (unconditional jump to the innermost
// loop's labels) and return (evaluate into R0, move to R6, jump to the
// function's exit label).
func (g *Generator) emitJump(n *parser.Tree) {
	switch {
	case hasTerm(n, "break", ""):
		g.instr1("JP", g.fs.currentLoop().breakLabel)
	case hasTerm(n, "continue", ""):
		g.instr1("JP", g.fs.currentLoop().continueLabel)
	case hasTerm(n, "return", ""):
		nts := childNonTerminals(n)
		if len(nts) == 1 {
			g.emitExpr(nts[0])
			g.instr2("MOVE", "R0", "R6")
		}
		g.instr1("JP", g.fs.returnLabel)
	}
}
