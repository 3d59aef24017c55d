package codegen

import (
	"strings"

	"github.com/KarloKnezevic/ppjc/internal/parser"
)

// exprHandlers mirrors internal/semantics/dispatch.go's handler table
// shape (in turn grounded on tunascript/syntax/operators.go's
// operator-to-handler table), but for codegen every handler is a pure side
// effect: it emits instructions that leave the expression's value in R0
// (spec section 4.7: "Expression codegen leaves result in R0").
type exprFunc func(g *Generator, n *parser.Tree)

var exprHandlers = map[string]exprFunc{
	"expr":                emitCommaExpr,
	"assignment_expr":     emitAssignment,
	"logical_or_expr":     emitLogicalOr,
	"logical_and_expr":    emitLogicalAnd,
	"equality_expr":       emitBinaryArith,
	"relational_expr":     emitBinaryArith,
	"additive_expr":       emitBinaryArith,
	"multiplicative_expr": emitBinaryArith,
	"cast_expr":           emitCast,
	"unary_expr":          emitUnary,
	"postfix_expr":        emitPostfix,
	"primary_expr":        emitPrimary,
}

func (g *Generator) emitExpr(n *parser.Tree) {
	if n == nil {
		return
	}
	if h, ok := exprHandlers[n.Symbol]; ok {
		h(g, n)
		return
	}
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		g.emitExpr(nts[0])
	}
}

func emitCommaExpr(g *Generator, n *parser.Tree) {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		g.emitExpr(nts[0])
		return
	}
	g.emitExpr(nts[0])
	g.emitExpr(nts[1])
}

func emitAssignment(g *Generator, n *parser.Tree) {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		g.emitExpr(nts[0])
		return
	}
	lhs, rhs := nts[0], nts[1]
	g.emitExpr(rhs)
	g.instr1("PUSH", "R0")
	g.loadAddress(lhs)
	g.instr1("POP", "R0")
	g.instr2("STORE", "R0", "(R2)")
}

// emitBinaryArith implements spec section 4.7's "evaluate left, push,
// evaluate right into R0, move to R1, pop left into R0, apply operator"
// pattern for every left-recursive binary level except the short-circuit
// logical operators.
func emitBinaryArith(g *Generator, n *parser.Tree) {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		g.emitExpr(nts[0])
		return
	}
	g.emitExpr(nts[0])
	g.instr1("PUSH", "R0")
	g.emitExpr(nts[1])
	g.instr2("MOVE", "R0", "R1")
	g.instr1("POP", "R0")

	switch {
	case hasTerm(n, "+", ""):
		g.instr3("ADD", "R0", "R1", "R0")
	case hasTerm(n, "MINUS", ""):
		g.instr3("SUB", "R0", "R1", "R0")
	case hasTerm(n, "*", ""):
		g.instr1("CALL", "F_0_MUL")
	case hasTerm(n, "/", ""):
		g.instr1("CALL", "F_0_DIV")
	case hasTerm(n, "%", ""):
		g.instr1("CALL", "F_0_MOD")
	case hasTerm(n, "==", ""):
		g.instr2("CMP", "R0", "R1")
		g.materializeBool("EQ")
	case hasTerm(n, "!=", ""):
		g.instr2("CMP", "R0", "R1")
		g.materializeBool("NE")
	case hasTerm(n, "<", ""):
		g.instr2("CMP", "R0", "R1")
		g.materializeBool("SLT")
	case hasTerm(n, "<=", ""):
		g.instr2("CMP", "R0", "R1")
		g.materializeBool("SLE")
	case hasTerm(n, ">", ""):
		g.instr2("CMP", "R0", "R1")
		g.materializeBool("SGT")
	case hasTerm(n, ">=", ""):
		g.instr2("CMP", "R0", "R1")
		g.materializeBool("SGE")
	}
}

// materializeBool turns the condition flags set by the preceding CMP into
// 0/1 in R0, via a decisive-outcome jump to one of two fresh L_SC labels
// (spec section 4.7 groups this under the same short-circuit label family
// since both are "jump to a label that materializes a boolean").
func (g *Generator) materializeBool(cond string) {
	trueL := g.newLabel("L_SC")
	endL := g.newLabel("L_SC")
	g.instr1("JP_"+cond, trueL)
	g.instr2("MOVE", immediate(0), "R0")
	g.instr1("JP", endL)
	g.label(trueL)
	g.instr2("MOVE", immediate(1), "R0")
	g.label(endL)
}

func emitLogicalOr(g *Generator, n *parser.Tree) {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		g.emitExpr(nts[0])
		return
	}
	trueL := g.newLabel("L_SC")
	falseL := g.newLabel("L_SC")
	endL := g.newLabel("L_SC")

	g.emitExpr(nts[0])
	g.instr2("CMP", "R0", immediate(0))
	g.instr1("JP_NE", trueL)
	g.emitExpr(nts[1])
	g.instr2("CMP", "R0", immediate(0))
	g.instr1("JP_EQ", falseL)
	g.label(trueL)
	g.instr2("MOVE", immediate(1), "R0")
	g.instr1("JP", endL)
	g.label(falseL)
	g.instr2("MOVE", immediate(0), "R0")
	g.label(endL)
}

func emitLogicalAnd(g *Generator, n *parser.Tree) {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		g.emitExpr(nts[0])
		return
	}
	trueL := g.newLabel("L_SC")
	falseL := g.newLabel("L_SC")
	endL := g.newLabel("L_SC")

	g.emitExpr(nts[0])
	g.instr2("CMP", "R0", immediate(0))
	g.instr1("JP_EQ", falseL)
	g.emitExpr(nts[1])
	g.instr2("CMP", "R0", immediate(0))
	g.instr1("JP_EQ", falseL)
	g.label(trueL)
	g.instr2("MOVE", immediate(1), "R0")
	g.instr1("JP", endL)
	g.label(falseL)
	g.instr2("MOVE", immediate(0), "R0")
	g.label(endL)
}

func emitCast(g *Generator, n *parser.Tree) {
	nts := childNonTerminals(n)
	if !hasTerm(n, "int", "") && !hasTerm(n, "char", "") {
		g.emitExpr(nts[0])
		return
	}
	g.emitExpr(nts[0])
	if hasTerm(n, "char", "") {
		g.instr3("AND", "R0", immediate(0xFF), "R0")
	}
}

func emitUnary(g *Generator, n *parser.Tree) {
	nts := childNonTerminals(n)
	switch {
	case hasTerm(n, "++", ""):
		g.emitPreIncDec(nts[0], true)
	case hasTerm(n, "--", ""):
		g.emitPreIncDec(nts[0], false)
	case hasTerm(n, "+", ""):
		g.emitExpr(nts[0])
	case hasTerm(n, "MINUS", ""):
		g.emitExpr(nts[0])
		g.instr2("MOVE", "R0", "R1")
		g.instr2("MOVE", immediate(0), "R0")
		g.instr3("SUB", "R0", "R1", "R0")
	case hasTerm(n, "!", ""):
		g.emitExpr(nts[0])
		g.instr2("CMP", "R0", immediate(0))
		g.materializeBool("EQ")
	default:
		g.emitExpr(nts[0])
	}
}

func (g *Generator) emitPreIncDec(operand *parser.Tree, isInc bool) {
	g.loadAddress(operand)
	g.instr2("LOAD", "(R2)", "R0")
	if isInc {
		g.instr3("ADD", "R0", immediate(1), "R0")
	} else {
		g.instr3("SUB", "R0", immediate(1), "R0")
	}
	g.instr2("STORE", "R0", "(R2)")
}

func emitPostfix(g *Generator, n *parser.Tree) {
	nts := childNonTerminals(n)
	switch {
	case hasTerm(n, "[", ""):
		g.loadAddress(n)
		g.instr2("LOAD", "(R2)", "R0")
	case hasTerm(n, "(", ""):
		g.emitCall(n)
	case hasTerm(n, "++", ""):
		g.emitPostIncDec(nts[0], true)
	case hasTerm(n, "--", ""):
		g.emitPostIncDec(nts[0], false)
	default:
		g.emitExpr(nts[0])
	}
}

func (g *Generator) emitPostIncDec(operand *parser.Tree, isInc bool) {
	g.loadAddress(operand)
	g.instr2("LOAD", "(R2)", "R0")
	g.instr2("MOVE", "R0", "R1")
	if isInc {
		g.instr3("ADD", "R1", immediate(1), "R1")
	} else {
		g.instr3("SUB", "R1", immediate(1), "R1")
	}
	g.instr2("STORE", "R1", "(R2)")
}

// emitCall evaluates arguments left to right (the source order) and stores
// each directly into its final slot in a block reserved below the current
// frame, so the first argument lands at the lowest address of the block,
// directly above the return address CALL is about to push (spec section
// 4.7's calling convention). Reserving the block up front and storing by
// offset, rather than pushing as each argument is evaluated, keeps
// evaluation order and argument placement order independent: argument
// expressions with side effects run in the order they appear in source,
// regardless of where in the block their value ends up.
func (g *Generator) emitCall(n *parser.Tree) {
	nts := childNonTerminals(n)
	name := calleeName(nts[0])

	var args []*parser.Tree
	if len(nts) == 2 {
		args = flattenList(nts[1])
	}
	if len(args) > 0 {
		g.instr3("SUB", "R7", immediate(4*len(args)), "R7")
		for i, a := range args {
			g.emitExpr(a)
			g.instr2("STORE", "R0", addrOperand("R7", 4*i))
		}
	}
	g.instr1("CALL", "F_"+strings.ToUpper(name))
	if len(args) > 0 {
		g.instr3("ADD", "R7", immediate(4*len(args)), "R7")
	}
	g.instr2("MOVE", "R6", "R0")
}

func calleeName(n *parser.Tree) string {
	for n.Symbol != "primary_expr" {
		n = childNonTerminals(n)[0]
	}
	return termLexeme(n, "IDENT")
}

func emitPrimary(g *Generator, n *parser.Tree) {
	switch {
	case hasTerm(n, "IDENT", ""):
		if g.isArrayValue(n) {
			g.loadAddress(n)
			g.instr2("MOVE", "R2", "R0")
			return
		}
		g.loadAddress(n)
		g.instr2("LOAD", "(R2)", "R0")
	case hasTerm(n, "NUM", ""):
		g.instr2("MOVE", immediate(parseIntLiteral(termLexeme(n, "NUM"))), "R0")
	case hasTerm(n, "CHARLIT", ""):
		g.instr2("MOVE", immediate(charLiteralValue(termLexeme(n, "CHARLIT"))), "R0")
	case hasTerm(n, "STRLIT", ""):
		label := g.internString(termLexeme(n, "STRLIT"))
		g.instr2("MOVE", label, "R0")
	default:
		nts := childNonTerminals(n)
		g.emitExpr(nts[0])
	}
}

// loadAddress computes the effective byte address of an lvalue expression
// into R2. It descends through the same passthrough chain (unary_expr ->
// postfix_expr -> primary_expr, with "(" ... ")" wrapping preserving
// lvalue-ness exactly as internal/semantics/rules_expr.go's
// handlePrimaryExpr does) until it reaches a bare identifier or an array
// index.
func (g *Generator) loadAddress(n *parser.Tree) {
	switch n.Symbol {
	case "primary_expr":
		if hasTerm(n, "IDENT", "") {
			g.loadIdentAddress(termLexeme(n, "IDENT"))
			return
		}
		nts := childNonTerminals(n)
		g.loadAddress(nts[0])

	case "postfix_expr":
		if hasTerm(n, "[", "") {
			nts := childNonTerminals(n)
			g.loadAddress(nts[0])
			g.instr1("PUSH", "R2")
			g.emitExpr(nts[1])
			g.instr3("SHL", "R0", immediate(2), "R0")
			g.instr1("POP", "R1")
			g.instr3("ADD", "R1", "R0", "R2")
			return
		}
		nts := childNonTerminals(n)
		g.loadAddress(nts[0])

	default:
		nts := childNonTerminals(n)
		if len(nts) == 1 {
			g.loadAddress(nts[0])
		}
	}
}

// loadIdentAddress resolves name to its byte address. An array parameter
// holds a caller-supplied pointer rather than the array itself, so its
// slot must be dereferenced once to reach the real base address.
func (g *Generator) loadIdentAddress(name string) {
	if sl, ok := g.fs.lookup(name); ok {
		g.instr2("MOVE", "R7", "R2")
		off := g.slotByteOffset(sl)
		if off != 0 {
			g.instr3("ADD", "R2", immediate(off), "R2")
		}
		if sl.isParam && sl.isArray {
			g.instr2("LOAD", "(R2)", "R2")
		}
		return
	}
	gl := g.globals[name]
	g.instr2("MOVE", gl.label, "R2")
}
