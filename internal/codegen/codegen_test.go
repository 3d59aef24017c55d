package codegen

import (
	"testing"

	"github.com/KarloKnezevic/ppjc/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func term(kind, lexeme string) *parser.Tree {
	return &parser.Tree{Terminal: true, Symbol: kind, Lexeme: lexeme}
}

func nt(name string, children ...*parser.Tree) *parser.Tree {
	return &parser.Tree{Symbol: name, Children: children}
}

// numExpr builds the full single-child precedence chain from
// assignment_expr down to a NUM primary, the shape the parser actually
// produces for a bare integer literal (mirrors
// internal/semantics/analyzer_test.go's helper of the same name).
func numExpr(value string) *parser.Tree {
	cur := nt("primary_expr", term("NUM", value))
	for _, name := range []string{
		"postfix_expr", "unary_expr", "cast_expr", "multiplicative_expr",
		"additive_expr", "relational_expr", "equality_expr",
		"logical_and_expr", "logical_or_expr", "assignment_expr",
	} {
		cur = nt(name, cur)
	}
	return cur
}

func identExpr(name string) *parser.Tree {
	cur := nt("primary_expr", term("IDENT", name))
	for _, n := range []string{
		"postfix_expr", "unary_expr", "cast_expr", "multiplicative_expr",
		"additive_expr", "relational_expr", "equality_expr",
		"logical_and_expr", "logical_or_expr", "assignment_expr",
	} {
		cur = nt(n, cur)
	}
	return cur
}

func intTypeSpec() *parser.Tree { return nt("type_spec", term("int", "int")) }

func declarator(name string) *parser.Tree { return nt("declarator", term("IDENT", name)) }

func returnStmt(expr *parser.Tree) *parser.Tree {
	var children []*parser.Tree
	children = append(children, term("return", "return"))
	if expr != nil {
		children = append(children, nt("expr", expr))
	}
	children = append(children, term(";", ";"))
	return nt("stmt", nt("jump_stmt", children...))
}

func compound(stmts ...*parser.Tree) *parser.Tree {
	if len(stmts) == 0 {
		return nt("compound_stmt", term("LBRACE", "{"), term("RBRACE", "}"))
	}
	var list *parser.Tree
	for _, s := range stmts {
		if list == nil {
			list = nt("stmt_list", s)
		} else {
			list = nt("stmt_list", list, s)
		}
	}
	return nt("compound_stmt", term("LBRACE", "{"), list, term("RBRACE", "}"))
}

func funcDef(name string, body *parser.Tree) *parser.Tree {
	return nt("func_def", intTypeSpec(), term("IDENT", name), term("(", "("), term(")", ")"), body)
}

func funcDefWithParams(name string, params *parser.Tree, body *parser.Tree) *parser.Tree {
	return nt("func_def", intTypeSpec(), term("IDENT", name), term("(", "("), params, term(")", ")"), body)
}

func mainReturningZero() *parser.Tree {
	return funcDef("main", compound(returnStmt(numExpr("0"))))
}

func program(extDecls ...*parser.Tree) *parser.Tree {
	var list *parser.Tree
	for _, d := range extDecls {
		item := nt("ext_decl", d)
		if list == nil {
			list = nt("ext_decl_list", item)
		} else {
			list = nt("ext_decl_list", list, item)
		}
	}
	return nt("program", list)
}

func TestGenerateEmitsPrologueAndMain(t *testing.T) {
	out, err := Generate(program(mainReturningZero()), DefaultStackStart)
	require.NoError(t, err)
	assert.Contains(t, out, "CALL F_MAIN")
	assert.Contains(t, out, "HALT")
	assert.Contains(t, out, "F_MAIN:")
	assert.Contains(t, out, "F_MAIN_END:")
	assert.Contains(t, out, "RET")
}

func TestGenerateAlwaysEmitsSoftwareArithmeticHelpers(t *testing.T) {
	out, err := Generate(program(mainReturningZero()), DefaultStackStart)
	require.NoError(t, err)
	assert.Contains(t, out, "F_0_MUL:")
	assert.Contains(t, out, "F_0_DIV:")
	assert.Contains(t, out, "F_0_MOD:")
	assert.Contains(t, out, "F_0_DIVMOD:")
}

func TestEmitBinaryArithAdditionUsesPushPopPattern(t *testing.T) {
	g := newGenerator()
	g.fs = newFuncState("F_TEST_END", 0)
	g.fs.pushScope()
	add := nt("additive_expr", numExpr("1"), numExpr("2"), term("+", "+"))
	g.emitExpr(add)
	out := g.sb.String()
	assert.Contains(t, out, "PUSH R0")
	assert.Contains(t, out, "MOVE R0, R1")
	assert.Contains(t, out, "POP R0")
	assert.Contains(t, out, "ADD R0, R1, R0")
}

func TestEmitBinaryArithMultiplyCallsSoftwareRoutine(t *testing.T) {
	g := newGenerator()
	g.fs = newFuncState("F_TEST_END", 0)
	g.fs.pushScope()
	mul := nt("multiplicative_expr", numExpr("3"), numExpr("4"), term("*", "*"))
	g.emitExpr(mul)
	assert.Contains(t, g.sb.String(), "CALL F_0_MUL")
}

func TestEmitIfElseAllocatesDistinctLabels(t *testing.T) {
	g := newGenerator()
	g.fs = newFuncState("F_TEST_END", 0)
	g.fs.pushScope()
	ifStmt := nt("if_stmt", term("if", "if"), term("(", "("), numExpr("1"), term(")", ")"),
		nt("stmt", nt("expr_stmt", term(";", ";"))), term("else", "else"),
		nt("stmt", nt("expr_stmt", term(";", ";"))))
	g.emitIf(ifStmt)
	out := g.sb.String()
	assert.Contains(t, out, "JP_EQ L_IF_1")
	assert.Contains(t, out, "L_IF_1:")
	assert.Contains(t, out, "L_IF_2:")
}

func TestEmitJumpBreakTargetsInnermostLoop(t *testing.T) {
	g := newGenerator()
	g.fs = newFuncState("F_TEST_END", 0)
	g.fs.pushScope()
	g.fs.pushLoop("L_LOOP_OUTER_END", "L_LOOP_OUTER_HEAD")
	g.fs.pushLoop("L_LOOP_INNER_END", "L_LOOP_INNER_HEAD")
	g.emitJump(nt("jump_stmt", term("break", "break"), term(";", ";")))
	assert.Contains(t, g.sb.String(), "JP L_LOOP_INNER_END")
}

func TestCountLocalWordsSumsNestedAndArrayDeclarations(t *testing.T) {
	scalarDecl := nt("var_decl", intTypeSpec(),
		nt("init_declarator_list", nt("init_declarator", declarator("x"))), term(";", ";"))
	arrDecl := nt("var_decl", intTypeSpec(),
		nt("init_declarator_list", nt("init_declarator",
			nt("declarator", term("IDENT", "a"), term("[", "["), term("NUM", "5"), term("]", "]")))),
		term(";", ";"))
	nestedIf := nt("if_stmt", term("if", "if"), term("(", "("), numExpr("1"), term(")", ")"),
		nt("stmt", compound(nt("stmt", arrDecl))))
	body := compound(nt("stmt", scalarDecl), nt("stmt", nestedIf))

	assert.Equal(t, 6, countLocalWords(body))
}

func TestEmitFunctionBodyAssignsSequentialLocalSlots(t *testing.T) {
	decl1 := nt("var_decl", intTypeSpec(),
		nt("init_declarator_list", nt("init_declarator", declarator("a"))), term(";", ";"))
	decl2 := nt("var_decl", intTypeSpec(),
		nt("init_declarator_list", nt("init_declarator", declarator("b"))), term(";", ";"))
	body := compound(nt("stmt", decl1), nt("stmt", decl2), returnStmt(identExpr("b")))

	g := newGenerator()
	g.emitFunctionBody("main", nil, body)
	out := g.sb.String()

	assert.Contains(t, out, "SUB R7, %D 8, R7")
	assert.Contains(t, out, "LOAD (R7+4), R0")
	assert.Contains(t, out, "MOVE R0, R6")
	assert.Contains(t, out, "F_MAIN_END:")
	assert.Contains(t, out, "ADD R7, %D 8, R7")
}

func TestEmitCallEvaluatesLeftToRightAndPlacesFirstArgAtLowestOffset(t *testing.T) {
	g := newGenerator()
	g.fs = newFuncState("F_TEST_END", 0)
	g.fs.pushScope()
	g.funcParams["add"] = 2

	args := nt("arg_expr_list", nt("arg_expr_list", numExpr("1")), numExpr("2"))
	call := nt("postfix_expr", identExpr("add"), term("(", "("), args, term(")", ")"))
	g.emitCall(call)
	out := g.sb.String()

	reserve := indexOf(out, "SUB R7, %D 8, R7")
	firstEval := indexOf(out, "MOVE %D 1, R0")
	firstStore := indexOf(out, "STORE R0, (R7)")
	secondEval := indexOf(out, "MOVE %D 2, R0")
	secondStore := indexOf(out, "STORE R0, (R7+4)")
	require.True(t, reserve >= 0 && firstEval >= 0 && firstStore >= 0 && secondEval >= 0 && secondStore >= 0)
	assert.Less(t, reserve, firstEval)
	assert.Less(t, firstEval, firstStore)
	assert.Less(t, firstStore, secondEval)
	assert.Less(t, secondEval, secondStore)
	assert.Contains(t, out, "CALL F_ADD")
	assert.Contains(t, out, "ADD R7, %D 8, R7")
	assert.Contains(t, out, "MOVE R6, R0")
}

func TestEmitGlobalVarDeclWritesDataSectionEntry(t *testing.T) {
	decl := nt("var_decl", intTypeSpec(),
		nt("init_declarator_list", nt("init_declarator", declarator("counter"), term("=", "="),
			nt("initializer", numExpr("7")))),
		term(";", ";"))
	out, err := Generate(program(mainReturningZero(), decl), DefaultStackStart)
	require.NoError(t, err)
	assert.Contains(t, out, "G_COUNTER: DW %D 7")
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
