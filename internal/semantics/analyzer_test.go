package semantics

import (
	"testing"

	"github.com/KarloKnezevic/ppjc/internal/ccerrors"
	"github.com/KarloKnezevic/ppjc/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func term(kind, lexeme string, line int) *parser.Tree {
	return &parser.Tree{Terminal: true, Symbol: kind, Lexeme: lexeme, Line: line}
}

func nt(name string, children ...*parser.Tree) *parser.Tree {
	return &parser.Tree{Symbol: name, Children: children}
}

// numExpr builds the full single-child precedence chain from
// assignment_expr down to a NUM primary, the shape the parser would
// actually produce for a bare integer literal expression.
func numExpr(value string, line int) *parser.Tree {
	cur := nt("primary_expr", term("NUM", value, line))
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
	return nt("primary_expr", term("IDENT", name, 0))
}

func intTypeSpec() *parser.Tree { return nt("type_spec", term("int", "int", 1)) }

func mainReturningZero() *parser.Tree {
	ret := nt("jump_stmt", term("return", "return", 2), numExpr("0", 2), term(";", ";", 2))
	stmtList := nt("stmt_list", nt("stmt", ret))
	body := nt("compound_stmt", term("LBRACE", "{", 1), stmtList, term("RBRACE", "}", 1))
	return nt("func_def", intTypeSpec(), term("IDENT", "main", 1), term("(", "(", 1), term(")", ")", 1), body)
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

func TestAnalyzeAcceptsMinimalValidProgram(t *testing.T) {
	_, err := Analyze(program(mainReturningZero()))
	assert.NoError(t, err)
}

func TestAnalyzeRejectsMissingMain(t *testing.T) {
	voidFn := nt("func_def", nt("type_spec", term("void", "void", 1)), term("IDENT", "f", 1),
		term("(", "(", 1), term(")", ")", 1),
		nt("compound_stmt", term("LBRACE", "{", 1), term("RBRACE", "}", 1)))

	_, err := Analyze(program(voidFn))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main")

	var semErr *ccerrors.SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Equal(t, "main", semErr.Diagnostic())
}

func TestAnalyzeRejectsDeclaredButUndefinedFunction(t *testing.T) {
	proto := nt("func_def", intTypeSpec(), term("IDENT", "helper", 1), term("(", "(", 1), term(")", ")", 1), term(";", ";", 1))
	_, err := Analyze(program(mainReturningZero(), proto))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "helper")

	var semErr *ccerrors.SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Equal(t, "helper", semErr.Diagnostic())
}

func TestHandlePrimaryExprRejectsUndeclaredIdentifier(t *testing.T) {
	a := NewAnalyzer()
	n := nt("primary_expr", term("IDENT", "y", 3))
	handlePrimaryExpr(a, n)
	require.True(t, a.failed())
	assert.Contains(t, a.err.Reason, "undeclared")
}

func TestHandleDeclaratorRejectsOutOfRangeArrayLength(t *testing.T) {
	a := NewAnalyzer()
	base := IntType()
	a.declBaseType = &base
	n := nt("declarator", term("IDENT", "arr", 1), term("[", "[", 1), term("NUM", "2000", 1), term("]", "]", 1))
	handleDeclarator(a, n)
	require.True(t, a.failed())
	assert.Contains(t, a.err.Reason, "array length")
}

func TestHandleInitDeclaratorRequiresInitializerForConst(t *testing.T) {
	a := NewAnalyzer()
	base := ConstOf(IntType())
	a.declBaseType = &base
	decl := nt("declarator", term("IDENT", "c", 1))
	n := nt("init_declarator", decl)
	handleInitDeclarator(a, n)
	require.True(t, a.failed())
	assert.Contains(t, a.err.Reason, "const")
}

func TestHandleBinaryChainRejectsNonIntConvertibleOperands(t *testing.T) {
	a := NewAnalyzer()
	require.NoError(t, a.Scope.Declare(&Symbol{Kind: VariableSymbol, Name: "arr", Type: ArrayOf(IntType())}))
	left := numExprBinaryOperand(numExpr("1", 1))
	right := nt("multiplicative_expr", nt("cast_expr", nt("unary_expr", nt("postfix_expr", identExpr("arr")))))
	n := nt("additive_expr", left, right, term("+", "+", 1))
	handleBinaryChain(a, n)
	require.True(t, a.failed())
}

// numExprBinaryOperand extracts the multiplicative_expr level from a full
// chain built by numExpr, for use as one side of a hand-built binary node.
func numExprBinaryOperand(full *parser.Tree) *parser.Tree {
	cur := full
	for cur.Symbol != "multiplicative_expr" {
		cur = cur.Children[0]
	}
	return cur
}

func TestJumpStmtRejectsBreakOutsideLoop(t *testing.T) {
	a := NewAnalyzer()
	n := nt("jump_stmt", term("break", "break", 1), term(";", ";", 1))
	handleJumpStmt(a, n)
	require.True(t, a.failed())
	assert.Contains(t, a.err.Reason, "loop")
}

func TestJumpStmtAllowsBreakInsideLoop(t *testing.T) {
	a := NewAnalyzer()
	a.loopDepth = 1
	n := nt("jump_stmt", term("break", "break", 1), term(";", ";", 1))
	handleJumpStmt(a, n)
	assert.False(t, a.failed())
}
