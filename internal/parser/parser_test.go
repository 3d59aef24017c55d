package parser

import (
	"testing"

	"github.com/KarloKnezevic/ppjc/internal/grammar"
	"github.com/KarloKnezevic/ppjc/internal/lrgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exprGrammar() (*grammar.Grammar, *grammar.Grammar, *lrgen.Table) {
	g := grammar.New()
	g.AddNonTerm("E")
	g.AddNonTerm("T")
	g.AddNonTerm("F")
	g.AddTerm("+")
	g.AddTerm("*")
	g.AddTerm("(")
	g.AddTerm(")")
	g.AddTerm("id")
	g.AddSync(";")
	g.AddRule("E", []string{"E", "+", "T"})
	g.AddRule("E", []string{"T"})
	g.AddRule("T", []string{"T", "*", "F"})
	g.AddRule("T", []string{"F"})
	g.AddRule("F", []string{"(", "E", ")"})
	g.AddRule("F", []string{"id"})

	aug := g.Augmented()
	table := lrgen.BuildTable(lrgen.BuildAutomaton(aug), nil)
	return g, aug, table
}

func tok(kind, lexeme string, line int) Input { return Input{Kind: kind, Lexeme: lexeme, Line: line} }

func TestParseBuildsDerivationTree(t *testing.T) {
	_, aug, table := exprGrammar()

	input := []Input{
		tok("id", "a", 1),
		tok("+", "+", 1),
		tok("id", "b", 1),
		tok("*", "*", 1),
		tok("id", "c", 1),
	}
	input = append(input, Input{Kind: lrgen.EndMarker})

	tree, errs := Parse(table, aug, input)
	require.Empty(t, errs)
	require.NotNil(t, tree)
	assert.Equal(t, "E", tree.Symbol)
	assert.False(t, tree.Terminal)
}

func TestCollapseRemovesSingleChildWrappers(t *testing.T) {
	_, aug, table := exprGrammar()

	input := []Input{tok("id", "x", 1), {Kind: lrgen.EndMarker}}
	tree, errs := Parse(table, aug, input)
	require.Empty(t, errs)

	ast := tree.Collapse(nil)
	// "id" alone derives E -> T -> F -> id; E and T each have a single
	// nonterminal child and give way to F, which keeps its terminal child.
	assert.False(t, ast.Terminal)
	assert.Equal(t, "F", ast.Symbol)
	require.Len(t, ast.Children, 1)
	assert.Equal(t, "id", ast.Children[0].Symbol)
}

func TestParseReportsSyntaxErrorOnBadInput(t *testing.T) {
	_, aug, table := exprGrammar()

	input := []Input{
		tok("id", "a", 1),
		tok("+", "+", 1),
		tok("+", "+", 1), // invalid: two operators in a row, no sync token follows
	}
	input = append(input, Input{Kind: lrgen.EndMarker})

	tree, errs := Parse(table, aug, input)
	require.NotEmpty(t, errs)
	assert.Nil(t, tree)
}

func TestRenderFormatsPreorderWithIndent(t *testing.T) {
	_, aug, table := exprGrammar()
	input := []Input{tok("id", "x", 3), {Kind: lrgen.EndMarker}}
	tree, errs := Parse(table, aug, input)
	require.Empty(t, errs)

	out := tree.Render()
	assert.Contains(t, out, "<E>")
	assert.Contains(t, out, "id 3 x")
}
