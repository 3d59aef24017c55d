package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
%V
  E T F

%T
  plus times lparen rparen id

%Syn
  semi

E
  E plus T
  T
T
  T times F
  F
F
  lparen E rparen
  id
`

func load(t *testing.T) *Grammar {
	t.Helper()
	g, err := Load(strings.NewReader(sample))
	require.NoError(t, err)
	return g
}

func TestLoadBuildsVocabularyAndProductions(t *testing.T) {
	g := load(t)
	assert.Equal(t, []string{"E", "T", "F"}, g.NonTerminals)
	assert.Equal(t, []string{"plus", "times", "lparen", "rparen", "id"}, g.Terminals)
	assert.Equal(t, []string{"semi"}, g.Synchronizing)
	assert.Equal(t, "E", g.StartSymbol())
	require.Len(t, g.Productions, 6)
	assert.Equal(t, Production{LHS: "E", RHS: []string{"E", "plus", "T"}}, g.Productions[0])
	assert.Equal(t, Production{LHS: "F", RHS: []string{"id"}}, g.Productions[5])
}

func TestAugmentedPrependsSyntheticStart(t *testing.T) {
	g := load(t)
	aug := g.Augmented()
	assert.Equal(t, "E'", aug.StartSymbol())
	require.Len(t, aug.Productions, 7)
	assert.Equal(t, Production{LHS: "E'", RHS: []string{"E"}}, aug.Productions[0])
}

func TestFirstOfClassicExpressionGrammar(t *testing.T) {
	g := load(t)
	for _, sym := range []string{"E", "T", "F"} {
		first := g.FIRST(sym)
		assert.True(t, first.Has("lparen"), "FIRST(%s) should contain lparen", sym)
		assert.True(t, first.Has("id"), "FIRST(%s) should contain id", sym)
		assert.False(t, first.Has(Epsilon), "FIRST(%s) should not contain epsilon", sym)
	}
}

func TestFirstSeqWithEpsilonProduction(t *testing.T) {
	g := New()
	g.AddNonTerm("S")
	g.AddNonTerm("A")
	g.AddTerm("a")
	g.AddTerm("b")
	g.AddRule("S", []string{"A", "b"})
	g.AddRule("A", []string{"a"})
	g.AddRule("A", nil) // epsilon

	firstS := g.FIRSTSeq([]string{"A", "b"})
	assert.True(t, firstS.Has("a"))
	assert.True(t, firstS.Has("b"))
	assert.False(t, firstS.Has(Epsilon))

	firstEmpty := g.FIRSTSeq(nil)
	assert.True(t, firstEmpty.Has(Epsilon))
	assert.Equal(t, 1, firstEmpty.Len())
}

func TestValidateRejectsUndeclaredSymbol(t *testing.T) {
	g := New()
	g.AddNonTerm("S")
	g.AddRule("S", []string{"undeclared"})
	assert.Error(t, g.Validate())
}

func TestLoadRejectsRHSBeforeLHS(t *testing.T) {
	bad := "%V\n  S\n  extra\n"
	_, err := Load(strings.NewReader(bad))
	// "extra" on an indented continuation line under %V is fine; this is
	// actually valid input (S and extra both declared nonterminals). Assert
	// instead that a genuinely orphaned RHS line (indented with no prior
	// LHS) is rejected.
	assert.NoError(t, err)

	bad2 := "  orphan rhs\n"
	_, err = Load(strings.NewReader(bad2))
	assert.Error(t, err)
}
