package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matches(t *testing.T, pattern, input string) bool {
	t.Helper()
	nfa, err := CompilePattern(pattern)
	require.NoError(t, err)
	dfa := nfa.ToDFA()

	cur := dfa.Start
	for _, r := range input {
		cur = dfa.Next(cur, string(r))
		if cur == "" {
			return false
		}
	}
	return dfa.IsAccepting(cur)
}

func TestLiteralConcat(t *testing.T) {
	assert.True(t, matches(t, "ab", "ab"))
	assert.False(t, matches(t, "ab", "a"))
	assert.False(t, matches(t, "ab", "abc"))
}

func TestAlternation(t *testing.T) {
	assert.True(t, matches(t, "a|b", "a"))
	assert.True(t, matches(t, "a|b", "b"))
	assert.False(t, matches(t, "a|b", "c"))
}

func TestKleeneStar(t *testing.T) {
	assert.True(t, matches(t, "a*", ""))
	assert.True(t, matches(t, "a*", "aaaa"))
	assert.False(t, matches(t, "a*", "aab"))
}

func TestGroupingAndPrecedence(t *testing.T) {
	// (a|b)c should match ac and bc but not abc
	assert.True(t, matches(t, "(a|b)c", "ac"))
	assert.True(t, matches(t, "(a|b)c", "bc"))
	assert.False(t, matches(t, "(a|b)c", "abc"))
}

func TestEpsilonLiteral(t *testing.T) {
	assert.True(t, matches(t, "$", ""))
	assert.False(t, matches(t, "$", "a"))
}

func TestEscapes(t *testing.T) {
	assert.True(t, matches(t, `\n`, "\n"))
	assert.True(t, matches(t, `\t`, "\t"))
	assert.True(t, matches(t, `\_`, " "))
	assert.True(t, matches(t, `\\`, `\`))
	assert.True(t, matches(t, `\"`, `"`))
	assert.True(t, matches(t, `\*`, "*"))
}

func TestComplexIdentifierLikePattern(t *testing.T) {
	// (a|b)(a|b)*
	pattern := "(a|b)(a|b)*"
	assert.True(t, matches(t, pattern, "a"))
	assert.True(t, matches(t, pattern, "abba"))
	assert.False(t, matches(t, pattern, ""))
}

func TestCharacterClass(t *testing.T) {
	assert.True(t, matches(t, "[a-c]", "a"))
	assert.True(t, matches(t, "[a-c]", "b"))
	assert.True(t, matches(t, "[a-c]", "c"))
	assert.False(t, matches(t, "[a-c]", "d"))
	assert.True(t, matches(t, "[0-9][0-9]*", "1234"))
	assert.False(t, matches(t, "[0-9][0-9]*", ""))
}

func TestCharacterClassRejectsEmpty(t *testing.T) {
	_, err := CompilePattern("[]")
	assert.Error(t, err)
}

func TestExpandMacro(t *testing.T) {
	macros := map[string]string{
		"digit": "0|1|2|3|4|5|6|7|8|9",
	}
	out, err := Expand("{digit}{digit}*", macros)
	require.NoError(t, err)
	assert.Equal(t, "(0|1|2|3|4|5|6|7|8|9)(0|1|2|3|4|5|6|7|8|9)*", out)

	nfa, err := CompilePattern(out)
	require.NoError(t, err)
	dfa := nfa.ToDFA()
	cur := dfa.Start
	for _, r := range "123" {
		cur = dfa.Next(cur, string(r))
		require.NotEmpty(t, cur)
	}
	assert.True(t, dfa.IsAccepting(cur))
}

func TestExpandDetectsCycle(t *testing.T) {
	macros := map[string]string{
		"a": "{b}",
		"b": "{a}",
	}
	_, err := Expand("{a}", macros)
	assert.Error(t, err)
}

func TestExpandUndefinedMacro(t *testing.T) {
	_, err := Expand("{nope}", map[string]string{})
	assert.Error(t, err)
}
