package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildAB builds an NFA accepting "ab" via two epsilon-joined single-symbol
// fragments, mirroring the shape of internal/regex's concatenation.
func buildAB() NFA[string] {
	var nfa NFA[string]
	nfa.AddState("s0", false)
	nfa.AddState("s1", false)
	nfa.AddState("s2", false)
	nfa.AddState("s3", true)
	nfa.Start = "s0"
	nfa.AddTransition("s0", "a", "s1")
	nfa.AddTransition("s1", Epsilon, "s2")
	nfa.AddTransition("s2", "b", "s3")
	return nfa
}

func TestEpsilonClosure(t *testing.T) {
	nfa := buildAB()
	closure := nfa.EpsilonClosure("s1")
	assert.True(t, closure.Has("s1"))
	assert.True(t, closure.Has("s2"))
	assert.False(t, closure.Has("s3"))
}

func TestToDFA_AcceptsExactString(t *testing.T) {
	nfa := buildAB()
	dfa := nfa.ToDFA()

	require := assert.New(t)
	require.NoError(dfa.Validate())

	cur := dfa.Start
	for _, r := range "ab" {
		cur = dfa.Next(cur, string(r))
		require.NotEmpty(cur, "expected a transition to exist")
	}
	require.True(dfa.IsAccepting(cur))

	// a non-matching string should not end in an accepting state (or
	// should simply have no transition at all).
	cur2 := dfa.Next(dfa.Start, "b")
	require.Empty(cur2)
}

func TestDFAValidate_DetectsDanglingTransition(t *testing.T) {
	var dfa DFA[string]
	dfa.AddState("s0", true)
	dfa.Start = "s0"
	dfa.states["s0"].transitions["x"] = "ghost"

	assert.Error(t, dfa.Validate())
}
