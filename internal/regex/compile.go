package regex

import (
	"fmt"

	"github.com/KarloKnezevic/ppjc/internal/automaton"
)

// stateGen hands out unique state names for one NFA construction. The
// teacher's lex/regex.go named states "A"/"B" per fragment, which collides
// the moment two fragments are joined (its createJuxtapositionFA/
// createKleeneStarFA/createAlternationFA panic on nil NFA pointers as a
// result of that very problem); this generator sidesteps it within one
// construction by never repeating a name. A new stateGen starts at q1 for
// each Compile call, so names are not unique across separate calls.
type stateGen struct{ n int }

func (g *stateGen) next() string {
	g.n++
	return fmt.Sprintf("q%d", g.n)
}

// fragment is an NFA with exactly one start and one accept state, the
// invariant Thompson's construction maintains at every step (spec 4.1: "an
// NFA with a single start and a single accept state per subexpression").
type fragment struct {
	nfa    automaton.NFA[struct{}]
	start  string
	accept string
}

// Compile runs Thompson's construction (McNaughton-Yamada-Thompson) over
// the parsed AST, producing a single-start, single-accept NFA fragment. The
// symbol alphabet is single-rune strings, matching automaton.NFA's string
// transition labels.
func Compile(n *node) automaton.NFA[struct{}] {
	g := &stateGen{}
	f := compileNode(n, g)
	return f.nfa
}

// CompilePattern parses and compiles pattern text (already macro-expanded)
// in one step.
func CompilePattern(pattern string) (automaton.NFA[struct{}], error) {
	ast, err := Parse(pattern)
	if err != nil {
		return automaton.NFA[struct{}]{}, err
	}
	return Compile(ast), nil
}

func compileNode(n *node, g *stateGen) fragment {
	switch n.kind {
	case nodeLiteral:
		return compileSymbol(string(n.literal), g)
	case nodeEpsilon:
		return compileSymbol(automaton.Epsilon, g)
	case nodeConcat:
		return compileConcat(compileNode(n.children[0], g), compileNode(n.children[1], g), g)
	case nodeAlternate:
		return compileAlternate(compileNode(n.children[0], g), compileNode(n.children[1], g), g)
	case nodeStar:
		return compileStar(compileNode(n.children[0], g), g)
	default:
		panic("regex: unhandled node kind in Compile")
	}
}

// demote clears the accepting flag of state in nfa.
func demote(nfa *automaton.NFA[struct{}], state string) {
	nfa.SetAccepting(state, false)
}

// compileSymbol builds the base case: for any subexpression r in the
// alphabet (or epsilon), a two-state fragment with one transition.
func compileSymbol(symbol string, g *stateGen) fragment {
	var nfa automaton.NFA[struct{}]
	start, accept := g.next(), g.next()
	nfa.AddState(start, false)
	nfa.AddState(accept, true)
	nfa.Start = start
	nfa.AddTransition(start, symbol, accept)
	return fragment{nfa: nfa, start: start, accept: accept}
}

// compileConcat builds the juxtaposition case st: join left's accept to
// right's start with an epsilon move, and the result's accept is right's.
func compileConcat(left, right fragment, g *stateGen) fragment {
	merged := mergeFragments(left, right)
	merged.AddTransition(left.accept, automaton.Epsilon, right.start)
	merged.Start = left.start
	return fragment{nfa: merged, start: left.start, accept: right.accept}
}

// compileAlternate builds the s|t case: a new start epsilon-branches to
// both operands' starts, both operands' accepts epsilon-join to a new
// shared accept.
func compileAlternate(left, right fragment, g *stateGen) fragment {
	merged := mergeFragments(left, right)
	start, accept := g.next(), g.next()
	merged.AddState(start, false)
	merged.AddState(accept, true)
	merged.AddTransition(start, automaton.Epsilon, left.start)
	merged.AddTransition(start, automaton.Epsilon, right.start)
	merged.AddTransition(left.accept, automaton.Epsilon, accept)
	merged.AddTransition(right.accept, automaton.Epsilon, accept)
	merged.Start = start

	// the old accept states are no longer accepting; only the new shared
	// accept state is.
	demote(&merged, left.accept)
	demote(&merged, right.accept)

	return fragment{nfa: merged, start: start, accept: accept}
}

// compileStar builds the Kleene closure case: a new start/accept pair
// epsilon-bypasses the inner expression (zero repetitions) and epsilon-loops
// its accept back to its start (further repetitions).
func compileStar(inner fragment, g *stateGen) fragment {
	nfa := inner.nfa.Copy()
	start, accept := g.next(), g.next()
	nfa.AddState(start, false)
	nfa.AddState(accept, true)
	nfa.AddTransition(start, automaton.Epsilon, inner.start)
	nfa.AddTransition(start, automaton.Epsilon, accept)
	nfa.AddTransition(inner.accept, automaton.Epsilon, inner.start)
	nfa.AddTransition(inner.accept, automaton.Epsilon, accept)
	nfa.Start = start

	demote(&nfa, inner.accept)

	return fragment{nfa: nfa, start: start, accept: accept}
}

// mergeFragments combines two fragments' states into one NFA so that
// cross-fragment transitions can be added. States are guaranteed disjoint
// because stateGen never repeats a name.
func mergeFragments(a, b fragment) automaton.NFA[struct{}] {
	var merged automaton.NFA[struct{}]
	for _, nfa := range []automaton.NFA[struct{}]{a.nfa, b.nfa} {
		for _, name := range nfa.States().Elements() {
			merged.AddState(name, nfa.IsAccepting(name))
		}
		for _, t := range nfa.Transitions() {
			merged.AddTransition(t.From, t.Input, t.To)
		}
	}
	return merged
}
