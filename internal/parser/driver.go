package parser

import (
	"github.com/KarloKnezevic/ppjc/internal/ccerrors"
	"github.com/KarloKnezevic/ppjc/internal/grammar"
	"github.com/KarloKnezevic/ppjc/internal/lexer"
	"github.com/KarloKnezevic/ppjc/internal/lrgen"
)

// Input is one token handed to the driver: a terminal kind, its matched
// text, and the source line it came from. ToInput adapts a lexer.Token
// slice to this shape and appends the synthetic end marker.
type Input struct {
	Kind   string
	Lexeme string
	Line   int
}

// ToInput converts scanned tokens into driver input, appending
// lrgen.EndMarker (spec section 4.5: "input is the token stream appended
// with a synthetic end marker").
func ToInput(tokens []lexer.Token) []Input {
	out := make([]Input, 0, len(tokens)+1)
	for _, t := range tokens {
		out = append(out, Input{Kind: t.Kind, Lexeme: t.Lexeme, Line: t.Line})
	}
	out = append(out, Input{Kind: lrgen.EndMarker})
	return out
}

// Parse drives table over tokens (already ToInput-adapted) with the
// two-stack shift/reduce algorithm, performing panic-mode recovery on
// error using aug's %Syn set and GOTO table. It returns the full
// derivation tree (rooted at the original grammar's start symbol — the
// synthetic S' production is never itself reduced, only used to derive
// the Accept lookahead) and every syntax error encountered; a nil tree
// means recovery could not resynchronize and the
// compile must terminate (spec section 4.5's "if recovery cannot succeed,
// terminate with a parse error").
func Parse(table *lrgen.Table, aug *grammar.Grammar, tokens []Input) (*Tree, []*ccerrors.SyntaxError) {
	var errs []*ccerrors.SyntaxError

	stateStack := []int{0}
	nodeStack := []*Tree{}
	pos := 0

	for {
		state := stateStack[len(stateStack)-1]
		tok := tokens[pos]

		action, ok := table.Action[state][tok.Kind]
		if !ok {
			errs = append(errs, &ccerrors.SyntaxError{Line: tok.Line, Got: describeToken(tok), Expected: expectedAt(table, state)})

			newPos, recovered := recover(table, aug, &stateStack, &nodeStack, tokens, pos)
			if !recovered {
				return nil, errs
			}
			pos = newPos
			continue
		}

		switch action.Kind {
		case lrgen.ActionShift:
			stateStack = append(stateStack, action.Target)
			nodeStack = append(nodeStack, newTerminal(tok.Kind, tok.Lexeme, tok.Line))
			pos++

		case lrgen.ActionReduce:
			prod := aug.Productions[action.Target]
			n := len(prod.RHS)

			var children []*Tree
			if n > 0 {
				children = append(children, nodeStack[len(nodeStack)-n:]...)
				stateStack = stateStack[:len(stateStack)-n]
				nodeStack = nodeStack[:len(nodeStack)-n]
			}

			top := stateStack[len(stateStack)-1]
			target, ok := table.Goto[top][prod.LHS]
			if !ok {
				// an internal-invariant failure: a reduce action whose
				// resulting GOTO doesn't exist means the table itself is
				// inconsistent, which a correctly built table never is.
				errs = append(errs, &ccerrors.SyntaxError{Line: tok.Line, Got: describeToken(tok)})
				return nil, errs
			}
			stateStack = append(stateStack, target)
			nodeStack = append(nodeStack, newNonTerminal(prod.LHS, children))

		case lrgen.ActionAccept:
			if len(nodeStack) != 1 {
				return nil, append(errs, &ccerrors.SyntaxError{Line: tok.Line, Got: "accept with malformed stack"})
			}
			return nodeStack[0], errs
		}
	}
}

func describeToken(tok Input) string {
	if tok.Lexeme != "" {
		return tok.Lexeme
	}
	return tok.Kind
}

func expectedAt(table *lrgen.Table, state int) []string {
	var out []string
	for sym := range table.Action[state] {
		out = append(out, sym)
	}
	return out
}

// recover implements spec section 4.5's panic-mode recovery: discard
// input until a %Syn terminal appears (reaching the end marker first means
// recovery fails), then pop the state stack until some ancestor state has
// a valid GOTO on some declared nonterminal, synthesizing an error node in
// its place and resuming from there. Returns the resumed input position
// and whether recovery succeeded.
func recover(table *lrgen.Table, aug *grammar.Grammar, stateStack *[]int, nodeStack *[]*Tree, tokens []Input, pos int) (int, bool) {
	for pos < len(tokens)-1 && !aug.IsSync(tokens[pos].Kind) {
		pos++
	}
	if !aug.IsSync(tokens[pos].Kind) {
		return pos, false
	}

	for len(*stateStack) > 0 {
		top := (*stateStack)[len(*stateStack)-1]
		for _, nt := range aug.NonTerminals {
			if nt == aug.StartSymbol() {
				continue // never resynchronize on the synthetic start symbol
			}
			if target, ok := table.Goto[top][nt]; ok {
				*stateStack = append(*stateStack, target)
				*nodeStack = append(*nodeStack, newNonTerminal(nt, []*Tree{{Terminal: true, Symbol: "ERROR", Line: tokens[pos].Line}}))
				return pos, true
			}
		}
		*stateStack = (*stateStack)[:len(*stateStack)-1]
		if len(*nodeStack) > 0 {
			*nodeStack = (*nodeStack)[:len(*nodeStack)-1]
		}
	}

	return pos, false
}
