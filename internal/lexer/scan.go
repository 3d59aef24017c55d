package lexer

import (
	"fmt"

	"github.com/KarloKnezevic/ppjc/internal/ccerrors"
	"github.com/KarloKnezevic/ppjc/internal/lexspec"
)

// Token is one scanned lexical unit: a declared kind, its matched text,
// and the source line it started on.
type Token struct {
	Kind   string
	Lexeme string
	Line   int
}

// Scanner drives a compiled Table over source runes with maximal munch:
// from the current lexer state's DFA, it walks forward recording the
// position of the last accepting state seen, then backtracks to that
// position and runs the winning rule's actions (spec section 4.2, steps
// 1-4).
type Scanner struct {
	table   *Table
	runes   []rune
	pos     int
	line    int
	state   string
	symbols *SymbolTable
}

// NewScanner builds a scanner over src starting in the table's declared
// start state.
func NewScanner(table *Table, src string) *Scanner {
	return &Scanner{
		table:   table,
		runes:   []rune(src),
		pos:     0,
		line:    1,
		state:   table.spec.StartState,
		symbols: NewSymbolTable(),
	}
}

// Symbols returns the symbol table tokens have been interned into as Next
// has been called.
func (s *Scanner) Symbols() *SymbolTable { return s.symbols }

// Next returns the next emitted token. At end of input it returns (nil,
// nil). Text matched by non-emitting rules while the lexer is outside its
// start state is carried into the next emitted token, so a construct
// scanned through several rules (a string literal) becomes one token,
// reported on the line where it began. A *ccerrors.LexicalError is
// returned for the two recovery modes spec section 4.2 names: Unrecognized
// (no rule in the current state matches even one character; the offending
// character is skipped so scanning can continue) and UnterminatedString (a
// newline no rule of the current state accepts, or the end of input, is
// reached while the lexer is in a non-start state, i.e. mid-construct; the
// newline is consumed and the start state restored).
func (s *Scanner) Next() (*Token, error) {
	var pending []rune
	pendingLine := 0
	for {
		if s.pos >= len(s.runes) {
			if s.state != s.table.spec.StartState {
				line := s.line
				// Restore the start state (spec section 4.2's "restore the
				// start state" half of unterminated-string recovery) so the
				// next call to Next sees a clean end of input instead of
				// reporting the same error forever.
				s.state = s.table.spec.StartState
				return nil, &ccerrors.LexicalError{Kind: ccerrors.UnterminatedString, Line: line, Column: s.pos}
			}
			return nil, nil
		}

		cs, ok := s.table.states[s.state]
		if !ok {
			return nil, fmt.Errorf("lexer: no compiled DFA for state %q", s.state)
		}

		startLine := s.line
		startPos := s.pos

		cur := cs.dfa.Start
		lastAcceptPos := -1
		var lastRule lexspec.Rule

		i := s.pos
		for i < len(s.runes) {
			next := cs.dfa.Next(cur, string(s.runes[i]))
			if next == "" {
				break
			}
			cur = next
			i++
			if rule, ok := cs.accept[cur]; ok {
				lastAcceptPos = i
				lastRule = rule
			}
		}

		if lastAcceptPos == -1 {
			bad := s.runes[startPos]
			s.pos = startPos + 1
			if bad == '\n' && s.state != s.table.spec.StartState {
				s.state = s.table.spec.StartState
				s.line++
				return nil, &ccerrors.LexicalError{Kind: ccerrors.UnterminatedString, Line: startLine, Column: startPos}
			}
			return nil, &ccerrors.LexicalError{Kind: ccerrors.Unrecognized, Line: startLine, Column: startPos, Text: string(bad)}
		}

		lexemeRunes := append([]rune{}, s.runes[startPos:lastAcceptPos]...)
		s.pos = lastAcceptPos

		putBack := -1
		emit := lastRule.Token != ""
		skip := false
		for _, a := range lastRule.Actions {
			switch a.Kind {
			case lexspec.ActionEnterState:
				s.state = a.State
			case lexspec.ActionPutBack:
				putBack = a.N
			case lexspec.ActionNewLine:
				s.line++
			case lexspec.ActionSkip:
				skip = true
			}
		}
		if putBack >= 0 {
			// the token keeps the first putBack characters; the rest of
			// the match goes back to the input.
			if putBack > len(lexemeRunes) {
				putBack = len(lexemeRunes)
			}
			s.pos = startPos + putBack
			lexemeRunes = lexemeRunes[:putBack]
			if putBack == 0 {
				emit = false
			}
		}

		if skip || !emit {
			if s.state != s.table.spec.StartState {
				if len(pending) == 0 {
					pendingLine = startLine
				}
				pending = append(pending, lexemeRunes...)
			} else {
				pending = nil
			}
			continue
		}

		line := startLine
		if len(pending) > 0 {
			line = pendingLine
		}
		lexeme := string(append(pending, lexemeRunes...))
		s.symbols.Intern(lastRule.Token, lexeme)
		return &Token{Kind: lastRule.Token, Lexeme: lexeme, Line: line}, nil
	}
}

// ScanAll drains the scanner to completion. Next already recovers locally
// from both lexical failure modes (discard one character on Unrecognized,
// resync to the start state on UnterminatedString), so scanning keeps
// going past an error instead of abandoning the rest of the source — spec
// section 4.2's "discard ... continue" and section 7's "tokenization
// continues". Per section 7's "no multi-error batching" only the first
// error encountered is returned, alongside the complete token stream and
// symbol table built despite it.
func ScanAll(table *Table, src string) ([]Token, *SymbolTable, error) {
	s := NewScanner(table, src)
	var out []Token
	var firstErr error
	for {
		tok, err := s.Next()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if tok == nil {
			return out, s.Symbols(), firstErr
		}
		out = append(out, *tok)
	}
}
