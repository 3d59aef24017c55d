// Package ccerrors defines the compiler's error taxonomy. Every diagnostic
// the pipeline can produce is one of a small number of tagged error kinds,
// each of which knows how to render itself in the exact canonical wire
// format the driver writes to stdout or stderr, so that formatting logic
// lives in one place instead of at every call site.
package ccerrors

import "fmt"

// Diagnostic is implemented by every error kind in this package. Diagnostic
// renders the canonical, user-facing single-line (or single-block) message
// for the error, separate from Error(), which remains a technical message
// suitable for wrapping and %w chains.
type Diagnostic interface {
	error
	Diagnostic() string
}

// Lexical errors.

// LexicalKind distinguishes the two lexical failure modes named in spec
// section 7.
type LexicalKind int

const (
	// Unrecognized indicates no DFA transition exists from the start state
	// for the current input character.
	Unrecognized LexicalKind = iota
	// UnterminatedString indicates a string literal was opened but no
	// accepting match was found before a newline or end of input.
	UnterminatedString
)

// LexicalError is a locally-recovered lexical diagnostic: the lexer reports
// it and continues scanning per spec section 4.2's failure modes.
type LexicalError struct {
	Kind   LexicalKind
	Line   int
	Column int
	Text   string // offending character, or empty for UnterminatedString
}

func (e *LexicalError) Error() string {
	switch e.Kind {
	case UnterminatedString:
		return fmt.Sprintf("lexical error at line %d: unterminated string literal", e.Line)
	default:
		return fmt.Sprintf("lexical error at line %d, column %d: unrecognized character %q", e.Line, e.Column, e.Text)
	}
}

// Diagnostic renders the single line a driver should print to stderr.
func (e *LexicalError) Diagnostic() string {
	return e.Error()
}

// SyntaxError reports one unexpected token seen by the parser. One is
// recorded for every parse error, whether or not panic-mode recovery then
// finds a synchronization point; when recovery fails the compile
// terminates.
type SyntaxError struct {
	Line     int
	Got      string // lexeme or token kind of the offending token
	Expected []string
}

func (e *SyntaxError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("syntax error at line %d: unexpected token %q", e.Line, e.Got)
	}
	return fmt.Sprintf("syntax error at line %d: unexpected token %q (expected one of %v)", e.Line, e.Got, e.Expected)
}

// Diagnostic renders the single line a driver should print to stderr.
func (e *SyntaxError) Diagnostic() string {
	return e.Error()
}

// SemanticError carries the offending production in the canonical form
// mandated by spec section 4.6: "<lhs> ::= sym1 sym2 ...", one symbol per
// grammar symbol, followed conceptually by a blank line (added by the
// driver when it prints Diagnostic()).
type SemanticError struct {
	// Production is the already-rendered "<lhs> ::= sym1 sym2 ..." line.
	Production string
	// Reason is not part of the canonical wire format but is kept for
	// %w-wrapped technical error messages and logs.
	Reason string
}

func (e *SemanticError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("semantic error: %s (%s)", e.Production, e.Reason)
	}
	return fmt.Sprintf("semantic error: %s", e.Production)
}

// Diagnostic renders the canonical production line. The driver is
// responsible for appending the mandated trailing blank line.
func (e *SemanticError) Diagnostic() string {
	return e.Production
}

// IOError wraps a filesystem failure (reading a source/config file, writing
// an output artifact) so driver code has one error type to check for
// regardless of which syscall failed underneath.
type IOError struct {
	Op   string // e.g. "read source", "write leksicke_jedinke.txt"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

// Diagnostic renders the single line a driver should print to stderr.
func (e *IOError) Diagnostic() string {
	return fmt.Sprintf("ERROR: %s", e.Error())
}

func (e *IOError) Unwrap() error {
	return e.Err
}
