package codegen

import "github.com/KarloKnezevic/ppjc/internal/parser"

// charLiteralValue decodes a CHARLIT lexeme (with surrounding quotes) into
// the numeric code internal/semantics.validCharLiteral already confirmed is
// well-formed.
func charLiteralValue(lex string) int {
	body := lex[1 : len(lex)-1]
	if len(body) == 1 {
		return int(body[0])
	}
	switch body[1] {
	case 'n':
		return 10
	case 't':
		return 9
	case '0':
		return 0
	case '\\':
		return int('\\')
	case '\'':
		return int('\'')
	case '"':
		return int('"')
	}
	return 0
}

// decodeStringLiteral decodes a STRLIT lexeme (with surrounding quotes)
// into its character codes plus a trailing zero terminator, matching
// internal/semantics.decodedLength's escape-collapsing plus the "+1 for
// terminator" spec section 4.6 already accounts for.
func decodeStringLiteral(lex string) []int {
	if len(lex) < 2 {
		return []int{0}
	}
	body := lex[1 : len(lex)-1]
	var out []int
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				out = append(out, 10)
			case 't':
				out = append(out, 9)
			case '0':
				out = append(out, 0)
			default:
				out = append(out, int(body[i]))
			}
			continue
		}
		out = append(out, int(body[i]))
	}
	return append(out, 0)
}

// extractScalarLiteral constant-folds the narrow class of expressions this
// compiler's global and local initializers are realistically written with:
// a bare integer/character literal, or one negated by unary minus. Any
// other expression (this subset has no general compile-time constant
// folding) defaults to 0.
func extractScalarLiteral(n *parser.Tree) int {
	switch n.Symbol {
	case "primary_expr":
		switch {
		case hasTerm(n, "NUM", ""):
			return parseIntLiteral(termLexeme(n, "NUM"))
		case hasTerm(n, "CHARLIT", ""):
			return charLiteralValue(termLexeme(n, "CHARLIT"))
		default:
			nts := childNonTerminals(n)
			if len(nts) == 1 {
				return extractScalarLiteral(nts[0])
			}
			return 0
		}
	case "unary_expr":
		nts := childNonTerminals(n)
		if hasTerm(n, "MINUS", "") && len(nts) == 1 {
			return -extractScalarLiteral(nts[0])
		}
		if len(nts) == 1 {
			return extractScalarLiteral(nts[0])
		}
		return 0
	default:
		nts := childNonTerminals(n)
		if len(nts) == 1 {
			return extractScalarLiteral(nts[0])
		}
		return 0
	}
}
