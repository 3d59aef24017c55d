package grammar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	modeNone = iota
	modeV
	modeT
	modeSyn
	modeProd
)

// Load parses config/parser_definition.txt: a %V (nonterminals), %T
// (terminals), and %Syn (synchronizing terminals) section — each a
// whitespace-separated symbol list that may wrap onto indented
// continuation lines — followed by production blocks. A production block
// starts with its LHS nonterminal alone on a column-0 line; each following
// indented line is one alternative RHS, with a lone "$" meaning epsilon
// (spec section 4.3).
//
// New code in the teacher's own section-header parsing idiom (see
// internal/lexspec/parser.go and internal/ictiobus/fishi.go's sectioned
// directive files); no single teacher file parses exactly this grammar
// format, since the teacher's own grammar.go was not present in the
// retrieved tree.
func Load(r io.Reader) (*Grammar, error) {
	g := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	mode := modeNone
	currentLHS := ""
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" || strings.HasPrefix(strings.TrimSpace(raw), "#") {
			continue
		}

		indented := len(raw) > 0 && (raw[0] == ' ' || raw[0] == '\t')

		if !indented {
			trimmed := strings.TrimSpace(raw)
			switch {
			case strings.HasPrefix(trimmed, "%V"):
				mode = modeV
				addSymbols(g, modeV, strings.Fields(trimmed[2:]))
			case strings.HasPrefix(trimmed, "%T"):
				mode = modeT
				addSymbols(g, modeT, strings.Fields(trimmed[2:]))
			case strings.HasPrefix(trimmed, "%Syn"):
				mode = modeSyn
				addSymbols(g, modeSyn, strings.Fields(trimmed[4:]))
			default:
				fields := strings.Fields(trimmed)
				if len(fields) != 1 {
					return nil, fmt.Errorf("grammar: line %d: expected a single LHS nonterminal, got %q", lineNo, raw)
				}
				mode = modeProd
				currentLHS = fields[0]
			}
			continue
		}

		fields := strings.Fields(raw)
		switch mode {
		case modeV, modeT, modeSyn:
			addSymbols(g, mode, fields)
		case modeProd:
			if currentLHS == "" {
				return nil, fmt.Errorf("grammar: line %d: RHS line with no preceding LHS", lineNo)
			}
			if len(fields) == 1 && fields[0] == "$" {
				g.AddRule(currentLHS, nil)
			} else {
				g.AddRule(currentLHS, fields)
			}
		default:
			return nil, fmt.Errorf("grammar: line %d: indented line before any section or production", lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("grammar: %w", err)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func addSymbols(g *Grammar, mode int, symbols []string) {
	for _, s := range symbols {
		switch mode {
		case modeV:
			g.AddNonTerm(s)
		case modeT:
			g.AddTerm(s)
		case modeSyn:
			g.AddSync(s)
		}
	}
}
