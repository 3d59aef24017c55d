package lrgen

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/rosed"
)

// Dump renders the ACTION/GOTO table as a bordered text table, one row per
// state and one column per terminal then per nonterminal, in the same
// shape the teacher's canonicalLR1Table.String() produces via
// rosed.InsertTableOpts.
func Dump(t *Table) string {
	aug := t.Grammar
	terms := append([]string{}, aug.Terminals...)
	terms = append(terms, EndMarker)
	nts := aug.NonTerminals

	header := []string{"state"}
	header = append(header, terms...)
	header = append(header, "|")
	header = append(header, nts...)

	data := [][]string{header}
	for state := 0; state < t.NumStates; state++ {
		row := []string{strconv.Itoa(state)}
		for _, term := range terms {
			row = append(row, cellFor(t.Action[state][term]))
		}
		row = append(row, "|")
		for _, nt := range nts {
			cell := ""
			if target, ok := t.Goto[state][nt]; ok {
				cell = strconv.Itoa(target)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func cellFor(a Action) string {
	switch a.Kind {
	case ActionShift:
		return fmt.Sprintf("s%d", a.Target)
	case ActionReduce:
		return fmt.Sprintf("r%d", a.Target)
	case ActionAccept:
		return "acc"
	default:
		return ""
	}
}
