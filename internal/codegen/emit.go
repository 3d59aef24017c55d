package codegen

import "fmt"

// Emission follows the layout spec section 4.7 describes: instructions
// indent by a tab, labels sit at column 0, immediates carry FRISC's literal
// "%D" decimal marker.

func (g *Generator) label(name string) {
	g.sb.WriteString(name)
	g.sb.WriteString(":\n")
}

func (g *Generator) instr0(op string) {
	fmt.Fprintf(&g.sb, "\t%s\n", op)
}

func (g *Generator) instr1(op, a string) {
	fmt.Fprintf(&g.sb, "\t%s %s\n", op, a)
}

func (g *Generator) instr2(op, a, b string) {
	fmt.Fprintf(&g.sb, "\t%s %s, %s\n", op, a, b)
}

func (g *Generator) instr3(op, a, b, c string) {
	fmt.Fprintf(&g.sb, "\t%s %s, %s, %s\n", op, a, b, c)
}

func (g *Generator) emitDataLine(label string, value int) {
	if label != "" {
		fmt.Fprintf(&g.sb, "%s: DW %s\n", label, immediate(value))
		return
	}
	fmt.Fprintf(&g.sb, "\tDW %s\n", immediate(value))
}

func immediate(n int) string {
	return fmt.Sprintf("%%D %d", n)
}

func addrOperand(base string, byteOffset int) string {
	if byteOffset == 0 {
		return fmt.Sprintf("(%s)", base)
	}
	return fmt.Sprintf("(%s+%d)", base, byteOffset)
}

// newLabel allocates the next label in category (spec section 4.7's
// L_IF/L_LOOP/L_SC families), monotonic and unique program-wide.
func (g *Generator) newLabel(category string) string {
	g.counters[category]++
	return fmt.Sprintf("%s_%d", category, g.counters[category])
}

func (g *Generator) storeRegToSlot(slotIdx int, reg string) {
	g.instr2("STORE", reg, addrOperand("R7", 4*slotIdx))
}

func (g *Generator) storeImmediateToSlot(slotIdx, value int) {
	g.instr2("MOVE", immediate(value), "R0")
	g.storeRegToSlot(slotIdx, "R0")
}

func padTo(vals []int, words int) []int {
	out := make([]int, words)
	copy(out, vals)
	return out
}
