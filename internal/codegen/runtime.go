package codegen

// emitRuntimeHelpers emits the software multiply/divide/modulo routines
// FRISC needs since it has no native MUL/DIV (spec section 4.7: "software
// mul/div/mod via add/subtract loops"). They're always emitted, which
// keeps codegen's output independent of whether a given program happens to
// use *, / or % (spec section 8's determinism property). Their labels
// start with a digit right after the F_ prefix, which no user function
// label can ever collide with: every source identifier starts with a
// letter (config/lexer_definition.txt's {ime} macro), so every user
// function label is F_ followed by a letter.
func (g *Generator) emitRuntimeHelpers() {
	g.emitSoftwareMul()
	g.emitSoftwareDivMod()
}

// emitSoftwareMul computes R0 = R0*R1 by repeated addition over absolute
// values, restoring the sign (xor of the two operand signs) at the end.
func (g *Generator) emitSoftwareMul() {
	g.label("F_0_MUL")
	g.instr2("MOVE", "R0", "R2")
	g.instr2("MOVE", "R1", "R3")
	g.instr2("MOVE", immediate(0), "R4")

	g.instr2("CMP", "R2", immediate(0))
	g.instr1("JP_SGE", "F_0_MUL_A_OK")
	g.instr3("SUB", immediate(0), "R2", "R2")
	g.instr3("XOR", "R4", immediate(1), "R4")
	g.label("F_0_MUL_A_OK")

	g.instr2("CMP", "R3", immediate(0))
	g.instr1("JP_SGE", "F_0_MUL_B_OK")
	g.instr3("SUB", immediate(0), "R3", "R3")
	g.instr3("XOR", "R4", immediate(1), "R4")
	g.label("F_0_MUL_B_OK")

	g.instr2("MOVE", immediate(0), "R0")
	g.label("F_0_MUL_LOOP")
	g.instr2("CMP", "R3", immediate(0))
	g.instr1("JP_EQ", "F_0_MUL_SIGN")
	g.instr3("ADD", "R0", "R2", "R0")
	g.instr3("SUB", "R3", immediate(1), "R3")
	g.instr1("JP", "F_0_MUL_LOOP")

	g.label("F_0_MUL_SIGN")
	g.instr2("CMP", "R4", immediate(0))
	g.instr1("JP_EQ", "F_0_MUL_DONE")
	g.instr3("SUB", immediate(0), "R0", "R0")
	g.label("F_0_MUL_DONE")
	g.instr0("RET")
}

// emitSoftwareDivMod emits F_0_DIV and F_0_MOD (each computing R0 = R0
// divided-by/modulo R1, wrapping the shared F_0_DIVMOD routine), and
// F_0_DIVMOD itself: repeated subtraction over absolute values, quotient
// sign from the xor of the operand signs, remainder sign following the
// dividend (truncating division, matching C's integer / and %). Division
// by zero takes the safe exit spec section 4.7 requires: R5 (quotient) and
// R2 (remainder) both come back 0 without trapping.
func (g *Generator) emitSoftwareDivMod() {
	g.label("F_0_DIV")
	g.instr1("CALL", "F_0_DIVMOD")
	g.instr2("MOVE", "R5", "R0")
	g.instr0("RET")

	g.label("F_0_MOD")
	g.instr1("CALL", "F_0_DIVMOD")
	g.instr2("MOVE", "R2", "R0")
	g.instr0("RET")

	g.label("F_0_DIVMOD")
	g.instr2("CMP", "R1", immediate(0))
	g.instr1("JP_NE", "F_0_DIVMOD_OK")
	g.instr2("MOVE", immediate(0), "R5")
	g.instr2("MOVE", immediate(0), "R2")
	g.instr0("RET")

	g.label("F_0_DIVMOD_OK")
	g.instr2("MOVE", "R0", "R2")
	g.instr2("MOVE", "R1", "R3")
	g.instr2("MOVE", immediate(0), "R4")
	g.instr2("CMP", "R2", immediate(0))
	g.instr1("JP_SGE", "F_0_DIVMOD_A_OK")
	g.instr3("SUB", immediate(0), "R2", "R2")
	g.instr2("MOVE", immediate(1), "R4")
	g.label("F_0_DIVMOD_A_OK")
	g.instr1("PUSH", "R4")

	g.instr2("MOVE", immediate(0), "R4")
	g.instr2("CMP", "R3", immediate(0))
	g.instr1("JP_SGE", "F_0_DIVMOD_B_OK")
	g.instr3("SUB", immediate(0), "R3", "R3")
	g.instr2("MOVE", immediate(1), "R4")
	g.label("F_0_DIVMOD_B_OK")
	g.instr1("POP", "R6")
	g.instr3("XOR", "R6", "R4", "R4")
	g.instr1("PUSH", "R6")

	g.instr2("MOVE", immediate(0), "R5")
	g.label("F_0_DIVMOD_LOOP")
	g.instr2("CMP", "R2", "R3")
	g.instr1("JP_SLT", "F_0_DIVMOD_DONE")
	g.instr3("SUB", "R2", "R3", "R2")
	g.instr3("ADD", "R5", immediate(1), "R5")
	g.instr1("JP", "F_0_DIVMOD_LOOP")

	g.label("F_0_DIVMOD_DONE")
	g.instr2("CMP", "R4", immediate(0))
	g.instr1("JP_EQ", "F_0_DIVMOD_QOK")
	g.instr3("SUB", immediate(0), "R5", "R5")
	g.label("F_0_DIVMOD_QOK")

	g.instr1("POP", "R6")
	g.instr2("CMP", "R6", immediate(0))
	g.instr1("JP_EQ", "F_0_DIVMOD_RET")
	g.instr3("SUB", immediate(0), "R2", "R2")
	g.label("F_0_DIVMOD_RET")
	g.instr0("RET")
}
