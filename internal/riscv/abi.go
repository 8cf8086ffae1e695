package riscv

import (
	"fmt"
	"strings"
)

// ABINames are the standard RISC-V calling-convention names for x0-x31,
// used by the register dump. Not present in the
// C++ original, which prints raw register indices; supplementing it
// with named registers matches how the corpus's other CPU cores format
// dumps (e.g. smoynes-elsie, rcornwell-S370 print named register
// tables for test assertions).
var ABINames = [NumRegisters]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// DumpRegisters formats the hart's general-purpose registers using the
// 80-column-separator / 8-rows-of-4 layout named in §6; cmd/emu
// prints it to stderr when the step loop ends.
func (h *Hart) DumpRegisters() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("-", 80))
	b.WriteString("\n")
	for row := 0; row < 8; row++ {
		for col := 0; col < 4; col++ {
			i := row*4 + col
			fmt.Fprintf(&b, "x%-2d(%-4s) = %#018x  ", i, ABINames[i], h.Regs[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}
