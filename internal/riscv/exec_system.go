package riscv

// execSystem implements SYSTEM (0x73): SRET/MRET/SFENCE.VMA/ECALL/
// EBREAK under funct3==0, and the six CSR instructions otherwise, per
// §4.7.
func (h *Hart) execSystem(inst Inst, raw uint32, pc uint64) (uint64, *Trap) {
	switch inst.Funct3 {
	case 0x0:
		return h.execPrivileged(inst, pc)
	case 0x1: // CSRRW
		return h.execCSR(inst, pc, h.Regs[inst.Rs1], func(_, rs1 uint64) uint64 { return rs1 })
	case 0x2: // CSRRS
		return h.execCSR(inst, pc, h.Regs[inst.Rs1], func(old, rs1 uint64) uint64 { return old | rs1 })
	case 0x3: // CSRRC
		return h.execCSR(inst, pc, h.Regs[inst.Rs1], func(old, rs1 uint64) uint64 { return old &^ rs1 })
	case 0x5: // CSRRWI
		return h.execCSR(inst, pc, uint64(inst.Rs1), func(_, imm uint64) uint64 { return imm })
	case 0x6: // CSRRSI
		return h.execCSR(inst, pc, uint64(inst.Rs1), func(old, imm uint64) uint64 { return old | imm })
	case 0x7: // CSRRCI
		return h.execCSR(inst, pc, uint64(inst.Rs1), func(old, imm uint64) uint64 { return old &^ imm })
	default:
		return pc, NewIllegalInstruction(uint64(raw))
	}
}

// execCSR implements the common CSR read-modify-write recipe shared by
// all six CSR instructions: t = csr[addr]; csr[addr] = combine(t,
// operand); rd = t, honoring the aliasing views of §3 via CSRFile.
func (h *Hart) execCSR(inst Inst, pc uint64, operand uint64, combine func(old, operand uint64) uint64) (uint64, *Trap) {
	addr := uint64(inst.Raw) >> 20
	old := h.CSR.Load(addr)
	h.CSR.Store(addr, combine(old, operand))
	h.setReg(inst.Rd, old)
	return pc + 4, nil
}

// execPrivileged implements the funct3==0 SYSTEM sub-opcodes: SRET,
// MRET, SFENCE.VMA, ECALL, EBREAK.
func (h *Hart) execPrivileged(inst Inst, pc uint64) (uint64, *Trap) {
	switch {
	case inst.Rs2 == 2 && inst.Funct7 == 0x08: // SRET
		return h.sret(), nil
	case inst.Rs2 == 2 && inst.Funct7 == 0x18: // MRET
		return h.mret(), nil
	case inst.Funct7 == 0x09: // SFENCE.VMA; equality, not the source's
		// assignment-shaped `funct7 = 0x9` bug noted in §9
		return pc + 4, nil
	case inst.Rs2 == 0 && inst.Funct7 == 0: // ECALL
		return pc, NewEnvironmentCall(h.Mode, pc)
	case inst.Rs2 == 1 && inst.Funct7 == 0: // EBREAK
		return pc, NewBreakpoint(pc)
	default:
		return pc, NewIllegalInstruction(uint64(inst.Raw))
	}
}

// sret restores SSTATUS and unwinds to sepc, per §4.7: mode ← SPP;
// SIE ← SPIE; SPIE ← 1; SPP ← 0.
func (h *Hart) sret() uint64 {
	status := h.CSR.Load(Sstatus)
	spp := (status & MaskSPP) >> 8
	spie := (status & MaskSPIE) >> 5

	h.Mode = Mode(spp)
	status = setBit(status, MaskSIE, spie == 1)
	status = setBit(status, MaskSPIE, true)
	status &^= MaskSPP

	h.CSR.Store(Sstatus, status)
	return h.CSR.Load(Sepc) &^ 0b11
}

// mret restores MSTATUS and unwinds to mepc, per §4.7: mode ← MPP;
// MIE ← MPIE; MPIE ← 1; MPP ← 0; MPRV ← 0.
func (h *Hart) mret() uint64 {
	status := h.CSR.Load(Mstatus)
	mpp := (status & MaskMPP) >> 11
	mpie := (status & MaskMPIE) >> 7

	h.Mode = Mode(mpp)
	status = setBit(status, MaskMIE, mpie == 1)
	status = setBit(status, MaskMPIE, true)
	status &^= MaskMPP
	status &^= MaskMPRV

	h.CSR.Store(Mstatus, status)
	return h.CSR.Load(Mepc) &^ 0b11
}

func setBit(v uint64, mask uint64, set bool) uint64 {
	if set {
		return v | mask
	}
	return v &^ mask
}
