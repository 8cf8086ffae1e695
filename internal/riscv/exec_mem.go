package riscv

// execLoad implements LOAD (0x03): LB/LH/LW/LD/LBU/LHU/LWU, per §4.7.
// funct3 selects the width and sign/zero extension. LW uses a genuine
// 32-bit access here — the C++ original has a 16-bit typo on this
// path (§9); we implement the correct width.
func (h *Hart) execLoad(inst Inst, pc uint64) (uint64, *Trap) {
	addr := h.Regs[inst.Rs1] + immI(inst.Raw)
	var width uint64
	var signed bool
	switch inst.Funct3 {
	case 0x0: // LB
		width, signed = 8, true
	case 0x1: // LH
		width, signed = 16, true
	case 0x2: // LW
		width, signed = 32, true
	case 0x3: // LD
		width, signed = 64, true
	case 0x4: // LBU
		width, signed = 8, false
	case 0x5: // LHU
		width, signed = 16, false
	case 0x6: // LWU
		width, signed = 32, false
	default:
		return pc, NewIllegalInstruction(uint64(inst.Raw))
	}
	raw, err := h.Bus.Load(addr, width)
	if err != nil {
		return pc, err.(*Trap)
	}
	v := raw
	if signed {
		v = signExtend(raw, uint(width))
	}
	h.setReg(inst.Rd, v)
	return pc + 4, nil
}

// execStore implements STORE (0x23): SB/SH/SW/SD.
func (h *Hart) execStore(inst Inst, raw uint32, pc uint64) (uint64, *Trap) {
	addr := h.Regs[inst.Rs1] + immS(raw)
	var width uint64
	switch inst.Funct3 {
	case 0x0:
		width = 8
	case 0x1:
		width = 16
	case 0x2:
		width = 32
	case 0x3:
		width = 64
	default:
		return pc, NewIllegalInstruction(uint64(raw))
	}
	if err := h.Bus.Store(addr, width, h.Regs[inst.Rs2]); err != nil {
		return pc, err.(*Trap)
	}
	return pc + 4, nil
}

// execAmo implements AMO (0x2F): amoadd.w/.d, amoswap.w/.d. aq/rl bits
// are ignored since the emulator is single-threaded with respect to
// architectural state, per §5.
func (h *Hart) execAmo(inst Inst, pc uint64) (uint64, *Trap) {
	funct5 := inst.Funct7 >> 2
	addr := h.Regs[inst.Rs1]
	var width uint64
	switch inst.Funct3 {
	case 0x2:
		width = 32
	case 0x3:
		width = 64
	default:
		return pc, NewIllegalInstruction(uint64(inst.Raw))
	}
	mem, err := h.Bus.Load(addr, width)
	if err != nil {
		return pc, err.(*Trap)
	}
	var result uint64
	switch funct5 {
	case 0x00: // amoadd
		result = mem + h.Regs[inst.Rs2]
	case 0x01: // amoswap
		result = h.Regs[inst.Rs2]
	default:
		return pc, NewIllegalInstruction(uint64(inst.Raw))
	}
	if err := h.Bus.Store(addr, width, result); err != nil {
		return pc, err.(*Trap)
	}
	v := mem
	if width == 32 {
		v = signExtend(mem, 32)
	}
	h.setReg(inst.Rd, v)
	return pc + 4, nil
}
