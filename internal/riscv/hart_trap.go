package riscv

// handleTrap implements the single trap-entry recipe of §4.8, shared
// by exceptions and interrupts: delegate to S-mode or stay/enter
// M-mode, vector through xTVEC, record xEPC/xCAUSE/xTVAL, flip the
// status bits, and switch the hart's mode.
func (h *Hart) handleTrap(trap *Trap, oldPC uint64) {
	oldMode := h.Mode
	cause := uint64(trap.Code)
	excCode := trap.Code.ExceptionCode()

	delegated := oldMode <= Supervisor
	if delegated {
		if trap.Code.IsInterrupt() {
			delegated = h.CSR.IsMidelegated(excCode & 0x3F)
		} else {
			delegated = h.CSR.IsMedelegated(excCode)
		}
	}

	var statusAddr, tvecAddr, causeAddr, tvalAddr, epcAddr uint64
	var sieShift, spieShift, sppShift uint
	var sppWidth uint64
	var targetMode Mode
	if delegated {
		statusAddr, tvecAddr, causeAddr, tvalAddr, epcAddr = Sstatus, Stvec, Scause, Stval, Sepc
		sieShift, spieShift, sppShift, sppWidth = 1, 5, 8, 0b1
		targetMode = Supervisor
	} else {
		statusAddr, tvecAddr, causeAddr, tvalAddr, epcAddr = Mstatus, Mtvec, Mcause, Mtval, Mepc
		sieShift, spieShift, sppShift, sppWidth = 3, 7, 11, 0b11
		targetMode = Machine
	}

	tvec := h.CSR.Load(tvecAddr)
	base := tvec &^ 0b11
	modeBits := tvec & 0b11

	var nextPC uint64
	if trap.Code.IsInterrupt() && modeBits == 1 {
		// Vectored mode: base + 4 * cause_code, with explicit
		// parenthesization — the C++ original computes
		// `base + cause << 2` without parens, i.e. `(base + cause) <<
		// 2`, which §9 flags as a bug. We implement the RISC-V spec.
		nextPC = base + 4*excCode
	} else {
		nextPC = base
	}

	h.CSR.Store(epcAddr, oldPC)
	h.CSR.Store(causeAddr, cause)
	if trap.Code.IsInterrupt() {
		h.CSR.Store(tvalAddr, 0)
	} else {
		h.CSR.Store(tvalAddr, trap.Value)
	}

	status := h.CSR.Load(statusAddr)
	ieMask := uint64(1) << sieShift
	pieMask := uint64(1) << spieShift
	ppMask := sppWidth << sppShift

	pieValue := (status & ieMask) >> sieShift
	status = setBit(status, pieMask, pieValue == 1)
	// Clear xIE with a true bitwise complement, not the source's
	// logical-not bug noted in §9 (`status &= !MASK_IE`).
	status &^= ieMask
	status &^= ppMask
	status |= (uint64(oldMode) << sppShift) & ppMask

	h.CSR.Store(statusAddr, status)
	h.Mode = targetMode
	h.PC = nextPC
}

// scanInterrupts performs the interrupt pending scan of §4.9, run once
// per instruction after the step loop assigns the new PC.
func (h *Hart) scanInterrupts() {
	switch h.Mode {
	case Machine:
		if h.CSR.Load(Mstatus)&MaskMIE == 0 {
			return
		}
	case Supervisor:
		if h.CSR.Load(Sstatus)&MaskSIE == 0 {
			return
		}
	}

	if h.Bus.UartIsInterrupting() {
		h.Bus.Plic.SetClaim(UartIRQ)
		h.CSR.Store(Mip, h.CSR.Load(Mip)|MaskSEIP)
	}

	pending := h.CSR.Load(Mie) & h.CSR.Load(Mip)
	if pending == 0 {
		return
	}

	// Fixed priority order: MEIP, MSIP, MTIP, SEIP, SSIP, STIP.
	order := []struct {
		mask uint64
		code Code
	}{
		{MaskMEIP, MachineExternalInterrupt},
		{MaskMSIP, MachineSoftwareInterrupt},
		{MaskMTIP, MachineTimerInterrupt},
		{MaskSEIP, SupervisorExternalInterrupt},
		{MaskSSIP, SupervisorSoftwareInterrupt},
		{MaskSTIP, SupervisorTimerInterrupt},
	}
	for _, o := range order {
		if pending&o.mask != 0 {
			h.CSR.Store(Mip, h.CSR.Load(Mip)&^o.mask)
			h.handleTrap(newTrap(o.code, 0), h.PC)
			return
		}
	}
}
