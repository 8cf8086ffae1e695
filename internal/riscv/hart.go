package riscv

import (
	"fmt"

	"github.com/rs/zerolog"
)

// NumRegisters is the number of general-purpose integer registers.
const NumRegisters = 32

// Hart is the state of a single RISC-V hardware thread: 32 general
// registers (x0 wired to zero), a program counter, a privilege mode, a
// CSR file and a Bus handle, per §3. The emulator simulates exactly
// one hart; ownership of the Bus and CSR file is exclusive, per §5.
type Hart struct {
	Regs [NumRegisters]uint64
	PC   uint64
	Mode Mode
	CSR  *CSRFile
	Bus  *Bus

	Log zerolog.Logger

	// Halted is set when the step loop should stop: PC left DRAM, or a
	// fatal exception made no progress, per §5/§7.
	Halted bool
}

// NewHart constructs a hart with the initial state of §3: all
// registers zero except x2 (stack pointer) = DRAM_END, PC = DRAM_BASE,
// mode = Machine.
func NewHart(bus *Bus, log zerolog.Logger) *Hart {
	h := &Hart{
		CSR:  NewCSRFile(),
		Bus:  bus,
		Mode: Machine,
		PC:   DramBase,
		Log:  log,
	}
	h.Regs[2] = DramEnd
	return h
}

// setReg writes a GPR, unless rd is x0, matching the "writes to rd=0
// are erased" invariant of §4.7. Routing every write through this
// helper is the alternative the design note in §9 offers to
// re-zeroing x0 at each step boundary; we use both belt-and-braces
// (x0 is also re-zeroed in Step) since the source itself does.
func (h *Hart) setReg(rd uint32, v uint64) {
	if rd != 0 {
		h.Regs[rd] = v
	}
}

// Fetch reads the 32-bit instruction word at the current PC.
func (h *Hart) Fetch() (uint32, error) {
	word, err := h.Bus.Load(h.PC, 32)
	if err != nil {
		return 0, NewInstructionAccessFault(h.PC)
	}
	return uint32(word), nil
}

// Step fetches, decodes and executes one instruction, then runs the
// interrupt pending scan of §4.9. This is the step loop of §2/§4.9.
func (h *Hart) Step() error {
	if h.PC < DramBase || h.PC > DramEnd {
		h.Halted = true
		return fmt.Errorf("riscv: pc %#x left dram range", h.PC)
	}

	oldPC := h.PC
	raw, ferr := h.Fetch()
	if ferr != nil {
		h.Log.Warn().Uint64("pc", oldPC).Err(ferr).Msg("riscv: fetch fault")
		h.handleTrap(ferr.(*Trap), oldPC)
		return nil
	}

	inst := Decode(raw)
	h.Log.Debug().Uint64("pc", oldPC).Uint32("opcode", inst.Opcode).Uint32("raw", raw).Msg("riscv: step")

	next, trap := h.execute(inst, raw, oldPC)
	if trap != nil {
		h.Log.Warn().Uint64("pc", oldPC).Err(trap).Msg("riscv: trap")
		h.handleTrap(trap, oldPC)
		if trap.Code.IsFatal() && h.PC == oldPC {
			h.Halted = true
			return fmt.Errorf("riscv: fatal trap made no progress at pc %#x: %s", oldPC, trap)
		}
		h.scanInterrupts()
		return nil
	}
	h.PC = next
	h.Regs[0] = 0

	h.scanInterrupts()
	return nil
}

// execute dispatches a decoded instruction to the per-opcode-group
// execute function, per the decomposition called for in §9. pc is the
// address of the instruction being executed (used by AUIPC, JAL/JALR
// link values, and ECALL/EBREAK trap values).
func (h *Hart) execute(inst Inst, raw uint32, pc uint64) (nextPC uint64, trap *Trap) {
	switch inst.Opcode {
	case OpLoad:
		return h.execLoad(inst, pc)
	case OpMiscMem:
		return pc + 4, nil // FENCE: no-op, single-threaded sequential consistency
	case OpImm:
		return h.execOpImm(inst, pc)
	case OpAuipc:
		h.setReg(inst.Rd, pc+immU(raw))
		return pc + 4, nil
	case OpImm32:
		return h.execOpImm32(inst, pc)
	case OpStore:
		return h.execStore(inst, raw, pc)
	case OpAmo:
		return h.execAmo(inst, pc)
	case OpOp:
		return h.execOp(inst, pc)
	case OpLui:
		h.setReg(inst.Rd, immU(raw))
		return pc + 4, nil
	case OpOp32:
		return h.execOp32(inst, pc)
	case OpBranch:
		return h.execBranch(inst, raw, pc)
	case OpJalr:
		return h.execJalr(inst, raw, pc)
	case OpJal:
		h.setReg(inst.Rd, pc+4)
		return pc + immJ(raw), nil
	case OpSystem:
		return h.execSystem(inst, raw, pc)
	default:
		return pc, NewIllegalInstruction(uint64(raw))
	}
}
