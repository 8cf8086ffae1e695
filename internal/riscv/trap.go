package riscv

import "fmt"

// InterruptBit marks the top bit of a trap Code to distinguish an
// asynchronous interrupt from a synchronous exception, per §7.
const InterruptBit uint64 = 1 << 63

// Code identifies an exception or interrupt cause, matching the
// RISC-V privileged spec's mcause/scause encoding. Grounded on
// original_source/include/exception.h and interrupt.h, where each
// cause was a distinct exception class; here they collapse into one
// tagged value per the "result-style return" design note (§9).
type Code uint64

// Exception causes (bit 63 clear), per §7's table.
const (
	InstructionAddrMisaligned Code = 0
	InstructionAccessFault    Code = 1
	IllegalInstruction        Code = 2
	Breakpoint                Code = 3
	LoadAddrMisaligned        Code = 4
	LoadAccessFault           Code = 5
	StoreAMOAddrMisaligned    Code = 6
	StoreAMOAccessFault       Code = 7
	EnvironmentCallFromUMode  Code = 8
	EnvironmentCallFromSMode  Code = 9
	EnvironmentCallFromMMode  Code = 11
	InstructionPageFault      Code = 12
	LoadPageFault             Code = 13
	StoreAMOPageFault         Code = 15
)

// Interrupt causes (bit 63 set), per §7.
const (
	SupervisorSoftwareInterrupt Code = 1 | Code(InterruptBit)
	MachineSoftwareInterrupt    Code = 3 | Code(InterruptBit)
	SupervisorTimerInterrupt    Code = 5 | Code(InterruptBit)
	MachineTimerInterrupt       Code = 7 | Code(InterruptBit)
	SupervisorExternalInterrupt Code = 9 | Code(InterruptBit)
	MachineExternalInterrupt    Code = 11 | Code(InterruptBit)
)

// IsInterrupt reports whether c is an asynchronous interrupt rather
// than a synchronous exception.
func (c Code) IsInterrupt() bool {
	return c&Code(InterruptBit) != 0
}

// ExceptionCode returns the cause number with the interrupt bit
// stripped, i.e. the value used to index medeleg/mideleg.
func (c Code) ExceptionCode() uint64 {
	return uint64(c) &^ InterruptBit
}

var exceptionNames = map[Code]string{
	InstructionAddrMisaligned: "instruction address misaligned",
	InstructionAccessFault:    "instruction access fault",
	IllegalInstruction:        "illegal instruction",
	Breakpoint:                "breakpoint",
	LoadAddrMisaligned:        "load address misaligned",
	LoadAccessFault:           "load access fault",
	StoreAMOAddrMisaligned:    "store/amo address misaligned",
	StoreAMOAccessFault:       "store/amo access fault",
	EnvironmentCallFromUMode:  "environment call from u-mode",
	EnvironmentCallFromSMode:  "environment call from s-mode",
	EnvironmentCallFromMMode:  "environment call from m-mode",
	InstructionPageFault:      "instruction page fault",
	LoadPageFault:             "load page fault",
	StoreAMOPageFault:         "store/amo page fault",
}

var interruptNames = map[Code]string{
	SupervisorSoftwareInterrupt: "supervisor software interrupt",
	MachineSoftwareInterrupt:    "machine software interrupt",
	SupervisorTimerInterrupt:    "supervisor timer interrupt",
	MachineTimerInterrupt:       "machine timer interrupt",
	SupervisorExternalInterrupt: "supervisor external interrupt",
	MachineExternalInterrupt:    "machine external interrupt",
}

// IsFatal reports whether the given exception code, left unhandled,
// should terminate the step loop, per §7's table. Interrupts are never
// fatal on their own.
func (c Code) IsFatal() bool {
	switch c {
	case InstructionAddrMisaligned, InstructionAccessFault, IllegalInstruction,
		StoreAMOAddrMisaligned, StoreAMOAccessFault, LoadAccessFault:
		return true
	default:
		return false
	}
}

// Trap is the tagged success/failure value threaded through execute and
// the trap handler: a Code plus the trap value recorded in xTVAL.
// Modeling traps this way (rather than throwing, as the C++ original
// does) is the "result-style return" called for in §9.
type Trap struct {
	Code  Code
	Value uint64
}

func (t *Trap) Error() string {
	if t == nil {
		return "<nil trap>"
	}
	name := exceptionNames[t.Code]
	if t.Code.IsInterrupt() {
		name = interruptNames[t.Code]
	}
	if name == "" {
		name = fmt.Sprintf("unknown trap %#x", uint64(t.Code))
	}
	return fmt.Sprintf("%s (value=%#x)", name, t.Value)
}

func newTrap(code Code, value uint64) *Trap {
	return &Trap{Code: code, Value: value}
}

// Constructors for the exception kinds the bus and execute engine raise
// directly; named per original_source/include/exception.h.
func NewInstructionAddrMisaligned(pc uint64) *Trap { return newTrap(InstructionAddrMisaligned, pc) }
func NewInstructionAccessFault(pc uint64) *Trap    { return newTrap(InstructionAccessFault, pc) }
func NewIllegalInstruction(inst uint64) *Trap      { return newTrap(IllegalInstruction, inst) }
func NewBreakpoint(pc uint64) *Trap                { return newTrap(Breakpoint, pc) }
func NewLoadAddrMisaligned(addr uint64) *Trap      { return newTrap(LoadAddrMisaligned, addr) }
func NewLoadAccessFault(addr uint64) *Trap         { return newTrap(LoadAccessFault, addr) }
func NewStoreAMOAddrMisaligned(addr uint64) *Trap  { return newTrap(StoreAMOAddrMisaligned, addr) }
func NewStoreAMOAccessFault(addr uint64) *Trap     { return newTrap(StoreAMOAccessFault, addr) }
func NewEnvironmentCall(mode Mode, pc uint64) *Trap {
	switch mode {
	case User:
		return newTrap(EnvironmentCallFromUMode, pc)
	case Supervisor:
		return newTrap(EnvironmentCallFromSMode, pc)
	default:
		return newTrap(EnvironmentCallFromMMode, pc)
	}
}
