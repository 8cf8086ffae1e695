package riscv

// Plic is a minimal platform-level interrupt controller: four 32-bit
// cells (pending, senable, spriority, sclaim) at fixed offsets, per
// §4.3. Any other address in the PLIC range reads as zero and ignores
// stores, matching original_source/include/plic.h.
type Plic struct {
	pending   uint32
	senable   uint32
	spriority uint32
	sclaim    uint32
}

// NewPlic constructs a zeroed PLIC.
func NewPlic() *Plic {
	return &Plic{}
}

func (p *Plic) Load(addr uint64, size uint64) (uint64, error) {
	if size != 32 {
		return 0, NewLoadAccessFault(addr)
	}
	switch addr {
	case PlicPending:
		return uint64(p.pending), nil
	case PlicSEnable:
		return uint64(p.senable), nil
	case PlicSPriority:
		return uint64(p.spriority), nil
	case PlicSClaim:
		return uint64(p.sclaim), nil
	default:
		return 0, nil
	}
}

func (p *Plic) Store(addr uint64, size uint64, value uint64) error {
	if size != 32 {
		return NewStoreAMOAccessFault(addr)
	}
	switch addr {
	case PlicPending:
		p.pending = uint32(value)
	case PlicSEnable:
		p.senable = uint32(value)
	case PlicSPriority:
		p.spriority = uint32(value)
	case PlicSClaim:
		p.sclaim = uint32(value)
	}
	return nil
}

// SetClaim writes the given IRQ number into sclaim directly; used by
// the hart's interrupt scan (§4.9) to route a UART interrupt without
// going through the width-checked MMIO path.
func (p *Plic) SetClaim(irq uint64) {
	p.sclaim = uint32(irq)
}
