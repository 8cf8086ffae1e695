package riscv

// Clint is the core-local interruptor: two 64-bit cells, mtime and
// mtimecmp, per §4.2. It does not auto-increment mtime; the covered
// software does not require a timer interrupt source, but the cells
// must round-trip.
type Clint struct {
	mtime    uint64
	mtimecmp uint64
}

// NewClint constructs a zeroed CLINT.
func NewClint() *Clint {
	return &Clint{}
}

func (c *Clint) Load(addr uint64, size uint64) (uint64, error) {
	if size != 64 {
		return 0, NewLoadAccessFault(addr)
	}
	switch addr {
	case ClintMtimeCmp:
		return c.mtimecmp, nil
	case ClintMtime:
		return c.mtime, nil
	default:
		return 0, NewLoadAccessFault(addr)
	}
}

func (c *Clint) Store(addr uint64, size uint64, value uint64) error {
	if size != 64 {
		return NewStoreAMOAccessFault(addr)
	}
	switch addr {
	case ClintMtimeCmp:
		c.mtimecmp = value
	case ClintMtime:
		c.mtime = value
	default:
		return NewStoreAMOAccessFault(addr)
	}
	return nil
}
