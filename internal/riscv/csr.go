package riscv

// CSR addresses used by this implementation, per §3 and
// original_source/include/CSR.h.
const (
	NumCSRs = 4096

	Mhartid uint64 = 0xf14

	Mstatus    uint64 = 0x300
	Medeleg    uint64 = 0x302
	Mideleg    uint64 = 0x303
	Mie        uint64 = 0x304
	Mtvec      uint64 = 0x305
	Mcounteren uint64 = 0x306
	Mscratch   uint64 = 0x340
	Mepc       uint64 = 0x341
	Mcause     uint64 = 0x342
	Mtval      uint64 = 0x343
	Mip        uint64 = 0x344

	Sstatus  uint64 = 0x100
	Sie      uint64 = 0x104
	Stvec    uint64 = 0x105
	Sscratch uint64 = 0x140
	Sepc     uint64 = 0x141
	Scause   uint64 = 0x142
	Stval    uint64 = 0x143
	Sip      uint64 = 0x144
	Satp     uint64 = 0x180
)

// mstatus / sstatus field masks.
const (
	MaskSIE  uint64 = 1 << 1
	MaskMIE  uint64 = 1 << 3
	MaskSPIE uint64 = 1 << 5
	MaskUBE  uint64 = 1 << 6
	MaskMPIE uint64 = 1 << 7
	MaskSPP  uint64 = 1 << 8
	MaskVS   uint64 = 0b11 << 9
	MaskMPP  uint64 = 0b11 << 11
	MaskFS   uint64 = 0b11 << 13
	MaskXS   uint64 = 0b11 << 15
	MaskMPRV uint64 = 1 << 17
	MaskSUM  uint64 = 1 << 18
	MaskMXR  uint64 = 1 << 19
	MaskTVM  uint64 = 1 << 20
	MaskTW   uint64 = 1 << 21
	MaskTSR  uint64 = 1 << 22
	MaskUXL  uint64 = 0b11 << 32
	MaskSXL  uint64 = 0b11 << 34
	MaskSBE  uint64 = 1 << 36
	MaskMBE  uint64 = 1 << 37
	MaskSD   uint64 = 1 << 63

	MaskSstatus = MaskSIE | MaskSPIE | MaskUBE | MaskSPP | MaskFS |
		MaskXS | MaskSUM | MaskMXR | MaskUXL | MaskSD
)

// mip / sip field masks.
const (
	MaskSSIP uint64 = 1 << 1
	MaskMSIP uint64 = 1 << 3
	MaskSTIP uint64 = 1 << 5
	MaskMTIP uint64 = 1 << 7
	MaskSEIP uint64 = 1 << 9
	MaskMEIP uint64 = 1 << 11
)

// CSRFile is a flat mapping from 12-bit CSR address to 64-bit value,
// with aliasing views for sie/sip/sstatus over mie/mip/mstatus, per
// §3. No access-permission checking is performed, matching the
// covered software's needs; grounded on
// original_source/include/CSR.h.
type CSRFile struct {
	csrs [NumCSRs]uint64
}

// NewCSRFile returns a zeroed CSR file.
func NewCSRFile() *CSRFile {
	return &CSRFile{}
}

// Load reads a CSR, dispatching the three aliased addresses to masked
// views over mie/mip/mstatus rather than duplicating state.
func (c *CSRFile) Load(addr uint64) uint64 {
	switch addr {
	case Sie:
		return c.csrs[Mie] & c.csrs[Mideleg]
	case Sip:
		return c.csrs[Mip] & c.csrs[Mideleg]
	case Sstatus:
		return c.csrs[Mstatus] & MaskSstatus
	default:
		return c.csrs[addr]
	}
}

// Store writes a CSR, again dispatching the aliased addresses.
func (c *CSRFile) Store(addr uint64, value uint64) {
	switch addr {
	case Sie:
		c.csrs[Mie] = (c.csrs[Mie] &^ c.csrs[Mideleg]) | (value & c.csrs[Mideleg])
	case Sip:
		c.csrs[Mip] = (c.csrs[Mip] &^ c.csrs[Mideleg]) | (value & c.csrs[Mideleg])
	case Sstatus:
		c.csrs[Mstatus] = (c.csrs[Mstatus] &^ MaskSstatus) | (value & MaskSstatus)
	default:
		c.csrs[addr] = value
	}
}

// IsMedelegated reports whether the machine delegates the given
// exception code to supervisor mode.
func (c *CSRFile) IsMedelegated(code uint64) bool {
	return (c.csrs[Medeleg]>>code)&1 != 0
}

// IsMidelegated reports whether the machine delegates the given
// interrupt code (with the interrupt bit already stripped) to
// supervisor mode. Masking the interrupt bit before shifting fixes a
// bug in the C++ original, which indexed mideleg with the raw 64-bit
// cause (interrupt bit included) — see §9.
func (c *CSRFile) IsMidelegated(code uint64) bool {
	return (c.csrs[Mideleg]>>code)&1 != 0
}
