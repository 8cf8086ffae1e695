package riscv

// Inst is a decoded instruction record: opcode, register fields and
// funct fields shared by every RV64 instruction format, per §4.7. The
// design note in §9 calls for decomposing the source's single giant
// switch into small per-opcode-group functions operating on a record
// like this one rather than re-deriving fields inline everywhere.
type Inst struct {
	Raw     uint32
	Opcode  uint32
	Rd      uint32
	Rs1     uint32
	Rs2     uint32
	Funct3  uint32
	Funct7  uint32
}

// Decode splits a 32-bit instruction word into its fields. Not every
// field is meaningful for every opcode; per-opcode execute functions
// pick the ones they need.
func Decode(raw uint32) Inst {
	return Inst{
		Raw:    raw,
		Opcode: raw & 0x7f,
		Rd:     (raw >> 7) & 0x1f,
		Funct3: (raw >> 12) & 0x7,
		Rs1:    (raw >> 15) & 0x1f,
		Rs2:    (raw >> 20) & 0x1f,
		Funct7: (raw >> 25) & 0x7f,
	}
}

// Opcode values, per §4.7.
const (
	OpLoad     uint32 = 0x03
	OpMiscMem  uint32 = 0x0F
	OpImm      uint32 = 0x13
	OpAuipc    uint32 = 0x17
	OpImm32    uint32 = 0x1B
	OpStore    uint32 = 0x23
	OpAmo      uint32 = 0x2F
	OpOp       uint32 = 0x33
	OpLui      uint32 = 0x37
	OpOp32     uint32 = 0x3B
	OpBranch   uint32 = 0x63
	OpJalr     uint32 = 0x67
	OpJal      uint32 = 0x6F
	OpSystem   uint32 = 0x73
)

// signExtend sign-extends the low `bits` bits of v to 64 bits.
func signExtend(v uint64, bits uint) uint64 {
	shift := 64 - bits
	return uint64(int64(v<<shift) >> shift)
}

// immI decodes the sign-extended 12-bit I-type immediate (inst[31:20]).
func immI(raw uint32) uint64 {
	return signExtend(uint64(raw)>>20, 12)
}

// immS decodes the sign-extended 12-bit S-type immediate
// ({inst[31:25], inst[11:7]}).
func immS(raw uint32) uint64 {
	hi := (raw >> 25) & 0x7f
	lo := (raw >> 7) & 0x1f
	return signExtend(uint64(hi<<5|lo), 12)
}

// immB decodes the sign-extended 13-bit B-type immediate
// ({inst[31], inst[7], inst[30:25], inst[11:8], 0}).
func immB(raw uint32) uint64 {
	b31 := (raw >> 31) & 1
	b7 := (raw >> 7) & 1
	b30_25 := (raw >> 25) & 0x3f
	b11_8 := (raw >> 8) & 0xf
	v := (b31 << 12) | (b7 << 11) | (b30_25 << 5) | (b11_8 << 1)
	return signExtend(uint64(v), 13)
}

// immU decodes the U-type immediate (inst[31:12] << 12, sign-extended
// from bit 31).
func immU(raw uint32) uint64 {
	return signExtend(uint64(raw&0xFFFFF000), 32)
}

// immJ decodes the sign-extended 21-bit J-type immediate
// ({inst[31], inst[19:12], inst[20], inst[30:21], 0}).
func immJ(raw uint32) uint64 {
	b31 := (raw >> 31) & 1
	b19_12 := (raw >> 12) & 0xff
	b20 := (raw >> 20) & 1
	b30_21 := (raw >> 21) & 0x3ff
	v := (b31 << 20) | (b19_12 << 12) | (b20 << 11) | (b30_21 << 1)
	return signExtend(uint64(v), 21)
}
