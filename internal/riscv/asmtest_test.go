package riscv

// Minimal RV64 instruction encoders used only by this package's tests,
// in the same shift-and-mask style as the teacher's
// pkg/asm/instruction.go Encode() methods (bit-packing opcode/register/
// immediate fields into a uint32), generalized from RiSC-32's 5-bit
// register fields and three formats to RV64's six formats and 5-bit
// registers at different shifts.

func rType(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return (funct7 << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

func iType(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xFFF)<<20 | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

func sType(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	lo := u & 0x1f
	hi := (u >> 5) & 0x7f
	return (hi << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (lo << 7) | opcode
}

func bType(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	b11 := (u >> 11) & 1
	b12 := (u >> 12) & 1
	b1_4 := (u >> 1) & 0xf
	b5_10 := (u >> 5) & 0x3f
	return (b12 << 31) | (b5_10 << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (b1_4 << 8) | (b11 << 7) | opcode
}

func uType(opcode, rd uint32, imm int32) uint32 {
	return (uint32(imm) & 0xFFFFF000) | (rd << 7) | opcode
}

func jType(opcode, rd uint32, imm int32) uint32 {
	u := uint32(imm)
	b20 := (u >> 20) & 1
	b1_10 := (u >> 1) & 0x3ff
	b11 := (u >> 11) & 1
	b12_19 := (u >> 12) & 0xff
	return (b20 << 31) | (b1_10 << 21) | (b11 << 20) | (b12_19 << 12) | (rd << 7) | opcode
}

// Register numbers by ABI name, for readability in test tables.
const (
	regZero = 0
	regRA   = 1
	regSP   = 2
	regT0   = 5
	regT1   = 6
	regT2   = 7
	regS0   = 8
	regA0   = 10
	regA1   = 11
	regS2   = 18
)

func asmADDI(rd, rs1 uint32, imm int32) uint32 { return iType(OpImm, rd, 0x0, rs1, imm) }
func asmLUI(rd uint32, imm int32) uint32        { return uType(OpLui, rd, imm) }
func asmAUIPC(rd uint32, imm int32) uint32      { return uType(OpAuipc, rd, imm) }
func asmJAL(rd uint32, imm int32) uint32        { return jType(OpJal, rd, imm) }
func asmJALR(rd, rs1 uint32, imm int32) uint32  { return iType(OpJalr, rd, 0x0, rs1, imm) }
func asmBEQ(rs1, rs2 uint32, imm int32) uint32  { return bType(OpBranch, 0x0, rs1, rs2, imm) }
func asmSD(rs1, rs2 uint32, imm int32) uint32   { return sType(OpStore, 0x3, rs1, rs2, imm) }
func asmLB(rd, rs1 uint32, imm int32) uint32    { return iType(OpLoad, rd, 0x0, rs1, imm) }
func asmLH(rd, rs1 uint32, imm int32) uint32    { return iType(OpLoad, rd, 0x1, rs1, imm) }
func asmCSRRW(rd, csr, rs1 uint32) uint32       { return iType(OpSystem, rd, 0x1, rs1, int32(csr)) }
func asmCSRRS(rd, csr, rs1 uint32) uint32       { return iType(OpSystem, rd, 0x2, rs1, int32(csr)) }
func asmSLL(rd, rs1, rs2 uint32) uint32         { return rType(OpOp, rd, 0x1, rs1, rs2, 0x00) }
func asmDIVU(rd, rs1, rs2 uint32) uint32        { return rType(OpOp32, rd, 0x5, rs1, rs2, 0x01) }
func asmREMUW(rd, rs1, rs2 uint32) uint32       { return rType(OpOp32, rd, 0x7, rs1, rs2, 0x01) }
func asmSRAIW(rd, rs1 uint32, shamt int32) uint32 {
	return iType(OpImm32, rd, 0x5, rs1, shamt|(0x20<<5))
}
