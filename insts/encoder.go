package insts

// EncodeR assembles an R-type (register-register) instruction word.
func EncodeR(funct7, rs2, rs1, funct3, rd, opcode uint8) uint32 {
	return uint32(funct7&0x7F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeI assembles an I-type (register-immediate) instruction word.
// Only the low 12 bits of imm are kept.
func EncodeI(imm int32, rs1, funct3, rd, opcode uint8) uint32 {
	return (uint32(imm)&0xFFF)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// funct7Alt is the funct7 value with the alternate bit set (SUB, SRA).
const funct7Alt = 0b0100000

// ADD encodes add rd, rs1, rs2.
func ADD(rd, rs1, rs2 uint8) uint32 {
	return EncodeR(0, rs2, rs1, uint8(Funct3AddSub), rd, OpcodeOp)
}

// SUB encodes sub rd, rs1, rs2.
func SUB(rd, rs1, rs2 uint8) uint32 {
	return EncodeR(funct7Alt, rs2, rs1, uint8(Funct3AddSub), rd, OpcodeOp)
}

// ADDI encodes addi rd, rs1, imm.
func ADDI(rd, rs1 uint8, imm int32) uint32 {
	return EncodeI(imm, rs1, uint8(Funct3AddSub), rd, OpcodeOpImm)
}

// ALU encodes any register-register ALU operation.
func ALU(op Op, rd, rs1, rs2 uint8) uint32 {
	funct3, alt := opFunct3(op)
	var funct7 uint8
	if alt {
		funct7 = funct7Alt
	}
	return EncodeR(funct7, rs2, rs1, funct3, rd, OpcodeOp)
}

// ALUImm encodes any register-immediate ALU operation. For shifts imm is
// the shift amount. OpSUB has no immediate form and encodes as ADDI.
func ALUImm(op Op, rd, rs1 uint8, imm int32) uint32 {
	funct3, alt := opFunct3(op)
	switch op {
	case OpSLL, OpSRL, OpSRA:
		imm &= 0x1F
		if alt {
			imm |= funct7Alt << 5
		}
	}
	return EncodeI(imm, rs1, funct3, rd, OpcodeOpImm)
}

func opFunct3(op Op) (funct3 uint8, alt bool) {
	switch op {
	case OpSUB:
		return uint8(Funct3AddSub), true
	case OpSLL:
		return uint8(Funct3SLL), false
	case OpSLT:
		return uint8(Funct3SLT), false
	case OpSLTU:
		return uint8(Funct3SLTU), false
	case OpXOR:
		return uint8(Funct3XOR), false
	case OpSRL:
		return uint8(Funct3SrlSra), false
	case OpSRA:
		return uint8(Funct3SrlSra), true
	case OpOR:
		return uint8(Funct3OR), false
	case OpAND:
		return uint8(Funct3AND), false
	default:
		return uint8(Funct3AddSub), false
	}
}
