package pipeline

import "github.com/sarchlab/rvsim/insts"

// ExecuteALU computes the result of an OP or OP-IMM instruction. The second
// operand is rs2 for the register form and the sign-extended immediate
// otherwise. All arithmetic wraps modulo 2^32.
func ExecuteALU(d DecodedInst) uint32 {
	isReg := d.IsRegisterOp()

	op1 := d.Rs1Value
	op2 := d.Imm()
	if isReg {
		op2 = d.Rs2Value
	}

	switch insts.Funct3(d.Funct3) {
	case insts.Funct3AddSub:
		if isReg && d.IsAlternate() {
			return op1 - op2
		}
		return op1 + op2
	case insts.Funct3SLL:
		return op1 << (op2 & 0x1F)
	case insts.Funct3SLT:
		return boolToWord(int32(op1) < int32(op2))
	case insts.Funct3SLTU:
		return boolToWord(op1 < op2)
	case insts.Funct3XOR:
		return op1 ^ op2
	case insts.Funct3SrlSra:
		shamt := op2 & 0x1F
		if d.IsAlternate() {
			return uint32(int32(op1) >> shamt)
		}
		return op1 >> shamt
	case insts.Funct3OR:
		return op1 | op2
	default: // Funct3AND
		return op1 & op2
	}
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
