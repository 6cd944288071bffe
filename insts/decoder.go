// Package insts provides RV32 integer instruction definitions and decoding.
package insts

import "fmt"

// Major opcodes of the integer ALU group.
const (
	OpcodeOpImm uint8 = 0b0010011 // register-immediate
	OpcodeOp    uint8 = 0b0110011 // register-register

	// ALUOpcodeMask drops opcode bit 5, which is the only bit separating
	// OP from OP-IMM.
	ALUOpcodeMask uint8 = 0b1011111
)

// Funct3 selects the operation within the ALU group.
type Funct3 uint8

// ALU funct3 codes. ADD/SUB and SRL/SRA share a code and are told apart by
// the alternate bit (instruction bit 30).
const (
	Funct3AddSub Funct3 = 0b000
	Funct3SLL    Funct3 = 0b001
	Funct3SLT    Funct3 = 0b010
	Funct3SLTU   Funct3 = 0b011
	Funct3XOR    Funct3 = 0b100
	Funct3SrlSra Funct3 = 0b101
	Funct3OR     Funct3 = 0b110
	Funct3AND    Funct3 = 0b111
)

// Op represents a decoded operation.
type Op uint8

// Operations.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
)

var opNames = [...]string{
	OpUnknown: "unknown",
	OpADD:     "add",
	OpSUB:     "sub",
	OpSLL:     "sll",
	OpSLT:     "slt",
	OpSLTU:    "sltu",
	OpXOR:     "xor",
	OpSRL:     "srl",
	OpSRA:     "sra",
	OpOR:      "or",
	OpAND:     "and",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatI              // OP-IMM
	FormatR              // OP
)

// Instruction holds the fields of one instruction word.
type Instruction struct {
	Word uint32 // Raw instruction word

	Op     Op     // Operation (ALU group only)
	Format Format // Encoding format

	Opcode uint8  // bits [6:0]
	Rd     uint8  // bits [11:7]
	Funct3 uint8  // bits [14:12]
	Rs1    uint8  // bits [19:15]
	Rs2    uint8  // bits [24:20]
	Imm12  uint16 // bits [31:20], immediate and funct7 carrier
	Funct7 uint8  // bits [31:25]
	Shamt  uint8  // bits [24:20], same field as Rs2
}

// IsALU reports whether the opcode belongs to the OP or OP-IMM group.
func (i Instruction) IsALU() bool {
	return i.Opcode&ALUOpcodeMask == OpcodeOpImm
}

// IsRegisterOp reports whether the instruction takes its second operand
// from a register (opcode bit 5).
func (i Instruction) IsRegisterOp() bool {
	return (i.Opcode>>5)&1 == 1
}

// IsAlternate reports whether the alternate bit (instruction bit 30) is set.
// It selects SUB over ADD and SRA over SRL.
func (i Instruction) IsAlternate() bool {
	return (i.Imm12>>10)&1 == 1
}

// Imm returns the 12-bit immediate sign-extended to 32 bits.
func (i Instruction) Imm() uint32 {
	return SignExtend(uint32(i.Imm12), 12)
}

// SignExtend replicates bit (bits-1) of value across the upper bits.
func SignExtend(value uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(value<<shift) >> shift)
}

// Decoder decodes RV32 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode extracts every field of a 32-bit instruction word.
func (d *Decoder) Decode(word uint32) Instruction {
	inst := Instruction{
		Word:   word,
		Opcode: uint8(word & 0x7F),
		Rd:     uint8((word >> 7) & 0x1F),
		Funct3: uint8((word >> 12) & 0x7),
		Rs1:    uint8((word >> 15) & 0x1F),
		Rs2:    uint8((word >> 20) & 0x1F),
		Imm12:  uint16(word >> 20),
		Funct7: uint8(word >> 25),
	}
	inst.Shamt = inst.Rs2

	switch inst.Opcode {
	case OpcodeOpImm:
		inst.Format = FormatI
		inst.Op = d.aluOp(inst, false)
	case OpcodeOp:
		inst.Format = FormatR
		inst.Op = d.aluOp(inst, true)
	}

	return inst
}

func (d *Decoder) aluOp(inst Instruction, isReg bool) Op {
	switch Funct3(inst.Funct3) {
	case Funct3AddSub:
		if isReg && inst.IsAlternate() {
			return OpSUB
		}
		return OpADD
	case Funct3SLL:
		return OpSLL
	case Funct3SLT:
		return OpSLT
	case Funct3SLTU:
		return OpSLTU
	case Funct3XOR:
		return OpXOR
	case Funct3SrlSra:
		if inst.IsAlternate() {
			return OpSRA
		}
		return OpSRL
	case Funct3OR:
		return OpOR
	default:
		return OpAND
	}
}

// String disassembles the instruction, e.g. "addi x3, x1, -1".
func (i Instruction) String() string {
	switch i.Format {
	case FormatR:
		return fmt.Sprintf("%s x%d, x%d, x%d", i.Op, i.Rd, i.Rs1, i.Rs2)
	case FormatI:
		switch i.Op {
		case OpSLL, OpSRL, OpSRA:
			return fmt.Sprintf("%si x%d, x%d, %d", i.Op, i.Rd, i.Rs1, i.Shamt)
		case OpSLTU:
			return fmt.Sprintf("sltiu x%d, x%d, %d", i.Rd, i.Rs1, int32(i.Imm()))
		default:
			return fmt.Sprintf("%si x%d, x%d, %d", i.Op, i.Rd, i.Rs1, int32(i.Imm()))
		}
	default:
		return fmt.Sprintf(".word 0x%08x", i.Word)
	}
}
