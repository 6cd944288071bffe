// Package insts provides RV32 integer instruction definitions and decoding.
//
// This package implements bit-exact field extraction for 32-bit RISC-V
// instruction words and classification of the integer ALU group:
//   - OP-IMM (register-immediate): ADDI, SLTI, SLTIU, XORI, ORI, ANDI, SLLI, SRLI, SRAI
//   - OP (register-register): ADD, SUB, SLL, SLT, SLTU, XOR, SRL, SRA, OR, AND
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0xfff08193) // addi x3, x1, -1
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, int32(inst.Imm()))
package insts
