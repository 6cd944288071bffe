package benchmarks

import (
	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
)

// GetMicrobenchmarks returns the standard set of microbenchmarks.
// Each one targets a group of ALU operations and checks final register
// values.
//
// All programs are straight-line code since the core has no branches.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		referenceSequence(),
		arithmeticSequential(),
		dependencyChain(),
		fibonacci(),
		logicMix(),
		shiftMix(),
		compareMix(),
		zeroRegisterSink(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		referenceSequence(),
		dependencyChain(),
		fibonacci(),
	}
}

// 1. Reference Sequence - addi/add/sub on fixed operands
func referenceSequence() Benchmark {
	return Benchmark{
		Name:        "reference_sequence",
		Description: "addi, add and sub on two preloaded registers",
		Setup: func(regFile *emu.RegFile) {
			regFile.WriteReg(1, 0x01020304)
			regFile.WriteReg(2, 0x02030405)
		},
		Program: []uint32{
			insts.ADDI(3, 1, -1),
			insts.ADD(4, 1, 2),
			insts.SUB(5, 1, 2),
		},
		Expected: map[uint8]uint32{
			3: 0x01020303,
			4: 0x03050709,
			5: 0xFEFEFEFF,
		},
	}
}

// 2. Arithmetic Sequential - independent immediate adds
func arithmeticSequential() Benchmark {
	program := make([]uint32, 0, 20)
	for round := 0; round < 4; round++ {
		for rd := uint8(1); rd <= 5; rd++ {
			program = append(program, insts.ADDI(rd, rd, 1))
		}
	}

	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "20 independent ADDI operations across 5 registers",
		Program:     program,
		Expected: map[uint8]uint32{
			1: 4, 2: 4, 3: 4, 4: 4, 5: 4,
		},
	}
}

// 3. Dependency Chain - every instruction reads the previous result
func dependencyChain() Benchmark {
	return Benchmark{
		Name:        "dependency_chain",
		Description: "20 dependent ADDIs (x1 = x1 + 1)",
		Program:     buildDependencyChain(20),
		Expected:    map[uint8]uint32{1: 20},
	}
}

func buildDependencyChain(n int) []uint32 {
	program := make([]uint32, n)
	for i := range program {
		program[i] = insts.ADDI(1, 1, 1)
	}
	return program
}

// 4. Fibonacci - unrolled pairwise adds
func fibonacci() Benchmark {
	program := make([]uint32, 0, 16)
	for i := 0; i < 8; i++ {
		program = append(program,
			insts.ADD(1, 1, 2),
			insts.ADD(2, 1, 2),
		)
	}

	return Benchmark{
		Name:        "fibonacci",
		Description: "16 unrolled ADDs computing fib(16) and fib(17)",
		Setup: func(regFile *emu.RegFile) {
			regFile.WriteReg(2, 1)
		},
		Program:  program,
		Expected: map[uint8]uint32{1: 987, 2: 1597},
	}
}

// 5. Logic Mix - and/or/xor in both forms
func logicMix() Benchmark {
	return Benchmark{
		Name:        "logic_mix",
		Description: "AND, OR, XOR and their immediate forms",
		Setup: func(regFile *emu.RegFile) {
			regFile.WriteReg(1, 0xF0F0F0F0)
			regFile.WriteReg(2, 0x0FF00FF0)
		},
		Program: []uint32{
			insts.ALU(insts.OpAND, 3, 1, 2),
			insts.ALU(insts.OpOR, 4, 1, 2),
			insts.ALU(insts.OpXOR, 5, 1, 2),
			insts.ALUImm(insts.OpAND, 6, 1, 0x0FF),
			insts.ALUImm(insts.OpOR, 7, 0, -1),
			insts.ALUImm(insts.OpXOR, 8, 1, -1),
		},
		Expected: map[uint8]uint32{
			3: 0x00F000F0,
			4: 0xFFF0FFF0,
			5: 0xFF00FF00,
			6: 0x000000F0,
			7: 0xFFFFFFFF,
			8: 0x0F0F0F0F,
		},
	}
}

// 6. Shift Mix - logical and arithmetic shifts
func shiftMix() Benchmark {
	return Benchmark{
		Name:        "shift_mix",
		Description: "SLL, SRL, SRA and their immediate forms",
		Setup: func(regFile *emu.RegFile) {
			regFile.WriteReg(1, 0x80000001)
			regFile.WriteReg(2, 4)
		},
		Program: []uint32{
			insts.ALU(insts.OpSLL, 3, 1, 2),
			insts.ALU(insts.OpSRL, 4, 1, 2),
			insts.ALU(insts.OpSRA, 5, 1, 2),
			insts.ALUImm(insts.OpSLL, 6, 1, 31),
			insts.ALUImm(insts.OpSRL, 7, 1, 31),
			insts.ALUImm(insts.OpSRA, 8, 1, 31),
		},
		Expected: map[uint8]uint32{
			3: 0x00000010,
			4: 0x08000000,
			5: 0xF8000000,
			6: 0x80000000,
			7: 0x00000001,
			8: 0xFFFFFFFF,
		},
	}
}

// 7. Compare Mix - signed and unsigned set-less-than
func compareMix() Benchmark {
	return Benchmark{
		Name:        "compare_mix",
		Description: "SLT, SLTU, SLTI and SLTIU on signed boundaries",
		Setup: func(regFile *emu.RegFile) {
			regFile.WriteReg(1, 0xFFFFFFFF)
			regFile.WriteReg(2, 1)
		},
		Program: []uint32{
			insts.ALU(insts.OpSLT, 3, 1, 2),
			insts.ALU(insts.OpSLTU, 4, 1, 2),
			insts.ALUImm(insts.OpSLT, 5, 2, -1),
			insts.ALUImm(insts.OpSLTU, 6, 2, -1),
			insts.ALUImm(insts.OpSLTU, 7, 0, 1),
			insts.ALU(insts.OpSLT, 8, 2, 1),
		},
		Expected: map[uint8]uint32{
			3: 1,
			4: 0,
			5: 0,
			6: 1,
			7: 1,
			8: 0,
		},
	}
}

// 8. Zero Register Sink - writes to x0 are discarded
func zeroRegisterSink() Benchmark {
	return Benchmark{
		Name:        "zero_register_sink",
		Description: "results targeting x0 are dropped",
		Setup: func(regFile *emu.RegFile) {
			regFile.WriteReg(1, 3)
		},
		Program: []uint32{
			insts.ADDI(0, 1, 5),
			insts.ADD(0, 1, 1),
			insts.ADDI(2, 0, 7),
		},
		Expected: map[uint8]uint32{0: 0, 2: 7},
	}
}
