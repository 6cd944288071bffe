package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/insts"
)

var _ = Describe("Encoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	It("should encode the reference ADDI/ADD/SUB words", func() {
		Expect(insts.ADDI(3, 1, -1)).To(Equal(uint32(0xFFF08193)))
		Expect(insts.ADD(4, 1, 2)).To(Equal(uint32(0x00208233)))
		Expect(insts.SUB(5, 1, 2)).To(Equal(uint32(0x402082B3)))
	})

	It("should truncate immediates to 12 bits", func() {
		inst := decoder.Decode(insts.ADDI(1, 0, 0x1801))

		Expect(inst.Imm12).To(Equal(uint16(0x801)))
	})

	DescribeTable("register forms decode back to the same operation",
		func(op insts.Op) {
			inst := decoder.Decode(insts.ALU(op, 7, 8, 9))

			Expect(inst.Op).To(Equal(op))
			Expect(inst.Format).To(Equal(insts.FormatR))
			Expect(inst.Rd).To(Equal(uint8(7)))
			Expect(inst.Rs1).To(Equal(uint8(8)))
			Expect(inst.Rs2).To(Equal(uint8(9)))
		},
		Entry("add", insts.OpADD),
		Entry("sub", insts.OpSUB),
		Entry("sll", insts.OpSLL),
		Entry("slt", insts.OpSLT),
		Entry("sltu", insts.OpSLTU),
		Entry("xor", insts.OpXOR),
		Entry("srl", insts.OpSRL),
		Entry("sra", insts.OpSRA),
		Entry("or", insts.OpOR),
		Entry("and", insts.OpAND),
	)

	DescribeTable("immediate forms decode back to the same operation",
		func(op insts.Op, imm int32) {
			inst := decoder.Decode(insts.ALUImm(op, 7, 8, imm))

			Expect(inst.Op).To(Equal(op))
			Expect(inst.Format).To(Equal(insts.FormatI))
		},
		Entry("addi", insts.OpADD, int32(-5)),
		Entry("slli", insts.OpSLL, int32(4)),
		Entry("slti", insts.OpSLT, int32(-1)),
		Entry("sltiu", insts.OpSLTU, int32(1)),
		Entry("xori", insts.OpXOR, int32(0x7FF)),
		Entry("srli", insts.OpSRL, int32(31)),
		Entry("srai", insts.OpSRA, int32(31)),
		Entry("ori", insts.OpOR, int32(-2048)),
		Entry("andi", insts.OpAND, int32(0xF)),
	)
})
