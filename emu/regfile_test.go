package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/emu"
)

var _ = Describe("Register", func() {
	It("should store and return a value", func() {
		r := emu.NewRegister(7)
		Expect(r.Get()).To(Equal(uint32(7)))

		r.Set(0xFFFFFFFF)
		Expect(r.Get()).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("should wrap when callers overflow the value", func() {
		r := emu.NewRegister(0xFFFFFFFF)
		r.Set(r.Get() + 2)
		Expect(r.Get()).To(Equal(uint32(1)))
	})
})

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	It("should read x0 as zero after a write to x0", func() {
		regFile.WriteReg(0, 0xDEADBEEF)

		Expect(regFile.ReadReg(0)).To(Equal(uint32(0)))
	})

	It("should read back writes to x1-x31", func() {
		for i := uint8(1); i < emu.NumRegs; i++ {
			regFile.WriteReg(i, uint32(i)*0x01010101)
		}

		for i := uint8(1); i < emu.NumRegs; i++ {
			Expect(regFile.ReadReg(i)).To(Equal(uint32(i) * 0x01010101))
		}
	})

	It("should ignore out-of-range indices", func() {
		regFile.WriteReg(32, 5)

		Expect(regFile.ReadReg(32)).To(Equal(uint32(0)))
		Expect(regFile.Snapshot()).To(Equal([emu.NumRegs]uint32{}))
	})

	It("should snapshot visible values with x0 forced to zero", func() {
		regFile.WriteReg(0, 9)
		regFile.WriteReg(31, 42)

		snap := regFile.Snapshot()
		Expect(snap[0]).To(Equal(uint32(0)))
		Expect(snap[31]).To(Equal(uint32(42)))
	})

	It("should clear every register on reset", func() {
		regFile.WriteReg(5, 1)
		regFile.Reset()

		Expect(regFile.ReadReg(5)).To(Equal(uint32(0)))
	})
})
