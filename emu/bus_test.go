package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/emu"
)

type recordingObserver struct {
	kinds []emu.AccessKind
	addrs []uint32
}

func (o *recordingObserver) ObserveAccess(kind emu.AccessKind, addr uint32) {
	o.kinds = append(o.kinds, kind)
	o.addrs = append(o.addrs, addr)
}

var _ = Describe("Devices", func() {
	Describe("ROM", func() {
		var rom *emu.ROM

		BeforeEach(func() {
			rom = emu.NewROM(0x1000, 16)
		})

		It("should place image words sequentially from the base", func() {
			Expect(rom.Load([]uint32{0xDEADBEEF, 0xC0DECAFE})).To(Succeed())

			Expect(rom.Read(0x1000)).To(Equal(uint32(0xDEADBEEF)))
			Expect(rom.Read(0x1004)).To(Equal(uint32(0xC0DECAFE)))
			Expect(rom.Read(0x1008)).To(Equal(uint32(0)))
			Expect(rom.Len()).To(Equal(2))
		})

		It("should replace the whole image on reload", func() {
			Expect(rom.Load([]uint32{1, 2, 3})).To(Succeed())
			Expect(rom.Load([]uint32{4})).To(Succeed())

			Expect(rom.Read(0x1000)).To(Equal(uint32(4)))
			Expect(rom.Read(0x1004)).To(Equal(uint32(0)))
			Expect(rom.Read(0x1008)).To(Equal(uint32(0)))
		})

		It("should accept an image that exactly fills the ROM", func() {
			Expect(rom.Load([]uint32{1, 2, 3, 4})).To(Succeed())
			Expect(rom.Read(0x100C)).To(Equal(uint32(4)))
		})

		It("should reject an image larger than the ROM", func() {
			err := rom.Load([]uint32{1, 2, 3, 4, 5})

			Expect(err).To(MatchError(emu.ErrImageTooLarge))

			var accessErr *emu.AccessError
			Expect(errors.As(err, &accessErr)).To(BeTrue())
			Expect(accessErr.Addr).To(Equal(uint32(0x1000)))
			Expect(err.Error()).To(HavePrefix("rom write at 0x00001000"))
		})

		It("should reject unaligned and out-of-range reads", func() {
			_, err := rom.Read(0x1002)
			Expect(err).To(MatchError(emu.ErrUnalignedAccess))

			_, err = rom.Read(0x1010)
			Expect(err).To(MatchError(emu.ErrOutOfRange))
		})

		It("should reject writes", func() {
			Expect(rom.Write(0x1000, 1)).To(MatchError(emu.ErrReadOnly))
		})
	})

	Describe("RAM", func() {
		var ram *emu.RAM

		BeforeEach(func() {
			ram = emu.NewRAM(0x2000, 16)
		})

		It("should read back written words", func() {
			Expect(ram.Write(0x2004, 0x12345678)).To(Succeed())

			Expect(ram.Read(0x2004)).To(Equal(uint32(0x12345678)))
			Expect(ram.Read(0x2000)).To(Equal(uint32(0)))
		})

		It("should reject bad addresses", func() {
			Expect(ram.Write(0x2001, 1)).To(MatchError(emu.ErrUnalignedAccess))
			Expect(ram.Write(0x2010, 1)).To(MatchError(emu.ErrOutOfRange))
			Expect(ram.Write(0x1FFC, 1)).To(MatchError(emu.ErrOutOfRange))
		})

		It("should zero storage on reset", func() {
			Expect(ram.Write(0x2000, 1)).To(Succeed())
			ram.Reset()

			Expect(ram.Read(0x2000)).To(Equal(uint32(0)))
		})
	})
})

var _ = Describe("Bus", func() {
	var (
		memMap *emu.MemoryMap
		rom    *emu.ROM
		ram    *emu.RAM
		bus    *emu.Bus
	)

	BeforeEach(func() {
		memMap = emu.DefaultMemoryMap()
		rom = emu.NewROM(memMap.ROMBase, memMap.ROMSize)
		ram = emu.NewRAM(memMap.RAMBase, memMap.RAMSize)
		bus = emu.NewBus(rom, ram)
	})

	It("should route ROM-range reads to the program image", func() {
		image := []uint32{0xDEADBEEF, 0xC0DECAFE}
		Expect(rom.Load(image)).To(Succeed())

		for i, want := range image {
			Expect(bus.Read(memMap.ROMBase + uint32(i)*4)).To(Equal(want))
		}
		Expect(bus.Read(memMap.ROMBase + 8)).To(Equal(uint32(0)))
	})

	It("should route RAM-range accesses to the RAM", func() {
		Expect(bus.Write(memMap.RAMBase+0x40, 0x12345678)).To(Succeed())

		Expect(bus.Read(memMap.RAMBase + 0x40)).To(Equal(uint32(0x12345678)))
		Expect(ram.Read(memMap.RAMBase + 0x40)).To(Equal(uint32(0x12345678)))
	})

	It("should reject writes anywhere in the ROM range", func() {
		for _, addr := range []uint32{
			memMap.ROMBase,
			memMap.ROMBase + 4,
			memMap.ROMBase + memMap.ROMSize - 4,
		} {
			Expect(bus.Write(addr, 1)).To(MatchError(emu.ErrReadOnly))
		}
	})

	It("should report unmapped addresses", func() {
		for _, addr := range []uint32{
			0,
			memMap.ROMBase - 4,
			memMap.ROMBase + memMap.ROMSize,
			memMap.RAMBase + memMap.RAMSize,
			0xFFFFFFFC,
		} {
			_, err := bus.Read(addr)
			Expect(err).To(MatchError(emu.ErrUnmappedAddress))
			Expect(errors.Is(err, emu.ErrOutOfRange)).To(BeTrue())

			Expect(bus.Write(addr, 1)).To(MatchError(emu.ErrUnmappedAddress))
		}
	})

	It("should check alignment before routing", func() {
		for _, addr := range []uint32{
			memMap.ROMBase + 1,
			memMap.RAMBase + 2,
			3,
		} {
			_, err := bus.Read(addr)
			Expect(err).To(MatchError(emu.ErrUnalignedAccess))
			Expect(bus.Write(addr, 1)).To(MatchError(emu.ErrUnalignedAccess))
		}
	})

	It("should report the failing address and operation", func() {
		err := bus.Write(memMap.ROMBase, 1)

		var accessErr *emu.AccessError
		Expect(errors.As(err, &accessErr)).To(BeTrue())
		Expect(accessErr.Op).To(Equal(emu.AccessWrite))
		Expect(accessErr.Addr).To(Equal(memMap.ROMBase))
		Expect(err.Error()).To(ContainSubstring("0x10000000"))
	})

	Context("with an observer", func() {
		var observer *recordingObserver

		BeforeEach(func() {
			observer = &recordingObserver{}
			bus.SetObserver(observer)
		})

		It("should notify successful reads and writes", func() {
			_, err := bus.Read(memMap.ROMBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(bus.Write(memMap.RAMBase, 1)).To(Succeed())

			Expect(observer.kinds).To(Equal([]emu.AccessKind{emu.AccessRead, emu.AccessWrite}))
			Expect(observer.addrs).To(Equal([]uint32{memMap.ROMBase, memMap.RAMBase}))
		})

		It("should not notify failed accesses", func() {
			_, _ = bus.Read(0)
			_ = bus.Write(memMap.ROMBase, 1)

			Expect(observer.kinds).To(BeEmpty())
		})

		It("should not notify peeks", func() {
			Expect(bus.Peek(memMap.RAMBase)).To(Equal(uint32(0)))

			Expect(observer.kinds).To(BeEmpty())
		})
	})
})
