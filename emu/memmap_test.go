package emu_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/emu"
)

var _ = Describe("MemoryMap", func() {
	It("should have a valid default layout", func() {
		m := emu.DefaultMemoryMap()

		Expect(m.Validate()).To(Succeed())
		Expect(m.ROMBase).To(Equal(uint32(0x10000000)))
		Expect(m.InROM(0x10000000)).To(BeTrue())
		Expect(m.InROM(m.ROMBase + m.ROMSize)).To(BeFalse())
		Expect(m.InRAM(0x20000000)).To(BeTrue())
		Expect(m.InRAM(0x10000000)).To(BeFalse())
	})

	DescribeTable("Validate",
		func(mutate func(*emu.MemoryMap), want string) {
			m := emu.DefaultMemoryMap()
			mutate(m)

			Expect(m.Validate()).To(MatchError(ContainSubstring(want)))
		},
		Entry("empty rom", func(m *emu.MemoryMap) { m.ROMSize = 0 }, "rom_size"),
		Entry("empty ram", func(m *emu.MemoryMap) { m.RAMSize = 0 }, "ram_size"),
		Entry("huge rom", func(m *emu.MemoryMap) { m.ROMSize = 0xFFFFFFFC }, "rom_size 0xfffffffc exceeds"),
		Entry("huge ram", func(m *emu.MemoryMap) { m.RAMSize = emu.MaxRegionSize + 4 }, "ram_size"),
		Entry("unaligned rom base", func(m *emu.MemoryMap) { m.ROMBase = 0x10000002 }, "rom range"),
		Entry("unaligned ram size", func(m *emu.MemoryMap) { m.RAMSize = 6 }, "ram range"),
		Entry("ram past 4GiB", func(m *emu.MemoryMap) {
			m.RAMBase = 0xFFFFFF00
			m.RAMSize = 0x200
		}, "32-bit"),
		Entry("overlapping ranges", func(m *emu.MemoryMap) {
			m.RAMBase = m.ROMBase + m.ROMSize - 4
		}, "overlaps"),
	)

	It("should allow ranges of exactly MaxRegionSize", func() {
		m := &emu.MemoryMap{
			ROMBase: 0,
			ROMSize: emu.MaxRegionSize,
			RAMBase: 0x80000000,
			RAMSize: emu.MaxRegionSize,
		}

		Expect(m.Validate()).To(Succeed())
	})

	It("should allow adjacent ranges", func() {
		m := emu.DefaultMemoryMap()
		m.RAMBase = m.ROMBase + m.ROMSize

		Expect(m.Validate()).To(Succeed())
	})

	Describe("config files", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should round-trip through Save and LoadMemoryMap", func() {
			m := emu.DefaultMemoryMap()
			m.RAMBase = 0x80000000
			path := filepath.Join(dir, "map.json")

			Expect(m.Save(path)).To(Succeed())
			loaded, err := emu.LoadMemoryMap(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(m))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(dir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"ram_size": 1024}`), 0644)).To(Succeed())

			loaded, err := emu.LoadMemoryMap(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.RAMSize).To(Equal(uint32(1024)))
			Expect(loaded.ROMBase).To(Equal(emu.DefaultROMBase))
		})

		It("should reject invalid layouts", func() {
			path := filepath.Join(dir, "bad.json")
			Expect(os.WriteFile(path, []byte(`{"rom_size": 0}`), 0644)).To(Succeed())

			_, err := emu.LoadMemoryMap(path)
			Expect(err).To(HaveOccurred())
		})

		It("should report missing files", func() {
			_, err := emu.LoadMemoryMap(filepath.Join(dir, "missing.json"))
			Expect(err).To(MatchError(ContainSubstring("failed to read")))
		})
	})

	It("should clone independently", func() {
		m := emu.DefaultMemoryMap()
		c := m.Clone()
		c.ROMBase = 0

		Expect(m.ROMBase).To(Equal(emu.DefaultROMBase))
	})
})
