package emu

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default address ranges.
const (
	DefaultROMBase uint32 = 0x10000000
	DefaultROMSize uint32 = 1 << 20 // 1 MiB
	DefaultRAMBase uint32 = 0x20000000
	DefaultRAMSize uint32 = 4 << 20 // 4 MiB

	// MaxRegionSize bounds each range. Devices allocate their full size
	// up front.
	MaxRegionSize uint32 = 256 << 20
)

// MemoryMap holds the ROM and RAM address ranges.
type MemoryMap struct {
	// ROMBase is the address of the first program word.
	ROMBase uint32 `json:"rom_base"`

	// ROMSize is the ROM size in bytes.
	ROMSize uint32 `json:"rom_size"`

	// RAMBase is the address of the first data word.
	RAMBase uint32 `json:"ram_base"`

	// RAMSize is the RAM size in bytes.
	RAMSize uint32 `json:"ram_size"`
}

// DefaultMemoryMap returns the default ROM/RAM layout.
func DefaultMemoryMap() *MemoryMap {
	return &MemoryMap{
		ROMBase: DefaultROMBase,
		ROMSize: DefaultROMSize,
		RAMBase: DefaultRAMBase,
		RAMSize: DefaultRAMSize,
	}
}

// LoadMemoryMap loads a MemoryMap from a JSON file. Fields missing from the
// file keep their default values.
func LoadMemoryMap(path string) (*MemoryMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory map file: %w", err)
	}

	m := DefaultMemoryMap()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse memory map: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid memory map %s: %w", path, err)
	}

	return m, nil
}

// Save writes the MemoryMap to a JSON file.
func (m *MemoryMap) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize memory map: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write memory map file: %w", err)
	}

	return nil
}

// Validate checks that both ranges are word aligned, non-empty, at most
// MaxRegionSize, inside the 32-bit address space and disjoint.
func (m *MemoryMap) Validate() error {
	if m.ROMSize == 0 {
		return fmt.Errorf("rom_size must be > 0")
	}
	if m.RAMSize == 0 {
		return fmt.Errorf("ram_size must be > 0")
	}
	if m.ROMSize > MaxRegionSize {
		return fmt.Errorf("rom_size 0x%x exceeds the 0x%x limit", m.ROMSize, MaxRegionSize)
	}
	if m.RAMSize > MaxRegionSize {
		return fmt.Errorf("ram_size 0x%x exceeds the 0x%x limit", m.RAMSize, MaxRegionSize)
	}
	if m.ROMBase%4 != 0 || m.ROMSize%4 != 0 {
		return fmt.Errorf("rom range must be word aligned")
	}
	if m.RAMBase%4 != 0 || m.RAMSize%4 != 0 {
		return fmt.Errorf("ram range must be word aligned")
	}

	romEnd := uint64(m.ROMBase) + uint64(m.ROMSize)
	ramEnd := uint64(m.RAMBase) + uint64(m.RAMSize)
	if romEnd > 1<<32 {
		return fmt.Errorf("rom range exceeds the 32-bit address space")
	}
	if ramEnd > 1<<32 {
		return fmt.Errorf("ram range exceeds the 32-bit address space")
	}

	if uint64(m.ROMBase) < ramEnd && uint64(m.RAMBase) < romEnd {
		return fmt.Errorf("rom [0x%08x, 0x%x) overlaps ram [0x%08x, 0x%x)",
			m.ROMBase, romEnd, m.RAMBase, ramEnd)
	}

	return nil
}

// InROM reports whether addr lies in the ROM range.
func (m *MemoryMap) InROM(addr uint32) bool {
	return inRange(addr, m.ROMBase, m.ROMSize)
}

// InRAM reports whether addr lies in the RAM range.
func (m *MemoryMap) InRAM(addr uint32) bool {
	return inRange(addr, m.RAMBase, m.RAMSize)
}

// Clone returns a copy of the MemoryMap.
func (m *MemoryMap) Clone() *MemoryMap {
	c := *m
	return &c
}

func inRange(addr, base, size uint32) bool {
	return addr >= base && uint64(addr) < uint64(base)+uint64(size)
}
