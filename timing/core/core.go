// Package core provides the top-level RV32 system model.
// It owns the register file, ROM, RAM, bus and the five-stage pipeline and
// exposes side-effect-free inspection of registers and memory.
package core

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/timing/pipeline"
)

// CyclesPerInstruction is the number of cycles one instruction spends going
// through Fetch, Decode, Execute, Memory and Writeback.
const CyclesPerInstruction = 5

// Stats holds statistics for the core.
type Stats struct {
	// Cycles is the total number of completed cycles.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// RegWrites is the number of register file writes.
	RegWrites uint64
	// Faults is the number of bus faults raised.
	Faults uint64
}

// CoreOption is a functional option for configuring the Core.
type CoreOption func(*Core)

// WithMemoryMap sets the ROM/RAM layout. The map must pass Validate.
func WithMemoryMap(m *emu.MemoryMap) CoreOption {
	return func(c *Core) {
		c.memMap = m.Clone()
	}
}

// WithLogger sets the logger passed to the pipeline.
func WithLogger(logger logrus.FieldLogger) CoreOption {
	return func(c *Core) {
		c.logger = logger
	}
}

// WithAccessObserver attaches an observer to the bus, e.g. a
// cache.Profiler.
func WithAccessObserver(o emu.AccessObserver) CoreOption {
	return func(c *Core) {
		c.observer = o
	}
}

// Core represents the whole simulated system.
type Core struct {
	// Pipeline is the underlying five-stage engine.
	Pipeline *pipeline.Pipeline

	// Shared resources
	regFile *emu.RegFile
	rom     *emu.ROM
	ram     *emu.RAM
	bus     *emu.Bus

	memMap   *emu.MemoryMap
	observer emu.AccessObserver
	logger   logrus.FieldLogger
}

// NewCore creates a core. It fails only if the memory map is invalid.
func NewCore(opts ...CoreOption) (*Core, error) {
	c := &Core{
		memMap: emu.DefaultMemoryMap(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.memMap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid memory map: %w", err)
	}

	if c.logger == nil {
		c.logger = logrus.StandardLogger()
	}

	c.regFile = &emu.RegFile{}
	c.rom = emu.NewROM(c.memMap.ROMBase, c.memMap.ROMSize)
	c.ram = emu.NewRAM(c.memMap.RAMBase, c.memMap.RAMSize)
	c.bus = emu.NewBus(c.rom, c.ram)
	if c.observer != nil {
		c.bus.SetObserver(c.observer)
	}

	c.Pipeline = pipeline.NewPipeline(
		c.regFile,
		c.bus,
		pipeline.WithResetPC(c.memMap.ROMBase),
		pipeline.WithLogger(c.logger),
	)

	return c, nil
}

// MemoryMap returns a copy of the address layout.
func (c *Core) MemoryMap() *emu.MemoryMap {
	return c.memMap.Clone()
}

// RegFile returns the register file.
func (c *Core) RegFile() *emu.RegFile {
	return c.regFile
}

// Bus returns the system bus.
func (c *Core) Bus() *emu.Bus {
	return c.bus
}

// ROM returns the program ROM.
func (c *Core) ROM() *emu.ROM {
	return c.rom
}

// RAM returns the data RAM.
func (c *Core) RAM() *emu.RAM {
	return c.ram
}

// LoadProgram replaces the ROM image. Word 0 lands at the ROM base.
func (c *Core) LoadProgram(words []uint32) error {
	if err := c.rom.Load(words); err != nil {
		return fmt.Errorf("load program: %w", err)
	}
	return nil
}

// ReadReg returns register i without touching the pipeline.
func (c *Core) ReadReg(i uint8) uint32 {
	return c.regFile.ReadReg(i)
}

// ReadBus returns the word at addr without notifying bus observers.
func (c *Core) ReadBus(addr uint32) (uint32, error) {
	return c.bus.Peek(addr)
}

// Cycle executes one cycle.
func (c *Core) Cycle() error {
	return c.Pipeline.Tick()
}

// RunCycles executes the given number of cycles, stopping at the first
// fault.
func (c *Core) RunCycles(cycles uint64) error {
	return c.Pipeline.RunCycles(cycles)
}

// RunInstructions executes n complete instructions.
func (c *Core) RunInstructions(n uint64) error {
	return c.Pipeline.RunCycles(n * CyclesPerInstruction)
}

// Stats returns statistics for the core.
func (c *Core) Stats() Stats {
	s := c.Pipeline.Stats()
	return Stats{
		Cycles:       s.Cycles,
		Instructions: s.Instructions,
		RegWrites:    s.RegWrites,
		Faults:       s.Faults,
	}
}

// Reset clears the registers, RAM and pipeline state. The ROM image is
// kept.
func (c *Core) Reset() {
	c.regFile.Reset()
	c.ram.Reset()
	c.Pipeline.Reset()
}
