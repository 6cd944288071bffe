package core

import (
	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/timing/pipeline"
)

// Snapshot is a plain copy of the externally visible machine state.
type Snapshot struct {
	Phase       string
	PC          uint32
	Instruction uint32
	Disasm      string
	Decoded     pipeline.DecodedInst
	Executed    pipeline.ExecResult
	Memory      pipeline.ExecResult
	Retired     pipeline.Retired
	Registers   [emu.NumRegs]uint32
	Stats       Stats
}

// Snapshot captures the current state.
func (c *Core) Snapshot() Snapshot {
	p := c.Pipeline
	decoded := p.Decode().DecodedOut()

	return Snapshot{
		Phase:       p.Phase().String(),
		PC:          p.PC(),
		Instruction: p.Fetch().InstructionOut(),
		Disasm:      decoded.String(),
		Decoded:     decoded,
		Executed:    p.Execute().ExecOut(),
		Memory:      p.Memory().MemoryOut(),
		Retired:     p.Writeback().RetiredOut(),
		Registers:   c.regFile.Snapshot(),
		Stats:       c.Stats(),
	}
}
