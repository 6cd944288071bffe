// Package pipeline provides the five-stage compute/latch engine.
package pipeline

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rvsim/emu"
)

// Statistics holds pipeline statistics.
type Statistics struct {
	// Cycles is the number of completed cycles.
	Cycles uint64
	// Instructions is the number of instructions retired by Write-Back.
	Instructions uint64
	// RegWrites is the number of retirements that wrote the register file.
	RegWrites uint64
	// Faults is the number of cycles abandoned because of a bus fault.
	Faults uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithResetPC sets the address of the first fetch.
func WithResetPC(pc uint32) PipelineOption {
	return func(p *Pipeline) {
		p.resetPC = pc
	}
}

// WithLogger sets the logger used for cycle tracing and fault reports.
func WithLogger(logger logrus.FieldLogger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline wires Fetch -> Decode -> Execute -> Memory -> Writeback and
// drives them with a shared phase sequencer.
//
// Each Tick calls Compute on all five stages in order, then LatchNext on all
// five, then advances the phase. Only the stage owning the current phase
// is unstalled, so an instruction takes five ticks and instructions never
// overlap.
type Pipeline struct {
	sequencer *Sequencer

	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage
	stages         []Stage

	// Shared resources
	regFile *emu.RegFile
	bus     MemoryPort

	resetPC uint32
	logger  logrus.FieldLogger
	stats   Statistics
}

// NewPipeline creates a pipeline over the given register file and bus.
func NewPipeline(regFile *emu.RegFile, bus MemoryPort, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		sequencer: NewSequencer(),
		regFile:   regFile,
		bus:       bus,
		resetPC:   emu.DefaultROMBase,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logrus.StandardLogger()
	}

	p.fetchStage = NewFetchStage(bus, p.sequencer, p.resetPC)
	p.decodeStage = NewDecodeStage(p.fetchStage, regFile, p.sequencer)
	p.executeStage = NewExecuteStage(p.decodeStage, p.sequencer)
	p.memoryStage = NewMemoryStage(p.executeStage, p.sequencer)
	p.writebackStage = NewWritebackStage(p.memoryStage, regFile, p.sequencer)
	p.stages = []Stage{
		p.fetchStage,
		p.decodeStage,
		p.executeStage,
		p.memoryStage,
		p.writebackStage,
	}

	return p
}

// Phase returns the phase the next Tick will execute.
func (p *Pipeline) Phase() Phase {
	return p.sequencer.Phase()
}

// PC returns the fetch program counter.
func (p *Pipeline) PC() uint32 {
	return p.fetchStage.PC()
}

// SetPC sets the fetch program counter.
func (p *Pipeline) SetPC(pc uint32) {
	p.fetchStage.SetPC(pc)
}

// Fetch returns the fetch stage.
func (p *Pipeline) Fetch() *FetchStage { return p.fetchStage }

// Decode returns the decode stage.
func (p *Pipeline) Decode() *DecodeStage { return p.decodeStage }

// Execute returns the execute stage.
func (p *Pipeline) Execute() *ExecuteStage { return p.executeStage }

// Memory returns the memory-access stage.
func (p *Pipeline) Memory() *MemoryStage { return p.memoryStage }

// Writeback returns the write-back stage.
func (p *Pipeline) Writeback() *WritebackStage { return p.writebackStage }

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Tick executes one cycle.
//
// If any stage's Compute fails the cycle is abandoned: nothing is latched,
// the phase does not advance and the error is returned.
func (p *Pipeline) Tick() error {
	phase := p.sequencer.Phase()

	for _, s := range p.stages {
		if err := s.Compute(); err != nil {
			p.stats.Faults++
			p.logger.WithFields(logrus.Fields{
				"cycle": p.stats.Cycles,
				"phase": phase,
				"pc":    fmt.Sprintf("0x%08x", p.fetchStage.PC()),
			}).WithError(err).Error("bus fault")
			return fmt.Errorf("cycle %d (%s): %w", p.stats.Cycles, phase, err)
		}
	}

	for _, s := range p.stages {
		s.LatchNext()
	}

	p.trace(phase)
	p.stats.Cycles++

	if phase == PhaseWriteback {
		p.stats.Instructions++
		if p.writebackStage.RetiredOut().Committed {
			p.stats.RegWrites++
		}
	}

	p.sequencer.Advance()

	return nil
}

// RunCycles executes up to the given number of cycles, stopping at the
// first fault.
func (p *Pipeline) RunCycles(cycles uint64) error {
	for i := uint64(0); i < cycles; i++ {
		if err := p.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns every stage and the sequencer to power-on state. The
// register file and bus are not touched.
func (p *Pipeline) Reset() {
	p.sequencer.Reset()
	p.fetchStage.Reset(p.resetPC)
	p.decodeStage.Reset()
	p.executeStage.Reset()
	p.memoryStage.Reset()
	p.writebackStage.Reset()
	p.stats = Statistics{}
}

// trace logs what the active stage produced.
func (p *Pipeline) trace(phase Phase) {
	entry := p.logger.WithFields(logrus.Fields{
		"cycle": p.stats.Cycles,
		"phase": phase,
	})

	switch phase {
	case PhaseFetch:
		entry.WithFields(logrus.Fields{
			"pc":   fmt.Sprintf("0x%08x", p.fetchStage.PC()-4),
			"word": fmt.Sprintf("0x%08x", p.fetchStage.InstructionOut()),
		}).Debug("fetch")
	case PhaseDecode:
		entry.WithField("inst", p.decodeStage.DecodedOut().String()).Debug("decode")
	case PhaseExecute:
		out := p.executeStage.ExecOut()
		entry.WithFields(logrus.Fields{
			"alu_result": fmt.Sprintf("0x%08x", out.ALUResult),
			"is_alu":     out.IsALU,
		}).Debug("execute")
	case PhaseMemory:
		entry.Debug("memory")
	case PhaseWriteback:
		out := p.writebackStage.RetiredOut()
		entry.WithFields(logrus.Fields{
			"rd":        out.Rd,
			"value":     fmt.Sprintf("0x%08x", out.ALUResult),
			"committed": out.Committed,
		}).Debug("writeback")
	}
}
