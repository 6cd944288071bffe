// Package pipeline provides the five-stage compute/latch engine.
package pipeline

import (
	"fmt"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
)

// Stage is the two-phase contract every pipeline stage implements.
//
// Compute reads upstream current values and, unless the stage is stalled,
// updates this stage's next values. LatchNext copies next into current and
// runs every cycle whether or not the stage was stalled.
type Stage interface {
	Compute() error
	LatchNext()
}

// Phase is one step of the instruction sequence.
type Phase uint8

// Phases, in execution order.
const (
	PhaseFetch Phase = iota
	PhaseDecode
	PhaseExecute
	PhaseMemory
	PhaseWriteback

	numPhases
)

// Next returns the following phase, wrapping Write-Back to Fetch.
func (p Phase) Next() Phase {
	return (p + 1) % numPhases
}

func (p Phase) String() string {
	switch p {
	case PhaseFetch:
		return "IF"
	case PhaseDecode:
		return "ID"
	case PhaseExecute:
		return "EX"
	case PhaseMemory:
		return "MEM"
	case PhaseWriteback:
		return "WB"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// StallQuery tells a stage whether it must hold its outputs this cycle.
type StallQuery interface {
	Stalled(p Phase) bool
}

// Sequencer holds the shared phase. A stage is stalled whenever the
// sequencer is not in that stage's phase, so exactly one stage advances per
// cycle and one instruction is in flight at a time.
type Sequencer struct {
	phase Phase
}

// NewSequencer creates a sequencer starting at PhaseFetch.
func NewSequencer() *Sequencer {
	return &Sequencer{phase: PhaseFetch}
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase {
	return s.phase
}

// Stalled implements StallQuery.
func (s *Sequencer) Stalled(p Phase) bool {
	return s.phase != p
}

// Advance moves to the next phase.
func (s *Sequencer) Advance() {
	s.phase = s.phase.Next()
}

// Reset returns to PhaseFetch.
func (s *Sequencer) Reset() {
	s.phase = PhaseFetch
}

// MemoryPort is the bus as seen by the stages.
type MemoryPort interface {
	Read(addr uint32) (uint32, error)
	Write(addr uint32, value uint32) error
}

// InstructionSource provides the fetched instruction word.
type InstructionSource interface {
	InstructionOut() uint32
}

// DecodedSource provides the decoded instruction record.
type DecodedSource interface {
	DecodedOut() DecodedInst
}

// ExecSource provides the Execute stage result.
type ExecSource interface {
	ExecOut() ExecResult
}

// MemorySource provides the Memory-Access stage result.
type MemorySource interface {
	MemoryOut() ExecResult
}

// gate binds a stage to its phase.
type gate struct {
	query StallQuery
	phase Phase
}

func (g gate) stalled() bool {
	return g.query.Stalled(g.phase)
}

// FetchStage reads one instruction word per active cycle.
type FetchStage struct {
	gate
	bus MemoryPort

	pc          Latched[uint32]
	instruction Latched[uint32]
}

// NewFetchStage creates a fetch stage whose program counter starts at
// resetPC.
func NewFetchStage(bus MemoryPort, query StallQuery, resetPC uint32) *FetchStage {
	return &FetchStage{
		gate:        gate{query: query, phase: PhaseFetch},
		bus:         bus,
		pc:          NewLatched(resetPC),
		instruction: NewLatched[uint32](0),
	}
}

// Compute fetches the word at the current PC and advances the PC by 4.
// A bus fault leaves the next values untouched.
func (s *FetchStage) Compute() error {
	if s.stalled() {
		return nil
	}

	pc := s.pc.Current()
	word, err := s.bus.Read(pc)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	s.instruction.Set(word)
	s.pc.Set(pc + 4)

	return nil
}

// LatchNext implements Stage.
func (s *FetchStage) LatchNext() {
	s.pc.Latch()
	s.instruction.Latch()
}

// InstructionOut returns the last fetched instruction word.
func (s *FetchStage) InstructionOut() uint32 {
	return s.instruction.Current()
}

// PC returns the current program counter.
func (s *FetchStage) PC() uint32 {
	return s.pc.Current()
}

// SetPC forces the program counter.
func (s *FetchStage) SetPC(pc uint32) {
	s.pc.Reset(pc)
}

// Reset sets the PC to pc and clears the instruction register.
func (s *FetchStage) Reset(pc uint32) {
	s.pc.Reset(pc)
	s.instruction.Reset(0)
}

// DecodeStage extracts instruction fields and reads the source registers.
type DecodeStage struct {
	gate
	source  InstructionSource
	regFile *emu.RegFile
	decoder *insts.Decoder

	decoded Latched[DecodedInst]
}

// NewDecodeStage creates a decode stage.
func NewDecodeStage(source InstructionSource, regFile *emu.RegFile, query StallQuery) *DecodeStage {
	return &DecodeStage{
		gate:    gate{query: query, phase: PhaseDecode},
		source:  source,
		regFile: regFile,
		decoder: insts.NewDecoder(),
	}
}

// Compute decodes the upstream instruction word.
func (s *DecodeStage) Compute() error {
	if s.stalled() {
		return nil
	}

	inst := s.decoder.Decode(s.source.InstructionOut())
	s.decoded.Set(DecodedInst{
		Instruction: inst,
		Rs1Value:    s.regFile.ReadReg(inst.Rs1),
		Rs2Value:    s.regFile.ReadReg(inst.Rs2),
	})

	return nil
}

// LatchNext implements Stage.
func (s *DecodeStage) LatchNext() {
	s.decoded.Latch()
}

// DecodedOut returns the committed decode record.
func (s *DecodeStage) DecodedOut() DecodedInst {
	return s.decoded.Current()
}

// Reset clears the decode record.
func (s *DecodeStage) Reset() {
	s.decoded.Reset(DecodedInst{})
}

// ExecuteStage runs the ALU.
type ExecuteStage struct {
	gate
	source DecodedSource

	result Latched[ExecResult]
}

// NewExecuteStage creates an execute stage.
func NewExecuteStage(source DecodedSource, query StallQuery) *ExecuteStage {
	return &ExecuteStage{
		gate:   gate{query: query, phase: PhaseExecute},
		source: source,
	}
}

// Compute evaluates the decoded instruction. Instructions outside the ALU
// group produce a zero result with IsALU cleared.
func (s *ExecuteStage) Compute() error {
	if s.stalled() {
		return nil
	}

	decoded := s.source.DecodedOut()
	result := ExecResult{
		Rd:    decoded.Rd,
		IsALU: decoded.IsALU(),
	}
	if result.IsALU {
		result.ALUResult = ExecuteALU(decoded)
	}
	s.result.Set(result)

	return nil
}

// LatchNext implements Stage.
func (s *ExecuteStage) LatchNext() {
	s.result.Latch()
}

// ExecOut returns the committed execution result.
func (s *ExecuteStage) ExecOut() ExecResult {
	return s.result.Current()
}

// Reset clears the execution result.
func (s *ExecuteStage) Reset() {
	s.result.Reset(ExecResult{})
}

// MemoryStage is where loads and stores attach. For the ALU group it
// forwards the execution result unchanged.
type MemoryStage struct {
	gate
	source ExecSource

	result Latched[ExecResult]
}

// NewMemoryStage creates a memory-access stage.
func NewMemoryStage(source ExecSource, query StallQuery) *MemoryStage {
	return &MemoryStage{
		gate:   gate{query: query, phase: PhaseMemory},
		source: source,
	}
}

// Compute forwards the upstream result.
func (s *MemoryStage) Compute() error {
	if s.stalled() {
		return nil
	}

	s.result.Set(s.source.ExecOut())

	return nil
}

// LatchNext implements Stage.
func (s *MemoryStage) LatchNext() {
	s.result.Latch()
}

// MemoryOut returns the committed result.
func (s *MemoryStage) MemoryOut() ExecResult {
	return s.result.Current()
}

// Reset clears the forwarded result.
func (s *MemoryStage) Reset() {
	s.result.Reset(ExecResult{})
}

// WritebackStage commits ALU results to the register file.
type WritebackStage struct {
	gate
	source  MemorySource
	regFile *emu.RegFile

	retired Latched[Retired]
}

// NewWritebackStage creates a write-back stage.
func NewWritebackStage(source MemorySource, regFile *emu.RegFile, query StallQuery) *WritebackStage {
	return &WritebackStage{
		gate:    gate{query: query, phase: PhaseWriteback},
		source:  source,
		regFile: regFile,
	}
}

// Compute writes the result to rd when the instruction is an ALU op and
// rd is not x0.
func (s *WritebackStage) Compute() error {
	if s.stalled() {
		return nil
	}

	in := s.source.MemoryOut()
	retired := Retired{ExecResult: in, Valid: true}
	if in.IsALU && in.Rd != 0 {
		s.regFile.WriteReg(in.Rd, in.ALUResult)
		retired.Committed = true
	}
	s.retired.Set(retired)

	return nil
}

// LatchNext implements Stage.
func (s *WritebackStage) LatchNext() {
	s.retired.Latch()
}

// RetiredOut returns what the stage committed in its last active cycle.
func (s *WritebackStage) RetiredOut() Retired {
	return s.retired.Current()
}

// Reset clears the retirement record.
func (s *WritebackStage) Reset() {
	s.retired.Reset(Retired{})
}
