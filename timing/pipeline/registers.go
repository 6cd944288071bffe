// Package pipeline provides the five-stage compute/latch engine.
package pipeline

import "github.com/sarchlab/rvsim/insts"

// Latched is a synchronous register: a current value visible to everyone
// this cycle and a next value that becomes current at the latch point.
type Latched[T any] struct {
	current T
	next    T
}

// NewLatched creates a latched register with both halves set to v.
func NewLatched[T any](v T) Latched[T] {
	return Latched[T]{current: v, next: v}
}

// Current returns the committed value.
func (l *Latched[T]) Current() T {
	return l.current
}

// Next returns the pending value.
func (l *Latched[T]) Next() T {
	return l.next
}

// Set replaces the pending value. Current is unaffected until Latch.
func (l *Latched[T]) Set(v T) {
	l.next = v
}

// Latch copies next into current.
func (l *Latched[T]) Latch() {
	l.current = l.next
}

// Reset forces both halves to v.
func (l *Latched[T]) Reset(v T) {
	l.current = v
	l.next = v
}

// DecodedInst is the Decode stage output: instruction fields plus the
// resolved source operand values.
type DecodedInst struct {
	insts.Instruction

	// Rs1Value and Rs2Value are read from the register file, with x0
	// reading as zero.
	Rs1Value uint32
	Rs2Value uint32
}

// ExecResult is produced by Execute and forwarded unchanged by
// Memory-Access to Write-Back.
type ExecResult struct {
	// ALUResult is the computed value.
	ALUResult uint32

	// Rd is the destination register number.
	Rd uint8

	// IsALU marks OP/OP-IMM instructions whose result must be written back.
	IsALU bool
}

// Retired records what Write-Back committed in its last active cycle.
type Retired struct {
	ExecResult

	// Valid is true once Write-Back has retired at least one instruction.
	Valid bool

	// Committed is true if the register file was written.
	Committed bool
}
