// Package emu provides the storage side of the RV32 simulator: word
// registers, the register file, the ROM and RAM devices and the system bus
// that decodes addresses between them.
package emu

// NumRegs is the number of general-purpose registers (x0-x31).
const NumRegs = 32

// Register is a single 32-bit storage cell.
// Arithmetic done by callers wraps modulo 2^32.
type Register struct {
	value uint32
}

// NewRegister creates a register holding the given value.
func NewRegister(value uint32) Register {
	return Register{value: value}
}

// Get returns the stored value.
func (r *Register) Get() uint32 {
	return r.value
}

// Set replaces the stored value.
func (r *Register) Set(value uint32) {
	r.value = value
}

// RegFile represents the RV32 integer register file.
type RegFile struct {
	// X holds general-purpose registers x0-x31.
	// X[0] is the zero register and always reads as 0.
	X [NumRegs]Register
}

// ReadReg reads a register value. Register 0 returns 0.
// Indices >= 32 are not encodable in a 5-bit field and also return 0.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == 0 || reg >= NumRegs {
		return 0
	}
	return r.X[reg].Get()
}

// WriteReg writes a value to a register. Writes to register 0 are accepted
// but never become visible through ReadReg.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	if reg >= NumRegs {
		return
	}
	r.X[reg].Set(value)
}

// Snapshot returns the architecturally visible register values.
func (r *RegFile) Snapshot() [NumRegs]uint32 {
	var out [NumRegs]uint32
	for i := range out {
		out[i] = r.ReadReg(uint8(i))
	}
	return out
}

// Reset clears every register.
func (r *RegFile) Reset() {
	r.X = [NumRegs]Register{}
}
