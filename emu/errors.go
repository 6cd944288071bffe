package emu

import (
	"errors"
	"fmt"
)

// Bus and device errors. Every failing access returns an *AccessError that
// unwraps to one of these.
var (
	ErrOutOfRange      = errors.New("emu: address out of range")
	ErrUnalignedAccess = errors.New("emu: unaligned access")
	ErrReadOnly        = errors.New("emu: write to read-only device")
	ErrImageTooLarge   = errors.New("emu: program image exceeds ROM capacity")

	// ErrUnmappedAddress is returned by the bus when no device claims an
	// address. It wraps ErrOutOfRange.
	ErrUnmappedAddress = fmt.Errorf("emu: unmapped address: %w", ErrOutOfRange)
)

// AccessKind identifies a bus operation.
type AccessKind uint8

// Access kinds.
const (
	AccessRead AccessKind = iota
	AccessWrite
)

func (k AccessKind) String() string {
	switch k {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	default:
		return fmt.Sprintf("AccessKind(%d)", uint8(k))
	}
}

// AccessError reports a failed bus or device access.
type AccessError struct {
	Op     AccessKind
	Addr   uint32
	Device string
	Err    error
}

func (e *AccessError) Error() string {
	if e.Device != "" {
		return fmt.Sprintf("%s %s at 0x%08x: %v", e.Device, e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("bus %s at 0x%08x: %v", e.Op, e.Addr, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *AccessError) Unwrap() error {
	return e.Err
}

func accessError(device string, op AccessKind, addr uint32, err error) error {
	return &AccessError{Op: op, Addr: addr, Device: device, Err: err}
}
