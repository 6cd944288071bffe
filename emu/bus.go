package emu

// AccessObserver is notified after every successful bus Read or Write.
type AccessObserver interface {
	ObserveAccess(kind AccessKind, addr uint32)
}

// Bus routes word accesses to the ROM or RAM by address.
//
// Accesses are immediate: the bus neither buffers nor caches.
type Bus struct {
	rom      *ROM
	ram      *RAM
	observer AccessObserver
}

// NewBus creates a bus over the given devices. The ranges of rom and ram
// must be disjoint (see MemoryMap.Validate).
func NewBus(rom *ROM, ram *RAM) *Bus {
	return &Bus{rom: rom, ram: ram}
}

// SetObserver installs an access observer. Passing nil removes it.
func (b *Bus) SetObserver(o AccessObserver) {
	b.observer = o
}

// Read returns the word at addr.
func (b *Bus) Read(addr uint32) (uint32, error) {
	dev, err := b.route(AccessRead, addr)
	if err != nil {
		return 0, err
	}

	value, err := dev.Read(addr)
	if err != nil {
		return 0, err
	}

	if b.observer != nil {
		b.observer.ObserveAccess(AccessRead, addr)
	}

	return value, nil
}

// Write stores value at addr. Writes into the ROM range fail with
// ErrReadOnly.
func (b *Bus) Write(addr uint32, value uint32) error {
	dev, err := b.route(AccessWrite, addr)
	if err != nil {
		return err
	}

	if err := dev.Write(addr, value); err != nil {
		return err
	}

	if b.observer != nil {
		b.observer.ObserveAccess(AccessWrite, addr)
	}

	return nil
}

// Peek reads addr like Read but never notifies the observer. It is meant for
// inspection from outside the pipeline.
func (b *Bus) Peek(addr uint32) (uint32, error) {
	dev, err := b.route(AccessRead, addr)
	if err != nil {
		return 0, err
	}
	return dev.Read(addr)
}

func (b *Bus) route(op AccessKind, addr uint32) (Device, error) {
	if addr%4 != 0 {
		return nil, accessError("", op, addr, ErrUnalignedAccess)
	}

	switch {
	case b.rom.Contains(addr):
		return b.rom, nil
	case b.ram.Contains(addr):
		return b.ram, nil
	default:
		return nil, accessError("", op, addr, ErrUnmappedAddress)
	}
}
