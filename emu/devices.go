package emu

// Device is a word-addressed region of the bus address space.
type Device interface {
	// Contains reports whether addr falls inside the device's range.
	Contains(addr uint32) bool
	// Read returns the word at addr.
	Read(addr uint32) (uint32, error)
	// Write stores a word at addr.
	Write(addr uint32, value uint32) error
}

// region is the address bookkeeping shared by ROM and RAM.
type region struct {
	name  string
	base  uint32
	words []uint32
}

func newRegion(name string, base, size uint32) region {
	return region{
		name:  name,
		base:  base,
		words: make([]uint32, size/4),
	}
}

// Contains reports whether addr falls inside the region.
func (r *region) Contains(addr uint32) bool {
	return inRange(addr, r.base, uint32(len(r.words))*4)
}

// Base returns the first address of the region.
func (r *region) Base() uint32 {
	return r.base
}

// Size returns the region size in bytes.
func (r *region) Size() uint32 {
	return uint32(len(r.words)) * 4
}

// index checks alignment and range and returns the word index for addr.
func (r *region) index(op AccessKind, addr uint32) (int, error) {
	if addr%4 != 0 {
		return 0, accessError(r.name, op, addr, ErrUnalignedAccess)
	}
	if !r.Contains(addr) {
		return 0, accessError(r.name, op, addr, ErrOutOfRange)
	}
	return int((addr - r.base) / 4), nil
}

// ROM holds the program image. It is loaded once and read-only afterwards.
type ROM struct {
	region
	loaded int
}

// NewROM creates a zero-filled ROM covering [base, base+size).
func NewROM(base, size uint32) *ROM {
	return &ROM{region: newRegion("rom", base, size)}
}

// Load replaces the whole program image. Word i is placed at base+4*i and
// everything past the image reads as zero.
func (r *ROM) Load(image []uint32) error {
	if len(image) > len(r.words) {
		return accessError(r.name, AccessWrite, r.base, ErrImageTooLarge)
	}

	n := copy(r.words, image)
	clear(r.words[n:])
	r.loaded = n

	return nil
}

// Len returns the number of words in the loaded image.
func (r *ROM) Len() int {
	return r.loaded
}

// Read returns the program word at addr.
func (r *ROM) Read(addr uint32) (uint32, error) {
	i, err := r.index(AccessRead, addr)
	if err != nil {
		return 0, err
	}
	return r.words[i], nil
}

// Write always fails; the program image can only change through Load.
func (r *ROM) Write(addr uint32, _ uint32) error {
	if _, err := r.index(AccessWrite, addr); err != nil {
		return err
	}
	return accessError(r.name, AccessWrite, addr, ErrReadOnly)
}

// RAM is mutable word storage.
type RAM struct {
	region
}

// NewRAM creates a zero-filled RAM covering [base, base+size).
func NewRAM(base, size uint32) *RAM {
	return &RAM{region: newRegion("ram", base, size)}
}

// Read returns the word at addr.
func (r *RAM) Read(addr uint32) (uint32, error) {
	i, err := r.index(AccessRead, addr)
	if err != nil {
		return 0, err
	}
	return r.words[i], nil
}

// Write stores value at addr.
func (r *RAM) Write(addr uint32, value uint32) error {
	i, err := r.index(AccessWrite, addr)
	if err != nil {
		return err
	}
	r.words[i] = value
	return nil
}

// Reset zeroes the whole RAM.
func (r *RAM) Reset() {
	clear(r.words)
}
