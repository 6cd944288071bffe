// Package loader provides program image loading for the RV32 ROM.
package loader

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/rvsim/emu"
)

// Program is a ROM image ready for core.LoadProgram.
type Program struct {
	// EntryPoint is the address execution is expected to start at.
	EntryPoint uint32
	// Words holds the image; Words[0] belongs at the ROM base.
	Words []uint32
}

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// Load reads a program for a ROM of romSize bytes starting at romBase. ELF
// files are detected by their magic number; anything else is parsed as a
// text word list (see ParseWords). Images that cannot fit the ROM fail with
// an error wrapping emu.ErrImageTooLarge.
func Load(path string, romBase, romSize uint32) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	if bytes.HasPrefix(data, elfMagic) {
		return LoadELF(bytes.NewReader(data), romBase, romSize)
	}

	words, err := ParseWords(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if uint64(len(words))*4 > uint64(romSize) {
		return nil, fmt.Errorf("%s holds %d words, ROM holds %d: %w",
			path, len(words), romSize/4, emu.ErrImageTooLarge)
	}

	return &Program{EntryPoint: romBase, Words: words}, nil
}

// LoadELF parses a 32-bit RISC-V ELF executable. Every executable PT_LOAD
// segment must lie inside [romBase, romBase+romSize); segments are copied
// into one contiguous little-endian word image.
func LoadELF(r io.ReaderAt, romBase, romSize uint32) (*Program, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("not a 32-bit ELF file")
	}

	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("not a RISC-V ELF file (machine type: %v)", f.Machine)
	}

	prog := &Program{EntryPoint: uint32(f.Entry)}
	var image []byte

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD || phdr.Flags&elf.PF_X == 0 {
			continue
		}

		if phdr.Vaddr < uint64(romBase) {
			return nil, fmt.Errorf("segment at 0x%x lies below ROM base 0x%08x", phdr.Vaddr, romBase)
		}
		if phdr.Vaddr%4 != 0 {
			return nil, fmt.Errorf("segment at 0x%x is not word aligned", phdr.Vaddr)
		}

		if phdr.Filesz > phdr.Memsz {
			return nil, fmt.Errorf("segment at 0x%x has filesz 0x%x larger than memsz 0x%x",
				phdr.Vaddr, phdr.Filesz, phdr.Memsz)
		}

		offset := phdr.Vaddr - uint64(romBase)
		end := offset + phdr.Memsz
		if end > uint64(romSize) {
			return nil, fmt.Errorf("segment [0x%x, 0x%x) does not fit ROM [0x%08x, 0x%x): %w",
				phdr.Vaddr, phdr.Vaddr+phdr.Memsz, romBase, uint64(romBase)+uint64(romSize),
				emu.ErrImageTooLarge)
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		if end > uint64(len(image)) {
			grown := make([]byte, end)
			copy(grown, image)
			image = grown
		}
		copy(image[offset:], data)
	}

	if len(image) == 0 {
		return nil, fmt.Errorf("no executable segments")
	}

	for len(image)%4 != 0 {
		image = append(image, 0)
	}

	prog.Words = make([]uint32, len(image)/4)
	for i := range prog.Words {
		prog.Words[i] = binary.LittleEndian.Uint32(image[i*4:])
	}

	return prog, nil
}
