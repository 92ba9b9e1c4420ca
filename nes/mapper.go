package nes

import (
	"fmt"

	"github.com/golang/glog"
)

// Mapper translates cartridge addresses through the board's bank switching state.
// Each board is its own type; the bus only talks to this interface.
// Reference: https://www.nesdev.org/wiki/Mapper
type Mapper interface {
	// ReadFromCPU reads $8000-$FFFF.
	ReadFromCPU(address uint16) byte
	// WriteFromCPU writes $8000-$FFFF, usually a bank register write.
	WriteFromCPU(address uint16, data byte)
	// ReadFromPPU reads the pattern tables $0000-$1FFF.
	ReadFromPPU(address uint16) byte
	// WriteFromPPU writes the pattern tables, only effective on CHR RAM.
	WriteFromPPU(address uint16, data byte)
	// Mirroring returns the current nametable layout.
	Mirroring() Mirroring
	// Scanline is called by the PPU at the end of every scanline.
	Scanline(vblank bool)
}

// prgRAMGate is implemented by boards that can disable or write protect $6000-$7FFF.
type prgRAMGate interface {
	prgRAMEnabled() bool
	prgRAMProtected() bool
}

// UnsupportedMapperError is returned for boards this emulator does not implement.
type UnsupportedMapperError struct {
	ID byte
}

func (e UnsupportedMapperError) Error() string {
	return fmt.Sprintf("mapper %d is not supported", e.ID)
}

// NewMapper creates the mapper declared by the cartridge header.
func NewMapper(c *Cartridge) (Mapper, error) {
	var (
		m   Mapper
		err error
	)
	switch c.mapperID {
	case 0:
		m, err = newMapper0(c)
	case 1:
		m = newMapper1(c)
	case 2:
		m = newMapper2(c)
	case 3:
		m = newMapper3(c)
	default:
		// Mapper 4 (MMC3) and its scanline IRQ counter are out of scope.
		return nil, UnsupportedMapperError{ID: c.mapperID}
	}
	if err != nil {
		return nil, err
	}
	glog.Infof("Mapper %d selected: %T", c.mapperID, m)
	return m, nil
}

// chrMemory is the pattern table storage shared by all boards: CHR ROM or, if the
// cartridge carries none, 8KB of CHR RAM.
type chrMemory struct {
	rom []byte
	ram *RAM
}

func newCHRMemory(c *Cartridge) chrMemory {
	if c.hasCHRRAM() {
		return chrMemory{ram: NewRAM(chrROMSizeUnit)}
	}
	return chrMemory{rom: c.chrROM}
}

// read reads the CHR byte at offset, offset is already bank adjusted.
func (m *chrMemory) read(offset int) byte {
	if m.ram != nil {
		return m.ram.read(uint16(offset))
	}
	return m.rom[offset%len(m.rom)]
}

func (m *chrMemory) write(offset int, data byte) {
	if m.ram != nil {
		m.ram.write(uint16(offset), data)
	}
	// CHR ROM is read-only.
}

func (m *chrMemory) size() int {
	if m.ram != nil {
		return len(m.ram.data)
	}
	return len(m.rom)
}
