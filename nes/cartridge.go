package nes

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
)

const (
	chrROMSizeUnit      int  = 0x2000 // 8KB
	prgROMSizeUnit      int  = 0x4000 // 16KB
	inesHeaderSizeBytes int  = 16     // The valid INES header has 16 bytes
	msDOSEOF            byte = 0x1A
)

// LoadStatus is the outcome of loading a cartridge image, each failure has its own code.
type LoadStatus uint8

const (
	StatusMissing     LoadStatus = 0x01
	StatusReadFailure LoadStatus = 0x02
	StatusWrongFormat LoadStatus = 0x04
	StatusNoProgram   LoadStatus = 0x08
	StatusTrainer     LoadStatus = 0x10
	StatusAllocation  LoadStatus = 0x20
)

func (s LoadStatus) Error() string {
	switch s {
	case StatusMissing:
		return "cartridge file is missing"
	case StatusReadFailure:
		return "failed to read cartridge file"
	case StatusWrongFormat:
		return "not an iNES image"
	case StatusNoProgram:
		return "cartridge has no program ROM"
	case StatusTrainer:
		return "trainer region is not supported"
	case StatusAllocation:
		return "failed to allocate cartridge memory"
	}
	return fmt.Sprintf("unknown load status 0x%02x", uint8(s))
}

// Region decides the clock dividers and the palette / audio tables.
type Region int

const (
	RegionNTSC Region = iota
	RegionPAL
)

func (r Region) String() string {
	if r == RegionPAL {
		return "PAL"
	}
	return "NTSC"
}

// Mirroring is the nametable layout, values follow the iNES flags6 & 0x09 encoding.
type Mirroring byte

const (
	MirrorHorizontal Mirroring = 0x00
	MirrorVertical   Mirroring = 0x01
	MirrorSingleHigh Mirroring = 0x08
	MirrorSingleLow  Mirroring = 0x09
)

func (m Mirroring) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorSingleHigh:
		return "single-high"
	case MirrorSingleLow:
		return "single-low"
	}
	return fmt.Sprintf("mirroring(0x%02x)", byte(m))
}

// Cartridge is immutable after NewCartridge.
// https://www.nesdev.org/wiki/INES
type Cartridge struct {
	prgROM    []byte
	chrROM    []byte
	prgBanks  int
	chrBanks  int
	mirroring Mirroring
	mapperID  byte
	region    Region
	battery   bool
	flags6    byte // https://www.nesdev.org/wiki/INES#Flags_6
	flags7    byte // https://www.nesdev.org/wiki/INES#Flags_7
}

// isValid checks whether the buffer starts with the iNES magic.
func isValid(data []byte) bool {
	return len(data) >= 4 &&
		data[0] == byte('N') &&
		data[1] == byte('E') &&
		data[2] == byte('S') &&
		data[3] == msDOSEOF
}

// NewCartridge parses an iNES image.
func NewCartridge(data []byte) (*Cartridge, error) {
	if !isValid(data) {
		return nil, StatusWrongFormat
	}
	if len(data) < inesHeaderSizeBytes {
		return nil, StatusReadFailure
	}
	flags6 := data[6]
	if flags6&0x04 != 0 {
		return nil, StatusTrainer
	}
	prgBanks := int(data[4])
	if prgBanks == 0 {
		return nil, StatusNoProgram
	}
	chrBanks := int(data[5])
	prgEnd := inesHeaderSizeBytes + prgBanks*prgROMSizeUnit
	chrEnd := prgEnd + chrBanks*chrROMSizeUnit
	if len(data) < chrEnd {
		return nil, StatusReadFailure
	}
	c := &Cartridge{
		prgBanks:  prgBanks,
		chrBanks:  chrBanks,
		mirroring: Mirroring(flags6 & 0x09),
		mapperID:  (flags6 >> 4) | (data[7] & 0xF0),
		battery:   flags6&0x02 != 0,
		flags6:    flags6,
		flags7:    data[7],
	}
	if data[9]&0x01 != 0 {
		c.region = RegionPAL
	}
	// Own copies so the caller's buffer can be reused.
	c.prgROM = append([]byte(nil), data[inesHeaderSizeBytes:prgEnd]...)
	c.chrROM = append([]byte(nil), data[prgEnd:chrEnd]...)
	return c, nil
}

// LoadCartridge reads and parses an iNES file.
func LoadCartridge(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, StatusMissing
		}
		return nil, fmt.Errorf("%w: %v", StatusReadFailure, err)
	}
	defer f.Close()
	b, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", StatusReadFailure, err)
	}
	return NewCartridge(b)
}

func (c *Cartridge) Region() Region { return c.region }
func (c *Cartridge) MapperID() byte { return c.mapperID }
func (c *Cartridge) Mirroring() Mirroring { return c.mirroring }
func (c *Cartridge) HasBatteryRAM() bool { return c.battery }
func (c *Cartridge) PRGBanks() int { return c.prgBanks }
func (c *Cartridge) CHRBanks() int { return c.chrBanks }
func (c *Cartridge) hasCHRRAM() bool { return c.chrBanks == 0 }
func (c *Cartridge) String() string {
	return fmt.Sprintf("mapper=%d prg=%dx16KB chr=%dx8KB mirroring=%s region=%s battery=%t",
		c.mapperID, c.prgBanks, c.chrBanks, c.mirroring, c.region, c.battery)
}
