package nes

import "github.com/golang/glog"

// Mapper1: https://www.nesdev.org/wiki/MMC1
//
// Registers are loaded serially: five writes of bit 0 to $8000-$FFFF fill a shift
// register, the fifth write commits it to the register picked by the address.
//   $8000-$9FFF control   CPPMM  (CHR mode, PRG mode, mirroring)
//   $A000-$BFFF CHR bank 0
//   $C000-$DFFF CHR bank 1
//   $E000-$FFFF PRG bank   RPPPP (R = PRG RAM disable)
type mapper1 struct {
	prgROM   []byte
	prgBanks int
	chr      chrMemory
	chrBanks int // in 4KB units

	shift byte
	count int

	prgMode   byte
	chrMode   byte
	chr0      byte
	chr1      byte
	prg       byte
	ramOff    bool
	mirroring Mirroring

	prgOffsets [2]int // $8000, $C000
	chrOffsets [2]int // $0000, $1000
}

func newMapper1(c *Cartridge) *mapper1 {
	m := &mapper1{
		prgROM:    c.prgROM,
		prgBanks:  c.prgBanks,
		chr:       newCHRMemory(c),
		prgMode:   3,
		mirroring: c.mirroring,
	}
	m.chrBanks = m.chr.size() / 0x1000
	m.updateOffsets()
	return m
}

func (m *mapper1) ReadFromCPU(address uint16) byte {
	if address < 0xC000 {
		return m.prgROM[m.prgOffsets[0]+int(address&0x3FFF)]
	}
	return m.prgROM[m.prgOffsets[1]+int(address&0x3FFF)]
}

func (m *mapper1) WriteFromCPU(address uint16, data byte) {
	if data&0x80 != 0 {
		m.shift = 0
		m.count = 0
		m.prgMode = 3
		m.updateOffsets()
		return
	}
	m.shift = (m.shift >> 1) | ((data & 0x01) << 4)
	m.count++
	if m.count < 5 {
		return
	}
	value := m.shift
	m.shift = 0
	m.count = 0
	switch {
	case address < 0xA000:
		m.writeControl(value)
	case address < 0xC000:
		m.chr0 = value
	case address < 0xE000:
		m.chr1 = value
	default:
		m.prg = value & 0x0F
		m.ramOff = value&0x10 != 0
	}
	m.updateOffsets()
}

func (m *mapper1) writeControl(value byte) {
	switch value & 0x03 {
	case 0:
		m.mirroring = MirrorSingleLow
	case 1:
		m.mirroring = MirrorSingleHigh
	case 2:
		m.mirroring = MirrorVertical
	case 3:
		m.mirroring = MirrorHorizontal
	}
	m.prgMode = (value >> 2) & 0x03
	m.chrMode = (value >> 4) & 0x01
	glog.V(2).Infof("MMC1 control: mirroring=%s prgMode=%d chrMode=%d", m.mirroring, m.prgMode, m.chrMode)
}

// updateOffsets recomputes the bank offsets, every index is reduced modulo the bank count.
func (m *mapper1) updateOffsets() {
	prgBank := func(i int) int {
		return (i % m.prgBanks) * prgROMSizeUnit
	}
	switch m.prgMode {
	case 0, 1:
		// 32KB at $8000
		bank := int(m.prg &^ 0x01)
		m.prgOffsets[0] = prgBank(bank)
		m.prgOffsets[1] = prgBank(bank + 1)
	case 2:
		// first bank fixed at $8000
		m.prgOffsets[0] = 0
		m.prgOffsets[1] = prgBank(int(m.prg))
	case 3:
		// last bank fixed at $C000
		m.prgOffsets[0] = prgBank(int(m.prg))
		m.prgOffsets[1] = prgBank(m.prgBanks - 1)
	}
	chrBank := func(i int) int {
		return (i % m.chrBanks) * 0x1000
	}
	if m.chrMode == 0 {
		// 8KB
		bank := int(m.chr0 &^ 0x01)
		m.chrOffsets[0] = chrBank(bank)
		m.chrOffsets[1] = chrBank(bank + 1)
	} else {
		m.chrOffsets[0] = chrBank(int(m.chr0))
		m.chrOffsets[1] = chrBank(int(m.chr1))
	}
}

func (m *mapper1) ReadFromPPU(address uint16) byte {
	return m.chr.read(m.chrOffsets[address>>12&1] + int(address&0x0FFF))
}

func (m *mapper1) WriteFromPPU(address uint16, data byte) {
	m.chr.write(m.chrOffsets[address>>12&1]+int(address&0x0FFF), data)
}

func (m *mapper1) Mirroring() Mirroring { return m.mirroring }

func (m *mapper1) Scanline(vblank bool) {}

func (m *mapper1) prgRAMEnabled() bool { return !m.ramOff }

func (m *mapper1) prgRAMProtected() bool { return false }
