package nes

import "fmt"

// Mapper0: https://www.nesdev.org/wiki/NROM
type mapper0 struct {
	prgROM    []byte
	chr       chrMemory
	mirroring Mirroring
}

func newMapper0(c *Cartridge) (*mapper0, error) {
	if c.prgBanks > 2 {
		return nil, fmt.Errorf("NROM supports up to 2 PRG banks, got %d", c.prgBanks)
	}
	return &mapper0{prgROM: c.prgROM, chr: newCHRMemory(c), mirroring: c.mirroring}, nil
}

func (m *mapper0) ReadFromCPU(address uint16) byte {
	// CPU $C000-$FFFF: Last 16 KB of ROM (NROM-256) or mirror of $8000-$BFFF (NROM-128).
	return m.prgROM[int(address-0x8000)%len(m.prgROM)]
}

func (m *mapper0) WriteFromCPU(address uint16, data byte) {
	// No registers.
}

func (m *mapper0) ReadFromPPU(address uint16) byte {
	return m.chr.read(int(address))
}

func (m *mapper0) WriteFromPPU(address uint16, data byte) {
	m.chr.write(int(address), data)
}

func (m *mapper0) Mirroring() Mirroring { return m.mirroring }

func (m *mapper0) Scanline(vblank bool) {}
