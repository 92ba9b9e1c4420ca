package nes

// Mapper2: https://www.nesdev.org/wiki/UxROM
type mapper2 struct {
	banks       int
	currentBank int
	prgROM      []byte
	chr         chrMemory
	mirroring   Mirroring
}

func newMapper2(c *Cartridge) *mapper2 {
	return &mapper2{
		banks:     c.prgBanks,
		prgROM:    c.prgROM,
		chr:       newCHRMemory(c),
		mirroring: c.mirroring,
	}
}

func (m *mapper2) ReadFromCPU(address uint16) byte {
	// CPU $8000-$BFFF: 16 KB switchable PRG ROM bank
	// CPU $C000-$FFFF: 16 KB PRG ROM bank, fixed to the last bank
	if address < 0xC000 {
		return m.prgROM[m.currentBank*prgROMSizeUnit+int(address-0x8000)]
	}
	return m.prgROM[(m.banks-1)*prgROMSizeUnit+int(address-0xC000)]
}

func (m *mapper2) WriteFromCPU(address uint16, data byte) {
	m.currentBank = int(data) % m.banks
}

func (m *mapper2) ReadFromPPU(address uint16) byte {
	return m.chr.read(int(address))
}

func (m *mapper2) WriteFromPPU(address uint16, data byte) {
	m.chr.write(int(address), data)
}

func (m *mapper2) Mirroring() Mirroring { return m.mirroring }

func (m *mapper2) Scanline(vblank bool) {}
