package nes

// Mapper3: https://www.nesdev.org/wiki/INES_Mapper_003
// PRG is laid out like NROM, CHR is switched in 8KB units.
type mapper3 struct {
	prgROM      []byte
	chr         chrMemory
	chrBanks    int
	currentBank int
	mirroring   Mirroring
}

func newMapper3(c *Cartridge) *mapper3 {
	banks := c.chrBanks
	if banks == 0 {
		banks = 1
	}
	return &mapper3{prgROM: c.prgROM, chr: newCHRMemory(c), chrBanks: banks, mirroring: c.mirroring}
}

func (m *mapper3) ReadFromCPU(address uint16) byte {
	return m.prgROM[int(address-0x8000)%len(m.prgROM)]
}

func (m *mapper3) WriteFromCPU(address uint16, data byte) {
	m.currentBank = int(data&0x03) % m.chrBanks
}

func (m *mapper3) ReadFromPPU(address uint16) byte {
	return m.chr.read(m.currentBank*chrROMSizeUnit + int(address))
}

func (m *mapper3) WriteFromPPU(address uint16, data byte) {
	m.chr.write(m.currentBank*chrROMSizeUnit+int(address), data)
}

func (m *mapper3) Mirroring() Mirroring { return m.mirroring }

func (m *mapper3) Scanline(vblank bool) {}
