package nes

// PPU registers, mirrored every 8 bytes through $3FFF.
// Reference: https://www.nesdev.org/wiki/PPU_registers
const (
	PPUCTRL   uint16 = 0x2000
	PPUMASK   uint16 = 0x2001
	PPUSTATUS uint16 = 0x2002
	OAMADDR   uint16 = 0x2003
	OAMDATA   uint16 = 0x2004
	PPUSCROLL uint16 = 0x2005
	PPUADDR   uint16 = 0x2006
	PPUDATA   uint16 = 0x2007
)

func (p *PPU) readRegister(address uint16) byte {
	switch address {
	case PPUCTRL:
		return p.readPPUCTRL()
	case PPUMASK:
		return p.readPPUMASK()
	case PPUSTATUS:
		return p.readPPUSTATUS()
	case OAMDATA:
		return p.oam[p.oamAddress]
	case PPUDATA:
		return p.readPPUDATA()
	}
	// OAMADDR, PPUSCROLL and PPUADDR are write-only.
	return 0
}

func (p *PPU) writeRegister(address uint16, data byte) {
	switch address {
	case PPUCTRL:
		p.writePPUCTRL(data)
	case PPUMASK:
		p.writePPUMASK(data)
	case OAMADDR:
		p.oamAddress = data
	case OAMDATA:
		p.oam[p.oamAddress] = data
		p.oamAddress++
	case PPUSCROLL:
		p.writePPUSCROLL(data)
	case PPUADDR:
		p.writePPUADDR(data)
	case PPUDATA:
		p.writePPUDATA(data)
	}
	// PPUSTATUS is read-only.
}

// writePPUCTRL writes PPUCTRL ($2000).
// 7  bit  0
// ---- ----
// VPHB SINN
// |||| ||||
// |||| ||++- Base nametable address
// |||| |+--- VRAM address increment per CPU read/write of PPUDATA
// |||| +---- Sprite pattern table address for 8x8 sprites
// |||+------ Background pattern table address
// ||+------- Sprite size
// |+-------- PPU master/slave select (unused)
// +--------- Generate an NMI at the start of the vertical blanking interval
func (p *PPU) writePPUCTRL(data byte) {
	p.nmiEnabled = data&0x80 != 0
	p.tallSprites = data&0x20 != 0
	p.spritePage = 0
	if data&0x08 != 0 {
		p.spritePage = 0x1000
	}
	p.backgroundPage = 0
	if data&0x10 != 0 {
		p.backgroundPage = 0x1000
	}
	p.addressIncrement = 1
	if data&0x04 != 0 {
		p.addressIncrement = 32
	}
	p.t = p.t&^0x0C00 | uint16(data&0x03)<<10
}

// readPPUCTRL reconstructs PPUCTRL from the decoded state.
func (p *PPU) readPPUCTRL() byte {
	var data byte
	if p.nmiEnabled {
		data |= 0x80
	}
	if p.tallSprites {
		data |= 0x20
	}
	if p.backgroundPage != 0 {
		data |= 0x10
	}
	if p.spritePage != 0 {
		data |= 0x08
	}
	if p.addressIncrement == 32 {
		data |= 0x04
	}
	return data | byte(p.t>>10)&0x03
}

// writePPUMASK writes PPUMASK ($2001).
// 7  bit  0
// ---- ----
// BGRs bMmG
// |||| ||||
// |||| |||+- Greyscale
// |||| ||+-- Show background in leftmost 8 pixels of screen
// |||| |+--- Show sprites in leftmost 8 pixels of screen
// |||| +---- Show background
// |||+------ Show sprites
// +++------- Color emphasis (ignored)
func (p *PPU) writePPUMASK(data byte) {
	p.grayscale = data&0x01 != 0
	p.showLeftBG = data&0x02 != 0
	p.showLeftSprites = data&0x04 != 0
	p.showBackground = data&0x08 != 0
	p.showSprites = data&0x10 != 0
}

func (p *PPU) readPPUMASK() byte {
	var data byte
	if p.grayscale {
		data |= 0x01
	}
	if p.showLeftBG {
		data |= 0x02
	}
	if p.showLeftSprites {
		data |= 0x04
	}
	if p.showBackground {
		data |= 0x08
	}
	if p.showSprites {
		data |= 0x10
	}
	return data
}

// readPPUSTATUS reads PPUSTATUS ($2002), clears vblank and the write toggle.
func (p *PPU) readPPUSTATUS() byte {
	var data byte
	if p.vblank {
		data |= 0x80
	}
	if p.spriteZeroHit {
		data |= 0x40
	}
	if p.spriteOverflow {
		data |= 0x20
	}
	p.vblank = false
	p.w = false
	return data
}

// writePPUSCROLL writes PPUSCROLL ($2005), X first then Y.
func (p *PPU) writePPUSCROLL(data byte) {
	if !p.w {
		p.t = p.t&^0x001F | uint16(data>>3)
		p.x = data & 0x07
		p.w = true
	} else {
		p.t = p.t&^0x73E0 | uint16(data&0x07)<<12 | uint16(data&0xF8)<<2
		p.w = false
	}
}

// writePPUADDR writes PPUADDR ($2006), high byte first then low.
func (p *PPU) writePPUADDR(data byte) {
	if !p.w { // high
		p.t = p.t&0x00FF | uint16(data&0x3F)<<8
		p.w = true
	} else { // low
		p.t = p.t&0xFF00 | uint16(data)
		p.v = p.t
		p.w = false
	}
}

// writePPUDATA writes PPUDATA ($2007).
func (p *PPU) writePPUDATA(data byte) {
	p.bus.writePPU(p.v, data)
	p.v += p.addressIncrement
}

// readPPUDATA reads PPUDATA ($2007).
// Reads below the palette return the previous read, palette reads are immediate
// and fill the buffer with the nametable byte underneath.
func (p *PPU) readPPUDATA() byte {
	address := p.v & 0x3FFF
	data := p.bus.readPPU(address)
	if address < 0x3F00 {
		data, p.buffer = p.buffer, data
	} else {
		p.buffer = p.bus.readPPU(address - 0x1000)
	}
	p.v += p.addressIncrement
	return data
}
