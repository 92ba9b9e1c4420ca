package nes

import "github.com/golang/glog"

// NES PPU generates 256x240 pixels.
const (
	Width  = 256
	Height = 240
)

const (
	dotsPerLine    = 341
	lastDot        = dotsPerLine - 1
	visibleDots    = 256
	visibleLines   = 240
	vblankLine     = visibleLines + 1 // 241
	frameEndLine   = 261
	maxLineSprites = 8

	// Bits of v / t copied from t at the end of a line (coarse X, nametable X)
	// and during pre-render (fine Y, coarse Y, nametable Y).
	horizontalBits uint16 = 0x041F
	verticalBits   uint16 = 0x7BE0
)

// stage is the part of the frame the PPU is in.
type stage int

const (
	stagePreRender stage = iota
	stageRender
	stagePostRender
	stageVBlank
)

func (s stage) String() string {
	switch s {
	case stagePreRender:
		return "pre-render"
	case stageRender:
		return "render"
	case stagePostRender:
		return "post-render"
	case stageVBlank:
		return "vblank"
	}
	return "unknown"
}

// PPU stands for Picture Processing Unit, renders 256px x 240px image for a screen.
// PPU is 3x faster than CPU and rendering 1 frame requires 341x262=89342 cycles (Each cycles writes a dot).
//
// This PPU implementation includes PPU regsters as well.
// References:
//   https://www.nesdev.org/wiki/PPU
//   https://www.nesdev.org/wiki/PPU_rendering
//   https://pgate1.at-ninja.jp/NES_on_FPGA/nes_ppu.htm (In Japanese)
type PPU struct {
	bus    *Bus
	cpu    *CPU
	sink   PixelSink
	colors *[64]uint32

	// Registers for PPU.
	// Reference:
	//   https://www.nesdev.org/wiki/PPU_registers
	//   https://www.nesdev.org/wiki/PPU_scrolling
	// Current VRAM address (15bit)
	v uint16
	// Temporary VRAM address (15bit), the top left onscreen tile.
	t uint16
	// Fine X scroll (3bit)
	x byte
	// w indicates whether the next $2005 / $2006 write is the first one.
	w bool
	// buffer for PPUDATA $2007
	buffer byte

	// $2000
	nmiEnabled       bool
	tallSprites      bool
	spritePage       uint16
	backgroundPage   uint16
	addressIncrement uint16
	// $2001
	grayscale       bool
	showLeftBG      bool
	showLeftSprites bool
	showBackground  bool
	showSprites     bool
	// $2002
	vblank         bool
	spriteZeroHit  bool
	spriteOverflow bool

	oam        [256]byte
	oamAddress byte

	lineSprites     [maxLineSprites]byte
	lineSpriteCount int

	stage    stage
	cycle    int
	scanline int
	even     bool

	// Frame counts completed frames.
	Frame uint64
}

// NewPPU creates a PPU.
func NewPPU(bus *Bus, cpu *CPU, region Region, sink PixelSink) *PPU {
	p := &PPU{
		bus:    bus,
		cpu:    cpu,
		sink:   sink,
		colors: &colorsNTSC,
	}
	if region == RegionPAL {
		p.colors = &colorsPAL
	}
	p.Reset()
	return p
}

// Reset puts the PPU at the start of the pre-render line.
func (p *PPU) Reset() {
	p.nmiEnabled = false
	p.tallSprites = false
	p.spritePage, p.backgroundPage = 0, 0
	p.addressIncrement = 1
	p.grayscale = false
	p.showLeftBG, p.showLeftSprites = false, false
	p.showBackground, p.showSprites = true, true
	p.vblank, p.spriteZeroHit, p.spriteOverflow = false, false, false
	p.v, p.t, p.x, p.w, p.buffer = 0, 0, 0, false, 0
	p.oamAddress = 0
	p.lineSpriteCount = 0
	p.stage = stagePreRender
	p.cycle = 0
	p.scanline = frameEndLine
	p.even = true
}

func (p *PPU) rendering() bool {
	return p.showBackground && p.showSprites
}

func (p *PPU) copyHorizontal() {
	p.v = p.v&^horizontalBits | p.t&horizontalBits
}

func (p *PPU) copyVertical() {
	p.v = p.v&^verticalBits | p.t&verticalBits
}

// incrementX moves v to the next tile, wrapping into the next horizontal nametable.
func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

// incrementY moves v one pixel down, wrapping into the next vertical nametable after row 29.
func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		// Rows 30 and 31 are attribute data, wrap without switching nametables.
		y = 0
	default:
		y++
	}
	p.v = p.v&^0x03E0 | y<<5
}

// backgroundPixel returns the 4 bit palette index of the background at x.
func (p *PPU) backgroundPixel(x int) byte {
	xFine := (int(p.x) + x) % 8
	var color byte
	if p.showLeftBG || x >= 8 {
		tile := p.bus.readPPU(0x2000 | p.v&0x0FFF)
		address := (uint16(tile)<<4 + (p.v>>12)&0x07) | p.backgroundPage
		shift := uint(xFine ^ 0x07)
		color = (p.bus.readPPU(address) >> shift) & 0x01
		color |= ((p.bus.readPPU(address+8) >> shift) & 0x01) << 1
		attributeAddress := 0x23C0 | p.v&0x0C00 | (p.v>>4)&0x38 | (p.v>>2)&0x07
		attribute := p.bus.readPPU(attributeAddress)
		shamt := byte(p.v&0x02) | byte((p.v>>4)&0x04)
		color |= ((attribute >> shamt) & 0x03) << 2
	}
	if xFine == 7 {
		p.incrementX()
	}
	return color
}

// spritePixel returns the first opaque sprite pixel at (x, y) in OAM order.
func (p *PPU) spritePixel(x, y int) (color byte, front bool, index byte, ok bool) {
	if !p.showLeftSprites && x < 8 {
		return 0, false, 0, false
	}
	length := 8
	if p.tallSprites {
		length = 16
	}
	for _, i := range p.lineSprites[:p.lineSpriteCount] {
		spriteX := int(p.oam[4*int(i)+3])
		spriteY := int(p.oam[4*int(i)]) + 1
		if x-spriteX < 0 || x-spriteX >= 8 {
			continue
		}
		tile := uint16(p.oam[4*int(i)+1])
		attribute := p.oam[4*int(i)+2]
		xShift := uint((x - spriteX) % 8)
		yOffset := uint16((y - spriteY) % length)
		if attribute&0x40 == 0 { // not flipped horizontally
			xShift ^= 0x07
		}
		if attribute&0x80 != 0 { // flipped vertically
			yOffset ^= uint16(length - 1)
		}
		var address uint16
		if p.tallSprites {
			yOffset = yOffset&0x07 | (yOffset&0x08)<<1
			address = ((tile&0xFE)<<4 + yOffset) | (tile&0x01)<<12
		} else {
			address = (tile<<4 + yOffset) | p.spritePage
		}
		c := (p.bus.readPPU(address) >> xShift) & 0x01
		c |= ((p.bus.readPPU(address+8) >> xShift) & 0x01) << 1
		if c == 0 {
			continue
		}
		return c | (attribute&0x03)<<2 | 0x10, attribute&0x20 == 0, i, true
	}
	return 0, false, 0, false
}

// renderDot draws pixel (x, y) from the background and sprite layers.
func (p *PPU) renderDot(x, y int) {
	var bg byte
	if p.showBackground {
		bg = p.backgroundPixel(x)
	}
	var (
		sprite byte
		front  bool
		index  byte
		opaque bool
	)
	if p.showSprites {
		sprite, front, index, opaque = p.spritePixel(x, y)
	}
	bgOpaque := bg&0x03 != 0
	if opaque && index == 0 && bgOpaque && p.showBackground {
		p.spriteZeroHit = true
	}
	address := bg
	switch {
	case opaque && (!bgOpaque || front):
		address = sprite
	case !bgOpaque:
		address = 0
	}
	rgba := p.colors[p.bus.readPPU(0x3F00|uint16(address))&0x3F]
	if p.grayscale {
		rgba = grayscale(rgba)
	}
	p.sink.SetPixel(x, y, rgba)
}

// evaluateSprites picks up to 8 sprites in OAM order for the next line.
func (p *PPU) evaluateSprites() {
	length := 8
	if p.tallSprites {
		length = 16
	}
	p.lineSpriteCount = 0
	for i := 0; i < 64; i++ {
		diff := p.scanline - int(p.oam[4*i])
		if diff < 0 || diff >= length {
			continue
		}
		if p.lineSpriteCount == maxLineSprites {
			p.spriteOverflow = true
			break
		}
		p.lineSprites[p.lineSpriteCount] = byte(i)
		p.lineSpriteCount++
	}
}

// Step emulates a cycle of PPU and each cycles renders a pixel for NTSC,
// so PPU renders a pixel (left to right, top to bottom) respectively.
// PPU renders 256x240 pixels but it actually processes 341x262 area.
// Reference:
//   https://www.nesdev.org/wiki/PPU_rendering
//   https://www.nesdev.org/wiki/File:Ntsc_timing.png
func (p *PPU) Step() {
	switch p.stage {
	case stagePreRender:
		switch {
		case p.cycle == 1:
			p.vblank = false
			p.spriteZeroHit = false
			p.spriteOverflow = false
			p.lineSpriteCount = 0
		case p.cycle == visibleDots+2 && p.rendering():
			p.copyHorizontal()
		case 280 < p.cycle && p.cycle < 305 && p.rendering():
			p.copyVertical()
		}
		end := lastDot
		if !p.even && p.rendering() {
			// Odd frames are one dot shorter while rendering.
			end--
		}
		if p.cycle >= end {
			p.stage = stageRender
			p.cycle = 0
			p.scanline = 0
			p.bus.mapper.Scanline(false)
		}
	case stageRender:
		switch {
		case 0 < p.cycle && p.cycle <= visibleDots:
			p.renderDot(p.cycle-1, p.scanline)
		case p.cycle == visibleDots+1 && p.showBackground:
			p.incrementY()
		case p.cycle == visibleDots+2 && p.rendering():
			p.copyHorizontal()
		}
		if p.cycle >= lastDot {
			p.evaluateSprites()
			p.bus.mapper.Scanline(false)
			p.scanline++
			p.cycle = 0
		}
		if p.scanline >= visibleLines {
			p.stage = stagePostRender
		}
	case stagePostRender:
		if p.cycle >= lastDot {
			p.bus.mapper.Scanline(true)
			p.scanline++
			p.cycle = 0
			p.stage = stageVBlank
			p.Frame++
			p.sink.Redraw()
			glog.V(2).Infof("PPU frame %d done", p.Frame)
		}
	case stageVBlank:
		if p.cycle == 1 && p.scanline == vblankLine {
			p.vblank = true
			if p.nmiEnabled {
				p.cpu.TriggerNMI()
			}
		}
		if p.cycle >= lastDot {
			p.bus.mapper.Scanline(true)
			p.scanline++
			p.cycle = 0
		}
		if p.scanline >= frameEndLine {
			p.stage = stagePreRender
			p.even = !p.even
		}
	}
	p.cycle++
}

// DMA copies a page into OAM starting at OAMADDR, wrapping around.
func (p *PPU) DMA(page [256]byte) {
	for i, data := range page {
		p.oam[byte(int(p.oamAddress)+i)] = data
	}
}
