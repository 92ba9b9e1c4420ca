package nes

import (
	"math/rand"
	"time"

	"github.com/golang/glog"
)

// dmaCycles is how long OAM DMA ($4014) stalls the CPU.
const dmaCycles = 514

// Bus is the address decoder shared by CPU and PPU.
// CPU memory map
// 0x0000 - 0x07FF	WRAM
// 0x0800 - 0x1FFF	WRAM Mirror
// 0x2000 - 0x2007	PPU Registers
// 0x2008 - 0x3FFF	PPU Registers Mirror
// 0x4000 - 0x401F	I/O Port
// 0x4020 - 0x5FFF	Extended ROM
// 0x6000 - 0x7FFF	Battery Backup RAM
// 0x8000 - 0xBFFF	ProgramROM Low
// 0xC000 - 0xFFFF	ProgramROM High
// Reference: https://www.nesdev.org/wiki/CPU_memory_map
type Bus struct {
	wram    *RAM
	vram    *RAM
	prgRAM  *RAM // nil unless the cartridge has battery backed RAM
	palette [32]byte
	mapper  Mapper

	cpu         *CPU
	ppu         *PPU
	apu         *APU
	controllers [2]*Controller

	// openBus feeds reads from disabled PRG RAM, games use it to seed their RNG.
	openBus *rand.Rand
}

// NewBus creates a Bus, the chips are attached by the console once they exist.
func NewBus(cartridge *Cartridge, mapper Mapper) *Bus {
	b := &Bus{
		wram:    NewRAM(0x0800),
		vram:    NewRAM(0x0800),
		mapper:  mapper,
		openBus: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if cartridge.HasBatteryRAM() {
		b.prgRAM = NewRAM(0x2000)
	}
	b.controllers[0] = NewController(nil)
	b.controllers[1] = NewController(nil)
	return b
}

func (b *Bus) attach(cpu *CPU, ppu *PPU, apu *APU) {
	b.cpu, b.ppu, b.apu = cpu, ppu, apu
}

func (b *Bus) prgRAMEnabled() bool {
	if g, ok := b.mapper.(prgRAMGate); ok {
		return g.prgRAMEnabled()
	}
	return true
}

func (b *Bus) prgRAMProtected() bool {
	if g, ok := b.mapper.(prgRAMGate); ok {
		return g.prgRAMProtected()
	}
	return false
}

// read reads a byte.
func (b *Bus) read(address uint16) byte {
	switch {
	case address < 0x2000:
		return b.wram.read(address & 0x07FF)
	case address < 0x4000:
		return b.ppu.readRegister(address & 0x2007)
	case address == 0x4015:
		return b.apu.readStatus()
	case address == 0x4016: // 1P
		return b.controllers[0].read()
	case address == 0x4017: // 2P
		return b.controllers[1].read()
	case address < 0x6000:
		// Write-only APU registers, unused I/O and expansion ROM.
		return 0
	case address < 0x8000:
		if b.prgRAM == nil {
			return 0
		}
		if !b.prgRAMEnabled() {
			return byte(b.openBus.Intn(0x100))
		}
		return b.prgRAM.read(address - 0x6000)
	default:
		return b.mapper.ReadFromCPU(address)
	}
}

// read16 reads 2 bytes.
func (b *Bus) read16(address uint16) uint16 {
	l := b.read(address)
	h := b.read(address + 1)
	return uint16(h)<<8 | uint16(l)
}

// read16Wrap reads 2 bytes without carrying into the high byte of the address,
// e.g. reading 0x02FF takes the high byte from 0x0200.
func (b *Bus) read16Wrap(address uint16) uint16 {
	l := b.read(address)
	h := b.read(address&0xFF00 | uint16(byte(address)+1))
	return uint16(h)<<8 | uint16(l)
}

// write writes a byte.
func (b *Bus) write(address uint16, data byte) {
	switch {
	case address < 0x2000:
		b.wram.write(address&0x07FF, data)
	case address < 0x4000:
		b.ppu.writeRegister(address&0x2007, data)
	case address == 0x4014:
		b.cpu.SkipCycles(dmaCycles)
		b.ppu.DMA(b.dmaPage(data))
	case address == 0x4016:
		b.controllers[0].write(data)
		b.controllers[1].write(data)
	case address < 0x4018:
		b.apu.writeRegister(address, data)
	case address < 0x6000:
		glog.V(2).Infof("Ignored CPU bus write: address=0x%04x, data=0x%02x", address, data)
	case address < 0x8000:
		if b.prgRAM != nil && b.prgRAMEnabled() && !b.prgRAMProtected() {
			b.prgRAM.write(address-0x6000, data)
		}
	default:
		b.mapper.WriteFromCPU(address, data)
	}
}

// dmaPage reads the 256 bytes page for OAM DMA. Register pages read as zero.
func (b *Bus) dmaPage(page byte) [256]byte {
	var data [256]byte
	if 0x20 <= page && page < 0x60 {
		return data
	}
	offset := uint16(page) << 8
	for i := range data {
		data[i] = b.read(offset + uint16(i))
	}
	return data
}
