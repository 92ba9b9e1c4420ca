package nes

// nametableOffsets maps the 4 logical nametables onto the 2KB of VRAM.
func nametableOffsets(m Mirroring) [4]uint16 {
	switch m {
	case MirrorVertical:
		return [4]uint16{0x000, 0x400, 0x000, 0x400}
	case MirrorSingleLow:
		return [4]uint16{0x000, 0x000, 0x000, 0x000}
	case MirrorSingleHigh:
		return [4]uint16{0x400, 0x400, 0x400, 0x400}
	}
	return [4]uint16{0x000, 0x000, 0x400, 0x400}
}

// nametableAddress resolves $2000-$3EFF to a VRAM offset through the current mirroring.
func (b *Bus) nametableAddress(address uint16) uint16 {
	index := ((address - 0x2000) / 0x0400) % 4
	return nametableOffsets(b.mapper.Mirroring())[index] + address&0x03FF
}

// paletteIndex resolves $3F00-$3FFF, $3F10 is the same cell as $3F00.
func paletteIndex(address uint16) uint16 {
	i := address & 0x1F
	if i == 0x10 {
		return 0
	}
	return i
}

// readPPU reads data.
// Address        Size	  Description
// -------------------------------------
// $0000-$0FFF	  $1000	  Pattern table 0
// $1000-$1FFF	  $1000	  Pattern table 1
// $2000-$23FF	  $0400	  Nametable 0
// $2400-$27FF	  $0400	  Nametable 1
// $2800-$2BFF	  $0400	  Nametable 2
// $2C00-$2FFF	  $0400	  Nametable 3
// $3000-$3EFF	  $0F00	  Mirrors of $2000-$2EFF
// $3F00-$3F1F	  $0020	  Palette RAM indexes
// $3F20-$3FFF	  $00E0	  Mirrors of $3F00-$3F1F
// Reference: https://www.nesdev.org/wiki/PPU_memory_map
func (b *Bus) readPPU(address uint16) byte {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		return b.mapper.ReadFromPPU(address)
	case address < 0x3F00:
		return b.vram.read(b.nametableAddress(address))
	default:
		return b.palette[paletteIndex(address)]
	}
}

// writePPU writes data.
// Reference: https://www.nesdev.org/wiki/PPU_memory_map
func (b *Bus) writePPU(address uint16, data byte) {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		b.mapper.WriteFromPPU(address, data)
	case address < 0x3F00:
		b.vram.write(b.nametableAddress(address), data)
	default:
		b.palette[paletteIndex(address)] = data
	}
}
