package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWRAMMirror(t *testing.T) {
	c := testROM{chrBanks: 1}.console(t)
	c.bus.write(0x0001, 0x42)
	for _, address := range []uint16{0x0801, 0x1001, 0x1801} {
		assert.Equal(t, byte(0x42), c.bus.read(address), "address=0x%04x", address)
	}
}

func TestPRGRAM(t *testing.T) {
	none := testROM{chrBanks: 1}.console(t)
	none.bus.write(0x6000, 0x42)
	assert.Equal(t, byte(0), none.bus.read(0x6000), "no PRG RAM without the battery flag")

	battery := testROM{chrBanks: 1, flags6: 0x02}.console(t)
	battery.bus.write(0x6000, 0x42)
	battery.bus.write(0x7FFF, 0x43)
	assert.Equal(t, byte(0x42), battery.bus.read(0x6000))
	assert.Equal(t, byte(0x43), battery.bus.read(0x7FFF))
}

func TestPRGRAMDisabledByMMC1(t *testing.T) {
	c := testROM{mapper: 1, chrBanks: 1, flags6: 0x02}.console(t)
	c.bus.write(0x6000, 0x42)
	writeMMC1(c.mapper, 0xE000, 0x10)
	c.bus.write(0x6000, 0x43)
	writeMMC1(c.mapper, 0xE000, 0x00)
	assert.Equal(t, byte(0x42), c.bus.read(0x6000), "writes are dropped while disabled")
}

func TestUnmappedRead(t *testing.T) {
	c := testROM{chrBanks: 1}.console(t)
	assert.Equal(t, byte(0), c.bus.read(0x4000))
	assert.Equal(t, byte(0), c.bus.read(0x5000))
}

func TestDMAPageRegistersReadZero(t *testing.T) {
	c := testROM{chrBanks: 1}.console(t)
	c.ppu.vblank = true
	page := c.bus.dmaPage(0x20)
	assert.Equal(t, [256]byte{}, page)
	assert.True(t, c.ppu.vblank, "DMA must not touch PPU registers")

	page = c.bus.dmaPage(0x80)
	assert.Equal(t, byte(0xEA), page[0x10])
}

func TestController(t *testing.T) {
	var buttons Buttons
	buttons[ButtonA] = true
	buttons[ButtonStart] = true
	buttons[ButtonRight] = true
	c := testROM{chrBanks: 1}.console(t, WithInput(0, buttons))

	c.bus.write(0x4016, 0x01)
	assert.Equal(t, byte(0x41), c.bus.read(0x4016), "strobe reports A")
	assert.Equal(t, byte(0x41), c.bus.read(0x4016), "strobe does not shift")
	c.bus.write(0x4016, 0x00)
	want := []byte{1, 0, 0, 1, 0, 0, 0, 1}
	for i, w := range want {
		assert.Equal(t, 0x40|w, c.bus.read(0x4016), "bit %d", i)
	}
	assert.Equal(t, byte(0x40), c.bus.read(0x4016), "drained register reads 0")
	assert.Equal(t, byte(0x40), c.bus.read(0x4017), "port 2 is empty")
}

func TestNewControllerNilInput(t *testing.T) {
	c := NewController(nil)
	c.write(1)
	c.write(0)
	assert.Equal(t, byte(0x40), c.read())
}
