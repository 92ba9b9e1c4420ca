package nes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMapper(t *testing.T, r testROM) Mapper {
	t.Helper()
	m, err := NewMapper(r.cartridge(t))
	require.NoError(t, err)
	return m
}

// bankMarker reads the marker testROM.bytes puts at the end of each PRG bank.
func bankMarker(m Mapper, window uint16) byte {
	return m.ReadFromCPU(window + 0x3FF0)
}

func TestNewMapperUnsupported(t *testing.T) {
	_, err := NewMapper(testROM{mapper: 4, chrBanks: 1}.cartridge(t))
	var unsupported UnsupportedMapperError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, byte(4), unsupported.ID)
}

func TestMapper0Mirror(t *testing.T) {
	m := newTestMapper(t, testROM{program: []byte{0x12, 0x34}, chrBanks: 1})
	assert.Equal(t, byte(0x12), m.ReadFromCPU(0x8000))
	assert.Equal(t, byte(0x12), m.ReadFromCPU(0xC000), "NROM-128 mirrors $8000 at $C000")
	assert.Equal(t, byte(0x34), m.ReadFromCPU(0xC001))
}

func TestMapper0CHRRAM(t *testing.T) {
	m := newTestMapper(t, testROM{chrBanks: 0})
	m.WriteFromPPU(0x0123, 0xAB)
	assert.Equal(t, byte(0xAB), m.ReadFromPPU(0x0123))

	rom := newTestMapper(t, testROM{chrBanks: 1})
	rom.WriteFromPPU(0x0123, 0xAB)
	assert.Equal(t, byte(0x00), rom.ReadFromPPU(0x0123), "CHR ROM is read-only")
}

func TestMapper0TooLarge(t *testing.T) {
	_, err := NewMapper(testROM{prgBanks: 4, chrBanks: 1}.cartridge(t))
	assert.Error(t, err)
}

// writeMMC1 loads value through the serial port at address.
func writeMMC1(m Mapper, address uint16, value byte) {
	for i := 0; i < 5; i++ {
		m.WriteFromCPU(address, value>>i&0x01)
	}
}

func TestMapper1PowerOn(t *testing.T) {
	m := newTestMapper(t, testROM{mapper: 1, prgBanks: 4, chrBanks: 2, flags6: 0x01})
	assert.Equal(t, byte(0), bankMarker(m, 0x8000))
	assert.Equal(t, byte(3), bankMarker(m, 0xC000), "last bank is fixed at $C000")
	assert.Equal(t, MirrorVertical, m.Mirroring())
}

func TestMapper1SerialWrites(t *testing.T) {
	m := newTestMapper(t, testROM{mapper: 1, prgBanks: 4, chrBanks: 2})
	writeMMC1(m, 0xE000, 0x02)
	assert.Equal(t, byte(2), bankMarker(m, 0x8000))
	assert.Equal(t, byte(3), bankMarker(m, 0xC000))

	// Four writes do not commit.
	for i := 0; i < 4; i++ {
		m.WriteFromCPU(0xE000, 0x01)
	}
	assert.Equal(t, byte(2), bankMarker(m, 0x8000))
	// Bit 7 resets the shift register.
	m.WriteFromCPU(0xE000, 0x80)
	writeMMC1(m, 0xE000, 0x01)
	assert.Equal(t, byte(1), bankMarker(m, 0x8000))
}

func TestMapper1PRGModes(t *testing.T) {
	m := newTestMapper(t, testROM{mapper: 1, prgBanks: 4, chrBanks: 2})
	// mode 2: first bank fixed at $8000
	writeMMC1(m, 0x8000, 0x08)
	writeMMC1(m, 0xE000, 0x03)
	assert.Equal(t, byte(0), bankMarker(m, 0x8000))
	assert.Equal(t, byte(3), bankMarker(m, 0xC000))
	// mode 0: 32KB, low bit ignored
	writeMMC1(m, 0x8000, 0x00)
	writeMMC1(m, 0xE000, 0x03)
	assert.Equal(t, byte(2), bankMarker(m, 0x8000))
	assert.Equal(t, byte(3), bankMarker(m, 0xC000))
}

func TestMapper1Mirroring(t *testing.T) {
	m := newTestMapper(t, testROM{mapper: 1, chrBanks: 1})
	for value, want := range map[byte]Mirroring{
		0x00: MirrorSingleLow,
		0x01: MirrorSingleHigh,
		0x02: MirrorVertical,
		0x03: MirrorHorizontal,
	} {
		writeMMC1(m, 0x8000, 0x0C|value)
		assert.Equal(t, want, m.Mirroring())
	}
}

func TestMapper1CHRBanks(t *testing.T) {
	m := newTestMapper(t, testROM{mapper: 1, chrBanks: 2})
	// 4KB mode, CHR ROM bank n is filled with n/2 in 4KB units.
	writeMMC1(m, 0x8000, 0x1C)
	writeMMC1(m, 0xA000, 0x03)
	writeMMC1(m, 0xC000, 0x00)
	assert.Equal(t, byte(1), m.ReadFromPPU(0x0000))
	assert.Equal(t, byte(0), m.ReadFromPPU(0x1000))
	// 8KB mode ignores the low bit of CHR bank 0.
	writeMMC1(m, 0x8000, 0x0C)
	writeMMC1(m, 0xA000, 0x03)
	assert.Equal(t, byte(1), m.ReadFromPPU(0x0000))
	assert.Equal(t, byte(1), m.ReadFromPPU(0x1000))
}

func TestMapper1PRGRAMDisable(t *testing.T) {
	m := newTestMapper(t, testROM{mapper: 1, chrBanks: 1})
	gate, ok := m.(prgRAMGate)
	require.True(t, ok)
	assert.True(t, gate.prgRAMEnabled())
	writeMMC1(m, 0xE000, 0x10)
	assert.False(t, gate.prgRAMEnabled())
}

func TestMapper2(t *testing.T) {
	m := newTestMapper(t, testROM{mapper: 2, prgBanks: 4, chrBanks: 0})
	assert.Equal(t, byte(0), bankMarker(m, 0x8000))
	assert.Equal(t, byte(3), bankMarker(m, 0xC000))
	m.WriteFromCPU(0x8000, 0x02)
	assert.Equal(t, byte(2), bankMarker(m, 0x8000))
	assert.Equal(t, byte(3), bankMarker(m, 0xC000))
	m.WriteFromCPU(0xFFFF, 0x05)
	assert.Equal(t, byte(1), bankMarker(m, 0x8000), "bank number wraps")
}

func TestMapper3(t *testing.T) {
	m := newTestMapper(t, testROM{mapper: 3, chrBanks: 4})
	assert.Equal(t, byte(0), m.ReadFromPPU(0x0000))
	m.WriteFromCPU(0x8000, 0x02)
	assert.Equal(t, byte(2), m.ReadFromPPU(0x0000))
	assert.Equal(t, byte(2), m.ReadFromPPU(0x1FFF))
	m.WriteFromCPU(0x8000, 0xFF)
	assert.Equal(t, byte(3), m.ReadFromPPU(0x0000), "only the low two bits select a bank")
}
