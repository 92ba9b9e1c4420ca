package nes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartridgeHeader(t *testing.T) {
	c := testROM{mapper: 0x21, prgBanks: 2, chrBanks: 1, flags6: 0x03, pal: true}.cartridge(t)
	assert.Equal(t, byte(0x21), c.MapperID())
	assert.Equal(t, 2, c.PRGBanks())
	assert.Equal(t, 1, c.CHRBanks())
	assert.Equal(t, MirrorVertical, c.Mirroring())
	assert.True(t, c.HasBatteryRAM())
	assert.Equal(t, RegionPAL, c.Region())
	assert.Len(t, c.prgROM, 2*prgROMSizeUnit)
	assert.Len(t, c.chrROM, chrROMSizeUnit)
}

func TestNewCartridgeMirroring(t *testing.T) {
	for flags6, want := range map[byte]Mirroring{
		0x00: MirrorHorizontal,
		0x01: MirrorVertical,
		0x08: MirrorSingleHigh,
		0x09: MirrorSingleLow,
	} {
		c := testROM{chrBanks: 1, flags6: flags6}.cartridge(t)
		assert.Equal(t, want, c.Mirroring(), "flags6=0x%02x", flags6)
	}
}

func TestNewCartridgeStatus(t *testing.T) {
	valid := testROM{chrBanks: 1}.bytes()

	badMagic := append([]byte(nil), valid...)
	badMagic[3] = 0x00
	_, err := NewCartridge(badMagic)
	assert.Equal(t, StatusWrongFormat, err)

	trainer := append([]byte(nil), valid...)
	trainer[6] |= 0x04
	_, err = NewCartridge(trainer)
	assert.Equal(t, StatusTrainer, err)

	noPRG := append([]byte(nil), valid...)
	noPRG[4] = 0
	_, err = NewCartridge(noPRG)
	assert.Equal(t, StatusNoProgram, err)

	_, err = NewCartridge(valid[:len(valid)-1])
	assert.Equal(t, StatusReadFailure, err)

	_, err = NewCartridge(valid[:8])
	assert.Equal(t, StatusReadFailure, err)
}

func TestLoadCartridge(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadCartridge(filepath.Join(dir, "missing.nes"))
	assert.True(t, errors.Is(err, StatusMissing))

	path := filepath.Join(dir, "rom.nes")
	require.NoError(t, os.WriteFile(path, testROM{chrBanks: 1}.bytes(), 0o644))
	c, err := LoadCartridge(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.PRGBanks())
}

func TestLoadStatusCodes(t *testing.T) {
	assert.Equal(t, LoadStatus(0x01), StatusMissing)
	assert.Equal(t, LoadStatus(0x02), StatusReadFailure)
	assert.Equal(t, LoadStatus(0x04), StatusWrongFormat)
	assert.Equal(t, LoadStatus(0x08), StatusNoProgram)
	assert.Equal(t, LoadStatus(0x10), StatusTrainer)
	assert.Equal(t, LoadStatus(0x20), StatusAllocation)
}
