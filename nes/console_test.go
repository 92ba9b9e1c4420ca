package nes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stopAfter struct {
	console *Console
	frames  uint64
}

func (s *stopAfter) CloseRequested() bool { return s.console.Frame() >= s.frames }

// fullSink reports a full buffer a fixed number of times.
type fullSink struct {
	sampleCounter
	full int
}

func (s *fullSink) BufferFull() bool {
	if s.full > 0 {
		s.full--
		return true
	}
	return false
}

func TestNewConsoleUnsupportedMapper(t *testing.T) {
	_, err := NewConsole(testROM{mapper: 4, chrBanks: 1}.cartridge(t))
	require.Error(t, err)
	var unsupported UnsupportedMapperError
	assert.True(t, errors.As(err, &unsupported))
}

func TestTickOrder(t *testing.T) {
	c := testROM{chrBanks: 1}.console(t)
	// The PPU divider is a third of the CPU's: 2 PPU steps, then the CPU and PPU share a tick.
	ppu := c.ppu.cycle
	c.Tick()
	c.Tick()
	assert.Equal(t, uint64(0), c.cpu.Cycles)
	assert.Equal(t, ppu+2, c.ppu.cycle)
	c.Tick()
	assert.Equal(t, uint64(1), c.cpu.Cycles)
	assert.Equal(t, ppu+3, c.ppu.cycle)
	assert.Equal(t, c.dividers.cpu, c.cpuCount)
}

func TestRegionClockRatio(t *testing.T) {
	for _, tc := range []struct {
		pal       bool
		ppuPerCPU float64
	}{
		{false, 3},
		{true, 3.2},
	} {
		c := testROM{chrBanks: 1, pal: tc.pal}.console(t)
		ppuSteps := 0
		for c.cpu.Cycles < 1000 {
			before := c.ppu.cycle
			c.Tick()
			if c.ppu.cycle != before {
				ppuSteps++
			}
		}
		assert.InDelta(t, tc.ppuPerCPU, float64(ppuSteps)/float64(c.cpu.Cycles), 0.01, "pal=%t", tc.pal)
	}
}

func TestStepFrame(t *testing.T) {
	recorder := &frameRecorder{}
	c := testROM{chrBanks: 1}.console(t, WithPixelSink(recorder))
	c.StepFrame()
	c.StepFrame()
	assert.Equal(t, uint64(2), c.Frame())
	assert.Equal(t, 2, recorder.redraws)
}

func TestRunStopsOnClose(t *testing.T) {
	c := testROM{chrBanks: 1}.console(t)
	c.Run(&stopAfter{console: c, frames: 3})
	assert.Equal(t, uint64(3), c.Frame())
}

func TestRunWaitsForAudio(t *testing.T) {
	sink := &fullSink{full: 3}
	c := testROM{chrBanks: 1}.console(t, WithAudioSink(sink))
	c.Run(&stopAfter{console: c, frames: 1})
	assert.Equal(t, 0, sink.full)
	assert.NotEmpty(t, sink.samples)
}

func TestResetKeepsBanks(t *testing.T) {
	c := testROM{mapper: 2, prgBanks: 4, chrBanks: 1}.console(t)
	c.bus.write(0x8000, 0x02)
	c.Reset()
	assert.Equal(t, byte(2), bankMarker(c.mapper, 0x8000))
	assert.Equal(t, uint16(testResetVector), c.cpu.pc)
}

func TestNMIFromVBlank(t *testing.T) {
	c := testROM{
		program: []byte{
			0xA9, 0x80,       // LDA #$80
			0x8D, 0x00, 0x20, // STA $2000
			0x4C, 0x05, 0x80, // JMP $8005
		},
		nmi: []byte{
			0xE6, 0x10, // INC $10
			0x40,       // RTI
		},
		chrBanks: 1,
	}.console(t)
	for i := 0; i < 3; i++ {
		c.StepFrame()
	}
	// Frames end before vblank, the first vblank comes in the second frame.
	assert.Equal(t, byte(2), c.bus.read(0x0010))
}
