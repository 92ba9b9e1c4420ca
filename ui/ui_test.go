package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyane/nesemu/nes"
)

func TestScreenRedraw(t *testing.T) {
	s := NewScreen()
	s.SetPixel(1, 2, 0x11223344)
	s.Redraw()
	s.SetPixel(1, 2, 0x55667788)

	cmd, ok := s.commands.Pop()
	require.True(t, ok)
	assert.Equal(t, commandPresent, cmd.kind)
	i := cmd.frame.PixOffset(1, 2)
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x44}, cmd.frame.Pix[i:i+4], "the sent frame is a copy")
}

func TestScreenDropsFrames(t *testing.T) {
	s := NewScreen()
	for i := 0; i < frameQueueSize+2; i++ {
		s.Redraw()
	}
	assert.Equal(t, uint64(2), s.dropped)
	assert.Equal(t, frameQueueSize, s.commands.Len())
}

func TestScreenShutdown(t *testing.T) {
	s := NewScreen()
	s.Shutdown()
	cmd, ok := s.commands.Pop()
	require.True(t, ok)
	assert.Equal(t, commandShutdown, cmd.kind)
}

func TestSpeakerProcess(t *testing.T) {
	s := NewSpeaker()
	s.QueueSample(0x8000)
	s.QueueSample(0xFFFF)
	out := make([]int16, 4)
	s.process(out)
	assert.Equal(t, []int16{0, 0x7FFF, 0x7FFF, 0x7FFF}, out, "an underrun holds the last sample")
	s.QueueSample(0x0000)
	s.process(out[:1])
	assert.Equal(t, int16(-0x8000), out[0])
}

func TestSpeakerBufferFull(t *testing.T) {
	s := NewSpeaker()
	for i := 0; i < speakerLatency-1; i++ {
		s.QueueSample(0)
	}
	assert.False(t, s.BufferFull())
	s.QueueSample(0)
	assert.True(t, s.BufferFull())
}

func TestKeyboardPort(t *testing.T) {
	k := NewKeyboard()
	k.state[1] = 1<<nes.ButtonA | 1<<nes.ButtonRight
	assert.Equal(t, [8]bool{}, k.Port(0).Buttons())
	want := [8]bool{}
	want[nes.ButtonA] = true
	want[nes.ButtonRight] = true
	assert.Equal(t, want, k.Port(1).Buttons())
}

func TestCloseFlag(t *testing.T) {
	var c closeFlag
	assert.False(t, c.CloseRequested())
	c.set()
	assert.True(t, c.CloseRequested())
}
