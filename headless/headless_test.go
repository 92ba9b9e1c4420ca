package headless

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyane/nesemu/nes"
)

func TestWAVRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	r := NewWAVRecorder(f)
	for i := 0; i < flushSize+10; i++ {
		r.QueueSample(uint16(i))
	}
	assert.False(t, r.BufferFull())
	require.NoError(t, r.Close())
	require.NoError(t, f.Close())
	assert.Equal(t, flushSize+10, r.Samples())

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()
	d := wav.NewDecoder(in)
	require.True(t, d.IsValidFile())
	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, uint32(nes.SampleRate), d.SampleRate)
	assert.Equal(t, uint16(1), d.NumChans)
	require.Len(t, buf.Data, flushSize+10)
	assert.Equal(t, -0x8000, buf.Data[0])
	assert.Equal(t, -0x8000+9, buf.Data[9])
}

func TestFrameCapture(t *testing.T) {
	f := NewFrameCapture()
	f.SetPixel(0, 0, 0xFF0000FF)
	f.SetPixel(nes.Width-1, nes.Height-1, 0x00FF00FF)
	assert.Equal(t, uint8(0), f.Image().Pix[0], "nothing is published before Redraw")
	f.Redraw()
	assert.Equal(t, uint64(1), f.Frames())
	img := f.Image()
	r, g, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	assert.Equal(t, uint32(0xFFFF), a)
	_, g, _, _ = img.At(nes.Width-1, nes.Height-1).RGBA()
	assert.Equal(t, uint32(0xFFFF), g)
}

func TestFrameCaptureWritePNG(t *testing.T) {
	f := NewFrameCapture()
	f.SetPixel(1, 0, 0x0000FFFF)
	f.Redraw()
	path := filepath.Join(t.TempDir(), "frame.png")
	out, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.WritePNG(out, 2))
	require.NoError(t, out.Close())

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()
	img, err := png.Decode(in)
	require.NoError(t, err)
	assert.Equal(t, nes.Width*2, img.Bounds().Dx())
	assert.Equal(t, nes.Height*2, img.Bounds().Dy())
	for _, x := range []int{2, 3} {
		_, _, b, _ := img.At(x, 1).RGBA()
		assert.Equal(t, uint32(0xFFFF), b, "x=%d", x)
	}

	assert.Error(t, f.WritePNG(out, 0))
}
