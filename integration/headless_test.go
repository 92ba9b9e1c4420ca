package integration

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyane/nesemu/headless"
	"github.com/jyane/nesemu/nes"
)

// program sets the backdrop to light blue and plays a square wave on pulse 1.
var program = []byte{
	0x78,             // SEI
	0xA9, 0x3F,       // LDA #$3F
	0x8D, 0x06, 0x20, // STA $2006
	0xA9, 0x00,       // LDA #$00
	0x8D, 0x06, 0x20, // STA $2006
	0xA9, 0x21,       // LDA #$21
	0x8D, 0x07, 0x20, // STA $2007
	0xA9, 0x08,       // LDA #$08
	0x8D, 0x01, 0x20, // STA $2001
	0xA9, 0x01,       // LDA #$01
	0x8D, 0x15, 0x40, // STA $4015
	0xA9, 0xBF,       // LDA #$BF
	0x8D, 0x00, 0x40, // STA $4000
	0xA9, 0xFF,       // LDA #$FF
	0x8D, 0x02, 0x40, // STA $4002
	0xA9, 0x00,       // LDA #$00
	0x8D, 0x03, 0x40, // STA $4003
	0x4C, 0x29, 0x80, // JMP $8029
}

// buildROM returns an NROM-128 image with an empty CHR ROM bank.
func buildROM() []byte {
	header := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	prg := make([]byte, 0x4000)
	copy(prg, program)
	// Every vector points at $8000.
	for i := 0x3FFA; i < 0x4000; i += 2 {
		prg[i], prg[i+1] = 0x00, 0x80
	}
	rom := append(header, prg...)
	return append(rom, make([]byte, 0x2000)...)
}

func TestHeadlessRun(t *testing.T) {
	cartridge, err := nes.NewCartridge(buildROM())
	require.NoError(t, err)

	dir := t.TempDir()
	wavPath := filepath.Join(dir, "out.wav")
	out, err := os.Create(wavPath)
	require.NoError(t, err)
	recorder := headless.NewWAVRecorder(out)
	capture := headless.NewFrameCapture()

	console, err := nes.NewConsole(cartridge, nes.WithPixelSink(capture), nes.WithAudioSink(recorder))
	require.NoError(t, err)
	console.Run(headless.NewFrameLimit(console, 10))
	require.NoError(t, recorder.Close())
	require.NoError(t, out.Close())

	assert.Equal(t, uint64(10), console.Frame())
	assert.Equal(t, uint64(10), capture.Frames())
	want := color.RGBA{R: 0x4E, G: 0xB6, B: 0xFE, A: 0xFF}
	img := capture.Image()
	for _, p := range [][2]int{{0, 0}, {128, 120}, {nes.Width - 1, nes.Height - 1}} {
		assert.Equal(t, want, img.RGBAAt(p[0], p[1]), "pixel %v", p)
	}

	// About 780 samples per frame at 48kHz.
	assert.InDelta(t, 7800, recorder.Samples(), 400)
	in, err := os.Open(wavPath)
	require.NoError(t, err)
	defer in.Close()
	buf, err := wav.NewDecoder(in).FullPCMBuffer()
	require.NoError(t, err)
	distinct := map[int]bool{}
	for _, s := range buf.Data {
		distinct[s] = true
	}
	assert.Greater(t, len(distinct), 2, "the square wave is audible")

	screenshot := filepath.Join(dir, "frame.png")
	f, err := os.Create(screenshot)
	require.NoError(t, err)
	require.NoError(t, capture.WritePNG(f, 2))
	require.NoError(t, f.Close())
}
