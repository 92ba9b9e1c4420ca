package headless

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/jyane/nesemu/nes"
)

// FrameCapture is an nes.PixelSink keeping the last finished frame in memory.
type FrameCapture struct {
	back   *image.RGBA
	front  *image.RGBA
	frames uint64
}

func NewFrameCapture() *FrameCapture {
	return &FrameCapture{
		back:  image.NewRGBA(image.Rect(0, 0, nes.Width, nes.Height)),
		front: image.NewRGBA(image.Rect(0, 0, nes.Width, nes.Height)),
	}
}

// SetPixel stores a 0xRRGGBBAA color.
func (f *FrameCapture) SetPixel(x, y int, rgba uint32) {
	i := f.back.PixOffset(x, y)
	f.back.Pix[i] = byte(rgba >> 24)
	f.back.Pix[i+1] = byte(rgba >> 16)
	f.back.Pix[i+2] = byte(rgba >> 8)
	f.back.Pix[i+3] = byte(rgba)
}

// Redraw publishes the frame being drawn.
func (f *FrameCapture) Redraw() {
	f.back, f.front = f.front, f.back
	f.frames++
}

// Frames returns the number of finished frames.
func (f *FrameCapture) Frames() uint64 {
	return f.frames
}

// Image returns the last finished frame, it is overwritten by the next Redraw.
func (f *FrameCapture) Image() *image.RGBA {
	return f.front
}

// WritePNG encodes the last finished frame scaled by an integer factor.
func (f *FrameCapture) WritePNG(w io.Writer, scale int) error {
	if scale < 1 {
		return fmt.Errorf("invalid scale %d", scale)
	}
	var img image.Image = f.front
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, nes.Width*scale, nes.Height*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), f.front, f.front.Bounds(), draw.Src, nil)
		img = dst
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// FrameLimit is an nes.WindowSource asking to stop after a number of frames.
type FrameLimit struct {
	console *nes.Console
	limit   uint64
}

func NewFrameLimit(console *nes.Console, frames uint64) *FrameLimit {
	return &FrameLimit{console: console, limit: frames}
}

// CloseRequested implements nes.WindowSource.
func (l *FrameLimit) CloseRequested() bool {
	return l.console.Frame() >= l.limit
}
