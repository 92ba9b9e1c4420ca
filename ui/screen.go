package ui

import (
	"image"

	"github.com/golang/glog"

	"github.com/jyane/nesemu/nes"
	"github.com/jyane/nesemu/queue"
)

type commandKind int

const (
	commandPresent commandKind = iota
	commandShutdown
)

// command is what the emulation goroutine sends to the presenter.
type command struct {
	kind  commandKind
	frame *image.RGBA
}

// frameQueueSize bounds how many finished frames may wait for the presenter.
const frameQueueSize = 3

// Screen is the nes.PixelSink of the window. Pixels land in a back buffer owned by the
// emulation goroutine, every Redraw hands a copy to the presenter.
type Screen struct {
	back     *image.RGBA
	commands *queue.Ring[command]
	dropped  uint64
}

func NewScreen() *Screen {
	return &Screen{
		back:     image.NewRGBA(image.Rect(0, 0, nes.Width, nes.Height)),
		commands: queue.NewRing[command](frameQueueSize),
	}
}

// SetPixel implements nes.PixelSink.
func (s *Screen) SetPixel(x, y int, rgba uint32) {
	i := s.back.PixOffset(x, y)
	s.back.Pix[i+0] = byte(rgba >> 24)
	s.back.Pix[i+1] = byte(rgba >> 16)
	s.back.Pix[i+2] = byte(rgba >> 8)
	s.back.Pix[i+3] = byte(rgba)
}

// Redraw implements nes.PixelSink, a frame is dropped when the presenter is behind.
func (s *Screen) Redraw() {
	frame := image.NewRGBA(s.back.Rect)
	copy(frame.Pix, s.back.Pix)
	if !s.commands.Push(command{kind: commandPresent, frame: frame}) {
		s.dropped++
		glog.V(2).Infof("Presenter is behind, %d frames dropped", s.dropped)
	}
}

// Shutdown asks the presenter loop to exit.
func (s *Screen) Shutdown() {
	s.commands.PushWait(command{kind: commandShutdown})
}
