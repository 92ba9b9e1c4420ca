package nes

// PixelSink receives the rendered picture, one dot at a time.
type PixelSink interface {
	// SetPixel sets the color at (x, y) as 0xRRGGBBAA.
	SetPixel(x, y int, rgba uint32)
	// Redraw is called once a frame is complete.
	Redraw()
}

// AudioSink receives 16-bit unsigned PCM samples. BufferFull paces the emulation.
type AudioSink interface {
	QueueSample(sample uint16)
	BufferFull() bool
}

// InputSource reports the 8 buttons of a controller, indexed by ButtonA..ButtonRight.
type InputSource interface {
	Buttons() [8]bool
}

// WindowSource tells the driver loop when the user asked to quit.
type WindowSource interface {
	CloseRequested() bool
}

type discardPixels struct{}

func (discardPixels) SetPixel(x, y int, rgba uint32) {}
func (discardPixels) Redraw()                        {}

type discardAudio struct{}

func (discardAudio) QueueSample(sample uint16) {}
func (discardAudio) BufferFull() bool          { return false }

type noInput struct{}

func (noInput) Buttons() [8]bool { return [8]bool{} }

// Buttons is a fixed button state, handy for scripted input.
type Buttons [8]bool

func (b Buttons) Buttons() [8]bool { return b }
