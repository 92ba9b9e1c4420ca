package nes

// Reference:
//   http://hp.vector.co.jp/authors/VA042397/nes/joypad.html (In Japanese)
//   https://www.nesdev.org/wiki/Controller_reading
//   https://www.nesdev.org/wiki/Standard_controller

type button int

// Controller bit assignments, 1 means pressed otherwise 0.
// read   0 1      2     3  4    5    6     7
// button A B Select Start Up Down Left Right
const (
	ButtonA button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller is the shift register inside a standard controller.
type Controller struct {
	input  InputSource
	latch  byte
	strobe bool
}

func NewController(input InputSource) *Controller {
	if input == nil {
		input = noInput{}
	}
	return &Controller{input: input}
}

func encodeButtons(buttons [8]bool) byte {
	var b byte
	for i, pressed := range buttons {
		if pressed {
			b |= 1 << i
		}
	}
	return b
}

// read returns the next bit. Bit 6 is always set (open bus on the real console).
// - strobe bit on - controller reports only status of the button A on every read
// - strobe bit off - controller shifts out the latched buttons
func (c *Controller) read() byte {
	if c.strobe {
		if c.input.Buttons()[ButtonA] {
			return 0x41
		}
		return 0x40
	}
	ret := (c.latch & 0x01) | 0x40
	c.latch >>= 1
	return ret
}

// write writes strobe, the buttons are latched when the strobe goes low.
func (c *Controller) write(data byte) {
	c.strobe = data&1 == 1
	if !c.strobe {
		c.latch = encodeButtons(c.input.Buttons())
	}
}
