package nes

// Reference: https://www.nesdev.org/wiki/APU_Triangle

var triangleSequence = [32]byte{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

type triangle struct {
	enabled       bool
	lengthCounter byte

	// control doubles as the length counter halt flag.
	control       bool
	linearReload  byte
	linearCounter byte
	linearHalt    bool

	timer      uint16
	timerValue uint16
	position   int
	sample     byte
}

func (t *triangle) reset() {
	*t = triangle{}
}

func (t *triangle) setEnabled(enabled bool) {
	t.enabled = enabled
	if !enabled {
		t.lengthCounter = 0
	}
}

// writeLinear writes $4008: CRRR RRRR.
func (t *triangle) writeLinear(data byte) {
	t.control = data&0x80 != 0
	t.linearReload = data & 0x7F
}

func (t *triangle) writeTimerLow(data byte) {
	t.timer = t.timer&0xFF00 | uint16(data)
}

// writeTimerHigh writes $400B: LLLL LTTT and sets the linear counter reload flag.
func (t *triangle) writeTimerHigh(data byte) {
	t.timer = t.timer&0x00FF | uint16(data&0x07)<<8
	t.lengthCounter = lengthTable[data>>3]
	t.linearHalt = true
}

// step advances the sequencer only while both counters are non-zero, the last level is held otherwise.
func (t *triangle) step() {
	if t.timerValue == 0 && t.lengthCounter > 0 && t.linearCounter > 0 {
		t.sample = triangleSequence[t.position]
		t.position = (t.position + 1) % len(triangleSequence)
	}
	t.timerValue = (t.timerValue + 1) % (t.timer + 1)
}

func (t *triangle) clockLinear() {
	if t.linearHalt {
		t.linearCounter = t.linearReload
	} else if t.linearCounter > 0 {
		t.linearCounter--
	}
	if !t.control {
		t.linearHalt = false
	}
}

func (t *triangle) clockLength() {
	if !t.control && t.lengthCounter > 0 {
		t.lengthCounter--
	}
}
