package nes

// Reference: https://www.nesdev.org/wiki/APU_Noise

var (
	noisePeriodsNTSC = [16]uint16{4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068}
	noisePeriodsPAL  = [16]uint16{4, 8, 14, 30, 60, 88, 118, 148, 188, 236, 354, 472, 708, 944, 1890, 3778}
)

type noise struct {
	periods *[16]uint16

	enabled       bool
	halt          bool
	envelope      envelope
	lengthCounter byte

	// mode selects the short feedback tap (bit 6) instead of bit 1.
	mode       bool
	period     byte
	timerValue uint16
	shift      uint16
	sample     byte
}

func (n *noise) reset() {
	periods := n.periods
	*n = noise{periods: periods, shift: 1}
	n.envelope.restart = true
}

func (n *noise) setEnabled(enabled bool) {
	n.enabled = enabled
	if !enabled {
		n.lengthCounter = 0
	}
}

// writeControl writes $400C: --LC VVVV.
func (n *noise) writeControl(data byte) {
	n.halt = data&0x20 != 0
	n.envelope.constant = data&0x10 != 0
	n.envelope.period = data & 0x0F
}

// writePeriod writes $400E: M--- PPPP.
func (n *noise) writePeriod(data byte) {
	n.mode = data&0x80 != 0
	n.period = data & 0x0F
}

// writeLength writes $400F: LLLL L---.
func (n *noise) writeLength(data byte) {
	n.lengthCounter = lengthTable[data>>3]
	n.envelope.restart = true
}

// step clocks the 15 bit LFSR when the timer wraps.
func (n *noise) step() {
	if n.timerValue == 0 {
		tap := uint16(1)
		if n.mode {
			tap = 6
		}
		feedback := (n.shift ^ n.shift>>tap) & 1
		n.shift = n.shift>>1 | feedback<<14
		n.sample = byte(n.shift & 1)
	}
	n.timerValue = (n.timerValue + 1) % n.periods[n.period]
}

func (n *noise) clockLength() {
	if !n.halt && n.lengthCounter > 0 {
		n.lengthCounter--
	}
}

func (n *noise) output() byte {
	if n.sample == 0 || n.lengthCounter == 0 {
		return 0
	}
	return n.envelope.output()
}
