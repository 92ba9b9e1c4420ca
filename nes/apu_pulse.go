package nes

// Reference: https://www.nesdev.org/wiki/APU_Pulse

const dutyInitialPosition = 0x80

var dutyCycles = [4]byte{0b01000000, 0b01100000, 0b01111000, 0b10011111}

// envelope is the decaying volume shared by pulse and noise channels.
// Reference: https://www.nesdev.org/wiki/APU_Envelope
type envelope struct {
	constant bool
	period   byte // also the constant volume
	volume   byte
	divider  byte
	restart  bool
}

func (e *envelope) clock(loop bool) {
	if e.restart {
		e.volume = 15
		e.divider = e.period + 1
		e.restart = false
		return
	}
	if e.divider > 0 {
		e.divider--
		return
	}
	if e.volume > 0 {
		e.volume--
	} else if loop {
		e.volume = 15
	}
	e.divider = e.period + 1
}

func (e *envelope) output() byte {
	if e.constant {
		return e.period
	}
	return e.volume
}

type pulse struct {
	// onesComplement is set on pulse 1, its sweep negates with one's complement.
	onesComplement bool

	enabled       bool
	duty          byte
	dutyPosition  byte
	high          bool
	halt          bool
	envelope      envelope
	lengthCounter byte

	timer      uint16
	timerValue uint16

	sweepEnabled bool
	sweepPeriod  byte
	sweepNegate  bool
	sweepShift   byte
	sweepDivider byte
	sweepReload  bool
}

func (p *pulse) reset() {
	ones := p.onesComplement
	*p = pulse{onesComplement: ones}
	p.dutyPosition = dutyInitialPosition
	p.envelope.restart = true
	p.sweepReload = true
}

func (p *pulse) setEnabled(enabled bool) {
	p.enabled = enabled
	if !enabled {
		p.lengthCounter = 0
	}
}

// writeControl writes $4000 / $4004: DDLC VVVV.
func (p *pulse) writeControl(data byte) {
	p.duty = data >> 6
	p.halt = data&0x20 != 0
	p.envelope.constant = data&0x10 != 0
	p.envelope.period = data & 0x0F
}

// writeSweep writes $4001 / $4005: EPPP NSSS.
func (p *pulse) writeSweep(data byte) {
	p.sweepEnabled = data&0x80 != 0
	p.sweepPeriod = (data >> 4) & 0x07
	p.sweepNegate = data&0x08 != 0
	p.sweepShift = data & 0x07
}

func (p *pulse) writeTimerLow(data byte) {
	p.timer = p.timer&0xFF00 | uint16(data)
}

// writeTimerHigh writes $4003 / $4007: LLLL LTTT, restarting the envelope and the duty sequence.
func (p *pulse) writeTimerHigh(data byte) {
	p.timer = p.timer&0x00FF | uint16(data&0x07)<<8
	p.lengthCounter = lengthTable[data>>3]
	p.dutyPosition = dutyInitialPosition
	p.envelope.restart = true
}

func (p *pulse) step() {
	if p.timerValue == 0 {
		p.high = dutyCycles[p.duty]&p.dutyPosition != 0
		p.dutyPosition >>= 1
		if p.dutyPosition == 0 {
			p.dutyPosition = dutyInitialPosition
		}
	}
	p.timerValue = (p.timerValue + 1) % (p.timer + 1)
}

func (p *pulse) clockLength() {
	if !p.halt && p.lengthCounter > 0 {
		p.lengthCounter--
	}
}

// sweepDelta is the signed change of the period, wrapping like the 16 bit hardware adder.
func (p *pulse) sweepDelta(forMute bool) uint16 {
	delta := (p.timer + 1) >> p.sweepShift
	if !p.sweepNegate {
		return delta
	}
	switch {
	case p.onesComplement && !forMute:
		return ^delta
	case p.onesComplement:
		return -delta
	case forMute:
		return -delta + 1
	}
	return -delta
}

func (p *pulse) clockSweep() {
	if p.sweepReload {
		p.sweepDivider = p.sweepPeriod + 1
		p.sweepReload = false
		return
	}
	if p.sweepDivider > 0 {
		p.sweepDivider--
		return
	}
	if !p.sweepEnabled {
		return
	}
	p.sweepDivider = p.sweepPeriod + 1
	target := p.sweepDelta(false) + p.timer + 1
	if target <= 0x07FF && p.timer+1 >= 8 {
		p.timer = target
	}
}

// muted reports whether the period is out of the 11 bit range, even when sweep is disabled.
func (p *pulse) muted() bool {
	target := p.sweepDelta(true) + p.timer + 1
	return p.timer+1 < 8 || target > 0x07FF
}

func (p *pulse) output() byte {
	if p.muted() || p.lengthCounter == 0 || !p.high {
		return 0
	}
	return p.envelope.output()
}
