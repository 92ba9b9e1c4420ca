package nes

// Reference: https://www.nesdev.org/wiki/APU_DMC

// dmcFetchCycles is how long a sample fetch stalls the CPU.
const dmcFetchCycles = 4

var (
	dmcRatesNTSC = [16]uint16{214, 190, 170, 160, 143, 127, 113, 107, 95, 80, 71, 64, 53, 42, 36, 27}
	dmcRatesPAL  = [16]uint16{199, 177, 158, 149, 138, 118, 105, 99, 88, 74, 66, 59, 49, 38, 33, 25}
)

// dmc plays 1 bit delta encoded samples fetched from $C000-$FFFF.
type dmc struct {
	bus   *Bus
	cpu   *CPU
	rates *[16]uint16

	enabled    bool
	irqEnabled bool
	irq        bool
	loop       bool
	rate       byte

	startAddress uint16
	sampleLength uint16
	address      uint16
	remaining    uint16
	stopped      bool

	rateCounter uint16
	counter     byte
	shift       byte
	current     byte
	output      byte
}

func (d *dmc) reset() {
	d.enabled = false
	d.irqEnabled = false
	d.irq = false
	d.loop = false
	d.rate = 0
	d.startAddress = 0xC000
	d.address = 0xC000
	d.sampleLength = 1
	d.remaining = 1
	d.stopped = true
	d.rateCounter = 1
	d.counter = 8
	d.shift = 0
	d.current = 0
	d.output = 0
}

// writeControl writes $4010: IL-- RRRR. Clearing I acknowledges a pending interrupt.
func (d *dmc) writeControl(data byte) {
	d.irqEnabled = data&0x80 != 0
	if !d.irqEnabled {
		d.irq = false
	}
	d.loop = data&0x40 != 0
	d.rate = data & 0x0F
}

// writeRaw writes $4011, the direct load of the output level.
func (d *dmc) writeRaw(data byte) {
	if d.enabled {
		d.output = data & 0x7F
	}
}

// writeAddress writes $4012, sample address = %11AAAAAA.AA000000.
func (d *dmc) writeAddress(data byte) {
	d.startAddress = 0xC000 | uint16(data)<<6
}

// writeLength writes $4013, sample length = %LLLL.LLLL0001.
func (d *dmc) writeLength(data byte) {
	d.sampleLength = uint16(data)<<4 + 1
}

// setEnabled handles the DMC bit of $4015, a stopped sample restarts from its start address.
func (d *dmc) setEnabled(enabled bool) {
	d.enabled = enabled
	d.irq = false
	if !enabled {
		d.stopped = true
		return
	}
	if d.stopped {
		d.stopped = false
		d.remaining = d.sampleLength
		d.address = d.startAddress
		d.shift = 0
	}
}

// step advances the output unit, it reports whether the channel raised its interrupt.
func (d *dmc) step() bool {
	if !d.enabled || d.stopped {
		return false
	}
	d.rateCounter--
	if d.rateCounter > 0 {
		return false
	}
	d.rateCounter = d.rates[d.rate]
	raised := false
	if d.shift == 0 {
		d.current = d.bus.read(d.address)
		d.cpu.SkipCycles(dmcFetchCycles)
		// The address wraps to $8000 after $FFFF.
		d.address++
		if d.address == 0 {
			d.address = 0x8000
		}
		d.remaining--
		if d.remaining == 0 {
			if d.loop {
				d.remaining = d.sampleLength
				d.address = d.startAddress
			} else {
				d.stopped = true
				if d.irqEnabled {
					d.irq = true
					raised = true
				}
			}
		}
		d.shift = 0x01
	}
	if d.current&d.shift != 0 {
		if d.counter < 126 {
			d.counter += 2
		}
	} else if d.counter > 1 {
		d.counter -= 2
	}
	d.shift <<= 1
	d.output = d.counter
	return raised
}
