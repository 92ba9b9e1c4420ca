package nes

import "github.com/golang/glog"

// APU stands for Audio Processing Unit, it mixes 2 pulse, a triangle, a noise and a DMC channel.
// References:
//   https://www.nesdev.org/wiki/APU
//   https://www.nesdev.org/wiki/APU_Frame_Counter
//   https://www.nesdev.org/wiki/APU_Mixer

// Frame sequencer steps, in APU cycles.
const (
	sequenceStep1 = 3728
	sequenceStep2 = 7456
	sequenceStep3 = 11185
	sequenceStep4 = 14914
	sequenceStep5 = 18640
)

// Mixer weights per channel family, the output is a linear approximation of the DAC.
const (
	weightPulse    float32 = 0.00752
	weightTriangle float32 = 0.00851
	weightNoise    float32 = 0.00494
	weightDMC      float32 = 0.00335

	outputVolume = 0xFFFF
)

// Gaussian low-pass kernels, one output sample per kernel length brings the APU rate down to about 48kHz.
var (
	gaussNTSC = []float32{
		0.000004, 0.000036, 0.000272, 0.001585, 0.007035, 0.023798, 0.061393, 0.120795, 0.181297, 0.207571,
		0.181297, 0.120795, 0.061393, 0.023798, 0.007035, 0.001585, 0.000272, 0.000036, 0.000004,
	}
	gaussPAL = []float32{
		0.000005, 0.000061, 0.000542, 0.003452, 0.015696, 0.050946, 0.118092, 0.195541, 0.231330,
		0.195541, 0.118092, 0.050946, 0.015696, 0.003452, 0.000542, 0.000061, 0.000005,
	}
)

// SampleRate is the approximate rate of samples handed to the AudioSink.
const SampleRate = 48000

// lengthTable is indexed by the 5 bit length counter load value.
var lengthTable = [32]byte{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// $4015 bits.
const (
	channelPulse1   byte = 0x01
	channelPulse2   byte = 0x02
	channelTriangle byte = 0x04
	channelNoise    byte = 0x08
	channelDMC      byte = 0x10
	statusFrameIRQ  byte = 0x40
	statusDMCIRQ    byte = 0x80
)

type APU struct {
	cpu  *CPU
	sink AudioSink

	pulse1   pulse
	pulse2   pulse
	triangle triangle
	noise    noise
	dmc      dmc

	cycleCount int
	fiveStep   bool
	irqEnabled bool
	frameIRQ   bool

	filter []float32
	mixed  float32
	tap    int
}

// NewAPU creates an APU, DMC fetches go through bus.
func NewAPU(bus *Bus, cpu *CPU, region Region, sink AudioSink) *APU {
	a := &APU{
		cpu:    cpu,
		sink:   sink,
		filter: gaussNTSC,
	}
	a.pulse1.onesComplement = true
	a.noise.periods = &noisePeriodsNTSC
	a.dmc.rates = &dmcRatesNTSC
	if region == RegionPAL {
		a.filter = gaussPAL
		a.noise.periods = &noisePeriodsPAL
		a.dmc.rates = &dmcRatesPAL
	}
	a.dmc.bus = bus
	a.dmc.cpu = cpu
	a.Reset()
	return a
}

// Reset sets the power-on state, all channels disabled.
func (a *APU) Reset() {
	a.cycleCount = 0
	a.fiveStep = false
	a.irqEnabled = true
	a.frameIRQ = false
	a.mixed = 0
	a.tap = 0
	a.pulse1.reset()
	a.pulse2.reset()
	a.triangle.reset()
	a.noise.reset()
	a.dmc.reset()
}

// quarterFrame clocks envelopes and the triangle's linear counter.
func (a *APU) quarterFrame() {
	a.pulse1.envelope.clock(a.pulse1.halt)
	a.pulse2.envelope.clock(a.pulse2.halt)
	a.noise.envelope.clock(a.noise.halt)
	a.triangle.clockLinear()
}

// halfFrame clocks length counters and sweep units.
func (a *APU) halfFrame() {
	a.pulse1.clockLength()
	a.pulse2.clockLength()
	a.triangle.clockLength()
	a.noise.clockLength()
	a.pulse1.clockSweep()
	a.pulse2.clockSweep()
}

func (a *APU) stepSequencer() {
	a.cycleCount++
	switch a.cycleCount {
	case sequenceStep1, sequenceStep3:
		a.quarterFrame()
	case sequenceStep2:
		a.quarterFrame()
		a.halfFrame()
	case sequenceStep4:
		if a.fiveStep {
			return
		}
		a.quarterFrame()
		a.halfFrame()
		if a.irqEnabled {
			a.frameIRQ = true
			a.cpu.PullInterruptPin(InterruptFrame)
		}
		a.cycleCount = 0
	case sequenceStep5:
		a.quarterFrame()
		a.halfFrame()
		a.cycleCount = 0
	}
}

// output mixes the current channel levels.
func (a *APU) output() float32 {
	var sample float32
	if a.pulse1.enabled {
		sample += float32(a.pulse1.output()) * weightPulse
	}
	if a.pulse2.enabled {
		sample += float32(a.pulse2.output()) * weightPulse
	}
	if a.triangle.enabled {
		sample += float32(a.triangle.sample) * weightTriangle
	}
	if a.noise.enabled {
		sample += float32(a.noise.output()) * weightNoise
	}
	if a.dmc.enabled {
		sample += float32(a.dmc.output) * weightDMC
	}
	return sample
}

// Step advances the APU by one APU cycle.
func (a *APU) Step() {
	a.stepSequencer()
	a.pulse1.step()
	a.pulse2.step()
	// The triangle timer is clocked at twice the APU rate.
	a.triangle.step()
	a.triangle.step()
	a.noise.step()
	if a.dmc.step() {
		a.cpu.PullInterruptPin(InterruptDMC)
	}

	a.mixed += a.output() * a.filter[a.tap]
	a.tap++
	if a.tap == len(a.filter) {
		a.sink.QueueSample(uint16(a.mixed * outputVolume))
		a.tap = 0
		a.mixed = 0
	}
}

// writeRegister handles $4000-$4013, $4015 and $4017.
func (a *APU) writeRegister(address uint16, data byte) {
	switch address {
	case 0x4000:
		a.pulse1.writeControl(data)
	case 0x4001:
		a.pulse1.writeSweep(data)
	case 0x4002:
		a.pulse1.writeTimerLow(data)
	case 0x4003:
		a.pulse1.writeTimerHigh(data)
	case 0x4004:
		a.pulse2.writeControl(data)
	case 0x4005:
		a.pulse2.writeSweep(data)
	case 0x4006:
		a.pulse2.writeTimerLow(data)
	case 0x4007:
		a.pulse2.writeTimerHigh(data)
	case 0x4008:
		a.triangle.writeLinear(data)
	case 0x400A:
		a.triangle.writeTimerLow(data)
	case 0x400B:
		a.triangle.writeTimerHigh(data)
	case 0x400C:
		a.noise.writeControl(data)
	case 0x400E:
		a.noise.writePeriod(data)
	case 0x400F:
		a.noise.writeLength(data)
	case 0x4010:
		a.dmc.writeControl(data)
		if !a.dmc.irqEnabled {
			a.cpu.ReleaseInterruptPin(InterruptDMC)
		}
	case 0x4011:
		a.dmc.writeRaw(data)
	case 0x4012:
		a.dmc.writeAddress(data)
	case 0x4013:
		a.dmc.writeLength(data)
	case 0x4015:
		a.writeControl(data)
	case 0x4017:
		a.writeFrameCounter(data)
	default:
		glog.V(2).Infof("Ignored APU write: address=0x%04x, data=0x%02x", address, data)
	}
}

// writeControl writes $4015, enabling channels. Disabled channels lose their length counter.
func (a *APU) writeControl(data byte) {
	a.pulse1.setEnabled(data&channelPulse1 != 0)
	a.pulse2.setEnabled(data&channelPulse2 != 0)
	a.triangle.setEnabled(data&channelTriangle != 0)
	a.noise.setEnabled(data&channelNoise != 0)
	a.dmc.setEnabled(data&channelDMC != 0)
	a.cpu.ReleaseInterruptPin(InterruptDMC)
}

// writeFrameCounter writes $4017, the sequencer is realigned to the previous step.
func (a *APU) writeFrameCounter(data byte) {
	a.fiveStep = data&0x80 != 0
	a.irqEnabled = data&0x40 == 0
	if !a.irqEnabled {
		a.frameIRQ = false
		a.cpu.ReleaseInterruptPin(InterruptFrame)
	}
	switch {
	case a.cycleCount > sequenceStep4:
		a.cycleCount = sequenceStep4
	case a.cycleCount > sequenceStep3:
		a.cycleCount = sequenceStep3
	case a.cycleCount > sequenceStep2:
		a.cycleCount = sequenceStep2
	case a.cycleCount > sequenceStep1:
		a.cycleCount = sequenceStep1
	default:
		a.cycleCount = 0
	}
	if !a.fiveStep && a.cycleCount > sequenceStep3 {
		a.cycleCount = sequenceStep3
	}
}

// readStatus reads $4015 and acknowledges both interrupts.
func (a *APU) readStatus() byte {
	var data byte
	if a.dmc.irq {
		data |= statusDMCIRQ
	}
	if a.frameIRQ {
		data |= statusFrameIRQ
	}
	a.dmc.irq = false
	a.frameIRQ = false
	a.cpu.ReleaseInterruptPin(InterruptFrame)
	a.cpu.ReleaseInterruptPin(InterruptDMC)
	if a.pulse1.lengthCounter > 0 {
		data |= channelPulse1
	}
	if a.pulse2.lengthCounter > 0 {
		data |= channelPulse2
	}
	if a.triangle.lengthCounter > 0 {
		data |= channelTriangle
	}
	if a.noise.lengthCounter > 0 {
		data |= channelNoise
	}
	if a.dmc.enabled {
		data |= channelDMC
	}
	return data
}
