package nes

import (
	"fmt"
	"time"

	"github.com/golang/glog"
)

// Master clock dividers per region.
// Reference: https://www.nesdev.org/wiki/Cycle_reference_chart
type dividers struct {
	cpu, apu, ppu int
}

var (
	dividersNTSC = dividers{cpu: 12, apu: 24, ppu: 4}
	dividersPAL  = dividers{cpu: 16, apu: 32, ppu: 5}
)

// pacingTicks is how many ticks run between two checks of the audio sink.
const pacingTicks = 256

// Console wires the chips together and drives them from the master clock.
type Console struct {
	cartridge *Cartridge
	mapper    Mapper
	bus       *Bus
	cpu       *CPU
	ppu       *PPU
	apu       *APU

	pixels PixelSink
	audio  AudioSink
	inputs [2]InputSource

	dividers dividers
	// Master clock units left until each chip steps.
	cpuCount, apuCount, ppuCount int
}

// Option configures a Console.
type Option func(*Console)

// WithPixelSink sets where rendered pixels go, they are discarded by default.
func WithPixelSink(s PixelSink) Option {
	return func(c *Console) { c.pixels = s }
}

// WithAudioSink sets where audio samples go, they are discarded by default.
func WithAudioSink(s AudioSink) Option {
	return func(c *Console) { c.audio = s }
}

// WithInput plugs a controller into port 0 or 1.
func WithInput(port int, src InputSource) Option {
	return func(c *Console) {
		if port == 0 || port == 1 {
			c.inputs[port] = src
		}
	}
}

// NewConsole creates a console for the cartridge and powers it on.
func NewConsole(cartridge *Cartridge, opts ...Option) (*Console, error) {
	c := &Console{
		cartridge: cartridge,
		pixels:    discardPixels{},
		audio:     discardAudio{},
		inputs:    [2]InputSource{noInput{}, noInput{}},
		dividers:  dividersNTSC,
	}
	for _, opt := range opts {
		opt(c)
	}
	if cartridge.Region() == RegionPAL {
		c.dividers = dividersPAL
	}
	mapper, err := NewMapper(cartridge)
	if err != nil {
		return nil, fmt.Errorf("failed to create mapper: %w", err)
	}
	c.mapper = mapper
	c.bus = NewBus(cartridge, mapper)
	c.cpu = NewCPU(c.bus)
	c.ppu = NewPPU(c.bus, c.cpu, cartridge.Region(), c.pixels)
	c.apu = NewAPU(c.bus, c.cpu, cartridge.Region(), c.audio)
	c.bus.attach(c.cpu, c.ppu, c.apu)
	for i, input := range c.inputs {
		c.bus.controllers[i] = NewController(input)
	}
	c.Reset()
	glog.Infof("Console powered on: %s", cartridge)
	return c, nil
}

// Reset resets every chip, the cartridge keeps its bank state.
func (c *Console) Reset() {
	c.cpu.Reset()
	c.ppu.Reset()
	c.apu.Reset()
	c.cpuCount = c.dividers.cpu
	c.apuCount = c.dividers.apu
	c.ppuCount = c.dividers.ppu
}

func minInt(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Tick advances the master clock to the next chip event and steps every chip due,
// always in CPU, APU, PPU order.
func (c *Console) Tick() {
	d := minInt(c.cpuCount, c.apuCount, c.ppuCount)
	c.cpuCount -= d
	c.apuCount -= d
	c.ppuCount -= d
	if c.cpuCount == 0 {
		c.cpu.Step()
		c.cpuCount = c.dividers.cpu
	}
	if c.apuCount == 0 {
		c.apu.Step()
		c.apuCount = c.dividers.apu
	}
	if c.ppuCount == 0 {
		c.ppu.Step()
		c.ppuCount = c.dividers.ppu
	}
}

// StepInstruction runs until the CPU has finished its current instruction, returns the CPU cycles taken.
func (c *Console) StepInstruction() int {
	start := c.cpu.Cycles
	for {
		c.Tick()
		if c.cpu.Cycles > start && c.cpu.wait == 0 && c.cpuCount == c.dividers.cpu {
			return int(c.cpu.Cycles - start)
		}
	}
}

// StepFrame runs until the PPU completes a frame.
func (c *Console) StepFrame() {
	frame := c.ppu.Frame
	for c.ppu.Frame == frame {
		c.Tick()
	}
}

// Run drives the console until the window asks to close. The audio sink paces the
// emulation: nothing runs while its buffer is full.
func (c *Console) Run(window WindowSource) {
	glog.Infof("Console running")
	for !window.CloseRequested() {
		for c.audio.BufferFull() {
			if window.CloseRequested() {
				return
			}
			time.Sleep(time.Millisecond)
		}
		for i := 0; i < pacingTicks; i++ {
			c.Tick()
		}
	}
	glog.Infof("Console stopped after %d frames", c.ppu.Frame)
}

// Frame returns the number of completed frames.
func (c *Console) Frame() uint64 {
	return c.ppu.Frame
}

func (c *Console) Cartridge() *Cartridge {
	return c.cartridge
}
