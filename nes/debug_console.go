package nes

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/golang/glog"
)

var (
	errQuit   = errors.New("quit")
	stepArgRe = regexp.MustCompile(`^([0-9]+)([fd]?)$`)
)

// DebugConsole a NES console for debugging, you can execute some commands through stdio.
// commands:
//   s [N|Nf|Nd]:
//     execute N instruction(s), N frame(s) with f, N instructions printing each one with d.
//   p [cpu|ppu|apu|cartridge|controller|wram|vram|stack]:
//     print.
//   br 0xADDR:
//     set a break point.
//   d [file]:
//     dump the chip state as a graphviz dot file.
//   r:
//     reset.
//   q:
//     quit.
type DebugConsole struct {
	*Console
	in          *bufio.Reader
	out         io.Writer
	cycles      uint64
	breakpoints []uint16
}

// NewDebugConsole wraps c, commands are read from in and results written to out.
func NewDebugConsole(c *Console, in io.Reader, out io.Writer) *DebugConsole {
	return &DebugConsole{Console: c, in: bufio.NewReader(in), out: out}
}

func (c *DebugConsole) printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *DebugConsole) step() int {
	cycles := c.StepInstruction()
	c.cycles += uint64(cycles)
	return cycles
}

func (c *DebugConsole) printStack() {
	for i := 0; i < 256; i++ {
		address := uint16(0x100 | i)
		c.printf("0x%04x: 0x%02x, ", address, c.bus.wram.read(address))
		if i%8 == 7 {
			c.printf("\n")
		}
	}
}

func (c *DebugConsole) basePrint() {
	c.printf("--------------------------------------------------\n")
	c.printf("Executed cycles: %d (%.3fs)\n", c.cycles, float64(c.cycles)/CPUFrequency)
	c.printf("Rendered frame: %d\n", c.ppu.Frame)
	c.printf("Last: %s\n", c.cpu.LastExecution())
	c.printf("CPU:  PC=0x%04x, A=0x%02x, X=0x%02x, Y=0x%02x, S=0x%02x, P=0x%02x, IRQ=0x%02x\n",
		c.cpu.pc, c.cpu.a, c.cpu.x, c.cpu.y, c.cpu.s, c.cpu.p.encode(), c.cpu.pins)
	c.printf("PPU: stage=%s, cycle=%d, scanline=%d, v=0x%04x, t=0x%04x\n",
		c.ppu.stage, c.ppu.cycle, c.ppu.scanline, c.ppu.v, c.ppu.t)
}

func (c *DebugConsole) printCommand(args []string) {
	if len(args) < 2 {
		c.basePrint()
		return
	}
	switch args[1] {
	case "c", "cpu":
		c.printf("%+v %+v\n", *c.cpu.p, c.cpu.LastExecution())
	case "p", "ppu":
		c.printf("ctrl=0x%02x mask=0x%02x v=0x%04x t=0x%04x x=%d w=%t oamaddr=0x%02x\n",
			c.ppu.readPPUCTRL(), c.ppu.readPPUMASK(), c.ppu.v, c.ppu.t, c.ppu.x, c.ppu.w, c.ppu.oamAddress)
	case "a", "apu":
		c.printf("cycle=%d five-step=%t frameIRQ=%t dmcIRQ=%t\n",
			c.apu.cycleCount, c.apu.fiveStep, c.apu.frameIRQ, c.apu.dmc.irq)
	case "ca", "cartridge":
		c.printf("%s\n", c.cartridge)
	case "ct", "controller":
		c.printf("%+v %+v\n", *c.bus.controllers[0], *c.bus.controllers[1])
	case "wr", "wram":
		c.printf("%v\n", c.bus.wram.data)
	case "vr", "vram":
		c.printf("%v\n", c.bus.vram.data)
	case "st", "stack":
		c.printStack()
	default:
		c.printf("Unknown print target %q\n", args[1])
	}
}

func (c *DebugConsole) checkBreak() bool {
	for _, b := range c.breakpoints {
		if b == c.cpu.pc {
			c.printf("Break at: 0x%04x\n", b)
			return true
		}
	}
	return false
}

func (c *DebugConsole) stepCommand(args []string) (int, error) {
	if len(args) < 2 {
		return c.step(), nil
	}
	m := stepArgRe.FindStringSubmatch(args[1])
	if m == nil {
		return 0, fmt.Errorf("invalid step argument %q", args[1])
	}
	num, _ := strconv.Atoi(m[1])
	cycles := 0
	switch m[2] {
	case "f":
		// frames, stops early at a break point.
		target := c.ppu.Frame + uint64(num)
		for c.ppu.Frame < target {
			cycles += c.step()
			if c.checkBreak() {
				return cycles, nil
			}
		}
	case "d":
		// debug -> steps with debug messages.
		for i := 0; i < num; i++ {
			cycles += c.step()
			c.basePrint()
			if c.checkBreak() {
				return cycles, nil
			}
		}
	default: // no unit -> step
		for i := 0; i < num; i++ {
			cycles += c.step()
			if c.checkBreak() {
				return cycles, nil
			}
		}
	}
	return cycles, nil
}

func (c *DebugConsole) breakPointCommand(args []string) error {
	if len(args) < 2 {
		return errors.New("breakpoint needs an address")
	}
	address, err := strconv.ParseUint(strings.TrimPrefix(args[1], "0x"), 16, 16)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", args[1], err)
	}
	c.breakpoints = append(c.breakpoints, uint16(address))
	return nil
}

// Snapshot is the chip state written by the dump command.
type Snapshot struct {
	PC, A, X, Y, S, P   int
	IRQPins             int
	PPUStage            string
	PPUCycle, Scanline  int
	V, T                int
	Frame               uint64
	APUCycle            int
	DMCAddress, DMCLeft int
	Mapper              Mapper
}

func (c *DebugConsole) snapshot() Snapshot {
	return Snapshot{
		PC: int(c.cpu.pc), A: int(c.cpu.a), X: int(c.cpu.x), Y: int(c.cpu.y), S: int(c.cpu.s),
		P:        int(c.cpu.p.encode()),
		IRQPins:  int(c.cpu.pins),
		PPUStage: c.ppu.stage.String(),
		PPUCycle: c.ppu.cycle, Scanline: c.ppu.scanline,
		V: int(c.ppu.v), T: int(c.ppu.t),
		Frame:      c.ppu.Frame,
		APUCycle:   c.apu.cycleCount,
		DMCAddress: int(c.apu.dmc.address), DMCLeft: int(c.apu.dmc.remaining),
		Mapper:     c.mapper,
	}
}

// dumpCommand writes the snapshot graph to a dot file.
func (c *DebugConsole) dumpCommand(args []string) error {
	path := "nes.dot"
	if len(args) >= 2 {
		path = args[1]
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	s := c.snapshot()
	memviz.Map(f, &s)
	c.printf("Dumped to %s\n", path)
	return nil
}

// Command executes one command line.
func (c *DebugConsole) Command(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "p", "print":
		c.printCommand(args)
	case "s", "step":
		cycles, err := c.stepCommand(args)
		c.basePrint()
		if err != nil {
			return err
		}
		c.printf("Executed %d CPU cycles.\n", cycles)
	case "br", "breakpoint":
		return c.breakPointCommand(args)
	case "d", "dump":
		return c.dumpCommand(args)
	case "r", "reset":
		c.Reset()
		c.cycles = 0
	case "q", "quit":
		c.printf("Quitting.\n")
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

// Run reads commands until quit, the end of input or the window closes.
func (c *DebugConsole) Run(window WindowSource) error {
	for !window.CloseRequested() {
		c.printf("Debugger mode, 'q' to quit \n>> ")
		line, err := c.in.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read command: %w", err)
		}
		if err := c.Command(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			glog.Warningf("Debug command failed: %v", err)
			c.printf("%v\n", err)
		}
	}
	return nil
}
