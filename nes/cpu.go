package nes

import (
	"fmt"

	"github.com/golang/glog"
)

// CPU emulates NES CPU - is custom 6502 made by RICOH.
// References:
//   https://en.wikipedia.org/wiki/MOS_Technology_6502
//   http://www.6502.org/tutorials/6502opcodes.html
//   http://hp.vector.co.jp/authors/VA042397/nes/6502.html (In Japanese)

// CPUFrequency is the NTSC CPU clock in Hz.
const CPUFrequency = 1789773

const (
	vectorNMI   uint16 = 0xFFFA
	vectorReset uint16 = 0xFFFC
	vectorIRQ   uint16 = 0xFFFE

	// interruptCycles is the length of the NMI / IRQ / BRK sequence.
	interruptCycles = 7
)

// Interrupt sources sharing the IRQ line, each one is pulled and released independently.
const (
	InterruptFrame  byte = 1 << iota // APU frame sequencer
	InterruptDMC                     // APU delta modulation channel
	InterruptMapper                  // cartridge board
)

type addressingMode int

const (
	implied addressingMode = iota
	accumulator
	immediate
	zeropage
	zeropageX
	zeropageY
	relative
	absolute
	absoluteX
	absoluteY
	indirect
	indirectX
	indirectY
)

type status struct {
	c bool // carry
	z bool // zero
	i bool // IRQ
	d bool // decimal - unused on NES
	b bool // break
	r bool // reserved - unused
	v bool // overflow
	n bool // negative
}

// encode encodes the status to a byte.
func (s *status) encode() byte {
	var res byte
	if s.c {
		res |= (1 << 0)
	}
	if s.z {
		res |= (1 << 1)
	}
	if s.i {
		res |= (1 << 2)
	}
	if s.d {
		res |= (1 << 3)
	}
	if s.b {
		res |= (1 << 4)
	}
	if s.r {
		res |= (1 << 5)
	}
	if s.v {
		res |= (1 << 6)
	}
	if s.n {
		res |= (1 << 7)
	}
	return res
}

// decodeFrom decodes a byte to the status.
func (s *status) decodeFrom(data byte) {
	s.c = (data>>0)&1 == 1
	s.z = (data>>1)&1 == 1
	s.i = (data>>2)&1 == 1
	s.d = (data>>3)&1 == 1
	s.b = (data>>4)&1 == 1
	s.r = (data>>5)&1 == 1
	s.v = (data>>6)&1 == 1
	s.n = (data>>7)&1 == 1
}

// pull restores flags from the stack, B does not exist in the register.
func (s *status) pull(data byte) {
	s.decodeFrom(data)
	s.b = false
	s.r = true
}

type CPU struct {
	p   *status // Processor status flag bits
	a   byte    // Accumulator register
	x   byte    // Index register
	y   byte    // Index register
	pc  uint16  // Program counter
	s   byte    // Stack pointer
	bus *Bus

	instructions []instruction

	// wait is the number of cycles left before the next instruction.
	wait int
	// extra is set by instructions taking more cycles than their table entry (branches).
	extra int
	// pins is the bitmask of sources currently pulling the IRQ line.
	pins byte
	// nmi is latched by the PPU and served at the next instruction boundary.
	nmi bool

	// Cycles counts every Step since power on.
	Cycles uint64

	// For debug.
	lastPC      uint16
	lastOpcode  byte
	lastOperand uint16
}

type instruction struct {
	mnemonic string
	mode     addressingMode
	execute  func(addressingMode, uint16)
	size     uint16
	cycles   int
	// pageCycle marks reads paying one more cycle when the indexed address crosses a page.
	pageCycle bool
}

func (c *CPU) createInstructions() []instruction {
	return []instruction{
		{"BRK", implied, c.brk, 1, 7, false},     // 0x00
		{"ORA", indirectX, c.ora, 2, 6, false},   // 0x01
		{},                                       // 0x02
		{},                                       // 0x03
		{},                                       // 0x04
		{"ORA", zeropage, c.ora, 2, 3, false},    // 0x05
		{"ASL", zeropage, c.asl, 2, 5, false},    // 0x06
		{},                                       // 0x07
		{"PHP", implied, c.php, 1, 3, false},     // 0x08
		{"ORA", immediate, c.ora, 2, 2, false},   // 0x09
		{"ASL", accumulator, c.asl, 1, 2, false}, // 0x0A
		{},                                       // 0x0B
		{},                                       // 0x0C
		{"ORA", absolute, c.ora, 3, 4, false},    // 0x0D
		{"ASL", absolute, c.asl, 3, 6, false},    // 0x0E
		{},                                       // 0x0F
		{"BPL", relative, c.bpl, 2, 2, false},    // 0x10
		{"ORA", indirectY, c.ora, 2, 5, true},    // 0x11
		{},                                       // 0x12
		{},                                       // 0x13
		{},                                       // 0x14
		{"ORA", zeropageX, c.ora, 2, 4, false},   // 0x15
		{"ASL", zeropageX, c.asl, 2, 6, false},   // 0x16
		{},                                       // 0x17
		{"CLC", implied, c.clc, 1, 2, false},     // 0x18
		{"ORA", absoluteY, c.ora, 3, 4, true},    // 0x19
		{},                                       // 0x1A
		{},                                       // 0x1B
		{},                                       // 0x1C
		{"ORA", absoluteX, c.ora, 3, 4, true},    // 0x1D
		{"ASL", absoluteX, c.asl, 3, 7, false},   // 0x1E
		{},                                       // 0x1F
		{"JSR", absolute, c.jsr, 3, 6, false},    // 0x20
		{"AND", indirectX, c.and, 2, 6, false},   // 0x21
		{},                                       // 0x22
		{},                                       // 0x23
		{"BIT", zeropage, c.bit, 2, 3, false},    // 0x24
		{"AND", zeropage, c.and, 2, 3, false},    // 0x25
		{"ROL", zeropage, c.rol, 2, 5, false},    // 0x26
		{},                                       // 0x27
		{"PLP", implied, c.plp, 1, 4, false},     // 0x28
		{"AND", immediate, c.and, 2, 2, false},   // 0x29
		{"ROL", accumulator, c.rol, 1, 2, false}, // 0x2A
		{},                                       // 0x2B
		{"BIT", absolute, c.bit, 3, 4, false},    // 0x2C
		{"AND", absolute, c.and, 3, 4, false},    // 0x2D
		{"ROL", absolute, c.rol, 3, 6, false},    // 0x2E
		{},                                       // 0x2F
		{"BMI", relative, c.bmi, 2, 2, false},    // 0x30
		{"AND", indirectY, c.and, 2, 5, true},    // 0x31
		{},                                       // 0x32
		{},                                       // 0x33
		{},                                       // 0x34
		{"AND", zeropageX, c.and, 2, 4, false},   // 0x35
		{"ROL", zeropageX, c.rol, 2, 6, false},   // 0x36
		{},                                       // 0x37
		{"SEC", implied, c.sec, 1, 2, false},     // 0x38
		{"AND", absoluteY, c.and, 3, 4, true},    // 0x39
		{},                                       // 0x3A
		{},                                       // 0x3B
		{},                                       // 0x3C
		{"AND", absoluteX, c.and, 3, 4, true},    // 0x3D
		{"ROL", absoluteX, c.rol, 3, 7, false},   // 0x3E
		{},                                       // 0x3F
		{"RTI", implied, c.rti, 1, 6, false},     // 0x40
		{"EOR", indirectX, c.eor, 2, 6, false},   // 0x41
		{},                                       // 0x42
		{},                                       // 0x43
		{},                                       // 0x44
		{"EOR", zeropage, c.eor, 2, 3, false},    // 0x45
		{"LSR", zeropage, c.lsr, 2, 5, false},    // 0x46
		{},                                       // 0x47
		{"PHA", implied, c.pha, 1, 3, false},     // 0x48
		{"EOR", immediate, c.eor, 2, 2, false},   // 0x49
		{"LSR", accumulator, c.lsr, 1, 2, false}, // 0x4A
		{},                                       // 0x4B
		{"JMP", absolute, c.jmp, 3, 3, false},    // 0x4C
		{"EOR", absolute, c.eor, 3, 4, false},    // 0x4D
		{"LSR", absolute, c.lsr, 3, 6, false},    // 0x4E
		{},                                       // 0x4F
		{"BVC", relative, c.bvc, 2, 2, false},    // 0x50
		{"EOR", indirectY, c.eor, 2, 5, true},    // 0x51
		{},                                       // 0x52
		{},                                       // 0x53
		{},                                       // 0x54
		{"EOR", zeropageX, c.eor, 2, 4, false},   // 0x55
		{"LSR", zeropageX, c.lsr, 2, 6, false},   // 0x56
		{},                                       // 0x57
		{"CLI", implied, c.cli, 1, 2, false},     // 0x58
		{"EOR", absoluteY, c.eor, 3, 4, true},    // 0x59
		{},                                       // 0x5A
		{},                                       // 0x5B
		{},                                       // 0x5C
		{"EOR", absoluteX, c.eor, 3, 4, true},    // 0x5D
		{"LSR", absoluteX, c.lsr, 3, 7, false},   // 0x5E
		{},                                       // 0x5F
		{"RTS", implied, c.rts, 1, 6, false},     // 0x60
		{"ADC", indirectX, c.adc, 2, 6, false},   // 0x61
		{},                                       // 0x62
		{},                                       // 0x63
		{},                                       // 0x64
		{"ADC", zeropage, c.adc, 2, 3, false},    // 0x65
		{"ROR", zeropage, c.ror, 2, 5, false},    // 0x66
		{},                                       // 0x67
		{"PLA", implied, c.pla, 1, 4, false},     // 0x68
		{"ADC", immediate, c.adc, 2, 2, false},   // 0x69
		{"ROR", accumulator, c.ror, 1, 2, false}, // 0x6A
		{},                                       // 0x6B
		{"JMP", indirect, c.jmp, 3, 5, false},    // 0x6C
		{"ADC", absolute, c.adc, 3, 4, false},    // 0x6D
		{"ROR", absolute, c.ror, 3, 6, false},    // 0x6E
		{},                                       // 0x6F
		{"BVS", relative, c.bvs, 2, 2, false},    // 0x70
		{"ADC", indirectY, c.adc, 2, 5, true},    // 0x71
		{},                                       // 0x72
		{},                                       // 0x73
		{},                                       // 0x74
		{"ADC", zeropageX, c.adc, 2, 4, false},   // 0x75
		{"ROR", zeropageX, c.ror, 2, 6, false},   // 0x76
		{},                                       // 0x77
		{"SEI", implied, c.sei, 1, 2, false},     // 0x78
		{"ADC", absoluteY, c.adc, 3, 4, true},    // 0x79
		{},                                       // 0x7A
		{},                                       // 0x7B
		{},                                       // 0x7C
		{"ADC", absoluteX, c.adc, 3, 4, true},    // 0x7D
		{"ROR", absoluteX, c.ror, 3, 7, false},   // 0x7E
		{},                                       // 0x7F
		{},                                       // 0x80
		{"STA", indirectX, c.sta, 2, 6, false},   // 0x81
		{},                                       // 0x82
		{},                                       // 0x83
		{"STY", zeropage, c.sty, 2, 3, false},    // 0x84
		{"STA", zeropage, c.sta, 2, 3, false},    // 0x85
		{"STX", zeropage, c.stx, 2, 3, false},    // 0x86
		{},                                       // 0x87
		{"DEY", implied, c.dey, 1, 2, false},     // 0x88
		{},                                       // 0x89
		{"TXA", implied, c.txa, 1, 2, false},     // 0x8A
		{},                                       // 0x8B
		{"STY", absolute, c.sty, 3, 4, false},    // 0x8C
		{"STA", absolute, c.sta, 3, 4, false},    // 0x8D
		{"STX", absolute, c.stx, 3, 4, false},    // 0x8E
		{},                                       // 0x8F
		{"BCC", relative, c.bcc, 2, 2, false},    // 0x90
		{"STA", indirectY, c.sta, 2, 6, false},   // 0x91
		{},                                       // 0x92
		{},                                       // 0x93
		{"STY", zeropageX, c.sty, 2, 4, false},   // 0x94
		{"STA", zeropageX, c.sta, 2, 4, false},   // 0x95
		{"STX", zeropageY, c.stx, 2, 4, false},   // 0x96
		{},                                       // 0x97
		{"TYA", implied, c.tya, 1, 2, false},     // 0x98
		{"STA", absoluteY, c.sta, 3, 5, false},   // 0x99
		{"TXS", implied, c.txs, 1, 2, false},     // 0x9A
		{},                                       // 0x9B
		{},                                       // 0x9C
		{"STA", absoluteX, c.sta, 3, 5, false},   // 0x9D
		{},                                       // 0x9E
		{},                                       // 0x9F
		{"LDY", immediate, c.ldy, 2, 2, false},   // 0xA0
		{"LDA", indirectX, c.lda, 2, 6, false},   // 0xA1
		{"LDX", immediate, c.ldx, 2, 2, false},   // 0xA2
		{},                                       // 0xA3
		{"LDY", zeropage, c.ldy, 2, 3, false},    // 0xA4
		{"LDA", zeropage, c.lda, 2, 3, false},    // 0xA5
		{"LDX", zeropage, c.ldx, 2, 3, false},    // 0xA6
		{},                                       // 0xA7
		{"TAY", implied, c.tay, 1, 2, false},     // 0xA8
		{"LDA", immediate, c.lda, 2, 2, false},   // 0xA9
		{"TAX", implied, c.tax, 1, 2, false},     // 0xAA
		{},                                       // 0xAB
		{"LDY", absolute, c.ldy, 3, 4, false},    // 0xAC
		{"LDA", absolute, c.lda, 3, 4, false},    // 0xAD
		{"LDX", absolute, c.ldx, 3, 4, false},    // 0xAE
		{},                                       // 0xAF
		{"BCS", relative, c.bcs, 2, 2, false},    // 0xB0
		{"LDA", indirectY, c.lda, 2, 5, true},    // 0xB1
		{},                                       // 0xB2
		{},                                       // 0xB3
		{"LDY", zeropageX, c.ldy, 2, 4, false},   // 0xB4
		{"LDA", zeropageX, c.lda, 2, 4, false},   // 0xB5
		{"LDX", zeropageY, c.ldx, 2, 4, false},   // 0xB6
		{},                                       // 0xB7
		{"CLV", implied, c.clv, 1, 2, false},     // 0xB8
		{"LDA", absoluteY, c.lda, 3, 4, true},    // 0xB9
		{"TSX", implied, c.tsx, 1, 2, false},     // 0xBA
		{},                                       // 0xBB
		{"LDY", absoluteX, c.ldy, 3, 4, true},    // 0xBC
		{"LDA", absoluteX, c.lda, 3, 4, true},    // 0xBD
		{"LDX", absoluteY, c.ldx, 3, 4, true},    // 0xBE
		{},                                       // 0xBF
		{"CPY", immediate, c.cpy, 2, 2, false},   // 0xC0
		{"CMP", indirectX, c.cmp, 2, 6, false},   // 0xC1
		{},                                       // 0xC2
		{},                                       // 0xC3
		{"CPY", zeropage, c.cpy, 2, 3, false},    // 0xC4
		{"CMP", zeropage, c.cmp, 2, 3, false},    // 0xC5
		{"DEC", zeropage, c.dec, 2, 5, false},    // 0xC6
		{},                                       // 0xC7
		{"INY", implied, c.iny, 1, 2, false},     // 0xC8
		{"CMP", immediate, c.cmp, 2, 2, false},   // 0xC9
		{"DEX", implied, c.dex, 1, 2, false},     // 0xCA
		{},                                       // 0xCB
		{"CPY", absolute, c.cpy, 3, 4, false},    // 0xCC
		{"CMP", absolute, c.cmp, 3, 4, false},    // 0xCD
		{"DEC", absolute, c.dec, 3, 6, false},    // 0xCE
		{},                                       // 0xCF
		{"BNE", relative, c.bne, 2, 2, false},    // 0xD0
		{"CMP", indirectY, c.cmp, 2, 5, true},    // 0xD1
		{},                                       // 0xD2
		{},                                       // 0xD3
		{},                                       // 0xD4
		{"CMP", zeropageX, c.cmp, 2, 4, false},   // 0xD5
		{"DEC", zeropageX, c.dec, 2, 6, false},   // 0xD6
		{},                                       // 0xD7
		{"CLD", implied, c.cld, 1, 2, false},     // 0xD8
		{"CMP", absoluteY, c.cmp, 3, 4, true},    // 0xD9
		{},                                       // 0xDA
		{},                                       // 0xDB
		{},                                       // 0xDC
		{"CMP", absoluteX, c.cmp, 3, 4, true},    // 0xDD
		{"DEC", absoluteX, c.dec, 3, 7, false},   // 0xDE
		{},                                       // 0xDF
		{"CPX", immediate, c.cpx, 2, 2, false},   // 0xE0
		{"SBC", indirectX, c.sbc, 2, 6, false},   // 0xE1
		{},                                       // 0xE2
		{},                                       // 0xE3
		{"CPX", zeropage, c.cpx, 2, 3, false},    // 0xE4
		{"SBC", zeropage, c.sbc, 2, 3, false},    // 0xE5
		{"INC", zeropage, c.inc, 2, 5, false},    // 0xE6
		{},                                       // 0xE7
		{"INX", implied, c.inx, 1, 2, false},     // 0xE8
		{"SBC", immediate, c.sbc, 2, 2, false},   // 0xE9
		{"NOP", implied, c.nop, 1, 2, false},     // 0xEA
		{"SBC", immediate, c.sbc, 2, 2, false},   // 0xEB
		{"CPX", absolute, c.cpx, 3, 4, false},    // 0xEC
		{"SBC", absolute, c.sbc, 3, 4, false},    // 0xED
		{"INC", absolute, c.inc, 3, 6, false},    // 0xEE
		{},                                       // 0xEF
		{"BEQ", relative, c.beq, 2, 2, false},    // 0xF0
		{"SBC", indirectY, c.sbc, 2, 5, true},    // 0xF1
		{},                                       // 0xF2
		{},                                       // 0xF3
		{},                                       // 0xF4
		{"SBC", zeropageX, c.sbc, 2, 4, false},   // 0xF5
		{"INC", zeropageX, c.inc, 2, 6, false},   // 0xF6
		{},                                       // 0xF7
		{"SED", implied, c.sed, 1, 2, false},     // 0xF8
		{"SBC", absoluteY, c.sbc, 3, 4, true},    // 0xF9
		{},                                       // 0xFA
		{},                                       // 0xFB
		{},                                       // 0xFC
		{"SBC", absoluteX, c.sbc, 3, 4, true},    // 0xFD
		{"INC", absoluteX, c.inc, 3, 7, false},   // 0xFE
		{},                                       // 0xFF
	}
}

// NewCPU creates a new NES CPU, call Reset once the bus can read the reset vector.
func NewCPU(bus *Bus) *CPU {
	c := &CPU{
		p:   &status{r: true},
		bus: bus,
	}
	c.instructions = c.createInstructions()
	return c
}

// Reset loads the program counter from the reset vector and sets the power-on registers.
func (c *CPU) Reset() {
	c.pc = c.bus.read16(vectorReset)
	c.s = 0xFD
	c.a, c.x, c.y = 0, 0, 0
	c.p.decodeFrom(0x24)
	c.wait = 0
	c.pins = 0
	c.nmi = false
	glog.V(1).Infof("CPU reset: PC=0x%04x", c.pc)
}

// PullInterruptPin asserts the IRQ line on behalf of source.
func (c *CPU) PullInterruptPin(source byte) {
	c.pins |= source
}

// ReleaseInterruptPin clears source from the IRQ line.
func (c *CPU) ReleaseInterruptPin(source byte) {
	c.pins &^= source
}

// TriggerNMI requests a non-maskable interrupt, this will be triggered by PPU.
func (c *CPU) TriggerNMI() {
	c.nmi = true
}

// SkipCycles stalls the CPU, used by OAM DMA and DMC sample fetches.
func (c *CPU) SkipCycles(n int) {
	c.wait += n
}

// setN sets whether the x is negative or positive.
func (c *CPU) setN(x byte) {
	c.p.n = x&0x80 != 0
}

// setZ sets whether the x is 0 or not.
func (c *CPU) setZ(x byte) {
	c.p.z = x == 0
}

func (c *CPU) setNZ(x byte) {
	c.setN(x)
	c.setZ(x)
}

// push pushes data to stack.
// "With the 6502, the stack is always on page one ($100-$1FF) and works top down."
func (c *CPU) push(x byte) {
	c.bus.write(0x100|uint16(c.s), x)
	c.s--
}

// pop pops data from stack.
// "With the 6502, the stack is always on page one ($100-$1FF) and works top down."
func (c *CPU) pop() byte {
	c.s++
	return c.bus.read(0x100 | uint16(c.s))
}

func (c *CPU) push16(x uint16) {
	c.push(byte(x >> 8))
	c.push(byte(x))
}

func (c *CPU) pop16() uint16 {
	l := c.pop()
	h := c.pop()
	return uint16(h)<<8 | uint16(l)
}

// interrupt runs the NMI / IRQ sequence: pushes PC and P with B clear.
func (c *CPU) interrupt(vector uint16) {
	c.push16(c.pc)
	c.push((c.p.encode() &^ 0x10) | 0x20)
	c.p.i = true
	c.pc = c.bus.read16(vector)
}

// compare is the shared body of CMP, CPX and CPY.
func (c *CPU) compare(register, data byte) {
	c.p.c = register >= data
	c.setNZ(register - data)
}

// branch jumps to target if cond holds, taking one more cycle and another one across pages.
func (c *CPU) branch(cond bool, target uint16) {
	if !cond {
		return
	}
	c.extra++
	if c.pc&0xFF00 != target&0xFF00 {
		c.extra++
	}
	c.pc = target
}

// ADC - Add with Carry.
func (c *CPU) adc(mode addressingMode, operand uint16) {
	c.add(c.bus.read(operand))
}

// add is A + data + C, shared by ADC and SBC.
func (c *CPU) add(data byte) {
	var carry uint16
	if c.p.c {
		carry = 1
	}
	res := uint16(c.a) + uint16(data) + carry
	r := byte(res)
	c.p.c = res > 0xFF
	// overflow when both inputs share a sign the result does not.
	c.p.v = (^(c.a^data))&(c.a^r)&0x80 != 0
	c.a = r
	c.setNZ(c.a)
}

// AND - And.
func (c *CPU) and(mode addressingMode, operand uint16) {
	c.a &= c.bus.read(operand)
	c.setNZ(c.a)
}

// ASL - Arithmetic Shift Left.
func (c *CPU) asl(mode addressingMode, operand uint16) {
	if mode == accumulator {
		c.p.c = (c.a>>7)&1 == 1
		c.a <<= 1
		c.setNZ(c.a)
		return
	}
	x := c.bus.read(operand)
	c.p.c = (x>>7)&1 == 1
	x <<= 1
	c.bus.write(operand, x)
	c.setNZ(x)
}

// BCC - Branch on Carry Clear.
func (c *CPU) bcc(mode addressingMode, operand uint16) { c.branch(!c.p.c, operand) }

// BCS - Branch on Carry Set.
func (c *CPU) bcs(mode addressingMode, operand uint16) { c.branch(c.p.c, operand) }

// BEQ - Branch on Equal.
func (c *CPU) beq(mode addressingMode, operand uint16) { c.branch(c.p.z, operand) }

// BIT - test BITS.
func (c *CPU) bit(mode addressingMode, operand uint16) {
	x := c.bus.read(operand)
	c.setN(x)
	c.setZ(c.a & x)
	c.p.v = (x>>6)&1 == 1
}

// BMI - Branch on Minus.
func (c *CPU) bmi(mode addressingMode, operand uint16) { c.branch(c.p.n, operand) }

// BNE - Branch on Not Equal.
func (c *CPU) bne(mode addressingMode, operand uint16) { c.branch(!c.p.z, operand) }

// BPL - Branch on Plus.
func (c *CPU) bpl(mode addressingMode, operand uint16) { c.branch(!c.p.n, operand) }

// BRK - Break Interrupt.
// The byte after BRK is skipped, P is pushed with B set.
func (c *CPU) brk(mode addressingMode, operand uint16) {
	c.push16(c.pc + 1)
	c.push(c.p.encode() | 0x30)
	c.p.i = true
	c.pc = c.bus.read16(vectorIRQ)
}

// BVC - Branch on Overflow Clear.
func (c *CPU) bvc(mode addressingMode, operand uint16) { c.branch(!c.p.v, operand) }

// BVS - Branch on Overflow Set.
func (c *CPU) bvs(mode addressingMode, operand uint16) { c.branch(c.p.v, operand) }

// CLC - Clear Carry.
func (c *CPU) clc(mode addressingMode, operand uint16) {
	c.p.c = false
}

// CLD - Clear Decimal.
func (c *CPU) cld(mode addressingMode, operand uint16) {
	c.p.d = false
}

// CLI - Clear Interrupt.
func (c *CPU) cli(mode addressingMode, operand uint16) {
	c.p.i = false
}

// CLV - Clear Overflow.
func (c *CPU) clv(mode addressingMode, operand uint16) {
	c.p.v = false
}

// CMP - Compare Accumulator.
func (c *CPU) cmp(mode addressingMode, operand uint16) {
	c.compare(c.a, c.bus.read(operand))
}

// CPX - Compare X register.
func (c *CPU) cpx(mode addressingMode, operand uint16) {
	c.compare(c.x, c.bus.read(operand))
}

// CPY - Compare Y register.
func (c *CPU) cpy(mode addressingMode, operand uint16) {
	c.compare(c.y, c.bus.read(operand))
}

// DEC - Decrement Memory.
func (c *CPU) dec(mode addressingMode, operand uint16) {
	x := c.bus.read(operand) - 1
	c.bus.write(operand, x)
	c.setNZ(x)
}

// DEX - Decrement X Register.
func (c *CPU) dex(mode addressingMode, operand uint16) {
	c.x--
	c.setNZ(c.x)
}

// DEY - Decrement Y Register.
func (c *CPU) dey(mode addressingMode, operand uint16) {
	c.y--
	c.setNZ(c.y)
}

// EOR - Bitwise Exclusive OR.
func (c *CPU) eor(mode addressingMode, operand uint16) {
	c.a ^= c.bus.read(operand)
	c.setNZ(c.a)
}

// INC - Increment Memory.
func (c *CPU) inc(mode addressingMode, operand uint16) {
	x := c.bus.read(operand) + 1
	c.bus.write(operand, x)
	c.setNZ(x)
}

// INX - Increment X Register.
func (c *CPU) inx(mode addressingMode, operand uint16) {
	c.x++
	c.setNZ(c.x)
}

// INY - Increment Y Register.
func (c *CPU) iny(mode addressingMode, operand uint16) {
	c.y++
	c.setNZ(c.y)
}

// JMP - Jump.
func (c *CPU) jmp(mode addressingMode, operand uint16) {
	c.pc = operand
}

// JSR - Jump to Subroutine.
func (c *CPU) jsr(mode addressingMode, operand uint16) {
	c.push16(c.pc - 1)
	c.pc = operand
}

// LDA - Load Accumulator.
func (c *CPU) lda(mode addressingMode, operand uint16) {
	c.a = c.bus.read(operand)
	c.setNZ(c.a)
}

// LDX - Load X Register.
func (c *CPU) ldx(mode addressingMode, operand uint16) {
	c.x = c.bus.read(operand)
	c.setNZ(c.x)
}

// LDY - Load Y Register.
func (c *CPU) ldy(mode addressingMode, operand uint16) {
	c.y = c.bus.read(operand)
	c.setNZ(c.y)
}

// LSR - Logical Shift Right.
func (c *CPU) lsr(mode addressingMode, operand uint16) {
	if mode == accumulator {
		c.p.c = c.a&1 == 1
		c.a >>= 1
		c.setNZ(c.a)
		return
	}
	x := c.bus.read(operand)
	c.p.c = x&1 == 1
	x >>= 1
	c.bus.write(operand, x)
	c.setNZ(x)
}

// NOP - No Operation.
func (c *CPU) nop(mode addressingMode, operand uint16) {}

// ORA - Bitwise OR with Accumulator.
func (c *CPU) ora(mode addressingMode, operand uint16) {
	c.a |= c.bus.read(operand)
	c.setNZ(c.a)
}

// PHA - Push Accumulator.
func (c *CPU) pha(mode addressingMode, operand uint16) {
	c.push(c.a)
}

// PHP - Push Processor Status.
func (c *CPU) php(mode addressingMode, operand uint16) {
	c.push(c.p.encode() | 0x30)
}

// PLA - Pull Accumulator.
func (c *CPU) pla(mode addressingMode, operand uint16) {
	c.a = c.pop()
	c.setNZ(c.a)
}

// PLP - Pull Processor Status.
func (c *CPU) plp(mode addressingMode, operand uint16) {
	c.p.pull(c.pop())
}

// ROL - Rotate Left.
func (c *CPU) rol(mode addressingMode, operand uint16) {
	var carry byte
	if c.p.c {
		carry = 1
	}
	if mode == accumulator {
		c.p.c = (c.a>>7)&1 == 1
		c.a = (c.a << 1) | carry
		c.setNZ(c.a)
		return
	}
	x := c.bus.read(operand)
	c.p.c = (x>>7)&1 == 1
	x = (x << 1) | carry
	c.bus.write(operand, x)
	c.setNZ(x)
}

// ROR - Rotate Right.
func (c *CPU) ror(mode addressingMode, operand uint16) {
	var carry byte
	if c.p.c {
		carry = 1
	}
	if mode == accumulator {
		c.p.c = c.a&1 == 1
		c.a = (c.a >> 1) | (carry << 7)
		c.setNZ(c.a)
		return
	}
	x := c.bus.read(operand)
	c.p.c = x&1 == 1
	x = (x >> 1) | (carry << 7)
	c.bus.write(operand, x)
	c.setNZ(x)
}

// RTS - Return from Subroutine.
func (c *CPU) rts(mode addressingMode, operand uint16) {
	c.pc = c.pop16() + 1
}

// RTI - Return from Interrupt.
func (c *CPU) rti(mode addressingMode, operand uint16) {
	c.p.pull(c.pop())
	c.pc = c.pop16()
}

// SBC - Subtract with carry, A - M - (1 - C) equals A + ^M + C.
func (c *CPU) sbc(mode addressingMode, operand uint16) {
	c.add(^c.bus.read(operand))
}

// SEC - Set Carry.
func (c *CPU) sec(mode addressingMode, operand uint16) {
	c.p.c = true
}

// SED - Set Decimal, the flag is kept but BCD is not implemented on NES.
func (c *CPU) sed(mode addressingMode, operand uint16) {
	c.p.d = true
}

// SEI - Set Interrupt.
func (c *CPU) sei(mode addressingMode, operand uint16) {
	c.p.i = true
}

// STA - Store A Register.
func (c *CPU) sta(mode addressingMode, operand uint16) {
	c.bus.write(operand, c.a)
}

// STX - Store X Register.
func (c *CPU) stx(mode addressingMode, operand uint16) {
	c.bus.write(operand, c.x)
}

// STY - Store Y Register.
func (c *CPU) sty(mode addressingMode, operand uint16) {
	c.bus.write(operand, c.y)
}

// TAX - Transfer A to X.
func (c *CPU) tax(mode addressingMode, operand uint16) {
	c.x = c.a
	c.setNZ(c.x)
}

// TAY - Transfer A to Y.
func (c *CPU) tay(mode addressingMode, operand uint16) {
	c.y = c.a
	c.setNZ(c.y)
}

// TSX - Transfer S to X.
func (c *CPU) tsx(mode addressingMode, operand uint16) {
	c.x = c.s
	c.setNZ(c.x)
}

// TXA - Transfer X to A.
func (c *CPU) txa(mode addressingMode, operand uint16) {
	c.a = c.x
	c.setNZ(c.a)
}

// TXS - Transfer X to S.
func (c *CPU) txs(mode addressingMode, operand uint16) {
	c.s = c.x
}

// TYA - Transfer Y to A.
func (c *CPU) tya(mode addressingMode, operand uint16) {
	c.a = c.y
	c.setNZ(c.a)
}

// resolve computes the operand address, reporting whether indexing crossed a page.
func (c *CPU) resolve(mode addressingMode) (operand uint16, crossed bool) {
	switch mode {
	case immediate:
		return c.pc + 1, false
	case zeropage:
		return uint16(c.bus.read(c.pc + 1)), false
	case zeropageX:
		// If the address exceeds 0xFF (page crossed), back to 0x00
		return uint16(c.bus.read(c.pc+1) + c.x), false
	case zeropageY:
		return uint16(c.bus.read(c.pc+1) + c.y), false
	case relative:
		// Relative will look up a signed value, 2 is offset for operand
		offset := int8(c.bus.read(c.pc + 1))
		return c.pc + 2 + uint16(offset), false
	case absolute:
		return c.bus.read16(c.pc + 1), false
	case absoluteX:
		base := c.bus.read16(c.pc + 1)
		operand = base + uint16(c.x)
		return operand, base&0xFF00 != operand&0xFF00
	case absoluteY:
		base := c.bus.read16(c.pc + 1)
		operand = base + uint16(c.y)
		return operand, base&0xFF00 != operand&0xFF00
	case indirect:
		// JMP ($xxFF) reads the high byte from $xx00.
		return c.bus.read16Wrap(c.bus.read16(c.pc + 1)), false
	case indirectX:
		p := c.bus.read(c.pc+1) + c.x
		return c.bus.read16Wrap(uint16(p)), false
	case indirectY:
		base := c.bus.read16Wrap(uint16(c.bus.read(c.pc + 1)))
		operand = base + uint16(c.y)
		return operand, base&0xFF00 != operand&0xFF00
	}
	// implied, accumulator
	return 0, false
}

// execute serves a pending interrupt or runs one instruction, returns its cycles.
func (c *CPU) execute() int {
	if c.nmi {
		c.nmi = false
		c.interrupt(vectorNMI)
		return interruptCycles
	}
	if c.pins != 0 && !c.p.i {
		c.interrupt(vectorIRQ)
		return interruptCycles
	}
	opcode := c.bus.read(c.pc)
	c.lastPC, c.lastOpcode = c.pc, opcode
	instruction := c.instructions[opcode]
	if instruction.mnemonic == "" {
		// Unofficial opcodes are not emulated, they just take a cycle.
		glog.V(1).Infof("Unknown opcode: opcode=0x%02x, PC=0x%04x", opcode, c.pc)
		c.pc++
		return 1
	}
	operand, crossed := c.resolve(instruction.mode)
	c.lastOperand = operand
	c.pc += instruction.size
	c.extra = 0
	instruction.execute(instruction.mode, operand)
	cycles := instruction.cycles + c.extra
	if crossed && instruction.pageCycle {
		cycles++
	}
	return cycles
}

// Step advances the CPU by one cycle, a new instruction starts only when the previous one has finished.
func (c *CPU) Step() {
	c.Cycles++
	if c.wait > 0 {
		c.wait--
		return
	}
	// execute may add DMA cycles to wait, keep them.
	c.wait += c.execute() - 1
}

// LastExecution describes the last fetched instruction, for debug.
func (c *CPU) LastExecution() string {
	in := c.instructions[c.lastOpcode]
	return fmt.Sprintf("PC=0x%04x, opcode=0x%02x, mnemonic=%s, operand=0x%04x, A=0x%02x, X=0x%02x, Y=0x%02x, S=0x%02x, P=0x%02x",
		c.lastPC, c.lastOpcode, in.mnemonic, c.lastOperand, c.a, c.x, c.y, c.s, c.p.encode())
}
