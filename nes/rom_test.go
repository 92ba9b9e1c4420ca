package nes

import "testing"

// Vector targets inside the first PRG bank.
const (
	testResetVector = 0x8000
	testNMIVector   = 0x9000
	testIRQVector   = 0xA000
)

type testROM struct {
	mapper   byte
	prgBanks int
	chrBanks int
	flags6   byte
	pal      bool
	// program is copied to $8000, nmi to $9000 and irq to $A000.
	program []byte
	nmi     []byte
	irq     []byte
}

// bytes builds the iNES image. Every PRG byte not set is NOP and each PRG bank starts
// with its bank number at offset 0x3FF0 so bank switching can be observed.
func (r testROM) bytes() []byte {
	if r.prgBanks == 0 {
		r.prgBanks = 1
	}
	header := []byte{'N', 'E', 'S', msDOSEOF, byte(r.prgBanks), byte(r.chrBanks),
		r.flags6 | r.mapper<<4, r.mapper & 0xF0, 0, 0, 0, 0, 0, 0, 0, 0}
	if r.pal {
		header[9] = 0x01
	}
	prg := make([]byte, r.prgBanks*prgROMSizeUnit)
	for i := range prg {
		prg[i] = 0xEA
	}
	for bank := 0; bank < r.prgBanks; bank++ {
		prg[bank*prgROMSizeUnit+0x3FF0] = byte(bank)
	}
	copy(prg, r.program)
	copy(prg[testNMIVector-0x8000:], r.nmi)
	copy(prg[testIRQVector-0x8000:], r.irq)
	vectors := prg[len(prg)-6:]
	vectors[0], vectors[1] = byte(testNMIVector&0xFF), byte(testNMIVector>>8)
	vectors[2], vectors[3] = byte(testResetVector&0xFF), byte(testResetVector>>8)
	vectors[4], vectors[5] = byte(testIRQVector&0xFF), byte(testIRQVector>>8)
	chr := make([]byte, r.chrBanks*chrROMSizeUnit)
	for bank := 0; bank < r.chrBanks; bank++ {
		for i := 0; i < chrROMSizeUnit; i++ {
			chr[bank*chrROMSizeUnit+i] = byte(bank)
		}
	}
	b := append(header, prg...)
	return append(b, chr...)
}

func (r testROM) cartridge(t *testing.T) *Cartridge {
	t.Helper()
	c, err := NewCartridge(r.bytes())
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}
	return c
}

func (r testROM) console(t *testing.T, opts ...Option) *Console {
	t.Helper()
	c, err := NewConsole(r.cartridge(t), opts...)
	if err != nil {
		t.Fatalf("NewConsole: %v", err)
	}
	return c
}
