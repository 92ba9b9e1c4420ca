package nes

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type neverClose struct{}

func (neverClose) CloseRequested() bool { return false }

func newTestDebugConsole(t *testing.T, commands string) (*DebugConsole, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	c := testROM{
		program: []byte{
			0xA9, 0x01, // LDA #$01
			0xA2, 0x02, // LDX #$02
			0xA0, 0x03, // LDY #$03
		},
		chrBanks: 1,
	}.console(t)
	return NewDebugConsole(c, strings.NewReader(commands), out), out
}

func TestDebugConsoleStep(t *testing.T) {
	d, out := newTestDebugConsole(t, "")
	require.NoError(t, d.Command("s 2"))
	assert.Equal(t, uint16(0x8004), d.cpu.pc)
	assert.Equal(t, uint64(4), d.cycles)
	assert.Contains(t, out.String(), "Executed 4 CPU cycles.")
}

func TestDebugConsoleBreakpoint(t *testing.T) {
	d, out := newTestDebugConsole(t, "")
	require.NoError(t, d.Command("br 0x8002"))
	require.NoError(t, d.Command("s 10"))
	assert.Equal(t, uint16(0x8002), d.cpu.pc)
	assert.Contains(t, out.String(), "Break at: 0x8002")
}

func TestDebugConsoleStepFrame(t *testing.T) {
	d, _ := newTestDebugConsole(t, "")
	require.NoError(t, d.Command("s 1f"))
	assert.Equal(t, uint64(1), d.Frame())
}

func TestDebugConsoleErrors(t *testing.T) {
	d, _ := newTestDebugConsole(t, "")
	assert.Error(t, d.Command("s x"))
	assert.Error(t, d.Command("br"))
	assert.Error(t, d.Command("br zz"))
	assert.Error(t, d.Command("unknown"))
	assert.NoError(t, d.Command("   "))
}

func TestDebugConsolePrint(t *testing.T) {
	d, out := newTestDebugConsole(t, "")
	for _, target := range []string{"cpu", "ppu", "apu", "cartridge", "controller", "stack"} {
		require.NoError(t, d.Command("p "+target))
	}
	assert.Contains(t, out.String(), "mapper=0")
	assert.Contains(t, out.String(), "0x01fd")
}

func TestDebugConsoleDump(t *testing.T) {
	d, _ := newTestDebugConsole(t, "")
	path := filepath.Join(t.TempDir(), "nes.dot")
	require.NoError(t, d.Command("d "+path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "digraph")
}

func TestDebugConsoleRun(t *testing.T) {
	d, out := newTestDebugConsole(t, "s 3\nbogus\nq\ns 1\n")
	require.NoError(t, d.Run(neverClose{}))
	assert.Equal(t, uint16(0x8006), d.cpu.pc, "commands after q are not run")
	assert.Contains(t, out.String(), "Quitting.")

	eof, _ := newTestDebugConsole(t, "s 1\n")
	require.NoError(t, eof.Run(neverClose{}))
	assert.Equal(t, uint16(0x8002), eof.cpu.pc)
}
