package ui

import (
	"sync/atomic"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/jyane/nesemu/nes"
)

// keymaps for 1P and 2P, indexed by nes.ButtonA..nes.ButtonRight.
// 1P: WASD for directions, J / H for A / B, G / F for Start / Select.
// 2P: arrows for directions, period / comma for A / B, right shift / slash for Start / Select.
var keymaps = [2][8]glfw.Key{
	{glfw.KeyJ, glfw.KeyH, glfw.KeyF, glfw.KeyG, glfw.KeyW, glfw.KeyS, glfw.KeyA, glfw.KeyD},
	{glfw.KeyPeriod, glfw.KeyComma, glfw.KeySlash, glfw.KeyRightShift, glfw.KeyUp, glfw.KeyDown, glfw.KeyLeft, glfw.KeyRight},
}

// Keyboard samples the window keys on the main thread and serves them to the emulation goroutine.
type Keyboard struct {
	state [2]uint32
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// poll reads the keys, glfw only allows this on the main thread.
func (k *Keyboard) poll(window *glfw.Window) {
	for port, keys := range keymaps {
		var bits uint32
		for button, key := range keys {
			if window.GetKey(key) == glfw.Press {
				bits |= 1 << button
			}
		}
		atomic.StoreUint32(&k.state[port], bits)
	}
}

// Port returns the nes.InputSource of controller port 0 or 1.
func (k *Keyboard) Port(port int) nes.InputSource {
	return keyboardPort{k: k, port: port}
}

type keyboardPort struct {
	k    *Keyboard
	port int
}

func (p keyboardPort) Buttons() [8]bool {
	bits := atomic.LoadUint32(&p.k.state[p.port])
	var buttons [8]bool
	for i := range buttons {
		buttons[i] = bits&(1<<i) != 0
	}
	return buttons
}
