// Package ui presents the console in a glfw window with OpenGL and plays its audio with portaudio.
package ui

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"

	"github.com/jyane/nesemu/nes"
)

const shutdownTimeout = time.Second

// closeFlag is the nes.WindowSource handed to the emulation goroutine.
type closeFlag struct {
	closed int32
}

func (c *closeFlag) set() {
	atomic.StoreInt32(&c.closed, 1)
}

// CloseRequested implements nes.WindowSource.
func (c *closeFlag) CloseRequested() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// Start opens the window and runs emulate on its own goroutine. It must be called from
// the main thread and returns once the window is closed and emulate has returned.
func Start(screen *Screen, keyboard *Keyboard, width, height int, emulate func(nes.WindowSource)) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfw.Terminate()
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(width, height, "NES", nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	glog.Infof("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))
	program, err := newProgram()
	if err != nil {
		return err
	}
	gl.UseProgram(program)
	vao := newQuad(program)
	texture := newTexture()

	closer := &closeFlag{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		emulate(closer)
		screen.Shutdown()
	}()
	mainLoop(window, screen, keyboard, closer, vao, texture)
	closer.set()
	// Unblock a Shutdown racing with the loop exit.
	screen.commands.Close()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		// The debugger may still be blocked reading stdin.
		glog.Warningf("Emulation did not stop within %v", shutdownTimeout)
	}
	return nil
}

// mainLoop presents frames until the window closes or the emulator shuts down.
func mainLoop(window *glfw.Window, screen *Screen, keyboard *Keyboard, closer *closeFlag, vao, texture uint32) {
	pending := make([]command, frameQueueSize)
	for {
		glfw.PollEvents()
		keyboard.poll(window)
		if window.ShouldClose() {
			glog.Infof("Window closed")
			return
		}
		n := screen.commands.Drain(pending)
		var latest *command
		for i := 0; i < n; i++ {
			if pending[i].kind == commandShutdown {
				glog.Infof("Emulator shut down")
				return
			}
			latest = &pending[i]
		}
		if latest != nil {
			updateTexture(texture, latest.frame)
		}
		gl.Clear(gl.COLOR_BUFFER_BIT)
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
		window.SwapBuffers()
	}
}
