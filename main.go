package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/golang/glog"

	"github.com/jyane/nesemu/headless"
	"github.com/jyane/nesemu/nes"
	"github.com/jyane/nesemu/ui"
)

var (
	path          = flag.String("path", "./rom/sample1.nes", "path to NES ROM file")
	width         = flag.Int("width", nes.Width*4, "window width")
	height        = flag.Int("height", nes.Height*4, "window height")
	cpuprofile    = flag.String("cpuprofile", "", "write cpu profile to file")
	debug         = flag.Bool("debug", false, "run as debug mode")
	headlessMode  = flag.Bool("headless", false, "run without a window or audio device")
	frames        = flag.Uint64("frames", 600, "frames to run in headless mode")
	wavPath       = flag.String("wav", "", "record audio to a WAV file in headless mode")
	screenshot    = flag.String("screenshot", "", "write the last frame as PNG in headless mode")
	scale         = flag.Int("scale", 1, "screenshot scale factor")
	statsviewOn   = flag.Bool("statsview", false, "serve runtime statistics")
	statsviewAddr = flag.String("statsview-addr", "localhost:18066", "statsview listen address")
)

func init() {
	runtime.LockOSThread()
}

func startStatsview() {
	viewer.SetConfiguration(viewer.WithAddr(*statsviewAddr))
	mgr := statsview.New()
	go mgr.Start()
	glog.Infof("Statsview at http://%s/debug/statsview", *statsviewAddr)
}

func runHeadless(cartridge *nes.Cartridge) {
	capture := headless.NewFrameCapture()
	opts := []nes.Option{nes.WithPixelSink(capture)}
	var recorder *headless.WAVRecorder
	if *wavPath != "" {
		f, err := os.Create(*wavPath)
		if err != nil {
			glog.Fatalf("Failed to create %s: %v", *wavPath, err)
		}
		defer f.Close()
		recorder = headless.NewWAVRecorder(f)
		opts = append(opts, nes.WithAudioSink(recorder))
	}
	console, err := nes.NewConsole(cartridge, opts...)
	if err != nil {
		glog.Fatalln("Failed to initiate Console: ", err)
	}
	console.Run(headless.NewFrameLimit(console, *frames))
	if recorder != nil {
		if err := recorder.Close(); err != nil {
			glog.Fatalln("Failed to finish WAV: ", err)
		}
	}
	if *screenshot != "" {
		f, err := os.Create(*screenshot)
		if err != nil {
			glog.Fatalf("Failed to create %s: %v", *screenshot, err)
		}
		defer f.Close()
		if err := capture.WritePNG(f, *scale); err != nil {
			glog.Fatalln("Failed to write screenshot: ", err)
		}
	}
}

func runWindow(cartridge *nes.Cartridge) {
	screen := ui.NewScreen()
	keyboard := ui.NewKeyboard()
	speaker := ui.NewSpeaker()
	if err := speaker.Start(); err != nil {
		glog.Fatalln("Failed to start audio: ", err)
	}
	defer speaker.Close()
	console, err := nes.NewConsole(cartridge,
		nes.WithPixelSink(screen),
		nes.WithAudioSink(speaker),
		nes.WithInput(0, keyboard.Port(0)),
		nes.WithInput(1, keyboard.Port(1)),
	)
	if err != nil {
		glog.Fatalln("Failed to initiate Console: ", err)
	}
	emulate := func(window nes.WindowSource) {
		if !*debug {
			console.Run(window)
			return
		}
		if err := nes.NewDebugConsole(console, os.Stdin, os.Stdout).Run(window); err != nil {
			glog.Errorf("Debugger stopped: %v", err)
		}
	}
	if err := ui.Start(screen, keyboard, *width, *height, emulate); err != nil {
		glog.Fatalln("Failed to start UI: ", err)
	}
}

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			glog.Fatal("Failed to create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			glog.Fatal("Failed to start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}
	if *statsviewOn {
		startStatsview()
	}
	cartridge, err := nes.LoadCartridge(*path)
	if err != nil {
		glog.Fatalln("Failed to load "+*path+": ", err)
	}
	if *headlessMode {
		runHeadless(cartridge)
	} else {
		runWindow(cartridge)
	}
	glog.Flush()
}
