package ui

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/gordonklaus/portaudio"

	"github.com/jyane/nesemu/nes"
	"github.com/jyane/nesemu/queue"
)

const (
	// speakerLatency is how many samples may be queued before the emulation is held back.
	speakerLatency = 1024
	// speakerSlack absorbs the samples produced between two pacing checks.
	speakerSlack = 288
)

// Speaker is the nes.AudioSink playing samples through portaudio. Its fill level paces the emulation.
type Speaker struct {
	stream  *portaudio.Stream
	samples *queue.Ring[uint16]
	scratch []uint16
	last    int16
}

func NewSpeaker() *Speaker {
	return &Speaker{samples: queue.NewRing[uint16](speakerLatency + speakerSlack)}
}

// Start opens the default output device.
func (s *Speaker) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(nes.SampleRate), 0, s.process)
	if err != nil {
		return fmt.Errorf("failed to open the audio stream: %w", err)
	}
	s.stream = stream
	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start the audio stream: %w", err)
	}
	glog.Infof("Audio started: %d Hz mono", nes.SampleRate)
	return nil
}

// process runs on the portaudio thread, an underrun repeats the last sample.
func (s *Speaker) process(out []int16) {
	if cap(s.scratch) < len(out) {
		s.scratch = make([]uint16, len(out))
	}
	n := s.samples.Drain(s.scratch[:len(out)])
	for i := range out {
		if i < n {
			s.last = int16(int32(s.scratch[i]) - 0x8000)
		}
		out[i] = s.last
	}
}

// QueueSample implements nes.AudioSink.
func (s *Speaker) QueueSample(sample uint16) {
	s.samples.Push(sample)
}

// BufferFull implements nes.AudioSink.
func (s *Speaker) BufferFull() bool {
	return s.samples.Len() >= speakerLatency
}

// Close stops the stream, the queue is closed so nothing waits on it anymore.
func (s *Speaker) Close() {
	s.samples.Close()
	if s.stream != nil {
		if err := s.stream.Close(); err != nil {
			glog.Warningf("Failed to close the audio stream: %v", err)
		}
	}
	portaudio.Terminate()
}
