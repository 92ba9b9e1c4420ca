// Package headless holds the sinks used when the console runs without a window.
package headless

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/golang/glog"

	"github.com/jyane/nesemu/nes"
)

const (
	bitDepth    = 16
	numChannels = 1
	pcmFormat   = 1
	flushSize   = 4096
)

// WAVRecorder is an nes.AudioSink writing 16 bit mono PCM.
type WAVRecorder struct {
	enc     *wav.Encoder
	buf     *audio.IntBuffer
	samples int
	err     error
}

// NewWAVRecorder starts a WAV stream on w, Close must be called to finish the header.
func NewWAVRecorder(w io.WriteSeeker) *WAVRecorder {
	return &WAVRecorder{
		enc: wav.NewEncoder(w, nes.SampleRate, bitDepth, numChannels, pcmFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: numChannels, SampleRate: nes.SampleRate},
			Data:           make([]int, 0, flushSize),
			SourceBitDepth: bitDepth,
		},
	}
}

// QueueSample converts the unsigned sample to signed PCM.
func (r *WAVRecorder) QueueSample(sample uint16) {
	r.buf.Data = append(r.buf.Data, int(int16(sample-0x8000)))
	r.samples++
	if len(r.buf.Data) >= flushSize {
		r.flush()
	}
}

// BufferFull is always false, the recorder never paces the emulator.
func (r *WAVRecorder) BufferFull() bool {
	return false
}

// Samples returns the number of samples recorded so far.
func (r *WAVRecorder) Samples() int {
	return r.samples
}

func (r *WAVRecorder) flush() {
	if len(r.buf.Data) == 0 || r.err != nil {
		r.buf.Data = r.buf.Data[:0]
		return
	}
	if err := r.enc.Write(r.buf); err != nil {
		r.err = fmt.Errorf("failed to write samples: %w", err)
		glog.Warningf("%v", r.err)
	}
	r.buf.Data = r.buf.Data[:0]
}

// Close flushes pending samples and finalizes the WAV header.
func (r *WAVRecorder) Close() error {
	r.flush()
	if err := r.enc.Close(); err != nil {
		return fmt.Errorf("failed to close wav encoder: %w", err)
	}
	glog.Infof("Recorded %d samples", r.samples)
	return r.err
}
