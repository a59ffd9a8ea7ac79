package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	cueGain    = 0.03                 // Linear amplitude of a cue
	fadeLength = 5 * time.Millisecond // Release ramp to avoid clicks
)

// Speaker plays cues as sine beeps on the default audio device.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewSpeaker creates an uninitialized speaker sink.
func NewSpeaker() *Speaker {
	return &Speaker{mixer: &beep.Mixer{}}
}

// Initialize opens the audio device. Safe to call more than once.
func (s *Speaker) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Close silences anything still playing.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}

// Notify implements Sink. It returns immediately; the beep plays on the
// speaker goroutine.
func (s *Speaker) Notify(freq float64, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || freq <= 0 || d <= 0 {
		return
	}
	tone := &effects.Volume{
		Streamer: newTone(freq, d, sampleRate),
		Base:     2,
		Volume:   math.Log2(cueGain),
	}
	speaker.Lock()
	s.mixer.Add(tone)
	speaker.Unlock()
}

// tone is a sine oscillator that stops after a fixed number of samples.
type tone struct {
	freq     float64
	phase    float64
	position int
	length   int
	fade     int
	rate     beep.SampleRate
}

func newTone(freq float64, d time.Duration, rate beep.SampleRate) *tone {
	length := rate.N(d)
	return &tone{
		freq:   freq,
		length: length,
		fade:   min(rate.N(fadeLength), length),
		rate:   rate,
	}
}

// Stream implements beep.Streamer.
func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.length {
			return i, i > 0
		}
		val := math.Sin(2 * math.Pi * t.phase)
		if remaining := t.length - t.position; remaining < t.fade {
			val *= float64(remaining) / float64(t.fade)
		}
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (t *tone) Err() error { return nil }
