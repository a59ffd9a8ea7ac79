// Package audio provides sinks for the short sound cues the game emits.
// Every sink is fire-and-forget: failures are swallowed and never reach the game.
package audio

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Sink receives sound cues.
type Sink interface {
	Notify(freq float64, d time.Duration)
}

// Nop discards every cue.
type Nop struct{}

// Notify implements Sink.
func (Nop) Notify(float64, time.Duration) {}

// Bell rings the terminal bell on W. Used where no local audio device
// exists, such as SSH sessions.
type Bell struct {
	W io.Writer
}

// Notify implements Sink.
func (b Bell) Notify(float64, time.Duration) {
	if b.W != nil {
		_, _ = io.WriteString(b.W, "\a")
	}
}

// New returns the speaker sink when enabled and an audio device is available,
// otherwise a Nop sink.
func New(enabled bool, logger *log.Logger) Sink {
	if !enabled {
		return Nop{}
	}
	sp := NewSpeaker()
	if err := sp.Initialize(); err != nil {
		if logger != nil {
			logger.Warn("audio unavailable, cues disabled", "err", err)
		}
		return Nop{}
	}
	return sp
}
