package game

import "time"

// Game configuration constants.
// All tunable game parameters are centralized here for easy adjustment.

// Lives
const (
	StartLives = 3
)

// Round timing
const (
	BaseTime     = 2000 * time.Millisecond // Time to react in round 1
	MinTime      = 600 * time.Millisecond  // Floor for late rounds
	TimeStep     = 120 * time.Millisecond  // Shaved off per round
	TickPeriod   = 100 * time.Millisecond  // Timer granularity
	RespawnDelay = 120 * time.Millisecond  // Grace window between a miss and the next target
)

// Target geometry, in board units
const (
	BaseSize = 72.0
	MinSize  = 36.0
	SizeStep = 4.0
	Pad      = 12.0
)

// Default board, used until the render layer reports real bounds.
const (
	DefaultBoardWidth  = 640.0
	DefaultBoardHeight = 360.0
)

// Cue frequencies (Hz) and durations.
const (
	HitCueFreq      = 1200.0
	HitCueLength    = 50 * time.Millisecond
	MissCueFreq     = 300.0
	MissCueLength   = 80 * time.Millisecond
	GameOverCueFreq = 200.0
	GameOverCueLen  = 150 * time.Millisecond
)
