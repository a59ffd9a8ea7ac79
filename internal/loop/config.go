package loop

import "time"

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Board geometry. One terminal cell covers CellWidth x CellHeight board units,
// so targets keep their proportions on a typical terminal font.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Screen layout, in terminal cells.
const (
	MaxTermWidth  = 160 // Wider terminals get a centred, bordered play area
	MaxTermHeight = 50
	MinBoardCols  = 20
	MinBoardRows  = 6
	hudRows       = 1 // Score line above the board
	footerRows    = 1 // Time bar and key hints below the board
)

// Blinking prompts.
const (
	PromptBlinkFrequency = 0.8 // Hz
)

// Leaderboard
const (
	LeaderboardTimeout = 3 * time.Second
	LeaderboardRows    = 5
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)
