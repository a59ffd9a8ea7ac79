package loop

import (
	"time"

	"github.com/tomz197/reaction/internal/game"
	"github.com/tomz197/reaction/internal/input"
	"github.com/tomz197/reaction/internal/leaderboard"
)

// ClientState holds what the client tracks between frames on top of the
// session itself.
type ClientState struct {
	Input    input.Input
	Snapshot game.Snapshot
	Layout   Layout
	Running  bool // Client loop running

	LastGameOver *game.GameOver      // Result shown on the game over screen
	Leaderboard  []leaderboard.Entry // Last fetched leaderboard

	delta     time.Duration // Frame delta time
	elapsed   time.Duration // Time since the client started, drives blinking
	prevPhase game.Phase
	dirty     bool // Next frame clears the terminal and redraws everything

	isInactive  bool
	wasInactive bool

	shuttingDown  bool
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running:   true,
		prevPhase: game.PhaseIdle,
		dirty:     true,
	}
}

// Layout places the HUD, the bordered board and the footer inside the terminal.
// Offsets are 0-based; rows and columns inside the render area are 1-based.
type Layout struct {
	RenderWidth, RenderHeight int // Clamped terminal area in use
	OffsetCol, OffsetRow      int // Origin of the render area
	BoardCols, BoardRows      int // Cells available to the board canvas
	Fits                      bool
}

// BoardTop is the first render row of the board.
func (l Layout) BoardTop() int {
	return hudRows + 2
}

// FooterRow is the render row holding the time bar.
func (l Layout) FooterRow() int {
	return l.RenderHeight
}

// Bounds returns the board size in board units.
func (l Layout) Bounds() game.Bounds {
	return game.Bounds{
		W: float64(l.BoardCols * CellWidth),
		H: float64(l.BoardRows * CellHeight),
	}
}

// computeLayout clamps the terminal to the max render resolution, centres the
// render area and carves the board out of it.
func computeLayout(termWidth, termHeight int) Layout {
	l := Layout{
		RenderWidth:  min(max(termWidth, 0), MaxTermWidth),
		RenderHeight: min(max(termHeight, 0), MaxTermHeight),
	}
	l.OffsetCol = (max(termWidth, 0) - l.RenderWidth) / 2
	l.OffsetRow = (max(termHeight, 0) - l.RenderHeight) / 2

	// Left and right border columns, top and bottom border rows.
	l.BoardCols = max(l.RenderWidth-2, 0)
	l.BoardRows = max(l.RenderHeight-hudRows-footerRows-2, 0)
	l.Fits = l.BoardCols >= MinBoardCols && l.BoardRows >= MinBoardRows
	return l
}
