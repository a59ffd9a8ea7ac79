package loop

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/reaction/internal/audio"
	"github.com/tomz197/reaction/internal/draw"
	"github.com/tomz197/reaction/internal/game"
	"github.com/tomz197/reaction/internal/input"
	"github.com/tomz197/reaction/internal/leaderboard"
)

// Client handles rendering and input for a single player.
type Client struct {
	session      *game.Session
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	opts         Options
	logger       *log.Logger

	leaderboardCh      chan []leaderboard.Entry
	leaderboardPending bool
}

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Player       string             // Shown on the start screen and attached to log lines
	Store        game.BestStore     // Best score persistence; nil keeps it in memory
	Cues         audio.Sink         // Sound cues; nil rings the terminal bell
	Leaderboard  leaderboard.Source // Optional read-only leaderboard
	Logger       *log.Logger
	Inactivity   bool            // Warn and disconnect idle players
	Shutdown     <-chan struct{} // Closed when the server is going away
	Rand         *rand.Rand      // Target placement source; nil seeds from the clock
}

// NewClient creates a client with a fresh idle session.
func NewClient(r *bufio.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Player != "" {
		logger = logger.With("player", opts.Player)
	}

	state := NewClientState()
	termWidth, termHeight, _ := termSizeFunc()
	state.Layout = computeLayout(termWidth, termHeight)

	canvas := draw.NewScaledCanvas(0, 0, 0, 0)
	chunkWriter := draw.NewChunkWriter(w, state.Layout.OffsetCol, state.Layout.OffsetRow)
	applyLayout(canvas, chunkWriter, state.Layout)

	c := &Client{
		state:         state,
		canvas:        canvas,
		chunkWriter:   chunkWriter,
		writer:        w,
		lastInput:     time.Now(),
		inputStream:   input.StartStream(r),
		termSizeFunc:  termSizeFunc,
		opts:          opts,
		logger:        logger,
		leaderboardCh: make(chan []leaderboard.Entry, 1),
	}

	var cues game.CueSink = opts.Cues
	if opts.Cues == nil {
		// The bell goes out with the next frame.
		cues = audio.Bell{W: chunkWriter}
	}

	var bounds game.Bounds
	if state.Layout.Fits {
		bounds = state.Layout.Bounds()
	}
	c.session = game.NewSession(game.Options{
		Store:      opts.Store,
		Cues:       cues,
		Logger:     logger,
		Rand:       opts.Rand,
		Bounds:     bounds,
		OnGameOver: c.onGameOver,
	})
	c.state.Snapshot = c.session.Snapshot()
	return c
}

// Session returns the game session driven by this client.
func (c *Client) Session() *game.Session {
	return c.session
}

// Run starts the client loop. Blocks until the player quits or disconnects.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer func() {
		draw.DisableMouse(c.writer)
		draw.ShowCursor(c.writer)
	}()
	draw.ClearScreen(c.writer)

	c.refreshLeaderboard()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		c.state.elapsed += c.state.delta
		lastTime = frameStart

		// Process input
		c.processInput()

		// Count down to disconnect once the server shuts down
		c.updateShutdown()

		// Pick up a finished leaderboard fetch
		c.receiveLeaderboard()

		// Handle screen resize
		c.updateScreen()

		// Advance the round timer
		c.session.Advance(c.state.delta)
		c.updatePhase()

		// Draw frame
		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < ClientTargetFrameTime {
			time.Sleep(ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads pending input and applies it to the session.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if c.opts.Inactivity {
		if len(c.state.Input.Pressed) > 0 {
			c.lastInput = time.Now()
			c.state.isInactive = false
		} else if time.Since(c.lastInput).Seconds() > InactivityDisconnectUser {
			c.logger.Info("disconnecting inactive player")
			c.state.Running = false
		} else if time.Since(c.lastInput).Seconds() > InactivityWarnUser {
			c.state.isInactive = true
		}
	}

	c.applyInput(c.state.Input)
}

// updateShutdown pauses a running game when the server announces shutdown,
// then disconnects after the notice has been shown.
func (c *Client) updateShutdown() {
	if c.state.shuttingDown {
		c.state.shutdownTimer -= c.state.delta.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
		return
	}

	select {
	case <-c.opts.Shutdown:
		c.state.shuttingDown = true
		c.state.shutdownTimer = ShutdownDisplaySeconds
		c.state.dirty = true
		if c.session.Snapshot().Phase == game.PhasePlaying {
			c.session.TogglePause()
		}
		c.logger.Info("server shutting down, notifying player")
	default:
	}
}

// applyInput maps keys and clicks onto session operations.
func (c *Client) applyInput(in input.Input) {
	if in.Quit {
		c.state.Running = false
		return
	}
	if c.state.shuttingDown {
		return
	}

	for _, click := range in.Clicks {
		x, y, ok := c.canvas.TerminalToLogical(click.Col, click.Row)
		if !ok || !c.state.Layout.Fits {
			continue
		}
		c.session.HitAt(x, y)
	}

	phase := c.session.Snapshot().Phase
	switch {
	case in.Restart:
		c.session.Restart()
	case in.Start && phase == game.PhasePaused:
		c.session.TogglePause()
	case in.Start:
		c.session.Start()
	case in.Pause:
		c.session.TogglePause()
	}
}

// updateScreen handles terminal resize. On actual size changes the next frame
// clears the terminal to remove residual pixels outside the new board.
// A running game is held paused while the board does not fit.
func (c *Client) updateScreen() {
	defer c.pauseIfHidden()

	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	l := computeLayout(termWidth, termHeight)
	if l == c.state.Layout {
		return
	}

	c.state.Layout = l
	c.state.dirty = true
	applyLayout(c.canvas, c.chunkWriter, l)
	if l.Fits {
		c.session.SetBounds(l.Bounds())
	}
}

func (c *Client) pauseIfHidden() {
	if !c.state.Layout.Fits && c.session.Snapshot().Phase == game.PhasePlaying {
		c.logger.Debug("terminal too small, pausing game")
		c.session.TogglePause()
	}
}

// applyLayout sizes the canvas to the board and points both writers at the render area.
func applyLayout(canvas *draw.Canvas, cw *draw.ChunkWriter, l Layout) {
	bounds := l.Bounds()
	canvas.Resize(l.BoardCols, l.BoardRows, bounds.W, bounds.H)
	// One column for the left border; the HUD row and the top border above.
	canvas.SetOffset(l.OffsetCol+1, l.OffsetRow+hudRows+1)
	canvas.SetColor(draw.ColorBrightCyan)
	cw.SetOffset(l.OffsetCol, l.OffsetRow)
}

// updatePhase refreshes the snapshot and reacts to phase transitions.
func (c *Client) updatePhase() {
	c.state.Snapshot = c.session.Snapshot()
	phase := c.state.Snapshot.Phase
	if phase == c.state.prevPhase {
		return
	}
	if phase == game.PhaseGameOver {
		c.refreshLeaderboard()
	}
	if phase == game.PhasePlaying && c.state.prevPhase != game.PhasePaused {
		c.state.LastGameOver = nil
	}
}

func (c *Client) onGameOver(ev game.GameOver) {
	c.state.LastGameOver = &ev
}

// refreshLeaderboard starts a background fetch unless one is in flight.
// The game never waits for it.
func (c *Client) refreshLeaderboard() {
	src := c.opts.Leaderboard
	if src == nil || c.leaderboardPending {
		return
	}
	c.leaderboardPending = true
	logger := c.logger
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), LeaderboardTimeout)
		defer cancel()
		c.leaderboardCh <- leaderboard.Load(ctx, src, logger)
	}()
}

func (c *Client) receiveLeaderboard() {
	select {
	case entries := <-c.leaderboardCh:
		c.leaderboardPending = false
		c.state.Leaderboard = entries
		c.state.dirty = true
	default:
	}
}
