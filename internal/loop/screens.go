package loop

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/reaction/internal/draw"
	"github.com/tomz197/reaction/internal/game"
	"github.com/tomz197/reaction/internal/object"
)

// ASCII art titles (figlet "small" font)
var (
	titleArt = []string{
		" ___ ___   _   ___ _____ ___ ___  _  _ ",
		"| _ \\ __| /_\\ / __|_   _|_ _/ _ \\| \\| |",
		"|   / _| / _ \\ (__  | |  | | (_) | .` |",
		"|_|_\\___/_/ \\_\\___| |_| |___\\___/|_|\\_|",
	}
	gameOverArt = []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	phase := c.state.Snapshot.Phase

	// On phase, size or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	if c.state.dirty || phase != c.state.prevPhase || c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.dirty = false
		c.state.prevPhase = phase
		c.state.wasInactive = c.state.isInactive
	}

	l := c.state.Layout
	if !l.Fits {
		c.drawTooSmall()
		return c.chunkWriter.Flush()
	}

	ctx := object.DrawContext{
		Canvas: c.canvas,
		Writer: c.chunkWriter,
	}

	c.canvas.Clear()
	target := object.Target{
		Target:  c.state.Snapshot.Target,
		Visible: c.state.Snapshot.TargetVisible,
	}
	if err := target.Draw(ctx); err != nil {
		return err
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	if err := c.drawHUD(ctx); err != nil {
		return err
	}

	if c.state.shuttingDown {
		c.drawShutdownScreen()
		return c.chunkWriter.Flush()
	}

	if c.state.isInactive {
		c.drawInactivityScreen()
		return c.chunkWriter.Flush()
	}

	switch phase {
	case game.PhaseIdle:
		c.drawStartScreen()
	case game.PhasePaused:
		c.drawPauseScreen()
	case game.PhaseGameOver:
		c.drawGameOverScreen()
	}

	return c.chunkWriter.Flush()
}

// drawHUD draws the score line above the board and the time bar below it.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen (since we don't clear every frame).
func (c *Client) drawHUD(ctx object.DrawContext) error {
	snap := c.state.Snapshot
	l := c.state.Layout

	hearts := strings.Repeat("♥", snap.Lives) + strings.Repeat("·", max(game.StartLives-snap.Lives, 0))
	objects := []object.Object{
		object.Text{
			X:     2,
			Y:     1,
			Value: fmt.Sprintf("Score: %-5d Best: %-5d Round: %-4d Lives: %s", snap.Score, snap.Best, snap.Round, hearts),
		},
	}

	hint := "P pause  R restart  Q quit"
	if len(hint)+30 <= l.RenderWidth {
		objects = append(objects, object.Text{X: l.RenderWidth - len(hint), Y: l.FooterRow(), Value: hint, Color: draw.ColorDim})
	} else {
		hint = ""
	}

	fraction := 0.0
	if snap.RoundTime > 0 {
		fraction = float64(snap.TimeLeft) / float64(snap.RoundTime)
	}
	label := fmt.Sprintf("Time %5.2fs ", snap.TimeLeft.Seconds())
	objects = append(objects,
		object.Text{X: 2, Y: l.FooterRow(), Value: label},
		object.Bar{
			X:        2 + len(label),
			Y:        l.FooterRow(),
			Width:    min(l.RenderWidth-len(label)-len(hint)-4, 40),
			Fraction: fraction,
			Color:    timeColor(fraction),
		},
	)
	return object.DrawAll(ctx, objects...)
}

func timeColor(fraction float64) string {
	switch {
	case fraction > 0.5:
		return draw.ColorGreen
	case fraction > 0.25:
		return draw.ColorYellow
	default:
		return draw.ColorRed
	}
}

// drawStartScreen draws the title, the rules and the leaderboard.
func (c *Client) drawStartScreen() {
	lines := []string{
		"",
		"Hit the target before time runs out.",
		"Each round speeds up and shrinks the target.",
		"Miss a round: lose a life. Lose all lives: game over.",
		"Your best score is saved under your player name.",
		"",
		"mouse  . . . . .  Hit",
		"SPACE  . . . . . Start",
		"P / ESC  . . . . Pause",
		"R  . . . . . . Restart",
		"Q  . . . . . . .  Quit",
		"",
		c.blink(">>  Press SPACE to Start  <<"),
	}
	if c.opts.Player != "" {
		lines = append(lines, "", "Playing as "+c.opts.Player)
	}
	lines = append(lines, c.leaderboardLines()...)
	c.drawCentered(c.withTitle(titleArt, "REACTION", lines))
}

// drawPauseScreen draws the pause overlay on top of the board.
func (c *Client) drawPauseScreen() {
	c.drawCentered([]string{
		"  PAUSED  ",
		"",
		" Take a breath. Ready to jump back in? ",
		" Press P or SPACE to resume ",
	})
}

// drawGameOverScreen shows the final score and how it compares to the best.
func (c *Client) drawGameOverScreen() {
	snap := c.state.Snapshot
	result := game.GameOver{Score: snap.Score, Best: snap.Best}
	if c.state.LastGameOver != nil {
		result = *c.state.LastGameOver
	}

	lines := []string{"", fmt.Sprintf("Final Score: %d", result.Score)}
	// A score that ties the best counts as a new best too.
	if result.Score >= result.Best {
		lines = append(lines, "New best! Nicely done.")
	} else {
		lines = append(lines, fmt.Sprintf("Best: %d", result.Best))
	}
	lines = append(lines, "", c.blink(">>  Press SPACE to Play Again  <<"))
	lines = append(lines, c.leaderboardLines()...)
	c.drawCentered(c.withTitle(gameOverArt, "GAME OVER", lines))
}

// withTitle puts the ASCII art title above lines when the board has room for
// both, and the plain title otherwise.
func (c *Client) withTitle(art []string, plain string, lines []string) []string {
	l := c.state.Layout
	if l.BoardCols >= len(art[0]) && l.BoardRows >= len(art)+len(lines) {
		return append(append([]string(nil), art...), lines...)
	}
	return append([]string{plain}, lines...)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen() {
	c.drawCentered([]string{
		"INACTIVITY WARNING",
		"",
		fmt.Sprintf("You have been inactive for too long. You will be disconnected in %d seconds.",
			int(InactivityDisconnectUser-time.Since(c.lastInput).Seconds())),
		"",
		"Press any key to continue",
	})
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen() {
	c.drawCentered([]string{
		"SERVER SHUTTING DOWN",
		"",
		"The server is restarting for maintenance.",
		"Please reconnect in a moment.",
		"",
		fmt.Sprintf("Disconnecting in %2d seconds...", int(c.state.shutdownTimer)+1),
		"",
		"Press Q to disconnect now",
	})
}

// drawTooSmall asks for a bigger terminal instead of drawing a cramped board.
func (c *Client) drawTooSmall() {
	l := c.state.Layout
	msg := "Terminal too small"
	if l.RenderWidth < len(msg) {
		msg = "Too small"
	}
	c.chunkWriter.WriteAt(max((l.RenderWidth-len(msg))/2+1, 1), max(l.RenderHeight/2, 1), msg)
}

// leaderboardLines formats the top rows of the last fetched leaderboard.
func (c *Client) leaderboardLines() []string {
	entries := c.state.Leaderboard
	if len(entries) == 0 {
		return nil
	}
	lines := []string{"", "Leaderboard"}
	for i, e := range entries {
		if i == LeaderboardRows {
			break
		}
		name := e.Name
		if utf8.RuneCountInString(name) > 16 {
			name = string([]rune(name)[:16])
		}
		lines = append(lines, fmt.Sprintf("%2d. %-16s %6d", i+1, name, e.Score))
	}
	return lines
}

// blink returns s in the visible phase of the prompt blink and blanks of the
// same width otherwise, so the prompt is erased without a full clear.
func (c *Client) blink(s string) string {
	if object.ShouldRenderBlink(c.state.elapsed.Seconds(), PromptBlinkFrequency) {
		return s
	}
	return strings.Repeat(" ", utf8.RuneCountInString(s))
}

// drawCentered writes lines centred over the board. Lines that do not fit
// below the board's first row are dropped.
func (c *Client) drawCentered(lines []string) {
	l := c.state.Layout
	lines = lines[:min(len(lines), l.BoardRows)]
	top := l.BoardTop() + (l.BoardRows-len(lines))/2

	ctx := object.DrawContext{Writer: c.chunkWriter}
	for i, line := range lines {
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > l.BoardCols {
			line = string([]rune(line)[:l.BoardCols])
		}
		txt := object.Centered(l.RenderWidth, top+i, line)
		_ = txt.Draw(ctx)
	}
}
