// Package loop runs the game in a terminal: it reads keys and mouse clicks,
// feeds frame time to a game.Session and draws the board, the HUD and the
// menu screens at a fixed frame rate.
package loop

import (
	"bufio"
	"io"
)

// Run plays one game client on r and w until the player quits.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	return NewClient(r, w, opts).Run()
}
