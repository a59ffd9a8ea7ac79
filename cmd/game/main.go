package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tomz197/reaction/internal/audio"
	"github.com/tomz197/reaction/internal/config"
	"github.com/tomz197/reaction/internal/game"
	"github.com/tomz197/reaction/internal/leaderboard"
	"github.com/tomz197/reaction/internal/logging"
	"github.com/tomz197/reaction/internal/loop"
	"github.com/tomz197/reaction/internal/storage/sqlite"
	"golang.org/x/term"
)

func main() {
	cfg, err := config.LoadGame()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the game, so logs only go to LOG_FILE.
	logger, closeLog, err := logging.Open(cfg.Logging.File, cfg.Logging.Level, "game")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	var (
		bestStore game.BestStore
		scorer    leaderboard.TopScorer
	)
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("best score will not be saved", "path", cfg.DBPath, "err", err)
	} else {
		defer store.Close()
		bestStore = store.ForPlayer(cfg.Player)
		scorer = store
	}

	cues := audio.New(cfg.Sound, logger)
	if sp, ok := cues.(*audio.Speaker); ok {
		defer sp.Close()
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	opts := loop.Options{
		Player:      cfg.Player,
		Store:       bestStore,
		Cues:        cues,
		Leaderboard: leaderboard.Select(cfg.Leaderboard.URL, cfg.Leaderboard.File, scorer),
		Logger:      logger,
	}
	if err := loop.Run(reader, os.Stdout, opts); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
