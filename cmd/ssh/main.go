package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/reaction/internal/config"
	"github.com/tomz197/reaction/internal/draw"
	"github.com/tomz197/reaction/internal/game"
	"github.com/tomz197/reaction/internal/leaderboard"
	rlog "github.com/tomz197/reaction/internal/logging"
	"github.com/tomz197/reaction/internal/loop"
	"github.com/tomz197/reaction/internal/storage/sqlite"
)

// shutdownGrace is how long connected players get to see the shutdown notice.
const shutdownGrace = 15 * time.Second

// games tracks the running game sessions so shutdown can wait for them.
type games struct {
	logger      *log.Logger
	store       *sqlite.Store
	leaderboard leaderboard.Source
	shutdown    chan struct{}

	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

// admit registers a new session. It refuses once shutdown has begun so
// stop never waits on a session that started after it.
func (g *games) admit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closing {
		return false
	}
	g.wg.Add(1)
	return true
}

func main() {
	var cfg config.SSH
	if err := config.ParseEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := rlog.New(os.Stderr, cfg.Logging.Level, "ssh")

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("SSH config", "host", cfg.Host, "port", cfg.Port, "hostKeyPath", cfg.HostKeyPath, "workingDir", workingDir)

	g := &games{
		logger:   logger,
		shutdown: make(chan struct{}),
	}

	var scorer leaderboard.TopScorer
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("best scores will not be saved", "path", cfg.DBPath, "err", err)
	} else {
		defer store.Close()
		g.store = store
		scorer = store
	}
	g.leaderboard = leaderboard.Select(cfg.Leaderboard.URL, cfg.Leaderboard.File, scorer)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithMiddleware(
			g.middleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(cfg.Host, cfg.Port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Notify players and give them time to read the notice before cutting connections.
	logger.Info("Notifying connected players about shutdown...")
	g.stop(shutdownGrace)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

// middleware handles SSH sessions and runs one game client per connection.
func (g *games) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		if !g.admit() {
			fmt.Fprintln(sess, "Server is shutting down. Please try again later.")
			return
		}
		defer g.wg.Done()

		logger := g.logger.With("user", sess.User())
		logger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		var bestStore game.BestStore
		if g.store != nil {
			bestStore = g.store.ForPlayer(sess.User())
		}

		reader := bufio.NewReader(sess)
		clientOpts := loop.Options{
			TermSizeFunc: sizeTracker.getSize,
			Player:       sess.User(),
			Store:        bestStore,
			Leaderboard:  g.leaderboard,
			Logger:       g.logger,
			Inactivity:   true,
			Shutdown:     g.shutdown,
		}

		c := loop.NewClient(reader, sess, clientOpts)
		if err := c.Run(); err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended", "best", c.Session().Best())
		next(sess)
	}
}

// stop announces the shutdown to every client and waits up to timeout for
// them to disconnect.
func (g *games) stop(timeout time.Duration) {
	g.mu.Lock()
	if !g.closing {
		g.closing = true
		close(g.shutdown)
	}
	g.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		g.logger.Info("All players disconnected")
	case <-time.After(timeout):
		g.logger.Warn("Players still connected after shutdown grace period")
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
