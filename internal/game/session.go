// Package game implements the reaction game: rounds, the round timer, lives,
// difficulty scaling, target placement and the persisted best score.
package game

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Phase is the coarse state of a session, derived from its flags.
type Phase int

const (
	PhaseIdle     Phase = iota // Never started
	PhasePlaying               // Round timer running
	PhasePaused                // Game in progress, timer suspended
	PhaseGameOver              // Lives exhausted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// BestStore persists the best score between sessions.
type BestStore interface {
	LoadBest() (int, error)
	SaveBest(best int) error
}

// CueSink receives fire-and-forget sound cues. Implementations must not block.
type CueSink interface {
	Notify(freq float64, d time.Duration)
}

// GameOver describes a finished game.
type GameOver struct {
	Score   int
	Best    int  // Best after this game
	NewBest bool // Score beat the previous best
}

// Options configures a Session. Every field is optional.
type Options struct {
	Store      BestStore
	Cues       CueSink
	Logger     *log.Logger
	Rand       *rand.Rand
	Bounds     Bounds
	OnGameOver func(GameOver)
}

// Snapshot is a read-only copy of the session state for the render layer.
type Snapshot struct {
	Phase         Phase
	Running       bool
	Paused        bool
	Round         int
	Score         int
	Best          int
	Lives         int
	TimeLeft      time.Duration
	RoundTime     time.Duration // Full budget of the current round
	Target        Target
	TargetVisible bool // False before the first spawn and during the grace window after a miss
	Spawns        int  // Number of targets placed so far; changes whenever a new target appears
	Bounds        Bounds
}

// Session owns the state of one player's game. All methods are safe for
// concurrent use; every mutation runs to completion under the session lock,
// so a tick and a hit never both apply to the same round.
type Session struct {
	mu sync.Mutex

	running bool
	paused  bool
	ended   bool
	round   int
	score   int
	best    int
	lives   int

	timeLeft time.Duration
	tickAcc  time.Duration // Wall time carried towards the next tick

	target        Target
	targetVisible bool
	spawns        int
	bounds        Bounds

	sched   Scheduler
	respawn *Task

	rng        *rand.Rand
	store      BestStore
	cues       CueSink
	logger     *log.Logger
	onGameOver func(GameOver)

	// Work deferred until the lock is released.
	pendingSave  bool
	pendingEvent *GameOver
}

// NewSession creates an idle session and loads the best score from the store.
// A failing store is logged and treated as a best of 0.
func NewSession(opts Options) *Session {
	s := &Session{
		round:      1,
		lives:      StartLives,
		timeLeft:   BaseTime,
		bounds:     opts.Bounds,
		rng:        opts.Rand,
		store:      opts.Store,
		cues:       opts.Cues,
		logger:     opts.Logger,
		onGameOver: opts.OnGameOver,
	}
	if s.bounds == (Bounds{}) {
		s.bounds = Bounds{W: DefaultBoardWidth, H: DefaultBoardHeight}
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.target = Target{Size: TargetSize(1)}

	if s.store != nil {
		best, err := s.store.LoadBest()
		if err != nil {
			s.logger.Warn("best score unavailable, starting from 0", "err", err)
		} else if best > 0 {
			s.best = best
		}
	}
	return s
}

// Start begins a new game from the idle or game-over state.
// It does nothing while a game is in progress; use Restart for that.
func (s *Session) Start() {
	s.mu.Lock()
	if !s.running {
		s.beginGame()
	}
	s.unlock()
}

// Restart abandons whatever is going on and begins a fresh game.
func (s *Session) Restart() {
	s.mu.Lock()
	s.beginGame()
	s.unlock()
}

// TogglePause suspends or resumes the round timer. Ignored when no game runs.
func (s *Session) TogglePause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.paused = !s.paused
}

// Hit registers an activation of the current target. It reports whether the
// hit counted; hits are ignored when no game runs and while paused. A hit
// during the respawn delay after a miss replaces the pending respawn.
func (s *Session) Hit() bool {
	s.mu.Lock()
	defer s.unlock()
	return s.hit()
}

// HitAt registers an activation at board point (x, y). Points outside the
// target are ignored.
func (s *Session) HitAt(x, y float64) bool {
	s.mu.Lock()
	defer s.unlock()
	if !s.targetVisible || !s.target.Contains(x, y) {
		return false
	}
	return s.hit()
}

// Tick advances the session by exactly one tick period.
func (s *Session) Tick() {
	s.Advance(TickPeriod)
}

// Advance feeds elapsed wall time into the session. Whole tick periods fire
// ticks; the remainder is carried to the next call. Nothing moves while the
// session is paused or not running.
func (s *Session) Advance(elapsed time.Duration) {
	s.mu.Lock()
	defer s.unlock()

	for elapsed > 0 && s.running && !s.paused {
		if s.respawn.Pending() {
			// Grace window: the round timer is frozen until the target is back.
			step := elapsed
			if next, ok := s.sched.Next(); ok && next < step {
				step = next
			}
			s.sched.Advance(step)
			elapsed -= step
			continue
		}

		need := TickPeriod - s.tickAcc
		if elapsed < need {
			s.tickAcc += elapsed
			return
		}
		elapsed -= need
		s.tickAcc = 0
		s.tick()
	}
}

// SetBounds updates the play surface size. A target already on the board is
// moved back inside the new bounds.
func (s *Session) SetBounds(b Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds = b
	if s.running {
		s.target = Clamp(s.target, b)
	}
}

// Best returns the best score known to the session.
func (s *Session) Best() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Phase:         s.phase(),
		Running:       s.running,
		Paused:        s.paused,
		Round:         s.round,
		Score:         s.score,
		Best:          s.best,
		Lives:         s.lives,
		TimeLeft:      s.timeLeft,
		RoundTime:     TimePerRound(s.round),
		Target:        s.target,
		TargetVisible: s.running && s.targetVisible,
		Spawns:        s.spawns,
		Bounds:        s.bounds,
	}
}

func (s *Session) phase() Phase {
	switch {
	case s.running && s.paused:
		return PhasePaused
	case s.running:
		return PhasePlaying
	case s.ended:
		return PhaseGameOver
	default:
		return PhaseIdle
	}
}

// beginGame resets the counters and starts round 1. Must be called with lock held.
func (s *Session) beginGame() {
	s.cancelRespawn()
	s.score = 0
	s.lives = StartLives
	s.round = 1
	s.paused = false
	s.running = true
	s.ended = false
	s.startRound()
	s.logger.Debug("game started", "bounds", s.bounds)
}

// startRound resets the timer for the current round and places a new target.
func (s *Session) startRound() {
	s.timeLeft = TimePerRound(s.round)
	s.tickAcc = 0
	s.target = Place(s.rng, s.bounds, TargetSize(s.round))
	s.targetVisible = true
	s.spawns++
}

func (s *Session) hit() bool {
	if !s.running || s.paused {
		return false
	}
	if s.respawn.Pending() {
		s.cancelRespawn()
	}
	s.notify(HitCueFreq, HitCueLength)
	s.score++
	s.round++
	s.startRound()
	return true
}

// tick applies one tick period to the round timer.
func (s *Session) tick() {
	prev := s.timeLeft
	s.timeLeft = max(0, s.timeLeft-TickPeriod)
	if prev > 0 && s.timeLeft == 0 {
		s.miss()
	}
}

// miss handles a round that timed out.
func (s *Session) miss() {
	s.lives--
	if s.lives <= 0 {
		s.lives = 0
		s.notify(GameOverCueFreq, GameOverCueLen)
		s.endGame()
		return
	}

	s.notify(MissCueFreq, MissCueLength)
	s.round++
	s.timeLeft = TimePerRound(s.round)
	s.targetVisible = false
	s.respawn = s.sched.After(RespawnDelay, s.startRound)
	s.logger.Debug("missed", "lives", s.lives, "round", s.round)
}

// endGame stops the game and records the best score.
func (s *Session) endGame() {
	s.cancelRespawn()
	prevBest := s.best
	if s.score > s.best {
		s.best = s.score
		s.pendingSave = true
	}
	s.pendingEvent = &GameOver{Score: s.score, Best: s.best, NewBest: s.score > prevBest}

	s.running = false
	s.paused = false
	s.ended = true
	s.round = 1
	s.timeLeft = BaseTime
	s.tickAcc = 0
	s.targetVisible = false
	s.logger.Info("game over", "score", s.score, "best", s.best)
}

func (s *Session) cancelRespawn() {
	s.respawn.Cancel()
	s.respawn = nil
	s.sched.Reset()
}

func (s *Session) notify(freq float64, d time.Duration) {
	if s.cues != nil {
		s.cues.Notify(freq, d)
	}
}

// unlock releases the lock, then persists the best score and reports game
// over if the locked section produced either.
func (s *Session) unlock() {
	save, best := s.pendingSave, s.best
	event := s.pendingEvent
	s.pendingSave = false
	s.pendingEvent = nil
	s.mu.Unlock()

	if save && s.store != nil {
		if err := s.store.SaveBest(best); err != nil {
			s.logger.Warn("failed to persist best score", "best", best, "err", err)
		}
	}
	if event != nil && s.onGameOver != nil {
		s.onGameOver(*event)
	}
}
