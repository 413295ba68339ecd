package sim

import (
	"time"

	"github.com/tomz197/circlepop/internal/clock"
)

// Phase is the run state of a Game.
type Phase int

const (
	PhaseReady Phase = iota
	PhaseRunning
	PhasePaused
	PhaseLevelComplete
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseLevelComplete:
		return "level-complete"
	case PhaseGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Timers is the one-shot scheduling primitive the Game runs on. Callbacks
// must run on the goroutine that calls Fire. *clock.Queue satisfies it.
type Timers interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) *clock.Timer
	Fire() int
}

// Game is the level state machine. It owns the current Round, the spawn
// timer and the frame clock. A Game is driven from a single goroutine.
type Game struct {
	cfg    Config
	rng    Rand
	timers Timers
	frame  *clock.Frame

	phase  Phase
	level  int
	round  *Round
	bounds Bounds
	ids    idSource

	// gen changes whenever the running round is stopped. A spawn callback
	// only acts if the generation it was scheduled under is still current.
	gen        uint64
	spawnTimer *clock.Timer

	events []Event
}

// New creates a Game in the Ready phase at level 1.
func New(cfg Config, rng Rand, timers Timers) *Game {
	return &Game{
		cfg:    cfg,
		rng:    rng,
		timers: timers,
		frame:  clock.NewFrame(clock.DefaultMaxDelta),
		phase:  PhaseReady,
		level:  1,
	}
}

// Phase returns the current run state.
func (g *Game) Phase() Phase {
	return g.phase
}

// Level returns the current level.
func (g *Game) Level() int {
	return g.level
}

// Round returns the current or most recently finished round, or nil before
// the first start.
func (g *Game) Round() *Round {
	return g.round
}

// Config returns the game's tuning.
func (g *Game) Config() Config {
	return g.cfg
}

// Start begins a round from Ready or the next level from LevelComplete.
func (g *Game) Start() bool {
	switch g.phase {
	case PhaseReady, PhaseLevelComplete:
		g.beginRound()
		return true
	}
	return false
}

// Pause freezes a running round. Pausing a paused game changes nothing.
func (g *Game) Pause() bool {
	if g.phase != PhaseRunning {
		return false
	}
	g.suspend()
	g.phase = PhasePaused
	return true
}

// Resume continues a paused round.
func (g *Game) Resume() bool {
	if g.phase != PhasePaused {
		return false
	}
	g.phase = PhaseRunning
	g.enterRunning()
	return true
}

// TogglePause pauses a running round or resumes a paused one.
func (g *Game) TogglePause() bool {
	if g.phase == PhasePaused {
		return g.Resume()
	}
	return g.Pause()
}

// RestartLevel restarts the current round without changing the level.
// Only valid while Running or Paused.
func (g *Game) RestartLevel() bool {
	if g.phase != PhaseRunning && g.phase != PhasePaused {
		return false
	}
	g.beginRound()
	return true
}

// RestartGame starts over from level 1. Valid in every phase.
func (g *Game) RestartGame() {
	g.level = 1
	g.beginRound()
}

// JumpToLevel forces the level and starts a round there.
func (g *Game) JumpToLevel(level int) {
	if level < 1 {
		level = 1
	}
	g.level = level
	g.beginRound()
}

// Hit applies a player hit. It is a no-op unless a round is running.
func (g *Game) Hit(id EntityID) HitResult {
	if g.phase != PhaseRunning {
		return HitResult{}
	}
	res := g.round.Hit(id, g.bounds)
	if res.Destroyed {
		g.emit(Event{Type: EventPopped, Level: g.level, Score: g.round.Score, Entity: id})
	}
	return res
}

// HitAt hits the topmost entity under the point.
func (g *Game) HitAt(x, y float64) HitResult {
	if g.phase != PhaseRunning {
		return HitResult{}
	}
	e, ok := g.round.EntityAt(x, y)
	if !ok {
		return HitResult{}
	}
	return g.Hit(e.ID)
}

// Frame runs one host frame: due timers fire, then a running round advances
// by the time since the previous frame. bounds is the current play area.
func (g *Game) Frame(bounds Bounds) {
	g.bounds = bounds
	g.timers.Fire()

	if g.phase != PhaseRunning {
		return
	}
	dt, ok := g.frame.Tick(g.timers.Now())
	if !ok {
		return
	}

	res := g.round.Tick(dt, bounds)
	if res.WarpStarted {
		g.emit(Event{Type: EventWarpStarted, Level: g.level})
	}
	if res.WarpEnded {
		g.emit(Event{Type: EventWarpEnded, Level: g.level})
	}
	for _, id := range res.Detonated {
		g.emit(Event{Type: EventFuseExploded, Level: g.level, Entity: id})
	}

	switch {
	case res.Breached:
		g.fail()
	case res.Expired:
		g.complete()
	}
}

// DrainEvents returns the events emitted since the last call.
func (g *Game) DrainEvents() []Event {
	ev := g.events
	g.events = nil
	return ev
}

func (g *Game) emit(e Event) {
	g.events = append(g.events, e)
}

// beginRound discards the current round and starts a fresh one at g.level.
func (g *Game) beginRound() {
	g.suspend()
	g.round = newRound(&g.cfg, g.level, g.rng, &g.ids)
	g.phase = PhaseRunning
	g.enterRunning()
	g.emit(Event{Type: EventRoundStarted, Level: g.level})
}

// enterRunning re-anchors the frame clock and schedules a fresh spawn so
// neither timeline counts time spent outside Running.
func (g *Game) enterRunning() {
	g.frame.Anchor(g.timers.Now())
	g.scheduleSpawn()
}

// suspend cancels the pending spawn and invalidates any callback that was
// scheduled under the current generation.
func (g *Game) suspend() {
	if g.spawnTimer != nil {
		g.spawnTimer.Stop()
		g.spawnTimer = nil
	}
	g.gen++
	g.frame.Reset()
}

func (g *Game) scheduleSpawn() {
	gen := g.gen
	g.spawnTimer = g.timers.AfterFunc(g.round.director.Interval(), func() {
		g.onSpawn(gen)
	})
}

func (g *Game) onSpawn(gen uint64) {
	if gen != g.gen || g.phase != PhaseRunning {
		return
	}
	g.round.Spawn(g.bounds)
	g.scheduleSpawn()
}

func (g *Game) fail() {
	g.suspend()
	g.phase = PhaseGameOver
	g.emit(Event{Type: EventGameOver, Level: g.level, Score: g.round.Score})
}

func (g *Game) complete() {
	g.suspend()
	g.emit(Event{Type: EventLevelComplete, Level: g.level, Score: g.round.Score})
	g.level++
	g.phase = PhaseLevelComplete
	g.emit(Event{Type: EventLevelReached, Level: g.level})
}
