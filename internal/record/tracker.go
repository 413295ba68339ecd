package record

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/circlepop/internal/sim"
)

// Tracker folds a game's events into the player's record and logs them.
type Tracker struct {
	store  Store
	player string
	logger *log.Logger
	now    func() time.Time

	best      Record
	newBest   bool
	lastScore int
	reached   int // Highest level a completed round led to; every game starts at 1
}

// NewTracker loads the player's record from store. A nil logger discards.
func NewTracker(store Store, player string, logger *log.Logger, now func() time.Time) *Tracker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	t := &Tracker{
		store:   store,
		player:  player,
		logger:  logger,
		now:     now,
		reached: 1,
	}
	best, err := store.Get(player)
	if err != nil {
		logger.Error("load record", "err", err)
	}
	t.best = best
	return t
}

// Best returns the player's record as of the last event.
func (t *Tracker) Best() Record {
	return t.best
}

// NewBest reports whether the last finished round improved the record.
func (t *Tracker) NewBest() bool {
	return t.newBest
}

// LastScore returns the score of the last finished round.
func (t *Tracker) LastScore() int {
	return t.lastScore
}

// Handle processes events drained from the game.
func (t *Tracker) Handle(events []sim.Event) {
	for _, ev := range events {
		switch ev.Type {
		case sim.EventRoundStarted:
			t.newBest = false
			t.logger.Debug("round started", "level", ev.Level)
		case sim.EventLevelComplete:
			t.lastScore = ev.Score
			t.logger.Info("level complete", "level", ev.Level, "score", ev.Score)
		case sim.EventLevelReached:
			t.reached = max(t.reached, ev.Level)
			t.submit(Result{Level: ev.Level, Score: t.lastScore, Completed: true})
		case sim.EventGameOver:
			t.lastScore = ev.Score
			t.logger.Info("game over", "level", ev.Level, "score", ev.Score)
			// A level jumped to is not a level reached.
			t.submit(Result{Level: t.reached, Score: ev.Score})
		case sim.EventWarpStarted, sim.EventWarpEnded, sim.EventFuseExploded:
			t.logger.Debug(ev.Type.String(), "level", ev.Level)
		}
	}
}

func (t *Tracker) submit(res Result) {
	res.Player = t.player
	res.At = t.now()
	rec, improved, err := t.store.Submit(res)
	if err != nil {
		t.logger.Error("save record", "err", err)
		return
	}
	t.best = rec
	if improved {
		t.newBest = true
		t.logger.Info("new best", "level", rec.BestLevel, "score", rec.BestScore)
	}
}
