package sim

import (
	"math"
	"testing"
	"time"

	"github.com/tomz197/circlepop/internal/clock"
)

// scriptRand replays fixed values, then keeps returning fallback.
type scriptRand struct {
	vals     []float64
	fallback float64
	used     int
}

func (s *scriptRand) Float64() float64 {
	if s.used < len(s.vals) {
		v := s.vals[s.used]
		s.used++
		return v
	}
	s.used++
	return s.fallback
}

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestRound(level int, rng Rand) *Round {
	cfg := DefaultConfig()
	return newRound(&cfg, level, rng, &idSource{})
}

func addEntity(r *Round, e Entity) *Entity {
	e.ID = r.ids.next()
	if e.Hits == 0 {
		e.Hits = 1
	}
	ent := &e
	r.entities = append(r.entities, ent)
	return ent
}

func newTestGame(t *testing.T) (*Game, *clock.Manual) {
	t.Helper()
	m := clock.NewManual(epoch)
	g := New(DefaultConfig(), NewRand(7), clock.NewQueue(m))
	return g, m
}

func runFrames(g *Game, m *clock.Manual, b Bounds, step time.Duration, n int) {
	for i := 0; i < n; i++ {
		m.Advance(step)
		g.Frame(b)
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func hasEvent(events []Event, typ EventType, level int) bool {
	for _, e := range events {
		if e.Type == typ && e.Level == level {
			return true
		}
	}
	return false
}
