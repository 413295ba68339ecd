package sim

import "time"

// EntityView is the presentation copy of an entity.
type EntityView struct {
	ID     EntityID
	X, Y   float64
	Radius float64
	Tag    Tag
	Hits   int
	Fuse   time.Duration // Zero unless Tag is TagFuse
}

// Snapshot is a read-only view of the game for renderers.
type Snapshot struct {
	Phase     Phase
	Level     int
	Score     int
	Remaining time.Duration
	Warp      bool
	Bounds    Bounds
	Entities  []EntityView
}

// Snapshot copies the state needed to draw a frame.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:     g.phase,
		Level:     g.level,
		Remaining: g.cfg.RoundDuration,
		Bounds:    g.bounds,
	}
	if g.round == nil {
		return s
	}

	r := g.round
	s.Score = r.Score
	s.Remaining = r.Remaining
	s.Warp = g.phase == PhaseRunning && r.director.WarpActive()
	s.Entities = make([]EntityView, 0, len(r.entities))
	for _, e := range r.entities {
		v := EntityView{
			ID:     e.ID,
			X:      e.X,
			Y:      e.Y,
			Radius: e.Radius,
			Tag:    e.Tag(),
			Hits:   e.Hits,
		}
		if e.Fuse != nil {
			v.Fuse = e.Fuse.Remaining
		}
		s.Entities = append(s.Entities, v)
	}
	return s
}
