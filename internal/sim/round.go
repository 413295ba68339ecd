package sim

import (
	"math"
	"slices"
	"time"
)

// Round is the context of one timed round. It owns the entity collection;
// the Game creates a fresh Round whenever a round starts.
type Round struct {
	cfg      *Config
	rng      Rand
	ids      *idSource
	director *Director

	Level     int
	Score     int
	Elapsed   time.Duration
	Remaining time.Duration

	entities []*Entity
}

type idSource struct {
	last EntityID
}

func (s *idSource) next() EntityID {
	s.last++
	return s.last
}

// StepResult reports what a simulation step did.
type StepResult struct {
	Detonated []EntityID // Fuses that went off this step
	Breached  bool       // Some entity reached the lethal radius
}

// TickResult reports what a round tick did.
type TickResult struct {
	StepResult
	WarpStarted bool
	WarpEnded   bool
	Expired     bool // Round timer reached zero
}

// HitResult reports the effect of a hit command.
type HitResult struct {
	Found     bool
	Destroyed bool
	Kind      Kind
	Awarded   int
	Children  []EntityID
}

func newRound(cfg *Config, level int, rng Rand, ids *idSource) *Round {
	return &Round{
		cfg:       cfg,
		rng:       rng,
		ids:       ids,
		director:  NewDirector(cfg, level),
		Level:     level,
		Remaining: cfg.RoundDuration,
	}
}

// Director returns the round's spawn director.
func (r *Round) Director() *Director {
	return r.director
}

// Entities returns the live entities. Callers must not modify the slice.
func (r *Round) Entities() []*Entity {
	return r.entities
}

// Entity returns the live entity with the given id.
func (r *Round) Entity(id EntityID) (*Entity, bool) {
	i := r.index(id)
	if i < 0 {
		return nil, false
	}
	return r.entities[i], true
}

// EntityAt returns the topmost live entity containing the point. Later
// spawns are drawn on top, so the search runs newest first.
func (r *Round) EntityAt(x, y float64) (*Entity, bool) {
	for i := len(r.entities) - 1; i >= 0; i-- {
		if r.entities[i].Contains(x, y) {
			return r.entities[i], true
		}
	}
	return nil, false
}

// Spawn adds a new entity chosen by the director and accelerates the
// spawn rate.
func (r *Round) Spawn(b Bounds) *Entity {
	e := r.director.Build(r.ids.next(), b, r.rng)
	r.entities = append(r.entities, e)
	r.director.Accelerate()
	return e
}

// Tick advances the round clock and the time warp, then steps every entity.
func (r *Round) Tick(dt time.Duration, b Bounds) TickResult {
	var res TickResult
	if dt <= 0 {
		return res
	}

	r.Elapsed += dt
	r.Remaining -= dt
	if r.Remaining < 0 {
		r.Remaining = 0
	}
	res.WarpStarted, res.WarpEnded = r.director.UpdateWarp(r.Elapsed)

	res.StepResult = r.Step(dt, b)
	res.Expired = r.Remaining <= 0
	return res
}

// Step advances every live entity by dt: growth, drift with wall bounces
// and fuse countdowns. A fuse that runs out enlarges every other live
// entity and is removed without score. The lethal check runs afterwards.
func (r *Round) Step(dt time.Duration, b Bounds) StepResult {
	var res StepResult
	if dt <= 0 {
		return res
	}

	var dead map[EntityID]bool
	for _, e := range r.entities {
		if dead[e.ID] {
			continue
		}
		e.Advance(dt)
		if e.Drifting() {
			e.Bounce(b)
		}
		if e.Fuse == nil {
			continue
		}
		e.Fuse.Remaining -= dt
		if e.Fuse.Remaining <= 0 {
			if dead == nil {
				dead = make(map[EntityID]bool)
			}
			dead[e.ID] = true
			res.Detonated = append(res.Detonated, e.ID)
			r.shockwave(e.ID, dead, r.cfg.BadShockFactor)
		}
	}
	if len(dead) > 0 {
		r.removeWhere(func(e *Entity) bool { return dead[e.ID] })
	}

	res.Breached = r.breached(b)
	return res
}

// breached reports whether any live entity reached the lethal radius.
func (r *Round) breached(b Bounds) bool {
	lethal := b.LethalRadius()
	for _, e := range r.entities {
		if e.Radius >= lethal {
			return true
		}
	}
	return false
}

// Hit applies a player hit to the entity. Unknown ids are a no-op.
func (r *Round) Hit(id EntityID, b Bounds) HitResult {
	i := r.index(id)
	if i < 0 {
		return HitResult{}
	}
	e := r.entities[i]
	res := HitResult{Found: true, Kind: e.Kind}
	if !e.RegisterHit() {
		return res
	}

	res.Destroyed = true
	res.Awarded = 1
	r.Score += res.Awarded
	r.removeAt(i)

	switch e.Kind {
	case KindSplitter:
		res.Children = r.split(e, b)
	case KindFuse:
		r.shockwave(e.ID, nil, r.cfg.GoodShockFactor)
	}
	return res
}

// split places two children on the parent's boundary.
func (r *Round) split(parent *Entity, b Bounds) []EntityID {
	ids := make([]EntityID, 0, 2)
	for i := 0; i < 2; i++ {
		angle := r.rng.Float64() * 2 * math.Pi
		child := &Entity{
			ID:     r.ids.next(),
			X:      parent.X + math.Cos(angle)*parent.Radius,
			Y:      parent.Y + math.Sin(angle)*parent.Radius,
			Radius: math.Max(r.cfg.ChildMinRadius, parent.Radius/2),
			Growth: parent.Growth * r.cfg.ChildGrowthFactor,
			Hits:   1,
			Kind:   KindNormal,
		}
		if r.rng.Float64() < r.cfg.ChildDriftChance {
			child.setHeading(r.rng.Float64()*2*math.Pi, r.cfg.DrifterSpeed)
		}
		child.Bounce(b)
		r.entities = append(r.entities, child)
		ids = append(ids, child.ID)
	}
	return ids
}

// shockwave scales every live entity other than the source.
func (r *Round) shockwave(source EntityID, dead map[EntityID]bool, factor float64) {
	for _, e := range r.entities {
		if e.ID == source || dead[e.ID] {
			continue
		}
		e.scaleRadius(factor, r.cfg.ShockMinRadius)
	}
}

func (r *Round) index(id EntityID) int {
	for i, e := range r.entities {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (r *Round) removeAt(i int) {
	r.entities = slices.Delete(r.entities, i, i+1)
}

func (r *Round) removeWhere(drop func(*Entity) bool) {
	kept := r.entities[:0]
	for _, e := range r.entities {
		if !drop(e) {
			kept = append(kept, e)
		}
	}
	clear(r.entities[len(kept):])
	r.entities = kept
}
