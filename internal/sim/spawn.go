package sim

import (
	"math"
	"time"
)

// SpawnRule is one row of the spawn table. Rules are evaluated in order; a
// rule whose level gate fails is skipped without drawing a random number.
// A rule with a non-normal Kind is exclusive: when it fires the entity gets
// that kind, no modifiers, and evaluation stops. Otherwise the rule's
// Modifier is added and evaluation continues.
type SpawnRule struct {
	Name     string
	MinLevel int
	Chance   float64
	Kind     Kind
	Modifier Modifier
}

// DefaultSpawnRules returns the standard spawn table.
//
//	order  rule      level  chance  exclusive
//	1      fuse      >=5    25%     yes
//	2      splitter  >=4    30%     yes
//	3      armored   >=2    20%     no
//	4      drifter   >=3    50%     no
func DefaultSpawnRules() []SpawnRule {
	return []SpawnRule{
		{Name: "fuse", MinLevel: 5, Chance: 0.25, Kind: KindFuse},
		{Name: "splitter", MinLevel: 4, Chance: 0.30, Kind: KindSplitter},
		{Name: "armored", MinLevel: 2, Chance: 0.20, Modifier: ModArmored},
		{Name: "drifter", MinLevel: 3, Chance: 0.50, Modifier: ModDrifter},
	}
}

// Director decides what to spawn and how often for one round.
type Director struct {
	cfg   *Config
	level int
	base  time.Duration

	warpActive bool
	nextWarpAt time.Duration // Round-elapsed time of the next window
	warpEndsAt time.Duration
}

// NewDirector creates a director with the level's starting interval.
func NewDirector(cfg *Config, level int) *Director {
	return &Director{
		cfg:        cfg,
		level:      level,
		base:       cfg.spawnIntervalAt(level),
		nextWarpAt: cfg.WarpPeriod,
	}
}

// BaseInterval returns the accelerating interval, ignoring time warp.
func (d *Director) BaseInterval() time.Duration {
	return d.base
}

// Interval returns the effective interval until the next spawn.
func (d *Director) Interval() time.Duration {
	if d.warpActive {
		return time.Duration(float64(d.base) * d.cfg.WarpFactor)
	}
	return d.base
}

// Accelerate shortens the base interval after a spawn.
func (d *Director) Accelerate() {
	next := time.Duration(float64(d.base) * d.cfg.SpawnAcceleration)
	if next < d.cfg.MinSpawnInterval {
		next = d.cfg.MinSpawnInterval
	}
	d.base = next
}

// WarpActive reports whether a time-warp window is open.
func (d *Director) WarpActive() bool {
	return d.warpActive
}

// NextWarpAt returns the round-elapsed time at which the next window opens.
func (d *Director) NextWarpAt() time.Duration {
	return d.nextWarpAt
}

// UpdateWarp opens or closes the time-warp window for the given round
// elapsed time. Windows only exist from WarpMinLevel on.
func (d *Director) UpdateWarp(elapsed time.Duration) (started, ended bool) {
	if d.level < d.cfg.WarpMinLevel || d.cfg.WarpPeriod <= 0 {
		return false, false
	}
	if !d.warpActive && elapsed >= d.nextWarpAt {
		d.warpActive = true
		d.warpEndsAt = d.nextWarpAt + d.cfg.WarpWindow
		started = true
	}
	if d.warpActive && elapsed >= d.warpEndsAt {
		d.warpActive = false
		d.nextWarpAt += d.cfg.WarpPeriod
		ended = true
	}
	return started, ended
}

// Variant walks the spawn table and returns the chosen kind and modifiers.
func (d *Director) Variant(rng Rand) (Kind, Modifier) {
	var mods Modifier
	for _, rule := range d.cfg.SpawnRules {
		if d.level < rule.MinLevel {
			continue
		}
		if rng.Float64() >= rule.Chance {
			continue
		}
		if rule.Kind != KindNormal {
			return rule.Kind, 0
		}
		mods |= rule.Modifier
	}
	return KindNormal, mods
}

// Build creates a new entity placed uniformly at random so the whole
// initial circle fits inside b.
func (d *Director) Build(id EntityID, b Bounds, rng Rand) *Entity {
	kind, mods := d.Variant(rng)
	r := d.cfg.InitialRadius

	e := &Entity{
		ID:     id,
		X:      place(rng, b.W, r),
		Y:      place(rng, b.H, r),
		Radius: r,
		Growth: d.cfg.growthAt(d.level),
		Hits:   1,
		Kind:   kind,
	}

	switch kind {
	case KindFuse:
		e.Fuse = &Fuse{Remaining: d.cfg.FuseDuration}
		e.Growth *= d.cfg.FuseGrowthFactor
	case KindNormal:
		if mods&ModArmored != 0 {
			e.Mods |= ModArmored
			e.Hits = d.cfg.ArmoredHits
			e.Growth *= d.cfg.ArmoredGrowthFactor
		}
		if mods&ModDrifter != 0 {
			e.setHeading(rng.Float64()*2*math.Pi, d.cfg.DrifterSpeed)
		}
	}
	return e
}

// place returns a coordinate in [r, span-r], or the middle when the span
// cannot hold the circle.
func place(rng Rand, span, r float64) float64 {
	if span <= 2*r {
		return span / 2
	}
	return r + rng.Float64()*(span-2*r)
}
