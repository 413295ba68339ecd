package sim

import (
	"math"
	"time"

	"github.com/tomz197/circlepop/internal/physics"
)

// EntityID identifies an entity for the lifetime of a Game. IDs are never
// reused, so a stale ID from a finished round matches nothing.
type EntityID uint64

// Kind is the behavioral type of an entity.
type Kind uint8

const (
	KindNormal   Kind = iota // Plain circle, may carry modifiers
	KindSplitter             // Splits into two children when destroyed
	KindFuse                 // Counts down and detonates on its own
)

func (k Kind) String() string {
	switch k {
	case KindSplitter:
		return "splitter"
	case KindFuse:
		return "fuse"
	default:
		return "normal"
	}
}

// Modifier flags extend a normal entity.
type Modifier uint8

const (
	ModArmored Modifier = 1 << iota // Needs several hits
	ModDrifter                      // Moves and bounces off walls
)

// Tag is the visual type presented to renderers.
type Tag string

const (
	TagNormal         Tag = "normal"
	TagArmored        Tag = "armored"
	TagDrifter        Tag = "drifter"
	TagArmoredDrifter Tag = "armored-drifter"
	TagSplitter       Tag = "splitter"
	TagFuse           Tag = "fuse"
)

// Fuse is the countdown carried by fuse entities.
type Fuse struct {
	Remaining time.Duration
}

// Bounds is the play-area size. The origin is the top-left corner.
type Bounds struct {
	W, H float64
}

// LethalRadius is the radius at which an entity ends the round: half the
// smaller play-area dimension.
func (b Bounds) LethalRadius() float64 {
	return math.Min(b.W, b.H) / 2
}

// Entity is one circle on the play area. It is plain data: destruction
// effects are applied by the Round that owns it.
type Entity struct {
	ID     EntityID
	X, Y   float64 // Center
	VX, VY float64 // Velocity, zero unless drifting
	Radius float64
	Growth float64 // Radius px/s
	Hits   int     // Hits remaining
	Kind   Kind
	Mods   Modifier
	Fuse   *Fuse // Non-nil iff Kind == KindFuse
}

// Advance applies growth and, for drifters, motion over dt.
func (e *Entity) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	s := dt.Seconds()
	e.Radius += e.Growth * s
	if e.Drifting() {
		e.X += e.VX * s
		e.Y += e.VY * s
	}
}

// Drifting reports whether the entity moves.
func (e *Entity) Drifting() bool {
	return e.VX != 0 || e.VY != 0
}

// Bounce reflects the velocity components whose wall the circle's edge
// crossed and clamps the center so the circle stays inside b. A circle wider
// than the area on an axis is centered on that axis.
func (e *Entity) Bounce(b Bounds) {
	e.X, e.VX = physics.Reflect(e.X, e.VX, e.Radius, b.W)
	e.Y, e.VY = physics.Reflect(e.Y, e.VY, e.Radius, b.H)
}

// RegisterHit consumes one hit and reports whether the entity is destroyed.
func (e *Entity) RegisterHit() bool {
	if e.Hits > 0 {
		e.Hits--
	}
	return e.Hits == 0
}

// Contains reports whether the point lies inside the circle.
func (e *Entity) Contains(x, y float64) bool {
	return physics.PointInCircle(x, y, e.X, e.Y, e.Radius)
}

// Tag returns the visual type of the entity.
func (e *Entity) Tag() Tag {
	switch e.Kind {
	case KindSplitter:
		return TagSplitter
	case KindFuse:
		return TagFuse
	}
	armored := e.Mods&ModArmored != 0
	drifter := e.Mods&ModDrifter != 0
	switch {
	case armored && drifter:
		return TagArmoredDrifter
	case armored:
		return TagArmored
	case drifter:
		return TagDrifter
	default:
		return TagNormal
	}
}

// setHeading gives the entity a drift velocity of speed along angle.
func (e *Entity) setHeading(angle, speed float64) {
	e.VX = math.Cos(angle) * speed
	e.VY = math.Sin(angle) * speed
	e.Mods |= ModDrifter
}

// scaleRadius multiplies the radius by factor, never going below floor.
func (e *Entity) scaleRadius(factor, floor float64) {
	e.Radius = math.Max(e.Radius*factor, floor)
}
