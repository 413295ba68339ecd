// Package sim implements the circle-growth simulation: entities, the spawn
// director, the per-frame step and the level state machine.
package sim

import (
	"flag"
	"math/rand/v2"
	"time"
)

// Rand is the random source the simulation draws from. Float64 must return
// values in [0, 1). *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand creates a deterministic PCG-backed source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// Config holds every tunable of the simulation.
type Config struct {
	// Round
	RoundDuration time.Duration

	// Entities
	InitialRadius       float64
	BaseGrowth          float64 // px/s at level 1
	GrowthPerLevel      float64
	ArmoredHits         int
	ArmoredGrowthFactor float64
	DrifterSpeed        float64 // px/s
	FuseDuration        time.Duration
	FuseGrowthFactor    float64

	// Spawning
	BaseSpawnInterval     time.Duration
	SpawnIntervalPerLevel time.Duration
	MinSpawnInterval      time.Duration
	SpawnAcceleration     float64
	SpawnRules            []SpawnRule

	// Time warp
	WarpMinLevel int
	WarpPeriod   time.Duration
	WarpWindow   time.Duration
	WarpFactor   float64

	// Shockwaves
	GoodShockFactor float64
	BadShockFactor  float64
	ShockMinRadius  float64

	// Splitter children
	ChildMinRadius    float64
	ChildGrowthFactor float64
	ChildDriftChance  float64
}

// DefaultConfig returns the standard game tuning.
func DefaultConfig() Config {
	return Config{
		RoundDuration: 30 * time.Second,

		InitialRadius:       15,
		BaseGrowth:          20,
		GrowthPerLevel:      2,
		ArmoredHits:         3,
		ArmoredGrowthFactor: 0.8,
		DrifterSpeed:        60,
		FuseDuration:        4 * time.Second,
		FuseGrowthFactor:    0.6,

		BaseSpawnInterval:     1000 * time.Millisecond,
		SpawnIntervalPerLevel: 60 * time.Millisecond,
		MinSpawnInterval:      300 * time.Millisecond,
		SpawnAcceleration:     0.9,
		SpawnRules:            DefaultSpawnRules(),

		WarpMinLevel: 6,
		WarpPeriod:   8 * time.Second,
		WarpWindow:   3 * time.Second,
		WarpFactor:   0.5,

		GoodShockFactor: 0.8,
		BadShockFactor:  1.25,
		ShockMinRadius:  5,

		ChildMinRadius:    10,
		ChildGrowthFactor: 1.2,
		ChildDriftChance:  0.5,
	}
}

// growthAt returns the base growth rate for a level.
func (c *Config) growthAt(level int) float64 {
	return c.BaseGrowth + float64(level-1)*c.GrowthPerLevel
}

// spawnIntervalAt returns the starting spawn interval for a level.
func (c *Config) spawnIntervalAt(level int) time.Duration {
	iv := c.BaseSpawnInterval - time.Duration(level-1)*c.SpawnIntervalPerLevel
	if iv < c.MinSpawnInterval {
		iv = c.MinSpawnInterval
	}
	return iv
}

// Bind attaches the commonly tuned fields to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.DurationVar(&c.RoundDuration, "round", c.RoundDuration, "length of a round")
	fs.Float64Var(&c.InitialRadius, "radius", c.InitialRadius, "radius of a new circle")
	fs.Float64Var(&c.BaseGrowth, "growth", c.BaseGrowth, "growth rate at level 1 in units per second")
	fs.DurationVar(&c.BaseSpawnInterval, "spawn", c.BaseSpawnInterval, "spawn interval at level 1")
	fs.DurationVar(&c.MinSpawnInterval, "min-spawn", c.MinSpawnInterval, "shortest spawn interval")
	fs.IntVar(&c.WarpMinLevel, "warp-level", c.WarpMinLevel, "first level with time warp")
}
