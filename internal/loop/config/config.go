// Package config centralizes the terminal host parameters.
package config

import "time"

// Cell size - each terminal cell covers this many logical units of the
// play area. A cell is taller than it is wide.
const (
	CellWidth  = 8
	CellHeight = 16
)

// HUD
const (
	HUDRows           = 1  // Terminal rows reserved above the play area
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Terminal limits. Smaller terminals are too small to play; larger ones
// get a centered play area with a border.
const (
	MinTermWidth  = 20
	MinTermHeight = 8
	MaxTermWidth  = 160
	MaxTermHeight = 48
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)
