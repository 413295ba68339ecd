//go:build !ebiten

package desktop

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tomz197/circlepop/internal/record"
	"github.com/tomz197/circlepop/internal/sim"
)

// Options configures a window game.
type Options struct {
	Player string
	Config sim.Config
	Seed   uint64
	Store  record.Store
	Logger *log.Logger
}

// Game is a placeholder for builds without the window.
type Game struct{}

// New panics to indicate that the ebiten build tag is required.
func New(Options) *Game {
	panic("desktop.New requires building with the 'ebiten' tag")
}

// Update always reports that the build tag is missing.
func (g *Game) Update() error {
	return fmt.Errorf("desktop.Game.Update requires building with the 'ebiten' tag")
}

// Draw is a no-op placeholder.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
