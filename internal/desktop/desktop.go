//go:build ebiten

package desktop

import (
	"image/color"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/circlepop/internal/clock"
	"github.com/tomz197/circlepop/internal/record"
	"github.com/tomz197/circlepop/internal/sim"
)

// Options configures a window game. Zero values get defaults.
type Options struct {
	Player string
	Config sim.Config
	Seed   uint64 // 0 picks a random seed
	Store  record.Store
	Logger *log.Logger
}

// Game adapts a sim.Game to the ebiten.Game interface.
type Game struct {
	game    *sim.Game
	results *record.Tracker
	logger  *log.Logger
	bounds  sim.Bounds
}

var levelKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// New creates a window game.
func New(opts Options) *Game {
	if opts.Store == nil {
		opts.Store = record.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Config.RoundDuration <= 0 {
		opts.Config = sim.DefaultConfig()
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64()
	}
	if opts.Player == "" {
		opts.Player = "player"
	}

	src := clock.System{}
	logger := opts.Logger.With("player", opts.Player)
	return &Game{
		game:    sim.New(opts.Config, sim.NewRand(opts.Seed), clock.NewQueue(src)),
		results: record.NewTracker(opts.Store, opts.Player, logger, src.Now),
		logger:  logger,
	}
}

// Update handles input and advances the game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.game.RestartGame()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.game.RestartLevel()
	case inpututil.IsKeyJustPressed(ebiten.KeyP), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.game.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace), inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.startOrContinue()
	}
	for i, k := range levelKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.game.JumpToLevel(i + 1)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if y >= hudHeight {
			g.game.HitAt(float64(x), float64(y-hudHeight))
		}
	}

	g.game.Frame(g.bounds)
	g.results.Handle(g.game.DrainEvents())
	return nil
}

func (g *Game) startOrContinue() {
	switch g.game.Phase() {
	case sim.PhaseReady, sim.PhaseLevelComplete:
		g.game.Start()
	case sim.PhasePaused:
		g.game.Resume()
	case sim.PhaseGameOver:
		g.game.RestartGame()
	}
}

// Draw renders the HUD, the circles and the phase overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.game.Snapshot()
	if snap.Warp {
		screen.Fill(warpColor)
	}

	for _, v := range snap.Entities {
		cx, cy, r := float32(v.X), float32(v.Y+hudHeight), float32(v.Radius)
		vector.DrawFilledCircle(screen, cx, cy, r, entityColor(v), true)
		if v.Hits > 1 {
			vector.StrokeCircle(screen, cx, cy, r, 2, rimColor, true)
		}
		if v.Tag == sim.TagSplitter {
			vector.StrokeLine(screen, cx, cy-r, cx, cy+r, 2, color.Black, true)
		}
	}

	vector.DrawFilledRect(screen, 0, 0, float32(g.bounds.W), hudHeight, color.Black, false)
	ebitenutil.DebugPrintAt(screen, hudLine(snap, g.results.Best()), 4, 2)

	lines := overlayLines(snap, g.results)
	const lineHeight, charWidth = 16, 6
	top := hudHeight + (int(g.bounds.H)-len(lines)*lineHeight)/2
	for i, line := range lines {
		left := (int(g.bounds.W) - len(line)*charWidth) / 2
		ebitenutil.DebugPrintAt(screen, line, max(left, 0), max(top+i*lineHeight, hudHeight))
	}
}

// Layout uses the window size as the logical size. The play area is
// everything below the HUD.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.bounds = sim.Bounds{
		W: float64(outsideWidth),
		H: float64(max(outsideHeight-hudHeight, 0)),
	}
	return outsideWidth, outsideHeight
}
