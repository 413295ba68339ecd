// Package loop runs one player's game on a terminal: input, the frame loop,
// rendering and bookkeeping of results.
package loop

import (
	"bufio"
	"errors"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/circlepop/internal/clock"
	"github.com/tomz197/circlepop/internal/draw"
	"github.com/tomz197/circlepop/internal/input"
	"github.com/tomz197/circlepop/internal/loop/config"
	"github.com/tomz197/circlepop/internal/record"
	"github.com/tomz197/circlepop/internal/sim"
)

// Options configures a session. Zero values get defaults.
type Options struct {
	Player       string
	TermSizeFunc draw.TermSizeFunc
	Profile      termenv.Profile
	Config       sim.Config
	Seed         uint64 // 0 picks a random seed
	Store        record.Store
	Logger       *log.Logger
	Clock        clock.Source
	Hub          *Hub
	Inactivity   bool // Warn, then disconnect idle players
}

// Session handles rendering and input for a single terminal.
type Session struct {
	game    *sim.Game
	src     clock.Source
	player  string
	store   record.Store
	results *record.Tracker
	logger  *log.Logger
	hub     *Hub
	handle  *Handle

	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	styles       styles
	inactivity   bool

	running    bool
	termWidth  int
	termHeight int
	tooSmall   bool
	lastInput  time.Time
	isInactive bool
	shutdownAt time.Time // Zero unless the server is shutting down
	prevScreen screenKey
}

// NewSession creates a session reading keys from r and drawing to w.
// r may be nil when input is fed through Tick.
func NewSession(r *bufio.Reader, w io.Writer, opts Options) *Session {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
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

	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(opts.Profile)
	renderer.SetHasDarkBackground(true)

	s := &Session{
		game:         sim.New(opts.Config, sim.NewRand(opts.Seed), clock.NewQueue(opts.Clock)),
		src:          opts.Clock,
		player:       opts.Player,
		store:        opts.Store,
		logger:       opts.Logger.With("player", opts.Player),
		hub:          opts.Hub,
		writer:       w,
		chunkWriter:  draw.NewChunkWriter(w),
		termSizeFunc: opts.TermSizeFunc,
		styles:       newStyles(renderer),
		inactivity:   opts.Inactivity,
		running:      true,
		lastInput:    opts.Clock.Now(),
		prevScreen:   -1,
	}

	termWidth, termHeight, _ := s.termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	s.canvas = draw.NewScaledCanvas(renderWidth, renderHeight,
		float64(renderWidth*config.CellWidth), float64(renderHeight*config.CellHeight))
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.canvas.SetPalette(draw.NewPalette(opts.Profile, inkColors))
	s.termWidth, s.termHeight = termWidth, termHeight

	if r != nil {
		s.inputStream = input.StartStream(r)
	}
	if s.hub != nil {
		s.handle = s.hub.Register(opts.Player)
	}

	s.results = record.NewTracker(s.store, opts.Player, s.logger, s.src.Now)

	s.logger.Debug("session created", "seed", opts.Seed, "cols", termWidth, "rows", termHeight)
	return s
}

// Run starts the session loop. Blocks until the player quits, the input
// closes or the server shuts the session down.
func (s *Session) Run() error {
	defer s.Close()
	if s.inputStream == nil {
		return errors.New("session has no input")
	}

	draw.EnterGame(s.writer)
	defer draw.LeaveGame(s.writer)

	for s.running {
		frameStart := time.Now()

		if err := s.Tick(input.ReadInput(s.inputStream)); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}
	return nil
}

// Close unregisters the session from its hub.
func (s *Session) Close() {
	if s.hub != nil && s.handle != nil {
		s.hub.Unregister(s.handle.ID)
		s.handle = nil
	}
}

// Running reports whether the session loop should keep going.
func (s *Session) Running() bool {
	return s.running
}

// Game returns the session's game.
func (s *Session) Game() *sim.Game {
	return s.game
}

// Tick runs one frame with the given input.
func (s *Session) Tick(in input.Input) error {
	s.processInput(in)
	s.processHubEvents()
	s.updateScreen()

	s.game.Frame(s.bounds())
	s.results.Handle(s.game.DrainEvents())

	s.updateTimers()
	return s.drawFrame()
}

// processInput maps keys and clicks to game commands.
func (s *Session) processInput(in input.Input) {
	if in.Closed {
		s.running = false
	}
	if in.Any() {
		s.lastInput = s.src.Now()
		if s.isInactive {
			// The key only dismisses the warning.
			s.isInactive = false
			return
		}
	}
	if in.Quit {
		s.running = false
		return
	}
	if !s.shutdownAt.IsZero() || s.tooSmall {
		return
	}

	g := s.game
	switch {
	case in.NewGame:
		g.RestartGame()
	case in.Level > 0:
		g.JumpToLevel(in.Level)
	case in.RestartLevel:
		g.RestartLevel()
	case in.Pause:
		g.TogglePause()
	case in.Start:
		s.startOrContinue()
	}

	for _, c := range in.Clicks {
		if x, y, ok := s.canvas.TerminalToLogical(c.Col, c.Row); ok {
			g.HitAt(x, y)
		}
	}
}

// startOrContinue is the action of the start key in each phase.
func (s *Session) startOrContinue() {
	switch s.game.Phase() {
	case sim.PhaseReady, sim.PhaseLevelComplete:
		s.game.Start()
	case sim.PhasePaused:
		s.game.Resume()
	case sim.PhaseGameOver:
		s.game.RestartGame()
	}
}

// processHubEvents handles notices from the hub.
func (s *Session) processHubEvents() {
	if s.handle == nil {
		return
	}
	for {
		select {
		case ev := <-s.handle.EventsCh:
			if ev.Type == EventServerShutdown && s.shutdownAt.IsZero() {
				s.shutdownAt = s.src.Now().Add(time.Duration(config.ShutdownDisplaySeconds * float64(time.Second)))
				s.game.Pause()
				s.logger.Info("shutdown notice")
			}
		default:
			return
		}
	}
}

// updateScreen follows terminal resizes. A changed size clears the whole
// terminal so an old border or canvas position does not linger.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	s.tooSmall = termWidth < config.MinTermWidth || termHeight < config.MinTermHeight
	if s.tooSmall {
		s.game.Pause()
	}

	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	if termWidth != s.termWidth || termHeight != s.termHeight {
		s.chunkWriter.Clear()
		s.canvas.ForceRedraw()
		s.termWidth, s.termHeight = termWidth, termHeight
	}
	s.canvas.Resize(renderWidth, renderHeight,
		float64(renderWidth*config.CellWidth), float64(renderHeight*config.CellHeight))
	s.canvas.SetOffset(offsetCol, offsetRow)
}

// clampTermSize fits the play area below the HUD, clamps it to the max render
// resolution and computes the centering offset.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	avail := termHeight - config.HUDRows
	renderWidth = min(max(termWidth, 1), config.MaxTermWidth)
	renderHeight = min(max(avail, 1), config.MaxTermHeight)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = config.HUDRows + max((avail-renderHeight)/2, 0)
	return
}

// bounds is the play area in logical units.
func (s *Session) bounds() sim.Bounds {
	return sim.Bounds{W: s.canvas.LogicalWidth(), H: s.canvas.LogicalHeight()}
}

// updateTimers handles the inactivity and shutdown deadlines.
func (s *Session) updateTimers() {
	now := s.src.Now()

	if !s.shutdownAt.IsZero() && !now.Before(s.shutdownAt) {
		s.running = false
		return
	}

	if !s.inactivity {
		return
	}
	idle := now.Sub(s.lastInput)
	switch {
	case idle > config.InactivityDisconnectUser*time.Second:
		s.logger.Info("disconnecting idle player")
		s.running = false
	case idle > config.InactivityWarnUser*time.Second && !s.isInactive:
		s.isInactive = true
		s.game.Pause()
	}
}
