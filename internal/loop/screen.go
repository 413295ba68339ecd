package loop

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tomz197/circlepop/internal/loop/config"
	"github.com/tomz197/circlepop/internal/sim"
)

// screenKey identifies what the session shows, so a change can clear the
// terminal. Game phases map to themselves.
type screenKey int

const (
	screenTooSmall screenKey = iota + 100
	screenShutdown
	screenInactive
)

// leaderboardSize is how many records the title screen lists.
const leaderboardSize = 5

func (s *Session) currentScreen() screenKey {
	switch {
	case s.tooSmall:
		return screenTooSmall
	case !s.shutdownAt.IsZero():
		return screenShutdown
	case s.isInactive:
		return screenInactive
	}
	return screenKey(s.game.Phase())
}

// drawFrame draws the current frame.
func (s *Session) drawFrame() error {
	cw := s.chunkWriter

	// On screen transitions, do a full terminal clear so UI elements from
	// the previous screen don't persist.
	if key := s.currentScreen(); key != s.prevScreen {
		cw.Clear()
		s.canvas.ForceRedraw()
		s.prevScreen = key
	}

	s.canvas.Clear()
	if s.tooSmall {
		s.drawTooSmall()
		return cw.Flush()
	}

	snap := s.game.Snapshot()
	for _, v := range snap.Entities {
		s.drawEntity(v)
	}
	s.canvas.Render(cw)
	s.canvas.RenderBorder(cw, config.HUDRows)

	s.drawFuseTimers(snap)
	s.drawHUD(snap)
	s.drawOverlay(snap)

	return cw.Flush()
}

func (s *Session) drawEntity(v sim.EntityView) {
	c := s.canvas
	c.FillCircle(v.X, v.Y, v.Radius, inkFor(v))
	switch v.Tag {
	case sim.TagArmored, sim.TagArmoredDrifter:
		if v.Hits > 1 {
			c.DrawCircle(v.X, v.Y, v.Radius, inkRim)
		}
	case sim.TagSplitter:
		c.VLine(v.X, v.Y-v.Radius, v.Y+v.Radius, inkRim)
	}
}

// drawFuseTimers writes the seconds left over each fuse.
// Marks the drawn cells as dirty so the canvas overwrites them next frame.
func (s *Session) drawFuseTimers(snap sim.Snapshot) {
	for _, v := range snap.Entities {
		if v.Tag != sim.TagFuse {
			continue
		}
		text := strconv.Itoa(int(math.Ceil(v.Fuse.Seconds())))
		col, row := s.canvas.LogicalToTerminal(v.X, v.Y)
		if !s.canvas.HoldsText(col, row, len(text)) {
			continue
		}
		s.chunkWriter.WriteAt(col, row, s.styles.fuse.Render(text))
		s.canvas.MarkTextDirty(col, row, len(text))
	}
}

// drawHUD draws the status line above the play area. The line always spans
// the full width so shrinking values don't leave residual characters.
func (s *Session) drawHUD(snap sim.Snapshot) {
	left := s.styles.hud.Render(fmt.Sprintf("Level %d   Score %-4d  %4.1fs",
		snap.Level, snap.Score, snap.Remaining.Seconds()))
	if snap.Warp {
		left += "  " + s.styles.warp.Render(" WARP ")
	}

	best := s.results.Best()
	right := fmt.Sprintf("best L%d / %d   %s", best.BestLevel, best.BestScore,
		ansi.Truncate(s.player, config.MaxUsernameLength, "…"))
	if s.hub != nil {
		right = fmt.Sprintf("%d online   %s", s.hub.Count(), right)
	}
	right = s.styles.dim.Render(right)

	gap := max(s.termWidth-lipgloss.Width(left)-lipgloss.Width(right), 1)
	line := ansi.Truncate(left+strings.Repeat(" ", gap)+right, s.termWidth, "")
	s.chunkWriter.WriteAt(1, 1, line)
}

// drawOverlay draws the centered box of the current screen, if any.
func (s *Session) drawOverlay(snap sim.Snapshot) {
	var lines []string
	switch s.currentScreen() {
	case screenShutdown:
		lines = s.shutdownLines()
	case screenInactive:
		lines = s.inactivityLines()
	case screenKey(sim.PhaseReady):
		lines = s.titleLines()
	case screenKey(sim.PhasePaused):
		lines = s.pausedLines(snap)
	case screenKey(sim.PhaseLevelComplete):
		lines = s.levelCompleteLines(snap)
	case screenKey(sim.PhaseGameOver):
		lines = s.gameOverLines(snap)
	default:
		return
	}

	box := s.styles.overlay.Render(strings.Join(lines, "\n"))
	rows := strings.Split(box, "\n")
	width := lipgloss.Width(box)
	col := max((s.termWidth-width)/2+1, 1)
	row := max((s.termHeight-len(rows))/2+1, config.HUDRows+1)
	for i, line := range rows {
		s.chunkWriter.WriteAt(col, row+i, line)
		s.canvas.MarkTextDirty(col, row+i, width)
	}
}

// blink alternates every 600ms.
func (s *Session) blink() bool {
	return s.src.Now().UnixMilli()/600%2 == 0
}

func (s *Session) prompt(text string) string {
	if !s.blink() {
		return strings.Repeat(" ", lipgloss.Width(text))
	}
	return s.styles.key.Render(text)
}

func (s *Session) titleLines() []string {
	lines := []string{
		s.styles.title.Render("C I R C L E P O P"),
		"",
		"Circles grow. Click them before one",
		"fills half the screen.",
		"",
		s.styles.dim.Render("click . . . . . . pop"),
		s.styles.dim.Render("P / Esc  . . .  pause"),
		s.styles.dim.Render("R  . . . . . restart level"),
		s.styles.dim.Render("N  . . . . . . new game"),
		s.styles.dim.Render("1-9  . . . jump to level"),
		s.styles.dim.Render("Q  . . . . . . . . quit"),
		"",
		s.prompt(">>  Press SPACE to Start  <<"),
	}

	recs, err := s.store.Top(leaderboardSize)
	if err != nil {
		s.logger.Error("load leaderboard", "err", err)
		return lines
	}
	if len(recs) > 0 {
		lines = append(lines, "", s.styles.title.Render("Best players"))
		for _, rec := range recs {
			name := ansi.Truncate(rec.Player, config.MaxUsernameLength, "…")
			lines = append(lines, fmt.Sprintf("%-16s  level %-3d  %3d pops", name, rec.BestLevel, rec.BestScore))
		}
	}
	return lines
}

func (s *Session) pausedLines(snap sim.Snapshot) []string {
	return []string{
		s.styles.title.Render("PAUSED"),
		"",
		fmt.Sprintf("Level %d   Score %d   %.1fs left", snap.Level, snap.Score, snap.Remaining.Seconds()),
		"",
		s.prompt("SPACE or P to resume"),
		s.styles.dim.Render("R restart level   N new game   Q quit"),
	}
}

func (s *Session) levelCompleteLines(snap sim.Snapshot) []string {
	lines := []string{
		s.styles.good.Render(fmt.Sprintf("LEVEL %d COMPLETE", snap.Level-1)),
		"",
		fmt.Sprintf("Popped %d circles", s.results.LastScore()),
	}
	if s.results.NewBest() {
		lines = append(lines, s.styles.good.Render("New best!"))
	}
	return append(lines,
		"",
		s.prompt(fmt.Sprintf(">>  Press SPACE for level %d  <<", snap.Level)),
	)
}

func (s *Session) gameOverLines(snap sim.Snapshot) []string {
	best := s.results.Best()
	lines := []string{
		s.styles.bad.Render("GAME OVER"),
		"",
		fmt.Sprintf("A circle took over on level %d", snap.Level),
		fmt.Sprintf("Popped %d circles this round", s.results.LastScore()),
		fmt.Sprintf("Best: level %d, %d pops", best.BestLevel, best.BestScore),
	}
	if s.results.NewBest() {
		lines = append(lines, s.styles.good.Render("New best!"))
	}
	return append(lines,
		"",
		s.prompt(">>  Press SPACE to Restart  <<"),
	)
}

func (s *Session) inactivityLines() []string {
	left := config.InactivityDisconnectUser - int(s.src.Now().Sub(s.lastInput).Seconds())
	return []string{
		s.styles.bad.Render("INACTIVITY WARNING"),
		"",
		fmt.Sprintf("You will be disconnected in %d seconds.", max(left, 0)),
		"",
		"Press any key to continue",
	}
}

func (s *Session) shutdownLines() []string {
	remaining := int(s.shutdownAt.Sub(s.src.Now()).Seconds()) + 1
	return []string{
		s.styles.bad.Render("SERVER SHUTTING DOWN"),
		"",
		"The server is restarting for maintenance.",
		"Please reconnect in a moment.",
		"",
		fmt.Sprintf("Disconnecting in %d seconds...", max(remaining, 0)),
		s.styles.dim.Render("Press Q to disconnect now"),
	}
}

func (s *Session) drawTooSmall() {
	msg := fmt.Sprintf("Terminal too small: need %dx%d", config.MinTermWidth, config.MinTermHeight)
	s.chunkWriter.WriteAt(1, 1, ansi.Truncate(msg, max(s.termWidth, 1), ""))
}
