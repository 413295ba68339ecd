// Package desktop hosts the game in a desktop window. The window itself needs
// the ebiten build tag; the text and colors here are shared with the tests.
package desktop

import (
	"fmt"
	"image/color"

	"github.com/tomz197/circlepop/internal/record"
	"github.com/tomz197/circlepop/internal/sim"
)

// hudHeight is the height of the status line above the play area, in pixels.
const hudHeight = 20

var tagColors = map[sim.Tag]color.RGBA{
	sim.TagNormal:         {0x5f, 0xd7, 0xff, 0xff},
	sim.TagArmored:        {0x8a, 0x8a, 0x8a, 0xff},
	sim.TagDrifter:        {0xff, 0x87, 0xd7, 0xff},
	sim.TagArmoredDrifter: {0xaf, 0x87, 0xff, 0xff},
	sim.TagSplitter:       {0x87, 0xff, 0x87, 0xff},
	sim.TagFuse:           {0xff, 0xaf, 0x00, 0xff},
}

var (
	fuseHot   = color.RGBA{0xff, 0x00, 0x00, 0xff}
	rimColor  = color.RGBA{0xee, 0xee, 0xee, 0xff}
	warpColor = color.RGBA{0x30, 0x10, 0x30, 0xff}
)

func entityColor(v sim.EntityView) color.RGBA {
	if v.Tag == sim.TagFuse {
		if ms := v.Fuse.Milliseconds(); ms < 1000 && ms/125%2 == 0 {
			return fuseHot
		}
	}
	c, ok := tagColors[v.Tag]
	if !ok {
		return tagColors[sim.TagNormal]
	}
	return c
}

func hudLine(snap sim.Snapshot, best record.Record) string {
	line := fmt.Sprintf("LEVEL %d   SCORE %d   TIME %.1fs   BEST L%d / %d",
		snap.Level, snap.Score, snap.Remaining.Seconds(), best.BestLevel, best.BestScore)
	if snap.Warp {
		line += "   WARP"
	}
	return line
}

// overlayLines is the text shown over the play area in each phase.
// Running has none.
func overlayLines(snap sim.Snapshot, t *record.Tracker) []string {
	switch snap.Phase {
	case sim.PhaseReady:
		return []string{
			"C I R C L E P O P",
			"",
			"Circles grow. Click them before one",
			"fills half the screen.",
			"",
			"P / Esc pause   R restart level",
			"N new game   1-9 jump to level   Q quit",
			"",
			"Press SPACE to start",
		}
	case sim.PhasePaused:
		return []string{
			"PAUSED",
			"",
			fmt.Sprintf("Level %d   Score %d   %.1fs left", snap.Level, snap.Score, snap.Remaining.Seconds()),
			"",
			"SPACE or P to resume",
		}
	case sim.PhaseLevelComplete:
		lines := []string{
			fmt.Sprintf("LEVEL %d COMPLETE", snap.Level-1),
			"",
			fmt.Sprintf("Popped %d circles", t.LastScore()),
		}
		if t.NewBest() {
			lines = append(lines, "New best!")
		}
		return append(lines, "", fmt.Sprintf("Press SPACE for level %d", snap.Level))
	case sim.PhaseGameOver:
		best := t.Best()
		lines := []string{
			"GAME OVER",
			"",
			fmt.Sprintf("A circle took over on level %d", snap.Level),
			fmt.Sprintf("Popped %d circles this round", t.LastScore()),
			fmt.Sprintf("Best: level %d, %d pops", best.BestLevel, best.BestScore),
		}
		if t.NewBest() {
			lines = append(lines, "New best!")
		}
		return append(lines, "", "Press SPACE to restart")
	}
	return nil
}
