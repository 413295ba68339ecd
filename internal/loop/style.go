package loop

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/circlepop/internal/draw"
	"github.com/tomz197/circlepop/internal/sim"
)

// Canvas inks, one per entity look.
const (
	inkNormal draw.Ink = iota + 1
	inkArmored
	inkDrifter
	inkArmoredDrifter
	inkSplitter
	inkFuse
	inkFuseHot
	inkRim
)

var inkColors = map[draw.Ink]lipgloss.Color{
	inkNormal:         "#5FD7FF",
	inkArmored:        "#8A8A8A",
	inkDrifter:        "#FF87D7",
	inkArmoredDrifter: "#AF87FF",
	inkSplitter:       "#87FF87",
	inkFuse:           "#FFAF00",
	inkFuseHot:        "#FF0000",
	inkRim:            "#EEEEEE",
}

// fuseHotBelow is the fuse time left at which a fuse starts flashing.
const fuseHotBelow = 1000 // ms

func inkFor(v sim.EntityView) draw.Ink {
	switch v.Tag {
	case sim.TagArmored:
		return inkArmored
	case sim.TagDrifter:
		return inkDrifter
	case sim.TagArmoredDrifter:
		return inkArmoredDrifter
	case sim.TagSplitter:
		return inkSplitter
	case sim.TagFuse:
		if ms := v.Fuse.Milliseconds(); ms < fuseHotBelow && ms/125%2 == 0 {
			return inkFuseHot
		}
		return inkFuse
	default:
		return inkNormal
	}
}

// styles are the text styles of one session, bound to its renderer.
type styles struct {
	hud     lipgloss.Style
	dim     lipgloss.Style
	warp    lipgloss.Style
	fuse    lipgloss.Style
	title   lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	key     lipgloss.Style
	overlay lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	s := styles{
		hud:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("#808080")),
		warp:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#FF5FAF")),
		fuse:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(inkColors[inkFuse]),
		title: r.NewStyle().Bold(true).Foreground(inkColors[inkNormal]),
		good:  r.NewStyle().Bold(true).Foreground(inkColors[inkSplitter]),
		bad:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F")),
		key:   r.NewStyle().Bold(true).Foreground(inkColors[inkFuse]),
	}
	s.overlay = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(inkColors[inkNormal]).
		Padding(1, 3).
		Align(lipgloss.Center)
	return s
}
