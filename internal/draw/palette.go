package draw

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Ink is a palette index. InkNone leaves a pixel empty.
type Ink uint8

const (
	InkNone Ink = 0
	// MaxInk bounds the inks a Palette can hold.
	MaxInk Ink = 16

	inkDirty Ink = 255
)

// ColorReset resets all terminal colors and attributes.
const ColorReset = "\033[0m"

// Palette maps inks to terminal color sequences for one color profile.
type Palette struct {
	fg, bg [MaxInk]string // SGR parameters, empty if the profile has no color
	styles map[cell]string
}

// NewPalette converts the colors to the given terminal profile. Inks without
// a color render in the terminal's default foreground.
func NewPalette(profile termenv.Profile, colors map[Ink]lipgloss.Color) *Palette {
	p := &Palette{}
	for ink, color := range colors {
		if ink == InkNone || ink >= MaxInk {
			continue
		}
		c := profile.Color(string(color))
		if c == nil {
			continue
		}
		p.fg[ink] = c.Sequence(false)
		p.bg[ink] = c.Sequence(true)
	}
	return p
}

// Foreground returns the full escape sequence selecting the ink as
// foreground color, or "" when the profile has no color for it.
func (p *Palette) Foreground(ink Ink) string {
	if ink >= MaxInk || p.fg[ink] == "" {
		return ""
	}
	return termenv.CSI + p.fg[ink] + "m"
}

// cell returns the character and style sequence for a cell.
func (p *Palette) cell(c cell) (rune, string) {
	var ch rune
	var params []string
	switch {
	case c.top == InkNone && c.bottom == InkNone:
		return BlockEmpty, ""
	case c.top == c.bottom:
		ch = BlockFull
		params = append(params, p.param(p.fg, c.top))
	case c.bottom == InkNone:
		ch = BlockUpperHalf
		params = append(params, p.param(p.fg, c.top))
	case c.top == InkNone:
		ch = BlockLowerHalf
		params = append(params, p.param(p.fg, c.bottom))
	default:
		ch = BlockUpperHalf
		params = append(params, p.param(p.fg, c.top), p.param(p.bg, c.bottom))
	}

	if s, ok := p.styles[c]; ok {
		return ch, s
	}
	params = compact(params)
	s := ""
	if len(params) > 0 {
		s = termenv.CSI + strings.Join(params, ";") + "m"
	}
	if p.styles == nil {
		p.styles = make(map[cell]string)
	}
	p.styles[c] = s
	return ch, s
}

func (p *Palette) param(seqs [MaxInk]string, ink Ink) string {
	if ink >= MaxInk {
		return ""
	}
	return seqs[ink]
}

func compact(params []string) []string {
	out := params[:0]
	for _, s := range params {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
