package draw

import (
	"math"
	"strings"
)

// Half-block glyphs. A cell shows two stacked sub-pixels.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// cell is what one terminal cell shows: the inks of its two sub-pixels.
type cell struct {
	top, bottom Ink
}

// dirtyCell never matches a drawable cell, so it is always re-rendered.
var dirtyCell = cell{top: inkDirty, bottom: inkDirty}

// Canvas maps a logical play area onto a block of terminal cells, two
// sub-pixels per cell. Render only emits cells that changed since the
// previous Render.
type Canvas struct {
	cols, rows int
	subRows    int   // rows * 2
	pixels     []Ink // [y*cols + x]
	shown      []cell
	palette    *Palette

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // sub-pixels per logical unit
	scaleY        float64

	// Cells left of and above the canvas.
	offsetCol int
	offsetRow int
}

// NewScaledCanvas creates a canvas of cols×rows cells showing a
// logicalWidth×logicalHeight area.
func NewScaledCanvas(cols, rows int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{palette: &Palette{}}
	c.Resize(cols, rows, logicalWidth, logicalHeight)
	return c
}

// Resize changes the cell and logical size. The pixel buffers are only
// reallocated when the cell size changes.
func (c *Canvas) Resize(cols, rows int, logicalWidth, logicalHeight float64) {
	if cols != c.cols || rows != c.rows || c.pixels == nil {
		c.cols, c.rows, c.subRows = cols, rows, rows*2
		c.pixels = make([]Ink, c.subRows*cols)
		c.shown = make([]cell, rows*cols)
		c.ForceRedraw()
	}
	c.logicalWidth, c.logicalHeight = logicalWidth, logicalHeight
	c.scaleX = float64(cols) / logicalWidth
	c.scaleY = float64(c.subRows) / logicalHeight
}

// SetPalette sets the colors used by Render.
func (c *Canvas) SetPalette(p *Palette) {
	c.palette = p
	c.ForceRedraw()
}

// SetOffset places the canvas col columns and row rows from the terminal's
// top-left corner. Moving it repaints everything.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol, c.offsetRow = col, row
}

// HoldsText reports whether n cells starting at the 1-based terminal
// position lie on the canvas.
func (c *Canvas) HoldsText(col, row, n int) bool {
	col -= c.offsetCol
	row -= c.offsetRow
	return col >= 1 && col+n-1 <= c.cols && row >= 1 && row <= c.rows
}

// Clear resets all pixels in the canvas. What the terminal shows is kept,
// so the next Render erases only cells that stay empty.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render repaint every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.shown {
		c.shown[i] = dirtyCell
	}
}

// MarkTextDirty marks n cells starting at the 1-based terminal position as
// overwritten by text, so the canvas repaints them on the next Render.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1 - c.offsetRow
	if r < 0 || r >= c.rows {
		return
	}
	start := col - 1 - c.offsetCol
	for x := max(start, 0); x < start+n && x < c.cols; x++ {
		c.shown[r*c.cols+x] = dirtyCell
	}
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, ink Ink) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.subRows {
		c.pixels[y*c.cols+x] = ink
	}
}

// Set sets a pixel at logical coordinates (applies scaling).
func (c *Canvas) Set(x, y int, ink Ink) {
	c.SetFloat(float64(x), float64(y), ink)
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64, ink Ink) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	c.setPixel(px, py, ink)
}

// VLine draws a vertical line at logical x from y1 to y2.
func (c *Canvas) VLine(x, y1, y2 float64, ink Ink) {
	px := int(math.Floor(x * c.scaleX))
	from := int(math.Floor(min(y1, y2) * c.scaleY))
	to := int(math.Floor(max(y1, y2) * c.scaleY))
	for py := from; py <= to; py++ {
		c.setPixel(px, py, ink)
	}
}

// FillCircle fills every pixel whose center lies inside the circle.
// The pixel under the center is always set so tiny circles stay visible.
func (c *Canvas) FillCircle(cx, cy, r float64, ink Ink) {
	c.SetFloat(cx, cy, ink)
	if r <= 0 {
		return
	}
	pyStart := int(math.Floor((cy - r) * c.scaleY))
	pyEnd := int(math.Ceil((cy + r) * c.scaleY))
	for py := pyStart; py <= pyEnd; py++ {
		dy := (float64(py)+0.5)/c.scaleY - cy
		if dy*dy > r*r {
			continue
		}
		half := math.Sqrt(r*r - dy*dy)
		xStart := int(math.Ceil((cx-half)*c.scaleX - 0.5))
		xEnd := int(math.Floor((cx+half)*c.scaleX - 0.5))
		for px := xStart; px <= xEnd; px++ {
			c.setPixel(px, py, ink)
		}
	}
}

// DrawCircle draws the outline of a circle.
func (c *Canvas) DrawCircle(cx, cy, r float64, ink Ink) {
	if r <= 0 {
		c.SetFloat(cx, cy, ink)
		return
	}
	// Two samples per pixel of circumference leave no gaps.
	steps := int(math.Ceil(4 * math.Pi * r * max(c.scaleX, c.scaleY)))
	steps = max(steps, 8)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.SetFloat(cx+r*math.Cos(a), cy+r*math.Sin(a), ink)
	}
}

// maxChunkSize is the largest write ChunkWriter.Flush makes, small enough to
// fit one packet on a typical link.
const maxChunkSize = 1400

// Render queues the cells that changed since the last Render.
func (c *Canvas) Render(cw *ChunkWriter) {
	style := ""
	for row := 0; row < c.rows; row++ {
		top := c.pixels[row*2*c.cols:]
		bottom := c.pixels[(row*2+1)*c.cols:]
		shown := c.shown[row*c.cols:]

		for col := 0; col < c.cols; col++ {
			cur := cell{top: top[col], bottom: bottom[col]}
			if shown[col] == cur {
				continue
			}
			shown[col] = cur

			ch, want := c.palette.cell(cur)
			if want != style {
				want, style = ColorReset+want, want
			} else {
				want = ""
			}
			cw.WriteAt(col+1+c.offsetCol, row+1+c.offsetRow, want+string(ch))
		}
	}
	if style != "" {
		cw.WriteString(ColorReset)
	}
}

// RenderBorder frames the canvas when it is smaller than the terminal:
// horizontal rules when there are spare rows, vertical rules when there are
// spare columns, and corners when there are both. extraTop rows above the
// canvas (the HUD) do not count as spare.
func (c *Canvas) RenderBorder(cw *ChunkWriter, extraTop int) {
	sides := c.offsetCol >= 1
	rules := c.offsetRow-extraTop >= 1
	left, right := c.offsetCol, c.offsetCol+c.cols+1
	top, bottom := c.offsetRow, c.offsetRow+c.rows+1

	if rules {
		line := strings.Repeat("─", c.cols)
		if sides {
			cw.WriteAt(left, top, "┌"+line+"┐")
			cw.WriteAt(left, bottom, "└"+line+"┘")
		} else {
			cw.WriteAt(left+1, top, line)
			cw.WriteAt(left+1, bottom, line)
		}
	}
	if sides {
		for row := top + 1; row < bottom; row++ {
			cw.WriteAt(left, row, "│")
			cw.WriteAt(right, row, "│")
		}
	}
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// Cols returns the canvas width in cells.
func (c *Canvas) Cols() int {
	return c.cols
}

// LogicalToTerminal returns the 1-based terminal cell showing a logical point.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1 + c.offsetCol, py/2 + 1 + c.offsetRow
}

// TerminalToLogical converts a 1-based terminal position to the logical
// coordinates of the cell's center. ok is false outside the canvas.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64, ok bool) {
	px := col - 1 - c.offsetCol
	r := row - 1 - c.offsetRow
	if px < 0 || px >= c.cols || r < 0 || r >= c.rows {
		return 0, 0, false
	}
	return (float64(px) + 0.5) / c.scaleX, float64(2*r+1) / c.scaleY, true
}
