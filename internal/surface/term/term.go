// Package term renders surfaces as styled braille text for terminals.
//
// One terminal cell holds 2x4 pixels. Strokes are plotted as braille dots,
// fills become cell backgrounds and text occupies whole cells. Alpha is
// emulated by blending colors toward the surface background.
package term

import (
	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/wandb/leetchart/internal/surface"
)

// Cell size in pixels.
const (
	CellWidth  = 2
	CellHeight = 4
)

// dotBits[x][y] is the braille bit of the dot at column x, row y of a cell.
var dotBits = [CellWidth][CellHeight]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

const brailleBase = 0x2800

type cell struct {
	r     rune
	fg    colorful.Color
	bg    colorful.Color
	hasFg bool
	hasBg bool
}

// Surface is a terminal drawing target of cols x rows cells.
type Surface struct {
	cols, rows int
	background colorful.Color
	layers     []*Layer
}

var _ surface.Surface = (*Surface)(nil)

// New returns a surface cols cells wide and rows cells tall.
func New(cols, rows int, background colorful.Color) (*Surface, error) {
	if err := surface.CheckSize(cols, rows); err != nil {
		return nil, err
	}
	return &Surface{cols: cols, rows: rows, background: background}, nil
}

// Cols returns the number of cells per row.
func (s *Surface) Cols() int { return s.cols }

// Rows returns the number of cell rows.
func (s *Surface) Rows() int { return s.rows }

func (s *Surface) Width() int  { return s.cols * CellWidth }
func (s *Surface) Height() int { return s.rows * CellHeight }

// Background returns the color blended toward for partial alpha.
func (s *Surface) Background() colorful.Color { return s.background }

// SetBackground changes the base color. Layers keep their cells; colors
// drawn after the change blend toward the new background.
func (s *Surface) SetBackground(c colorful.Color) { s.background = c }

func (s *Surface) NewLayer(name string) surface.Layer {
	l := &Layer{
		PaintStack: surface.NewPaintStack(),
		name:       name,
		surface:    s,
		cells:      newCells(s.cols, s.rows),
	}
	s.layers = append(s.layers, l)
	return l
}

func (s *Surface) Layers() []surface.Layer {
	out := make([]surface.Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = l
	}
	return out
}

// Derive returns a surface of width x height pixels, rounded up to whole
// cells, sharing this surface's background.
func (s *Surface) Derive(width, height int) (surface.Surface, error) {
	return New(
		(width+CellWidth-1)/CellWidth,
		(height+CellHeight-1)/CellHeight,
		s.background,
	)
}

// View composes all layers and renders them as styled text.
func (s *Surface) View() string {
	merged := newCells(s.cols, s.rows)
	for _, l := range s.layers {
		for y, row := range l.cells {
			for x, top := range row {
				mergeCell(&merged[y][x], top)
			}
		}
	}

	c := canvas.New(s.cols, s.rows)
	base := lipgloss.NewStyle().Background(lipgloss.Color(s.background.Hex()))
	for y, row := range merged {
		for x, m := range row {
			style := base
			if m.hasBg {
				style = style.Background(lipgloss.Color(m.bg.Hex()))
			}
			if m.hasFg {
				style = style.Foreground(lipgloss.Color(m.fg.Hex()))
			}
			c.SetCell(canvas.Point{X: x, Y: y}, canvas.NewCellWithStyle(m.r, style))
		}
	}
	return c.View()
}

// Runes returns the composed characters without styling, one string per
// row. Blank cells are spaces.
func (s *Surface) Runes() []string {
	merged := newCells(s.cols, s.rows)
	for _, l := range s.layers {
		for y, row := range l.cells {
			for x, top := range row {
				mergeCell(&merged[y][x], top)
			}
		}
	}
	lines := make([]string, s.rows)
	for y, row := range merged {
		buf := make([]rune, 0, len(row))
		for _, m := range row {
			if m.r == 0 {
				buf = append(buf, ' ')
			} else {
				buf = append(buf, m.r)
			}
		}
		lines[y] = string(buf)
	}
	return lines
}

func mergeCell(dst *cell, top cell) {
	if top.r != 0 {
		if runes.IsBraillePattern(top.r) && runes.IsBraillePattern(dst.r) {
			dst.r = runes.CombineBraillePatterns(dst.r, top.r)
		} else {
			dst.r = top.r
		}
		dst.fg, dst.hasFg = top.fg, top.hasFg
	}
	if top.hasBg {
		dst.bg, dst.hasBg = top.bg, true
	}
}

func newCells(cols, rows int) [][]cell {
	cells := make([][]cell, rows)
	for y := range cells {
		cells[y] = make([]cell, cols)
	}
	return cells
}

// Layer is a grid of cells drawn in pixel coordinates.
type Layer struct {
	surface.PaintStack
	name    string
	surface *Surface
	cells   [][]cell
}

func (l *Layer) Name() string { return l.name }

func (l *Layer) Clear() {
	for y := range l.cells {
		clear(l.cells[y])
	}
}

func (l *Layer) ClearRect(x, y, w, h int) {
	l.eachCell(x, y, w, h, func(c *cell) { *c = cell{} })
}

func (l *Layer) Line(x0, y0, x1, y1 int) {
	color, ok := l.ink(l.Paint().Stroke)
	if !ok {
		return
	}
	for _, p := range graph.GetLinePoints(canvas.Point{X: x0, Y: y0}, canvas.Point{X: x1, Y: y1}) {
		l.plot(p.X, p.Y, color)
	}
}

func (l *Layer) Polyline(points []surface.Point) {
	if len(points) == 1 {
		color, ok := l.ink(l.Paint().Stroke)
		if ok {
			l.plot(points[0].X, points[0].Y, color)
		}
		return
	}
	for i := 1; i < len(points); i++ {
		l.Line(points[i-1].X, points[i-1].Y, points[i].X, points[i].Y)
	}
}

func (l *Layer) Circle(x, y, r int) {
	center := canvas.Point{X: x, Y: y}
	if fill, ok := l.ink(l.Paint().Fill); ok {
		for _, p := range graph.GetFullCirclePoints(center, r) {
			l.plot(p.X, p.Y, fill)
		}
	}
	if stroke, ok := l.ink(l.Paint().Stroke); ok {
		for _, p := range graph.GetCirclePoints(center, r) {
			l.plot(p.X, p.Y, stroke)
		}
	}
}

func (l *Layer) FillRect(x, y, w, h int) {
	paint := l.Paint()
	if paint.Alpha <= 0 {
		return
	}
	l.eachCell(x, y, w, h, func(c *cell) {
		under := l.surface.background
		if c.hasBg {
			under = c.bg
		}
		c.bg = surface.Blend(under, paint.Fill, paint.Alpha)
		c.hasBg = true
	})
}

func (l *Layer) StrokeRect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	x1, y1 := x+w-1, y+h-1
	l.Line(x, y, x1, y)
	l.Line(x1, y, x1, y1)
	l.Line(x1, y1, x, y1)
	l.Line(x, y1, x, y)
}

func (l *Layer) Text(x, y int, s string, align surface.Align) {
	color, ok := l.ink(l.Paint().Fill)
	if !ok || s == "" {
		return
	}
	row := max(y-1, 0) / CellHeight
	if row >= l.surface.rows {
		return
	}
	col := x / CellWidth
	switch align {
	case surface.AlignCenter:
		col -= runewidth.StringWidth(s) / 2
	case surface.AlignRight:
		col -= runewidth.StringWidth(s)
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if col >= 0 && col < l.surface.cols {
			l.cells[row][col].r = r
			l.cells[row][col].fg = color
			l.cells[row][col].hasFg = true
		}
		col += max(w, 1)
	}
}

func (l *Layer) MeasureText(s string) (int, int) {
	return runewidth.StringWidth(s) * CellWidth, CellHeight
}

// ink returns the blended color for c, or false if nothing would show.
func (l *Layer) ink(c colorful.Color) (colorful.Color, bool) {
	alpha := l.Paint().Alpha
	if alpha <= 0 {
		return colorful.Color{}, false
	}
	return surface.Blend(l.surface.background, c, alpha), true
}

func (l *Layer) plot(x, y int, color colorful.Color) {
	if x < 0 || y < 0 || x >= l.surface.Width() || y >= l.surface.Height() {
		return
	}
	c := &l.cells[y/CellHeight][x/CellWidth]
	dot := brailleBase | dotBits[x%CellWidth][y%CellHeight]
	if runes.IsBraillePattern(c.r) {
		c.r = runes.CombineBraillePatterns(c.r, dot)
	} else {
		c.r = dot
	}
	c.fg = color
	c.hasFg = true
}

func (l *Layer) eachCell(x, y, w, h int, fn func(*cell)) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, y0 := max(x, 0)/CellWidth, max(y, 0)/CellHeight
	x1 := min((x+w-1)/CellWidth, l.surface.cols-1)
	y1 := min((y+h-1)/CellHeight, l.surface.rows-1)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			fn(&l.cells[cy][cx])
		}
	}
}
