package term_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/leetchart/internal/surface"
	"github.com/wandb/leetchart/internal/surface/term"
)

var (
	white = surface.MustParseColor("#fff")
	red   = surface.MustParseColor("#f00")
)

func newSurface(t *testing.T, cols, rows int) *term.Surface {
	t.Helper()
	s, err := term.New(cols, rows, white)
	require.NoError(t, err)
	return s
}

func TestNew_RejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := term.New(0, 3, white)

	require.ErrorIs(t, err, surface.ErrInvalidSize)
}

func TestPixelSize(t *testing.T) {
	t.Parallel()
	s := newSurface(t, 10, 3)

	assert.Equal(t, 20, s.Width())
	assert.Equal(t, 12, s.Height())

	d, err := s.Derive(21, 13)
	require.NoError(t, err)
	assert.Equal(t, 22, d.Width())
	assert.Equal(t, 16, d.Height())
}

func TestLine_PlotsBraille(t *testing.T) {
	t.Parallel()
	s := newSurface(t, 4, 1)
	l := s.NewLayer("lines")
	l.SetStrokeColor(red)

	l.Line(0, 0, 7, 0)

	assert.Equal(t, []string{"⠉⠉⠉⠉"}, s.Runes())
}

func TestLayers_CombineBraille(t *testing.T) {
	t.Parallel()
	s := newSurface(t, 1, 1)
	top := s.NewLayer("a")
	bottom := s.NewLayer("b")

	top.Line(0, 0, 0, 0)
	bottom.Line(1, 3, 1, 3)

	// dot 1 plus dot 8
	assert.Equal(t, []string{string(rune(0x2800 | 0x01 | 0x80))}, s.Runes())
}

func TestAlphaZero_DrawsNothing(t *testing.T) {
	t.Parallel()
	s := newSurface(t, 4, 1)
	l := s.NewLayer("lines")
	l.SetAlpha(0)

	l.Line(0, 0, 7, 0)
	l.Text(0, 4, "hi", surface.AlignLeft)

	assert.Equal(t, []string{"    "}, s.Runes())
}

func TestText_AlignmentAndClear(t *testing.T) {
	t.Parallel()
	s := newSurface(t, 10, 2)
	l := s.NewLayer("text")

	l.Text(0, 4, "ab", surface.AlignLeft)
	l.Text(10, 8, "xyz", surface.AlignCenter)
	assert.Equal(t, []string{"ab        ", "    xyz   "}, s.Runes())

	l.ClearRect(0, 4, 20, 4)
	assert.Equal(t, []string{"ab        ", "          "}, s.Runes())

	l.Clear()
	assert.Equal(t, []string{"          ", "          "}, s.Runes())

	w, h := l.MeasureText("xyz")
	assert.Equal(t, 6, w)
	assert.Equal(t, 4, h)
}

func TestSaveRestore_ScopesPaint(t *testing.T) {
	t.Parallel()
	s := newSurface(t, 2, 1)
	l := s.NewLayer("lines")

	l.Save()
	l.SetAlpha(0)
	l.Restore()
	l.Line(0, 0, 3, 0)

	assert.NotEqual(t, "  ", s.Runes()[0])
}

func TestView_RendersStyledRows(t *testing.T) {
	t.Parallel()
	s := newSurface(t, 3, 2)
	l := s.NewLayer("fill")
	l.SetFillColor(red)
	l.FillRect(0, 0, 6, 8)
	l.Text(0, 4, "abc", surface.AlignLeft)

	view := s.View()

	assert.Contains(t, view, "a")
	assert.Equal(t, 2, len(strings.Split(view, "\n")))
}
