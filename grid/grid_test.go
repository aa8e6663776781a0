package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cptaffe/paintgrid/paint"
	"github.com/cptaffe/paintgrid/store"
)

func newGrid(t *testing.T, style DrawStyle, w, h int) *Grid {
	t.Helper()
	g, err := New(Config{Style: style, Width: w, Height: h})
	require.NoError(t, err)
	return g
}

func TestParseDrawStyle(t *testing.T) {
	for in, want := range map[string]DrawStyle{"SET": DrawSet, "add": DrawAdd, " Sequence ": DrawSequence} {
		got, err := ParseDrawStyle(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseDrawStyle("SPRAY")
	assert.ErrorIs(t, err, ErrInvalidDrawStyle)
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{Style: "BOGUS", Width: 1, Height: 1})
	assert.ErrorIs(t, err, ErrInvalidDrawStyle)
	_, err = New(Config{Style: DrawSet, Width: 0, Height: 3})
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = New(Config{Style: DrawAdd, Width: 2, Height: 2, Store: store.Options{AdditiveCapacity: -5}})
	assert.ErrorIs(t, err, store.ErrInvalidCapacity)
}

func TestNewSelectsStore(t *testing.T) {
	tests := []struct {
		style DrawStyle
		check func(store.LayerStore) bool
	}{
		{DrawSet, func(s store.LayerStore) bool { _, ok := s.(*store.SetStore); return ok }},
		{DrawAdd, func(s store.LayerStore) bool { _, ok := s.(*store.AdditiveStore); return ok }},
		{DrawSequence, func(s store.LayerStore) bool { _, ok := s.(*store.SequenceStore); return ok }},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			g := newGrid(t, tt.style, 3, 2)
			assert.Equal(t, tt.style, g.Style())
			assert.Equal(t, 3, g.Width())
			assert.Equal(t, 2, g.Height())
			for x := 0; x < 3; x++ {
				for y := 0; y < 2; y++ {
					s, ok := g.Cell(x, y)
					require.True(t, ok)
					assert.True(t, tt.check(s), "cell %d,%d", x, y)
				}
			}
			a, _ := g.Cell(0, 0)
			b, _ := g.Cell(1, 0)
			assert.NotSame(t, a, b, "cells own separate stores")
		})
	}
}

func TestCellBounds(t *testing.T) {
	g := newGrid(t, DrawSet, 2, 2)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		_, ok := g.Cell(p[0], p[1])
		assert.False(t, ok, "%v", p)
	}
}

func TestBrush(t *testing.T) {
	g := newGrid(t, DrawSet, 1, 1)
	assert.Equal(t, DefaultBrush, g.Brush())
	for g.Brush() < MaxBrush {
		require.True(t, g.IncreaseBrush())
	}
	assert.False(t, g.IncreaseBrush())
	assert.Equal(t, MaxBrush, g.Brush())
	for g.Brush() > MinBrush {
		require.True(t, g.DecreaseBrush())
	}
	assert.False(t, g.DecreaseBrush())
	assert.Equal(t, MinBrush, g.Brush())

	require.NoError(t, g.SetBrush(3))
	assert.Equal(t, 3, g.Brush())
	assert.ErrorIs(t, g.SetBrush(6), ErrBrushRange)
	assert.ErrorIs(t, g.SetBrush(-1), ErrBrushRange)
	assert.Equal(t, 3, g.Brush())
}

func TestPaintManhattanFootprint(t *testing.T) {
	g := newGrid(t, DrawSet, 7, 7)
	require.NoError(t, g.SetBrush(2))
	n := g.Paint(paint.Red, 3, 3)
	assert.Equal(t, 13, n)

	rows := g.Render(paint.White, 0)
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			inside := abs(x-3)+abs(y-3) <= 2
			want := paint.White
			if inside {
				want = paint.Color{R: 255}
			}
			assert.Equal(t, want, rows[y][x], "cell %d,%d", x, y)
		}
	}
}

func TestPaintClipsAtEdges(t *testing.T) {
	g := newGrid(t, DrawAdd, 4, 3)
	require.NoError(t, g.SetBrush(1))
	assert.Equal(t, 3, g.Paint(paint.Blue, 0, 0))
	assert.Equal(t, 1, g.Paint(paint.Blue, -1, 0), "centre outside, one neighbour inside")
	assert.Equal(t, 0, g.Paint(paint.Blue, 10, 10))

	s, _ := g.Cell(0, 0)
	assert.Len(t, s.Layers(), 2)
}

func TestEraseCountsChangedCells(t *testing.T) {
	g := newGrid(t, DrawSequence, 3, 3)
	require.NoError(t, g.SetBrush(0))
	g.Paint(paint.Green, 1, 1)
	require.NoError(t, g.SetBrush(1))
	assert.Equal(t, 1, g.Erase(paint.Green, 1, 1), "only the painted cell held green")
	assert.Equal(t, 0, g.Erase(paint.Green, 1, 1))
}

func TestSpecialReachesEveryCell(t *testing.T) {
	g := newGrid(t, DrawSet, 3, 2)
	g.Special()
	for _, row := range g.Render(paint.White, 0) {
		for _, c := range row {
			assert.Equal(t, paint.Color{}, c)
		}
	}
}

func TestColor(t *testing.T) {
	g := newGrid(t, DrawAdd, 2, 2)
	require.NoError(t, g.SetBrush(0))
	g.Paint(paint.Darken, 1, 0)
	g.Paint(paint.Darken, 1, 0)
	assert.Equal(t, paint.Color{R: 175, G: 175, B: 175}, g.Color(1, 0, paint.White, 0))
	assert.Equal(t, paint.White, g.Color(0, 0, paint.White, 0))
	assert.Equal(t, paint.White, g.Color(5, 5, paint.White, 0))

	rows := g.Render(paint.White, 0)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 2)
	assert.Equal(t, g.Color(1, 0, paint.White, 0), rows[0][1])
}
