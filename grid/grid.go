// Package grid holds a rectangle of cells, each backed by a layer store
// chosen by the grid's draw style, together with the brush size used when
// painting.
//
// A Grid is not safe for concurrent use.
package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cptaffe/paintgrid/paint"
	"github.com/cptaffe/paintgrid/store"
)

// DrawStyle selects the layer store used by every cell.
type DrawStyle string

const (
	DrawSet      DrawStyle = "SET"
	DrawAdd      DrawStyle = "ADD"
	DrawSequence DrawStyle = "SEQUENCE"
)

// Brush bounds.
const (
	DefaultBrush = 2
	MinBrush     = 0
	MaxBrush     = 5
)

var (
	ErrInvalidDrawStyle = errors.New("invalid draw style")
	ErrInvalidSize      = errors.New("grid dimensions must be positive")
	ErrBrushRange       = fmt.Errorf("brush size must be in [%d, %d]", MinBrush, MaxBrush)
)

// ParseDrawStyle accepts SET, ADD or SEQUENCE in any case.
func ParseDrawStyle(s string) (DrawStyle, error) {
	switch d := DrawStyle(strings.ToUpper(strings.TrimSpace(s))); d {
	case DrawSet, DrawAdd, DrawSequence:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDrawStyle, s)
}

// Kind returns the store kind for d.
func (d DrawStyle) Kind() (store.Kind, error) {
	switch d {
	case DrawSet:
		return store.Set, nil
	case DrawAdd:
		return store.Additive, nil
	case DrawSequence:
		return store.Sequence, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDrawStyle, string(d))
}

// Config describes a grid to build.
type Config struct {
	Style  DrawStyle
	Width  int
	Height int
	Store  store.Options
}

// Grid is a Width×Height array of layer stores.
type Grid struct {
	style  DrawStyle
	width  int
	height int
	brush  int
	cells  [][]store.LayerStore // [x][y]
}

// New builds a grid with an empty store in every cell and the default
// brush size.
func New(cfg Config) (*Grid, error) {
	kind, err := cfg.Style.Kind()
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, cfg.Width, cfg.Height)
	}
	g := &Grid{
		style:  cfg.Style,
		width:  cfg.Width,
		height: cfg.Height,
		brush:  DefaultBrush,
		cells:  make([][]store.LayerStore, cfg.Width),
	}
	for x := range g.cells {
		g.cells[x] = make([]store.LayerStore, cfg.Height)
		for y := range g.cells[x] {
			s, err := store.New(kind, cfg.Store)
			if err != nil {
				return nil, fmt.Errorf("cell %d,%d: %w", x, y, err)
			}
			g.cells[x][y] = s
		}
	}
	return g, nil
}

func (g *Grid) Style() DrawStyle { return g.style }
func (g *Grid) Width() int       { return g.width }
func (g *Grid) Height() int      { return g.height }
func (g *Grid) Brush() int       { return g.brush }

// In reports whether (x, y) is inside the grid.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Cell returns the store at (x, y).
func (g *Grid) Cell(x, y int) (store.LayerStore, bool) {
	if !g.In(x, y) {
		return nil, false
	}
	return g.cells[x][y], true
}

// IncreaseBrush grows the brush by one.  It reports false at MaxBrush.
func (g *Grid) IncreaseBrush() bool {
	if g.brush >= MaxBrush {
		return false
	}
	g.brush++
	return true
}

// DecreaseBrush shrinks the brush by one.  It reports false at MinBrush.
func (g *Grid) DecreaseBrush() bool {
	if g.brush <= MinBrush {
		return false
	}
	g.brush--
	return true
}

// SetBrush sets the brush size.
func (g *Grid) SetBrush(n int) error {
	if n < MinBrush || n > MaxBrush {
		return fmt.Errorf("%w: got %d", ErrBrushRange, n)
	}
	g.brush = n
	return nil
}

// Paint adds l to every cell within the brush (Manhattan distance) of
// (cx, cy).  It returns the number of cells that changed.
func (g *Grid) Paint(l *paint.Layer, cx, cy int) int {
	return g.stroke(cx, cy, func(s store.LayerStore) bool { return s.Add(l) })
}

// Erase erases l from every cell within the brush of (cx, cy).  It returns
// the number of cells that changed.
func (g *Grid) Erase(l *paint.Layer, cx, cy int) int {
	return g.stroke(cx, cy, func(s store.LayerStore) bool { return s.Erase(l) })
}

func (g *Grid) stroke(cx, cy int, fn func(store.LayerStore) bool) int {
	n := 0
	for dx := -g.brush; dx <= g.brush; dx++ {
		rem := g.brush - abs(dx)
		for dy := -rem; dy <= rem; dy++ {
			if s, ok := g.Cell(cx+dx, cy+dy); ok && fn(s) {
				n++
			}
		}
	}
	return n
}

// Special runs the store special on every cell.
func (g *Grid) Special() {
	for x := range g.cells {
		for _, s := range g.cells[x] {
			s.Special()
		}
	}
}

// Color returns the composed colour of (x, y).  Cells outside the grid
// show base.
func (g *Grid) Color(x, y int, base paint.Color, t float64) paint.Color {
	s, ok := g.Cell(x, y)
	if !ok {
		return base
	}
	return s.Color(base, t, x, y)
}

// Render composes every cell.  The result is indexed [y][x].
func (g *Grid) Render(base paint.Color, t float64) [][]paint.Color {
	rows := make([][]paint.Color, g.height)
	for y := range rows {
		rows[y] = make([]paint.Color, g.width)
		for x := range rows[y] {
			rows[y][x] = g.cells[x][y].Color(base, t, x, y)
		}
	}
	return rows
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
