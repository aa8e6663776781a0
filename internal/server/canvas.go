package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cptaffe/paintgrid/grid"
	"github.com/cptaffe/paintgrid/logger"
	"github.com/cptaffe/paintgrid/paint"
	"go.uber.org/zap"
)

// coalesceDelay is the window during which multiple flush triggers are batched
// into a single write to the sink.
const coalesceDelay = 20 * time.Millisecond

// callTimeout is the maximum time call() will wait for the canvas goroutine
// to process a closure.  This guards 9P handlers against an unresponsive
// run() goroutine (e.g. one stuck writing to a slow sink).
const callTimeout = 5 * time.Second

// ErrCanvasGone is returned when the canvas goroutine did not run a request,
// because the server is shutting down or the goroutine is unresponsive.
var ErrCanvasGone = errors.New("canvas unavailable")

// Sink displays rendered grids outside the server, e.g. in an acme window.
type Sink interface {
	// Show replaces the whole display.
	Show(rows [][]paint.Color) error
	// ShowAt replaces rows [r0, r1) of the display; rows is the full render.
	ShowAt(rows [][]paint.Color, r0, r1 int) error
	Close() error
}

// Canvas is the actor that owns the grid.
//
// The fields ctx, cancel, cmdCh, srv, style, width and height are set once
// at construction and may be read from any goroutine without a lock.
//
// All remaining fields are owned exclusively by the run() goroutine and must
// not be accessed from any other goroutine.  Layer stores are not
// synchronized; routing every grid access through run() is what keeps them
// single-owner.
type Canvas struct {
	ctx    context.Context
	cancel context.CancelFunc
	cmdCh  chan func(*Canvas)
	srv    *Server
	style  grid.DrawStyle
	width  int
	height int

	// Owned by run(); do not access from other goroutines.
	grid       *grid.Grid
	base       paint.Color
	now        func() float64
	pinned     bool
	pinnedT    float64
	sink       Sink
	prevRows   [][]paint.Color
	pending    bool
	flushTimer *time.Timer
}

func newCanvas(ctx context.Context, srv *Server, g *grid.Grid, base paint.Color, sink Sink, now func() float64) *Canvas {
	ctx, cancel := context.WithCancel(ctx)
	return &Canvas{
		ctx:    ctx,
		cancel: cancel,
		cmdCh:  make(chan func(*Canvas), 64),
		srv:    srv,
		style:  g.Style(),
		width:  g.Width(),
		height: g.Height(),
		grid:   g,
		base:   base,
		now:    now,
		sink:   sink,
	}
}

// submit enqueues fn to run in the canvas goroutine.  Returns immediately;
// fn runs asynchronously.  Drops the fn silently if ctx is already cancelled.
func (c *Canvas) submit(fn func(*Canvas)) {
	select {
	case c.cmdCh <- fn:
	case <-c.ctx.Done():
	}
}

// call enqueues fn and blocks until it has run, ctx is cancelled, or
// callTimeout elapses.  Returns ErrCanvasGone unless fn ran to completion.
func (c *Canvas) call(fn func(*Canvas)) error {
	done := make(chan struct{})
	c.submit(func(c *Canvas) {
		fn(c)
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-c.ctx.Done():
		return ErrCanvasGone
	case <-time.After(callTimeout):
		logger.L(c.ctx).Warn("call timed out; canvas goroutine unresponsive")
		return ErrCanvasGone
	}
}

// run is the canvas goroutine.  It owns all mutable Canvas fields and is
// the only goroutine that touches them.
func (c *Canvas) run() {
	defer c.srv.wg.Done()
	log := logger.L(c.ctx)

	c.flushTimer = time.NewTimer(coalesceDelay)
	c.flushTimer.Stop()

	// Show the empty grid straight away so the sink never lags the state.
	if c.sink != nil {
		c.scheduleFlush()
	}
	log.Debug("entering select loop")

	for {
		select {
		case fn := <-c.cmdCh:
			fn(c)

		case <-c.flushTimer.C:
			if c.pending {
				c.doFlush()
			}

		case <-c.ctx.Done():
			c.flushTimer.Stop()
			if c.sink != nil {
				if err := c.sink.Close(); err != nil {
					log.Error("close sink", zap.Error(err))
				}
				c.sink = nil
			}
			return
		}
	}
}

// ---- internal goroutine-owned helpers ----

func (c *Canvas) timestamp() float64 {
	if c.pinned {
		return c.pinnedT
	}
	return c.now()
}

// scheduleFlush arms the coalesce timer.  Must be called from within the
// canvas goroutine.
func (c *Canvas) scheduleFlush() {
	if c.sink == nil {
		return
	}
	c.pending = true
	resetTimer(c.flushTimer, coalesceDelay)
}

// doFlush renders the grid and writes the changed rows to the sink.  Must
// be called from within the canvas goroutine.
func (c *Canvas) doFlush() {
	c.pending = false
	if c.sink == nil {
		return
	}
	rows := c.grid.Render(c.base, c.timestamp())
	c.diffAndWrite(c.prevRows, rows)
	c.prevRows = rows
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// diffAndWrite writes the minimal row range of new to the sink, falling
// back to a full write if the partial one fails.
func (c *Canvas) diffAndWrite(old, new [][]paint.Color) {
	log := logger.L(c.ctx)
	if old == nil {
		if err := c.sink.Show(new); err != nil {
			log.Error("full render write", zap.Error(err))
		}
		return
	}
	r0, r1, changed := diffRows(old, new)
	if !changed {
		return
	}
	if err := c.sink.ShowAt(new, r0, r1); err != nil {
		log.Warn("partial render write", zap.Int("r0", r0), zap.Int("r1", r1), zap.Error(err))
		if err := c.sink.Show(new); err != nil {
			log.Error("full render write", zap.Error(err))
		}
	}
}

func (c *Canvas) lookup(name string) (*paint.Layer, error) {
	l, ok := c.srv.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown layer %q", name)
	}
	return l, nil
}

func (c *Canvas) checkCell(x, y int) error {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return fmt.Errorf("cell %d,%d outside %dx%d grid", x, y, c.width, c.height)
	}
	return nil
}

// ---- public API for 9P handlers (safe to call from any goroutine) ----

// Paint paints layer name at (x, y) with the current brush and returns the
// number of cells that changed.
func (c *Canvas) Paint(name string, x, y int) (int, error) {
	l, err := c.lookup(name)
	if err != nil {
		return 0, err
	}
	var n int
	err = c.call(func(c *Canvas) {
		n = c.grid.Paint(l, x, y)
		if n > 0 {
			c.scheduleFlush()
		}
	})
	return n, err
}

// Erase erases layer name around (x, y) with the current brush.
func (c *Canvas) Erase(name string, x, y int) (int, error) {
	l, err := c.lookup(name)
	if err != nil {
		return 0, err
	}
	var n int
	err = c.call(func(c *Canvas) {
		n = c.grid.Erase(l, x, y)
		if n > 0 {
			c.scheduleFlush()
		}
	})
	return n, err
}

// Special runs the store special on every cell.
func (c *Canvas) Special() error {
	return c.call(func(c *Canvas) {
		c.grid.Special()
		c.scheduleFlush()
	})
}

// IncreaseBrush grows the brush, reporting false at the maximum.
func (c *Canvas) IncreaseBrush() (bool, error) {
	var ok bool
	err := c.call(func(c *Canvas) { ok = c.grid.IncreaseBrush() })
	return ok, err
}

// DecreaseBrush shrinks the brush, reporting false at the minimum.
func (c *Canvas) DecreaseBrush() (bool, error) {
	var ok bool
	err := c.call(func(c *Canvas) { ok = c.grid.DecreaseBrush() })
	return ok, err
}

// SetBrush sets the brush size.
func (c *Canvas) SetBrush(n int) error {
	var berr error
	if err := c.call(func(c *Canvas) { berr = c.grid.SetBrush(n) }); err != nil {
		return err
	}
	return berr
}

// Brush returns the current brush size.
func (c *Canvas) Brush() (int, error) {
	var n int
	err := c.call(func(c *Canvas) { n = c.grid.Brush() })
	return n, err
}

// SetTime pins the timestamp used for renders.
func (c *Canvas) SetTime(t float64) error {
	return c.call(func(c *Canvas) {
		c.pinned, c.pinnedT = true, t
		c.scheduleFlush()
	})
}

// Render returns the whole grid in paint.Format text.
func (c *Canvas) Render() (string, error) {
	var text string
	err := c.call(func(c *Canvas) {
		text = paint.Format(c.grid.Render(c.base, c.timestamp()))
	})
	return text, err
}

// CellColor returns the composed colour of (x, y).
func (c *Canvas) CellColor(x, y int) (paint.Color, error) {
	if err := c.checkCell(x, y); err != nil {
		return paint.Color{}, err
	}
	var col paint.Color
	err := c.call(func(c *Canvas) { col = c.grid.Color(x, y, c.base, c.timestamp()) })
	return col, err
}

// CellLayers returns the effective layers of (x, y) in application order.
func (c *Canvas) CellLayers(x, y int) ([]*paint.Layer, error) {
	if err := c.checkCell(x, y); err != nil {
		return nil, err
	}
	var ls []*paint.Layer
	err := c.call(func(c *Canvas) {
		s, _ := c.grid.Cell(x, y)
		ls = s.Layers()
	})
	return ls, err
}

// CellAdd adds layer name to the single cell (x, y), ignoring the brush.
func (c *Canvas) CellAdd(name string, x, y int) (bool, error) {
	return c.cellOp(name, x, y, func(c *Canvas, l *paint.Layer) bool {
		s, _ := c.grid.Cell(x, y)
		return s.Add(l)
	})
}

// CellErase erases layer name from the single cell (x, y).
func (c *Canvas) CellErase(name string, x, y int) (bool, error) {
	return c.cellOp(name, x, y, func(c *Canvas, l *paint.Layer) bool {
		s, _ := c.grid.Cell(x, y)
		return s.Erase(l)
	})
}

// CellSpecial runs the store special on the single cell (x, y).
func (c *Canvas) CellSpecial(x, y int) error {
	if err := c.checkCell(x, y); err != nil {
		return err
	}
	return c.call(func(c *Canvas) {
		s, _ := c.grid.Cell(x, y)
		s.Special()
		c.scheduleFlush()
	})
}

func (c *Canvas) cellOp(name string, x, y int, fn func(*Canvas, *paint.Layer) bool) (bool, error) {
	if err := c.checkCell(x, y); err != nil {
		return false, err
	}
	l, err := c.lookup(name)
	if err != nil {
		return false, err
	}
	var changed bool
	err = c.call(func(c *Canvas) {
		changed = fn(c, l)
		if changed {
			c.scheduleFlush()
		}
	})
	return changed, err
}
