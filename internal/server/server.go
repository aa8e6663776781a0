package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cptaffe/paintgrid/grid"
	"github.com/cptaffe/paintgrid/logger"
	"github.com/cptaffe/paintgrid/paint"
	"go.uber.org/zap"
)

// Server is the global service state.
//
// registry and canvas are read-only after NewServer returns and may be
// accessed from any goroutine; the grid itself lives inside the canvas
// goroutine.
type Server struct {
	registry *paint.Registry
	canvas   *Canvas
	ctx      context.Context // root context; cancelled on shutdown
	wg       sync.WaitGroup  // tracks the canvas goroutine
}

// NewServer builds the grid described by cfg and starts the canvas
// goroutine.  sink may be nil.
func NewServer(cfg Config, ctx context.Context, sink Sink) (*Server, error) {
	start := time.Now()
	return newServer(cfg, ctx, sink, func() float64 { return time.Since(start).Seconds() })
}

func newServer(cfg Config, ctx context.Context, sink Sink, now func() float64) (*Server, error) {
	if cfg.Width > MaxSide || cfg.Height > MaxSide {
		return nil, fmt.Errorf("grid %dx%d exceeds %d", cfg.Width, cfg.Height, MaxSide)
	}
	reg, err := paint.NewRegistry(paint.Builtins(), cfg.LayerOrder)
	if err != nil {
		return nil, fmt.Errorf("layer registry: %w", err)
	}
	g, err := grid.New(cfg.GridConfig(reg.Order()))
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	if err := g.SetBrush(cfg.Brush); err != nil {
		return nil, err
	}

	s := &Server{registry: reg, ctx: ctx}
	s.canvas = newCanvas(ctx, s, g, cfg.Base, sink, now)

	logger.L(ctx).Info("grid ready",
		zap.String("style", string(g.Style())),
		zap.Int("width", g.Width()),
		zap.Int("height", g.Height()),
		zap.Int("brush", g.Brush()))

	s.wg.Add(1)
	go s.canvas.run()
	return s, nil
}

// Ctx returns the root context of the server.
func (s *Server) Ctx() context.Context {
	return s.ctx
}

// Canvas returns the canvas actor.
func (s *Server) Canvas() *Canvas {
	return s.canvas
}

// Registry returns the layer registry.
func (s *Server) Registry() *paint.Registry {
	return s.registry
}

// Wait blocks until the canvas goroutine has exited.  The root context must
// be cancelled first.
func (s *Server) Wait() {
	s.wg.Wait()
}
