package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cptaffe/paintgrid/grid"
	"github.com/cptaffe/paintgrid/paint"
	"github.com/cptaffe/paintgrid/store"
)

// Config holds all values parsed from the config file.
type Config struct {
	Style  grid.DrawStyle
	Width  int
	Height int
	Brush  int

	// Zero capacities select the store defaults.
	AdditiveCapacity int
	SequenceCapacity int

	// Base is the colour every cell starts from before its layers apply.
	Base paint.Color

	// LayerOrder lists layer names from highest priority (index 0) to
	// lowest.  It ranks layers in sequence stores.  A "*" entry is the
	// wildcard slot for layers not explicitly named; omitting "*" places
	// unnamed layers last.  An empty order ranks layers by name.
	LayerOrder []string
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Style:  grid.DrawSet,
		Width:  32,
		Height: 16,
		Brush:  grid.DefaultBrush,
		Base:   paint.White,
	}
}

// GridConfig returns the grid construction parameters for cfg.
func (cfg Config) GridConfig(order paint.Order) grid.Config {
	return grid.Config{
		Style:  cfg.Style,
		Width:  cfg.Width,
		Height: cfg.Height,
		Store: store.Options{
			AdditiveCapacity: cfg.AdditiveCapacity,
			SequenceCapacity: cfg.SequenceCapacity,
			Order:            order,
		},
	}
}

// ParseConfig parses a config file on top of DefaultConfig.
//
//	# comment
//	style ADD
//	size 40 20
//	brush 3
//	capacity add 900
//	capacity sequence 20
//	base #ffffff
//	@red
//	@*
func ParseConfig(content string) (Config, error) {
	cfg := DefaultConfig()
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "@") {
			if name := strings.TrimSpace(line[1:]); name != "" {
				cfg.LayerOrder = append(cfg.LayerOrder, name)
			}
			continue
		}
		if err := cfg.parseLine(strings.Fields(line)); err != nil {
			return Config{}, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return cfg, nil
}

func (cfg *Config) parseLine(f []string) error {
	switch f[0] {
	case "style":
		if len(f) != 2 {
			return fmt.Errorf("want: style SET|ADD|SEQUENCE")
		}
		s, err := grid.ParseDrawStyle(f[1])
		if err != nil {
			return err
		}
		cfg.Style = s
	case "size":
		if len(f) != 3 {
			return fmt.Errorf("want: size W H")
		}
		w, err := positive(f[1])
		if err != nil {
			return fmt.Errorf("bad width: %w", err)
		}
		h, err := positive(f[2])
		if err != nil {
			return fmt.Errorf("bad height: %w", err)
		}
		if w > MaxSide || h > MaxSide {
			return fmt.Errorf("size %dx%d exceeds %d", w, h, MaxSide)
		}
		cfg.Width, cfg.Height = w, h
	case "brush":
		if len(f) != 2 {
			return fmt.Errorf("want: brush N")
		}
		n, err := strconv.Atoi(f[1])
		if err != nil {
			return fmt.Errorf("bad brush: %w", err)
		}
		if n < grid.MinBrush || n > grid.MaxBrush {
			return fmt.Errorf("%w: got %d", grid.ErrBrushRange, n)
		}
		cfg.Brush = n
	case "capacity":
		if len(f) != 3 {
			return fmt.Errorf("want: capacity add|sequence N")
		}
		n, err := positive(f[2])
		if err != nil {
			return fmt.Errorf("bad capacity: %w", err)
		}
		switch f[1] {
		case "add", "additive":
			cfg.AdditiveCapacity = n
		case "seq", "sequence":
			cfg.SequenceCapacity = n
		default:
			return fmt.Errorf("unknown store %q", f[1])
		}
	case "base":
		if len(f) != 2 {
			return fmt.Errorf("want: base #rrggbb")
		}
		c, err := paint.ParseColor(f[1])
		if err != nil {
			return err
		}
		cfg.Base = c
	default:
		return fmt.Errorf("unknown directive %q", f[0])
	}
	return nil
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}
