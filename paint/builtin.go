package paint

import (
	"fmt"
	"math"
	"sort"
)

// Built-in layers.
var (
	Black   = NewLayer("black", solid(Color{0, 0, 0}))
	Blue    = NewLayer("blue", solid(Color{0, 0, 255}))
	Green   = NewLayer("green", solid(Color{0, 255, 0}))
	Red     = NewLayer("red", solid(Color{255, 0, 0}))
	Darken  = NewLayer("darken", shift(-40))
	Lighten = NewLayer("lighten", shift(40))
	Invert  = NewLayer("invert", func(c Color, _ float64, _, _ int) Color { return c.Invert() })
	Rainbow = NewLayer("rainbow", rainbow)
	Sparkle = NewLayer("sparkle", sparkle)
)

// Builtins returns the built-in layers sorted by name.
func Builtins() []*Layer {
	return []*Layer{Black, Blue, Darken, Green, Invert, Lighten, Rainbow, Red, Sparkle}
}

func solid(c Color) ApplyFunc {
	return func(Color, float64, int, int) Color { return c }
}

func shift(d int) ApplyFunc {
	return func(c Color, _ float64, _, _ int) Color {
		return Color{clamp(int(c.R) + d), clamp(int(c.G) + d), clamp(int(c.B) + d)}
	}
}

// rainbow sweeps hue diagonally across the grid, advancing with time.
func rainbow(_ Color, t float64, x, y int) Color {
	h := math.Mod(float64(x+y)/16+t/4, 1)
	if h < 0 {
		h++
	}
	return hsv(h, 1, 1)
}

// sparkle blacks out roughly one cell in five, reshuffled four times a
// second.
func sparkle(c Color, t float64, x, y int) Color {
	tick := int64(math.Floor(t * 4))
	h := uint64(x)*73856093 ^ uint64(y)*19349663 ^ uint64(tick)*83492791
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	if h%5 == 0 {
		return Color{}
	}
	return c
}

// hsv converts h, s, v in [0, 1] to RGB.
func hsv(h, s, v float64) Color {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	u := v * (1 - (1-f)*s)
	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, u, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, u
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = u, p, v
	default:
		r, g, b = v, p, q
	}
	return Color{clamp(int(math.Round(r * 255))), clamp(int(math.Round(g * 255))), clamp(int(math.Round(b * 255)))}
}

// Registry resolves layer names and carries the order table used by
// sequence stores.  It is read-only after NewRegistry returns.
type Registry struct {
	layers map[string]*Layer
	order  Order
}

// NewRegistry returns a registry holding layers.  If order is empty the
// layers are ranked by name.
func NewRegistry(layers []*Layer, order []string) (*Registry, error) {
	r := &Registry{layers: make(map[string]*Layer, len(layers))}
	for _, l := range layers {
		if l == nil || l.Name() == "" {
			return nil, fmt.Errorf("layer with empty name")
		}
		if _, ok := r.layers[l.Name()]; ok {
			return nil, fmt.Errorf("duplicate layer %q", l.Name())
		}
		r.layers[l.Name()] = l
	}
	if len(order) == 0 {
		for name := range r.layers {
			order = append(order, name)
		}
		sort.Strings(order)
	}
	r.order = NewOrder(order)
	return r, nil
}

// DefaultRegistry returns a registry of the built-in layers in name order.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Builtins(), nil)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the layer called name.
func (r *Registry) Lookup(name string) (*Layer, bool) {
	l, ok := r.layers[name]
	return l, ok
}

// Order returns the registry's order table.
func (r *Registry) Order() Order {
	return r.order
}

// Layers returns every registered layer sorted by the order table.
func (r *Registry) Layers() []*Layer {
	out := make([]*Layer, 0, len(r.layers))
	for _, l := range r.layers {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return r.order.Compare(out[i], out[j]) < 0 })
	return out
}
