package paint

// ApplyFunc transforms a colour for the cell at (x, y) at time t (seconds).
type ApplyFunc func(c Color, t float64, x, y int) Color

// Layer is a named colour transform.  Layers are compared by name: two
// *Layer values with the same name are the same layer kind.
type Layer struct {
	name string
	fn   ApplyFunc
}

// NewLayer returns a layer named name that applies fn.
func NewLayer(name string, fn ApplyFunc) *Layer {
	return &Layer{name: name, fn: fn}
}

// Name returns the layer's name.
func (l *Layer) Name() string {
	return l.name
}

// Apply runs the layer's transform.  A layer with no function is the
// identity.
func (l *Layer) Apply(c Color, t float64, x, y int) Color {
	if l.fn == nil {
		return c
	}
	return l.fn(c, t, x, y)
}

// Equal reports whether l and o are the same layer kind.
func (l *Layer) Equal(o *Layer) bool {
	if l == nil || o == nil {
		return l == o
	}
	return l.name == o.name
}

func (l *Layer) String() string {
	return l.name
}
