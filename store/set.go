package store

import "github.com/cptaffe/paintgrid/paint"

// SetStore holds at most one layer.  Special toggles inversion of the
// output colour.
type SetStore struct {
	current  *paint.Layer
	inverted bool
}

func NewSetStore() *SetStore {
	return &SetStore{}
}

// Add replaces the current layer.
func (s *SetStore) Add(l *paint.Layer) bool {
	s.current = l
	return true
}

// Erase clears the current layer whatever l is.
func (s *SetStore) Erase(*paint.Layer) bool {
	s.current = nil
	return true
}

func (s *SetStore) Color(base paint.Color, t float64, x, y int) paint.Color {
	c := base
	if s.current != nil {
		c = s.current.Apply(c, t, x, y)
	}
	if s.inverted {
		c = c.Invert()
	}
	return c
}

func (s *SetStore) Special() {
	s.inverted = !s.inverted
}

// Inverted reports whether output inversion is on.
func (s *SetStore) Inverted() bool {
	return s.inverted
}

func (s *SetStore) Layers() []*paint.Layer {
	if s.current == nil {
		return nil
	}
	return []*paint.Layer{s.current}
}
