package store

import "github.com/cptaffe/paintgrid/paint"

// AdditiveStore applies layers in the order they were added, oldest first.
// The same layer may be present many times.  Erase undoes the oldest
// addition and Special reverses the order.
type AdditiveStore struct {
	layers *ring[*paint.Layer]
}

// NewAdditiveStore returns a store that holds at most capacity layers.
func NewAdditiveStore(capacity int) (*AdditiveStore, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	return &AdditiveStore{layers: newRing[*paint.Layer](capacity)}, nil
}

// Add appends l.  It reports false, leaving the store unchanged, when the
// store is full.
func (s *AdditiveStore) Add(l *paint.Layer) bool {
	return s.layers.Append(l)
}

// Erase removes the oldest layer whatever l is.  It reports false when the
// store is empty.
func (s *AdditiveStore) Erase(*paint.Layer) bool {
	_, ok := s.layers.Serve()
	return ok
}

func (s *AdditiveStore) Color(base paint.Color, t float64, x, y int) paint.Color {
	c := base
	for i := 0; i < s.layers.Len(); i++ {
		c = s.layers.At(i).Apply(c, t, x, y)
	}
	return c
}

// Special reverses the layer order: every layer is served onto a stack and
// popped back into the queue.
func (s *AdditiveStore) Special() {
	st := newStack[*paint.Layer](s.layers.Len())
	for s.layers.Len() > 0 {
		l, _ := s.layers.Serve()
		st.Push(l)
	}
	for st.Len() > 0 {
		l, _ := st.Pop()
		s.layers.Append(l)
	}
}

// Len returns the number of layers held.
func (s *AdditiveStore) Len() int {
	return s.layers.Len()
}

// Cap returns the store's capacity.
func (s *AdditiveStore) Cap() int {
	return s.layers.Cap()
}

func (s *AdditiveStore) Layers() []*paint.Layer {
	out := make([]*paint.Layer, s.layers.Len())
	for i := range out {
		out[i] = s.layers.At(i)
	}
	return out
}
