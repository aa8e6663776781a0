package store

import (
	"sort"

	"github.com/cptaffe/paintgrid/paint"
)

// SequenceStore holds at most one layer of each kind and applies them in
// the order given by a paint.Order, independent of insertion order.
// Special removes the layer whose name is the median of the names present.
type SequenceStore struct {
	applied *sortedList[*paint.Layer]
}

// NewSequenceStore returns a store ranking layers by order that holds at
// most capacity distinct layer kinds.
func NewSequenceStore(order paint.Order, capacity int) (*SequenceStore, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	return &SequenceStore{applied: newSortedList(capacity, order.Compare)}, nil
}

// Add inserts l at its ranked position.  Adding a kind that is already
// present, or adding to a full store, reports false and changes nothing.
func (s *SequenceStore) Add(l *paint.Layer) bool {
	return s.applied.Add(l)
}

// Erase removes the layer of l's kind, reporting whether one was present.
func (s *SequenceStore) Erase(l *paint.Layer) bool {
	return s.applied.Remove(l)
}

func (s *SequenceStore) Color(base paint.Color, t float64, x, y int) paint.Color {
	c := base
	for i := 0; i < s.applied.Len(); i++ {
		c = s.applied.At(i).Apply(c, t, x, y)
	}
	return c
}

// Special removes the layer with the median name.  With an even number of
// layers the lexicographically smaller of the two central names is chosen.
// An empty store is left alone.
func (s *SequenceStore) Special() {
	if l := s.Median(); l != nil {
		s.applied.Remove(l)
	}
}

// Median returns the layer Special would remove, or nil if the store is
// empty.
func (s *SequenceStore) Median() *paint.Layer {
	n := s.applied.Len()
	if n == 0 {
		return nil
	}
	byName := s.Layers()
	sort.Slice(byName, func(i, j int) bool { return byName[i].Name() < byName[j].Name() })
	return byName[(n-1)/2]
}

// Len returns the number of layer kinds present.
func (s *SequenceStore) Len() int {
	return s.applied.Len()
}

func (s *SequenceStore) Layers() []*paint.Layer {
	out := make([]*paint.Layer, s.applied.Len())
	for i := range out {
		out[i] = s.applied.At(i)
	}
	return out
}
