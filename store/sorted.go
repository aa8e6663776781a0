package store

import "sort"

// sortedList is a bounded list kept in ascending order by cmp.  Elements
// that compare equal are treated as the same entry.
type sortedList[T any] struct {
	items []T
	cmp   func(a, b T) int
}

func newSortedList[T any](capacity int, cmp func(a, b T) int) *sortedList[T] {
	return &sortedList[T]{items: make([]T, 0, capacity), cmp: cmp}
}

func (l *sortedList[T]) Len() int   { return len(l.items) }
func (l *sortedList[T]) At(i int) T { return l.items[i] }

// search returns the insertion index for v and whether an equal element
// is already there.
func (l *sortedList[T]) search(v T) (int, bool) {
	i := sort.Search(len(l.items), func(i int) bool { return l.cmp(l.items[i], v) >= 0 })
	return i, i < len(l.items) && l.cmp(l.items[i], v) == 0
}

// Add inserts v at its sorted position.  It reports false if an equal
// element is present or the list is full.
func (l *sortedList[T]) Add(v T) bool {
	i, found := l.search(v)
	if found || len(l.items) == cap(l.items) {
		return false
	}
	l.items = append(l.items, v)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = v
	return true
}

// Remove deletes the element equal to v, if any.
func (l *sortedList[T]) Remove(v T) bool {
	i, found := l.search(v)
	if !found {
		return false
	}
	var zero T
	copy(l.items[i:], l.items[i+1:])
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	return true
}
