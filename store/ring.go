package store

// ring is a bounded FIFO queue over a fixed backing array.  Reads index
// from head and never move elements.
type ring[T any] struct {
	buf  []T
	head int
	n    int
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{buf: make([]T, capacity)}
}

func (r *ring[T]) Len() int   { return r.n }
func (r *ring[T]) Cap() int   { return len(r.buf) }
func (r *ring[T]) Full() bool { return r.n == len(r.buf) }

// Append adds v at the tail.  It reports false if the queue is full.
func (r *ring[T]) Append(v T) bool {
	if r.Full() {
		return false
	}
	r.buf[(r.head+r.n)%len(r.buf)] = v
	r.n++
	return true
}

// Serve removes and returns the head element.
func (r *ring[T]) Serve() (T, bool) {
	var zero T
	if r.n == 0 {
		return zero, false
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.n--
	return v, true
}

// At returns the i'th element counting from the head.
func (r *ring[T]) At(i int) T {
	return r.buf[(r.head+i)%len(r.buf)]
}
