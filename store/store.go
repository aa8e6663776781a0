// Package store implements the per-cell layer stores of a paint grid.
//
// A LayerStore decides which layers are present in a cell, the order in
// which they are applied, and what erase and the store-specific special
// operation do.  Three variants exist:
//
//	SetStore       one layer at most; special toggles output inversion
//	AdditiveStore  bounded append-order multiset; special reverses order
//	SequenceStore  ordered set by layer kind; special removes the median name
//
// Stores are not safe for concurrent use.  Each is owned by exactly one
// grid cell and callers that share a grid between goroutines must
// serialize access themselves.
package store

import (
	"errors"
	"fmt"

	"github.com/cptaffe/paintgrid/paint"
)

// Default capacities.
const (
	DefaultAdditiveCapacity = 900
	DefaultSequenceCapacity = 20
)

// Sentinel construction errors.
var (
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrUnknownKind     = errors.New("unknown store kind")
)

// LayerStore is the capability shared by every store variant.
type LayerStore interface {
	// Add attempts to add l and reports whether the store changed.
	Add(l *paint.Layer) bool
	// Erase attempts to remove a layer and reports whether the store
	// changed.  Which layer is removed depends on the variant; l is not
	// consulted by every variant.
	Erase(l *paint.Layer) bool
	// Color composes base through the effective layers.  It does not
	// modify the store.
	Color(base paint.Color, t float64, x, y int) paint.Color
	// Special applies the variant's one-shot transformation.
	Special()
	// Layers returns the effective layers in application order.
	Layers() []*paint.Layer
}

// Kind selects a store variant.
type Kind int

const (
	Set Kind = iota
	Additive
	Sequence
)

func (k Kind) String() string {
	switch k {
	case Set:
		return "set"
	case Additive:
		return "additive"
	case Sequence:
		return "sequence"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Options configures New.  Zero values select the defaults.
type Options struct {
	AdditiveCapacity int
	SequenceCapacity int
	// Order ranks layers in a sequence store.  The zero Order ranks by name.
	Order paint.Order
}

// New constructs an empty store of the given kind.
func New(kind Kind, opts Options) (LayerStore, error) {
	switch kind {
	case Set:
		return NewSetStore(), nil
	case Additive:
		c := opts.AdditiveCapacity
		if c == 0 {
			c = DefaultAdditiveCapacity
		}
		return NewAdditiveStore(c)
	case Sequence:
		c := opts.SequenceCapacity
		if c == 0 {
			c = DefaultSequenceCapacity
		}
		return NewSequenceStore(opts.Order, c)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
}

func checkCapacity(c int) error {
	if c <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, c)
	}
	return nil
}
