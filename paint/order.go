package paint

import "strings"

// Wildcard is the order entry that stands for every unlisted layer name.
const Wildcard = "*"

// Order ranks layer names.  It is built once from a list of names, highest
// priority (lowest key) first, and is read-only afterwards.
//
// Names not in the list take the key of the Wildcard entry if there is
// one, otherwise they sort after every listed name.
type Order struct {
	keys     map[string]int
	names    []string
	wildcard int
}

// NewOrder builds an Order from names.  Duplicate names keep their first
// position.
func NewOrder(names []string) Order {
	o := Order{keys: make(map[string]int, len(names)), wildcard: -1}
	for _, n := range names {
		if n == Wildcard {
			if o.wildcard < 0 {
				o.wildcard = len(o.names)
				o.names = append(o.names, n)
			}
			continue
		}
		if _, ok := o.keys[n]; ok {
			continue
		}
		o.keys[n] = len(o.names)
		o.names = append(o.names, n)
	}
	return o
}

// Key returns the sort key for name.
func (o Order) Key(name string) int {
	if k, ok := o.keys[name]; ok {
		return k
	}
	if o.wildcard >= 0 {
		return o.wildcard
	}
	return len(o.names)
}

// Names returns the listed names in order, including any wildcard entry.
func (o Order) Names() []string {
	return append([]string(nil), o.names...)
}

// Compare orders two layers by key, breaking ties by name.  It returns a
// negative number, zero or a positive number like strings.Compare.
func (o Order) Compare(a, b *Layer) int {
	ka, kb := o.Key(a.Name()), o.Key(b.Name())
	if ka != kb {
		return ka - kb
	}
	return strings.Compare(a.Name(), b.Name())
}
