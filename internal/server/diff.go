package server

import "github.com/cptaffe/paintgrid/paint"

// diffRows finds the minimal dirty row interval [r0, r1) between two
// renders.  A change of dimensions dirties everything.
func diffRows(old, new [][]paint.Color) (r0, r1 int, changed bool) {
	if len(old) != len(new) {
		return 0, len(new), true
	}
	r0 = 0
	for r0 < len(old) && rowsEqual(old[r0], new[r0]) {
		r0++
	}
	if r0 == len(old) {
		return 0, 0, false
	}
	r1 = len(old)
	for r1 > r0 && rowsEqual(old[r1-1], new[r1-1]) {
		r1--
	}
	return r0, r1, true
}

func rowsEqual(a, b []paint.Color) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
