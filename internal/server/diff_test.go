package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cptaffe/paintgrid/paint"
)

func TestDiffRows(t *testing.T) {
	w, k := paint.White, paint.Color{}
	base := [][]paint.Color{{w, w}, {w, w}, {w, w}, {w, w}}
	clone := func() [][]paint.Color {
		out := make([][]paint.Color, len(base))
		for i := range base {
			out[i] = append([]paint.Color(nil), base[i]...)
		}
		return out
	}

	_, _, changed := diffRows(base, clone())
	assert.False(t, changed)

	mid := clone()
	mid[1][0] = k
	mid[2][1] = k
	r0, r1, changed := diffRows(base, mid)
	assert.True(t, changed)
	assert.Equal(t, [2]int{1, 3}, [2]int{r0, r1})

	last := clone()
	last[3][1] = k
	r0, r1, _ = diffRows(base, last)
	assert.Equal(t, [2]int{3, 4}, [2]int{r0, r1})

	r0, r1, changed = diffRows(base, base[:2])
	assert.True(t, changed)
	assert.Equal(t, [2]int{0, 2}, [2]int{r0, r1})
}

func TestFormatAt(t *testing.T) {
	rows := [][]paint.Color{{paint.White}, {{}}, {{R: 255}}}
	assert.Equal(t, "#000000\n#ff0000\n", formatAt(rows, 1, 3))
}
