package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cptaffe/paintgrid/paint"
)

// tracer returns a layer that shifts channels left and writes id into B,
// so the output of up to three layers records the order they ran in.
func tracer(name string, id uint8) *paint.Layer {
	return paint.NewLayer(name, func(c paint.Color, _ float64, _, _ int) paint.Color {
		return paint.Color{R: c.G, G: c.B, B: id}
	})
}

var (
	l1 = tracer("l1", 1)
	l2 = tracer("l2", 2)
	l3 = tracer("l3", 3)
)

func names(ls []*paint.Layer) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Name()
	}
	return out
}

func assertNames(t *testing.T, want []string, s LayerStore) {
	t.Helper()
	got := names(s.Layers())
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
}

var base = paint.Color{R: 10, G: 20, B: 30}

func TestNew(t *testing.T) {
	for _, k := range []Kind{Set, Additive, Sequence} {
		t.Run(k.String(), func(t *testing.T) {
			s, err := New(k, Options{})
			require.NoError(t, err)
			assert.Equal(t, base, s.Color(base, 0, 0, 0))
			assert.Empty(t, s.Layers())
		})
	}

	s, err := New(Additive, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultAdditiveCapacity, s.(*AdditiveStore).Cap())

	_, err = New(Kind(42), Options{})
	assert.True(t, errors.Is(err, ErrUnknownKind))
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestNewInvalidCapacity(t *testing.T) {
	_, err := NewAdditiveStore(0)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
	_, err = NewSequenceStore(paint.Order{}, -3)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
	_, err = New(Additive, Options{AdditiveCapacity: -1})
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

// ---- SetStore ----

func TestSetStoreLastAddWins(t *testing.T) {
	s := NewSetStore()
	assert.True(t, s.Add(paint.Red))
	assert.True(t, s.Add(paint.Blue))
	assert.Equal(t, paint.Color{B: 255}, s.Color(base, 0, 0, 0))
	assertNames(t, []string{"blue"}, s)
}

func TestSetStoreEraseIgnoresArgument(t *testing.T) {
	s := NewSetStore()
	s.Add(paint.Red)
	assert.True(t, s.Erase(paint.Green))
	assert.Equal(t, base, s.Color(base, 0, 0, 0))
	assert.True(t, s.Erase(nil), "erase on an empty set store still succeeds")
	assert.Empty(t, s.Layers())
}

func TestSetStoreSpecialInvertsAfterLayer(t *testing.T) {
	s := NewSetStore()
	s.Add(paint.Red)
	s.Special()
	assert.True(t, s.Inverted())
	assert.Equal(t, paint.Color{R: 0, G: 255, B: 255}, s.Color(base, 0, 0, 0))

	s.Erase(nil)
	assert.Equal(t, base.Invert(), s.Color(base, 0, 0, 0), "inversion survives erase")

	s.Special()
	assert.False(t, s.Inverted())
	assert.Equal(t, base, s.Color(base, 0, 0, 0))
}

// ---- AdditiveStore ----

func TestAdditiveStoreCapacity(t *testing.T) {
	s, err := NewAdditiveStore(3)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.True(t, s.Add(paint.Lighten))
	}
	before := s.Layers()
	assert.False(t, s.Add(paint.Red))
	assert.Equal(t, before, s.Layers())
	assert.Equal(t, 3, s.Len())
}

func TestAdditiveStoreDefaultCapacity(t *testing.T) {
	s, err := NewAdditiveStore(DefaultAdditiveCapacity)
	require.NoError(t, err)
	for i := 0; i < DefaultAdditiveCapacity; i++ {
		require.True(t, s.Add(paint.Invert), "add %d", i)
	}
	assert.False(t, s.Add(paint.Invert))
	// An even number of inversions is the identity.
	assert.Equal(t, base, s.Color(base, 0, 0, 0))
}

func TestAdditiveStoreEraseOldest(t *testing.T) {
	s, err := NewAdditiveStore(5)
	require.NoError(t, err)
	assert.False(t, s.Erase(l1), "erase on empty")

	s.Add(l1)
	s.Add(l2)
	s.Add(l1)
	assert.True(t, s.Erase(l2))
	assertNames(t, []string{"l2", "l1"}, s)
	assert.True(t, s.Erase(nil))
	assert.True(t, s.Erase(nil))
	assert.False(t, s.Erase(nil))
}

func TestAdditiveStoreAppliesOldestFirst(t *testing.T) {
	s, err := NewAdditiveStore(5)
	require.NoError(t, err)
	s.Add(l1)
	s.Add(l2)
	s.Add(l3)
	assert.Equal(t, paint.Color{R: 1, G: 2, B: 3}, s.Color(base, 0, 0, 0))
}

func TestAdditiveStoreColorDoesNotMutate(t *testing.T) {
	s, err := NewAdditiveStore(4)
	require.NoError(t, err)
	s.Add(l1)
	s.Add(l2)
	s.Erase(nil) // move head off index 0
	s.Add(l3)
	s.Add(l1)
	s.Add(l2) // wraps

	before := s.Layers()
	c1 := s.Color(base, 1, 2, 3)
	c2 := s.Color(base, 1, 2, 3)
	assert.Equal(t, c1, c2)
	assert.Equal(t, before, s.Layers())
	assertNames(t, []string{"l2", "l3", "l1", "l2"}, s)
}

func TestAdditiveStoreSpecialReverses(t *testing.T) {
	s, err := NewAdditiveStore(4)
	require.NoError(t, err)
	s.Special()
	assert.Empty(t, s.Layers(), "special on empty is a no-op")

	s.Add(l1)
	s.Add(l2)
	s.Add(l3)
	s.Special()
	assertNames(t, []string{"l3", "l2", "l1"}, s)
	assert.Equal(t, paint.Color{R: 3, G: 2, B: 1}, s.Color(base, 0, 0, 0))

	s.Special()
	assertNames(t, []string{"l1", "l2", "l3"}, s)

	// Still bounded after reversal.
	assert.True(t, s.Add(l1))
	assert.False(t, s.Add(l1))
}

func TestAdditiveStoreScenario(t *testing.T) {
	s, err := NewAdditiveStore(2)
	require.NoError(t, err)
	assert.True(t, s.Add(l1))
	assert.True(t, s.Add(l2))
	assert.False(t, s.Add(l3))
	assert.True(t, s.Erase(l3))
	assert.True(t, s.Add(l3))

	want := l3.Apply(l2.Apply(base, 7, 1, 2), 7, 1, 2)
	assert.Equal(t, want, s.Color(base, 7, 1, 2))
}

// ---- SequenceStore ----

func newSeq(t *testing.T, capacity int) *SequenceStore {
	t.Helper()
	s, err := NewSequenceStore(paint.DefaultRegistry().Order(), capacity)
	require.NoError(t, err)
	return s
}

func TestSequenceStoreSortedInsertion(t *testing.T) {
	s := newSeq(t, DefaultSequenceCapacity)
	for _, l := range []*paint.Layer{paint.Red, paint.Black, paint.Lighten, paint.Blue} {
		require.True(t, s.Add(l))
	}
	assertNames(t, []string{"black", "blue", "lighten", "red"}, s)
	// red last: the result is solid red.
	assert.Equal(t, paint.Color{R: 255}, s.Color(base, 0, 0, 0))
}

func TestSequenceStoreCustomOrder(t *testing.T) {
	s, err := NewSequenceStore(paint.NewOrder([]string{"red", "lighten"}), 5)
	require.NoError(t, err)
	s.Add(paint.Lighten)
	s.Add(paint.Red)
	assertNames(t, []string{"red", "lighten"}, s)
	assert.Equal(t, paint.Color{R: 255, G: 40, B: 40}, s.Color(base, 0, 0, 0))
}

func TestSequenceStoreRejectsDuplicateKind(t *testing.T) {
	s := newSeq(t, 5)
	assert.True(t, s.Add(paint.Red))
	assert.False(t, s.Add(paint.Red))
	assert.False(t, s.Add(paint.NewLayer("red", nil)), "identity is by name")
	assert.Equal(t, 1, s.Len())
}

func TestSequenceStoreCapacity(t *testing.T) {
	s := newSeq(t, 2)
	assert.True(t, s.Add(paint.Red))
	assert.True(t, s.Add(paint.Blue))
	assert.False(t, s.Add(paint.Green))
	assertNames(t, []string{"blue", "red"}, s)

	assert.True(t, s.Erase(paint.Red))
	assert.True(t, s.Add(paint.Green))
}

func TestSequenceStoreEraseByIdentity(t *testing.T) {
	s := newSeq(t, 5)
	assert.False(t, s.Erase(paint.Red), "erase on empty")
	s.Add(paint.Red)
	s.Add(paint.Blue)
	assert.False(t, s.Erase(paint.Green))
	assert.True(t, s.Erase(paint.NewLayer("red", nil)))
	assertNames(t, []string{"blue"}, s)
	assert.False(t, s.Erase(paint.Red))
}

func TestSequenceStoreSpecialMedian(t *testing.T) {
	tests := []struct {
		name    string
		layers  []*paint.Layer
		removed string
		left    []string
	}{
		{"single", []*paint.Layer{paint.Red}, "red", nil},
		{"odd", []*paint.Layer{paint.Red, paint.Blue, paint.Green}, "green", []string{"blue", "red"}},
		{"even", []*paint.Layer{paint.Blue, paint.Black}, "black", []string{"blue"}},
		{"even four", []*paint.Layer{paint.Sparkle, paint.Darken, paint.Invert, paint.Rainbow}, "invert", []string{"darken", "rainbow", "sparkle"}},
		{"five", []*paint.Layer{paint.Black, paint.Blue, paint.Darken, paint.Green, paint.Invert}, "darken", []string{"black", "blue", "green", "invert"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSeq(t, 10)
			for _, l := range tt.layers {
				require.True(t, s.Add(l))
			}
			require.Equal(t, tt.removed, s.Median().Name())
			s.Special()
			assert.Equal(t, len(tt.layers)-1, s.Len())
			assertNames(t, tt.left, s)
		})
	}
}

func TestSequenceStoreMedianUsesNamesNotOrder(t *testing.T) {
	// Application order puts sparkle first, but the median is by name.
	s, err := NewSequenceStore(paint.NewOrder([]string{"sparkle", "red", "black"}), 5)
	require.NoError(t, err)
	s.Add(paint.Black)
	s.Add(paint.Red)
	s.Add(paint.Sparkle)
	assertNames(t, []string{"sparkle", "red", "black"}, s)
	s.Special()
	assertNames(t, []string{"sparkle", "black"}, s)
}

func TestSequenceStoreSpecialEmpty(t *testing.T) {
	s := newSeq(t, 3)
	assert.Nil(t, s.Median())
	s.Special()
	assert.Equal(t, 0, s.Len())
}

func TestSequenceStoreSpecialRecomputes(t *testing.T) {
	s := newSeq(t, 10)
	for _, l := range []*paint.Layer{paint.Black, paint.Blue, paint.Green, paint.Red} {
		s.Add(l)
	}
	s.Special() // blue
	assertNames(t, []string{"black", "green", "red"}, s)
	s.Special() // green
	assertNames(t, []string{"black", "red"}, s)
	s.Add(paint.Lighten)
	s.Special() // lighten
	assertNames(t, []string{"black", "red"}, s)
	s.Special()
	s.Special()
	s.Special()
	assert.Equal(t, 0, s.Len())
}

func TestSequenceStoreSetInvariant(t *testing.T) {
	s := newSeq(t, DefaultSequenceCapacity)
	seq := []*paint.Layer{paint.Red, paint.Blue, paint.Red, paint.Sparkle, paint.Blue, paint.Red, paint.Black}
	for _, l := range seq {
		s.Add(l)
	}
	seen := map[string]bool{}
	for _, l := range s.Layers() {
		assert.False(t, seen[l.Name()], "duplicate %s", l.Name())
		seen[l.Name()] = true
	}
	assert.Len(t, seen, 4)
}
