package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassic(t *testing.T) *Cards {
	o, err := New(3, 4)
	require.NoError(t, err)
	return o
}

func TestNew_RejectsBadShape(t *testing.T) {
	_, err := New(1, 4)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "set size")

	_, err = New(3, 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "feature count")
}

func TestDeckSize(t *testing.T) {
	assert.Equal(t, 81, newClassic(t).DeckSize())

	small, err := New(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 9, small.DeckSize())
}

func TestFeatures(t *testing.T) {
	o := newClassic(t)

	// 0 = 0000, 1 = 1000, 5 = 2100 (least significant feature first)
	assert.Equal(t, [][]int{{0, 0, 0, 0}, {1, 0, 0, 0}, {2, 1, 0, 0}}, o.Features([]int{0, 1, 5}))
}

func TestIsValidSet(t *testing.T) {
	o := newClassic(t)

	tests := []struct {
		name  string
		items []int
		want  bool
	}{
		{"first feature all different, rest equal", []int{0, 1, 2}, true},
		{"every feature all different", []int{0, 13, 26}, true},
		{"two equal one different", []int{0, 1, 3}, false},
		{"wrong size", []int{0, 1}, false},
		{"duplicate item", []int{0, 0, 0}, false},
		{"out of range", []int{0, 1, 81}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, o.IsValidSet(tt.items))
		})
	}
}

func TestFindSets(t *testing.T) {
	o := newClassic(t)

	t.Run("finds all sets in a small collection", func(t *testing.T) {
		sets := o.FindSets([]int{0, 1, 2, 3, 6}, 0)
		assert.ElementsMatch(t, [][]int{{0, 1, 2}, {0, 3, 6}}, sets)
	})

	t.Run("respects limit", func(t *testing.T) {
		sets := o.FindSets([]int{0, 1, 2, 3, 6}, 1)
		assert.Len(t, sets, 1)
	})

	t.Run("no sets", func(t *testing.T) {
		assert.Empty(t, o.FindSets([]int{0, 1, 3, 4}, 0))
	})

	t.Run("collection smaller than a set", func(t *testing.T) {
		assert.Empty(t, o.FindSets([]int{0, 1}, 0))
	})

	t.Run("full deck has sets", func(t *testing.T) {
		deck := make([]int, o.DeckSize())
		for i := range deck {
			deck[i] = i
		}
		// 81 cards yield 1080 distinct sets
		assert.Len(t, o.FindSets(deck, 0), 1080)
	})
}
