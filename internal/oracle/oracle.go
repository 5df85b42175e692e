// Package oracle decides whether a group of items forms a valid match and
// enumerates the valid matches in a collection.
//
// Oracles are pure: they hold no mutable state and are safe for concurrent use
// by the dealer and by hint printing.
package oracle

import "fmt"

// Oracle is the legality check consumed by the dealer.
type Oracle interface {
	// IsValidSet reports whether items form a valid match.
	IsValidSet(items []int) bool

	// FindSets returns up to limit valid matches drawn from items.
	// A limit <= 0 means no limit.
	FindSets(items []int, limit int) [][]int

	// Features returns the feature vector of every item, in order.
	Features(items []int) [][]int
}

// Cards is the classic card-feature oracle. Every item id encodes
// featureCount features, each taking one of setSize values (base-setSize
// digits of the id). A group of setSize items is valid when, for every
// feature, the values are either all equal or all distinct.
type Cards struct {
	setSize      int
	featureCount int
}

// New creates a card oracle. setSize is both the size of a match and the
// number of values per feature.
func New(setSize, featureCount int) (*Cards, error) {
	if setSize < 2 {
		return nil, fmt.Errorf("set size must be >= 2, got %d", setSize)
	}
	if featureCount < 1 {
		return nil, fmt.Errorf("feature count must be >= 1, got %d", featureCount)
	}
	return &Cards{setSize: setSize, featureCount: featureCount}, nil
}

// DeckSize returns the number of distinct items the oracle understands.
func (c *Cards) DeckSize() int {
	n := 1
	for i := 0; i < c.featureCount; i++ {
		n *= c.setSize
	}
	return n
}

// SetSize returns the number of items in a match.
func (c *Cards) SetSize() int {
	return c.setSize
}

// Features implements Oracle.
func (c *Cards) Features(items []int) [][]int {
	out := make([][]int, len(items))
	for i, item := range items {
		out[i] = c.features(item)
	}
	return out
}

func (c *Cards) features(item int) []int {
	f := make([]int, c.featureCount)
	for i := 0; i < c.featureCount; i++ {
		f[i] = item % c.setSize
		item /= c.setSize
	}
	return f
}

// IsValidSet implements Oracle.
func (c *Cards) IsValidSet(items []int) bool {
	if len(items) != c.setSize {
		return false
	}
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if item < 0 || item >= c.DeckSize() {
			return false
		}
		if _, dup := seen[item]; dup {
			return false
		}
		seen[item] = struct{}{}
	}

	features := c.Features(items)
	for f := 0; f < c.featureCount; f++ {
		values := make(map[int]struct{}, c.setSize)
		for _, vec := range features {
			values[vec[f]] = struct{}{}
		}
		if len(values) != 1 && len(values) != c.setSize {
			return false
		}
	}
	return true
}

// FindSets implements Oracle.
func (c *Cards) FindSets(items []int, limit int) [][]int {
	var found [][]int
	combo := make([]int, 0, c.setSize)

	var walk func(start int) bool
	walk = func(start int) bool {
		if len(combo) == c.setSize {
			if c.IsValidSet(combo) {
				found = append(found, append([]int(nil), combo...))
				if limit > 0 && len(found) >= limit {
					return true
				}
			}
			return false
		}
		for i := start; i <= len(items)-(c.setSize-len(combo)); i++ {
			combo = append(combo, items[i])
			if walk(i + 1) {
				return true
			}
			combo = combo[:len(combo)-1]
		}
		return false
	}
	walk(0)

	return found
}
